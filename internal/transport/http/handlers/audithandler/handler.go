package audithandler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"peopledesk/internal/domain/audit"
	"peopledesk/internal/domain/auth"
	"peopledesk/internal/transport/http/api"
	"peopledesk/internal/transport/http/shared"
)

type Handler struct {
	Service *audit.Service
	Perm    func(permission string) func(http.Handler) http.Handler
}

func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.With(h.Perm(auth.PermAuditRead)).Get("/events", h.listEvents)
	return r
}

func (h *Handler) listEvents(w http.ResponseWriter, r *http.Request) {
	limit, offset := shared.Pagination(r)
	events, err := h.Service.List(r.Context(), audit.Filter{
		ActorID: r.URL.Query().Get("actorId"),
		Entity:  r.URL.Query().Get("entity"),
		Action:  r.URL.Query().Get("action"),
	}, limit, offset)
	if err != nil {
		api.Fail(w, r, http.StatusInternalServerError, "failed to list audit events")
		return
	}
	api.Success(w, r, events)
}
