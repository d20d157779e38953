package notificationshandler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"peopledesk/internal/domain/notifications"
	"peopledesk/internal/transport/http/api"
	"peopledesk/internal/transport/http/middleware"
	"peopledesk/internal/transport/http/shared"
)

// Notifications are personal: every route acts on the authenticated
// user's own feed, so no extra permission gate is needed.
type Handler struct {
	Service *notifications.Service
}

func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.list)
	r.Get("/unread-count", h.unreadCount)
	r.Post("/{id}/read", h.markRead)
	r.Post("/read-all", h.markAllRead)
	return r
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	limit, _ := shared.Pagination(r)
	unreadOnly := r.URL.Query().Get("unread") == "true"

	items, err := h.Service.List(r.Context(), user.UserID, unreadOnly, limit)
	if err != nil {
		api.Fail(w, r, http.StatusInternalServerError, "failed to list notifications")
		return
	}
	api.Success(w, r, items)
}

func (h *Handler) unreadCount(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	count, err := h.Service.UnreadCount(r.Context(), user.UserID)
	if err != nil {
		api.Fail(w, r, http.StatusInternalServerError, "failed to count notifications")
		return
	}
	api.Success(w, r, map[string]int{"unread": count})
}

func (h *Handler) markRead(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	if err := h.Service.MarkRead(r.Context(), user.UserID, chi.URLParam(r, "id")); err != nil {
		api.Fail(w, r, http.StatusInternalServerError, "failed to mark notification read")
		return
	}
	api.NoContent(w, r)
}

func (h *Handler) markAllRead(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	if err := h.Service.MarkAllRead(r.Context(), user.UserID); err != nil {
		api.Fail(w, r, http.StatusInternalServerError, "failed to mark notifications read")
		return
	}
	api.NoContent(w, r)
}
