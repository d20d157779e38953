package offboardinghandler

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5"

	"peopledesk/internal/domain/audit"
	"peopledesk/internal/domain/auth"
	"peopledesk/internal/domain/offboarding"
	"peopledesk/internal/transport/http/api"
	"peopledesk/internal/transport/http/middleware"
	"peopledesk/internal/transport/http/shared"
)

type Handler struct {
	Service *offboarding.Service
	Audit   *audit.Service
	Perm    func(permission string) func(http.Handler) http.Handler
}

func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.With(h.Perm(auth.PermOffboardingRead)).Get("/cases", h.listCases)
	r.With(h.Perm(auth.PermOffboardingRead)).Get("/cases/{id}", h.getCase)
	r.With(h.Perm(auth.PermOffboardingWrite)).Post("/cases", h.openCase)
	r.With(h.Perm(auth.PermOffboardingWrite)).Put("/cases/{id}/checklist/{itemId}", h.setChecklistItem)
	r.With(h.Perm(auth.PermOffboardingWrite)).Post("/cases/{id}/complete", h.completeCase)
	r.With(h.Perm(auth.PermOffboardingWrite)).Post("/cases/{id}/cancel", h.cancelCase)

	return r
}

func (h *Handler) listCases(w http.ResponseWriter, r *http.Request) {
	cases, err := h.Service.Cases(r.Context(), r.URL.Query().Get("status"))
	if err != nil {
		api.Fail(w, r, http.StatusInternalServerError, "failed to list offboarding cases")
		return
	}
	api.Success(w, r, cases)
}

func (h *Handler) getCase(w http.ResponseWriter, r *http.Request) {
	c, err := h.Service.Case(r.Context(), chi.URLParam(r, "id"))
	if errors.Is(err, pgx.ErrNoRows) {
		api.Fail(w, r, http.StatusNotFound, "offboarding case not found")
		return
	}
	if err != nil {
		api.Fail(w, r, http.StatusInternalServerError, "failed to load offboarding case")
		return
	}
	api.Success(w, r, c)
}

func (h *Handler) openCase(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())

	var body struct {
		EmployeeID string `json:"employeeId"`
		Reason     string `json:"reason"`
		LastDay    string `json:"lastDay"`
	}
	if err := shared.DecodeJSON(r, &body); err != nil {
		api.Fail(w, r, http.StatusBadRequest, err.Error())
		return
	}
	if body.EmployeeID == "" {
		api.Fail(w, r, http.StatusBadRequest, "employee id is required")
		return
	}
	lastDay, err := shared.ParseDate(body.LastDay)
	if err != nil {
		api.Fail(w, r, http.StatusBadRequest, err.Error())
		return
	}

	c, err := h.Service.Open(r.Context(), body.EmployeeID, body.Reason, lastDay, user.UserID)
	if err != nil {
		api.Fail(w, r, http.StatusConflict, err.Error())
		return
	}
	h.audit(r, "offboarding_opened", c.ID)
	api.Created(w, r, c)
}

func (h *Handler) setChecklistItem(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())

	var body struct {
		Done bool `json:"done"`
	}
	if err := shared.DecodeJSON(r, &body); err != nil {
		api.Fail(w, r, http.StatusBadRequest, err.Error())
		return
	}

	c, err := h.Service.SetChecklistItem(r.Context(), chi.URLParam(r, "id"),
		chi.URLParam(r, "itemId"), user.UserID, body.Done)
	if errors.Is(err, offboarding.ErrCaseNotOpen) {
		api.Fail(w, r, http.StatusConflict, "case is not open")
		return
	}
	if err != nil {
		api.Fail(w, r, http.StatusInternalServerError, "failed to update checklist")
		return
	}
	api.Success(w, r, c)
}

func (h *Handler) completeCase(w http.ResponseWriter, r *http.Request) {
	c, err := h.Service.Complete(r.Context(), chi.URLParam(r, "id"))
	switch {
	case errors.Is(err, offboarding.ErrCaseNotOpen):
		api.Fail(w, r, http.StatusConflict, "case is not open")
	case errors.Is(err, offboarding.ErrChecklistPending):
		api.Fail(w, r, http.StatusConflict, err.Error())
	case errors.Is(err, pgx.ErrNoRows):
		api.Fail(w, r, http.StatusNotFound, "offboarding case not found")
	case err != nil:
		api.Fail(w, r, http.StatusInternalServerError, "failed to complete offboarding")
	default:
		h.audit(r, "offboarding_completed", c.ID)
		api.Success(w, r, c)
	}
}

func (h *Handler) cancelCase(w http.ResponseWriter, r *http.Request) {
	c, err := h.Service.Cancel(r.Context(), chi.URLParam(r, "id"))
	if errors.Is(err, offboarding.ErrCaseNotOpen) {
		api.Fail(w, r, http.StatusConflict, "case is not open")
		return
	}
	if err != nil {
		api.Fail(w, r, http.StatusInternalServerError, "failed to cancel offboarding")
		return
	}
	h.audit(r, "offboarding_cancelled", c.ID)
	api.Success(w, r, c)
}

func (h *Handler) audit(r *http.Request, action, entityID string) {
	user, _ := middleware.GetUser(r.Context())
	h.Audit.Record(r.Context(), user.UserID, action, "offboarding_case", entityID, nil)
}
