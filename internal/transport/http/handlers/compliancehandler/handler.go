package compliancehandler

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5"

	"peopledesk/internal/domain/audit"
	"peopledesk/internal/domain/auth"
	"peopledesk/internal/domain/compliance"
	"peopledesk/internal/transport/http/api"
	"peopledesk/internal/transport/http/middleware"
	"peopledesk/internal/transport/http/shared"
)

type Handler struct {
	Service *compliance.Service
	Sweeper *compliance.Sweeper
	Audit   *audit.Service
	Perm    func(permission string) func(http.Handler) http.Handler
}

func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.With(h.Perm(auth.PermComplianceRead)).Get("/items", h.listItems)
	r.With(h.Perm(auth.PermComplianceRead)).Get("/items/{id}", h.getItem)
	r.With(h.Perm(auth.PermComplianceWrite)).Post("/items", h.createItem)
	r.With(h.Perm(auth.PermComplianceWrite)).Put("/items/{id}", h.updateItem)
	r.With(h.Perm(auth.PermComplianceWrite)).Delete("/items/{id}", h.deleteItem)
	r.With(h.Perm(auth.PermComplianceSweep)).Post("/sweep", h.runSweep)

	return r
}

func (h *Handler) listItems(w http.ResponseWriter, r *http.Request) {
	items, err := h.Service.Items(r.Context(), compliance.ItemFilter{
		EmployeeID: r.URL.Query().Get("employeeId"),
		Status:     r.URL.Query().Get("status"),
		Kind:       r.URL.Query().Get("kind"),
	})
	if err != nil {
		api.Fail(w, r, http.StatusInternalServerError, "failed to list compliance items")
		return
	}
	api.Success(w, r, items)
}

func (h *Handler) getItem(w http.ResponseWriter, r *http.Request) {
	item, err := h.Service.Item(r.Context(), chi.URLParam(r, "id"))
	if errors.Is(err, pgx.ErrNoRows) {
		api.Fail(w, r, http.StatusNotFound, "compliance item not found")
		return
	}
	if err != nil {
		api.Fail(w, r, http.StatusInternalServerError, "failed to load compliance item")
		return
	}
	api.Success(w, r, item)
}

type itemBody struct {
	EmployeeID     string `json:"employeeId"`
	Kind           string `json:"kind"`
	Name           string `json:"name"`
	IssuedBy       string `json:"issuedBy"`
	IssueDate      string `json:"issueDate"`
	ExpirationDate string `json:"expirationDate"`
	Status         string `json:"status"`
	Notes          string `json:"notes"`
}

func (b itemBody) toItem() (compliance.Item, error) {
	issue, err := shared.ParseOptionalDate(b.IssueDate)
	if err != nil {
		return compliance.Item{}, err
	}
	expiration, err := shared.ParseOptionalDate(b.ExpirationDate)
	if err != nil {
		return compliance.Item{}, err
	}
	return compliance.Item{
		EmployeeID:     b.EmployeeID,
		Kind:           b.Kind,
		Name:           b.Name,
		IssuedBy:       b.IssuedBy,
		IssueDate:      issue,
		ExpirationDate: expiration,
		Status:         b.Status,
		Notes:          b.Notes,
	}, nil
}

func (h *Handler) createItem(w http.ResponseWriter, r *http.Request) {
	var body itemBody
	if err := shared.DecodeJSON(r, &body); err != nil {
		api.Fail(w, r, http.StatusBadRequest, err.Error())
		return
	}
	item, err := body.toItem()
	if err != nil {
		api.Fail(w, r, http.StatusBadRequest, err.Error())
		return
	}
	created, err := h.Service.CreateItem(r.Context(), item)
	if err != nil {
		api.Fail(w, r, http.StatusBadRequest, err.Error())
		return
	}
	h.audit(r, "compliance_item_created", created.ID)
	api.Created(w, r, created)
}

func (h *Handler) updateItem(w http.ResponseWriter, r *http.Request) {
	var body itemBody
	if err := shared.DecodeJSON(r, &body); err != nil {
		api.Fail(w, r, http.StatusBadRequest, err.Error())
		return
	}
	item, err := body.toItem()
	if err != nil {
		api.Fail(w, r, http.StatusBadRequest, err.Error())
		return
	}
	item.ID = chi.URLParam(r, "id")
	updated, err := h.Service.UpdateItem(r.Context(), item)
	if errors.Is(err, pgx.ErrNoRows) {
		api.Fail(w, r, http.StatusNotFound, "compliance item not found")
		return
	}
	if err != nil {
		api.Fail(w, r, http.StatusBadRequest, err.Error())
		return
	}
	h.audit(r, "compliance_item_updated", item.ID)
	api.Success(w, r, updated)
}

func (h *Handler) deleteItem(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.Service.DeleteItem(r.Context(), id); err != nil {
		api.Fail(w, r, http.StatusInternalServerError, "failed to delete compliance item")
		return
	}
	h.audit(r, "compliance_item_deleted", id)
	api.NoContent(w, r)
}

// runSweep triggers the expiration sweep on demand, outside its
// schedule.
func (h *Handler) runSweep(w http.ResponseWriter, r *http.Request) {
	summary, err := h.Sweeper.SweepExpirations(r.Context(), time.Now())
	if err != nil {
		api.Fail(w, r, http.StatusInternalServerError, "sweep failed")
		return
	}
	h.audit(r, "compliance_sweep_run", "")
	api.Success(w, r, summary)
}

func (h *Handler) audit(r *http.Request, action, entityID string) {
	user, _ := middleware.GetUser(r.Context())
	h.Audit.Record(r.Context(), user.UserID, action, "compliance_item", entityID, nil)
}
