package leavehandler

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5"

	"peopledesk/internal/domain/audit"
	"peopledesk/internal/domain/auth"
	"peopledesk/internal/domain/core"
	"peopledesk/internal/domain/leave"
	"peopledesk/internal/transport/http/api"
	"peopledesk/internal/transport/http/middleware"
	"peopledesk/internal/transport/http/shared"
)

type Handler struct {
	Service *leave.Service
	Core    *core.Store
	Audit   *audit.Service
	Perm    func(permission string) func(http.Handler) http.Handler
}

func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.With(h.Perm(auth.PermLeaveRead)).Get("/balances", h.myBalances)
	r.With(h.Perm(auth.PermLeaveApprove)).Get("/balances/{employeeId}", h.employeeBalances)

	r.With(h.Perm(auth.PermLeaveRead)).Get("/requests", h.listRequests)
	r.With(h.Perm(auth.PermLeaveWrite)).Post("/requests", h.createRequest)
	r.With(h.Perm(auth.PermLeaveApprove)).Post("/requests/{id}/approve", h.approveRequest)
	r.With(h.Perm(auth.PermLeaveApprove)).Post("/requests/{id}/reject", h.rejectRequest)
	r.With(h.Perm(auth.PermLeaveWrite)).Post("/requests/{id}/cancel", h.cancelRequest)

	r.With(h.Perm(auth.PermSystemAdmin)).Post("/accrual/run", h.runAccrual)

	return r
}

// employeeID resolves the acting user to their employee record.
func (h *Handler) employeeID(r *http.Request) (string, error) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		return "", errors.New("authentication required")
	}
	return h.Core.EmployeeIDByUserID(r.Context(), user.UserID)
}

func (h *Handler) myBalances(w http.ResponseWriter, r *http.Request) {
	employeeID, err := h.employeeID(r)
	if err != nil {
		api.Fail(w, r, http.StatusNotFound, "no employee record for this account")
		return
	}
	balances, err := h.Service.Balances(r.Context(), employeeID)
	if err != nil {
		api.Fail(w, r, http.StatusInternalServerError, "failed to load balances")
		return
	}
	api.Success(w, r, balances)
}

func (h *Handler) employeeBalances(w http.ResponseWriter, r *http.Request) {
	balances, err := h.Service.Balances(r.Context(), chi.URLParam(r, "employeeId"))
	if err != nil {
		api.Fail(w, r, http.StatusInternalServerError, "failed to load balances")
		return
	}
	api.Success(w, r, balances)
}

// listRequests scopes by role: employees see their own, department
// managers their reports, HR and admin everything.
func (h *Handler) listRequests(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	filter := leave.RequestFilter{Status: r.URL.Query().Get("status")}

	switch {
	case auth.PrivilegedRole(user.RoleName):
		if employeeID := r.URL.Query().Get("employeeId"); employeeID != "" {
			filter.EmployeeID = employeeID
		}
	case user.RoleName == auth.RoleManager:
		employeeID, err := h.employeeID(r)
		if err != nil {
			api.Fail(w, r, http.StatusNotFound, "no employee record for this account")
			return
		}
		filter.ManagerID = employeeID
	default:
		employeeID, err := h.employeeID(r)
		if err != nil {
			api.Fail(w, r, http.StatusNotFound, "no employee record for this account")
			return
		}
		filter.EmployeeID = employeeID
	}

	requests, err := h.Service.Requests(r.Context(), filter)
	if err != nil {
		api.Fail(w, r, http.StatusInternalServerError, "failed to list leave requests")
		return
	}
	api.Success(w, r, requests)
}

func (h *Handler) createRequest(w http.ResponseWriter, r *http.Request) {
	employeeID, err := h.employeeID(r)
	if err != nil {
		api.Fail(w, r, http.StatusNotFound, "no employee record for this account")
		return
	}

	var body struct {
		LeaveType string `json:"leaveType"`
		StartDate string `json:"startDate"`
		EndDate   string `json:"endDate"`
		StartHalf bool   `json:"startHalf"`
		EndHalf   bool   `json:"endHalf"`
		Reason    string `json:"reason"`
	}
	if err := shared.DecodeJSON(r, &body); err != nil {
		api.Fail(w, r, http.StatusBadRequest, err.Error())
		return
	}
	start, err := shared.ParseDate(body.StartDate)
	if err != nil {
		api.Fail(w, r, http.StatusBadRequest, err.Error())
		return
	}
	end, err := shared.ParseDate(body.EndDate)
	if err != nil {
		api.Fail(w, r, http.StatusBadRequest, err.Error())
		return
	}

	request, err := h.Service.CreateRequest(r.Context(), employeeID, leave.CreateRequestInput{
		LeaveType: body.LeaveType,
		StartDate: start,
		EndDate:   end,
		StartHalf: body.StartHalf,
		EndHalf:   body.EndHalf,
		Reason:    body.Reason,
	})
	if err != nil {
		h.failFromError(w, r, err, "failed to create leave request")
		return
	}
	h.audit(r, "leave_request_created", request.ID)
	api.Created(w, r, request)
}

func (h *Handler) approveRequest(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	var body struct {
		Comments string `json:"comments"`
	}
	_ = shared.DecodeJSON(r, &body)

	request, err := h.Service.Approve(r.Context(), chi.URLParam(r, "id"), user, body.Comments)
	if err != nil {
		h.failFromError(w, r, err, "failed to approve leave request")
		return
	}
	h.audit(r, "leave_request_approved", request.ID)
	api.Success(w, r, request)
}

func (h *Handler) rejectRequest(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	var body struct {
		Comments string `json:"comments"`
	}
	_ = shared.DecodeJSON(r, &body)

	request, err := h.Service.Reject(r.Context(), chi.URLParam(r, "id"), user, body.Comments)
	if err != nil {
		h.failFromError(w, r, err, "failed to reject leave request")
		return
	}
	h.audit(r, "leave_request_rejected", request.ID)
	api.Success(w, r, request)
}

func (h *Handler) cancelRequest(w http.ResponseWriter, r *http.Request) {
	employeeID, err := h.employeeID(r)
	if err != nil {
		api.Fail(w, r, http.StatusNotFound, "no employee record for this account")
		return
	}
	request, err := h.Service.Cancel(r.Context(), chi.URLParam(r, "id"), employeeID)
	if err != nil {
		h.failFromError(w, r, err, "failed to cancel leave request")
		return
	}
	h.audit(r, "leave_request_cancelled", request.ID)
	api.Success(w, r, request)
}

func (h *Handler) runAccrual(w http.ResponseWriter, r *http.Request) {
	summary, err := h.Service.RunAccrual(r.Context())
	if err != nil {
		api.Fail(w, r, http.StatusInternalServerError, err.Error())
		return
	}
	h.audit(r, "leave_accrual_run", "")
	api.Success(w, r, map[string]int{
		"employeesProcessed": summary.EmployeesProcessed,
		"employeesAccrued":   summary.EmployeesAccrued,
	})
}

func (h *Handler) failFromError(w http.ResponseWriter, r *http.Request, err error, fallback string) {
	var insufficient *leave.InsufficientBalanceError
	switch {
	case errors.As(err, &insufficient):
		api.Fail(w, r, http.StatusUnprocessableEntity, insufficient.Error())
	case errors.Is(err, leave.ErrInvalidState):
		api.Fail(w, r, http.StatusConflict, err.Error())
	case errors.Is(err, leave.ErrForbidden):
		api.Fail(w, r, http.StatusForbidden, "not allowed to act on this request")
	case errors.Is(err, pgx.ErrNoRows):
		api.Fail(w, r, http.StatusNotFound, "leave request not found")
	default:
		api.Fail(w, r, http.StatusInternalServerError, fallback)
	}
}

func (h *Handler) audit(r *http.Request, action, entityID string) {
	user, _ := middleware.GetUser(r.Context())
	h.Audit.Record(r.Context(), user.UserID, action, "leave_request", entityID, nil)
}
