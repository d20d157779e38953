package attendancehandler

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"peopledesk/internal/domain/attendance"
	"peopledesk/internal/domain/auth"
	"peopledesk/internal/domain/core"
	"peopledesk/internal/transport/http/api"
	"peopledesk/internal/transport/http/middleware"
	"peopledesk/internal/transport/http/shared"
)

type Handler struct {
	Service *attendance.Service
	Core    *core.Store
	Perm    func(permission string) func(http.Handler) http.Handler
}

func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.With(h.Perm(auth.PermAttendanceWrite)).Post("/clock-in", h.clockIn)
	r.With(h.Perm(auth.PermAttendanceWrite)).Post("/clock-out", h.clockOut)
	r.With(h.Perm(auth.PermAttendanceRead)).Get("/entries", h.entries)
	r.With(h.Perm(auth.PermAttendanceRead)).Get("/summary", h.summary)

	return r
}

func (h *Handler) employeeID(w http.ResponseWriter, r *http.Request) (string, bool) {
	user, _ := middleware.GetUser(r.Context())
	employeeID, err := h.Core.EmployeeIDByUserID(r.Context(), user.UserID)
	if err != nil {
		api.Fail(w, r, http.StatusNotFound, "no employee record for this account")
		return "", false
	}
	return employeeID, true
}

func (h *Handler) clockIn(w http.ResponseWriter, r *http.Request) {
	employeeID, ok := h.employeeID(w, r)
	if !ok {
		return
	}
	var body struct {
		Notes string `json:"notes"`
	}
	_ = shared.DecodeJSON(r, &body)

	entry, err := h.Service.ClockIn(r.Context(), employeeID, body.Notes)
	if errors.Is(err, attendance.ErrAlreadyClockedIn) {
		api.Fail(w, r, http.StatusConflict, "already clocked in")
		return
	}
	if err != nil {
		api.Fail(w, r, http.StatusInternalServerError, "failed to clock in")
		return
	}
	api.Created(w, r, entry)
}

func (h *Handler) clockOut(w http.ResponseWriter, r *http.Request) {
	employeeID, ok := h.employeeID(w, r)
	if !ok {
		return
	}
	entry, err := h.Service.ClockOut(r.Context(), employeeID)
	if errors.Is(err, attendance.ErrNotClockedIn) {
		api.Fail(w, r, http.StatusConflict, "not clocked in")
		return
	}
	if err != nil {
		api.Fail(w, r, http.StatusInternalServerError, "failed to clock out")
		return
	}
	api.Success(w, r, entry)
}

// dateRange defaults to the current month.
func dateRange(r *http.Request) (time.Time, time.Time, error) {
	now := time.Now().UTC()
	from := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 1, 0)

	if v := r.URL.Query().Get("from"); v != "" {
		parsed, err := shared.ParseDate(v)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
		from = parsed
	}
	if v := r.URL.Query().Get("to"); v != "" {
		parsed, err := shared.ParseDate(v)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
		to = parsed.AddDate(0, 0, 1)
	}
	return from, to, nil
}

// targetEmployee lets privileged roles read another employee's
// attendance via ?employeeId=.
func (h *Handler) targetEmployee(w http.ResponseWriter, r *http.Request) (string, bool) {
	requested := r.URL.Query().Get("employeeId")
	if requested == "" {
		return h.employeeID(w, r)
	}
	user, _ := middleware.GetUser(r.Context())
	if !auth.PrivilegedRole(user.RoleName) {
		api.Fail(w, r, http.StatusForbidden, "cannot read another employee's attendance")
		return "", false
	}
	return requested, true
}

func (h *Handler) entries(w http.ResponseWriter, r *http.Request) {
	employeeID, ok := h.targetEmployee(w, r)
	if !ok {
		return
	}
	from, to, err := dateRange(r)
	if err != nil {
		api.Fail(w, r, http.StatusBadRequest, err.Error())
		return
	}
	entries, err := h.Service.Entries(r.Context(), employeeID, from, to)
	if err != nil {
		api.Fail(w, r, http.StatusInternalServerError, "failed to list attendance")
		return
	}
	api.Success(w, r, entries)
}

func (h *Handler) summary(w http.ResponseWriter, r *http.Request) {
	employeeID, ok := h.targetEmployee(w, r)
	if !ok {
		return
	}
	from, to, err := dateRange(r)
	if err != nil {
		api.Fail(w, r, http.StatusBadRequest, err.Error())
		return
	}
	total, err := h.Service.TotalHours(r.Context(), employeeID, from, to)
	if err != nil {
		api.Fail(w, r, http.StatusInternalServerError, "failed to compute hours")
		return
	}
	api.Success(w, r, map[string]any{
		"employeeId": employeeID,
		"from":       from.Format("2006-01-02"),
		"to":         to.AddDate(0, 0, -1).Format("2006-01-02"),
		"totalHours": total,
	})
}
