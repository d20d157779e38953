package reportshandler

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"peopledesk/internal/domain/auth"
	"peopledesk/internal/domain/reports"
	"peopledesk/internal/transport/http/api"
	"peopledesk/internal/transport/http/shared"
)

type Handler struct {
	Service *reports.Service
	Perm    func(permission string) func(http.Handler) http.Handler
}

func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(h.Perm(auth.PermReportsRead))

	r.Get("/headcount", h.headcount)
	r.Get("/leave-balances", h.leaveBalances)
	r.Get("/compliance-status", h.complianceStatus)
	r.Get("/compliance.pdf", h.compliancePDF)
	r.Get("/attendance.csv", h.attendanceCSV)

	return r
}

func (h *Handler) headcount(w http.ResponseWriter, r *http.Request) {
	rows, err := h.Service.Headcount(r.Context())
	if err != nil {
		api.Fail(w, r, http.StatusInternalServerError, "failed to build headcount report")
		return
	}
	api.Success(w, r, rows)
}

func (h *Handler) leaveBalances(w http.ResponseWriter, r *http.Request) {
	rows, err := h.Service.LeaveBalanceSummary(r.Context())
	if err != nil {
		api.Fail(w, r, http.StatusInternalServerError, "failed to build leave balance report")
		return
	}
	api.Success(w, r, rows)
}

func (h *Handler) complianceStatus(w http.ResponseWriter, r *http.Request) {
	rows, err := h.Service.ComplianceStatusCounts(r.Context())
	if err != nil {
		api.Fail(w, r, http.StatusInternalServerError, "failed to build compliance report")
		return
	}
	api.Success(w, r, rows)
}

func (h *Handler) compliancePDF(w http.ResponseWriter, r *http.Request) {
	horizon := 90
	if v := r.URL.Query().Get("horizonDays"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 365 {
			horizon = n
		}
	}
	pdf, err := h.Service.CompliancePDF(r.Context(), horizon)
	if err != nil {
		api.Fail(w, r, http.StatusInternalServerError, "failed to render compliance report")
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="compliance-report.pdf"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(pdf)
}

func (h *Handler) attendanceCSV(w http.ResponseWriter, r *http.Request) {
	employeeID := r.URL.Query().Get("employeeId")
	if employeeID == "" {
		api.Fail(w, r, http.StatusBadRequest, "employeeId is required")
		return
	}
	from, err := shared.ParseDate(r.URL.Query().Get("from"))
	if err != nil {
		api.Fail(w, r, http.StatusBadRequest, err.Error())
		return
	}
	to, err := shared.ParseDate(r.URL.Query().Get("to"))
	if err != nil {
		api.Fail(w, r, http.StatusBadRequest, err.Error())
		return
	}

	csvData, err := h.Service.AttendanceCSV(r.Context(), employeeID, from, to.AddDate(0, 0, 1))
	if err != nil {
		api.Fail(w, r, http.StatusInternalServerError, "failed to render attendance export")
		return
	}
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="attendance.csv"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(csvData)
}
