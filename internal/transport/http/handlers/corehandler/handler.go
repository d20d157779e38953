package corehandler

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5"

	"peopledesk/internal/domain/audit"
	"peopledesk/internal/domain/auth"
	"peopledesk/internal/domain/core"
	"peopledesk/internal/transport/http/api"
	"peopledesk/internal/transport/http/middleware"
	"peopledesk/internal/transport/http/shared"
)

type Handler struct {
	Store *core.Store
	Audit *audit.Service
	Perm  func(permission string) func(http.Handler) http.Handler
}

func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.With(h.Perm(auth.PermEmployeesRead)).Get("/employees", h.listEmployees)
	r.With(h.Perm(auth.PermEmployeesRead)).Get("/employees/{id}", h.getEmployee)
	r.With(h.Perm(auth.PermEmployeesWrite)).Post("/employees", h.createEmployee)
	r.With(h.Perm(auth.PermEmployeesWrite)).Put("/employees/{id}", h.updateEmployee)
	r.With(h.Perm(auth.PermEmployeesWrite)).Delete("/employees/{id}", h.deleteEmployee)

	r.With(h.Perm(auth.PermOrgRead)).Get("/departments", h.listDepartments)
	r.With(h.Perm(auth.PermOrgWrite)).Post("/departments", h.createDepartment)
	r.With(h.Perm(auth.PermOrgWrite)).Put("/departments/{id}", h.updateDepartment)
	r.With(h.Perm(auth.PermOrgWrite)).Delete("/departments/{id}", h.deleteDepartment)

	return r
}

func (h *Handler) listEmployees(w http.ResponseWriter, r *http.Request) {
	limit, offset := shared.Pagination(r)
	filter := core.EmployeeFilter{
		DepartmentID: r.URL.Query().Get("departmentId"),
		Status:       r.URL.Query().Get("status"),
		Search:       r.URL.Query().Get("search"),
	}
	employees, total, err := h.Store.ListEmployees(r.Context(), filter, limit, offset)
	if err != nil {
		api.Fail(w, r, http.StatusInternalServerError, "failed to list employees")
		return
	}
	api.Success(w, r, map[string]any{
		"employees": employees,
		"total":     total,
		"limit":     limit,
		"offset":    offset,
	})
}

func (h *Handler) getEmployee(w http.ResponseWriter, r *http.Request) {
	employee, err := h.Store.GetEmployee(r.Context(), chi.URLParam(r, "id"))
	if errors.Is(err, pgx.ErrNoRows) {
		api.Fail(w, r, http.StatusNotFound, "employee not found")
		return
	}
	if err != nil {
		api.Fail(w, r, http.StatusInternalServerError, "failed to load employee")
		return
	}
	api.Success(w, r, employee)
}

type employeeBody struct {
	UserID         string `json:"userId"`
	EmployeeNumber string `json:"employeeNumber"`
	FirstName      string `json:"firstName"`
	LastName       string `json:"lastName"`
	Email          string `json:"email"`
	Phone          string `json:"phone"`
	Position       string `json:"position"`
	DepartmentID   string `json:"departmentId"`
	ManagerID      string `json:"managerId"`
	StartDate      string `json:"startDate"`
	Status         string `json:"status"`
}

func (b employeeBody) toEmployee() (core.Employee, error) {
	e := core.Employee{
		UserID:         b.UserID,
		EmployeeNumber: b.EmployeeNumber,
		FirstName:      b.FirstName,
		LastName:       b.LastName,
		Email:          b.Email,
		Phone:          b.Phone,
		Position:       b.Position,
		DepartmentID:   b.DepartmentID,
		ManagerID:      b.ManagerID,
		Status:         b.Status,
	}
	start, err := shared.ParseOptionalDate(b.StartDate)
	if err != nil {
		return core.Employee{}, err
	}
	e.StartDate = start
	return e, nil
}

func (h *Handler) createEmployee(w http.ResponseWriter, r *http.Request) {
	var body employeeBody
	if err := shared.DecodeJSON(r, &body); err != nil {
		api.Fail(w, r, http.StatusBadRequest, err.Error())
		return
	}
	if body.FirstName == "" || body.LastName == "" || body.Email == "" || body.EmployeeNumber == "" {
		api.FailWithDetails(w, r, http.StatusBadRequest, "validation failed",
			[]string{"employeeNumber, firstName, lastName and email are required"})
		return
	}
	employee, err := body.toEmployee()
	if err != nil {
		api.Fail(w, r, http.StatusBadRequest, err.Error())
		return
	}

	id, err := h.Store.CreateEmployee(r.Context(), employee)
	if err != nil {
		api.Fail(w, r, http.StatusInternalServerError, "failed to create employee")
		return
	}
	h.audit(r, "employee_created", "employee", id)

	created, err := h.Store.GetEmployee(r.Context(), id)
	if err != nil {
		api.Fail(w, r, http.StatusInternalServerError, "failed to load employee")
		return
	}
	api.Created(w, r, created)
}

func (h *Handler) updateEmployee(w http.ResponseWriter, r *http.Request) {
	var body employeeBody
	if err := shared.DecodeJSON(r, &body); err != nil {
		api.Fail(w, r, http.StatusBadRequest, err.Error())
		return
	}
	employee, err := body.toEmployee()
	if err != nil {
		api.Fail(w, r, http.StatusBadRequest, err.Error())
		return
	}
	employee.ID = chi.URLParam(r, "id")
	if employee.Status == "" {
		employee.Status = core.EmployeeStatusActive
	}

	if err := h.Store.UpdateEmployee(r.Context(), employee); err != nil {
		api.Fail(w, r, http.StatusInternalServerError, "failed to update employee")
		return
	}
	h.audit(r, "employee_updated", "employee", employee.ID)

	updated, err := h.Store.GetEmployee(r.Context(), employee.ID)
	if err != nil {
		api.Fail(w, r, http.StatusInternalServerError, "failed to load employee")
		return
	}
	api.Success(w, r, updated)
}

func (h *Handler) deleteEmployee(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.Store.DeleteEmployee(r.Context(), id); err != nil {
		api.Fail(w, r, http.StatusInternalServerError, "failed to delete employee")
		return
	}
	h.audit(r, "employee_deleted", "employee", id)
	api.NoContent(w, r)
}

func (h *Handler) listDepartments(w http.ResponseWriter, r *http.Request) {
	departments, err := h.Store.ListDepartments(r.Context())
	if err != nil {
		api.Fail(w, r, http.StatusInternalServerError, "failed to list departments")
		return
	}
	api.Success(w, r, departments)
}

func (h *Handler) createDepartment(w http.ResponseWriter, r *http.Request) {
	var body core.Department
	if err := shared.DecodeJSON(r, &body); err != nil {
		api.Fail(w, r, http.StatusBadRequest, err.Error())
		return
	}
	if body.Name == "" {
		api.Fail(w, r, http.StatusBadRequest, "name is required")
		return
	}
	id, err := h.Store.CreateDepartment(r.Context(), body)
	if err != nil {
		api.Fail(w, r, http.StatusInternalServerError, "failed to create department")
		return
	}
	h.audit(r, "department_created", "department", id)
	body.ID = id
	api.Created(w, r, body)
}

func (h *Handler) updateDepartment(w http.ResponseWriter, r *http.Request) {
	var body core.Department
	if err := shared.DecodeJSON(r, &body); err != nil {
		api.Fail(w, r, http.StatusBadRequest, err.Error())
		return
	}
	body.ID = chi.URLParam(r, "id")
	if err := h.Store.UpdateDepartment(r.Context(), body); err != nil {
		api.Fail(w, r, http.StatusInternalServerError, "failed to update department")
		return
	}
	h.audit(r, "department_updated", "department", body.ID)
	api.Success(w, r, body)
}

func (h *Handler) deleteDepartment(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.Store.DeleteDepartment(r.Context(), id); err != nil {
		api.Fail(w, r, http.StatusInternalServerError, "failed to delete department")
		return
	}
	h.audit(r, "department_deleted", "department", id)
	api.NoContent(w, r)
}

func (h *Handler) audit(r *http.Request, action, entity, entityID string) {
	user, _ := middleware.GetUser(r.Context())
	h.Audit.Record(r.Context(), user.UserID, action, entity, entityID, nil)
}
