package core

import "time"

const (
	EmployeeStatusActive     = "active"
	EmployeeStatusOnLeave    = "on_leave"
	EmployeeStatusTerminated = "terminated"
)

type Employee struct {
	ID             string     `json:"id"`
	UserID         string     `json:"userId"`
	EmployeeNumber string     `json:"employeeNumber"`
	FirstName      string     `json:"firstName"`
	LastName       string     `json:"lastName"`
	Email          string     `json:"email"`
	Phone          string     `json:"phone"`
	Position       string     `json:"position"`
	DepartmentID   string     `json:"departmentId"`
	ManagerID      string     `json:"managerId"`
	StartDate      *time.Time `json:"startDate,omitempty"`
	EndDate        *time.Time `json:"endDate,omitempty"`
	Status         string     `json:"status"`
	CreatedAt      time.Time  `json:"createdAt"`
	UpdatedAt      time.Time  `json:"updatedAt"`
}

type Department struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	ParentID  string    `json:"parentId"`
	ManagerID string    `json:"managerId"`
	CreatedAt time.Time `json:"createdAt"`
}

type User struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	RoleID    string    `json:"roleId"`
	RoleName  string    `json:"roleName"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"createdAt"`
}
