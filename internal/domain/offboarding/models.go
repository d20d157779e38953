package offboarding

import (
	"errors"
	"time"
)

const (
	CaseStatusOpen      = "open"
	CaseStatusCompleted = "completed"
	CaseStatusCancelled = "cancelled"
)

var (
	ErrCaseNotOpen      = errors.New("offboarding case is not open")
	ErrChecklistPending = errors.New("required checklist items incomplete")
)

// DefaultChecklist seeds every new case. Required items block
// completion until done.
var DefaultChecklist = []ChecklistItem{
	{Title: "Return equipment", Required: true},
	{Title: "Revoke system access", Required: true},
	{Title: "Collect company badge", Required: true},
	{Title: "Final payroll review", Required: true},
	{Title: "Exit interview", Required: false},
	{Title: "Knowledge transfer", Required: false},
}

type Case struct {
	ID          string          `json:"id"`
	EmployeeID  string          `json:"employeeId"`
	Status      string          `json:"status"`
	Reason      string          `json:"reason"`
	LastDay     time.Time       `json:"lastDay"`
	CreatedBy   string          `json:"createdBy"`
	CreatedAt   time.Time       `json:"createdAt"`
	CompletedAt *time.Time      `json:"completedAt,omitempty"`
	Checklist   []ChecklistItem `json:"checklist,omitempty"`
}

type ChecklistItem struct {
	ID       string     `json:"id"`
	CaseID   string     `json:"caseId"`
	Title    string     `json:"title"`
	Required bool       `json:"required"`
	Done     bool       `json:"done"`
	DoneBy   string     `json:"doneBy,omitempty"`
	DoneAt   *time.Time `json:"doneAt,omitempty"`
}
