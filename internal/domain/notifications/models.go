package notifications

import "time"

const (
	CategoryLeaveRequested     = "leave_requested"
	CategoryLeaveApproved      = "leave_approved"
	CategoryLeaveRejected      = "leave_rejected"
	CategoryComplianceReminder = "compliance_reminder"
	CategoryOffboarding        = "offboarding"
	CategorySystem             = "system"
)

type Notification struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	Category  string    `json:"category"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	Read      bool      `json:"read"`
	CreatedAt time.Time `json:"createdAt"`
}

// ReminderTarget is one compliance item due for an expiration reminder,
// resolved to the employee's user account and email.
type ReminderTarget struct {
	ItemID         string
	ItemName       string
	Kind           string
	EmployeeName   string
	UserID         string
	Email          string
	ExpirationDate time.Time
}
