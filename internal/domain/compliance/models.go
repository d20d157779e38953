package compliance

import "time"

const (
	StatusActive        = "Active"
	StatusExpiringSoon  = "ExpiringSoon"
	StatusExpired       = "Expired"
	StatusPendingReview = "PendingReview"
	StatusArchived      = "Archived"
)

const (
	KindLicense       = "license"
	KindCertification = "certification"
	KindTraining      = "training"
)

// ExpiringSoonWindowDays is how far ahead the sweep looks when flagging
// items as expiring soon. The window is [today, today+30): an item
// expiring exactly 30 days out is still Active.
const ExpiringSoonWindowDays = 30

// ReminderThresholds are the days-until-expiration marks at which
// reminder notifications go out.
var ReminderThresholds = []int{30, 14, 7}

type Item struct {
	ID             string     `json:"id"`
	EmployeeID     string     `json:"employeeId"`
	Kind           string     `json:"kind"`
	Name           string     `json:"name"`
	IssuedBy       string     `json:"issuedBy"`
	IssueDate      *time.Time `json:"issueDate,omitempty"`
	ExpirationDate *time.Time `json:"expirationDate,omitempty"`
	Status         string     `json:"status"`
	Notes          string     `json:"notes"`
	CreatedAt      time.Time  `json:"createdAt"`
	UpdatedAt      time.Time  `json:"updatedAt"`
}

// DeriveStatus computes the lifecycle status an item should carry as of
// now. PendingReview and Archived are manual states the sweep never
// overrides. Total: every input maps to a defined status.
func DeriveStatus(current string, expiration *time.Time, now time.Time) string {
	if current == StatusPendingReview || current == StatusArchived {
		return current
	}
	if expiration == nil {
		return StatusActive
	}
	today := midnight(now)
	exp := midnight(*expiration)
	switch {
	case exp.Before(today):
		return StatusExpired
	case exp.Before(today.AddDate(0, 0, ExpiringSoonWindowDays)):
		return StatusExpiringSoon
	default:
		return StatusActive
	}
}

func midnight(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
