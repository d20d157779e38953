package attendance

import (
	"errors"
	"time"
)

var (
	ErrAlreadyClockedIn = errors.New("already clocked in")
	ErrNotClockedIn     = errors.New("no open attendance entry")
)

type Entry struct {
	ID         string     `json:"id"`
	EmployeeID string     `json:"employeeId"`
	ClockIn    time.Time  `json:"clockIn"`
	ClockOut   *time.Time `json:"clockOut,omitempty"`
	Hours      float64    `json:"hours"`
	Notes      string     `json:"notes"`
	CreatedAt  time.Time  `json:"createdAt"`
}

// RoundHours converts a worked duration to hours with two decimal
// places.
func RoundHours(d time.Duration) float64 {
	hours := d.Hours()
	return float64(int64(hours*100+0.5)) / 100
}
