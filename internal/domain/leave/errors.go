package leave

import (
	"errors"
	"fmt"
)

var (
	ErrAmountNotPositive = errors.New("amount must be positive")
	ErrBalanceNotFound   = errors.New("leave balance not found")
	ErrInvalidState      = errors.New("invalid state")
	ErrForbidden         = errors.New("forbidden")
)

type InsufficientBalanceError struct {
	EmployeeID string
	LeaveType  string
	Available  float64
	Requested  float64
}

func (e *InsufficientBalanceError) Error() string {
	return fmt.Sprintf("insufficient balance: %.2f available, %.2f requested", e.Available, e.Requested)
}
