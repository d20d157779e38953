package leave

import "time"

const (
	StatusPending   = "Pending"
	StatusApproved  = "Approved"
	StatusRejected  = "Rejected"
	StatusCancelled = "Cancelled"
)

const (
	TypeVacation = "Vacation"
	TypeSick     = "Sick"
	TypePersonal = "Personal"
	TypeUnpaid   = "Unpaid"
)

// Balance is the per-employee, per-leave-type ledger record. The YTD
// counters are monotonic; their reset happens outside this service.
type Balance struct {
	ID         string    `json:"id"`
	EmployeeID string    `json:"employeeId"`
	LeaveType  string    `json:"leaveType"`
	Balance    float64   `json:"balance"`
	AccruedYTD float64   `json:"accruedYtd"`
	UsedYTD    float64   `json:"usedYtd"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

type Request struct {
	ID         string     `json:"id"`
	EmployeeID string     `json:"employeeId"`
	LeaveType  string     `json:"leaveType"`
	StartDate  time.Time  `json:"startDate"`
	EndDate    time.Time  `json:"endDate"`
	StartHalf  bool       `json:"startHalf"`
	EndHalf    bool       `json:"endHalf"`
	Days       float64    `json:"days"`
	Reason     string     `json:"reason"`
	Comments   string     `json:"comments"`
	Status     string     `json:"status"`
	ApproverID string     `json:"approverId,omitempty"`
	ApprovedAt *time.Time `json:"approvedAt,omitempty"`
	CreatedAt  time.Time  `json:"createdAt"`
}
