package leave

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"peopledesk/internal/domain/auth"
	"peopledesk/internal/domain/core"
)

// Notifier delivers in-app notifications. Delivery failures never fail
// the leave operation that triggered them.
type Notifier interface {
	Notify(ctx context.Context, userID, category, title, message string) error
}

type Service struct {
	Store    *Store
	Ledger   *Ledger
	Core     *core.Store
	Notifier Notifier
}

func NewService(store *Store, ledger *Ledger, coreStore *core.Store, notifier Notifier) *Service {
	return &Service{Store: store, Ledger: ledger, Core: coreStore, Notifier: notifier}
}

func (s *Service) Balances(ctx context.Context, employeeID string) ([]Balance, error) {
	return s.Store.ListBalances(ctx, employeeID)
}

func (s *Service) BalanceFor(ctx context.Context, employeeID, leaveType string) (*Balance, error) {
	return s.Ledger.GetBalance(ctx, employeeID, leaveType)
}

type CreateRequestInput struct {
	LeaveType string
	StartDate time.Time
	EndDate   time.Time
	StartHalf bool
	EndHalf   bool
	Reason    string
}

// CreateRequest files a pending request for the employee. Paid leave
// types are checked against the ledger up front so obviously unfundable
// requests never enter the approval queue.
func (s *Service) CreateRequest(ctx context.Context, employeeID string, in CreateRequestInput) (Request, error) {
	if in.EndDate.Before(in.StartDate) {
		return Request{}, fmt.Errorf("%w: end date before start date", ErrInvalidState)
	}
	days := CalculateRequestDays(in.StartDate, in.EndDate, in.StartHalf, in.EndHalf)
	if days <= 0 {
		return Request{}, fmt.Errorf("%w: no working days in range", ErrInvalidState)
	}

	if in.LeaveType != TypeUnpaid && !s.Ledger.CheckSufficient(ctx, employeeID, in.LeaveType, days) {
		available := 0.0
		if bal, err := s.Ledger.GetBalance(ctx, employeeID, in.LeaveType); err == nil && bal != nil {
			available = bal.Balance
		}
		return Request{}, &InsufficientBalanceError{
			EmployeeID: employeeID,
			LeaveType:  in.LeaveType,
			Available:  available,
			Requested:  days,
		}
	}

	id, err := s.Store.CreateRequest(ctx, Request{
		EmployeeID: employeeID,
		LeaveType:  in.LeaveType,
		StartDate:  in.StartDate,
		EndDate:    in.EndDate,
		StartHalf:  in.StartHalf,
		EndHalf:    in.EndHalf,
		Days:       days,
		Reason:     in.Reason,
	})
	if err != nil {
		return Request{}, fmt.Errorf("failed to create leave request: %w", err)
	}

	s.notifyManager(ctx, employeeID, days, in.LeaveType)
	return s.Store.GetRequest(ctx, id)
}

// Approve moves a pending request to approved and deducts the days from
// the ledger in the same transaction, so a failed deduction leaves the
// request pending.
func (s *Service) Approve(ctx context.Context, requestID string, approver auth.UserContext, comments string) (Request, error) {
	req, err := s.Store.GetRequest(ctx, requestID)
	if err != nil {
		return Request{}, err
	}
	if req.Status != StatusPending {
		return Request{}, fmt.Errorf("%w: request is %s", ErrInvalidState, req.Status)
	}
	if err := s.checkApprover(ctx, approver, req.EmployeeID); err != nil {
		return Request{}, err
	}

	tx, err := s.Store.BeginTx(ctx)
	if err != nil {
		return Request{}, err
	}
	defer tx.Rollback(ctx)

	if err := s.Store.UpdateRequestStatus(ctx, tx, requestID, StatusApproved, approver.UserID, comments); err != nil {
		return Request{}, fmt.Errorf("failed to approve leave request: %w", err)
	}
	if req.LeaveType != TypeUnpaid {
		if _, err := s.Ledger.Deduct(ctx, tx, req.EmployeeID, req.LeaveType, req.Days); err != nil {
			return Request{}, err
		}
	}
	if err := tx.Commit(ctx); err != nil {
		return Request{}, err
	}

	s.notifyEmployee(ctx, req, "leave_approved", "Leave request approved",
		fmt.Sprintf("Your %s request for %.1f days was approved.", req.LeaveType, req.Days))
	return s.Store.GetRequest(ctx, requestID)
}

// Reject declines a pending request. The ledger is untouched.
func (s *Service) Reject(ctx context.Context, requestID string, approver auth.UserContext, comments string) (Request, error) {
	req, err := s.Store.GetRequest(ctx, requestID)
	if err != nil {
		return Request{}, err
	}
	if req.Status != StatusPending {
		return Request{}, fmt.Errorf("%w: request is %s", ErrInvalidState, req.Status)
	}
	if err := s.checkApprover(ctx, approver, req.EmployeeID); err != nil {
		return Request{}, err
	}
	if err := s.Store.UpdateRequestStatus(ctx, nil, requestID, StatusRejected, approver.UserID, comments); err != nil {
		return Request{}, fmt.Errorf("failed to reject leave request: %w", err)
	}

	s.notifyEmployee(ctx, req, "leave_rejected", "Leave request rejected",
		fmt.Sprintf("Your %s request for %.1f days was rejected.", req.LeaveType, req.Days))
	return s.Store.GetRequest(ctx, requestID)
}

// Cancel lets the owning employee withdraw a request that is still
// pending. Approved requests cannot be cancelled here.
func (s *Service) Cancel(ctx context.Context, requestID, requesterEmployeeID string) (Request, error) {
	req, err := s.Store.GetRequest(ctx, requestID)
	if err != nil {
		return Request{}, err
	}
	if req.EmployeeID != requesterEmployeeID {
		return Request{}, ErrForbidden
	}
	if req.Status != StatusPending {
		return Request{}, fmt.Errorf("%w: request is %s", ErrInvalidState, req.Status)
	}
	if err := s.Store.UpdateRequestStatus(ctx, nil, requestID, StatusCancelled, "", ""); err != nil {
		return Request{}, fmt.Errorf("failed to cancel leave request: %w", err)
	}
	return s.Store.GetRequest(ctx, requestID)
}

// RunAccrual triggers the monthly accrual on demand, outside the
// scheduled job.
func (s *Service) RunAccrual(ctx context.Context) (AccrualSummary, error) {
	return RunMonthlyAccrual(ctx, s.Store, s.Ledger)
}

func (s *Service) Requests(ctx context.Context, filter RequestFilter) ([]Request, error) {
	return s.Store.ListRequests(ctx, filter)
}

func (s *Service) Request(ctx context.Context, requestID string) (Request, error) {
	return s.Store.GetRequest(ctx, requestID)
}

// checkApprover enforces that department managers only approve requests
// from their own reports. HR and admin approve anything.
func (s *Service) checkApprover(ctx context.Context, approver auth.UserContext, employeeID string) error {
	if auth.PrivilegedRole(approver.RoleName) {
		return nil
	}
	if approver.RoleName != auth.RoleManager {
		return ErrForbidden
	}
	approverEmployeeID, err := s.Core.EmployeeIDByUserID(ctx, approver.UserID)
	if err != nil {
		return ErrForbidden
	}
	manages, err := s.Core.IsManagerOf(ctx, approverEmployeeID, employeeID)
	if err != nil || !manages {
		return ErrForbidden
	}
	return nil
}

func (s *Service) notifyManager(ctx context.Context, employeeID string, days float64, leaveType string) {
	if s.Notifier == nil {
		return
	}
	managerUserID, err := s.Core.ManagerUserIDForEmployee(ctx, employeeID)
	if err != nil || managerUserID == "" {
		return
	}
	if err := s.Notifier.Notify(ctx, managerUserID, "leave_requested", "Leave request submitted",
		fmt.Sprintf("A %s request for %.1f days is awaiting your review.", leaveType, days)); err != nil {
		slog.Warn("failed to notify manager of leave request", slog.Any("error", err))
	}
}

func (s *Service) notifyEmployee(ctx context.Context, req Request, category, title, message string) {
	if s.Notifier == nil {
		return
	}
	emp, err := s.Core.GetEmployee(ctx, req.EmployeeID)
	if err != nil || emp.UserID == "" {
		return
	}
	if err := s.Notifier.Notify(ctx, emp.UserID, category, title, message); err != nil {
		slog.Warn("failed to notify employee of leave decision", slog.Any("error", err))
	}
}

// IsInsufficient reports whether err is an insufficient-balance failure.
func IsInsufficient(err error) bool {
	var ib *InsufficientBalanceError
	return errors.As(err, &ib)
}
