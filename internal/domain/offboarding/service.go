package offboarding

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
)

type caseStore interface {
	ListCases(ctx context.Context, status string) ([]Case, error)
	GetCase(ctx context.Context, caseID string) (Case, error)
	OpenCaseForEmployee(ctx context.Context, employeeID string) (bool, error)
	CreateCase(ctx context.Context, c Case) (string, error)
	SetChecklistItemDone(ctx context.Context, itemID, doneBy string, done bool) error
	CancelCase(ctx context.Context, caseID string) error
	BeginTx(ctx context.Context) (pgx.Tx, error)
	CompleteCaseTx(ctx context.Context, tx pgx.Tx, caseID string, completedAt time.Time) error
	TerminateEmployeeTx(ctx context.Context, tx pgx.Tx, employeeID string, endDate time.Time) error
	DisableEmployeeUserTx(ctx context.Context, tx pgx.Tx, employeeID string) error
}

type Service struct {
	Store caseStore
	Now   func() time.Time
}

func NewService(store *Store) *Service {
	return &Service{Store: store, Now: time.Now}
}

func (s *Service) Cases(ctx context.Context, status string) ([]Case, error) {
	return s.Store.ListCases(ctx, status)
}

func (s *Service) Case(ctx context.Context, caseID string) (Case, error) {
	return s.Store.GetCase(ctx, caseID)
}

// Open starts an offboarding case with the default checklist. One open
// case per employee.
func (s *Service) Open(ctx context.Context, employeeID, reason string, lastDay time.Time, createdBy string) (Case, error) {
	exists, err := s.Store.OpenCaseForEmployee(ctx, employeeID)
	if err != nil {
		return Case{}, err
	}
	if exists {
		return Case{}, fmt.Errorf("employee already has an open offboarding case")
	}
	id, err := s.Store.CreateCase(ctx, Case{
		EmployeeID: employeeID,
		Reason:     reason,
		LastDay:    lastDay,
		CreatedBy:  createdBy,
	})
	if err != nil {
		return Case{}, fmt.Errorf("failed to open offboarding case: %w", err)
	}
	return s.Store.GetCase(ctx, id)
}

func (s *Service) SetChecklistItem(ctx context.Context, caseID, itemID, doneBy string, done bool) (Case, error) {
	c, err := s.Store.GetCase(ctx, caseID)
	if err != nil {
		return Case{}, err
	}
	if c.Status != CaseStatusOpen {
		return Case{}, ErrCaseNotOpen
	}
	if err := s.Store.SetChecklistItemDone(ctx, itemID, doneBy, done); err != nil {
		return Case{}, err
	}
	return s.Store.GetCase(ctx, caseID)
}

// Complete closes the case once every required checklist item is done.
// The case, the employee record, and the user account change together
// in one transaction: the employee ends up terminated with their end
// date set and their login disabled.
func (s *Service) Complete(ctx context.Context, caseID string) (Case, error) {
	c, err := s.Store.GetCase(ctx, caseID)
	if err != nil {
		return Case{}, err
	}
	if c.Status != CaseStatusOpen {
		return Case{}, ErrCaseNotOpen
	}
	for _, item := range c.Checklist {
		if item.Required && !item.Done {
			return Case{}, fmt.Errorf("%w: %s", ErrChecklistPending, item.Title)
		}
	}

	tx, err := s.Store.BeginTx(ctx)
	if err != nil {
		return Case{}, err
	}
	defer tx.Rollback(ctx)

	now := s.Now().UTC()
	if err := s.Store.CompleteCaseTx(ctx, tx, caseID, now); err != nil {
		return Case{}, fmt.Errorf("failed to complete case: %w", err)
	}
	if err := s.Store.TerminateEmployeeTx(ctx, tx, c.EmployeeID, c.LastDay); err != nil {
		return Case{}, fmt.Errorf("failed to terminate employee: %w", err)
	}
	if err := s.Store.DisableEmployeeUserTx(ctx, tx, c.EmployeeID); err != nil {
		return Case{}, fmt.Errorf("failed to disable user account: %w", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return Case{}, err
	}

	slog.Info("offboarding completed",
		slog.String("case_id", caseID),
		slog.String("employee_id", c.EmployeeID))
	return s.Store.GetCase(ctx, caseID)
}

func (s *Service) Cancel(ctx context.Context, caseID string) (Case, error) {
	c, err := s.Store.GetCase(ctx, caseID)
	if err != nil {
		return Case{}, err
	}
	if c.Status != CaseStatusOpen {
		return Case{}, ErrCaseNotOpen
	}
	if err := s.Store.CancelCase(ctx, caseID); err != nil {
		return Case{}, err
	}
	return s.Store.GetCase(ctx, caseID)
}
