package offboarding

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
)

type fakeTx struct {
	pgx.Tx
	committed  bool
	rolledBack bool
}

func (t *fakeTx) Commit(ctx context.Context) error {
	t.committed = true
	return nil
}

func (t *fakeTx) Rollback(ctx context.Context) error {
	t.rolledBack = true
	return nil
}

type fakeCaseStore struct {
	cases        map[string]*Case
	tx           *fakeTx
	terminated   []string
	disabled     []string
	terminateErr error
}

func (s *fakeCaseStore) ListCases(ctx context.Context, status string) ([]Case, error) {
	return nil, nil
}

func (s *fakeCaseStore) GetCase(ctx context.Context, caseID string) (Case, error) {
	c, ok := s.cases[caseID]
	if !ok {
		return Case{}, errors.New("case not found")
	}
	return *c, nil
}

func (s *fakeCaseStore) OpenCaseForEmployee(ctx context.Context, employeeID string) (bool, error) {
	return false, nil
}

func (s *fakeCaseStore) CreateCase(ctx context.Context, c Case) (string, error) {
	return "", errors.New("not implemented")
}

func (s *fakeCaseStore) SetChecklistItemDone(ctx context.Context, itemID, doneBy string, done bool) error {
	for _, c := range s.cases {
		for i := range c.Checklist {
			if c.Checklist[i].ID == itemID {
				c.Checklist[i].Done = done
			}
		}
	}
	return nil
}

func (s *fakeCaseStore) CancelCase(ctx context.Context, caseID string) error {
	s.cases[caseID].Status = CaseStatusCancelled
	return nil
}

func (s *fakeCaseStore) BeginTx(ctx context.Context) (pgx.Tx, error) {
	return s.tx, nil
}

func (s *fakeCaseStore) CompleteCaseTx(ctx context.Context, tx pgx.Tx, caseID string, completedAt time.Time) error {
	c := s.cases[caseID]
	c.Status = CaseStatusCompleted
	c.CompletedAt = &completedAt
	return nil
}

func (s *fakeCaseStore) TerminateEmployeeTx(ctx context.Context, tx pgx.Tx, employeeID string, endDate time.Time) error {
	if s.terminateErr != nil {
		return s.terminateErr
	}
	s.terminated = append(s.terminated, employeeID)
	return nil
}

func (s *fakeCaseStore) DisableEmployeeUserTx(ctx context.Context, tx pgx.Tx, employeeID string) error {
	s.disabled = append(s.disabled, employeeID)
	return nil
}

func openCase(required ...bool) *Case {
	c := &Case{ID: "c1", EmployeeID: "e1", Status: CaseStatusOpen,
		LastDay: time.Date(2026, time.July, 31, 0, 0, 0, 0, time.UTC)}
	for i, req := range required {
		c.Checklist = append(c.Checklist, ChecklistItem{
			ID: string(rune('a' + i)), Required: req, Done: true,
		})
	}
	return c
}

func TestCompleteTerminatesAndDisables(t *testing.T) {
	store := &fakeCaseStore{cases: map[string]*Case{"c1": openCase(true, true, false)}, tx: &fakeTx{}}
	store.cases["c1"].Checklist[2].Done = true
	svc := &Service{Store: store, Now: time.Now}

	c, err := svc.Complete(context.Background(), "c1")
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if c.Status != CaseStatusCompleted {
		t.Fatalf("status = %s, want completed", c.Status)
	}
	if !store.tx.committed {
		t.Fatal("expected transaction commit")
	}
	if len(store.terminated) != 1 || store.terminated[0] != "e1" {
		t.Fatalf("terminated = %v, want [e1]", store.terminated)
	}
	if len(store.disabled) != 1 || store.disabled[0] != "e1" {
		t.Fatalf("disabled = %v, want [e1]", store.disabled)
	}
}

func TestCompleteBlockedByRequiredChecklist(t *testing.T) {
	c := openCase(true, true)
	c.Checklist[1].Done = false
	store := &fakeCaseStore{cases: map[string]*Case{"c1": c}, tx: &fakeTx{}}
	svc := &Service{Store: store, Now: time.Now}

	if _, err := svc.Complete(context.Background(), "c1"); !errors.Is(err, ErrChecklistPending) {
		t.Fatalf("Complete error = %v, want ErrChecklistPending", err)
	}
	if len(store.terminated) != 0 {
		t.Fatal("employee must not be terminated")
	}
}

func TestCompleteRollsBackOnTerminationFailure(t *testing.T) {
	store := &fakeCaseStore{
		cases:        map[string]*Case{"c1": openCase(true)},
		tx:           &fakeTx{},
		terminateErr: errors.New("constraint violation"),
	}
	svc := &Service{Store: store, Now: time.Now}

	if _, err := svc.Complete(context.Background(), "c1"); err == nil {
		t.Fatal("expected error")
	}
	if store.tx.committed {
		t.Fatal("transaction must not commit")
	}
	if !store.tx.rolledBack {
		t.Fatal("expected rollback")
	}
	if len(store.disabled) != 0 {
		t.Fatal("user must not be disabled after failed termination")
	}
}

func TestCompleteRejectsNonOpenCase(t *testing.T) {
	c := openCase(true)
	c.Status = CaseStatusCompleted
	store := &fakeCaseStore{cases: map[string]*Case{"c1": c}, tx: &fakeTx{}}
	svc := &Service{Store: store, Now: time.Now}

	if _, err := svc.Complete(context.Background(), "c1"); !errors.Is(err, ErrCaseNotOpen) {
		t.Fatalf("Complete error = %v, want ErrCaseNotOpen", err)
	}
}
