package leave

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"

	"peopledesk/internal/platform/querier"
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

type fakeAccrualStore struct {
	tx          *fakeTx
	employeeIDs []string
	recorded    int
	runRecorded bool
}

func (s *fakeAccrualStore) BeginTx(ctx context.Context) (pgx.Tx, error) {
	return s.tx, nil
}

func (s *fakeAccrualStore) ListEmployeeIDsTx(ctx context.Context, tx pgx.Tx) ([]string, error) {
	return s.employeeIDs, nil
}

func (s *fakeAccrualStore) RecordAccrualRunTx(ctx context.Context, tx pgx.Tx, runOn time.Time, accrued int) error {
	s.runRecorded = true
	s.recorded = accrued
	return nil
}

type fakeAccrualLedger struct {
	failFor map[string]bool
	amounts []float64
}

func (l *fakeAccrualLedger) Accrue(ctx context.Context, q querier.Querier, employeeID, leaveType string, amount float64) (*Balance, error) {
	if l.failFor[employeeID] {
		return nil, errors.New("balance row corrupted")
	}
	l.amounts = append(l.amounts, amount)
	return &Balance{EmployeeID: employeeID, LeaveType: leaveType, Balance: amount}, nil
}

func TestRunMonthlyAccrualGrantsAllEmployees(t *testing.T) {
	store := &fakeAccrualStore{tx: &fakeTx{}, employeeIDs: []string{"e1", "e2", "e3"}}
	ledger := &fakeAccrualLedger{}

	summary, err := RunMonthlyAccrual(context.Background(), store, ledger)
	if err != nil {
		t.Fatalf("RunMonthlyAccrual: %v", err)
	}
	if summary.EmployeesAccrued != 3 || summary.Failures != 0 {
		t.Fatalf("summary = %+v, want 3 accrued, 0 failures", summary)
	}
	if !store.tx.committed {
		t.Fatal("expected transaction to commit")
	}
	if !store.runRecorded || store.recorded != 3 {
		t.Fatalf("run record = %v (%d), want recorded with 3", store.runRecorded, store.recorded)
	}
	for _, amount := range ledger.amounts {
		if amount != MonthlyVacationAccrual {
			t.Fatalf("accrued amount = %v, want %v", amount, MonthlyVacationAccrual)
		}
	}
}

func TestRunMonthlyAccrualRollsBackOnAnyFailure(t *testing.T) {
	store := &fakeAccrualStore{tx: &fakeTx{}, employeeIDs: []string{"e1", "e2", "e3"}}
	ledger := &fakeAccrualLedger{failFor: map[string]bool{"e2": true}}

	summary, err := RunMonthlyAccrual(context.Background(), store, ledger)
	if err == nil {
		t.Fatal("expected error when an employee fails")
	}
	if !strings.Contains(err.Error(), "1 of 3") {
		t.Fatalf("error = %v, want failure count 1 of 3", err)
	}
	if summary.EmployeesProcessed != 3 || summary.EmployeesAccrued != 2 || summary.Failures != 1 {
		t.Fatalf("summary = %+v, want processed 3, accrued 2, failures 1", summary)
	}
	if store.tx.committed {
		t.Fatal("transaction must not commit on failure")
	}
	if !store.tx.rolledBack {
		t.Fatal("expected transaction rollback")
	}
	if store.runRecorded {
		t.Fatal("run must not be recorded on failure")
	}
}
