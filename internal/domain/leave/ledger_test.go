package leave

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"peopledesk/internal/platform/querier"
)

type fakeReader struct {
	bal *Balance
	err error
}

func (f *fakeReader) FetchBalance(ctx context.Context, q querier.Querier, employeeID, leaveType string) (*Balance, error) {
	return f.bal, f.err
}

type execRecorder struct {
	execs int
}

func (e *execRecorder) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	e.execs++
	return pgconn.CommandTag{}, nil
}

func (e *execRecorder) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	return nil, errors.New("not implemented")
}

func (e *execRecorder) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	panic("not implemented")
}

func (e *execRecorder) Begin(ctx context.Context) (pgx.Tx, error) {
	return nil, errors.New("not implemented")
}

func newTestLedger(bal *Balance, readErr error) (*Ledger, *execRecorder) {
	db := &execRecorder{}
	return &Ledger{DB: db, Reader: &fakeReader{bal: bal, err: readErr}}, db
}

func TestDeductRejectsNonPositiveAmount(t *testing.T) {
	ledger, db := newTestLedger(&Balance{ID: "b1", Balance: 10}, nil)

	for _, amount := range []float64{0, -1, -0.5} {
		if _, err := ledger.Deduct(context.Background(), nil, "e1", TypeVacation, amount); !errors.Is(err, ErrAmountNotPositive) {
			t.Fatalf("Deduct(%v) error = %v, want ErrAmountNotPositive", amount, err)
		}
	}
	if db.execs != 0 {
		t.Fatalf("expected no writes for rejected amounts, got %d", db.execs)
	}
}

func TestDeductInsufficientBalance(t *testing.T) {
	ledger, db := newTestLedger(&Balance{ID: "b1", Balance: 2}, nil)

	_, err := ledger.Deduct(context.Background(), nil, "e1", TypeVacation, 5)
	var ib *InsufficientBalanceError
	if !errors.As(err, &ib) {
		t.Fatalf("Deduct error = %v, want InsufficientBalanceError", err)
	}
	if ib.Available != 2 || ib.Requested != 5 {
		t.Fatalf("error amounts = %v available, %v requested; want 2, 5", ib.Available, ib.Requested)
	}
	if db.execs != 0 {
		t.Fatalf("expected no writes on insufficient balance, got %d", db.execs)
	}
}

func TestDeductBalanceNotFound(t *testing.T) {
	ledger, _ := newTestLedger(nil, nil)

	if _, err := ledger.Deduct(context.Background(), nil, "e1", TypeVacation, 1); !errors.Is(err, ErrBalanceNotFound) {
		t.Fatalf("Deduct error = %v, want ErrBalanceNotFound", err)
	}
}

func TestDeductThenAccrueRestoresBalance(t *testing.T) {
	bal := &Balance{ID: "b1", EmployeeID: "e1", LeaveType: TypeVacation, Balance: 10}
	ledger, db := newTestLedger(bal, nil)
	ctx := context.Background()

	after, err := ledger.Deduct(ctx, nil, "e1", TypeVacation, 3)
	if err != nil {
		t.Fatalf("Deduct: %v", err)
	}
	if after.Balance != 7 || after.UsedYTD != 3 {
		t.Fatalf("after deduct: balance=%v usedYTD=%v, want 7, 3", after.Balance, after.UsedYTD)
	}

	after, err = ledger.Accrue(ctx, nil, "e1", TypeVacation, 3)
	if err != nil {
		t.Fatalf("Accrue: %v", err)
	}
	if after.Balance != 10 {
		t.Fatalf("balance after accrue = %v, want 10", after.Balance)
	}
	if after.UsedYTD != 3 || after.AccruedYTD != 3 {
		t.Fatalf("YTD counters = used %v, accrued %v; want both 3", after.UsedYTD, after.AccruedYTD)
	}
	if db.execs != 2 {
		t.Fatalf("expected 2 writes, got %d", db.execs)
	}
}

func TestCheckSufficientExactBoundary(t *testing.T) {
	ledger, _ := newTestLedger(&Balance{ID: "b1", Balance: 10}, nil)
	ctx := context.Background()

	if !ledger.CheckSufficient(ctx, "e1", TypeVacation, 10) {
		t.Fatal("CheckSufficient(10 of 10) = false, want true")
	}
	if ledger.CheckSufficient(ctx, "e1", TypeVacation, 10.01) {
		t.Fatal("CheckSufficient(10.01 of 10) = true, want false")
	}
}

func TestCheckSufficientConservativeOnFailure(t *testing.T) {
	ctx := context.Background()

	ledger, _ := newTestLedger(nil, errors.New("connection refused"))
	if ledger.CheckSufficient(ctx, "e1", TypeVacation, 1) {
		t.Fatal("CheckSufficient with fetch error = true, want false")
	}

	ledger, _ = newTestLedger(nil, nil)
	if ledger.CheckSufficient(ctx, "e1", TypeVacation, 1) {
		t.Fatal("CheckSufficient with missing balance = true, want false")
	}
}

func TestGetBalanceEmptyIdentifiers(t *testing.T) {
	ledger, _ := newTestLedger(&Balance{ID: "b1"}, nil)

	bal, err := ledger.GetBalance(context.Background(), "", TypeVacation)
	if err != nil || bal != nil {
		t.Fatalf("GetBalance with empty employee id = %v, %v; want nil, nil", bal, err)
	}
	bal, err = ledger.GetBalance(context.Background(), "e1", "")
	if err != nil || bal != nil {
		t.Fatalf("GetBalance with empty leave type = %v, %v; want nil, nil", bal, err)
	}
}
