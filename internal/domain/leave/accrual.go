package leave

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"

	"peopledesk/internal/platform/querier"
)

// MonthlyVacationAccrual is the flat vacation grant every employee
// receives per monthly run.
const MonthlyVacationAccrual = 8.0

type AccrualSummary struct {
	EmployeesProcessed int
	EmployeesAccrued   int
	Failures           int
}

type AccrualStore interface {
	BeginTx(ctx context.Context) (pgx.Tx, error)
	ListEmployeeIDsTx(ctx context.Context, tx pgx.Tx) ([]string, error)
	RecordAccrualRunTx(ctx context.Context, tx pgx.Tx, runOn time.Time, accrued int) error
}

type accrualLedger interface {
	Accrue(ctx context.Context, q querier.Querier, employeeID, leaveType string, amount float64) (*Balance, error)
}

// RunMonthlyAccrual grants every employee the monthly vacation accrual
// inside a single transaction. Per-employee failures are logged and
// counted, and any failure rolls the whole run back so a partial grant
// is never committed.
func RunMonthlyAccrual(ctx context.Context, store AccrualStore, ledger accrualLedger) (AccrualSummary, error) {
	var summary AccrualSummary

	tx, err := store.BeginTx(ctx)
	if err != nil {
		return summary, fmt.Errorf("failed to begin accrual transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	employeeIDs, err := store.ListEmployeeIDsTx(ctx, tx)
	if err != nil {
		return summary, fmt.Errorf("failed to list employees for accrual: %w", err)
	}

	for _, employeeID := range employeeIDs {
		summary.EmployeesProcessed++
		if _, err := ledger.Accrue(ctx, tx, employeeID, TypeVacation, MonthlyVacationAccrual); err != nil {
			slog.Error("monthly accrual failed for employee",
				slog.String("employee_id", employeeID),
				slog.Any("error", err))
			summary.Failures++
			continue
		}
		summary.EmployeesAccrued++
	}

	if summary.Failures > 0 {
		return summary, fmt.Errorf("monthly accrual failed for %d of %d employees",
			summary.Failures, summary.EmployeesProcessed)
	}

	if err := store.RecordAccrualRunTx(ctx, tx, time.Now().UTC(), summary.EmployeesAccrued); err != nil {
		return summary, fmt.Errorf("failed to record accrual run: %w", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return summary, fmt.Errorf("failed to commit accrual run: %w", err)
	}

	slog.Info("monthly accrual completed",
		slog.Int("employees", summary.EmployeesAccrued),
		slog.Float64("amount", MonthlyVacationAccrual))
	return summary, nil
}
