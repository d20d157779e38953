package leave

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"peopledesk/internal/platform/querier"
)

// BalanceReader fetches a balance record for the ledger. The production
// reader lazily creates missing records; test doubles may return nil to
// exercise the not-found path.
type BalanceReader interface {
	FetchBalance(ctx context.Context, q querier.Querier, employeeID, leaveType string) (*Balance, error)
}

// Ledger owns all mutations of leave balances. Deduct and Accrue accept
// an explicit querier so callers can run them inside a transaction
// alongside the state change that justifies the movement.
type Ledger struct {
	DB     querier.Querier
	Reader BalanceReader
}

func NewLedger(db querier.Querier) *Ledger {
	return &Ledger{DB: db, Reader: sqlReader{}}
}

// GetBalance returns the employee's balance for the given leave type,
// creating a zeroed record on first access. Returns (nil, nil) when
// either identifier is empty.
func (l *Ledger) GetBalance(ctx context.Context, employeeID, leaveType string) (*Balance, error) {
	if employeeID == "" || leaveType == "" {
		return nil, nil
	}
	bal, err := l.Reader.FetchBalance(ctx, l.DB, employeeID, leaveType)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve leave balance: %w", err)
	}
	return bal, nil
}

// CheckSufficient reports whether the balance covers amount. Any fetch
// failure is treated as insufficient.
func (l *Ledger) CheckSufficient(ctx context.Context, employeeID, leaveType string, amount float64) bool {
	bal, err := l.Reader.FetchBalance(ctx, l.DB, employeeID, leaveType)
	if err != nil || bal == nil {
		return false
	}
	return bal.Balance >= amount
}

// Deduct removes amount days from the balance and advances the used-YTD
// counter. Fails without touching storage when amount is not positive or
// the balance would go negative.
func (l *Ledger) Deduct(ctx context.Context, q querier.Querier, employeeID, leaveType string, amount float64) (*Balance, error) {
	if amount <= 0 {
		return nil, ErrAmountNotPositive
	}
	if q == nil {
		q = l.DB
	}
	bal, err := l.Reader.FetchBalance(ctx, q, employeeID, leaveType)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve leave balance: %w", err)
	}
	if bal == nil {
		return nil, ErrBalanceNotFound
	}
	if bal.Balance < amount {
		return nil, &InsufficientBalanceError{
			EmployeeID: employeeID,
			LeaveType:  leaveType,
			Available:  bal.Balance,
			Requested:  amount,
		}
	}
	bal.Balance -= amount
	bal.UsedYTD += amount
	if err := l.writeBalance(ctx, q, bal); err != nil {
		return nil, err
	}
	return bal, nil
}

// Accrue adds amount days to the balance and advances the accrued-YTD
// counter.
func (l *Ledger) Accrue(ctx context.Context, q querier.Querier, employeeID, leaveType string, amount float64) (*Balance, error) {
	if amount <= 0 {
		return nil, ErrAmountNotPositive
	}
	if q == nil {
		q = l.DB
	}
	bal, err := l.Reader.FetchBalance(ctx, q, employeeID, leaveType)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve leave balance: %w", err)
	}
	if bal == nil {
		return nil, ErrBalanceNotFound
	}
	bal.Balance += amount
	bal.AccruedYTD += amount
	if err := l.writeBalance(ctx, q, bal); err != nil {
		return nil, err
	}
	return bal, nil
}

func (l *Ledger) writeBalance(ctx context.Context, q querier.Querier, bal *Balance) error {
	_, err := q.Exec(ctx, `
    UPDATE leave_balances
    SET balance = $1, accrued_ytd = $2, used_ytd = $3, updated_at = now()
    WHERE id = $4
  `, bal.Balance, bal.AccruedYTD, bal.UsedYTD, bal.ID)
	if err != nil {
		return fmt.Errorf("failed to update leave balance: %w", err)
	}
	return nil
}

// sqlReader is the production BalanceReader. It locks the row when
// reading inside a transaction and creates missing records on the fly.
type sqlReader struct{}

func (sqlReader) FetchBalance(ctx context.Context, q querier.Querier, employeeID, leaveType string) (*Balance, error) {
	bal, err := selectBalance(ctx, q, employeeID, leaveType)
	if err == nil {
		return bal, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, err
	}

	_, err = q.Exec(ctx, `
    INSERT INTO leave_balances (employee_id, leave_type, balance, accrued_ytd, used_ytd)
    VALUES ($1, $2, 0, 0, 0)
    ON CONFLICT (employee_id, leave_type) DO NOTHING
  `, employeeID, leaveType)
	if err != nil {
		return nil, err
	}
	return selectBalance(ctx, q, employeeID, leaveType)
}

func selectBalance(ctx context.Context, q querier.Querier, employeeID, leaveType string) (*Balance, error) {
	var bal Balance
	err := q.QueryRow(ctx, `
    SELECT id, employee_id, leave_type, balance, accrued_ytd, used_ytd, updated_at
    FROM leave_balances
    WHERE employee_id = $1 AND leave_type = $2
    FOR UPDATE
  `, employeeID, leaveType).Scan(&bal.ID, &bal.EmployeeID, &bal.LeaveType,
		&bal.Balance, &bal.AccruedYTD, &bal.UsedYTD, &bal.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &bal, nil
}
