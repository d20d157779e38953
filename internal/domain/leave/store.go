package leave

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"peopledesk/internal/platform/querier"
)

type Store struct {
	DB querier.Querier
}

func NewStore(db querier.Querier) *Store {
	return &Store{DB: db}
}

func (s *Store) ListBalances(ctx context.Context, employeeID string) ([]Balance, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT id, employee_id, leave_type, balance, accrued_ytd, used_ytd, updated_at
    FROM leave_balances
    WHERE employee_id = $1
    ORDER BY leave_type
  `, employeeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Balance
	for rows.Next() {
		var b Balance
		if err := rows.Scan(&b.ID, &b.EmployeeID, &b.LeaveType, &b.Balance,
			&b.AccruedYTD, &b.UsedYTD, &b.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, nil
}

const requestColumns = `
    id, employee_id, leave_type, start_date, end_date, start_half, end_half,
    days, COALESCE(reason,''), COALESCE(comments,''), status,
    COALESCE(approver_id::text,''), approved_at, created_at`

func scanRequest(row pgx.Row) (Request, error) {
	var r Request
	err := row.Scan(&r.ID, &r.EmployeeID, &r.LeaveType, &r.StartDate, &r.EndDate,
		&r.StartHalf, &r.EndHalf, &r.Days, &r.Reason, &r.Comments, &r.Status,
		&r.ApproverID, &r.ApprovedAt, &r.CreatedAt)
	return r, err
}

func (s *Store) GetRequest(ctx context.Context, requestID string) (Request, error) {
	return scanRequest(s.DB.QueryRow(ctx,
		"SELECT"+requestColumns+" FROM leave_requests WHERE id = $1", requestID))
}

type RequestFilter struct {
	EmployeeID string
	Status     string
	ManagerID  string
}

func (s *Store) ListRequests(ctx context.Context, filter RequestFilter) ([]Request, error) {
	query := "SELECT" + requestColumns + " FROM leave_requests WHERE 1=1"
	args := []any{}
	if filter.EmployeeID != "" {
		args = append(args, filter.EmployeeID)
		query += fmt.Sprintf(" AND employee_id = $%d", len(args))
	}
	if filter.Status != "" {
		args = append(args, filter.Status)
		query += fmt.Sprintf(" AND status = $%d", len(args))
	}
	if filter.ManagerID != "" {
		args = append(args, filter.ManagerID)
		query += fmt.Sprintf(" AND employee_id IN (SELECT id FROM employees WHERE manager_id = $%d)", len(args))
	}
	query += " ORDER BY created_at DESC"

	rows, err := s.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Request
	for rows.Next() {
		r, err := scanRequest(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, nil
}

func (s *Store) CreateRequest(ctx context.Context, r Request) (string, error) {
	var id string
	err := s.DB.QueryRow(ctx, `
    INSERT INTO leave_requests (employee_id, leave_type, start_date, end_date,
                                start_half, end_half, days, reason, status)
    VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
    RETURNING id
  `, r.EmployeeID, r.LeaveType, r.StartDate, r.EndDate, r.StartHalf, r.EndHalf,
		r.Days, r.Reason, StatusPending).Scan(&id)
	return id, err
}

func (s *Store) UpdateRequestStatus(ctx context.Context, q querier.Querier, requestID, status, approverID, comments string) error {
	if q == nil {
		q = s.DB
	}
	_, err := q.Exec(ctx, `
    UPDATE leave_requests
    SET status = $1, approver_id = NULLIF($2,'')::uuid, comments = $3, approved_at = now()
    WHERE id = $4
  `, status, approverID, comments, requestID)
	return err
}

func (s *Store) BeginTx(ctx context.Context) (pgx.Tx, error) {
	return s.DB.Begin(ctx)
}

// ListEmployeeIDsTx returns every employee id, with no status filter,
// so the accrual job never silently skips anyone.
func (s *Store) ListEmployeeIDsTx(ctx context.Context, tx pgx.Tx) ([]string, error) {
	rows, err := tx.Query(ctx, "SELECT id FROM employees ORDER BY id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// AccrualRanThisMonth guards the scheduler: the accrual ticker fires
// daily but the grant happens once per calendar month.
func (s *Store) AccrualRanThisMonth(ctx context.Context) (bool, error) {
	var count int
	err := s.DB.QueryRow(ctx, `
    SELECT COUNT(1) FROM leave_accrual_runs
    WHERE date_trunc('month', run_on) = date_trunc('month', now())
  `).Scan(&count)
	return count > 0, err
}

func (s *Store) RecordAccrualRunTx(ctx context.Context, tx pgx.Tx, runOn time.Time, accrued int) error {
	_, err := tx.Exec(ctx, `
    INSERT INTO leave_accrual_runs (run_on, employees_accrued)
    VALUES ($1, $2)
  `, runOn, accrued)
	return err
}
