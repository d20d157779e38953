package reports

import (
	"context"
	"time"

	"peopledesk/internal/platform/querier"
)

type Store struct {
	DB querier.Querier
}

func NewStore(db querier.Querier) *Store {
	return &Store{DB: db}
}

type HeadcountRow struct {
	Department string `json:"department"`
	Status     string `json:"status"`
	Count      int    `json:"count"`
}

func (s *Store) Headcount(ctx context.Context) ([]HeadcountRow, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT COALESCE(d.name, 'Unassigned'), e.status, COUNT(1)
    FROM employees e
    LEFT JOIN departments d ON e.department_id = d.id
    GROUP BY 1, 2
    ORDER BY 1, 2
  `)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []HeadcountRow
	for rows.Next() {
		var r HeadcountRow
		if err := rows.Scan(&r.Department, &r.Status, &r.Count); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, nil
}

type BalanceSummaryRow struct {
	Department string  `json:"department"`
	LeaveType  string  `json:"leaveType"`
	Employees  int     `json:"employees"`
	Balance    float64 `json:"balance"`
	AccruedYTD float64 `json:"accruedYtd"`
	UsedYTD    float64 `json:"usedYtd"`
}

func (s *Store) LeaveBalanceSummary(ctx context.Context) ([]BalanceSummaryRow, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT COALESCE(d.name, 'Unassigned'), lb.leave_type, COUNT(1),
           SUM(lb.balance), SUM(lb.accrued_ytd), SUM(lb.used_ytd)
    FROM leave_balances lb
    JOIN employees e ON lb.employee_id = e.id
    LEFT JOIN departments d ON e.department_id = d.id
    GROUP BY 1, 2
    ORDER BY 1, 2
  `)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []BalanceSummaryRow
	for rows.Next() {
		var r BalanceSummaryRow
		if err := rows.Scan(&r.Department, &r.LeaveType, &r.Employees,
			&r.Balance, &r.AccruedYTD, &r.UsedYTD); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, nil
}

type ComplianceStatusRow struct {
	Status string `json:"status"`
	Count  int    `json:"count"`
}

func (s *Store) ComplianceStatusCounts(ctx context.Context) ([]ComplianceStatusRow, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT status, COUNT(1) FROM compliance_items GROUP BY status ORDER BY status
  `)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []ComplianceStatusRow
	for rows.Next() {
		var r ComplianceStatusRow
		if err := rows.Scan(&r.Status, &r.Count); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, nil
}

type ExpiringItemRow struct {
	EmployeeName   string    `json:"employeeName"`
	Department     string    `json:"department"`
	ItemName       string    `json:"itemName"`
	Kind           string    `json:"kind"`
	Status         string    `json:"status"`
	ExpirationDate time.Time `json:"expirationDate"`
}

func (s *Store) ExpiringItems(ctx context.Context, within time.Time) ([]ExpiringItemRow, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT e.first_name || ' ' || e.last_name, COALESCE(d.name, 'Unassigned'),
           ci.name, ci.kind, ci.status, ci.expiration_date
    FROM compliance_items ci
    JOIN employees e ON ci.employee_id = e.id
    LEFT JOIN departments d ON e.department_id = d.id
    WHERE ci.expiration_date IS NOT NULL
      AND ci.expiration_date <= $1
      AND ci.status NOT IN ('Archived')
    ORDER BY ci.expiration_date, 1
  `, within)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []ExpiringItemRow
	for rows.Next() {
		var r ExpiringItemRow
		if err := rows.Scan(&r.EmployeeName, &r.Department, &r.ItemName,
			&r.Kind, &r.Status, &r.ExpirationDate); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, nil
}

type AttendanceRow struct {
	EmployeeName string
	Date         time.Time
	ClockIn      time.Time
	ClockOut     *time.Time
	Hours        float64
}

func (s *Store) AttendanceRows(ctx context.Context, employeeID string, from, to time.Time) ([]AttendanceRow, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT e.first_name || ' ' || e.last_name, a.clock_in, a.clock_out, COALESCE(a.hours, 0)
    FROM attendance_entries a
    JOIN employees e ON a.employee_id = e.id
    WHERE a.employee_id = $1 AND a.clock_in >= $2 AND a.clock_in < $3
    ORDER BY a.clock_in
  `, employeeID, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []AttendanceRow
	for rows.Next() {
		var r AttendanceRow
		if err := rows.Scan(&r.EmployeeName, &r.ClockIn, &r.ClockOut, &r.Hours); err != nil {
			return nil, err
		}
		r.Date = r.ClockIn
		out = append(out, r)
	}
	return out, nil
}
