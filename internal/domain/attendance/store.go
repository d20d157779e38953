package attendance

import (
	"context"
	"errors"
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

const entryColumns = `
    id, employee_id, clock_in, clock_out, COALESCE(hours, 0), COALESCE(notes,''), created_at`

func scanEntry(row pgx.Row) (Entry, error) {
	var e Entry
	err := row.Scan(&e.ID, &e.EmployeeID, &e.ClockIn, &e.ClockOut, &e.Hours, &e.Notes, &e.CreatedAt)
	return e, err
}

// OpenEntry returns the employee's entry with no clock-out yet, or nil.
func (s *Store) OpenEntry(ctx context.Context, employeeID string) (*Entry, error) {
	e, err := scanEntry(s.DB.QueryRow(ctx,
		"SELECT"+entryColumns+` FROM attendance_entries
     WHERE employee_id = $1 AND clock_out IS NULL
     ORDER BY clock_in DESC LIMIT 1`, employeeID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (s *Store) CreateEntry(ctx context.Context, employeeID string, clockIn time.Time, notes string) (string, error) {
	var id string
	err := s.DB.QueryRow(ctx, `
    INSERT INTO attendance_entries (employee_id, clock_in, notes)
    VALUES ($1, $2, $3)
    RETURNING id
  `, employeeID, clockIn, notes).Scan(&id)
	return id, err
}

func (s *Store) CloseEntry(ctx context.Context, entryID string, clockOut time.Time, hours float64) error {
	_, err := s.DB.Exec(ctx, `
    UPDATE attendance_entries
    SET clock_out = $1, hours = $2
    WHERE id = $3 AND clock_out IS NULL
  `, clockOut, hours, entryID)
	return err
}

func (s *Store) GetEntry(ctx context.Context, entryID string) (Entry, error) {
	return scanEntry(s.DB.QueryRow(ctx,
		"SELECT"+entryColumns+" FROM attendance_entries WHERE id = $1", entryID))
}

func (s *Store) ListEntries(ctx context.Context, employeeID string, from, to time.Time) ([]Entry, error) {
	rows, err := s.DB.Query(ctx,
		"SELECT"+entryColumns+` FROM attendance_entries
     WHERE employee_id = $1 AND clock_in >= $2 AND clock_in < $3
     ORDER BY clock_in DESC`, employeeID, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, nil
}

func (s *Store) TotalHours(ctx context.Context, employeeID string, from, to time.Time) (float64, error) {
	var total float64
	err := s.DB.QueryRow(ctx, `
    SELECT COALESCE(SUM(hours), 0)
    FROM attendance_entries
    WHERE employee_id = $1 AND clock_in >= $2 AND clock_in < $3
  `, employeeID, from, to).Scan(&total)
	return total, err
}
