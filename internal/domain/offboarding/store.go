package offboarding

import (
	"context"
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

const caseColumns = `
    id, employee_id, status, COALESCE(reason,''), last_day,
    COALESCE(created_by::text,''), created_at, completed_at`

func scanCase(row pgx.Row) (Case, error) {
	var c Case
	err := row.Scan(&c.ID, &c.EmployeeID, &c.Status, &c.Reason, &c.LastDay,
		&c.CreatedBy, &c.CreatedAt, &c.CompletedAt)
	return c, err
}

func (s *Store) ListCases(ctx context.Context, status string) ([]Case, error) {
	query := "SELECT" + caseColumns + " FROM offboarding_cases"
	args := []any{}
	if status != "" {
		query += " WHERE status = $1"
		args = append(args, status)
	}
	query += " ORDER BY created_at DESC"

	rows, err := s.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Case
	for rows.Next() {
		c, err := scanCase(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, nil
}

func (s *Store) GetCase(ctx context.Context, caseID string) (Case, error) {
	c, err := scanCase(s.DB.QueryRow(ctx,
		"SELECT"+caseColumns+" FROM offboarding_cases WHERE id = $1", caseID))
	if err != nil {
		return Case{}, err
	}
	c.Checklist, err = s.Checklist(ctx, caseID)
	return c, err
}

func (s *Store) OpenCaseForEmployee(ctx context.Context, employeeID string) (bool, error) {
	var count int
	err := s.DB.QueryRow(ctx, `
    SELECT COUNT(1) FROM offboarding_cases WHERE employee_id = $1 AND status = $2
  `, employeeID, CaseStatusOpen).Scan(&count)
	return count > 0, err
}

func (s *Store) CreateCase(ctx context.Context, c Case) (string, error) {
	var id string
	err := s.DB.QueryRow(ctx, `
    INSERT INTO offboarding_cases (employee_id, status, reason, last_day, created_by)
    VALUES ($1, $2, $3, $4, NULLIF($5,'')::uuid)
    RETURNING id
  `, c.EmployeeID, CaseStatusOpen, c.Reason, c.LastDay, c.CreatedBy).Scan(&id)
	if err != nil {
		return "", err
	}
	for _, item := range DefaultChecklist {
		if _, err := s.DB.Exec(ctx, `
      INSERT INTO offboarding_checklist_items (case_id, title, required)
      VALUES ($1, $2, $3)
    `, id, item.Title, item.Required); err != nil {
			return "", err
		}
	}
	return id, nil
}

func (s *Store) Checklist(ctx context.Context, caseID string) ([]ChecklistItem, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT id, case_id, title, required, done, COALESCE(done_by::text,''), done_at
    FROM offboarding_checklist_items
    WHERE case_id = $1
    ORDER BY required DESC, title
  `, caseID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []ChecklistItem
	for rows.Next() {
		var it ChecklistItem
		if err := rows.Scan(&it.ID, &it.CaseID, &it.Title, &it.Required,
			&it.Done, &it.DoneBy, &it.DoneAt); err != nil {
			return nil, err
		}
		out = append(out, it)
	}
	return out, nil
}

func (s *Store) SetChecklistItemDone(ctx context.Context, itemID, doneBy string, done bool) error {
	_, err := s.DB.Exec(ctx, `
    UPDATE offboarding_checklist_items
    SET done = $1,
        done_by = CASE WHEN $1 THEN NULLIF($2,'')::uuid ELSE NULL END,
        done_at = CASE WHEN $1 THEN now() ELSE NULL END
    WHERE id = $3
  `, done, doneBy, itemID)
	return err
}

func (s *Store) BeginTx(ctx context.Context) (pgx.Tx, error) {
	return s.DB.Begin(ctx)
}

func (s *Store) CompleteCaseTx(ctx context.Context, tx pgx.Tx, caseID string, completedAt time.Time) error {
	_, err := tx.Exec(ctx, `
    UPDATE offboarding_cases
    SET status = $1, completed_at = $2
    WHERE id = $3
  `, CaseStatusCompleted, completedAt, caseID)
	return err
}

func (s *Store) TerminateEmployeeTx(ctx context.Context, tx pgx.Tx, employeeID string, endDate time.Time) error {
	_, err := tx.Exec(ctx, `
    UPDATE employees
    SET status = 'terminated', end_date = $1, updated_at = now()
    WHERE id = $2
  `, endDate, employeeID)
	return err
}

func (s *Store) DisableEmployeeUserTx(ctx context.Context, tx pgx.Tx, employeeID string) error {
	_, err := tx.Exec(ctx, `
    UPDATE users
    SET status = 'disabled'
    WHERE id = (SELECT user_id FROM employees WHERE id = $1)
  `, employeeID)
	return err
}

func (s *Store) CancelCase(ctx context.Context, caseID string) error {
	_, err := s.DB.Exec(ctx, `
    UPDATE offboarding_cases SET status = $1 WHERE id = $2 AND status = $3
  `, CaseStatusCancelled, caseID, CaseStatusOpen)
	return err
}
