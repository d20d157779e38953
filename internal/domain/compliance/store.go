package compliance

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

const itemColumns = `
    id, employee_id, kind, name, COALESCE(issued_by,''), issue_date, expiration_date,
    status, COALESCE(notes,''), created_at, updated_at`

func scanItem(row pgx.Row) (Item, error) {
	var it Item
	err := row.Scan(&it.ID, &it.EmployeeID, &it.Kind, &it.Name, &it.IssuedBy,
		&it.IssueDate, &it.ExpirationDate, &it.Status, &it.Notes, &it.CreatedAt, &it.UpdatedAt)
	return it, err
}

type ItemFilter struct {
	EmployeeID string
	Status     string
	Kind       string
}

func (s *Store) ListItems(ctx context.Context, filter ItemFilter) ([]Item, error) {
	query := "SELECT" + itemColumns + " FROM compliance_items WHERE 1=1"
	args := []any{}
	if filter.EmployeeID != "" {
		args = append(args, filter.EmployeeID)
		query += fmt.Sprintf(" AND employee_id = $%d", len(args))
	}
	if filter.Status != "" {
		args = append(args, filter.Status)
		query += fmt.Sprintf(" AND status = $%d", len(args))
	}
	if filter.Kind != "" {
		args = append(args, filter.Kind)
		query += fmt.Sprintf(" AND kind = $%d", len(args))
	}
	query += " ORDER BY expiration_date NULLS LAST, name"

	rows, err := s.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Item
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, it)
	}
	return out, nil
}

func (s *Store) GetItem(ctx context.Context, itemID string) (Item, error) {
	return scanItem(s.DB.QueryRow(ctx,
		"SELECT"+itemColumns+" FROM compliance_items WHERE id = $1", itemID))
}

func (s *Store) CreateItem(ctx context.Context, it Item) (string, error) {
	var id string
	err := s.DB.QueryRow(ctx, `
    INSERT INTO compliance_items (employee_id, kind, name, issued_by, issue_date,
                                  expiration_date, status, notes)
    VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
    RETURNING id
  `, it.EmployeeID, it.Kind, it.Name, it.IssuedBy, it.IssueDate,
		it.ExpirationDate, it.Status, it.Notes).Scan(&id)
	return id, err
}

func (s *Store) UpdateItem(ctx context.Context, it Item) error {
	_, err := s.DB.Exec(ctx, `
    UPDATE compliance_items
    SET kind = $1, name = $2, issued_by = $3, issue_date = $4, expiration_date = $5,
        status = $6, notes = $7, updated_at = now()
    WHERE id = $8
  `, it.Kind, it.Name, it.IssuedBy, it.IssueDate, it.ExpirationDate, it.Status, it.Notes, it.ID)
	return err
}

func (s *Store) DeleteItem(ctx context.Context, itemID string) error {
	_, err := s.DB.Exec(ctx, "DELETE FROM compliance_items WHERE id = $1", itemID)
	return err
}

func (s *Store) BeginTx(ctx context.Context) (pgx.Tx, error) {
	return s.DB.Begin(ctx)
}

func (s *Store) MarkExpiredTx(ctx context.Context, tx pgx.Tx, today time.Time) (int64, error) {
	tag, err := tx.Exec(ctx, `
    UPDATE compliance_items
    SET status = $1, updated_at = now()
    WHERE expiration_date IS NOT NULL
      AND expiration_date < $2
      AND status NOT IN ($1, $3, $4)
  `, StatusExpired, today, StatusPendingReview, StatusArchived)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func (s *Store) MarkExpiringSoonTx(ctx context.Context, tx pgx.Tx, today, soon time.Time) (int64, error) {
	tag, err := tx.Exec(ctx, `
    UPDATE compliance_items
    SET status = $1, updated_at = now()
    WHERE expiration_date IS NOT NULL
      AND expiration_date >= $2
      AND expiration_date < $3
      AND status NOT IN ($1, $4, $5, $6)
  `, StatusExpiringSoon, today, soon, StatusExpired, StatusPendingReview, StatusArchived)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

// RevertStaleExpiringTx returns items whose expiration was pushed out
// to the window edge or beyond back to Active.
func (s *Store) RevertStaleExpiringTx(ctx context.Context, tx pgx.Tx, soon time.Time) (int64, error) {
	tag, err := tx.Exec(ctx, `
    UPDATE compliance_items
    SET status = $1, updated_at = now()
    WHERE status = $2
      AND (expiration_date IS NULL OR expiration_date >= $3)
  `, StatusActive, StatusExpiringSoon, soon)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
