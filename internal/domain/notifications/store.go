package notifications

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

func (s *Store) Create(ctx context.Context, n Notification) (string, error) {
	var id string
	err := s.DB.QueryRow(ctx, `
    INSERT INTO notifications (user_id, category, title, message)
    VALUES ($1, $2, $3, $4)
    RETURNING id
  `, n.UserID, n.Category, n.Title, n.Message).Scan(&id)
	return id, err
}

func (s *Store) ListForUser(ctx context.Context, userID string, unreadOnly bool, limit int) ([]Notification, error) {
	query := `
    SELECT id, user_id, category, title, message, read, created_at
    FROM notifications
    WHERE user_id = $1`
	if unreadOnly {
		query += " AND read = false"
	}
	query += " ORDER BY created_at DESC LIMIT $2"

	rows, err := s.DB.Query(ctx, query, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Notification
	for rows.Next() {
		var n Notification
		if err := rows.Scan(&n.ID, &n.UserID, &n.Category, &n.Title, &n.Message,
			&n.Read, &n.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, nil
}

func (s *Store) UnreadCount(ctx context.Context, userID string) (int, error) {
	var count int
	err := s.DB.QueryRow(ctx,
		"SELECT COUNT(1) FROM notifications WHERE user_id = $1 AND read = false",
		userID).Scan(&count)
	return count, err
}

func (s *Store) MarkRead(ctx context.Context, userID, notificationID string) error {
	_, err := s.DB.Exec(ctx, `
    UPDATE notifications SET read = true WHERE id = $1 AND user_id = $2
  `, notificationID, userID)
	return err
}

func (s *Store) MarkAllRead(ctx context.Context, userID string) error {
	_, err := s.DB.Exec(ctx,
		"UPDATE notifications SET read = true WHERE user_id = $1 AND read = false", userID)
	return err
}

// ItemsExpiringIn returns compliance items whose expiration falls
// exactly daysUntil days from today, resolved to the employee's user
// account. Items in manual states and employees without accounts are
// skipped.
func (s *Store) ItemsExpiringIn(ctx context.Context, daysUntil int) ([]ReminderTarget, error) {
	today := midnightUTC(time.Now())
	due := today.AddDate(0, 0, daysUntil)

	rows, err := s.DB.Query(ctx, `
    SELECT ci.id, ci.name, ci.kind, e.first_name || ' ' || e.last_name,
           u.id, u.email, ci.expiration_date
    FROM compliance_items ci
    JOIN employees e ON ci.employee_id = e.id
    JOIN users u ON e.user_id = u.id
    WHERE ci.expiration_date = $1
      AND ci.status NOT IN ('PendingReview', 'Archived')
  `, due)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []ReminderTarget
	for rows.Next() {
		var t ReminderTarget
		if err := rows.Scan(&t.ItemID, &t.ItemName, &t.Kind, &t.EmployeeName,
			&t.UserID, &t.Email, &t.ExpirationDate); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, nil
}

// ClaimReminder records that a reminder went out for the item at the
// given threshold. Returns false when one was already recorded, so a
// sweep rerun does not spam.
func (s *Store) ClaimReminder(ctx context.Context, itemID string, daysUntil int) (bool, error) {
	tag, err := s.DB.Exec(ctx, `
    INSERT INTO compliance_reminders (item_id, days_until)
    VALUES ($1, $2)
    ON CONFLICT (item_id, days_until) DO NOTHING
  `, itemID, daysUntil)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func midnightUTC(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
