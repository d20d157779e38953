package notifications

import (
	"context"
	"fmt"
	"log/slog"
)

// Mailer sends a single plain-text email. Implementations decide
// whether mail is actually delivered.
type Mailer interface {
	Send(ctx context.Context, from, to, subject, body string) error
}

type notificationStore interface {
	Create(ctx context.Context, n Notification) (string, error)
	ListForUser(ctx context.Context, userID string, unreadOnly bool, limit int) ([]Notification, error)
	UnreadCount(ctx context.Context, userID string) (int, error)
	MarkRead(ctx context.Context, userID, notificationID string) error
	MarkAllRead(ctx context.Context, userID string) error
	ItemsExpiringIn(ctx context.Context, daysUntil int) ([]ReminderTarget, error)
	ClaimReminder(ctx context.Context, itemID string, daysUntil int) (bool, error)
}

type Service struct {
	Store  notificationStore
	Mailer Mailer
	From   string
}

func NewService(store *Store, mailer Mailer, from string) *Service {
	return &Service{Store: store, Mailer: mailer, From: from}
}

// Notify writes an in-app notification for the user.
func (s *Service) Notify(ctx context.Context, userID, category, title, message string) error {
	if userID == "" {
		return nil
	}
	_, err := s.Store.Create(ctx, Notification{
		UserID:   userID,
		Category: category,
		Title:    title,
		Message:  message,
	})
	return err
}

func (s *Service) List(ctx context.Context, userID string, unreadOnly bool, limit int) ([]Notification, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	return s.Store.ListForUser(ctx, userID, unreadOnly, limit)
}

func (s *Service) UnreadCount(ctx context.Context, userID string) (int, error) {
	return s.Store.UnreadCount(ctx, userID)
}

func (s *Service) MarkRead(ctx context.Context, userID, notificationID string) error {
	return s.Store.MarkRead(ctx, userID, notificationID)
}

func (s *Service) MarkAllRead(ctx context.Context, userID string) error {
	return s.Store.MarkAllRead(ctx, userID)
}

// SendComplianceExpirationReminders notifies and emails every employee
// whose compliance item expires in exactly daysUntil days. Each item
// gets at most one reminder per threshold; individual failures are
// logged and the rest still go out.
func (s *Service) SendComplianceExpirationReminders(ctx context.Context, daysUntil int) error {
	targets, err := s.Store.ItemsExpiringIn(ctx, daysUntil)
	if err != nil {
		return fmt.Errorf("failed to find expiring items: %w", err)
	}

	for _, t := range targets {
		claimed, err := s.Store.ClaimReminder(ctx, t.ItemID, daysUntil)
		if err != nil {
			slog.Warn("failed to claim compliance reminder",
				slog.String("item_id", t.ItemID), slog.Any("error", err))
			continue
		}
		if !claimed {
			continue
		}

		title := fmt.Sprintf("%s expires in %d days", t.ItemName, daysUntil)
		message := fmt.Sprintf("Your %s %q expires on %s. Renew it before the deadline.",
			t.Kind, t.ItemName, t.ExpirationDate.Format("2006-01-02"))

		if err := s.Notify(ctx, t.UserID, CategoryComplianceReminder, title, message); err != nil {
			slog.Warn("failed to store compliance reminder",
				slog.String("item_id", t.ItemID), slog.Any("error", err))
		}
		if s.Mailer != nil {
			if err := s.Mailer.Send(ctx, s.From, t.Email, title, message); err != nil {
				slog.Warn("failed to email compliance reminder",
					slog.String("item_id", t.ItemID), slog.Any("error", err))
			}
		}
	}
	return nil
}
