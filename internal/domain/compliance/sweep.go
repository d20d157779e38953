package compliance

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
)

type SweepSummary struct {
	Expired      int64
	ExpiringSoon int64
	Reverted     int64
}

type sweepStore interface {
	BeginTx(ctx context.Context) (pgx.Tx, error)
	MarkExpiredTx(ctx context.Context, tx pgx.Tx, today time.Time) (int64, error)
	MarkExpiringSoonTx(ctx context.Context, tx pgx.Tx, today, soon time.Time) (int64, error)
	RevertStaleExpiringTx(ctx context.Context, tx pgx.Tx, soon time.Time) (int64, error)
}

// Reminder sends expiration reminders for items crossing a
// days-until-expiration threshold.
type Reminder interface {
	SendComplianceExpirationReminders(ctx context.Context, daysUntil int) error
}

// Sweeper moves compliance items through their lifecycle on a schedule.
type Sweeper struct {
	Store    sweepStore
	Reminder Reminder
}

func NewSweeper(store *Store, reminder Reminder) *Sweeper {
	return &Sweeper{Store: store, Reminder: reminder}
}

// SweepExpirations reconciles every item's status against now in one
// transaction: past-expiration items become Expired, items inside the
// window become ExpiringSoon, and ExpiringSoon items whose expiration
// moved out of the window revert to Active. Reminders run after commit
// and are best effort.
func (s *Sweeper) SweepExpirations(ctx context.Context, now time.Time) (SweepSummary, error) {
	var summary SweepSummary
	today := midnight(now)
	soon := today.AddDate(0, 0, ExpiringSoonWindowDays)

	tx, err := s.Store.BeginTx(ctx)
	if err != nil {
		return summary, fmt.Errorf("failed to begin sweep transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if summary.Expired, err = s.Store.MarkExpiredTx(ctx, tx, today); err != nil {
		return summary, fmt.Errorf("failed to mark expired items: %w", err)
	}
	if summary.ExpiringSoon, err = s.Store.MarkExpiringSoonTx(ctx, tx, today, soon); err != nil {
		return summary, fmt.Errorf("failed to mark expiring items: %w", err)
	}
	if summary.Reverted, err = s.Store.RevertStaleExpiringTx(ctx, tx, soon); err != nil {
		return summary, fmt.Errorf("failed to revert stale items: %w", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return summary, fmt.Errorf("failed to commit sweep: %w", err)
	}

	slog.Info("compliance sweep completed",
		slog.Int64("expired", summary.Expired),
		slog.Int64("expiring_soon", summary.ExpiringSoon),
		slog.Int64("reverted", summary.Reverted))

	if s.Reminder != nil {
		for _, threshold := range ReminderThresholds {
			if err := s.Reminder.SendComplianceExpirationReminders(ctx, threshold); err != nil {
				slog.Warn("failed to send expiration reminders",
					slog.Int("days_until", threshold),
					slog.Any("error", err))
			}
		}
	}
	return summary, nil
}
