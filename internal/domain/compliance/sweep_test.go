package compliance

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(offset int) *time.Time {
	d := time.Date(2026, time.June, 15, 0, 0, 0, 0, time.UTC).AddDate(0, 0, offset)
	return &d
}

var sweepNow = time.Date(2026, time.June, 15, 9, 30, 0, 0, time.UTC)

func TestDeriveStatus(t *testing.T) {
	tests := []struct {
		name       string
		current    string
		expiration *time.Time
		want       string
	}{
		{"expired yesterday", StatusActive, day(-1), StatusExpired},
		{"expiring in ten days", StatusActive, day(10), StatusExpiringSoon},
		{"last day inside the window", StatusActive, day(29), StatusExpiringSoon},
		{"window edge is exclusive", StatusActive, day(30), StatusActive},
		{"expiring today counts as soon", StatusActive, day(0), StatusExpiringSoon},
		{"safely in the future", StatusActive, day(45), StatusActive},
		{"stale expiring-soon reverts", StatusExpiringSoon, day(45), StatusActive},
		{"stale expiring-soon at the edge reverts", StatusExpiringSoon, day(30), StatusActive},
		{"no expiration date", StatusExpired, nil, StatusActive},
		{"pending review untouched even when expired", StatusPendingReview, day(-10), StatusPendingReview},
		{"archived untouched", StatusArchived, day(5), StatusArchived},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DeriveStatus(tt.current, tt.expiration, sweepNow))
		})
	}
}

type fakeTx struct {
	pgx.Tx
	committed  bool
	rolledBack bool
}

func (t *fakeTx) Commit(ctx context.Context) error {
	t.committed = true
	return nil
}

func (t *fakeTx) Rollback(ctx context.Context) error {
	t.rolledBack = true
	return nil
}

type fakeSweepStore struct {
	tx           *fakeTx
	today        time.Time
	soon         time.Time
	expireErr    error
	calls        []string
	expired      int64
	expiringSoon int64
	reverted     int64
}

func (s *fakeSweepStore) BeginTx(ctx context.Context) (pgx.Tx, error) {
	return s.tx, nil
}

func (s *fakeSweepStore) MarkExpiredTx(ctx context.Context, tx pgx.Tx, today time.Time) (int64, error) {
	s.calls = append(s.calls, "expire")
	s.today = today
	return s.expired, s.expireErr
}

func (s *fakeSweepStore) MarkExpiringSoonTx(ctx context.Context, tx pgx.Tx, today, soon time.Time) (int64, error) {
	s.calls = append(s.calls, "soon")
	s.soon = soon
	return s.expiringSoon, nil
}

func (s *fakeSweepStore) RevertStaleExpiringTx(ctx context.Context, tx pgx.Tx, soon time.Time) (int64, error) {
	s.calls = append(s.calls, "revert")
	return s.reverted, nil
}

type fakeReminder struct {
	thresholds []int
	err        error
}

func (r *fakeReminder) SendComplianceExpirationReminders(ctx context.Context, daysUntil int) error {
	r.thresholds = append(r.thresholds, daysUntil)
	return r.err
}

func TestSweepExpirations(t *testing.T) {
	store := &fakeSweepStore{tx: &fakeTx{}, expired: 2, expiringSoon: 3, reverted: 1}
	reminder := &fakeReminder{}
	sweeper := &Sweeper{Store: store, Reminder: reminder}

	summary, err := sweeper.SweepExpirations(context.Background(), sweepNow)
	require.NoError(t, err)

	assert.Equal(t, SweepSummary{Expired: 2, ExpiringSoon: 3, Reverted: 1}, summary)
	assert.Equal(t, []string{"expire", "soon", "revert"}, store.calls)
	assert.True(t, store.tx.committed)

	assert.Equal(t, time.Date(2026, time.June, 15, 0, 0, 0, 0, time.UTC), store.today)
	assert.Equal(t, time.Date(2026, time.July, 15, 0, 0, 0, 0, time.UTC), store.soon)

	assert.Equal(t, ReminderThresholds, reminder.thresholds)
}

func TestSweepExpirationsRollsBackOnError(t *testing.T) {
	store := &fakeSweepStore{tx: &fakeTx{}, expireErr: errors.New("deadlock detected")}
	reminder := &fakeReminder{}
	sweeper := &Sweeper{Store: store, Reminder: reminder}

	_, err := sweeper.SweepExpirations(context.Background(), sweepNow)
	require.Error(t, err)
	assert.False(t, store.tx.committed)
	assert.True(t, store.tx.rolledBack)
	assert.Empty(t, reminder.thresholds, "reminders must not run when the sweep fails")
}

func TestSweepExpirationsSurvivesReminderFailure(t *testing.T) {
	store := &fakeSweepStore{tx: &fakeTx{}}
	reminder := &fakeReminder{err: errors.New("smtp unreachable")}
	sweeper := &Sweeper{Store: store, Reminder: reminder}

	_, err := sweeper.SweepExpirations(context.Background(), sweepNow)
	require.NoError(t, err)
	assert.True(t, store.tx.committed)
	assert.Len(t, reminder.thresholds, len(ReminderThresholds))
}
