package notifications

import (
	"context"
	"errors"
	"testing"
	"time"
)

type fakeNotificationStore struct {
	targets  []ReminderTarget
	claimed  map[string]bool
	created  []Notification
	claimErr error
}

func (s *fakeNotificationStore) Create(ctx context.Context, n Notification) (string, error) {
	s.created = append(s.created, n)
	return "n1", nil
}

func (s *fakeNotificationStore) ListForUser(ctx context.Context, userID string, unreadOnly bool, limit int) ([]Notification, error) {
	return nil, nil
}

func (s *fakeNotificationStore) UnreadCount(ctx context.Context, userID string) (int, error) {
	return 0, nil
}

func (s *fakeNotificationStore) MarkRead(ctx context.Context, userID, notificationID string) error {
	return nil
}

func (s *fakeNotificationStore) MarkAllRead(ctx context.Context, userID string) error {
	return nil
}

func (s *fakeNotificationStore) ItemsExpiringIn(ctx context.Context, daysUntil int) ([]ReminderTarget, error) {
	return s.targets, nil
}

func (s *fakeNotificationStore) ClaimReminder(ctx context.Context, itemID string, daysUntil int) (bool, error) {
	if s.claimErr != nil {
		return false, s.claimErr
	}
	if s.claimed[itemID] {
		return false, nil
	}
	s.claimed[itemID] = true
	return true, nil
}

type recordingMailer struct {
	sent []string
	err  error
}

func (m *recordingMailer) Send(ctx context.Context, from, to, subject, body string) error {
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, to)
	return nil
}

func reminderFixture() []ReminderTarget {
	exp := time.Date(2026, time.September, 14, 0, 0, 0, 0, time.UTC)
	return []ReminderTarget{
		{ItemID: "i1", ItemName: "Forklift license", Kind: "license",
			UserID: "u1", Email: "a@example.com", ExpirationDate: exp},
		{ItemID: "i2", ItemName: "First aid training", Kind: "training",
			UserID: "u2", Email: "b@example.com", ExpirationDate: exp},
	}
}

func TestSendComplianceExpirationReminders(t *testing.T) {
	store := &fakeNotificationStore{targets: reminderFixture(), claimed: map[string]bool{}}
	mailer := &recordingMailer{}
	svc := &Service{Store: store, Mailer: mailer, From: "hr@example.com"}

	if err := svc.SendComplianceExpirationReminders(context.Background(), 14); err != nil {
		t.Fatalf("SendComplianceExpirationReminders: %v", err)
	}
	if len(store.created) != 2 {
		t.Fatalf("notifications created = %d, want 2", len(store.created))
	}
	if len(mailer.sent) != 2 {
		t.Fatalf("emails sent = %d, want 2", len(mailer.sent))
	}
	if store.created[0].Category != CategoryComplianceReminder {
		t.Fatalf("category = %s, want compliance_reminder", store.created[0].Category)
	}
}

func TestRemindersNotRepeatedPerThreshold(t *testing.T) {
	store := &fakeNotificationStore{targets: reminderFixture(), claimed: map[string]bool{"i1": true}}
	mailer := &recordingMailer{}
	svc := &Service{Store: store, Mailer: mailer, From: "hr@example.com"}

	if err := svc.SendComplianceExpirationReminders(context.Background(), 14); err != nil {
		t.Fatalf("SendComplianceExpirationReminders: %v", err)
	}
	if len(store.created) != 1 {
		t.Fatalf("notifications created = %d, want 1 (i1 already reminded)", len(store.created))
	}
}

func TestRemindersSurviveMailerFailure(t *testing.T) {
	store := &fakeNotificationStore{targets: reminderFixture(), claimed: map[string]bool{}}
	mailer := &recordingMailer{err: errors.New("connection refused")}
	svc := &Service{Store: store, Mailer: mailer, From: "hr@example.com"}

	if err := svc.SendComplianceExpirationReminders(context.Background(), 7); err != nil {
		t.Fatalf("mailer failure must not fail the run: %v", err)
	}
	if len(store.created) != 2 {
		t.Fatalf("notifications created = %d, want 2", len(store.created))
	}
}
