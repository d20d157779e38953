package attendance

import (
	"context"
	"errors"
	"testing"
	"time"
)

type fakeEntryStore struct {
	entries map[string]*Entry
	nextID  int
}

func newFakeEntryStore() *fakeEntryStore {
	return &fakeEntryStore{entries: map[string]*Entry{}}
}

func (s *fakeEntryStore) OpenEntry(ctx context.Context, employeeID string) (*Entry, error) {
	for _, e := range s.entries {
		if e.EmployeeID == employeeID && e.ClockOut == nil {
			copied := *e
			return &copied, nil
		}
	}
	return nil, nil
}

func (s *fakeEntryStore) CreateEntry(ctx context.Context, employeeID string, clockIn time.Time, notes string) (string, error) {
	s.nextID++
	id := string(rune('a' + s.nextID))
	s.entries[id] = &Entry{ID: id, EmployeeID: employeeID, ClockIn: clockIn, Notes: notes}
	return id, nil
}

func (s *fakeEntryStore) CloseEntry(ctx context.Context, entryID string, clockOut time.Time, hours float64) error {
	e, ok := s.entries[entryID]
	if !ok {
		return errors.New("entry not found")
	}
	e.ClockOut = &clockOut
	e.Hours = hours
	return nil
}

func (s *fakeEntryStore) GetEntry(ctx context.Context, entryID string) (Entry, error) {
	e, ok := s.entries[entryID]
	if !ok {
		return Entry{}, errors.New("entry not found")
	}
	return *e, nil
}

func (s *fakeEntryStore) ListEntries(ctx context.Context, employeeID string, from, to time.Time) ([]Entry, error) {
	return nil, nil
}

func (s *fakeEntryStore) TotalHours(ctx context.Context, employeeID string, from, to time.Time) (float64, error) {
	return 0, nil
}

func TestClockInOnceOnly(t *testing.T) {
	store := newFakeEntryStore()
	now := time.Date(2026, time.May, 4, 9, 0, 0, 0, time.UTC)
	svc := &Service{Store: store, Now: func() time.Time { return now }}
	ctx := context.Background()

	entry, err := svc.ClockIn(ctx, "e1", "")
	if err != nil {
		t.Fatalf("ClockIn: %v", err)
	}
	if !entry.ClockIn.Equal(now) {
		t.Fatalf("clock in time = %v, want %v", entry.ClockIn, now)
	}

	if _, err := svc.ClockIn(ctx, "e1", ""); !errors.Is(err, ErrAlreadyClockedIn) {
		t.Fatalf("second ClockIn error = %v, want ErrAlreadyClockedIn", err)
	}
}

func TestClockOutComputesHours(t *testing.T) {
	store := newFakeEntryStore()
	clock := time.Date(2026, time.May, 4, 9, 0, 0, 0, time.UTC)
	svc := &Service{Store: store, Now: func() time.Time { return clock }}
	ctx := context.Background()

	if _, err := svc.ClockIn(ctx, "e1", ""); err != nil {
		t.Fatalf("ClockIn: %v", err)
	}

	clock = clock.Add(7*time.Hour + 30*time.Minute)
	entry, err := svc.ClockOut(ctx, "e1")
	if err != nil {
		t.Fatalf("ClockOut: %v", err)
	}
	if entry.Hours != 7.5 {
		t.Fatalf("hours = %v, want 7.5", entry.Hours)
	}
	if entry.ClockOut == nil || !entry.ClockOut.Equal(clock) {
		t.Fatalf("clock out = %v, want %v", entry.ClockOut, clock)
	}
}

func TestClockOutWithoutOpenEntry(t *testing.T) {
	svc := &Service{Store: newFakeEntryStore(), Now: time.Now}

	if _, err := svc.ClockOut(context.Background(), "e1"); !errors.Is(err, ErrNotClockedIn) {
		t.Fatalf("ClockOut error = %v, want ErrNotClockedIn", err)
	}
}

func TestRoundHours(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want float64
	}{
		{8 * time.Hour, 8},
		{7*time.Hour + 30*time.Minute, 7.5},
		{7*time.Hour + 59*time.Minute, 7.98},
		{1 * time.Minute, 0.02},
	}
	for _, tt := range tests {
		if got := RoundHours(tt.d); got != tt.want {
			t.Fatalf("RoundHours(%v) = %v, want %v", tt.d, got, tt.want)
		}
	}
}
