package attendance

import (
	"context"
	"time"
)

type entryStore interface {
	OpenEntry(ctx context.Context, employeeID string) (*Entry, error)
	CreateEntry(ctx context.Context, employeeID string, clockIn time.Time, notes string) (string, error)
	CloseEntry(ctx context.Context, entryID string, clockOut time.Time, hours float64) error
	GetEntry(ctx context.Context, entryID string) (Entry, error)
	ListEntries(ctx context.Context, employeeID string, from, to time.Time) ([]Entry, error)
	TotalHours(ctx context.Context, employeeID string, from, to time.Time) (float64, error)
}

type Service struct {
	Store entryStore
	Now   func() time.Time
}

func NewService(store *Store) *Service {
	return &Service{Store: store, Now: time.Now}
}

// ClockIn opens a new attendance entry. At most one entry per employee
// may be open at a time.
func (s *Service) ClockIn(ctx context.Context, employeeID, notes string) (Entry, error) {
	open, err := s.Store.OpenEntry(ctx, employeeID)
	if err != nil {
		return Entry{}, err
	}
	if open != nil {
		return Entry{}, ErrAlreadyClockedIn
	}
	id, err := s.Store.CreateEntry(ctx, employeeID, s.Now().UTC(), notes)
	if err != nil {
		return Entry{}, err
	}
	return s.Store.GetEntry(ctx, id)
}

// ClockOut closes the open entry and records the worked hours.
func (s *Service) ClockOut(ctx context.Context, employeeID string) (Entry, error) {
	open, err := s.Store.OpenEntry(ctx, employeeID)
	if err != nil {
		return Entry{}, err
	}
	if open == nil {
		return Entry{}, ErrNotClockedIn
	}
	now := s.Now().UTC()
	hours := RoundHours(now.Sub(open.ClockIn))
	if err := s.Store.CloseEntry(ctx, open.ID, now, hours); err != nil {
		return Entry{}, err
	}
	return s.Store.GetEntry(ctx, open.ID)
}

func (s *Service) Entries(ctx context.Context, employeeID string, from, to time.Time) ([]Entry, error) {
	return s.Store.ListEntries(ctx, employeeID, from, to)
}

func (s *Service) TotalHours(ctx context.Context, employeeID string, from, to time.Time) (float64, error) {
	return s.Store.TotalHours(ctx, employeeID, from, to)
}
