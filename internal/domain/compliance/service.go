package compliance

import (
	"context"
	"fmt"
	"time"
)

type Service struct {
	Store *Store
}

func NewService(store *Store) *Service {
	return &Service{Store: store}
}

func (s *Service) Items(ctx context.Context, filter ItemFilter) ([]Item, error) {
	return s.Store.ListItems(ctx, filter)
}

func (s *Service) Item(ctx context.Context, itemID string) (Item, error) {
	return s.Store.GetItem(ctx, itemID)
}

// CreateItem stores a new compliance item. The status is derived from
// the expiration date unless the caller parks the item in a manual
// state.
func (s *Service) CreateItem(ctx context.Context, it Item) (Item, error) {
	if err := validateItem(it); err != nil {
		return Item{}, err
	}
	if it.Status != StatusPendingReview && it.Status != StatusArchived {
		it.Status = DeriveStatus(StatusActive, it.ExpirationDate, time.Now())
	}
	id, err := s.Store.CreateItem(ctx, it)
	if err != nil {
		return Item{}, fmt.Errorf("failed to create compliance item: %w", err)
	}
	return s.Store.GetItem(ctx, id)
}

func (s *Service) UpdateItem(ctx context.Context, it Item) (Item, error) {
	if err := validateItem(it); err != nil {
		return Item{}, err
	}
	if it.Status != StatusPendingReview && it.Status != StatusArchived {
		it.Status = DeriveStatus(it.Status, it.ExpirationDate, time.Now())
	}
	if err := s.Store.UpdateItem(ctx, it); err != nil {
		return Item{}, fmt.Errorf("failed to update compliance item: %w", err)
	}
	return s.Store.GetItem(ctx, it.ID)
}

func (s *Service) DeleteItem(ctx context.Context, itemID string) error {
	return s.Store.DeleteItem(ctx, itemID)
}

func validateItem(it Item) error {
	if it.EmployeeID == "" {
		return fmt.Errorf("employee id is required")
	}
	if it.Name == "" {
		return fmt.Errorf("name is required")
	}
	switch it.Kind {
	case KindLicense, KindCertification, KindTraining:
	default:
		return fmt.Errorf("unknown compliance kind %q", it.Kind)
	}
	if it.IssueDate != nil && it.ExpirationDate != nil && it.ExpirationDate.Before(*it.IssueDate) {
		return fmt.Errorf("expiration date before issue date")
	}
	return nil
}
