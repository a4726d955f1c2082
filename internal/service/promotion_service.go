package service

import (
	"context"
	"fmt"
	"time"

	"github.com/ecommstack/promotions-service/internal/model"
)

// PromotionRepositoryInterface defines the interface for promotion data access.
type PromotionRepositoryInterface interface {
	Insert(ctx context.Context, promo *model.Promotion) error
	GetByID(ctx context.Context, id int64) (*model.Promotion, error)
	Update(ctx context.Context, promo *model.Promotion) error
	Delete(ctx context.Context, id int64) error
	ListAll(ctx context.Context) ([]model.Promotion, error)
	ListByName(ctx context.Context, name string) ([]model.Promotion, error)
	ListByProductID(ctx context.Context, productID int64) ([]model.Promotion, error)
	ListByStartDate(ctx context.Context, start time.Time) ([]model.Promotion, error)
	ListActiveOn(ctx context.Context, at time.Time) ([]model.Promotion, error)
}

// ListFilter selects at most one equality filter for List. When more than one
// field is set, dispatch priority is product id, name, start date, active-on.
type ListFilter struct {
	ProductID *int64
	Name      *string
	StartDate *time.Time
	ActiveOn  *time.Time
}

// PromotionService provides business logic for promotion operations.
type PromotionService struct {
	repo PromotionRepositoryInterface
}

// NewPromotionService creates a new PromotionService with the given repository.
func NewPromotionService(repo PromotionRepositoryInterface) *PromotionService {
	return &PromotionService{repo: repo}
}

// List returns promotions matching the filter, or all promotions when the
// filter is empty.
func (s *PromotionService) List(ctx context.Context, filter ListFilter) ([]model.Promotion, error) {
	switch {
	case filter.ProductID != nil:
		return s.repo.ListByProductID(ctx, *filter.ProductID)
	case filter.Name != nil:
		return s.repo.ListByName(ctx, *filter.Name)
	case filter.StartDate != nil:
		return s.repo.ListByStartDate(ctx, *filter.StartDate)
	case filter.ActiveOn != nil:
		return s.repo.ListActiveOn(ctx, *filter.ActiveOn)
	default:
		return s.repo.ListAll(ctx)
	}
}

// Get retrieves a promotion by id.
// Returns ErrPromotionNotFound if no promotion has that id.
func (s *PromotionService) Get(ctx context.Context, id int64) (*model.Promotion, error) {
	promo, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get promotion: %w", err)
	}
	if promo == nil {
		return nil, ErrPromotionNotFound
	}
	return promo, nil
}

// Create persists a fresh promotion and assigns its id. Any id already on
// promo is discarded so the store generates the next one.
func (s *PromotionService) Create(ctx context.Context, promo *model.Promotion) error {
	promo.ID = 0
	return s.repo.Insert(ctx, promo)
}

// Update persists the promotion's current field values under its existing id.
// Callers verify existence first; updates race deletes only through the
// store's own transaction behavior.
func (s *PromotionService) Update(ctx context.Context, promo *model.Promotion) error {
	return s.repo.Update(ctx, promo)
}

// Delete removes a promotion by id. Idempotent: deleting an absent id is not
// an error.
func (s *PromotionService) Delete(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}

// Invalidate forces ongoing=false on the promotion with the given id and
// persists it. Returns ErrPromotionNotFound if no promotion has that id.
func (s *PromotionService) Invalidate(ctx context.Context, id int64) (*model.Promotion, error) {
	promo, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	promo.Ongoing = false
	if err := s.repo.Update(ctx, promo); err != nil {
		return nil, fmt.Errorf("invalidate promotion: %w", err)
	}
	return promo, nil
}
