package catalog

import (
	"context"

	"github.com/eventix/eventix/internal/domain"
	"github.com/eventix/eventix/internal/repository"
	"github.com/shopspring/decimal"
)

type CatalogUseCase interface {
	ListEvents(ctx context.Context) ([]domain.Event, error)
	GetEvent(ctx context.Context, id int64) (*domain.Event, error)
	CreateEvent(ctx context.Context, event *domain.Event) error
	GetTier(ctx context.Context, id int64) (*domain.TicketTier, error)
	CreateTier(ctx context.Context, tier *domain.TicketTier) error
	DeleteTier(ctx context.Context, id int64) error
	UpdateTierPrice(ctx context.Context, id int64, price decimal.Decimal) error
}

type Cache interface {
	GetEvents(ctx context.Context) ([]domain.Event, error)
	SetEvents(ctx context.Context, events []domain.Event) error
	InvalidateEvents(ctx context.Context) error
}

type CatalogService struct {
	repo  repository.TierRepository
	cache Cache
}

func NewCatalogService(repo repository.TierRepository, cache Cache) *CatalogService {
	return &CatalogService{repo: repo, cache: cache}
}

func (s *CatalogService) ListEvents(ctx context.Context) ([]domain.Event, error) {
	if s.cache != nil {
		if cached, err := s.cache.GetEvents(ctx); err == nil && cached != nil {
			return cached, nil
		}
	}

	events, err := s.repo.ListEvents(ctx)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		_ = s.cache.SetEvents(ctx, events)
	}
	return events, nil
}

func (s *CatalogService) GetEvent(ctx context.Context, id int64) (*domain.Event, error) {
	return s.repo.GetEvent(ctx, id)
}

func (s *CatalogService) CreateEvent(ctx context.Context, event *domain.Event) error {
	if err := s.repo.CreateEvent(ctx, event); err != nil {
		return err
	}
	s.invalidate(ctx)
	return nil
}

func (s *CatalogService) GetTier(ctx context.Context, id int64) (*domain.TicketTier, error) {
	return s.repo.GetTier(ctx, id)
}

func (s *CatalogService) CreateTier(ctx context.Context, tier *domain.TicketTier) error {
	if err := s.repo.CreateTier(ctx, tier); err != nil {
		return err
	}
	s.invalidate(ctx)
	return nil
}

// DeleteTier removes an unreferenced tier. Tiers referenced by any order
// survive: the repository reports ErrTierInUse and nothing changes.
func (s *CatalogService) DeleteTier(ctx context.Context, id int64) error {
	if err := s.repo.DeleteTier(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx)
	return nil
}

// UpdateTierPrice changes what future buyers pay. Existing orders are
// untouched: they carry the price captured when their inventory was reserved.
func (s *CatalogService) UpdateTierPrice(ctx context.Context, id int64, price decimal.Decimal) error {
	if err := s.repo.UpdateTierPrice(ctx, id, price); err != nil {
		return err
	}
	s.invalidate(ctx)
	return nil
}

func (s *CatalogService) invalidate(ctx context.Context) {
	if s.cache != nil {
		_ = s.cache.InvalidateEvents(ctx)
	}
}

var _ CatalogUseCase = (*CatalogService)(nil)
