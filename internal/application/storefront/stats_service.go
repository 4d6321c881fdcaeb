package storefront

import (
	"context"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/storefront"
)

// StatsService computes the dashboard counters of a store
type StatsService struct {
	productRepo   storefront.ProductRepository
	categoryRepo  storefront.CategoryRepository
	promotionRepo storefront.PromotionRepository
}

// NewStatsService creates a new StatsService
func NewStatsService(
	productRepo storefront.ProductRepository,
	categoryRepo storefront.CategoryRepository,
	promotionRepo storefront.PromotionRepository,
) *StatsService {
	return &StatsService{
		productRepo:   productRepo,
		categoryRepo:  categoryRepo,
		promotionRepo: promotionRepo,
	}
}

// Get returns product, category and active promotion counts
func (s *StatsService) Get(ctx context.Context, storeID uuid.UUID) (*StatsResponse, error) {
	products, err := s.productRepo.CountForTenant(ctx, storeID)
	if err != nil {
		return nil, err
	}
	categories, err := s.categoryRepo.CountForTenant(ctx, storeID)
	if err != nil {
		return nil, err
	}
	promotions, err := s.promotionRepo.CountActive(ctx, storeID)
	if err != nil {
		return nil, err
	}
	return &StatsResponse{
		Products:         products,
		Categories:       categories,
		ActivePromotions: promotions,
	}, nil
}
