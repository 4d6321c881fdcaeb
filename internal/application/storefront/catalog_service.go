package storefront

import (
	"context"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/cart"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/domain/storefront"
)

// CatalogService serves the public storefront of a store. It needs no
// authentication; the store comes from the request path.
type CatalogService struct {
	storeRepo     storefront.StoreRepository
	categoryRepo  storefront.CategoryRepository
	productRepo   storefront.ProductRepository
	promotionRepo storefront.PromotionRepository
}

// NewCatalogService creates a new CatalogService
func NewCatalogService(
	storeRepo storefront.StoreRepository,
	categoryRepo storefront.CategoryRepository,
	productRepo storefront.ProductRepository,
	promotionRepo storefront.PromotionRepository,
) *CatalogService {
	return &CatalogService{
		storeRepo:     storeRepo,
		categoryRepo:  categoryRepo,
		productRepo:   productRepo,
		promotionRepo: promotionRepo,
	}
}

// GetStore returns the public profile of a store
func (s *CatalogService) GetStore(ctx context.Context, storeID uuid.UUID) (*PublicStoreResponse, error) {
	store, err := s.storeRepo.FindByID(ctx, storeID)
	if err != nil {
		return nil, err
	}
	resp := ToPublicStoreResponse(store)
	return &resp, nil
}

// ListCategories returns the store categories ordered by name
func (s *CatalogService) ListCategories(ctx context.Context, storeID uuid.UUID) ([]CategoryResponse, error) {
	if err := s.requireStore(ctx, storeID); err != nil {
		return nil, err
	}
	categories, err := s.categoryRepo.FindAllForTenant(ctx, storeID)
	if err != nil {
		return nil, err
	}
	return ToCategoryResponses(categories), nil
}

// ListProducts returns the store products newest first, filtered by
// category and an accent-insensitive search on name and description
func (s *CatalogService) ListProducts(ctx context.Context, storeID uuid.UUID, query ProductQuery) (shared.Paginated[ProductResponse], error) {
	if err := s.requireStore(ctx, storeID); err != nil {
		return shared.Paginated[ProductResponse]{}, err
	}
	return listProducts(ctx, s.productRepo, storeID, query)
}

// ListPromotions returns the active promotions, newest first
func (s *CatalogService) ListPromotions(ctx context.Context, storeID uuid.UUID) ([]PromotionResponse, error) {
	if err := s.requireStore(ctx, storeID); err != nil {
		return nil, err
	}
	promotions, err := s.promotionRepo.FindAllForTenant(ctx, storeID, true)
	if err != nil {
		return nil, err
	}
	return ToPromotionResponses(promotions), nil
}

// FindProduct returns a product of the store. Products of other stores are
// not found.
func (s *CatalogService) FindProduct(ctx context.Context, storeID, productID uuid.UUID) (*storefront.Product, error) {
	return s.productRepo.FindByIDForTenant(ctx, storeID, productID)
}

// ContactInfo returns the name and WhatsApp number checkout sends to
func (s *CatalogService) ContactInfo(ctx context.Context, storeID uuid.UUID) (cart.ContactInfo, error) {
	store, err := s.storeRepo.FindByID(ctx, storeID)
	if err != nil {
		return cart.ContactInfo{}, err
	}
	return store.ContactInfo(), nil
}

func (s *CatalogService) requireStore(ctx context.Context, storeID uuid.UUID) error {
	_, err := s.storeRepo.FindByID(ctx, storeID)
	return err
}
