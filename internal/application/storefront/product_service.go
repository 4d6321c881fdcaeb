package storefront

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/domain/storefront"
	"go.uber.org/zap"
)

// ProductService handles product-related business operations
type ProductService struct {
	productRepo  storefront.ProductRepository
	categoryRepo storefront.CategoryRepository
	images       *ImageUploader
	logger       *zap.Logger
}

// NewProductService creates a new ProductService
func NewProductService(
	productRepo storefront.ProductRepository,
	categoryRepo storefront.CategoryRepository,
	images *ImageUploader,
	logger *zap.Logger,
) *ProductService {
	return &ProductService{
		productRepo:  productRepo,
		categoryRepo: categoryRepo,
		images:       images,
		logger:       logger,
	}
}

// List returns the products of a store, newest first
func (s *ProductService) List(ctx context.Context, storeID uuid.UUID, query ProductQuery) (shared.Paginated[ProductResponse], error) {
	return listProducts(ctx, s.productRepo, storeID, query)
}

// GetByID retrieves a product by ID
func (s *ProductService) GetByID(ctx context.Context, storeID, id uuid.UUID) (*ProductResponse, error) {
	product, err := s.productRepo.FindByIDForTenant(ctx, storeID, id)
	if err != nil {
		return nil, err
	}
	resp := ToProductResponse(product)
	return &resp, nil
}

// Create creates a product. The image is mandatory.
func (s *ProductService) Create(ctx context.Context, storeID uuid.UUID, req ProductRequest, img *ImageUpload) (*ProductResponse, error) {
	input, err := s.parseInput(ctx, storeID, req)
	if err != nil {
		return nil, err
	}
	if err := input.Validate(); err != nil {
		return nil, err
	}
	if img == nil {
		return nil, shared.NewDomainError("IMAGE_REQUIRED", "Product image is required")
	}

	imageURL, err := s.images.Upload(ctx, storeID, ImageKindProduct, img)
	if err != nil {
		return nil, err
	}

	product, err := storefront.NewProduct(storeID, input, imageURL)
	if err != nil {
		s.discard(ctx, imageURL)
		return nil, err
	}

	if err := s.productRepo.Save(ctx, product); err != nil {
		s.discard(ctx, imageURL)
		return nil, err
	}

	resp := ToProductResponse(product)
	return &resp, nil
}

// Update replaces the product fields. Without a new image the current one is kept.
func (s *ProductService) Update(ctx context.Context, storeID, id uuid.UUID, req ProductRequest, img *ImageUpload) (*ProductResponse, error) {
	product, err := s.productRepo.FindByIDForTenant(ctx, storeID, id)
	if err != nil {
		return nil, err
	}

	input, err := s.parseInput(ctx, storeID, req)
	if err != nil {
		return nil, err
	}
	if err := input.Validate(); err != nil {
		return nil, err
	}

	var imageURL string
	if img != nil {
		imageURL, err = s.images.Upload(ctx, storeID, ImageKindProduct, img)
		if err != nil {
			return nil, err
		}
	}

	previous := product.ImageURL
	if err := product.Update(input, imageURL); err != nil {
		s.discard(ctx, imageURL)
		return nil, err
	}

	if err := s.productRepo.Save(ctx, product); err != nil {
		s.discard(ctx, imageURL)
		return nil, err
	}
	if imageURL != "" && previous != imageURL {
		s.discard(ctx, previous)
	}

	resp := ToProductResponse(product)
	return &resp, nil
}

// Delete removes a product and its image
func (s *ProductService) Delete(ctx context.Context, storeID, id uuid.UUID) error {
	product, err := s.productRepo.FindByIDForTenant(ctx, storeID, id)
	if err != nil {
		return err
	}
	if err := s.productRepo.DeleteForTenant(ctx, storeID, id); err != nil {
		return err
	}
	s.discard(ctx, product.ImageURL)
	return nil
}

// parseInput converts form text into a ProductInput and checks that the
// category belongs to the store
func (s *ProductService) parseInput(ctx context.Context, storeID uuid.UUID, req ProductRequest) (storefront.ProductInput, error) {
	price, err := decimal.NewFromString(strings.TrimSpace(req.Price))
	if err != nil {
		return storefront.ProductInput{}, shared.NewDomainError("INVALID_PRICE", "Price must be a valid number")
	}

	categoryID, err := uuid.Parse(strings.TrimSpace(req.CategoryID))
	if err != nil {
		return storefront.ProductInput{}, shared.NewDomainError("CATEGORY_REQUIRED", "Product category is required")
	}

	if _, err := s.categoryRepo.FindByIDForTenant(ctx, storeID, categoryID); err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return storefront.ProductInput{}, shared.NewDomainError("INVALID_CATEGORY", "Category not found")
		}
		return storefront.ProductInput{}, err
	}

	return storefront.ProductInput{
		Name:        req.Name,
		Description: req.Description,
		Price:       price,
		CategoryID:  &categoryID,
	}, nil
}

func (s *ProductService) discard(ctx context.Context, imageURL string) {
	if err := s.images.Discard(ctx, imageURL); err != nil {
		s.logger.Warn("Failed to delete image", zap.String("url", imageURL), zap.Error(err))
	}
}

// listProducts loads the store products newest first, applies the category
// filter in the database and the accent-insensitive search in memory, then
// paginates. A zero page size returns everything on one page.
func listProducts(ctx context.Context, repo storefront.ProductRepository, storeID uuid.UUID, query ProductQuery) (shared.Paginated[ProductResponse], error) {
	filter := storefront.ProductFilter{
		Filter: shared.Filter{OrderBy: "created_at", OrderDir: "desc"},
	}

	categoryID, err := parseCategoryFilter(query.CategoryID)
	if err != nil {
		return shared.Paginated[ProductResponse]{}, err
	}
	filter.CategoryID = categoryID

	products, err := repo.FindAllForTenant(ctx, storeID, filter)
	if err != nil {
		return shared.Paginated[ProductResponse]{}, err
	}
	products = storefront.FilterProducts(products, query.Search)

	total := int64(len(products))
	page, pageSize := query.Page, query.PageSize
	if page < 1 {
		page = 1
	}
	if pageSize > 0 {
		// compare before multiplying so large page numbers cannot overflow
		start := len(products)
		if page-1 <= len(products)/pageSize {
			start = min((page-1)*pageSize, len(products))
		}
		end := len(products)
		if pageSize < end-start {
			end = start + pageSize
		}
		products = products[start:end]
	} else {
		pageSize = len(products)
	}

	return shared.NewPaginated(ToProductResponses(products), total, page, pageSize), nil
}

func parseCategoryFilter(raw string) (*uuid.UUID, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" || strings.EqualFold(raw, "all") {
		return nil, nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil, shared.NewValidationError("category_id must be a UUID or 'all'")
	}
	return &id, nil
}
