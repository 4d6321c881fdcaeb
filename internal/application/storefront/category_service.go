package storefront

import (
	"context"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/domain/storefront"
	"go.uber.org/zap"
)

// CategoryService handles category-related business operations
type CategoryService struct {
	categoryRepo storefront.CategoryRepository
	logger       *zap.Logger
}

// NewCategoryService creates a new CategoryService
func NewCategoryService(categoryRepo storefront.CategoryRepository, logger *zap.Logger) *CategoryService {
	return &CategoryService{
		categoryRepo: categoryRepo,
		logger:       logger,
	}
}

// List returns the categories of a store ordered by name
func (s *CategoryService) List(ctx context.Context, storeID uuid.UUID) ([]CategoryResponse, error) {
	categories, err := s.categoryRepo.FindAllForTenant(ctx, storeID)
	if err != nil {
		return nil, err
	}
	return ToCategoryResponses(categories), nil
}

// GetByID retrieves a category by ID
func (s *CategoryService) GetByID(ctx context.Context, storeID, id uuid.UUID) (*CategoryResponse, error) {
	category, err := s.categoryRepo.FindByIDForTenant(ctx, storeID, id)
	if err != nil {
		return nil, err
	}
	resp := ToCategoryResponse(category)
	return &resp, nil
}

// Create creates a new category
func (s *CategoryService) Create(ctx context.Context, storeID uuid.UUID, req CategoryRequest) (*CategoryResponse, error) {
	category, err := storefront.NewCategory(storeID, req.Name, req.Description)
	if err != nil {
		return nil, err
	}

	if err := s.ensureUniqueName(ctx, storeID, category.Name, nil); err != nil {
		return nil, err
	}

	if err := s.categoryRepo.Save(ctx, category); err != nil {
		return nil, err
	}

	resp := ToCategoryResponse(category)
	return &resp, nil
}

// Update renames a category
func (s *CategoryService) Update(ctx context.Context, storeID, id uuid.UUID, req CategoryRequest) (*CategoryResponse, error) {
	category, err := s.categoryRepo.FindByIDForTenant(ctx, storeID, id)
	if err != nil {
		return nil, err
	}

	if err := category.Update(req.Name, req.Description); err != nil {
		return nil, err
	}

	if err := s.ensureUniqueName(ctx, storeID, category.Name, &id); err != nil {
		return nil, err
	}

	if err := s.categoryRepo.Save(ctx, category); err != nil {
		return nil, err
	}

	resp := ToCategoryResponse(category)
	return &resp, nil
}

// Delete removes a category. Its products stay in the catalog without a
// category; both changes commit together.
func (s *CategoryService) Delete(ctx context.Context, storeID, id uuid.UUID) (*DeleteCategoryResult, error) {
	detached, err := s.categoryRepo.DeleteForTenant(ctx, storeID, id)
	if err != nil {
		return nil, err
	}

	s.logger.Info("Category deleted",
		zap.String("store_id", storeID.String()),
		zap.String("category_id", id.String()),
		zap.Int64("detached_products", detached))

	return &DeleteCategoryResult{DetachedProducts: detached}, nil
}

func (s *CategoryService) ensureUniqueName(ctx context.Context, storeID uuid.UUID, name string, excludeID *uuid.UUID) error {
	exists, err := s.categoryRepo.ExistsByName(ctx, storeID, name, excludeID)
	if err != nil {
		return err
	}
	if exists {
		return shared.NewDomainError("ALREADY_EXISTS", "A category with this name already exists")
	}
	return nil
}
