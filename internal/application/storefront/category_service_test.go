package storefront

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/domain/storefront"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestCategoryService_Create_Success(t *testing.T) {
	ctx := context.Background()
	storeID := uuid.New()
	repo := new(MockCategoryRepository)
	service := NewCategoryService(repo, zap.NewNop())

	repo.On("ExistsByName", ctx, storeID, "Bebidas", (*uuid.UUID)(nil)).Return(false, nil)
	repo.On("Save", ctx, mock.AnythingOfType("*storefront.Category")).Return(nil)

	result, err := service.Create(ctx, storeID, CategoryRequest{Name: " Bebidas "})

	require.NoError(t, err)
	assert.Equal(t, "Bebidas", result.Name)
	assert.Equal(t, storeID, result.StoreID)
	repo.AssertExpectations(t)
}

func TestCategoryService_Create_DuplicateName(t *testing.T) {
	ctx := context.Background()
	storeID := uuid.New()
	repo := new(MockCategoryRepository)
	service := NewCategoryService(repo, zap.NewNop())

	repo.On("ExistsByName", ctx, storeID, "Bebidas", (*uuid.UUID)(nil)).Return(true, nil)

	_, err := service.Create(ctx, storeID, CategoryRequest{Name: "Bebidas"})

	assert.ErrorIs(t, err, shared.ErrAlreadyExists)
	repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestCategoryService_Create_EmptyName(t *testing.T) {
	repo := new(MockCategoryRepository)
	service := NewCategoryService(repo, zap.NewNop())

	_, err := service.Create(context.Background(), uuid.New(), CategoryRequest{Name: "  "})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "name is required")
}

func TestCategoryService_Update_ExcludesSelfFromUniqueness(t *testing.T) {
	ctx := context.Background()
	storeID := uuid.New()
	repo := new(MockCategoryRepository)
	service := NewCategoryService(repo, zap.NewNop())

	category, _ := storefront.NewCategory(storeID, "Old", "")
	id := category.ID

	repo.On("FindByIDForTenant", ctx, storeID, id).Return(category, nil)
	repo.On("ExistsByName", ctx, storeID, "New", &id).Return(false, nil)
	repo.On("Save", ctx, category).Return(nil)

	result, err := service.Update(ctx, storeID, id, CategoryRequest{Name: "New"})

	require.NoError(t, err)
	assert.Equal(t, "New", result.Name)
	repo.AssertExpectations(t)
}

func TestCategoryService_Update_NotFound(t *testing.T) {
	ctx := context.Background()
	storeID, id := uuid.New(), uuid.New()
	repo := new(MockCategoryRepository)
	service := NewCategoryService(repo, zap.NewNop())

	repo.On("FindByIDForTenant", ctx, storeID, id).Return(nil, shared.ErrNotFound)

	_, err := service.Update(ctx, storeID, id, CategoryRequest{Name: "New"})
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestCategoryService_Delete_ReportsDetachedProducts(t *testing.T) {
	ctx := context.Background()
	storeID, id := uuid.New(), uuid.New()
	repo := new(MockCategoryRepository)
	service := NewCategoryService(repo, zap.NewNop())

	repo.On("DeleteForTenant", ctx, storeID, id).Return(int64(3), nil)

	result, err := service.Delete(ctx, storeID, id)

	require.NoError(t, err)
	assert.Equal(t, int64(3), result.DetachedProducts)
}

func TestCategoryService_Delete_Error(t *testing.T) {
	ctx := context.Background()
	storeID, id := uuid.New(), uuid.New()
	repo := new(MockCategoryRepository)
	service := NewCategoryService(repo, zap.NewNop())

	repo.On("DeleteForTenant", ctx, storeID, id).Return(int64(0), errors.New("tx aborted"))

	_, err := service.Delete(ctx, storeID, id)
	assert.Error(t, err)
}

func TestCategoryService_List(t *testing.T) {
	ctx := context.Background()
	storeID := uuid.New()
	repo := new(MockCategoryRepository)
	service := NewCategoryService(repo, zap.NewNop())

	a, _ := storefront.NewCategory(storeID, "A", "")
	b, _ := storefront.NewCategory(storeID, "B", "")
	repo.On("FindAllForTenant", ctx, storeID).Return([]storefront.Category{*a, *b}, nil)

	result, err := service.List(ctx, storeID)

	require.NoError(t, err)
	require.Len(t, result, 2)
	assert.Equal(t, "A", result[0].Name)
	assert.Equal(t, "B", result[1].Name)
}
