package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/storefront/backend/internal/domain/identity"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/domain/storefront"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupStorefrontTestDB(t *testing.T) *gorm.DB {
	db, err := Open(sqlite.Open(":memory:"))
	require.NoError(t, err)

	// every connection to :memory: is a separate database
	sqlDB, err := db.DB.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate())
	return db.DB
}

func createTestStore(t *testing.T, db *gorm.DB, name string) *storefront.Store {
	store, err := storefront.NewStore(uuid.New(), name, "owner@example.com")
	require.NoError(t, err)
	require.NoError(t, NewGormStoreRepository(db).Save(context.Background(), store))
	return store
}

func createTestProduct(t *testing.T, db *gorm.DB, storeID uuid.UUID, name string, categoryID *uuid.UUID) *storefront.Product {
	product, err := storefront.NewProduct(storeID, storefront.ProductInput{
		Name:        name,
		Description: name + " description",
		Price:       decimal.NewFromFloat(10.5),
		CategoryID:  categoryID,
	}, "https://cdn.example.com/"+name+".png")
	require.NoError(t, err)
	require.NoError(t, NewGormProductRepository(db).Save(context.Background(), product))
	return product
}

func TestGormStoreRepository(t *testing.T) {
	db := setupStorefrontTestDB(t)
	repo := NewGormStoreRepository(db)
	ctx := context.Background()

	store := createTestStore(t, db, "Acme")

	t.Run("finds by id", func(t *testing.T) {
		found, err := repo.FindByID(ctx, store.ID)
		require.NoError(t, err)
		assert.Equal(t, "Acme", found.Name)
		assert.Equal(t, storefront.DefaultColors(), found.Colors)
	})

	t.Run("finds by owner", func(t *testing.T) {
		found, err := repo.FindByOwner(ctx, store.OwnerID)
		require.NoError(t, err)
		assert.Equal(t, store.ID, found.ID)
	})

	t.Run("rejects a foreign owner", func(t *testing.T) {
		_, err := repo.FindByIDForOwner(ctx, uuid.New(), store.ID)
		assert.ErrorIs(t, err, storefront.ErrStoreNotFound)
	})

	t.Run("persists profile changes", func(t *testing.T) {
		require.NoError(t, store.UpdateProfile("Acme Shop", "+58 412 555 1234", "Main St 1", "https://maps.example.com/acme"))
		require.NoError(t, store.SetColors("#112233", ""))
		require.NoError(t, repo.Save(ctx, store))

		found, err := repo.FindByIDForOwner(ctx, store.OwnerID, store.ID)
		require.NoError(t, err)
		assert.Equal(t, "Acme Shop", found.Name)
		assert.Equal(t, "+58 412 555 1234", found.Whatsapp)
		assert.Equal(t, "#112233", found.Colors.Primary)
		assert.Equal(t, storefront.DefaultSecondaryColor, found.Colors.Secondary)
	})

	t.Run("unknown store", func(t *testing.T) {
		_, err := repo.FindByID(ctx, uuid.New())
		assert.ErrorIs(t, err, storefront.ErrStoreNotFound)
	})
}

func TestGormCategoryRepository(t *testing.T) {
	db := setupStorefrontTestDB(t)
	repo := NewGormCategoryRepository(db)
	ctx := context.Background()

	store := createTestStore(t, db, "Acme")
	other := createTestStore(t, db, "Other")

	for _, name := range []string{"Shoes", "Bags", "Hats"} {
		c, err := storefront.NewCategory(store.ID, name, "")
		require.NoError(t, err)
		require.NoError(t, repo.Save(ctx, c))
	}

	t.Run("lists by name", func(t *testing.T) {
		categories, err := repo.FindAllForTenant(ctx, store.ID)
		require.NoError(t, err)
		require.Len(t, categories, 3)
		assert.Equal(t, "Bags", categories[0].Name)
		assert.Equal(t, "Hats", categories[1].Name)
		assert.Equal(t, "Shoes", categories[2].Name)
	})

	t.Run("isolates stores", func(t *testing.T) {
		categories, err := repo.FindAllForTenant(ctx, other.ID)
		require.NoError(t, err)
		assert.Empty(t, categories)

		count, err := repo.CountForTenant(ctx, store.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(3), count)
	})

	t.Run("detects duplicate names ignoring case", func(t *testing.T) {
		exists, err := repo.ExistsByName(ctx, store.ID, "  shoes ", nil)
		require.NoError(t, err)
		assert.True(t, exists)

		exists, err = repo.ExistsByName(ctx, other.ID, "Shoes", nil)
		require.NoError(t, err)
		assert.False(t, exists)
	})

	t.Run("excludes the renamed category itself", func(t *testing.T) {
		categories, err := repo.FindAllForTenant(ctx, store.ID)
		require.NoError(t, err)
		id := categories[0].ID

		exists, err := repo.ExistsByName(ctx, store.ID, "Bags", &id)
		require.NoError(t, err)
		assert.False(t, exists)
	})

	t.Run("delete detaches products", func(t *testing.T) {
		category, err := storefront.NewCategory(store.ID, "Sale", "")
		require.NoError(t, err)
		require.NoError(t, repo.Save(ctx, category))

		p1 := createTestProduct(t, db, store.ID, "p1", &category.ID)
		createTestProduct(t, db, store.ID, "p2", &category.ID)
		createTestProduct(t, db, store.ID, "p3", nil)

		detached, err := repo.DeleteForTenant(ctx, store.ID, category.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(2), detached)

		_, err = repo.FindByIDForTenant(ctx, store.ID, category.ID)
		assert.ErrorIs(t, err, shared.ErrNotFound)

		product, err := NewGormProductRepository(db).FindByIDForTenant(ctx, store.ID, p1.ID)
		require.NoError(t, err)
		assert.Nil(t, product.CategoryID)
	})

	t.Run("delete of another store's category is not found", func(t *testing.T) {
		categories, err := repo.FindAllForTenant(ctx, store.ID)
		require.NoError(t, err)

		_, err = repo.DeleteForTenant(ctx, other.ID, categories[0].ID)
		assert.ErrorIs(t, err, shared.ErrNotFound)

		_, err = repo.FindByIDForTenant(ctx, store.ID, categories[0].ID)
		assert.NoError(t, err)
	})
}

func TestGormProductRepository(t *testing.T) {
	db := setupStorefrontTestDB(t)
	repo := NewGormProductRepository(db)
	ctx := context.Background()

	store := createTestStore(t, db, "Acme")
	other := createTestStore(t, db, "Other")
	categoryID := uuid.New()

	first := createTestProduct(t, db, store.ID, "first", &categoryID)
	time.Sleep(5 * time.Millisecond)
	createTestProduct(t, db, store.ID, "second", nil)
	time.Sleep(5 * time.Millisecond)
	third := createTestProduct(t, db, store.ID, "third", &categoryID)
	createTestProduct(t, db, other.ID, "foreign", nil)

	t.Run("lists newest first", func(t *testing.T) {
		products, err := repo.FindAllForTenant(ctx, store.ID, storefront.ProductFilter{})
		require.NoError(t, err)
		require.Len(t, products, 3)
		assert.Equal(t, third.ID, products[0].ID)
		assert.Equal(t, first.ID, products[2].ID)
	})

	t.Run("filters by category", func(t *testing.T) {
		products, err := repo.FindAllForTenant(ctx, store.ID, storefront.ProductFilter{CategoryID: &categoryID})
		require.NoError(t, err)
		assert.Len(t, products, 2)

		count, err := repo.CountByCategory(ctx, store.ID, categoryID)
		require.NoError(t, err)
		assert.Equal(t, int64(2), count)
	})

	t.Run("paginates", func(t *testing.T) {
		filter := storefront.ProductFilter{Filter: shared.Filter{Page: 2, PageSize: 2}}
		products, err := repo.FindAllForTenant(ctx, store.ID, filter)
		require.NoError(t, err)
		require.Len(t, products, 1)
		assert.Equal(t, first.ID, products[0].ID)
	})

	t.Run("keeps the price", func(t *testing.T) {
		found, err := repo.FindByIDForTenant(ctx, store.ID, first.ID)
		require.NoError(t, err)
		assert.True(t, found.Price.Equal(decimal.NewFromFloat(10.5)), "price %s", found.Price)
		assert.Equal(t, "https://cdn.example.com/first.png", found.ImageURL)
	})

	t.Run("products of another store are invisible", func(t *testing.T) {
		_, err := repo.FindByIDForTenant(ctx, other.ID, first.ID)
		assert.ErrorIs(t, err, shared.ErrNotFound)

		assert.ErrorIs(t, repo.DeleteForTenant(ctx, other.ID, first.ID), shared.ErrNotFound)
	})

	t.Run("deletes", func(t *testing.T) {
		require.NoError(t, repo.DeleteForTenant(ctx, store.ID, third.ID))

		count, err := repo.CountForTenant(ctx, store.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(2), count)
	})
}

func TestGormPromotionRepository(t *testing.T) {
	db := setupStorefrontTestDB(t)
	repo := NewGormPromotionRepository(db)
	ctx := context.Background()

	store := createTestStore(t, db, "Acme")
	inactive := false

	active, err := storefront.NewPromotion(store.ID, storefront.PromotionInput{Title: "2x1", Description: "Two for one"}, "")
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, active))

	hidden, err := storefront.NewPromotion(store.ID, storefront.PromotionInput{
		Title:       "Free shipping",
		Description: "On every order",
		Type:        storefront.PromotionTypeShipping,
		Active:      &inactive,
	}, "")
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, hidden))

	t.Run("lists all", func(t *testing.T) {
		promotions, err := repo.FindAllForTenant(ctx, store.ID, false)
		require.NoError(t, err)
		assert.Len(t, promotions, 2)
	})

	t.Run("lists only active", func(t *testing.T) {
		promotions, err := repo.FindAllForTenant(ctx, store.ID, true)
		require.NoError(t, err)
		require.Len(t, promotions, 1)
		assert.Equal(t, "2x1", promotions[0].Title)
		assert.Equal(t, storefront.PromotionTypeDiscount, promotions[0].Type)

		count, err := repo.CountActive(ctx, store.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(1), count)
	})

	t.Run("toggle persists", func(t *testing.T) {
		hidden.SetActive(true)
		require.NoError(t, repo.Save(ctx, hidden))

		found, err := repo.FindByIDForTenant(ctx, store.ID, hidden.ID)
		require.NoError(t, err)
		assert.True(t, found.Active)
	})

	t.Run("deletes", func(t *testing.T) {
		require.NoError(t, repo.DeleteForTenant(ctx, store.ID, active.ID))
		assert.ErrorIs(t, repo.DeleteForTenant(ctx, store.ID, active.ID), shared.ErrNotFound)
	})
}

func TestGormOwnerRepository(t *testing.T) {
	db := setupStorefrontTestDB(t)
	repo := NewGormOwnerRepository(db)
	ctx := context.Background()

	owner, err := identity.NewOwner("Owner@Example.com", "secret123")
	require.NoError(t, err)

	store, err := storefront.NewStore(owner.ID, "Acme", owner.Email)
	require.NoError(t, err)

	require.NoError(t, NewGormRegistrar(db).Register(ctx, owner, store))

	t.Run("finds by email ignoring case", func(t *testing.T) {
		found, err := repo.FindByEmail(ctx, "OWNER@example.com")
		require.NoError(t, err)
		assert.Equal(t, owner.ID, found.ID)
		assert.True(t, found.VerifyPassword("secret123"))
	})

	t.Run("exists by email", func(t *testing.T) {
		exists, err := repo.ExistsByEmail(ctx, "owner@example.com")
		require.NoError(t, err)
		assert.True(t, exists)

		exists, err = repo.ExistsByEmail(ctx, "nobody@example.com")
		require.NoError(t, err)
		assert.False(t, exists)
	})

	t.Run("registration created the store", func(t *testing.T) {
		found, err := NewGormStoreRepository(db).FindByOwner(ctx, owner.ID)
		require.NoError(t, err)
		assert.Equal(t, store.ID, found.ID)
	})

	t.Run("registration rolls back when the store fails", func(t *testing.T) {
		second, err := identity.NewOwner("second@example.com", "secret123")
		require.NoError(t, err)
		// owner_id is unique, so a second store for the first owner fails
		dup, err := storefront.NewStore(owner.ID, "Dup", second.Email)
		require.NoError(t, err)

		assert.Error(t, NewGormRegistrar(db).Register(ctx, second, dup))

		_, err = repo.FindByID(ctx, second.ID)
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("records login failures", func(t *testing.T) {
		owner.RecordLoginFailure(5, time.Minute)
		require.NoError(t, repo.Save(ctx, owner))

		found, err := repo.FindByID(ctx, owner.ID)
		require.NoError(t, err)
		assert.Equal(t, 1, found.FailedAttempts)
	})
}
