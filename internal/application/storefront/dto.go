// Package storefront implements the admin CRUD use cases of a store and the
// public catalog read by shoppers.
package storefront

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/storefront/backend/internal/domain/storefront"
)

// UpdateStoreRequest represents a request to update the store profile
type UpdateStoreRequest struct {
	Name           string `json:"name" binding:"required,min=1,max=200"`
	Whatsapp       string `json:"whatsapp" binding:"required,whatsapp"`
	Address        string `json:"address" binding:"max=500"`
	MapLink        string `json:"map_link" binding:"omitempty,url,max=1000"`
	PrimaryColor   string `json:"primary_color" binding:"omitempty,hexcolor6"`
	SecondaryColor string `json:"secondary_color" binding:"omitempty,hexcolor6"`
}

// ColorsResponse is the storefront theme
type ColorsResponse struct {
	Primary   string `json:"primary"`
	Secondary string `json:"secondary"`
	Light     string `json:"light"`
}

// StoreResponse represents the store profile in admin responses
type StoreResponse struct {
	ID        uuid.UUID      `json:"id"`
	OwnerID   uuid.UUID      `json:"owner_id"`
	Name      string         `json:"name"`
	Email     string         `json:"email"`
	Whatsapp  string         `json:"whatsapp"`
	Address   string         `json:"address"`
	MapLink   string         `json:"map_link"`
	LogoURL   string         `json:"logo_url"`
	Colors    ColorsResponse `json:"colors"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}

// PublicStoreResponse is the store as shown to shoppers
type PublicStoreResponse struct {
	ID       uuid.UUID      `json:"id"`
	Name     string         `json:"name"`
	Whatsapp string         `json:"whatsapp"`
	Address  string         `json:"address"`
	MapLink  string         `json:"map_link"`
	LogoURL  string         `json:"logo_url"`
	Colors   ColorsResponse `json:"colors"`
}

// CategoryRequest represents a request to create or update a category
type CategoryRequest struct {
	Name        string `json:"name" binding:"required,min=1,max=100"`
	Description string `json:"description" binding:"max=500"`
}

// CategoryResponse represents a category in API responses
type CategoryResponse struct {
	ID          uuid.UUID `json:"id"`
	StoreID     uuid.UUID `json:"store_id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// DeleteCategoryResult reports what a category deletion touched
type DeleteCategoryResult struct {
	DetachedProducts int64 `json:"detached_products"`
}

// ProductRequest carries the form fields of a product.
// Price and category arrive as text from multipart forms.
type ProductRequest struct {
	Name        string `form:"name" json:"name" binding:"required,min=1,max=200"`
	Description string `form:"description" json:"description" binding:"required,max=2000"`
	Price       string `form:"price" json:"price" binding:"required"`
	CategoryID  string `form:"category_id" json:"category_id" binding:"required"`
}

// ProductResponse represents a product in API responses
type ProductResponse struct {
	ID          uuid.UUID       `json:"id"`
	StoreID     uuid.UUID       `json:"store_id"`
	CategoryID  *uuid.UUID      `json:"category_id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	ImageURL    string          `json:"image_url"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// ProductQuery filters a product listing.
// CategoryID "all" or empty means every category.
type ProductQuery struct {
	Search     string `form:"search" binding:"max=200"`
	CategoryID string `form:"category_id"`
	Page       int    `form:"page" binding:"omitempty,min=1"`
	PageSize   int    `form:"page_size" binding:"omitempty,min=1,max=100"`
}

// PromotionRequest carries the fields of a promotion
type PromotionRequest struct {
	Title       string `form:"title" json:"title" binding:"required,min=1,max=200"`
	Description string `form:"description" json:"description" binding:"required,max=1000"`
	Type        string `form:"type" json:"type" binding:"omitempty,oneof=discount shipping offer"`
	Active      *bool  `form:"active" json:"active"`
}

// SetPromotionActiveRequest turns a promotion on or off
type SetPromotionActiveRequest struct {
	Active *bool `json:"active" binding:"required"`
}

// PromotionResponse represents a promotion in API responses
type PromotionResponse struct {
	ID          uuid.UUID `json:"id"`
	StoreID     uuid.UUID `json:"store_id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Type        string    `json:"type"`
	ImageURL    string    `json:"image_url"`
	Active      bool      `json:"active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// StatsResponse holds the dashboard counters of a store
type StatsResponse struct {
	Products         int64 `json:"products"`
	Categories       int64 `json:"categories"`
	ActivePromotions int64 `json:"active_promotions"`
}

func toColorsResponse(s *storefront.Store) ColorsResponse {
	return ColorsResponse{
		Primary:   s.Colors.Primary,
		Secondary: s.Colors.Secondary,
		Light:     s.LightPrimary(),
	}
}

// ToStoreResponse converts a domain Store to StoreResponse
func ToStoreResponse(s *storefront.Store) StoreResponse {
	return StoreResponse{
		ID:        s.ID,
		OwnerID:   s.OwnerID,
		Name:      s.Name,
		Email:     s.Email,
		Whatsapp:  s.Whatsapp,
		Address:   s.Address,
		MapLink:   s.MapLink,
		LogoURL:   s.LogoURL,
		Colors:    toColorsResponse(s),
		CreatedAt: s.CreatedAt,
		UpdatedAt: s.UpdatedAt,
	}
}

// ToPublicStoreResponse converts a domain Store to PublicStoreResponse
func ToPublicStoreResponse(s *storefront.Store) PublicStoreResponse {
	return PublicStoreResponse{
		ID:       s.ID,
		Name:     s.Name,
		Whatsapp: s.Whatsapp,
		Address:  s.Address,
		MapLink:  s.MapLink,
		LogoURL:  s.LogoURL,
		Colors:   toColorsResponse(s),
	}
}

// ToCategoryResponse converts a domain Category to CategoryResponse
func ToCategoryResponse(c *storefront.Category) CategoryResponse {
	return CategoryResponse{
		ID:          c.ID,
		StoreID:     c.TenantID,
		Name:        c.Name,
		Description: c.Description,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}

// ToCategoryResponses converts a slice of domain Categories
func ToCategoryResponses(categories []storefront.Category) []CategoryResponse {
	responses := make([]CategoryResponse, len(categories))
	for i := range categories {
		responses[i] = ToCategoryResponse(&categories[i])
	}
	return responses
}

// ToProductResponse converts a domain Product to ProductResponse
func ToProductResponse(p *storefront.Product) ProductResponse {
	return ProductResponse{
		ID:          p.ID,
		StoreID:     p.TenantID,
		CategoryID:  p.CategoryID,
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price,
		ImageURL:    p.ImageURL,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

// ToProductResponses converts a slice of domain Products
func ToProductResponses(products []storefront.Product) []ProductResponse {
	responses := make([]ProductResponse, len(products))
	for i := range products {
		responses[i] = ToProductResponse(&products[i])
	}
	return responses
}

// ToPromotionResponse converts a domain Promotion to PromotionResponse
func ToPromotionResponse(p *storefront.Promotion) PromotionResponse {
	return PromotionResponse{
		ID:          p.ID,
		StoreID:     p.TenantID,
		Title:       p.Title,
		Description: p.Description,
		Type:        string(p.Type),
		ImageURL:    p.ImageURL,
		Active:      p.Active,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

// ToPromotionResponses converts a slice of domain Promotions
func ToPromotionResponses(promotions []storefront.Promotion) []PromotionResponse {
	responses := make([]PromotionResponse, len(promotions))
	for i := range promotions {
		responses[i] = ToPromotionResponse(&promotions[i])
	}
	return responses
}
