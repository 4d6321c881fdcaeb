// Package cart implements the shopper cart use cases: every mutation loads
// the cart, applies one change and persists it before answering.
package cart

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/storefront/backend/internal/domain/cart"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/domain/storefront"
	"go.uber.org/zap"
)

// Catalog resolves the products and contact data a cart needs
type Catalog interface {
	FindProduct(ctx context.Context, storeID, productID uuid.UUID) (*storefront.Product, error)
	ContactInfo(ctx context.Context, storeID uuid.UUID) (cart.ContactInfo, error)
}

// CheckoutRecorder is notified of every composed checkout
type CheckoutRecorder interface {
	RecordCheckout(ctx context.Context, storeID uuid.UUID, items int, total decimal.Decimal)
}

// ErrProductNotFound is returned when adding a product the store does not sell
var ErrProductNotFound = shared.NewDomainError("NOT_FOUND", "Product not found")

// Service handles cart operations
type Service struct {
	carts    cart.Repository
	catalog  Catalog
	recorder CheckoutRecorder
	logger   *zap.Logger
}

// Option configures a Service
type Option func(*Service)

// WithCheckoutRecorder reports checkouts to r
func WithCheckoutRecorder(r CheckoutRecorder) Option {
	return func(s *Service) {
		s.recorder = r
	}
}

// NewService creates a new cart Service
func NewService(carts cart.Repository, catalog Catalog, logger *zap.Logger, opts ...Option) *Service {
	s := &Service{
		carts:   carts,
		catalog: catalog,
		logger:  logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Get returns the current cart
func (s *Service) Get(ctx context.Context, key cart.Key) (*CartResponse, error) {
	c, err := s.load(ctx, key)
	if err != nil {
		return nil, err
	}
	resp := ToCartResponse(c)
	return &resp, nil
}

// Add puts one unit of productID in the cart. Name and price come from the
// store catalog, never from the client.
func (s *Service) Add(ctx context.Context, key cart.Key, productID string) (*CartResponse, error) {
	id, err := uuid.Parse(productID)
	if err != nil {
		return nil, ErrProductNotFound
	}

	product, err := s.catalog.FindProduct(ctx, key.TenantID, id)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("find product: %w", err)
	}

	return s.mutate(ctx, key, func(c *cart.Cart) {
		c.Add(product.ID.String(), product.Name, product.Price)
	})
}

// ChangeQuantity adds delta to a line, dropping it at zero
func (s *Service) ChangeQuantity(ctx context.Context, key cart.Key, productID string, delta int) (*CartResponse, error) {
	if delta == 0 {
		return nil, shared.NewValidationError("delta must not be zero")
	}
	return s.mutate(ctx, key, func(c *cart.Cart) {
		c.ChangeQuantity(productID, delta)
	})
}

// Remove deletes a line
func (s *Service) Remove(ctx context.Context, key cart.Key, productID string) (*CartResponse, error) {
	return s.mutate(ctx, key, func(c *cart.Cart) {
		c.Remove(productID)
	})
}

// Clear empties the cart
func (s *Service) Clear(ctx context.Context, key cart.Key) (*CartResponse, error) {
	return s.mutate(ctx, key, func(c *cart.Cart) {
		c.Clear()
	})
}

// Checkout composes the WhatsApp message for the cart. The cart is kept.
func (s *Service) Checkout(ctx context.Context, key cart.Key) (*CheckoutResponse, error) {
	c, err := s.load(ctx, key)
	if err != nil {
		return nil, err
	}

	info, err := s.catalog.ContactInfo(ctx, key.TenantID)
	if err != nil {
		return nil, err
	}

	checkout, err := cart.Compose(c, info)
	if err != nil {
		return nil, err
	}

	if s.recorder != nil {
		s.recorder.RecordCheckout(ctx, key.TenantID, c.Count(), checkout.Total)
	}
	s.logger.Info("Checkout composed",
		zap.String("store_id", key.TenantID.String()),
		zap.Int("items", c.Count()),
		zap.String("total", checkout.Total.StringFixed(2)))

	resp := ToCheckoutResponse(checkout)
	return &resp, nil
}

func (s *Service) load(ctx context.Context, key cart.Key) (*cart.Cart, error) {
	c, err := s.carts.Load(ctx, key)
	if err != nil {
		s.logger.Error("Failed to load cart", zap.String("store_id", key.TenantID.String()), zap.Error(err))
		return nil, fmt.Errorf("load cart: %w", err)
	}
	return c, nil
}

// mutate loads the cart, applies fn and saves the result unconditionally
func (s *Service) mutate(ctx context.Context, key cart.Key, fn func(c *cart.Cart)) (*CartResponse, error) {
	c, err := s.load(ctx, key)
	if err != nil {
		return nil, err
	}

	fn(c)

	if err := s.carts.Save(ctx, c); err != nil {
		s.logger.Error("Failed to save cart", zap.String("store_id", key.TenantID.String()), zap.Error(err))
		return nil, fmt.Errorf("save cart: %w", err)
	}

	resp := ToCartResponse(c)
	return &resp, nil
}
