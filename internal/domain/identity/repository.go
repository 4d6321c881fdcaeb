package identity

import (
	"context"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/storefront"
)

// OwnerRepository defines the interface for owner persistence
type OwnerRepository interface {
	// FindByID finds an owner by ID
	FindByID(ctx context.Context, id uuid.UUID) (*Owner, error)

	// FindByEmail finds an owner by (lowercased) email
	FindByEmail(ctx context.Context, email string) (*Owner, error)

	// ExistsByEmail checks whether the email is taken
	ExistsByEmail(ctx context.Context, email string) (bool, error)

	// Save creates or updates an owner
	Save(ctx context.Context, owner *Owner) error
}

// Registrar persists a new owner and their store atomically
type Registrar interface {
	Register(ctx context.Context, owner *Owner, store *storefront.Store) error
}
