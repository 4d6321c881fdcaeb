package cart

import "context"

// Repository persists carts. Load returns an empty cart when nothing is stored
// under the key or the stored value cannot be parsed.
type Repository interface {
	Load(ctx context.Context, key Key) (*Cart, error)
	Save(ctx context.Context, c *Cart) error
}
