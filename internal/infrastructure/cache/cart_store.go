package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/storefront/backend/internal/domain/cart"
	"github.com/storefront/backend/internal/infrastructure/logger"
	"go.uber.org/zap"
)

// DefaultCartKeyPrefix namespaces cart keys in a shared Redis
const DefaultCartKeyPrefix = "storefront:cart:"

// cartKey builds <prefix><sessionId>:cart_<tenantId>
func cartKey(prefix string, key cart.Key) string {
	return prefix + key.SessionID + ":" + key.StorageKey()
}

// storedLine is the persisted form of a cart line. The unit price is a JSON
// number; quoted prices written by older versions still decode.
type storedLine struct {
	ProductID string      `json:"productId"`
	Name      string      `json:"name"`
	UnitPrice json.Number `json:"unitPrice"`
	Quantity  int         `json:"quantity"`
}

// decodeCart turns a stored payload into a cart. Unreadable payloads yield an
// empty cart so a corrupted entry never blocks the shopper.
func decodeCart(ctx context.Context, key cart.Key, payload []byte) *cart.Cart {
	lines, err := decodeLines(payload)
	if err != nil {
		logger.L(ctx).Warn("discarding unreadable cart",
			zap.String("cart_key", key.StorageKey()),
			zap.Error(err),
		)
		return cart.New(key)
	}
	return cart.Restore(key, lines)
}

func decodeLines(payload []byte) ([]cart.Line, error) {
	var stored []storedLine
	if err := json.Unmarshal(payload, &stored); err != nil {
		return nil, err
	}
	lines := make([]cart.Line, 0, len(stored))
	for _, s := range stored {
		price, err := decimal.NewFromString(s.UnitPrice.String())
		if err != nil {
			return nil, fmt.Errorf("product %q: invalid unit price: %w", s.ProductID, err)
		}
		lines = append(lines, cart.Line{
			ProductID: s.ProductID,
			Name:      s.Name,
			UnitPrice: price,
			Quantity:  s.Quantity,
		})
	}
	return lines, nil
}

func encodeCart(c *cart.Cart) ([]byte, error) {
	lines := c.Lines()
	stored := make([]storedLine, len(lines))
	for i, l := range lines {
		stored[i] = storedLine{
			ProductID: l.ProductID,
			Name:      l.Name,
			UnitPrice: json.Number(l.UnitPrice.String()),
			Quantity:  l.Quantity,
		}
	}
	return json.Marshal(stored)
}

// RedisCartRepository stores carts as JSON arrays of lines without expiry
type RedisCartRepository struct {
	client    *redis.Client
	keyPrefix string
}

// NewRedisCartRepository creates a cart repository on an existing client
func NewRedisCartRepository(client *redis.Client, keyPrefix string) *RedisCartRepository {
	if keyPrefix == "" {
		keyPrefix = DefaultCartKeyPrefix
	}
	return &RedisCartRepository{client: client, keyPrefix: keyPrefix}
}

// Load returns the stored cart, or an empty one when nothing is stored
func (r *RedisCartRepository) Load(ctx context.Context, key cart.Key) (*cart.Cart, error) {
	payload, err := r.client.Get(ctx, cartKey(r.keyPrefix, key)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return cart.New(key), nil
		}
		return nil, fmt.Errorf("failed to load cart: %w", err)
	}
	return decodeCart(ctx, key, payload), nil
}

// Save writes the cart, deleting the key when the cart is empty
func (r *RedisCartRepository) Save(ctx context.Context, c *cart.Cart) error {
	k := cartKey(r.keyPrefix, c.Key())
	if c.IsEmpty() {
		if err := r.client.Del(ctx, k).Err(); err != nil {
			return fmt.Errorf("failed to clear cart: %w", err)
		}
		return nil
	}

	payload, err := encodeCart(c)
	if err != nil {
		return fmt.Errorf("failed to encode cart: %w", err)
	}
	if err := r.client.Set(ctx, k, payload, 0).Err(); err != nil {
		return fmt.Errorf("failed to save cart: %w", err)
	}
	return nil
}

// InMemoryCartRepository keeps carts in process memory.
// It is meant for single-instance deployments and tests.
type InMemoryCartRepository struct {
	mu        sync.RWMutex
	entries   map[string][]byte
	keyPrefix string
}

// NewInMemoryCartRepository creates an empty in-memory cart repository
func NewInMemoryCartRepository() *InMemoryCartRepository {
	return &InMemoryCartRepository{
		entries:   make(map[string][]byte),
		keyPrefix: DefaultCartKeyPrefix,
	}
}

// Load returns the stored cart, or an empty one when nothing is stored
func (r *InMemoryCartRepository) Load(ctx context.Context, key cart.Key) (*cart.Cart, error) {
	r.mu.RLock()
	payload, ok := r.entries[cartKey(r.keyPrefix, key)]
	r.mu.RUnlock()

	if !ok {
		return cart.New(key), nil
	}
	return decodeCart(ctx, key, payload), nil
}

// Save writes the cart, deleting the entry when the cart is empty
func (r *InMemoryCartRepository) Save(_ context.Context, c *cart.Cart) error {
	k := cartKey(r.keyPrefix, c.Key())

	r.mu.Lock()
	defer r.mu.Unlock()

	if c.IsEmpty() {
		delete(r.entries, k)
		return nil
	}
	payload, err := encodeCart(c)
	if err != nil {
		return fmt.Errorf("failed to encode cart: %w", err)
	}
	r.entries[k] = payload
	return nil
}

// Put stores a raw payload under the cart key (for tests)
func (r *InMemoryCartRepository) Put(key cart.Key, payload []byte) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries[cartKey(r.keyPrefix, key)] = payload
}

// Size returns the number of stored carts
func (r *InMemoryCartRepository) Size() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}

// Ensure both repositories implement cart.Repository
var (
	_ cart.Repository = (*RedisCartRepository)(nil)
	_ cart.Repository = (*InMemoryCartRepository)(nil)
)
