package cache

import (
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/storefront/backend/internal/domain/cart"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/infrastructure/config"
	"go.uber.org/zap"
)

// Stores bundles the key/value backed components of the server
type Stores struct {
	Carts    cart.Repository
	InFlight shared.InFlightGuard
	Redis    *redis.Client // nil when running in memory
}

// Close releases the guard and the Redis client
func (s *Stores) Close() error {
	_ = s.InFlight.Close()
	if s.Redis != nil {
		return s.Redis.Close()
	}
	return nil
}

// NewRateLimiter returns a limiter shared through Redis when available
func (s *Stores) NewRateLimiter(name string, limit int, window time.Duration) RateLimiter {
	if s.Redis != nil {
		return NewRedisRateLimiter(s.Redis, "storefront:ratelimit:"+name+":", limit, window)
	}
	return NewInMemoryRateLimiter(limit, window)
}

// StoresFactory creates the cart and in-flight stores based on configuration
type StoresFactory struct {
	redisConfig           config.RedisConfig
	cartKeyPrefix         string
	logger                *zap.Logger
	allowInMemoryFallback bool
}

// StoresFactoryOption is a functional option for configuring the factory
type StoresFactoryOption func(*StoresFactory)

// WithLogger sets the logger for the factory
func WithLogger(logger *zap.Logger) StoresFactoryOption {
	return func(f *StoresFactory) {
		f.logger = logger
	}
}

// WithInMemoryFallback controls whether to fall back to in-memory stores when Redis is unavailable
func WithInMemoryFallback(allow bool) StoresFactoryOption {
	return func(f *StoresFactory) {
		f.allowInMemoryFallback = allow
	}
}

// WithCartKeyPrefix overrides the Redis cart key prefix
func WithCartKeyPrefix(prefix string) StoresFactoryOption {
	return func(f *StoresFactory) {
		f.cartKeyPrefix = prefix
	}
}

// NewStoresFactory creates a new factory
func NewStoresFactory(cfg config.RedisConfig, opts ...StoresFactoryOption) *StoresFactory {
	f := &StoresFactory{
		redisConfig:           cfg,
		cartKeyPrefix:         DefaultCartKeyPrefix,
		logger:                zap.NewNop(),
		allowInMemoryFallback: true,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// CreateInMemory creates process-local stores.
// Carts do not survive a restart and are not shared between instances.
func (f *StoresFactory) CreateInMemory() *Stores {
	return &Stores{
		Carts:    NewInMemoryCartRepository(),
		InFlight: NewInMemoryInFlightGuard(),
	}
}

// Create returns Redis-backed stores when Redis is enabled and reachable.
// It falls back to memory when allowed.
func (f *StoresFactory) Create() (*Stores, error) {
	if !f.redisConfig.Enabled {
		f.logger.Info("Redis disabled, using in-memory cart store")
		return f.CreateInMemory(), nil
	}

	client, err := NewRedisClient(f.redisConfig)
	if err == nil {
		f.logger.Info("using Redis cart store", zap.String("addr", f.redisConfig.Addr()))
		return &Stores{
			Carts:    NewRedisCartRepository(client, f.cartKeyPrefix),
			InFlight: NewRedisInFlightGuard(client, ""),
			Redis:    client,
		}, nil
	}

	if !f.allowInMemoryFallback {
		return nil, fmt.Errorf("Redis required for cart storage but unavailable: %w", err)
	}

	f.logger.Warn("Redis unavailable, falling back to in-memory cart store. "+
		"Carts will not be shared between instances.",
		zap.Error(err),
	)
	return f.CreateInMemory(), nil
}
