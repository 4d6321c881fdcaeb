package cache

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/storefront/backend/internal/domain/shared"
)

// RedisInFlightGuard implements InFlightGuard with SET NX.
// It is shared by every instance behind the load balancer.
type RedisInFlightGuard struct {
	client    *redis.Client
	keyPrefix string
}

// NewRedisInFlightGuard creates a guard on an existing Redis client
func NewRedisInFlightGuard(client *redis.Client, keyPrefix string) *RedisInFlightGuard {
	if keyPrefix == "" {
		keyPrefix = "storefront:inflight:"
	}
	return &RedisInFlightGuard{client: client, keyPrefix: keyPrefix}
}

// Acquire claims key for at most ttl
func (g *RedisInFlightGuard) Acquire(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	ok, err := g.client.SetNX(ctx, g.keyPrefix+key, "1", ttl).Result()
	if err != nil {
		return false, fmt.Errorf("failed to acquire in-flight key: %w", err)
	}
	return ok, nil
}

// Release frees key
func (g *RedisInFlightGuard) Release(ctx context.Context, key string) error {
	if err := g.client.Del(ctx, g.keyPrefix+key).Err(); err != nil {
		return fmt.Errorf("failed to release in-flight key: %w", err)
	}
	return nil
}

// Close is a no-op; the client is owned by the caller
func (g *RedisInFlightGuard) Close() error {
	return nil
}

// InMemoryInFlightGuard implements InFlightGuard using an in-memory map.
// This is suitable for single-instance deployments and testing.
type InMemoryInFlightGuard struct {
	mu        sync.Mutex
	entries   map[string]time.Time
	stopChan  chan struct{}
	wg        sync.WaitGroup
	closeOnce sync.Once
}

// NewInMemoryInFlightGuard creates a guard and starts its cleanup goroutine
func NewInMemoryInFlightGuard() *InMemoryInFlightGuard {
	g := &InMemoryInFlightGuard{
		entries:  make(map[string]time.Time),
		stopChan: make(chan struct{}),
	}

	g.wg.Add(1)
	go g.cleanupLoop()

	return g
}

// Acquire claims key for at most ttl. An expired claim is taken over.
func (g *InMemoryInFlightGuard) Acquire(_ context.Context, key string, ttl time.Duration) (bool, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	now := time.Now()
	if expiresAt, held := g.entries[key]; held && now.Before(expiresAt) {
		return false, nil
	}
	g.entries[key] = now.Add(ttl)
	return true, nil
}

// Release frees key
func (g *InMemoryInFlightGuard) Release(_ context.Context, key string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.entries, key)
	return nil
}

// Close stops the cleanup goroutine. Safe to call multiple times.
func (g *InMemoryInFlightGuard) Close() error {
	g.closeOnce.Do(func() {
		close(g.stopChan)
		g.wg.Wait()
	})
	return nil
}

func (g *InMemoryInFlightGuard) cleanupLoop() {
	defer g.wg.Done()

	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-g.stopChan:
			return
		case <-ticker.C:
			g.cleanup()
		}
	}
}

func (g *InMemoryInFlightGuard) cleanup() {
	g.mu.Lock()
	defer g.mu.Unlock()

	now := time.Now()
	for key, expiresAt := range g.entries {
		if now.After(expiresAt) {
			delete(g.entries, key)
		}
	}
}

// Size returns the number of held keys (for testing/monitoring)
func (g *InMemoryInFlightGuard) Size() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.entries)
}

// Ensure both guards implement InFlightGuard
var (
	_ shared.InFlightGuard = (*RedisInFlightGuard)(nil)
	_ shared.InFlightGuard = (*InMemoryInFlightGuard)(nil)
)
