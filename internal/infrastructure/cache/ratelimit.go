package cache

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// RateDecision is the outcome of one rate limit check
type RateDecision struct {
	Allowed   bool
	Limit     int
	Remaining int
	ResetIn   time.Duration
}

// RateLimiter counts requests per key
type RateLimiter interface {
	Allow(ctx context.Context, key string) (RateDecision, error)
}

// RedisRateLimiter counts requests per key in fixed windows with INCR and
// EXPIRE NX (Redis 7+), so every instance shares the same budget.
type RedisRateLimiter struct {
	client    *redis.Client
	keyPrefix string
	limit     int
	window    time.Duration
}

// NewRedisRateLimiter creates a limiter allowing limit requests per window
func NewRedisRateLimiter(client *redis.Client, keyPrefix string, limit int, window time.Duration) *RedisRateLimiter {
	if keyPrefix == "" {
		keyPrefix = "storefront:ratelimit:"
	}
	return &RedisRateLimiter{client: client, keyPrefix: keyPrefix, limit: limit, window: window}
}

// Allow counts one request for key
func (l *RedisRateLimiter) Allow(ctx context.Context, key string) (RateDecision, error) {
	redisKey := l.keyPrefix + key

	pipe := l.client.TxPipeline()
	incr := pipe.Incr(ctx, redisKey)
	pipe.ExpireNX(ctx, redisKey, l.window)
	ttl := pipe.PTTL(ctx, redisKey)
	if _, err := pipe.Exec(ctx); err != nil {
		return RateDecision{}, fmt.Errorf("failed to count request: %w", err)
	}

	count := int(incr.Val())
	decision := RateDecision{
		Allowed:   count <= l.limit,
		Limit:     l.limit,
		Remaining: max(l.limit-count, 0),
		ResetIn:   ttl.Val(),
	}
	return decision, nil
}

// InMemoryRateLimiter is the single-instance fallback of RedisRateLimiter
type InMemoryRateLimiter struct {
	mu      sync.Mutex
	windows map[string]*rateWindow
	limit   int
	window  time.Duration
	now     func() time.Time
}

type rateWindow struct {
	count   int
	resetAt time.Time
}

// NewInMemoryRateLimiter creates a limiter allowing limit requests per window
func NewInMemoryRateLimiter(limit int, window time.Duration) *InMemoryRateLimiter {
	return &InMemoryRateLimiter{
		windows: make(map[string]*rateWindow),
		limit:   limit,
		window:  window,
		now:     time.Now,
	}
}

// Allow counts one request for key
func (l *InMemoryRateLimiter) Allow(_ context.Context, key string) (RateDecision, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	w, ok := l.windows[key]
	if !ok || !now.Before(w.resetAt) {
		l.sweep(now)
		w = &rateWindow{resetAt: now.Add(l.window)}
		l.windows[key] = w
	}
	w.count++

	return RateDecision{
		Allowed:   w.count <= l.limit,
		Limit:     l.limit,
		Remaining: max(l.limit-w.count, 0),
		ResetIn:   w.resetAt.Sub(now),
	}, nil
}

// sweep drops expired windows; callers hold mu
func (l *InMemoryRateLimiter) sweep(now time.Time) {
	for k, w := range l.windows {
		if !now.Before(w.resetAt) {
			delete(l.windows, k)
		}
	}
}

var (
	_ RateLimiter = (*RedisRateLimiter)(nil)
	_ RateLimiter = (*InMemoryRateLimiter)(nil)
)
