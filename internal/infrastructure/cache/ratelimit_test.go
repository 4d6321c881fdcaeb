package cache

import (
	"context"
	"testing"
	"time"

	"github.com/storefront/backend/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInMemoryRateLimiter(t *testing.T) {
	ctx := context.Background()
	limiter := NewInMemoryRateLimiter(2, time.Minute)
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	limiter.now = func() time.Time { return now }

	d, err := limiter.Allow(ctx, "1.2.3.4")
	require.NoError(t, err)
	assert.True(t, d.Allowed)
	assert.Equal(t, 1, d.Remaining)
	assert.Equal(t, time.Minute, d.ResetIn)

	d, _ = limiter.Allow(ctx, "1.2.3.4")
	assert.True(t, d.Allowed)
	assert.Equal(t, 0, d.Remaining)

	d, _ = limiter.Allow(ctx, "1.2.3.4")
	assert.False(t, d.Allowed)
	assert.Equal(t, 0, d.Remaining)

	// other keys have their own budget
	d, _ = limiter.Allow(ctx, "5.6.7.8")
	assert.True(t, d.Allowed)

	now = now.Add(time.Minute)
	d, _ = limiter.Allow(ctx, "1.2.3.4")
	assert.True(t, d.Allowed)
	assert.Equal(t, 1, d.Remaining)
}

func TestInMemoryRateLimiter_SweepsExpiredWindows(t *testing.T) {
	ctx := context.Background()
	limiter := NewInMemoryRateLimiter(5, time.Second)
	now := time.Now()
	limiter.now = func() time.Time { return now }

	for _, key := range []string{"a", "b", "c"} {
		_, err := limiter.Allow(ctx, key)
		require.NoError(t, err)
	}
	assert.Len(t, limiter.windows, 3)

	now = now.Add(2 * time.Second)
	_, err := limiter.Allow(ctx, "d")
	require.NoError(t, err)
	assert.Len(t, limiter.windows, 1)
}

func TestStores_NewRateLimiterInMemory(t *testing.T) {
	stores := NewStoresFactory(config.RedisConfig{}).CreateInMemory()
	defer stores.Close()

	assert.IsType(t, &InMemoryRateLimiter{}, stores.NewRateLimiter("auth", 10, time.Minute))
}
