package cache

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInMemoryInFlightGuard(t *testing.T) {
	guard := NewInMemoryInFlightGuard()
	defer guard.Close()

	ctx := context.Background()

	t.Run("second acquire is rejected until release", func(t *testing.T) {
		ok, err := guard.Acquire(ctx, "checkout:s1", time.Minute)
		require.NoError(t, err)
		assert.True(t, ok)

		ok, err = guard.Acquire(ctx, "checkout:s1", time.Minute)
		require.NoError(t, err)
		assert.False(t, ok)

		require.NoError(t, guard.Release(ctx, "checkout:s1"))

		ok, err = guard.Acquire(ctx, "checkout:s1", time.Minute)
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("expired claim is taken over", func(t *testing.T) {
		ok, err := guard.Acquire(ctx, "stale", 10*time.Millisecond)
		require.NoError(t, err)
		require.True(t, ok)

		time.Sleep(20 * time.Millisecond)

		ok, err = guard.Acquire(ctx, "stale", time.Minute)
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("cleanup drops expired keys", func(t *testing.T) {
		g := NewInMemoryInFlightGuard()
		defer g.Close()

		_, _ = g.Acquire(ctx, "a", time.Millisecond)
		_, _ = g.Acquire(ctx, "b", time.Hour)
		time.Sleep(5 * time.Millisecond)

		g.cleanup()
		assert.Equal(t, 1, g.Size())
	})

	t.Run("only one concurrent winner", func(t *testing.T) {
		g := NewInMemoryInFlightGuard()
		defer g.Close()

		var winners int32
		var wg sync.WaitGroup
		for i := 0; i < 50; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				if ok, _ := g.Acquire(ctx, "race", time.Minute); ok {
					atomic.AddInt32(&winners, 1)
				}
			}()
		}
		wg.Wait()
		assert.Equal(t, int32(1), winners)
	})

	t.Run("close is idempotent", func(t *testing.T) {
		g := NewInMemoryInFlightGuard()
		assert.NoError(t, g.Close())
		assert.NoError(t, g.Close())
	})
}
