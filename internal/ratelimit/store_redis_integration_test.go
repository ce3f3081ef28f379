//go:build integration

package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"sanctum/pkg/testutil/containers"
)

func TestRedisBucketStoreIntegration(t *testing.T) {
	ctx := context.Background()
	rc := containers.NewRedisContainer(t)
	store := NewRedisBucketStore(rc.Client)

	t.Run("enforces the limit across a shared window", func(t *testing.T) {
		require.NoError(t, rc.FlushAll(ctx))

		for i := range 3 {
			res, err := store.Allow(ctx, "agent", 3, time.Minute)
			require.NoError(t, err)
			require.True(t, res.Allowed)
			require.Equal(t, 3-i-1, res.Remaining)
		}

		res, err := store.Allow(ctx, "agent", 3, time.Minute)
		require.NoError(t, err)
		require.False(t, res.Allowed)
	})

	t.Run("window slides", func(t *testing.T) {
		require.NoError(t, rc.FlushAll(ctx))
		window := 200 * time.Millisecond

		for range 2 {
			res, err := store.Allow(ctx, "agent", 2, window)
			require.NoError(t, err)
			require.True(t, res.Allowed)
		}
		res, err := store.Allow(ctx, "agent", 2, window)
		require.NoError(t, err)
		require.False(t, res.Allowed)

		time.Sleep(2 * window)

		res, err = store.Allow(ctx, "agent", 2, window)
		require.NoError(t, err)
		require.True(t, res.Allowed)
	})

	t.Run("reset clears the key", func(t *testing.T) {
		require.NoError(t, rc.FlushAll(ctx))

		for range 2 {
			_, err := store.Allow(ctx, "agent", 2, time.Minute)
			require.NoError(t, err)
		}
		require.NoError(t, store.Reset(ctx, "agent"))

		res, err := store.Allow(ctx, "agent", 2, time.Minute)
		require.NoError(t, err)
		require.True(t, res.Allowed)
		require.Equal(t, 1, res.Remaining)
	})
}
