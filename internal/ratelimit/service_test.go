package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type brokenStore struct{}

func (brokenStore) Allow(context.Context, string, int, time.Duration) (*Result, error) {
	return nil, context.DeadlineExceeded
}

func (brokenStore) Reset(context.Context, string) error { return nil }

type countingMetrics struct {
	allowed int
	denied  int
}

func (m *countingMetrics) ObserveRateLimit(allowed bool) {
	if allowed {
		m.allowed++
	} else {
		m.denied++
	}
}

func TestNewLimiter(t *testing.T) {
	t.Run("requires a store", func(t *testing.T) {
		_, err := NewLimiter(nil, DefaultAIPolicy)
		require.Error(t, err)
	})

	t.Run("rejects zero or negative policies", func(t *testing.T) {
		_, err := NewLimiter(NewMemoryBucketStore(), Policy{Limit: 0, Window: time.Minute})
		require.Error(t, err)
		_, err = NewLimiter(NewMemoryBucketStore(), Policy{Limit: 10, Window: 0})
		require.Error(t, err)
	})
}

func TestLimiterCheck(t *testing.T) {
	ctx := context.Background()

	t.Run("enforces the policy", func(t *testing.T) {
		metrics := &countingMetrics{}
		lim, err := NewLimiter(NewMemoryBucketStore(), Policy{Limit: 2, Window: time.Minute},
			WithMetrics(metrics))
		require.NoError(t, err)

		require.True(t, lim.Check(ctx, "caller").Allowed)
		require.True(t, lim.Check(ctx, "caller").Allowed)
		require.False(t, lim.Check(ctx, "caller").Allowed)
		require.Equal(t, 2, metrics.allowed)
		require.Equal(t, 1, metrics.denied)
	})

	t.Run("fails open when the store is unavailable", func(t *testing.T) {
		lim, err := NewLimiter(brokenStore{}, Policy{Limit: 1, Window: time.Minute})
		require.NoError(t, err)

		for range 5 {
			res := lim.Check(ctx, "caller")
			require.True(t, res.Allowed)
			require.Equal(t, 1, res.Limit)
		}
	})
}
