package gateway

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"sanctum/internal/core/translate"
)

func newConstantSubstrate(t *testing.T, gw *Gateway, id Identity, value uint64) *Substrate {
	t.Helper()
	sub, err := gw.CreateSubstrate(id, func() uint64 { return value })
	require.NoError(t, err)
	return sub
}

func TestInvoke(t *testing.T) {
	gw := New(nil)

	t.Run("computes projection of expression", func(t *testing.T) {
		sub := newConstantSubstrate(t, gw, 1, 0xAABBCCDD)
		lens, err := gw.CreateLens(2, func(v uint64) uint64 { return v & 0xFF })
		require.NoError(t, err)

		value, err := gw.Invoke(sub, lens)
		require.NoError(t, err)
		require.Equal(t, uint64(0xDD), value)
	})

	t.Run("requires both primitives", func(t *testing.T) {
		sub := newConstantSubstrate(t, gw, 3, 1)
		_, err := gw.Invoke(sub, nil)
		require.Error(t, err)
		_, err = gw.Invoke(nil, nil)
		require.Error(t, err)
	})

	t.Run("re-derives on every call", func(t *testing.T) {
		tr := translate.New()
		expr, err := tr.Expression(translate.ExpressionSpec{Kind: translate.ExprTimestamp})
		require.NoError(t, err)
		sub, err := gw.CreateSubstrate(4, expr)
		require.NoError(t, err)
		lens, err := gw.CreateLens(5, func(v uint64) uint64 { return v })
		require.NoError(t, err)

		first, err := gw.Invoke(sub, lens)
		require.NoError(t, err)
		time.Sleep(2 * time.Millisecond)
		second, err := gw.Invoke(sub, lens)
		require.NoError(t, err)
		require.GreaterOrEqual(t, second, first)
	})

	t.Run("rejects panicking expressions at construction", func(t *testing.T) {
		_, err := gw.CreateSubstrate(6, func() uint64 { panic("boom") })
		require.Error(t, err)
	})
}

func TestPromote(t *testing.T) {
	gw := New(nil)
	sub := newConstantSubstrate(t, gw, 100, 100)

	t.Run("deterministic over identical inputs", func(t *testing.T) {
		first, err := gw.Promote(sub, 200, gw.CreateDelta(999))
		require.NoError(t, err)
		second, err := gw.Promote(sub, 200, gw.CreateDelta(999))
		require.NoError(t, err)
		require.Equal(t, first, second)
	})

	t.Run("distinct from the original identity", func(t *testing.T) {
		newID, err := gw.Promote(sub, 200, gw.CreateDelta(999))
		require.NoError(t, err)
		require.NotEqual(t, sub.ID(), newID)
	})

	t.Run("any input change changes the output", func(t *testing.T) {
		base, err := gw.Promote(sub, 200, gw.CreateDelta(999))
		require.NoError(t, err)

		differentDelta, err := gw.Promote(sub, 200, gw.CreateDelta(998))
		require.NoError(t, err)
		require.NotEqual(t, base, differentDelta)

		differentAttr, err := gw.Promote(sub, 201, gw.CreateDelta(999))
		require.NoError(t, err)
		require.NotEqual(t, base, differentAttr)

		other := newConstantSubstrate(t, gw, 101, 100)
		differentSubstrate, err := gw.Promote(other, 200, gw.CreateDelta(999))
		require.NoError(t, err)
		require.NotEqual(t, base, differentSubstrate)
	})

	t.Run("original substrate is never mutated", func(t *testing.T) {
		before := sub.ID()
		_, err := gw.Promote(sub, 777, gw.CreateDelta(1))
		require.NoError(t, err)
		require.Equal(t, before, sub.ID())
	})

	t.Run("requires a substrate", func(t *testing.T) {
		_, err := gw.Promote(nil, 1, gw.CreateDelta(1))
		require.Error(t, err)
	})
}

func TestIdentityRegistry(t *testing.T) {
	gw := New(nil)
	require.Equal(t, 0, gw.KnownIdentities())

	gw.CreateIdentity(1)
	gw.CreateIdentity(2)
	gw.CreateIdentity(2)
	require.Equal(t, 2, gw.KnownIdentities())
}
