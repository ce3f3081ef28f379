package ai

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"sanctum/internal/core/gateway"
	"sanctum/internal/core/invoke"
	"sanctum/internal/core/translate"
	"sanctum/pkg/testutil"
)

// The fabrication story end to end: an agent reports an attribute it never
// derived, and the verification path catches it while honest derivations pass.
func TestFabricationScenario(t *testing.T) {
	ctx := context.Background()
	sink := &recordingSink{}

	translator := translate.New()
	gw := gateway.New(nil)
	inv, err := invoke.New(gw)
	require.NoError(t, err)
	service, err := New(translator, gw, inv, WithRecorder(sink))
	require.NoError(t, err)

	var (
		sub  *gateway.Substrate
		lens *gateway.Lens
	)

	testutil.Given(t, "a substrate whose attribute derives to 100", func(t *testing.T) {
		sub, lens, err = service.BuildPair(100, 1, map[string]any{})
		require.NoError(t, err)

		out, err := service.Execute(ctx, Instruction{
			Operation: OpInvoke,
			Params: map[string]any{
				"substrate_identity": float64(100),
				"lens_id":            float64(1),
			},
		})
		require.NoError(t, err)
		require.Equal(t, uint64(100), out.Value)
	})

	testutil.When(t, "the agent claims the derived value", func(t *testing.T) {
		valid, actual, err := service.VerifyClaim(ctx, sub, lens, 100)
		require.NoError(t, err)
		require.True(t, valid)
		require.Equal(t, uint64(100), actual)
	})

	testutil.When(t, "the agent claims a value it never derived", func(t *testing.T) {
		valid, actual, err := service.VerifyClaim(ctx, sub, lens, 31337)
		require.NoError(t, err)
		require.False(t, valid)
		require.Equal(t, uint64(100), actual)
	})

	testutil.Then(t, "every claim left an audit record", func(t *testing.T) {
		var verifications int
		for _, rec := range sink.records {
			if rec.Operation == "verify_claim" {
				verifications++
			}
		}
		require.Equal(t, 2, verifications)
	})
}
