//go:build integration

package audit

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"sanctum/pkg/testutil/containers"
)

func TestPostgresStoreIntegration(t *testing.T) {
	ctx := context.Background()
	pg := containers.NewPostgresContainer(t)

	store := NewPostgresStore(pg.Pool)
	require.NoError(t, store.EnsureSchema(ctx))

	event := Event{
		ID:             uuid.NewString(),
		Category:       CategoryDerivation,
		Timestamp:      time.Now().UTC().Truncate(time.Millisecond),
		Operation:      "invoke",
		SubstrateIDHex: "0x00000000AABBCCDD",
		LensIDHex:      "0x0000000000000001",
		Source:         "substrate_math",
		RequestID:      "req-1",
	}
	require.NoError(t, store.Append(ctx, event))

	events, err := store.List(ctx, 10)
	require.NoError(t, err)
	require.Len(t, events, 1)
	require.Equal(t, event.ID, events[0].ID)
	require.Equal(t, event.Operation, events[0].Operation)
	require.Equal(t, event.SubstrateIDHex, events[0].SubstrateIDHex)
	require.False(t, events[0].Fabricated)

	// Newest first.
	second := event
	second.ID = uuid.NewString()
	second.Timestamp = event.Timestamp.Add(time.Second)
	second.Operation = "promote"
	require.NoError(t, store.Append(ctx, second))

	events, err = store.List(ctx, 10)
	require.NoError(t, err)
	require.Len(t, events, 2)
	require.Equal(t, "promote", events[0].Operation)
}
