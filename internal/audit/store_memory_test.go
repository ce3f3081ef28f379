package audit

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	t.Run("append and list newest first", func(t *testing.T) {
		require.NoError(t, store.Append(ctx, Event{ID: "a", Operation: "invoke"}))
		require.NoError(t, store.Append(ctx, Event{ID: "b", Operation: "promote"}))

		events, err := store.List(ctx, 0)
		require.NoError(t, err)
		require.Len(t, events, 2)
		require.Equal(t, "b", events[0].ID)
		require.Equal(t, "a", events[1].ID)
	})

	t.Run("limit caps the result", func(t *testing.T) {
		events, err := store.List(ctx, 1)
		require.NoError(t, err)
		require.Len(t, events, 1)
		require.Equal(t, "b", events[0].ID)
	})
}

func TestPublisher(t *testing.T) {
	ctx := context.Background()

	t.Run("fills id and timestamp", func(t *testing.T) {
		store := NewMemoryStore()
		pub := NewPublisher(store)

		require.NoError(t, pub.Emit(ctx, Event{Operation: "invoke", Category: CategoryDerivation}))

		events, err := pub.List(ctx, 1)
		require.NoError(t, err)
		require.Len(t, events, 1)
		require.NotEmpty(t, events[0].ID)
		require.False(t, events[0].Timestamp.IsZero())
	})

	t.Run("keeps provided id and timestamp", func(t *testing.T) {
		store := NewMemoryStore()
		pub := NewPublisher(store)
		stamped := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

		require.NoError(t, pub.Emit(ctx, Event{ID: "fixed", Timestamp: stamped}))

		events, err := pub.List(ctx, 1)
		require.NoError(t, err)
		require.Equal(t, "fixed", events[0].ID)
		require.Equal(t, stamped, events[0].Timestamp)
	})
}

type failingSink struct{ calls int }

func (f *failingSink) Publish(context.Context, Event) error {
	f.calls++
	return context.DeadlineExceeded
}

func TestPublisherSinkFailuresDoNotPropagate(t *testing.T) {
	store := NewMemoryStore()
	sink := &failingSink{}
	pub := NewPublisher(store, WithSink(sink))

	require.NoError(t, pub.Emit(context.Background(), Event{Operation: "invoke"}))
	require.Equal(t, 1, sink.calls)
	require.Equal(t, 1, store.Len())
}

func TestWorkerDrainsInbox(t *testing.T) {
	store := NewMemoryStore()
	pub := NewPublisher(store)
	inbox := make(chan Event, 2)
	worker := NewWorker(pub, inbox)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- worker.Run(ctx) }()

	inbox <- Event{Operation: "invoke"}
	inbox <- Event{Operation: "promote"}

	require.Eventually(t, func() bool { return store.Len() == 2 },
		time.Second, 5*time.Millisecond)

	cancel()
	require.ErrorIs(t, <-done, context.Canceled)
}

func TestWorkerStopsOnClosedInbox(t *testing.T) {
	store := NewMemoryStore()
	pub := NewPublisher(store)
	inbox := make(chan Event, 1)
	worker := NewWorker(pub, inbox)

	inbox <- Event{Operation: "invoke"}
	close(inbox)

	require.NoError(t, worker.Run(context.Background()))
	require.Equal(t, 1, store.Len())
}
