package audit

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

// Store is the persistence port for the trail. Append-only; nothing ever
// rewrites an entry.
type Store interface {
	Append(ctx context.Context, event Event) error
	List(ctx context.Context, limit int) ([]Event, error)
}

// Sink receives a best-effort copy of every event for external fan-out.
type Sink interface {
	Publish(ctx context.Context, event Event) error
}

// Publisher captures structured audit events. It is append-only and uses the
// storage layer for persistence so tests can swap sinks easily.
type Publisher struct {
	store  Store
	sink   Sink
	logger *slog.Logger
}

// Option configures the Publisher.
type Option func(*Publisher)

// WithSink attaches an external fan-out sink. Sink failures are logged, not
// propagated; the store is the source of truth.
func WithSink(sink Sink) Option {
	return func(p *Publisher) { p.sink = sink }
}

// WithLogger attaches a structured logger.
func WithLogger(l *slog.Logger) Option {
	return func(p *Publisher) { p.logger = l }
}

func NewPublisher(store Store, opts ...Option) *Publisher {
	p := &Publisher{store: store, logger: slog.Default()}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Emit persists one event, filling the id and timestamp when absent.
func (p *Publisher) Emit(ctx context.Context, event Event) error {
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	if err := p.store.Append(ctx, event); err != nil {
		return err
	}
	if p.sink != nil {
		if err := p.sink.Publish(ctx, event); err != nil {
			p.logger.WarnContext(ctx, "audit sink publish failed",
				"event", "audit_sink_error",
				"audit_id", event.ID,
				"error", err,
			)
		}
	}
	return nil
}

// List returns up to limit recent entries.
func (p *Publisher) List(ctx context.Context, limit int) ([]Event, error) {
	return p.store.List(ctx, limit)
}
