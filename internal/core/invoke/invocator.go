// Package invoke orchestrates substrate → lens → result, producing immutable
// result records and batched multi-lens invocation over one substrate.
package invoke

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"sanctum/internal/core/gateway"
	"sanctum/internal/core/validate"
	dErrors "sanctum/pkg/domain-errors"
)

const tracerName = "sanctum/internal/core/invoke"

// Result is the immutable record of one invocation. Fields are unexported;
// there is no way to reassign them after construction.
type Result struct {
	value       uint64
	substrateID gateway.Identity
	lensID      gateway.Identity
}

// Value returns the derived value.
func (r Result) Value() uint64 { return r.value }

// SubstrateID returns the identity of the invoked substrate.
func (r Result) SubstrateID() gateway.Identity { return r.substrateID }

// LensID returns the identity of the applied lens.
func (r Result) LensID() gateway.Identity { return r.lensID }

// Metrics is the observation surface the invocator reports to.
type Metrics interface {
	ObserveInvocation()
	ObserveBatch(size int)
}

// Invocator executes invocations through an injected gateway.
type Invocator struct {
	gw      *gateway.Gateway
	tracer  trace.Tracer
	metrics Metrics
}

// Option configures an Invocator.
type Option func(*Invocator)

// WithMetrics attaches an invocation metrics sink.
func WithMetrics(m Metrics) Option {
	return func(inv *Invocator) { inv.metrics = m }
}

// New builds an Invocator over the given gateway.
func New(gw *gateway.Gateway, opts ...Option) (*Invocator, error) {
	if gw == nil {
		return nil, dErrors.New(dErrors.CodeInternal, "gateway is required")
	}
	inv := &Invocator{
		gw:     gw,
		tracer: otel.Tracer(tracerName),
	}
	for _, opt := range opts {
		opt(inv)
	}
	return inv, nil
}

// Single applies one lens to one substrate and wraps the outcome with its
// provenance. Every call re-derives; nothing is memoized here.
func (inv *Invocator) Single(ctx context.Context, s *gateway.Substrate, l *gateway.Lens) (Result, error) {
	_, span := inv.tracer.Start(ctx, "invoke.single")
	defer span.End()

	value, err := inv.gw.Invoke(s, l)
	if err != nil {
		return Result{}, err
	}
	span.SetAttributes(
		attribute.Int64("substrate_id", int64(s.ID())),
		attribute.Int64("lens_id", int64(l.ID())),
	)
	if inv.metrics != nil {
		inv.metrics.ObserveInvocation()
	}
	return Result{value: value, substrateID: s.ID(), lensID: l.ID()}, nil
}

// Batch applies many lenses to one shared substrate, sequentially and in
// order: multiple views of one truth, not parallel substrates. The result
// slice preserves lens association by position.
func (inv *Invocator) Batch(ctx context.Context, s *gateway.Substrate, lenses []*gateway.Lens) ([]Result, error) {
	if err := validate.BatchSize("invoke_batch", len(lenses)); err != nil {
		return nil, err
	}
	ctx, span := inv.tracer.Start(ctx, "invoke.batch",
		trace.WithAttributes(attribute.Int("batch_size", len(lenses))))
	defer span.End()

	results := make([]Result, 0, len(lenses))
	for _, l := range lenses {
		res, err := inv.Single(ctx, s, l)
		if err != nil {
			return nil, dErrors.Wrap(err, dErrors.CodeValidation, "batch invocation aborted")
		}
		results = append(results, res)
	}
	if inv.metrics != nil {
		inv.metrics.ObserveBatch(len(lenses))
	}
	return results, nil
}
