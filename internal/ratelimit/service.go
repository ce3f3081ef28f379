package ratelimit

import (
	"context"
	"log/slog"

	dErrors "sanctum/pkg/domain-errors"
)

// Metrics is the observation surface for limiter decisions.
type Metrics interface {
	ObserveRateLimit(allowed bool)
}

// Limiter applies one policy per caller key on top of a bucket store.
type Limiter struct {
	store   BucketStore
	policy  Policy
	logger  *slog.Logger
	metrics Metrics
}

// Option configures the Limiter.
type Option func(*Limiter)

// WithLogger attaches a structured logger.
func WithLogger(l *slog.Logger) Option {
	return func(lim *Limiter) { lim.logger = l }
}

// WithMetrics attaches a decision metrics sink.
func WithMetrics(m Metrics) Option {
	return func(lim *Limiter) { lim.metrics = m }
}

// NewLimiter builds a limiter over the given store and policy.
func NewLimiter(store BucketStore, policy Policy, opts ...Option) (*Limiter, error) {
	if store == nil {
		return nil, dErrors.New(dErrors.CodeInternal, "bucket store is required")
	}
	if policy.Limit <= 0 || policy.Window <= 0 {
		return nil, dErrors.New(dErrors.CodeInternal, "policy requires a positive limit and window")
	}
	lim := &Limiter{store: store, policy: policy, logger: slog.Default()}
	for _, opt := range opts {
		opt(lim)
	}
	return lim, nil
}

// Check records one request against the caller's window and reports the
// decision. Store failures fail open with a log line: losing limiter state
// must not take the surface down.
func (lim *Limiter) Check(ctx context.Context, callerKey string) *Result {
	res, err := lim.store.Allow(ctx, callerKey, lim.policy.Limit, lim.policy.Window)
	if err != nil {
		lim.logger.WarnContext(ctx, "rate limit store unavailable, failing open",
			"event", "ratelimit_store_error",
			"caller", callerKey,
			"error", err,
		)
		return &Result{Allowed: true, Remaining: lim.policy.Limit, Limit: lim.policy.Limit}
	}
	if lim.metrics != nil {
		lim.metrics.ObserveRateLimit(res.Allowed)
	}
	if !res.Allowed {
		lim.logger.InfoContext(ctx, "request rate limited",
			"event", "ratelimit_denied",
			"caller", callerKey,
		)
	}
	return res
}
