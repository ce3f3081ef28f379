// Package human is the convenience surface for people: names instead of
// numbers. Identities come from hashing human-readable strings; everything
// else rides the shared pipeline (translate, validate, gateway, invoke).
package human

import (
	"context"
	"log/slog"

	"sanctum/internal/adapters/models"
	"sanctum/internal/core/gateway"
	"sanctum/internal/core/invoke"
	"sanctum/internal/core/translate"
	dErrors "sanctum/pkg/domain-errors"
)

// Service is the human-facing adapter.
type Service struct {
	translator *translate.Translator
	gw         *gateway.Gateway
	inv        *invoke.Invocator
	logger     *slog.Logger
}

// Option configures the Service.
type Option func(*Service)

// WithLogger attaches a structured logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Service) { s.logger = l }
}

// New wires the adapter over the shared core pipeline.
func New(t *translate.Translator, gw *gateway.Gateway, inv *invoke.Invocator, opts ...Option) (*Service, error) {
	if t == nil || gw == nil || inv == nil {
		return nil, dErrors.New(dErrors.CodeInternal, "translator, gateway and invocator are required")
	}
	s := &Service{translator: t, gw: gw, inv: inv, logger: slog.Default()}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// CreateSubstrate hashes a human-readable name into an identity and binds it
// to the expression built from the spec.
func (s *Service) CreateSubstrate(ctx context.Context, name string, spec translate.ExpressionSpec) (*gateway.Substrate, error) {
	if name == "" {
		return nil, dErrors.New(dErrors.CodeTranslation, "substrate name must not be empty")
	}
	expr, err := s.translator.Expression(spec)
	if err != nil {
		return nil, err
	}
	id := s.gw.CreateIdentity(translate.IdentityFromText(name))
	sub, err := s.gw.CreateSubstrate(id, expr)
	if err != nil {
		return nil, err
	}
	s.logger.InfoContext(ctx, "substrate created",
		"event", "human_create_substrate",
		"name", name,
		"identity", uint64(id),
	)
	return sub, nil
}

// CreateLens hashes a lens name into a lens id and binds the projection.
func (s *Service) CreateLens(ctx context.Context, name string, spec translate.ProjectionSpec) (*gateway.Lens, error) {
	if name == "" {
		return nil, dErrors.New(dErrors.CodeTranslation, "lens name must not be empty")
	}
	proj, err := s.translator.Projection(spec)
	if err != nil {
		return nil, err
	}
	id := gateway.Identity(translate.IdentityFromText(name))
	lens, err := s.gw.CreateLens(id, proj)
	if err != nil {
		return nil, err
	}
	s.logger.InfoContext(ctx, "lens created",
		"event", "human_create_lens",
		"name", name,
		"lens_id", uint64(id),
	)
	return lens, nil
}

// Invoke applies the lens and wraps the outcome as a response record.
func (s *Service) Invoke(ctx context.Context, sub *gateway.Substrate, lens *gateway.Lens) (models.InvocationResponse, error) {
	res, err := s.inv.Single(ctx, sub, lens)
	if err != nil {
		return models.InvocationResponse{}, err
	}
	return models.InvocationResponse{
		Value:       res.Value(),
		SubstrateID: uint64(res.SubstrateID()),
		LensID:      uint64(res.LensID()),
	}, nil
}

// Promote derives a new identity, hashing the free-text change description
// into the opaque delta.
func (s *Service) Promote(ctx context.Context, sub *gateway.Substrate, attributeValue uint64, changeDescription string) (models.PromotionResponse, error) {
	if changeDescription == "" {
		return models.PromotionResponse{}, dErrors.New(dErrors.CodeTranslation, "change description must not be empty")
	}
	delta := s.gw.CreateDelta(translate.IdentityFromText(changeDescription))
	newID, err := s.gw.Promote(sub, attributeValue, delta)
	if err != nil {
		return models.PromotionResponse{}, err
	}
	s.logger.InfoContext(ctx, "substrate promoted",
		"event", "human_promote",
		"old_identity", uint64(sub.ID()),
		"new_identity", uint64(newID),
	)
	return models.PromotionResponse{
		NewIdentity: uint64(newID),
		OldIdentity: uint64(sub.ID()),
	}, nil
}

// CalculateAge is pure subtraction between two millisecond timestamps. Ages
// are never stored; callers recompute from the two timestamps every time.
func CalculateAge(birthMs, nowMs int64) (int64, error) {
	if birthMs < 0 || nowMs < 0 {
		return 0, dErrors.New(dErrors.CodeValidation, "timestamps must be non-negative")
	}
	if nowMs < birthMs {
		return 0, dErrors.Newf(dErrors.CodeValidation, "now %d precedes birth %d", nowMs, birthMs)
	}
	return nowMs - birthMs, nil
}
