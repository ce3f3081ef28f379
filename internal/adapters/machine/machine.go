// Package machine is the program-to-program surface: fixed-layout binary
// identities and substrate records, direct numeric constructors, and batched
// invocation under the brute-force law. Trusted callers, fail fast.
package machine

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"log/slog"

	"golang.org/x/crypto/blake2b"

	"sanctum/internal/adapters/models"
	"sanctum/internal/core/gateway"
	"sanctum/internal/core/invoke"
	"sanctum/internal/core/translate"
	"sanctum/internal/core/validate"
	dErrors "sanctum/pkg/domain-errors"
)

// BatchRequest is one (substrate, lens) pair of an ordered batch.
type BatchRequest struct {
	Substrate *gateway.Substrate
	Lens      *gateway.Lens
}

// Service is the machine-facing adapter.
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

// CreateSubstrate binds an expression to an already-numeric identity. No
// name hashing on this surface.
func (s *Service) CreateSubstrate(ctx context.Context, identity uint64, spec translate.ExpressionSpec) (*gateway.Substrate, error) {
	expr, err := s.translator.Expression(spec)
	if err != nil {
		return nil, err
	}
	return s.gw.CreateSubstrate(s.gw.CreateIdentity(identity), expr)
}

// CreateSubstrateFromWire decodes the fixed-layout binary form and builds the
// live substrate from its embedded expression spec.
func (s *Service) CreateSubstrateFromWire(ctx context.Context, data []byte) (*gateway.Substrate, error) {
	dto, err := models.DecodeSubstrate(data)
	if err != nil {
		return nil, err
	}
	spec := translate.ExpressionSpec{Kind: translate.ExpressionKind(dto.Kind)}
	if dto.Params != "" {
		if err := json.Unmarshal([]byte(dto.Params), &spec); err != nil {
			return nil, dErrors.Wrap(err, dErrors.CodeTranslation, "substrate params are not valid JSON")
		}
		spec.Kind = translate.ExpressionKind(dto.Kind)
	}
	return s.CreateSubstrate(ctx, dto.Identity, spec)
}

// CreateLens binds a projection to a numeric lens id.
func (s *Service) CreateLens(ctx context.Context, lensID uint64, spec translate.ProjectionSpec) (*gateway.Lens, error) {
	proj, err := s.translator.Projection(spec)
	if err != nil {
		return nil, err
	}
	return s.gw.CreateLens(gateway.Identity(lensID), proj)
}

// Invoke applies one lens to one substrate.
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

// InvokeBatch runs an ordered sequence of (substrate, lens) pairs. The
// brute-force law applies to the request count; results preserve position
// and lens association.
func (s *Service) InvokeBatch(ctx context.Context, requests []BatchRequest) ([]models.InvocationResponse, error) {
	if err := validate.BatchSize("machine_invoke_batch", len(requests)); err != nil {
		return nil, err
	}
	responses := make([]models.InvocationResponse, 0, len(requests))
	for i, req := range requests {
		resp, err := s.Invoke(ctx, req.Substrate, req.Lens)
		if err != nil {
			return nil, dErrors.Wrapf(err, dErrors.CodeValidation, "batch request %d failed", i)
		}
		responses = append(responses, resp)
	}
	s.logger.InfoContext(ctx, "batch invoked",
		"event", "machine_invoke_batch",
		"batch_size", len(requests),
	)
	return responses, nil
}

// BuildManifold assembles the descriptive bundle after validating its parts.
// The dimension range is 1..16; the form must be an in-bound integer.
func (s *Service) BuildManifold(substrateID uint64, dimension int, form float64) (models.Manifold, error) {
	if dimension < 1 || dimension > 16 {
		return models.Manifold{}, dErrors.Newf(dErrors.CodeValidation, "manifold dimension %d outside 1..16", dimension)
	}
	if err := validate.BoundFloat(form); err != nil {
		return models.Manifold{}, err
	}
	return models.Manifold{
		SubstrateID: substrateID,
		Dimension:   dimension,
		Form:        uint64(form),
	}, nil
}

// IngestBytes verifies a BLAKE2b-256 checksum handed over by the resource
// connector, then hashes the payload into an identity and binds a constant
// substrate carrying that identity as its truth.
func (s *Service) IngestBytes(ctx context.Context, data, checksum []byte) (*gateway.Substrate, error) {
	sum := blake2b.Sum256(data)
	if subtle.ConstantTimeCompare(sum[:], checksum) != 1 {
		return nil, dErrors.New(dErrors.CodeValidation, "payload checksum mismatch")
	}
	identity := translate.IdentityFromBytes(data)
	sub, err := s.CreateSubstrate(ctx, identity, translate.ExpressionSpec{
		Kind:  translate.ExprConstant,
		Value: identity,
	})
	if err != nil {
		return nil, err
	}
	s.logger.InfoContext(ctx, "bytes ingested",
		"event", "machine_ingest",
		"payload_bytes", len(data),
		"identity", identity,
	)
	return sub, nil
}
