// Package ai is the surface for untrusted automated callers. Every
// derivation is stamped with an audit record, asserted values are checked
// against derived truth, and a claim mismatch is an answer, not a crash.
package ai

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"hash/fnv"
	"log/slog"
	"math"

	"sanctum/internal/adapters/guard"
	"sanctum/internal/core/gateway"
	"sanctum/internal/core/invoke"
	"sanctum/internal/core/translate"
	"sanctum/internal/core/validate"
	dErrors "sanctum/pkg/domain-errors"
)

// Operation names form a closed set. Anything else is rejected before it
// reaches the pipeline.
const (
	OpInvoke          = "invoke"
	OpPromote         = "promote"
	OpCreateSubstrate = "create_substrate"
	OpCreateLens      = "create_lens"
)

// embeddingComponents is how many leading vector components participate in
// the lossy identity mapping.
const embeddingComponents = 8

// embeddingScale is the fixed-precision scale applied before truncation.
const embeddingScale = 1e6

// structuralParamKeys carry kind tags and labels, not values. The dynamic
// literal heuristic targets facts baked into constants, so a legal
// expression_type of "timestamp" must not trip it.
var structuralParamKeys = map[string]bool{
	"expression_type": true,
	"projection_type": true,
	"name":            true,
}

// Instruction is the structured request shape of the AI surface.
type Instruction struct {
	Operation string         `json:"operation"`
	Params    map[string]any `json:"params"`
}

// Outcome pairs a derived value (or fresh identity) with its audit record.
type Outcome struct {
	Value    uint64            `json:"value"`
	Identity uint64            `json:"identity"`
	Audit    guard.AuditRecord `json:"audit"`
}

// Recorder receives audit records for the trail. The adapter never blocks a
// derivation on recording.
type Recorder interface {
	Record(ctx context.Context, rec guard.AuditRecord)
}

// Service is the AI-facing adapter.
type Service struct {
	translator *translate.Translator
	gw         *gateway.Gateway
	inv        *invoke.Invocator
	recorder   Recorder
	logger     *slog.Logger
}

// Option configures the Service.
type Option func(*Service)

// WithLogger attaches a structured logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Service) { s.logger = l }
}

// WithRecorder attaches an audit trail sink.
func WithRecorder(r Recorder) Option {
	return func(s *Service) { s.recorder = r }
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

// Execute dispatches one instruction. Bad instruction shape and unknown
// operations propagate as errors; only claim verification is lenient, and
// that lives on VerifyClaim.
func (s *Service) Execute(ctx context.Context, inst Instruction) (Outcome, error) {
	if inst.Params == nil {
		return Outcome{}, dErrors.New(dErrors.CodeValidation, "instruction params are required")
	}
	literals := make(map[string]any, len(inst.Params))
	for key, raw := range inst.Params {
		if structuralParamKeys[key] {
			continue
		}
		literals[key] = raw
	}
	if err := validate.NoDynamicLiterals(literals); err != nil {
		return Outcome{}, err
	}

	var (
		out Outcome
		err error
	)
	switch inst.Operation {
	case OpInvoke:
		out, err = s.executeInvoke(ctx, inst.Params)
	case OpPromote:
		out, err = s.executePromote(ctx, inst.Params)
	case OpCreateSubstrate:
		out, err = s.executeCreateSubstrate(ctx, inst.Params)
	case OpCreateLens:
		out, err = s.executeCreateLens(ctx, inst.Params)
	default:
		return Outcome{}, dErrors.Newf(dErrors.CodeValidation, "unknown operation %q", inst.Operation)
	}
	if err != nil {
		return Outcome{}, err
	}

	if s.recorder != nil {
		s.recorder.Record(ctx, out.Audit)
	}
	s.logger.InfoContext(ctx, "instruction executed",
		"event", "ai_execute",
		"operation", inst.Operation,
		"audit_id", out.Audit.ID,
	)
	return out, nil
}

func (s *Service) executeInvoke(ctx context.Context, params map[string]any) (Outcome, error) {
	substrateID, err := requireIdentity(params, "substrate_identity")
	if err != nil {
		return Outcome{}, err
	}
	lensID, err := requireIdentity(params, "lens_id")
	if err != nil {
		return Outcome{}, err
	}
	sub, err := s.buildSubstrate(substrateID, params)
	if err != nil {
		return Outcome{}, err
	}
	lens, err := s.buildLens(lensID, params)
	if err != nil {
		return Outcome{}, err
	}

	res, err := s.inv.Single(ctx, sub, lens)
	if err != nil {
		return Outcome{}, err
	}
	return Outcome{
		Value: res.Value(),
		Audit: guard.ValidateDerivationPath(uint64(res.SubstrateID()), uint64(res.LensID()), OpInvoke),
	}, nil
}

func (s *Service) executePromote(ctx context.Context, params map[string]any) (Outcome, error) {
	substrateID, err := requireIdentity(params, "substrate_identity")
	if err != nil {
		return Outcome{}, err
	}
	attributeValue, err := requireIdentity(params, "attribute_value")
	if err != nil {
		return Outcome{}, err
	}
	deltaZ1, err := requireIdentity(params, "delta_z1")
	if err != nil {
		return Outcome{}, err
	}
	sub, err := s.buildSubstrate(substrateID, params)
	if err != nil {
		return Outcome{}, err
	}

	newID, err := s.gw.Promote(sub, attributeValue, s.gw.CreateDelta(deltaZ1))
	if err != nil {
		return Outcome{}, err
	}
	return Outcome{
		Identity: uint64(newID),
		Audit:    guard.ValidateDerivationPath(substrateID, uint64(newID), OpPromote),
	}, nil
}

func (s *Service) executeCreateSubstrate(ctx context.Context, params map[string]any) (Outcome, error) {
	identity, err := nameOrNumericIdentity(params)
	if err != nil {
		return Outcome{}, err
	}
	sub, err := s.buildSubstrate(identity, params)
	if err != nil {
		return Outcome{}, err
	}
	return Outcome{
		Identity: uint64(sub.ID()),
		Audit:    guard.ValidateDerivationPath(uint64(sub.ID()), 0, OpCreateSubstrate),
	}, nil
}

func (s *Service) executeCreateLens(ctx context.Context, params map[string]any) (Outcome, error) {
	identity, err := nameOrNumericIdentity(params)
	if err != nil {
		return Outcome{}, err
	}
	lens, err := s.buildLens(identity, params)
	if err != nil {
		return Outcome{}, err
	}
	return Outcome{
		Identity: uint64(lens.ID()),
		Audit:    guard.ValidateDerivationPath(0, uint64(lens.ID()), OpCreateLens),
	}, nil
}

// BuildPair assembles a substrate and lens from loose params using the same
// per-op defaults as instruction dispatch. Transport uses it to prepare
// claim verification inputs.
func (s *Service) BuildPair(substrateID, lensID uint64, params map[string]any) (*gateway.Substrate, *gateway.Lens, error) {
	sub, err := s.buildSubstrate(substrateID, params)
	if err != nil {
		return nil, nil, err
	}
	lens, err := s.buildLens(lensID, params)
	if err != nil {
		return nil, nil, err
	}
	return sub, lens, nil
}

// VerifyClaim checks an asserted value against the derived truth. A mismatch
// is never an error from this method: untrusted callers must be able to be
// wrong without crashing the pipeline. Pipeline failures still propagate.
func (s *Service) VerifyClaim(ctx context.Context, sub *gateway.Substrate, lens *gateway.Lens, claimed uint64) (bool, uint64, error) {
	res, err := s.inv.Single(ctx, sub, lens)
	if err != nil {
		return false, 0, err
	}
	actual := res.Value()

	verr := guard.ValidateNotFabricated(claimed, actual, 0)
	rec := guard.ValidateDerivationPath(uint64(res.SubstrateID()), uint64(res.LensID()), "verify_claim")
	if s.recorder != nil {
		s.recorder.Record(ctx, rec)
	}
	if verr != nil {
		if dErrors.Is(verr, dErrors.CodeFabrication) {
			return false, actual, nil
		}
		return false, actual, verr
	}
	return true, actual, nil
}

// EmbeddingToIdentity maps the first 8 vector components, scaled to fixed
// precision and truncated, through the identity hash. Lossy and for lookup
// only; exact values never round-trip through it.
func EmbeddingToIdentity(vector []float64) (uint64, error) {
	if len(vector) == 0 {
		return 0, dErrors.New(dErrors.CodeTranslation, "embedding vector must not be empty")
	}
	n := len(vector)
	if n > embeddingComponents {
		n = embeddingComponents
	}

	h := fnv.New64a()
	var buf [8]byte
	for _, c := range vector[:n] {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return 0, dErrors.New(dErrors.CodeTranslation, "embedding component is not a finite number")
		}
		scaled := int64(math.Trunc(c * embeddingScale))
		binary.BigEndian.PutUint64(buf[:], uint64(scaled))
		_, _ = h.Write(buf[:])
	}
	return h.Sum64(), nil
}

// buildSubstrate assembles the substrate for an instruction, defaulting to a
// constant expression carrying the identity itself.
func (s *Service) buildSubstrate(identity uint64, params map[string]any) (*gateway.Substrate, error) {
	spec := translate.ExpressionSpec{Kind: translate.ExprConstant, Value: identity}
	if kind, ok := params["expression_type"].(string); ok {
		spec = translate.ExpressionSpec{Kind: translate.ExpressionKind(kind)}
		if raw, ok := params["expression_params"]; ok {
			if err := decodeInto(raw, &spec); err != nil {
				return nil, err
			}
			spec.Kind = translate.ExpressionKind(kind)
		}
	}
	expr, err := s.translator.Expression(spec)
	if err != nil {
		return nil, err
	}
	return s.gw.CreateSubstrate(s.gw.CreateIdentity(identity), expr)
}

// buildLens assembles the lens for an instruction, defaulting to the
// pass-through projection.
func (s *Service) buildLens(lensID uint64, params map[string]any) (*gateway.Lens, error) {
	spec := translate.ProjectionSpec{Kind: translate.ProjIdentity}
	if kind, ok := params["projection_type"].(string); ok {
		spec = translate.ProjectionSpec{Kind: translate.ProjectionKind(kind)}
		if raw, ok := params["projection_params"]; ok {
			if err := decodeInto(raw, &spec); err != nil {
				return nil, err
			}
			spec.Kind = translate.ProjectionKind(kind)
		}
	}
	proj, err := s.translator.Projection(spec)
	if err != nil {
		return nil, err
	}
	return s.gw.CreateLens(gateway.Identity(lensID), proj)
}

// decodeInto re-marshals a loosely typed params value into a concrete spec.
func decodeInto(raw any, target any) error {
	data, err := json.Marshal(raw)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeTranslation, "instruction params are not encodable")
	}
	if err := json.Unmarshal(data, target); err != nil {
		return dErrors.Wrap(err, dErrors.CodeTranslation, "instruction params do not match the spec shape")
	}
	return nil
}

// requireIdentity pulls a bounded numeric param. JSON numbers arrive as
// float64 and must pass the bound law before conversion.
func requireIdentity(params map[string]any, key string) (uint64, error) {
	raw, ok := params[key]
	if !ok {
		return 0, dErrors.Newf(dErrors.CodeValidation, "param %q is required", key)
	}
	switch v := raw.(type) {
	case float64:
		if err := validate.BoundFloat(v); err != nil {
			return 0, err
		}
		return uint64(v), nil
	case int:
		if err := validate.Bound(int64(v)); err != nil {
			return 0, err
		}
		return uint64(v), nil
	case int64:
		if err := validate.Bound(v); err != nil {
			return 0, err
		}
		return uint64(v), nil
	case uint64:
		return v, nil
	case json.Number:
		f, err := v.Float64()
		if err != nil {
			return 0, dErrors.Wrapf(err, dErrors.CodeTranslation, "param %q is not numeric", key)
		}
		if err := validate.BoundFloat(f); err != nil {
			return 0, err
		}
		return uint64(f), nil
	default:
		return 0, dErrors.Newf(dErrors.CodeValidation, "param %q must be numeric, got %T", key, raw)
	}
}

// nameOrNumericIdentity resolves the create_* identity source: a direct
// numeric id wins, otherwise the name is hashed.
func nameOrNumericIdentity(params map[string]any) (uint64, error) {
	if _, ok := params["id"]; ok {
		return requireIdentity(params, "id")
	}
	name, ok := params["name"].(string)
	if !ok || name == "" {
		return 0, dErrors.New(dErrors.CodeValidation, `params require "name" or a numeric "id"`)
	}
	return translate.IdentityFromText(name), nil
}
