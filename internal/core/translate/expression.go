package translate

import (
	"time"

	"sanctum/internal/kernel"
	dErrors "sanctum/pkg/domain-errors"
)

// ExpressionKind is the closed set of expression constructors understood by
// the translator. Wire data may still carry unknown tags; those land in the
// explicit unsupported branch rather than a silent default.
type ExpressionKind string

const (
	// ExprConstant returns a fixed value.
	ExprConstant ExpressionKind = "constant"
	// ExprTimestamp returns current wall-clock milliseconds. Intentionally
	// non-deterministic across calls; it exists to prove that invocation
	// re-derives instead of replaying a cached value.
	ExprTimestamp ExpressionKind = "timestamp"
	// ExprDerived returns base+offset.
	ExprDerived ExpressionKind = "derived"
	// ExprComposite folds sub-expressions with xor or add.
	ExprComposite ExpressionKind = "composite"
)

// FoldOp selects how a composite expression combines its parts.
type FoldOp string

const (
	FoldXor FoldOp = "xor"
	FoldAdd FoldOp = "add"
)

// ExpressionSpec is the declarative, transport-friendly form of an
// expression. Only the fields relevant to Kind are read.
type ExpressionSpec struct {
	Kind   ExpressionKind   `json:"kind"`
	Value  uint64           `json:"value,omitempty"`
	Base   uint64           `json:"base,omitempty"`
	Offset uint64           `json:"offset,omitempty"`
	Fold   FoldOp           `json:"fold,omitempty"`
	Parts  []ExpressionSpec `json:"parts,omitempty"`
}

// Expression builds a pure closure from a declarative spec. Unknown kinds
// fail with a translation error. Constant-family closures are memoized by
// the translator cache; timestamp closures never are.
func (t *Translator) Expression(spec ExpressionSpec) (kernel.Expression, error) {
	switch spec.Kind {
	case ExprConstant:
		return t.cachedExpression(spec, func() kernel.Expression {
			v := spec.Value
			return func() uint64 { return v }
		})
	case ExprTimestamp:
		return func() uint64 { return uint64(time.Now().UnixMilli()) }, nil
	case ExprDerived:
		return t.cachedExpression(spec, func() kernel.Expression {
			base, offset := spec.Base, spec.Offset
			return func() uint64 { return base + offset }
		})
	case ExprComposite:
		return t.compositeExpression(spec)
	default:
		return nil, dErrors.Newf(dErrors.CodeTranslation, "unsupported expression kind %q", spec.Kind)
	}
}

func (t *Translator) compositeExpression(spec ExpressionSpec) (kernel.Expression, error) {
	if len(spec.Parts) == 0 {
		return nil, dErrors.New(dErrors.CodeTranslation, "composite expression requires at least one part")
	}
	if spec.Fold != FoldXor && spec.Fold != FoldAdd {
		return nil, dErrors.Newf(dErrors.CodeTranslation, "unsupported fold op %q", spec.Fold)
	}

	parts := make([]kernel.Expression, 0, len(spec.Parts))
	cacheable := true
	for _, sub := range spec.Parts {
		expr, err := t.Expression(sub)
		if err != nil {
			return nil, err
		}
		parts = append(parts, expr)
		if containsTimestamp(sub) {
			cacheable = false
		}
	}

	fold := spec.Fold
	build := func() kernel.Expression {
		return func() uint64 {
			var acc uint64
			for _, part := range parts {
				v := part()
				if fold == FoldXor {
					acc ^= v
				} else {
					acc += v
				}
			}
			return acc
		}
	}
	if !cacheable {
		return build(), nil
	}
	return t.cachedExpression(spec, build)
}

// containsTimestamp reports whether a spec transitively includes the
// time-varying kind, which must never enter the memoization cache.
func containsTimestamp(spec ExpressionSpec) bool {
	if spec.Kind == ExprTimestamp {
		return true
	}
	for _, sub := range spec.Parts {
		if containsTimestamp(sub) {
			return true
		}
	}
	return false
}
