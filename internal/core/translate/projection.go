package translate

import (
	"sanctum/internal/kernel"
	dErrors "sanctum/pkg/domain-errors"
)

// ProjectionKind is the closed set of projection constructors.
type ProjectionKind string

const (
	// ProjIdentity passes the substrate value through unchanged.
	ProjIdentity ProjectionKind = "identity"
	// ProjMask right-shifts by Shift, then ANDs with Mask.
	ProjMask ProjectionKind = "mask"
	// ProjExtractBits right-shifts by Start, then ANDs with (1<<Length)-1.
	ProjExtractBits ProjectionKind = "extract_bits"
)

// ProjectionSpec is the declarative form of a projection.
type ProjectionSpec struct {
	Kind   ProjectionKind `json:"kind"`
	Mask   uint64         `json:"mask,omitempty"`
	Shift  uint           `json:"shift,omitempty"`
	Start  uint           `json:"start,omitempty"`
	Length uint           `json:"length,omitempty"`
}

// Projection builds a pure single-argument closure from a declarative spec.
func (t *Translator) Projection(spec ProjectionSpec) (kernel.Projection, error) {
	switch spec.Kind {
	case ProjIdentity:
		return func(v uint64) uint64 { return v }, nil
	case ProjMask:
		if spec.Shift >= 64 {
			return nil, dErrors.Newf(dErrors.CodeTranslation, "mask shift %d exceeds width", spec.Shift)
		}
		mask, shift := spec.Mask, spec.Shift
		return func(v uint64) uint64 { return (v >> shift) & mask }, nil
	case ProjExtractBits:
		if spec.Start >= 64 || spec.Length == 0 || spec.Start+spec.Length > 64 {
			return nil, dErrors.Newf(dErrors.CodeTranslation,
				"extract_bits window start=%d length=%d exceeds width", spec.Start, spec.Length)
		}
		start := spec.Start
		var mask uint64
		if spec.Length == 64 {
			mask = ^uint64(0)
		} else {
			mask = (uint64(1) << spec.Length) - 1
		}
		return func(v uint64) uint64 { return (v >> start) & mask }, nil
	default:
		return nil, dErrors.Newf(dErrors.CodeTranslation, "unsupported projection kind %q", spec.Kind)
	}
}
