// Package models holds the transfer records exchanged across the interface
// layer. DTOs are transfer-only: they are never computed with directly and
// never reach the kernel. Every field is a value kind so the records satisfy
// the structural immutability law.
package models

// SubstrateDTO mirrors a substrate for transport. Params carries the
// expression parameters as a self-describing JSON text blob; keeping it a
// string (not a map) keeps the record structurally immutable.
type SubstrateDTO struct {
	Identity uint64 `json:"identity"`
	Kind     string `json:"kind"`
	Params   string `json:"params,omitempty"`
}

// LensDTO mirrors a lens for transport.
type LensDTO struct {
	LensID uint64 `json:"lens_id"`
	Kind   string `json:"kind"`
	Params string `json:"params,omitempty"`
}

// DeltaDTO mirrors an opaque change descriptor.
type DeltaDTO struct {
	Z1 uint64 `json:"z1"`
}

// InvocationRequest asks for one lens application over one substrate.
type InvocationRequest struct {
	Substrate SubstrateDTO `json:"substrate"`
	Lens      LensDTO      `json:"lens"`
}

// InvocationResponse reports a derived value with its provenance.
type InvocationResponse struct {
	Value       uint64 `json:"value"`
	SubstrateID uint64 `json:"substrate_id"`
	LensID      uint64 `json:"lens_id"`
}

// PromotionRequest asks for a new identity derived from a substrate, an
// attribute value, and a delta.
type PromotionRequest struct {
	Substrate      SubstrateDTO `json:"substrate"`
	AttributeValue uint64       `json:"attribute_value"`
	Delta          DeltaDTO     `json:"delta"`
}

// PromotionResponse carries the freshly derived identity.
type PromotionResponse struct {
	NewIdentity uint64 `json:"new_identity"`
	OldIdentity uint64 `json:"old_identity"`
}

// Manifold is a labeled, validated bundle used by the machine surface. It is
// descriptive only and never computed with.
type Manifold struct {
	SubstrateID uint64 `json:"substrate_id"`
	Dimension   int    `json:"dimension"`
	Form        uint64 `json:"form"`
}
