// Package gateway is the sole constructor and operator of live kernel
// primitives. Adapters hold the opaque types declared here and never touch
// the kernel directly. The Gateway is built once in main and injected; there
// is no package-level instance.
package gateway

import (
	"encoding/binary"
	"hash/fnv"
	"sync"

	"sanctum/internal/core/validate"
	"sanctum/internal/kernel"
	dErrors "sanctum/pkg/domain-errors"
)

// Identity is a bounded, deterministically derived address.
type Identity uint64

// Substrate pairs an identity with the pure expression yielding its truth.
// Fields are unexported: once constructed, a substrate cannot be rewired.
type Substrate struct {
	id   Identity
	expr kernel.Expression
}

// ID returns the substrate's identity.
func (s *Substrate) ID() Identity { return s.id }

// Lens pairs a lens identity with a pure projection.
type Lens struct {
	id   Identity
	proj kernel.Projection
}

// ID returns the lens identity.
func (l *Lens) ID() Identity { return l.id }

// Delta is an opaque change descriptor. The core never interprets it
// structurally; it is only folded into promotion.
type Delta struct {
	z1 uint64
}

// Z1 returns the delta's bounded payload.
func (d Delta) Z1() uint64 { return d.z1 }

// Gateway owns primitive construction and the invoke/promote protocol.
type Gateway struct {
	eval kernel.Evaluator

	// identities is a cache of addresses seen by this gateway. It exists
	// for diagnostics and warm lookups; contents never change results.
	mu         sync.RWMutex
	identities map[Identity]struct{}
}

// New builds a Gateway over the given evaluator, falling back to the kernel
// default when nil.
func New(eval kernel.Evaluator) *Gateway {
	if eval == nil {
		eval = kernel.Default()
	}
	return &Gateway{
		eval:       eval,
		identities: make(map[Identity]struct{}),
	}
}

// CreateIdentity registers and returns a bounded identity.
func (g *Gateway) CreateIdentity(v uint64) Identity {
	id := Identity(v)
	g.mu.Lock()
	g.identities[id] = struct{}{}
	g.mu.Unlock()
	return id
}

// KnownIdentities reports the size of the identity registry. Diagnostic only.
func (g *Gateway) KnownIdentities() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return len(g.identities)
}

// CreateSubstrate validates the expression once, then binds it to an
// identity.
func (g *Gateway) CreateSubstrate(id Identity, expr kernel.Expression) (*Substrate, error) {
	if err := validate.Expression(expr); err != nil {
		return nil, err
	}
	g.mu.Lock()
	g.identities[id] = struct{}{}
	g.mu.Unlock()
	return &Substrate{id: id, expr: expr}, nil
}

// CreateLens validates the projection once, then binds it to a lens id.
func (g *Gateway) CreateLens(id Identity, proj kernel.Projection) (*Lens, error) {
	if err := validate.Projection(proj); err != nil {
		return nil, err
	}
	return &Lens{id: id, proj: proj}, nil
}

// CreateDelta wraps a bounded integer as an opaque change descriptor.
func (g *Gateway) CreateDelta(z1 uint64) Delta {
	return Delta{z1: z1}
}

// Invoke computes projection(expression()). Invocation reveals, it never
// precomputes: every call re-derives the substrate's truth, so time-varying
// expressions observe the clock on every invocation.
func (g *Gateway) Invoke(s *Substrate, l *Lens) (uint64, error) {
	if s == nil || l == nil {
		return 0, dErrors.New(dErrors.CodeValidation, "invoke requires a substrate and a lens")
	}
	truth := g.eval.Evaluate(s.expr)
	return g.eval.Apply(l.proj, truth), nil
}

// Promote derives a fresh identity from (substrate identity, attribute
// value, delta) by folding their big-endian encodings through the same hash
// used for identity translation. The original substrate is never mutated:
// change is modeled as a new addressable identity.
func (g *Gateway) Promote(s *Substrate, attributeValue uint64, d Delta) (Identity, error) {
	if s == nil {
		return 0, dErrors.New(dErrors.CodeValidation, "promote requires a substrate")
	}
	var buf [24]byte
	binary.BigEndian.PutUint64(buf[0:8], uint64(s.id))
	binary.BigEndian.PutUint64(buf[8:16], attributeValue)
	binary.BigEndian.PutUint64(buf[16:24], d.z1)

	h := fnv.New64a()
	_, _ = h.Write(buf[:])
	return g.CreateIdentity(h.Sum64()), nil
}
