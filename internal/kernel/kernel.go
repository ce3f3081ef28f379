// Package kernel declares the contract of the evaluation engine this module
// consumes. The engine itself is an external collaborator: given a pure
// zero-argument expression it returns a bounded integer, deterministically,
// with no side effects. Nothing in this package may import the rest of the
// module; the import direction is enforced by the sanctum analyzer.
package kernel

// Expression is a pure, zero-argument, side-effect-free function yielding a
// bounded integer. The uint64 type is the bound: every value satisfies
// 0 <= v < 2^64.
type Expression func() uint64

// Projection is a pure single-argument view over an expression's value.
type Projection func(uint64) uint64

// Evaluator is the consumed engine contract. Implementations must be
// deterministic for deterministic inputs and must terminate.
type Evaluator interface {
	Evaluate(expr Expression) uint64
	Apply(proj Projection, value uint64) uint64
}

type direct struct{}

func (direct) Evaluate(expr Expression) uint64        { return expr() }
func (direct) Apply(proj Projection, v uint64) uint64 { return proj(v) }

// Default returns the reference evaluator: direct application, no caching.
func Default() Evaluator { return direct{} }
