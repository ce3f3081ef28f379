// Package translate converts external representations (numbers, text, byte
// strings, declarative parameter specs) into kernel-compatible primitives:
// bounded identities, expression closures, and projection closures. All
// translation is deterministic except the timestamp expression kind, whose
// time dependence is the point.
package translate

import (
	"hash/fnv"

	dErrors "sanctum/pkg/domain-errors"
)

// Identity translates a signed integer into a bounded identity. Negative
// values cannot be addresses and fail with a translation error.
func Identity(v int64) (uint64, error) {
	if v < 0 {
		return 0, dErrors.Newf(dErrors.CodeTranslation, "identity %d exceeds width: negative values are not addressable", v)
	}
	return uint64(v), nil
}

// IdentityFromUint passes an already-bounded integer through unchanged.
func IdentityFromUint(v uint64) uint64 { return v }

// IdentityFromText hashes text deterministically to the bound. Same text
// always yields the same identity; distinct texts collide only with
// overwhelming improbability (no collision-freedom is claimed).
func IdentityFromText(s string) uint64 {
	return IdentityFromBytes([]byte(s))
}

// IdentityFromBytes folds raw bytes through FNV-1a 64.
func IdentityFromBytes(b []byte) uint64 {
	h := fnv.New64a()
	_, _ = h.Write(b)
	return h.Sum64()
}
