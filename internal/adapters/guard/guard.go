// Package guard verifies that values asserted by automated callers match
// what the kernel actually derives, and stamps every AI-originated
// derivation with an audit record. Nothing here trusts the claim: the guard
// only ever compares against a value that came out of the real pipeline.
package guard

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	dErrors "sanctum/pkg/domain-errors"
)

// Source is the provenance stamped onto every audit record. Values audited
// here always came from substrate math, never from caller assertions.
const Source = "substrate_math"

// AuditRecord accompanies every AI-facing derivation.
type AuditRecord struct {
	ID             string `json:"id"`
	SubstrateIDHex string `json:"substrate_id"`
	LensIDHex      string `json:"lens_id"`
	Operation      string `json:"operation"`
	Fabricated     bool   `json:"fabricated"`
	Source         string `json:"source"`
	StampedAtMs    int64  `json:"stamped_at_ms"`
}

// ValidateNotFabricated compares a caller-asserted value against the derived
// truth. Integer claims are compared exactly in 64-bit arithmetic; floating
// claims use an absolute-difference tolerance; non-numeric claims require
// exact equality; a numeric claim against a non-numeric derivation (or vice
// versa) fails distinctly.
func ValidateNotFabricated(claimed, derived any, tolerance float64) error {
	cMag, cNeg, cIntOK := asInteger(claimed)
	dMag, dNeg, dIntOK := asInteger(derived)
	if cIntOK && dIntOK {
		if integerDiverges(cMag, cNeg, dMag, dNeg, tolerance) {
			return dErrors.Newf(dErrors.CodeFabrication,
				"claimed %v diverges from derived %v (tolerance %v)", claimed, derived, tolerance)
		}
		return nil
	}

	cNum, cOK := asFloat(claimed)
	dNum, dOK := asFloat(derived)

	switch {
	case cOK && dOK:
		diff := cNum - dNum
		if diff < 0 {
			diff = -diff
		}
		if diff > tolerance {
			return dErrors.Newf(dErrors.CodeFabrication,
				"claimed %v diverges from derived %v (tolerance %v)", claimed, derived, tolerance)
		}
		return nil
	case cOK != dOK:
		return dErrors.Newf(dErrors.CodeFabrication,
			"type mismatch: claimed %T against derived %T", claimed, derived)
	default:
		if claimed != derived {
			return dErrors.Newf(dErrors.CodeFabrication,
				"claimed %v does not equal derived %v", claimed, derived)
		}
		return nil
	}
}

// integerDiverges compares two sign-and-magnitude integers against the
// tolerance without a float64 round trip, so a single-unit divergence stays
// visible across the full 64-bit range. Identities and promoted values live
// at the top of that range, above the float64 mantissa.
func integerDiverges(cMag uint64, cNeg bool, dMag uint64, dNeg bool, tolerance float64) bool {
	if cNeg != dNeg {
		return float64(cMag)+float64(dMag) > tolerance
	}
	diff := cMag - dMag
	if dMag > cMag {
		diff = dMag - cMag
	}
	if diff == 0 {
		return false
	}
	return float64(diff) > tolerance
}

// ValidateDerivationPath stamps a derivation that passed through the real
// pipeline. Fabricated is always false here: the guard is only ever called
// on values the gateway actually computed.
func ValidateDerivationPath(substrateID, lensID uint64, operation string) AuditRecord {
	return AuditRecord{
		ID:             uuid.NewString(),
		SubstrateIDHex: FormatIdentity(substrateID),
		LensIDHex:      FormatIdentity(lensID),
		Operation:      operation,
		Fabricated:     false,
		Source:         Source,
		StampedAtMs:    time.Now().UnixMilli(),
	}
}

// FormatIdentity renders the audit hex form: "0x" + 16 uppercase digits.
func FormatIdentity(id uint64) string {
	return fmt.Sprintf("0x%016X", id)
}

// asInteger extracts integer kinds as sign and magnitude without widening,
// keeping full 64-bit precision.
func asInteger(v any) (mag uint64, neg, ok bool) {
	switch n := v.(type) {
	case int:
		return intMagnitude(int64(n))
	case int8:
		return intMagnitude(int64(n))
	case int16:
		return intMagnitude(int64(n))
	case int32:
		return intMagnitude(int64(n))
	case int64:
		return intMagnitude(n)
	case uint:
		return uint64(n), false, true
	case uint8:
		return uint64(n), false, true
	case uint16:
		return uint64(n), false, true
	case uint32:
		return uint64(n), false, true
	case uint64:
		return n, false, true
	default:
		return 0, false, false
	}
}

func intMagnitude(n int64) (uint64, bool, bool) {
	if n < 0 {
		// Written to survive math.MinInt64, which has no positive int64 twin.
		return uint64(-(n + 1)) + 1, true, true
	}
	return uint64(n), false, true
}

// asFloat widens any numeric kind to float64 for tolerance comparison.
func asFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	default:
		return 0, false
	}
}
