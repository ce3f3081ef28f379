package audit

import "time"

// EventCategory classifies trail entries by their purpose, enabling
// different retention and routing per category.
type EventCategory string

const (
	// CategoryDerivation covers values computed through the real pipeline:
	// invocations, promotions, primitive construction.
	CategoryDerivation EventCategory = "derivation"

	// CategoryVerification covers claim checks on the untrusted surface.
	CategoryVerification EventCategory = "verification"

	// CategorySecurity covers boundary enforcement: sanctum violations and
	// rejected instructions.
	CategorySecurity EventCategory = "security"
)

// Event is one append-only trail entry. Keep it transport-agnostic so stores
// and sinks can fan out.
type Event struct {
	ID             string
	Category       EventCategory
	Timestamp      time.Time
	Operation      string
	SubstrateIDHex string
	LensIDHex      string
	Fabricated     bool
	Source         string
	RequestID      string
}
