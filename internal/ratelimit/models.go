// Package ratelimit guards the untrusted AI surface with sliding-window
// request limiting. Sliding windows prevent boundary attacks where a caller
// bursts at the edge of two fixed windows.
package ratelimit

import "time"

// Result reports one limiter decision.
type Result struct {
	Allowed   bool
	Remaining int
	Limit     int
	ResetAt   time.Time
}

// Policy is the limit applied to one caller key.
type Policy struct {
	Limit  int
	Window time.Duration
}

// DefaultAIPolicy is the per-caller budget on the AI instruction surface.
var DefaultAIPolicy = Policy{Limit: 60, Window: time.Minute}
