package translate

import (
	"encoding/json"
	"sync"

	"sanctum/internal/kernel"
)

// Translator builds kernel primitives from external representations. The
// only state is a memoization cache for expression closures; cache content
// never affects observable results, only construction cost.
type Translator struct {
	mu    sync.RWMutex
	cache map[uint64]kernel.Expression
}

// New returns a Translator with an empty closure cache.
func New() *Translator {
	return &Translator{cache: make(map[uint64]kernel.Expression)}
}

// cachedExpression returns a previously built closure for an identical spec,
// or builds and stores one. Field order in ExpressionSpec is fixed, so the
// JSON encoding is a stable cache key source.
func (t *Translator) cachedExpression(spec ExpressionSpec, build func() kernel.Expression) (kernel.Expression, error) {
	key, ok := specKey(spec)
	if !ok {
		return build(), nil
	}

	t.mu.RLock()
	expr, hit := t.cache[key]
	t.mu.RUnlock()
	if hit {
		return expr, nil
	}

	expr = build()

	t.mu.Lock()
	// A concurrent builder may have won the race; either closure is
	// equivalent, so last write is fine.
	t.cache[key] = expr
	t.mu.Unlock()
	return expr, nil
}

// CacheSize reports the number of memoized closures. Diagnostic only.
func (t *Translator) CacheSize() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.cache)
}

func specKey(spec ExpressionSpec) (uint64, bool) {
	raw, err := json.Marshal(spec)
	if err != nil {
		return 0, false
	}
	return IdentityFromBytes(raw), true
}
