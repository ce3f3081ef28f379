// Package validate enforces the system laws on anything about to cross into
// the kernel: bounded width, callability, correct return behavior, structural
// immutability, and the brute-force threshold. Every check is pure and
// stateless; failures carry dErrors.CodeValidation.
package validate

import (
	"math"
	"reflect"
	"strings"

	"sanctum/internal/kernel"
	dErrors "sanctum/pkg/domain-errors"
)

// MaxBatchSize is the brute-force threshold: any operation touching more
// items than this must be redesigned as a batch, not a linear scan.
const MaxBatchSize = 1000

// probeSentinel is the all-bits-set input used for the single projection
// test invocation.
const probeSentinel = ^uint64(0)

// Bound checks a signed external integer against the 64-bit width.
func Bound(v int64) error {
	if v < 0 {
		return dErrors.Newf(dErrors.CodeValidation, "value %d out of bound: negative", v)
	}
	return nil
}

// BoundFloat checks a numeric wire value: it must be a non-negative integer
// representable within the width.
func BoundFloat(v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return dErrors.New(dErrors.CodeValidation, "value out of bound: not a finite number")
	}
	if v < 0 {
		return dErrors.Newf(dErrors.CodeValidation, "value %v out of bound: negative", v)
	}
	if v != math.Trunc(v) {
		return dErrors.Newf(dErrors.CodeValidation, "value %v out of bound: not an integer", v)
	}
	if v >= math.Ldexp(1, 64) {
		return dErrors.Newf(dErrors.CodeValidation, "value %v exceeds 64-bit width", v)
	}
	return nil
}

// Expression verifies that an expression closure is present and behaves: a
// single probe invocation must complete without panicking. Panics raised by
// the probe are wrapped as validation errors rather than crashing the caller.
func Expression(expr kernel.Expression) (err error) {
	if expr == nil {
		return dErrors.New(dErrors.CodeValidation, "expression is not invokable: nil")
	}
	defer func() {
		if r := recover(); r != nil {
			err = dErrors.Newf(dErrors.CodeValidation, "expression probe failed: %v", r)
		}
	}()
	_ = expr()
	return nil
}

// Projection verifies a projection closure with one probe against the
// all-bits-set sentinel.
func Projection(proj kernel.Projection) (err error) {
	if proj == nil {
		return dErrors.New(dErrors.CodeValidation, "projection is not invokable: nil")
	}
	defer func() {
		if r := recover(); r != nil {
			err = dErrors.Newf(dErrors.CodeValidation, "projection probe failed: %v", r)
		}
	}()
	_ = proj(probeSentinel)
	return nil
}

// Immutable checks, structurally and best-effort, that a transfer record
// cannot be mutated through its public surface: it must be a struct (or
// pointer to one) whose exported fields are all value kinds. Reference-kind
// exported fields (map, slice, pointer, chan, func) give callers a handle to
// shared state and fail the check.
func Immutable(v any) error {
	if v == nil {
		return dErrors.New(dErrors.CodeValidation, "immutability check: nil value")
	}
	t := reflect.TypeOf(v)
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return dErrors.Newf(dErrors.CodeValidation, "immutability check: %s is not a struct", t.Kind())
	}
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if !f.IsExported() {
			continue
		}
		switch f.Type.Kind() {
		case reflect.Map, reflect.Slice, reflect.Pointer, reflect.Chan, reflect.Func, reflect.Interface:
			return dErrors.Newf(dErrors.CodeValidation,
				"immutability check: field %s.%s has mutable kind %s", t.Name(), f.Name, f.Type.Kind())
		}
	}
	return nil
}

// dynamicIndicators are substrings that suggest a volatile fact was baked
// into a constant. The check is a lint-time heuristic, not a safety
// boundary: it inspects declarative spec literals, not closure internals.
var dynamicIndicators = []string{"age", "timestamp", "position", "state"}

// NoDynamicLiterals scans the string literals of a declarative parameter map
// for dynamic-fact indicator words, descending one level into nested maps.
// Best effort only.
func NoDynamicLiterals(params map[string]any) error {
	for key, raw := range params {
		switch v := raw.(type) {
		case string:
			if err := checkDynamicLiteral(key, v); err != nil {
				return err
			}
		case map[string]any:
			for nested, nestedRaw := range v {
				s, ok := nestedRaw.(string)
				if !ok {
					continue
				}
				if err := checkDynamicLiteral(key+"."+nested, s); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

func checkDynamicLiteral(key, literal string) error {
	lower := strings.ToLower(literal)
	for _, word := range dynamicIndicators {
		if strings.Contains(lower, word) {
			return dErrors.Newf(dErrors.CodeValidation,
				"param %q contains dynamic indicator %q: derive it, do not hardcode it", key, word)
		}
	}
	return nil
}

// BatchSize enforces the no-brute-force law on item counts.
func BatchSize(operation string, n int) error {
	if n < 0 {
		return dErrors.Newf(dErrors.CodeValidation, "%s: negative item count %d", operation, n)
	}
	if n > MaxBatchSize {
		return dErrors.Newf(dErrors.CodeValidation,
			"%s: %d items exceeds brute-force threshold %d", operation, n, MaxBatchSize)
	}
	return nil
}
