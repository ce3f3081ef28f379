// Package domainerrors provides code-tagged errors shared by every layer.
// Handlers translate codes to HTTP statuses; services attach codes at the
// point where an invariant is known to be violated.
package domainerrors

import (
	"errors"
	"fmt"
	"net/http"
)

// Code classifies a domain error. Codes are stable API: tests and transport
// mapping depend on them.
type Code string

const (
	// CodeTranslation marks malformed or over-width external input that could
	// not be turned into a bounded primitive.
	CodeTranslation Code = "translation_error"
	// CodeValidation marks any law violation: width, callability, return
	// type, brute-force threshold, structural immutability.
	CodeValidation Code = "validation_error"
	// CodeFabrication marks a claimed value that diverges from the derived
	// truth, or a type mismatch between claim and derivation.
	CodeFabrication Code = "fabrication_error"
	// CodeSanctum marks a disallowed cross-layer import edge.
	CodeSanctum Code = "sanctum_violation"

	CodeBadRequest         Code = "bad_request"
	CodeUnauthorized       Code = "unauthorized"
	CodeForbidden          Code = "forbidden"
	CodeNotFound           Code = "not_found"
	CodeConflict           Code = "conflict"
	CodeInvariantViolation Code = "invariant_violation"
	CodeInternal           Code = "internal"
)

// Error is the concrete error carried across layers.
type Error struct {
	Code    Code
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

// New creates an error with a code and message.
func New(code Code, message string) error {
	return &Error{Code: code, Message: message}
}

// Newf creates an error with a code and formatted message.
func Newf(code Code, format string, args ...any) error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap annotates err with a code and message while preserving the chain.
func Wrap(err error, code Code, message string) error {
	if err == nil {
		return nil
	}
	return &Error{Code: code, Message: message, Err: err}
}

// Wrapf annotates err with a code and formatted message.
func Wrapf(err error, code Code, format string, args ...any) error {
	if err == nil {
		return nil
	}
	return &Error{Code: code, Message: fmt.Sprintf(format, args...), Err: err}
}

// Is reports whether err carries the given code anywhere in its chain.
func Is(err error, code Code) bool {
	var de *Error
	for errors.As(err, &de) {
		if de.Code == code {
			return true
		}
		err = de.Err
		if err == nil {
			return false
		}
	}
	return false
}

// HasCode is an alias for Is kept for call-site readability.
func HasCode(err error, code Code) bool { return Is(err, code) }

// CodeOf returns the outermost code on err, or CodeInternal when untagged.
func CodeOf(err error) Code {
	var de *Error
	if errors.As(err, &de) {
		return de.Code
	}
	return CodeInternal
}

// ToHTTPStatus maps a code to the HTTP status handlers should return.
func ToHTTPStatus(code Code) int {
	switch code {
	case CodeTranslation, CodeValidation, CodeBadRequest, CodeInvariantViolation:
		return http.StatusBadRequest
	case CodeUnauthorized:
		return http.StatusUnauthorized
	case CodeForbidden, CodeSanctum:
		return http.StatusForbidden
	case CodeNotFound:
		return http.StatusNotFound
	case CodeConflict:
		return http.StatusConflict
	case CodeFabrication:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}
