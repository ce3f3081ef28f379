package testutil

import (
	"context"
	"net/http"

	"sanctum/internal/platform/middleware"
)

// WithCaller adds an authenticated caller subject to the request context,
// simulating what the auth middleware does for authenticated requests.
func WithCaller(req *http.Request, caller string) *http.Request {
	ctx := context.WithValue(req.Context(), middleware.ContextKeyCaller, caller)
	return req.WithContext(ctx)
}

// WithSurface marks the request context with the surface the caller's token
// was minted for.
func WithSurface(req *http.Request, surface string) *http.Request {
	ctx := context.WithValue(req.Context(), middleware.ContextKeySurface, surface)
	return req.WithContext(ctx)
}

// WithContextValue adds an arbitrary key-value pair to the request context.
func WithContextValue(req *http.Request, key, value any) *http.Request {
	ctx := context.WithValue(req.Context(), key, value)
	return req.WithContext(ctx)
}
