package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"sanctum/internal/platform/token"
)

// TokenValidator verifies a bearer token and returns its claims.
type TokenValidator interface {
	Validate(tokenString string) (*token.Claims, error)
}

type callerKey struct{}
type surfaceKey struct{}

// Exported context keys for tests.
var (
	ContextKeyCaller  = callerKey{}
	ContextKeySurface = surfaceKey{}
)

// GetCaller retrieves the authenticated caller subject from the context.
func GetCaller(ctx context.Context) string {
	if v, ok := ctx.Value(ContextKeyCaller).(string); ok {
		return v
	}
	return ""
}

// GetSurface retrieves the surface the caller's token was minted for.
func GetSurface(ctx context.Context) string {
	if v, ok := ctx.Value(ContextKeySurface).(string); ok {
		return v
	}
	return ""
}

// RequireAuth gates a route on a valid bearer token.
func RequireAuth(validator TokenValidator, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			raw, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
			if !ok {
				logger.WarnContext(ctx, "unauthorized access, missing token",
					"event", "auth_missing_token",
					"request_id", GetRequestID(ctx),
				)
				writeUnauthorized(w, "Missing or invalid Authorization header")
				return
			}

			claims, err := validator.Validate(raw)
			if err != nil {
				logger.WarnContext(ctx, "unauthorized access, invalid token",
					"event", "auth_invalid_token",
					"request_id", GetRequestID(ctx),
					"error", err,
				)
				writeUnauthorized(w, "Invalid or expired token")
				return
			}

			ctx = context.WithValue(ctx, ContextKeyCaller, claims.Subject)
			ctx = context.WithValue(ctx, ContextKeySurface, claims.Surface)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireSurface gates a route on the surface the caller's token was minted
// for. Mount after RequireAuth.
func RequireSurface(surface string, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			if got := GetSurface(ctx); got != surface {
				logger.WarnContext(ctx, "token minted for another surface",
					"event", "auth_wrong_surface",
					"request_id", GetRequestID(ctx),
					"want", surface,
					"got", got,
				)
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusForbidden)
				_, _ = w.Write([]byte(`{"error":"forbidden","error_description":"Token not valid for this surface"}`))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func writeUnauthorized(w http.ResponseWriter, description string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_, _ = w.Write([]byte(`{"error":"unauthorized","error_description":"` + description + `"}`))
}
