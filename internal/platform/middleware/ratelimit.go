package middleware

import (
	"net/http"

	"sanctum/internal/ratelimit"
)

// RateLimit applies the sliding-window limiter per caller. The caller key is
// the authenticated subject when present, otherwise the remote address, so
// unauthenticated probes share one bucket per host.
func RateLimit(limiter *ratelimit.Limiter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := GetCaller(r.Context())
			if key == "" {
				key = r.RemoteAddr
			}
			res := limiter.Check(r.Context(), key)
			rateLimitHeaders(w, res.Limit, res.Remaining)
			if !res.Allowed {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusTooManyRequests)
				_, _ = w.Write([]byte(`{"error":"rate_limited"}`))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
