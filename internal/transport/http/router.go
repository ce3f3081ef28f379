package httptransport

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"sanctum/internal/platform/middleware"
	"sanctum/internal/ratelimit"
)

// Deps are the wired dependencies the router mounts.
type Deps struct {
	Human     *HumanHandler
	Machine   *MachineHandler
	AI        *AIHandler
	Audit     *AuditHandler
	Validator middleware.TokenValidator
	AILimiter *ratelimit.Limiter
	Logger    *slog.Logger
}

// NewRouter wires all endpoints behind the shared middleware chain. The AI
// surface additionally sits behind auth and the sliding-window limiter.
func NewRouter(d Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recovery(d.Logger))
	r.Use(middleware.Logger(d.Logger))
	r.Use(middleware.Timeout(30 * time.Second))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Group(func(r chi.Router) {
		r.Use(middleware.ContentTypeJSON)
		d.Human.Register(r)
		d.Machine.Register(r)
		d.Audit.Register(r)
	})

	r.Group(func(r chi.Router) {
		r.Use(middleware.ContentTypeJSON)
		r.Use(middleware.RequireAuth(d.Validator, d.Logger))
		r.Use(middleware.RequireSurface("ai", d.Logger))
		r.Use(middleware.RateLimit(d.AILimiter))
		d.AI.Register(r)
	})

	return r
}
