// Package metrics registers the prometheus collectors for the computation
// core and implements the observation interfaces the services accept.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all collectors for the process.
type Metrics struct {
	Invocations        prometheus.Counter
	BatchSizes         prometheus.Histogram
	Promotions         prometheus.Counter
	ValidationFailures prometheus.Counter
	FabricationChecks  *prometheus.CounterVec
	SanctumViolations  prometheus.Counter
	RateLimitDecisions *prometheus.CounterVec
}

// New creates and registers all collectors on the default registry.
func New() *Metrics {
	return &Metrics{
		Invocations: promauto.NewCounter(prometheus.CounterOpts{
			Name: "sanctum_invocations_total",
			Help: "Total lens invocations executed through the gateway",
		}),
		BatchSizes: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "sanctum_batch_size",
			Help:    "Sizes of batch invocations",
			Buckets: []float64{1, 5, 10, 50, 100, 500, 1000},
		}),
		Promotions: promauto.NewCounter(prometheus.CounterOpts{
			Name: "sanctum_promotions_total",
			Help: "Total identity promotions",
		}),
		ValidationFailures: promauto.NewCounter(prometheus.CounterOpts{
			Name: "sanctum_validation_failures_total",
			Help: "Total requests rejected by the validator laws",
		}),
		FabricationChecks: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "sanctum_fabrication_checks_total",
			Help: "Claim verifications by outcome",
		}, []string{"result"}),
		SanctumViolations: promauto.NewCounter(prometheus.CounterOpts{
			Name: "sanctum_boundary_violations_total",
			Help: "Disallowed cross-layer import edges detected",
		}),
		RateLimitDecisions: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "sanctum_ratelimit_decisions_total",
			Help: "Rate limiter decisions by outcome",
		}, []string{"outcome"}),
	}
}

// ObserveInvocation implements the invocator metrics interface.
func (m *Metrics) ObserveInvocation() {
	m.Invocations.Inc()
}

// ObserveBatch implements the invocator metrics interface.
func (m *Metrics) ObserveBatch(size int) {
	m.BatchSizes.Observe(float64(size))
}

// ObserveRateLimit implements the limiter metrics interface.
func (m *Metrics) ObserveRateLimit(allowed bool) {
	outcome := "allowed"
	if !allowed {
		outcome = "denied"
	}
	m.RateLimitDecisions.WithLabelValues(outcome).Inc()
}

// ObserveFabricationCheck records one claim verification outcome.
func (m *Metrics) ObserveFabricationCheck(valid bool) {
	result := "valid"
	if !valid {
		result = "fabricated"
	}
	m.FabricationChecks.WithLabelValues(result).Inc()
}
