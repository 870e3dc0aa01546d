package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RequestDuration tracks HTTP handler latency per route.
	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "gifted_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5},
		},
		[]string{"route", "status"},
	)

	// ClaimAttempts counts claim outcomes: accepted, pending, denied, error.
	ClaimAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gifted_claim_attempts_total",
			Help: "Offer claim attempts by outcome",
		},
		[]string{"outcome"},
	)

	// StateTransitions counts applied lifecycle transitions per entity.
	StateTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gifted_state_transitions_total",
			Help: "Applied lifecycle transitions by entity and target status",
		},
		[]string{"entity", "to"},
	)
)

// RecordRequestDuration records one HTTP request observation.
func RecordRequestDuration(route, status string, seconds float64) {
	RequestDuration.WithLabelValues(route, status).Observe(seconds)
}

// RecordClaimAttempt counts one claim attempt outcome.
func RecordClaimAttempt(outcome string) {
	ClaimAttempts.WithLabelValues(outcome).Inc()
}

// RecordStateTransition counts one applied transition.
func RecordStateTransition(entity, to string) {
	StateTransitions.WithLabelValues(entity, to).Inc()
}
