package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Outcome labels for StoreRequestsTotal
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
)

var (
	// Store metrics
	StoreRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "brigada_store_requests_total",
			Help: "Total number of entity store requests by store, operation and outcome",
		},
		[]string{"store", "operation", "outcome"},
	)

	StoreRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "brigada_store_request_duration_seconds",
			Help:    "Entity store request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"store", "operation"},
	)

	StaleResponsesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "brigada_store_stale_responses_total",
			Help: "Responses whose reconciliation was dropped because a newer request had already been applied",
		},
		[]string{"store"},
	)

	// Session metrics
	SessionTransitionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "brigada_session_transitions_total",
			Help: "Session lifecycle transitions by kind",
		},
		[]string{"transition"},
	)

	WatchCycleDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "brigada_watch_cycle_duration_seconds",
			Help:    "Duration of one watch refresh cycle in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	// Navigation metrics
	NavigationDecisionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "brigada_navigation_decisions_total",
			Help: "Navigation guard decisions by outcome",
		},
		[]string{"decision"},
	)
)

func init() {
	prometheus.MustRegister(StoreRequestsTotal)
	prometheus.MustRegister(StoreRequestDuration)
	prometheus.MustRegister(StaleResponsesTotal)
	prometheus.MustRegister(SessionTransitionsTotal)
	prometheus.MustRegister(NavigationDecisionsTotal)
	prometheus.MustRegister(WatchCycleDuration)
}

// Handler returns the Prometheus HTTP handler
func Handler() http.Handler {
	return promhttp.Handler()
}
