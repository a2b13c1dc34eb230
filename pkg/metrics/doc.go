/*
Package metrics provides Prometheus instrumentation and component health
for the brigada client.

Collectors are package-level and registered with the default registry at
init, so any package can record into them without wiring:

	brigada_store_requests_total{store,operation,outcome}
	brigada_store_request_duration_seconds{store,operation}
	brigada_store_stale_responses_total{store}
	brigada_session_transitions_total{transition}
	brigada_navigation_decisions_total{decision}
	brigada_watch_cycle_duration_seconds

Stale responses are reconciliations dropped because a newer request on
the same store had already been applied (a newer fetch, or a newer change
to the same entity); a steadily rising count means callers are racing
fetches against writes.

# Timing

	timer := metrics.NewTimer()
	// ... request ...
	timer.ObserveDurationVec(metrics.StoreRequestDuration, "activities", "fetch")

# Health

HealthChecker aggregates the state of the client's dependencies (API
reachability, session storage, session validity). Critical components
make the report unhealthy; the rest only degrade it.

	h := metrics.NewHealthChecker(version, "api", "storage")
	h.Set("api", false, "connection refused")
	h.Report().Status // "unhealthy"

Handler and HealthHandler expose both over HTTP for long-running modes
such as `brigada watch`.
*/
package metrics
