package metrics

import (
	"encoding/json"
	"net/http"
	"slices"
	"sync"
	"time"
)

// Health states
const (
	StatusHealthy   = "healthy"
	StatusDegraded  = "degraded"
	StatusUnhealthy = "unhealthy"
)

// HealthReport summarizes the health of the client's components
type HealthReport struct {
	Status     string            `json:"status" yaml:"status"`
	Timestamp  time.Time         `json:"timestamp" yaml:"timestamp"`
	Components map[string]string `json:"components,omitempty" yaml:"components,omitempty"`
	Version    string            `json:"version,omitempty" yaml:"version,omitempty"`
}

// ComponentHealth is the last reported state of one component
type ComponentHealth struct {
	Name    string
	Healthy bool
	Message string
	Updated time.Time
}

// HealthChecker collects component states. Components listed as critical
// make the report unhealthy when they fail; others only degrade it.
type HealthChecker struct {
	mu         sync.RWMutex
	components map[string]ComponentHealth
	critical   []string
	version    string
}

// NewHealthChecker creates a checker with the given critical components
func NewHealthChecker(version string, critical ...string) *HealthChecker {
	return &HealthChecker{
		components: make(map[string]ComponentHealth),
		critical:   critical,
		version:    version,
	}
}

// Set records the state of a component
func (h *HealthChecker) Set(name string, healthy bool, message string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.components[name] = ComponentHealth{
		Name:    name,
		Healthy: healthy,
		Message: message,
		Updated: time.Now(),
	}
}

// Component returns the last state of a component
func (h *HealthChecker) Component(name string) (ComponentHealth, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	c, ok := h.components[name]
	return c, ok
}

// Report returns the overall state. A critical component that was never
// reported counts as failed.
func (h *HealthChecker) Report() HealthReport {
	h.mu.RLock()
	defer h.mu.RUnlock()

	status := StatusHealthy
	components := make(map[string]string, len(h.components))

	for name, comp := range h.components {
		if comp.Healthy {
			components[name] = StatusHealthy
			continue
		}
		components[name] = StatusUnhealthy + ": " + comp.Message
		if slices.Contains(h.critical, name) {
			status = StatusUnhealthy
		} else if status == StatusHealthy {
			status = StatusDegraded
		}
	}

	for _, name := range h.critical {
		if _, ok := h.components[name]; !ok {
			components[name] = "not checked"
			status = StatusUnhealthy
		}
	}

	return HealthReport{
		Status:     status,
		Timestamp:  time.Now(),
		Components: components,
		Version:    h.version,
	}
}

// HealthHandler serves the checker's report as JSON, with 503 when
// unhealthy
func HealthHandler(h *HealthChecker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		report := h.Report()

		w.Header().Set("Content-Type", "application/json")
		statusCode := http.StatusOK
		if report.Status == StatusUnhealthy {
			statusCode = http.StatusServiceUnavailable
		}
		w.WriteHeader(statusCode)

		_ = json.NewEncoder(w).Encode(report)
	}
}
