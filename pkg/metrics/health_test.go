package metrics

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHealthReport(t *testing.T) {
	tests := []struct {
		name       string
		set        map[string]bool
		wantStatus string
	}{
		{name: "all healthy", set: map[string]bool{"api": true, "storage": true, "session": true}, wantStatus: StatusHealthy},
		{name: "optional component down", set: map[string]bool{"api": true, "storage": true, "session": false}, wantStatus: StatusDegraded},
		{name: "critical component down", set: map[string]bool{"api": false, "storage": true, "session": true}, wantStatus: StatusUnhealthy},
		{name: "critical component missing", set: map[string]bool{"api": true}, wantStatus: StatusUnhealthy},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewHealthChecker("1.0.0", "api", "storage")
			for name, ok := range tt.set {
				h.Set(name, ok, "down")
			}

			report := h.Report()
			assert.Equal(t, tt.wantStatus, report.Status)
			assert.Equal(t, "1.0.0", report.Version)
			assert.False(t, report.Timestamp.IsZero())
		})
	}
}

func TestHealthComponentMessages(t *testing.T) {
	h := NewHealthChecker("dev", "storage")
	h.Set("api", false, "connection refused")

	report := h.Report()
	assert.Equal(t, "unhealthy: connection refused", report.Components["api"])
	assert.Equal(t, "not checked", report.Components["storage"])

	h.Set("api", true, "")
	comp, ok := h.Component("api")
	require.True(t, ok)
	assert.True(t, comp.Healthy)
	assert.Equal(t, StatusHealthy, h.Report().Components["api"])
}

func TestHealthHandler(t *testing.T) {
	h := NewHealthChecker("dev", "api")

	rec := httptest.NewRecorder()
	HealthHandler(h)(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	h.Set("api", true, "")
	rec = httptest.NewRecorder()
	HealthHandler(h)(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var report HealthReport
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&report))
	assert.Equal(t, StatusHealthy, report.Status)
}
