// Package http serves the operational endpoints next to the console:
// Prometheus metrics and a health check over the database and its breaker.
package http

import (
	"context"
	"database/sql"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sony/gobreaker"
)

// HealthResponse represents the JSON response for the health endpoint.
type HealthResponse struct {
	Status    string                 `json:"status"`    // "healthy" or "unhealthy"
	Timestamp string                 `json:"timestamp"` // ISO 8601 format
	Checks    map[string]CheckStatus `json:"checks"`
}

// CheckStatus represents the status of a single health check.
type CheckStatus struct {
	Status  string         `json:"status"` // "healthy", "degraded" or "unhealthy"
	Message string         `json:"message,omitempty"`
	Details map[string]any `json:"details,omitempty"`
}

// BreakerState reports the state of the database circuit breaker.
type BreakerState interface {
	State() gobreaker.State
}

// HealthHandler checks database connectivity and the breaker state.
type HealthHandler struct {
	DB      *sql.DB
	Breaker BreakerState
}

// NewMux returns the operational mux: /metrics and /health.
func NewMux(db *sql.DB, breaker BreakerState) *http.ServeMux {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.Handle("/health", &HealthHandler{DB: db, Breaker: breaker})
	return mux
}

// ServeHTTP returns 200 when every check passes or is only degraded,
// and 503 otherwise.
func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	checks := map[string]CheckStatus{
		"database": h.checkDatabase(ctx),
	}
	if h.Breaker != nil {
		checks["circuit_breaker"] = h.checkBreaker()
	}

	status, code := "healthy", http.StatusOK
	for _, c := range checks {
		if c.Status == "unhealthy" {
			status, code = "unhealthy", http.StatusServiceUnavailable
		}
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
	w.WriteHeader(code)
	resp := HealthResponse{
		Status:    status,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Checks:    checks,
	}
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		slog.Default().Error("health: failed to encode response", slog.Any("error", err))
	}
}

func (h *HealthHandler) checkDatabase(ctx context.Context) CheckStatus {
	if h.DB == nil {
		return CheckStatus{Status: "unhealthy", Message: "not configured"}
	}
	if err := h.DB.PingContext(ctx); err != nil {
		return CheckStatus{Status: "unhealthy", Message: "ping failed"}
	}

	stats := h.DB.Stats()
	details := map[string]any{
		"max_open_connections": stats.MaxOpenConnections,
		"open_connections":     stats.OpenConnections,
		"in_use":               stats.InUse,
		"idle":                 stats.Idle,
		"wait_count":           stats.WaitCount,
		"wait_duration_ms":     stats.WaitDuration.Milliseconds(),
	}
	// zero means unlimited
	if stats.MaxOpenConnections > 0 {
		utilization := float64(stats.InUse) / float64(stats.MaxOpenConnections) * 100
		details["utilization_percent"] = utilization
		if utilization >= 80.0 {
			return CheckStatus{Status: "degraded", Message: "connection pool utilization above 80%", Details: details}
		}
	}
	return CheckStatus{Status: "healthy", Details: details}
}

// checkBreaker reports an open breaker as unhealthy; half-open is degraded.
func (h *HealthHandler) checkBreaker() CheckStatus {
	state := h.Breaker.State()
	details := map[string]any{"state": state.String()}
	switch state {
	case gobreaker.StateOpen:
		return CheckStatus{Status: "unhealthy", Message: "circuit open", Details: details}
	case gobreaker.StateHalfOpen:
		return CheckStatus{Status: "degraded", Message: "circuit half-open", Details: details}
	}
	return CheckStatus{Status: "healthy", Details: details}
}
