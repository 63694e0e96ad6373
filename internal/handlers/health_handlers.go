package handlers

import (
	"context"
	"net/http"
	"runtime"
	"time"

	"github.com/labstack/echo/v4"
)

// Pinger is any dependency that can report its own reachability.
type Pinger interface {
	Ping(ctx context.Context) error
}

// PingFunc adapts a plain function to Pinger.
type PingFunc func(ctx context.Context) error

func (f PingFunc) Ping(ctx context.Context) error { return f(ctx) }

// HealthHandlers handles health check endpoints
type HealthHandlers struct {
	checks   map[string]Pinger
	critical []string
	version  string
	started  time.Time
}

// NewHealthHandlers builds the health endpoints. The database check is critical for
// readiness; the rest only degrade the status.
func NewHealthHandlers(database, cache, storage Pinger, version string) *HealthHandlers {
	return &HealthHandlers{
		checks: map[string]Pinger{
			"database": database,
			"redis":    cache,
			"storage":  storage,
		},
		critical: []string{"database"},
		version:  version,
		started:  time.Now(),
	}
}

// HealthStatus represents the overall health status
type HealthStatus struct {
	Status     string            `json:"status"`
	Timestamp  string            `json:"timestamp"`
	Services   map[string]string `json:"services"`
	Uptime     string            `json:"uptime"`
	Version    string            `json:"version"`
	Goroutines int               `json:"goroutines"`
}

func (h *HealthHandlers) run(ctx context.Context) map[string]error {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	results := make(map[string]error, len(h.checks))
	for name, check := range h.checks {
		if check == nil {
			continue
		}
		results[name] = check.Ping(ctx)
	}
	return results
}

// HealthCheck handles GET /health
func (h *HealthHandlers) HealthCheck(c echo.Context) error {
	health := &HealthStatus{
		Status:     "healthy",
		Timestamp:  time.Now().UTC().Format(time.RFC3339),
		Services:   make(map[string]string),
		Uptime:     time.Since(h.started).Round(time.Second).String(),
		Version:    h.version,
		Goroutines: runtime.NumGoroutine(),
	}

	for name, err := range h.run(c.Request().Context()) {
		if err != nil {
			health.Services[name] = "unhealthy"
			health.Status = "degraded"
			continue
		}
		health.Services[name] = "healthy"
	}

	statusCode := http.StatusOK
	if health.Status == "degraded" {
		statusCode = http.StatusServiceUnavailable
	}
	return c.JSON(statusCode, health)
}

// ReadinessCheck determines if the application is ready to serve traffic
func (h *HealthHandlers) ReadinessCheck(c echo.Context) error {
	results := h.run(c.Request().Context())
	for _, name := range h.critical {
		if err := results[name]; err != nil {
			return c.JSON(http.StatusServiceUnavailable, map[string]string{
				"status":  "not_ready",
				"message": name + " unavailable",
			})
		}
	}
	return c.JSON(http.StatusOK, map[string]string{"status": "ready"})
}

// LivenessCheck is the basic liveness probe
func (h *HealthHandlers) LivenessCheck(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status":    "alive",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}
