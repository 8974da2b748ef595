package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/salesdesk/sales-management/internal/core/domain"
)

const readinessTimeout = 3 * time.Second

// HealthHandler handles GET /health, the liveness probe.
// Returns 200 immediately; confirms the process is alive.
type HealthHandler struct {
	service  string
	database string
	started  time.Time
	now      func() time.Time
}

func NewHealthHandler(service, database string) *HealthHandler {
	return &HealthHandler{service: service, database: database, started: time.Now(), now: time.Now}
}

type livenessResponse struct {
	Status    string    `json:"status"`
	Service   string    `json:"service"`
	Database  string    `json:"database,omitempty"`
	Timestamp time.Time `json:"timestamp"`
	Uptime    float64   `json:"uptime"`
}

// Liveness reports the service as up.
//
// @Summary      Liveness probe
// @Tags         health
// @Produce      json
// @Success      200  {object}  livenessResponse
// @Router       /health [get]
func (h *HealthHandler) Liveness(c echo.Context) error {
	now := h.now()
	return c.JSON(http.StatusOK, livenessResponse{
		Status:    domain.HealthOK,
		Service:   h.service,
		Database:  h.database,
		Timestamp: now.UTC(),
		Uptime:    now.Sub(h.started).Seconds(),
	})
}

// Check is one dependency verified by the readiness probe.
type Check struct {
	Name string
	Ping func(ctx context.Context) error
}

// HealthDependenciesHandler handles GET /health/ready, the readiness probe.
// Pings every dependency before declaring the service ready.
type HealthDependenciesHandler struct {
	checks []Check
}

func NewHealthDependenciesHandler(checks ...Check) *HealthDependenciesHandler {
	return &HealthDependenciesHandler{checks: checks}
}

type dependencyStatus struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

type readinessResponse struct {
	Status       string                      `json:"status"`
	Dependencies map[string]dependencyStatus `json:"dependencies"`
}

// Readiness pings each dependency in turn.
//
// @Summary      Readiness probe
// @Tags         health
// @Produce      json
// @Success      200  {object}  readinessResponse
// @Failure      503  {object}  readinessResponse
// @Router       /health/ready [get]
func (h *HealthDependenciesHandler) Readiness(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), readinessTimeout)
	defer cancel()

	deps := make(map[string]dependencyStatus, len(h.checks))
	healthy := true

	for _, check := range h.checks {
		if err := check.Ping(ctx); err != nil {
			deps[check.Name] = dependencyStatus{Status: "unhealthy", Error: err.Error()}
			healthy = false
			continue
		}
		deps[check.Name] = dependencyStatus{Status: domain.HealthOK}
	}

	status := domain.HealthOK
	httpStatus := http.StatusOK
	if !healthy {
		status = domain.HealthDegraded
		httpStatus = http.StatusServiceUnavailable
	}

	return c.JSON(httpStatus, readinessResponse{
		Status:       status,
		Dependencies: deps,
	})
}
