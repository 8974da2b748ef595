package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
)

func TestLiveness(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	h := NewHealthHandler("user-service", "postgres")
	h.started = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	h.now = func() time.Time { return h.started.Add(90 * time.Second) }

	if err := h.Liveness(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if body["status"] != "ok" || body["service"] != "user-service" || body["database"] != "postgres" {
		t.Fatalf("unexpected body: %+v", body)
	}
	if body["uptime"] != float64(90) {
		t.Fatalf("expected uptime 90, got %v", body["uptime"])
	}
}

func TestReadiness(t *testing.T) {
	ok := Check{Name: "mongodb", Ping: func(context.Context) error { return nil }}
	down := Check{Name: "redis", Ping: func(context.Context) error { return errors.New("connection refused") }}

	cases := []struct {
		name       string
		checks     []Check
		wantCode   int
		wantStatus string
	}{
		{"all up", []Check{ok}, http.StatusOK, "ok"},
		{"one down", []Check{ok, down}, http.StatusServiceUnavailable, "degraded"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			e := echo.New()
			req := httptest.NewRequest(http.MethodGet, "/health/ready", nil)
			rec := httptest.NewRecorder()
			c := e.NewContext(req, rec)

			if err := NewHealthDependenciesHandler(tc.checks...).Readiness(c); err != nil {
				t.Fatalf("handler error: %v", err)
			}
			if rec.Code != tc.wantCode {
				t.Fatalf("expected %d, got %d", tc.wantCode, rec.Code)
			}

			var body readinessResponse
			if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
				t.Fatalf("invalid json: %v", err)
			}
			if body.Status != tc.wantStatus {
				t.Fatalf("expected status %s, got %s", tc.wantStatus, body.Status)
			}
			if len(body.Dependencies) != len(tc.checks) {
				t.Fatalf("expected %d dependencies, got %d", len(tc.checks), len(body.Dependencies))
			}
			if d, found := body.Dependencies["redis"]; found && d.Error != "connection refused" {
				t.Fatalf("expected redis error to be reported, got %+v", d)
			}
		})
	}
}
