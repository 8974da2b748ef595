package http

import (
	"strings"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	// Registers the generated OpenAPI document served under /api-docs.
	_ "github.com/salesdesk/sales-management/docs"
	"github.com/salesdesk/sales-management/internal/infrastructure/http/handlers"
)

// Options configures the Echo instance shared by every binary.
type Options struct {
	// Service names the binary in logs and prefixes its HTTP metrics.
	Service      string
	Logger       zerolog.Logger
	Validator    echo.Validator
	ErrorHandler echo.HTTPErrorHandler
	// Registerer and Gatherer enable per-route HTTP metrics and GET /metrics.
	// Both nil disables them.
	Registerer prometheus.Registerer
	Gatherer   prometheus.Gatherer
}

// NewRouter builds the Echo instance with global middleware, metrics and the
// API documentation registered. Callers add health and domain routes.
func NewRouter(opts Options) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	if opts.Validator != nil {
		e.Validator = opts.Validator
	}
	if opts.ErrorHandler != nil {
		e.HTTPErrorHandler = opts.ErrorHandler
	}

	// --- Global middleware ---
	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(requestLogger(opts.Logger))

	if opts.Registerer != nil && opts.Gatherer != nil {
		e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
			Subsystem:                 strings.ReplaceAll(opts.Service, "-", "_"),
			Registerer:                opts.Registerer,
			DoNotUseRequestPathFor404: true,
			Skipper: func(c echo.Context) bool {
				return c.Path() == "/metrics"
			},
		}))
		e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{Gatherer: opts.Gatherer}))
	}

	e.GET("/api-docs/*", echoSwagger.WrapHandler)

	return e
}

// RegisterHealthRoutes mounts GET /health (liveness) and GET /health/ready
// (readiness over checks). The liveness handler is returned so callers can
// expose it under their own prefix as well.
func RegisterHealthRoutes(e *echo.Echo, service, database string, checks ...handlers.Check) *handlers.HealthHandler {
	healthHandler := handlers.NewHealthHandler(service, database)
	healthDepsHandler := handlers.NewHealthDependenciesHandler(checks...)

	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness – are dependencies up?

	return healthHandler
}

// requestLogger writes one zerolog event per request.
func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogRemoteIP:  true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			event := log.Info()
			if v.Error != nil || v.Status >= 500 {
				event = log.Error().Err(v.Error)
			}
			event.
				Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("request_id", v.RequestID).
				Str("remote_ip", v.RemoteIP).
				Msg("request")
			return nil
		},
	})
}
