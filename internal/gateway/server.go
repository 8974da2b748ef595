package gateway

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/salesdesk/sales-management/internal/api"
	"github.com/salesdesk/sales-management/internal/api/metrics"
	"github.com/salesdesk/sales-management/internal/core/domain"
	"github.com/salesdesk/sales-management/internal/core/ports"
	httpinfra "github.com/salesdesk/sales-management/internal/infrastructure/http"
)

const serviceName = "api-gateway"

// Options wires the gateway.
type Options struct {
	Routes        *RouteTable
	Verifier      ports.TokenVerifier
	HealthTargets []Target
	ProxyTimeout  time.Duration
	HealthTimeout time.Duration
	// Transport is used for proxied calls; nil means http.DefaultTransport.
	Transport http.RoundTripper
	Logger    zerolog.Logger
	// Registerer and Gatherer enable HTTP metrics; nil in tests.
	Registerer prometheus.Registerer
	Gatherer   prometheus.Gatherer
}

// Gateway routes client requests to the domain services.
type Gateway struct {
	routes   *RouteTable
	verifier ports.TokenVerifier
	proxy    *Proxy
	prober   *Prober
	targets  []Target
	log      zerolog.Logger
	started  time.Time
	now      func() time.Time
}

func New(opts Options) *Gateway {
	return &Gateway{
		routes:   opts.Routes,
		verifier: opts.Verifier,
		proxy:    NewProxy(opts.Routes, opts.ProxyTimeout, opts.Transport, opts.Logger),
		prober:   NewProber(opts.HealthTimeout, opts.Logger),
		targets:  opts.HealthTargets,
		log:      opts.Logger,
		started:  time.Now(),
		now:      time.Now,
	}
}

// NewRouter builds the gateway's Echo instance. GET /health, GET /metrics and
// the API docs are served locally; every other request is proxied.
func NewRouter(opts Options) *echo.Echo {
	g := New(opts)

	e := httpinfra.NewRouter(httpinfra.Options{
		Service:      serviceName,
		Logger:       opts.Logger,
		ErrorHandler: api.NewHTTPErrorHandler(opts.Logger),
		Registerer:   opts.Registerer,
		Gatherer:     opts.Gatherer,
	})
	e.Use(middleware.CORS())

	e.GET("/health", g.Health)
	e.Any("/*", g.Forward)

	return e
}

type healthResponse struct {
	Status    string                 `json:"status"`
	Timestamp time.Time              `json:"timestamp"`
	Service   string                 `json:"service"`
	Uptime    float64                `json:"uptime"`
	Services  []domain.ServiceHealth `json:"services"`
}

// Health probes every domain service.
//
// @Summary      Aggregate health
// @Description  ok when every service answers, degraded otherwise. 500 only when the probe itself fails.
// @Tags         health
// @Produce      json
// @Success      200  {object}  healthResponse
// @Failure      500  {object}  healthResponse
// @Router       /health [get]
func (g *Gateway) Health(c echo.Context) error {
	report := g.prober.Probe(c.Request().Context(), g.targets)

	code := http.StatusOK
	if report.Status == domain.HealthError {
		code = http.StatusInternalServerError
	}

	now := g.now()
	return c.JSON(code, healthResponse{
		Status:    report.Status,
		Timestamp: now.UTC(),
		Service:   serviceName,
		Uptime:    now.Sub(g.started).Seconds(),
		Services:  report.Services,
	})
}

// Forward matches the route, checks the bearer token unless the route is
// public, and proxies the request. Unknown paths fail before authentication.
func (g *Gateway) Forward(c echo.Context) error {
	req := c.Request()

	route, ok := g.routes.Match(req.URL.Path)
	if !ok {
		metrics.ProxyErrorsTotal.WithLabelValues("none", "no_route").Inc()
		return domain.ErrNoRouteMatch
	}

	if !route.Public {
		if _, err := g.verifier.Verify(req.Header.Get(echo.HeaderAuthorization)); err != nil {
			metrics.ProxyErrorsTotal.WithLabelValues(route.Prefix, "unauthorized").Inc()
			return err
		}
	}

	if rid := c.Response().Header().Get(echo.HeaderXRequestID); rid != "" {
		req.Header.Set(echo.HeaderXRequestID, rid)
	}
	g.proxy.ServeHTTP(c.Response(), req, route)
	return nil
}
