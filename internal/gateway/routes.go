// Package gateway implements the API gateway: a path-prefix reverse proxy with
// bearer-token checks and an aggregate health probe over the domain services.
package gateway

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/salesdesk/sales-management/internal/infrastructure/config"
)

// Route maps a path prefix to a downstream service.
type Route struct {
	// Name identifies the downstream service in logs and metrics.
	Name   string
	Prefix string
	Target *url.URL
	// Public routes are forwarded without a bearer token.
	Public bool
}

// matches reports whether path equals the prefix or continues it with "/".
func (r Route) matches(path string) bool {
	if !strings.HasPrefix(path, r.Prefix) {
		return false
	}
	return len(path) == len(r.Prefix) || path[len(r.Prefix)] == '/'
}

// RouteTable is an ordered, immutable list of routes. The first match wins.
type RouteTable struct {
	routes []Route
}

func NewRouteTable(routes ...Route) *RouteTable {
	return &RouteTable{routes: append([]Route(nil), routes...)}
}

// Match returns the first route whose prefix matches path.
func (t *RouteTable) Match(path string) (Route, bool) {
	for _, r := range t.routes {
		if r.matches(path) {
			return r, true
		}
	}
	return Route{}, false
}

// Routes returns a copy of the table in match order.
func (t *RouteTable) Routes() []Route {
	return append([]Route(nil), t.routes...)
}

// Service is one downstream domain service.
type Service struct {
	Name       string
	Prefix     string
	Target     *url.URL
	HealthPath string
}

// Services resolves the downstream services from configuration.
func Services(cfg config.GatewayConfig) ([]Service, error) {
	specs := []struct {
		name, prefix, rawURL string
	}{
		{"user-service", "/api/users", cfg.UserServiceURL},
		{"customer-service", "/api/customers", cfg.CustomerServiceURL},
		{"sales-service", "/api/sales", cfg.SalesServiceURL},
	}

	services := make([]Service, 0, len(specs))
	for _, s := range specs {
		target, err := url.Parse(s.rawURL)
		if err != nil {
			return nil, fmt.Errorf("%s url: %w", s.name, err)
		}
		if target.Scheme == "" || target.Host == "" {
			return nil, fmt.Errorf("%s url %q: scheme and host required", s.name, s.rawURL)
		}
		services = append(services, Service{
			Name:       s.name,
			Prefix:     s.prefix,
			Target:     target,
			HealthPath: s.prefix + "/health",
		})
	}
	return services, nil
}

// BuildRouteTable puts the public paths first, each bound to the service whose
// prefix contains it, followed by one protected route per service.
func BuildRouteTable(services []Service, publicPaths []string) (*RouteTable, error) {
	routes := make([]Route, 0, len(publicPaths)+len(services))

	for _, p := range publicPaths {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		owner, ok := ownerOf(services, p)
		if !ok {
			return nil, fmt.Errorf("public path %q does not belong to any service", p)
		}
		routes = append(routes, Route{Name: owner.Name, Prefix: p, Target: owner.Target, Public: true})
	}

	for _, s := range services {
		routes = append(routes, Route{Name: s.Name, Prefix: s.Prefix, Target: s.Target})
	}
	return NewRouteTable(routes...), nil
}

func ownerOf(services []Service, path string) (Service, bool) {
	for _, s := range services {
		if (Route{Prefix: s.Prefix}).matches(path) {
			return s, true
		}
	}
	return Service{}, false
}
