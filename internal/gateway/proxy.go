package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"net/http/httputil"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/salesdesk/sales-management/internal/api/metrics"
)

// privateHeaderPrefix marks headers that never leave the gateway.
const privateHeaderPrefix = "X-Gateway-"

// Proxy forwards requests to the target of a matched route. One
// httputil.ReverseProxy is built per route and reused.
type Proxy struct {
	timeout time.Duration
	proxies map[string]*httputil.ReverseProxy
}

// NewProxy prepares a reverse proxy for every route of table. transport may
// be nil to use http.DefaultTransport.
func NewProxy(table *RouteTable, timeout time.Duration, transport http.RoundTripper, log zerolog.Logger) *Proxy {
	p := &Proxy{timeout: timeout, proxies: make(map[string]*httputil.ReverseProxy)}
	for _, r := range table.Routes() {
		p.proxies[r.Prefix] = newReverseProxy(r, transport, log)
	}
	return p
}

// ServeHTTP forwards req along route. Method, path, query string and body are
// passed through unchanged; the body is streamed.
func (p *Proxy) ServeHTTP(w http.ResponseWriter, req *http.Request, route Route) {
	rp, ok := p.proxies[route.Prefix]
	if !ok {
		writeJSONError(w, http.StatusNotFound, "Route not found")
		return
	}
	if p.timeout > 0 {
		ctx, cancel := context.WithTimeout(req.Context(), p.timeout)
		defer cancel()
		req = req.WithContext(ctx)
	}
	rp.ServeHTTP(w, req)
}

func newReverseProxy(route Route, transport http.RoundTripper, log zerolog.Logger) *httputil.ReverseProxy {
	return &httputil.ReverseProxy{
		Rewrite: func(pr *httputil.ProxyRequest) {
			pr.SetURL(route.Target)
			pr.SetXForwarded()
			for name := range pr.Out.Header {
				if strings.HasPrefix(http.CanonicalHeaderKey(name), privateHeaderPrefix) {
					pr.Out.Header.Del(name)
				}
			}
		},
		Transport: transport,
		ModifyResponse: func(resp *http.Response) error {
			metrics.ProxyRequestsTotal.WithLabelValues(route.Prefix, strconv.Itoa(resp.StatusCode)).Inc()
			return nil
		},
		ErrorHandler: func(w http.ResponseWriter, req *http.Request, err error) {
			code, reason, msg := http.StatusBadGateway, "unavailable", "Service unavailable"
			if isTimeout(err) {
				code, reason, msg = http.StatusGatewayTimeout, "timeout", "Gateway timeout"
			}
			metrics.ProxyErrorsTotal.WithLabelValues(route.Prefix, reason).Inc()
			metrics.ProxyRequestsTotal.WithLabelValues(route.Prefix, strconv.Itoa(code)).Inc()

			log.Warn().
				Err(err).
				Str("service", route.Name).
				Str("method", req.Method).
				Str("path", req.URL.Path).
				Int("status", code).
				Msg("proxy failure")

			writeJSONError(w, code, msg)
		},
	}
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}

func writeJSONError(w http.ResponseWriter, code int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
