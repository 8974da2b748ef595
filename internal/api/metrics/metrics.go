// Package metrics defines and registers the custom Prometheus metrics of the
// sales-management services. It is the single source of truth for metric
// names, labels, and help strings.
//
// Metrics are registered with the default Prometheus registry on package
// initialisation; per-route HTTP metrics come from echoprometheus.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// ── Gateway metrics ───────────────────────────────────────────────────────────

// ProxyRequestsTotal counts requests forwarded by the gateway.
// Labels:
//   - route: the matched route prefix (e.g. "/api/sales")
//   - code: the HTTP status returned to the client
var ProxyRequestsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: "gateway",
		Name:      "proxy_requests_total",
		Help:      "Total number of requests forwarded to downstream services.",
	},
	[]string{"route", "code"},
)

// ProxyErrorsTotal counts forwarding failures.
// Labels:
//   - route: the matched route prefix, or "none" when nothing matched
//   - reason: "no_route", "unauthorized", "timeout" or "unavailable"
var ProxyErrorsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: "gateway",
		Name:      "proxy_errors_total",
		Help:      "Total number of requests the gateway could not forward.",
	},
	[]string{"route", "reason"},
)

// HealthProbeTotal counts downstream health probes by outcome.
var HealthProbeTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: "gateway",
		Name:      "health_probe_total",
		Help:      "Total number of downstream health probes, by service and status.",
	},
	[]string{"service", "status"},
)

// HealthProbeDuration measures how long each downstream health probe takes.
var HealthProbeDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: "gateway",
		Name:      "health_probe_duration_seconds",
		Help:      "Duration of downstream health probes.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"service"},
)

// ── Domain metrics ────────────────────────────────────────────────────────────

// UsersRegisteredTotal counts accounts created through registration.
// Label:
//   - role: the role assigned to the new account
var UsersRegisteredTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: "sales_management",
		Name:      "users_registered_total",
		Help:      "Total number of registered users, by role.",
	},
	[]string{"role"},
)

// LoginsTotal counts login attempts.
// Label:
//   - result: "success" or "failure"
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: "sales_management",
		Name:      "logins_total",
		Help:      "Total number of login attempts, by result.",
	},
	[]string{"result"},
)

// CustomersCreatedTotal counts newly created customers.
var CustomersCreatedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: "sales_management",
		Name:      "customers_created_total",
		Help:      "Total number of customers created.",
	},
)

// SalesCreatedTotal counts newly recorded sales.
// Labels:
//   - payment_method: "cash", "credit_card" or "bank_transfer"
//   - status: the initial status
var SalesCreatedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: "sales_management",
		Name:      "sales_created_total",
		Help:      "Total number of sales created, by payment method and status.",
	},
	[]string{"payment_method", "status"},
)

// SalesIdempotentReplaysTotal counts sale submissions answered from an earlier
// Idempotency-Key.
var SalesIdempotentReplaysTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: "sales_management",
		Name:      "sales_idempotent_replays_total",
		Help:      "Total number of sale creations replayed from an idempotency key.",
	},
)
