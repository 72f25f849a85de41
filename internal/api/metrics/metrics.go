// Package metrics defines and registers all custom Prometheus metrics for the
// admin gateway. It is the single source of truth for metric names, labels,
// and help strings.
//
// Metrics are registered with the default Prometheus registry on package
// initialisation via promauto.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "admin_gateway"

// ── Proxy metrics ─────────────────────────────────────────────────────────────

// UpstreamRequestsTotal counts upstream calls made by proxy handlers.
// Labels:
//   - route: the local echo route path (e.g. "/api/places/categories")
//   - method: the upstream HTTP method
//   - status: upstream HTTP status code, or "error" when the call failed
var UpstreamRequestsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "upstream_requests_total",
		Help:      "Total number of upstream calls issued by proxy handlers.",
	},
	[]string{"route", "method", "status"},
)

// UpstreamRequestDuration measures upstream round-trip latency.
var UpstreamRequestDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "upstream_request_duration_seconds",
		Help:      "Duration of upstream calls from send to full body read.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"route"},
)

// ProxyRejectionsTotal counts requests answered locally without a
// successful upstream round trip.
// Labels:
//   - route: the local echo route path
//   - reason: "unauthenticated", "forbidden", "validation" or "internal"
var ProxyRejectionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "proxy_rejections_total",
		Help:      "Total number of proxy requests rejected before or instead of relaying upstream.",
	},
	[]string{"route", "reason"},
)

// ── Session metrics ───────────────────────────────────────────────────────────

// SessionsIssuedTotal counts sessions created by the session gate.
var SessionsIssuedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "sessions_issued_total",
		Help:      "Total number of sessions issued.",
	},
)

// SessionsRevokedTotal counts explicit sign-outs recorded in the revocation store.
var SessionsRevokedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "sessions_revoked_total",
		Help:      "Total number of sessions revoked by sign-out.",
	},
)

// Rejection reasons.
const (
	ReasonUnauthenticated = "unauthenticated"
	ReasonForbidden       = "forbidden"
	ReasonValidation      = "validation"
	ReasonInternal        = "internal"
)
