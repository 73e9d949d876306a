// Package metrics holds runway's Prometheus collectors.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// ─── Projection ─────────────────────────────────────────────────────────────

// ProjectionRuns counts projection runs by outcome (ok, missing_balance, error).
var ProjectionRuns = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "runway",
	Subsystem: "projection",
	Name:      "runs_total",
	Help:      "Total cash-flow projections computed.",
}, []string{"outcome"})

// ProjectionDuration observes how long a projection takes.
var ProjectionDuration = promauto.NewHistogram(prometheus.HistogramOpts{
	Namespace: "runway",
	Subsystem: "projection",
	Name:      "duration_seconds",
	Help:      "Time spent computing a projection.",
	Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 8),
})

// ProjectionSkipped counts items left out of projections, by kind.
var ProjectionSkipped = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "runway",
	Subsystem: "projection",
	Name:      "skipped_total",
	Help:      "Events, instances and bills skipped while projecting.",
}, []string{"kind"})

// ─── Quotes ─────────────────────────────────────────────────────────────────

// QuoteRequests counts quote lookups by source and status (ok, error).
var QuoteRequests = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "runway",
	Subsystem: "quote",
	Name:      "requests_total",
	Help:      "Total price quote requests.",
}, []string{"source", "status"})

// ─── HTTP ───────────────────────────────────────────────────────────────────

// HTTPRequests counts API requests by route pattern, method and status code.
var HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "runway",
	Subsystem: "http",
	Name:      "requests_total",
	Help:      "Total HTTP API requests.",
}, []string{"route", "method", "code"})

// HTTPDuration observes API request latency by route pattern.
var HTTPDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
	Namespace: "runway",
	Subsystem: "http",
	Name:      "request_duration_seconds",
	Help:      "HTTP API request latency.",
	Buckets:   prometheus.DefBuckets,
}, []string{"route"})
