package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Registered via promauto so the collectors are live as soon as the package
// is linked in; the HTTP exposition itself stays behind the metrics flag.

var (
	// IngestsTotal counts facade ingestions by entity kind and outcome.
	IngestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fraudlens_ingests_total",
			Help: "Total number of entity ingestions processed",
		},
		[]string{"entity", "outcome"},
	)

	// LinkPassDuration measures full and incremental relinking passes. The
	// pairwise pass grows quadratically with the population, so the upper
	// buckets are generous.
	LinkPassDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "fraudlens_link_pass_duration_seconds",
			Help:    "Duration of relationship relinking passes in seconds",
			Buckets: []float64{0.005, 0.01, 0.05, 0.1, 0.5, 1, 2.5, 5, 10, 30},
		},
		[]string{"pass"},
	)

	// HTTPRequestsTotal counts requests served, labeled by method, path and
	// status code.
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fraudlens_http_requests_total",
			Help: "Total number of HTTP requests processed",
		},
		[]string{"method", "path", "status"},
	)
)
