// Package observability holds Prometheus collectors and OpenTelemetry tracing setup.
package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// DatabaseQueryLatency records database query latency by operation and table.
	DatabaseQueryLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "outfitted_database_query_latency_seconds",
		Help:    "Database query latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation", "table"})

	// StoreErrors counts repository failures by classified error code.
	StoreErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "outfitted_store_errors_total",
		Help: "Total number of store errors by table and error code",
	}, []string{"table", "code"})

	// CatalogMutations counts successful catalog writes.
	CatalogMutations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "outfitted_catalog_mutations_total",
		Help: "Total number of catalog mutations by entity and action",
	}, []string{"entity", "action"})

	// FavoriteToggles counts favorite additions and removals.
	FavoriteToggles = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "outfitted_favorite_toggles_total",
		Help: "Total number of favorite additions and removals",
	}, []string{"action"})
)

// TrackQuery returns a function that records query latency when called (e.g. defer).
func TrackQuery(operation, table string) func() {
	start := time.Now()
	return func() {
		DatabaseQueryLatency.WithLabelValues(operation, table).Observe(time.Since(start).Seconds())
	}
}
