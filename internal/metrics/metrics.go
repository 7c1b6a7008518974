// Package metrics provides the centralized Prometheus metrics registry
// for the prediction service.
package metrics

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	registry *prometheus.Registry
	once     sync.Once
)

// Counter metrics
var (
	RankingsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "gridcast",
		Name:      "rankings_total",
		Help:      "Total number of ranking requests processed",
	}, []string{"task"})
	DriversScoredTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "gridcast",
		Name:      "drivers_scored_total",
		Help:      "Total number of drivers scored across all rankings",
	})
	DriversSkippedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "gridcast",
		Name:      "drivers_skipped_total",
		Help:      "Total number of drivers skipped during ranking",
	}, []string{"reason"})
)

// Histogram metrics
var (
	FeatureBuildDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "gridcast",
		Name:      "feature_build_duration_seconds",
		Help:      "Time taken to build one driver feature vector",
		Buckets:   prometheus.DefBuckets,
	})
	RankingDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "gridcast",
		Name:      "ranking_duration_seconds",
		Help:      "Time taken to rank a full session",
		Buckets:   prometheus.DefBuckets,
	}, []string{"task"})
)

// Registry returns the shared metrics registry, registering all
// collectors on first use.
func Registry() *prometheus.Registry {
	once.Do(func() {
		registry = prometheus.NewRegistry()
		registry.MustRegister(
			RankingsTotal,
			DriversScoredTotal,
			DriversSkippedTotal,
			FeatureBuildDuration,
			RankingDuration,
		)
	})
	return registry
}

// Handler returns the HTTP handler serving the shared registry.
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry(), promhttp.HandlerOpts{})
}
