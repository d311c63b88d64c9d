// Package metrics provides Prometheus metrics for the mood service.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// WritesTotal counts record writes by operation and outcome.
	WritesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "moodmate",
			Name:      "mood_writes_total",
			Help:      "Total number of mood record writes",
		},
		[]string{"operation", "status"},
	)

	// TrendDuration measures trend query plus aggregation time.
	TrendDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "moodmate",
			Name:      "trend_duration_seconds",
			Help:      "Duration of trend computations in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"window_days"},
	)

	// TrendRecords observes how many records a trend computation read.
	TrendRecords = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "moodmate",
			Name:      "trend_records",
			Help:      "Distribution of in-window record counts per trend computation",
			Buckets:   []float64{0, 1, 5, 10, 25, 50, 100, 250, 500, 1000},
		},
	)

	// TrendCacheTotal counts trend cache lookups by result.
	TrendCacheTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "moodmate",
			Name:      "trend_cache_total",
			Help:      "Trend cache lookups",
		},
		[]string{"result"},
	)

	// HTTPRequestsTotal counts served requests.
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "moodmate",
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	// HTTPRequestDuration measures request latency.
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "moodmate",
			Name:      "http_request_duration_seconds",
			Help:      "Duration of HTTP requests in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)
)

// RecordWrite records a create, update or delete.
func RecordWrite(operation, status string) {
	WritesTotal.WithLabelValues(operation, status).Inc()
}

// ObserveTrend records one uncached trend computation.
func ObserveTrend(windowDays, records int, d time.Duration) {
	TrendDuration.WithLabelValues(WindowLabel(windowDays)).Observe(d.Seconds())
	TrendRecords.Observe(float64(records))
}

// WindowLabel keeps the window_days label to a fixed set: the common
// window sizes by value, everything else as "other".
func WindowLabel(days int) string {
	switch days {
	case 7, 30, 90, 365:
		return strconv.Itoa(days)
	}
	return "other"
}

// RecordTrendCache records a cache hit, miss or error.
func RecordTrendCache(result string) {
	TrendCacheTotal.WithLabelValues(result).Inc()
}

// RecordRequest records one served HTTP request.
func RecordRequest(method, route string, status int, d time.Duration) {
	HTTPRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	HTTPRequestDuration.WithLabelValues(method, route).Observe(d.Seconds())
}
