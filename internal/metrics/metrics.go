package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// MetricsRegistry holds all Prometheus metrics for the telemetry backend
type MetricsRegistry struct {
	// HTTP Metrics
	HTTPRequestsTotal    *prometheus.CounterVec
	HTTPRequestDuration  *prometheus.HistogramVec
	HTTPRequestsInFlight *prometheus.GaugeVec

	// Query gateway metrics
	QueriesTotal  *prometheus.CounterVec
	QueryDuration *prometheus.HistogramVec

	// Cache Metrics
	CacheHitsTotal   *prometheus.CounterVec
	CacheMissesTotal *prometheus.CounterVec

	// Feed poller metrics
	PollsTotal          *prometheus.CounterVec
	PollsDiscardedTotal *prometheus.CounterVec
	FeedAgeSeconds      *prometheus.GaugeVec
	FeedStale           *prometheus.GaugeVec
}

// NewMetricsRegistry registers every metric on reg. The server passes
// prometheus.DefaultRegisterer; tests pass a fresh prometheus.NewRegistry().
func NewMetricsRegistry(reg prometheus.Registerer) *MetricsRegistry {
	factory := promauto.With(reg)

	return &MetricsRegistry{
		HTTPRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "sleepwatch_http_requests_total",
				Help: "Total HTTP requests processed by endpoint, method, and status code",
			},
			[]string{"endpoint", "method", "status_code"},
		),
		HTTPRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "sleepwatch_http_request_duration_seconds",
				Help:    "HTTP request latency distribution in seconds",
				Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
			},
			[]string{"endpoint", "method"},
		),
		HTTPRequestsInFlight: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "sleepwatch_http_requests_in_flight",
				Help: "Number of HTTP requests currently being processed",
			},
			[]string{"endpoint"},
		),

		QueriesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "sleepwatch_queries_total",
				Help: "Total analytical queries by query name and outcome",
			},
			[]string{"query", "outcome"},
		),
		QueryDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "sleepwatch_query_duration_seconds",
				Help:    "Analytical query round-trip time in seconds",
				Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
			},
			[]string{"query"},
		),

		CacheHitsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "sleepwatch_cache_hits_total",
				Help: "Total cache hits by cache key pattern",
			},
			[]string{"cache_key_pattern"},
		),
		CacheMissesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "sleepwatch_cache_misses_total",
				Help: "Total cache misses by cache key pattern",
			},
			[]string{"cache_key_pattern"},
		),

		PollsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "sleepwatch_feed_polls_total",
				Help: "Feed poll completions by feed and outcome",
			},
			[]string{"feed", "outcome"},
		),
		PollsDiscardedTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "sleepwatch_feed_polls_discarded_total",
				Help: "Successful polls dropped because a newer fetch had already published",
			},
			[]string{"feed"},
		),
		FeedAgeSeconds: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "sleepwatch_feed_age_seconds",
				Help: "Seconds since the feed last published a snapshot",
			},
			[]string{"feed"},
		),
		FeedStale: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "sleepwatch_feed_stale",
				Help: "1 when the feed snapshot is older than the staleness bound",
			},
			[]string{"feed"},
		),
	}
}
