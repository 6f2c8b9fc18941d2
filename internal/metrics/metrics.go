// Package metrics holds the Prometheus collectors exposed on /metrics.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Feed
	FeedPagesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "swipechef_feed_pages_total",
			Help: "Feed pages served, by outcome (ok, empty, error)",
		},
		[]string{"outcome"},
	)

	FeedPageSize = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "swipechef_feed_page_size",
			Help:    "Number of recipes returned per feed page",
			Buckets: []float64{0, 1, 3, 5, 10, 20, 50, 100},
		},
	)

	FeedExcludedRecipes = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "swipechef_feed_excluded_recipes",
			Help:    "Size of the per-request exclusion set",
			Buckets: prometheus.ExponentialBuckets(1, 4, 8),
		},
	)

	FeedSelectDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "swipechef_feed_select_duration_seconds",
			Help:    "Time spent building one feed page",
			Buckets: prometheus.DefBuckets,
		},
	)

	// HTTP
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "swipechef_http_request_duration_seconds",
			Help:    "HTTP request latency",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route", "status"},
	)

	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "swipechef_http_requests_total",
			Help: "HTTP requests handled",
		},
		[]string{"method", "route", "status"},
	)

	RateLimitRejections = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "swipechef_rate_limit_rejections_total",
			Help: "Requests rejected by a rate limiter",
		},
		[]string{"limiter"},
	)

	// Cache
	CacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "swipechef_cache_hits_total",
			Help: "Catalog cache hits",
		},
		[]string{"cache"},
	)

	CacheMisses = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "swipechef_cache_misses_total",
			Help: "Catalog cache misses",
		},
		[]string{"cache"},
	)

	// Object storage circuit breaker: 0 closed, 1 half-open, 2 open.
	ObjectStorageBreakerState = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "swipechef_object_storage_breaker_state",
			Help: "State of the object storage circuit breaker",
		},
	)

	ObjectStorageErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "swipechef_object_storage_errors_total",
			Help: "Failed object storage calls",
		},
		[]string{"operation"},
	)
)

// RecordHTTPRequest observes one finished request.
func RecordHTTPRequest(method, route string, status int, duration time.Duration) {
	code := strconv.Itoa(status)
	HTTPRequestDuration.WithLabelValues(method, route, code).Observe(duration.Seconds())
	HTTPRequestsTotal.WithLabelValues(method, route, code).Inc()
}

func RecordCacheLookup(cache string, hit bool) {
	if hit {
		CacheHits.WithLabelValues(cache).Inc()
		return
	}
	CacheMisses.WithLabelValues(cache).Inc()
}
