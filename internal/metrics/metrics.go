package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the application
type Metrics struct {
	// HTTP metrics
	HTTPRequestsTotal     prometheus.CounterVec
	HTTPRequestDuration   prometheus.HistogramVec
	HTTPActiveConnections prometheus.GaugeVec

	// Cache metrics
	CacheHitsTotal   prometheus.CounterVec
	CacheMissesTotal prometheus.CounterVec

	// Rate limiting metrics
	RateLimitExceededTotal prometheus.CounterVec

	// Feed metrics
	FeedGenerationTime prometheus.HistogramVec
	FeedItemsReturned  prometheus.HistogramVec

	// Engagement metrics
	StarsToggledTotal    prometheus.CounterVec
	CommentsCreatedTotal prometheus.CounterVec
	AdsServedTotal       prometheus.CounterVec

	// WebSocket metrics
	WebSocketConnections prometheus.GaugeVec
	WebSocketMessages    prometheus.CounterVec

	// Error metrics
	ErrorsTotal prometheus.CounterVec
}

var (
	instance *Metrics
	once     sync.Once
)

// Initialize creates and registers all Prometheus metrics
func Initialize() *Metrics {
	once.Do(func() {
		instance = &Metrics{
			HTTPRequestsTotal: *promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "http_requests_total",
					Help: "Total number of HTTP requests",
				},
				[]string{"method", "path", "status"},
			),
			HTTPRequestDuration: *promauto.NewHistogramVec(
				prometheus.HistogramOpts{
					Name:    "http_request_duration_seconds",
					Help:    "HTTP request latency in seconds",
					Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
				},
				[]string{"method", "path", "status"},
			),
			HTTPActiveConnections: *promauto.NewGaugeVec(
				prometheus.GaugeOpts{
					Name: "http_active_connections",
					Help: "Number of currently active HTTP connections",
				},
				[]string{"method", "path"},
			),

			CacheHitsTotal: *promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "cache_hits_total",
					Help: "Total number of cache hits",
				},
				[]string{"cache_name"},
			),
			CacheMissesTotal: *promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "cache_misses_total",
					Help: "Total number of cache misses",
				},
				[]string{"cache_name"},
			),

			RateLimitExceededTotal: *promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "rate_limit_exceeded_total",
					Help: "Total number of rate limit violations",
				},
				[]string{"endpoint", "method"},
			),

			FeedGenerationTime: *promauto.NewHistogramVec(
				prometheus.HistogramOpts{
					Name:    "feed_generation_duration_seconds",
					Help:    "Time to generate a feed in seconds",
					Buckets: []float64{.01, .05, .1, .25, .5, 1, 2.5, 5},
				},
				[]string{"kind"},
			),
			FeedItemsReturned: *promauto.NewHistogramVec(
				prometheus.HistogramOpts{
					Name:    "feed_items_returned",
					Help:    "Number of items returned per feed request",
					Buckets: []float64{0, 1, 5, 10, 25, 50, 100, 250},
				},
				[]string{"kind"},
			),

			StarsToggledTotal: *promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "stars_toggled_total",
					Help: "Total number of star toggles",
				},
				[]string{"kind", "action"},
			),
			CommentsCreatedTotal: *promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "comments_created_total",
					Help: "Total number of comments created",
				},
				[]string{"kind"},
			),
			AdsServedTotal: *promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "ads_served_total",
					Help: "Total number of ads served",
				},
				[]string{"placement"},
			),

			WebSocketConnections: *promauto.NewGaugeVec(
				prometheus.GaugeOpts{
					Name: "websocket_connections",
					Help: "Number of currently connected WebSocket clients",
				},
				[]string{},
			),
			WebSocketMessages: *promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "websocket_messages_total",
					Help: "Total number of WebSocket messages sent",
				},
				[]string{"type"},
			),

			ErrorsTotal: *promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "errors_total",
					Help: "Total number of errors by type",
				},
				[]string{"error_type", "endpoint"},
			),
		}
	})
	return instance
}

// Get returns the global metrics instance
func Get() *Metrics {
	if instance == nil {
		return Initialize()
	}
	return instance
}
