package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/paraverse/backend/internal/metrics"
)

// MetricsMiddleware collects HTTP metrics for Prometheus
func MetricsMiddleware() gin.HandlerFunc {
	m := metrics.Get()

	return func(c *gin.Context) {
		method := c.Request.Method
		// Use the route template so path labels stay low-cardinality
		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}

		m.HTTPActiveConnections.WithLabelValues(method, path).Inc()
		defer m.HTTPActiveConnections.WithLabelValues(method, path).Dec()

		startTime := time.Now()

		c.Next()

		duration := time.Since(startTime).Seconds()
		// Numeric status as string so Grafana queries like status=~"5.." work
		statusStr := strconv.Itoa(c.Writer.Status())

		m.HTTPRequestsTotal.WithLabelValues(method, path, statusStr).Inc()
		m.HTTPRequestDuration.WithLabelValues(method, path, statusStr).Observe(duration)
	}
}

// RecordCacheHit records a cache hit for the named cache
func RecordCacheHit(cacheName string) {
	metrics.Get().CacheHitsTotal.WithLabelValues(cacheName).Inc()
}

// RecordCacheMiss records a cache miss for the named cache
func RecordCacheMiss(cacheName string) {
	metrics.Get().CacheMissesTotal.WithLabelValues(cacheName).Inc()
}

// RecordRateLimitExceeded records a rate limit violation
func RecordRateLimitExceeded(endpoint, method string) {
	metrics.Get().RateLimitExceededTotal.WithLabelValues(endpoint, method).Inc()
}

// RecordFeedGeneration records feed build latency and result size
func RecordFeedGeneration(kind string, duration time.Duration, items int) {
	m := metrics.Get()
	m.FeedGenerationTime.WithLabelValues(kind).Observe(duration.Seconds())
	m.FeedItemsReturned.WithLabelValues(kind).Observe(float64(items))
}

// RecordStarToggled records a star toggle, action is "star" or "unstar"
func RecordStarToggled(kind, action string) {
	metrics.Get().StarsToggledTotal.WithLabelValues(kind, action).Inc()
}

// RecordCommentCreated records a new comment on the given entity kind
func RecordCommentCreated(kind string) {
	metrics.Get().CommentsCreatedTotal.WithLabelValues(kind).Inc()
}

// RecordAdServed records one ad response for a placement
func RecordAdServed(placement string) {
	metrics.Get().AdsServedTotal.WithLabelValues(placement).Inc()
}

// RecordError records an application error
func RecordError(errorType, endpoint string) {
	metrics.Get().ErrorsTotal.WithLabelValues(errorType, endpoint).Inc()
}
