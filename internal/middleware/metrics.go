package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sfm_http_requests_total",
			Help: "Total number of HTTP requests by method, route and status.",
		},
		[]string{"method", "route", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "sfm_http_request_duration_seconds",
			Help:    "HTTP request latency by method and route.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	journalEntriesPosted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sfm_journal_entries_posted_total",
			Help: "Journal entries posted, by reference type.",
		},
		[]string{"reference_type"},
	)

	postingFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sfm_posting_failures_total",
			Help: "Auto-posting attempts that were deferred to the outbox, by reference type.",
		},
		[]string{"reference_type"},
	)
)

// Metrics records request counts and latencies for Prometheus scraping.
func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		httpRequestsTotal.WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).Inc()
		httpRequestDuration.WithLabelValues(c.Request.Method, route).Observe(time.Since(start).Seconds())
	}
}

// CountEntryPosted increments the posted-entries counter.
func CountEntryPosted(referenceType string) {
	journalEntriesPosted.WithLabelValues(referenceType).Inc()
}

// CountPostingFailure increments the deferred-postings counter.
func CountPostingFailure(referenceType string) {
	postingFailures.WithLabelValues(referenceType).Inc()
}
