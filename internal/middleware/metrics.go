// internal/middleware/metrics.go
package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	requestCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	requestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	insightGenerations = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ai_insight_generations_total",
			Help: "Total number of AI insight generation runs by outcome",
		},
		[]string{"outcome"},
	)

	snapshotInserts = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "analytics_snapshots_inserted_total",
			Help: "Total number of analytics snapshot rows inserted",
		},
	)
)

func init() {
	prometheus.MustRegister(requestCounter)
	prometheus.MustRegister(requestDuration)
	prometheus.MustRegister(insightGenerations)
	prometheus.MustRegister(snapshotInserts)
}

// Metrics records per-request counters and latencies. Uses the route
// template, not the raw URL, so label cardinality stays bounded.
func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		status := strconv.Itoa(c.Writer.Status())

		requestCounter.WithLabelValues(c.Request.Method, path, status).Inc()
		requestDuration.WithLabelValues(c.Request.Method, path, status).Observe(time.Since(start).Seconds())
	}
}

func PrometheusHandler() gin.HandlerFunc {
	return gin.WrapH(promhttp.Handler())
}

// CountInsightGeneration tracks insight generation outcomes ("ok",
// "fallback", "error").
func CountInsightGeneration(outcome string) {
	insightGenerations.WithLabelValues(outcome).Inc()
}

// CountSnapshotInsert tracks persisted snapshot rows.
func CountSnapshotInsert() {
	snapshotInserts.Inc()
}
