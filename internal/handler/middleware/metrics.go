package middleware

import (
	"strconv"
	"time"

	"github.com/Wilfix07/ecom-sub000/internal/infra/metrics"

	"github.com/gin-gonic/gin"
)

// MetricsMiddleware records per-request counters and latency. The route
// template (c.FullPath) is used as the path label to keep cardinality bounded.
func MetricsMiddleware(m *metrics.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		status := strconv.Itoa(c.Writer.Status())

		m.HTTPRequestsTotal.WithLabelValues(c.Request.Method, path, status).Inc()
		m.HTTPRequestDuration.WithLabelValues(c.Request.Method, path).Observe(time.Since(start).Seconds())
	}
}
