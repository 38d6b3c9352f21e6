package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/dmehra2102/prod-golang-projects/rvutrack/pkg/metrics"
)

// Metrics records the request counter, latency histogram and in-flight gauge.
// The route template (c.FullPath) keeps cardinality bounded.
func Metrics(mc *metrics.Collector) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		mc.InFlightGauge.Inc()

		c.Next()

		mc.InFlightGauge.Dec()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		status := strconv.Itoa(c.Writer.Status())

		mc.RequestsTotal.WithLabelValues(c.Request.Method, path, status).Inc()
		mc.RequestDuration.WithLabelValues(c.Request.Method, path, status).Observe(time.Since(start).Seconds())
	}
}
