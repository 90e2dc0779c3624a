package middleware

import (
	"strconv"
	"time"

	"github.com/Samuel-soita/project-tracker-backend/internal/metrics"
	"github.com/gin-gonic/gin"
)

// unmatchedRoute labels requests that hit no route, so scanners probing
// random paths cannot blow up label cardinality.
const unmatchedRoute = "unmatched"

// Metrics records latency and totals per route template, e.g.
// "/projects/:id", never the raw URL.
func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		metrics.HTTPRequestsInFlight.Inc()
		defer metrics.HTTPRequestsInFlight.Dec()

		start := time.Now()
		c.Next()
		elapsed := time.Since(start)

		route := c.FullPath()
		if route == "" {
			route = unmatchedRoute
		}
		labels := []string{c.Request.Method, route, strconv.Itoa(c.Writer.Status())}

		metrics.HTTPRequestDuration.WithLabelValues(labels...).Observe(elapsed.Seconds())
		metrics.HTTPRequestsTotal.WithLabelValues(labels...).Inc()
	}
}
