package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/user-table-api/internal/service"
)

// unmatchedRoute labels every request that hit no route.
const unmatchedRoute = "unmatched"

// Metrics observes every request by route template (e.g. /api/v1/tables/:id/sort).
// Routes in skip, such as health checks and the scrape endpoint, are not recorded.
func Metrics(metricsSvc *service.MetricsService, skip ...string) gin.HandlerFunc {
	skipped := make(map[string]struct{}, len(skip))
	for _, p := range skip {
		skipped[p] = struct{}{}
	}
	return func(c *gin.Context) {
		if metricsSvc == nil {
			c.Next()
			return
		}
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if _, ok := skipped[route]; ok {
			return
		}
		if route == "" {
			route = unmatchedRoute
		}
		metricsSvc.ObserveHTTPRequest(c.Request.Method, route, c.Writer.Status(), time.Since(start))
	}
}
