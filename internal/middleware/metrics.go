package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/otakupedia/catalog-api/internal/service"
)

// Metrics times every request and feeds the HTTP histogram. The route
// template is preferred over the raw path so /contributions/:id stays a
// single label value.
func Metrics(metricsSvc *service.MetricsService) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = c.Request.URL.Path
		}
		metricsSvc.ObserveHTTPRequest(c.Request.Method, route, c.Writer.Status(), time.Since(start))
	}
}
