package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/studysmarter/studysmarter-api/internal/service"
)

// Metrics returns middleware that captures request metrics using the provided
// service. The scrape and health endpoints are left out so the series cover
// API traffic only.
func Metrics(metricsSvc *service.MetricsService) gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}
		if metricsSvc == nil || path == "/metrics" || path == "/health" {
			c.Next()
			return
		}
		start := time.Now()
		c.Next()
		duration := time.Since(start)
		metricsSvc.ObserveHTTPRequest(c.Request.Method, path, c.Writer.Status(), duration)
	}
}
