package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/eshaffer321/inventory-allocator/internal/infrastructure/metrics"
)

// Metrics returns middleware that counts requests per matched route.
// Unmatched paths are grouped under one label to keep cardinality bounded.
func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		metrics.ObserveRequest(c.Request.Method, route, c.Writer.Status(), time.Since(start))
	}
}
