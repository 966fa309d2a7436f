package middleware

import (
	"strings"
	"time"

	"github.com/Suprim-idk/MyEyes-this-should-work-i-hope/pkg/logger"
	"github.com/gin-gonic/gin"
)

// LoggingMiddleware logs HTTP requests
func LoggingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		raw := c.Request.URL.RawQuery

		// Process request
		c.Next()

		// Calculate latency
		latency := time.Since(start)

		// Get status code
		statusCode := c.Writer.Status()

		// Log format: [method] path?query - status (latency)
		if raw != "" {
			path = path + "?" + raw
		}

		// Socket.IO long-polling produces a steady stream of requests;
		// keep those out of debug logs.
		if strings.HasPrefix(path, "/socket.io") {
			logger.Tracef("[%s] %s - %d (%v)", c.Request.Method, path, statusCode, latency)
			return
		}

		logger.Debugf("[%s] %s - %d (%v)", c.Request.Method, path, statusCode, latency)
	}
}
