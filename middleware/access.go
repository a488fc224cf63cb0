package middleware

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/finbox-in/imagegen/internal/pkg/logger"
)

// BodyLimit caps how many bytes a handler may read from the request body.
func BodyLimit(n int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Body != nil {
			c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, n)
		}
		c.Next()
	}
}

// AccessLog logs one line per request once the handler chain returns.
// It must run after RequestContext to pick up the tagged logger.
func AccessLog() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		logger := logger.LoggerFromContext(c)
		entry := logger.WithFields(logrus.Fields{
			"method":     c.Request.Method,
			"path":       c.Request.URL.Path,
			"status":     c.Writer.Status(),
			"size":       c.Writer.Size(),
			"latency_ms": time.Since(start).Milliseconds(),
			"client_ip":  c.ClientIP(),
		})
		if c.Writer.Status() >= http.StatusInternalServerError {
			entry.Warn("request completed")
			return
		}
		entry.Info("request completed")
	}
}
