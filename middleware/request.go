package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/finbox-in/imagegen/internal/pkg/instrument"
	"github.com/finbox-in/imagegen/internal/pkg/logger"
)

const RequestIDHeader = "X-Request-ID"

// RequestContext tags every request with a correlation id, taken from
// X-Request-ID or X-Trace-ID or generated, attaches a logger carrying it and
// records the transport metadata the instrumentation wrappers read.
func RequestContext(base *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		correlationID := c.GetHeader(RequestIDHeader)
		if correlationID == "" {
			correlationID = c.GetHeader("X-Trace-ID")
		}
		if correlationID == "" {
			correlationID = uuid.NewString()
		}
		c.Header(RequestIDHeader, correlationID)

		log := base.WithX("trace-id", correlationID)

		// Both keys are plain strings, so handlers passing c as a
		// context.Context resolve them through c.Value.
		c.Set(logger.LoggerContextKey, log)
		c.Set(instrument.MetaContextKey, instrument.RequestMeta{
			Method:    c.Request.Method,
			Endpoint:  c.FullPath(),
			UserAgent: c.Request.UserAgent(),
			ClientIP:  c.ClientIP(),
		})

		c.Next()
	}
}
