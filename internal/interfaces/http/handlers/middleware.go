package handlers

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/turtacn/grc/pkg/constants"
	"github.com/turtacn/grc/pkg/logger"
)

// Middleware bundles the cross-cutting gin middleware.
type Middleware struct {
	logger logger.Logger
}

// NewMiddleware creates a new Middleware bundle.
func NewMiddleware(log logger.Logger) *Middleware {
	return &Middleware{logger: log}
}

// RequestID assigns every request a stable identifier, honoring an inbound
// X-Request-ID header.
func (m *Middleware) RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader("X-Request-ID")
		if requestID == "" {
			requestID = uuid.NewString()
		}
		ctx := context.WithValue(c.Request.Context(), constants.ContextKeyRequestID, requestID)
		c.Request = c.Request.WithContext(ctx)
		c.Header("X-Request-ID", requestID)
		c.Next()
	}
}

// AccessLog logs one line per request with latency and status.
func (m *Middleware) AccessLog() gin.HandlerFunc {
	return func(c *gin.Context) {
		startTime := time.Now()
		c.Next()

		m.logger.Info(c.Request.Context(), "http request", logger.Fields{
			"method":     c.Request.Method,
			"path":       c.FullPath(),
			"status":     c.Writer.Status(),
			"latency_ms": time.Since(startTime).Milliseconds(),
		})
	}
}
