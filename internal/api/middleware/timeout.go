package middleware

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/bassista/go_notes/internal/logger"
	"github.com/gin-gonic/gin"
)

var errRequestDeadline = errors.New("request deadline exceeded")

// RequestTimeout bounds the request context by d; d <= 0 leaves it unbounded.
// Handlers are not interrupted: note stores check ctx and give up on their own.
// When the deadline passed and the handler answered nothing, the client gets 504.
func RequestTimeout(d time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		if d <= 0 {
			c.Next()
			return
		}

		ctx, cancel := context.WithTimeoutCause(c.Request.Context(), d, errRequestDeadline)
		defer cancel()
		c.Request = c.Request.WithContext(ctx)

		c.Next()

		// A cancelled client or an outer deadline is not ours to answer.
		if !errors.Is(context.Cause(ctx), errRequestDeadline) {
			return
		}
		logger.WithComponent("http").Warnf("%s %s exceeded the %v request deadline", c.Request.Method, routeOf(c), d)
		if !c.Writer.Written() {
			c.AbortWithStatusJSON(http.StatusGatewayTimeout, gin.H{"error": "request timeout"})
		}
	}
}

// routeOf names the matched route, falling back to the raw path.
func routeOf(c *gin.Context) string {
	if p := c.FullPath(); p != "" {
		return p
	}
	return c.Request.URL.Path
}
