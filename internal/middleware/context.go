package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/restockr/auth-service/internal/constants"
	ctxutil "github.com/restockr/auth-service/pkg/context"
)

// RequestContext seeds every request context with the identifiers the
// context-aware loggers extract: request ID, client IP and user agent. An
// inbound X-Request-ID is honored so IDs stay stable across proxies; either
// way the ID is echoed back on the response.
func RequestContext() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(constants.HeaderXRequestID)
		if requestID == "" {
			requestID = uuid.NewString()
		}

		ctx := ctxutil.WithRequestID(c.Request.Context(), requestID)
		ctx = ctxutil.WithValue(ctx, ctxutil.ClientIPKey, c.ClientIP())
		ctx = ctxutil.WithValue(ctx, ctxutil.UserAgentKey, c.GetHeader(constants.HeaderUserAgent))
		c.Request = c.Request.WithContext(ctx)

		c.Header(constants.HeaderXRequestID, requestID)
		c.Next()
	}
}

// SecurityHeaders sets standard hardening headers on every response.
func SecurityHeaders() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header(constants.HeaderXContentTypeOpts, "nosniff")
		c.Header(constants.HeaderXFrameOptions, "DENY")
		c.Header(constants.HeaderXXSSProtection, "1; mode=block")
		c.Header(constants.HeaderStrictTransportSec, "max-age=31536000; includeSubDomains")
		c.Next()
	}
}

// RequestTimeout bounds request handling. Downstream database and Redis
// calls observe the deadline through the request context.
func RequestTimeout(timeout time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := ctxutil.WithTimeout(c.Request.Context(), timeout)
		defer cancel()

		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}
