package middleware

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/restockr/auth-service/internal/constants"
	apperrors "github.com/restockr/auth-service/internal/errors"
	ctxutil "github.com/restockr/auth-service/pkg/context"
	"github.com/restockr/auth-service/pkg/logger"
)

const slowRequestThreshold = 2 * time.Second

// RequestLogger replaces gin's console logger with one structured line per
// request. Server errors and slow responses escalate so they stand out
// without log filters. Must run after RequestContext so the request id is
// available.
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		latency := time.Since(start)
		status := c.Writer.Status()

		fields := []zap.Field{
			zap.String("request_id", ctxutil.GetRequestID(c.Request.Context())),
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.String("client_ip", c.ClientIP()),
			zap.String("user_agent", c.Request.UserAgent()),
			zap.Int("status_code", status),
			zap.Duration("latency", latency),
			zap.Int("response_size", c.Writer.Size()),
		}
		if errs := c.Errors.ByType(gin.ErrorTypePrivate); len(errs) > 0 {
			fields = append(fields, zap.String("errors", errs.String()))
		}

		switch {
		case status >= http.StatusInternalServerError:
			logger.GetLogger().Error("Request failed", fields...)
		case status >= http.StatusBadRequest:
			logger.GetLogger().Warn("Request rejected", fields...)
		case latency > slowRequestThreshold:
			logger.GetLogger().Warn("Slow request", fields...)
		default:
			logger.GetLogger().Info("Request completed", fields...)
		}
	}
}

// Recovery turns panics into 500 responses with the generic error body,
// never leaking the panic value to the client.
func Recovery() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		logger.LogPanic(recovered)

		c.JSON(http.StatusInternalServerError, constants.BuildErrorResponse(
			constants.MsgInternalError,
			apperrors.GetErrorMessage(apperrors.ErrInternal),
		))
	})
}
