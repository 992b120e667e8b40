package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/entitle-inc/entitle/internal/shared/logger"
)

// AccessLog logs one line per request, leveled by status class.
func AccessLog(log logger.Interface) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		args := []any{
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"latency", time.Since(start),
			"client_ip", c.ClientIP(),
			"user_agent", c.Request.UserAgent(),
			"body_size", c.Writer.Size(),
		}
		if len(c.Errors) > 0 {
			args = append(args, "error", c.Errors.String())
		}

		reqLog := logger.FromContext(c.Request.Context(), log)
		status := c.Writer.Status()
		switch {
		case status >= 500:
			reqLog.Errorw("HTTP request completed with server error", args...)
		case status >= 400:
			reqLog.Warnw("HTTP request completed with client error", args...)
		default:
			reqLog.Infow("HTTP request completed", args...)
		}
	}
}
