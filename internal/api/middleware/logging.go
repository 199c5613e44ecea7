package middleware

import (
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/d60-Lab/jam/pkg/logger"
	"github.com/d60-Lab/jam/pkg/response"
)

// RequestLog zap 访问日志
func RequestLog() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.Info("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
			zap.String("client_ip", c.ClientIP()),
		)
	}
}

// Recovery panic 兜底：记日志、上报 sentry（若启用）、回 500
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				logger.Error("panic recovered",
					zap.Any("panic", r),
					zap.String("path", c.Request.URL.Path),
				)
				if hub := sentry.CurrentHub(); hub.Client() != nil {
					hub.Recover(r)
				}
				response.InternalError(c, nil)
			}
		}()
		c.Next()
	}
}
