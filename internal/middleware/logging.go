package middleware

import (
	"io"
	"time"

	"github.com/nord-digital/userdir/pkg/logger"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ZapLogger replaces gin's default access log with structured output.
func ZapLogger() gin.HandlerFunc {
	return gin.LoggerWithConfig(gin.LoggerConfig{
		Formatter: func(param gin.LogFormatterParams) string {
			fields := []zap.Field{
				zap.String("method", param.Method),
				zap.String("path", param.Path),
				zap.Int("status_code", param.StatusCode),
				zap.Duration("latency", param.Latency),
				zap.String("client_ip", param.ClientIP),
				zap.Int("body_size", param.BodySize),
			}
			if param.ErrorMessage != "" {
				fields = append(fields, zap.String("error", param.ErrorMessage))
			}

			switch {
			case param.StatusCode >= 500:
				logger.GetLogger().Error("HTTP request", fields...)
			case param.StatusCode >= 400:
				logger.GetLogger().Warn("HTTP request", fields...)
			default:
				logger.GetLogger().Info("HTTP request", fields...)
			}

			if param.Latency > time.Second*2 {
				logger.GetLogger().Warn("Slow request detected",
					zap.String("method", param.Method),
					zap.String("path", param.Path),
					zap.Duration("latency", param.Latency),
					zap.String("client_ip", param.ClientIP),
				)
			}

			return ""
		},
		Output: io.Discard,
	})
}

// Recovery recovers from handler panics and answers 500.
func Recovery() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		logger.LogPanic(recovered)

		c.JSON(500, gin.H{
			"error": "Internal server error",
			"code":  "INTERNAL_ERROR",
		})
	})
}
