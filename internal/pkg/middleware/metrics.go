package middleware

import (
	"loyalty_rewards/pkg/logger"
	"loyalty_rewards/pkg/metrics"
	"loyalty_rewards/pkg/response"
	"net/http"
	"runtime"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// MetricsMiddleware 记录 HTTP 请求指标
func MetricsMiddleware(collector *metrics.MetricsCollector) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		endpoint := c.FullPath()
		if endpoint == "" {
			endpoint = "unmatched"
		}
		collector.RecordHTTPRequest(
			c.Request.Method,
			endpoint,
			strconv.Itoa(c.Writer.Status()),
			time.Since(start),
		)
		collector.UpdateActiveGoroutines(runtime.NumGoroutine())
	}
}

// RecoveryMiddleware panic 恢复，记录堆栈并返回统一错误
func RecoveryMiddleware() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		logger.L().Error("panic recovered",
			zap.Any("panic", recovered),
			zap.String("path", c.Request.URL.Path),
			zap.String("trace_id", TraceID(c)),
			zap.Stack("stack"),
		)
		response.Abort(c, http.StatusInternalServerError, response.ErrServerInternal, "internal server error")
	})
}
