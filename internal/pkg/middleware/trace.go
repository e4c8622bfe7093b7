package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	traceIDKey    = "traceID"
	traceIDHeader = "X-Trace-ID"
)

// TraceMiddleware 添加请求追踪ID，上游传入的非 UUID 值会被替换
func TraceMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		traceID := c.GetHeader(traceIDHeader)
		if _, err := uuid.Parse(traceID); err != nil {
			traceID = uuid.New().String()
		}

		c.Set(traceIDKey, traceID)
		c.Header(traceIDHeader, traceID)

		c.Next()
	}
}

// TraceID 返回当前请求的追踪ID
func TraceID(c *gin.Context) string {
	return c.GetString(traceIDKey)
}
