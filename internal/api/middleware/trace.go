package middleware

import (
	"context"
	"regexp"

	"github.com/kevinpauljacob/cal/internal/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const TraceHeader = "X-Trace-Id"

// 上游传入的 trace id 只接受短的安全字符
var traceIDPattern = regexp.MustCompile(`^[A-Za-z0-9._-]{1,64}$`)

// TraceMiddleware 沿用上游 X-Trace-Id，否则生成新的
func TraceMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		traceID := c.GetHeader(TraceHeader)
		if !traceIDPattern.MatchString(traceID) {
			traceID = uuid.NewString()
		}

		c.Set(logger.TraceIDKey, traceID)
		c.Request = c.Request.WithContext(context.WithValue(c.Request.Context(), logger.TraceIDKey, traceID))

		c.Header(TraceHeader, traceID)
		c.Next()
	}
}
