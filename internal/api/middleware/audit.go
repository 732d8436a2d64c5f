package middleware

import (
	"bytes"
	"io"
	log "log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/kevinpauljacob/cal/internal/pkg/consts"

	"github.com/gin-gonic/gin"
)

const auditBodyLimit = 4096

// 列表接口响应体较大，只记录状态
var auditSkipResponse = []string{"/api/listings", "/api/search", "/api/trending"}

type responseBodyWriter struct {
	gin.ResponseWriter
	body *bytes.Buffer
}

func (r *responseBodyWriter) Write(b []byte) (int, error) {
	if remain := auditBodyLimit - r.body.Len(); remain > 0 {
		r.body.Write(b[:min(len(b), remain)])
	}
	return r.ResponseWriter.Write(b)
}

func (r *responseBodyWriter) Flush() {
	if flusher, ok := r.ResponseWriter.(http.Flusher); ok {
		flusher.Flush()
	}
}

// OAuth 回调参数不落日志
var sensitiveParams = []string{"code", "state"}

func redactQuery(values url.Values) string {
	for _, key := range sensitiveParams {
		if values.Has(key) {
			values.Set(key, "***")
		}
	}
	decoded, err := url.QueryUnescape(values.Encode())
	if err != nil {
		return values.Encode()
	}
	return decoded
}

func truncateBody(b []byte) string {
	if len(b) > auditBodyLimit {
		return string(b[:auditBodyLimit]) + "...[truncated]"
	}
	return string(b)
}

func skipResponseBody(path string) bool {
	for _, p := range auditSkipResponse {
		if path == p || strings.HasPrefix(path, p+"/") {
			return true
		}
	}
	return false
}

// AuditMiddleware 记录请求与响应，/metrics 不记录
func AuditMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Request.URL.Path
		if path == "/metrics" {
			c.Next()
			return
		}
		ctx := c.Request.Context()

		var reqBody []byte
		if c.Request.Body != nil {
			reqBody, _ = io.ReadAll(c.Request.Body)
			c.Request.Body = io.NopCloser(bytes.NewBuffer(reqBody))
		}

		log.InfoContext(ctx, "Recv Request",
			log.String("method", c.Request.Method),
			log.String("path", path),
			log.String("query", redactQuery(c.Request.URL.Query())),
			log.String("req_body", truncateBody(reqBody)),
		)

		w := &responseBodyWriter{body: &bytes.Buffer{}, ResponseWriter: c.Writer}
		c.Writer = w
		startTime := time.Now()

		c.Next()

		fields := []any{
			log.Int("status", c.Writer.Status()),
			log.Duration("latency", time.Since(startTime)),
			log.String("handle", c.GetString(consts.HandleKey)),
		}
		if !skipResponseBody(path) {
			fields = append(fields, log.String("res_body", w.body.String()))
		}
		log.InfoContext(ctx, "Send Response", fields...)
	}
}
