package logger

import (
	"fmt"
	"time"

	"github.com/kevinpauljacob/cal/internal/api/config"

	"github.com/gin-gonic/gin"
)

// SetupGin 访问日志，抓取 /metrics 的请求不记录
func SetupGin(r *gin.Engine) {
	r.Use(gin.LoggerWithConfig(gin.LoggerConfig{
		Output:    LogWriter,
		SkipPaths: []string{"/metrics", "/api/ping"},
		Formatter: func(p gin.LogFormatterParams) string {
			traceID, _ := p.Keys[TraceIDKey].(string)
			if traceID == "" && p.Request != nil {
				traceID = TraceID(p.Request.Context())
			}

			return fmt.Sprintf(
				`{"time":"%s","level":"INFO","msg":"GIN_ACCESS","trace_id":"%s","log_token":"%s","target_index":"%s","method":"%s","path":"%s","status":%d,"latency":"%v","client_ip":"%s"}`+"\n",
				p.TimeStamp.Format(time.RFC3339),
				traceID,
				config.Cfg.Logstash.Token,
				config.Cfg.Logstash.Index,
				p.Method,
				p.Path,
				p.StatusCode,
				p.Latency,
				p.ClientIP,
			)
		},
	}))
}
