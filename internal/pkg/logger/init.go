package logger

import (
	"io"
	log "log/slog"
	"net"
	"os"
	"strings"
	"time"

	"github.com/kevinpauljacob/cal/internal/api/config"
)

// LogWriter gin 访问日志的输出目标，远端可用时指向 logstash 连接
var LogWriter io.Writer = os.Stdout

const logstashDialTimeout = 3 * time.Second

func InitLogger() {
	cfg := config.Cfg.Logstash
	opts := &log.HandlerOptions{Level: ParseLevel(config.Cfg.Log.Level)}

	var finalHandler log.Handler = log.NewJSONHandler(os.Stdout, opts)

	if cfg.Address != "" {
		conn, err := net.DialTimeout("tcp", cfg.Address, logstashDialTimeout)
		if err != nil {
			log.Warn("Failed to connect to Logstash, logging to stdout only", "addr", cfg.Address, "err", err)
		} else {
			hRemote := log.NewJSONHandler(conn, opts).WithAttrs([]log.Attr{
				log.String("target_index", cfg.Index),
				log.String("log_token", cfg.Token),
				log.String("service", "radar"),
			})
			finalHandler = &TeeHandler{
				handlers: []log.Handler{finalHandler, &TraceOnlyHandler{next: hRemote}},
			}
			LogWriter = conn
		}
	}

	log.SetDefault(log.New(&ContextHandler{finalHandler}))
}

// ParseLevel 未识别的级别按 info 处理
func ParseLevel(level string) log.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return log.LevelDebug
	case "warn", "warning":
		return log.LevelWarn
	case "error":
		return log.LevelError
	default:
		return log.LevelInfo
	}
}
