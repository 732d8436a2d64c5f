package logger

import (
	"context"
	log "log/slog"
	"time"

	"github.com/kevinpauljacob/cal/internal/pkg/metrics"

	"go.mongodb.org/mongo-driver/event"
)

const (
	mongoSlowThreshold = 200 * time.Millisecond
	mongoDetailLimit   = 1000
)

// 连接握手与心跳类命令不记录
var mongoQuietCommands = map[string]struct{}{
	"hello":        {},
	"isMaster":     {},
	"ping":         {},
	"saslStart":    {},
	"saslContinue": {},
	"endSessions":  {},
}

// NewMongoMonitor 记录 listing / 快照集合上的命令，慢查询单独告警
func NewMongoMonitor() *event.CommandMonitor {
	return &event.CommandMonitor{
		Started: func(ctx context.Context, evt *event.CommandStartedEvent) {
			if _, quiet := mongoQuietCommands[evt.CommandName]; quiet {
				return
			}
			detail := evt.Command.String()
			if len(detail) > mongoDetailLimit {
				detail = detail[:mongoDetailLimit] + "...[truncated]"
			}
			log.DebugContext(ctx, "MongoDB Started",
				log.String("command", evt.CommandName),
				log.String("database", evt.DatabaseName),
				log.Int64("request_id", evt.RequestID),
				log.String("cmd_detail", detail),
			)
		},
		Succeeded: func(ctx context.Context, evt *event.CommandSucceededEvent) {
			metrics.StoreCommands.WithLabelValues(metrics.StoreMongo, evt.CommandName, metrics.CommandOK).
				Observe(evt.Duration.Seconds())
			if _, quiet := mongoQuietCommands[evt.CommandName]; quiet {
				return
			}
			if evt.Duration > mongoSlowThreshold {
				log.WarnContext(ctx, "MongoDB Slow",
					log.String("command", evt.CommandName),
					log.Duration("latency", evt.Duration),
					log.Int64("request_id", evt.RequestID),
				)
			}
		},
		Failed: func(ctx context.Context, evt *event.CommandFailedEvent) {
			metrics.StoreCommands.WithLabelValues(metrics.StoreMongo, evt.CommandName, metrics.CommandError).
				Observe(evt.Duration.Seconds())
			log.ErrorContext(ctx, "MongoDB Error",
				log.String("command", evt.CommandName),
				log.Duration("latency", evt.Duration),
				log.Int64("request_id", evt.RequestID),
				log.Any("err", evt.Failure),
			)
		},
	}
}
