package logger

import (
	"context"
	log "log/slog"

	"github.com/google/uuid"
)

// TraceIDKey 定义 Context 中的 Key
const TraceIDKey = "trace_id"

// 后台链路的 trace 前缀
const (
	TracePrefixJob     = "job-mindshare"
	TracePrefixListing = "listing"
	TracePrefixCmd     = "cmd-mindshare"
)

// ContextHandler 从 ctx 中提取 trace_id 写入每条日志
type ContextHandler struct {
	log.Handler
}

func (h *ContextHandler) Handle(ctx context.Context, r log.Record) error {
	if traceID := TraceID(ctx); traceID != "" {
		r.AddAttrs(log.String(TraceIDKey, traceID))
	}
	return h.Handler.Handle(ctx, r)
}

func (h *ContextHandler) WithAttrs(attrs []log.Attr) log.Handler {
	return &ContextHandler{h.Handler.WithAttrs(attrs)}
}

func (h *ContextHandler) WithGroup(name string) log.Handler {
	return &ContextHandler{h.Handler.WithGroup(name)}
}

// WithTraceID 为后台任务生成 "<prefix>-<uuid>" 形式的 trace_id
func WithTraceID(ctx context.Context, prefix string) context.Context {
	return context.WithValue(ctx, TraceIDKey, prefix+"-"+uuid.NewString())
}

func TraceID(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	traceID, _ := ctx.Value(TraceIDKey).(string)
	return traceID
}
