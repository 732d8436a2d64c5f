package logger

import (
	"context"
	"errors"
	log "log/slog"
)

// TeeHandler 将日志分发到多个 Handler，单个 Handler 失败不影响其余输出
type TeeHandler struct {
	handlers []log.Handler
}

func (s *TeeHandler) Enabled(ctx context.Context, level log.Level) bool {
	for _, h := range s.handlers {
		if h.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

func (s *TeeHandler) Handle(ctx context.Context, r log.Record) error {
	var errs []error
	for _, h := range s.handlers {
		if !h.Enabled(ctx, r.Level) {
			continue
		}
		if err := h.Handle(ctx, r.Clone()); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (s *TeeHandler) WithAttrs(attrs []log.Attr) log.Handler {
	return &TeeHandler{handlers: s.each(func(h log.Handler) log.Handler { return h.WithAttrs(attrs) })}
}

func (s *TeeHandler) WithGroup(name string) log.Handler {
	return &TeeHandler{handlers: s.each(func(h log.Handler) log.Handler { return h.WithGroup(name) })}
}

func (s *TeeHandler) each(fn func(log.Handler) log.Handler) []log.Handler {
	out := make([]log.Handler, len(s.handlers))
	for i, h := range s.handlers {
		out[i] = fn(h)
	}
	return out
}

// TraceOnlyHandler 只放行带 trace_id 的记录 (请求、采集任务、事件消费)，
// 启动期日志不上报远端
type TraceOnlyHandler struct {
	next log.Handler
}

func (s *TraceOnlyHandler) Enabled(ctx context.Context, level log.Level) bool {
	return TraceID(ctx) != "" && s.next.Enabled(ctx, level)
}

func (s *TraceOnlyHandler) Handle(ctx context.Context, r log.Record) error {
	if TraceID(ctx) == "" {
		return nil
	}
	return s.next.Handle(ctx, r)
}

func (s *TraceOnlyHandler) WithAttrs(attrs []log.Attr) log.Handler {
	return &TraceOnlyHandler{next: s.next.WithAttrs(attrs)}
}

func (s *TraceOnlyHandler) WithGroup(name string) log.Handler {
	return &TraceOnlyHandler{next: s.next.WithGroup(name)}
}
