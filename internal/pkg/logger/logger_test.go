package logger

import (
	"bytes"
	"context"
	log "log/slog"
	"strings"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedisArgsHidesSecrets(t *testing.T) {
	tests := []struct {
		name string
		args []any
		want string
	}{
		{"auth", []any{"auth", "user", "pass"}, "[PROTECTED]"},
		{"pkce value", []any{"set", "oauth:pkce:abc", "verifier", "ex", 600}, "[set oauth:pkce:abc [PROTECTED] [PROTECTED] [PROTECTED]]"},
		{"blacklist", []any{"set", "auth:blacklist:sig", "1"}, "[set auth:blacklist:sig [PROTECTED]]"},
		{"plain", []any{"get", "mindshare:trending:24h"}, "[get mindshare:trending:24h]"},
		{"empty", nil, "[]"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, RedisArgs(tt.args))
		})
	}
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, log.LevelDebug, ParseLevel("DEBUG"))
	assert.Equal(t, log.LevelWarn, ParseLevel(" warning "))
	assert.Equal(t, log.LevelError, ParseLevel("error"))
	assert.Equal(t, log.LevelInfo, ParseLevel("verbose"))
}

func TestContextHandlerAddsTraceID(t *testing.T) {
	var buf bytes.Buffer
	l := log.New(&ContextHandler{log.NewJSONHandler(&buf, nil)})

	ctx := WithTraceID(context.Background(), TracePrefixJob)
	l.InfoContext(ctx, "collected")

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	traceID, _ := rec[TraceIDKey].(string)
	assert.True(t, strings.HasPrefix(traceID, TracePrefixJob+"-"))
	assert.Equal(t, TraceID(ctx), traceID)
}

func TestTeeHandlerForwardsOnlyTracedRecordsRemotely(t *testing.T) {
	var local, remote bytes.Buffer
	h := &TeeHandler{handlers: []log.Handler{
		log.NewJSONHandler(&local, nil),
		&TraceOnlyHandler{next: log.NewJSONHandler(&remote, nil)},
	}}
	l := log.New(&ContextHandler{h})

	l.Info("startup")
	assert.Contains(t, local.String(), "startup")
	assert.Empty(t, remote.String())

	l.InfoContext(WithTraceID(context.Background(), TracePrefixListing), "first collection")
	assert.Contains(t, local.String(), "first collection")
	assert.Contains(t, remote.String(), "first collection")
}

func TestTraceIDMissing(t *testing.T) {
	assert.Empty(t, TraceID(context.Background()))
}
