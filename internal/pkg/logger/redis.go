package logger

import (
	"context"
	"errors"
	"fmt"
	log "log/slog"
	"net"
	"strings"
	"time"

	"github.com/kevinpauljacob/cal/internal/pkg/consts"
	"github.com/kevinpauljacob/cal/internal/pkg/metrics"

	"github.com/redis/go-redis/v9"
)

const redisSlowThreshold = 100 * time.Millisecond

// 这些 key 下的值为 PKCE verifier 或登录令牌签名
var redisSecretPrefixes = []string{consts.OAuthPKCEKey, consts.TokenBlacklistKey}

type RedisLoggerHook struct{}

func NewRedisLogger() *RedisLoggerHook {
	return &RedisLoggerHook{}
}

func (s *RedisLoggerHook) DialHook(next redis.DialHook) redis.DialHook {
	return func(ctx context.Context, network, addr string) (net.Conn, error) {
		start := time.Now()
		conn, err := next(ctx, network, addr)
		if err != nil {
			log.ErrorContext(ctx, "Redis Dial Error",
				log.String("addr", addr),
				log.Duration("latency", time.Since(start)),
				log.Any("err", err),
			)
		}
		return conn, err
	}
}

func (s *RedisLoggerHook) ProcessHook(next redis.ProcessHook) redis.ProcessHook {
	return func(ctx context.Context, cmd redis.Cmder) error {
		start := time.Now()
		err := next(ctx, cmd)
		elapsed := time.Since(start)

		cmdName := cmd.Name()
		if isBenignRedisError(cmdName, err) {
			metrics.StoreCommands.WithLabelValues(metrics.StoreRedis, cmdName, metrics.CommandOK).Observe(elapsed.Seconds())
			return err
		}

		fields := []any{
			log.String("command", cmdName),
			log.String("args", RedisArgs(cmd.Args())),
			log.Duration("latency", elapsed),
		}

		if err != nil {
			metrics.StoreCommands.WithLabelValues(metrics.StoreRedis, cmdName, metrics.CommandError).Observe(elapsed.Seconds())
			log.ErrorContext(ctx, "Redis Error", append(fields, log.Any("err", err))...)
			return err
		}

		metrics.StoreCommands.WithLabelValues(metrics.StoreRedis, cmdName, metrics.CommandOK).Observe(elapsed.Seconds())
		if elapsed > redisSlowThreshold {
			log.WarnContext(ctx, "Redis Slow", fields...)
		}
		return nil
	}
}

func (s *RedisLoggerHook) ProcessPipelineHook(next redis.ProcessPipelineHook) redis.ProcessPipelineHook {
	return func(ctx context.Context, cmds []redis.Cmder) error {
		start := time.Now()
		err := next(ctx, cmds)
		if err != nil {
			log.ErrorContext(ctx, "Redis Pipeline Error",
				log.Int("cmd_count", len(cmds)),
				log.Duration("latency", time.Since(start)),
				log.Any("err", err))
		}
		return err
	}
}

// RedisArgs 格式化命令参数，认证命令与敏感 key 之后的值被隐藏
func RedisArgs(args []any) string {
	if len(args) == 0 {
		return "[]"
	}
	name, _ := args[0].(string)
	switch strings.ToLower(name) {
	case "auth", "hello":
		return "[PROTECTED]"
	}

	parts := make([]string, len(args))
	secret := false
	for i, a := range args {
		if secret && i >= 2 {
			parts[i] = "[PROTECTED]"
			continue
		}
		parts[i] = fmt.Sprint(a)
		if i == 1 {
			for _, prefix := range redisSecretPrefixes {
				if strings.HasPrefix(parts[i], prefix) {
					secret = true
				}
			}
		}
	}
	return "[" + strings.Join(parts, " ") + "]"
}

// 缓存未命中与 CLIENT SETINFO 不被支持都属于正常情况
func isBenignRedisError(cmdName string, err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, redis.Nil) {
		return true
	}
	return cmdName == "client" && strings.Contains(err.Error(), "setinfo")
}
