package service

import (
	"context"
	"errors"
	log "log/slog"
	"time"

	"github.com/kevinpauljacob/cal/internal/pkg/consts"
	"github.com/kevinpauljacob/cal/internal/pkg/redis"

	"github.com/google/uuid"
)

const DefaultCollectLockTTL = 2 * time.Hour

// Locker 分布式锁
type Locker interface {
	TryLock(ctx context.Context, key, owner string, ttl time.Duration) (bool, error)
	Unlock(ctx context.Context, key, owner string)
}

type redisLocker struct{}

func NewRedisLocker() Locker {
	return redisLocker{}
}

func (redisLocker) TryLock(ctx context.Context, key, owner string, ttl time.Duration) (bool, error) {
	return redis.TryLock(ctx, key, owner, ttl, 1)
}

func (redisLocker) Unlock(ctx context.Context, key, owner string) {
	redis.UnLock(ctx, key, owner)
}

// CollectionGuard 所有会翻页请求外部接口的采集 (定时批次、手动触发、新项目首次采集)
// 共用同一把锁，保证任意时刻只有一个采集在翻页
type CollectionGuard struct {
	locker Locker
	ttl    time.Duration
}

func NewCollectionGuard(locker Locker, ttl time.Duration) *CollectionGuard {
	if ttl <= 0 {
		ttl = DefaultCollectLockTTL
	}
	return &CollectionGuard{locker: locker, ttl: ttl}
}

func (g *CollectionGuard) TTL() time.Duration {
	return g.ttl
}

// Do 持锁执行 fn，锁被占用时返回 ErrCollectionRunning
func (g *CollectionGuard) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	owner := uuid.NewString()
	ok, err := g.locker.TryLock(ctx, consts.MindshareCollectLock, owner, g.ttl)
	if err != nil {
		return err
	}
	if !ok {
		return ErrCollectionRunning
	}
	defer g.locker.Unlock(context.WithoutCancel(ctx), consts.MindshareCollectLock, owner)

	return fn(ctx)
}

// DoWait 锁被占用时每隔 interval 重试，直到拿到锁或 ctx 结束
func (g *CollectionGuard) DoWait(ctx context.Context, interval time.Duration, fn func(ctx context.Context) error) error {
	for {
		err := g.Do(ctx, fn)
		if !errors.Is(err, ErrCollectionRunning) {
			return err
		}
		log.InfoContext(ctx, "collection lock busy, waiting", "retry_in", interval)

		timer := time.NewTimer(interval)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
}
