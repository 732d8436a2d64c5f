package service

import (
	"context"
	log "log/slog"
	"time"

	"github.com/kevinpauljacob/cal/internal/pkg/logger"
)

const (
	firstCollectTimeout       = 10 * time.Minute
	firstCollectRetryInterval = 30 * time.Second
)

// ListingCreatedEvent 新项目提交后发布，消费方执行首次采集
type ListingCreatedEvent struct {
	TwitterUsername string    `json:"twitterUsername"`
	CreatedAt       time.Time `json:"createdAt"`
}

type ListingEventPublisher interface {
	PublishListingCreated(ctx context.Context, event *ListingCreatedEvent) error
}

// inlinePublisher 未启用 kafka 时在后台协程中直接执行首次采集，
// 与定时批次共用采集锁，锁被占用时等待
type inlinePublisher struct {
	collector CollectorService
	guard     *CollectionGuard
	wait      time.Duration
}

func NewInlinePublisher(collector CollectorService, guard *CollectionGuard) ListingEventPublisher {
	return &inlinePublisher{collector: collector, guard: guard, wait: firstCollectRetryInterval}
}

func (p *inlinePublisher) PublishListingCreated(_ context.Context, event *ListingCreatedEvent) error {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), firstCollectTimeout)
		defer cancel()
		ctx = logger.WithTraceID(ctx, logger.TracePrefixListing)

		if err := p.collectFirst(ctx, event.TwitterUsername); err != nil {
			log.ErrorContext(ctx, "first collection failed", "username", event.TwitterUsername, "err", err)
		}
	}()
	return nil
}

func (p *inlinePublisher) collectFirst(ctx context.Context, username string) error {
	return p.guard.DoWait(ctx, p.wait, func(ctx context.Context) error {
		_, err := p.collector.CollectByUsername(ctx, username)
		return err
	})
}
