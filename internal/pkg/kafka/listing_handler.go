package kafka

import (
	"context"
	"errors"
	log "log/slog"

	"github.com/kevinpauljacob/cal/internal/model"
	"github.com/kevinpauljacob/cal/internal/pkg/logger"
	"github.com/kevinpauljacob/cal/internal/service"

	"github.com/IBM/sarama"
	"github.com/goccy/go-json"
)

// ListingCreatedHandler 新项目事件，持采集锁执行首次采集。
// 锁被占用时返回 ErrCollectionRunning 交给批处理重试
type ListingCreatedHandler struct {
	collector service.CollectorService
	guard     *service.CollectionGuard
}

func NewListingCreatedHandler(collector service.CollectorService, guard *service.CollectionGuard) *ListingCreatedHandler {
	return &ListingCreatedHandler{
		collector: collector,
		guard:     guard,
	}
}

func (h *ListingCreatedHandler) Setup(sarama.ConsumerGroupSession) error {
	log.Info("listing consumer setup")
	return nil
}

func (h *ListingCreatedHandler) Cleanup(sarama.ConsumerGroupSession) error {
	log.Info("listing consumer cleanup")
	return nil
}

func (h *ListingCreatedHandler) ConsumeClaim(session sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	if err := pullMessageBatch(session, claim, h.logic); err != nil {
		log.Error("listing process batch error", "err", err)
		return err
	}
	return nil
}

func (h *ListingCreatedHandler) logic(ctx context.Context, msg *sarama.ConsumerMessage) error {
	var event service.ListingCreatedEvent
	if err := json.Unmarshal(msg.Value, &event); err != nil || event.TwitterUsername == "" {
		// 格式错误的消息重试无意义
		log.ErrorContext(ctx, "invalid listing event", "offset", msg.Offset, "err", err)
		return nil
	}

	ctx = logger.WithTraceID(ctx, logger.TracePrefixListing)
	var snapshot *model.MindShare
	err := h.guard.Do(ctx, func(ctx context.Context) error {
		var err error
		snapshot, err = h.collector.CollectByUsername(ctx, event.TwitterUsername)
		return err
	})
	switch {
	case errors.Is(err, service.ErrListingNotFound):
		log.WarnContext(ctx, "listing not found for event", "username", event.TwitterUsername)
		return nil
	case err != nil:
		return err
	case snapshot == nil:
		log.InfoContext(ctx, "first collection found no activity", "username", event.TwitterUsername)
	default:
		log.InfoContext(ctx, "first collection recorded", "username", event.TwitterUsername, "tweets", snapshot.TweetCount)
	}
	return nil
}
