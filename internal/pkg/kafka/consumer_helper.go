package kafka

import (
	"context"
	log "log/slog"
	"time"

	"github.com/IBM/sarama"
)

const (
	batchSize     = 32
	batchTimeout  = 1 * time.Second
	maxRetries    = 3
	retryInterval = 500 * time.Millisecond
)

type LogicFunc func(ctx context.Context, msg *sarama.ConsumerMessage) error

// pullMessageBatch 拉取一批消息并执行业务逻辑
func pullMessageBatch(session sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim, logic LogicFunc) error {
	batch := make([]*sarama.ConsumerMessage, 0, batchSize)
	ticker := time.NewTicker(batchTimeout)
	defer ticker.Stop()
	for {
		select {
		case msg, ok := <-claim.Messages():
			if !ok {
				if len(batch) > 0 {
					processBatch(session, batch, logic)
				}
				return nil
			}
			batch = append(batch, msg)
			if len(batch) >= batchSize {
				processBatch(session, batch, logic)
				// 清空缓冲区 & 重置定时器
				batch = make([]*sarama.ConsumerMessage, 0, batchSize)
				ticker.Reset(batchTimeout)
			}
		case <-ticker.C:
			if len(batch) > 0 {
				processBatch(session, batch, logic)
				batch = make([]*sarama.ConsumerMessage, 0, batchSize)
			}
		case <-session.Context().Done():
			return nil
		}
	}
}

// processBatch 顺序处理一批消息，外部接口有限流，不能并发
// 每条消息最多重试 maxRetries 次，仍失败则记录日志后跳过，由下一次定时采集兜底
func processBatch(session sarama.ConsumerGroupSession, messages []*sarama.ConsumerMessage, logic LogicFunc) {
	ctx := session.Context()

	for _, msg := range messages {
		interval := retryInterval
		for attempt := 1; ; attempt++ {
			err := logic(ctx, msg)
			if err == nil {
				break
			}
			if ctx.Err() != nil {
				return
			}
			if attempt >= maxRetries {
				log.ErrorContext(ctx, "drop message after retries",
					"topic", msg.Topic, "partition", msg.Partition, "offset", msg.Offset, "err", err)
				break
			}

			log.WarnContext(ctx, "process message error", "attempt", attempt, "err", err)
			select {
			case <-ctx.Done():
				return
			case <-time.After(interval):
			}
			interval *= 2
		}
		session.MarkMessage(msg, "")
	}
	session.Commit()
}
