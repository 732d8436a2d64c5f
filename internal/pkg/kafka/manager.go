package kafka

import (
	"context"
	log "log/slog"

	"github.com/kevinpauljacob/cal/internal/api/config"
	"github.com/kevinpauljacob/cal/internal/service"

	"github.com/IBM/sarama"
)

// ConsumerManager 管理 Kafka 消费者
type ConsumerManager struct {
	listingConsumer sarama.ConsumerGroup
	listingHandler  sarama.ConsumerGroupHandler
	listingTopic    string
}

// NewConsumerManager 构造函数
func NewConsumerManager(cfg config.KafkaConfig, collector service.CollectorService, guard *service.CollectionGuard) (*ConsumerManager, error) {
	listingConsumer, err := sarama.NewConsumerGroup(cfg.Brokers, cfg.GroupID, newSaramaConfig(cfg))
	if err != nil {
		return nil, err
	}

	return &ConsumerManager{
		listingConsumer: listingConsumer,
		listingHandler:  NewListingCreatedHandler(collector, guard),
		listingTopic:    cfg.ListingTopic,
	}, nil
}

// Start 启动消费者，阻塞直到 ctx 结束
func (m *ConsumerManager) Start(ctx context.Context) error {
	go func() {
		for err := range m.listingConsumer.Errors() {
			log.Error("listing consumer error", "err", err)
		}
	}()

	go func() {
		log.Info("listing consumer started", "topic", m.listingTopic)
		for {
			if err := m.listingConsumer.Consume(ctx, []string{m.listingTopic}, m.listingHandler); err != nil {
				log.Error("Error from consumer", "err", err)
			}
			if ctx.Err() != nil {
				return
			}
		}
	}()

	<-ctx.Done()
	log.Info("Kafka Manager shutting down...")

	if err := m.listingConsumer.Close(); err != nil {
		log.Error("Failed to close listing consumer", "err", err)
	}

	return nil
}
