package kafka

import (
	"context"
	log "log/slog"

	"github.com/kevinpauljacob/cal/internal/api/config"
	"github.com/kevinpauljacob/cal/internal/service"

	"github.com/IBM/sarama"
	"github.com/goccy/go-json"
)

// ListingProducer 发布新项目事件
type ListingProducer struct {
	producer sarama.SyncProducer
	topic    string
}

func NewListingProducer(cfg config.KafkaConfig) (*ListingProducer, error) {
	producer, err := sarama.NewSyncProducer(cfg.Brokers, newSaramaConfig(cfg))
	if err != nil {
		return nil, err
	}
	return NewListingProducerWith(producer, cfg.ListingTopic), nil
}

func NewListingProducerWith(producer sarama.SyncProducer, topic string) *ListingProducer {
	return &ListingProducer{producer: producer, topic: topic}
}

// PublishListingCreated 以账号为 key，保证同一项目的事件有序
func (p *ListingProducer) PublishListingCreated(ctx context.Context, event *service.ListingCreatedEvent) error {
	value, err := json.Marshal(event)
	if err != nil {
		return err
	}

	partition, offset, err := p.producer.SendMessage(&sarama.ProducerMessage{
		Topic: p.topic,
		Key:   sarama.StringEncoder(event.TwitterUsername),
		Value: sarama.ByteEncoder(value),
	})
	if err != nil {
		return err
	}
	log.InfoContext(ctx, "listing event published", "username", event.TwitterUsername, "partition", partition, "offset", offset)
	return nil
}

func (p *ListingProducer) Close() error {
	return p.producer.Close()
}
