package kafka

import "github.com/kevinpauljacob/cal/internal/api/config"

func testKafkaConfig() config.KafkaConfig {
	return config.KafkaConfig{
		Brokers:      []string{"localhost:9092"},
		ListingTopic: "listing-created",
		GroupID:      "radar-collector",
		Consumer: config.ConsumerConfig{
			SessionTimeout:    30,
			HeartbeatInterval: 3,
			RebalanceTimeout:  60,
			MaxProcessingTime: 300,
		},
	}
}
