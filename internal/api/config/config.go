package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Cfg 全局可访问的配置实例
var Cfg *Config

// LoadConfig 从文件加载配置并填充到 Cfg
func LoadConfig() error {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./configs")

	// RADAR_FEED_API_KEY -> feed.api_key
	v.SetEnvPrefix("radar")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if !errors.As(err, &configFileNotFoundError) {
			return fmt.Errorf("failed to read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return fmt.Errorf("failed to unmarshal config: %w", err)
	}

	Cfg = &cfg

	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)

	v.SetDefault("mongo.url", "mongodb://localhost:27017")
	v.SetDefault("mongo.database", "radar")

	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.pool_size", 10)

	v.SetDefault("feed.base_url", "https://api.twitterapi.io")
	v.SetDefault("feed.api_key", "")
	v.SetDefault("feed.timeout", 20*time.Second)

	v.SetDefault("collector.cron", "0 0 * * * *")
	v.SetDefault("collector.lookback_hours", 24)
	v.SetDefault("collector.delay_min", 500*time.Millisecond)
	v.SetDefault("collector.delay_max", 1500*time.Millisecond)
	v.SetDefault("collector.max_pages", 100)
	v.SetDefault("collector.lock_ttl", 2*time.Hour)

	v.SetDefault("ranking.page_size", 10)
	v.SetDefault("ranking.zero_last", "numeric")

	v.SetDefault("kafka.enable", false)
	v.SetDefault("kafka.listing_topic", "listing-created")
	v.SetDefault("kafka.group_id", "radar-collector")
	v.SetDefault("kafka.consumer.session_timeout", 30)
	v.SetDefault("kafka.consumer.heartbeat_interval", 3)
	v.SetDefault("kafka.consumer.rebalance_timeout", 60)
	v.SetDefault("kafka.consumer.max_processing_time", 300)

	v.SetDefault("oauth.auth_url", "https://twitter.com/i/oauth2/authorize")
	v.SetDefault("oauth.token_url", "https://api.twitter.com/2/oauth2/token")
	v.SetDefault("oauth.user_info_url", "https://api.twitter.com/2/users/me")
	v.SetDefault("oauth.scopes", []string{"tweet.read", "users.read"})

	v.SetDefault("jwt.expiration", 24*time.Hour)
	v.SetDefault("jwt.issuer", "radar")

	v.SetDefault("log.level", "info")
}
