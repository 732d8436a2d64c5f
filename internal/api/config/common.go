package config

import "time"

// Config 配置主体
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Mongo     MongoConfig     `mapstructure:"mongo"`
	Redis     RedisConfig     `mapstructure:"redis"`
	Feed      FeedConfig      `mapstructure:"feed"`
	Collector CollectorConfig `mapstructure:"collector"`
	Ranking   RankingConfig   `mapstructure:"ranking"`
	Kafka     KafkaConfig     `mapstructure:"kafka"`
	OAuth     OAuthConfig     `mapstructure:"oauth"`
	JWT       JWTConfig       `mapstructure:"jwt"`
	Log       LogConfig       `mapstructure:"log"`
	Logstash  LogstashConfig  `mapstructure:"logstash"`
}

// ServerConfig Server配置
type ServerConfig struct {
	Port           int      `mapstructure:"port"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

type MongoConfig struct {
	URL      string `mapstructure:"url"`
	Database string `mapstructure:"database"`
}

type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	PoolSize int    `mapstructure:"pool_size"`
}

// FeedConfig 社交平台搜索接口
type FeedConfig struct {
	BaseURL string        `mapstructure:"base_url"`
	ApiKey  string        `mapstructure:"api_key"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// CollectorConfig 快照采集
type CollectorConfig struct {
	Cron          string        `mapstructure:"cron"`
	LookbackHours int           `mapstructure:"lookback_hours"`
	DelayMin      time.Duration `mapstructure:"delay_min"`
	DelayMax      time.Duration `mapstructure:"delay_max"`
	MaxPages      int           `mapstructure:"max_pages"`
	LockTTL       time.Duration `mapstructure:"lock_ttl"`
}

// RankingConfig 排行榜
type RankingConfig struct {
	PageSize int    `mapstructure:"page_size"`
	ZeroLast string `mapstructure:"zero_last"` // numeric | mindshare | none
}

type KafkaConfig struct {
	Enable       bool           `mapstructure:"enable"`
	Brokers      []string       `mapstructure:"brokers"`
	Sasl         SaslConfig     `mapstructure:"sasl"`
	Consumer     ConsumerConfig `mapstructure:"consumer"`
	ListingTopic string         `mapstructure:"listing_topic"`
	GroupID      string         `mapstructure:"group_id"`
}

type SaslConfig struct {
	Enable   bool   `mapstructure:"enable"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
}

type ConsumerConfig struct {
	SessionTimeout    int `mapstructure:"session_timeout"`
	HeartbeatInterval int `mapstructure:"heartbeat_interval"`
	RebalanceTimeout  int `mapstructure:"rebalance_timeout"`
	MaxProcessingTime int `mapstructure:"max_processing_time"`
}

// OAuthConfig 社交平台 OAuth2 (PKCE)
type OAuthConfig struct {
	ClientID     string   `mapstructure:"client_id"`
	ClientSecret string   `mapstructure:"client_secret"`
	AuthURL      string   `mapstructure:"auth_url"`
	TokenURL     string   `mapstructure:"token_url"`
	RedirectURL  string   `mapstructure:"redirect_url"`
	UserInfoURL  string   `mapstructure:"user_info_url"`
	Scopes       []string `mapstructure:"scopes"`
}

type JWTConfig struct {
	Secret     string        `mapstructure:"secret"`
	Expiration time.Duration `mapstructure:"expiration"`
	Issuer     string        `mapstructure:"issuer"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
}

type LogstashConfig struct {
	Address string `mapstructure:"address"`
	Index   string `mapstructure:"index"`
	Token   string `mapstructure:"token"`
}
