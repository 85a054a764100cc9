package configuration

import (
	"time"
)

type Config struct {
	Service    ServiceConfig    `yaml:"service"`
	Telegram   TelegramConfig   `yaml:"telegram"`
	Appwrite   AppwriteConfig   `yaml:"appwrite"`
	Redis      RedisConfig      `yaml:"redis"`
	Reconciler ReconcilerConfig `yaml:"reconciler"`
	Operators  OperatorsConfig  `yaml:"operators"`
	Catalog    CatalogConfig    `yaml:"catalog"`
	Proxy      ProxyConfig      `yaml:"proxy"`
	Throttler  ThrottlerConfig  `yaml:"throttler"`
	Features   FeaturesConfig   `yaml:"features"`
}

type ServiceConfig struct {
	StartupPort int `yaml:"startup_port"`
	MetricsPort int `yaml:"metrics_port"`
}

type TelegramConfig struct {
	BotToken          string   `yaml:"bot_token"`
	APIEndpoint       string   `yaml:"api_endpoint"`
	PollerTimeout     int      `yaml:"poller_timeout"`
	AllowedUpdates    []string `yaml:"allowed_updates"`
	DiplomatChunkSize int      `yaml:"diplomat_chunk_size"`
}

type AppwriteConfig struct {
	Endpoint     string        `yaml:"endpoint"`
	ProjectID    string        `yaml:"project_id"`
	APIKey       string        `yaml:"api_key"`
	DatabaseID   string        `yaml:"database_id"`
	CollectionID string        `yaml:"collection_id"`
	Timeout      time.Duration `yaml:"timeout"`
}

type RedisConfig struct {
	Host        string        `yaml:"host"`
	Port        int           `yaml:"port"`
	Password    string        `yaml:"password"`
	DB          int           `yaml:"db"`
	MaxRetries  int           `yaml:"max_retries"`
	DialTimeout time.Duration `yaml:"dial_timeout"`
}

type ReconcilerConfig struct {
	StoreTimeout  time.Duration `yaml:"store_timeout"`
	StoreAttempts uint64        `yaml:"store_attempts"`
	RetryBackoff  time.Duration `yaml:"retry_backoff"`
}

type OperatorsConfig struct {
	ChatIDs []int64 `yaml:"chat_ids"`
}

type CatalogConfig struct {
	Offers []OfferConfig `yaml:"offers"`
}

type OfferConfig struct {
	ID             string `yaml:"id"`
	Name           string `yaml:"name"`
	PriceStars     int    `yaml:"price_stars"`
	Description    string `yaml:"description"`
	PowerIncrement string `yaml:"power_increment"`
}

type ProxyConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Address  string `yaml:"address"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
}

type ThrottlerConfig struct {
	Limit time.Duration `yaml:"limit"`
}

type FeaturesConfig struct {
	UnleashAPIURL     string `yaml:"unleash_api_url"`
	UnleashAppName    string `yaml:"unleash_app_name"`
	UnleashInstanceID string `yaml:"unleash_instance_id"`
	RefreshInterval   int    `yaml:"refresh_interval"`
}
