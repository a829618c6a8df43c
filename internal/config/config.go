package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config holds all application configuration
type Config struct {
	DB     DBConfig
	Local  LocalConfig
	Store  StoreConfig
	Notify NotifyConfig
	Enrich EnrichConfig
	Mirror MirrorConfig
	Server ServerConfig
}

// DBConfig holds the remote store (MySQL) configuration
type DBConfig struct {
	Host     string `envconfig:"DB_HOST" default:"localhost"`
	Port     int    `envconfig:"DB_PORT" default:"3306"`
	User     string `envconfig:"DB_USER" default:"root"`
	Password string `envconfig:"DB_PASSWORD" default:""`
	Database string `envconfig:"DB_NAME" default:"streamflix"`
	MaxConns int    `envconfig:"DB_MAX_CONNS" default:"10"`
	Enabled  bool   `envconfig:"DB_ENABLED" default:"true"`
}

// LocalConfig holds the local fallback store configuration
type LocalConfig struct {
	Dir      string `envconfig:"LOCAL_STORE_DIR" default:"./data"`
	InMemory bool   `envconfig:"LOCAL_STORE_IN_MEMORY" default:"false"`
}

// StoreConfig tunes the remote-then-local fallback behavior
type StoreConfig struct {
	RemoteTimeout   time.Duration `envconfig:"STORE_REMOTE_TIMEOUT" default:"5s"`
	BreakerFailures uint32        `envconfig:"STORE_BREAKER_FAILURES" default:"5"`
	BreakerCooldown time.Duration `envconfig:"STORE_BREAKER_COOLDOWN" default:"30s"`
}

// NotifyConfig holds the Telegram admin notifier configuration.
// An empty token disables notifications entirely.
type NotifyConfig struct {
	BotToken    string `envconfig:"NOTIFY_BOT_TOKEN" default:""`
	AdminChatID int64  `envconfig:"NOTIFY_ADMIN_CHAT_ID" default:"0"`
}

// EnrichConfig holds the metadata enrichment configuration
type EnrichConfig struct {
	Enabled   bool          `envconfig:"ENRICH_ENABLED" default:"false"`
	Timeout   time.Duration `envconfig:"ENRICH_TIMEOUT" default:"10s"`
	RateLimit float64       `envconfig:"ENRICH_RATE_LIMIT" default:"1"`
	UserAgent string        `envconfig:"ENRICH_USER_AGENT"`
}

// MirrorConfig holds the periodic remote-to-local mirror configuration
type MirrorConfig struct {
	Enabled  bool          `envconfig:"MIRROR_ENABLED" default:"true"`
	Interval time.Duration `envconfig:"MIRROR_INTERVAL" default:"15m"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Port int `envconfig:"SERVER_PORT" default:"8080"`
}

// DSN returns the MySQL data source name
func (c *DBConfig) DSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		c.User, c.Password, c.Host, c.Port, c.Database)
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	var cfg Config

	if err := envconfig.Process("", &cfg.DB); err != nil {
		return nil, fmt.Errorf("failed to load db config: %w", err)
	}

	if err := envconfig.Process("", &cfg.Local); err != nil {
		return nil, fmt.Errorf("failed to load local store config: %w", err)
	}

	if err := envconfig.Process("", &cfg.Store); err != nil {
		return nil, fmt.Errorf("failed to load store config: %w", err)
	}

	if err := envconfig.Process("", &cfg.Notify); err != nil {
		return nil, fmt.Errorf("failed to load notify config: %w", err)
	}

	if err := envconfig.Process("", &cfg.Enrich); err != nil {
		return nil, fmt.Errorf("failed to load enrich config: %w", err)
	}

	if err := envconfig.Process("", &cfg.Mirror); err != nil {
		return nil, fmt.Errorf("failed to load mirror config: %w", err)
	}

	if err := envconfig.Process("", &cfg.Server); err != nil {
		return nil, fmt.Errorf("failed to load server config: %w", err)
	}

	return &cfg, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.DB.Enabled && c.DB.Host == "" {
		return fmt.Errorf("DB_HOST is required when the remote store is enabled")
	}
	if !c.Local.InMemory && c.Local.Dir == "" {
		return fmt.Errorf("LOCAL_STORE_DIR is required")
	}
	if c.Store.RemoteTimeout <= 0 {
		return fmt.Errorf("STORE_REMOTE_TIMEOUT must be positive")
	}
	if c.Notify.BotToken != "" && c.Notify.AdminChatID == 0 {
		return fmt.Errorf("NOTIFY_ADMIN_CHAT_ID is required when NOTIFY_BOT_TOKEN is set")
	}
	if c.Enrich.Enabled && c.Enrich.RateLimit <= 0 {
		return fmt.Errorf("ENRICH_RATE_LIMIT must be positive")
	}
	if c.Mirror.Enabled && c.Mirror.Interval <= 0 {
		return fmt.Errorf("MIRROR_INTERVAL must be positive")
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("SERVER_PORT must be between 1 and 65535")
	}
	return nil
}
