package config

import (
	"time"

	"github.com/andrescamacho/quoteflow-go/internal/domain/quote"
)

// SetDefaults fills in zero-valued fields with sensible defaults
func SetDefaults(cfg *Config) {
	if cfg.Database.Type == "" {
		cfg.Database.Type = "sqlite"
	}
	if cfg.Database.Path == "" {
		cfg.Database.Path = "quoteflow.db"
	}
	if cfg.Database.Host == "" {
		cfg.Database.Host = "localhost"
	}
	if cfg.Database.Port == 0 {
		cfg.Database.Port = 5432
	}
	if cfg.Database.SSLMode == "" {
		cfg.Database.SSLMode = "disable"
	}
	if cfg.Database.Pool.MaxOpenConns == 0 {
		cfg.Database.Pool.MaxOpenConns = 10
	}
	if cfg.Database.Pool.MaxIdleConns == 0 {
		cfg.Database.Pool.MaxIdleConns = 5
	}
	if cfg.Database.Pool.ConnMaxLifetime == 0 {
		cfg.Database.Pool.ConnMaxLifetime = 1800
	}

	if len(cfg.Messaging.Brokers) == 0 {
		cfg.Messaging.Brokers = []string{"localhost:9092"}
	}
	if cfg.Messaging.Topic == "" {
		cfg.Messaging.Topic = quote.TopicQuoteEvents
	}
	if cfg.Messaging.GroupID == "" {
		cfg.Messaging.GroupID = "notification-projection"
	}
	if cfg.Messaging.BatchSize == 0 {
		cfg.Messaging.BatchSize = 100
	}
	if cfg.Messaging.BatchTimeout == 0 {
		cfg.Messaging.BatchTimeout = 10 * time.Millisecond
	}

	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "json"
	}
	if cfg.Logging.Output == "" {
		cfg.Logging.Output = "stdout"
	}
}
