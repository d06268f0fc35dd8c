package config

import "time"

// MessagingConfig holds the Kafka settings shared by publisher and consumer
type MessagingConfig struct {
	Brokers      []string      `mapstructure:"brokers" validate:"required,min=1"`
	Topic        string        `mapstructure:"topic" validate:"required"`
	GroupID      string        `mapstructure:"group_id" validate:"required"`
	BatchSize    int           `mapstructure:"batch_size" validate:"min=1"`
	BatchTimeout time.Duration `mapstructure:"batch_timeout"`
}
