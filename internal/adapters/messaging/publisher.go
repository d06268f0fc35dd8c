package messaging

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/andrescamacho/quoteflow-go/internal/domain/quote"
	"github.com/andrescamacho/quoteflow-go/internal/domain/shared"
	"github.com/andrescamacho/quoteflow-go/internal/infrastructure/config"
)

// KafkaEventPublisher implements quote.EventPublisher on top of a Kafka topic.
// The message key is the quote request id, so all events of one aggregate land
// on the same partition and stay ordered relative to each other.
type KafkaEventPublisher struct {
	writer *kafka.Writer
	clock  shared.Clock
	logger *zap.Logger
}

// NewKafkaEventPublisher creates a publisher for the quote_events topic
func NewKafkaEventPublisher(cfg *config.MessagingConfig, clock shared.Clock, logger *zap.Logger) *KafkaEventPublisher {
	if clock == nil {
		clock = shared.NewRealClock()
	}
	writer := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers...),
		Topic:        cfg.Topic,
		Balancer:     &kafka.LeastBytes{},
		BatchSize:    cfg.BatchSize,
		BatchTimeout: cfg.BatchTimeout,
		RequiredAcks: kafka.RequireAll,
	}
	return &KafkaEventPublisher{
		writer: writer,
		clock:  clock,
		logger: logger,
	}
}

var _ quote.EventPublisher = (*KafkaEventPublisher)(nil)

// Publish wraps the payload in an envelope and writes it to the topic.
// Callers invoke it only after a successful save, so a returned error means
// state is persisted but the notification side may lag until reconciliation.
func (p *KafkaEventPublisher) Publish(ctx context.Context, routingKey string, payload any) error {
	raw, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	envelope := Envelope{
		ID:          uuid.NewString(),
		RoutingKey:  routingKey,
		PublishedAt: p.clock.Now(),
		Payload:     raw,
	}
	body, err := json.Marshal(envelope)
	if err != nil {
		return err
	}

	msg := kafka.Message{
		Key:   []byte(partitionKey(routingKey, payload)),
		Value: body,
		Headers: []kafka.Header{
			{Key: headerRoutingKey, Value: []byte(routingKey)},
		},
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return err
	}

	p.logger.Debug("event published",
		zap.String("routing_key", routingKey),
		zap.String("message_id", envelope.ID),
	)
	return nil
}

// Close flushes and closes the underlying writer
func (p *KafkaEventPublisher) Close() error {
	return p.writer.Close()
}

// partitionKey keys messages by aggregate so per-aggregate ordering holds
func partitionKey(routingKey string, payload any) string {
	switch ev := payload.(type) {
	case quote.QuoteRequestCreatedEvent:
		return ev.QuoteRequestID
	case quote.ResponseSubmittedEvent:
		return ev.QuoteRequestID
	case quote.ResponseAcceptedEvent:
		return ev.QuoteRequestID
	case quote.QuoteRequestCancelledEvent:
		return ev.QuoteRequestID
	default:
		return routingKey
	}
}
