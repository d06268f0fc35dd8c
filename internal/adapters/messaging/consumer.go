package messaging

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	appnotification "github.com/andrescamacho/quoteflow-go/internal/application/notification"
	"github.com/andrescamacho/quoteflow-go/internal/domain/quote"
	"github.com/andrescamacho/quoteflow-go/internal/infrastructure/config"
)

// QuoteEventsConsumer reads envelopes off the quote_events topic and feeds
// the notification projection. Offsets are committed only after the handler
// succeeds, giving at-least-once processing; the projection's idempotent
// inserts absorb the resulting redeliveries.
type QuoteEventsConsumer struct {
	reader     *kafka.Reader
	projection *appnotification.Projection
	logger     *zap.Logger
}

// NewQuoteEventsConsumer creates a consumer bound to the configured group
func NewQuoteEventsConsumer(cfg *config.MessagingConfig, projection *appnotification.Projection, logger *zap.Logger) *QuoteEventsConsumer {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers: cfg.Brokers,
		Topic:   cfg.Topic,
		GroupID: cfg.GroupID,
	})
	return &QuoteEventsConsumer{
		reader:     reader,
		projection: projection,
		logger:     logger,
	}
}

// Run processes messages until the context is cancelled
func (c *QuoteEventsConsumer) Run(ctx context.Context) error {
	c.logger.Info("quote events consumer started")

	for {
		msg, err := c.reader.FetchMessage(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				c.logger.Info("context done, exiting consume loop")
				return nil
			}
			c.logger.Error("error fetching message", zap.Error(err))
			continue
		}

		var envelope Envelope
		if err := json.Unmarshal(msg.Value, &envelope); err != nil {
			// Malformed message; commit so it is not redelivered forever
			c.logger.Error("dropping malformed envelope", zap.Error(err))
			if err := c.reader.CommitMessages(ctx, msg); err != nil {
				c.logger.Error("failed to commit offset", zap.Error(err))
			}
			continue
		}

		if err := c.HandleEnvelope(ctx, envelope); err != nil {
			// Leave the offset uncommitted so the message is redelivered
			c.logger.Error("failed to handle event",
				zap.String("routing_key", envelope.RoutingKey),
				zap.String("message_id", envelope.ID),
				zap.Error(err),
			)
			continue
		}

		if err := c.reader.CommitMessages(ctx, msg); err != nil {
			c.logger.Error("failed to commit offset", zap.Error(err))
		}
	}
}

// HandleEnvelope dispatches one envelope to the projection by routing key
func (c *QuoteEventsConsumer) HandleEnvelope(ctx context.Context, envelope Envelope) error {
	switch envelope.RoutingKey {
	case quote.EventQuoteRequestCreated:
		var event quote.QuoteRequestCreatedEvent
		if err := json.Unmarshal(envelope.Payload, &event); err != nil {
			return err
		}
		return c.projection.HandleQuoteRequestCreated(ctx, event)

	case quote.EventResponseSubmitted:
		var event quote.ResponseSubmittedEvent
		if err := json.Unmarshal(envelope.Payload, &event); err != nil {
			return err
		}
		return c.projection.HandleResponseSubmitted(ctx, event)

	case quote.EventResponseAccepted:
		var event quote.ResponseAcceptedEvent
		if err := json.Unmarshal(envelope.Payload, &event); err != nil {
			return err
		}
		return c.projection.HandleResponseAccepted(ctx, event)

	case quote.EventQuoteRequestCancelled:
		var event quote.QuoteRequestCancelledEvent
		if err := json.Unmarshal(envelope.Payload, &event); err != nil {
			return err
		}
		return c.projection.HandleQuoteRequestCancelled(ctx, event)

	default:
		c.logger.Debug("ignoring event with unknown routing key",
			zap.String("routing_key", envelope.RoutingKey))
		return nil
	}
}

// Close closes the underlying reader
func (c *QuoteEventsConsumer) Close() error {
	return c.reader.Close()
}
