package messaging_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/andrescamacho/quoteflow-go/internal/adapters/messaging"
	"github.com/andrescamacho/quoteflow-go/internal/adapters/persistence"
	appnotification "github.com/andrescamacho/quoteflow-go/internal/application/notification"
	"github.com/andrescamacho/quoteflow-go/internal/domain/notification"
	"github.com/andrescamacho/quoteflow-go/internal/domain/quote"
	"github.com/andrescamacho/quoteflow-go/internal/domain/shared"
	"github.com/andrescamacho/quoteflow-go/internal/infrastructure/config"
	"github.com/andrescamacho/quoteflow-go/test/helpers"
)

func newConsumer(t *testing.T) (*messaging.QuoteEventsConsumer, notification.Repository) {
	t.Helper()
	db := helpers.NewTestDB(t)
	repo := persistence.NewGormNotificationRepository(db)
	clock := shared.NewMockClock(time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC))
	projection := appnotification.NewProjection(repo, clock, zap.NewNop())

	consumer := messaging.NewQuoteEventsConsumer(&config.MessagingConfig{
		Brokers: []string{"localhost:9092"},
		Topic:   quote.TopicQuoteEvents,
		GroupID: "test-group",
	}, projection, zap.NewNop())
	t.Cleanup(func() { consumer.Close() })

	return consumer, repo
}

func envelopeFor(t *testing.T, routingKey string, payload any) messaging.Envelope {
	t.Helper()
	raw, err := json.Marshal(payload)
	require.NoError(t, err)
	return messaging.Envelope{
		ID:          uuid.NewString(),
		RoutingKey:  routingKey,
		PublishedAt: time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC),
		Payload:     raw,
	}
}

func TestConsumer_DispatchesCreatedEvent(t *testing.T) {
	// Arrange
	consumer, repo := newConsumer(t)
	envelope := envelopeFor(t, quote.EventQuoteRequestCreated, quote.QuoteRequestCreatedEvent{
		QuoteRequestID: "qr-1",
		RequesterID:    "acme",
		ResponderIDs:   []string{"maersk"},
	})

	// Act
	err := consumer.HandleEnvelope(context.Background(), envelope)

	// Assert
	require.NoError(t, err)
	found, err := repo.FindByTenantID(context.Background(), "maersk", 10, 0)
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, notification.TypeQuoteRequestCreated, found[0].Type)
}

func TestConsumer_DispatchesAcceptedEvent(t *testing.T) {
	// Arrange
	consumer, repo := newConsumer(t)
	envelope := envelopeFor(t, quote.EventResponseAccepted, quote.ResponseAcceptedEvent{
		QuoteRequestID:       "qr-1",
		ResponderID:          "cosco",
		RejectedResponderIDs: []string{"maersk"},
	})

	// Act
	err := consumer.HandleEnvelope(context.Background(), envelope)

	// Assert
	require.NoError(t, err)
	accepted, err := repo.FindByTenantID(context.Background(), "cosco", 10, 0)
	require.NoError(t, err)
	require.Len(t, accepted, 1)
	assert.Equal(t, notification.TypeQuoteResponseAccepted, accepted[0].Type)

	rejected, err := repo.FindByTenantID(context.Background(), "maersk", 10, 0)
	require.NoError(t, err)
	require.Len(t, rejected, 1)
	assert.Equal(t, notification.TypeQuoteResponseRejected, rejected[0].Type)
}

func TestConsumer_DispatchesCancelledEvent(t *testing.T) {
	// Arrange
	consumer, repo := newConsumer(t)
	envelope := envelopeFor(t, quote.EventQuoteRequestCancelled, quote.QuoteRequestCancelledEvent{
		QuoteRequestID: "qr-1",
		ResponderIDs:   []string{"maersk", "cosco"},
	})

	// Act
	err := consumer.HandleEnvelope(context.Background(), envelope)

	// Assert
	require.NoError(t, err)
	for _, tenant := range []string{"maersk", "cosco"} {
		found, err := repo.FindByTenantID(context.Background(), tenant, 10, 0)
		require.NoError(t, err)
		assert.Len(t, found, 1)
	}
}

func TestConsumer_IgnoresUnknownRoutingKey(t *testing.T) {
	// Arrange
	consumer, repo := newConsumer(t)
	envelope := envelopeFor(t, "quote_request.relabeled", map[string]string{"quoteRequestId": "qr-1"})

	// Act
	err := consumer.HandleEnvelope(context.Background(), envelope)

	// Assert: unknown keys are skipped, not failed, so the offset commits
	require.NoError(t, err)
	found, err := repo.FindByTenantID(context.Background(), "maersk", 10, 0)
	require.NoError(t, err)
	assert.Empty(t, found)
}

func TestConsumer_MalformedPayloadFails(t *testing.T) {
	// Arrange
	consumer, _ := newConsumer(t)
	envelope := messaging.Envelope{
		ID:         uuid.NewString(),
		RoutingKey: quote.EventQuoteRequestCreated,
		Payload:    json.RawMessage(`{"quoteRequestId":`),
	}

	// Act
	err := consumer.HandleEnvelope(context.Background(), envelope)

	// Assert
	require.Error(t, err)
}

func TestEnvelope_RoundTrip(t *testing.T) {
	// Arrange
	envelope := envelopeFor(t, quote.EventResponseSubmitted, quote.ResponseSubmittedEvent{
		QuoteRequestID: "qr-1",
		ResponderID:    "maersk",
		Price:          125000,
		Comments:       "direct routing",
	})

	// Act
	body, err := json.Marshal(envelope)
	require.NoError(t, err)
	var decoded messaging.Envelope
	require.NoError(t, json.Unmarshal(body, &decoded))

	// Assert
	assert.Equal(t, envelope.ID, decoded.ID)
	assert.Equal(t, envelope.RoutingKey, decoded.RoutingKey)

	var event quote.ResponseSubmittedEvent
	require.NoError(t, json.Unmarshal(decoded.Payload, &event))
	assert.Equal(t, 125000.0, event.Price)
	assert.Equal(t, "maersk", event.ResponderID)
}
