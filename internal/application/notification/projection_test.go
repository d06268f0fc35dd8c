package notification_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/andrescamacho/quoteflow-go/internal/adapters/persistence"
	appnotification "github.com/andrescamacho/quoteflow-go/internal/application/notification"
	"github.com/andrescamacho/quoteflow-go/internal/domain/notification"
	"github.com/andrescamacho/quoteflow-go/internal/domain/quote"
	"github.com/andrescamacho/quoteflow-go/internal/domain/shared"
	"github.com/andrescamacho/quoteflow-go/test/helpers"
)

func newProjection(t *testing.T) (*appnotification.Projection, notification.Repository) {
	t.Helper()
	db := helpers.NewTestDB(t)
	repo := persistence.NewGormNotificationRepository(db)
	clock := shared.NewMockClock(time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC))
	return appnotification.NewProjection(repo, clock, zap.NewNop()), repo
}

func createdEvent() quote.QuoteRequestCreatedEvent {
	return quote.QuoteRequestCreatedEvent{
		QuoteRequestID: "qr-1",
		RequesterID:    "acme",
		ResponderIDs:   []string{"maersk", "cosco"},
		VoyageData: quote.VoyageData{
			DeparturePort:   quote.Port{Code: "SGSIN", Name: "Singapore"},
			DestinationPort: quote.Port{Code: "NLRTM", Name: "Rotterdam"},
			CargoType:       quote.CargoTypeContainer,
			CargoWeight:     18000,
			VesselType:      quote.VesselTypeContainerShip,
			DepartureDate:   time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
		},
	}
}

func TestProjection_QuoteRequestCreated(t *testing.T) {
	// Arrange
	projection, repo := newProjection(t)

	// Act
	err := projection.HandleQuoteRequestCreated(context.Background(), createdEvent())

	// Assert: one notification per invited responder
	require.NoError(t, err)
	for _, tenant := range []string{"maersk", "cosco"} {
		found, err := repo.FindByTenantID(context.Background(), tenant, 10, 0)
		require.NoError(t, err)
		require.Len(t, found, 1)
		assert.Equal(t, notification.TypeQuoteRequestCreated, found[0].Type)
		assert.Equal(t, "qr-1", found[0].RelatedEntityID)
		assert.Equal(t, "acme", found[0].Metadata["requesterId"])
		assert.Contains(t, found[0].Content, "Singapore")
	}
}

func TestProjection_RedeliveryIsIdempotent(t *testing.T) {
	// Arrange
	projection, repo := newProjection(t)
	event := createdEvent()
	require.NoError(t, projection.HandleQuoteRequestCreated(context.Background(), event))

	// Act: the broker redelivers the same event
	err := projection.HandleQuoteRequestCreated(context.Background(), event)

	// Assert: still exactly one notification per responder
	require.NoError(t, err)
	for _, tenant := range []string{"maersk", "cosco"} {
		found, err := repo.FindByTenantID(context.Background(), tenant, 10, 0)
		require.NoError(t, err)
		assert.Len(t, found, 1)
	}
}

func TestProjection_ResponseSubmitted(t *testing.T) {
	// Arrange: the created event has seeded the requester metadata
	projection, repo := newProjection(t)
	require.NoError(t, projection.HandleQuoteRequestCreated(context.Background(), createdEvent()))

	// Act
	err := projection.HandleResponseSubmitted(context.Background(), quote.ResponseSubmittedEvent{
		QuoteRequestID: "qr-1",
		ResponderID:    "maersk",
		Price:          125000,
		Comments:       "direct routing",
	})

	// Assert: the requester is resolved from the created-notification metadata
	require.NoError(t, err)
	found, err := repo.FindByTenantID(context.Background(), "acme", 10, 0)
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, notification.TypeQuoteResponseSubmitted, found[0].Type)
	assert.Equal(t, "maersk", found[0].Metadata["responderId"])
	assert.Contains(t, found[0].Content, "125000.00")
}

func TestProjection_ResponseSubmitted_UnknownRequester(t *testing.T) {
	// Arrange: out-of-order delivery, the created event never arrived
	projection, repo := newProjection(t)

	// Act
	err := projection.HandleResponseSubmitted(context.Background(), quote.ResponseSubmittedEvent{
		QuoteRequestID: "qr-unknown",
		ResponderID:    "maersk",
		Price:          100,
	})

	// Assert: swallowed, not retried forever
	require.NoError(t, err)
	found, err := repo.FindByTenantID(context.Background(), "acme", 10, 0)
	require.NoError(t, err)
	assert.Empty(t, found)
}

func TestProjection_ResponseAccepted(t *testing.T) {
	// Arrange
	projection, repo := newProjection(t)

	// Act
	err := projection.HandleResponseAccepted(context.Background(), quote.ResponseAcceptedEvent{
		QuoteRequestID:       "qr-1",
		ResponderID:          "cosco",
		RejectedResponderIDs: []string{"maersk", "msc"},
	})

	// Assert
	require.NoError(t, err)

	accepted, err := repo.FindByTenantID(context.Background(), "cosco", 10, 0)
	require.NoError(t, err)
	require.Len(t, accepted, 1)
	assert.Equal(t, notification.TypeQuoteResponseAccepted, accepted[0].Type)

	for _, tenant := range []string{"maersk", "msc"} {
		rejected, err := repo.FindByTenantID(context.Background(), tenant, 10, 0)
		require.NoError(t, err)
		require.Len(t, rejected, 1)
		assert.Equal(t, notification.TypeQuoteResponseRejected, rejected[0].Type)
	}
}

func TestProjection_QuoteRequestCancelled(t *testing.T) {
	// Arrange
	projection, repo := newProjection(t)

	// Act
	err := projection.HandleQuoteRequestCancelled(context.Background(), quote.QuoteRequestCancelledEvent{
		QuoteRequestID: "qr-1",
		ResponderIDs:   []string{"maersk", "cosco"},
	})

	// Assert
	require.NoError(t, err)
	for _, tenant := range []string{"maersk", "cosco"} {
		found, err := repo.FindByTenantID(context.Background(), tenant, 10, 0)
		require.NoError(t, err)
		require.Len(t, found, 1)
		assert.Equal(t, notification.TypeQuoteRequestCancelled, found[0].Type)
	}
}

func TestNotificationService_ReadSide(t *testing.T) {
	// Arrange
	projection, repo := newProjection(t)
	service := appnotification.NewService(repo)
	require.NoError(t, projection.HandleQuoteRequestCreated(context.Background(), createdEvent()))

	// Act / Assert
	count, err := service.CountUnread(context.Background(), "maersk")
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	listed, err := service.ListByTenant(context.Background(), "maersk", 10, 0)
	require.NoError(t, err)
	require.Len(t, listed, 1)

	require.NoError(t, service.MarkAsRead(context.Background(), listed[0].ID))
	count, err = service.CountUnread(context.Background(), "maersk")
	require.NoError(t, err)
	assert.Equal(t, int64(0), count)
}
