package quote_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/andrescamacho/quoteflow-go/internal/adapters/persistence"
	"github.com/andrescamacho/quoteflow-go/internal/application/common"
	appquote "github.com/andrescamacho/quoteflow-go/internal/application/quote"
	"github.com/andrescamacho/quoteflow-go/internal/domain/quote"
	"github.com/andrescamacho/quoteflow-go/internal/domain/shared"
	"github.com/andrescamacho/quoteflow-go/test/helpers"
)

func seedQuoteRequest(t *testing.T, repo *persistence.GormQuoteRequestRepository, responderIDs ...string) *quote.QuoteRequest {
	t.Helper()
	if len(responderIDs) == 0 {
		responderIDs = []string{"maersk", "cosco", "msc"}
	}
	qr, err := repo.Create(context.Background(), shared.MustNewTenantID("acme"), testVoyage(), responderIDs)
	require.NoError(t, err)
	return qr
}

func TestSubmitResponseHandler(t *testing.T) {
	// Arrange
	repo := newQuoteRepo(t)
	publisher := helpers.NewMockEventPublisher()
	handler := appquote.NewSubmitResponseHandler(repo, publisher, common.NewValidator(), zap.NewNop())
	qr := seedQuoteRequest(t, repo)

	// Act
	result, err := handler.Handle(context.Background(), &appquote.SubmitResponseCommand{
		QuoteRequestID: qr.ID(),
		ResponderID:    "maersk",
		Price:          125000,
		Comments:       "direct routing",
	})

	// Assert
	require.NoError(t, err)
	response := result.(*appquote.SubmitResponseResponse)

	assignment, ok := response.QuoteRequest.FindResponder("maersk")
	require.True(t, ok)
	assert.Equal(t, quote.AssignmentSubmitted, assignment.Status())
	require.NotNil(t, assignment.Price())
	assert.Equal(t, 125000.0, *assignment.Price())

	// Top-level status does not change on submit
	assert.Equal(t, quote.StatusPending, response.QuoteRequest.Status())

	events := publisher.EventsWithKey(quote.EventResponseSubmitted)
	require.Len(t, events, 1)
	event := events[0].Payload.(quote.ResponseSubmittedEvent)
	assert.Equal(t, qr.ID(), event.QuoteRequestID)
	assert.Equal(t, "maersk", event.ResponderID)
	assert.Equal(t, 125000.0, event.Price)
}

func TestSubmitResponseHandler_Resubmission(t *testing.T) {
	// Arrange
	repo := newQuoteRepo(t)
	publisher := helpers.NewMockEventPublisher()
	handler := appquote.NewSubmitResponseHandler(repo, publisher, common.NewValidator(), zap.NewNop())
	qr := seedQuoteRequest(t, repo)

	cmd := &appquote.SubmitResponseCommand{
		QuoteRequestID: qr.ID(),
		ResponderID:    "maersk",
		Price:          125000,
	}
	_, err := handler.Handle(context.Background(), cmd)
	require.NoError(t, err)
	publisher.Reset()

	// Act: same responder submits again with a different price
	cmd.Price = 99000
	_, err = handler.Handle(context.Background(), cmd)

	// Assert: rejected, the original price survives, no second event
	require.Error(t, err)
	assert.True(t, quote.IsKind(err, quote.KindAlreadySubmitted))
	assert.Empty(t, publisher.Published)

	found, findErr := repo.FindByID(context.Background(), qr.ID())
	require.NoError(t, findErr)
	assignment, _ := found.FindResponder("maersk")
	assert.Equal(t, 125000.0, *assignment.Price())
}

func TestSubmitResponseHandler_Errors(t *testing.T) {
	repo := newQuoteRepo(t)
	publisher := helpers.NewMockEventPublisher()
	handler := appquote.NewSubmitResponseHandler(repo, publisher, common.NewValidator(), zap.NewNop())
	qr := seedQuoteRequest(t, repo)

	t.Run("unknown quote request", func(t *testing.T) {
		_, err := handler.Handle(context.Background(), &appquote.SubmitResponseCommand{
			QuoteRequestID: "missing-id",
			ResponderID:    "maersk",
			Price:          100,
		})

		require.Error(t, err)
		assert.True(t, quote.IsKind(err, quote.KindNotFound))
	})

	t.Run("responder not invited", func(t *testing.T) {
		_, err := handler.Handle(context.Background(), &appquote.SubmitResponseCommand{
			QuoteRequestID: qr.ID(),
			ResponderID:    "evergreen",
			Price:          100,
		})

		require.Error(t, err)
		assert.True(t, quote.IsKind(err, quote.KindResponderNotFound))
	})

	t.Run("non-positive price", func(t *testing.T) {
		_, err := handler.Handle(context.Background(), &appquote.SubmitResponseCommand{
			QuoteRequestID: qr.ID(),
			ResponderID:    "maersk",
			Price:          0,
		})

		require.Error(t, err)
		assert.True(t, quote.IsKind(err, quote.KindValidation))
	})

	assert.Empty(t, publisher.Published)
}

func TestSubmitResponseHandler_CancelledAssignment(t *testing.T) {
	// Arrange: the whole request was cancelled before maersk responded
	repo := newQuoteRepo(t)
	publisher := helpers.NewMockEventPublisher()
	handler := appquote.NewSubmitResponseHandler(repo, publisher, common.NewValidator(), zap.NewNop())
	qr := seedQuoteRequest(t, repo)

	loaded, err := repo.FindByID(context.Background(), qr.ID())
	require.NoError(t, err)
	require.NoError(t, loaded.Cancel())
	_, err = repo.Save(context.Background(), loaded)
	require.NoError(t, err)

	// Act
	_, err = handler.Handle(context.Background(), &appquote.SubmitResponseCommand{
		QuoteRequestID: qr.ID(),
		ResponderID:    "maersk",
		Price:          125000,
	})

	// Assert
	require.Error(t, err)
	assert.True(t, quote.IsKind(err, quote.KindAlreadySubmitted))
	assert.Empty(t, publisher.Published)
}
