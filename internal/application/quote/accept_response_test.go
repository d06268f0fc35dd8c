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
	"github.com/andrescamacho/quoteflow-go/test/helpers"
)

func submitViaRepo(t *testing.T, repo *persistence.GormQuoteRequestRepository, quoteRequestID, responderID string, price float64) {
	t.Helper()
	loaded, err := repo.FindByID(context.Background(), quoteRequestID)
	require.NoError(t, err)
	assignment, ok := loaded.FindResponder(responderID)
	require.True(t, ok)
	require.NoError(t, assignment.SubmitResponse(price, ""))
	_, err = repo.Save(context.Background(), loaded)
	require.NoError(t, err)
}

func TestAcceptResponseHandler(t *testing.T) {
	// Arrange: two submitted responses, one still pending
	repo := newQuoteRepo(t)
	publisher := helpers.NewMockEventPublisher()
	handler := appquote.NewAcceptResponseHandler(repo, publisher, common.NewValidator(), zap.NewNop())
	qr := seedQuoteRequest(t, repo)
	submitViaRepo(t, repo, qr.ID(), "maersk", 125000)
	submitViaRepo(t, repo, qr.ID(), "cosco", 118000)

	// Act
	result, err := handler.Handle(context.Background(), &appquote.AcceptResponseCommand{
		QuoteRequestID: qr.ID(),
		ResponderID:    "cosco",
		RequesterID:    "acme",
	})

	// Assert
	require.NoError(t, err)
	response := result.(*appquote.AcceptResponseResponse)
	assert.Equal(t, quote.StatusAccepted, response.QuoteRequest.Status())
	assert.Equal(t, []string{"maersk"}, response.RejectedResponderIDs)

	events := publisher.EventsWithKey(quote.EventResponseAccepted)
	require.Len(t, events, 1)
	event := events[0].Payload.(quote.ResponseAcceptedEvent)
	assert.Equal(t, qr.ID(), event.QuoteRequestID)
	assert.Equal(t, "cosco", event.ResponderID)
	assert.Equal(t, []string{"maersk"}, event.RejectedResponderIDs)

	// The persisted state matches the returned one
	found, err := repo.FindByID(context.Background(), qr.ID())
	require.NoError(t, err)
	assert.Equal(t, []string{"cosco"}, found.RespondersWithStatus(quote.AssignmentAccepted))
	assert.Equal(t, []string{"maersk"}, found.RespondersWithStatus(quote.AssignmentRejected))
	assert.Equal(t, []string{"msc"}, found.RespondersWithStatus(quote.AssignmentPending))
}

func TestAcceptResponseHandler_Unauthorized(t *testing.T) {
	// Arrange
	repo := newQuoteRepo(t)
	publisher := helpers.NewMockEventPublisher()
	handler := appquote.NewAcceptResponseHandler(repo, publisher, common.NewValidator(), zap.NewNop())
	qr := seedQuoteRequest(t, repo)
	submitViaRepo(t, repo, qr.ID(), "maersk", 125000)

	// Act: a different tenant tries to accept
	_, err := handler.Handle(context.Background(), &appquote.AcceptResponseCommand{
		QuoteRequestID: qr.ID(),
		ResponderID:    "maersk",
		RequesterID:    "intruder",
	})

	// Assert
	require.Error(t, err)
	assert.True(t, quote.IsKind(err, quote.KindUnauthorized))
	assert.Empty(t, publisher.Published)

	found, findErr := repo.FindByID(context.Background(), qr.ID())
	require.NoError(t, findErr)
	assert.Equal(t, quote.StatusPending, found.Status())
}

func TestAcceptResponseHandler_NotSubmitted(t *testing.T) {
	// Arrange
	repo := newQuoteRepo(t)
	publisher := helpers.NewMockEventPublisher()
	handler := appquote.NewAcceptResponseHandler(repo, publisher, common.NewValidator(), zap.NewNop())
	qr := seedQuoteRequest(t, repo)

	// Act
	_, err := handler.Handle(context.Background(), &appquote.AcceptResponseCommand{
		QuoteRequestID: qr.ID(),
		ResponderID:    "maersk",
		RequesterID:    "acme",
	})

	// Assert
	require.Error(t, err)
	assert.True(t, quote.IsKind(err, quote.KindInvalidState))
	assert.Empty(t, publisher.Published)
}

func TestAcceptResponseHandler_AlreadyFinalized(t *testing.T) {
	// Arrange: first accept wins
	repo := newQuoteRepo(t)
	publisher := helpers.NewMockEventPublisher()
	handler := appquote.NewAcceptResponseHandler(repo, publisher, common.NewValidator(), zap.NewNop())
	qr := seedQuoteRequest(t, repo)
	submitViaRepo(t, repo, qr.ID(), "maersk", 125000)
	submitViaRepo(t, repo, qr.ID(), "cosco", 118000)

	cmd := &appquote.AcceptResponseCommand{
		QuoteRequestID: qr.ID(),
		ResponderID:    "maersk",
		RequesterID:    "acme",
	}
	_, err := handler.Handle(context.Background(), cmd)
	require.NoError(t, err)
	publisher.Reset()

	// Act: second accept on the finalized request
	cmd.ResponderID = "cosco"
	_, err = handler.Handle(context.Background(), cmd)

	// Assert: at most one ACCEPTED, no extra event
	require.Error(t, err)
	assert.True(t, quote.IsKind(err, quote.KindAlreadyFinalized))
	assert.Empty(t, publisher.Published)

	found, findErr := repo.FindByID(context.Background(), qr.ID())
	require.NoError(t, findErr)
	assert.Equal(t, []string{"maersk"}, found.RespondersWithStatus(quote.AssignmentAccepted))
}
