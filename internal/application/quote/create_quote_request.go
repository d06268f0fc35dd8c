package quote

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/andrescamacho/quoteflow-go/internal/application/common"
	domain "github.com/andrescamacho/quoteflow-go/internal/domain/quote"
	"github.com/andrescamacho/quoteflow-go/internal/domain/shared"
)

// CreateQuoteRequestHandler persists a new PENDING aggregate with its full
// responder assignment set and announces it on the event bus
type CreateQuoteRequestHandler struct {
	quoteRepo domain.QuoteRequestRepository
	publisher domain.EventPublisher
	validator *common.Validator
	logger    *zap.Logger
}

// NewCreateQuoteRequestHandler creates a new create quote request handler
func NewCreateQuoteRequestHandler(
	quoteRepo domain.QuoteRequestRepository,
	publisher domain.EventPublisher,
	validator *common.Validator,
	logger *zap.Logger,
) *CreateQuoteRequestHandler {
	return &CreateQuoteRequestHandler{
		quoteRepo: quoteRepo,
		publisher: publisher,
		validator: validator,
		logger:    logger,
	}
}

// Handle executes the create quote request command
func (h *CreateQuoteRequestHandler) Handle(ctx context.Context, request common.Request) (common.Response, error) {
	cmd, ok := request.(*CreateQuoteRequestCommand)
	if !ok {
		return nil, fmt.Errorf("invalid request type")
	}

	if err := h.validator.ValidateStruct(cmd); err != nil {
		return nil, err
	}
	if err := h.validator.ValidateStruct(cmd.VoyageData); err != nil {
		return nil, err
	}

	requesterID, err := shared.NewTenantID(cmd.RequesterID)
	if err != nil {
		return nil, domain.NewValidationError("requesterId", err.Error())
	}

	qr, err := h.quoteRepo.Create(ctx, requesterID, cmd.VoyageData, cmd.ResponderIDs)
	if err != nil {
		return nil, err
	}

	h.logger.Info("quote request created",
		zap.String("quote_request_id", qr.ID()),
		zap.String("requester_id", qr.RequesterID().Value()),
		zap.Int("responders", len(cmd.ResponderIDs)),
	)

	event := domain.QuoteRequestCreatedEvent{
		QuoteRequestID: qr.ID(),
		RequesterID:    qr.RequesterID().Value(),
		ResponderIDs:   qr.ResponderIDs(),
		VoyageData:     qr.Voyage(),
	}
	if err := h.publisher.Publish(ctx, domain.EventQuoteRequestCreated, event); err != nil {
		// Persisted state is correct; surface the gap as a partial failure
		// alongside the created aggregate.
		h.logger.Error("publish failed after save",
			zap.String("quote_request_id", qr.ID()),
			zap.String("routing_key", domain.EventQuoteRequestCreated),
			zap.Error(err),
		)
		return &CreateQuoteRequestResponse{QuoteRequest: qr}, domain.NewPublishError(domain.EventQuoteRequestCreated, err)
	}

	return &CreateQuoteRequestResponse{QuoteRequest: qr}, nil
}
