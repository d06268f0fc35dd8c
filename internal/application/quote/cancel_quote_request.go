package quote

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/andrescamacho/quoteflow-go/internal/application/common"
	domain "github.com/andrescamacho/quoteflow-go/internal/domain/quote"
)

// CancelQuoteRequestHandler withdraws a quote request and every non-terminal
// assignment on behalf of the requester tenant
type CancelQuoteRequestHandler struct {
	quoteRepo domain.QuoteRequestRepository
	publisher domain.EventPublisher
	validator *common.Validator
	logger    *zap.Logger
}

// NewCancelQuoteRequestHandler creates a new cancel quote request handler
func NewCancelQuoteRequestHandler(
	quoteRepo domain.QuoteRequestRepository,
	publisher domain.EventPublisher,
	validator *common.Validator,
	logger *zap.Logger,
) *CancelQuoteRequestHandler {
	return &CancelQuoteRequestHandler{
		quoteRepo: quoteRepo,
		publisher: publisher,
		validator: validator,
		logger:    logger,
	}
}

// Handle executes the cancel quote request command
func (h *CancelQuoteRequestHandler) Handle(ctx context.Context, request common.Request) (common.Response, error) {
	cmd, ok := request.(*CancelQuoteRequestCommand)
	if !ok {
		return nil, fmt.Errorf("invalid request type")
	}

	if err := h.validator.ValidateStruct(cmd); err != nil {
		return nil, err
	}

	var qr *domain.QuoteRequest
	err := withConcurrencyRetry(ctx, func(ctx context.Context) error {
		loaded, err := h.quoteRepo.FindByID(ctx, cmd.QuoteRequestID)
		if err != nil {
			return err
		}

		if loaded.RequesterID().Value() != cmd.RequesterID {
			return domain.NewUnauthorizedError(cmd.QuoteRequestID, cmd.RequesterID)
		}

		if err := loaded.Cancel(); err != nil {
			return err
		}

		saved, err := h.quoteRepo.Save(ctx, loaded)
		if err != nil {
			return err
		}
		qr = saved
		return nil
	})
	if err != nil {
		return nil, err
	}

	h.logger.Info("quote request cancelled",
		zap.String("quote_request_id", qr.ID()),
		zap.String("requester_id", cmd.RequesterID),
	)

	event := domain.QuoteRequestCancelledEvent{
		QuoteRequestID: qr.ID(),
		ResponderIDs:   qr.ResponderIDs(),
	}
	if err := h.publisher.Publish(ctx, domain.EventQuoteRequestCancelled, event); err != nil {
		h.logger.Error("publish failed after save",
			zap.String("quote_request_id", qr.ID()),
			zap.String("routing_key", domain.EventQuoteRequestCancelled),
			zap.Error(err),
		)
		return &CancelQuoteRequestResponse{QuoteRequest: qr}, domain.NewPublishError(domain.EventQuoteRequestCancelled, err)
	}

	return &CancelQuoteRequestResponse{QuoteRequest: qr}, nil
}
