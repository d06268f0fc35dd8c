package quote

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/andrescamacho/quoteflow-go/internal/application/common"
	domain "github.com/andrescamacho/quoteflow-go/internal/domain/quote"
)

// CompleteQuoteRequestHandler closes out an accepted quote request once the
// voyage is done. Completion has no notification contract, so no event is
// published.
type CompleteQuoteRequestHandler struct {
	quoteRepo domain.QuoteRequestRepository
	validator *common.Validator
	logger    *zap.Logger
}

// NewCompleteQuoteRequestHandler creates a new complete quote request handler
func NewCompleteQuoteRequestHandler(
	quoteRepo domain.QuoteRequestRepository,
	validator *common.Validator,
	logger *zap.Logger,
) *CompleteQuoteRequestHandler {
	return &CompleteQuoteRequestHandler{
		quoteRepo: quoteRepo,
		validator: validator,
		logger:    logger,
	}
}

// Handle executes the complete quote request command
func (h *CompleteQuoteRequestHandler) Handle(ctx context.Context, request common.Request) (common.Response, error) {
	cmd, ok := request.(*CompleteQuoteRequestCommand)
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

		if err := loaded.Complete(); err != nil {
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

	h.logger.Info("quote request completed",
		zap.String("quote_request_id", qr.ID()),
		zap.String("requester_id", cmd.RequesterID),
	)

	return &CompleteQuoteRequestResponse{QuoteRequest: qr}, nil
}
