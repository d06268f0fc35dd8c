package quote

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/andrescamacho/quoteflow-go/internal/application/common"
	domain "github.com/andrescamacho/quoteflow-go/internal/domain/quote"
)

// AcceptResponseHandler drives the central business rule: exactly one
// responder wins, every other submitted response is rejected in the same
// atomic transition, and the aggregate is finalized
type AcceptResponseHandler struct {
	quoteRepo domain.QuoteRequestRepository
	publisher domain.EventPublisher
	validator *common.Validator
	logger    *zap.Logger
}

// NewAcceptResponseHandler creates a new accept response handler
func NewAcceptResponseHandler(
	quoteRepo domain.QuoteRequestRepository,
	publisher domain.EventPublisher,
	validator *common.Validator,
	logger *zap.Logger,
) *AcceptResponseHandler {
	return &AcceptResponseHandler{
		quoteRepo: quoteRepo,
		publisher: publisher,
		validator: validator,
		logger:    logger,
	}
}

// Handle executes the accept response command
func (h *AcceptResponseHandler) Handle(ctx context.Context, request common.Request) (common.Response, error) {
	cmd, ok := request.(*AcceptResponseCommand)
	if !ok {
		return nil, fmt.Errorf("invalid request type")
	}

	if err := h.validator.ValidateStruct(cmd); err != nil {
		return nil, err
	}

	var qr *domain.QuoteRequest
	var rejected []string
	err := withConcurrencyRetry(ctx, func(ctx context.Context) error {
		loaded, err := h.quoteRepo.FindByID(ctx, cmd.QuoteRequestID)
		if err != nil {
			return err
		}

		if loaded.RequesterID().Value() != cmd.RequesterID {
			return domain.NewUnauthorizedError(cmd.QuoteRequestID, cmd.RequesterID)
		}

		if err := loaded.AcceptResponse(cmd.ResponderID); err != nil {
			return err
		}

		saved, err := h.quoteRepo.Save(ctx, loaded)
		if err != nil {
			return err
		}
		qr = saved
		rejected = saved.RespondersWithStatus(domain.AssignmentRejected)
		return nil
	})
	if err != nil {
		return nil, err
	}

	h.logger.Info("quote response accepted",
		zap.String("quote_request_id", qr.ID()),
		zap.String("responder_id", cmd.ResponderID),
		zap.Strings("rejected_responder_ids", rejected),
	)

	event := domain.ResponseAcceptedEvent{
		QuoteRequestID:       qr.ID(),
		ResponderID:          cmd.ResponderID,
		RejectedResponderIDs: rejected,
	}
	if err := h.publisher.Publish(ctx, domain.EventResponseAccepted, event); err != nil {
		h.logger.Error("publish failed after save",
			zap.String("quote_request_id", qr.ID()),
			zap.String("routing_key", domain.EventResponseAccepted),
			zap.Error(err),
		)
		return &AcceptResponseResponse{QuoteRequest: qr, RejectedResponderIDs: rejected},
			domain.NewPublishError(domain.EventResponseAccepted, err)
	}

	return &AcceptResponseResponse{QuoteRequest: qr, RejectedResponderIDs: rejected}, nil
}
