package quote

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/andrescamacho/quoteflow-go/internal/application/common"
	domain "github.com/andrescamacho/quoteflow-go/internal/domain/quote"
)

// SubmitResponseHandler records one responder's priced response on the
// aggregate and announces the submission
type SubmitResponseHandler struct {
	quoteRepo domain.QuoteRequestRepository
	publisher domain.EventPublisher
	validator *common.Validator
	logger    *zap.Logger
}

// NewSubmitResponseHandler creates a new submit response handler
func NewSubmitResponseHandler(
	quoteRepo domain.QuoteRequestRepository,
	publisher domain.EventPublisher,
	validator *common.Validator,
	logger *zap.Logger,
) *SubmitResponseHandler {
	return &SubmitResponseHandler{
		quoteRepo: quoteRepo,
		publisher: publisher,
		validator: validator,
		logger:    logger,
	}
}

// Handle executes the submit response command
func (h *SubmitResponseHandler) Handle(ctx context.Context, request common.Request) (common.Response, error) {
	cmd, ok := request.(*SubmitResponseCommand)
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

		assignment, ok := loaded.FindResponder(cmd.ResponderID)
		if !ok {
			return domain.NewResponderNotFoundError(cmd.QuoteRequestID, cmd.ResponderID)
		}
		if assignment.Status() != domain.AssignmentPending {
			return domain.NewAlreadySubmittedError(cmd.QuoteRequestID, cmd.ResponderID)
		}
		if err := assignment.SubmitResponse(cmd.Price, cmd.Comments); err != nil {
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

	h.logger.Info("quote response submitted",
		zap.String("quote_request_id", qr.ID()),
		zap.String("responder_id", cmd.ResponderID),
		zap.Float64("price", cmd.Price),
	)

	event := domain.ResponseSubmittedEvent{
		QuoteRequestID: qr.ID(),
		ResponderID:    cmd.ResponderID,
		Price:          cmd.Price,
		Comments:       cmd.Comments,
	}
	if err := h.publisher.Publish(ctx, domain.EventResponseSubmitted, event); err != nil {
		h.logger.Error("publish failed after save",
			zap.String("quote_request_id", qr.ID()),
			zap.String("routing_key", domain.EventResponseSubmitted),
			zap.Error(err),
		)
		return &SubmitResponseResponse{QuoteRequest: qr}, domain.NewPublishError(domain.EventResponseSubmitted, err)
	}

	return &SubmitResponseResponse{QuoteRequest: qr}, nil
}
