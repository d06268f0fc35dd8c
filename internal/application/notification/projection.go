package notification

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/andrescamacho/quoteflow-go/internal/domain/notification"
	"github.com/andrescamacho/quoteflow-go/internal/domain/quote"
	"github.com/andrescamacho/quoteflow-go/internal/domain/shared"
)

// Projection turns workflow events into per-tenant notification records.
// Delivery is at-least-once and may be out of order, so every write is an
// idempotent upsert keyed by (type, quote request, tenant).
type Projection struct {
	notifications notification.Repository
	clock         shared.Clock
	logger        *zap.Logger
}

// NewProjection creates a new notification projection
func NewProjection(notifications notification.Repository, clock shared.Clock, logger *zap.Logger) *Projection {
	if clock == nil {
		clock = shared.NewRealClock()
	}
	return &Projection{
		notifications: notifications,
		clock:         clock,
		logger:        logger,
	}
}

// HandleQuoteRequestCreated creates one notification per invited responder.
// The requester id is kept in the metadata so later events that carry only
// the quote request id can still be routed back to the requester.
func (p *Projection) HandleQuoteRequestCreated(ctx context.Context, event quote.QuoteRequestCreatedEvent) error {
	p.logger.Info("handling quote request created event",
		zap.String("quote_request_id", event.QuoteRequestID),
		zap.Int("responders", len(event.ResponderIDs)),
	)

	for _, responderID := range event.ResponderIDs {
		n := &notification.Notification{
			ID:       uuid.NewString(),
			TenantID: responderID,
			Type:     notification.TypeQuoteRequestCreated,
			Title:    "New Quote Request",
			Content: fmt.Sprintf("You have received a new quote request for a voyage from %s to %s",
				event.VoyageData.DeparturePort.Name, event.VoyageData.DestinationPort.Name),
			RelatedEntityID: event.QuoteRequestID,
			Metadata: map[string]any{
				"requesterId": event.RequesterID,
				"voyageData":  event.VoyageData,
			},
			CreatedAt: p.clock.Now(),
		}
		if err := p.notifications.Insert(ctx, n); err != nil {
			return err
		}
	}
	return nil
}

// HandleResponseSubmitted notifies the requester that a response arrived.
// The event carries no requester id, so it is resolved from the metadata of
// the created-notifications for the same quote request.
func (p *Projection) HandleResponseSubmitted(ctx context.Context, event quote.ResponseSubmittedEvent) error {
	p.logger.Info("handling quote response submitted event",
		zap.String("quote_request_id", event.QuoteRequestID),
		zap.String("responder_id", event.ResponderID),
	)

	requesterID, err := p.resolveRequesterID(ctx, event.QuoteRequestID)
	if err != nil {
		return err
	}
	if requesterID == "" {
		p.logger.Error("could not resolve requester for quote request",
			zap.String("quote_request_id", event.QuoteRequestID))
		return nil
	}

	return p.notifications.Insert(ctx, &notification.Notification{
		ID:              uuid.NewString(),
		TenantID:        requesterID,
		Type:            notification.TypeQuoteResponseSubmitted,
		Title:           "Quote Response Received",
		Content:         fmt.Sprintf("A responder has submitted a quote of $%.2f for your request", event.Price),
		RelatedEntityID: event.QuoteRequestID,
		Metadata: map[string]any{
			"responderId": event.ResponderID,
			"price":       event.Price,
			"comments":    event.Comments,
		},
		CreatedAt: p.clock.Now(),
	})
}

// HandleResponseAccepted notifies the winning responder and every rejected one
func (p *Projection) HandleResponseAccepted(ctx context.Context, event quote.ResponseAcceptedEvent) error {
	p.logger.Info("handling quote response accepted event",
		zap.String("quote_request_id", event.QuoteRequestID),
		zap.String("responder_id", event.ResponderID),
	)

	accepted := &notification.Notification{
		ID:              uuid.NewString(),
		TenantID:        event.ResponderID,
		Type:            notification.TypeQuoteResponseAccepted,
		Title:           "Quote Response Accepted",
		Content:         "Your quote response has been accepted",
		RelatedEntityID: event.QuoteRequestID,
		CreatedAt:       p.clock.Now(),
	}
	if err := p.notifications.Insert(ctx, accepted); err != nil {
		return err
	}

	for _, rejectedID := range event.RejectedResponderIDs {
		rejected := &notification.Notification{
			ID:              uuid.NewString(),
			TenantID:        rejectedID,
			Type:            notification.TypeQuoteResponseRejected,
			Title:           "Quote Response Rejected",
			Content:         "Your quote response has been rejected",
			RelatedEntityID: event.QuoteRequestID,
			CreatedAt:       p.clock.Now(),
		}
		if err := p.notifications.Insert(ctx, rejected); err != nil {
			return err
		}
	}
	return nil
}

// HandleQuoteRequestCancelled notifies every invited responder
func (p *Projection) HandleQuoteRequestCancelled(ctx context.Context, event quote.QuoteRequestCancelledEvent) error {
	p.logger.Info("handling quote request cancelled event",
		zap.String("quote_request_id", event.QuoteRequestID),
	)

	for _, responderID := range event.ResponderIDs {
		n := &notification.Notification{
			ID:              uuid.NewString(),
			TenantID:        responderID,
			Type:            notification.TypeQuoteRequestCancelled,
			Title:           "Quote Request Cancelled",
			Content:         "A quote request you were assigned to has been cancelled",
			RelatedEntityID: event.QuoteRequestID,
			CreatedAt:       p.clock.Now(),
		}
		if err := p.notifications.Insert(ctx, n); err != nil {
			return err
		}
	}
	return nil
}

func (p *Projection) resolveRequesterID(ctx context.Context, quoteRequestID string) (string, error) {
	created, err := p.notifications.FindByRelatedEntity(ctx, notification.TypeQuoteRequestCreated, quoteRequestID)
	if err != nil {
		return "", err
	}
	for _, n := range created {
		if requesterID, ok := n.Metadata["requesterId"].(string); ok && requesterID != "" {
			return requesterID, nil
		}
	}
	return "", nil
}
