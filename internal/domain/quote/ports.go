package quote

import (
	"context"

	"github.com/andrescamacho/quoteflow-go/internal/domain/shared"
)

// QuoteRequestRepository persists and loads the aggregate as one unit:
// the quote request together with all of its responder assignments.
// Implementations must guarantee that Save detects concurrent writers
// (optimistic check on the aggregate version) and fails with a
// CONCURRENT_MODIFICATION domain error instead of overwriting.
type QuoteRequestRepository interface {
	// Create builds and persists a new PENDING aggregate with its full
	// responder assignment set in one transaction
	Create(ctx context.Context, requesterID shared.TenantID, voyage VoyageData, responderIDs []string) (*QuoteRequest, error)

	// FindByID loads the aggregate including all assignments
	FindByID(ctx context.Context, id string) (*QuoteRequest, error)

	// FindByRequesterID lists a requester's quote requests, newest first
	FindByRequesterID(ctx context.Context, requesterID shared.TenantID) ([]*QuoteRequest, error)

	// FindPendingByResponderID lists quote requests on which the responder's
	// own assignment is still PENDING
	FindPendingByResponderID(ctx context.Context, responderID string) ([]*QuoteRequest, error)

	// Save upserts the full aggregate, including all assignments, as one transaction
	Save(ctx context.Context, qr *QuoteRequest) (*QuoteRequest, error)

	// Delete removes the aggregate and its assignments
	Delete(ctx context.Context, id string) error
}

// EventPublisher delivers workflow events to the quote_events topic with
// at-least-once semantics. Publish is called only after a successful save,
// so the payload always reflects persisted state. The port is shaped so an
// outbox-backed implementation can replace the direct one without touching
// callers.
type EventPublisher interface {
	Publish(ctx context.Context, routingKey string, payload any) error
}
