package quote

import (
	domain "github.com/andrescamacho/quoteflow-go/internal/domain/quote"
)

// CreateQuoteRequestCommand opens a quote request towards a set of responders
type CreateQuoteRequestCommand struct {
	RequesterID  string            `validate:"required"`
	VoyageData   domain.VoyageData `validate:"required"`
	ResponderIDs []string          `validate:"required,min=1,unique,dive,required"`
}

// CreateQuoteRequestResponse contains the persisted aggregate
type CreateQuoteRequestResponse struct {
	QuoteRequest *domain.QuoteRequest
}

// SubmitResponseCommand records one responder's priced response
type SubmitResponseCommand struct {
	QuoteRequestID string  `validate:"required"`
	ResponderID    string  `validate:"required"`
	Price          float64 `validate:"required,gt=0"`
	Comments       string
}

// SubmitResponseResponse contains the aggregate after submission
type SubmitResponseResponse struct {
	QuoteRequest *domain.QuoteRequest
}

// AcceptResponseCommand accepts one submitted response on behalf of the
// requester tenant. RequesterID is the authenticated caller's tenant id,
// passed explicitly rather than read from ambient state.
type AcceptResponseCommand struct {
	QuoteRequestID string `validate:"required"`
	ResponderID    string `validate:"required"`
	RequesterID    string `validate:"required"`
}

// AcceptResponseResponse contains the finalized aggregate and the responders
// whose submitted responses were rejected in the same transition
type AcceptResponseResponse struct {
	QuoteRequest         *domain.QuoteRequest
	RejectedResponderIDs []string
}

// CancelQuoteRequestCommand withdraws a quote request on behalf of its requester
type CancelQuoteRequestCommand struct {
	QuoteRequestID string `validate:"required"`
	RequesterID    string `validate:"required"`
}

// CancelQuoteRequestResponse contains the cancelled aggregate
type CancelQuoteRequestResponse struct {
	QuoteRequest *domain.QuoteRequest
}

// CompleteQuoteRequestCommand closes out an accepted quote request
type CompleteQuoteRequestCommand struct {
	QuoteRequestID string `validate:"required"`
	RequesterID    string `validate:"required"`
}

// CompleteQuoteRequestResponse contains the completed aggregate
type CompleteQuoteRequestResponse struct {
	QuoteRequest *domain.QuoteRequest
}

// ListByRequesterQuery lists a requester's quote requests, newest first
type ListByRequesterQuery struct {
	RequesterID string `validate:"required"`
}

// ListByRequesterResponse contains the matching aggregates
type ListByRequesterResponse struct {
	QuoteRequests []*domain.QuoteRequest
}

// ListPendingByResponderQuery lists the quote requests still awaiting the
// responder's submission
type ListPendingByResponderQuery struct {
	ResponderID string `validate:"required"`
}

// ListPendingByResponderResponse contains the matching aggregates
type ListPendingByResponderResponse struct {
	QuoteRequests []*domain.QuoteRequest
}
