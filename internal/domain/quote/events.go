package quote

// TopicQuoteEvents is the bus topic carrying every workflow event.
// Consumers subscribe to the topic and filter on the routing key.
const TopicQuoteEvents = "quote_events"

// Routing keys, one per logical workflow transition
const (
	EventQuoteRequestCreated   = "quote_request.created"
	EventResponseSubmitted     = "quote_request.response_submitted"
	EventResponseAccepted      = "quote_request.response_accepted"
	EventQuoteRequestCancelled = "quote_request.cancelled"
)

// QuoteRequestCreatedEvent is published when a requester opens a quote request.
// One notification per invited responder is derived from it downstream.
type QuoteRequestCreatedEvent struct {
	QuoteRequestID string     `json:"quoteRequestId"`
	RequesterID    string     `json:"requesterId"`
	ResponderIDs   []string   `json:"responderIds"`
	VoyageData     VoyageData `json:"voyageData"`
}

// ResponseSubmittedEvent is published when a responder submits a priced response
type ResponseSubmittedEvent struct {
	QuoteRequestID string  `json:"quoteRequestId"`
	ResponderID    string  `json:"responderId"`
	Price          float64 `json:"price"`
	Comments       string  `json:"comments"`
}

// ResponseAcceptedEvent is published when the requester accepts one response.
// RejectedResponderIDs lists the responders whose submitted responses were
// rejected in the same transition.
type ResponseAcceptedEvent struct {
	QuoteRequestID       string   `json:"quoteRequestId"`
	ResponderID          string   `json:"responderId"`
	RejectedResponderIDs []string `json:"rejectedResponderIds"`
}

// QuoteRequestCancelledEvent is published when the requester cancels the request
type QuoteRequestCancelledEvent struct {
	QuoteRequestID string   `json:"quoteRequestId"`
	ResponderIDs   []string `json:"responderIds"`
}
