package notification

import "time"

// Type classifies a notification by the workflow transition it reports
type Type string

const (
	TypeQuoteRequestCreated    Type = "QUOTE_REQUEST_CREATED"
	TypeQuoteResponseSubmitted Type = "QUOTE_RESPONSE_SUBMITTED"
	TypeQuoteResponseAccepted  Type = "QUOTE_RESPONSE_ACCEPTED"
	TypeQuoteResponseRejected  Type = "QUOTE_RESPONSE_REJECTED"
	TypeQuoteRequestCancelled  Type = "QUOTE_REQUEST_CANCELLED"
)

// Notification is one per-tenant record derived from a workflow event.
// Records are plain data: the projection writes them, the read side lists
// and marks them, nothing else mutates them.
type Notification struct {
	ID              string
	TenantID        string
	Type            Type
	Title           string
	Content         string
	Read            bool
	Metadata        map[string]any
	RelatedEntityID string
	CreatedAt       time.Time
}
