package quote

import (
	"errors"
	"fmt"
)

// ErrorKind is the closed enumeration of domain error categories.
// Transport layers map each kind to a status code with a single exhaustive
// switch instead of string-matching messages.
type ErrorKind int

const (
	// KindNotFound - the referenced quote request does not exist
	KindNotFound ErrorKind = iota
	// KindResponderNotFound - the responder has no assignment on the aggregate
	KindResponderNotFound
	// KindInvalidState - a state-machine precondition is not met
	KindInvalidState
	// KindAlreadyFinalized - mutation attempted on a finalized quote request
	KindAlreadyFinalized
	// KindAlreadySubmitted - duplicate response submission for the same responder
	KindAlreadySubmitted
	// KindDuplicateResponder - responder id collision when building assignments
	KindDuplicateResponder
	// KindUnauthorized - caller tenant does not own the quote request
	KindUnauthorized
	// KindValidation - malformed input, rejected before any domain mutation
	KindValidation
	// KindConcurrentModification - optimistic-concurrency conflict on save
	KindConcurrentModification
	// KindPersistence - storage failure from the repository
	KindPersistence
	// KindPublish - event bus failure after a successful save
	KindPublish
)

// String returns the stable identifier of the kind
func (k ErrorKind) String() string {
	switch k {
	case KindNotFound:
		return "NOT_FOUND"
	case KindResponderNotFound:
		return "RESPONDER_NOT_FOUND"
	case KindInvalidState:
		return "INVALID_STATE"
	case KindAlreadyFinalized:
		return "ALREADY_FINALIZED"
	case KindAlreadySubmitted:
		return "ALREADY_SUBMITTED"
	case KindDuplicateResponder:
		return "DUPLICATE_RESPONDER"
	case KindUnauthorized:
		return "UNAUTHORIZED"
	case KindValidation:
		return "VALIDATION_ERROR"
	case KindConcurrentModification:
		return "CONCURRENT_MODIFICATION"
	case KindPersistence:
		return "PERSISTENCE_ERROR"
	case KindPublish:
		return "PUBLISH_ERROR"
	default:
		return "UNKNOWN"
	}
}

// DomainError carries an error kind plus the structured context of the failure.
// Fields are populated only where they apply to the kind.
type DomainError struct {
	Kind           ErrorKind
	QuoteRequestID string
	ResponderID    string
	CurrentState   string
	RequiredState  string
	Field          string
	message        string
	cause          error
}

func (e *DomainError) Error() string {
	return e.message
}

// Unwrap exposes the underlying infrastructure cause, if any
func (e *DomainError) Unwrap() error {
	return e.cause
}

// IsKind reports whether err is a DomainError of the given kind
func IsKind(err error, kind ErrorKind) bool {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Kind == kind
	}
	return false
}

// NewNotFoundError indicates the quote request does not exist
func NewNotFoundError(quoteRequestID string) *DomainError {
	return &DomainError{
		Kind:           KindNotFound,
		QuoteRequestID: quoteRequestID,
		message:        fmt.Sprintf("quote request %s not found", quoteRequestID),
	}
}

// NewResponderNotFoundError indicates the responder has no assignment on the aggregate
func NewResponderNotFoundError(quoteRequestID, responderID string) *DomainError {
	return &DomainError{
		Kind:           KindResponderNotFound,
		QuoteRequestID: quoteRequestID,
		ResponderID:    responderID,
		message:        fmt.Sprintf("responder %s not found in quote request %s", responderID, quoteRequestID),
	}
}

// NewInvalidStateError indicates a precondition on the current state is not met
func NewInvalidStateError(quoteRequestID, responderID, currentState, requiredState string) *DomainError {
	subject := "quote request " + quoteRequestID
	if responderID != "" {
		subject = "responder " + responderID
	}
	return &DomainError{
		Kind:           KindInvalidState,
		QuoteRequestID: quoteRequestID,
		ResponderID:    responderID,
		CurrentState:   currentState,
		RequiredState:  requiredState,
		message:        fmt.Sprintf("%s is in %s state, but %s is required", subject, currentState, requiredState),
	}
}

// NewAlreadyFinalizedError indicates mutation of a finalized quote request
func NewAlreadyFinalizedError(quoteRequestID string) *DomainError {
	return &DomainError{
		Kind:           KindAlreadyFinalized,
		QuoteRequestID: quoteRequestID,
		message:        fmt.Sprintf("quote request %s has already been finalized", quoteRequestID),
	}
}

// NewAlreadySubmittedError indicates a duplicate response submission
func NewAlreadySubmittedError(quoteRequestID, responderID string) *DomainError {
	return &DomainError{
		Kind:           KindAlreadySubmitted,
		QuoteRequestID: quoteRequestID,
		ResponderID:    responderID,
		message:        fmt.Sprintf("response already submitted by responder %s", responderID),
	}
}

// NewDuplicateResponderError indicates a responder id collision within one aggregate
func NewDuplicateResponderError(responderID string) *DomainError {
	return &DomainError{
		Kind:        KindDuplicateResponder,
		ResponderID: responderID,
		message:     fmt.Sprintf("responder %s is already assigned to this quote request", responderID),
	}
}

// NewUnauthorizedError indicates the caller tenant does not own the quote request
func NewUnauthorizedError(quoteRequestID, tenantID string) *DomainError {
	return &DomainError{
		Kind:           KindUnauthorized,
		QuoteRequestID: quoteRequestID,
		message:        fmt.Sprintf("tenant %s is not the requester of quote request %s", tenantID, quoteRequestID),
	}
}

// NewValidationError indicates malformed input, rejected before any mutation
func NewValidationError(field, message string) *DomainError {
	return &DomainError{
		Kind:    KindValidation,
		Field:   field,
		message: fmt.Sprintf("%s: %s", field, message),
	}
}

// NewConcurrentModificationError indicates an optimistic-concurrency conflict on save
func NewConcurrentModificationError(quoteRequestID string) *DomainError {
	return &DomainError{
		Kind:           KindConcurrentModification,
		QuoteRequestID: quoteRequestID,
		message:        fmt.Sprintf("quote request %s was modified concurrently", quoteRequestID),
	}
}

// NewPersistenceError wraps a storage-engine failure
func NewPersistenceError(op string, cause error) *DomainError {
	return &DomainError{
		Kind:    KindPersistence,
		message: fmt.Sprintf("persistence failure during %s: %v", op, cause),
		cause:   cause,
	}
}

// NewPublishError wraps an event bus failure that occurred after a successful save.
// Persisted state is correct; the notification may be delayed until reconciliation.
func NewPublishError(routingKey string, cause error) *DomainError {
	return &DomainError{
		Kind:    KindPublish,
		message: fmt.Sprintf("failed to publish %s: %v", routingKey, cause),
		cause:   cause,
	}
}
