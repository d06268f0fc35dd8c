package quote

import (
	"time"

	"github.com/google/uuid"

	"github.com/andrescamacho/quoteflow-go/internal/domain/shared"
)

// AssignmentStatus is the lifecycle state of one responder's assignment
type AssignmentStatus string

const (
	AssignmentPending   AssignmentStatus = "PENDING"
	AssignmentSubmitted AssignmentStatus = "SUBMITTED"
	AssignmentAccepted  AssignmentStatus = "ACCEPTED"
	AssignmentRejected  AssignmentStatus = "REJECTED"
	AssignmentCancelled AssignmentStatus = "CANCELLED"
)

// IsTerminal reports whether no further transition is possible from the status
func (s AssignmentStatus) IsTerminal() bool {
	return s == AssignmentAccepted || s == AssignmentRejected || s == AssignmentCancelled
}

// ResponderAssignment tracks one invited responder's response lifecycle.
// It is exclusively owned by its parent QuoteRequest: it is never persisted
// or mutated standalone, and all transitions are driven through the aggregate.
type ResponderAssignment struct {
	id          string
	responderID string
	status      AssignmentStatus
	price       *float64
	comments    string
	createdAt   time.Time
	updatedAt   time.Time
	clock       shared.Clock
}

// newResponderAssignment builds a PENDING assignment. Only the aggregate
// creates assignments, one per invited responder.
func newResponderAssignment(responderID string, clock shared.Clock) *ResponderAssignment {
	now := clock.Now()
	return &ResponderAssignment{
		id:          uuid.NewString(),
		responderID: responderID,
		status:      AssignmentPending,
		createdAt:   now,
		updatedAt:   now,
		clock:       clock,
	}
}

// RehydrateResponderAssignment restores an assignment from persisted state.
// For repository use only; it performs no transition checks.
func RehydrateResponderAssignment(
	id, responderID string,
	status AssignmentStatus,
	price *float64,
	comments string,
	createdAt, updatedAt time.Time,
	clock shared.Clock,
) *ResponderAssignment {
	if clock == nil {
		clock = shared.NewRealClock()
	}
	return &ResponderAssignment{
		id:          id,
		responderID: responderID,
		status:      status,
		price:       price,
		comments:    comments,
		createdAt:   createdAt,
		updatedAt:   updatedAt,
		clock:       clock,
	}
}

func (a *ResponderAssignment) ID() string               { return a.id }
func (a *ResponderAssignment) ResponderID() string      { return a.responderID }
func (a *ResponderAssignment) Status() AssignmentStatus { return a.status }
func (a *ResponderAssignment) Comments() string         { return a.comments }
func (a *ResponderAssignment) CreatedAt() time.Time     { return a.createdAt }
func (a *ResponderAssignment) UpdatedAt() time.Time     { return a.updatedAt }

// Price returns the submitted price, or nil before a response is submitted
func (a *ResponderAssignment) Price() *float64 {
	return a.price
}

// HasSubmittedResponse reports whether the responder has a live submitted response
func (a *ResponderAssignment) HasSubmittedResponse() bool {
	return a.status == AssignmentSubmitted
}

// SubmitResponse records the responder's priced response.
// Valid only while PENDING; resubmission is an invalid transition.
func (a *ResponderAssignment) SubmitResponse(price float64, comments string) error {
	if a.status != AssignmentPending {
		return NewInvalidStateError("", a.responderID, string(a.status), string(AssignmentPending))
	}
	a.price = &price
	a.comments = comments
	a.status = AssignmentSubmitted
	a.updatedAt = a.clock.Now()
	return nil
}

// Accept marks the submitted response as the winning one
func (a *ResponderAssignment) Accept() error {
	if a.status != AssignmentSubmitted {
		return NewInvalidStateError("", a.responderID, string(a.status), string(AssignmentSubmitted))
	}
	a.status = AssignmentAccepted
	a.updatedAt = a.clock.Now()
	return nil
}

// Reject marks the submitted response as rejected
func (a *ResponderAssignment) Reject() error {
	if a.status != AssignmentSubmitted {
		return NewInvalidStateError("", a.responderID, string(a.status), string(AssignmentSubmitted))
	}
	a.status = AssignmentRejected
	a.updatedAt = a.clock.Now()
	return nil
}

// Cancel withdraws the assignment. Terminal sub-states are never overwritten.
func (a *ResponderAssignment) Cancel() error {
	if a.status != AssignmentPending && a.status != AssignmentSubmitted {
		return NewInvalidStateError("", a.responderID, string(a.status), "PENDING or SUBMITTED")
	}
	a.status = AssignmentCancelled
	a.updatedAt = a.clock.Now()
	return nil
}
