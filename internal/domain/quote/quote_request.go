package quote

import (
	"time"

	"github.com/google/uuid"

	"github.com/andrescamacho/quoteflow-go/internal/domain/shared"
)

// Status is the top-level lifecycle state of a quote request
type Status string

const (
	StatusPending    Status = "PENDING"
	StatusInProgress Status = "IN_PROGRESS"
	StatusAccepted   Status = "ACCEPTED"
	StatusCancelled  Status = "CANCELLED"
	StatusCompleted  Status = "COMPLETED"
)

// QuoteRequest is the aggregate root of the quoting workflow. It owns its
// responder assignments as one consistency boundary: assignments are created
// with the aggregate, loaded with it, saved with it, and mutated only through
// its methods.
type QuoteRequest struct {
	id          string
	requesterID shared.TenantID
	voyage      VoyageData
	status      Status
	assignments []*ResponderAssignment
	createdAt   time.Time
	updatedAt   time.Time
	version     int
	clock       shared.Clock
}

// NewQuoteRequest creates a PENDING quote request together with its full set
// of responder assignments, one per invited responder. Responders are never
// added after creation.
// The clock parameter is optional - if nil, defaults to RealClock for production use
func NewQuoteRequest(requesterID shared.TenantID, voyage VoyageData, responderIDs []string, clock shared.Clock) (*QuoteRequest, error) {
	if requesterID.IsZero() {
		return nil, NewValidationError("requesterId", "must not be empty")
	}
	if len(responderIDs) == 0 {
		return nil, NewValidationError("responderIds", "must not be empty")
	}
	if clock == nil {
		clock = shared.NewRealClock()
	}

	now := clock.Now()
	qr := &QuoteRequest{
		id:          uuid.NewString(),
		requesterID: requesterID,
		voyage:      voyage,
		status:      StatusPending,
		createdAt:   now,
		updatedAt:   now,
		clock:       clock,
	}
	if err := qr.addResponders(responderIDs); err != nil {
		return nil, err
	}
	return qr, nil
}

// RehydrateQuoteRequest restores an aggregate from persisted state.
// For repository use only; it performs no transition checks.
func RehydrateQuoteRequest(
	id string,
	requesterID shared.TenantID,
	voyage VoyageData,
	status Status,
	assignments []*ResponderAssignment,
	createdAt, updatedAt time.Time,
	version int,
	clock shared.Clock,
) *QuoteRequest {
	if clock == nil {
		clock = shared.NewRealClock()
	}
	return &QuoteRequest{
		id:          id,
		requesterID: requesterID,
		voyage:      voyage,
		status:      status,
		assignments: assignments,
		createdAt:   createdAt,
		updatedAt:   updatedAt,
		version:     version,
		clock:       clock,
	}
}

func (q *QuoteRequest) ID() string                   { return q.id }
func (q *QuoteRequest) RequesterID() shared.TenantID { return q.requesterID }
func (q *QuoteRequest) Voyage() VoyageData           { return q.voyage }
func (q *QuoteRequest) Status() Status               { return q.status }
func (q *QuoteRequest) CreatedAt() time.Time         { return q.createdAt }
func (q *QuoteRequest) UpdatedAt() time.Time         { return q.updatedAt }

// Version is the optimistic-concurrency counter managed by the repository
func (q *QuoteRequest) Version() int { return q.version }

// Assignments returns the responder assignments in insertion order.
// The slice is a copy; the elements are the owned sub-entities.
func (q *QuoteRequest) Assignments() []*ResponderAssignment {
	out := make([]*ResponderAssignment, len(q.assignments))
	copy(out, q.assignments)
	return out
}

// ResponderIDs returns the invited responder ids in insertion order
func (q *QuoteRequest) ResponderIDs() []string {
	ids := make([]string, len(q.assignments))
	for i, a := range q.assignments {
		ids[i] = a.ResponderID()
	}
	return ids
}

// RespondersWithStatus returns the responder ids whose assignment currently
// holds the given status, in insertion order
func (q *QuoteRequest) RespondersWithStatus(status AssignmentStatus) []string {
	var ids []string
	for _, a := range q.assignments {
		if a.Status() == status {
			ids = append(ids, a.ResponderID())
		}
	}
	return ids
}

// FindResponder returns the assignment for the given responder, if any
func (q *QuoteRequest) FindResponder(responderID string) (*ResponderAssignment, bool) {
	for _, a := range q.assignments {
		if a.ResponderID() == responderID {
			return a, true
		}
	}
	return nil, false
}

// IsFinalized reports whether the aggregate admits no further mutation
func (q *QuoteRequest) IsFinalized() bool {
	return q.status == StatusAccepted || q.status == StatusCancelled || q.status == StatusCompleted
}

// addResponders builds one PENDING assignment per responder id.
// Valid only at creation time; ids must be unique within the aggregate.
func (q *QuoteRequest) addResponders(responderIDs []string) error {
	for _, responderID := range responderIDs {
		if responderID == "" {
			return NewValidationError("responderIds", "must not contain empty ids")
		}
		if _, exists := q.FindResponder(responderID); exists {
			return NewDuplicateResponderError(responderID)
		}
		q.assignments = append(q.assignments, newResponderAssignment(responderID, q.clock))
	}
	return nil
}

// AcceptResponse accepts exactly one submitted response and rejects every
// other submitted response as part of the same transition. Assignments still
// PENDING are left untouched.
func (q *QuoteRequest) AcceptResponse(responderID string) error {
	if q.IsFinalized() {
		return NewAlreadyFinalizedError(q.id)
	}

	responder, ok := q.FindResponder(responderID)
	if !ok {
		return NewResponderNotFoundError(q.id, responderID)
	}
	if !responder.HasSubmittedResponse() {
		return NewInvalidStateError(q.id, responderID, string(responder.Status()), string(AssignmentSubmitted))
	}

	q.status = StatusAccepted
	q.touch()
	if err := responder.Accept(); err != nil {
		return err
	}

	for _, a := range q.assignments {
		if a.ResponderID() == responderID {
			continue
		}
		if a.HasSubmittedResponse() {
			if err := a.Reject(); err != nil {
				return err
			}
		}
	}
	return nil
}

// Cancel withdraws the quote request and every non-terminal assignment
func (q *QuoteRequest) Cancel() error {
	if q.IsFinalized() {
		return NewAlreadyFinalizedError(q.id)
	}

	q.status = StatusCancelled
	q.touch()
	for _, a := range q.assignments {
		if a.Status().IsTerminal() {
			continue
		}
		if err := a.Cancel(); err != nil {
			return err
		}
	}
	return nil
}

// Complete closes out an accepted quote request once the voyage is done
func (q *QuoteRequest) Complete() error {
	if q.status == StatusCancelled || q.status == StatusCompleted {
		return NewAlreadyFinalizedError(q.id)
	}
	if q.status != StatusAccepted {
		return NewInvalidStateError(q.id, "", string(q.status), string(StatusAccepted))
	}
	q.status = StatusCompleted
	q.touch()
	return nil
}

func (q *QuoteRequest) touch() {
	q.updatedAt = q.clock.Now()
}
