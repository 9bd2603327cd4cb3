package booking

import (
	"time"

	"github.com/google/uuid"

	"github.com/viajemos/service-travel/pkg/domain"
)

// CancellationRequestStatus tracks an operator's review of a cancellation request.
type CancellationRequestStatus string

const (
	CancellationPending   CancellationRequestStatus = "pending"
	CancellationFulfilled CancellationRequestStatus = "fulfilled"
	CancellationRejected  CancellationRequestStatus = "rejected"
)

// CancellationRequest records a traveler's request to cancel a booking.
// Filing one never changes the booking's status; cancellation becomes
// authoritative only when an operator fulfills the request.
type CancellationRequest struct {
	id          uuid.UUID
	bookingID   uuid.UUID
	requesterID uuid.UUID
	reason      string
	status      CancellationRequestStatus
	resolvedAt  *time.Time
	createdAt   time.Time
	updatedAt   time.Time
}

// NewCancellationRequest creates a pending cancellation request.
func NewCancellationRequest(bookingID, requesterID uuid.UUID, reason string) (*CancellationRequest, error) {
	if bookingID == uuid.Nil {
		return nil, domain.NewValidationError("booking ID is required")
	}
	if requesterID == uuid.Nil {
		return nil, domain.NewValidationError("requester ID is required")
	}

	now := time.Now().UTC()
	return &CancellationRequest{
		id:          uuid.New(),
		bookingID:   bookingID,
		requesterID: requesterID,
		reason:      reason,
		status:      CancellationPending,
		createdAt:   now,
		updatedAt:   now,
	}, nil
}

// ReconstructCancellationRequest rebuilds a request from persistence data.
func ReconstructCancellationRequest(
	id uuid.UUID,
	bookingID uuid.UUID,
	requesterID uuid.UUID,
	reason string,
	status CancellationRequestStatus,
	resolvedAt *time.Time,
	createdAt time.Time,
	updatedAt time.Time,
) *CancellationRequest {
	return &CancellationRequest{
		id:          id,
		bookingID:   bookingID,
		requesterID: requesterID,
		reason:      reason,
		status:      status,
		resolvedAt:  resolvedAt,
		createdAt:   createdAt,
		updatedAt:   updatedAt,
	}
}

// ID returns the request's unique identifier.
func (r *CancellationRequest) ID() uuid.UUID { return r.id }

// BookingID returns the booking this request refers to.
func (r *CancellationRequest) BookingID() uuid.UUID { return r.bookingID }

// RequesterID returns the traveler who filed the request.
func (r *CancellationRequest) RequesterID() uuid.UUID { return r.requesterID }

// Reason returns the traveler's stated reason.
func (r *CancellationRequest) Reason() string { return r.reason }

// Status returns the review status.
func (r *CancellationRequest) Status() CancellationRequestStatus { return r.status }

// ResolvedAt returns when the request was fulfilled or rejected, or nil.
func (r *CancellationRequest) ResolvedAt() *time.Time { return r.resolvedAt }

// CreatedAt returns the creation timestamp.
func (r *CancellationRequest) CreatedAt() time.Time { return r.createdAt }

// UpdatedAt returns the last-updated timestamp.
func (r *CancellationRequest) UpdatedAt() time.Time { return r.updatedAt }

// Fulfill marks the request as carried out by an operator.
func (r *CancellationRequest) Fulfill() error {
	if r.status != CancellationPending {
		return domain.NewInvalidStateError(string(r.status), string(CancellationFulfilled))
	}
	now := time.Now().UTC()
	r.status = CancellationFulfilled
	r.resolvedAt = &now
	r.updatedAt = now
	return nil
}

// Reject marks the request as declined by an operator.
func (r *CancellationRequest) Reject() error {
	if r.status != CancellationPending {
		return domain.NewInvalidStateError(string(r.status), string(CancellationRejected))
	}
	now := time.Now().UTC()
	r.status = CancellationRejected
	r.resolvedAt = &now
	r.updatedAt = now
	return nil
}
