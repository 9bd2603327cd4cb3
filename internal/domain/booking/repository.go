package booking

import (
	"context"

	"github.com/google/uuid"
)

// BookingRepository defines the persistence contract for booking aggregates.
type BookingRepository interface {
	// FindByID retrieves a booking by its unique identifier.
	FindByID(ctx context.Context, id uuid.UUID) (*Booking, error)

	// FindByNumber retrieves a booking by its human-readable booking number.
	FindByNumber(ctx context.Context, number string) (*Booking, error)

	// FindByIdempotencyKey retrieves the booking created by an earlier
	// submission of the same draft, or a not-found error.
	FindByIdempotencyKey(ctx context.Context, key uuid.UUID) (*Booking, error)

	// FindByUserID retrieves bookings belonging to a specific traveler with pagination.
	FindByUserID(ctx context.Context, userID uuid.UUID, page, limit int) ([]*Booking, int64, error)

	// ListAll retrieves all bookings with pagination (admin).
	ListAll(ctx context.Context, page, limit int) ([]*Booking, int64, error)

	// CountByStatus returns booking counts grouped by booking_status (admin).
	CountByStatus(ctx context.Context) (map[string]int64, error)

	// Save persists a new booking.
	Save(ctx context.Context, booking *Booking) error

	// Update persists changes to an existing booking with optimistic locking.
	Update(ctx context.Context, booking *Booking) error
}

// CancellationRequestRepository stores traveler cancellation requests awaiting
// operator review.
type CancellationRequestRepository interface {
	// FindByID retrieves a cancellation request.
	FindByID(ctx context.Context, id uuid.UUID) (*CancellationRequest, error)

	// FindPendingByBookingID retrieves an open request for the booking, if any.
	FindPendingByBookingID(ctx context.Context, bookingID uuid.UUID) (*CancellationRequest, error)

	// ListByStatus retrieves requests in the given state with pagination (admin).
	ListByStatus(ctx context.Context, status CancellationRequestStatus, page, limit int) ([]*CancellationRequest, int64, error)

	// Save persists a new cancellation request.
	Save(ctx context.Context, request *CancellationRequest) error

	// Update persists changes to an existing request.
	Update(ctx context.Context, request *CancellationRequest) error
}
