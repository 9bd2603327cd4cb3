package events

import (
	"time"

	"github.com/google/uuid"
)

// Topics shared between the travel services.
const (
	TopicBookingEvents = "travel.booking.events"
	TopicPaymentEvents = "travel.payment.events"
)

// Event types published on TopicBookingEvents.
const (
	BookingCreated        = "travel.booking.created"
	BookingStatusChanged  = "travel.booking.status_changed"
	PaymentStatusChanged  = "travel.booking.payment_status_changed"
	CancellationRequested = "travel.booking.cancellation_requested"
)

// Event types consumed from TopicPaymentEvents, emitted by the payment service.
const (
	PaymentSucceeded = "travel.payment.succeeded"
	PaymentFailed    = "travel.payment.failed"
	PaymentRefunded  = "travel.payment.refunded"
)

// BookingCreatedEvent is published when a wizard submission produces a booking.
type BookingCreatedEvent struct {
	BookingID     uuid.UUID `json:"booking_id"`
	BookingNumber string    `json:"booking_number"`
	UserID        uuid.UUID `json:"user_id"`
	PackageID     uuid.UUID `json:"package_id"`
	StartDate     time.Time `json:"start_date"`
	EndDate       time.Time `json:"end_date"`
	TravelerCount int       `json:"traveler_count"`
	TotalCents    int64     `json:"total_cents"`
	Currency      string    `json:"currency"`
	OccurredAt    time.Time `json:"occurred_at"`
}

// BookingStatusChangedEvent is published on every booking_status transition.
type BookingStatusChangedEvent struct {
	BookingID     uuid.UUID `json:"booking_id"`
	BookingNumber string    `json:"booking_number"`
	UserID        uuid.UUID `json:"user_id"`
	FromStatus    string    `json:"from_status"`
	ToStatus      string    `json:"to_status"`
	OccurredAt    time.Time `json:"occurred_at"`
}

// PaymentStatusChangedEvent is published on every payment_status transition.
type PaymentStatusChangedEvent struct {
	BookingID     uuid.UUID `json:"booking_id"`
	BookingNumber string    `json:"booking_number"`
	UserID        uuid.UUID `json:"user_id"`
	FromStatus    string    `json:"from_status"`
	ToStatus      string    `json:"to_status"`
	OccurredAt    time.Time `json:"occurred_at"`
}

// CancellationRequestedEvent is published when a traveler asks for a
// cancellation. The booking status is unchanged until an operator acts.
type CancellationRequestedEvent struct {
	RequestID  uuid.UUID `json:"request_id"`
	BookingID  uuid.UUID `json:"booking_id"`
	UserID     uuid.UUID `json:"user_id"`
	Reason     string    `json:"reason"`
	OccurredAt time.Time `json:"occurred_at"`
}

// PaymentSucceededEvent signals that the gateway captured the payment.
type PaymentSucceededEvent struct {
	PaymentID   uuid.UUID `json:"payment_id"`
	BookingID   uuid.UUID `json:"booking_id"`
	AmountCents int64     `json:"amount_cents"`
	Currency    string    `json:"currency"`
	OccurredAt  time.Time `json:"occurred_at"`
}

// PaymentFailedEvent signals a declined or aborted payment.
type PaymentFailedEvent struct {
	PaymentID  uuid.UUID `json:"payment_id"`
	BookingID  uuid.UUID `json:"booking_id"`
	Reason     string    `json:"reason"`
	OccurredAt time.Time `json:"occurred_at"`
}

// PaymentRefundedEvent signals that a captured payment was returned.
type PaymentRefundedEvent struct {
	PaymentID   uuid.UUID `json:"payment_id"`
	BookingID   uuid.UUID `json:"booking_id"`
	AmountCents int64     `json:"amount_cents"`
	Currency    string    `json:"currency"`
	OccurredAt  time.Time `json:"occurred_at"`
}
