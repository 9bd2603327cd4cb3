package booking

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"net/mail"
	"time"

	"github.com/google/uuid"

	"github.com/viajemos/service-travel/pkg/domain"
)

const bookingNumberChars = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// TravelerDetails is the snapshot of traveler data captured at submission
// time. It is a copy, not a live reference: later changes to the package or
// the user's profile never touch an existing booking.
type TravelerDetails struct {
	Name            string `json:"name"`
	Email           string `json:"email"`
	Whatsapp        string `json:"whatsapp"`
	Count           int    `json:"count"`
	SpecialRequests string `json:"special_requests"`
}

// Booking is the aggregate root for a travel package reservation. Its two
// status fields are independent state machines and may only be mutated
// through the transition methods below.
type Booking struct {
	id             uuid.UUID
	bookingNumber  string
	userID         uuid.UUID
	packageID      uuid.UUID
	traveler       TravelerDetails
	startDate      time.Time
	endDate        time.Time
	tierName       string
	totalCents     int64
	currency       string
	bookingStatus  BookingStatus
	paymentStatus  PaymentStatus
	idempotencyKey uuid.UUID

	version   int64
	createdAt time.Time
	updatedAt time.Time
}

// generateBookingNumber creates a booking number in the format "TRV-XXXXXX".
func generateBookingNumber() (string, error) {
	result := make([]byte, 6)
	for i := range result {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(bookingNumberChars))))
		if err != nil {
			return "", fmt.Errorf("failed to generate booking number: %w", err)
		}
		result[i] = bookingNumberChars[n.Int64()]
	}
	return "TRV-" + string(result), nil
}

// NewBooking creates a Booking with booking_status=pending and
// payment_status=pending. The end date and total are derived here from the
// package duration and the selected tier, never taken from the caller.
func NewBooking(
	userID uuid.UUID,
	packageID uuid.UUID,
	traveler TravelerDetails,
	startDate time.Time,
	durationDays int,
	tierName string,
	tier Tier,
	idempotencyKey uuid.UUID,
) (*Booking, error) {
	if userID == uuid.Nil {
		return nil, domain.NewValidationError("user ID is required")
	}
	if packageID == uuid.Nil {
		return nil, domain.NewValidationError("package ID is required")
	}
	if traveler.Name == "" {
		return nil, domain.NewValidationError("traveler name is required")
	}
	if _, err := mail.ParseAddress(traveler.Email); err != nil {
		return nil, domain.NewValidationError("traveler email is invalid")
	}
	if traveler.Whatsapp == "" {
		return nil, domain.NewValidationError("traveler contact number is required")
	}
	if traveler.Count < 1 || traveler.Count > MaxTravelers {
		return nil, domain.NewValidationError(fmt.Sprintf("traveler count must be between 1 and %d", MaxTravelers))
	}
	if startDate.IsZero() {
		return nil, domain.NewValidationError("start date is required")
	}
	if durationDays < 1 {
		return nil, domain.NewValidationError("package duration must be at least one day")
	}
	if tierName == "" {
		return nil, domain.NewValidationError("pricing tier is required")
	}
	if tier.PriceCents <= 0 {
		return nil, domain.NewValidationError("tier price must be positive")
	}
	if idempotencyKey == uuid.Nil {
		return nil, domain.NewValidationError("idempotency key is required")
	}

	bookingNumber, err := generateBookingNumber()
	if err != nil {
		return nil, err
	}

	total := ComputeTotal(tier, traveler.Count)

	now := time.Now().UTC()
	return &Booking{
		id:             uuid.New(),
		bookingNumber:  bookingNumber,
		userID:         userID,
		packageID:      packageID,
		traveler:       traveler,
		startDate:      startDate,
		endDate:        DeriveEndDate(startDate, durationDays),
		tierName:       tierName,
		totalCents:     total.AmountCents,
		currency:       total.Currency,
		bookingStatus:  BookingPending,
		paymentStatus:  PaymentPending,
		idempotencyKey: idempotencyKey,
		version:        1,
		createdAt:      now,
		updatedAt:      now,
	}, nil
}

// ReconstructBooking rebuilds a Booking from persistence data (no validation).
func ReconstructBooking(
	id uuid.UUID,
	bookingNumber string,
	userID uuid.UUID,
	packageID uuid.UUID,
	traveler TravelerDetails,
	startDate time.Time,
	endDate time.Time,
	tierName string,
	totalCents int64,
	currency string,
	bookingStatus BookingStatus,
	paymentStatus PaymentStatus,
	idempotencyKey uuid.UUID,
	version int64,
	createdAt time.Time,
	updatedAt time.Time,
) *Booking {
	return &Booking{
		id:             id,
		bookingNumber:  bookingNumber,
		userID:         userID,
		packageID:      packageID,
		traveler:       traveler,
		startDate:      startDate,
		endDate:        endDate,
		tierName:       tierName,
		totalCents:     totalCents,
		currency:       currency,
		bookingStatus:  bookingStatus,
		paymentStatus:  paymentStatus,
		idempotencyKey: idempotencyKey,
		version:        version,
		createdAt:      createdAt,
		updatedAt:      updatedAt,
	}
}

// --- Getters ---

// ID returns the booking's unique identifier.
func (b *Booking) ID() uuid.UUID { return b.id }

// BookingNumber returns the human-readable booking number.
func (b *Booking) BookingNumber() string { return b.bookingNumber }

// UserID returns the ID of the traveler who created the booking.
func (b *Booking) UserID() uuid.UUID { return b.userID }

// PackageID returns the referenced travel package ID.
func (b *Booking) PackageID() uuid.UUID { return b.packageID }

// Traveler returns the traveler snapshot taken at submission.
func (b *Booking) Traveler() TravelerDetails { return b.traveler }

// StartDate returns the trip start date.
func (b *Booking) StartDate() time.Time { return b.startDate }

// EndDate returns the derived trip end date.
func (b *Booking) EndDate() time.Time { return b.endDate }

// TierName returns the selected pricing tier name.
func (b *Booking) TierName() string { return b.tierName }

// TotalCents returns the total amount in minor units.
func (b *Booking) TotalCents() int64 { return b.totalCents }

// Currency returns the currency code of the total.
func (b *Booking) Currency() string { return b.currency }

// Total returns the currency-tagged total amount.
func (b *Booking) Total() Money {
	return Money{AmountCents: b.totalCents, Currency: b.currency}
}

// BookingStatus returns the current booking status.
func (b *Booking) BookingStatus() BookingStatus { return b.bookingStatus }

// PaymentStatus returns the current payment status.
func (b *Booking) PaymentStatus() PaymentStatus { return b.paymentStatus }

// IdempotencyKey returns the client-generated submission key.
func (b *Booking) IdempotencyKey() uuid.UUID { return b.idempotencyKey }

// Version returns the entity version for optimistic locking.
func (b *Booking) Version() int64 { return b.version }

// CreatedAt returns the creation timestamp.
func (b *Booking) CreatedAt() time.Time { return b.createdAt }

// UpdatedAt returns the last-updated timestamp.
func (b *Booking) UpdatedAt() time.Time { return b.updatedAt }

// --- Behavior ---

// TransitionBookingStatus moves booking_status along its state machine.
// Disallowed transitions are rejected, never applied.
func (b *Booking) TransitionBookingStatus(target BookingStatus) error {
	if !target.IsValid() {
		return domain.NewValidationError(fmt.Sprintf("invalid booking status: %s", target))
	}
	if !b.bookingStatus.CanTransitionTo(target) {
		return domain.NewInvalidStateError(string(b.bookingStatus), string(target))
	}
	b.bookingStatus = target
	b.updatedAt = time.Now().UTC()
	return nil
}

// TransitionPaymentStatus moves payment_status along the one-directional
// payment graph. Once paid, pending is unreachable.
func (b *Booking) TransitionPaymentStatus(target PaymentStatus) error {
	if !target.IsValid() {
		return domain.NewValidationError(fmt.Sprintf("invalid payment status: %s", target))
	}
	if !b.paymentStatus.CanTransitionTo(target) {
		return domain.NewInvalidStateError(string(b.paymentStatus), string(target))
	}
	b.paymentStatus = target
	b.updatedAt = time.Now().UTC()
	return nil
}

// IncrementVersion bumps the version for optimistic locking.
func (b *Booking) IncrementVersion() {
	b.version++
	b.updatedAt = time.Now().UTC()
}
