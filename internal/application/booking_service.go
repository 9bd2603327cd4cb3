package application

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	bookingDomain "github.com/viajemos/service-travel/internal/domain/booking"
	"github.com/viajemos/service-travel/internal/domain/catalog"
	"github.com/viajemos/service-travel/internal/wizard"
	"github.com/viajemos/service-travel/pkg/domain"
	"github.com/viajemos/service-travel/pkg/events"
	"github.com/viajemos/service-travel/pkg/kafka"
)

// BookingDTO is the response representation of a booking.
type BookingDTO struct {
	ID             uuid.UUID                     `json:"id"`
	BookingNumber  string                        `json:"booking_number"`
	UserID         uuid.UUID                     `json:"user_id"`
	PackageID      uuid.UUID                     `json:"package_id"`
	Traveler       bookingDomain.TravelerDetails `json:"traveler"`
	StartDate      time.Time                     `json:"start_date"`
	EndDate        time.Time                     `json:"end_date"`
	TierName       string                        `json:"tier_name"`
	TotalCents     int64                         `json:"total_cents"`
	Currency       string                        `json:"currency"`
	BookingStatus  string                        `json:"booking_status"`
	PaymentStatus  string                        `json:"payment_status"`
	Version        int64                         `json:"version"`
	CreatedAt      time.Time                     `json:"created_at"`
	UpdatedAt      time.Time                     `json:"updated_at"`
}

// CancellationRequestDTO acknowledges a traveler's cancellation request.
type CancellationRequestDTO struct {
	ID         uuid.UUID  `json:"id"`
	BookingID  uuid.UUID  `json:"booking_id"`
	Requester  uuid.UUID  `json:"requester_id"`
	Reason     string     `json:"reason,omitempty"`
	Status     string     `json:"status"`
	ResolvedAt *time.Time `json:"resolved_at,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
}

// EventPublisher publishes CloudEvents to a topic. *kafka.Producer is the
// production implementation.
type EventPublisher interface {
	PublishEventWithKey(ctx context.Context, topic, key string, event kafka.CloudEvent) error
}

// BookingService is the booking lifecycle manager: it converts completed
// drafts into persisted bookings and is the sole authority over their two
// status fields.
type BookingService struct {
	bookings      bookingDomain.BookingRepository
	cancellations bookingDomain.CancellationRequestRepository
	packages      catalog.PackageRepository
	producer      EventPublisher
	logger        *zap.Logger
}

// NewBookingService creates a new BookingService.
func NewBookingService(
	bookings bookingDomain.BookingRepository,
	cancellations bookingDomain.CancellationRequestRepository,
	packages catalog.PackageRepository,
	producer EventPublisher,
	logger *zap.Logger,
) *BookingService {
	return &BookingService{
		bookings:      bookings,
		cancellations: cancellations,
		packages:      packages,
		producer:      producer,
		logger:        logger,
	}
}

// CreateBooking converts a submitted draft into a persisted booking.
//
// The referenced package is re-read and must still be published: catalog
// state may have changed since the wizard opened, so this is a required
// re-check. End date and total are recomputed server-side from the live
// package; the draft's derived values are display-only. Submission is
// idempotent on the draft's key: a duplicate submission returns the booking
// the first one created.
func (s *BookingService) CreateBooking(ctx context.Context, userID uuid.UUID, draft wizard.Draft) (*BookingDTO, error) {
	if draft.IdempotencyKey != uuid.Nil {
		existing, err := s.bookings.FindByIdempotencyKey(ctx, draft.IdempotencyKey)
		if err == nil {
			s.logger.Info("duplicate submission, returning existing booking",
				zap.String("booking_id", existing.ID().String()),
				zap.String("idempotency_key", draft.IdempotencyKey.String()),
			)
			result := toBookingDTO(existing)
			return &result, nil
		}
		var appErr *domain.AppError
		if !errors.As(err, &appErr) || appErr.Kind != domain.KindNotFound {
			return nil, fmt.Errorf("failed to check idempotency key: %w", err)
		}
	}

	pkg, err := s.packages.FindPublishedByID(ctx, draft.PackageID)
	if err != nil {
		var appErr *domain.AppError
		if errors.As(err, &appErr) && appErr.Kind == domain.KindNotFound {
			return nil, domain.NewUnavailableError("package is no longer available")
		}
		return nil, err
	}

	if draft.StartDate == nil {
		return nil, domain.NewValidationError("start date is required")
	}

	tier, err := pkg.Tier(draft.TierName)
	if err != nil {
		return nil, err
	}

	traveler := bookingDomain.TravelerDetails{
		Name:            draft.TravelerName,
		Email:           draft.TravelerEmail,
		Whatsapp:        draft.TravelerWhatsapp,
		Count:           draft.TravelerCount,
		SpecialRequests: draft.SpecialRequests,
	}

	bk, err := bookingDomain.NewBooking(
		userID,
		pkg.ID(),
		traveler,
		*draft.StartDate,
		pkg.DurationDays(),
		draft.TierName,
		tier,
		draft.IdempotencyKey,
	)
	if err != nil {
		return nil, err
	}

	if err := s.bookings.Save(ctx, bk); err != nil {
		// A concurrent submission with the same key can slip past the lookup
		// above and lose the race on the unique index. Treat it as a replay.
		var appErr *domain.AppError
		if errors.As(err, &appErr) && appErr.Kind == domain.KindConflict && draft.IdempotencyKey != uuid.Nil {
			existing, findErr := s.bookings.FindByIdempotencyKey(ctx, draft.IdempotencyKey)
			if findErr == nil {
				s.logger.Info("concurrent duplicate submission, returning existing booking",
					zap.String("booking_id", existing.ID().String()),
					zap.String("idempotency_key", draft.IdempotencyKey.String()),
				)
				result := toBookingDTO(existing)
				return &result, nil
			}
		}
		return nil, fmt.Errorf("failed to save booking: %w", err)
	}

	evt := events.BookingCreatedEvent{
		BookingID:     bk.ID(),
		BookingNumber: bk.BookingNumber(),
		UserID:        bk.UserID(),
		PackageID:     bk.PackageID(),
		StartDate:     bk.StartDate(),
		EndDate:       bk.EndDate(),
		TravelerCount: bk.Traveler().Count,
		TotalCents:    bk.TotalCents(),
		Currency:      bk.Currency(),
		OccurredAt:    time.Now().UTC(),
	}
	s.publishEvent(ctx, events.TopicBookingEvents, events.BookingCreated, bk.ID().String(), evt)

	result := toBookingDTO(bk)
	return &result, nil
}

// TransitionPayment moves a booking's payment_status along the
// one-directional payment graph. Invoked by the payment collaborator, not by
// end-user action. Disallowed transitions are logged and rejected, never
// applied; a stale concurrent transition loses the compare-and-set in the
// repository and is rejected with a conflict.
func (s *BookingService) TransitionPayment(ctx context.Context, bookingID uuid.UUID, target bookingDomain.PaymentStatus) (*BookingDTO, error) {
	bk, err := s.bookings.FindByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	from := bk.PaymentStatus()
	if err := bk.TransitionPaymentStatus(target); err != nil {
		s.logger.Warn("rejected payment status transition",
			zap.String("booking_id", bookingID.String()),
			zap.String("from", string(from)),
			zap.String("to", string(target)),
		)
		return nil, err
	}

	bk.IncrementVersion()
	if err := s.bookings.Update(ctx, bk); err != nil {
		return nil, err
	}

	evt := events.PaymentStatusChangedEvent{
		BookingID:     bk.ID(),
		BookingNumber: bk.BookingNumber(),
		UserID:        bk.UserID(),
		FromStatus:    string(from),
		ToStatus:      string(target),
		OccurredAt:    time.Now().UTC(),
	}
	s.publishEvent(ctx, events.TopicBookingEvents, events.PaymentStatusChanged, bk.ID().String(), evt)

	result := toBookingDTO(bk)
	return &result, nil
}

// TransitionBookingStatus moves a booking's booking_status along its state
// machine. Invoked by operators or the automated confirmation job.
func (s *BookingService) TransitionBookingStatus(ctx context.Context, bookingID uuid.UUID, target bookingDomain.BookingStatus) (*BookingDTO, error) {
	bk, err := s.bookings.FindByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	from := bk.BookingStatus()
	if err := bk.TransitionBookingStatus(target); err != nil {
		s.logger.Warn("rejected booking status transition",
			zap.String("booking_id", bookingID.String()),
			zap.String("from", string(from)),
			zap.String("to", string(target)),
		)
		return nil, err
	}

	bk.IncrementVersion()
	if err := s.bookings.Update(ctx, bk); err != nil {
		return nil, err
	}

	evt := events.BookingStatusChangedEvent{
		BookingID:     bk.ID(),
		BookingNumber: bk.BookingNumber(),
		UserID:        bk.UserID(),
		FromStatus:    string(from),
		ToStatus:      string(target),
		OccurredAt:    time.Now().UTC(),
	}
	s.publishEvent(ctx, events.TopicBookingEvents, events.BookingStatusChanged, bk.ID().String(), evt)

	result := toBookingDTO(bk)
	return &result, nil
}

// RequestCancellation records a traveler's cancellation request for operator
// review and returns an acknowledgement. It never mutates booking_status:
// cancellation becomes authoritative only when an operator fulfills the
// request.
func (s *BookingService) RequestCancellation(ctx context.Context, bookingID, requesterID uuid.UUID, reason string) (*CancellationRequestDTO, error) {
	bk, err := s.bookings.FindByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if bk.UserID() != requesterID {
		return nil, domain.NewForbiddenError("booking does not belong to this user")
	}
	if bk.BookingStatus() == bookingDomain.BookingCancelled {
		return nil, domain.NewInvalidStateError(string(bookingDomain.BookingCancelled), "cancellation_requested")
	}

	if existing, err := s.cancellations.FindPendingByBookingID(ctx, bookingID); err == nil {
		result := toCancellationRequestDTO(existing)
		return &result, nil
	}

	req, err := bookingDomain.NewCancellationRequest(bookingID, requesterID, reason)
	if err != nil {
		return nil, err
	}
	if err := s.cancellations.Save(ctx, req); err != nil {
		return nil, fmt.Errorf("failed to save cancellation request: %w", err)
	}

	evt := events.CancellationRequestedEvent{
		RequestID:  req.ID(),
		BookingID:  bookingID,
		UserID:     requesterID,
		Reason:     reason,
		OccurredAt: time.Now().UTC(),
	}
	s.publishEvent(ctx, events.TopicBookingEvents, events.CancellationRequested, bookingID.String(), evt)

	result := toCancellationRequestDTO(req)
	return &result, nil
}

// FulfillCancellation carries out a pending cancellation request: the booking
// transitions to cancelled and the request is marked fulfilled.
func (s *BookingService) FulfillCancellation(ctx context.Context, requestID uuid.UUID) (*CancellationRequestDTO, error) {
	req, err := s.cancellations.FindByID(ctx, requestID)
	if err != nil {
		return nil, err
	}

	if _, err := s.TransitionBookingStatus(ctx, req.BookingID(), bookingDomain.BookingCancelled); err != nil {
		return nil, err
	}

	if err := req.Fulfill(); err != nil {
		return nil, err
	}
	if err := s.cancellations.Update(ctx, req); err != nil {
		return nil, fmt.Errorf("failed to update cancellation request: %w", err)
	}

	result := toCancellationRequestDTO(req)
	return &result, nil
}

// RejectCancellation declines a pending cancellation request without touching
// the booking.
func (s *BookingService) RejectCancellation(ctx context.Context, requestID uuid.UUID) (*CancellationRequestDTO, error) {
	req, err := s.cancellations.FindByID(ctx, requestID)
	if err != nil {
		return nil, err
	}

	if err := req.Reject(); err != nil {
		return nil, err
	}
	if err := s.cancellations.Update(ctx, req); err != nil {
		return nil, fmt.Errorf("failed to update cancellation request: %w", err)
	}

	result := toCancellationRequestDTO(req)
	return &result, nil
}

// ListCancellationRequests returns requests awaiting review (admin).
func (s *BookingService) ListCancellationRequests(ctx context.Context, page, limit int) (*domain.PaginatedResult[CancellationRequestDTO], error) {
	reqs, total, err := s.cancellations.ListByStatus(ctx, bookingDomain.CancellationPending, page, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list cancellation requests: %w", err)
	}

	dtos := make([]CancellationRequestDTO, len(reqs))
	for i, r := range reqs {
		dtos[i] = toCancellationRequestDTO(r)
	}

	result := domain.NewPaginatedResult(dtos, total, page, limit)
	return &result, nil
}

// GetBooking retrieves a single booking by ID for its owner.
func (s *BookingService) GetBooking(ctx context.Context, bookingID, userID uuid.UUID) (*BookingDTO, error) {
	bk, err := s.bookings.FindByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if bk.UserID() != userID {
		return nil, domain.NewForbiddenError("booking does not belong to this user")
	}
	result := toBookingDTO(bk)
	return &result, nil
}

// GetUserBookings retrieves paginated bookings for a traveler's dashboard.
func (s *BookingService) GetUserBookings(ctx context.Context, userID uuid.UUID, page, limit int) (*domain.PaginatedResult[BookingDTO], error) {
	bookings, total, err := s.bookings.FindByUserID(ctx, userID, page, limit)
	if err != nil {
		return nil, err
	}

	dtos := make([]BookingDTO, len(bookings))
	for i, bk := range bookings {
		dtos[i] = toBookingDTO(bk)
	}

	result := domain.NewPaginatedResult(dtos, total, page, limit)
	return &result, nil
}

// --- Admin methods ---

// BookingStatsDTO holds booking statistics for the admin dashboard.
type BookingStatsDTO struct {
	TotalBookings int64            `json:"total_bookings"`
	ByStatus      map[string]int64 `json:"by_status"`
}

// ListAllBookings returns a paginated list of all bookings (admin).
func (s *BookingService) ListAllBookings(ctx context.Context, page, limit int) ([]BookingDTO, int64, error) {
	bookings, total, err := s.bookings.ListAll(ctx, page, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list bookings: %w", err)
	}

	dtos := make([]BookingDTO, len(bookings))
	for i, bk := range bookings {
		dtos[i] = toBookingDTO(bk)
	}
	return dtos, total, nil
}

// GetBookingStats returns aggregate booking statistics (admin).
func (s *BookingService) GetBookingStats(ctx context.Context) (*BookingStatsDTO, error) {
	counts, err := s.bookings.CountByStatus(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get booking stats: %w", err)
	}

	var total int64
	for _, c := range counts {
		total += c
	}

	return &BookingStatsDTO{
		TotalBookings: total,
		ByStatus:      counts,
	}, nil
}

// --- Helpers ---

func toBookingDTO(bk *bookingDomain.Booking) BookingDTO {
	return BookingDTO{
		ID:            bk.ID(),
		BookingNumber: bk.BookingNumber(),
		UserID:        bk.UserID(),
		PackageID:     bk.PackageID(),
		Traveler:      bk.Traveler(),
		StartDate:     bk.StartDate(),
		EndDate:       bk.EndDate(),
		TierName:      bk.TierName(),
		TotalCents:    bk.TotalCents(),
		Currency:      bk.Currency(),
		BookingStatus: string(bk.BookingStatus()),
		PaymentStatus: string(bk.PaymentStatus()),
		Version:       bk.Version(),
		CreatedAt:     bk.CreatedAt(),
		UpdatedAt:     bk.UpdatedAt(),
	}
}

func toCancellationRequestDTO(r *bookingDomain.CancellationRequest) CancellationRequestDTO {
	return CancellationRequestDTO{
		ID:         r.ID(),
		BookingID:  r.BookingID(),
		Requester:  r.RequesterID(),
		Reason:     r.Reason(),
		Status:     string(r.Status()),
		ResolvedAt: r.ResolvedAt(),
		CreatedAt:  r.CreatedAt(),
	}
}

func (s *BookingService) publishEvent(ctx context.Context, topic, eventType, key string, data interface{}) {
	cloudEvent, err := kafka.NewCloudEvent("service-travel", eventType, data)
	if err != nil {
		s.logger.Error("failed to create cloud event",
			zap.String("event_type", eventType),
			zap.Error(err),
		)
		return
	}

	if err := s.producer.PublishEventWithKey(ctx, topic, key, cloudEvent); err != nil {
		s.logger.Error("failed to publish event",
			zap.String("topic", topic),
			zap.String("event_type", eventType),
			zap.Error(err),
		)
	}
}
