package application

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	bookingDomain "github.com/viajemos/service-travel/internal/domain/booking"
	"github.com/viajemos/service-travel/internal/domain/catalog"
	"github.com/viajemos/service-travel/internal/wizard"
	"github.com/viajemos/service-travel/pkg/domain"
	"github.com/viajemos/service-travel/pkg/events"
)

type serviceFixture struct {
	service       *BookingService
	bookings      *fakeBookingRepository
	cancellations *fakeCancellationRepository
	packages      *fakePackageRepository
	publisher     *fakePublisher
}

func newServiceFixture(t *testing.T) *serviceFixture {
	t.Helper()
	bookings := newFakeBookingRepository()
	cancellations := newFakeCancellationRepository()
	packages := newFakePackageRepository()
	publisher := &fakePublisher{}

	service := NewBookingService(bookings, cancellations, packages, publisher, zap.NewNop())
	return &serviceFixture{
		service:       service,
		bookings:      bookings,
		cancellations: cancellations,
		packages:      packages,
		publisher:     publisher,
	}
}

func (f *serviceFixture) seedPackage(t *testing.T, published bool) *catalog.TravelPackage {
	t.Helper()
	pkg, err := catalog.NewTravelPackage(
		catalog.LocalizedText{"es": "Oaxaca Gastronómica"},
		catalog.LocalizedText{"es": "Cinco días de cocina oaxaqueña"},
		250000,
		"MXN",
		"Oaxaca",
		5,
		map[string]bookingDomain.Tier{
			"standard": {PriceCents: 250000, Currency: "MXN"},
			"premium":  {PriceCents: 400000, Currency: "MXN"},
		},
	)
	require.NoError(t, err)
	if published {
		pkg.Publish()
	}
	require.NoError(t, f.packages.Save(context.Background(), pkg))
	return pkg
}

func completedDraft(pkg *catalog.TravelPackage) wizard.Draft {
	start := time.Date(2026, 11, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 0, 4)
	return wizard.Draft{
		PackageID:        pkg.ID(),
		TravelerName:     "Ana Torres",
		TravelerEmail:    "ana.torres@example.com",
		TravelerWhatsapp: "+52 55 1234 5678",
		TravelerCount:    2,
		StartDate:        &start,
		EndDate:          &end,
		TierName:         "standard",
		IdempotencyKey:   uuid.New(),
	}
}

func TestCreateBooking(t *testing.T) {
	ctx := context.Background()

	t.Run("creates a pending booking with derived values", func(t *testing.T) {
		f := newServiceFixture(t)
		pkg := f.seedPackage(t, true)
		userID := uuid.New()

		dto, err := f.service.CreateBooking(ctx, userID, completedDraft(pkg))
		require.NoError(t, err)

		assert.Equal(t, "pending", dto.BookingStatus)
		assert.Equal(t, "pending", dto.PaymentStatus)
		assert.Equal(t, time.Date(2026, 11, 5, 0, 0, 0, 0, time.UTC), dto.EndDate)
		assert.Equal(t, int64(500000), dto.TotalCents)
		assert.Equal(t, "MXN", dto.Currency)
		assert.Equal(t, 2, dto.Traveler.Count)

		created := f.publisher.eventsOfType(events.BookingCreated)
		require.Len(t, created, 1)

		var evt events.BookingCreatedEvent
		require.NoError(t, created[0].ParseData(&evt))
		assert.Equal(t, dto.ID, evt.BookingID)
		assert.Equal(t, int64(500000), evt.TotalCents)
	})

	t.Run("duplicate submission returns the existing booking", func(t *testing.T) {
		f := newServiceFixture(t)
		pkg := f.seedPackage(t, true)
		userID := uuid.New()
		draft := completedDraft(pkg)

		first, err := f.service.CreateBooking(ctx, userID, draft)
		require.NoError(t, err)

		second, err := f.service.CreateBooking(ctx, userID, draft)
		require.NoError(t, err)

		assert.Equal(t, first.ID, second.ID)
		assert.Equal(t, first.BookingNumber, second.BookingNumber)
		assert.Len(t, f.publisher.eventsOfType(events.BookingCreated), 1, "no second created event")
	})

	t.Run("concurrent duplicate losing the unique-key race returns the existing booking", func(t *testing.T) {
		f := newServiceFixture(t)
		pkg := f.seedPackage(t, true)
		userID := uuid.New()
		draft := completedDraft(pkg)

		first, err := f.service.CreateBooking(ctx, userID, draft)
		require.NoError(t, err)

		// The second submission's pre-check misses, so it falls through to
		// Save and hits the unique key, like two requests racing each other.
		racing := &racingBookingRepository{fakeBookingRepository: f.bookings, misses: 1}
		service := NewBookingService(racing, f.cancellations, f.packages, f.publisher, zap.NewNop())

		second, err := service.CreateBooking(ctx, userID, draft)
		require.NoError(t, err)

		assert.Equal(t, first.ID, second.ID)
		assert.Len(t, f.publisher.eventsOfType(events.BookingCreated), 1, "no second created event")
	})

	t.Run("unpublished package is reported unavailable", func(t *testing.T) {
		f := newServiceFixture(t)
		pkg := f.seedPackage(t, false)

		_, err := f.service.CreateBooking(ctx, uuid.New(), completedDraft(pkg))
		var appErr *domain.AppError
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, domain.KindUnavailable, appErr.Kind)
	})

	t.Run("unknown tier is rejected", func(t *testing.T) {
		f := newServiceFixture(t)
		pkg := f.seedPackage(t, true)
		draft := completedDraft(pkg)
		draft.TierName = "imaginary"

		_, err := f.service.CreateBooking(ctx, uuid.New(), draft)
		var appErr *domain.AppError
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, domain.KindValidation, appErr.Kind)
	})
}

func TestTransitionPayment(t *testing.T) {
	ctx := context.Background()

	t.Run("pending to paid publishes a status change", func(t *testing.T) {
		f := newServiceFixture(t)
		pkg := f.seedPackage(t, true)
		dto, err := f.service.CreateBooking(ctx, uuid.New(), completedDraft(pkg))
		require.NoError(t, err)

		updated, err := f.service.TransitionPayment(ctx, dto.ID, bookingDomain.PaymentPaid)
		require.NoError(t, err)
		assert.Equal(t, "paid", updated.PaymentStatus)
		assert.Equal(t, "pending", updated.BookingStatus, "booking status untouched")
		assert.Equal(t, dto.Version+1, updated.Version)

		changed := f.publisher.eventsOfType(events.PaymentStatusChanged)
		require.Len(t, changed, 1)
		var evt events.PaymentStatusChangedEvent
		require.NoError(t, changed[0].ParseData(&evt))
		assert.Equal(t, "pending", evt.FromStatus)
		assert.Equal(t, "paid", evt.ToStatus)
	})

	t.Run("refunded booking rejects paid and stays refunded", func(t *testing.T) {
		f := newServiceFixture(t)
		pkg := f.seedPackage(t, true)
		dto, err := f.service.CreateBooking(ctx, uuid.New(), completedDraft(pkg))
		require.NoError(t, err)

		_, err = f.service.TransitionPayment(ctx, dto.ID, bookingDomain.PaymentPaid)
		require.NoError(t, err)
		_, err = f.service.TransitionPayment(ctx, dto.ID, bookingDomain.PaymentRefunded)
		require.NoError(t, err)

		_, err = f.service.TransitionPayment(ctx, dto.ID, bookingDomain.PaymentPaid)
		var appErr *domain.AppError
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, domain.KindInvalidState, appErr.Kind)

		bk, err := f.bookings.FindByID(ctx, dto.ID)
		require.NoError(t, err)
		assert.Equal(t, bookingDomain.PaymentRefunded, bk.PaymentStatus())
	})
}

func TestTransitionBookingStatus(t *testing.T) {
	ctx := context.Background()
	f := newServiceFixture(t)
	pkg := f.seedPackage(t, true)
	dto, err := f.service.CreateBooking(ctx, uuid.New(), completedDraft(pkg))
	require.NoError(t, err)

	confirmed, err := f.service.TransitionBookingStatus(ctx, dto.ID, bookingDomain.BookingConfirmed)
	require.NoError(t, err)
	assert.Equal(t, "confirmed", confirmed.BookingStatus)

	_, err = f.service.TransitionBookingStatus(ctx, dto.ID, bookingDomain.BookingPending)
	var appErr *domain.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, domain.KindInvalidState, appErr.Kind)
}

func TestRequestCancellation(t *testing.T) {
	ctx := context.Background()

	t.Run("records the request without touching the booking", func(t *testing.T) {
		f := newServiceFixture(t)
		pkg := f.seedPackage(t, true)
		userID := uuid.New()
		dto, err := f.service.CreateBooking(ctx, userID, completedDraft(pkg))
		require.NoError(t, err)

		req, err := f.service.RequestCancellation(ctx, dto.ID, userID, "change of plans")
		require.NoError(t, err)
		assert.Equal(t, "pending", req.Status)

		bk, err := f.bookings.FindByID(ctx, dto.ID)
		require.NoError(t, err)
		assert.Equal(t, bookingDomain.BookingPending, bk.BookingStatus(), "booking status unchanged")

		assert.Len(t, f.publisher.eventsOfType(events.CancellationRequested), 1)
	})

	t.Run("repeat request returns the existing pending request", func(t *testing.T) {
		f := newServiceFixture(t)
		pkg := f.seedPackage(t, true)
		userID := uuid.New()
		dto, err := f.service.CreateBooking(ctx, userID, completedDraft(pkg))
		require.NoError(t, err)

		first, err := f.service.RequestCancellation(ctx, dto.ID, userID, "change of plans")
		require.NoError(t, err)
		second, err := f.service.RequestCancellation(ctx, dto.ID, userID, "again")
		require.NoError(t, err)
		assert.Equal(t, first.ID, second.ID)
	})

	t.Run("another user's booking is forbidden", func(t *testing.T) {
		f := newServiceFixture(t)
		pkg := f.seedPackage(t, true)
		dto, err := f.service.CreateBooking(ctx, uuid.New(), completedDraft(pkg))
		require.NoError(t, err)

		_, err = f.service.RequestCancellation(ctx, dto.ID, uuid.New(), "")
		var appErr *domain.AppError
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, domain.KindForbidden, appErr.Kind)
	})

	t.Run("already cancelled booking is rejected", func(t *testing.T) {
		f := newServiceFixture(t)
		pkg := f.seedPackage(t, true)
		userID := uuid.New()
		dto, err := f.service.CreateBooking(ctx, userID, completedDraft(pkg))
		require.NoError(t, err)
		_, err = f.service.TransitionBookingStatus(ctx, dto.ID, bookingDomain.BookingCancelled)
		require.NoError(t, err)

		_, err = f.service.RequestCancellation(ctx, dto.ID, userID, "")
		var appErr *domain.AppError
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, domain.KindInvalidState, appErr.Kind)
	})
}

func TestFulfillCancellation(t *testing.T) {
	ctx := context.Background()
	f := newServiceFixture(t)
	pkg := f.seedPackage(t, true)
	userID := uuid.New()
	dto, err := f.service.CreateBooking(ctx, userID, completedDraft(pkg))
	require.NoError(t, err)

	req, err := f.service.RequestCancellation(ctx, dto.ID, userID, "change of plans")
	require.NoError(t, err)

	fulfilled, err := f.service.FulfillCancellation(ctx, req.ID)
	require.NoError(t, err)
	assert.Equal(t, "fulfilled", fulfilled.Status)
	assert.NotNil(t, fulfilled.ResolvedAt)

	bk, err := f.bookings.FindByID(ctx, dto.ID)
	require.NoError(t, err)
	assert.Equal(t, bookingDomain.BookingCancelled, bk.BookingStatus())
}

func TestRejectCancellation(t *testing.T) {
	ctx := context.Background()
	f := newServiceFixture(t)
	pkg := f.seedPackage(t, true)
	userID := uuid.New()
	dto, err := f.service.CreateBooking(ctx, userID, completedDraft(pkg))
	require.NoError(t, err)

	req, err := f.service.RequestCancellation(ctx, dto.ID, userID, "")
	require.NoError(t, err)

	rejected, err := f.service.RejectCancellation(ctx, req.ID)
	require.NoError(t, err)
	assert.Equal(t, "rejected", rejected.Status)

	bk, err := f.bookings.FindByID(ctx, dto.ID)
	require.NoError(t, err)
	assert.Equal(t, bookingDomain.BookingPending, bk.BookingStatus(), "rejection leaves the booking alone")
}

func TestGetBooking(t *testing.T) {
	ctx := context.Background()
	f := newServiceFixture(t)
	pkg := f.seedPackage(t, true)
	userID := uuid.New()
	dto, err := f.service.CreateBooking(ctx, userID, completedDraft(pkg))
	require.NoError(t, err)

	got, err := f.service.GetBooking(ctx, dto.ID, userID)
	require.NoError(t, err)
	assert.Equal(t, dto.ID, got.ID)

	_, err = f.service.GetBooking(ctx, dto.ID, uuid.New())
	var appErr *domain.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, domain.KindForbidden, appErr.Kind)
}

func TestGetBookingStats(t *testing.T) {
	ctx := context.Background()
	f := newServiceFixture(t)
	pkg := f.seedPackage(t, true)

	for i := 0; i < 3; i++ {
		_, err := f.service.CreateBooking(ctx, uuid.New(), completedDraft(pkg))
		require.NoError(t, err)
	}
	dto, err := f.service.CreateBooking(ctx, uuid.New(), completedDraft(pkg))
	require.NoError(t, err)
	_, err = f.service.TransitionBookingStatus(ctx, dto.ID, bookingDomain.BookingConfirmed)
	require.NoError(t, err)

	stats, err := f.service.GetBookingStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(4), stats.TotalBookings)
	assert.Equal(t, int64(3), stats.ByStatus["pending"])
	assert.Equal(t, int64(1), stats.ByStatus["confirmed"])
}
