package application

import (
	"context"
	"sync"

	"github.com/google/uuid"

	bookingDomain "github.com/viajemos/service-travel/internal/domain/booking"
	"github.com/viajemos/service-travel/internal/domain/catalog"
	"github.com/viajemos/service-travel/pkg/domain"
	"github.com/viajemos/service-travel/pkg/kafka"
)

// fakeBookingRepository is an in-memory BookingRepository for unit tests.
type fakeBookingRepository struct {
	mu       sync.Mutex
	bookings map[uuid.UUID]*bookingDomain.Booking
}

func newFakeBookingRepository() *fakeBookingRepository {
	return &fakeBookingRepository{bookings: make(map[uuid.UUID]*bookingDomain.Booking)}
}

func (r *fakeBookingRepository) FindByID(ctx context.Context, id uuid.UUID) (*bookingDomain.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	bk, ok := r.bookings[id]
	if !ok {
		return nil, domain.NewNotFoundError("Booking", id.String())
	}
	return bk, nil
}

func (r *fakeBookingRepository) FindByNumber(ctx context.Context, number string) (*bookingDomain.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, bk := range r.bookings {
		if bk.BookingNumber() == number {
			return bk, nil
		}
	}
	return nil, domain.NewNotFoundError("Booking", number)
}

func (r *fakeBookingRepository) FindByIdempotencyKey(ctx context.Context, key uuid.UUID) (*bookingDomain.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, bk := range r.bookings {
		if bk.IdempotencyKey() == key {
			return bk, nil
		}
	}
	return nil, domain.NewNotFoundError("Booking", key.String())
}

func (r *fakeBookingRepository) FindByUserID(ctx context.Context, userID uuid.UUID, page, limit int) ([]*bookingDomain.Booking, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []*bookingDomain.Booking
	for _, bk := range r.bookings {
		if bk.UserID() == userID {
			result = append(result, bk)
		}
	}
	return result, int64(len(result)), nil
}

func (r *fakeBookingRepository) ListAll(ctx context.Context, page, limit int) ([]*bookingDomain.Booking, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []*bookingDomain.Booking
	for _, bk := range r.bookings {
		result = append(result, bk)
	}
	return result, int64(len(result)), nil
}

func (r *fakeBookingRepository) CountByStatus(ctx context.Context) (map[string]int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	counts := make(map[string]int64)
	for _, bk := range r.bookings {
		counts[string(bk.BookingStatus())]++
	}
	return counts, nil
}

func (r *fakeBookingRepository) Save(ctx context.Context, bk *bookingDomain.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.bookings {
		if existing.IdempotencyKey() == bk.IdempotencyKey() {
			return domain.NewConflictError("booking already exists for this submission")
		}
	}
	r.bookings[bk.ID()] = bk
	return nil
}

func (r *fakeBookingRepository) Update(ctx context.Context, bk *bookingDomain.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.bookings[bk.ID()]; !ok {
		return domain.NewNotFoundError("Booking", bk.ID().String())
	}
	r.bookings[bk.ID()] = bk
	return nil
}

// racingBookingRepository simulates a concurrent duplicate submission: the
// idempotency-key lookup misses a given number of times before the stored
// booking becomes visible, while Save keeps enforcing the unique key.
type racingBookingRepository struct {
	*fakeBookingRepository
	misses int
}

func (r *racingBookingRepository) FindByIdempotencyKey(ctx context.Context, key uuid.UUID) (*bookingDomain.Booking, error) {
	if r.misses > 0 {
		r.misses--
		return nil, domain.NewNotFoundError("Booking", key.String())
	}
	return r.fakeBookingRepository.FindByIdempotencyKey(ctx, key)
}

// fakeCancellationRepository is an in-memory CancellationRequestRepository.
type fakeCancellationRepository struct {
	mu       sync.Mutex
	requests map[uuid.UUID]*bookingDomain.CancellationRequest
}

func newFakeCancellationRepository() *fakeCancellationRepository {
	return &fakeCancellationRepository{requests: make(map[uuid.UUID]*bookingDomain.CancellationRequest)}
}

func (r *fakeCancellationRepository) FindByID(ctx context.Context, id uuid.UUID) (*bookingDomain.CancellationRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	req, ok := r.requests[id]
	if !ok {
		return nil, domain.NewNotFoundError("CancellationRequest", id.String())
	}
	return req, nil
}

func (r *fakeCancellationRepository) FindPendingByBookingID(ctx context.Context, bookingID uuid.UUID) (*bookingDomain.CancellationRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, req := range r.requests {
		if req.BookingID() == bookingID && req.Status() == bookingDomain.CancellationPending {
			return req, nil
		}
	}
	return nil, domain.NewNotFoundError("CancellationRequest", bookingID.String())
}

func (r *fakeCancellationRepository) ListByStatus(ctx context.Context, status bookingDomain.CancellationRequestStatus, page, limit int) ([]*bookingDomain.CancellationRequest, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []*bookingDomain.CancellationRequest
	for _, req := range r.requests {
		if req.Status() == status {
			result = append(result, req)
		}
	}
	return result, int64(len(result)), nil
}

func (r *fakeCancellationRepository) Save(ctx context.Context, req *bookingDomain.CancellationRequest) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.requests[req.ID()] = req
	return nil
}

func (r *fakeCancellationRepository) Update(ctx context.Context, req *bookingDomain.CancellationRequest) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.requests[req.ID()]; !ok {
		return domain.NewNotFoundError("CancellationRequest", req.ID().String())
	}
	r.requests[req.ID()] = req
	return nil
}

// fakePackageRepository is an in-memory PackageRepository.
type fakePackageRepository struct {
	mu       sync.Mutex
	packages map[uuid.UUID]*catalog.TravelPackage
}

func newFakePackageRepository() *fakePackageRepository {
	return &fakePackageRepository{packages: make(map[uuid.UUID]*catalog.TravelPackage)}
}

func (r *fakePackageRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.TravelPackage, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	pkg, ok := r.packages[id]
	if !ok {
		return nil, domain.NewNotFoundError("TravelPackage", id.String())
	}
	return pkg, nil
}

func (r *fakePackageRepository) FindPublishedByID(ctx context.Context, id uuid.UUID) (*catalog.TravelPackage, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	pkg, ok := r.packages[id]
	if !ok || !pkg.Published() {
		return nil, domain.NewNotFoundError("TravelPackage", id.String())
	}
	return pkg, nil
}

func (r *fakePackageRepository) ListPublished(ctx context.Context, page, limit int) ([]*catalog.TravelPackage, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []*catalog.TravelPackage
	for _, pkg := range r.packages {
		if pkg.Published() {
			result = append(result, pkg)
		}
	}
	return result, int64(len(result)), nil
}

func (r *fakePackageRepository) Save(ctx context.Context, pkg *catalog.TravelPackage) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.packages[pkg.ID()] = pkg
	return nil
}

func (r *fakePackageRepository) Update(ctx context.Context, pkg *catalog.TravelPackage) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.packages[pkg.ID()]; !ok {
		return domain.NewNotFoundError("TravelPackage", pkg.ID().String())
	}
	r.packages[pkg.ID()] = pkg
	return nil
}

// fakePublisher records published events instead of talking to Kafka.
type fakePublisher struct {
	mu     sync.Mutex
	events []kafka.CloudEvent
}

func (p *fakePublisher) PublishEventWithKey(ctx context.Context, topic, key string, event kafka.CloudEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return nil
}

func (p *fakePublisher) eventsOfType(eventType string) []kafka.CloudEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	var result []kafka.CloudEvent
	for _, e := range p.events {
		if e.Type == eventType {
			result = append(result, e)
		}
	}
	return result
}
