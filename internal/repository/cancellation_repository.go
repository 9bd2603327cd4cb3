package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	bookingDomain "github.com/viajemos/service-travel/internal/domain/booking"
	"github.com/viajemos/service-travel/pkg/domain"
)

// CancellationRequestModel is the GORM model for the cancellation_requests table.
type CancellationRequestModel struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey"`
	BookingID   uuid.UUID  `gorm:"type:uuid;index;not null"`
	RequesterID uuid.UUID  `gorm:"type:uuid;index;not null"`
	Reason      string     `gorm:"size:500"`
	Status      string     `gorm:"not null;size:30;index"`
	ResolvedAt  *time.Time `gorm:""`
	CreatedAt   time.Time  `gorm:"not null"`
	UpdatedAt   time.Time  `gorm:"not null"`
}

// TableName returns the table name for the GORM model.
func (CancellationRequestModel) TableName() string {
	return "cancellation_requests"
}

// GormCancellationRequestRepository is the GORM-based implementation of
// CancellationRequestRepository.
type GormCancellationRequestRepository struct {
	db *gorm.DB
}

// NewGormCancellationRequestRepository creates a new GormCancellationRequestRepository.
func NewGormCancellationRequestRepository(db *gorm.DB) *GormCancellationRequestRepository {
	return &GormCancellationRequestRepository{db: db}
}

// FindByID retrieves a cancellation request.
func (r *GormCancellationRequestRepository) FindByID(ctx context.Context, id uuid.UUID) (*bookingDomain.CancellationRequest, error) {
	var model CancellationRequestModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewNotFoundError("CancellationRequest", id.String())
		}
		return nil, fmt.Errorf("failed to find cancellation request: %w", err)
	}
	return toDomainCancellationRequest(&model), nil
}

// FindPendingByBookingID retrieves an open request for the booking, if any.
func (r *GormCancellationRequestRepository) FindPendingByBookingID(ctx context.Context, bookingID uuid.UUID) (*bookingDomain.CancellationRequest, error) {
	var model CancellationRequestModel
	err := r.db.WithContext(ctx).
		Where("booking_id = ? AND status = ?", bookingID, string(bookingDomain.CancellationPending)).
		First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewNotFoundError("CancellationRequest", bookingID.String())
		}
		return nil, fmt.Errorf("failed to find pending cancellation request: %w", err)
	}
	return toDomainCancellationRequest(&model), nil
}

// ListByStatus retrieves requests in the given state with pagination (admin).
func (r *GormCancellationRequestRepository) ListByStatus(ctx context.Context, status bookingDomain.CancellationRequestStatus, page, limit int) ([]*bookingDomain.CancellationRequest, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&CancellationRequestModel{}).Where("status = ?", string(status)).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count cancellation requests: %w", err)
	}

	var models []CancellationRequestModel
	offset := (page - 1) * limit
	if err := r.db.WithContext(ctx).
		Where("status = ?", string(status)).
		Order("created_at ASC").
		Offset(offset).
		Limit(limit).
		Find(&models).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list cancellation requests: %w", err)
	}

	requests := make([]*bookingDomain.CancellationRequest, len(models))
	for i, m := range models {
		requests[i] = toDomainCancellationRequest(&m)
	}

	return requests, total, nil
}

// Save persists a new cancellation request.
func (r *GormCancellationRequestRepository) Save(ctx context.Context, req *bookingDomain.CancellationRequest) error {
	model := toCancellationRequestModel(req)
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return fmt.Errorf("failed to save cancellation request: %w", err)
	}
	return nil
}

// Update persists changes to an existing request.
func (r *GormCancellationRequestRepository) Update(ctx context.Context, req *bookingDomain.CancellationRequest) error {
	model := toCancellationRequestModel(req)
	result := r.db.WithContext(ctx).
		Model(&CancellationRequestModel{}).
		Where("id = ?", model.ID).
		Updates(map[string]interface{}{
			"status":      model.Status,
			"resolved_at": model.ResolvedAt,
			"updated_at":  model.UpdatedAt,
		})

	if result.Error != nil {
		return fmt.Errorf("failed to update cancellation request: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.NewNotFoundError("CancellationRequest", model.ID.String())
	}
	return nil
}

// --- Conversion Helpers ---

func toCancellationRequestModel(req *bookingDomain.CancellationRequest) *CancellationRequestModel {
	return &CancellationRequestModel{
		ID:          req.ID(),
		BookingID:   req.BookingID(),
		RequesterID: req.RequesterID(),
		Reason:      req.Reason(),
		Status:      string(req.Status()),
		ResolvedAt:  req.ResolvedAt(),
		CreatedAt:   req.CreatedAt(),
		UpdatedAt:   req.UpdatedAt(),
	}
}

func toDomainCancellationRequest(m *CancellationRequestModel) *bookingDomain.CancellationRequest {
	return bookingDomain.ReconstructCancellationRequest(
		m.ID,
		m.BookingID,
		m.RequesterID,
		m.Reason,
		bookingDomain.CancellationRequestStatus(m.Status),
		m.ResolvedAt,
		m.CreatedAt,
		m.UpdatedAt,
	)
}
