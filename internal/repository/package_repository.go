package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/viajemos/service-travel/internal/domain/booking"
	"github.com/viajemos/service-travel/internal/domain/catalog"
	"github.com/viajemos/service-travel/pkg/domain"
)

// PackageModel is the GORM model for the travel_packages table.
type PackageModel struct {
	ID           uuid.UUID       `gorm:"type:uuid;primaryKey"`
	Title        json.RawMessage `gorm:"type:jsonb;not null"`
	Description  json.RawMessage `gorm:"type:jsonb"`
	BasePrice    int64           `gorm:"not null"`
	Currency     string          `gorm:"not null;size:3;default:'MXN'"`
	Destination  string          `gorm:"not null;size:200;index"`
	DurationDays int             `gorm:"not null"`
	Tiers        json.RawMessage `gorm:"type:jsonb;not null"`
	Published    bool            `gorm:"not null;default:false;index"`
	CreatedAt    time.Time       `gorm:"not null"`
	UpdatedAt    time.Time       `gorm:"not null"`
}

// TableName returns the table name for the GORM model.
func (PackageModel) TableName() string {
	return "travel_packages"
}

// GormPackageRepository is the GORM-based implementation of PackageRepository.
type GormPackageRepository struct {
	db *gorm.DB
}

// NewGormPackageRepository creates a new GormPackageRepository.
func NewGormPackageRepository(db *gorm.DB) *GormPackageRepository {
	return &GormPackageRepository{db: db}
}

// FindByID retrieves a package regardless of published state (admin).
func (r *GormPackageRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.TravelPackage, error) {
	var model PackageModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewNotFoundError("TravelPackage", id.String())
		}
		return nil, fmt.Errorf("failed to find package by ID: %w", err)
	}
	return toDomainPackage(&model)
}

// FindPublishedByID retrieves a package only if it is currently published.
func (r *GormPackageRepository) FindPublishedByID(ctx context.Context, id uuid.UUID) (*catalog.TravelPackage, error) {
	var model PackageModel
	if err := r.db.WithContext(ctx).Where("id = ? AND published = true", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewNotFoundError("TravelPackage", id.String())
		}
		return nil, fmt.Errorf("failed to find published package: %w", err)
	}
	return toDomainPackage(&model)
}

// ListPublished retrieves published packages with pagination.
func (r *GormPackageRepository) ListPublished(ctx context.Context, page, limit int) ([]*catalog.TravelPackage, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&PackageModel{}).Where("published = true").Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count packages: %w", err)
	}

	var models []PackageModel
	offset := (page - 1) * limit
	if err := r.db.WithContext(ctx).
		Where("published = true").
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&models).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list packages: %w", err)
	}

	pkgs := make([]*catalog.TravelPackage, len(models))
	for i, m := range models {
		pkg, err := toDomainPackage(&m)
		if err != nil {
			return nil, 0, err
		}
		pkgs[i] = pkg
	}

	return pkgs, total, nil
}

// Save persists a new package.
func (r *GormPackageRepository) Save(ctx context.Context, pkg *catalog.TravelPackage) error {
	model, err := toPackageModel(pkg)
	if err != nil {
		return fmt.Errorf("failed to convert package to model: %w", err)
	}

	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return fmt.Errorf("failed to save package: %w", err)
	}
	return nil
}

// Update persists changes to an existing package.
func (r *GormPackageRepository) Update(ctx context.Context, pkg *catalog.TravelPackage) error {
	model, err := toPackageModel(pkg)
	if err != nil {
		return fmt.Errorf("failed to convert package to model: %w", err)
	}

	result := r.db.WithContext(ctx).
		Model(&PackageModel{}).
		Where("id = ?", model.ID).
		Updates(map[string]interface{}{
			"title":         model.Title,
			"description":   model.Description,
			"base_price":    model.BasePrice,
			"currency":      model.Currency,
			"destination":   model.Destination,
			"duration_days": model.DurationDays,
			"tiers":         model.Tiers,
			"published":     model.Published,
			"updated_at":    model.UpdatedAt,
		})

	if result.Error != nil {
		return fmt.Errorf("failed to update package: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.NewNotFoundError("TravelPackage", model.ID.String())
	}
	return nil
}

// --- Conversion Helpers ---

func toPackageModel(pkg *catalog.TravelPackage) (*PackageModel, error) {
	titleJSON, err := json.Marshal(pkg.Title())
	if err != nil {
		return nil, fmt.Errorf("failed to marshal title: %w", err)
	}

	descJSON, err := json.Marshal(pkg.Description())
	if err != nil {
		return nil, fmt.Errorf("failed to marshal description: %w", err)
	}

	tiersJSON, err := json.Marshal(pkg.Tiers())
	if err != nil {
		return nil, fmt.Errorf("failed to marshal tiers: %w", err)
	}

	return &PackageModel{
		ID:           pkg.ID(),
		Title:        titleJSON,
		Description:  descJSON,
		BasePrice:    pkg.BasePriceCents(),
		Currency:     pkg.Currency(),
		Destination:  pkg.Destination(),
		DurationDays: pkg.DurationDays(),
		Tiers:        tiersJSON,
		Published:    pkg.Published(),
		CreatedAt:    pkg.CreatedAt(),
		UpdatedAt:    pkg.UpdatedAt(),
	}, nil
}

func toDomainPackage(m *PackageModel) (*catalog.TravelPackage, error) {
	var title catalog.LocalizedText
	if err := json.Unmarshal(m.Title, &title); err != nil {
		return nil, fmt.Errorf("failed to unmarshal title: %w", err)
	}

	var description catalog.LocalizedText
	if len(m.Description) > 0 {
		if err := json.Unmarshal(m.Description, &description); err != nil {
			return nil, fmt.Errorf("failed to unmarshal description: %w", err)
		}
	}

	var tiers map[string]booking.Tier
	if err := json.Unmarshal(m.Tiers, &tiers); err != nil {
		return nil, fmt.Errorf("failed to unmarshal tiers: %w", err)
	}

	return catalog.ReconstructTravelPackage(
		m.ID,
		title,
		description,
		m.BasePrice,
		m.Currency,
		m.Destination,
		m.DurationDays,
		tiers,
		m.Published,
		m.CreatedAt,
		m.UpdatedAt,
	), nil
}
