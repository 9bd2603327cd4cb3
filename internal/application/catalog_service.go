package application

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/viajemos/service-travel/internal/domain/booking"
	"github.com/viajemos/service-travel/internal/domain/catalog"
	"github.com/viajemos/service-travel/pkg/domain"
)

// PackageDTO is the response representation of a travel package.
type PackageDTO struct {
	ID           uuid.UUID               `json:"id"`
	Title        catalog.LocalizedText   `json:"title"`
	Description  catalog.LocalizedText   `json:"description"`
	BasePrice    int64                   `json:"base_price_cents"`
	Currency     string                  `json:"currency"`
	Destination  string                  `json:"destination"`
	DurationDays int                     `json:"duration_days"`
	Tiers        map[string]booking.Tier `json:"tiers"`
	Published    bool                    `json:"published"`
	CreatedAt    time.Time               `json:"created_at"`
	UpdatedAt    time.Time               `json:"updated_at"`
}

// CreatePackageRequest holds the data needed to create a catalog package.
type CreatePackageRequest struct {
	Title        catalog.LocalizedText   `json:"title" binding:"required"`
	Description  catalog.LocalizedText   `json:"description"`
	BasePrice    int64                   `json:"base_price_cents" binding:"required"`
	Currency     string                  `json:"currency"`
	Destination  string                  `json:"destination" binding:"required"`
	DurationDays int                     `json:"duration_days" binding:"required"`
	Tiers        map[string]booking.Tier `json:"tiers" binding:"required"`
}

// CatalogService exposes catalog read and admin use cases.
type CatalogService struct {
	packages catalog.PackageRepository
	logger   *zap.Logger
}

// NewCatalogService creates a new CatalogService.
func NewCatalogService(packages catalog.PackageRepository, logger *zap.Logger) *CatalogService {
	return &CatalogService{packages: packages, logger: logger}
}

// GetPublishedPackage retrieves a published package for the storefront.
func (s *CatalogService) GetPublishedPackage(ctx context.Context, id uuid.UUID) (*PackageDTO, error) {
	pkg, err := s.packages.FindPublishedByID(ctx, id)
	if err != nil {
		return nil, err
	}
	result := toPackageDTO(pkg)
	return &result, nil
}

// ListPublishedPackages retrieves the published catalog with pagination.
func (s *CatalogService) ListPublishedPackages(ctx context.Context, page, limit int) (*domain.PaginatedResult[PackageDTO], error) {
	pkgs, total, err := s.packages.ListPublished(ctx, page, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list packages: %w", err)
	}

	dtos := make([]PackageDTO, len(pkgs))
	for i, p := range pkgs {
		dtos[i] = toPackageDTO(p)
	}

	result := domain.NewPaginatedResult(dtos, total, page, limit)
	return &result, nil
}

// CreatePackage creates an unpublished catalog package (admin). Packages are
// priced in pesos unless another currency is given.
func (s *CatalogService) CreatePackage(ctx context.Context, req CreatePackageRequest) (*PackageDTO, error) {
	if req.Currency == "" {
		req.Currency = domain.CurrencyMXN
	}

	pkg, err := catalog.NewTravelPackage(
		req.Title,
		req.Description,
		req.BasePrice,
		req.Currency,
		req.Destination,
		req.DurationDays,
		req.Tiers,
	)
	if err != nil {
		return nil, err
	}

	if err := s.packages.Save(ctx, pkg); err != nil {
		return nil, fmt.Errorf("failed to save package: %w", err)
	}

	s.logger.Info("package created",
		zap.String("package_id", pkg.ID().String()),
		zap.String("destination", pkg.Destination()),
	)

	result := toPackageDTO(pkg)
	return &result, nil
}

// SetPublished publishes or unpublishes a package (admin).
func (s *CatalogService) SetPublished(ctx context.Context, id uuid.UUID, published bool) (*PackageDTO, error) {
	pkg, err := s.packages.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if published {
		pkg.Publish()
	} else {
		pkg.Unpublish()
	}

	if err := s.packages.Update(ctx, pkg); err != nil {
		return nil, fmt.Errorf("failed to update package: %w", err)
	}

	result := toPackageDTO(pkg)
	return &result, nil
}

func toPackageDTO(p *catalog.TravelPackage) PackageDTO {
	return PackageDTO{
		ID:           p.ID(),
		Title:        p.Title(),
		Description:  p.Description(),
		BasePrice:    p.BasePriceCents(),
		Currency:     p.Currency(),
		Destination:  p.Destination(),
		DurationDays: p.DurationDays(),
		Tiers:        p.Tiers(),
		Published:    p.Published(),
		CreatedAt:    p.CreatedAt(),
		UpdatedAt:    p.UpdatedAt(),
	}
}
