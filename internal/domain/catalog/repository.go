package catalog

import (
	"context"

	"github.com/google/uuid"
)

// PackageRepository defines the persistence contract for catalog packages.
type PackageRepository interface {
	// FindByID retrieves a package regardless of published state (admin).
	FindByID(ctx context.Context, id uuid.UUID) (*TravelPackage, error)

	// FindPublishedByID retrieves a package only if it is currently
	// published; unpublished packages are reported as not found.
	FindPublishedByID(ctx context.Context, id uuid.UUID) (*TravelPackage, error)

	// ListPublished retrieves published packages with pagination.
	ListPublished(ctx context.Context, page, limit int) ([]*TravelPackage, int64, error)

	// Save persists a new package.
	Save(ctx context.Context, pkg *TravelPackage) error

	// Update persists changes to an existing package.
	Update(ctx context.Context, pkg *TravelPackage) error
}
