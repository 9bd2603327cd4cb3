package catalog

import (
	"time"

	"github.com/google/uuid"

	"github.com/viajemos/service-travel/internal/domain/booking"
	"github.com/viajemos/service-travel/pkg/domain"
)

// LocalizedText maps a language code to a translated string.
type LocalizedText map[string]string

// Get returns the text for the language, falling back to Spanish and then to
// any available translation.
func (t LocalizedText) Get(lang string) string {
	if s, ok := t[lang]; ok {
		return s
	}
	if s, ok := t["es"]; ok {
		return s
	}
	for _, s := range t {
		return s
	}
	return ""
}

// TravelPackage is the catalog entity a booking references. It is read-only
// from the booking subsystem's perspective; only catalog admins mutate it.
type TravelPackage struct {
	id           uuid.UUID
	title        LocalizedText
	description  LocalizedText
	basePrice    int64
	currency     string
	destination  string
	durationDays int
	tiers        map[string]booking.Tier
	published    bool
	createdAt    time.Time
	updatedAt    time.Time
}

// NewTravelPackage creates a catalog package. New packages start unpublished.
func NewTravelPackage(
	title LocalizedText,
	description LocalizedText,
	basePriceCents int64,
	currency string,
	destination string,
	durationDays int,
	tiers map[string]booking.Tier,
) (*TravelPackage, error) {
	if len(title) == 0 {
		return nil, domain.NewValidationError("package title is required")
	}
	if basePriceCents <= 0 {
		return nil, domain.NewValidationError("base price must be positive")
	}
	if currency == "" {
		return nil, domain.NewValidationError("currency is required")
	}
	if destination == "" {
		return nil, domain.NewValidationError("destination is required")
	}
	if durationDays < 1 {
		return nil, domain.NewValidationError("duration must be at least one day")
	}
	if len(tiers) == 0 {
		return nil, domain.NewValidationError("at least one pricing tier is required")
	}
	for name, tier := range tiers {
		if tier.PriceCents <= 0 {
			return nil, domain.NewValidationError("tier price must be positive: " + name)
		}
	}

	now := time.Now().UTC()
	return &TravelPackage{
		id:           uuid.New(),
		title:        title,
		description:  description,
		basePrice:    basePriceCents,
		currency:     currency,
		destination:  destination,
		durationDays: durationDays,
		tiers:        tiers,
		published:    false,
		createdAt:    now,
		updatedAt:    now,
	}, nil
}

// ReconstructTravelPackage rebuilds a package from persistence data.
func ReconstructTravelPackage(
	id uuid.UUID,
	title LocalizedText,
	description LocalizedText,
	basePriceCents int64,
	currency string,
	destination string,
	durationDays int,
	tiers map[string]booking.Tier,
	published bool,
	createdAt time.Time,
	updatedAt time.Time,
) *TravelPackage {
	return &TravelPackage{
		id:           id,
		title:        title,
		description:  description,
		basePrice:    basePriceCents,
		currency:     currency,
		destination:  destination,
		durationDays: durationDays,
		tiers:        tiers,
		published:    published,
		createdAt:    createdAt,
		updatedAt:    updatedAt,
	}
}

// ID returns the package's unique identifier.
func (p *TravelPackage) ID() uuid.UUID { return p.id }

// Title returns the localized title.
func (p *TravelPackage) Title() LocalizedText { return p.title }

// Description returns the localized description.
func (p *TravelPackage) Description() LocalizedText { return p.description }

// BasePriceCents returns the base price in minor units.
func (p *TravelPackage) BasePriceCents() int64 { return p.basePrice }

// Currency returns the package currency code.
func (p *TravelPackage) Currency() string { return p.currency }

// Destination returns the destination name.
func (p *TravelPackage) Destination() string { return p.destination }

// DurationDays returns the trip duration in inclusive days.
func (p *TravelPackage) DurationDays() int { return p.durationDays }

// Tiers returns the pricing tiers keyed by tier name.
func (p *TravelPackage) Tiers() map[string]booking.Tier { return p.tiers }

// Published returns whether the package is visible and bookable.
func (p *TravelPackage) Published() bool { return p.published }

// CreatedAt returns the creation timestamp.
func (p *TravelPackage) CreatedAt() time.Time { return p.createdAt }

// UpdatedAt returns the last-updated timestamp.
func (p *TravelPackage) UpdatedAt() time.Time { return p.updatedAt }

// Tier returns the named pricing tier.
func (p *TravelPackage) Tier(name string) (booking.Tier, error) {
	tier, ok := p.tiers[name]
	if !ok {
		return booking.Tier{}, domain.NewValidationError("unknown pricing tier: " + name)
	}
	return tier, nil
}

// Publish makes the package visible and bookable.
func (p *TravelPackage) Publish() {
	p.published = true
	p.updatedAt = time.Now().UTC()
}

// Unpublish hides the package from the catalog. Existing bookings keep their
// snapshots and are unaffected.
func (p *TravelPackage) Unpublish() {
	p.published = false
	p.updatedAt = time.Now().UTC()
}
