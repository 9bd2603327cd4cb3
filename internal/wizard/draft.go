package wizard

import (
	"time"

	"github.com/google/uuid"
)

// Draft is the transient, wizard-owned booking data. It lives only inside an
// active wizard session: created when the wizard opens, destroyed on
// submission or abandonment, never persisted and never shared across
// sessions.
type Draft struct {
	PackageID        uuid.UUID  `json:"package_id"`
	TravelerName     string     `json:"traveler_name"`
	TravelerEmail    string     `json:"traveler_email"`
	TravelerWhatsapp string     `json:"traveler_whatsapp"`
	TravelerCount    int        `json:"traveler_count"`
	SpecialRequests  string     `json:"special_requests"`
	StartDate        *time.Time `json:"start_date,omitempty"`
	EndDate          *time.Time `json:"end_date,omitempty"`
	TierName         string     `json:"tier_name"`

	// IdempotencyKey is generated when the wizard opens and submitted with
	// the draft, so a retried submission never creates a second booking.
	IdempotencyKey uuid.UUID `json:"idempotency_key"`
}
