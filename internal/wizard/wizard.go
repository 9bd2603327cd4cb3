package wizard

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/viajemos/service-travel/internal/domain/booking"
	"github.com/viajemos/service-travel/internal/domain/catalog"
	"github.com/viajemos/service-travel/pkg/domain"
)

// DefaultTier is the tier preselected when the wizard opens.
const DefaultTier = "standard"

// Wizard owns a single BookingDraft for the duration of one booking attempt
// and exposes step navigation. Field mutations and their derived
// recomputations (end date, total preview) are applied synchronously in the
// order received. Wizard is not safe for concurrent use; the Store serializes
// access per session.
type Wizard struct {
	draft Draft
	step  Step

	// Snapshot of the package attributes the wizard depends on, taken when
	// the wizard opened. The lifecycle manager re-reads the live package at
	// submission time.
	packageID    uuid.UUID
	durationDays int
	tiers        map[string]booking.Tier
}

// New opens a wizard for the package. The draft starts at the Dates step with
// one traveler, the default tier when the package offers it, and a fresh
// idempotency key.
func New(pkg *catalog.TravelPackage) *Wizard {
	tierName := DefaultTier
	if _, ok := pkg.Tiers()[tierName]; !ok {
		for name := range pkg.Tiers() {
			tierName = name
			break
		}
	}

	return &Wizard{
		draft: Draft{
			PackageID:      pkg.ID(),
			TravelerCount:  1,
			TierName:       tierName,
			IdempotencyKey: uuid.New(),
		},
		step:         StepDates,
		packageID:    pkg.ID(),
		durationDays: pkg.DurationDays(),
		tiers:        pkg.Tiers(),
	}
}

// Step returns the current wizard step.
func (w *Wizard) Step() Step {
	return w.step
}

// Draft returns a copy of the current draft.
func (w *Wizard) Draft() Draft {
	return w.draft
}

// SetStartDate sets the trip start date and immediately recomputes the
// derived end date; endDate is never left stale relative to startDate.
func (w *Wizard) SetStartDate(startDate time.Time) error {
	today := time.Now().UTC().Truncate(24 * time.Hour)
	if startDate.Before(today) {
		return domain.NewValidationError("start date must not be in the past")
	}

	w.draft.StartDate = &startDate
	endDate := booking.DeriveEndDate(startDate, w.durationDays)
	w.draft.EndDate = &endDate
	return nil
}

// SetTravelers updates the traveler fields. The count goes through the
// permissive normalization policy rather than erroring.
func (w *Wizard) SetTravelers(name, email, whatsapp string, count int, specialRequests string) {
	w.draft.TravelerName = strings.TrimSpace(name)
	w.draft.TravelerEmail = strings.TrimSpace(email)
	w.draft.TravelerWhatsapp = strings.TrimSpace(whatsapp)
	w.draft.TravelerCount = booking.NormalizeTravelerCount(count)
	w.draft.SpecialRequests = specialRequests
}

// SetTier selects a pricing tier offered by the package.
func (w *Wizard) SetTier(name string) error {
	if _, ok := w.tiers[name]; !ok {
		return domain.NewValidationError("unknown pricing tier: " + name)
	}
	w.draft.TierName = name
	return nil
}

// Total returns the displayed total for the current tier and traveler count.
// This is a read-only preview; the persisted amount is recomputed by the
// lifecycle manager at submission.
func (w *Wizard) Total() booking.Money {
	tier := w.tiers[w.draft.TierName]
	return booking.ComputeTotal(tier, w.draft.TravelerCount)
}

// Advance moves to the next step if the current step is complete. On an
// incomplete step the wizard state is left unchanged and a validation error
// naming the missing fields is returned. Advancing past the final step is a
// caller bug and is rejected the same way a misplaced Submit is.
func (w *Wizard) Advance() error {
	if w.step == StepPayment {
		return domain.NewInvalidStateError(string(StepPayment), "advance")
	}
	if missing := MissingFields(w.step, w.draft); len(missing) > 0 {
		return domain.NewValidationError("required fields incomplete: " + strings.Join(missing, ", "))
	}
	w.step = w.step.next()
	return nil
}

// Retreat moves to the previous step unconditionally, flooring at Dates.
func (w *Wizard) Retreat() {
	w.step = w.step.previous()
}

// Submit hands the draft to the lifecycle manager. It is only callable from
// the Confirmation step; calling it from any other step is a caller bug and
// is rejected, not retried. The wizard state is not mutated: a failed
// submission leaves the draft intact for retry, and a successful one ends
// the session entirely.
func (w *Wizard) Submit() (Draft, error) {
	if w.step != StepConfirmation {
		return Draft{}, domain.NewInvalidStateError(string(w.step), string(StepPayment))
	}
	return w.draft, nil
}

// PackageID returns the package this wizard was opened for.
func (w *Wizard) PackageID() uuid.UUID {
	return w.packageID
}
