package application

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/viajemos/service-travel/internal/domain/booking"
	"github.com/viajemos/service-travel/internal/domain/catalog"
	"github.com/viajemos/service-travel/internal/wizard"
)

// WizardStateDTO is the response representation of a wizard session.
type WizardStateDTO struct {
	SessionID     uuid.UUID     `json:"session_id"`
	Step          string        `json:"step"`
	Draft         wizard.Draft  `json:"draft"`
	Total         booking.Money `json:"total"`
	MissingFields []string      `json:"missing_fields,omitempty"`
}

// SetDatesRequest carries the Dates step input.
type SetDatesRequest struct {
	StartDate time.Time `json:"start_date" binding:"required"`
}

// SetTravelersRequest carries the Travelers step input.
type SetTravelersRequest struct {
	Name            string `json:"name"`
	Email           string `json:"email"`
	Whatsapp        string `json:"whatsapp"`
	Count           int    `json:"count"`
	SpecialRequests string `json:"special_requests"`
}

// SetTierRequest carries a tier selection.
type SetTierRequest struct {
	Tier string `json:"tier" binding:"required"`
}

// WizardService orchestrates booking wizard sessions: it opens drafts against
// published packages, applies step input, and hands completed drafts to the
// lifecycle manager.
type WizardService struct {
	store    *wizard.Store
	packages catalog.PackageRepository
	bookings *BookingService
	logger   *zap.Logger
}

// NewWizardService creates a new WizardService.
func NewWizardService(
	store *wizard.Store,
	packages catalog.PackageRepository,
	bookings *BookingService,
	logger *zap.Logger,
) *WizardService {
	return &WizardService{
		store:    store,
		packages: packages,
		bookings: bookings,
		logger:   logger,
	}
}

// Open starts a wizard session for a published package.
func (s *WizardService) Open(ctx context.Context, userID, packageID uuid.UUID) (*WizardStateDTO, error) {
	pkg, err := s.packages.FindPublishedByID(ctx, packageID)
	if err != nil {
		return nil, err
	}

	w := wizard.New(pkg)
	sessionID := s.store.Open(userID, w)

	state := toWizardStateDTO(sessionID, w)
	return &state, nil
}

// Get returns the current state of a wizard session.
func (s *WizardService) Get(sessionID, userID uuid.UUID) (*WizardStateDTO, error) {
	return s.withState(sessionID, userID, func(w *wizard.Wizard) error { return nil })
}

// SetDates applies the Dates step input; the derived end date is recomputed
// immediately.
func (s *WizardService) SetDates(sessionID, userID uuid.UUID, req SetDatesRequest) (*WizardStateDTO, error) {
	return s.withState(sessionID, userID, func(w *wizard.Wizard) error {
		return w.SetStartDate(req.StartDate)
	})
}

// SetTravelers applies the Travelers step input; the displayed total is
// recomputed immediately.
func (s *WizardService) SetTravelers(sessionID, userID uuid.UUID, req SetTravelersRequest) (*WizardStateDTO, error) {
	return s.withState(sessionID, userID, func(w *wizard.Wizard) error {
		w.SetTravelers(req.Name, req.Email, req.Whatsapp, req.Count, req.SpecialRequests)
		return nil
	})
}

// SetTier selects a pricing tier; the displayed total is recomputed
// immediately.
func (s *WizardService) SetTier(sessionID, userID uuid.UUID, req SetTierRequest) (*WizardStateDTO, error) {
	return s.withState(sessionID, userID, func(w *wizard.Wizard) error {
		return w.SetTier(req.Tier)
	})
}

// Advance moves the session forward one step if the current step is
// complete. The returned error carries the missing fields when it is not.
func (s *WizardService) Advance(sessionID, userID uuid.UUID) (*WizardStateDTO, error) {
	return s.withState(sessionID, userID, func(w *wizard.Wizard) error {
		return w.Advance()
	})
}

// Retreat moves the session back one step, always permitted.
func (s *WizardService) Retreat(sessionID, userID uuid.UUID) (*WizardStateDTO, error) {
	return s.withState(sessionID, userID, func(w *wizard.Wizard) error {
		w.Retreat()
		return nil
	})
}

// Submit hands the draft to the lifecycle manager. On success the session is
// destroyed; on failure it is left intact so the traveler can retry without
// re-entering data.
func (s *WizardService) Submit(ctx context.Context, sessionID, userID uuid.UUID) (*BookingDTO, error) {
	var result *BookingDTO
	err := s.store.With(sessionID, userID, func(w *wizard.Wizard) error {
		draft, err := w.Submit()
		if err != nil {
			return err
		}

		dto, err := s.bookings.CreateBooking(ctx, userID, draft)
		if err != nil {
			return err
		}
		result = dto
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.store.Delete(sessionID)
	s.logger.Info("wizard session submitted",
		zap.String("session_id", sessionID.String()),
		zap.String("booking_id", result.ID.String()),
	)
	return result, nil
}

// Abandon discards the session and its draft with no persisted side effect.
func (s *WizardService) Abandon(sessionID, userID uuid.UUID) error {
	err := s.store.With(sessionID, userID, func(w *wizard.Wizard) error { return nil })
	if err != nil {
		return err
	}
	s.store.Delete(sessionID)
	return nil
}

func (s *WizardService) withState(sessionID, userID uuid.UUID, fn func(w *wizard.Wizard) error) (*WizardStateDTO, error) {
	var state WizardStateDTO
	err := s.store.With(sessionID, userID, func(w *wizard.Wizard) error {
		fnErr := fn(w)
		state = toWizardStateDTO(sessionID, w)
		return fnErr
	})
	if err != nil {
		return nil, err
	}
	return &state, nil
}

func toWizardStateDTO(sessionID uuid.UUID, w *wizard.Wizard) WizardStateDTO {
	draft := w.Draft()
	return WizardStateDTO{
		SessionID:     sessionID,
		Step:          w.Step().String(),
		Draft:         draft,
		Total:         w.Total(),
		MissingFields: wizard.MissingFields(w.Step(), draft),
	}
}
