package wizard

// Step identifies one screen of the booking wizard.
type Step string

const (
	StepDates        Step = "dates"
	StepTravelers    Step = "travelers"
	StepConfirmation Step = "confirmation"
	StepPayment      Step = "payment"
)

// stepOrder is the forward navigation sequence. Dates is the initial step,
// Payment the submission target.
var stepOrder = []Step{StepDates, StepTravelers, StepConfirmation, StepPayment}

// next returns the step after s, or s itself if s is the last step.
func (s Step) next() Step {
	for i, step := range stepOrder {
		if step == s && i < len(stepOrder)-1 {
			return stepOrder[i+1]
		}
	}
	return s
}

// previous returns the step before s, flooring at the first step.
func (s Step) previous() Step {
	for i, step := range stepOrder {
		if step == s && i > 0 {
			return stepOrder[i-1]
		}
	}
	return s
}

// String returns the string representation of the step.
func (s Step) String() string {
	return string(s)
}

// IsStepComplete reports whether the draft satisfies the completeness rules
// for the step. It is a pure predicate: forward navigation is gated on it,
// backward navigation never is.
func IsStepComplete(step Step, draft Draft) bool {
	return len(MissingFields(step, draft)) == 0
}

// MissingFields returns the names of the fields still required before the
// step is complete. An empty result means the step is complete.
func MissingFields(step Step, draft Draft) []string {
	var missing []string
	switch step {
	case StepDates:
		if draft.StartDate == nil {
			missing = append(missing, "start_date")
		}
	case StepTravelers:
		if draft.TravelerName == "" {
			missing = append(missing, "traveler_name")
		}
		if draft.TravelerEmail == "" {
			missing = append(missing, "traveler_email")
		}
		if draft.TravelerWhatsapp == "" {
			missing = append(missing, "traveler_whatsapp")
		}
		if draft.TravelerCount <= 0 {
			missing = append(missing, "traveler_count")
		}
	case StepConfirmation, StepPayment:
		// No independent data is collected at these steps.
	}
	return missing
}
