package booking

// MaxTravelers is the largest party size a single booking may carry.
const MaxTravelers = 10

// Tier is a named pricing variant of a travel package (standard, premium).
type Tier struct {
	PriceCents int64  `json:"price_cents"`
	Currency   string `json:"currency"`
}

// Money is an amount in minor units tagged with its currency.
type Money struct {
	AmountCents int64  `json:"amount_cents"`
	Currency    string `json:"currency"`
}

// ComputeTotal returns the total price for a party: tier price multiplied by
// traveler count, currency copied unchanged from the tier. No discount, tax
// or conversion logic exists. Callers must pass travelerCount >= 1; UI-facing
// callers coerce invalid input through NormalizeTravelerCount first.
func ComputeTotal(tier Tier, travelerCount int) Money {
	return Money{
		AmountCents: tier.PriceCents * int64(travelerCount),
		Currency:    tier.Currency,
	}
}

// NormalizeTravelerCount applies the permissive input policy at the wizard
// boundary: counts below 1 become 1, counts above MaxTravelers are clamped.
// Persisted bookings are validated strictly instead.
func NormalizeTravelerCount(count int) int {
	if count < 1 {
		return 1
	}
	if count > MaxTravelers {
		return MaxTravelers
	}
	return count
}
