package booking

import "time"

// DeriveEndDate computes the trip end date for a start date and package
// duration. A trip of durationDays inclusive days ends durationDays-1 days
// after it starts. Callers must pass durationDays >= 1; the end date is
// always recomputed from its inputs, never stored independently.
func DeriveEndDate(startDate time.Time, durationDays int) time.Time {
	return startDate.AddDate(0, 0, durationDays-1)
}
