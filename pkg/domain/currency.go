package domain

// Currency codes used across the marketplace. Amounts are always carried as
// int64 minor units (centavos for MXN) next to one of these codes.
const (
	CurrencyMXN = "MXN"
	CurrencyUSD = "USD"
)
