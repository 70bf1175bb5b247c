package utils

import "github.com/shopspring/decimal"

// RWFPrecision is the number of decimal places for Rwandan francs.
// RWF has no minor unit in practice.
const RWFPrecision = 0

// FormatAmount formats an amount for display with its currency code.
// Example: amount 5000.4 with currency "RWF" returns "5000 RWF"
func FormatAmount(amount decimal.Decimal, currencyCode string) string {
	return amount.Round(RWFPrecision).String() + " " + currencyCode
}

// FormatWithPrecision formats an amount with the given precision
// This is a convenience function for non-RWF display contexts.
func FormatWithPrecision(amount decimal.Decimal, precision int) string {
	return amount.Round(int32(precision)).String()
}
