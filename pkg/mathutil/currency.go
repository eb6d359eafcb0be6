// Package mathutil provides common mathematical utility functions.
package mathutil

import (
	"math"

	"github.com/iwvelando/loan-calculator/pkg/constants"
)

// Round rounds a value to two decimals, i.e. to represent real currency.
// Used for both display figures and any arithmetic that reuses them.
func Round(val float64) float64 {
	return math.Round(val*constants.DecimalPrecision) / constants.DecimalPrecision
}

// IsPositive checks if a value is positive (greater than tolerance)
func IsPositive(val float64) bool {
	return val > constants.CurrencyTolerance
}

// WithinTolerance checks if two values are within a specified tolerance
func WithinTolerance(val1, val2, tolerance float64) bool {
	return math.Abs(val1-val2) <= tolerance
}

// ToPercent converts a fraction such as 0.24 into its percentage form (24).
func ToPercent(fraction float64) float64 {
	return fraction * constants.PercentageMultiplier
}

// ApplyRate applies a fractional rate to a value, e.g. a fee rate to a principal.
func ApplyRate(value, rate float64) float64 {
	return value * rate
}
