// Package format renders engine figures for display in the single supported
// locale (Ghana cedi).
package format

import (
	"fmt"
	"math"
	"strings"

	"github.com/iwvelando/loan-calculator/pkg/constants"
	"github.com/iwvelando/loan-calculator/pkg/mathutil"
)

// Currency returns a currency string with the cedi sign and thousands separators (e.g., "-GH₵1,234.56").
func Currency(amount float64) string {
	formatted := formatPositiveCurrency(math.Abs(amount))
	if amount < 0 && formatted != "0.00" {
		return "-" + constants.CurrencySymbol + formatted
	}
	return constants.CurrencySymbol + formatted
}

// NumericCurrency returns a currency string without a currency symbol but with separators (e.g., "-1,234.56").
func NumericCurrency(amount float64) string {
	formatted := formatPositiveCurrency(math.Abs(amount))
	if amount < 0 && formatted != "0.00" {
		return "-" + formatted
	}
	return formatted
}

// AnnualRate renders a fractional rate with one decimal, e.g. "24.0% per annum".
func AnnualRate(rate float64) string {
	return fmt.Sprintf("%.1f%% per annum", mathutil.ToPercent(rate))
}

// Months renders a term, e.g. "12 months".
func Months(term int) string {
	if term == 1 {
		return "1 month"
	}
	return fmt.Sprintf("%d months", term)
}

func formatPositiveCurrency(value float64) string {
	formatted := fmt.Sprintf("%.2f", value)
	parts := strings.SplitN(formatted, ".", 2)
	intPart := parts[0]
	decPart := "00"
	if len(parts) == 2 {
		decPart = parts[1]
	}

	if len(intPart) > 3 {
		var builder strings.Builder
		for i, digit := range intPart {
			if i > 0 && (len(intPart)-i)%3 == 0 {
				builder.WriteByte(',')
			}
			builder.WriteRune(digit)
		}
		intPart = builder.String()
	}

	return intPart + "." + decPart
}
