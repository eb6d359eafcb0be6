package loans

import (
	"math"

	"github.com/iwvelando/loan-calculator/pkg/constants"
	"github.com/iwvelando/loan-calculator/pkg/mathutil"
)

// ComputeEffectiveRate returns the program base rate less the collateral and
// high-income discounts. Discounts are additive and the result is neither
// floored nor rounded.
func ComputeEffectiveRate(req LoanRequest) (float64, error) {
	program, err := Program(req.Category)
	if err != nil {
		return 0, err
	}

	rate := program.BaseInterestRate
	if req.Collateral.IsSecured() {
		rate -= constants.CollateralDiscount
	}
	if req.MonthlyIncome > constants.HighIncomeThreshold {
		rate -= constants.HighIncomeDiscount
	}
	return rate, nil
}

// ComputeMonthlyPayment calculates the monthly payment for a loan using the
// standard amortization formula, rounded to cents. termMonths must be at least 1.
func ComputeMonthlyPayment(principal, annualRate float64, termMonths int) float64 {
	monthlyRate := annualRate / constants.MonthsPerYear
	if monthlyRate == 0 {
		// Limit of the formula as the rate goes to zero.
		return mathutil.Round(principal / float64(termMonths))
	}

	power := math.Pow(1.00+monthlyRate, float64(termMonths))
	if power == 1.00 {
		// The rate is too small to move the balance.
		return mathutil.Round(principal / float64(termMonths))
	}
	payment := principal * monthlyRate * power / (power - 1.00)
	if math.IsInf(power, 1) || math.IsInf(payment, 0) || math.IsNaN(payment) {
		// Limit of the formula as the term grows: interest only.
		return mathutil.Round(principal * monthlyRate)
	}
	return mathutil.Round(payment)
}

// ComputeTotalPayment returns the sum of all installments, rounded to cents.
// monthlyPayment is expected to already be rounded.
func ComputeTotalPayment(monthlyPayment float64, termMonths int) float64 {
	return mathutil.Round(monthlyPayment * float64(termMonths))
}

// ComputeProcessingFee returns the flat processing fee for a principal.
func ComputeProcessingFee(principal float64) float64 {
	return mathutil.ApplyRate(principal, constants.ProcessingFeeRate)
}

// Quote runs every pricing operation for a request.
func Quote(req LoanRequest) (PricingResult, error) {
	rate, err := ComputeEffectiveRate(req)
	if err != nil {
		return PricingResult{}, err
	}

	monthlyPayment := ComputeMonthlyPayment(req.Principal, rate, req.TermMonths)
	return PricingResult{
		EffectiveAnnualRate: rate,
		MonthlyPayment:      monthlyPayment,
		TotalPayment:        ComputeTotalPayment(monthlyPayment, req.TermMonths),
		ProcessingFee:       ComputeProcessingFee(req.Principal),
	}, nil
}
