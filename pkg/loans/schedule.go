package loans

import (
	"errors"
	"fmt"

	"github.com/iwvelando/loan-calculator/pkg/constants"
	"github.com/iwvelando/loan-calculator/pkg/mathutil"
)

// Installment is one row of an amortization schedule.
type Installment struct {
	Number             int     `json:"number" yaml:"number"`
	Payment            float64 `json:"payment" yaml:"payment"`
	Principal          float64 `json:"principal" yaml:"principal"`
	Interest           float64 `json:"interest" yaml:"interest"`
	RemainingPrincipal float64 `json:"remainingPrincipal" yaml:"remainingPrincipal"`
}

// CalculateInterestPayment returns the interest accrued on a balance over one
// month, rounded to cents.
func CalculateInterestPayment(remainingPrincipal, annualRate float64) float64 {
	return mathutil.Round(remainingPrincipal * annualRate / constants.MonthsPerYear)
}

// ErrTermTooLong is returned when a schedule is requested for a term longer
// than constants.MaxTermMonths.
var ErrTermTooLong = errors.New("term is too long for a schedule")

// AmortizationSchedule splits each monthly payment into interest and
// principal. Every installment pays the quoted monthly payment except the
// last, which is adjusted so the balance ends at exactly zero. Terms outside
// 1..constants.MaxTermMonths yield no schedule.
func AmortizationSchedule(principal, annualRate float64, termMonths int) []Installment {
	if termMonths < 1 || termMonths > constants.MaxTermMonths {
		return nil
	}

	monthlyPayment := ComputeMonthlyPayment(principal, annualRate, termMonths)
	schedule := make([]Installment, 0, termMonths)
	balance := principal

	for n := 1; n <= termMonths; n++ {
		interest := CalculateInterestPayment(balance, annualRate)
		principalPaid := mathutil.Round(monthlyPayment - interest)
		if n == termMonths || principalPaid > balance {
			principalPaid = balance
		}
		balance = mathutil.Round(balance - principalPaid)

		schedule = append(schedule, Installment{
			Number:             n,
			Payment:            mathutil.Round(principalPaid + interest),
			Principal:          principalPaid,
			Interest:           interest,
			RemainingPrincipal: balance,
		})
		if balance <= 0 {
			break
		}
	}

	return schedule
}

// Schedule prices a request and returns its amortization schedule.
func Schedule(req LoanRequest) ([]Installment, error) {
	rate, err := ComputeEffectiveRate(req)
	if err != nil {
		return nil, err
	}
	if req.TermMonths > constants.MaxTermMonths {
		return nil, fmt.Errorf("%w: %d months exceeds %d", ErrTermTooLong, req.TermMonths, constants.MaxTermMonths)
	}
	return AmortizationSchedule(req.Principal, rate, req.TermMonths), nil
}
