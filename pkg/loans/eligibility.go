package loans

import (
	"time"

	"github.com/iwvelando/loan-calculator/pkg/constants"
	"github.com/iwvelando/loan-calculator/pkg/datetime"
)

// Violation messages, in the order the checks run.
const (
	ViolationUnderage        = "must be at least 18 years old."
	ViolationMinimumIncome   = "minimum monthly income requirement not met for this loan category."
	ViolationMaximumAmount   = "maximum loan amount exceeded for this loan category."
	ViolationPaymentTooLarge = "monthly payment cannot exceed 40% of monthly income."
)

// ApplicantAge derives an age by calendar-year subtraction only. An applicant
// whose birthday has not yet come round this year is counted a year older.
func ApplicantAge(dateOfBirth, now time.Time) int {
	return datetime.YearDifference(dateOfBirth, now)
}

// Validate checks a request against its program rules and the affordability
// limit. Every check runs; failures are reported as violations rather than
// errors. The only error is an unknown category.
func Validate(req LoanRequest, applicantAge int) (EligibilityVerdict, error) {
	program, err := Program(req.Category)
	if err != nil {
		return EligibilityVerdict{}, err
	}
	rate, err := ComputeEffectiveRate(req)
	if err != nil {
		return EligibilityVerdict{}, err
	}

	violations := []string{}

	if applicantAge < constants.MinimumApplicantAge {
		violations = append(violations, ViolationUnderage)
	}

	if req.MonthlyIncome < program.MinIncome {
		violations = append(violations, ViolationMinimumIncome)
	}

	if req.Principal > program.MaxAmount {
		violations = append(violations, ViolationMaximumAmount)
	}

	// Zero income fails whenever any payment is due.
	monthlyPayment := ComputeMonthlyPayment(req.Principal, rate, req.TermMonths)
	if monthlyPayment > req.MonthlyIncome*constants.MaxPaymentToIncomeRatio {
		violations = append(violations, ViolationPaymentTooLarge)
	}

	return EligibilityVerdict{
		IsEligible: len(violations) == 0,
		Violations: violations,
	}, nil
}

// Evaluate prices a request and checks its eligibility as of now.
func Evaluate(req LoanRequest, now time.Time) (PricingResult, EligibilityVerdict, error) {
	pricing, err := Quote(req)
	if err != nil {
		return PricingResult{}, EligibilityVerdict{}, err
	}

	verdict, err := Validate(req, ApplicantAge(req.DateOfBirth, now))
	if err != nil {
		return PricingResult{}, EligibilityVerdict{}, err
	}
	return pricing, verdict, nil
}
