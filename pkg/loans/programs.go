// Package loans provides the loan pricing and eligibility engine.
//
// Everything here is a pure function of its inputs: callers build an immutable
// LoanRequest snapshot from whatever draft state they hold and receive plain
// numbers and a verdict back. Display formatting lives in pkg/format.
package loans

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/iwvelando/loan-calculator/pkg/constants"
)

// ErrInvalidCategory is returned when a request names a category outside the
// program table. Categories come from a fixed enumeration, so this indicates a
// programming error in the caller rather than a user-facing problem.
var ErrInvalidCategory = errors.New("invalid loan category")

// ErrInvalidCollateral is returned when parsing an unknown collateral category.
var ErrInvalidCollateral = errors.New("invalid collateral category")

// Category identifies a loan program.
type Category string

const (
	CategoryPersonal  Category = "personal"
	CategoryBusiness  Category = "business"
	CategoryEducation Category = "education"
)

// Collateral identifies what, if anything, secures the loan.
type Collateral string

const (
	CollateralNone       Collateral = "none"
	CollateralProperty   Collateral = "property"
	CollateralVehicle    Collateral = "vehicle"
	CollateralInvestment Collateral = "investment"
)

// IsSecured reports whether collateral is pledged. The zero value counts as none.
func (c Collateral) IsSecured() bool {
	return c != CollateralNone && c != ""
}

// LoanProgram holds the fixed terms for one loan category.
type LoanProgram struct {
	MaxAmount        float64 `json:"maxAmount" yaml:"maxAmount"`
	MinIncome        float64 `json:"minIncome" yaml:"minIncome"`
	BaseInterestRate float64 `json:"baseInterestRate" yaml:"baseInterestRate"`
}

var programs = map[Category]LoanProgram{
	CategoryPersonal: {
		MaxAmount:        constants.PersonalMaxAmount,
		MinIncome:        constants.PersonalMinIncome,
		BaseInterestRate: constants.PersonalBaseInterestRate,
	},
	CategoryBusiness: {
		MaxAmount:        constants.BusinessMaxAmount,
		MinIncome:        constants.BusinessMinIncome,
		BaseInterestRate: constants.BusinessBaseInterestRate,
	},
	CategoryEducation: {
		MaxAmount:        constants.EducationMaxAmount,
		MinIncome:        constants.EducationMinIncome,
		BaseInterestRate: constants.EducationBaseInterestRate,
	},
}

var categoryOrder = []Category{CategoryPersonal, CategoryBusiness, CategoryEducation}

var collateralOrder = []Collateral{CollateralNone, CollateralProperty, CollateralVehicle, CollateralInvestment}

// Program returns a copy of the program for the given category.
func Program(category Category) (LoanProgram, error) {
	program, ok := programs[category]
	if !ok {
		return LoanProgram{}, fmt.Errorf("%w: %q", ErrInvalidCategory, string(category))
	}
	return program, nil
}

// Categories returns every defined category in display order.
func Categories() []Category {
	return append([]Category(nil), categoryOrder...)
}

// CollateralCategories returns every collateral category in display order.
func CollateralCategories() []Collateral {
	return append([]Collateral(nil), collateralOrder...)
}

// ParseCategory normalizes user or config input into a Category.
func ParseCategory(value string) (Category, error) {
	category := Category(strings.ToLower(strings.TrimSpace(value)))
	if _, ok := programs[category]; !ok {
		return "", fmt.Errorf("%w: %q", ErrInvalidCategory, value)
	}
	return category, nil
}

// ParseCollateral normalizes input into a Collateral. Blank input means none.
func ParseCollateral(value string) (Collateral, error) {
	normalized := Collateral(strings.ToLower(strings.TrimSpace(value)))
	if normalized == "" {
		return CollateralNone, nil
	}
	for _, c := range collateralOrder {
		if c == normalized {
			return c, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidCollateral, value)
}

// LoanRequest is an immutable snapshot of the inputs the engine prices.
type LoanRequest struct {
	Category      Category
	Principal     float64
	TermMonths    int
	MonthlyIncome float64
	Collateral    Collateral
	DateOfBirth   time.Time
}

// PricingResult holds the derived figures for a request.
type PricingResult struct {
	EffectiveAnnualRate float64 `json:"effectiveAnnualRate" yaml:"effectiveAnnualRate"`
	MonthlyPayment      float64 `json:"monthlyPayment" yaml:"monthlyPayment"`
	TotalPayment        float64 `json:"totalPayment" yaml:"totalPayment"`
	ProcessingFee       float64 `json:"processingFee" yaml:"processingFee"`
}

// EligibilityVerdict reports whether a request passes every program rule.
// Violations are in check order and empty exactly when IsEligible is true.
type EligibilityVerdict struct {
	IsEligible bool     `json:"isEligible" yaml:"isEligible"`
	Violations []string `json:"violations" yaml:"violations"`
}
