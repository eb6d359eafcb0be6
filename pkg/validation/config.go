// Package validation provides configuration validation utilities.
package validation

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/iwvelando/loan-calculator/pkg/constants"
	"github.com/iwvelando/loan-calculator/pkg/format"
	"github.com/iwvelando/loan-calculator/pkg/loans"
	"github.com/iwvelando/loan-calculator/pkg/mathutil"
)

// Employment statuses offered by the application form.
const (
	EmploymentEmployed      = "employed"
	EmploymentSelfEmployed  = "self-employed"
	EmploymentBusinessOwner = "business-owner"
	EmploymentRetired       = "retired"
)

// validate is safe for concurrent use and caches struct metadata.
var validate = validator.New()

// ApplicationForm mirrors the fields the application form collects. Only a
// subset feeds the pricing engine; the rest is checked here for completeness.
// The validate tags cover the applicant's personal details and are reported
// in field order.
type ApplicationForm struct {
	Name               string
	LoanType           string
	Amount             float64
	Term               int
	MonthlyIncome      float64
	CollateralType     string
	CollateralValue    float64
	HasExistingLoan    bool
	ExistingLoanAmount float64
	FullName           string `validate:"required"`
	DateOfBirth        string `validate:"required"`
	NationalID         string `validate:"required"`
	Phone              string `validate:"required"`
	Email              string `validate:"required,email"`
	Address            string `validate:"required"`
	EmploymentStatus   string
	EmployerName       string `validate:"required"`
	Purpose            string `validate:"required"`
}

// ConfigValidator collects warnings across every application in a file.
type ConfigValidator struct {
	Applications []ApplicationForm
}

// ValidateAll validates every application and returns warnings. Warnings never
// block evaluation; eligibility is decided by the engine.
func (cv *ConfigValidator) ValidateAll() []string {
	var warnings []string
	seen := make(map[string]struct{})

	for _, app := range cv.Applications {
		if app.Name != "" {
			if _, dup := seen[app.Name]; dup {
				warnings = append(warnings, fmt.Sprintf("Application '%s' is defined more than once", app.Name))
			}
			seen[app.Name] = struct{}{}
		}
		warnings = append(warnings, ValidateForm(app)...)
	}

	return warnings
}

// ValidateForm applies the application form's field constraints.
func ValidateForm(app ApplicationForm) []string {
	var warnings []string
	label := fmt.Sprintf("Application '%s'", app.Name)

	if app.Amount < constants.MinFormAmount {
		warnings = append(warnings, fmt.Sprintf("%s amount %s is below the form minimum of %s",
			label, format.Currency(app.Amount), format.Currency(constants.MinFormAmount)))
	}

	if app.Term < constants.MinFormTermMonths || app.Term > constants.MaxFormTermMonths {
		warnings = append(warnings, fmt.Sprintf("%s term of %s is outside the allowed %d-%d months",
			label, format.Months(app.Term), constants.MinFormTermMonths, constants.MaxFormTermMonths))
	}

	if collateral, err := loans.ParseCollateral(app.CollateralType); err == nil && collateral.IsSecured() &&
		!mathutil.IsPositive(app.CollateralValue) {
		warnings = append(warnings, fmt.Sprintf("%s pledges %s collateral without a collateral value", label, collateral))
	}

	if app.HasExistingLoan && !mathutil.IsPositive(app.ExistingLoanAmount) {
		warnings = append(warnings, fmt.Sprintf("%s declares an existing loan without an amount", label))
	}

	if app.EmploymentStatus != "" && !IsEmploymentStatus(app.EmploymentStatus) {
		warnings = append(warnings, fmt.Sprintf("%s has unknown employment status %q", label, app.EmploymentStatus))
	}

	warnings = append(warnings, detailWarnings(app, label)...)

	return warnings
}

// IsEmploymentStatus reports whether status is one the form offers.
func IsEmploymentStatus(status string) bool {
	switch status {
	case EmploymentEmployed, EmploymentSelfEmployed, EmploymentBusinessOwner, EmploymentRetired:
		return true
	}
	return false
}

func employerLabel(status string) string {
	if status == EmploymentSelfEmployed {
		return "business name"
	}
	return "employer name"
}

// detailWarnings runs the struct tags against a whitespace-trimmed copy of
// the form so blank answers count as missing.
func detailWarnings(app ApplicationForm, label string) []string {
	trimmed := app
	for _, field := range []*string{
		&trimmed.FullName, &trimmed.DateOfBirth, &trimmed.NationalID, &trimmed.Phone,
		&trimmed.Email, &trimmed.Address, &trimmed.EmployerName, &trimmed.Purpose,
	} {
		*field = strings.TrimSpace(*field)
	}

	err := validate.Struct(trimmed)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return []string{fmt.Sprintf("%s could not be checked: %v", label, err)}
	}

	warnings := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		if fe.Tag() == "email" {
			warnings = append(warnings, fmt.Sprintf("%s has an invalid email address %q", label, app.Email))
			continue
		}
		warnings = append(warnings, fmt.Sprintf("%s is missing %s", label, fieldLabel(fe.StructField(), app.EmploymentStatus)))
	}
	return warnings
}

func fieldLabel(field, employmentStatus string) string {
	switch field {
	case "FullName":
		return "full name"
	case "DateOfBirth":
		return "date of birth"
	case "NationalID":
		return "national ID"
	case "Phone":
		return "phone number"
	case "Email":
		return "email"
	case "Address":
		return "residential address"
	case "EmployerName":
		return employerLabel(employmentStatus)
	case "Purpose":
		return "loan purpose"
	}
	return field
}
