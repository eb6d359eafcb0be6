// Package application holds the mutable state behind the loan application
// form and the wizard that walks an applicant from quote to confirmation.
package application

import (
	"errors"
	"time"

	"github.com/iwvelando/loan-calculator/pkg/constants"
	"github.com/iwvelando/loan-calculator/pkg/loans"
	"github.com/iwvelando/loan-calculator/pkg/validation"
)

// ErrMissingDateOfBirth is returned when an application is submitted without
// a date of birth.
var ErrMissingDateOfBirth = errors.New("date of birth is required")

// Draft is the editable form state. The engine never sees a Draft directly;
// it is handed a Snapshot instead.
type Draft struct {
	LoanType           loans.Category
	Amount             float64
	Term               int // months
	MonthlyIncome      float64
	Collateral         loans.Collateral
	CollateralValue    float64
	HasExistingLoan    bool
	ExistingLoanAmount float64
	DateOfBirth        time.Time
	Purpose            string

	FullName         string
	Email            string
	Phone            string
	NationalID       string
	Address          string
	EmploymentStatus string
	EmployerName     string
}

// NewDraft returns the form's initial state.
func NewDraft() Draft {
	return Draft{
		LoanType:         loans.CategoryPersonal,
		Amount:           constants.MinFormAmount,
		Term:             constants.DefaultFormTermMonths,
		Collateral:       loans.CollateralNone,
		EmploymentStatus: validation.EmploymentEmployed,
	}
}

// Snapshot copies the fields the engine prices into an immutable request.
func (d Draft) Snapshot() loans.LoanRequest {
	return loans.LoanRequest{
		Category:      d.LoanType,
		Principal:     d.Amount,
		TermMonths:    d.Term,
		MonthlyIncome: d.MonthlyIncome,
		Collateral:    d.Collateral,
		DateOfBirth:   d.DateOfBirth,
	}
}

// Form converts the draft into the shape checked by pkg/validation.
func (d Draft) Form() validation.ApplicationForm {
	var dob string
	if !d.DateOfBirth.IsZero() {
		dob = d.DateOfBirth.Format(constants.DateLayout)
	}
	return validation.ApplicationForm{
		Name:               d.FullName,
		LoanType:           string(d.LoanType),
		Amount:             d.Amount,
		Term:               d.Term,
		MonthlyIncome:      d.MonthlyIncome,
		CollateralType:     string(d.Collateral),
		CollateralValue:    d.CollateralValue,
		HasExistingLoan:    d.HasExistingLoan,
		ExistingLoanAmount: d.ExistingLoanAmount,
		DateOfBirth:        dob,
		FullName:           d.FullName,
		Email:              d.Email,
		Phone:              d.Phone,
		NationalID:         d.NationalID,
		Address:            d.Address,
		EmploymentStatus:   d.EmploymentStatus,
		EmployerName:       d.EmployerName,
		Purpose:            d.Purpose,
	}
}
