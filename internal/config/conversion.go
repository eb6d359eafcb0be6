package config

import (
	"fmt"

	"github.com/iwvelando/loan-calculator/pkg/datetime"
	"github.com/iwvelando/loan-calculator/pkg/loans"
	"github.com/iwvelando/loan-calculator/pkg/validation"
)

// ToLoanRequest converts an application into the immutable snapshot the
// engine consumes.
func (app Application) ToLoanRequest() (loans.LoanRequest, error) {
	category, err := loans.ParseCategory(app.LoanType)
	if err != nil {
		return loans.LoanRequest{}, err
	}

	collateral, err := loans.ParseCollateral(app.CollateralType)
	if err != nil {
		return loans.LoanRequest{}, err
	}

	dob, err := datetime.ParseDate(app.DateOfBirth)
	if err != nil {
		return loans.LoanRequest{}, fmt.Errorf("failed to parse dateOfBirth: %w", err)
	}

	if app.Amount <= 0 {
		return loans.LoanRequest{}, fmt.Errorf("amount must be positive, got %.2f", app.Amount)
	}
	if app.Term < 1 {
		return loans.LoanRequest{}, fmt.Errorf("term must be at least 1 month, got %d", app.Term)
	}
	if app.MonthlyIncome < 0 {
		return loans.LoanRequest{}, fmt.Errorf("monthlyIncome cannot be negative, got %.2f", app.MonthlyIncome)
	}

	return loans.LoanRequest{
		Category:      category,
		Principal:     app.Amount,
		TermMonths:    app.Term,
		MonthlyIncome: app.MonthlyIncome,
		Collateral:    collateral,
		DateOfBirth:   dob,
	}, nil
}

// ToForm converts an application into the validation package's form view.
func (app Application) ToForm() validation.ApplicationForm {
	return validation.ApplicationForm{
		Name:               app.Name,
		LoanType:           app.LoanType,
		Amount:             app.Amount,
		Term:               app.Term,
		MonthlyIncome:      app.MonthlyIncome,
		CollateralType:     app.CollateralType,
		CollateralValue:    app.CollateralValue,
		HasExistingLoan:    app.HasExistingLoan,
		ExistingLoanAmount: app.ExistingLoanAmount,
		DateOfBirth:        app.DateOfBirth,
		FullName:           app.Applicant.FullName,
		Email:              app.Applicant.Email,
		Phone:              app.Applicant.Phone,
		NationalID:         app.Applicant.NationalID,
		Address:            app.Applicant.Address,
		EmploymentStatus:   app.Applicant.EmploymentStatus,
		EmployerName:       app.Applicant.EmployerName,
		Purpose:            app.Purpose,
	}
}
