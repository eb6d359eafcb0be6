package config

import (
	"fmt"
	"time"

	"github.com/iwvelando/loan-calculator/pkg/loans"
	"go.uber.org/zap"
)

// Application is one completed application form.
type Application struct {
	Name               string    `yaml:"name"`
	LoanType           string    `yaml:"loanType"`
	Amount             float64   `yaml:"amount"`
	Term               int       `yaml:"term"` // months
	MonthlyIncome      float64   `yaml:"monthlyIncome"`
	CollateralType     string    `yaml:"collateralType,omitempty"`
	CollateralValue    float64   `yaml:"collateralValue,omitempty"`
	HasExistingLoan    bool      `yaml:"hasExistingLoan,omitempty"`
	ExistingLoanAmount float64   `yaml:"existingLoanAmount,omitempty"`
	DateOfBirth        string    `yaml:"dateOfBirth"`
	Purpose            string    `yaml:"purpose,omitempty"`
	Applicant          Applicant `yaml:"applicant,omitempty"`
}

// Applicant holds the personal and employment details collected by the form.
// None of these feed into pricing.
type Applicant struct {
	FullName         string `yaml:"fullName,omitempty"`
	Email            string `yaml:"email,omitempty"`
	Phone            string `yaml:"phone,omitempty"`
	NationalID       string `yaml:"nationalId,omitempty"`
	Address          string `yaml:"address,omitempty"`
	EmploymentStatus string `yaml:"employmentStatus,omitempty"`
	EmployerName     string `yaml:"employerName,omitempty"`
}

// Evaluation is the engine's answer for one application.
type Evaluation struct {
	Name       string                   `json:"name" yaml:"name"`
	Category   loans.Category           `json:"category" yaml:"category"`
	Principal  float64                  `json:"principal" yaml:"principal"`
	TermMonths int                      `json:"termMonths" yaml:"termMonths"`
	Pricing    loans.PricingResult      `json:"pricing" yaml:"pricing"`
	Verdict    loans.EligibilityVerdict `json:"verdict" yaml:"verdict"`
}

// Evaluate prices and validates every application as of the configured
// evaluation date (or now).
func (conf *Configuration) Evaluate(logger *zap.Logger, now time.Time) ([]Evaluation, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	asOf, err := conf.EvaluationDate(now)
	if err != nil {
		return nil, err
	}

	engine := loans.NewEngine(logger)
	results := make([]Evaluation, 0, len(conf.Applications))
	for _, app := range conf.Applications {
		req, err := app.ToLoanRequest()
		if err != nil {
			return nil, fmt.Errorf("application %s: %w", app.Name, err)
		}

		pricing, verdict, err := engine.EvaluateAt(req, asOf)
		if err != nil {
			return nil, fmt.Errorf("application %s: %w", app.Name, err)
		}

		if !verdict.IsEligible {
			logger.Debug(fmt.Sprintf("application %s is not eligible", app.Name),
				zap.String("op", "config.Evaluate"),
				zap.Strings("violations", verdict.Violations),
			)
		}

		results = append(results, Evaluation{
			Name:       app.Name,
			Category:   req.Category,
			Principal:  req.Principal,
			TermMonths: req.TermMonths,
			Pricing:    pricing,
			Verdict:    verdict,
		})
	}

	return results, nil
}
