// Package constants provides shared constants for the loan-calculator application.
package constants

import "time"

// DateLayout is the format expected for dates of birth and evaluation dates in
// config files and API payloads.
const DateLayout = "2006-01-02"

// Loan program table. One program per category; these values never change at
// runtime.
const (
	PersonalMaxAmount        = 50000.0
	PersonalMinIncome        = 1000.0
	PersonalBaseInterestRate = 0.25

	BusinessMaxAmount        = 100000.0
	BusinessMinIncome        = 2000.0
	BusinessBaseInterestRate = 0.20

	EducationMaxAmount        = 30000.0
	EducationMinIncome        = 800.0
	EducationBaseInterestRate = 0.15
)

// Pricing constants
const (
	// CollateralDiscount is deducted from the annual rate when any collateral is pledged
	CollateralDiscount = 0.02

	// HighIncomeDiscount is deducted from the annual rate when income exceeds HighIncomeThreshold
	HighIncomeDiscount = 0.01

	// HighIncomeThreshold is the monthly income above which HighIncomeDiscount applies
	HighIncomeThreshold = 5000.0

	// ProcessingFeeRate is the share of principal charged as a processing fee
	ProcessingFeeRate = 0.02

	// MaxPaymentToIncomeRatio caps the monthly payment as a share of monthly income
	MaxPaymentToIncomeRatio = 0.4

	// MinimumApplicantAge is the youngest age at which an applicant is eligible
	MinimumApplicantAge = 18
)

// Form constraints enforced by the application form; reported as warnings.
const (
	// MinFormAmount is the smallest amount the loan amount field accepts
	MinFormAmount = 1000.0

	// MinFormTermMonths is the shortest term the loan term field accepts
	MinFormTermMonths = 6

	// MaxFormTermMonths is the longest term the loan term field accepts
	MaxFormTermMonths = 60

	// DefaultFormTermMonths is the term a new application starts with
	DefaultFormTermMonths = 12
)

// Financial constants
const (
	// MonthsPerYear is the number of months in a year
	MonthsPerYear = 12

	// MaxTermMonths is the longest term the server and schedules accept (100 years)
	MaxTermMonths = 1200

	// DecimalPrecision is the precision for currency rounding (2 decimal places)
	DecimalPrecision = 100

	// CurrencyTolerance is the tolerance for currency comparisons (1 cent)
	CurrencyTolerance = 0.01

	// PercentageMultiplier is used for percentage conversions
	PercentageMultiplier = 100.0

	// CurrencySymbol is the display symbol for the Ghana cedi
	CurrencySymbol = "GH₵"
)

// Output format constants
const (
	// OutputFormatPretty is the human-readable output format
	OutputFormatPretty = "pretty"

	// OutputFormatCSV is the CSV output format
	OutputFormatCSV = "csv"

	// OutputFormatYAML is the YAML output format
	OutputFormatYAML = "yaml"
)

// Configuration file constants
const (
	// DefaultConfigFile is the default application file name
	DefaultConfigFile = "applications.yaml"

	// ExampleConfigFile is the example application file name
	ExampleConfigFile = "applications.yaml.example"

	// DefaultServerConfigFile is the default server configuration file name
	DefaultServerConfigFile = "server-config.yaml"
)

// Server configuration defaults
const (
	// DefaultServerAddress is the default HTTP listen address for the API
	DefaultServerAddress = ":8080"

	// DefaultMaxBodySizeBytes is the default maximum request body size (64 KB)
	DefaultMaxBodySizeBytes int64 = 64 * 1024

	// DefaultReadTimeout bounds how long a client may take to send a request
	DefaultReadTimeout = 10 * time.Second

	// DefaultShutdownTimeout is how long in-flight requests get on shutdown
	DefaultShutdownTimeout = 5 * time.Second

	// DefaultMetricsPath is where Prometheus metrics are served
	DefaultMetricsPath = "/metrics"
)
