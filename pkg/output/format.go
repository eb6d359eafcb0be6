// Package output provides utilities for formatting and displaying evaluation results.
package output

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/iwvelando/loan-calculator/internal/config"
	"github.com/iwvelando/loan-calculator/pkg/constants"
	"github.com/iwvelando/loan-calculator/pkg/format"
	"github.com/iwvelando/loan-calculator/pkg/mathutil"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"gopkg.in/yaml.v3"
)

// PrettyFormat outputs a human-readable rather than machine-readable summary.
func PrettyFormat(results []config.Evaluation) {
	WritePretty(os.Stdout, results)
}

// WritePretty writes the human-readable summary to w.
func WritePretty(w io.Writer, results []config.Evaluation) {
	p := message.NewPrinter(language.English)
	for i, result := range results {
		_, _ = fmt.Fprintf(w, "--- Results for application %s ---\n", result.Name)
		_, _ = fmt.Fprintf(w, "Loan Type       | %s loan\n", result.Category)
		_, _ = p.Fprintf(w, "Loan Amount     | %s%.2f\n", constants.CurrencySymbol, result.Principal)
		_, _ = fmt.Fprintf(w, "Loan Term       | %s\n", format.Months(result.TermMonths))
		_, _ = fmt.Fprintf(w, "Interest Rate   | %s\n", format.AnnualRate(result.Pricing.EffectiveAnnualRate))
		_, _ = p.Fprintf(w, "Monthly Payment | %s%.2f\n", constants.CurrencySymbol, result.Pricing.MonthlyPayment)
		_, _ = p.Fprintf(w, "Total Payment   | %s%.2f\n", constants.CurrencySymbol, result.Pricing.TotalPayment)
		_, _ = p.Fprintf(w, "Processing Fee  | %s%.2f\n", constants.CurrencySymbol, result.Pricing.ProcessingFee)
		if result.Verdict.IsEligible {
			_, _ = fmt.Fprintf(w, "Eligible        | yes\n")
		} else {
			_, _ = fmt.Fprintf(w, "Eligible        | no\n")
			for _, violation := range result.Verdict.Violations {
				_, _ = fmt.Fprintf(w, "  - %s\n", violation)
			}
		}
		if i < len(results)-1 {
			_, _ = fmt.Fprintf(w, "\n")
		}
	}
}

var csvHeader = []string{
	"name", "loan type", "amount", "term (months)", "interest rate (%)",
	"monthly payment", "total payment", "processing fee", "eligible", "violations",
}

// CsvFormat outputs in comma-separated value format.
func CsvFormat(results []config.Evaluation) {
	_ = WriteCSV(os.Stdout, results)
}

// CsvString returns the CSV rendering as a string.
func CsvString(results []config.Evaluation) string {
	var b strings.Builder
	_ = WriteCSV(&b, results)
	return b.String()
}

// WriteCSV writes one row per evaluation. Violations are joined with "; ".
func WriteCSV(w io.Writer, results []config.Evaluation) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(csvHeader); err != nil {
		return err
	}
	for _, result := range results {
		record := []string{
			result.Name,
			string(result.Category),
			money(result.Principal),
			strconv.Itoa(result.TermMonths),
			strconv.FormatFloat(mathutil.ToPercent(result.Pricing.EffectiveAnnualRate), 'f', 1, 64),
			money(result.Pricing.MonthlyPayment),
			money(result.Pricing.TotalPayment),
			money(result.Pricing.ProcessingFee),
			strconv.FormatBool(result.Verdict.IsEligible),
			strings.Join(result.Verdict.Violations, "; "),
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

// YamlFormat outputs the raw evaluation values as YAML.
func YamlFormat(results []config.Evaluation) {
	_ = WriteYAML(os.Stdout, results)
}

// WriteYAML encodes the evaluations as a YAML sequence.
func WriteYAML(w io.Writer, results []config.Evaluation) error {
	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)
	if err := encoder.Encode(results); err != nil {
		return fmt.Errorf("failed to encode evaluations: %w", err)
	}
	return encoder.Close()
}

func money(amount float64) string {
	return strconv.FormatFloat(mathutil.Round(amount), 'f', 2, 64)
}
