package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/iwvelando/loan-calculator/pkg/constants"
	"github.com/iwvelando/loan-calculator/pkg/loans"
	"go.uber.org/zap"
)

var fixedNow = time.Date(2026, time.October, 19, 12, 0, 0, 0, time.UTC)

func newTestHandler(t *testing.T, metrics *Metrics) http.Handler {
	t.Helper()
	engine := loans.NewEngine(zap.NewNop()).WithClock(func() time.Time { return fixedNow })
	return NewHandler(zap.NewNop(), constants.DefaultMaxBodySizeBytes, "1.2.3",
		WithEngine(engine), WithMetrics(metrics, constants.DefaultMetricsPath))
}

func doRequest(t *testing.T, handler http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	return rr
}

func decode(t *testing.T, rr *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.Unmarshal(rr.Body.Bytes(), v); err != nil {
		t.Fatalf("failed to decode response %q: %v", rr.Body.String(), err)
	}
}

func TestHandleQuoteSuccess(t *testing.T) {
	handler := newTestHandler(t, nil)

	rr := doRequest(t, handler, http.MethodPost, "/api/quote",
		`{"loanType":"personal","amount":1000,"term":12,"monthlyIncome":6000,"collateralType":"none"}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rr.Code, rr.Body.String())
	}
	if ct := rr.Header().Get("Content-Type"); ct != "application/json" {
		t.Fatalf("expected JSON content type, got %s", ct)
	}

	var resp quoteResponse
	decode(t, rr, &resp)

	if resp.Pricing.MonthlyPayment != 94.56 {
		t.Errorf("monthly payment = %v, expected 94.56", resp.Pricing.MonthlyPayment)
	}
	if resp.Pricing.TotalPayment != 1134.72 {
		t.Errorf("total payment = %v, expected 1134.72", resp.Pricing.TotalPayment)
	}
	if resp.Pricing.ProcessingFee != 20 {
		t.Errorf("processing fee = %v, expected 20", resp.Pricing.ProcessingFee)
	}

	expected := quoteDisplay{
		InterestRate:   "24.0% per annum",
		MonthlyPayment: "GH₵94.56",
		TotalPayment:   "GH₵1,134.72",
		ProcessingFee:  "GH₵20.00",
		Term:           "12 months",
	}
	if resp.Display != expected {
		t.Errorf("display = %+v, expected %+v", resp.Display, expected)
	}
}

func TestHandleQuoteSecuredBusiness(t *testing.T) {
	handler := newTestHandler(t, nil)

	rr := doRequest(t, handler, http.MethodPost, "/api/quote",
		`{"loanType":"business","amount":20000,"term":36,"monthlyIncome":5500,"collateralType":"property"}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rr.Code, rr.Body.String())
	}

	var resp quoteResponse
	decode(t, rr, &resp)
	if resp.Pricing.MonthlyPayment != 713.05 {
		t.Errorf("monthly payment = %v, expected 713.05", resp.Pricing.MonthlyPayment)
	}
	if resp.Display.InterestRate != "17.0% per annum" {
		t.Errorf("interest rate display = %s", resp.Display.InterestRate)
	}
}

func TestHandleQuoteErrors(t *testing.T) {
	handler := newTestHandler(t, nil)

	tests := []struct {
		name        string
		method      string
		body        string
		status      int
		errContains string
	}{
		{"unknown category", http.MethodPost, `{"loanType":"mortgage","amount":1000,"term":12}`, http.StatusBadRequest, "invalid loan category"},
		{"unknown collateral", http.MethodPost, `{"loanType":"personal","amount":1000,"term":12,"collateralType":"jewellery"}`, http.StatusBadRequest, "invalid collateral category"},
		{"malformed JSON", http.MethodPost, `{"loanType":`, http.StatusBadRequest, "failed to decode request"},
		{"zero amount", http.MethodPost, `{"loanType":"personal","amount":0,"term":12}`, http.StatusBadRequest, "amount must be positive"},
		{"zero term", http.MethodPost, `{"loanType":"personal","amount":1000,"term":0}`, http.StatusBadRequest, "term must be at least 1 month"},
		{"term above maximum", http.MethodPost, `{"loanType":"personal","amount":1000,"term":1201}`, http.StatusBadRequest, "term cannot exceed 1200 months"},
		{"negative income", http.MethodPost, `{"loanType":"personal","amount":1000,"term":12,"monthlyIncome":-1}`, http.StatusBadRequest, "monthlyIncome cannot be negative"},
		{"bad date of birth", http.MethodPost, `{"loanType":"personal","amount":1000,"term":12,"dateOfBirth":"02/04/1996"}`, http.StatusBadRequest, "dateOfBirth"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := doRequest(t, handler, tt.method, "/api/quote", tt.body)
			if rr.Code != tt.status {
				t.Fatalf("expected status %d, got %d: %s", tt.status, rr.Code, rr.Body.String())
			}
			var resp map[string]string
			decode(t, rr, &resp)
			if !strings.Contains(resp["error"], tt.errContains) {
				t.Errorf("error %q does not contain %q", resp["error"], tt.errContains)
			}
		})
	}
}

func TestHandleQuoteMethodNotAllowed(t *testing.T) {
	handler := newTestHandler(t, nil)

	rr := doRequest(t, handler, http.MethodGet, "/api/quote", "")
	if rr.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected status 405, got %d", rr.Code)
	}
}

func TestHandleQuoteBodyTooLarge(t *testing.T) {
	handler := NewHandler(zap.NewNop(), 16, "")

	rr := doRequest(t, handler, http.MethodPost, "/api/quote",
		`{"loanType":"personal","amount":1000,"term":12,"monthlyIncome":6000}`)
	if rr.Code != http.StatusRequestEntityTooLarge {
		t.Fatalf("expected status 413, got %d: %s", rr.Code, rr.Body.String())
	}
}

func TestHandleValidate(t *testing.T) {
	handler := newTestHandler(t, nil)

	tests := []struct {
		name       string
		body       string
		eligible   bool
		violations []string
		asOf       string
	}{
		{
			name:       "eligible personal loan",
			body:       `{"loanType":"personal","amount":1000,"term":12,"monthlyIncome":6000,"collateralType":"none","dateOfBirth":"1996-04-02"}`,
			eligible:   true,
			violations: []string{},
			asOf:       "2026-10-19",
		},
		{
			name:       "education over limit",
			body:       `{"loanType":"education","amount":35000,"term":24,"monthlyIncome":900,"dateOfBirth":"2006-02-11"}`,
			violations: []string{loans.ViolationMaximumAmount, loans.ViolationPaymentTooLarge},
			asOf:       "2026-10-19",
		},
		{
			name:       "every rule fails",
			body:       `{"loanType":"personal","amount":60000,"term":12,"monthlyIncome":500,"dateOfBirth":"2010-01-01"}`,
			violations: []string{loans.ViolationUnderage, loans.ViolationMinimumIncome, loans.ViolationMaximumAmount, loans.ViolationPaymentTooLarge},
			asOf:       "2026-10-19",
		},
		{
			name:       "explicit evaluation date uses year difference",
			body:       `{"loanType":"personal","amount":1000,"term":12,"monthlyIncome":6000,"dateOfBirth":"2008-12-31","asOf":"2026-01-01"}`,
			eligible:   true,
			violations: []string{},
			asOf:       "2026-01-01",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := doRequest(t, handler, http.MethodPost, "/api/validate", tt.body)
			if rr.Code != http.StatusOK {
				t.Fatalf("expected status 200, got %d: %s", rr.Code, rr.Body.String())
			}

			var resp validateResponse
			decode(t, rr, &resp)

			if resp.Verdict.IsEligible != tt.eligible {
				t.Errorf("eligible = %v, expected %v", resp.Verdict.IsEligible, tt.eligible)
			}
			if len(resp.Verdict.Violations) != len(tt.violations) {
				t.Fatalf("violations = %v, expected %v", resp.Verdict.Violations, tt.violations)
			}
			for i := range tt.violations {
				if resp.Verdict.Violations[i] != tt.violations[i] {
					t.Errorf("violation %d = %q, expected %q", i, resp.Verdict.Violations[i], tt.violations[i])
				}
			}
			if resp.AsOf != tt.asOf {
				t.Errorf("asOf = %s, expected %s", resp.AsOf, tt.asOf)
			}
		})
	}
}

func TestHandleValidateEmptyViolationsIsArray(t *testing.T) {
	handler := newTestHandler(t, nil)

	rr := doRequest(t, handler, http.MethodPost, "/api/validate",
		`{"loanType":"personal","amount":1000,"term":12,"monthlyIncome":6000,"dateOfBirth":"1996-04-02"}`)
	if !strings.Contains(rr.Body.String(), `"violations":[]`) {
		t.Errorf("expected empty violations array, got %s", rr.Body.String())
	}
}

func TestHandleValidateErrors(t *testing.T) {
	handler := newTestHandler(t, nil)

	tests := []struct {
		name        string
		body        string
		errContains string
	}{
		{"missing date of birth", `{"loanType":"personal","amount":1000,"term":12,"monthlyIncome":6000}`, "dateOfBirth"},
		{"unknown category", `{"loanType":"car","amount":1000,"term":12,"dateOfBirth":"1996-04-02"}`, "invalid loan category"},
		{"bad asOf", `{"loanType":"personal","amount":1000,"term":12,"dateOfBirth":"1996-04-02","asOf":"tomorrow"}`, "asOf"},
		{"malformed JSON", `not json`, "failed to decode request"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := doRequest(t, handler, http.MethodPost, "/api/validate", tt.body)
			if rr.Code != http.StatusBadRequest {
				t.Fatalf("expected status 400, got %d: %s", rr.Code, rr.Body.String())
			}
			var resp map[string]string
			decode(t, rr, &resp)
			if !strings.Contains(resp["error"], tt.errContains) {
				t.Errorf("error %q does not contain %q", resp["error"], tt.errContains)
			}
		})
	}
}

func TestHandlePrograms(t *testing.T) {
	handler := newTestHandler(t, nil)

	rr := doRequest(t, handler, http.MethodGet, "/api/programs", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rr.Code)
	}

	var resp programsResponse
	decode(t, rr, &resp)

	if len(resp.Programs) != 3 {
		t.Fatalf("expected 3 programs, got %d", len(resp.Programs))
	}
	expected := []struct {
		category  loans.Category
		maxAmount float64
		minIncome float64
		rate      float64
	}{
		{loans.CategoryPersonal, 50000, 1000, 0.25},
		{loans.CategoryBusiness, 100000, 2000, 0.20},
		{loans.CategoryEducation, 30000, 800, 0.15},
	}
	for i, e := range expected {
		p := resp.Programs[i]
		if p.Category != e.category || p.MaxAmount != e.maxAmount || p.MinIncome != e.minIncome || p.BaseInterestRate != e.rate {
			t.Errorf("program %d = %+v, expected %+v", i, p, e)
		}
	}
	if len(resp.Collateral) != 4 || resp.Collateral[0] != loans.CollateralNone {
		t.Errorf("unexpected collateral list %v", resp.Collateral)
	}

	if !bytes.Contains(rr.Body.Bytes(), []byte(`"maxAmount":50000`)) {
		t.Errorf("expected flattened program fields, got %s", rr.Body.String())
	}
}

func TestHandleVersion(t *testing.T) {
	rr := doRequest(t, newTestHandler(t, nil), http.MethodGet, "/api/version", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rr.Code)
	}
	var resp map[string]string
	decode(t, rr, &resp)
	if resp["version"] != "1.2.3" {
		t.Errorf("version = %s, expected 1.2.3", resp["version"])
	}

	rr = doRequest(t, NewHandler(nil, 0, "  "), http.MethodGet, "/api/version", "")
	decode(t, rr, &resp)
	if resp["version"] != "dev" {
		t.Errorf("version = %s, expected dev", resp["version"])
	}

	rr = doRequest(t, newTestHandler(t, nil), http.MethodPost, "/api/version", "")
	if rr.Code != http.StatusMethodNotAllowed {
		t.Errorf("expected status 405, got %d", rr.Code)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	metrics := NewMetrics()
	handler := newTestHandler(t, metrics)

	doRequest(t, handler, http.MethodPost, "/api/validate",
		`{"loanType":"education","amount":35000,"term":24,"monthlyIncome":900,"dateOfBirth":"2006-02-11"}`)
	doRequest(t, handler, http.MethodPost, "/api/quote", `{"loanType":"mortgage","amount":1,"term":1}`)

	rr := doRequest(t, handler, http.MethodGet, "/metrics", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rr.Code)
	}
	body := rr.Body.String()

	expected := []string{
		`loan_calculator_verdicts_total{category="education",outcome="ineligible"} 1`,
		`loan_calculator_violations_total{reason="maximum_amount"} 1`,
		`loan_calculator_violations_total{reason="payment_to_income"} 1`,
		`loan_calculator_http_requests_total{code="2xx",endpoint="validate"} 1`,
		`loan_calculator_http_requests_total{code="4xx",endpoint="quote"} 1`,
		`loan_calculator_http_request_duration_seconds_count{endpoint="validate"} 1`,
	}
	for _, line := range expected {
		if !strings.Contains(body, line) {
			t.Errorf("metrics output missing %q", line)
		}
	}
}

func TestMetricsDisabled(t *testing.T) {
	handler := NewHandler(zap.NewNop(), 0, "")

	rr := doRequest(t, handler, http.MethodGet, "/metrics", "")
	if rr.Code != http.StatusNotFound {
		t.Errorf("expected status 404 without metrics, got %d", rr.Code)
	}
}

func TestViolationReason(t *testing.T) {
	tests := map[string]string{
		loans.ViolationUnderage:        "underage",
		loans.ViolationMinimumIncome:   "minimum_income",
		loans.ViolationMaximumAmount:   "maximum_amount",
		loans.ViolationPaymentTooLarge: "payment_to_income",
		"something else":               "other",
	}
	for message, expected := range tests {
		if got := violationReason(message); got != expected {
			t.Errorf("violationReason(%q) = %s, expected %s", message, got, expected)
		}
	}
}

func TestHandleSchedule(t *testing.T) {
	handler := newTestHandler(t, nil)

	rr := doRequest(t, handler, http.MethodPost, "/api/schedule",
		`{"loanType":"personal","amount":1000,"term":12,"monthlyIncome":6000}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rr.Code, rr.Body.String())
	}

	var resp scheduleResponse
	decode(t, rr, &resp)

	if len(resp.Installments) != 12 {
		t.Fatalf("expected 12 installments, got %d", len(resp.Installments))
	}
	if resp.Installments[0].Payment != resp.Pricing.MonthlyPayment {
		t.Errorf("first installment %.2f does not match quoted payment %.2f",
			resp.Installments[0].Payment, resp.Pricing.MonthlyPayment)
	}
	if resp.Installments[11].RemainingPrincipal != 0 {
		t.Errorf("expected schedule to end at zero, got %.2f", resp.Installments[11].RemainingPrincipal)
	}

	rr = doRequest(t, handler, http.MethodPost, "/api/schedule", `{"loanType":"auto","amount":1000,"term":12}`)
	if rr.Code != http.StatusBadRequest {
		t.Errorf("expected status 400 for unknown category, got %d", rr.Code)
	}
}

func TestHandleScheduleRejectsHugeTerm(t *testing.T) {
	handler := newTestHandler(t, nil)

	for _, term := range []int{constants.MaxTermMonths + 1, 2000000000} {
		body := fmt.Sprintf(`{"loanType":"personal","amount":1000,"term":%d,"monthlyIncome":6000}`, term)
		rr := doRequest(t, handler, http.MethodPost, "/api/schedule", body)
		if rr.Code != http.StatusBadRequest {
			t.Fatalf("term %d: expected status 400, got %d: %s", term, rr.Code, rr.Body.String())
		}
		var resp map[string]string
		decode(t, rr, &resp)
		if !strings.Contains(resp["error"], "term cannot exceed") {
			t.Errorf("term %d: unexpected error %q", term, resp["error"])
		}
	}

	rr := doRequest(t, handler, http.MethodPost, "/api/schedule",
		fmt.Sprintf(`{"loanType":"personal","amount":1000,"term":%d,"monthlyIncome":6000}`, constants.MaxTermMonths))
	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200 at the maximum term, got %d: %s", rr.Code, rr.Body.String())
	}
}

func TestWriteJSONEncodingFailure(t *testing.T) {
	h := &handler{logger: zap.NewNop()}
	rr := httptest.NewRecorder()

	h.writeJSON(rr, http.StatusOK, map[string]float64{"monthlyPayment": math.NaN()})

	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("expected status 500, got %d", rr.Code)
	}
	var resp map[string]string
	decode(t, rr, &resp)
	if resp["error"] != "failed to encode response" {
		t.Errorf("unexpected error body %q", rr.Body.String())
	}
}

func TestHandleQuoteLongTermIsFinite(t *testing.T) {
	handler := newTestHandler(t, nil)

	rr := doRequest(t, handler, http.MethodPost, "/api/quote",
		fmt.Sprintf(`{"loanType":"personal","amount":50000,"term":%d,"monthlyIncome":1000}`, constants.MaxTermMonths))
	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rr.Code, rr.Body.String())
	}
	var resp quoteResponse
	decode(t, rr, &resp)
	if resp.Pricing.MonthlyPayment <= 0 {
		t.Errorf("expected a positive monthly payment, got %v", resp.Pricing.MonthlyPayment)
	}
}
