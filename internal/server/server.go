// Package server exposes the pricing and eligibility engine as a small JSON
// API for the browser form. It keeps no application state between requests.
package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/iwvelando/loan-calculator/pkg/constants"
	"github.com/iwvelando/loan-calculator/pkg/datetime"
	"github.com/iwvelando/loan-calculator/pkg/format"
	"github.com/iwvelando/loan-calculator/pkg/loans"
	"go.uber.org/zap"
)

type handler struct {
	logger      *zap.Logger
	engine      *loans.Engine
	metrics     *Metrics
	metricsPath string
	maxBodySize int64
	version     string
}

// Option customizes the handler built by NewHandler.
type Option func(*handler)

// WithEngine replaces the default engine, e.g. to pin its clock.
func WithEngine(engine *loans.Engine) Option {
	return func(h *handler) {
		if engine != nil {
			h.engine = engine
		}
	}
}

// WithMetrics records request metrics and serves them on path.
func WithMetrics(metrics *Metrics, path string) Option {
	return func(h *handler) {
		h.metrics = metrics
		h.metricsPath = path
	}
}

// NewHandler constructs the HTTP handler that serves the quote API.
func NewHandler(logger *zap.Logger, maxBodySize int64, version string, opts ...Option) http.Handler {
	if logger == nil {
		logger = zap.NewNop()
	}

	if maxBodySize <= 0 {
		maxBodySize = constants.DefaultMaxBodySizeBytes
	}

	trimmedVersion := strings.TrimSpace(version)
	if trimmedVersion == "" {
		trimmedVersion = "dev"
	}

	h := &handler{
		logger:      logger,
		engine:      loans.NewEngine(logger),
		maxBodySize: maxBodySize,
		version:     trimmedVersion,
	}
	for _, opt := range opts {
		opt(h)
	}

	mux := http.NewServeMux()

	// Program table for populating the category selector
	mux.HandleFunc("/api/programs", h.instrument("programs", h.handlePrograms))

	// Live figures, recomputed on every form change
	mux.HandleFunc("/api/quote", h.instrument("quote", h.handleQuote))

	// Month-by-month amortization for the current figures
	mux.HandleFunc("/api/schedule", h.instrument("schedule", h.handleSchedule))

	// Figures plus eligibility verdict for the submit step
	mux.HandleFunc("/api/validate", h.instrument("validate", h.handleValidate))

	// Version endpoint for UI metadata
	mux.HandleFunc("/api/version", h.instrument("version", h.handleVersion))

	if h.metrics != nil && h.metricsPath != "" {
		mux.Handle(h.metricsPath, h.metrics.Handler())
	}

	return mux
}

// loanRequestPayload is the JSON shape of the form fields the engine uses.
type loanRequestPayload struct {
	LoanType       string  `json:"loanType"`
	Amount         float64 `json:"amount"`
	Term           int     `json:"term"`
	MonthlyIncome  float64 `json:"monthlyIncome"`
	CollateralType string  `json:"collateralType"`
	DateOfBirth    string  `json:"dateOfBirth,omitempty"`
	AsOf           string  `json:"asOf,omitempty"`
}

type programEntry struct {
	Category loans.Category `json:"category"`
	loans.LoanProgram
}

type programsResponse struct {
	Programs   []programEntry     `json:"programs"`
	Collateral []loans.Collateral `json:"collateral"`
}

type quoteDisplay struct {
	InterestRate   string `json:"interestRate"`
	MonthlyPayment string `json:"monthlyPayment"`
	TotalPayment   string `json:"totalPayment"`
	ProcessingFee  string `json:"processingFee"`
	Term           string `json:"term"`
}

type quoteResponse struct {
	Pricing loans.PricingResult `json:"pricing"`
	Display quoteDisplay        `json:"display"`
}

type scheduleResponse struct {
	Pricing      loans.PricingResult `json:"pricing"`
	Installments []loans.Installment `json:"installments"`
}

type validateResponse struct {
	Pricing loans.PricingResult      `json:"pricing"`
	Verdict loans.EligibilityVerdict `json:"verdict"`
	AsOf    string                   `json:"asOf"`
}

func (h *handler) handlePrograms(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	resp := programsResponse{Collateral: loans.CollateralCategories()}
	for _, category := range loans.Categories() {
		program, err := loans.Program(category)
		if err != nil {
			h.respondErrorWithOp(w, http.StatusInternalServerError, err.Error(), "server.handlePrograms")
			return
		}
		resp.Programs = append(resp.Programs, programEntry{Category: category, LoanProgram: program})
	}

	h.writeJSON(w, http.StatusOK, resp)
}

func (h *handler) handleQuote(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleQuote"
	if r.Method != http.MethodPost {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	payload, ok := h.decodePayload(w, r, op)
	if !ok {
		return
	}

	req, err := payload.toRequest(false)
	if err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, err.Error(), op)
		return
	}

	pricing, err := h.engine.Quote(req)
	if err != nil {
		h.respondEngineError(w, err, op)
		return
	}

	h.writeJSON(w, http.StatusOK, quoteResponse{
		Pricing: pricing,
		Display: quoteDisplay{
			InterestRate:   format.AnnualRate(pricing.EffectiveAnnualRate),
			MonthlyPayment: format.Currency(pricing.MonthlyPayment),
			TotalPayment:   format.Currency(pricing.TotalPayment),
			ProcessingFee:  format.Currency(pricing.ProcessingFee),
			Term:           format.Months(req.TermMonths),
		},
	})
}

func (h *handler) handleSchedule(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleSchedule"
	if r.Method != http.MethodPost {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	payload, ok := h.decodePayload(w, r, op)
	if !ok {
		return
	}

	req, err := payload.toRequest(false)
	if err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, err.Error(), op)
		return
	}

	pricing, err := h.engine.Quote(req)
	if err != nil {
		h.respondEngineError(w, err, op)
		return
	}

	installments, err := h.engine.Schedule(req)
	if err != nil {
		h.respondEngineError(w, err, op)
		return
	}

	h.writeJSON(w, http.StatusOK, scheduleResponse{Pricing: pricing, Installments: installments})
}

func (h *handler) handleValidate(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleValidate"
	if r.Method != http.MethodPost {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	payload, ok := h.decodePayload(w, r, op)
	if !ok {
		return
	}

	req, err := payload.toRequest(true)
	if err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, err.Error(), op)
		return
	}

	asOf, err := datetime.ParseDateOr(payload.AsOf, h.engine.Now())
	if err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, fmt.Sprintf("failed to parse asOf: %v", err), op)
		return
	}

	pricing, verdict, err := h.engine.EvaluateAt(req, asOf)
	if err != nil {
		h.respondEngineError(w, err, op)
		return
	}
	h.metrics.ObserveVerdict(req.Category, verdict)

	h.writeJSON(w, http.StatusOK, validateResponse{
		Pricing: pricing,
		Verdict: verdict,
		AsOf:    asOf.Format(constants.DateLayout),
	})
}

func (h *handler) handleVersion(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]string{
		"version": h.version,
	})
}

func (h *handler) decodePayload(w http.ResponseWriter, r *http.Request, op string) (loanRequestPayload, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxBodySize)

	var payload loanRequestPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			h.respondErrorWithOp(w, http.StatusRequestEntityTooLarge,
				fmt.Sprintf("request body exceeds limit of %d bytes", h.maxBodySize), op)
			return loanRequestPayload{}, false
		}
		h.respondErrorWithOp(w, http.StatusBadRequest, fmt.Sprintf("failed to decode request: %v", err), op)
		return loanRequestPayload{}, false
	}
	return payload, true
}

// toRequest snapshots the payload. Quotes do not need a date of birth;
// eligibility checks do.
func (p loanRequestPayload) toRequest(requireDateOfBirth bool) (loans.LoanRequest, error) {
	category, err := loans.ParseCategory(p.LoanType)
	if err != nil {
		return loans.LoanRequest{}, err
	}

	collateral, err := loans.ParseCollateral(p.CollateralType)
	if err != nil {
		return loans.LoanRequest{}, err
	}

	if p.Amount <= 0 {
		return loans.LoanRequest{}, fmt.Errorf("amount must be positive, got %.2f", p.Amount)
	}
	if p.Term < 1 {
		return loans.LoanRequest{}, fmt.Errorf("term must be at least 1 month, got %d", p.Term)
	}
	if p.Term > constants.MaxTermMonths {
		return loans.LoanRequest{}, fmt.Errorf("term cannot exceed %d months, got %d", constants.MaxTermMonths, p.Term)
	}
	if p.MonthlyIncome < 0 {
		return loans.LoanRequest{}, fmt.Errorf("monthlyIncome cannot be negative, got %.2f", p.MonthlyIncome)
	}

	var dob time.Time
	if p.DateOfBirth != "" || requireDateOfBirth {
		dob, err = datetime.ParseDate(p.DateOfBirth)
		if err != nil {
			return loans.LoanRequest{}, fmt.Errorf("failed to parse dateOfBirth: %w", err)
		}
	}

	return loans.LoanRequest{
		Category:      category,
		Principal:     p.Amount,
		TermMonths:    p.Term,
		MonthlyIncome: p.MonthlyIncome,
		Collateral:    collateral,
		DateOfBirth:   dob,
	}, nil
}

func (h *handler) respondEngineError(w http.ResponseWriter, err error, op string) {
	if errors.Is(err, loans.ErrInvalidCategory) || errors.Is(err, loans.ErrTermTooLong) {
		h.respondErrorWithOp(w, http.StatusBadRequest, err.Error(), op)
		return
	}
	h.respondErrorWithOp(w, http.StatusInternalServerError, err.Error(), op)
}

func (h *handler) respondErrorWithOp(w http.ResponseWriter, status int, msg string, op string) {
	h.logger.Error("request failed",
		zap.String("op", op),
		zap.Int("status", status),
		zap.String("error", msg),
	)
	h.writeJSON(w, status, map[string]string{"error": msg})
}

// writeJSON encodes payload before touching the response so an encoding
// failure can still be reported as a 500.
func (h *handler) writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	body, err := json.Marshal(payload)
	if err != nil {
		h.logger.Error("failed to encode JSON response", zap.Int("status", status), zap.Error(err))
		status = http.StatusInternalServerError
		body = []byte(`{"error":"failed to encode response"}`)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(append(body, '\n')); err != nil {
		h.logger.Error("failed to write JSON response", zap.Error(err))
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (h *handler) instrument(endpoint string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next(rec, r)
		h.metrics.ObserveRequest(endpoint, rec.status, time.Since(start))
	}
}
