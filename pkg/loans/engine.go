package loans

import (
	"time"

	"go.uber.org/zap"
)

// Engine wraps the pricing functions with debug tracing for long-running
// callers such as the CLI and the HTTP server. It holds no request state.
type Engine struct {
	logger *zap.Logger
	now    func() time.Time
}

// NewEngine creates a new engine instance. A nil logger is replaced by a no-op logger.
func NewEngine(logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{logger: logger, now: time.Now}
}

// WithClock returns a copy of the engine that reads the current date from now.
func (e *Engine) WithClock(now func() time.Time) *Engine {
	clone := *e
	if now != nil {
		clone.now = now
	}
	return &clone
}

// Now returns the engine's current time.
func (e *Engine) Now() time.Time {
	return e.now()
}

// Quote prices a request.
func (e *Engine) Quote(req LoanRequest) (PricingResult, error) {
	pricing, err := Quote(req)
	if err != nil {
		e.logger.Debug("rejected loan request",
			zap.String("op", "loans.Quote"),
			zap.String("category", string(req.Category)),
			zap.Error(err),
		)
		return PricingResult{}, err
	}

	e.logger.Debug("priced loan request",
		zap.String("op", "loans.Quote"),
		zap.String("category", string(req.Category)),
		zap.Float64("principal", req.Principal),
		zap.Int("termMonths", req.TermMonths),
		zap.Float64("effectiveAnnualRate", pricing.EffectiveAnnualRate),
		zap.Float64("monthlyPayment", pricing.MonthlyPayment),
	)
	return pricing, nil
}

// Evaluate prices a request and checks its eligibility using the engine clock.
func (e *Engine) Evaluate(req LoanRequest) (PricingResult, EligibilityVerdict, error) {
	return e.EvaluateAt(req, e.now())
}

// EvaluateAt prices a request and checks its eligibility as of the given date.
func (e *Engine) EvaluateAt(req LoanRequest, now time.Time) (PricingResult, EligibilityVerdict, error) {
	pricing, verdict, err := Evaluate(req, now)
	if err != nil {
		e.logger.Debug("rejected loan request",
			zap.String("op", "loans.Evaluate"),
			zap.String("category", string(req.Category)),
			zap.Error(err),
		)
		return PricingResult{}, EligibilityVerdict{}, err
	}

	e.logger.Debug("evaluated loan request",
		zap.String("op", "loans.Evaluate"),
		zap.String("category", string(req.Category)),
		zap.Bool("eligible", verdict.IsEligible),
		zap.Int("violations", len(verdict.Violations)),
	)
	return pricing, verdict, nil
}

// Schedule returns the amortization schedule for a request.
func (e *Engine) Schedule(req LoanRequest) ([]Installment, error) {
	schedule, err := Schedule(req)
	if err != nil {
		e.logger.Debug("rejected loan request",
			zap.String("op", "loans.Schedule"),
			zap.String("category", string(req.Category)),
			zap.Error(err),
		)
		return nil, err
	}

	e.logger.Debug("built amortization schedule",
		zap.String("op", "loans.Schedule"),
		zap.String("category", string(req.Category)),
		zap.Int("installments", len(schedule)),
	)
	return schedule, nil
}
