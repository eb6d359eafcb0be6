package application

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/iwvelando/loan-calculator/pkg/loans"
	"github.com/iwvelando/loan-calculator/pkg/validation"
	"go.uber.org/zap"
)

// Stage is a step of the application wizard.
type Stage int

const (
	// StageCalculating shows the live quote for the chosen category and amount.
	StageCalculating Stage = iota
	// StageApplying collects personal, employment and collateral details.
	StageApplying
	// StageConfirmed is terminal; the application passed every rule.
	StageConfirmed
)

func (s Stage) String() string {
	switch s {
	case StageCalculating:
		return "calculating"
	case StageApplying:
		return "applying"
	case StageConfirmed:
		return "confirmed"
	default:
		return fmt.Sprintf("stage(%d)", int(s))
	}
}

// ErrInvalidTransition is returned when a wizard action is not allowed from
// the current stage.
var ErrInvalidTransition = errors.New("invalid wizard transition")

// Confirmation summarizes a submitted application.
type Confirmation struct {
	Reference   string              `json:"reference"`
	SubmittedAt time.Time           `json:"submittedAt"`
	Category    loans.Category      `json:"category"`
	Principal   float64             `json:"principal"`
	TermMonths  int                 `json:"termMonths"`
	Pricing     loans.PricingResult `json:"pricing"`
}

// Session walks one applicant through the wizard. A Session is owned by a
// single caller and is not safe for concurrent use.
type Session struct {
	engine *loans.Engine
	logger *zap.Logger
	newID  func() string

	stage        Stage
	draft        Draft
	violations   []string
	confirmation *Confirmation
}

// NewSession starts a wizard at StageCalculating with a fresh draft. A nil
// engine is replaced by one using the given logger.
func NewSession(engine *loans.Engine, logger *zap.Logger) *Session {
	if logger == nil {
		logger = zap.NewNop()
	}
	if engine == nil {
		engine = loans.NewEngine(logger)
	}
	return &Session{
		engine: engine,
		logger: logger,
		newID:  uuid.NewString,
		stage:  StageCalculating,
		draft:  NewDraft(),
	}
}

// Stage returns the current wizard stage.
func (s *Session) Stage() Stage {
	return s.stage
}

// Draft returns a copy of the current form state.
func (s *Session) Draft() Draft {
	return s.draft
}

// Edit applies fn to the form state. Edits clear any violations from a
// previous submit. A confirmed application can no longer be edited.
func (s *Session) Edit(fn func(*Draft)) error {
	if s.stage == StageConfirmed {
		return fmt.Errorf("%w: cannot edit a %s application", ErrInvalidTransition, s.stage)
	}
	fn(&s.draft)
	s.violations = nil
	return nil
}

// Quote prices the current draft. It is recomputed on every call.
func (s *Session) Quote() (loans.PricingResult, error) {
	return s.engine.Quote(s.draft.Snapshot())
}

// Warnings returns the form-constraint warnings for the current draft.
func (s *Session) Warnings() []string {
	return validation.ValidateForm(s.draft.Form())
}

// Continue moves from the calculator to the application form. No rules are
// checked at this point.
func (s *Session) Continue() error {
	if s.stage != StageCalculating {
		return fmt.Errorf("%w: continue from %s", ErrInvalidTransition, s.stage)
	}
	s.stage = StageApplying
	return nil
}

// Back returns from the application form to the calculator.
func (s *Session) Back() error {
	if s.stage != StageApplying {
		return fmt.Errorf("%w: back from %s", ErrInvalidTransition, s.stage)
	}
	s.stage = StageCalculating
	s.violations = nil
	return nil
}

// Submit checks the draft as of now. An eligible application moves to
// StageConfirmed and receives a reference; otherwise the wizard stays on the
// form and the verdict's violations are kept for display.
func (s *Session) Submit(now time.Time) (loans.EligibilityVerdict, error) {
	if s.stage != StageApplying {
		return loans.EligibilityVerdict{}, fmt.Errorf("%w: submit from %s", ErrInvalidTransition, s.stage)
	}
	if s.draft.DateOfBirth.IsZero() {
		return loans.EligibilityVerdict{}, ErrMissingDateOfBirth
	}

	req := s.draft.Snapshot()
	pricing, verdict, err := s.engine.EvaluateAt(req, now)
	if err != nil {
		return loans.EligibilityVerdict{}, err
	}

	if !verdict.IsEligible {
		s.violations = verdict.Violations
		s.logger.Info("application rejected",
			zap.String("op", "application.Submit"),
			zap.Strings("violations", verdict.Violations),
		)
		return verdict, nil
	}

	s.violations = nil
	s.confirmation = &Confirmation{
		Reference:   s.newID(),
		SubmittedAt: now,
		Category:    req.Category,
		Principal:   req.Principal,
		TermMonths:  req.TermMonths,
		Pricing:     pricing,
	}
	s.stage = StageConfirmed
	s.logger.Info("application confirmed",
		zap.String("op", "application.Submit"),
		zap.String("reference", s.confirmation.Reference),
	)
	return verdict, nil
}

// Violations returns the reasons the last submit was rejected.
func (s *Session) Violations() []string {
	return s.violations
}

// Confirmation returns the submitted application summary once confirmed.
func (s *Session) Confirmation() (Confirmation, bool) {
	if s.confirmation == nil {
		return Confirmation{}, false
	}
	return *s.confirmation, true
}
