package server

import (
	"net/http"
	"time"

	"github.com/iwvelando/loan-calculator/pkg/loans"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics provides observability for the quote API.
type Metrics struct {
	registry *prometheus.Registry

	// Requests by endpoint and status code
	Requests *prometheus.CounterVec

	// Handler latency by endpoint
	RequestLatency *prometheus.HistogramVec

	// Eligibility verdicts by category and outcome
	Verdicts *prometheus.CounterVec

	// Individual rule failures by reason
	Violations *prometheus.CounterVec
}

// NewMetrics creates the API metrics on a dedicated registry so several
// handlers can coexist in one process.
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()
	factory := promauto.With(registry)

	return &Metrics{
		registry: registry,
		Requests: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "loan_calculator_http_requests_total",
			Help: "Total API requests by endpoint and status code",
		}, []string{"endpoint", "code"}),

		RequestLatency: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "loan_calculator_http_request_duration_seconds",
			Help:    "Duration of API requests by endpoint",
			Buckets: []float64{0.0005, 0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1},
		}, []string{"endpoint"}),

		Verdicts: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "loan_calculator_verdicts_total",
			Help: "Eligibility verdicts by loan category and outcome",
		}, []string{"category", "outcome"}),

		Violations: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "loan_calculator_violations_total",
			Help: "Eligibility rule failures by reason",
		}, []string{"reason"}),
	}
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Registry exposes the underlying registry for tests and extra collectors.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// ObserveRequest records one handled request.
func (m *Metrics) ObserveRequest(endpoint string, code int, d time.Duration) {
	if m != nil {
		m.Requests.WithLabelValues(endpoint, statusLabel(code)).Inc()
		m.RequestLatency.WithLabelValues(endpoint).Observe(d.Seconds())
	}
}

// ObserveVerdict records an eligibility outcome and each violation behind it.
func (m *Metrics) ObserveVerdict(category loans.Category, verdict loans.EligibilityVerdict) {
	if m == nil {
		return
	}
	outcome := "eligible"
	if !verdict.IsEligible {
		outcome = "ineligible"
	}
	m.Verdicts.WithLabelValues(string(category), outcome).Inc()
	for _, v := range verdict.Violations {
		m.Violations.WithLabelValues(violationReason(v)).Inc()
	}
}

func violationReason(message string) string {
	switch message {
	case loans.ViolationUnderage:
		return "underage"
	case loans.ViolationMinimumIncome:
		return "minimum_income"
	case loans.ViolationMaximumAmount:
		return "maximum_amount"
	case loans.ViolationPaymentTooLarge:
		return "payment_to_income"
	default:
		return "other"
	}
}

func statusLabel(code int) string {
	switch {
	case code >= 500:
		return "5xx"
	case code >= 400:
		return "4xx"
	case code >= 300:
		return "3xx"
	default:
		return "2xx"
	}
}
