package integration

import (
	"os"
	"runtime"
	"testing"
	"time"

	"github.com/iwvelando/loan-calculator/internal/config"
	"github.com/iwvelando/loan-calculator/pkg/loans"
	"go.uber.org/zap"
)

func TestMain(m *testing.M) {
	code := m.Run()
	os.Exit(code)
}

// TestPerformance checks that a batch of evaluations stays well inside an
// interactive budget.
func TestPerformance(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping performance test in short mode")
	}

	conf, err := config.LoadConfiguration(testApplicationsFile)
	if err != nil {
		t.Fatalf("LoadConfiguration failed: %v", err)
	}

	const iterations = 1000
	start := time.Now()
	for i := 0; i < iterations; i++ {
		if _, err := conf.Evaluate(zap.NewNop(), time.Now()); err != nil {
			t.Fatalf("Evaluate failed: %v", err)
		}
	}
	elapsed := time.Since(start)

	t.Logf("Evaluated %d batches in %v (%v per batch)", iterations, elapsed, elapsed/iterations)
	if elapsed > 5*time.Second {
		t.Errorf("Evaluation too slow: %v for %d batches", elapsed, iterations)
	}
}

// TestMemoryUsage checks that repeated quoting does not retain memory.
func TestMemoryUsage(t *testing.T) {
	req := loans.LoanRequest{
		Category:      loans.CategoryBusiness,
		Principal:     20000,
		TermMonths:    36,
		MonthlyIncome: 5500,
		Collateral:    loans.CollateralProperty,
	}

	var before, after runtime.MemStats
	runtime.GC()
	runtime.ReadMemStats(&before)

	for i := 0; i < 10000; i++ {
		if _, err := loans.Quote(req); err != nil {
			t.Fatalf("Quote failed: %v", err)
		}
	}

	runtime.GC()
	runtime.ReadMemStats(&after)

	if after.HeapAlloc > before.HeapAlloc+1<<20 {
		t.Errorf("Heap grew by %d bytes after quoting", after.HeapAlloc-before.HeapAlloc)
	}
}

func BenchmarkQuote(b *testing.B) {
	req := loans.LoanRequest{
		Category:      loans.CategoryPersonal,
		Principal:     1000,
		TermMonths:    12,
		MonthlyIncome: 6000,
	}
	for i := 0; i < b.N; i++ {
		_, _ = loans.Quote(req)
	}
}

func BenchmarkAmortizationSchedule(b *testing.B) {
	for i := 0; i < b.N; i++ {
		_ = loans.AmortizationSchedule(100000, 0.17, 60)
	}
}
