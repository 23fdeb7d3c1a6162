package matrix

import (
	"testing"
	"time"

	"github.com/creativeops/briefmatrix/internal/models"
)

// testResearch returns a valid 2.0 research artifact with three
// evidence-backed emotion entries.
func testResearch() *models.FoundationResearch {
	ledger := "ledger-77"
	return &models.FoundationResearch{
		SchemaVersion: models.FoundationSchemaVersion,
		BrandID:       "acme",
		ProductID:     "widget",
		Inventory: []models.EmotionEntry{
			{Key: "fear_of_missing_out", Label: "Fear of missing out", SampleQuoteIDs: []string{"q1", "q2"}},
			{Key: "relief", Label: "Relief", SampleQuoteIDs: []string{"q3"}, LedgerRef: &ledger},
			{Key: "pride", Label: "Pride", SampleQuoteIDs: []string{"q4"}},
		},
	}
}

// testPlan builds a zeroed plan from the standard fixture.
func testPlan(t *testing.T) *models.MatrixPlan {
	t.Helper()
	plan, err := BuildPlan(testResearch(), "run-1")
	if err != nil {
		t.Fatalf("BuildPlan: %v", err)
	}
	return plan
}

// testEngine compiles a gate engine for the given policy.
func testEngine(t *testing.T, policy Policy) *GateEngine {
	t.Helper()
	engine, err := NewGateEngine(policy)
	if err != nil {
		t.Fatalf("NewGateEngine: %v", err)
	}
	return engine
}

// fixedClock returns a deterministic clock for approval stamps.
func fixedClock(ts time.Time) func() time.Time {
	return func() time.Time { return ts }
}
