package matrix

import (
	"errors"
	"reflect"
	"testing"

	"github.com/creativeops/briefmatrix/internal/models"
)

func TestNormalizeEmotionKey(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want string
	}{
		{"fear_of_missing_out", "fear_of_missing_out"},
		{"Fear Of Missing-Out", "fear_of_missing_out"},
		{"  RELIEF  ", "relief"},
		{"pride!!", "pride"},
		{"a  b", "a_b"},
		{"---", ""},
		{"", ""},
	}
	for _, tt := range tests {
		if got := NormalizeEmotionKey(tt.in); got != tt.want {
			t.Fatalf("NormalizeEmotionKey(%q)=%q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestBuildPlan_FullCrossProductAllZero(t *testing.T) {
	t.Parallel()

	plan := testPlan(t)

	if got, want := len(plan.EmotionRows), 3; got != want {
		t.Fatalf("emotion rows=%d, want %d", got, want)
	}
	if got, want := len(plan.Cells), 5*3; got != want {
		t.Fatalf("cells=%d, want %d", got, want)
	}
	for _, cell := range plan.Cells {
		if cell.BriefCount != 0 {
			t.Fatalf("cell (%s, %s) initialized to %d, want 0", cell.AwarenessLevel, cell.EmotionKey, cell.BriefCount)
		}
	}
	if plan.Totals.TotalBriefs != 0 {
		t.Fatalf("total_briefs=%d, want 0", plan.Totals.TotalBriefs)
	}
}

func TestBuildPlan_AwarenessAxisIsCanonical(t *testing.T) {
	t.Parallel()

	plan := testPlan(t)
	if !reflect.DeepEqual(plan.AwarenessLevels, models.CanonicalAwarenessLevels()) {
		t.Fatalf("awareness axis %v is not the canonical order", plan.AwarenessLevels)
	}
}

func TestBuildPlan_PreservesInventoryOrderAndNormalizes(t *testing.T) {
	t.Parallel()

	research := testResearch()
	research.Inventory[0].Key = "Fear Of Missing-Out"

	plan, err := BuildPlan(research, "run-1")
	if err != nil {
		t.Fatalf("BuildPlan: %v", err)
	}

	wantKeys := []string{"fear_of_missing_out", "relief", "pride"}
	for i, want := range wantKeys {
		if plan.EmotionRows[i].EmotionKey != want {
			t.Fatalf("row[%d]=%q, want %q", i, plan.EmotionRows[i].EmotionKey, want)
		}
	}
}

func TestBuildPlan_MergesLedgerRefIntoEvidence(t *testing.T) {
	t.Parallel()

	plan := testPlan(t)
	// The relief entry carries q3 plus a ledger reference.
	if !reflect.DeepEqual(plan.EmotionRows[1].EvidenceRefs, []string{"q3", "ledger-77"}) {
		t.Fatalf("relief evidence=%v", plan.EmotionRows[1].EvidenceRefs)
	}
}

func TestBuildPlan_CollapsesDuplicateKeys(t *testing.T) {
	t.Parallel()

	research := testResearch()
	research.Inventory = append(research.Inventory, models.EmotionEntry{
		Key:            "  PRIDE ",
		Label:          "Pride again",
		SampleQuoteIDs: []string{"q4", "q9"},
	})

	plan, err := BuildPlan(research, "run-1")
	if err != nil {
		t.Fatalf("BuildPlan: %v", err)
	}
	if got, want := len(plan.EmotionRows), 3; got != want {
		t.Fatalf("emotion rows=%d, want %d", got, want)
	}
	pride := plan.EmotionRows[2]
	if pride.EmotionLabel != "Pride" {
		t.Fatalf("first label should win, got %q", pride.EmotionLabel)
	}
	if !reflect.DeepEqual(pride.EvidenceRefs, []string{"q4", "q9"}) {
		t.Fatalf("merged evidence=%v, want [q4 q9]", pride.EvidenceRefs)
	}
	if got, want := len(plan.Cells), 5*3; got != want {
		t.Fatalf("cells=%d, want %d", got, want)
	}
}

func TestBuildPlan_NoEmotionRows(t *testing.T) {
	t.Parallel()

	research := testResearch()
	research.Inventory = []models.EmotionEntry{
		{Key: "!!!", Label: "Unusable", SampleQuoteIDs: []string{"q1"}},
	}

	_, err := BuildPlan(research, "run-1")
	var axisErr *models.AxisBuildError
	if !errors.As(err, &axisErr) {
		t.Fatalf("want AxisBuildError, got %v", err)
	}
	if axisErr.Kind != models.AxisNoEmotionRows {
		t.Fatalf("Kind=%s, want %s", axisErr.Kind, models.AxisNoEmotionRows)
	}
}

func TestBuildPlan_RunMetadata(t *testing.T) {
	t.Parallel()

	plan := testPlan(t)
	want := models.RunMetadata{
		BrandID:                 "acme",
		ProductID:               "widget",
		RunID:                   "run-1",
		FoundationSchemaVersion: "2.0",
	}
	if plan.RunMetadata != want {
		t.Fatalf("run_metadata=%+v, want %+v", plan.RunMetadata, want)
	}
}
