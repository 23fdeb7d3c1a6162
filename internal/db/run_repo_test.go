package db

import (
	"testing"
	"time"

	"github.com/creativeops/briefmatrix/internal/matrix"
)

func testRunRecord(t *testing.T, runID string) *RunRecord {
	t.Helper()
	artifact := testArtifact(t, runID)
	now := time.Date(2026, 8, 24, 9, 0, 0, 0, time.UTC)
	return &RunRecord{
		RunID:     runID,
		BrandID:   "acme",
		ProductID: "widget",
		State:     matrix.StateDraft,
		Plan:      artifact.Plan(),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func TestRunRepository_CreateAndGet(t *testing.T) {
	t.Parallel()

	repo := NewRunRepository(openTestDB(t))
	if err := repo.Create(testRunRecord(t, "run-a")); err != nil {
		t.Fatalf("Create: %v", err)
	}

	got, err := repo.Get("run-a")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got == nil {
		t.Fatalf("run-a should exist")
	}
	if got.State != matrix.StateDraft || got.BrandID != "acme" {
		t.Fatalf("record=%+v", got)
	}
	if len(got.Plan.Cells) != 5*2 {
		t.Fatalf("stored plan has %d cells, want %d", len(got.Plan.Cells), 5*2)
	}
}

func TestRunRepository_GetMissingReturnsNil(t *testing.T) {
	t.Parallel()

	repo := NewRunRepository(openTestDB(t))
	got, err := repo.Get("nope")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got != nil {
		t.Fatalf("missing run should be nil, got %+v", got)
	}
}

func TestRunRepository_UpdateStateAndPlan(t *testing.T) {
	t.Parallel()

	repo := NewRunRepository(openTestDB(t))
	record := testRunRecord(t, "run-b")
	if err := repo.Create(record); err != nil {
		t.Fatalf("Create: %v", err)
	}

	record.State = matrix.StateGatesPassed
	record.Plan.Cells[0].BriefCount = 7
	if err := repo.Update(record); err != nil {
		t.Fatalf("Update: %v", err)
	}

	got, err := repo.Get("run-b")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.State != matrix.StateGatesPassed {
		t.Fatalf("state=%s, want %s", got.State, matrix.StateGatesPassed)
	}
	if got.Plan.Cells[0].BriefCount != 7 {
		t.Fatalf("cell write did not persist")
	}
}

func TestRunRepository_UpdateMissingFails(t *testing.T) {
	t.Parallel()

	repo := NewRunRepository(openTestDB(t))
	if err := repo.Update(testRunRecord(t, "ghost")); err == nil {
		t.Fatalf("updating a missing run should fail")
	}
}

func TestRunRepository_ListAndDelete(t *testing.T) {
	t.Parallel()

	repo := NewRunRepository(openTestDB(t))
	for _, id := range []string{"run-1", "run-2", "run-3"} {
		if err := repo.Create(testRunRecord(t, id)); err != nil {
			t.Fatalf("Create(%s): %v", id, err)
		}
	}

	records, err := repo.List(10)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("listed %d runs, want 3", len(records))
	}

	if err := repo.Delete("run-2"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	got, err := repo.Get("run-2")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got != nil {
		t.Fatalf("abandoned run should leave no trace")
	}
}

// Runs for different brands and products stay fully isolated: writes to one
// run never show in another.
func TestRunRepository_RunsAreIsolated(t *testing.T) {
	t.Parallel()

	repo := NewRunRepository(openTestDB(t))
	a := testRunRecord(t, "run-iso-a")
	b := testRunRecord(t, "run-iso-b")
	b.BrandID = "globex"
	if err := repo.Create(a); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := repo.Create(b); err != nil {
		t.Fatalf("Create: %v", err)
	}

	a.Plan.Cells[0].BriefCount = 42
	if err := repo.Update(a); err != nil {
		t.Fatalf("Update: %v", err)
	}

	gotB, err := repo.Get("run-iso-b")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if gotB.Plan.Cells[0].BriefCount != 0 {
		t.Fatalf("write to run-iso-a leaked into run-iso-b")
	}
}
