package matrix

import (
	"fmt"

	"github.com/creativeops/briefmatrix/internal/models"
)

// GateStatus is the outcome of one gate, with reasons naming every
// offending cell or field.
type GateStatus struct {
	Passed  bool     `json:"passed"`
	Reasons []string `json:"reasons,omitempty"`
}

// GateReport carries all four gate outcomes. The JSON keys gate_a..gate_d
// are the external contract; every gate always reports so the operator can
// fix everything in one pass instead of a fail-fix-refail loop per gate.
type GateReport struct {
	Axis         GateStatus `json:"gate_a"`
	Cells        GateStatus `json:"gate_b"`
	Traceability GateStatus `json:"gate_c"`
	Structural   GateStatus `json:"gate_d"`
}

// AllPassed reports gate eligibility for approval. The gates are a
// conjunction: a partial pass still blocks approval.
func (r GateReport) AllPassed() bool {
	return r.Axis.Passed && r.Cells.Passed && r.Traceability.Passed && r.Structural.Passed
}

// GateEngine evaluates the four hard gates against an immutable plan
// snapshot. The MatrixPlan_v1 schema is compiled once at construction.
type GateEngine struct {
	policy Policy
	schema *compiledPlanSchema
}

// NewGateEngine compiles the structural schema and binds the write policy
// so Gate B and the cell store enforce the same cap.
func NewGateEngine(policy Policy) (*GateEngine, error) {
	schema, err := newCompiledPlanSchema()
	if err != nil {
		return nil, fmt.Errorf("failed to compile plan schema: %w", err)
	}
	return &GateEngine{policy: policy, schema: schema}, nil
}

// Evaluate runs all four gates independently over the snapshot and always
// reports all four.
func (g *GateEngine) Evaluate(plan models.MatrixPlan) GateReport {
	return GateReport{
		Axis:         checkAxis(plan),
		Cells:        checkCells(plan, g.policy),
		Traceability: checkTraceability(plan),
		Structural:   g.checkStructural(plan),
	}
}

// checkAxis verifies the awareness axis is exactly the canonical 5 in
// canonical order and that at least one emotion row exists.
func checkAxis(plan models.MatrixPlan) GateStatus {
	var reasons []string

	canonical := models.CanonicalAwarenessLevels()
	if len(plan.AwarenessLevels) != len(canonical) {
		reasons = append(reasons, fmt.Sprintf(
			"awareness_levels has %d entries, need exactly %d", len(plan.AwarenessLevels), len(canonical)))
	} else {
		for i, level := range canonical {
			if plan.AwarenessLevels[i] != level {
				reasons = append(reasons, fmt.Sprintf(
					"awareness_levels[%d] is %q, need %q", i, plan.AwarenessLevels[i], level))
			}
		}
	}

	if len(plan.EmotionRows) == 0 {
		reasons = append(reasons, "emotion_rows is empty")
	}

	return GateStatus{Passed: len(reasons) == 0, Reasons: reasons}
}

// checkCells verifies the cell set is exactly the awareness×emotion cross
// product, with every count non-negative and within the configured cap.
func checkCells(plan models.MatrixPlan, policy Policy) GateStatus {
	var reasons []string

	seen := make(map[cellKey]int, len(plan.Cells))
	for _, cell := range plan.Cells {
		seen[cellKey{cell.AwarenessLevel, cell.EmotionKey}]++
	}

	expected := make(map[cellKey]struct{}, len(plan.AwarenessLevels)*len(plan.EmotionRows))
	for _, level := range plan.AwarenessLevels {
		for _, row := range plan.EmotionRows {
			key := cellKey{level, row.EmotionKey}
			expected[key] = struct{}{}
			switch n := seen[key]; {
			case n == 0:
				reasons = append(reasons, fmt.Sprintf("cell (%s, %s) is missing", level, row.EmotionKey))
			case n > 1:
				reasons = append(reasons, fmt.Sprintf("cell (%s, %s) appears %d times", level, row.EmotionKey, n))
			}
		}
	}

	for _, cell := range plan.Cells {
		coord := fmt.Sprintf("cell (%s, %s)", cell.AwarenessLevel, cell.EmotionKey)
		if _, ok := expected[cellKey{cell.AwarenessLevel, cell.EmotionKey}]; !ok {
			reasons = append(reasons, coord+" is outside the axis cross product")
			continue
		}
		if cell.BriefCount < 0 {
			reasons = append(reasons, fmt.Sprintf("%s: brief_count %d is negative", coord, cell.BriefCount))
		} else if policy.Capped() && cell.BriefCount > policy.BriefCountCap {
			reasons = append(reasons, fmt.Sprintf(
				"%s: brief_count %d exceeds cap %d", coord, cell.BriefCount, policy.BriefCountCap))
		}
	}

	return GateStatus{Passed: len(reasons) == 0, Reasons: reasons}
}

// checkTraceability verifies every emotion row carries at least one
// evidence reference.
func checkTraceability(plan models.MatrixPlan) GateStatus {
	var reasons []string
	for _, row := range plan.EmotionRows {
		if len(row.EvidenceRefs) == 0 {
			reasons = append(reasons, fmt.Sprintf("emotion row %q has no evidence references", row.EmotionKey))
		}
	}
	return GateStatus{Passed: len(reasons) == 0, Reasons: reasons}
}
