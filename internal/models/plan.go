// Package models defines the planning domain types for briefmatrix
package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/invopop/jsonschema"
)

// AwarenessLevel is one of the 5 fixed marketing-funnel stages forming the
// matrix's X-axis.
type AwarenessLevel string

const (
	AwarenessUnaware       AwarenessLevel = "unaware"
	AwarenessProblemAware  AwarenessLevel = "problem_aware"
	AwarenessSolutionAware AwarenessLevel = "solution_aware"
	AwarenessProductAware  AwarenessLevel = "product_aware"
	AwarenessMostAware     AwarenessLevel = "most_aware"
)

// CanonicalAwarenessLevels returns the awareness axis in its canonical
// order. The order is load-bearing for downstream rollups and column
// layout: never sort it, never derive it from input data.
func CanonicalAwarenessLevels() []AwarenessLevel {
	return []AwarenessLevel{
		AwarenessUnaware,
		AwarenessProblemAware,
		AwarenessSolutionAware,
		AwarenessProductAware,
		AwarenessMostAware,
	}
}

// JSONSchema publishes the closed enum wherever an AwarenessLevel appears
// in a reflected schema.
func (AwarenessLevel) JSONSchema() *jsonschema.Schema {
	enum := make([]any, 0, 5)
	for _, level := range CanonicalAwarenessLevels() {
		enum = append(enum, string(level))
	}
	return &jsonschema.Schema{Type: "string", Enum: enum}
}

// EmotionRow is one dynamically mined, evidence-backed emotional driver on
// the matrix's Y-axis. Rows are derived once per run and immutable after
// axis construction; keys are already normalized and compared only for
// equality.
type EmotionRow struct {
	EmotionKey   string   `json:"emotion_key"`
	EmotionLabel string   `json:"emotion_label"`
	EvidenceRefs []string `json:"evidence_refs"`
}

// MatrixCell is one awareness/emotion intersection. A brief_count of zero
// is valid and meaningful: planned, but zero briefs.
type MatrixCell struct {
	AwarenessLevel AwarenessLevel `json:"awareness_level"`
	EmotionKey     string         `json:"emotion_key"`
	BriefCount     int            `json:"brief_count" jsonschema:"minimum=0"`
}

// Totals are always derived from the current cell set, never entered or
// persisted as authoritative data.
type Totals struct {
	TotalBriefs int            `json:"total_briefs" jsonschema:"minimum=0"`
	ByAwareness map[string]int `json:"by_awareness"`
	ByEmotion   map[string]int `json:"by_emotion"`
}

// RunMetadata identifies one planning run. A correction after approval
// requires a new run_id; metadata is fixed at axis build time.
type RunMetadata struct {
	BrandID                 string `json:"brand_id"`
	ProductID               string `json:"product_id"`
	RunID                   string `json:"run_id"`
	FoundationSchemaVersion string `json:"foundation_schema_version"`
}

// NewRunID generates a fresh run identifier.
func NewRunID() string {
	return uuid.New().String()
}

// MatrixPlan is the candidate planning grid: frozen axes, the full
// awareness×emotion cross product, and derived totals.
type MatrixPlan struct {
	RunMetadata     RunMetadata      `json:"run_metadata"`
	AwarenessLevels []AwarenessLevel `json:"awareness_levels"`
	EmotionRows     []EmotionRow     `json:"emotion_rows"`
	Cells           []MatrixCell     `json:"cells"`
	Totals          Totals           `json:"totals"`
}

// Clone returns a deep copy. Snapshots handed to gate evaluation and
// persistence must not alias the store's mutable cell set.
func (p *MatrixPlan) Clone() MatrixPlan {
	out := MatrixPlan{
		RunMetadata:     p.RunMetadata,
		AwarenessLevels: append([]AwarenessLevel{}, p.AwarenessLevels...),
		EmotionRows:     make([]EmotionRow, 0, len(p.EmotionRows)),
		Cells:           append([]MatrixCell{}, p.Cells...),
		Totals: Totals{
			TotalBriefs: p.Totals.TotalBriefs,
			ByAwareness: make(map[string]int, len(p.Totals.ByAwareness)),
			ByEmotion:   make(map[string]int, len(p.Totals.ByEmotion)),
		},
	}
	for _, row := range p.EmotionRows {
		row.EvidenceRefs = append([]string{}, row.EvidenceRefs...)
		out.EmotionRows = append(out.EmotionRows, row)
	}
	for k, v := range p.Totals.ByAwareness {
		out.Totals.ByAwareness[k] = v
	}
	for k, v := range p.Totals.ByEmotion {
		out.Totals.ByEmotion[k] = v
	}
	return out
}

// ApprovalRecord exists only after approval; its absence means the plan is
// not usable downstream.
type ApprovalRecord struct {
	ApprovedBy   string    `json:"approved_by"`
	ApprovedAt   time.Time `json:"approved_at"`
	SnapshotHash string    `json:"snapshot_hash"`
}

// SchemaName identifies the persisted artifact format. The artifact is
// versioned by name, not by a mutable field.
const SchemaName = "MatrixPlan_v1"

// MatrixPlanV1 is the persisted artifact: the frozen plan plus its
// approval record. Written exactly once, immutable thereafter. The
// approval block is a pointer so the same document shape can be validated
// structurally before approval exists.
type MatrixPlanV1 struct {
	Schema          string           `json:"schema" jsonschema:"enum=MatrixPlan_v1"`
	RunMetadata     RunMetadata      `json:"run_metadata"`
	AwarenessLevels []AwarenessLevel `json:"awareness_levels"`
	EmotionRows     []EmotionRow     `json:"emotion_rows"`
	Cells           []MatrixCell     `json:"cells"`
	Totals          Totals           `json:"totals"`
	Approval        *ApprovalRecord  `json:"approval,omitempty"`
}

// NewArtifactDocument assembles the artifact document from a plan
// snapshot. Pass a nil approval for pre-approval structural validation.
func NewArtifactDocument(plan MatrixPlan, approval *ApprovalRecord) *MatrixPlanV1 {
	return &MatrixPlanV1{
		Schema:          SchemaName,
		RunMetadata:     plan.RunMetadata,
		AwarenessLevels: plan.AwarenessLevels,
		EmotionRows:     plan.EmotionRows,
		Cells:           plan.Cells,
		Totals:          plan.Totals,
		Approval:        approval,
	}
}

// Plan extracts the plan portion of a persisted artifact.
func (a *MatrixPlanV1) Plan() MatrixPlan {
	return MatrixPlan{
		RunMetadata:     a.RunMetadata,
		AwarenessLevels: a.AwarenessLevels,
		EmotionRows:     a.EmotionRows,
		Cells:           a.Cells,
		Totals:          a.Totals,
	}
}
