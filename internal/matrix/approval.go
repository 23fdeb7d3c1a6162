package matrix

import (
	"time"

	"github.com/creativeops/briefmatrix/internal/models"
)

// State is the approval coordinator state for one run.
type State string

const (
	StateDraft       State = "draft"
	StateGatesPassed State = "gates_passed"
	StateApproved    State = "approved"
)

// Run is the explicit context for one planning run: the cell store, the
// coordinator state, and the injected gate engine, hasher, and clock.
// Nothing here is ambient or global, so a run is a pure function of its
// inputs plus identity and time.
//
// Transitions: draft → gates_passed on an all-pass submission;
// gates_passed → draft on any subsequent cell write; gates_passed →
// approved on Approve. Approved is terminal — a correction needs a new
// run_id.
type Run struct {
	store    *CellStore
	state    State
	engine   *GateEngine
	hasher   Hasher
	clock    func() time.Time
	artifact *models.MatrixPlanV1
}

// NewRun starts a run in draft over a freshly built plan.
func NewRun(plan *models.MatrixPlan, engine *GateEngine, policy Policy, hasher Hasher, clock func() time.Time) *Run {
	return RestoreRun(plan, StateDraft, engine, policy, hasher, clock)
}

// RestoreRun rebuilds a run context from persisted state, for picking a
// draft back up in a later session. Approved runs restore read-only.
func RestoreRun(plan *models.MatrixPlan, state State, engine *GateEngine, policy Policy, hasher Hasher, clock func() time.Time) *Run {
	if clock == nil {
		clock = time.Now
	}
	return &Run{
		store:  NewCellStore(plan, policy),
		state:  state,
		engine: engine,
		hasher: hasher,
		clock:  clock,
	}
}

// State returns the coordinator state.
func (r *Run) State() State { return r.state }

// RunID returns the run identifier.
func (r *Run) RunID() string { return r.store.plan.RunMetadata.RunID }

// Snapshot returns the current consistent plan snapshot.
func (r *Run) Snapshot() models.MatrixPlan { return r.store.Snapshot() }

// SetCell writes one cell. A write after a gate pass drops the run back to
// draft: the pass was over cells that no longer exist, so approval must be
// re-earned with a fresh submission.
func (r *Run) SetCell(level models.AwarenessLevel, emotionKey string, count int) error {
	if r.state == StateApproved {
		return &models.ApprovalError{Kind: models.ApprovalAlreadyApproved, State: string(r.state)}
	}
	if err := r.store.SetCell(level, emotionKey, count); err != nil {
		return err
	}
	if r.state == StateGatesPassed {
		r.state = StateDraft
	}
	return nil
}

// ApplyCells writes a full cell set, with the same invalidation rule as
// SetCell. The stop-at-first-rejection behavior is per write; cells before
// the rejected one stay applied for correction.
func (r *Run) ApplyCells(cells []models.MatrixCell) error {
	if r.state == StateApproved {
		return &models.ApprovalError{Kind: models.ApprovalAlreadyApproved, State: string(r.state)}
	}
	if r.state == StateGatesPassed {
		r.state = StateDraft
	}
	return r.store.ApplyCells(cells)
}

// Submit evaluates all four gates over a consistent snapshot. On all-pass
// the run enters gates_passed; on any failure it stays in draft with the
// full report, keeping the in-progress cells for correction.
func (r *Run) Submit() (GateReport, error) {
	if r.state == StateApproved {
		return GateReport{}, &models.ApprovalError{Kind: models.ApprovalAlreadyApproved, State: string(r.state)}
	}
	report := r.engine.Evaluate(r.store.Snapshot())
	if report.AllPassed() {
		r.state = StateGatesPassed
	} else {
		r.state = StateDraft
	}
	return report, nil
}

// Approve freezes the plan: computes the snapshot hash over the canonical
// serialization, stamps the approver identity and time, and moves the run
// to its terminal state. Callable only from gates_passed — there is no
// path to approval that skips gate evaluation.
func (r *Run) Approve(approvedBy string) (*models.MatrixPlanV1, error) {
	switch r.state {
	case StateApproved:
		return nil, &models.ApprovalError{Kind: models.ApprovalAlreadyApproved, State: string(r.state)}
	case StateGatesPassed:
	default:
		return nil, &models.ApprovalError{Kind: models.ApprovalGatesNotSatisfied, State: string(r.state)}
	}

	snapshot := r.store.Snapshot()
	hash, err := SnapshotHash(snapshot, r.hasher)
	if err != nil {
		return nil, err
	}
	r.artifact = models.NewArtifactDocument(snapshot, &models.ApprovalRecord{
		ApprovedBy:   approvedBy,
		ApprovedAt:   r.clock().UTC(),
		SnapshotHash: hash,
	})
	r.state = StateApproved
	return r.artifact, nil
}

// Artifact returns the approved document, or nil before approval.
func (r *Run) Artifact() *models.MatrixPlanV1 { return r.artifact }
