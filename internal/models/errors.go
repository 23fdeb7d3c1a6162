package models

import "fmt"

// InputErrorKind classifies why the upstream research artifact was
// rejected before planning started.
type InputErrorKind string

const (
	InputMissingArtifact       InputErrorKind = "missing_artifact"
	InputSchemaVersionMismatch InputErrorKind = "schema_version_mismatch"
	InputContextMismatch       InputErrorKind = "context_mismatch"
	InputEmptyEmotionInventory InputErrorKind = "empty_emotion_inventory"
)

// InputError rejects the upstream research artifact. Fatal to run start;
// no partial validation result accompanies it.
type InputError struct {
	Kind   InputErrorKind `json:"kind"`
	Field  string         `json:"field"`
	Detail string         `json:"detail"`
}

func (e *InputError) Error() string {
	return fmt.Sprintf("research rejected (%s): %s: %s", e.Kind, e.Field, e.Detail)
}

// AxisBuildErrorKind classifies a degenerate derived axis.
type AxisBuildErrorKind string

const (
	AxisNoEmotionRows AxisBuildErrorKind = "no_emotion_rows"
)

// AxisBuildError means the derived axis is unusable. Fatal to run start.
type AxisBuildError struct {
	Kind   AxisBuildErrorKind `json:"kind"`
	Detail string             `json:"detail"`
}

func (e *AxisBuildError) Error() string {
	return fmt.Sprintf("axis build failed (%s): %s", e.Kind, e.Detail)
}

// CellErrorKind classifies a rejected cell write.
type CellErrorKind string

const (
	CellUnknown       CellErrorKind = "unknown_cell"
	CellNegativeCount CellErrorKind = "negative_count"
	CellExceedsCap    CellErrorKind = "exceeds_cap"
)

// CellError rejects a single cell write. Recoverable: the operator
// corrects the coordinate or count and retries.
type CellError struct {
	Kind           CellErrorKind `json:"kind"`
	AwarenessLevel string        `json:"awareness_level"`
	EmotionKey     string        `json:"emotion_key"`
	BriefCount     int           `json:"brief_count"`
	Cap            int           `json:"cap,omitempty"`
	Suggestion     string        `json:"suggestion,omitempty"`
}

func (e *CellError) Error() string {
	coord := fmt.Sprintf("cell (%s, %s)", e.AwarenessLevel, e.EmotionKey)
	switch e.Kind {
	case CellUnknown:
		if e.Suggestion != "" {
			return fmt.Sprintf("%s is not in the matrix (did you mean %q?)", coord, e.Suggestion)
		}
		return fmt.Sprintf("%s is not in the matrix", coord)
	case CellNegativeCount:
		return fmt.Sprintf("%s: brief_count %d is negative", coord, e.BriefCount)
	case CellExceedsCap:
		return fmt.Sprintf("%s: brief_count %d exceeds cap %d", coord, e.BriefCount, e.Cap)
	}
	return fmt.Sprintf("%s: invalid write", coord)
}

// ApprovalErrorKind classifies an approval attempted out of sequence.
type ApprovalErrorKind string

const (
	ApprovalGatesNotSatisfied ApprovalErrorKind = "gates_not_satisfied"
	ApprovalAlreadyApproved   ApprovalErrorKind = "already_approved"
)

// ApprovalError is a workflow-sequencing failure. It is never silently
// bypassed: approval is unreachable without a current gate pass.
type ApprovalError struct {
	Kind  ApprovalErrorKind `json:"kind"`
	State string            `json:"state"`
}

func (e *ApprovalError) Error() string {
	switch e.Kind {
	case ApprovalGatesNotSatisfied:
		return fmt.Sprintf("cannot approve in state %q: gates have not passed on the current cells", e.State)
	case ApprovalAlreadyApproved:
		return "run is already approved; corrections require a new run_id"
	}
	return fmt.Sprintf("approval refused in state %q", e.State)
}

// PersistenceErrorKind distinguishes a duplicate write from a storage
// outage and a missing artifact.
type PersistenceErrorKind string

const (
	PersistenceAlreadyExists PersistenceErrorKind = "already_exists"
	PersistenceNotFound      PersistenceErrorKind = "not_found"
	PersistenceNotApproved   PersistenceErrorKind = "not_approved"
	PersistenceStorage       PersistenceErrorKind = "storage"
)

// PersistenceError is fatal to the persist or load call that raised it.
type PersistenceError struct {
	Kind  PersistenceErrorKind `json:"kind"`
	RunID string               `json:"run_id"`
	Err   error                `json:"-"`
}

func (e *PersistenceError) Error() string {
	switch e.Kind {
	case PersistenceAlreadyExists:
		return fmt.Sprintf("artifact for run %s already persisted; approved artifacts are immutable", e.RunID)
	case PersistenceNotFound:
		return fmt.Sprintf("no persisted artifact for run %s", e.RunID)
	case PersistenceNotApproved:
		return fmt.Sprintf("run %s has no approval record; only approved plans persist", e.RunID)
	}
	return fmt.Sprintf("storage failure for run %s: %v", e.RunID, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }
