package db

import (
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/mattn/go-sqlite3"

	"github.com/creativeops/briefmatrix/internal/models"
)

// ArtifactRef identifies a persisted artifact for downstream consumers.
type ArtifactRef struct {
	RunID        string    `json:"run_id"`
	SnapshotHash string    `json:"snapshot_hash"`
	ApprovedAt   time.Time `json:"approved_at"`
}

// ArtifactRepository persists approved MatrixPlan_v1 documents. The table
// is write-once per run_id: immutability is enforced at the storage
// boundary by the primary key, not by convention. The insert runs in a
// transaction so a reader never observes a partial artifact.
type ArtifactRepository struct {
	db *DB
}

// NewArtifactRepository creates a new artifact repository
func NewArtifactRepository(db *DB) *ArtifactRepository {
	return &ArtifactRepository{db: db}
}

// Persist writes an approved artifact exactly once. A second persist for
// the same run_id fails with PersistenceError.AlreadyExists and leaves the
// first artifact untouched.
func (r *ArtifactRepository) Persist(artifact *models.MatrixPlanV1) (*ArtifactRef, error) {
	runID := artifact.RunMetadata.RunID
	if artifact.Approval == nil {
		return nil, &models.PersistenceError{Kind: models.PersistenceNotApproved, RunID: runID}
	}

	artifactJSON, err := json.Marshal(artifact)
	if err != nil {
		return nil, &models.PersistenceError{Kind: models.PersistenceStorage, RunID: runID, Err: err}
	}

	tx, err := r.db.Beginx()
	if err != nil {
		return nil, &models.PersistenceError{Kind: models.PersistenceStorage, RunID: runID, Err: err}
	}
	defer tx.Rollback()

	query := `
		INSERT INTO artifacts (run_id, brand_id, product_id, approved_by, approved_at, snapshot_hash, total_briefs, artifact_json)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err = tx.Exec(query,
		runID,
		artifact.RunMetadata.BrandID,
		artifact.RunMetadata.ProductID,
		artifact.Approval.ApprovedBy,
		artifact.Approval.ApprovedAt,
		artifact.Approval.SnapshotHash,
		artifact.Totals.TotalBriefs,
		string(artifactJSON),
	)
	if err != nil {
		var sqliteErr sqlite3.Error
		if errors.As(err, &sqliteErr) && sqliteErr.Code == sqlite3.ErrConstraint {
			return nil, &models.PersistenceError{Kind: models.PersistenceAlreadyExists, RunID: runID}
		}
		return nil, &models.PersistenceError{Kind: models.PersistenceStorage, RunID: runID, Err: err}
	}
	if err := tx.Commit(); err != nil {
		return nil, &models.PersistenceError{Kind: models.PersistenceStorage, RunID: runID, Err: err}
	}

	return &ArtifactRef{
		RunID:        runID,
		SnapshotHash: artifact.Approval.SnapshotHash,
		ApprovedAt:   artifact.Approval.ApprovedAt,
	}, nil
}

// Load reads a persisted artifact. Artifacts are immutable once visible,
// so the single-row read needs no locking.
func (r *ArtifactRepository) Load(runID string) (*models.MatrixPlanV1, error) {
	var artifactJSON string
	query := `SELECT artifact_json FROM artifacts WHERE run_id = ?`
	err := r.db.QueryRow(query, runID).Scan(&artifactJSON)
	if err == sql.ErrNoRows {
		return nil, &models.PersistenceError{Kind: models.PersistenceNotFound, RunID: runID}
	}
	if err != nil {
		return nil, &models.PersistenceError{Kind: models.PersistenceStorage, RunID: runID, Err: err}
	}

	var artifact models.MatrixPlanV1
	if err := json.Unmarshal([]byte(artifactJSON), &artifact); err != nil {
		return nil, &models.PersistenceError{Kind: models.PersistenceStorage, RunID: runID, Err: err}
	}
	return &artifact, nil
}

// Exists reports whether an artifact is already persisted for a run.
func (r *ArtifactRepository) Exists(runID string) (bool, error) {
	var n int
	if err := r.db.QueryRow(`SELECT COUNT(*) FROM artifacts WHERE run_id = ?`, runID).Scan(&n); err != nil {
		return false, &models.PersistenceError{Kind: models.PersistenceStorage, RunID: runID, Err: err}
	}
	return n > 0, nil
}
