package db

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/creativeops/briefmatrix/internal/matrix"
	"github.com/creativeops/briefmatrix/internal/models"
)

// RunRecord is the persisted state of one planning run between CLI
// invocations: the coordinator state plus the current plan. Drafts are
// mutable; the approved artifact itself lives in the artifacts table.
type RunRecord struct {
	RunID     string            `json:"run_id" db:"run_id"`
	BrandID   string            `json:"brand_id" db:"brand_id"`
	ProductID string            `json:"product_id" db:"product_id"`
	State     matrix.State      `json:"state" db:"state"`
	Plan      models.MatrixPlan `json:"plan"`
	CreatedAt time.Time         `json:"created_at" db:"created_at"`
	UpdatedAt time.Time         `json:"updated_at" db:"updated_at"`
}

// RunRepository handles run database operations
type RunRepository struct {
	db *DB
}

// NewRunRepository creates a new run repository
func NewRunRepository(db *DB) *RunRepository {
	return &RunRepository{db: db}
}

// Create stores a new draft run.
func (r *RunRepository) Create(record *RunRecord) error {
	planJSON, err := json.Marshal(record.Plan)
	if err != nil {
		return fmt.Errorf("failed to serialize plan: %w", err)
	}

	query := `
		INSERT INTO runs (run_id, brand_id, product_id, state, plan_json, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`
	_, err = r.db.Exec(query,
		record.RunID,
		record.BrandID,
		record.ProductID,
		record.State,
		string(planJSON),
		record.CreatedAt,
		record.UpdatedAt,
	)
	return err
}

// Update rewrites the plan and state of an existing run.
func (r *RunRepository) Update(record *RunRecord) error {
	planJSON, err := json.Marshal(record.Plan)
	if err != nil {
		return fmt.Errorf("failed to serialize plan: %w", err)
	}

	query := `UPDATE runs SET state = ?, plan_json = ?, updated_at = ? WHERE run_id = ?`
	result, err := r.db.Exec(query, record.State, string(planJSON), time.Now().UTC(), record.RunID)
	if err != nil {
		return err
	}
	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("no run with id %s", record.RunID)
	}
	return nil
}

// Get retrieves a run by ID. Returns nil when the run does not exist.
func (r *RunRepository) Get(runID string) (*RunRecord, error) {
	var record RunRecord
	var planJSON string
	query := `SELECT run_id, brand_id, product_id, state, plan_json, created_at, updated_at FROM runs WHERE run_id = ?`
	err := r.db.QueryRow(query, runID).Scan(
		&record.RunID,
		&record.BrandID,
		&record.ProductID,
		&record.State,
		&planJSON,
		&record.CreatedAt,
		&record.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal([]byte(planJSON), &record.Plan); err != nil {
		return nil, fmt.Errorf("failed to parse stored plan: %w", err)
	}
	return &record, nil
}

// List lists runs, newest first.
func (r *RunRepository) List(limit int) ([]*RunRecord, error) {
	query := `SELECT run_id, brand_id, product_id, state, plan_json, created_at, updated_at FROM runs ORDER BY updated_at DESC LIMIT ?`
	rows, err := r.db.Query(query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []*RunRecord
	for rows.Next() {
		var record RunRecord
		var planJSON string
		if err := rows.Scan(
			&record.RunID,
			&record.BrandID,
			&record.ProductID,
			&record.State,
			&planJSON,
			&record.CreatedAt,
			&record.UpdatedAt,
		); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(planJSON), &record.Plan); err != nil {
			return nil, fmt.Errorf("failed to parse stored plan: %w", err)
		}
		records = append(records, &record)
	}
	return records, rows.Err()
}

// Delete removes a run. Abandoning a draft leaves no persisted trace; the
// caller is responsible for refusing to delete approved runs.
func (r *RunRepository) Delete(runID string) error {
	_, err := r.db.Exec(`DELETE FROM runs WHERE run_id = ?`, runID)
	return err
}
