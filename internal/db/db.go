// Package db provides SQLite storage for briefmatrix runs and artifacts
package db

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
)

// DB wraps the database connection
type DB struct {
	*sqlx.DB
	path string
}

// DefaultDBPath returns the default database path
func DefaultDBPath() string {
	// Try project-local first
	localPath := ".briefmatrix/plans.db"
	if _, err := os.Stat(".briefmatrix"); err == nil {
		return localPath
	}

	// Fall back to home directory
	home, err := os.UserHomeDir()
	if err != nil {
		return localPath
	}
	return filepath.Join(home, ".briefmatrix", "plans.db")
}

// Open opens or creates the database
func Open(path string) (*DB, error) {
	if path == "" {
		path = DefaultDBPath()
	}

	// Ensure directory exists
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sqlx.Open("sqlite3", path+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	d := &DB{DB: db, path: path}

	if err := d.migrate(); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return d, nil
}

// Path returns the database file path
func (d *DB) Path() string {
	return d.path
}

// migrate runs database migrations
func (d *DB) migrate() error {
	migrations := []string{
		migrationRuns,
		migrationArtifacts,
		migrationIndexes,
	}

	for _, m := range migrations {
		if _, err := d.Exec(m); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
	}

	return nil
}

const migrationRuns = `
CREATE TABLE IF NOT EXISTS runs (
    run_id TEXT PRIMARY KEY,
    brand_id TEXT NOT NULL,
    product_id TEXT NOT NULL,
    state TEXT NOT NULL DEFAULT 'draft',
    plan_json TEXT NOT NULL,
    created_at TIMESTAMP NOT NULL,
    updated_at TIMESTAMP NOT NULL
);
`

const migrationArtifacts = `
CREATE TABLE IF NOT EXISTS artifacts (
    run_id TEXT PRIMARY KEY,
    brand_id TEXT NOT NULL,
    product_id TEXT NOT NULL,
    approved_by TEXT NOT NULL,
    approved_at TIMESTAMP NOT NULL,
    snapshot_hash TEXT NOT NULL,
    total_briefs INTEGER NOT NULL,
    artifact_json TEXT NOT NULL,
    created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);
`

const migrationIndexes = `
CREATE INDEX IF NOT EXISTS idx_runs_brand_product ON runs(brand_id, product_id);
CREATE INDEX IF NOT EXISTS idx_runs_state ON runs(state);
CREATE INDEX IF NOT EXISTS idx_artifacts_brand_product ON artifacts(brand_id, product_id);
`
