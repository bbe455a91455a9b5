package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/company-intel/intel-cli/internal/model"
)

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS runs (
	id         TEXT PRIMARY KEY,
	dumps_dir  TEXT NOT NULL,
	status     TEXT NOT NULL,
	accepted   INTEGER NOT NULL DEFAULT 0,
	failed     INTEGER NOT NULL DEFAULT 0,
	created_at TIMESTAMP NOT NULL,
	updated_at TIMESTAMP NOT NULL
);

CREATE TABLE IF NOT EXISTS profiles (
	domain     TEXT PRIMARY KEY,
	run_id     TEXT NOT NULL REFERENCES runs(id),
	data       TEXT NOT NULL,
	updated_at TIMESTAMP NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_profiles_run_id ON profiles(run_id);
CREATE INDEX IF NOT EXISTS idx_runs_status ON runs(status);
`

// SQLiteStore persists runs and profiles in a local SQLite database.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens (and creates if needed) the database at path.
func NewSQLite(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, eris.Wrapf(err, "store: open sqlite %s", path)
	}

	// modernc sqlite is single-writer; serialize access through one conn.
	db.SetMaxOpenConns(1)

	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA foreign_keys = ON",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "store: exec %s", pragma)
		}
	}

	return &SQLiteStore{db: db}, nil
}

// Migrate applies the schema. Safe to call on every startup.
func (s *SQLiteStore) Migrate(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, sqliteMigration); err != nil {
		return eris.Wrap(err, "store: migrate sqlite")
	}
	return nil
}

// CreateRun inserts a new run in the running state.
func (s *SQLiteStore) CreateRun(ctx context.Context, dumpsDir string) (*model.Run, error) {
	now := time.Now().UTC()
	run := &model.Run{
		ID:        uuid.New().String(),
		DumpsDir:  dumpsDir,
		Status:    model.RunStatusRunning,
		CreatedAt: now,
		UpdatedAt: now,
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO runs (id, dumps_dir, status, accepted, failed, created_at, updated_at)
		 VALUES (?, ?, ?, 0, 0, ?, ?)`,
		run.ID, run.DumpsDir, run.Status, run.CreatedAt, run.UpdatedAt,
	)
	if err != nil {
		return nil, eris.Wrap(err, "store: create run")
	}
	return run, nil
}

// CompleteRun records the terminal status and counters for a run.
func (s *SQLiteStore) CompleteRun(ctx context.Context, runID string, status model.RunStatus, accepted, failed int) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE runs SET status = ?, accepted = ?, failed = ?, updated_at = ? WHERE id = ?`,
		status, accepted, failed, time.Now().UTC(), runID,
	)
	if err != nil {
		return eris.Wrap(err, "store: complete run")
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return eris.Wrap(err, "store: complete run rows affected")
	}
	if rows == 0 {
		return eris.Errorf("store: run %s not found", runID)
	}
	return nil
}

// ListRuns returns runs, newest first, optionally filtered by status.
func (s *SQLiteStore) ListRuns(ctx context.Context, filter RunFilter) ([]model.Run, error) {
	query := `SELECT id, dumps_dir, status, accepted, failed, created_at, updated_at FROM runs`
	var args []any
	if filter.Status != "" {
		query += ` WHERE status = ?`
		args = append(args, filter.Status)
	}
	query += ` ORDER BY created_at DESC`
	if filter.Limit > 0 {
		query += ` LIMIT ?`
		args = append(args, filter.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "store: list runs")
	}
	defer rows.Close()

	var runs []model.Run
	for rows.Next() {
		var run model.Run
		if err := rows.Scan(&run.ID, &run.DumpsDir, &run.Status, &run.Accepted, &run.Failed, &run.CreatedAt, &run.UpdatedAt); err != nil {
			return nil, eris.Wrap(err, "store: scan run")
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, eris.Wrap(err, "store: iterate runs")
	}
	return runs, nil
}

// SaveProfiles upserts accepted profiles keyed by domain. A later run
// overwrites the profile a previous run stored for the same domain.
func (s *SQLiteStore) SaveProfiles(ctx context.Context, runID string, profiles []model.Profile) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return eris.Wrap(err, "store: begin save profiles")
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO profiles (domain, run_id, data, updated_at)
		 VALUES (?, ?, ?, ?)
		 ON CONFLICT(domain) DO UPDATE SET
			run_id = excluded.run_id,
			data = excluded.data,
			updated_at = excluded.updated_at`,
	)
	if err != nil {
		return eris.Wrap(err, "store: prepare upsert profile")
	}
	defer stmt.Close()

	now := time.Now().UTC()
	for _, p := range profiles {
		data, err := json.Marshal(p)
		if err != nil {
			return eris.Wrapf(err, "store: marshal profile %s", p.Domain)
		}
		if _, err := stmt.ExecContext(ctx, p.Domain, runID, string(data), now); err != nil {
			return eris.Wrapf(err, "store: upsert profile %s", p.Domain)
		}
	}

	if err := tx.Commit(); err != nil {
		return eris.Wrap(err, "store: commit save profiles")
	}
	return nil
}

// GetProfile returns the stored profile for a domain, or (nil, nil) when
// the domain is unknown.
func (s *SQLiteStore) GetProfile(ctx context.Context, domain string) (*model.Profile, error) {
	var data string
	err := s.db.QueryRowContext(ctx,
		`SELECT data FROM profiles WHERE domain = ?`, domain,
	).Scan(&data)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, eris.Wrapf(err, "store: get profile %s", domain)
	}

	var profile model.Profile
	if err := json.Unmarshal([]byte(data), &profile); err != nil {
		return nil, eris.Wrapf(err, "store: unmarshal profile %s", domain)
	}
	return &profile, nil
}

// Close closes the underlying database.
func (s *SQLiteStore) Close() error {
	if err := s.db.Close(); err != nil {
		return eris.Wrap(err, "store: close sqlite")
	}
	return nil
}
