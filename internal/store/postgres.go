package store

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"

	"github.com/company-intel/intel-cli/internal/model"
)

const postgresMigration = `
CREATE TABLE IF NOT EXISTS runs (
	id         TEXT PRIMARY KEY,
	dumps_dir  TEXT NOT NULL,
	status     TEXT NOT NULL,
	accepted   INTEGER NOT NULL DEFAULT 0,
	failed     INTEGER NOT NULL DEFAULT 0,
	created_at TIMESTAMPTZ NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS profiles (
	domain     TEXT PRIMARY KEY,
	run_id     TEXT NOT NULL REFERENCES runs(id),
	data       JSONB NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_profiles_run_id ON profiles(run_id);
CREATE INDEX IF NOT EXISTS idx_runs_status ON runs(status);
`

// pgPool is the subset of pgxpool.Pool the store uses. Tests substitute a
// pgxmock pool.
type pgPool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Close()
}

// PostgresStore persists runs and profiles in Postgres.
type PostgresStore struct {
	pool pgPool
}

// NewPostgres connects a pooled Postgres store.
func NewPostgres(ctx context.Context, databaseURL string) (*PostgresStore, error) {
	poolCfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, eris.Wrap(err, "store: parse postgres url")
	}
	poolCfg.MaxConns = 10
	poolCfg.MinConns = 2

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, eris.Wrap(err, "store: connect postgres")
	}

	return &PostgresStore{pool: pool}, nil
}

// Migrate applies the schema. Safe to call on every startup.
func (s *PostgresStore) Migrate(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, postgresMigration); err != nil {
		return eris.Wrap(err, "store: migrate postgres")
	}
	return nil
}

// CreateRun inserts a new run in the running state.
func (s *PostgresStore) CreateRun(ctx context.Context, dumpsDir string) (*model.Run, error) {
	now := time.Now().UTC()
	run := &model.Run{
		ID:        uuid.New().String(),
		DumpsDir:  dumpsDir,
		Status:    model.RunStatusRunning,
		CreatedAt: now,
		UpdatedAt: now,
	}

	_, err := s.pool.Exec(ctx,
		`INSERT INTO runs (id, dumps_dir, status, accepted, failed, created_at, updated_at)
		 VALUES ($1, $2, $3, 0, 0, $4, $5)`,
		run.ID, run.DumpsDir, run.Status, run.CreatedAt, run.UpdatedAt,
	)
	if err != nil {
		return nil, eris.Wrap(err, "store: create run")
	}
	return run, nil
}

// CompleteRun records the terminal status and counters for a run.
func (s *PostgresStore) CompleteRun(ctx context.Context, runID string, status model.RunStatus, accepted, failed int) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE runs SET status = $1, accepted = $2, failed = $3, updated_at = $4 WHERE id = $5`,
		status, accepted, failed, time.Now().UTC(), runID,
	)
	if err != nil {
		return eris.Wrap(err, "store: complete run")
	}
	if tag.RowsAffected() == 0 {
		return eris.Errorf("store: run %s not found", runID)
	}
	return nil
}

// ListRuns returns runs, newest first, optionally filtered by status.
func (s *PostgresStore) ListRuns(ctx context.Context, filter RunFilter) ([]model.Run, error) {
	query := `SELECT id, dumps_dir, status, accepted, failed, created_at, updated_at FROM runs`
	var args []any
	if filter.Status != "" {
		query += ` WHERE status = $1`
		args = append(args, filter.Status)
	}
	query += ` ORDER BY created_at DESC`
	if filter.Limit > 0 {
		if len(args) == 0 {
			query += ` LIMIT $1`
		} else {
			query += ` LIMIT $2`
		}
		args = append(args, filter.Limit)
	}

	rows, err := s.pool.Query(ctx, query, args...)
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
func (s *PostgresStore) SaveProfiles(ctx context.Context, runID string, profiles []model.Profile) error {
	now := time.Now().UTC()
	for _, p := range profiles {
		data, err := json.Marshal(p)
		if err != nil {
			return eris.Wrapf(err, "store: marshal profile %s", p.Domain)
		}
		_, err = s.pool.Exec(ctx,
			`INSERT INTO profiles (domain, run_id, data, updated_at)
			 VALUES ($1, $2, $3, $4)
			 ON CONFLICT (domain) DO UPDATE SET
				run_id = EXCLUDED.run_id,
				data = EXCLUDED.data,
				updated_at = EXCLUDED.updated_at`,
			p.Domain, runID, data, now,
		)
		if err != nil {
			return eris.Wrapf(err, "store: upsert profile %s", p.Domain)
		}
	}
	return nil
}

// GetProfile returns the stored profile for a domain, or (nil, nil) when
// the domain is unknown.
func (s *PostgresStore) GetProfile(ctx context.Context, domain string) (*model.Profile, error) {
	var data []byte
	err := s.pool.QueryRow(ctx,
		`SELECT data FROM profiles WHERE domain = $1`, domain,
	).Scan(&data)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, eris.Wrapf(err, "store: get profile %s", domain)
	}

	var profile model.Profile
	if err := json.Unmarshal(data, &profile); err != nil {
		return nil, eris.Wrapf(err, "store: unmarshal profile %s", domain)
	}
	return &profile, nil
}

// Close releases the connection pool.
func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}
