// Package store persists pipeline runs and accepted profiles. Two
// backends implement the same interface: SQLite for single-machine use
// and Postgres for shared deployments.
package store

import (
	"context"

	"github.com/rotisserie/eris"

	"github.com/company-intel/intel-cli/internal/config"
	"github.com/company-intel/intel-cli/internal/model"
)

// RunFilter specifies criteria for listing runs.
type RunFilter struct {
	Status model.RunStatus `json:"status,omitempty"`
	Limit  int             `json:"limit,omitempty"`
}

// Store defines the persistence interface for the enrichment pipeline.
type Store interface {
	// Runs
	CreateRun(ctx context.Context, dumpsDir string) (*model.Run, error)
	CompleteRun(ctx context.Context, runID string, status model.RunStatus, accepted, failed int) error
	ListRuns(ctx context.Context, filter RunFilter) ([]model.Run, error)

	// Profiles
	SaveProfiles(ctx context.Context, runID string, profiles []model.Profile) error
	GetProfile(ctx context.Context, domain string) (*model.Profile, error)

	// Lifecycle
	Migrate(ctx context.Context) error
	Close() error
}

// Open creates a Store for the configured driver.
func Open(ctx context.Context, cfg config.StoreConfig) (Store, error) {
	switch cfg.Driver {
	case "sqlite", "":
		return NewSQLite(cfg.DatabaseURL)
	case "postgres":
		return NewPostgres(ctx, cfg.DatabaseURL)
	default:
		return nil, eris.Errorf("store: unknown driver %q", cfg.Driver)
	}
}
