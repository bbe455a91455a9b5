package main

import (
	"context"

	"github.com/rotisserie/eris"

	"github.com/company-intel/intel-cli/internal/store"
)

// initStore opens the configured persistence backend and applies the
// schema.
func initStore(ctx context.Context) (store.Store, error) {
	st, err := store.Open(ctx, cfg.Store)
	if err != nil {
		return nil, eris.Wrap(err, "init store")
	}
	if err := st.Migrate(ctx); err != nil {
		st.Close()
		return nil, eris.Wrap(err, "migrate store")
	}
	return st, nil
}
