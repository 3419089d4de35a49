package cmd

import (
	"context"

	"github.com/namelens/namesmith/internal/config"
	"github.com/namelens/namesmith/internal/core/store"
)

// openStore opens and migrates the configured libsql store.
func openStore(ctx context.Context, cfg *config.Config) (*store.Store, error) {
	db, err := store.Open(ctx, cfg.Store)
	if err != nil {
		return nil, err
	}

	if err := db.Migrate(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}

	return db, nil
}

// openConfiguredStore loads config and opens the store.
func openConfiguredStore(ctx context.Context) (*store.Store, error) {
	cfg, err := loadConfig(ctx)
	if err != nil {
		return nil, err
	}
	return openStore(ctx, cfg)
}
