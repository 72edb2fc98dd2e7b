package commands

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/jakechorley/volunteer-profile/internal/config"
	"github.com/jakechorley/volunteer-profile/pkg/db"
	"github.com/jakechorley/volunteer-profile/pkg/postgres"
	"github.com/jakechorley/volunteer-profile/pkg/sqlite"
)

// openStore connects to Postgres when a database URL is configured and to SQLite otherwise
func openStore(ctx context.Context, cfg config.BackendConfig, logger *zap.Logger) (db.Database, error) {
	if cfg.DatabaseURL != "" {
		logger.Info("Connecting to Postgres")
		store, err := postgres.NewDB(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to postgres: %w", err)
		}
		return store, nil
	}

	path := cfg.SQLitePath
	if path == "" {
		path = sqlite.MemoryPath
		logger.Warn("No database configured, using an in-memory SQLite database")
	}

	logger.Info("Opening SQLite database", zap.String("path", path))
	store, err := sqlite.NewDB(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}
	return store, nil
}

// prepareStore opens the store, applies pending migrations and loads the seed file when one is given
func prepareStore(ctx context.Context, cfg config.BackendConfig, seedPath string, logger *zap.Logger) (db.Database, error) {
	store, err := openStore(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}

	if err := store.RunMigrations(ctx); err != nil {
		store.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	if seedPath == "" {
		return store, nil
	}

	seed, err := db.LoadSeedFromPath(seedPath)
	if err != nil {
		store.Close()
		return nil, err
	}
	if err := db.ApplySeed(ctx, store, seed); err != nil {
		store.Close()
		return nil, err
	}

	logger.Info("Seed applied",
		zap.String("path", seedPath),
		zap.Int("cycles", len(seed.Cycles)),
		zap.Int("volunteers", len(seed.Volunteers)))
	return store, nil
}
