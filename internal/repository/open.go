package repository

import (
	"context"
	"fmt"

	"recap/internal/config"
	"recap/internal/db"

	"github.com/rs/zerolog"
)

// Open builds the store selected by cfg.StoreDriver. Postgres is migrated
// before use; the memory store is optionally seeded with demo rows.
func Open(ctx context.Context, cfg config.Config, log zerolog.Logger) (Store, error) {
	switch cfg.StoreDriver {
	case config.DriverPostgres:
		pool, err := db.NewPool(ctx, cfg.DatabaseURL, db.PoolOptions{
			MaxConns: cfg.DBMaxConns,
			MinConns: cfg.DBMinConns,
		})
		if err != nil {
			return nil, err
		}
		applied, err := db.RunMigrations(ctx, pool)
		if err != nil {
			pool.Close()
			return nil, fmt.Errorf("migrate database: %w", err)
		}
		log.Info().Strs("applied", applied).Msg("postgres store ready")
		return NewPostgres(pool), nil

	case config.DriverSQLite:
		store, err := OpenSQLite(cfg.SQLitePath)
		if err != nil {
			return nil, err
		}
		log.Info().Str("path", cfg.SQLitePath).Msg("sqlite store ready")
		return store, nil

	case config.DriverMemory:
		store := NewMemory()
		if cfg.SeedDemoData {
			if err := SeedDemo(ctx, store); err != nil {
				return nil, err
			}
		}
		log.Warn().Bool("seeded", cfg.SeedDemoData).Msg("memory store in use, data is lost on exit")
		return store, nil
	}
	return nil, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
}
