package bootstrap

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/osse101/IdleRealm_Go/internal/config"
	"github.com/osse101/IdleRealm_Go/internal/database"
	"github.com/osse101/IdleRealm_Go/internal/store"
	"github.com/osse101/IdleRealm_Go/internal/store/postgres"
	"github.com/osse101/IdleRealm_Go/internal/store/sqlite"
)

// OpenStore opens the configured character store and brings its schema up
// to date. The caller must close the returned store.
func OpenStore(ctx context.Context, cfg *config.Config) (store.Store, error) {
	switch cfg.StoreDriver {
	case config.StoreDriverMemory:
		slog.Warn(LogMsgMemoryStoreVolatile)
		return store.NewMemoryStore(), nil

	case config.StoreDriverSQLite:
		s, err := sqlite.Open(ctx, cfg.SQLitePath)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", ErrMsgFailedOpenSQLite, err)
		}
		slog.Info(LogMsgStoreOpened, "driver", cfg.StoreDriver, "path", cfg.SQLitePath)
		return s, nil

	case config.StoreDriverPostgres:
		pool, err := database.NewPool(ctx, cfg.DatabaseURL(), cfg.DBMaxConns, cfg.DBMaxConnIdleTime, cfg.DBMaxConnLifetime)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", ErrMsgFailedConnectDB, err)
		}
		version, err := database.MigratePool(ctx, pool)
		if err != nil {
			pool.Close()
			return nil, fmt.Errorf("%s: %w", ErrMsgFailedMigrate, err)
		}
		slog.Info(LogMsgPostgresSchemaReady, "version", version)
		slog.Info(LogMsgStoreOpened, "driver", cfg.StoreDriver, "host", cfg.DBHost, "database", cfg.DBName)
		return postgres.NewStore(pool), nil
	}
	return nil, fmt.Errorf("%s: %q", ErrMsgUnsupportedStoreType, cfg.StoreDriver)
}
