package database

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

//go:embed migrations/postgres/*.sql migrations/sqlite/*.sql
var migrationFS embed.FS

// Migrate applies every pending embedded migration for the dialect and
// returns the resulting schema version.
func Migrate(ctx context.Context, db *sql.DB, dialect string) (int64, error) {
	var gooseDialect goose.Dialect
	switch dialect {
	case DialectPostgres:
		gooseDialect = goose.DialectPostgres
	case DialectSQLite:
		gooseDialect = goose.DialectSQLite3
	default:
		return 0, fmt.Errorf("%s: %q", ErrMsgUnsupportedDialect, dialect)
	}

	dir, err := fs.Sub(migrationFS, "migrations/"+dialect)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", ErrMsgFailedToLoadMigrations, err)
	}
	provider, err := goose.NewProvider(gooseDialect, db, dir)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", ErrMsgFailedToLoadMigrations, err)
	}

	results, err := provider.Up(ctx)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", ErrMsgFailedToApplyMigrations, err)
	}
	for _, r := range results {
		slog.Default().Info(LogMsgMigrationApplied,
			"dialect", dialect,
			"version", r.Source.Version,
			"duration", r.Duration)
	}

	version, err := provider.GetDBVersion(ctx)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", ErrMsgFailedToReadSchemaVersion, err)
	}
	if len(results) == 0 {
		slog.Default().Info(LogMsgMigrationsUpToDate, "dialect", dialect, "version", version)
	}
	return version, nil
}

// MigratePool runs the postgres migrations through a database/sql handle
// borrowed from the pool.
func MigratePool(ctx context.Context, pool *pgxpool.Pool) (int64, error) {
	db := stdlib.OpenDBFromPool(pool)
	defer db.Close()
	return Migrate(ctx, db, DialectPostgres)
}
