package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/osse101/IdleRealm_Go/internal/config"
	"github.com/osse101/IdleRealm_Go/internal/database"
	"github.com/osse101/IdleRealm_Go/internal/store/sqlite"
)

// setup prepares the configured character store: it creates the postgres
// database when missing (dropping it first with -reset) and applies every
// pending migration. For sqlite it creates the file and migrates it.
func main() {
	reset := flag.Bool("reset", false, "drop and recreate the postgres database before migrating")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	switch cfg.StoreDriver {
	case config.StoreDriverPostgres:
		if err := setupPostgres(ctx, cfg, *reset); err != nil {
			log.Fatalf("Postgres setup failed: %v", err)
		}
	case config.StoreDriverSQLite:
		if err := os.MkdirAll(filepath.Dir(cfg.SQLitePath), 0o755); err != nil {
			log.Fatalf("Failed to create data directory: %v", err)
		}
		st, err := sqlite.Open(ctx, cfg.SQLitePath)
		if err != nil {
			log.Fatalf("SQLite setup failed: %v", err)
		}
		_ = st.Close()
		fmt.Printf("SQLite store ready at %s\n", cfg.SQLitePath)
	default:
		fmt.Printf("Store driver %q needs no setup.\n", cfg.StoreDriver)
	}
}

func setupPostgres(ctx context.Context, cfg *config.Config, reset bool) error {
	// manage databases from the maintenance database
	adminURL, err := url.Parse(cfg.DatabaseURL())
	if err != nil {
		return fmt.Errorf("parse database url: %w", err)
	}
	adminURL.Path = "/postgres"

	conn, err := pgx.Connect(ctx, adminURL.String())
	if err != nil {
		return fmt.Errorf("unable to connect to postgres database: %w", err)
	}
	defer conn.Close(context.Background())

	name := pgx.Identifier{cfg.DBName}.Sanitize()

	if reset {
		fmt.Printf("Terminating connections to %s...\n", cfg.DBName)
		if _, err := conn.Exec(ctx,
			`SELECT pg_terminate_backend(pid) FROM pg_stat_activity WHERE datname = $1 AND pid <> pg_backend_pid()`,
			cfg.DBName); err != nil {
			fmt.Printf("Warning: failed to terminate connections: %v\n", err)
		}
		if _, err := conn.Exec(ctx, "DROP DATABASE IF EXISTS "+name); err != nil {
			return fmt.Errorf("drop database: %w", err)
		}
		fmt.Printf("Database %s dropped.\n", cfg.DBName)
	}

	var exists bool
	if err := conn.QueryRow(ctx, "SELECT EXISTS(SELECT 1 FROM pg_database WHERE datname = $1)", cfg.DBName).Scan(&exists); err != nil {
		return fmt.Errorf("check database: %w", err)
	}
	if exists {
		fmt.Printf("Database %s already exists.\n", cfg.DBName)
	} else {
		if _, err := conn.Exec(ctx, "CREATE DATABASE "+name); err != nil {
			return fmt.Errorf("create database: %w", err)
		}
		fmt.Printf("Database %s created.\n", cfg.DBName)
	}

	pool, err := database.NewPool(ctx, cfg.DatabaseURL(), 2, time.Minute, time.Hour)
	if err != nil {
		return err
	}
	defer pool.Close()

	version, err := database.MigratePool(ctx, pool)
	if err != nil {
		return err
	}
	fmt.Printf("Migrations applied, schema version %d.\n", version)
	return nil
}
