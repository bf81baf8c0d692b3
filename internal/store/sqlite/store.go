// Package sqlite implements store.Store on an embedded SQLite file.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	msqlite "modernc.org/sqlite"
	sqlite3lib "modernc.org/sqlite/lib"

	"github.com/osse101/IdleRealm_Go/internal/database"
	"github.com/osse101/IdleRealm_Go/internal/domain"
	"github.com/osse101/IdleRealm_Go/internal/logger"
	"github.com/osse101/IdleRealm_Go/internal/store"
)

const dsnPragmas = "?_pragma=journal_mode(WAL)&_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)&_pragma=synchronous(NORMAL)"

// Store persists characters in SQLite
type Store struct {
	sqlDB *sql.DB
}

// Open opens the database file, creating its directory, and applies migrations
func Open(ctx context.Context, path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	cleanPath := filepath.Clean(path)
	if dir := filepath.Dir(cleanPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create storage dir: %w", err)
		}
	}
	sqlDB, err := sql.Open("sqlite", cleanPath+dsnPragmas)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	// one writer avoids SQLITE_BUSY between flush workers
	sqlDB.SetMaxOpenConns(1)
	if err := sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if _, err := database.Migrate(ctx, sqlDB, database.DialectSQLite); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return &Store{sqlDB: sqlDB}, nil
}

func toNanos(t time.Time) int64 {
	return t.UTC().UnixNano()
}

func fromNanos(v int64) time.Time {
	return time.Unix(0, v).UTC()
}

// Get loads the owner's character
func (s *Store) Get(ctx context.Context, ownerID string) (*domain.Character, error) {
	var (
		rec                           store.Record
		started                       sql.NullInt64
		lastSaved, created, updatedAt int64
		state, task                   string
	)
	err := s.sqlDB.QueryRowContext(ctx, `
		SELECT character_id, owner_id, name, state, current_activity,
		       activity_started_at, last_saved, created_at, updated_at
		FROM characters
		WHERE owner_id = ?
	`, ownerID).Scan(&rec.ID, &rec.OwnerID, &rec.Name, &state, &task, &started, &lastSaved, &created, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrCharacterNotFound
	}
	if err != nil {
		return nil, &domain.TransientStoreError{Op: "get", Err: err}
	}
	rec.State = []byte(state)
	rec.Task = []byte(task)
	if started.Valid {
		t := fromNanos(started.Int64)
		rec.ActivityStartedAt = &t
	}
	rec.LastSaved = fromNanos(lastSaved)
	rec.CreatedAt = fromNanos(created)
	rec.UpdatedAt = fromNanos(updatedAt)
	return rec.Character()
}

// Create inserts a new character
func (s *Store) Create(ctx context.Context, c *domain.Character) error {
	rec, err := store.ToRecord(c)
	if err != nil {
		return err
	}
	_, err = s.sqlDB.ExecContext(ctx, `
		INSERT INTO characters (character_id, owner_id, name, state, current_activity,
		                        activity_started_at, last_saved, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, recordArgs(rec)...)
	if isConstraintViolation(err) {
		return domain.ErrCharacterExists
	}
	if err != nil {
		return &domain.TransientStoreError{Op: "create", Err: err}
	}
	return nil
}

// Upsert writes the character unless the stored row is newer
func (s *Store) Upsert(ctx context.Context, c *domain.Character) error {
	rec, err := store.ToRecord(c)
	if err != nil {
		return err
	}
	tx, err := s.sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return &domain.TransientStoreError{Op: "upsert", Err: err}
	}
	defer safeRollback(ctx, tx)

	var storedAt int64
	err = tx.QueryRowContext(ctx, `SELECT updated_at FROM characters WHERE character_id = ?`, rec.ID).Scan(&storedAt)
	switch {
	case errors.Is(err, sql.ErrNoRows):
	case err != nil:
		return &domain.TransientStoreError{Op: "upsert", Err: err}
	case storedAt > toNanos(rec.UpdatedAt):
		return nil
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO characters (character_id, owner_id, name, state, current_activity,
		                        activity_started_at, last_saved, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (character_id) DO UPDATE SET
			name = excluded.name,
			state = excluded.state,
			current_activity = excluded.current_activity,
			activity_started_at = excluded.activity_started_at,
			last_saved = excluded.last_saved,
			updated_at = excluded.updated_at
	`, recordArgs(rec)...)
	if err != nil {
		return &domain.TransientStoreError{Op: "upsert", Err: err}
	}
	if err := tx.Commit(); err != nil {
		return &domain.TransientStoreError{Op: "upsert", Err: err}
	}
	return nil
}

// AppendCombatLog records a closed fight
func (s *Store) AppendCombatLog(ctx context.Context, characterID string, sum domain.SessionSummary) error {
	items, err := store.ItemsJSON(sum.Totals.Items)
	if err != nil {
		return err
	}
	_, err = s.sqlDB.ExecContext(ctx, `
		INSERT INTO combat_logs (log_id, character_id, monster_id, reason, kills, player_damage,
		                         mob_damage, xp, silver, items, duration_ms, ended_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, uuid.NewString(), characterID, sum.Target, sum.Reason, sum.Kills, sum.PlayerDamage,
		sum.MobDamage, sum.Totals.XP, sum.Totals.Silver, string(items), sum.Duration.Milliseconds(), toNanos(sum.EndedAt))
	if err != nil {
		return &domain.TransientStoreError{Op: "append combat log", Err: err}
	}
	return nil
}

// AppendDungeonLog records a closed dungeon run
func (s *Store) AppendDungeonLog(ctx context.Context, characterID string, sum domain.SessionSummary) error {
	items, err := store.ItemsJSON(sum.Totals.Items)
	if err != nil {
		return err
	}
	_, err = s.sqlDB.ExecContext(ctx, `
		INSERT INTO dungeon_logs (log_id, character_id, dungeon_id, reason, waves, kills,
		                          xp, silver, items, duration_ms, ended_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, uuid.NewString(), characterID, sum.Target, sum.Reason, sum.Waves, sum.Kills,
		sum.Totals.XP, sum.Totals.Silver, string(items), sum.Duration.Milliseconds(), toNanos(sum.EndedAt))
	if err != nil {
		return &domain.TransientStoreError{Op: "append dungeon log", Err: err}
	}
	return nil
}

// Ping checks the handle
func (s *Store) Ping(ctx context.Context) error {
	return s.sqlDB.PingContext(ctx)
}

// Close closes the SQLite handle
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

func recordArgs(rec store.Record) []any {
	var started sql.NullInt64
	if rec.ActivityStartedAt != nil {
		started = sql.NullInt64{Int64: toNanos(*rec.ActivityStartedAt), Valid: true}
	}
	return []any{
		rec.ID, rec.OwnerID, rec.Name, string(rec.State), string(rec.Task),
		started, toNanos(rec.LastSaved), toNanos(rec.CreatedAt), toNanos(rec.UpdatedAt),
	}
}

func safeRollback(ctx context.Context, tx *sql.Tx) {
	if err := tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
		logger.FromContext(ctx).Error("Failed to rollback transaction", "error", err)
	}
}

func isConstraintViolation(err error) bool {
	if err == nil {
		return false
	}
	var sqliteErr *msqlite.Error
	if errors.As(err, &sqliteErr) {
		switch sqliteErr.Code() {
		case sqlite3lib.SQLITE_CONSTRAINT_PRIMARYKEY, sqlite3lib.SQLITE_CONSTRAINT_UNIQUE:
			return true
		}
	}
	return strings.Contains(strings.ToLower(err.Error()), "unique constraint failed")
}
