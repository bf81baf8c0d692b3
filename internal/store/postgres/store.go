// Package postgres implements store.Store on PostgreSQL through pgxpool.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/osse101/IdleRealm_Go/internal/domain"
	"github.com/osse101/IdleRealm_Go/internal/logger"
	"github.com/osse101/IdleRealm_Go/internal/store"
)

// Store implements store.Store for PostgreSQL
type Store struct {
	db *pgxpool.Pool
}

// NewStore creates a new Store on an open pool
func NewStore(db *pgxpool.Pool) *Store {
	return &Store{db: db}
}

// SafeRollback rolls back a transaction, ignoring the error when it was
// already committed
func SafeRollback(ctx context.Context, tx pgx.Tx) {
	if err := tx.Rollback(ctx); err != nil && !errors.Is(err, pgx.ErrTxClosed) {
		logger.FromContext(ctx).Error(ErrMsgFailedToRollback, "error", err)
	}
}

const selectCharacter = `
	SELECT character_id, owner_id, name, state, current_activity,
	       activity_started_at, last_saved, created_at, updated_at
	FROM characters
	WHERE owner_id = $1
`

// Get loads the owner's character
func (s *Store) Get(ctx context.Context, ownerID string) (*domain.Character, error) {
	var rec store.Record
	err := s.db.QueryRow(ctx, selectCharacter, ownerID).Scan(
		&rec.ID, &rec.OwnerID, &rec.Name, &rec.State, &rec.Task,
		&rec.ActivityStartedAt, &rec.LastSaved, &rec.CreatedAt, &rec.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrCharacterNotFound
	}
	if err != nil {
		return nil, &domain.TransientStoreError{Op: "get", Err: err}
	}
	return rec.Character()
}

// Create inserts a new character
func (s *Store) Create(ctx context.Context, c *domain.Character) error {
	rec, err := store.ToRecord(c)
	if err != nil {
		return err
	}
	id, err := uuid.Parse(rec.ID)
	if err != nil {
		return fmt.Errorf("%w: character id %q", domain.ErrInvalidInput, rec.ID)
	}
	_, err = s.db.Exec(ctx, `
		INSERT INTO characters (character_id, owner_id, name, state, current_activity,
		                        activity_started_at, last_saved, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`, id, rec.OwnerID, rec.Name, rec.State, rec.Task,
		rec.ActivityStartedAt, rec.LastSaved, rec.CreatedAt, rec.UpdatedAt)
	if isUniqueViolation(err) {
		return domain.ErrCharacterExists
	}
	if err != nil {
		return &domain.TransientStoreError{Op: "create", Err: err}
	}
	return nil
}

// Upsert writes the character in a transaction. The row is locked first so
// a snapshot older than the stored one is dropped instead of overwriting it.
func (s *Store) Upsert(ctx context.Context, c *domain.Character) error {
	rec, err := store.ToRecord(c)
	if err != nil {
		return err
	}
	id, err := uuid.Parse(rec.ID)
	if err != nil {
		return fmt.Errorf("%w: character id %q", domain.ErrInvalidInput, rec.ID)
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return &domain.TransientStoreError{Op: "upsert", Err: fmt.Errorf("%s: %w", ErrMsgFailedToBeginTransaction, err)}
	}
	defer SafeRollback(ctx, tx)

	var storedAt time.Time
	err = tx.QueryRow(ctx, `SELECT updated_at FROM characters WHERE character_id = $1 FOR UPDATE`, id).Scan(&storedAt)
	switch {
	case errors.Is(err, pgx.ErrNoRows):
	case err != nil:
		return &domain.TransientStoreError{Op: "upsert", Err: fmt.Errorf("%s: %w", ErrMsgFailedToLockCharacter, err)}
	case storedAt.After(rec.UpdatedAt):
		return nil
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO characters (character_id, owner_id, name, state, current_activity,
		                        activity_started_at, last_saved, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (character_id) DO UPDATE SET
			name = EXCLUDED.name,
			state = EXCLUDED.state,
			current_activity = EXCLUDED.current_activity,
			activity_started_at = EXCLUDED.activity_started_at,
			last_saved = EXCLUDED.last_saved,
			updated_at = EXCLUDED.updated_at
	`, id, rec.OwnerID, rec.Name, rec.State, rec.Task,
		rec.ActivityStartedAt, rec.LastSaved, rec.CreatedAt, rec.UpdatedAt)
	if err != nil {
		return &domain.TransientStoreError{Op: "upsert", Err: err}
	}

	if err := tx.Commit(ctx); err != nil {
		return &domain.TransientStoreError{Op: "upsert", Err: fmt.Errorf("%s: %w", ErrMsgFailedToCommitTransaction, err)}
	}
	return nil
}

// AppendCombatLog records a closed fight
func (s *Store) AppendCombatLog(ctx context.Context, characterID string, sum domain.SessionSummary) error {
	items, err := store.ItemsJSON(sum.Totals.Items)
	if err != nil {
		return err
	}
	_, err = s.db.Exec(ctx, `
		INSERT INTO combat_logs (log_id, character_id, monster_id, reason, kills, player_damage,
		                         mob_damage, xp, silver, items, duration_ms, ended_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`, uuid.New(), characterID, sum.Target, sum.Reason, sum.Kills, sum.PlayerDamage,
		sum.MobDamage, sum.Totals.XP, sum.Totals.Silver, items, sum.Duration.Milliseconds(), sum.EndedAt)
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
	_, err = s.db.Exec(ctx, `
		INSERT INTO dungeon_logs (log_id, character_id, dungeon_id, reason, waves, kills,
		                          xp, silver, items, duration_ms, ended_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`, uuid.New(), characterID, sum.Target, sum.Reason, sum.Waves, sum.Kills,
		sum.Totals.XP, sum.Totals.Silver, items, sum.Duration.Milliseconds(), sum.EndedAt)
	if err != nil {
		return &domain.TransientStoreError{Op: "append dungeon log", Err: err}
	}
	return nil
}

// Ping checks the pool
func (s *Store) Ping(ctx context.Context) error {
	return s.db.Ping(ctx)
}

// Close closes the pool
func (s *Store) Close() error {
	s.db.Close()
	return nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == PgErrorCodeUniqueViolation
}
