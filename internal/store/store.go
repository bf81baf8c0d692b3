// Package store defines the character persistence contract and an in-memory
// implementation. SQL implementations live in the postgres and sqlite
// subpackages.
package store

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/osse101/IdleRealm_Go/internal/domain"
)

// CharacterStore loads and saves whole characters keyed by owner.
type CharacterStore interface {
	// Get returns domain.ErrCharacterNotFound when the owner has no character
	Get(ctx context.Context, ownerID string) (*domain.Character, error)
	// Create returns domain.ErrCharacterExists when the owner already has one
	Create(ctx context.Context, c *domain.Character) error
	// Upsert writes the character, ignoring snapshots older than the stored row
	Upsert(ctx context.Context, c *domain.Character) error
}

// LogStore appends closed combat and dungeon sessions.
type LogStore interface {
	AppendCombatLog(ctx context.Context, characterID string, s domain.SessionSummary) error
	AppendDungeonLog(ctx context.Context, characterID string, s domain.SessionSummary) error
}

// Store is everything the game needs from a backend.
type Store interface {
	CharacterStore
	LogStore
	Ping(ctx context.Context) error
	Close() error
}

// SessionLogWriter routes closed sessions to the matching log table.
// Activity sessions are only kept as notifications.
type SessionLogWriter struct {
	logs LogStore
}

// NewSessionLogWriter creates a new SessionLogWriter
func NewSessionLogWriter(logs LogStore) *SessionLogWriter {
	return &SessionLogWriter{logs: logs}
}

// AppendSessionLog writes s to the combat or dungeon log
func (w *SessionLogWriter) AppendSessionLog(ctx context.Context, characterID string, s domain.SessionSummary) error {
	switch s.Kind {
	case domain.TaskCombat:
		return w.logs.AppendCombatLog(ctx, characterID, s)
	case domain.TaskDungeon:
		return w.logs.AppendDungeonLog(ctx, characterID, s)
	}
	return nil
}

// Record is the column form of a character shared by the SQL stores.
type Record struct {
	ID                string
	OwnerID           string
	Name              string
	State             []byte
	Task              []byte
	ActivityStartedAt *time.Time
	LastSaved         time.Time
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// ToRecord encodes the JSON columns of c
func ToRecord(c *domain.Character) (Record, error) {
	state, err := json.Marshal(c.State)
	if err != nil {
		return Record{}, fmt.Errorf("%s: %w", ErrMsgEncodeState, err)
	}
	task, err := json.Marshal(c.Task)
	if err != nil {
		return Record{}, fmt.Errorf("%s: %w", ErrMsgEncodeTask, err)
	}
	return Record{
		ID:                c.ID,
		OwnerID:           c.OwnerID,
		Name:              c.Name,
		State:             state,
		Task:              task,
		ActivityStartedAt: c.ActivityStartedAt,
		LastSaved:         c.SimulatedAt,
		CreatedAt:         c.CreatedAt,
		UpdatedAt:         c.UpdatedAt,
	}, nil
}

// Character decodes the record and upgrades older state documents.
// A task that no longer decodes is dropped so the character stays loadable.
func (r Record) Character() (*domain.Character, error) {
	c := &domain.Character{
		ID:                r.ID,
		OwnerID:           r.OwnerID,
		Name:              r.Name,
		ActivityStartedAt: r.ActivityStartedAt,
		SimulatedAt:       r.LastSaved,
		CreatedAt:         r.CreatedAt,
		UpdatedAt:         r.UpdatedAt,
	}
	if err := json.Unmarshal(r.State, &c.State); err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgDecodeState, err)
	}
	if err := domain.MigrateState(&c.State); err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgMigrateState, err)
	}
	if len(r.Task) == 0 {
		c.ClearTask()
		return c, nil
	}
	if err := json.Unmarshal(r.Task, &c.Task); err != nil {
		slog.Default().Warn(LogMsgTaskDroppedOnLoad, "owner_id", r.OwnerID, "error", err)
		c.ClearTask()
	}
	return c, nil
}

// ItemsJSON encodes a log's item totals, never returning null
func ItemsJSON(items map[string]int64) ([]byte, error) {
	if items == nil {
		items = map[string]int64{}
	}
	b, err := json.Marshal(items)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgEncodeItems, err)
	}
	return b, nil
}
