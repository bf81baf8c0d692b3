package store

import (
	"context"
	"sync"

	"github.com/osse101/IdleRealm_Go/internal/domain"
)

// MemoryStore keeps characters in process. Values are cloned on the way in
// and out so callers never share state with the store.
type MemoryStore struct {
	mu          sync.RWMutex
	characters  map[string]*domain.Character
	combatLogs  map[string][]domain.SessionSummary
	dungeonLogs map[string][]domain.SessionSummary
	upsertErr   error
	upserts     int
}

// NewMemoryStore creates a new MemoryStore
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		characters:  make(map[string]*domain.Character),
		combatLogs:  make(map[string][]domain.SessionSummary),
		dungeonLogs: make(map[string][]domain.SessionSummary),
	}
}

// Get returns a copy of the owner's character
func (m *MemoryStore) Get(ctx context.Context, ownerID string) (*domain.Character, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	c, ok := m.characters[ownerID]
	if !ok {
		return nil, domain.ErrCharacterNotFound
	}
	return c.Clone(), nil
}

// Create stores a new character
func (m *MemoryStore) Create(ctx context.Context, c *domain.Character) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.characters[c.OwnerID]; ok {
		return domain.ErrCharacterExists
	}
	m.characters[c.OwnerID] = c.Clone()
	return nil
}

// Upsert replaces the stored character unless the stored copy is newer
func (m *MemoryStore) Upsert(ctx context.Context, c *domain.Character) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.upsertErr != nil {
		return &domain.TransientStoreError{Op: "upsert", Err: m.upsertErr}
	}
	m.upserts++
	if cur, ok := m.characters[c.OwnerID]; ok && cur.UpdatedAt.After(c.UpdatedAt) {
		return nil
	}
	m.characters[c.OwnerID] = c.Clone()
	return nil
}

// AppendCombatLog records a closed fight
func (m *MemoryStore) AppendCombatLog(ctx context.Context, characterID string, s domain.SessionSummary) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.combatLogs[characterID] = append(m.combatLogs[characterID], s)
	return nil
}

// AppendDungeonLog records a closed dungeon run
func (m *MemoryStore) AppendDungeonLog(ctx context.Context, characterID string, s domain.SessionSummary) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.dungeonLogs[characterID] = append(m.dungeonLogs[characterID], s)
	return nil
}

// CombatLogs returns the combat logs recorded for a character
func (m *MemoryStore) CombatLogs(characterID string) []domain.SessionSummary {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]domain.SessionSummary(nil), m.combatLogs[characterID]...)
}

// DungeonLogs returns the dungeon logs recorded for a character
func (m *MemoryStore) DungeonLogs(characterID string) []domain.SessionSummary {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]domain.SessionSummary(nil), m.dungeonLogs[characterID]...)
}

// FailUpserts makes every Upsert fail with err until called with nil
func (m *MemoryStore) FailUpserts(err error) {
	m.mu.Lock()
	m.upsertErr = err
	m.mu.Unlock()
}

// Upserts counts successful Upsert calls
func (m *MemoryStore) Upserts() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.upserts
}

// Ping always succeeds
func (m *MemoryStore) Ping(ctx context.Context) error {
	return ctx.Err()
}

// Close is a no-op
func (m *MemoryStore) Close() error {
	return nil
}
