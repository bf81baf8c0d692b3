package store_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osse101/IdleRealm_Go/internal/domain"
	"github.com/osse101/IdleRealm_Go/internal/store"
	"github.com/osse101/IdleRealm_Go/internal/store/storetest"
)

func TestMemoryStore(t *testing.T) {
	storetest.Run(t, func(t *testing.T) store.Store {
		return store.NewMemoryStore()
	})
}

func TestMemoryStore_ReturnsCopies(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemoryStore()
	c := storetest.SampleCharacter("owner-1")
	require.NoError(t, s.Create(ctx, c))

	c.State.Inventory["copper_ore"] = 0
	got, err := s.Get(ctx, "owner-1")
	require.NoError(t, err)
	got.State.Silver = 1

	again, err := s.Get(ctx, "owner-1")
	require.NoError(t, err)
	assert.Equal(t, int64(12), again.State.Inventory.Quantity("copper_ore"))
	assert.Equal(t, int64(340), again.State.Silver)
}

func TestMemoryStore_FailUpserts(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemoryStore()
	s.FailUpserts(errors.New("disk on fire"))

	err := s.Upsert(ctx, storetest.SampleCharacter("owner-1"))
	assert.ErrorIs(t, err, domain.ErrStoreUnavailable)
	assert.Zero(t, s.Upserts())

	s.FailUpserts(nil)
	assert.NoError(t, s.Upsert(ctx, storetest.SampleCharacter("owner-1")))
	assert.Equal(t, 1, s.Upserts())
}

func TestSessionLogWriter_Routes(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemoryStore()
	w := store.NewSessionLogWriter(s)

	require.NoError(t, w.AppendSessionLog(ctx, "char-1", domain.SessionSummary{Kind: domain.TaskCombat, Target: "rat"}))
	require.NoError(t, w.AppendSessionLog(ctx, "char-1", domain.SessionSummary{Kind: domain.TaskDungeon, Target: "crypt"}))
	require.NoError(t, w.AppendSessionLog(ctx, "char-1", domain.SessionSummary{Kind: domain.TaskActivity, Target: "ore"}))

	combat := s.CombatLogs("char-1")
	require.Len(t, combat, 1)
	assert.Equal(t, "rat", combat[0].Target)
	dungeon := s.DungeonLogs("char-1")
	require.Len(t, dungeon, 1)
	assert.Equal(t, "crypt", dungeon[0].Target)
}

func TestRecord_RoundTrip(t *testing.T) {
	c := storetest.SampleCharacter("owner-1")
	rec, err := store.ToRecord(c)
	require.NoError(t, err)

	got, err := rec.Character()
	require.NoError(t, err)
	assert.Equal(t, c.State.Inventory, got.State.Inventory)
	assert.Equal(t, c.Task.Activity.ItemID, got.Task.Activity.ItemID)
	assert.Equal(t, c.SimulatedAt, got.SimulatedAt)
}

func TestRecord_MigratesOldState(t *testing.T) {
	rec := store.Record{
		ID:        "id-1",
		OwnerID:   "owner-1",
		State:     []byte(`{"inventory":{"ore":3,"empty":0},"silver":5}`),
		Task:      []byte(`{"kind":"idle"}`),
		LastSaved: time.Unix(0, 0).UTC(),
	}
	c, err := rec.Character()
	require.NoError(t, err)
	assert.Equal(t, domain.StateVersion, c.State.Version)
	assert.Equal(t, domain.Inventory{"ore": 3}, c.State.Inventory)
	assert.NotNil(t, c.State.Skills)
	assert.NotNil(t, c.State.Equipment)
}

func TestRecord_RejectsFutureState(t *testing.T) {
	rec := store.Record{State: []byte(`{"version":99}`)}
	_, err := rec.Character()
	assert.ErrorIs(t, err, domain.ErrUnsupportedStateShape)
}

func TestRecord_DropsUnreadableTask(t *testing.T) {
	rec := store.Record{
		OwnerID: "owner-1",
		State:   []byte(`{"version":2}`),
		Task:    []byte(`{"kind":"activity","activity":"not an object"}`),
	}
	c, err := rec.Character()
	require.NoError(t, err)
	assert.True(t, c.Task.IsIdle())
}

func TestItemsJSON(t *testing.T) {
	b, err := store.ItemsJSON(nil)
	require.NoError(t, err)
	assert.JSONEq(t, `{}`, string(b))
}
