// Package storetest holds the behaviour every store.Store must share.
package storetest

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osse101/IdleRealm_Go/internal/domain"
	"github.com/osse101/IdleRealm_Go/internal/store"
)

// Factory returns an empty, migrated store for one subtest
type Factory func(t *testing.T) store.Store

var base = time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC)

// SampleCharacter builds a character with every part of the state populated
func SampleCharacter(ownerID string) *domain.Character {
	c := domain.NewCharacter(ownerID, "Sample", base)
	c.State.Inventory["copper_ore"] = 12
	c.State.Silver = 340
	c.State.Skills[domain.SkillMining] = domain.Skill{Level: 3, XP: 250}
	c.State.Equipment[domain.SlotWeapon] = domain.ItemSnapshot{
		ID: "copper_sword_q2", BaseID: "copper_sword", Name: "Copper Sword", Type: domain.ItemTypeEquipment,
		Tier: 1, Slot: domain.SlotWeapon, Quality: domain.QualityGood, Stats: domain.Stats{Damage: 5.5},
	}
	c.State.AddClaim(domain.ClaimSourceLoot, map[string]int64{"bone": 2}, 0, base)
	c.State.Notify(domain.NotifySystem, "welcome", base)
	c.State.RecordPayment("ref-1")
	c.SetTask(domain.ActivityTask(&domain.Activity{
		Type:             domain.ActionGathering,
		ItemID:           "copper_ore",
		Skill:            domain.SkillMining,
		ActionsRemaining: 10,
		Duration:         3 * time.Second,
		NextActionAt:     base.Add(3 * time.Second),
		StartedAt:        base,
	}), base)
	return c
}

// Run exercises the store contract
func Run(t *testing.T, newStore Factory) {
	ctx := context.Background()

	t.Run("get missing", func(t *testing.T) {
		s := newStore(t)
		_, err := s.Get(ctx, "nobody")
		assert.ErrorIs(t, err, domain.ErrCharacterNotFound)
	})

	t.Run("create and get", func(t *testing.T) {
		s := newStore(t)
		want := SampleCharacter("owner-a")
		require.NoError(t, s.Create(ctx, want))

		got, err := s.Get(ctx, "owner-a")
		require.NoError(t, err)
		assert.Equal(t, want.ID, got.ID)
		assert.Equal(t, want.Name, got.Name)
		assert.Equal(t, want.State.Inventory, got.State.Inventory)
		assert.Equal(t, want.State.Skills, got.State.Skills)
		assert.Equal(t, want.State.Equipment, got.State.Equipment)
		assert.Equal(t, want.State.Payments, got.State.Payments)
		assert.Len(t, got.State.Claims, 1)
		assert.Len(t, got.State.Notifications, 1)
		assert.Equal(t, domain.StateVersion, got.State.Version)
		assert.WithinDuration(t, want.SimulatedAt, got.SimulatedAt, time.Millisecond)
		require.NotNil(t, got.ActivityStartedAt)
		assert.WithinDuration(t, *want.ActivityStartedAt, *got.ActivityStartedAt, time.Millisecond)

		require.Equal(t, domain.TaskActivity, got.Task.Kind)
		require.NotNil(t, got.Task.Activity)
		assert.Equal(t, 10, got.Task.Activity.ActionsRemaining)
		assert.Equal(t, 3*time.Second, got.Task.Activity.Duration)
		assert.True(t, want.Task.Activity.NextActionAt.Equal(got.Task.Activity.NextActionAt))
		assert.NoError(t, got.Task.Validate())
	})

	t.Run("create twice", func(t *testing.T) {
		s := newStore(t)
		require.NoError(t, s.Create(ctx, SampleCharacter("owner-b")))
		err := s.Create(ctx, SampleCharacter("owner-b"))
		assert.ErrorIs(t, err, domain.ErrCharacterExists)
	})

	t.Run("upsert replaces", func(t *testing.T) {
		s := newStore(t)
		c := SampleCharacter("owner-c")
		require.NoError(t, s.Create(ctx, c))

		c.State.Silver = 999
		c.ClearTask()
		c.SimulatedAt = base.Add(time.Hour)
		c.UpdatedAt = base.Add(time.Hour)
		require.NoError(t, s.Upsert(ctx, c))

		got, err := s.Get(ctx, "owner-c")
		require.NoError(t, err)
		assert.Equal(t, int64(999), got.State.Silver)
		assert.True(t, got.Task.IsIdle())
		assert.Nil(t, got.ActivityStartedAt)
		assert.WithinDuration(t, base.Add(time.Hour), got.SimulatedAt, time.Millisecond)
	})

	t.Run("upsert ignores older snapshot", func(t *testing.T) {
		s := newStore(t)
		c := SampleCharacter("owner-d")
		c.UpdatedAt = base.Add(time.Hour)
		c.State.Silver = 10
		require.NoError(t, s.Create(ctx, c))

		stale := c.Clone()
		stale.UpdatedAt = base
		stale.State.Silver = 1
		require.NoError(t, s.Upsert(ctx, stale))

		got, err := s.Get(ctx, "owner-d")
		require.NoError(t, err)
		assert.Equal(t, int64(10), got.State.Silver)
	})

	t.Run("upsert inserts", func(t *testing.T) {
		s := newStore(t)
		require.NoError(t, s.Upsert(ctx, SampleCharacter("owner-e")))
		_, err := s.Get(ctx, "owner-e")
		assert.NoError(t, err)
	})

	t.Run("session logs", func(t *testing.T) {
		s := newStore(t)
		c := SampleCharacter("owner-f")
		require.NoError(t, s.Create(ctx, c))

		w := store.NewSessionLogWriter(s)
		assert.NoError(t, w.AppendSessionLog(ctx, c.ID, domain.SessionSummary{
			Kind: domain.TaskCombat, Target: "rat", Reason: domain.ReasonFled, Kills: 4,
			Totals:   domain.SessionTotals{Steps: 4, XP: 40, Silver: 8, Items: map[string]int64{"bone": 1}},
			Duration: time.Minute, EndedAt: base.Add(time.Minute),
		}))
		assert.NoError(t, w.AppendSessionLog(ctx, c.ID, domain.SessionSummary{
			Kind: domain.TaskDungeon, Target: "crypt", Reason: domain.ReasonCompleted, Waves: 3,
			Duration: 5 * time.Minute, EndedAt: base.Add(5 * time.Minute),
		}))
		assert.NoError(t, w.AppendSessionLog(ctx, c.ID, domain.SessionSummary{
			Kind: domain.TaskActivity, Target: "copper_ore", Reason: domain.ReasonStopped,
		}))
	})

	t.Run("ping", func(t *testing.T) {
		s := newStore(t)
		assert.NoError(t, s.Ping(ctx))
	})
}
