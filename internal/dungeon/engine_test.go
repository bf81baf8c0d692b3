package dungeon

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osse101/IdleRealm_Go/internal/catalog"
	"github.com/osse101/IdleRealm_Go/internal/combat"
	"github.com/osse101/IdleRealm_Go/internal/domain"
	"github.com/osse101/IdleRealm_Go/internal/progression"
)

var testStart = time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

const walk = 60 * time.Second

func testCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	items := []*catalog.Item{
		{ID: "pit_key", Name: "Pit Key", Type: domain.ItemTypeDungeonKey, Tier: 1},
		{ID: "pit_crest", Name: "Pit Crest", Type: domain.ItemTypeCrest, Tier: 1},
		{ID: "bone", Name: "Bone", Type: domain.ItemTypeResource, Tier: 1},
	}
	monsters := []*catalog.Monster{
		{ID: "imp", Name: "Imp", Tier: 1, Health: 1, Damage: 0, AttackIntervalMs: 2000, XP: 2},
		{ID: "ogre", Name: "Ogre", Tier: 1, Health: 10_000, Damage: 500, AttackIntervalMs: 2000, XP: 2},
		{ID: "wall", Name: "Wall", Tier: 1, Health: 1_000_000, Damage: 0, AttackIntervalMs: 2000, XP: 1},
	}
	dungeons := []*catalog.Dungeon{
		{ID: "pit", Name: "Pit", Tier: 1, Waves: 3, TrashMonsters: []string{"imp"}, Boss: "imp", BossMultiplier: 2,
			EntryItem: "pit_key", WalkSeconds: 60, TimeBudgetHours: 12,
			Rewards: catalog.DungeonRewards{XP: 50, Silver: 10,
				Resources: map[string]int64{"bone": 2}, Crests: map[string]int64{"pit_crest": 1}}},
		{ID: "lair", Name: "Lair", Tier: 1, Waves: 2, TrashMonsters: []string{"ogre"}, Boss: "ogre",
			EntryItem: "pit_key", WalkSeconds: 60, TimeBudgetHours: 12},
		{ID: "maze", Name: "Maze", Tier: 1, Waves: 2, TrashMonsters: []string{"wall"}, Boss: "wall",
			EntryItem: "pit_key", WalkSeconds: 60, TimeBudgetHours: 0.01},
		{ID: "deep", Name: "Deep", Tier: 2, Waves: 1, Boss: "imp", EntryItem: "pit_key"},
	}
	cat, err := catalog.New(items, monsters, dungeons)
	require.NoError(t, err)
	return cat
}

func newTestEngine(t *testing.T) *Engine {
	t.Helper()
	cat := testCatalog(t)
	ledger := progression.NewLedger(0)
	fights := combat.NewEngine(cat, ledger, rand.New(rand.NewSource(3)))
	return NewEngine(cat, ledger, fights)
}

func newCharacter(keys int64) *domain.Character {
	c := domain.NewCharacter("owner-1", "Tester", testStart)
	if keys > 0 {
		c.State.Inventory["pit_key"] = keys
	}
	return c
}

// runUntilIdle steps at each due time until the task ends
func runUntilIdle(t *testing.T, e *Engine, c *domain.Character, maxSteps int) ([]domain.ActionResult, time.Time) {
	t.Helper()
	var results []domain.ActionResult
	var at time.Time
	for i := 0; i < maxSteps && !c.Task.IsIdle(); i++ {
		due, ok := c.Task.DueAt()
		require.True(t, ok)
		at = due
		res, err := e.Step(c, at)
		require.NoError(t, err)
		results = append(results, res)
	}
	require.True(t, c.Task.IsIdle(), "run did not finish within %d steps", maxSteps)
	return results, at
}

func TestRun_WalkingDelayPacesInstantKills(t *testing.T) {
	e := newTestEngine(t)
	c := newCharacter(1)

	_, err := e.Start(c, "pit", 0, testStart)
	require.NoError(t, err)
	assert.Zero(t, c.State.Inventory.Quantity("pit_key"), "entry item consumed")

	results, finishedAt := runUntilIdle(t, e, c, 50)
	assert.GreaterOrEqual(t, finishedAt.Sub(testStart), 2*walk)

	last := results[len(results)-1]
	assert.True(t, last.Finished)
	require.NotNil(t, last.DungeonUpdate)
	assert.Equal(t, domain.DungeonCompleted, last.DungeonUpdate.Phase)
	require.Len(t, last.Summaries, 1)
	assert.Equal(t, domain.ReasonCompleted, last.Summaries[0].Reason)
	assert.Equal(t, 3, last.Summaries[0].Kills)

	assert.Equal(t, int64(2), c.State.Inventory.Quantity("bone"))
	assert.Equal(t, int64(1), c.State.Inventory.Quantity("pit_crest"))
	assert.Equal(t, int64(10), c.State.Silver)
	// kills 2 + 2 + 5, run reward 50
	assert.Equal(t, int64(59), c.State.SkillOf(domain.SkillCombat).XP)
}

func TestRun_PhaseSequence(t *testing.T) {
	e := newTestEngine(t)
	c := newCharacter(1)
	_, err := e.Start(c, "pit", 0, testStart)
	require.NoError(t, err)

	results, _ := runUntilIdle(t, e, c, 50)
	var phases []domain.DungeonPhase
	for _, r := range results {
		require.NotNil(t, r.DungeonUpdate)
		phases = append(phases, r.DungeonUpdate.Phase)
	}
	assert.Equal(t, []domain.DungeonPhase{
		domain.DungeonFighting, domain.DungeonWalking,
		domain.DungeonWaitingNextWave, domain.DungeonFighting, domain.DungeonWalking,
		domain.DungeonWaitingNextWave, domain.DungeonBossFight, domain.DungeonCompleted,
	}, phases)
}

func TestRun_BossIsScaled(t *testing.T) {
	e := newTestEngine(t)
	c := newCharacter(1)
	run, err := e.Start(c, "maze", 0, testStart)
	require.NoError(t, err)

	_, err = e.Step(c, testStart)
	require.NoError(t, err)
	require.NotNil(t, run.Combat)
	assert.Equal(t, 1.0, run.Combat.MobScale)
	assert.False(t, run.Combat.Respawn)

	// skip to the boss wave
	run.Combat = nil
	run.Phase = domain.DungeonWaitingNextWave
	run.Wave = 2
	_, err = e.Step(c, testStart.Add(time.Second))
	require.NoError(t, err)
	assert.Equal(t, domain.DungeonBossFight, run.Phase)
	assert.InDelta(t, 1.1*catalog.DefaultBossMultiplier, run.Combat.MobScale, 1e-9)
}

func TestRun_Repeats(t *testing.T) {
	e := newTestEngine(t)
	c := newCharacter(2)
	_, err := e.Start(c, "pit", 3, testStart)
	require.NoError(t, err)

	results, _ := runUntilIdle(t, e, c, 100)

	var completed, repeating int
	for _, r := range results {
		for _, s := range r.Summaries {
			if s.Reason == domain.ReasonCompleted {
				completed++
			}
		}
		if r.DungeonUpdate != nil && r.DungeonUpdate.Repeating {
			repeating++
		}
	}
	assert.Equal(t, 2, completed, "stops when entry items run out")
	assert.Equal(t, 1, repeating)
	assert.Zero(t, c.State.Inventory.Quantity("pit_key"))
	assert.Equal(t, int64(2), c.State.Inventory.Quantity("pit_crest"))
}

func TestRun_DefeatFails(t *testing.T) {
	e := newTestEngine(t)
	c := newCharacter(1)
	_, err := e.Start(c, "lair", 0, testStart)
	require.NoError(t, err)

	results, _ := runUntilIdle(t, e, c, 10)
	last := results[len(results)-1]
	assert.False(t, last.Success)
	assert.Equal(t, domain.DungeonFailed, last.DungeonUpdate.Phase)
	require.Len(t, last.Summaries, 1)
	assert.Equal(t, domain.ReasonDefeated, last.Summaries[0].Reason)
	assert.Nil(t, c.Task.Dungeon)
	assert.Nil(t, c.Task.Combat)
}

func TestRun_TimeBudgetFails(t *testing.T) {
	e := newTestEngine(t)
	c := newCharacter(1)
	_, err := e.Start(c, "maze", 0, testStart)
	require.NoError(t, err)

	results, finishedAt := runUntilIdle(t, e, c, 100)
	last := results[len(results)-1]
	assert.Equal(t, domain.DungeonFailed, last.DungeonUpdate.Phase)
	assert.Equal(t, domain.ReasonTimeout, last.Summaries[0].Reason)
	assert.GreaterOrEqual(t, finishedAt.Sub(testStart), 36*time.Second)
}

func TestStart_Rejections(t *testing.T) {
	e := newTestEngine(t)

	tests := []struct {
		name    string
		keys    int64
		id      string
		repeats int
		wantErr error
	}{
		{"no key", 0, "pit", 0, domain.ErrMissingEntryItem},
		{"negative repeats", 1, "pit", -1, domain.ErrInvalidRepeatCount},
		{"too many repeats", 1, "pit", MaxRepeats + 1, domain.ErrInvalidRepeatCount},
		{"unknown dungeon", 1, "abyss", 0, domain.ErrDungeonNotFound},
		{"level too low", 1, "deep", 0, domain.ErrInsufficientLevel},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newCharacter(tt.keys)
			_, err := e.Start(c, tt.id, tt.repeats, testStart)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.True(t, c.Task.IsIdle())
			assert.Equal(t, tt.keys, c.State.Inventory.Quantity("pit_key"), "no key consumed on rejection")
		})
	}

	t.Run("already busy", func(t *testing.T) {
		c := newCharacter(2)
		_, err := e.Start(c, "pit", 0, testStart)
		require.NoError(t, err)
		_, err = e.Start(c, "pit", 0, testStart)
		assert.ErrorIs(t, err, domain.ErrAlreadyBusy)
		assert.Equal(t, int64(1), c.State.Inventory.Quantity("pit_key"))
	})
}

func TestAbandon(t *testing.T) {
	e := newTestEngine(t)
	c := newCharacter(1)

	_, err := e.Abandon(c, testStart)
	assert.ErrorIs(t, err, domain.ErrNotBusy)

	_, err = e.Start(c, "maze", 0, testStart)
	require.NoError(t, err)
	_, err = e.Step(c, testStart)
	require.NoError(t, err)

	summary, err := e.Abandon(c, testStart.Add(5*time.Second))
	require.NoError(t, err)
	assert.Equal(t, domain.ReasonAbandoned, summary.Reason)
	assert.Equal(t, 1, summary.Waves)
	assert.True(t, c.Task.IsIdle())
	assert.Zero(t, c.State.Inventory.Quantity("pit_key"), "entry item is not refunded")
}

func TestStep_CorruptRunIsCleared(t *testing.T) {
	e := newTestEngine(t)
	c := newCharacter(1)
	run, err := e.Start(c, "pit", 0, testStart)
	require.NoError(t, err)
	run.Wave = 9

	res, err := e.Step(c, testStart)
	assert.ErrorIs(t, err, domain.ErrInvariantViolation)
	assert.True(t, res.Finished)
	assert.True(t, c.Task.IsIdle())
}
