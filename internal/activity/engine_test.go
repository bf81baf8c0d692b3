package activity

import (
	"errors"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osse101/IdleRealm_Go/internal/catalog"
	"github.com/osse101/IdleRealm_Go/internal/domain"
	"github.com/osse101/IdleRealm_Go/internal/progression"
)

var testStart = time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

func newTestEngine(t *testing.T, inventoryCap int) *Engine {
	t.Helper()
	cat, err := catalog.LoadDefault()
	require.NoError(t, err)
	return NewEngine(cat, progression.NewLedger(inventoryCap), rand.New(rand.NewSource(1)))
}

func newCharacter() *domain.Character {
	return domain.NewCharacter("owner-1", "Tester", testStart)
}

func TestStart_GatheringFiveThenSteps(t *testing.T) {
	e := newTestEngine(t, 0)
	c := newCharacter()

	timing, err := e.Start(c, StartRequest{Type: domain.ActionGathering, ItemID: "copper_ore", Quantity: 5}, testStart)
	require.NoError(t, err)
	assert.Equal(t, 2*time.Second, timing.PerActionTime)
	assert.Equal(t, 10*time.Second, timing.Total)
	assert.Equal(t, domain.SkillMining, timing.Skill)
	require.NotNil(t, c.ActivityStartedAt)

	at := testStart
	var last domain.ActionResult
	for i := 0; i < 5; i++ {
		at = at.Add(timing.PerActionTime)
		due, ok := c.Task.DueAt()
		require.True(t, ok)
		assert.Equal(t, at, due)

		last, err = e.Step(c, at)
		require.NoError(t, err)
		assert.True(t, last.Success)
	}

	assert.Equal(t, int64(5), c.State.Inventory.Quantity("copper_ore"))
	assert.Equal(t, int64(25), c.State.SkillOf(domain.SkillMining).XP)
	assert.True(t, last.Finished)
	assert.True(t, c.Task.IsIdle())
	assert.Nil(t, c.ActivityStartedAt)
	require.NotEmpty(t, c.State.Notifications)
	assert.Equal(t, domain.NotifyActivityDone, c.State.Notifications[len(c.State.Notifications)-1].Kind)
}

func TestStart_Rejections(t *testing.T) {
	e := newTestEngine(t, 0)

	tests := []struct {
		name    string
		req     StartRequest
		setup   func(c *domain.Character)
		wantErr error
	}{
		{"zero quantity", StartRequest{domain.ActionGathering, "copper_ore", 0}, nil, domain.ErrInvalidQuantity},
		{"too many", StartRequest{domain.ActionGathering, "copper_ore", MaxActivityQuantity + 1}, nil, domain.ErrInvalidQuantity},
		{"unknown item", StartRequest{domain.ActionGathering, "mithril_ore", 1}, nil, domain.ErrItemNotFound},
		{"wrong action", StartRequest{domain.ActionRefining, "copper_ore", 1}, nil, domain.ErrWrongActionType},
		{"not producible", StartRequest{domain.ActionCrafting, "scholar_charm", 1}, nil, domain.ErrWrongActionType},
		{"level too low", StartRequest{domain.ActionGathering, "iron_ore", 1}, nil, domain.ErrInsufficientLevel},
		// 2s * 30000 = 16h40m
		{"too long", StartRequest{domain.ActionGathering, "copper_ore", 30_000}, nil, domain.ErrDurationExceeded},
		{
			"already busy", StartRequest{domain.ActionGathering, "copper_ore", 1},
			func(c *domain.Character) {
				c.SetTask(domain.CombatTask(&domain.CombatState{MobID: "giant_rat"}), testStart)
			},
			domain.ErrAlreadyBusy,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newCharacter()
			if tt.setup != nil {
				tt.setup(c)
			}
			before := c.Task.Kind

			_, err := e.Start(c, tt.req, testStart)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.True(t, domain.IsValidation(err))
			assert.Equal(t, before, c.Task.Kind, "rejected start must not change the task")
		})
	}
}

func TestEfficiency(t *testing.T) {
	cat, err := catalog.LoadDefault()
	require.NoError(t, err)
	ore, err := cat.LookupItem("copper_ore")
	require.NoError(t, err)

	s := domain.NewState()
	assert.Zero(t, Efficiency(&s, ore))

	s.Skills[domain.SkillMining] = domain.Skill{Level: 21}
	assert.InDelta(t, 10.0, Efficiency(&s, ore), 1e-9)

	s.Equipment[domain.SlotTool] = domain.ItemSnapshot{ID: "copper_pickaxe", Stats: domain.Stats{Efficiency: 10}}
	assert.InDelta(t, 20.0, Efficiency(&s, ore), 1e-9)

	s.Skills[domain.SkillMining] = domain.Skill{Level: 100}
	assert.Equal(t, MaxEfficiency, Efficiency(&s, ore))
}

func TestPerActionTime(t *testing.T) {
	assert.Equal(t, 2*time.Second, PerActionTime(2*time.Second, 0))
	assert.Equal(t, 1500*time.Millisecond, PerActionTime(2*time.Second, 25))
	assert.Equal(t, MinActionTime, PerActionTime(time.Second, 75))
}

func TestStep_RefiningConsumesIngredients(t *testing.T) {
	e := newTestEngine(t, 0)
	c := newCharacter()
	c.State.Inventory["copper_ore"] = 5

	timing, err := e.Start(c, StartRequest{Type: domain.ActionRefining, ItemID: "copper_bar", Quantity: 3}, testStart)
	require.NoError(t, err)

	res, err := e.Step(c, testStart.Add(timing.PerActionTime))
	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.Equal(t, int64(3), c.State.Inventory.Quantity("copper_ore"))
	assert.Equal(t, int64(1), c.State.Inventory.Quantity("copper_bar"))

	_, err = e.Step(c, testStart.Add(2*timing.PerActionTime))
	require.NoError(t, err)
	assert.Equal(t, int64(1), c.State.Inventory.Quantity("copper_ore"))

	// one ore left, two needed
	res, err = e.Step(c, testStart.Add(3*timing.PerActionTime))
	require.NoError(t, err)
	assert.False(t, res.Success)
	assert.True(t, res.Finished)
	assert.Contains(t, res.Message, "Not enough materials")
	assert.True(t, c.Task.IsIdle())
	assert.Equal(t, int64(1), c.State.Inventory.Quantity("copper_ore"), "failed step consumes nothing")
	assert.Equal(t, int64(2), c.State.Inventory.Quantity("copper_bar"))
}

func TestStep_InventoryFull(t *testing.T) {
	e := newTestEngine(t, 2)
	c := newCharacter()
	c.State.Inventory["rat_tail"] = 1
	c.State.Inventory["goblin_ear"] = 1

	_, err := e.Start(c, StartRequest{Type: domain.ActionGathering, ItemID: "copper_ore", Quantity: 3}, testStart)
	require.NoError(t, err)

	res, err := e.Step(c, testStart.Add(2*time.Second))
	require.NoError(t, err)
	assert.False(t, res.Success)
	assert.Equal(t, MsgInventoryFull, res.Message)
	assert.True(t, c.Task.IsIdle())
	assert.Zero(t, c.State.Inventory.Quantity("copper_ore"))
	assert.Zero(t, c.State.SkillOf(domain.SkillMining).XP)
	assert.Equal(t, domain.NotifyActivityFailed, c.State.Notifications[len(c.State.Notifications)-1].Kind)
}

func TestStep_RefiningFreesSlotAtCap(t *testing.T) {
	e := newTestEngine(t, 1)
	c := newCharacter()
	c.State.Inventory["raw_shrimp"] = 1

	_, err := e.Start(c, StartRequest{Type: domain.ActionRefining, ItemID: "cooked_shrimp", Quantity: 1}, testStart)
	require.NoError(t, err)

	res, err := e.Step(c, testStart.Add(time.Minute))
	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.Equal(t, domain.Inventory{"cooked_shrimp": 1}, c.State.Inventory)
}

func TestStep_CraftingRollsQuality(t *testing.T) {
	e := newTestEngine(t, 0)
	c := newCharacter()
	c.State.Inventory["copper_bar"] = 4

	_, err := e.Start(c, StartRequest{Type: domain.ActionCrafting, ItemID: "copper_helmet", Quantity: 2}, testStart)
	require.NoError(t, err)

	for i := 1; i <= 2; i++ {
		res, err := e.Step(c, testStart.Add(time.Duration(i)*5*time.Second))
		require.NoError(t, err)
		require.True(t, res.Success)
		require.Len(t, res.Items, 1)
		for id := range res.Items {
			base, q := catalog.ParseItemID(id)
			assert.Equal(t, "copper_helmet", base)
			assert.True(t, q.Valid())
		}
	}
	assert.Zero(t, c.State.Inventory.Quantity("copper_bar"))
	assert.Equal(t, int64(40), c.State.SkillOf(domain.SkillSmithing).XP)
}

func TestStep_XPBonusAndLevelUp(t *testing.T) {
	e := newTestEngine(t, 0)
	c := newCharacter()
	c.State.Equipment[domain.SlotAccessory] = domain.ItemSnapshot{ID: "scholar_charm", Stats: domain.Stats{XPBonus: 10}}
	c.State.Skills[domain.SkillMining] = domain.Skill{Level: 1, XP: 98}

	_, err := e.Start(c, StartRequest{Type: domain.ActionGathering, ItemID: "copper_ore", Quantity: 2}, testStart)
	require.NoError(t, err)

	res, err := e.Step(c, testStart.Add(2*time.Second))
	require.NoError(t, err)
	// 5 * 1.1 rounds to 6
	assert.Equal(t, int64(6), res.XP[domain.SkillMining])
	require.Len(t, res.LeveledUp, 1)
	assert.Equal(t, domain.LevelUp{Skill: domain.SkillMining, From: 1, To: 2}, res.LeveledUp[0])
	assert.Equal(t, domain.NotifyLevelUp, c.State.Notifications[0].Kind)
}

func TestStep_CorruptDescriptorIsCleared(t *testing.T) {
	e := newTestEngine(t, 0)

	t.Run("invalid duration", func(t *testing.T) {
		c := newCharacter()
		c.SetTask(domain.ActivityTask(&domain.Activity{Type: domain.ActionGathering, ItemID: "copper_ore", ActionsRemaining: 3}), testStart)

		res, err := e.Step(c, testStart)
		assert.ErrorIs(t, err, domain.ErrInvariantViolation)
		assert.True(t, res.Finished)
		assert.True(t, c.Task.IsIdle())
	})

	t.Run("unknown item", func(t *testing.T) {
		c := newCharacter()
		c.SetTask(domain.ActivityTask(&domain.Activity{
			Type: domain.ActionGathering, ItemID: "removed_item", ActionsRemaining: 3, Duration: time.Second,
		}), testStart)

		_, err := e.Step(c, testStart)
		assert.ErrorIs(t, err, domain.ErrFatalConfig)
		assert.True(t, c.Task.IsIdle())
	})

	t.Run("no activity", func(t *testing.T) {
		c := newCharacter()
		_, err := e.Step(c, testStart)
		var iv *domain.InvariantViolation
		assert.True(t, errors.As(err, &iv))
	})
}

func TestStop(t *testing.T) {
	e := newTestEngine(t, 0)
	c := newCharacter()

	_, err := e.Stop(c, testStart)
	assert.ErrorIs(t, err, domain.ErrNotBusy)

	_, err = e.Start(c, StartRequest{Type: domain.ActionGathering, ItemID: "copper_ore", Quantity: 10}, testStart)
	require.NoError(t, err)
	_, err = e.Step(c, testStart.Add(2*time.Second))
	require.NoError(t, err)

	summary, err := e.Stop(c, testStart.Add(3*time.Second))
	require.NoError(t, err)
	assert.Equal(t, domain.TaskActivity, summary.Kind)
	assert.Equal(t, "copper_ore", summary.Target)
	assert.Equal(t, domain.ReasonStopped, summary.Reason)
	assert.Equal(t, 1, summary.Totals.Steps)
	assert.Equal(t, int64(1), summary.Totals.Items["copper_ore"])
	assert.Equal(t, 3*time.Second, summary.Duration)
	assert.True(t, c.Task.IsIdle())
}

func TestStart_MinActionTimeFollowsHeartbeat(t *testing.T) {
	cat, err := catalog.LoadDefault()
	require.NoError(t, err)
	req := StartRequest{Type: domain.ActionGathering, ItemID: "copper_ore", Quantity: 4}

	slow := NewEngine(cat, progression.NewLedger(0), rand.New(rand.NewSource(1)), WithMinActionTime(3*time.Second))
	timing, err := slow.Start(newCharacter(), req, testStart)
	require.NoError(t, err)
	assert.Equal(t, 3*time.Second, timing.PerActionTime)
	assert.Equal(t, 12*time.Second, timing.Total)

	fast := NewEngine(cat, progression.NewLedger(0), rand.New(rand.NewSource(1)), WithMinActionTime(100*time.Millisecond))
	assert.Equal(t, MinActionTime, fast.minActionTime, "option never lowers the floor")
	timing, err = fast.Start(newCharacter(), req, testStart)
	require.NoError(t, err)
	assert.Equal(t, 2*time.Second, timing.PerActionTime)
}
