package tick

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osse101/IdleRealm_Go/internal/activity"
	"github.com/osse101/IdleRealm_Go/internal/catalog"
	"github.com/osse101/IdleRealm_Go/internal/combat"
	"github.com/osse101/IdleRealm_Go/internal/domain"
	"github.com/osse101/IdleRealm_Go/internal/dungeon"
	"github.com/osse101/IdleRealm_Go/internal/progression"
)

var testStart = time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

// countingStepper advances a fake activity one action per step
type countingStepper struct {
	at    []time.Time
	panic bool
}

func (s *countingStepper) Step(c *domain.Character, at time.Time) (domain.ActionResult, error) {
	if s.panic {
		panic("corrupt inventory")
	}
	s.at = append(s.at, at)
	act := c.Task.Activity
	act.ActionsRemaining--
	act.NextActionAt = act.NextActionAt.Add(act.Duration)
	res := domain.ActionResult{Success: true, At: at}
	res.AddItem(act.ItemID, 1)
	if act.ActionsRemaining == 0 {
		c.ClearTask()
		res.Finished = true
	}
	return res, nil
}

func fakeActivity(c *domain.Character, remaining int, next time.Time) {
	c.SetTask(domain.ActivityTask(&domain.Activity{
		Type:             domain.ActionGathering,
		ItemID:           "copper_ore",
		Skill:            domain.SkillMining,
		ActionsRemaining: remaining,
		Duration:         2 * time.Second,
		NextActionAt:     next,
		StartedAt:        testStart,
	}), testStart)
}

type engines struct {
	activity *activity.Engine
	combat   *combat.Engine
	dungeon  *dungeon.Engine
	advancer *Advancer
}

func newEngines(t *testing.T, opts ...Option) engines {
	t.Helper()
	cat, err := catalog.LoadDefault()
	require.NoError(t, err)
	ledger := progression.NewLedger(0)
	rng := rand.New(rand.NewSource(7))
	e := engines{
		activity: activity.NewEngine(cat, ledger, rng),
		combat:   combat.NewEngine(cat, ledger, rng),
	}
	e.dungeon = dungeon.NewEngine(cat, ledger, e.combat)
	e.advancer = NewAdvancer(e.activity, e.combat, e.dungeon, opts...)
	return e
}

func TestActionsToProcess(t *testing.T) {
	tests := []struct {
		name      string
		elapsed   time.Duration
		d         time.Duration
		remaining int
		want      int
	}{
		{"whole steps", 10 * time.Second, 2 * time.Second, 100, 5},
		{"partial step floors", 11*time.Second + 999*time.Millisecond, 2 * time.Second, 100, 5},
		{"capped by remaining", time.Hour, 2 * time.Second, 3, 3},
		{"nothing elapsed", 0, 2 * time.Second, 10, 0},
		{"clock went backwards", -time.Minute, 2 * time.Second, 10, 0},
		{"no duration", time.Minute, 0, 10, 0},
		{"nothing remaining", time.Minute, time.Second, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ActionsToProcess(testStart, testStart.Add(tt.elapsed), tt.d, tt.remaining))
		})
	}
}

func TestLive_StepsOnlyWhenDue(t *testing.T) {
	stepper := &countingStepper{}
	a := NewAdvancer(stepper, nil, nil)
	c := domain.NewCharacter("owner-1", "Tester", testStart)
	fakeActivity(c, 10, testStart.Add(2*time.Second))

	out := a.Live(c, testStart.Add(time.Second))
	assert.False(t, out.Stepped())
	assert.Equal(t, testStart.Add(time.Second), c.SimulatedAt)

	out = a.Live(c, testStart.Add(2500*time.Millisecond))
	require.Len(t, out.Results, 1)
	assert.Equal(t, []time.Time{testStart.Add(2 * time.Second)}, stepper.at, "steps run at their scheduled instant")
	assert.Equal(t, testStart.Add(4*time.Second), c.Task.Activity.NextActionAt)
	assert.False(t, out.Snapped)
}

func TestLive_DriftSnapsInsteadOfBursting(t *testing.T) {
	stepper := &countingStepper{}
	a := NewAdvancer(stepper, nil, nil, WithDriftThreshold(5*time.Second))
	c := domain.NewCharacter("owner-1", "Tester", testStart)
	fakeActivity(c, 100, testStart.Add(2*time.Second))

	now := testStart.Add(time.Minute)
	out := a.Live(c, now)

	assert.Len(t, out.Results, 1, "one step per heartbeat at most")
	assert.True(t, out.Snapped)
	assert.Equal(t, now.Add(2*time.Second), c.Task.Activity.NextActionAt)

	out = a.Live(c, now.Add(time.Second))
	assert.False(t, out.Stepped())
}

func TestLive_WithinDriftKeepsSchedule(t *testing.T) {
	stepper := &countingStepper{}
	a := NewAdvancer(stepper, nil, nil, WithDriftThreshold(5*time.Second))
	c := domain.NewCharacter("owner-1", "Tester", testStart)
	fakeActivity(c, 100, testStart.Add(2*time.Second))

	a.Live(c, testStart.Add(5*time.Second))
	assert.Equal(t, testStart.Add(4*time.Second), c.Task.Activity.NextActionAt)
}

func TestLive_PanicIsIsolated(t *testing.T) {
	a := NewAdvancer(&countingStepper{panic: true}, nil, nil)
	c := domain.NewCharacter("owner-1", "Tester", testStart)
	fakeActivity(c, 10, testStart)

	var out Outcome
	assert.NotPanics(t, func() { out = a.Live(c, testStart.Add(time.Second)) })

	require.Len(t, out.Errors, 1)
	assert.ErrorIs(t, out.Errors[0], domain.ErrInvariantViolation)
	assert.True(t, c.Task.IsIdle())
	last := c.State.Notifications[len(c.State.Notifications)-1]
	assert.Equal(t, domain.NotifySystem, last.Kind)
	assert.Equal(t, MsgTaskReset, last.Message)
}

func TestLive_MalformedTaskIsHealed(t *testing.T) {
	tests := []struct {
		name string
		task domain.Task
	}{
		{"missing payload", domain.Task{Kind: domain.TaskCombat}},
		{"unknown kind", domain.Task{Kind: "fishing_trip"}},
		{"negative remaining", domain.ActivityTask(&domain.Activity{Type: domain.ActionGathering, ItemID: "x", Duration: time.Second, ActionsRemaining: -1})},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := NewAdvancer(&countingStepper{}, &countingStepper{}, &countingStepper{})
			c := domain.NewCharacter("owner-1", "Tester", testStart)
			c.Task = tt.task

			out := a.Live(c, testStart.Add(time.Hour))
			require.Len(t, out.Errors, 1)
			assert.ErrorIs(t, out.Errors[0], domain.ErrInvariantViolation)
			assert.True(t, c.Task.IsIdle())
		})
	}
}

func TestLive_NoEngineForKind(t *testing.T) {
	a := NewAdvancer(&countingStepper{}, nil, nil)
	c := domain.NewCharacter("owner-1", "Tester", testStart)
	c.SetTask(domain.CombatTask(combat.NewFight(&c.State, &catalog.Monster{ID: "rat", Name: "Rat", Health: 10, Damage: 1, AttackIntervalMs: 2000}, 1, true, testStart)), testStart)

	out := a.Live(c, testStart.Add(time.Minute))
	require.Len(t, out.Errors, 1)
	assert.True(t, c.Task.IsIdle())
}

func TestCatchUp_ActivityMatchesPlanner(t *testing.T) {
	e := newEngines(t)
	c := domain.NewCharacter("owner-1", "Tester", testStart)
	_, err := e.activity.Start(c, activity.StartRequest{Type: domain.ActionGathering, ItemID: "copper_ore", Quantity: 100}, testStart)
	require.NoError(t, err)

	now := testStart.Add(61 * time.Second)
	want := ActionsToProcess(c.SimulatedAt, now, c.Task.Activity.Duration, c.Task.Activity.ActionsRemaining)
	require.Equal(t, 30, want)

	out := e.advancer.CatchUp(c, now)

	assert.Len(t, out.Results, want)
	assert.Equal(t, int64(want), c.State.Inventory.Quantity("copper_ore"))
	assert.Equal(t, int64(want*5), c.State.SkillOf(domain.SkillMining).XP)
	assert.Equal(t, 70, c.Task.Activity.ActionsRemaining)
	assert.Equal(t, testStart.Add(62*time.Second), c.Task.Activity.NextActionAt)
	assert.Equal(t, now, c.SimulatedAt)

	require.NotNil(t, out.Report)
	assert.Equal(t, want, out.Report.Steps)
	assert.Equal(t, int64(want), out.Report.Items["copper_ore"])
	assert.Equal(t, 60*time.Second, out.Report.Simulated)
	require.NotNil(t, c.State.OfflineReport)
	assert.Equal(t, want, c.State.OfflineReport.Steps)
}

func TestCatchUp_ReplayingSameWindowIsNoOp(t *testing.T) {
	e := newEngines(t)
	c := domain.NewCharacter("owner-1", "Tester", testStart)
	_, err := e.activity.Start(c, activity.StartRequest{Type: domain.ActionGathering, ItemID: "copper_ore", Quantity: 100}, testStart)
	require.NoError(t, err)

	now := testStart.Add(30 * time.Second)
	first := e.advancer.CatchUp(c, now)
	second := e.advancer.CatchUp(c, now)

	assert.Len(t, first.Results, 15)
	assert.False(t, second.Stepped())
	assert.Equal(t, int64(15), c.State.Inventory.Quantity("copper_ore"))
}

func TestCatchUp_CappedByActionsRemaining(t *testing.T) {
	e := newEngines(t)
	c := domain.NewCharacter("owner-1", "Tester", testStart)
	_, err := e.activity.Start(c, activity.StartRequest{Type: domain.ActionGathering, ItemID: "copper_ore", Quantity: 5}, testStart)
	require.NoError(t, err)

	out := e.advancer.CatchUp(c, testStart.Add(time.Hour))

	assert.Len(t, out.Results, 5)
	assert.True(t, c.Task.IsIdle())
	assert.Equal(t, int64(5), c.State.Inventory.Quantity("copper_ore"))
	assert.Equal(t, 10*time.Second, out.Report.Simulated)
}

func TestCatchUp_StopsOnInventoryFull(t *testing.T) {
	cat, err := catalog.LoadDefault()
	require.NoError(t, err)
	ledger := progression.NewLedger(1)
	act := activity.NewEngine(cat, ledger, rand.New(rand.NewSource(1)))
	a := NewAdvancer(act, nil, nil)

	c := domain.NewCharacter("owner-1", "Tester", testStart)
	c.State.Inventory["pine_log"] = 1
	_, err = act.Start(c, activity.StartRequest{Type: domain.ActionGathering, ItemID: "copper_ore", Quantity: 10}, testStart)
	require.NoError(t, err)

	out := a.CatchUp(c, testStart.Add(time.Minute))

	require.Len(t, out.Results, 1)
	assert.False(t, out.Results[0].Success)
	assert.Equal(t, activity.MsgInventoryFull, out.Report.Stopped)
	assert.True(t, c.Task.IsIdle())
}

func TestCatchUp_CombatBoundedBySteps(t *testing.T) {
	e := newEngines(t, WithMaxOfflineSteps(5))
	c := domain.NewCharacter("owner-1", "Tester", testStart)
	_, err := e.combat.Start(c, 1, "giant_rat", testStart)
	require.NoError(t, err)

	now := testStart.Add(10 * time.Minute)
	out := e.advancer.CatchUp(c, now)

	assert.Len(t, out.Results, 5)
	assert.True(t, out.Snapped, "timers left far behind are snapped")
	require.NotNil(t, c.Task.Combat)
	assert.Equal(t, now.Add(c.Task.Combat.PlayerAttackInterval), c.Task.Combat.PlayerNextAttackAt)
	assert.False(t, c.Task.Combat.MobNextAttackAt.Before(now))
}

func TestCatchUp_CombatKillsAccumulate(t *testing.T) {
	e := newEngines(t)
	c := domain.NewCharacter("owner-1", "Tester", testStart)
	_, err := e.combat.Start(c, 1, "giant_rat", testStart)
	require.NoError(t, err)

	out := e.advancer.CatchUp(c, testStart.Add(5*time.Minute))

	require.NotNil(t, out.Report)
	assert.Greater(t, out.Report.XP[domain.SkillCombat], int64(0))
	assert.Equal(t, c.State.SkillOf(domain.SkillCombat).XP, out.Report.XP[domain.SkillCombat])
	if !c.Task.IsIdle() {
		due, _ := c.Task.DueAt()
		assert.True(t, due.After(testStart.Add(5*time.Minute)))
	}
}

func TestCatchUp_DungeonRunsToCompletion(t *testing.T) {
	e := newEngines(t)
	c := domain.NewCharacter("owner-1", "Tester", testStart)
	c.State.Inventory["rat_warren_key"] = 1
	_, err := e.dungeon.Start(c, "rat_warren", 0, testStart)
	require.NoError(t, err)

	out := e.advancer.CatchUp(c, testStart.Add(2*time.Hour))

	assert.True(t, c.Task.IsIdle())
	require.NotEmpty(t, out.Summaries)
	last := out.Summaries[len(out.Summaries)-1]
	assert.Equal(t, domain.TaskDungeon, last.Kind)
	assert.Contains(t, []string{domain.ReasonCompleted, domain.ReasonDefeated}, last.Reason)
}

func TestCatchUp_WindowIsBounded(t *testing.T) {
	stepper := &countingStepper{}
	a := NewAdvancer(stepper, nil, nil, WithMaxOfflineWindow(10*time.Second))
	c := domain.NewCharacter("owner-1", "Tester", testStart)
	fakeActivity(c, 1000, testStart.Add(2*time.Second))

	now := testStart.Add(time.Hour)
	out := a.CatchUp(c, now)

	assert.Len(t, out.Results, 5)
	assert.Equal(t, now.Add(-10*time.Second), out.Report.From)
}

func TestCatchUp_IdleOnlyAdvancesClock(t *testing.T) {
	a := NewAdvancer(&countingStepper{}, nil, nil)
	c := domain.NewCharacter("owner-1", "Tester", testStart)

	out := a.CatchUp(c, testStart.Add(time.Hour))
	assert.False(t, out.Stepped())
	assert.Nil(t, c.State.OfflineReport)
	assert.Equal(t, testStart.Add(time.Hour), c.SimulatedAt)
}

func TestSnap_Dungeon(t *testing.T) {
	c := domain.NewCharacter("owner-1", "Tester", testStart)
	c.SetTask(domain.DungeonTask(&domain.DungeonRun{
		DungeonID: "rat_warren", Phase: domain.DungeonWalking, Wave: 1, TotalWaves: 3,
		NextEventAt: testStart,
	}), testStart)

	now := testStart.Add(time.Hour)
	Snap(c, now)
	assert.Equal(t, now, c.Task.Dungeon.NextEventAt)
}
