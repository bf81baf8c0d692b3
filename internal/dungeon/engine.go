package dungeon

import (
	"fmt"
	"time"

	"github.com/osse101/IdleRealm_Go/internal/catalog"
	"github.com/osse101/IdleRealm_Go/internal/combat"
	"github.com/osse101/IdleRealm_Go/internal/domain"
	"github.com/osse101/IdleRealm_Go/internal/progression"
)

// Engine runs dungeon waves. Each wave is an ordinary fight with respawn
// disabled; the run owns it through DungeonRun.Combat.
type Engine struct {
	catalog *catalog.Catalog
	ledger  *progression.Ledger
	fights  *combat.Engine
}

// NewEngine creates a new dungeon engine
func NewEngine(cat *catalog.Catalog, ledger *progression.Ledger, fights *combat.Engine) *Engine {
	return &Engine{catalog: cat, ledger: ledger, fights: fights}
}

// Start consumes one entry item and begins a run. repeats is the number of
// extra runs to start automatically while entry items last.
func (e *Engine) Start(c *domain.Character, dungeonID string, repeats int, now time.Time) (*domain.DungeonRun, error) {
	if !c.Task.IsIdle() {
		return nil, domain.NewValidationError(domain.ErrAlreadyBusy, "currently %s", c.Task.Kind)
	}
	if repeats < 0 || repeats > MaxRepeats {
		return nil, domain.NewValidationError(domain.ErrInvalidRepeatCount, "repeats must be between 0 and %d", MaxRepeats)
	}
	d, err := e.catalog.LookupDungeon(dungeonID)
	if err != nil {
		return nil, domain.NewValidationError(domain.ErrDungeonNotFound, "%s", dungeonID)
	}
	required := catalog.LevelRequirement(d.Tier)
	if have := c.State.SkillOf(domain.SkillCombat).Level; have < required {
		return nil, domain.NewValidationError(domain.ErrInsufficientLevel, "combat level %d required, have %d", required, have)
	}
	if err := e.ledger.RemoveItem(&c.State, d.EntryItem, 1); err != nil {
		return nil, domain.NewValidationError(domain.ErrMissingEntryItem, "%s needs %s", d.ID, d.EntryItem)
	}

	run := &domain.DungeonRun{
		DungeonID:        d.ID,
		Phase:            domain.DungeonPreparing,
		Wave:             1,
		TotalWaves:       d.Waves,
		NextEventAt:      now,
		StartedAt:        now,
		RunStartedAt:     now,
		RepeatsRemaining: repeats,
	}
	c.SetTask(domain.DungeonTask(run), now)
	c.State.Notify(domain.NotifyDungeon, fmt.Sprintf(MsgEntered, progression.DisplayName(d.ID)), now)
	return run, nil
}

// Step advances the run by one event at the given simulated time
func (e *Engine) Step(c *domain.Character, at time.Time) (domain.ActionResult, error) {
	run := c.Task.Dungeon
	if c.Task.Kind != domain.TaskDungeon || run == nil {
		return domain.ActionResult{At: at}, &domain.InvariantViolation{Subject: "dungeon", Detail: "step without a run"}
	}
	if err := run.Validate(); err != nil {
		return e.reset(c, at), err
	}
	d, err := e.catalog.LookupDungeon(run.DungeonID)
	if err != nil {
		return e.reset(c, at), &domain.FatalConfigError{Kind: "dungeon", ID: run.DungeonID}
	}

	if at.Sub(run.RunStartedAt) > d.TimeBudget() {
		return e.fail(c, d, run, domain.ReasonTimeout, at), nil
	}

	switch run.Phase {
	case domain.DungeonPreparing, domain.DungeonWaitingNextWave:
		res, err := e.spawn(c, d, run, at)
		if err != nil {
			return e.reset(c, at), err
		}
		return res, nil
	case domain.DungeonWalking:
		run.Wave++
		run.Phase = domain.DungeonWaitingNextWave
		run.NextEventAt = at
		return e.result(run, at, ""), nil
	case domain.DungeonFighting, domain.DungeonBossFight:
		return e.fight(c, d, run, at)
	}
	return e.reset(c, at), &domain.InvariantViolation{Subject: "dungeon", Detail: fmt.Sprintf("phase %q", run.Phase)}
}

func (e *Engine) spawn(c *domain.Character, d *catalog.Dungeon, run *domain.DungeonRun, at time.Time) (domain.ActionResult, error) {
	mobID, scale, boss := d.WaveMonster(run.Wave)
	m, err := e.catalog.LookupMonster(0, mobID)
	if err != nil {
		return domain.ActionResult{At: at}, &domain.FatalConfigError{Kind: "monster", ID: mobID}
	}
	run.Combat = combat.NewFight(&c.State, m, scale, false, at)
	if boss {
		run.Phase = domain.DungeonBossFight
		return e.result(run, at, fmt.Sprintf(MsgBossSpawn, m.Name)), nil
	}
	run.Phase = domain.DungeonFighting
	return e.result(run, at, fmt.Sprintf(MsgWaveSpawn, run.Wave, run.TotalWaves, m.Name)), nil
}

func (e *Engine) fight(c *domain.Character, d *catalog.Dungeon, run *domain.DungeonRun, at time.Time) (domain.ActionResult, error) {
	res, outcome, err := e.fights.Round(c, run.Combat, at)
	if err != nil {
		return e.reset(c, at), err
	}

	switch outcome {
	case combat.Killed:
		run.Session.Merge(run.Combat.Session)
		boss := run.Phase == domain.DungeonBossFight
		run.Combat = nil
		if boss {
			e.complete(c, d, run, &res, at)
			return res, nil
		}
		run.Phase = domain.DungeonWalking
		run.NextEventAt = at.Add(d.WalkDuration())
		res.Message = fmt.Sprintf(MsgWalking, run.Wave)
	case combat.Defeated:
		failed := e.fail(c, d, run, domain.ReasonDefeated, at)
		res.Success = false
		res.Message = failed.Message
		res.Finished = true
		res.Summaries = failed.Summaries
		res.DungeonUpdate = failed.DungeonUpdate
		return res, nil
	}
	res.DungeonUpdate = e.update(run)
	return res, nil
}

// complete grants the run rewards, then restarts or ends the run
func (e *Engine) complete(c *domain.Character, d *catalog.Dungeon, run *domain.DungeonRun, res *domain.ActionResult, at time.Time) {
	granted, up := e.ledger.AddXP(&c.State, domain.SkillCombat, d.Rewards.XP)
	res.AddXP(domain.SkillCombat, granted)
	if up != nil {
		res.LeveledUp = append(res.LeveledUp, *up)
		c.State.Notify(domain.NotifyLevelUp, progression.LevelUpMessage(up.Skill, up.To), at)
	}
	silver := e.ledger.AddSilver(&c.State, d.Rewards.Silver)
	res.Silver += silver

	rewards := make(map[string]int64, len(d.Rewards.Resources)+len(d.Rewards.Crests))
	for id, qty := range d.Rewards.Resources {
		rewards[id] += qty
	}
	for id, qty := range d.Rewards.Crests {
		rewards[id] += qty
	}
	added, overflow := e.ledger.AddItemsPartial(&c.State, rewards)
	for id, qty := range added {
		res.AddItem(id, qty)
	}
	if len(overflow) > 0 {
		c.State.AddClaim(domain.ClaimSourceDungeon, overflow, 0, at)
	}

	run.Session.XP += granted
	run.Session.Silver += silver
	run.Session.AddItems(rewards)
	run.RunsCompleted++
	res.Summaries = append(res.Summaries, summary(run, domain.ReasonCompleted, at))

	if run.RepeatsRemaining > 0 && c.State.Inventory.Has(d.EntryItem, 1) {
		_ = e.ledger.RemoveItem(&c.State, d.EntryItem, 1)
		run.RepeatsRemaining--
		run.Wave = 1
		run.Phase = domain.DungeonPreparing
		run.NextEventAt = at.Add(d.WalkDuration())
		run.RunStartedAt = at
		run.Session = domain.SessionTotals{}

		msg := fmt.Sprintf(MsgRepeating, progression.DisplayName(d.ID), run.RepeatsRemaining)
		c.State.Notify(domain.NotifyDungeon, msg, at)
		res.Message = msg
		res.DungeonUpdate = e.update(run)
		res.DungeonUpdate.Repeating = true
		return
	}

	msg := fmt.Sprintf(MsgCompleted, progression.DisplayName(d.ID))
	c.State.Notify(domain.NotifyDungeon, msg, at)
	res.Message = msg
	res.DungeonUpdate = &domain.DungeonUpdate{
		DungeonID:  run.DungeonID,
		Phase:      domain.DungeonCompleted,
		Wave:       run.Wave,
		TotalWaves: run.TotalWaves,
	}
	res.Finished = true
	c.ClearTask()
}

func (e *Engine) fail(c *domain.Character, d *catalog.Dungeon, run *domain.DungeonRun, reason string, at time.Time) domain.ActionResult {
	if run.Combat != nil {
		run.Session.Merge(run.Combat.Session)
	}
	msg := fmt.Sprintf(MsgFailed, progression.DisplayName(d.ID), reason)
	c.State.Notify(domain.NotifyDungeon, msg, at)
	res := domain.ActionResult{
		Success: false,
		Message: msg,
		DungeonUpdate: &domain.DungeonUpdate{
			DungeonID:  run.DungeonID,
			Phase:      domain.DungeonFailed,
			Wave:       run.Wave,
			TotalWaves: run.TotalWaves,
		},
		Finished:  true,
		At:        at,
		Summaries: []domain.SessionSummary{summary(run, reason, at)},
	}
	c.ClearTask()
	return res
}

// Abandon ends the run without rewards. The entry item is not refunded.
func (e *Engine) Abandon(c *domain.Character, now time.Time) (domain.SessionSummary, error) {
	run := c.Task.Dungeon
	if c.Task.Kind != domain.TaskDungeon || run == nil {
		return domain.SessionSummary{}, domain.NewValidationError(domain.ErrNotBusy, "not in a dungeon")
	}
	if run.Combat != nil {
		run.Session.Merge(run.Combat.Session)
	}
	s := summary(run, domain.ReasonAbandoned, now)
	c.State.Notify(domain.NotifyDungeon, fmt.Sprintf(MsgAbandoned, progression.DisplayName(run.DungeonID), run.Wave), now)
	c.ClearTask()
	return s, nil
}

func (e *Engine) reset(c *domain.Character, at time.Time) domain.ActionResult {
	c.State.Notify(domain.NotifySystem, MsgReset, at)
	c.ClearTask()
	return domain.ActionResult{Message: MsgReset, Finished: true, At: at}
}

func (e *Engine) result(run *domain.DungeonRun, at time.Time, msg string) domain.ActionResult {
	return domain.ActionResult{Success: true, Message: msg, DungeonUpdate: e.update(run), At: at}
}

func (e *Engine) update(run *domain.DungeonRun) *domain.DungeonUpdate {
	return &domain.DungeonUpdate{
		DungeonID:  run.DungeonID,
		Phase:      run.Phase,
		Wave:       run.Wave,
		TotalWaves: run.TotalWaves,
	}
}

func summary(run *domain.DungeonRun, reason string, at time.Time) domain.SessionSummary {
	s := domain.SessionSummary{
		Kind:     domain.TaskDungeon,
		Target:   run.DungeonID,
		Reason:   reason,
		Totals:   run.Session,
		Duration: at.Sub(run.RunStartedAt),
		EndedAt:  at,
		Kills:    run.Session.Steps,
		Waves:    run.Wave,
	}
	s.Totals.Items = nil
	for id, qty := range run.Session.Items {
		if s.Totals.Items == nil {
			s.Totals.Items = make(map[string]int64)
		}
		s.Totals.Items[id] = qty
	}
	return s
}
