package domain

import (
	"fmt"
	"time"
)

// TaskKind discriminates what a character is currently doing
type TaskKind string

const (
	TaskIdle     TaskKind = "idle"
	TaskActivity TaskKind = "activity"
	TaskCombat   TaskKind = "combat"
	TaskDungeon  TaskKind = "dungeon"
)

// Task is the sum type of a character's player-initiated progress.
// Exactly one payload pointer matching Kind is set; Idle carries none.
// A dungeon owns its nested combat through DungeonRun.Combat.
type Task struct {
	Kind     TaskKind     `json:"kind"`
	Activity *Activity    `json:"activity,omitempty"`
	Combat   *CombatState `json:"combat,omitempty"`
	Dungeon  *DungeonRun  `json:"dungeon,omitempty"`
}

// IdleTask is the zero-progress task
func IdleTask() Task { return Task{Kind: TaskIdle} }

// ActivityTask wraps a gathering/refining/crafting descriptor
func ActivityTask(a *Activity) Task { return Task{Kind: TaskActivity, Activity: a} }

// CombatTask wraps a free-standing fight
func CombatTask(c *CombatState) Task { return Task{Kind: TaskCombat, Combat: c} }

// DungeonTask wraps a dungeon run
func DungeonTask(d *DungeonRun) Task { return Task{Kind: TaskDungeon, Dungeon: d} }

// IsIdle reports whether nothing is progressing. An empty Kind counts as idle.
func (t Task) IsIdle() bool {
	return t.Kind == TaskIdle || t.Kind == ""
}

// Validate checks the sum-type shape
func (t Task) Validate() error {
	switch t.Kind {
	case TaskIdle, "":
		if t.Activity != nil || t.Combat != nil || t.Dungeon != nil {
			return &InvariantViolation{Subject: "task", Detail: "idle task carries a payload"}
		}
	case TaskActivity:
		if t.Activity == nil || t.Combat != nil || t.Dungeon != nil {
			return &InvariantViolation{Subject: "task", Detail: "activity task shape"}
		}
		return t.Activity.Validate()
	case TaskCombat:
		if t.Combat == nil || t.Activity != nil || t.Dungeon != nil {
			return &InvariantViolation{Subject: "task", Detail: "combat task shape"}
		}
		return t.Combat.Validate()
	case TaskDungeon:
		if t.Dungeon == nil || t.Activity != nil || t.Combat != nil {
			return &InvariantViolation{Subject: "task", Detail: "dungeon task shape"}
		}
		return t.Dungeon.Validate()
	default:
		return &InvariantViolation{Subject: "task", Detail: fmt.Sprintf("unknown kind %q", t.Kind)}
	}
	return nil
}

// DueAt returns when the next discrete step is due
func (t Task) DueAt() (time.Time, bool) {
	switch t.Kind {
	case TaskActivity:
		if t.Activity != nil {
			return t.Activity.NextActionAt, true
		}
	case TaskCombat:
		if t.Combat != nil {
			return t.Combat.PlayerNextAttackAt, true
		}
	case TaskDungeon:
		if t.Dungeon != nil {
			return t.Dungeon.DueAt(), true
		}
	}
	return time.Time{}, false
}

// Clone deep-copies the task payload
func (t Task) Clone() Task {
	out := Task{Kind: t.Kind}
	if t.Activity != nil {
		a := *t.Activity
		a.Session = cloneTotals(a.Session)
		out.Activity = &a
	}
	if t.Combat != nil {
		out.Combat = t.Combat.Clone()
	}
	if t.Dungeon != nil {
		d := *t.Dungeon
		d.Session = cloneTotals(d.Session)
		d.Combat = t.Dungeon.Combat.Clone()
		out.Dungeon = &d
	}
	return out
}

func cloneTotals(s SessionTotals) SessionTotals {
	s.Items = copyCounts(s.Items)
	return s
}

// Activity is the current_activity descriptor for production tasks.
type Activity struct {
	Type             ActionType    `json:"type"`
	ItemID           string        `json:"item_id"`
	Skill            string        `json:"skill"`
	ActionsRemaining int           `json:"actions_remaining"`
	ActionsDone      int           `json:"actions_done"`
	Duration         time.Duration `json:"duration"`
	NextActionAt     time.Time     `json:"next_action_at"`
	StartedAt        time.Time     `json:"started_at"`
	Session          SessionTotals `json:"session"`
}

// Validate rejects descriptors a tick cannot safely resume
func (a *Activity) Validate() error {
	switch {
	case !a.Type.Valid():
		return &InvariantViolation{Subject: "activity", Detail: fmt.Sprintf("action type %q", a.Type)}
	case a.ItemID == "":
		return &InvariantViolation{Subject: "activity", Detail: "empty item id"}
	case a.Duration <= 0:
		return &InvariantViolation{Subject: "activity", Detail: "non-positive duration"}
	case a.ActionsRemaining < 0:
		return &InvariantViolation{Subject: "activity", Detail: "negative actions remaining"}
	}
	return nil
}

// CombatState is one fight against a single monster.
// Respawn is false when the fight belongs to a dungeon wave.
type CombatState struct {
	MobID        string `json:"mob_id"`
	MobName      string `json:"mob_name"`
	MobTier      int    `json:"mob_tier"`
	MobHealth    int64  `json:"mob_health"`
	MobMaxHealth int64  `json:"mob_max_health"`
	MobDamage    int64  `json:"mob_damage"`
	MobDefense   int64  `json:"mob_defense"`
	// MobScale is the multiplier applied to the catalog monster
	MobScale          float64       `json:"mob_scale"`
	MobAttackInterval time.Duration `json:"mob_attack_interval"`
	MobNextAttackAt   time.Time     `json:"mob_next_attack_at"`

	PlayerHealth         int64         `json:"player_health"`
	PlayerMaxHealth      int64         `json:"player_max_health"`
	PlayerAttackInterval time.Duration `json:"player_attack_interval"`
	PlayerNextAttackAt   time.Time     `json:"player_next_attack_at"`

	Respawn        bool          `json:"respawn"`
	Kills          int           `json:"kills"`
	Session        SessionTotals `json:"session"`
	TotalPlayerDmg int64         `json:"total_player_dmg"`
	TotalMobDmg    int64         `json:"total_mob_dmg"`
	StartedAt      time.Time     `json:"started_at"`
}

// Validate rejects fights a tick cannot safely resume
func (c *CombatState) Validate() error {
	switch {
	case c.MobID == "":
		return &InvariantViolation{Subject: "combat", Detail: "empty monster id"}
	case c.PlayerHealth < 0 || c.MobHealth < 0:
		return &InvariantViolation{Subject: "combat", Detail: "negative health"}
	case c.PlayerAttackInterval <= 0 || c.MobAttackInterval <= 0:
		return &InvariantViolation{Subject: "combat", Detail: "non-positive attack interval"}
	case c.MobMaxHealth <= 0 || c.PlayerMaxHealth <= 0:
		return &InvariantViolation{Subject: "combat", Detail: "non-positive max health"}
	}
	return nil
}

// Clone deep-copies the combat state; nil stays nil
func (c *CombatState) Clone() *CombatState {
	if c == nil {
		return nil
	}
	out := *c
	out.Session = cloneTotals(c.Session)
	return &out
}

// DungeonPhase is the state of a dungeon run
type DungeonPhase string

const (
	DungeonPreparing       DungeonPhase = "PREPARING"
	DungeonWaitingNextWave DungeonPhase = "WAITING_NEXT_WAVE"
	DungeonFighting        DungeonPhase = "FIGHTING"
	DungeonWalking         DungeonPhase = "WALKING"
	DungeonBossFight       DungeonPhase = "BOSS_FIGHT"
	DungeonCompleted       DungeonPhase = "COMPLETED"
	DungeonFailed          DungeonPhase = "FAILED"
	DungeonAbandoned       DungeonPhase = "ABANDONED"
)

// Terminal reports whether the phase ends a run
func (p DungeonPhase) Terminal() bool {
	return p == DungeonCompleted || p == DungeonFailed || p == DungeonAbandoned
}

// DungeonRun is an active dungeon. Combat is set only while a wave is being fought.
type DungeonRun struct {
	DungeonID        string        `json:"dungeon_id"`
	Phase            DungeonPhase  `json:"phase"`
	Wave             int           `json:"wave"`
	TotalWaves       int           `json:"total_waves"`
	Combat           *CombatState  `json:"combat,omitempty"`
	NextEventAt      time.Time     `json:"next_event_at"`
	StartedAt        time.Time     `json:"started_at"`
	RunStartedAt     time.Time     `json:"run_started_at"`
	RepeatsRemaining int           `json:"repeats_remaining"`
	RunsCompleted    int           `json:"runs_completed"`
	Session          SessionTotals `json:"session"`
}

// DueAt returns when the run needs its next step
func (d *DungeonRun) DueAt() time.Time {
	if (d.Phase == DungeonFighting || d.Phase == DungeonBossFight) && d.Combat != nil {
		return d.Combat.PlayerNextAttackAt
	}
	return d.NextEventAt
}

// Validate rejects runs a tick cannot safely resume
func (d *DungeonRun) Validate() error {
	switch {
	case d.DungeonID == "":
		return &InvariantViolation{Subject: "dungeon", Detail: "empty dungeon id"}
	case d.TotalWaves <= 0 || d.Wave < 1 || d.Wave > d.TotalWaves:
		return &InvariantViolation{Subject: "dungeon", Detail: fmt.Sprintf("wave %d of %d", d.Wave, d.TotalWaves)}
	case d.Phase.Terminal():
		return &InvariantViolation{Subject: "dungeon", Detail: "terminal phase left installed"}
	case (d.Phase == DungeonFighting || d.Phase == DungeonBossFight) && d.Combat == nil:
		return &InvariantViolation{Subject: "dungeon", Detail: "fighting without combat"}
	}
	if d.Combat != nil {
		if d.Combat.Respawn {
			return &InvariantViolation{Subject: "dungeon", Detail: "wave combat set to respawn"}
		}
		return d.Combat.Validate()
	}
	return nil
}
