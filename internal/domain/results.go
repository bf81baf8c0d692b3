package domain

import "time"

// LevelUp records a skill level change caused by an XP grant
type LevelUp struct {
	Skill string `json:"skill"`
	From  int    `json:"from"`
	To    int    `json:"to"`
}

// CombatUpdate describes one combat round
type CombatUpdate struct {
	MobID           string           `json:"mob_id"`
	MobHealth       int64            `json:"mob_health"`
	MobMaxHealth    int64            `json:"mob_max_health"`
	PlayerHealth    int64            `json:"player_health"`
	PlayerMaxHealth int64            `json:"player_max_health"`
	PlayerDamage    int64            `json:"player_damage"`
	MobDamage       int64            `json:"mob_damage,omitempty"`
	Killed          bool             `json:"killed,omitempty"`
	Defeated        bool             `json:"defeated,omitempty"`
	XP              int64            `json:"xp,omitempty"`
	Silver          int64            `json:"silver,omitempty"`
	Loot            map[string]int64 `json:"loot,omitempty"`
}

// DungeonUpdate describes the run after a step
type DungeonUpdate struct {
	DungeonID  string       `json:"dungeon_id"`
	Phase      DungeonPhase `json:"phase"`
	Wave       int          `json:"wave"`
	TotalWaves int          `json:"total_waves"`
	Repeating  bool         `json:"repeating,omitempty"`
}

// ActionResult is the outcome of one engine step or user action.
type ActionResult struct {
	Success       bool             `json:"success"`
	Message       string           `json:"message"`
	LeveledUp     []LevelUp        `json:"leveledUp,omitempty"`
	Items         map[string]int64 `json:"items,omitempty"`
	XP            map[string]int64 `json:"xp,omitempty"`
	Silver        int64            `json:"silver,omitempty"`
	CombatUpdate  *CombatUpdate    `json:"combatUpdate,omitempty"`
	DungeonUpdate *DungeonUpdate   `json:"dungeonUpdate,omitempty"`
	// Finished is set when the step ended the task
	Finished bool      `json:"finished,omitempty"`
	At       time.Time `json:"at"`

	// Summaries are the session logs closed by this step
	Summaries []SessionSummary `json:"-"`
}

// AddItem records an item gain on the result
func (r *ActionResult) AddItem(id string, qty int64) {
	if qty <= 0 {
		return
	}
	if r.Items == nil {
		r.Items = make(map[string]int64)
	}
	r.Items[id] += qty
}

// AddXP records an XP gain on the result
func (r *ActionResult) AddXP(skill string, amount int64) {
	if amount <= 0 {
		return
	}
	if r.XP == nil {
		r.XP = make(map[string]int64)
	}
	r.XP[skill] += amount
}

// OfflineReport aggregates everything replayed by a catch-up batch.
// It is attached to the character once and cleared after delivery.
type OfflineReport struct {
	Task      TaskKind         `json:"task"`
	Steps     int              `json:"steps"`
	Simulated time.Duration    `json:"simulated"`
	From      time.Time        `json:"from"`
	To        time.Time        `json:"to"`
	Items     map[string]int64 `json:"items,omitempty"`
	XP        map[string]int64 `json:"xp,omitempty"`
	Silver    int64            `json:"silver,omitempty"`
	LeveledUp []LevelUp        `json:"leveledUp,omitempty"`
	Stopped   string           `json:"stopped,omitempty"`
}

// Absorb folds one step result into the report
func (r *OfflineReport) Absorb(res ActionResult) {
	r.Steps++
	for id, qty := range res.Items {
		if r.Items == nil {
			r.Items = make(map[string]int64)
		}
		r.Items[id] += qty
	}
	for skill, xp := range res.XP {
		if r.XP == nil {
			r.XP = make(map[string]int64)
		}
		r.XP[skill] += xp
	}
	r.Silver += res.Silver
	r.LeveledUp = append(r.LeveledUp, res.LeveledUp...)
	if !res.Success {
		r.Stopped = res.Message
	}
}

// Clone deep-copies the report
func (r OfflineReport) Clone() OfflineReport {
	r.Items = copyCounts(r.Items)
	r.XP = copyCounts(r.XP)
	r.LeveledUp = append([]LevelUp(nil), r.LeveledUp...)
	return r
}

// StatusSnapshot is the full status_update payload.
type StatusSnapshot struct {
	CharacterID     string       `json:"character_id"`
	OwnerID         string       `json:"owner_id"`
	Name            string       `json:"name"`
	State           State        `json:"state"`
	TaskKind        TaskKind     `json:"task"`
	CurrentActivity *Activity    `json:"current_activity"`
	Combat          *CombatState `json:"combat"`
	DungeonState    *DungeonRun  `json:"dungeon_state"`
	ServerTime      time.Time    `json:"serverTime"`
}

// Snapshot builds the status payload from a character copy
func (c *Character) Snapshot(now time.Time) StatusSnapshot {
	cp := c.Clone()
	return StatusSnapshot{
		CharacterID:     cp.ID,
		OwnerID:         cp.OwnerID,
		Name:            cp.Name,
		State:           cp.State,
		TaskKind:        cp.Task.Kind,
		CurrentActivity: cp.Task.Activity,
		Combat:          cp.Task.Combat,
		DungeonState:    cp.Task.Dungeon,
		ServerTime:      now,
	}
}

// Merge folds another batch into the report. The window widens to cover both.
func (r *OfflineReport) Merge(o OfflineReport) {
	if r.Steps == 0 && r.From.IsZero() {
		*r = o.Clone()
		return
	}
	r.Steps += o.Steps
	r.Simulated += o.Simulated
	if !o.From.IsZero() && o.From.Before(r.From) {
		r.From = o.From
	}
	if o.To.After(r.To) {
		r.To = o.To
	}
	for id, qty := range o.Items {
		if r.Items == nil {
			r.Items = make(map[string]int64)
		}
		r.Items[id] += qty
	}
	for skill, xp := range o.XP {
		if r.XP == nil {
			r.XP = make(map[string]int64)
		}
		r.XP[skill] += xp
	}
	r.Silver += o.Silver
	r.LeveledUp = append(r.LeveledUp, o.LeveledUp...)
	if o.Task != "" {
		r.Task = o.Task
	}
	if o.Stopped != "" {
		r.Stopped = o.Stopped
	}
}

// AttachOfflineReport merges a catch-up report into any undelivered one
func (s *State) AttachOfflineReport(r OfflineReport) {
	if r.Steps == 0 {
		return
	}
	if s.OfflineReport == nil {
		cp := r.Clone()
		s.OfflineReport = &cp
		return
	}
	s.OfflineReport.Merge(r)
}

// TakeOfflineReport returns the pending report and clears it, so it is delivered once
func (s *State) TakeOfflineReport() *OfflineReport {
	r := s.OfflineReport
	s.OfflineReport = nil
	return r
}
