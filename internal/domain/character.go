package domain

import (
	"time"

	"github.com/google/uuid"
)

// StateVersion is the current shape of the persisted state document.
// Increment when changing State and teach MigrateState the upgrade.
const StateVersion = 2

// MaxNotifications bounds the notification ring
const MaxNotifications = 50

// MaxPaymentReferences bounds the remembered payment references used for dedupe
const MaxPaymentReferences = 100

// Character is the single live character of an owning account.
type Character struct {
	ID      string `json:"id"`
	OwnerID string `json:"owner_id"`
	Name    string `json:"name"`

	State State `json:"state"`
	Task  Task  `json:"current_activity"`

	// ActivityStartedAt is set when the current task began, nil when idle
	ActivityStartedAt *time.Time `json:"activity_started_at,omitempty"`
	// SimulatedAt is the instant through which game time has been simulated.
	// Persisted as last_saved and used as the catch-up anchor.
	SimulatedAt time.Time `json:"last_saved"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewCharacter builds a fresh idle character.
func NewCharacter(ownerID, name string, now time.Time) *Character {
	return &Character{
		ID:          uuid.NewString(),
		OwnerID:     ownerID,
		Name:        name,
		State:       NewState(),
		Task:        IdleTask(),
		SimulatedAt: now,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// SetTask installs a task and stamps ActivityStartedAt accordingly
func (c *Character) SetTask(t Task, now time.Time) {
	c.Task = t
	if t.IsIdle() {
		c.ActivityStartedAt = nil
		return
	}
	started := now
	c.ActivityStartedAt = &started
}

// ClearTask returns the character to idle
func (c *Character) ClearTask() {
	c.Task = IdleTask()
	c.ActivityStartedAt = nil
}

// Clone returns a deep copy safe to hand to another goroutine.
func (c *Character) Clone() *Character {
	if c == nil {
		return nil
	}
	out := *c
	out.State = c.State.Clone()
	out.Task = c.Task.Clone()
	if c.ActivityStartedAt != nil {
		t := *c.ActivityStartedAt
		out.ActivityStartedAt = &t
	}
	return &out
}

// Skill is the stored progress for one skill. XP is the lifetime total.
type Skill struct {
	Level int   `json:"level"`
	XP    int64 `json:"xp"`
}

// Inventory maps item id to quantity. Keys with zero quantity are removed.
type Inventory map[string]int64

// Quantity returns the held amount of an item
func (inv Inventory) Quantity(itemID string) int64 {
	return inv[itemID]
}

// Has reports whether at least qty of itemID is held
func (inv Inventory) Has(itemID string, qty int64) bool {
	return inv[itemID] >= qty
}

// Notification is one entry of the bounded system message ring.
type Notification struct {
	ID      string    `json:"id"`
	Kind    string    `json:"kind"`
	Message string    `json:"message"`
	At      time.Time `json:"at"`
}

// Notification kinds
const (
	NotifyLevelUp        = "level_up"
	NotifyActivityDone   = "activity_done"
	NotifyActivityFailed = "activity_failed"
	NotifyCombatSummary  = "combat_summary"
	NotifyDefeat         = "defeat"
	NotifyDungeon        = "dungeon"
	NotifyPayment        = "payment"
	NotifyClaim          = "claim"
	NotifySystem         = "system"
)

// Claim is a pending delivery awaiting pickup.
type Claim struct {
	ID        string           `json:"id"`
	Source    string           `json:"source"`
	Items     map[string]int64 `json:"items,omitempty"`
	Silver    int64            `json:"silver,omitempty"`
	CreatedAt time.Time        `json:"created_at"`
}

// Claim sources
const (
	ClaimSourceLoot     = "loot_overflow"
	ClaimSourceDungeon  = "dungeon_reward"
	ClaimSourcePayment  = "payment"
	ClaimSourceDelivery = "delivery"
)

// State is the versioned, mutable game document of a character.
type State struct {
	Version       int                   `json:"version"`
	Inventory     Inventory             `json:"inventory"`
	Equipment     map[Slot]ItemSnapshot `json:"equipment"`
	Skills        map[string]Skill      `json:"skills"`
	Silver        int64                 `json:"silver"`
	Claims        []Claim               `json:"claims,omitempty"`
	Notifications []Notification        `json:"notifications,omitempty"`
	OfflineReport *OfflineReport        `json:"offline_report,omitempty"`
	Payments      []string              `json:"payments,omitempty"`
}

// NewState returns an empty state at the current version
func NewState() State {
	return State{
		Version:   StateVersion,
		Inventory: Inventory{},
		Equipment: map[Slot]ItemSnapshot{},
		Skills:    map[string]Skill{},
	}
}

// SkillOf returns the stored skill, defaulting to level 1 with no XP
func (s *State) SkillOf(key string) Skill {
	if sk, ok := s.Skills[key]; ok && sk.Level > 0 {
		return sk
	}
	return Skill{Level: 1}
}

// Notify appends to the notification ring, dropping the oldest entries
func (s *State) Notify(kind, message string, at time.Time) {
	s.Notifications = append(s.Notifications, Notification{
		ID:      uuid.NewString(),
		Kind:    kind,
		Message: message,
		At:      at,
	})
	if over := len(s.Notifications) - MaxNotifications; over > 0 {
		s.Notifications = append([]Notification(nil), s.Notifications[over:]...)
	}
}

// AddClaim queues a pending delivery
func (s *State) AddClaim(source string, items map[string]int64, silver int64, at time.Time) {
	if len(items) == 0 && silver <= 0 {
		return
	}
	s.Claims = append(s.Claims, Claim{
		ID:        uuid.NewString(),
		Source:    source,
		Items:     items,
		Silver:    silver,
		CreatedAt: at,
	})
}

// HasPayment reports whether a payment reference was already applied
func (s *State) HasPayment(reference string) bool {
	for _, ref := range s.Payments {
		if ref == reference {
			return true
		}
	}
	return false
}

// RecordPayment remembers an applied payment reference
func (s *State) RecordPayment(reference string) {
	s.Payments = append(s.Payments, reference)
	if over := len(s.Payments) - MaxPaymentReferences; over > 0 {
		s.Payments = append([]string(nil), s.Payments[over:]...)
	}
}

// Clone deep-copies the state
func (s State) Clone() State {
	out := s
	out.Inventory = make(Inventory, len(s.Inventory))
	for k, v := range s.Inventory {
		out.Inventory[k] = v
	}
	out.Equipment = make(map[Slot]ItemSnapshot, len(s.Equipment))
	for k, v := range s.Equipment {
		out.Equipment[k] = v
	}
	out.Skills = make(map[string]Skill, len(s.Skills))
	for k, v := range s.Skills {
		out.Skills[k] = v
	}
	out.Claims = make([]Claim, len(s.Claims))
	for i, c := range s.Claims {
		c.Items = copyCounts(c.Items)
		out.Claims[i] = c
	}
	out.Notifications = append([]Notification(nil), s.Notifications...)
	out.Payments = append([]string(nil), s.Payments...)
	if s.OfflineReport != nil {
		r := s.OfflineReport.Clone()
		out.OfflineReport = &r
	}
	return out
}

func copyCounts(m map[string]int64) map[string]int64 {
	if m == nil {
		return nil
	}
	out := make(map[string]int64, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// GearStats sums the stat blocks of every equipped item
func (s *State) GearStats() Stats {
	var total Stats
	for _, snap := range s.Equipment {
		total = total.Add(snap.Stats)
	}
	if w, ok := s.Equipment[SlotWeapon]; ok {
		total.AttackIntervalMs = w.Stats.AttackIntervalMs
	}
	return total
}
