package domain

import "time"

// ActionType is the kind of production an activity performs
type ActionType string

const (
	ActionGathering ActionType = "GATHERING"
	ActionRefining  ActionType = "REFINING"
	ActionCrafting  ActionType = "CRAFTING"
)

// Valid reports whether the action type is one of the known values
func (a ActionType) Valid() bool {
	switch a {
	case ActionGathering, ActionRefining, ActionCrafting:
		return true
	}
	return false
}

// ItemType classifies catalog items
type ItemType string

const (
	ItemTypeResource   ItemType = "resource"
	ItemTypeRefined    ItemType = "refined"
	ItemTypeEquipment  ItemType = "equipment"
	ItemTypeConsumable ItemType = "consumable"
	ItemTypeDungeonKey ItemType = "dungeon_key"
	ItemTypeCrest      ItemType = "crest"
)

// Slot is an equipment slot name
type Slot string

const (
	SlotWeapon    Slot = "weapon"
	SlotOffhand   Slot = "offhand"
	SlotHead      Slot = "head"
	SlotChest     Slot = "chest"
	SlotLegs      Slot = "legs"
	SlotBoots     Slot = "boots"
	SlotGloves    Slot = "gloves"
	SlotTool      Slot = "tool"
	SlotAccessory Slot = "accessory"
)

// Skill keys
const (
	SkillMining      = "mining"
	SkillWoodcutting = "woodcutting"
	SkillFishing     = "fishing"
	SkillHerbalism   = "herbalism"
	SkillSmelting    = "smelting"
	SkillWoodworking = "woodworking"
	SkillCooking     = "cooking"
	SkillSmithing    = "smithing"
	SkillTailoring   = "tailoring"
	SkillCombat      = "combat"
)

// Stats is the stat block of an item or the summed stats of a loadout.
type Stats struct {
	Damage       float64 `json:"damage,omitempty"`
	Defense      float64 `json:"defense,omitempty"`
	Health       float64 `json:"health,omitempty"`
	Strength     float64 `json:"strength,omitempty"`
	Agility      float64 `json:"agility,omitempty"`
	Intelligence float64 `json:"intelligence,omitempty"`
	ItemPower    float64 `json:"item_power,omitempty"`
	// AttackIntervalMs is only meaningful on weapons
	AttackIntervalMs int     `json:"attack_interval_ms,omitempty"`
	Efficiency       float64 `json:"efficiency,omitempty"`
	QualityBonus     float64 `json:"quality_bonus,omitempty"`
	XPBonus          float64 `json:"xp_bonus,omitempty"`
	SilverBonus      float64 `json:"silver_bonus,omitempty"`
	DropBonus        float64 `json:"drop_bonus,omitempty"`
}

// Add sums two stat blocks. The attack interval is not additive and is left untouched.
func (s Stats) Add(o Stats) Stats {
	s.Damage += o.Damage
	s.Defense += o.Defense
	s.Health += o.Health
	s.Strength += o.Strength
	s.Agility += o.Agility
	s.Intelligence += o.Intelligence
	s.ItemPower += o.ItemPower
	s.Efficiency += o.Efficiency
	s.QualityBonus += o.QualityBonus
	s.XPBonus += o.XPBonus
	s.SilverBonus += o.SilverBonus
	s.DropBonus += o.DropBonus
	return s
}

// Scale multiplies every additive stat by m
func (s Stats) Scale(m float64) Stats {
	return Stats{
		Damage:           s.Damage * m,
		Defense:          s.Defense * m,
		Health:           s.Health * m,
		Strength:         s.Strength * m,
		Agility:          s.Agility * m,
		Intelligence:     s.Intelligence * m,
		ItemPower:        s.ItemPower * m,
		AttackIntervalMs: s.AttackIntervalMs,
		Efficiency:       s.Efficiency * m,
		QualityBonus:     s.QualityBonus * m,
		XPBonus:          s.XPBonus * m,
		SilverBonus:      s.SilverBonus * m,
		DropBonus:        s.DropBonus * m,
	}
}

// Quality is the crafted rarity roll, Normal through Masterpiece
type Quality int

const (
	QualityNormal      Quality = 1
	QualityGood        Quality = 2
	QualityOutstanding Quality = 3
	QualityExcellent   Quality = 4
	QualityMasterpiece Quality = 5
)

var qualityNames = map[Quality]string{
	QualityNormal:      "Normal",
	QualityGood:        "Good",
	QualityOutstanding: "Outstanding",
	QualityExcellent:   "Excellent",
	QualityMasterpiece: "Masterpiece",
}

var qualityMultipliers = map[Quality]float64{
	QualityNormal:      1.00,
	QualityGood:        1.10,
	QualityOutstanding: 1.25,
	QualityExcellent:   1.45,
	QualityMasterpiece: 1.75,
}

// String returns the display name
func (q Quality) String() string {
	if n, ok := qualityNames[q]; ok {
		return n
	}
	return qualityNames[QualityNormal]
}

// Multiplier returns the stat multiplier for the quality tier
func (q Quality) Multiplier() float64 {
	if m, ok := qualityMultipliers[q]; ok {
		return m
	}
	return 1.0
}

// Valid reports whether q is a known tier
func (q Quality) Valid() bool {
	_, ok := qualityNames[q]
	return ok
}

// ItemSnapshot is a fully resolved item, including quality-adjusted stats.
// Equipment slots store snapshots so later catalog edits do not alter worn gear.
type ItemSnapshot struct {
	ID      string   `json:"id"`
	BaseID  string   `json:"base_id"`
	Name    string   `json:"name"`
	Type    ItemType `json:"type"`
	Tier    int      `json:"tier"`
	Slot    Slot     `json:"slot,omitempty"`
	Quality Quality  `json:"quality"`
	Stats   Stats    `json:"stats"`
}

// SessionTotals accumulates rewards over an activity, fight or run.
type SessionTotals struct {
	Steps  int              `json:"steps"`
	XP     int64            `json:"xp"`
	Silver int64            `json:"silver"`
	Items  map[string]int64 `json:"items,omitempty"`
}

// AddItems accumulates item gains
func (s *SessionTotals) AddItems(items map[string]int64) {
	for id, qty := range items {
		if qty <= 0 {
			continue
		}
		if s.Items == nil {
			s.Items = make(map[string]int64)
		}
		s.Items[id] += qty
	}
}

// Merge adds another session's totals
func (s *SessionTotals) Merge(o SessionTotals) {
	s.Steps += o.Steps
	s.XP += o.XP
	s.Silver += o.Silver
	s.AddItems(o.Items)
}

// SessionSummary is recorded when a task ends for any reason.
// Combat and dungeon summaries are also written to the log store.
type SessionSummary struct {
	Kind     TaskKind      `json:"kind"`
	Target   string        `json:"target"`
	Reason   string        `json:"reason"`
	Totals   SessionTotals `json:"totals"`
	Duration time.Duration `json:"duration"`
	EndedAt  time.Time     `json:"ended_at"`

	Kills        int   `json:"kills,omitempty"`
	PlayerDamage int64 `json:"player_damage,omitempty"`
	MobDamage    int64 `json:"mob_damage,omitempty"`
	Waves        int   `json:"waves,omitempty"`
}

// Summary reasons
const (
	ReasonCompleted = "completed"
	ReasonStopped   = "stopped"
	ReasonFled      = "fled"
	ReasonDefeated  = "defeated"
	ReasonTimeout   = "timeout"
	ReasonAbandoned = "abandoned"
	ReasonFailed    = "failed"
)
