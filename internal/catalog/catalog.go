package catalog

import (
	"fmt"
	"sort"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/osse101/IdleRealm_Go/internal/domain"
)

// Ingredient is one input of a refining or crafting recipe
type Ingredient struct {
	ItemID   string `json:"item_id"`
	Quantity int64  `json:"quantity"`
}

// Item is a static item definition
type Item struct {
	ID          string            `json:"id"`
	Name        string            `json:"name"`
	Type        domain.ItemType   `json:"type"`
	Tier        int               `json:"tier"`
	ActionType  domain.ActionType `json:"action_type,omitempty"`
	Skill       string            `json:"skill,omitempty"`
	BaseTimeSec float64           `json:"base_time_sec,omitempty"`
	BaseXP      int64             `json:"base_xp,omitempty"`
	Ingredients []Ingredient      `json:"ingredients,omitempty"`
	Slot        domain.Slot       `json:"slot,omitempty"`
	Stats       domain.Stats      `json:"stats,omitempty"`
}

// BaseTime returns the unmodified per-action time
func (i *Item) BaseTime() time.Duration {
	return time.Duration(i.BaseTimeSec * float64(time.Second))
}

// Equippable reports whether the item occupies an equipment slot
func (i *Item) Equippable() bool {
	return i.Type == domain.ItemTypeEquipment && i.Slot != ""
}

// LootEntry is one independent drop roll
type LootEntry struct {
	ItemID string  `json:"item_id"`
	Chance float64 `json:"chance"`
	Min    int64   `json:"min"`
	Max    int64   `json:"max"`
}

// Monster is a static monster definition
type Monster struct {
	ID               string      `json:"id"`
	Name             string      `json:"name"`
	Tier             int         `json:"tier"`
	Health           int64       `json:"health"`
	Damage           int64       `json:"damage"`
	Defense          int64       `json:"defense"`
	AttackIntervalMs int         `json:"attack_interval_ms"`
	XP               int64       `json:"xp"`
	SilverMin        int64       `json:"silver_min"`
	SilverMax        int64       `json:"silver_max"`
	Loot             []LootEntry `json:"loot,omitempty"`
}

// AttackInterval returns the monster's own attack cadence
func (m *Monster) AttackInterval() time.Duration {
	return time.Duration(m.AttackIntervalMs) * time.Millisecond
}

// DungeonRewards are granted once per cleared run
type DungeonRewards struct {
	XP        int64            `json:"xp"`
	Silver    int64            `json:"silver"`
	Resources map[string]int64 `json:"resources,omitempty"`
	Crests    map[string]int64 `json:"crests,omitempty"`
}

// Dungeon is a static dungeon definition
type Dungeon struct {
	ID              string         `json:"id"`
	Name            string         `json:"name"`
	Tier            int            `json:"tier"`
	Waves           int            `json:"waves"`
	TrashMonsters   []string       `json:"trash_monsters"`
	Boss            string         `json:"boss"`
	BossMultiplier  float64        `json:"boss_multiplier"`
	EntryItem       string         `json:"entry_item"`
	WalkSeconds     int            `json:"walk_seconds"`
	TimeBudgetHours float64        `json:"time_budget_hours"`
	Rewards         DungeonRewards `json:"rewards"`
}

// WalkDuration returns the pause between waves
func (d *Dungeon) WalkDuration() time.Duration {
	if d.WalkSeconds <= 0 {
		return DefaultWalkDuration
	}
	return time.Duration(d.WalkSeconds) * time.Second
}

// TimeBudget returns the absolute run limit
func (d *Dungeon) TimeBudget() time.Duration {
	if d.TimeBudgetHours <= 0 {
		return DefaultDungeonBudget
	}
	return time.Duration(d.TimeBudgetHours * float64(time.Hour))
}

// WaveMonster returns the monster id and scaling multiplier for a 1-based wave
func (d *Dungeon) WaveMonster(wave int) (string, float64, bool) {
	scale := 1 + float64(wave-1)*WaveScalingStep
	if wave >= d.Waves {
		mult := d.BossMultiplier
		if mult <= 0 {
			mult = DefaultBossMultiplier
		}
		return d.Boss, scale * mult, true
	}
	return d.TrashMonsters[(wave-1)%len(d.TrashMonsters)], scale, false
}

// Catalog is the read-only lookup over static tables. Safe for concurrent use.
type Catalog struct {
	items    map[string]*Item
	monsters map[string]*Monster
	dungeons map[string]*Dungeon
	resolved *lru.Cache[string, domain.ItemSnapshot]
}

func newCatalog(items []*Item, monsters []*Monster, dungeons []*Dungeon) (*Catalog, error) {
	resolved, err := lru.New[string, domain.ItemSnapshot](ResolvedCacheSize)
	if err != nil {
		return nil, fmt.Errorf("create resolved item cache: %w", err)
	}
	c := &Catalog{
		items:    make(map[string]*Item, len(items)),
		monsters: make(map[string]*Monster, len(monsters)),
		dungeons: make(map[string]*Dungeon, len(dungeons)),
		resolved: resolved,
	}
	for _, it := range items {
		if _, dup := c.items[it.ID]; dup {
			return nil, fmt.Errorf("%w: duplicate item %q", ErrInvalidCatalog, it.ID)
		}
		c.items[it.ID] = it
	}
	for _, m := range monsters {
		if _, dup := c.monsters[m.ID]; dup {
			return nil, fmt.Errorf("%w: duplicate monster %q", ErrInvalidCatalog, m.ID)
		}
		c.monsters[m.ID] = m
	}
	for _, d := range dungeons {
		if _, dup := c.dungeons[d.ID]; dup {
			return nil, fmt.Errorf("%w: duplicate dungeon %q", ErrInvalidCatalog, d.ID)
		}
		c.dungeons[d.ID] = d
	}
	return c, nil
}

// LookupItem returns the base item for an id. Quality suffixes are not stripped here; see ResolveItem.
func (c *Catalog) LookupItem(id string) (*Item, error) {
	it, ok := c.items[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrItemNotFound, id)
	}
	return it, nil
}

// LookupMonster returns a monster, checking it belongs to the requested tier.
// A tier of 0 skips the tier check.
func (c *Catalog) LookupMonster(tier int, id string) (*Monster, error) {
	m, ok := c.monsters[id]
	if !ok || (tier != 0 && m.Tier != tier) {
		return nil, fmt.Errorf("%w: tier %d %s", domain.ErrMonsterNotFound, tier, id)
	}
	return m, nil
}

// LookupDungeon returns a dungeon definition
func (c *Catalog) LookupDungeon(id string) (*Dungeon, error) {
	d, ok := c.dungeons[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrDungeonNotFound, id)
	}
	return d, nil
}

// SkillForItem returns the skill trained by producing id with actionType
func (c *Catalog) SkillForItem(id string, actionType domain.ActionType) (string, error) {
	it, err := c.LookupItem(id)
	if err != nil {
		return "", err
	}
	if it.ActionType != actionType || it.Skill == "" {
		return "", fmt.Errorf("%w: %s via %s", domain.ErrWrongActionType, id, actionType)
	}
	return it.Skill, nil
}

// LevelRequirement is the skill level needed for a tier
func LevelRequirement(tier int) int {
	if tier <= 1 {
		return 1
	}
	return (tier - 1) * 10
}

// Items returns every item sorted by tier then id
func (c *Catalog) Items() []*Item {
	out := make([]*Item, 0, len(c.items))
	for _, it := range c.items {
		out = append(out, it)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Tier != out[j].Tier {
			return out[i].Tier < out[j].Tier
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// Monsters returns every monster sorted by tier then id
func (c *Catalog) Monsters() []*Monster {
	out := make([]*Monster, 0, len(c.monsters))
	for _, m := range c.monsters {
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Tier != out[j].Tier {
			return out[i].Tier < out[j].Tier
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// Dungeons returns every dungeon sorted by tier then id
func (c *Catalog) Dungeons() []*Dungeon {
	out := make([]*Dungeon, 0, len(c.dungeons))
	for _, d := range c.dungeons {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Tier != out[j].Tier {
			return out[i].Tier < out[j].Tier
		}
		return out[i].ID < out[j].ID
	})
	return out
}
