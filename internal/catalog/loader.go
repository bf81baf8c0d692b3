package catalog

import (
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/osse101/IdleRealm_Go/internal/domain"
	"github.com/osse101/IdleRealm_Go/internal/validation"
)

//go:embed data/*.json
var defaultData embed.FS

//go:embed schema/*.schema.json
var schemaData embed.FS

// LoadDefault loads the tables compiled into the binary
func LoadDefault() (*Catalog, error) {
	sub, err := fs.Sub(defaultData, "data")
	if err != nil {
		return nil, fmt.Errorf("open embedded catalog: %w", err)
	}
	return Load(sub)
}

// LoadDir loads tables from a directory on disk
func LoadDir(path string) (*Catalog, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("catalog path %s: %w", path, err)
	}
	return Load(os.DirFS(path))
}

// Load reads items.json, monsters.json and dungeons.json from fsys, checks
// each against its JSON schema and then validates cross references
func Load(fsys fs.FS) (*Catalog, error) {
	schemas, err := fs.Sub(schemaData, "schema")
	if err != nil {
		return nil, fmt.Errorf("open embedded schemas: %w", err)
	}
	v := validation.NewSchemaValidator(schemas)

	var items []*Item
	if err := readJSON(fsys, v, ItemsFile, &items); err != nil {
		return nil, err
	}
	var monsters []*Monster
	if err := readJSON(fsys, v, MonstersFile, &monsters); err != nil {
		return nil, err
	}
	var dungeons []*Dungeon
	if err := readJSON(fsys, v, DungeonsFile, &dungeons); err != nil {
		return nil, err
	}

	return New(items, monsters, dungeons)
}

// New builds a validated catalog from in-memory tables
func New(items []*Item, monsters []*Monster, dungeons []*Dungeon) (*Catalog, error) {
	c, err := newCatalog(items, monsters, dungeons)
	if err != nil {
		return nil, err
	}
	if err := c.validate(); err != nil {
		return nil, err
	}
	return c, nil
}

func readJSON(fsys fs.FS, v validation.SchemaValidator, name string, dst any) error {
	data, err := fs.ReadFile(fsys, name)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", name, err)
	}
	if err := v.ValidateBytes(data, schemaFor(name)); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrInvalidCatalog, name, err)
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return fmt.Errorf("failed to parse %s: %w", name, err)
	}
	return nil
}

// schemaFor maps "items.json" to "items.schema.json"
func schemaFor(name string) string {
	return strings.TrimSuffix(name, ".json") + SchemaSuffix
}

func (c *Catalog) validate() error {
	for _, it := range c.items {
		if err := c.validateItem(it); err != nil {
			return err
		}
	}
	for _, m := range c.monsters {
		if err := c.validateMonster(m); err != nil {
			return err
		}
	}
	for _, d := range c.dungeons {
		if err := c.validateDungeon(d); err != nil {
			return err
		}
	}
	return nil
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidCatalog, fmt.Sprintf(format, args...))
}

func (c *Catalog) missing(kind, id, owner string) error {
	return fmt.Errorf("%w: %s references %w", ErrInvalidCatalog, owner, &domain.FatalConfigError{Kind: kind, ID: id})
}

func (c *Catalog) validateItem(it *Item) error {
	if it.ID == "" {
		return invalid("item with empty id")
	}
	if it.Tier < MinTier || it.Tier > MaxTier {
		return invalid("item %s tier %d out of range", it.ID, it.Tier)
	}
	if it.ActionType != "" {
		if !it.ActionType.Valid() {
			return invalid("item %s has unknown action type %q", it.ID, it.ActionType)
		}
		if it.Skill == "" || it.BaseTimeSec <= 0 {
			return invalid("item %s needs a skill and a positive base time", it.ID)
		}
		if it.ActionType != domain.ActionGathering && len(it.Ingredients) == 0 {
			return invalid("item %s is %s but has no ingredients", it.ID, it.ActionType)
		}
	}
	for _, ing := range it.Ingredients {
		if ing.Quantity <= 0 {
			return invalid("item %s ingredient %s has non-positive quantity", it.ID, ing.ItemID)
		}
		if _, ok := c.items[ing.ItemID]; !ok {
			return c.missing("item", ing.ItemID, "item "+it.ID)
		}
	}
	if it.Type == domain.ItemTypeEquipment && it.Slot == "" {
		return invalid("equipment %s has no slot", it.ID)
	}
	return nil
}

func (c *Catalog) validateMonster(m *Monster) error {
	switch {
	case m.ID == "":
		return invalid("monster with empty id")
	case m.Tier < MinTier || m.Tier > MaxTier:
		return invalid("monster %s tier %d out of range", m.ID, m.Tier)
	case m.Health <= 0:
		return invalid("monster %s has non-positive health", m.ID)
	case m.Damage < 0 || m.Defense < 0:
		return invalid("monster %s has negative damage or defense", m.ID)
	case m.AttackIntervalMs <= 0:
		return invalid("monster %s has non-positive attack interval", m.ID)
	case m.SilverMin < 0 || m.SilverMin > m.SilverMax:
		return invalid("monster %s silver range [%d,%d]", m.ID, m.SilverMin, m.SilverMax)
	}
	for _, l := range m.Loot {
		if l.Chance < 0 || l.Chance > 1 || l.Min <= 0 || l.Min > l.Max {
			return invalid("monster %s loot %s is malformed", m.ID, l.ItemID)
		}
		if _, ok := c.items[l.ItemID]; !ok {
			return c.missing("item", l.ItemID, "monster "+m.ID)
		}
	}
	return nil
}

func (c *Catalog) validateDungeon(d *Dungeon) error {
	switch {
	case d.ID == "":
		return invalid("dungeon with empty id")
	case d.Waves < 1:
		return invalid("dungeon %s needs at least one wave", d.ID)
	case d.Waves > 1 && len(d.TrashMonsters) == 0:
		return invalid("dungeon %s has no trash monsters", d.ID)
	}
	for _, id := range d.TrashMonsters {
		if _, ok := c.monsters[id]; !ok {
			return c.missing("monster", id, "dungeon "+d.ID)
		}
	}
	if _, ok := c.monsters[d.Boss]; !ok {
		return c.missing("monster", d.Boss, "dungeon "+d.ID)
	}
	if _, ok := c.items[d.EntryItem]; !ok {
		return c.missing("item", d.EntryItem, "dungeon "+d.ID)
	}
	for id := range d.Rewards.Resources {
		if _, ok := c.items[id]; !ok {
			return c.missing("item", id, "dungeon "+d.ID)
		}
	}
	for id := range d.Rewards.Crests {
		if _, ok := c.items[id]; !ok {
			return c.missing("item", id, "dungeon "+d.ID)
		}
	}
	return nil
}
