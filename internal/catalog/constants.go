package catalog

import (
	"errors"
	"time"
)

// Dungeon defaults used when a definition leaves them unset
const (
	DefaultWalkDuration   = 60 * time.Second
	DefaultDungeonBudget  = 12 * time.Hour
	DefaultBossMultiplier = 2.0
	WaveScalingStep       = 0.1
)

// Tier bounds
const (
	MinTier = 1
	MaxTier = 10
)

// ResolvedCacheSize bounds the memoized quality-variant snapshots
const ResolvedCacheSize = 4096

// QualitySuffix separates an item id from its quality tier, e.g. "iron_sword_q3"
const QualitySuffix = "_q"

// Base quality chances for non-normal tiers, before the quality bonus
const (
	ChanceGood        = 0.20
	ChanceOutstanding = 0.08
	ChanceExcellent   = 0.03
	ChanceMasterpiece = 0.005
	// MaxNonNormalChance keeps Normal reachable whatever the bonus
	MaxNonNormalChance = 0.95
)

// Catalog file names inside the data directory
const (
	ItemsFile    = "items.json"
	MonstersFile = "monsters.json"
	DungeonsFile = "dungeons.json"
)

// SchemaSuffix names the JSON schema checked against each catalog file
const SchemaSuffix = ".schema.json"

// ErrInvalidCatalog is returned when static tables fail validation
var ErrInvalidCatalog = errors.New("invalid catalog")
