package combat

import "time"

// Player stat derivation
const (
	BaseMaxHealth      = 100
	HealthPerLevel     = 5
	BaseDamage         = 5.0
	AgilityWeight      = 0.5
	IntelligenceWeight = 0.5
	// ItemPowerDivisor turns weapon IP into a damage multiplier, 1000 IP doubles damage
	ItemPowerDivisor = 1000.0
	DamagePerLevel   = 0.02
)

// DefaultAttackInterval is used by unarmed players and monsters without a cadence
const DefaultAttackInterval = 2000 * time.Millisecond

// MitigationScale is the defense at which half of incoming damage is absorbed
const MitigationScale = 100.0

// MaxMobHitsPerRound bounds how many overdue monster attacks one round resolves
const MaxMobHitsPerRound = 10

// Messages
const (
	MsgHit      = "You hit %s for %d"
	MsgKilled   = "Defeated %s"
	MsgDefeated = "You were defeated by %s"
	MsgFled     = "Fled from %s after %d kills"
	MsgReset    = "Combat was reset"
)
