package activity

import "time"

// Activity limits
const (
	// MaxActivityDuration is the ceiling for perActionTime * quantity
	MaxActivityDuration = 12 * time.Hour

	// MinActionTime floors the efficiency-reduced per-action time
	MinActionTime = 500 * time.Millisecond

	// MaxActivityQuantity bounds a single start request
	MaxActivityQuantity = 100_000

	// MaxEfficiency caps the total efficiency percentage
	MaxEfficiency = 75.0

	// EfficiencyPerLevel is the efficiency gained per skill level above the requirement
	EfficiencyPerLevel = 0.5
)

// Result messages
const (
	MsgGathered        = "Gathered %s"
	MsgProduced        = "Produced %s"
	MsgCompleted       = "Finished %s: %d actions"
	MsgInventoryFull   = "Inventory Full"
	MsgMissingMaterial = "Not enough materials for %s"
	MsgStopped         = "Stopped %s after %d actions"
	MsgInvalidState    = "Activity was reset"
)
