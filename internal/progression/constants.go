package progression

// XP curve constants
const (
	// BaseXP is the XP needed to advance from level 1 to level 2
	BaseXP = 100.0

	// Growth is the geometric factor applied per level: XP(L->L+1) = BaseXP * Growth^(L-1)
	Growth = 1.1

	// MaxLevel is the highest reachable skill level
	MaxLevel = 100
)

// Inventory rules
const (
	// DefaultInventoryCap is the default maximum number of distinct item ids
	DefaultInventoryCap = 50
)

// Per-step safety caps. Every engine clamps its grants with these through Clamp.
const (
	MaxXPPerStep     int64 = 50_000
	MaxSilverPerStep int64 = 1_000_000
	MaxItemsPerStep  int64 = 1_000
	MaxStackQuantity int64 = 1_000_000_000
	MaxSilver        int64 = 1_000_000_000_000
	MaxTotalXP       int64 = 2_000_000_000
	MaxPaymentCredit int64 = 10_000_000
)
