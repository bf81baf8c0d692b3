package dungeon

// MaxRepeats bounds the pre-committed repeat count of a run
const MaxRepeats = 100

// Messages
const (
	MsgEntered   = "Entered %s"
	MsgWaveSpawn = "Wave %d/%d: %s appears"
	MsgBossSpawn = "Boss wave: %s appears"
	MsgWalking   = "Wave %d cleared, moving on"
	MsgCompleted = "Cleared %s"
	MsgRepeating = "Cleared %s, starting again (%d repeats left)"
	MsgFailed    = "Failed %s: %s"
	MsgAbandoned = "Abandoned %s at wave %d"
	MsgReset     = "Dungeon run was reset"
)
