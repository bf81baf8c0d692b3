package tick

import "time"

// Defaults
const (
	// DefaultDriftThreshold is how far behind a due time may fall before it is snapped to now
	DefaultDriftThreshold = 2 * time.Second
	// DefaultMaxOfflineSteps bounds one catch-up batch for combat and dungeons
	DefaultMaxOfflineSteps = 50_000
	// DefaultMaxOfflineWindow bounds how much absent time a catch-up replays
	DefaultMaxOfflineWindow = 12 * time.Hour
)

// Messages
const (
	MsgTaskReset = "Your current task was reset after an error"
)

// Log messages
const (
	LogMsgStepFailed        = "Engine step failed, task cleared"
	LogMsgStepPanicked      = "Engine step panicked, task cleared"
	LogMsgCatchUpComplete   = "Offline catch-up complete"
	LogMsgHeartbeatOverrun  = "Heartbeat still running, skipping"
	LogMsgHeartbeatDispatch = "Heartbeat dispatched"
	LogMsgOwnerTickFailed   = "Owner tick failed"
	LogMsgLogWriteFailed    = "Failed to write session log"
)
