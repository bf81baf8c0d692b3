package store

// Error Messages
const (
	ErrMsgEncodeState  = "failed to encode character state"
	ErrMsgEncodeTask   = "failed to encode current activity"
	ErrMsgDecodeState  = "failed to decode character state"
	ErrMsgDecodeTask   = "failed to decode current activity"
	ErrMsgMigrateState = "failed to migrate character state"
	ErrMsgEncodeItems  = "failed to encode log items"
)

// Log Messages
const (
	LogMsgTaskDroppedOnLoad = "Dropping unreadable current activity on load"
)
