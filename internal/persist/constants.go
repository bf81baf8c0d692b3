package persist

import "time"

// DefaultIdleEvictAfter is how long a clean, disconnected character stays cached
const DefaultIdleEvictAfter = 10 * time.Minute

// Log Messages
const (
	LogMsgFlushFailed     = "Failed to flush character"
	LogMsgFlushComplete   = "Flush complete"
	LogMsgEvicted         = "Evicted idle character"
	LogMsgLoadedFromStore = "Loaded character from store"
)
