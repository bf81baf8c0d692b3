package realtime

import "time"

// Buffer sizes
const (
	// BroadcastBufferSize is the buffer size for the broadcast channel
	BroadcastBufferSize = 256

	// ClientEventBuffer is the buffer size for each client's event channel
	ClientEventBuffer = 64
)

// Connection settings
const (
	// KeepaliveInterval is how often SSE keepalives and WebSocket pings are sent
	KeepaliveInterval = 30 * time.Second

	// WriteTimeout is the timeout for writing to client connections
	WriteTimeout = 10 * time.Second

	// PongWait is how long a WebSocket may stay silent before it is dropped
	PongWait = 2 * KeepaliveInterval

	// MaxMessageSize bounds inbound WebSocket frames; clients only send pongs
	MaxMessageSize = 1024
)

// Transports
const (
	TransportSSE       = "sse"
	TransportWebSocket = "websocket"
)

// Control message types
const (
	EventTypeConnected = "connected"
	EventTypeKeepalive = "keepalive"
)

// QueryParamOwner names the owner a realtime client subscribes to
const QueryParamOwner = "owner"

// DefaultSubjectPrefix is the NATS subject prefix used when none is configured
const DefaultSubjectPrefix = "idlerealm"

// Error messages
const (
	ErrMsgOwnerRequired        = "owner query parameter is required"
	ErrMsgStreamingUnsupported = "streaming not supported"
	ErrMsgResumeFailed         = "failed to start session"
	ErrMsgCharacterMissing     = "character not found"
)

// Log messages
const (
	LogMsgClientConnected    = "Realtime client connected"
	LogMsgClientDisconnected = "Realtime client disconnected"
	LogMsgBroadcastDropped   = "Realtime broadcast buffer full, event dropped"
	LogMsgClientLagging      = "Realtime client buffer full, event dropped"
	LogMsgWriteError         = "Failed to write realtime event"
	LogMsgUpgradeFailed      = "WebSocket upgrade failed"
	LogMsgDisconnectFailed   = "Failed to disconnect character after last client left"
	LogMsgNATSPublishFailed  = "Failed to publish event to NATS"
	LogMsgNATSDisconnected   = "NATS connection lost"
	LogMsgNATSReconnected    = "NATS connection restored"
	LogMsgNATSConnected      = "Connected to NATS"
)
