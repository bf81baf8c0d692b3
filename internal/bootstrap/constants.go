package bootstrap

// =============================================================================
// File System Permissions
// =============================================================================

const (
	// DirPermission is the standard permission for creating directories
	DirPermission = 0755

	// LogFilePermission is the permission for log files
	LogFilePermission = 0666
)

// =============================================================================
// Logger Configuration
// =============================================================================

const (
	// LogFileTimestampFormat is the timestamp format for log filenames (YYYY-MM-DD_HH-MM-SS)
	LogFileTimestampFormat = "2006-01-02_15-04-05"

	// LogFileNamePattern is the format string for log filenames
	LogFileNamePattern = "session_%s.log"

	// LogFileExtension is the file extension for log files
	LogFileExtension = ".log"

	// LogFileRetentionCount is the number of older log files kept next to the new one
	LogFileRetentionCount = 9
)

// Log messages for logger initialization
const (
	LogMsgLoggingInitialized  = "Logging initialized"
	LogMsgStartingIdleRealm   = "Starting IdleRealm"
	LogMsgConfigurationLoaded = "Configuration loaded"
	ErrMsgFailedCreateLogsDir = "failed to create logs directory"
	ErrMsgFailedOpenLogFile   = "failed to open log file"
	LogMsgFailedDeleteOldLog  = "Failed to delete old log file"
)

// =============================================================================
// Storage
// =============================================================================

const (
	LogMsgStoreOpened          = "Character store opened"
	LogMsgPostgresSchemaReady  = "Postgres schema ready"
	LogMsgMemoryStoreVolatile  = "Memory store selected, characters are lost on restart"
	ErrMsgFailedConnectDB      = "failed to connect to database"
	ErrMsgFailedMigrate        = "failed to run migrations"
	ErrMsgFailedOpenSQLite     = "failed to open sqlite store"
	ErrMsgUnsupportedStoreType = "unsupported store driver"
)

// =============================================================================
// Catalog
// =============================================================================

const (
	LogMsgCatalogLoaded     = "Static catalog loaded"
	ErrMsgFailedLoadCatalog = "failed to load catalog"
	CatalogSourceEmbedded   = "embedded"
)

// =============================================================================
// Event System Configuration
// =============================================================================

// Log messages for event system initialization
const (
	LogMsgEventSystemInitialized         = "Event system initialized"
	ErrMsgFailedCreateDeadLetterDir      = "failed to create dead-letter directory"
	ErrMsgFailedCreateResilientPublisher = "failed to create resilient publisher"
)

// Log messages for event handler registration
const (
	LogMsgMetricsCollectorRegistered = "Metrics collector registered"
	LogMsgRealtimeHubSubscribed      = "Realtime hub subscribed"
	LogMsgNATSBridgeSubscribed       = "NATS bridge subscribed"
	ErrMsgFailedRegisterMetrics      = "failed to register metrics collector"
)

// =============================================================================
// Shutdown Messages
// =============================================================================

const (
	LogMsgShuttingDownServer         = "Shutting down server..."
	LogMsgStoppingHeartbeat          = "Stopping heartbeat..."
	LogMsgFinalFlush                 = "Flushing characters..."
	LogMsgShuttingDownEventPublisher = "Shutting down event publisher..."
	LogMsgServerStopped              = "Server stopped"
	LogMsgServerForcedShutdown       = "Server forced to shutdown"
	LogMsgFinalFlushFailed           = "Final flush left characters unsaved"
	LogMsgResilientPublisherFailed   = "Resilient publisher shutdown failed"
	LogMsgNATSCloseFailed            = "NATS bridge close failed"
	LogMsgStoreCloseFailed           = "Character store close failed"
)
