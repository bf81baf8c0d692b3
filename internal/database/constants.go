package database

// Database Connection Pool Constants
const (
	// DefaultMinConnections is the minimum number of connections to maintain in the pool
	DefaultMinConnections = 2
)

// Migration dialects
const (
	DialectPostgres = "postgres"
	DialectSQLite   = "sqlite"
)

// Error Messages - Database Operations
const (
	ErrMsgFailedToParseConnString   = "failed to parse connection string"
	ErrMsgFailedToCreatePool        = "failed to create connection pool"
	ErrMsgFailedToPingDatabase      = "failed to ping database"
	ErrMsgUnsupportedDialect        = "unsupported migration dialect"
	ErrMsgFailedToLoadMigrations    = "failed to load migrations"
	ErrMsgFailedToApplyMigrations   = "failed to apply migrations"
	ErrMsgFailedToReadSchemaVersion = "failed to read schema version"
)

// Log Messages
const (
	LogMsgSuccessfullyConnectedToDatabase = "Successfully connected to the database"
	LogMsgMigrationApplied                = "Applied migration"
	LogMsgMigrationsUpToDate              = "Database schema up to date"
)
