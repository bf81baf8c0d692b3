package config

// Store drivers
const (
	StoreDriverMemory   = "memory"
	StoreDriverSQLite   = "sqlite"
	StoreDriverPostgres = "postgres"
)

// Environments
const (
	EnvironmentDev  = "dev"
	EnvironmentProd = "prod"
)

// Log formats
const (
	LogFormatJSON = "json"
	LogFormatText = "text"
)

// Error messages
const (
	ErrMsgParseEnv          = "parse env: %w"
	ErrMsgUnknownDriver     = "unknown STORE_DRIVER %q (want memory, sqlite or postgres)"
	ErrMsgUnknownLogFormat  = "unknown LOG_FORMAT %q (want json or text)"
	ErrMsgNonPositive       = "%s must be positive"
	ErrMsgDriftBelowTick    = "TICK_DRIFT_THRESHOLD (%s) must not be below TICK_INTERVAL (%s)"
	ErrMsgPostgresMissing   = "postgres driver requires %s"
	ErrMsgAPIKeyRequired    = "API_KEY must be set when ENVIRONMENT=prod"
	ErrMsgSQLitePathMissing = "sqlite driver requires SQLITE_PATH"
)
