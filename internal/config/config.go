package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config holds the application configuration
type Config struct {
	Port        int    `env:"PORT" envDefault:"8080"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat   string `env:"LOG_FORMAT" envDefault:"json"`
	LogDir      string `env:"LOG_DIR" envDefault:"logs"`
	Environment string `env:"ENVIRONMENT" envDefault:"dev"`
	Version     string `env:"VERSION" envDefault:"dev"`
	APIKey      string `env:"API_KEY"` // guards the payment webhook

	TrustedProxies []string `env:"TRUSTED_PROXIES" envSeparator:","`

	StoreDriver string `env:"STORE_DRIVER" envDefault:"sqlite"`
	SQLitePath  string `env:"SQLITE_PATH" envDefault:"data/idlerealm.db"`

	DBHost            string        `env:"DB_HOST" envDefault:"localhost"`
	DBPort            string        `env:"DB_PORT" envDefault:"5432"`
	DBUser            string        `env:"DB_USER"`
	DBPassword        string        `env:"DB_PASSWORD"`
	DBName            string        `env:"DB_NAME" envDefault:"idlerealm"`
	DBSSLMode         string        `env:"DB_SSLMODE" envDefault:"disable"`
	DBMaxConns        int           `env:"DB_MAX_CONNS" envDefault:"20"`
	DBMaxConnIdleTime time.Duration `env:"DB_MAX_CONN_IDLE_TIME" envDefault:"5m"`
	DBMaxConnLifetime time.Duration `env:"DB_MAX_CONN_LIFETIME" envDefault:"1h"`

	TickInterval       time.Duration `env:"TICK_INTERVAL" envDefault:"1s"`
	TickDriftThreshold time.Duration `env:"TICK_DRIFT_THRESHOLD" envDefault:"5s"`
	FlushInterval      time.Duration `env:"FLUSH_INTERVAL" envDefault:"30s"`
	IdleEvictAfter     time.Duration `env:"IDLE_EVICT_AFTER" envDefault:"10m"`
	WorkerCount        int           `env:"WORKER_COUNT" envDefault:"8"`
	WorkerQueueSize    int           `env:"WORKER_QUEUE_SIZE" envDefault:"1024"`

	InventoryCap int    `env:"INVENTORY_CAP" envDefault:"50"`
	CatalogPath  string `env:"CATALOG_PATH"`

	NATSURL           string `env:"NATS_URL"`
	NATSSubjectPrefix string `env:"NATS_SUBJECT_PREFIX" envDefault:"idlerealm"`

	EventMaxRetries int           `env:"EVENT_MAX_RETRIES" envDefault:"5"`
	EventRetryDelay time.Duration `env:"EVENT_RETRY_DELAY" envDefault:"2s"`
	DeadLetterPath  string        `env:"DEAD_LETTER_PATH" envDefault:"logs/deadletter.jsonl"`

	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"15s"`
}

// Load reads .env if present, parses the environment and validates the result
func Load() (*Config, error) {
	// Load .env file if it exists, but don't fail if it doesn't (could be real env vars)
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf(ErrMsgParseEnv, err)
	}
	cfg.StoreDriver = strings.ToLower(strings.TrimSpace(cfg.StoreDriver))
	cfg.LogFormat = strings.ToLower(strings.TrimSpace(cfg.LogFormat))

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate reports every invalid setting at once
func (c *Config) Validate() error {
	var errs []error

	switch c.StoreDriver {
	case StoreDriverMemory:
	case StoreDriverSQLite:
		if c.SQLitePath == "" {
			errs = append(errs, errors.New(ErrMsgSQLitePathMissing))
		}
	case StoreDriverPostgres:
		for name, v := range map[string]string{"DB_HOST": c.DBHost, "DB_USER": c.DBUser, "DB_PASSWORD": c.DBPassword, "DB_NAME": c.DBName} {
			if v == "" {
				errs = append(errs, fmt.Errorf(ErrMsgPostgresMissing, name))
			}
		}
	default:
		errs = append(errs, fmt.Errorf(ErrMsgUnknownDriver, c.StoreDriver))
	}

	if c.LogFormat != LogFormatJSON && c.LogFormat != LogFormatText {
		errs = append(errs, fmt.Errorf(ErrMsgUnknownLogFormat, c.LogFormat))
	}

	positive := []struct {
		name string
		ok   bool
	}{
		{"PORT", c.Port > 0},
		{"TICK_INTERVAL", c.TickInterval > 0},
		{"TICK_DRIFT_THRESHOLD", c.TickDriftThreshold > 0},
		{"FLUSH_INTERVAL", c.FlushInterval > 0},
		{"IDLE_EVICT_AFTER", c.IdleEvictAfter > 0},
		{"WORKER_COUNT", c.WorkerCount > 0},
		{"WORKER_QUEUE_SIZE", c.WorkerQueueSize > 0},
		{"INVENTORY_CAP", c.InventoryCap > 0},
		{"SHUTDOWN_TIMEOUT", c.ShutdownTimeout > 0},
	}
	for _, p := range positive {
		if !p.ok {
			errs = append(errs, fmt.Errorf(ErrMsgNonPositive, p.name))
		}
	}
	if c.TickInterval > 0 && c.TickDriftThreshold > 0 && c.TickDriftThreshold < c.TickInterval {
		errs = append(errs, fmt.Errorf(ErrMsgDriftBelowTick, c.TickDriftThreshold, c.TickInterval))
	}

	if c.Environment == EnvironmentProd && c.APIKey == "" {
		errs = append(errs, errors.New(ErrMsgAPIKeyRequired))
	}
	return errors.Join(errs...)
}

// IsProduction reports whether the service runs with production settings
func (c *Config) IsProduction() bool {
	return c.Environment == EnvironmentProd
}

// DatabaseURL returns the PostgreSQL connection string
func (c *Config) DatabaseURL() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.DBUser, c.DBPassword),
		Host:     c.DBHost + ":" + c.DBPort,
		Path:     "/" + c.DBName,
		RawQuery: "sslmode=" + url.QueryEscape(c.DBSSLMode),
	}
	return u.String()
}
