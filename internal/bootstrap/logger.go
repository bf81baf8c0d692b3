package bootstrap

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/osse101/IdleRealm_Go/internal/config"
	"github.com/osse101/IdleRealm_Go/internal/logger"
)

// SetupLogger installs the process logger writing to stdout and a new
// session log file under cfg.LogDir. Older session files beyond the
// retention count are removed. The caller must close the returned file.
func SetupLogger(cfg *config.Config) (*os.File, error) {
	return setupLogger(cfg, os.Stdout, time.Now())
}

func setupLogger(cfg *config.Config, stdout io.Writer, now time.Time) (*os.File, error) {
	if err := os.MkdirAll(cfg.LogDir, DirPermission); err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedCreateLogsDir, err)
	}

	cleanupLogs(cfg.LogDir, LogFileRetentionCount)

	logFileName := filepath.Join(cfg.LogDir, fmt.Sprintf(LogFileNamePattern, now.Format(LogFileTimestampFormat)))
	logFile, err := os.OpenFile(logFileName, os.O_CREATE|os.O_WRONLY|os.O_APPEND, LogFilePermission)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedOpenLogFile, err)
	}

	l := logger.InitWithWriter(logger.NewConfig(
		cfg.LogLevel,
		cfg.LogFormat,
		logger.DefaultServiceName,
		cfg.Version,
		cfg.Environment,
		!cfg.IsProduction(),
	), io.MultiWriter(stdout, logFile))

	l.Info(LogMsgLoggingInitialized, "level", cfg.LogLevel, "file", logFileName)
	l.Info(LogMsgStartingIdleRealm,
		"environment", cfg.Environment,
		"log_format", cfg.LogFormat,
		"version", cfg.Version)
	l.Debug(LogMsgConfigurationLoaded,
		"store_driver", cfg.StoreDriver,
		"port", cfg.Port,
		"tick_interval", cfg.TickInterval,
		"flush_interval", cfg.FlushInterval,
		"workers", cfg.WorkerCount)

	return logFile, nil
}

// cleanupLogs removes the oldest session logs so that at most keep remain
// before the new file is created. Timestamped names sort chronologically.
func cleanupLogs(logDir string, keep int) {
	entries, err := os.ReadDir(logDir)
	if err != nil {
		return
	}

	var names []string
	for _, entry := range entries {
		if !entry.IsDir() && strings.HasSuffix(entry.Name(), LogFileExtension) {
			names = append(names, entry.Name())
		}
	}
	if len(names) <= keep {
		return
	}
	sort.Strings(names)

	for _, name := range names[:len(names)-keep] {
		if err := os.Remove(filepath.Join(logDir, name)); err != nil {
			logger.Warn(LogMsgFailedDeleteOldLog, "file", name, "error", err)
		}
	}
}
