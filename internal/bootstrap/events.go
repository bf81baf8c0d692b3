package bootstrap

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/osse101/IdleRealm_Go/internal/config"
	"github.com/osse101/IdleRealm_Go/internal/event"
)

// InitializeEventSystem creates the in-memory event bus and the resilient
// publisher in front of it. Events that exhaust their retries are appended
// to the dead-letter file.
func InitializeEventSystem(cfg *config.Config) (*event.MemoryBus, *event.ResilientPublisher, error) {
	eventBus := event.NewMemoryBus()

	if err := os.MkdirAll(filepath.Dir(cfg.DeadLetterPath), DirPermission); err != nil {
		return nil, nil, fmt.Errorf("%s: %w", ErrMsgFailedCreateDeadLetterDir, err)
	}

	resilientPublisher, err := event.NewResilientPublisher(eventBus, cfg.EventMaxRetries, cfg.EventRetryDelay, cfg.DeadLetterPath)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", ErrMsgFailedCreateResilientPublisher, err)
	}

	slog.Info(LogMsgEventSystemInitialized,
		"max_retries", cfg.EventMaxRetries,
		"retry_delay", cfg.EventRetryDelay,
		"deadletter_path", cfg.DeadLetterPath)

	return eventBus, resilientPublisher, nil
}
