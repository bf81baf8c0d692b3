package event

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// DeadLetterSchemaVersion is the current version of the dead-letter log format
// Increment this when changing the DeadLetterEntry structure
const DeadLetterSchemaVersion = "1.0"

// DeadLetterWriter appends events that could not be delivered to a JSON lines file
type DeadLetterWriter struct {
	file *os.File
	mu   sync.Mutex
}

// DeadLetterEntry represents an event that failed to publish after all retries
type DeadLetterEntry struct {
	SchemaVersion string    `json:"schema_version"`
	Timestamp     time.Time `json:"timestamp"`
	Event         Event     `json:"event"`
	Attempts      int       `json:"attempts"`
	LastError     string    `json:"last_error,omitempty"`
}

// NewDeadLetterWriter opens (creating if needed) the dead-letter file
func NewDeadLetterWriter(path string) (*DeadLetterWriter, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, DeadLetterDirPermissions); err != nil {
			return nil, fmt.Errorf("create dead-letter dir: %w", err)
		}
	}
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, DeadLetterFilePermissions)
	if err != nil {
		return nil, err
	}
	return &DeadLetterWriter{file: f}, nil
}

// Write appends a failed event
func (dlw *DeadLetterWriter) Write(event Event, attempts int, lastError error) error {
	entry := DeadLetterEntry{
		SchemaVersion: DeadLetterSchemaVersion,
		Timestamp:     time.Now().UTC(),
		Event:         event,
		Attempts:      attempts,
	}
	if lastError != nil {
		entry.LastError = lastError.Error()
	}

	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("marshal dead-letter entry: %w", err)
	}

	dlw.mu.Lock()
	defer dlw.mu.Unlock()
	_, err = dlw.file.Write(append(data, '\n'))
	return err
}

// Close closes the dead-letter file
func (dlw *DeadLetterWriter) Close() error {
	dlw.mu.Lock()
	defer dlw.mu.Unlock()
	return dlw.file.Close()
}
