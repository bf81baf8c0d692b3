package domain

import (
	"errors"
	"fmt"
)

// Error message string constants - single source of truth for error messages
// Use these in assert.Contains() checks when testing error messages
const (
	// Character errors
	ErrMsgCharacterNotFound = "character not found"
	ErrMsgCharacterExists   = "character already exists for this owner"

	// Catalog errors
	ErrMsgItemNotFound    = "item not found"
	ErrMsgMonsterNotFound = "monster not found"
	ErrMsgDungeonNotFound = "dungeon not found"

	// Inventory errors
	ErrMsgInventoryFull         = "inventory full"
	ErrMsgInsufficientQuantity  = "insufficient quantity"
	ErrMsgMissingIngredients    = "missing ingredients"
	ErrMsgMissingEntryItem      = "missing dungeon entry item"
	ErrMsgNotEquippable         = "item cannot be equipped"
	ErrMsgSlotEmpty             = "equipment slot is empty"
	ErrMsgInsufficientLevel     = "skill level too low"
	ErrMsgInvalidQuantity       = "invalid quantity"
	ErrMsgDurationExceeded      = "activity duration exceeds the maximum"
	ErrMsgWrongActionType       = "item cannot be produced by this action"
	ErrMsgInvalidRepeatCount    = "invalid repeat count"
	ErrMsgAlreadyBusy           = "character is already busy"
	ErrMsgNotBusy               = "character has nothing to stop"
	ErrMsgInvalidAmount         = "invalid amount"
	ErrMsgDuplicatePayment      = "payment already applied"
	ErrMsgInvalidInput          = "invalid input"
	ErrMsgStoreUnavailable      = "character store unavailable"
	ErrMsgInvariantViolation    = "invariant violation"
	ErrMsgFatalConfig           = "static catalog is missing a referenced entry"
	ErrMsgUnsupportedStateShape = "unsupported state version"
)

// Common domain errors
// These errors should be used consistently across all layers of the application.
// Wrap these errors with fmt.Errorf("%w: %s", domain.ErrXxx, details) for additional context.
var (
	ErrCharacterNotFound = errors.New(ErrMsgCharacterNotFound)
	ErrCharacterExists   = errors.New(ErrMsgCharacterExists)

	ErrItemNotFound    = errors.New(ErrMsgItemNotFound)
	ErrMonsterNotFound = errors.New(ErrMsgMonsterNotFound)
	ErrDungeonNotFound = errors.New(ErrMsgDungeonNotFound)

	ErrInventoryFull        = errors.New(ErrMsgInventoryFull)
	ErrInsufficientQuantity = errors.New(ErrMsgInsufficientQuantity)
	ErrMissingIngredients   = errors.New(ErrMsgMissingIngredients)
	ErrMissingEntryItem     = errors.New(ErrMsgMissingEntryItem)
	ErrNotEquippable        = errors.New(ErrMsgNotEquippable)
	ErrSlotEmpty            = errors.New(ErrMsgSlotEmpty)
	ErrInsufficientLevel    = errors.New(ErrMsgInsufficientLevel)
	ErrInvalidQuantity      = errors.New(ErrMsgInvalidQuantity)
	ErrDurationExceeded     = errors.New(ErrMsgDurationExceeded)
	ErrWrongActionType      = errors.New(ErrMsgWrongActionType)
	ErrInvalidRepeatCount   = errors.New(ErrMsgInvalidRepeatCount)
	ErrAlreadyBusy          = errors.New(ErrMsgAlreadyBusy)
	ErrNotBusy              = errors.New(ErrMsgNotBusy)
	ErrInvalidAmount        = errors.New(ErrMsgInvalidAmount)
	ErrDuplicatePayment     = errors.New(ErrMsgDuplicatePayment)
	ErrInvalidInput         = errors.New(ErrMsgInvalidInput)

	ErrStoreUnavailable      = errors.New(ErrMsgStoreUnavailable)
	ErrInvariantViolation    = errors.New(ErrMsgInvariantViolation)
	ErrFatalConfig           = errors.New(ErrMsgFatalConfig)
	ErrUnsupportedStateShape = errors.New(ErrMsgUnsupportedStateShape)
)

// ValidationError rejects a user operation before any state is mutated.
type ValidationError struct {
	Err    error
	Detail string
}

// NewValidationError wraps a sentinel with a detail message
func NewValidationError(err error, format string, args ...any) *ValidationError {
	return &ValidationError{Err: err, Detail: fmt.Sprintf(format, args...)}
}

func (e *ValidationError) Error() string {
	if e.Detail == "" {
		return e.Err.Error()
	}
	return fmt.Sprintf("%s: %s", e.Err.Error(), e.Detail)
}

func (e *ValidationError) Unwrap() error { return e.Err }

// TransientStoreError marks a persistence failure that a later flush may retry.
type TransientStoreError struct {
	Op  string
	Err error
}

func (e *TransientStoreError) Error() string {
	return fmt.Sprintf("%s: %s: %v", ErrMsgStoreUnavailable, e.Op, e.Err)
}

func (e *TransientStoreError) Unwrap() error { return e.Err }

// Is allows errors.Is(err, ErrStoreUnavailable)
func (e *TransientStoreError) Is(target error) bool {
	return target == ErrStoreUnavailable
}

// InvariantViolation reports corrupted in-memory state found during a tick.
// The tick clears the offending sub-state instead of propagating it.
type InvariantViolation struct {
	Subject string
	Detail  string
}

func (e *InvariantViolation) Error() string {
	return fmt.Sprintf("%s: %s: %s", ErrMsgInvariantViolation, e.Subject, e.Detail)
}

func (e *InvariantViolation) Is(target error) bool {
	return target == ErrInvariantViolation
}

// FatalConfigError reports a catalog reference that cannot be resolved.
type FatalConfigError struct {
	Kind string
	ID   string
}

func (e *FatalConfigError) Error() string {
	return fmt.Sprintf("%s: %s %q", ErrMsgFatalConfig, e.Kind, e.ID)
}

func (e *FatalConfigError) Is(target error) bool {
	return target == ErrFatalConfig
}

// IsValidation reports whether err should be shown to the user as a rejection.
func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}
