package event

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/osse101/IdleRealm_Go/internal/domain"
)

// Type represents the type of an event
type Type string

// Metadata defines the type for event metadata
type Metadata map[string]interface{}

// Event represents a generic event in the system
type Event struct {
	Version  string      `json:"version"` // Event schema version (e.g., "1.0")
	Type     Type        `json:"type"`
	Payload  interface{} `json:"payload"`
	Metadata Metadata    `json:"metadata,omitempty"`
}

// GetMetadataValue extracts a value from the event metadata safely
func (e Event) GetMetadataValue(key string) interface{} {
	if e.Metadata == nil {
		return nil
	}
	return e.Metadata[key]
}

// OwnerID returns the owner the event is addressed to, if any
func (e Event) OwnerID() string {
	id, _ := e.GetMetadataValue(MetadataKeyOwnerID).(string)
	return id
}

// Event types
const (
	ActionResult     Type = "action_result"
	StatusUpdate     Type = "status_update"
	OfflineReport    Type = "offline_report"
	CharacterCreated Type = "character_created"
	PaymentApplied   Type = "payment_applied"
)

// CharacterTypes are the events addressed to a single owner
var CharacterTypes = []Type{ActionResult, StatusUpdate, OfflineReport, CharacterCreated, PaymentApplied}

// Typed event payloads for type safety

// ActionResultPayloadV1 is the typed payload for action_result events
type ActionResultPayloadV1 struct {
	OwnerID     string              `json:"owner_id"`
	CharacterID string              `json:"character_id"`
	Task        domain.TaskKind     `json:"task"`
	Result      domain.ActionResult `json:"result"`
}

// StatusUpdatePayloadV1 is the typed payload for status_update events
type StatusUpdatePayloadV1 struct {
	Status domain.StatusSnapshot `json:"status"`
}

// OfflineReportPayloadV1 is the typed payload for offline_report events
type OfflineReportPayloadV1 struct {
	OwnerID string               `json:"owner_id"`
	Report  domain.OfflineReport `json:"report"`
}

// CharacterCreatedPayloadV1 is the typed payload for character_created events
type CharacterCreatedPayloadV1 struct {
	OwnerID     string    `json:"owner_id"`
	CharacterID string    `json:"character_id"`
	Name        string    `json:"name"`
	Timestamp   time.Time `json:"timestamp"`
}

// PaymentAppliedPayloadV1 is the typed payload for payment_applied events
type PaymentAppliedPayloadV1 struct {
	OwnerID   string `json:"owner_id"`
	Amount    int64  `json:"amount"`
	Reference string `json:"reference"`
	Claimed   bool   `json:"claimed"`
}

func ownerMetadata(ownerID string) Metadata {
	return Metadata{MetadataKeyOwnerID: ownerID}
}

// Type-safe event constructors

// NewActionResultEvent wraps one engine step or user action
func NewActionResultEvent(ownerID, characterID string, task domain.TaskKind, res domain.ActionResult) Event {
	return Event{
		Version: EventSchemaVersion,
		Type:    ActionResult,
		Payload: ActionResultPayloadV1{
			OwnerID:     ownerID,
			CharacterID: characterID,
			Task:        task,
			Result:      res,
		},
		Metadata: ownerMetadata(ownerID),
	}
}

// NewStatusUpdateEvent wraps a full character snapshot
func NewStatusUpdateEvent(status domain.StatusSnapshot) Event {
	return Event{
		Version:  EventSchemaVersion,
		Type:     StatusUpdate,
		Payload:  StatusUpdatePayloadV1{Status: status},
		Metadata: ownerMetadata(status.OwnerID),
	}
}

// NewOfflineReportEvent wraps a delivered catch-up report
func NewOfflineReportEvent(ownerID string, report domain.OfflineReport) Event {
	return Event{
		Version:  EventSchemaVersion,
		Type:     OfflineReport,
		Payload:  OfflineReportPayloadV1{OwnerID: ownerID, Report: report},
		Metadata: ownerMetadata(ownerID),
	}
}

// NewCharacterCreatedEvent announces a new character
func NewCharacterCreatedEvent(c *domain.Character) Event {
	return Event{
		Version: EventSchemaVersion,
		Type:    CharacterCreated,
		Payload: CharacterCreatedPayloadV1{
			OwnerID:     c.OwnerID,
			CharacterID: c.ID,
			Name:        c.Name,
			Timestamp:   c.CreatedAt,
		},
		Metadata: ownerMetadata(c.OwnerID),
	}
}

// NewPaymentAppliedEvent announces a confirmed payment credit
func NewPaymentAppliedEvent(ownerID string, amount int64, reference string, claimed bool) Event {
	return Event{
		Version: EventSchemaVersion,
		Type:    PaymentApplied,
		Payload: PaymentAppliedPayloadV1{
			OwnerID:   ownerID,
			Amount:    amount,
			Reference: reference,
			Claimed:   claimed,
		},
		Metadata: ownerMetadata(ownerID),
	}
}

// Handler is a function that handles an event
type Handler func(ctx context.Context, event Event) error

// Bus defines the interface for an event bus
type Bus interface {
	Publish(ctx context.Context, event Event) error
	Subscribe(eventType Type, handler Handler)
}

// MemoryBus is an in-memory implementation of the Event Bus
type MemoryBus struct {
	handlers map[Type][]Handler
	mu       sync.RWMutex
}

// NewMemoryBus creates a new MemoryBus
func NewMemoryBus() *MemoryBus {
	return &MemoryBus{
		handlers: make(map[Type][]Handler),
	}
}

// Publish runs every subscriber of the event type synchronously
func (b *MemoryBus) Publish(ctx context.Context, event Event) error {
	b.mu.RLock()
	handlers := b.handlers[event.Type]
	b.mu.RUnlock()

	var errs []error
	for _, handler := range handlers {
		if err := handler(ctx, event); err != nil {
			errs = append(errs, err)
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf(LogMsgHandlerErrorFormat, len(errs), event.Type, errs)
	}
	return nil
}

// Subscribe subscribes a handler to an event type
func (b *MemoryBus) Subscribe(eventType Type, handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.handlers[eventType] = append(b.handlers[eventType], handler)
}

// SubscribeAll subscribes one handler to several event types
func SubscribeAll(bus Bus, types []Type, handler Handler) {
	for _, t := range types {
		bus.Subscribe(t, handler)
	}
}
