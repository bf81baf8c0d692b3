package event

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osse101/IdleRealm_Go/internal/domain"
)

func TestMemoryBus_PublishSubscribe(t *testing.T) {
	bus := NewMemoryBus()
	var got []Event

	bus.Subscribe(ActionResult, func(_ context.Context, e Event) error {
		got = append(got, e)
		return nil
	})

	evt := NewActionResultEvent("owner-1", "char-1", domain.TaskActivity, domain.ActionResult{Success: true, Message: "Gathered Copper Ore"})
	require.NoError(t, bus.Publish(context.Background(), evt))
	require.NoError(t, bus.Publish(context.Background(), NewStatusUpdateEvent(domain.StatusSnapshot{OwnerID: "owner-1"})))

	require.Len(t, got, 1, "only the subscribed type is delivered")
	assert.Equal(t, "owner-1", got[0].OwnerID())
	assert.Equal(t, EventSchemaVersion, got[0].Version)
}

func TestMemoryBus_MultipleHandlersAndErrors(t *testing.T) {
	bus := NewMemoryBus()
	count := 0
	ok := func(context.Context, Event) error { count++; return nil }
	bad := func(context.Context, Event) error { count++; return errors.New("handler error") }

	SubscribeAll(bus, []Type{StatusUpdate}, ok)
	bus.Subscribe(StatusUpdate, bad)

	err := bus.Publish(context.Background(), Event{Version: EventSchemaVersion, Type: StatusUpdate})
	assert.Error(t, err)
	assert.Equal(t, 2, count, "a failing handler does not stop the others")
}

func TestMemoryBus_NoSubscribers(t *testing.T) {
	assert.NoError(t, NewMemoryBus().Publish(context.Background(), Event{Type: PaymentApplied}))
}

func TestDecodePayload(t *testing.T) {
	evt := NewPaymentAppliedEvent("owner-2", 500, "ref-1", false)

	direct, err := DecodePayload[PaymentAppliedPayloadV1](evt.Payload)
	require.NoError(t, err)
	assert.Equal(t, int64(500), direct.Amount)

	// serialized sources arrive as generic maps
	generic := map[string]interface{}{"owner_id": "owner-2", "amount": 500, "reference": "ref-1"}
	fromMap, err := DecodePayload[PaymentAppliedPayloadV1](generic)
	require.NoError(t, err)
	assert.Equal(t, direct.OwnerID, fromMap.OwnerID)
	assert.Equal(t, "ref-1", fromMap.Reference)
}

func TestConstructorsTagOwner(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	c := domain.NewCharacter("owner-3", "Hero", now)

	events := []Event{
		NewCharacterCreatedEvent(c),
		NewOfflineReportEvent("owner-3", domain.OfflineReport{Steps: 4}),
		NewStatusUpdateEvent(c.Snapshot(now)),
	}
	for _, e := range events {
		assert.Equal(t, "owner-3", e.OwnerID(), string(e.Type))
	}
	assert.Nil(t, Event{}.GetMetadataValue(MetadataKeyOwnerID))
}
