package metrics

import (
	"context"

	"github.com/osse101/IdleRealm_Go/internal/event"
	"github.com/osse101/IdleRealm_Go/internal/logger"
)

// EventMetricsCollector subscribes to events and records metrics
type EventMetricsCollector struct{}

// NewEventMetricsCollector creates a new event metrics collector
func NewEventMetricsCollector() *EventMetricsCollector {
	return &EventMetricsCollector{}
}

// Register subscribes to every character event type
func (e *EventMetricsCollector) Register(bus event.Bus) error {
	event.SubscribeAll(bus, event.CharacterTypes, e.HandleEvent)
	return nil
}

// HandleEvent processes events and updates metrics
func (e *EventMetricsCollector) HandleEvent(ctx context.Context, evt event.Event) error {
	log := logger.FromContext(ctx)

	EventsPublished.WithLabelValues(string(evt.Type)).Inc()

	switch evt.Type {
	case event.ActionResult:
		payload, err := event.DecodePayload[event.ActionResultPayloadV1](evt.Payload)
		if err != nil {
			log.Debug(LogMsgUnexpectedPayload, "type", evt.Type, "error", err)
			return nil
		}
		res := payload.Result
		var items int64
		for _, qty := range res.Items {
			items += qty
		}
		if items > 0 {
			ItemsGained.Add(float64(items))
		}
		for skill, xp := range res.XP {
			XPGained.WithLabelValues(skill).Add(float64(xp))
		}
		if res.Silver > 0 {
			SilverGained.Add(float64(res.Silver))
		}
		for _, up := range res.LeveledUp {
			LevelUps.WithLabelValues(up.Skill).Inc()
		}

	case event.PaymentApplied:
		payload, err := event.DecodePayload[event.PaymentAppliedPayloadV1](evt.Payload)
		if err != nil {
			log.Debug(LogMsgUnexpectedPayload, "type", evt.Type, "error", err)
			return nil
		}
		PaymentCredit.Add(float64(payload.Amount))
	}

	log.Debug(LogMsgMetricsRecorded, "type", evt.Type)
	return nil
}
