package bootstrap

import (
	"fmt"
	"log/slog"

	"github.com/osse101/IdleRealm_Go/internal/event"
	"github.com/osse101/IdleRealm_Go/internal/metrics"
	"github.com/osse101/IdleRealm_Go/internal/realtime"
)

// EventHandlerDependencies holds the subscribers attached to the event bus.
// Bridge is nil when no NATS server is configured.
type EventHandlerDependencies struct {
	EventBus event.Bus
	Hub      *realtime.Hub
	Bridge   *realtime.Bridge
}

// RegisterEventHandlers attaches the metrics collector, the realtime hub and
// the optional NATS bridge to every character event type.
func RegisterEventHandlers(deps EventHandlerDependencies) error {
	metricsCollector := metrics.NewEventMetricsCollector()
	if err := metricsCollector.Register(deps.EventBus); err != nil {
		return fmt.Errorf("%s: %w", ErrMsgFailedRegisterMetrics, err)
	}
	slog.Info(LogMsgMetricsCollectorRegistered)

	deps.Hub.Subscribe(deps.EventBus)
	slog.Info(LogMsgRealtimeHubSubscribed)

	if deps.Bridge != nil {
		deps.Bridge.Subscribe(deps.EventBus)
		slog.Info(LogMsgNATSBridgeSubscribed)
	}
	return nil
}
