package tick

import (
	"context"

	"github.com/osse101/IdleRealm_Go/internal/domain"
	"github.com/osse101/IdleRealm_Go/internal/event"
	"github.com/osse101/IdleRealm_Go/internal/logger"
)

// Publisher delivers events without blocking on subscriber failures
type Publisher interface {
	PublishWithRetry(ctx context.Context, evt event.Event)
}

// LogWriter persists closed session logs
type LogWriter interface {
	AppendSessionLog(ctx context.Context, characterID string, s domain.SessionSummary) error
}

// Sink forwards an owner's step outcome to subscribers and the log store.
// It runs after the owner's gate is released.
type Sink struct {
	publisher Publisher
	logs      LogWriter
}

// NewSink creates a sink; either dependency may be nil
func NewSink(publisher Publisher, logs LogWriter) *Sink {
	return &Sink{publisher: publisher, logs: logs}
}

// Deliver emits one action_result per step, the offline report if any, then
// a single status_update, and writes the closed session logs.
func (s *Sink) Deliver(ctx context.Context, status domain.StatusSnapshot, out Outcome) {
	log := logger.FromContext(ctx)

	if s.logs != nil {
		for _, summary := range out.Summaries {
			if err := s.logs.AppendSessionLog(ctx, status.CharacterID, summary); err != nil {
				log.Error(LogMsgLogWriteFailed, "kind", summary.Kind, "reason", summary.Reason, "error", err)
			}
		}
	}
	if s.publisher == nil {
		return
	}

	for _, res := range out.Results {
		s.publisher.PublishWithRetry(ctx, event.NewActionResultEvent(status.OwnerID, status.CharacterID, out.Kind, res))
	}
	if out.Report != nil {
		s.publisher.PublishWithRetry(ctx, event.NewOfflineReportEvent(status.OwnerID, *out.Report))
	}
	s.publisher.PublishWithRetry(ctx, event.NewStatusUpdateEvent(status))
}
