package tick

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/osse101/IdleRealm_Go/internal/domain"
	"github.com/osse101/IdleRealm_Go/internal/logger"
	"github.com/osse101/IdleRealm_Go/internal/metrics"
	"github.com/osse101/IdleRealm_Go/internal/worker"
)

// Cache is the in-memory view of live characters the heartbeat walks
type Cache interface {
	Connected() []string
	Peek(ownerID string) (*domain.Character, bool)
	MarkDirty(ownerID string)
}

// Gate serializes work per owner
type Gate interface {
	IsLocked(key string) bool
	RunExclusive(ctx context.Context, key string, fn func() error) error
}

// Dispatcher accepts per-owner jobs without blocking the heartbeat
type Dispatcher interface {
	TryEnqueue(job worker.Job) bool
}

// Ticker is the heartbeat job. Each run walks the connected owners and
// dispatches one live tick per owner into the worker pool. Owners whose gate
// is held by a user operation are skipped until the next heartbeat.
type Ticker struct {
	advancer *Advancer
	cache    Cache
	gate     Gate
	pool     Dispatcher
	sink     *Sink
	clock    domain.Clock

	running atomic.Bool
	pending sync.Map
}

// NewTicker wires the heartbeat
func NewTicker(advancer *Advancer, cache Cache, gate Gate, pool Dispatcher, sink *Sink, clock domain.Clock) *Ticker {
	return &Ticker{
		advancer: advancer,
		cache:    cache,
		gate:     gate,
		pool:     pool,
		sink:     sink,
		clock:    clock,
	}
}

// Process runs one heartbeat
func (t *Ticker) Process(ctx context.Context) error {
	log := logger.FromContext(ctx)
	if !t.running.CompareAndSwap(false, true) {
		log.Debug(LogMsgHeartbeatOverrun)
		return nil
	}
	defer t.running.Store(false)

	start := time.Now()
	metrics.HeartbeatsTotal.Inc()

	dispatched := 0
	for _, owner := range t.cache.Connected() {
		if t.gate.IsLocked(owner) {
			metrics.OwnersSkipped.WithLabelValues(metrics.ReasonGateBusy).Inc()
			continue
		}
		if _, queued := t.pending.LoadOrStore(owner, struct{}{}); queued {
			metrics.OwnersSkipped.WithLabelValues(metrics.ReasonQueueFull).Inc()
			continue
		}
		job := worker.JobFunc(func(ctx context.Context) error {
			defer t.pending.Delete(owner)
			return t.TickOwner(logger.WithOwner(ctx, owner), owner)
		})
		if !t.pool.TryEnqueue(job) {
			t.pending.Delete(owner)
			metrics.OwnersSkipped.WithLabelValues(metrics.ReasonQueueFull).Inc()
			continue
		}
		dispatched++
	}

	metrics.HeartbeatDuration.Observe(time.Since(start).Seconds())
	log.Debug(LogMsgHeartbeatDispatch, "owners", dispatched)
	return nil
}

// TickOwner runs one live tick for an owner under its gate and delivers the
// outcome after the gate is released.
func (t *Ticker) TickOwner(ctx context.Context, ownerID string) error {
	var (
		out    Outcome
		status domain.StatusSnapshot
	)
	err := t.gate.RunExclusive(ctx, ownerID, func() error {
		c, ok := t.cache.Peek(ownerID)
		if !ok {
			return nil
		}
		now := t.clock.Now()
		out = t.advancer.Live(c, now)
		if !out.Stepped() {
			return nil
		}
		t.cache.MarkDirty(ownerID)
		status = c.Snapshot(now)
		return nil
	})
	if err != nil {
		return err
	}
	if !out.Stepped() {
		return nil
	}

	for _, stepErr := range out.Errors {
		logger.FromContext(ctx).Warn(LogMsgStepFailed, "character_id", status.CharacterID, "task", out.Kind, "error", stepErr)
	}
	t.sink.Deliver(ctx, status, out)
	return nil
}
