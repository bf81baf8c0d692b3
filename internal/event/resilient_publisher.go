package event

import (
	"context"
	"sync"
	"time"

	"github.com/osse101/IdleRealm_Go/internal/logger"
)

type retryEntry struct {
	event     Event
	attempts  int
	nextRetry time.Time
	lastErr   error
}

// ResilientPublisher wraps a Bus with exponential-backoff retries. Events that
// exhaust their retries, overflow the queue, or fail during shutdown are
// appended to the dead-letter file.
type ResilientPublisher struct {
	bus        Bus
	retryQueue chan retryEntry
	maxRetries int
	retryDelay time.Duration
	deadLetter *DeadLetterWriter

	shutdown     chan struct{}
	shutdownOnce sync.Once
	wg           sync.WaitGroup
}

// NewResilientPublisher starts the retry worker
func NewResilientPublisher(bus Bus, maxRetries int, retryDelay time.Duration, deadLetterPath string) (*ResilientPublisher, error) {
	dl, err := NewDeadLetterWriter(deadLetterPath)
	if err != nil {
		return nil, err
	}
	if maxRetries <= 0 {
		maxRetries = RetryMaxAttempts
	}
	if retryDelay <= 0 {
		retryDelay = RetryInitialDelay
	}

	p := &ResilientPublisher{
		bus:        bus,
		retryQueue: make(chan retryEntry, RetryQueueBufferSize),
		maxRetries: maxRetries,
		retryDelay: retryDelay,
		deadLetter: dl,
		shutdown:   make(chan struct{}),
	}
	p.wg.Add(1)
	go p.retryWorker()
	return p, nil
}

// PublishWithRetry makes one synchronous attempt and queues a retry on failure.
// It never blocks on the retry queue.
func (p *ResilientPublisher) PublishWithRetry(ctx context.Context, event Event) {
	err := p.bus.Publish(ctx, event)
	if err == nil {
		return
	}

	logger.FromContext(ctx).Warn(LogMsgEventPublishFailed, "event_type", event.Type, "error", err)
	p.enqueue(retryEntry{
		event:     event,
		attempts:  1,
		nextRetry: time.Now().Add(CalculateRetryDelay(p.retryDelay, 1)),
		lastErr:   err,
	})
}

// Publish satisfies Bus; delivery failures are handled asynchronously
func (p *ResilientPublisher) Publish(ctx context.Context, event Event) error {
	p.PublishWithRetry(ctx, event)
	return nil
}

// Subscribe delegates to the inner bus
func (p *ResilientPublisher) Subscribe(eventType Type, handler Handler) {
	p.bus.Subscribe(eventType, handler)
}

func (p *ResilientPublisher) enqueue(entry retryEntry) {
	select {
	case <-p.shutdown:
		p.writeDeadLetter(entry)
		return
	default:
	}

	select {
	case p.retryQueue <- entry:
	default:
		logger.Warn(LogMsgRetryQueueFull, "event_type", entry.event.Type)
		p.writeDeadLetter(entry)
	}
}

func (p *ResilientPublisher) retryWorker() {
	defer p.wg.Done()

	for {
		select {
		case <-p.shutdown:
			p.drain()
			return
		case entry := <-p.retryQueue:
			if !p.waitUntil(entry.nextRetry) {
				p.lastAttempt(entry)
				p.drain()
				return
			}
			p.retry(entry)
		}
	}
}

// waitUntil sleeps until t; false means shutdown interrupted the wait
func (p *ResilientPublisher) waitUntil(t time.Time) bool {
	d := time.Until(t)
	if d <= 0 {
		return true
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return true
	case <-p.shutdown:
		return false
	}
}

func (p *ResilientPublisher) retry(entry retryEntry) {
	err := p.bus.Publish(context.Background(), entry.event)
	if err == nil {
		logger.Debug(LogMsgEventRetrySucceeded, "event_type", entry.event.Type, "attempt", entry.attempts)
		return
	}

	entry.lastErr = err
	if entry.attempts >= p.maxRetries {
		logger.Warn(LogMsgEventRetryExhausted, "event_type", entry.event.Type, "attempts", entry.attempts+1, "error", err)
		entry.attempts++
		p.writeDeadLetter(entry)
		return
	}

	entry.attempts++
	entry.nextRetry = time.Now().Add(CalculateRetryDelay(p.retryDelay, entry.attempts))
	logger.Debug(LogMsgEventRetryFailed, "event_type", entry.event.Type, "attempt", entry.attempts, "error", err)
	p.enqueue(entry)
}

func (p *ResilientPublisher) lastAttempt(entry retryEntry) {
	if err := p.bus.Publish(context.Background(), entry.event); err != nil {
		entry.attempts++
		entry.lastErr = err
		p.writeDeadLetter(entry)
	}
}

func (p *ResilientPublisher) drain() {
	drained := 0
	for {
		select {
		case entry := <-p.retryQueue:
			p.lastAttempt(entry)
			drained++
		default:
			if drained > 0 {
				logger.Info(LogMsgQueueDrainedShutdown, "count", drained)
			}
			return
		}
	}
}

func (p *ResilientPublisher) writeDeadLetter(entry retryEntry) {
	if p.deadLetter == nil {
		return
	}
	if err := p.deadLetter.Write(entry.event, entry.attempts, entry.lastErr); err != nil {
		logger.Error(LogMsgDeadLetterFailed, "event_type", entry.event.Type, "error", err)
		return
	}
	logger.Warn(LogMsgDeadLetterWritten, "event_type", entry.event.Type, "attempts", entry.attempts)
}

// Shutdown stops the worker after one final attempt per queued event
func (p *ResilientPublisher) Shutdown(ctx context.Context) error {
	p.shutdownOnce.Do(func() { close(p.shutdown) })

	done := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-ctx.Done():
		logger.Warn(LogMsgShutdownTimeout)
		return ctx.Err()
	}

	if p.deadLetter != nil {
		return p.deadLetter.Close()
	}
	return nil
}
