package concurrency

import (
	"context"
	"sync"
	"time"
)

// Gate serializes work per owner key. Calls for the same key run one at a
// time in arrival order; calls for different keys run in parallel.
type Gate struct {
	mu     sync.Mutex
	owners map[string]*ownerLock
	onWait func(time.Duration)
}

type ownerLock struct {
	held  bool
	queue []chan struct{}
	// refs counts the holder plus queued waiters; the entry is dropped at zero
	refs int
}

// GateOption configures a Gate
type GateOption func(*Gate)

// WithWaitObserver reports how long each acquisition waited
func WithWaitObserver(fn func(time.Duration)) GateOption {
	return func(g *Gate) { g.onWait = fn }
}

// NewGate creates a new Gate
func NewGate(opts ...GateOption) *Gate {
	g := &Gate{owners: make(map[string]*ownerLock)}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// RunExclusive runs fn while holding the lock for key. The lock is released
// when fn returns or panics; fn's error is returned unchanged. If ctx ends
// while waiting, fn is not run and ctx.Err() is returned.
func (g *Gate) RunExclusive(ctx context.Context, key string, fn func() error) error {
	if err := g.acquire(ctx, key); err != nil {
		return err
	}
	defer g.release(key)
	return fn()
}

// Exclusive is RunExclusive for functions that return a value
func Exclusive[T any](ctx context.Context, g *Gate, key string, fn func() (T, error)) (T, error) {
	var out T
	err := g.RunExclusive(ctx, key, func() error {
		var err error
		out, err = fn()
		return err
	})
	return out, err
}

// IsLocked reports, without blocking, whether key is currently held
func (g *Gate) IsLocked(key string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	l, ok := g.owners[key]
	return ok && l.held
}

// Waiting returns the number of callers queued behind the holder of key
func (g *Gate) Waiting(key string) int {
	g.mu.Lock()
	defer g.mu.Unlock()
	if l, ok := g.owners[key]; ok {
		return len(l.queue)
	}
	return 0
}

// Len returns the number of keys currently held or awaited
func (g *Gate) Len() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.owners)
}

func (g *Gate) acquire(ctx context.Context, key string) error {
	start := time.Now()

	g.mu.Lock()
	l, ok := g.owners[key]
	if !ok {
		l = &ownerLock{}
		g.owners[key] = l
	}
	l.refs++
	if !l.held {
		l.held = true
		g.mu.Unlock()
		g.observe(start)
		return nil
	}
	ch := make(chan struct{})
	l.queue = append(l.queue, ch)
	g.mu.Unlock()

	select {
	case <-ch:
		g.observe(start)
		return nil
	case <-ctx.Done():
	}

	g.mu.Lock()
	select {
	case <-ch:
		// handed off between ctx firing and re-locking; pass it on
		g.mu.Unlock()
		g.release(key)
		return ctx.Err()
	default:
	}
	for i, w := range l.queue {
		if w == ch {
			l.queue = append(l.queue[:i], l.queue[i+1:]...)
			break
		}
	}
	l.refs--
	if l.refs == 0 {
		delete(g.owners, key)
	}
	g.mu.Unlock()
	return ctx.Err()
}

func (g *Gate) release(key string) {
	g.mu.Lock()
	defer g.mu.Unlock()

	l, ok := g.owners[key]
	if !ok {
		return
	}
	l.refs--
	if len(l.queue) > 0 {
		next := l.queue[0]
		l.queue = l.queue[1:]
		// ownership passes directly to the next waiter; held stays true
		close(next)
		return
	}
	l.held = false
	if l.refs == 0 {
		delete(g.owners, key)
	}
}

func (g *Gate) observe(start time.Time) {
	if g.onWait != nil {
		g.onWait(time.Since(start))
	}
}
