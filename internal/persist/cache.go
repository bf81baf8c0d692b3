// Package persist keeps live characters in memory and writes them back to
// the character store in batches.
package persist

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/osse101/IdleRealm_Go/internal/domain"
	"github.com/osse101/IdleRealm_Go/internal/logger"
	"github.com/osse101/IdleRealm_Go/internal/metrics"
	"github.com/osse101/IdleRealm_Go/internal/store"
	"github.com/osse101/IdleRealm_Go/internal/worker"
)

// Gate serializes work per owner
type Gate interface {
	IsLocked(key string) bool
	RunExclusive(ctx context.Context, key string, fn func() error) error
}

type entry struct {
	char      *domain.Character
	version   uint64
	flushed   uint64
	connected bool
	touched   time.Time
}

func (e *entry) dirty() bool { return e.version != e.flushed }

// Cache is the authoritative in-memory copy of loaded characters.
//
// A character pointer handed out by Load or Peek may only be read or mutated
// while holding that owner's gate. The mutex guards the map and the entry
// bookkeeping, never the characters themselves.
type Cache struct {
	mu      sync.Mutex
	entries map[string]*entry

	store     store.CharacterStore
	gate      Gate
	clock     domain.Clock
	idleAfter time.Duration
}

// Option configures a Cache
type Option func(*Cache)

// WithIdleEvictAfter overrides DefaultIdleEvictAfter
func WithIdleEvictAfter(d time.Duration) Option {
	return func(c *Cache) { c.idleAfter = d }
}

// NewCache creates a new Cache
func NewCache(s store.CharacterStore, gate Gate, clock domain.Clock, opts ...Option) *Cache {
	c := &Cache{
		entries:   make(map[string]*entry),
		store:     s,
		gate:      gate,
		clock:     clock,
		idleAfter: DefaultIdleEvictAfter,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Load returns the cached character, reading it from the store on a miss.
// Callers must hold the owner's gate.
func (c *Cache) Load(ctx context.Context, ownerID string) (*domain.Character, error) {
	c.mu.Lock()
	if e, ok := c.entries[ownerID]; ok {
		e.touched = c.clock.Now()
		c.mu.Unlock()
		return e.char, nil
	}
	c.mu.Unlock()

	char, err := c.store.Get(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	logger.FromContext(ctx).Debug(LogMsgLoadedFromStore, "character_id", char.ID)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[ownerID] = &entry{char: char, touched: c.clock.Now()}
	c.updateGauges()
	return char, nil
}

// Insert caches a character that was just created in the store.
// Callers must hold the owner's gate.
func (c *Cache) Insert(char *domain.Character) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[char.OwnerID] = &entry{char: char, touched: c.clock.Now()}
	c.updateGauges()
}

// Peek returns a cached character without touching the store
func (c *Cache) Peek(ownerID string) (*domain.Character, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[ownerID]
	if !ok {
		return nil, false
	}
	return e.char, true
}

// MarkDirty records that the owner's character changed since the last flush
func (c *Cache) MarkDirty(ownerID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if e, ok := c.entries[ownerID]; ok {
		e.version++
		e.touched = c.clock.Now()
		c.updateGauges()
	}
}

// SetConnected marks whether the owner has a live session. Only connected
// owners receive live ticks.
func (c *Cache) SetConnected(ownerID string, connected bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if e, ok := c.entries[ownerID]; ok {
		e.connected = connected
		e.touched = c.clock.Now()
		c.updateGauges()
	}
}

// IsConnected reports whether the owner has a live session
func (c *Cache) IsConnected(ownerID string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[ownerID]
	return ok && e.connected
}

// Connected lists connected owners in a stable order
func (c *Cache) Connected() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]string, 0, len(c.entries))
	for owner, e := range c.entries {
		if e.connected {
			out = append(out, owner)
		}
	}
	sort.Strings(out)
	return out
}

// Dirty lists owners with unflushed changes
func (c *Cache) Dirty() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	var out []string
	for owner, e := range c.entries {
		if e.dirty() {
			out = append(out, owner)
		}
	}
	sort.Strings(out)
	return out
}

// IsDirty reports whether the owner has unflushed changes
func (c *Cache) IsDirty(ownerID string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[ownerID]
	return ok && e.dirty()
}

// Len returns the number of cached characters
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// FlushResult summarizes one flush pass
type FlushResult struct {
	Flushed int
	Failed  int
	Evicted int
}

// Flush writes every dirty character, then evicts idle clean ones.
// Failed owners stay dirty and are retried on the next pass.
func (c *Cache) Flush(ctx context.Context) (FlushResult, error) {
	var (
		res  FlushResult
		errs []error
	)
	for _, owner := range c.Dirty() {
		if err := c.FlushOwner(ctx, owner); err != nil {
			res.Failed++
			errs = append(errs, err)
			continue
		}
		res.Flushed++
	}
	res.Evicted = c.evictIdle(ctx)

	if res.Flushed > 0 || res.Failed > 0 || res.Evicted > 0 {
		logger.FromContext(ctx).Info(LogMsgFlushComplete,
			"flushed", res.Flushed, "failed", res.Failed, "evicted", res.Evicted)
	}
	return res, errors.Join(errs...)
}

// FlushOwner writes one character if it is dirty. The snapshot is taken
// under the gate and written outside it, so a slow store never blocks ticks.
func (c *Cache) FlushOwner(ctx context.Context, ownerID string) error {
	var (
		snapshot *domain.Character
		version  uint64
	)
	err := c.gate.RunExclusive(ctx, ownerID, func() error {
		c.mu.Lock()
		defer c.mu.Unlock()
		e, ok := c.entries[ownerID]
		if !ok || !e.dirty() {
			return nil
		}
		e.char.UpdatedAt = c.clock.Now()
		snapshot = e.char.Clone()
		version = e.version
		return nil
	})
	if err != nil || snapshot == nil {
		return err
	}

	if err := c.store.Upsert(ctx, snapshot); err != nil {
		metrics.Flushes.WithLabelValues(metrics.ResultError).Inc()
		logger.FromContext(ctx).Error(LogMsgFlushFailed, "owner_id", ownerID, "error", err)
		return err
	}
	metrics.Flushes.WithLabelValues(metrics.ResultOK).Inc()

	c.mu.Lock()
	defer c.mu.Unlock()
	if e, ok := c.entries[ownerID]; ok && e.flushed < version {
		e.flushed = version
	}
	c.updateGauges()
	return nil
}

// evictIdle drops clean, disconnected entries untouched for idleAfter.
// Each candidate is re-checked under its gate so an in-flight operation
// never loses its character.
func (c *Cache) evictIdle(ctx context.Context) int {
	cutoff := c.clock.Now().Add(-c.idleAfter)
	c.mu.Lock()
	var candidates []string
	for owner, e := range c.entries {
		if !e.dirty() && !e.connected && !e.touched.After(cutoff) {
			candidates = append(candidates, owner)
		}
	}
	c.mu.Unlock()

	evicted := 0
	for _, owner := range candidates {
		if c.gate.IsLocked(owner) {
			continue
		}
		_ = c.gate.RunExclusive(ctx, owner, func() error {
			c.mu.Lock()
			defer c.mu.Unlock()
			e, ok := c.entries[owner]
			if !ok || e.dirty() || e.connected || e.touched.After(cutoff) {
				return nil
			}
			delete(c.entries, owner)
			evicted++
			metrics.Evictions.Inc()
			logger.FromContext(ctx).Debug(LogMsgEvicted, "owner_id", owner)
			return nil
		})
	}
	if evicted > 0 {
		c.mu.Lock()
		c.updateGauges()
		c.mu.Unlock()
	}
	return evicted
}

// Job adapts Flush to the worker pool for the periodic scheduler
func (c *Cache) Job() worker.Job {
	return worker.JobFunc(func(ctx context.Context) error {
		_, err := c.Flush(ctx)
		return err
	})
}

// updateGauges must be called with mu held
func (c *Cache) updateGauges() {
	var connected, dirty int
	for _, e := range c.entries {
		if e.connected {
			connected++
		}
		if e.dirty() {
			dirty++
		}
	}
	metrics.CachedCharacters.Set(float64(len(c.entries)))
	metrics.ConnectedCharacters.Set(float64(connected))
	metrics.DirtyCharacters.Set(float64(dirty))
}
