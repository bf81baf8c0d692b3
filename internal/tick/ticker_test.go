package tick

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osse101/IdleRealm_Go/internal/concurrency"
	"github.com/osse101/IdleRealm_Go/internal/domain"
	"github.com/osse101/IdleRealm_Go/internal/event"
	"github.com/osse101/IdleRealm_Go/internal/testing/leaktest"
	"github.com/osse101/IdleRealm_Go/internal/worker"
)

type fakeCache struct {
	mu    sync.Mutex
	chars map[string]*domain.Character
	dirty map[string]int
}

func newFakeCache(chars ...*domain.Character) *fakeCache {
	fc := &fakeCache{chars: map[string]*domain.Character{}, dirty: map[string]int{}}
	for _, c := range chars {
		fc.chars[c.OwnerID] = c
	}
	return fc
}

func (f *fakeCache) Connected() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, 0, len(f.chars))
	for id := range f.chars {
		out = append(out, id)
	}
	return out
}

func (f *fakeCache) Peek(owner string) (*domain.Character, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.chars[owner]
	return c, ok
}

func (f *fakeCache) MarkDirty(owner string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.dirty[owner]++
}

func (f *fakeCache) dirtyCount(owner string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.dirty[owner]
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []event.Event
}

func (p *recordingPublisher) PublishWithRetry(_ context.Context, e event.Event) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
}

func (p *recordingPublisher) forOwner(owner string) []event.Type {
	p.mu.Lock()
	defer p.mu.Unlock()
	var out []event.Type
	for _, e := range p.events {
		if e.OwnerID() == owner {
			out = append(out, e.Type)
		}
	}
	return out
}

type recordingLogs struct {
	mu        sync.Mutex
	summaries []domain.SessionSummary
	err       error
}

func (l *recordingLogs) AppendSessionLog(_ context.Context, _ string, s domain.SessionSummary) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.summaries = append(l.summaries, s)
	return l.err
}

// ownerStepper panics for one owner and steps everyone else
type ownerStepper struct {
	countingStepper
	mu      sync.Mutex
	badUser string
}

func (s *ownerStepper) Step(c *domain.Character, at time.Time) (domain.ActionResult, error) {
	if c.OwnerID == s.badUser {
		panic("corrupt character")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.countingStepper.Step(c, at)
}

func activeCharacter(owner string) *domain.Character {
	c := domain.NewCharacter(owner, owner, testStart)
	fakeActivity(c, 10, testStart.Add(2*time.Second))
	return c
}

func TestTicker_DispatchesConnectedOwners(t *testing.T) {
	leaktest.CheckNoGoroutineLeak(t, func() {
		good, bad, busy := activeCharacter("good"), activeCharacter("bad"), activeCharacter("busy")
		cache := newFakeCache(good, bad, busy)
		gate := concurrency.NewGate()
		pool := worker.NewPool(4, 16)
		pool.Start()
		defer pool.Stop()

		pub := &recordingPublisher{}
		clock := domain.NewSimulatedClock(testStart.Add(3 * time.Second))
		ticker := NewTicker(NewAdvancer(&ownerStepper{badUser: "bad"}, nil, nil), cache, gate, pool, NewSink(pub, nil), clock)

		// a user operation holds busy's gate for the whole heartbeat
		held := make(chan struct{})
		release := make(chan struct{})
		go func() {
			_ = gate.RunExclusive(context.Background(), "busy", func() error {
				close(held)
				<-release
				return nil
			})
		}()
		<-held

		require.NoError(t, ticker.Process(context.Background()))

		assert.Eventually(t, func() bool { return cache.dirtyCount("good") == 1 && cache.dirtyCount("bad") == 1 },
			time.Second, 5*time.Millisecond)
		assert.Eventually(t, func() bool { return len(pub.forOwner("good")) == 2 }, time.Second, 5*time.Millisecond)
		assert.Equal(t, []event.Type{event.ActionResult, event.StatusUpdate}, pub.forOwner("good"))

		// the panicking owner is healed and the others are unaffected
		assert.Eventually(t, func() bool { return len(pub.forOwner("bad")) == 2 }, time.Second, 5*time.Millisecond)
		assert.Equal(t, 9, good.Task.Activity.ActionsRemaining)
		assert.True(t, bad.Task.IsIdle())

		close(release)
		assert.Eventually(t, func() bool { return !gate.IsLocked("busy") }, time.Second, 5*time.Millisecond)
		assert.Zero(t, cache.dirtyCount("busy"), "owners with a held gate are skipped")
	})
}

func TestTicker_TickOwnerNotDue(t *testing.T) {
	c := activeCharacter("owner-1")
	cache := newFakeCache(c)
	pub := &recordingPublisher{}
	clock := domain.NewSimulatedClock(testStart.Add(time.Second))
	ticker := NewTicker(NewAdvancer(&countingStepper{}, nil, nil), cache, concurrency.NewGate(), worker.NewPool(1, 1), NewSink(pub, nil), clock)

	require.NoError(t, ticker.TickOwner(context.Background(), "owner-1"))
	assert.Empty(t, pub.forOwner("owner-1"))
	assert.Zero(t, cache.dirtyCount("owner-1"))
	assert.Equal(t, testStart.Add(time.Second), c.SimulatedAt)
}

func TestTicker_TickOwnerMissingFromCache(t *testing.T) {
	ticker := NewTicker(NewAdvancer(&countingStepper{}, nil, nil), newFakeCache(), concurrency.NewGate(),
		worker.NewPool(1, 1), NewSink(nil, nil), domain.NewSimulatedClock(testStart))
	assert.NoError(t, ticker.TickOwner(context.Background(), "ghost"))
}

func TestTicker_SkipsWhenQueueFull(t *testing.T) {
	cache := newFakeCache(activeCharacter("a"), activeCharacter("b"))
	pool := worker.NewPool(1, 1)
	// not started: the first owner fills the queue
	ticker := NewTicker(NewAdvancer(&countingStepper{}, nil, nil), cache, concurrency.NewGate(), pool,
		NewSink(nil, nil), domain.NewSimulatedClock(testStart.Add(time.Hour)))

	require.NoError(t, ticker.Process(context.Background()))
	assert.Equal(t, 1, pool.QueueLen())

	// the queued owner is not enqueued twice
	require.NoError(t, ticker.Process(context.Background()))
	assert.Equal(t, 1, pool.QueueLen())
	pool.Stop()
}

func TestSink_DeliverWritesLogsAndReport(t *testing.T) {
	pub := &recordingPublisher{}
	logs := &recordingLogs{err: errors.New("store down")}
	sink := NewSink(pub, logs)

	status := domain.StatusSnapshot{OwnerID: "owner-1", CharacterID: "char-1"}
	out := Outcome{
		Kind: domain.TaskCombat,
		Results: []domain.ActionResult{
			{Success: true, Message: "hit"},
			{Success: false, Message: "defeated", Finished: true},
		},
		Summaries: []domain.SessionSummary{{Kind: domain.TaskCombat, Reason: domain.ReasonDefeated}},
		Report:    &domain.OfflineReport{Steps: 2},
	}
	sink.Deliver(context.Background(), status, out)

	assert.Len(t, logs.summaries, 1, "log failures are logged, not retried here")
	assert.Equal(t, []event.Type{event.ActionResult, event.ActionResult, event.OfflineReport, event.StatusUpdate},
		pub.forOwner("owner-1"))
}
