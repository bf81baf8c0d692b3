package event

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osse101/IdleRealm_Go/internal/domain"
)

// flakyBus fails while shouldFail returns true for the 1-based call number
type flakyBus struct {
	mu         sync.Mutex
	calls      []Event
	times      []time.Time
	shouldFail func(call int) bool
	delay      time.Duration
}

func (b *flakyBus) Publish(_ context.Context, e Event) error {
	b.mu.Lock()
	b.calls = append(b.calls, e)
	b.times = append(b.times, time.Now())
	n := len(b.calls)
	b.mu.Unlock()

	if b.delay > 0 {
		time.Sleep(b.delay)
	}
	if b.shouldFail != nil && b.shouldFail(n) {
		return errors.New("bus unavailable")
	}
	return nil
}

func (b *flakyBus) Subscribe(Type, Handler) {}

func (b *flakyBus) count() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.calls)
}

func (b *flakyBus) callTimes() []time.Time {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]time.Time(nil), b.times...)
}

func statusEvent(owner string) Event {
	return NewStatusUpdateEvent(domain.StatusSnapshot{OwnerID: owner, Name: "Tester"})
}

func readDeadLetters(t *testing.T, path string) []DeadLetterEntry {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	var out []DeadLetterEntry
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		var e DeadLetterEntry
		require.NoError(t, json.Unmarshal(sc.Bytes(), &e))
		out = append(out, e)
	}
	return out
}

func TestResilientPublisher_FirstAttemptSucceeds(t *testing.T) {
	path := filepath.Join(t.TempDir(), "deadletter.jsonl")
	bus := &flakyBus{}

	rp, err := NewResilientPublisher(bus, 3, 20*time.Millisecond, path)
	require.NoError(t, err)

	rp.PublishWithRetry(context.Background(), statusEvent("owner-1"))
	require.NoError(t, rp.Shutdown(context.Background()))

	assert.Equal(t, 1, bus.count())
	assert.Empty(t, readDeadLetters(t, path))
}

func TestResilientPublisher_RetrySucceeds(t *testing.T) {
	path := filepath.Join(t.TempDir(), "deadletter.jsonl")
	bus := &flakyBus{shouldFail: func(call int) bool { return call == 1 }}

	rp, err := NewResilientPublisher(bus, 3, 20*time.Millisecond, path)
	require.NoError(t, err)
	defer rp.Shutdown(context.Background())

	rp.PublishWithRetry(context.Background(), statusEvent("owner-1"))

	assert.Eventually(t, func() bool { return bus.count() == 2 }, time.Second, 5*time.Millisecond)
	assert.Empty(t, readDeadLetters(t, path))
}

func TestResilientPublisher_ExhaustedRetriesAreDeadLettered(t *testing.T) {
	path := filepath.Join(t.TempDir(), "deadletter.jsonl")
	bus := &flakyBus{shouldFail: func(int) bool { return true }}

	rp, err := NewResilientPublisher(bus, 3, 10*time.Millisecond, path)
	require.NoError(t, err)

	rp.PublishWithRetry(context.Background(), statusEvent("owner-9"))
	assert.Eventually(t, func() bool { return bus.count() == 4 }, 2*time.Second, 5*time.Millisecond,
		"initial attempt plus three retries")
	require.NoError(t, rp.Shutdown(context.Background()))

	entries := readDeadLetters(t, path)
	require.Len(t, entries, 1)
	assert.Equal(t, StatusUpdate, entries[0].Event.Type)
	assert.Equal(t, "owner-9", entries[0].Event.OwnerID())
	assert.Equal(t, 4, entries[0].Attempts)
	assert.Equal(t, DeadLetterSchemaVersion, entries[0].SchemaVersion)
	assert.NotEmpty(t, entries[0].LastError)
}

func TestResilientPublisher_QueueOverflowGoesToDeadLetter(t *testing.T) {
	path := filepath.Join(t.TempDir(), "deadletter.jsonl")
	bus := &flakyBus{shouldFail: func(int) bool { return true }}

	dl, err := NewDeadLetterWriter(path)
	require.NoError(t, err)
	// no worker, so the queue never drains
	rp := &ResilientPublisher{
		bus:        bus,
		retryQueue: make(chan retryEntry, 2),
		maxRetries: 3,
		retryDelay: time.Hour,
		deadLetter: dl,
		shutdown:   make(chan struct{}),
	}

	for i := 0; i < 5; i++ {
		rp.PublishWithRetry(context.Background(), statusEvent("owner-1"))
	}
	assert.Len(t, readDeadLetters(t, path), 3)
	require.NoError(t, dl.Close())
}

func TestResilientPublisher_ShutdownMakesFinalAttempt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "deadletter.jsonl")
	var calls int32
	bus := &flakyBus{shouldFail: func(int) bool { return atomic.AddInt32(&calls, 1) <= 3 }}

	rp, err := NewResilientPublisher(bus, 5, time.Hour, path)
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		rp.PublishWithRetry(context.Background(), statusEvent("owner-1"))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, rp.Shutdown(ctx))

	assert.Equal(t, 6, bus.count(), "three failures, then one final attempt each")
	assert.Empty(t, readDeadLetters(t, path))
}

func TestResilientPublisher_ExponentialBackoff(t *testing.T) {
	path := filepath.Join(t.TempDir(), "deadletter.jsonl")
	bus := &flakyBus{shouldFail: func(call int) bool { return call < 3 }}

	base := 50 * time.Millisecond
	rp, err := NewResilientPublisher(bus, 5, base, path)
	require.NoError(t, err)
	defer rp.Shutdown(context.Background())

	rp.PublishWithRetry(context.Background(), statusEvent("owner-1"))
	require.Eventually(t, func() bool { return bus.count() == 3 }, 2*time.Second, 5*time.Millisecond)

	times := bus.callTimes()
	assert.GreaterOrEqual(t, times[1].Sub(times[0]), base)
	assert.GreaterOrEqual(t, times[2].Sub(times[1]), 2*base)
}

func TestResilientPublisher_ConcurrentPublishes(t *testing.T) {
	path := filepath.Join(t.TempDir(), "deadletter.jsonl")
	bus := &flakyBus{}
	rp, err := NewResilientPublisher(bus, 3, 10*time.Millisecond, path)
	require.NoError(t, err)
	defer rp.Shutdown(context.Background())

	const goroutines, perGoroutine = 10, 5
	var wg sync.WaitGroup
	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < perGoroutine; j++ {
				rp.PublishWithRetry(context.Background(), statusEvent("owner-1"))
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, goroutines*perGoroutine, bus.count())
}

func TestCalculateRetryDelay(t *testing.T) {
	assert.Equal(t, 2*time.Second, CalculateRetryDelay(2*time.Second, 1))
	assert.Equal(t, 8*time.Second, CalculateRetryDelay(2*time.Second, 3))
	assert.Equal(t, 2*time.Second, CalculateRetryDelay(2*time.Second, 0))
}
