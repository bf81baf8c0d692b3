package concurrency

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osse101/IdleRealm_Go/internal/testing/leaktest"
)

func TestGate_RunExclusiveReturnsFnError(t *testing.T) {
	g := NewGate()
	boom := errors.New("boom")

	err := g.RunExclusive(context.Background(), "owner", func() error { return boom })
	assert.ErrorIs(t, err, boom)
	assert.False(t, g.IsLocked("owner"))
	assert.Zero(t, g.Len(), "idle keys are dropped")
}

func TestGate_ReleasesOnPanic(t *testing.T) {
	g := NewGate()

	assert.Panics(t, func() {
		_ = g.RunExclusive(context.Background(), "owner", func() error { panic("engine bug") })
	})
	assert.False(t, g.IsLocked("owner"))

	ran := false
	require.NoError(t, g.RunExclusive(context.Background(), "owner", func() error {
		ran = true
		return nil
	}))
	assert.True(t, ran)
}

func TestGate_IsLocked(t *testing.T) {
	g := NewGate()
	inside := make(chan struct{})
	release := make(chan struct{})

	go func() {
		_ = g.RunExclusive(context.Background(), "owner", func() error {
			close(inside)
			<-release
			return nil
		})
	}()

	<-inside
	assert.True(t, g.IsLocked("owner"))
	assert.False(t, g.IsLocked("someone-else"))
	close(release)

	assert.Eventually(t, func() bool { return !g.IsLocked("owner") }, time.Second, 5*time.Millisecond)
}

func TestGate_SameKeyIsSerialized(t *testing.T) {
	g := NewGate()
	var active, maxActive int32
	var wg sync.WaitGroup

	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = g.RunExclusive(context.Background(), "owner", func() error {
				n := atomic.AddInt32(&active, 1)
				for {
					m := atomic.LoadInt32(&maxActive)
					if n <= m || atomic.CompareAndSwapInt32(&maxActive, m, n) {
						break
					}
				}
				time.Sleep(time.Millisecond)
				atomic.AddInt32(&active, -1)
				return nil
			})
		}()
	}
	wg.Wait()
	assert.Equal(t, int32(1), maxActive)
}

func TestGate_DifferentKeysRunInParallel(t *testing.T) {
	g := NewGate()
	bothInside := make(chan struct{})
	var inside int32

	run := func(key string) error {
		return g.RunExclusive(context.Background(), key, func() error {
			if atomic.AddInt32(&inside, 1) == 2 {
				close(bothInside)
			}
			select {
			case <-bothInside:
				return nil
			case <-time.After(time.Second):
				return errors.New("keys were serialized")
			}
		})
	}

	errs := make(chan error, 2)
	go func() { errs <- run("a") }()
	go func() { errs <- run("b") }()
	require.NoError(t, <-errs)
	require.NoError(t, <-errs)
}

func TestGate_FIFOOrder(t *testing.T) {
	g := NewGate()
	release := make(chan struct{})
	holding := make(chan struct{})

	go func() {
		_ = g.RunExclusive(context.Background(), "owner", func() error {
			close(holding)
			<-release
			return nil
		})
	}()
	<-holding

	var mu sync.Mutex
	var order []int
	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			_ = g.RunExclusive(context.Background(), "owner", func() error {
				mu.Lock()
				order = append(order, n)
				mu.Unlock()
				return nil
			})
		}(i)
		// wait until this caller is queued before starting the next one
		require.Eventually(t, func() bool { return g.Waiting("owner") == i+1 }, time.Second, time.Millisecond)
	}

	close(release)
	wg.Wait()
	assert.Equal(t, []int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}, order)
}

func TestGate_ContextCancelWhileWaiting(t *testing.T) {
	leaktest.CheckNoGoroutineLeak(t, func() {
		g := NewGate()
		release := make(chan struct{})
		holding := make(chan struct{})
		done := make(chan struct{})

		go func() {
			defer close(done)
			_ = g.RunExclusive(context.Background(), "owner", func() error {
				close(holding)
				<-release
				return nil
			})
		}()
		<-holding

		ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
		defer cancel()
		ran := false
		err := g.RunExclusive(ctx, "owner", func() error {
			ran = true
			return nil
		})
		assert.ErrorIs(t, err, context.DeadlineExceeded)
		assert.False(t, ran)
		assert.Zero(t, g.Waiting("owner"))

		close(release)
		<-done
		assert.Zero(t, g.Len())
	})
}

func TestExclusive(t *testing.T) {
	g := NewGate()
	v, err := Exclusive(context.Background(), g, "owner", func() (int, error) { return 42, nil })
	require.NoError(t, err)
	assert.Equal(t, 42, v)
}

func TestGate_WaitObserver(t *testing.T) {
	var calls int32
	g := NewGate(WithWaitObserver(func(time.Duration) { atomic.AddInt32(&calls, 1) }))

	for i := 0; i < 3; i++ {
		require.NoError(t, g.RunExclusive(context.Background(), "owner", func() error { return nil }))
	}
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
}
