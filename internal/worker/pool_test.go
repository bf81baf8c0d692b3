package worker

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/osse101/IdleRealm_Go/internal/logger"
	"github.com/osse101/IdleRealm_Go/internal/testing/leaktest"
)

func countingJob(n *int32) Job {
	return JobFunc(func(context.Context) error {
		atomic.AddInt32(n, 1)
		return nil
	})
}

func TestPool(t *testing.T) {
	leaktest.CheckNoGoroutineLeak(t, func() {
		var executed int32
		pool := NewPool(TestWorkerCount, TestQueueSize)
		pool.Start()

		pool.Enqueue(countingJob(&executed))
		pool.Enqueue(countingJob(&executed))

		assert.Eventually(t, func() bool { return atomic.LoadInt32(&executed) == 2 }, time.Second, 5*time.Millisecond)
		pool.Stop()
	})
}

func TestPool_TryEnqueueWhenFull(t *testing.T) {
	pool := NewPool(1, 1)
	// not started, so nothing drains the queue
	var executed int32

	assert.True(t, pool.TryEnqueue(countingJob(&executed)))
	assert.False(t, pool.TryEnqueue(countingJob(&executed)))
	assert.Equal(t, 1, pool.QueueLen())

	pool.Stop()
	assert.False(t, pool.TryEnqueue(countingJob(&executed)), "stopped pools reject work")
}

func TestPool_SurvivesFailingAndPanickingJobs(t *testing.T) {
	pool := NewPool(1, TestQueueSize)
	pool.Start()
	defer pool.Stop()

	var executed int32
	pool.Enqueue(JobFunc(func(context.Context) error { return errors.New("boom") }))
	pool.Enqueue(JobFunc(func(context.Context) error { panic("corrupt state") }))
	pool.Enqueue(countingJob(&executed))

	assert.Eventually(t, func() bool { return atomic.LoadInt32(&executed) == 1 }, time.Second, 5*time.Millisecond)
}

func TestPool_JobsGetRequestID(t *testing.T) {
	pool := NewPool(1, TestQueueSize)
	pool.Start()
	defer pool.Stop()

	got := make(chan string, 1)
	pool.Enqueue(JobFunc(func(ctx context.Context) error {
		got <- logger.GetRequestID(ctx)
		return nil
	}))
	select {
	case id := <-got:
		assert.NotEmpty(t, id)
	case <-time.After(time.Second):
		t.Fatal("job did not run")
	}
}

func TestPool_EnqueueAfterStopDoesNotBlock(t *testing.T) {
	pool := NewPool(1, 0)
	pool.Stop()

	done := make(chan struct{})
	go func() {
		pool.Enqueue(JobFunc(func(context.Context) error { return nil }))
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Enqueue blocked on a stopped pool")
	}
}
