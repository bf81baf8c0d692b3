package scheduler

import (
	"sync"
	"time"

	"github.com/osse101/IdleRealm_Go/internal/worker"
)

// Enqueuer is the part of the worker pool the scheduler needs
type Enqueuer interface {
	TryEnqueue(job worker.Job) bool
}

// Scheduler fires jobs into a worker pool at fixed intervals. A firing is
// skipped, not queued up, when the pool is saturated so a slow heartbeat
// never builds a backlog of stale ticks.
type Scheduler struct {
	pool   Enqueuer
	onSkip func(name string)
	quit   chan struct{}
	once   sync.Once
	wg     sync.WaitGroup
}

// Option configures a Scheduler
type Option func(*Scheduler)

// WithSkipHook is called with the job name whenever a firing is dropped
func WithSkipHook(fn func(name string)) Option {
	return func(s *Scheduler) { s.onSkip = fn }
}

// New creates a new scheduler
func New(pool Enqueuer, opts ...Option) *Scheduler {
	s := &Scheduler{
		pool: pool,
		quit: make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Schedule registers a job to run at a fixed interval, starting one interval from now
func (s *Scheduler) Schedule(name string, interval time.Duration, job worker.Job) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				if !s.pool.TryEnqueue(job) && s.onSkip != nil {
					s.onSkip(name)
				}
			case <-s.quit:
				return
			}
		}
	}()
}

// Stop stops all scheduled jobs
func (s *Scheduler) Stop() {
	s.once.Do(func() { close(s.quit) })
	s.wg.Wait()
}
