package worker

import (
	"context"
	"fmt"
	"sync"

	"github.com/osse101/IdleRealm_Go/internal/logger"
)

// Job represents a task to be executed by a worker
type Job interface {
	Process(ctx context.Context) error
}

// JobFunc adapts a function to the Job interface
type JobFunc func(ctx context.Context) error

// Process calls f(ctx)
func (f JobFunc) Process(ctx context.Context) error { return f(ctx) }

// Pool is a fixed set of goroutines draining a bounded job queue
type Pool struct {
	workers  int
	jobQueue chan Job
	wg       sync.WaitGroup
	quit     chan struct{}
	stopOnce sync.Once
}

// NewPool creates a new worker pool
func NewPool(workers int, queueSize int) *Pool {
	if workers <= 0 {
		workers = 1
	}
	return &Pool{
		workers:  workers,
		jobQueue: make(chan Job, queueSize),
		quit:     make(chan struct{}),
	}
}

// Start starts the workers
func (p *Pool) Start() {
	for i := 0; i < p.workers; i++ {
		p.wg.Add(1)
		go p.worker()
	}
}

func (p *Pool) worker() {
	defer p.wg.Done()
	for {
		select {
		case job := <-p.jobQueue:
			p.run(job)
		case <-p.quit:
			return
		}
	}
}

// run processes one job; a panicking job does not take the worker down
func (p *Pool) run(job Job) {
	ctx := logger.WithRequestID(context.Background(), logger.GenerateRequestID())
	defer func() {
		if r := recover(); r != nil {
			logger.FromContext(ctx).Error(LogMsgWorkerJobPanicked, "panic", fmt.Sprint(r))
		}
	}()
	if err := job.Process(ctx); err != nil {
		logger.FromContext(ctx).Error(LogMsgWorkerJobFailed, "error", err)
	}
}

// Enqueue adds a job to the queue, blocking while it is full.
// Jobs enqueued after Stop are dropped.
func (p *Pool) Enqueue(job Job) {
	select {
	case p.jobQueue <- job:
	case <-p.quit:
	}
}

// TryEnqueue adds a job without blocking and reports whether it was accepted
func (p *Pool) TryEnqueue(job Job) bool {
	select {
	case <-p.quit:
		return false
	default:
	}
	select {
	case p.jobQueue <- job:
		return true
	default:
		return false
	}
}

// QueueLen returns the number of jobs waiting
func (p *Pool) QueueLen() int {
	return len(p.jobQueue)
}

// Stop stops the workers and waits for in-flight jobs to finish.
// Jobs still queued are discarded.
func (p *Pool) Stop() {
	p.stopOnce.Do(func() { close(p.quit) })
	p.wg.Wait()
}
