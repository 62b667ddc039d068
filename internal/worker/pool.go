package worker

import (
	"context"
	"sync"

	"github.com/osse101/GameDevClicker_Go/internal/logger"
)

// Job represents a task to be executed by a worker
type Job interface {
	Process(ctx context.Context) error
}

// JobFunc adapts a plain function to the Job interface.
type JobFunc func(ctx context.Context) error

// Process calls f.
func (f JobFunc) Process(ctx context.Context) error { return f(ctx) }

// Pool runs background jobs on a fixed set of workers. Save flushes are
// queued here so request handlers never block on persistence.
type Pool struct {
	workers  int
	jobQueue chan Job

	mu      sync.Mutex
	stopped bool
	wg      sync.WaitGroup
}

// NewPool creates a pool with the given worker count and queue capacity.
func NewPool(workers, queueSize int) *Pool {
	if workers < 1 {
		workers = 1
	}
	if queueSize < 1 {
		queueSize = 1
	}
	return &Pool{
		workers:  workers,
		jobQueue: make(chan Job, queueSize),
	}
}

// Start launches the workers.
func (p *Pool) Start() {
	for i := 0; i < p.workers; i++ {
		p.wg.Add(1)
		go p.worker()
	}
}

func (p *Pool) worker() {
	defer p.wg.Done()
	for job := range p.jobQueue {
		// Jobs outlive the request that queued them, so they run on a
		// background context.
		ctx := context.Background()
		if err := job.Process(ctx); err != nil {
			logger.FromContext(ctx).Error(LogMsgWorkerJobFailed, "error", err)
		}
	}
}

// Enqueue adds a job without blocking. It reports false when the pool is
// stopped or the queue is full; callers decide whether to run the job
// inline instead.
func (p *Pool) Enqueue(job Job) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.stopped {
		return false
	}
	select {
	case p.jobQueue <- job:
		return true
	default:
		return false
	}
}

// Stop closes intake, lets the workers drain the jobs already queued, and
// waits for them to finish. Safe to call more than once.
func (p *Pool) Stop() {
	p.mu.Lock()
	if p.stopped {
		p.mu.Unlock()
		return
	}
	p.stopped = true
	close(p.jobQueue)
	p.mu.Unlock()
	p.wg.Wait()
}
