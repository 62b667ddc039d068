package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/osse101/GameDevClicker_Go/internal/logger"
	"github.com/osse101/GameDevClicker_Go/internal/worker"
)

// LogMsgJobDropped is logged when the worker pool rejects a scheduled job.
const LogMsgJobDropped = "Scheduled job dropped, worker queue full"

// Scheduler runs recurring jobs on a worker pool. The autosave sweep is
// wired here at startup.
type Scheduler struct {
	workerPool *worker.Pool
	quit       chan struct{}
	wg         sync.WaitGroup
}

// New creates a new scheduler
func New(pool *worker.Pool) *Scheduler {
	return &Scheduler{
		workerPool: pool,
		quit:       make(chan struct{}),
	}
}

// Schedule registers a job to run at a fixed interval. The first run
// happens one interval after the call, not immediately. A tick whose job
// does not fit in the worker queue is skipped; the next tick retries.
func (s *Scheduler) Schedule(name string, interval time.Duration, job worker.Job) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				if !s.workerPool.Enqueue(job) {
					logger.FromContext(context.Background()).Warn(LogMsgJobDropped, "job", name)
				}
			case <-s.quit:
				return
			}
		}
	}()
}

// Stop stops all scheduled jobs
func (s *Scheduler) Stop() {
	close(s.quit)
	s.wg.Wait()
}
