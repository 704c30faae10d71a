package jobs

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/KhoaTran011604/gp-bmt-api/pkg/logger"
)

// Job is a unit of background work. The context is cancelled on shutdown.
type Job func(ctx context.Context) error

// Worker runs fire-and-forget jobs and recurring scheduled tasks. Async
// concurrency is bounded by a semaphore so a burst of notifications cannot
// exhaust database connections.
type Worker struct {
	ctx      context.Context
	cancel   context.CancelFunc
	wg       sync.WaitGroup
	asyncSem chan struct{}

	statsMu sync.RWMutex
	stats   WorkerStats
}

// WorkerStats reports job counters for the status endpoint.
// CompletedJobs counts every finished job; FailedJobs is the subset that
// returned an error or panicked.
type WorkerStats struct {
	ActiveJobs    int   `json:"active_jobs"`
	CompletedJobs int64 `json:"completed_jobs"`
	FailedJobs    int64 `json:"failed_jobs"`
	MaxConcurrent int   `json:"max_concurrent"`
}

// NewWorker creates a worker allowing up to 2x numWorkers concurrent async
// jobs, with a floor of 10.
func NewWorker(numWorkers int) *Worker {
	ctx, cancel := context.WithCancel(context.Background())

	limit := numWorkers * 2
	if limit < 10 {
		limit = 10
	}

	return &Worker{
		ctx:      ctx,
		cancel:   cancel,
		asyncSem: make(chan struct{}, limit),
	}
}

// EnqueueAsync runs a job in its own goroutine. Panics are recovered and
// counted as failures so a bad notification cannot take the process down.
func (w *Worker) EnqueueAsync(job Job) {
	go func() {
		w.asyncSem <- struct{}{}
		defer func() { <-w.asyncSem }()

		w.wg.Add(1)
		defer w.wg.Done()

		w.jobStarted()
		defer w.jobFinished()

		defer func() {
			if r := recover(); r != nil {
				logger.Error(fmt.Sprintf("[Worker] Async job panic: %v", r))
				w.jobFailed()
			}
		}()

		if err := job(w.ctx); err != nil {
			logger.Error(fmt.Sprintf("[Worker] Async job error: %v", err))
			w.jobFailed()
		}
	}()
}

// ScheduleEvery runs a job at fixed intervals. The first run happens after
// one interval, not at startup.
func (w *Worker) ScheduleEvery(interval time.Duration, job Job) {
	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-w.ctx.Done():
				return
			case <-ticker.C:
				w.runScheduled(job)
			}
		}
	}()
}

func (w *Worker) runScheduled(job Job) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error(fmt.Sprintf("[Scheduler] Job panic: %v", r))
			w.jobFailed()
			w.jobFinished()
		}
	}()

	w.jobStarted()
	start := time.Now()
	if err := job(w.ctx); err != nil {
		logger.Error(fmt.Sprintf("[Scheduler] Job error: %v", err))
		w.jobFailed()
	} else {
		logger.Info(fmt.Sprintf("[Scheduler] Job completed in %v", time.Since(start)))
	}
	w.jobFinished()
}

// Shutdown cancels the worker context and waits for in-flight jobs.
func (w *Worker) Shutdown() {
	w.cancel()
	w.wg.Wait()
}

// GetStats returns a snapshot of the job counters.
func (w *Worker) GetStats() WorkerStats {
	w.statsMu.RLock()
	defer w.statsMu.RUnlock()
	stats := w.stats
	stats.MaxConcurrent = cap(w.asyncSem)
	return stats
}

func (w *Worker) jobStarted() {
	w.statsMu.Lock()
	defer w.statsMu.Unlock()
	w.stats.ActiveJobs++
}

func (w *Worker) jobFinished() {
	w.statsMu.Lock()
	defer w.statsMu.Unlock()
	w.stats.ActiveJobs--
	w.stats.CompletedJobs++
}

func (w *Worker) jobFailed() {
	w.statsMu.Lock()
	defer w.statsMu.Unlock()
	w.stats.FailedJobs++
}
