// Package jobs runs review analysis in the background and owns the job write path.
package jobs

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/sevigo/pullpilot/internal/core"
)

// ErrDispatcherStopped is returned by Dispatch after Stop has been called.
var ErrDispatcherStopped = errors.New("dispatcher is stopped")

// DispatcherConfig bounds the worker pool.
type DispatcherConfig struct {
	MaxWorkers int
	QueueSize  int
}

// dispatcher implements core.JobDispatcher with a fixed pool of worker
// goroutines reading from a bounded queue.
type dispatcher struct {
	ctx        context.Context
	job        core.Job
	queue      chan *core.AnalysisTask
	maxWorkers int
	wg         sync.WaitGroup
	logger     *slog.Logger

	mu      sync.RWMutex
	stopped bool
}

// NewDispatcher initializes a dispatcher and starts its workers. Tasks run
// with ctx, so cancelling it aborts in-flight analyses. Non-positive sizes
// default to one worker and a queue of 100.
func NewDispatcher(ctx context.Context, job core.Job, cfg DispatcherConfig, logger *slog.Logger) core.JobDispatcher {
	if cfg.MaxWorkers <= 0 {
		cfg.MaxWorkers = 1
	}
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = 100
	}
	d := &dispatcher{
		ctx:        ctx,
		job:        job,
		maxWorkers: cfg.MaxWorkers,
		queue:      make(chan *core.AnalysisTask, cfg.QueueSize),
		logger:     logger,
	}
	d.startWorkers()
	return d
}

func (d *dispatcher) startWorkers() {
	for i := range d.maxWorkers {
		d.wg.Add(1)
		go d.startWorker(i)
	}
}

func (d *dispatcher) startWorker(workerID int) {
	defer d.wg.Done()
	d.logger.Debug("starting analysis worker", "worker_id", workerID)

	for task := range d.queue {
		d.process(workerID, task)
	}

	d.logger.Debug("analysis worker stopped", "worker_id", workerID)
}

func (d *dispatcher) process(workerID int, task *core.AnalysisTask) {
	defer func() {
		if r := recover(); r != nil {
			d.logger.Error("analysis job panicked", "worker_id", workerID, "job_id", task.JobID, "panic", r)
		}
	}()

	d.logger.Info("worker processing job", "worker_id", workerID, "job_id", task.JobID)
	if err := d.job.Run(d.ctx, task); err != nil {
		d.logger.Error("analysis job failed", "worker_id", workerID, "job_id", task.JobID, "error", err)
	}
}

// Dispatch queues a task without blocking. A full queue returns core.ErrQueueFull.
func (d *dispatcher) Dispatch(_ context.Context, task *core.AnalysisTask) error {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.stopped {
		return ErrDispatcherStopped
	}
	select {
	case d.queue <- task:
		d.logger.Debug("queued analysis job", "job_id", task.JobID, "queued", len(d.queue))
		return nil
	default:
		return fmt.Errorf("%w: %d tasks waiting", core.ErrQueueFull, cap(d.queue))
	}
}

// Stop closes the queue and waits for queued and running tasks to finish.
// It is safe to call more than once.
func (d *dispatcher) Stop() {
	d.mu.Lock()
	if d.stopped {
		d.mu.Unlock()
		return
	}
	d.stopped = true
	close(d.queue)
	d.mu.Unlock()

	d.logger.Info("stopping dispatcher and waiting for jobs to finish")
	d.wg.Wait()
	d.logger.Info("all analysis jobs have finished")
}
