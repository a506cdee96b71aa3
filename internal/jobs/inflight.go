package jobs

import (
	"context"
	"sync"
)

// Inflight tracks the cancel functions of analyses that are currently running
// so a user cancellation can stop the provider call early.
type Inflight struct {
	mu      sync.Mutex
	running map[int64]context.CancelFunc
}

func NewInflight() *Inflight {
	return &Inflight{running: make(map[int64]context.CancelFunc)}
}

// track registers cancel for jobID and returns the function that unregisters it.
func (r *Inflight) track(jobID int64, cancel context.CancelFunc) func() {
	r.mu.Lock()
	r.running[jobID] = cancel
	r.mu.Unlock()
	return func() {
		r.mu.Lock()
		delete(r.running, jobID)
		r.mu.Unlock()
	}
}

// Cancel stops the running analysis for jobID and reports whether one was running.
func (r *Inflight) Cancel(jobID int64) bool {
	r.mu.Lock()
	cancel, ok := r.running[jobID]
	r.mu.Unlock()
	if ok {
		cancel()
	}
	return ok
}

// Len returns the number of running analyses.
func (r *Inflight) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.running)
}
