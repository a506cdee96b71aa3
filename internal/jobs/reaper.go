package jobs

import (
	"context"
	"log/slog"
	"time"

	"github.com/sevigo/pullpilot/internal/storage"
)

const reasonStale = "stale pending job"

// Reaper fails jobs that stayed pending longer than any analysis can take,
// typically because the process restarted while they were queued.
type Reaper struct {
	store      storage.Store
	staleAfter time.Duration
	interval   time.Duration
	logger     *slog.Logger
}

func NewReaper(store storage.Store, staleAfter, interval time.Duration, logger *slog.Logger) *Reaper {
	return &Reaper{store: store, staleAfter: staleAfter, interval: interval, logger: logger}
}

// Run sweeps once immediately and then on every interval until ctx is done.
func (r *Reaper) Run(ctx context.Context) error {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		if _, err := r.RunOnce(ctx); err != nil && ctx.Err() == nil {
			r.logger.Error("stale job sweep failed", "error", err)
		}
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

// RunOnce fails every stale pending job and returns how many were failed.
func (r *Reaper) RunOnce(ctx context.Context) (int64, error) {
	n, err := r.store.FailStalePendingReviews(ctx, r.staleAfter, reasonStale)
	if err != nil {
		return 0, err
	}
	if n > 0 {
		r.logger.Warn("failed stale pending jobs", "count", n, "older_than", r.staleAfter)
	}
	return n, nil
}
