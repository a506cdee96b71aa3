package jobs

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/sevigo/pullpilot/internal/core"
	"github.com/sevigo/pullpilot/internal/llm"
	"github.com/sevigo/pullpilot/internal/storage"
)

const (
	// DefaultMaxDiffLines is the provider input cap used when none is configured.
	DefaultMaxDiffLines = 3000

	terminalWriteTimeout = 10 * time.Second
	maxReasonLength      = 500
)

// AnalysisConfig tunes a single analysis run.
type AnalysisConfig struct {
	Timeout      time.Duration
	MaxDiffLines int
}

// AnalysisJob is the core.Job run by dispatcher workers. It calls the
// provider once and records the outcome with a single conditional write.
type AnalysisJob struct {
	store    storage.Store
	provider core.AnalysisProvider
	inflight *Inflight
	cfg      AnalysisConfig
	logger   *slog.Logger
}

// NewAnalysisJob creates the analysis job.
func NewAnalysisJob(store storage.Store, provider core.AnalysisProvider, inflight *Inflight, cfg AnalysisConfig, logger *slog.Logger) *AnalysisJob {
	if cfg.MaxDiffLines <= 0 {
		cfg.MaxDiffLines = DefaultMaxDiffLines
	}
	return &AnalysisJob{store: store, provider: provider, inflight: inflight, cfg: cfg, logger: logger}
}

// Run analyzes the task's diff and moves the job to completed or failed.
// Provider errors are recorded on the job, not returned.
func (j *AnalysisJob) Run(ctx context.Context, task *core.AnalysisTask) error {
	logger := j.logger.With("job_id", task.JobID, "provider", j.provider.Name())

	current, err := j.store.GetReview(ctx, task.JobID)
	if err != nil {
		return fmt.Errorf("failed to load review %d: %w", task.JobID, err)
	}
	if current.Status.IsTerminal() {
		logger.Info("skipping analysis, job already finished", "status", current.Status)
		return nil
	}

	runCtx, cancel := j.runContext(ctx)
	defer cancel()
	release := j.inflight.track(task.JobID, cancel)
	defer release()

	diff, truncated := llm.TruncateDiff(task.Diff, j.cfg.MaxDiffLines)
	if truncated {
		logger.Debug("diff truncated for analysis", "max_lines", j.cfg.MaxDiffLines)
	}

	start := time.Now()
	report, err := j.provider.Analyze(runCtx, diff, task.PRTitle)
	if err == nil && report == nil {
		err = core.ErrEmptyAnalysis
	}

	// The terminal write must land even when ctx was cancelled, otherwise the
	// job would stay pending until the reaper finds it.
	writeCtx, writeCancel := context.WithTimeout(context.WithoutCancel(ctx), terminalWriteTimeout)
	defer writeCancel()

	if err != nil {
		err = classify(err, runCtx, ctx)
		applied, werr := j.store.FailReview(writeCtx, task.JobID, failureReason(err))
		if werr != nil {
			return fmt.Errorf("failed to record failure for review %d: %w", task.JobID, werr)
		}
		if !applied {
			logger.Info("failure not recorded, job already finished", "error", err)
			return nil
		}
		logger.Warn("analysis failed", "error", err, "duration", time.Since(start))
		return nil
	}

	applied, werr := j.store.CompleteReview(writeCtx, task.JobID, report)
	if werr != nil {
		return fmt.Errorf("failed to record result for review %d: %w", task.JobID, werr)
	}
	if !applied {
		logger.Info("result discarded, job already finished")
		return nil
	}
	logger.Info("analysis completed", "duration", time.Since(start), "findings", report.FindingCount(), "raw", report.IsRaw())
	return nil
}

func (j *AnalysisJob) runContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if j.cfg.Timeout > 0 {
		return context.WithTimeout(ctx, j.cfg.Timeout)
	}
	return context.WithCancel(ctx)
}

// classify normalises provider errors: a shutdown reads as an abort and an
// expired run deadline as a provider timeout.
func classify(err error, runCtx, parent context.Context) error {
	if parent.Err() != nil {
		return fmt.Errorf("analysis aborted: %w", err)
	}
	if errors.Is(err, core.ErrProviderTimeout) || errors.Is(err, core.ErrProviderUnavailable) || errors.Is(err, core.ErrEmptyAnalysis) {
		return err
	}
	if errors.Is(runCtx.Err(), context.DeadlineExceeded) {
		return fmt.Errorf("%w: %w", core.ErrProviderTimeout, err)
	}
	return fmt.Errorf("%w: %w", core.ErrProviderUnavailable, err)
}

func failureReason(err error) string {
	reason := err.Error()
	if len(reason) > maxReasonLength {
		reason = reason[:maxReasonLength] + "..."
	}
	return reason
}
