package jobs

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/sevigo/pullpilot/internal/core"
	"github.com/sevigo/pullpilot/internal/history"
	"github.com/sevigo/pullpilot/internal/storage"
)

const (
	reasonQueueFull = "analysis queue is full"
	reasonCancelled = "cancelled by user"
)

// Service is the review job orchestrator. It owns the synchronous part of a
// submission (repository, credential, diff, pending row) and hands the
// analysis to the dispatcher.
type Service struct {
	store       storage.Store
	fetcher     core.DiffFetcher
	credentials core.CredentialResolver
	dispatcher  core.JobDispatcher
	inflight    *Inflight
	logger      *slog.Logger
}

// NewService creates the orchestrator.
func NewService(
	store storage.Store,
	fetcher core.DiffFetcher,
	credentials core.CredentialResolver,
	dispatcher core.JobDispatcher,
	inflight *Inflight,
	logger *slog.Logger,
) *Service {
	return &Service{
		store:       store,
		fetcher:     fetcher,
		credentials: credentials,
		dispatcher:  dispatcher,
		inflight:    inflight,
		logger:      logger,
	}
}

// Submit creates a pending review for a pull request and schedules its
// analysis. Every call creates a new job, even when earlier jobs exist for the
// same PR. Errors before the row is created are returned; nothing after it is.
func (s *Service) Submit(ctx context.Context, userID, repositoryID int64, prNumber int) (*core.ReviewJob, error) {
	if repositoryID <= 0 {
		return nil, fmt.Errorf("%w: repositoryId must be a positive integer", core.ErrValidation)
	}
	if prNumber <= 0 {
		return nil, fmt.Errorf("%w: prNumber must be a positive integer", core.ErrValidation)
	}

	repo, err := s.repository(ctx, userID, repositoryID)
	if err != nil {
		return nil, err
	}
	if !repo.IsActive {
		return nil, fmt.Errorf("%w: repository %d is disconnected", core.ErrRepositoryNotFound, repositoryID)
	}

	credential, err := s.credentials.Credential(ctx, repo)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve credential for %s: %w", repo.FullName, err)
	}

	pr, err := s.fetcher.FetchDiff(ctx, repo.FullName, prNumber, credential)
	if err != nil {
		s.logger.Warn("diff fetch failed, no job created", "repo", repo.FullName, "pr", prNumber, "error", err)
		return nil, err
	}

	job := &core.ReviewJob{
		RepositoryID: repo.ID,
		PRNumber:     prNumber,
		PRTitle:      pr.Title,
	}
	if err := s.store.CreateReview(ctx, job); err != nil {
		return nil, fmt.Errorf("failed to create review job: %w", err)
	}
	s.logger.Info("review job created", "job_id", job.ID, "repo", repo.FullName, "pr", prNumber)

	task := &core.AnalysisTask{JobID: job.ID, PRTitle: pr.Title, Diff: pr.Diff}
	if err := s.dispatcher.Dispatch(ctx, task); err != nil {
		// The row already exists, so the failure belongs on the job.
		s.logger.Warn("could not dispatch analysis", "job_id", job.ID, "error", err)
		return s.failUndispatched(ctx, job, err)
	}
	return job, nil
}

func (s *Service) failUndispatched(ctx context.Context, job *core.ReviewJob, cause error) (*core.ReviewJob, error) {
	reason := reasonQueueFull
	if !errors.Is(cause, core.ErrQueueFull) {
		reason = "analysis could not be scheduled: " + cause.Error()
	}
	writeCtx := context.WithoutCancel(ctx)
	if _, err := s.store.FailReview(writeCtx, job.ID, reason); err != nil {
		s.logger.Error("failed to mark undispatched job as failed", "job_id", job.ID, "error", err)
		return job, nil
	}
	snapshot, err := s.store.GetReview(writeCtx, job.ID)
	if err != nil {
		return job, nil
	}
	return snapshot, nil
}

// Get returns the current snapshot of a job owned by userID.
func (s *Service) Get(ctx context.Context, userID, jobID int64) (*core.ReviewJob, error) {
	job, err := s.store.GetReviewForUser(ctx, userID, jobID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, fmt.Errorf("%w: review %d", core.ErrNotFound, jobID)
		}
		return nil, err
	}
	return job, nil
}

// ListByRepository returns every job of a repository owned by userID, with no
// reconciliation and no ordering guarantee.
func (s *Service) ListByRepository(ctx context.Context, userID, repositoryID int64) ([]*core.ReviewJob, error) {
	if _, err := s.repository(ctx, userID, repositoryID); err != nil {
		return nil, err
	}
	return s.store.ListReviewsByRepository(ctx, repositoryID)
}

// LatestForPR returns the most recent job for a pull request, or nil when the
// PR was never reviewed. Callers use it to warn before a re-analysis.
func (s *Service) LatestForPR(ctx context.Context, userID, repositoryID int64, prNumber int) (*core.ReviewJob, error) {
	jobs, err := s.ListByRepository(ctx, userID, repositoryID)
	if err != nil {
		return nil, err
	}
	return history.LatestForPR(jobs, prNumber), nil
}

// Cancel moves a pending job to failed and stops its analysis if it is running.
// A job that already finished is returned with core.ErrJobTerminal.
func (s *Service) Cancel(ctx context.Context, userID, jobID int64) (*core.ReviewJob, error) {
	job, err := s.Get(ctx, userID, jobID)
	if err != nil {
		return nil, err
	}

	applied, err := s.store.FailReview(ctx, jobID, reasonCancelled)
	if err != nil {
		return nil, fmt.Errorf("failed to cancel review %d: %w", jobID, err)
	}
	if applied && s.inflight.Cancel(jobID) {
		s.logger.Info("stopped running analysis", "job_id", jobID)
	}

	job, err = s.store.GetReview(ctx, jobID)
	if err != nil {
		return nil, err
	}
	if !applied {
		return job, fmt.Errorf("%w: review %d is %s", core.ErrJobTerminal, jobID, job.Status)
	}
	s.logger.Info("review cancelled", "job_id", jobID)
	return job, nil
}

// DisconnectRepository deactivates a repository owned by userID. Its review
// history stays readable; new submissions are rejected as not found.
func (s *Service) DisconnectRepository(ctx context.Context, userID, repositoryID int64) (*core.Repository, error) {
	repo, err := s.store.DisconnectRepository(ctx, userID, repositoryID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, fmt.Errorf("%w: repository %d", core.ErrRepositoryNotFound, repositoryID)
		}
		return nil, err
	}
	s.logger.Info("repository disconnected", "repo", repo.FullName, "repository_id", repo.ID)
	return repo, nil
}

func (s *Service) repository(ctx context.Context, userID, repositoryID int64) (*core.Repository, error) {
	repo, err := s.store.GetRepositoryForUser(ctx, userID, repositoryID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, fmt.Errorf("%w: repository %d", core.ErrRepositoryNotFound, repositoryID)
		}
		return nil, err
	}
	return repo, nil
}
