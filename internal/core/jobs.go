// Package core defines the essential interfaces and data structures that form the
// backbone of the review pipeline. These components are designed to be abstract,
// allowing for flexible and decoupled implementations of the application's logic.
package core

import (
	"context"
)

// AnalysisTask is the unit of work handed to the background workers once a
// pending job row exists.
type AnalysisTask struct {
	JobID   int64
	PRTitle string
	Diff    string
}

// JobDispatcher defines the contract for a system that can accept and queue
// analysis tasks for asynchronous processing. It decouples job creation from
// the execution mechanism.
//
//go:generate mockgen -destination=../../mocks/mock_core.go -package=mocks . JobDispatcher,DiffFetcher,AnalysisProvider,CredentialResolver,CommentPublisher
type JobDispatcher interface {
	// Dispatch queues a task for processing. It never blocks; a full queue is
	// reported as ErrQueueFull so the caller can apply backpressure.
	Dispatch(ctx context.Context, task *AnalysisTask) error
	// Stop closes the queue and waits for in-flight tasks to finish.
	Stop()
}

// Job represents a single, executable unit of work run by a dispatcher worker.
type Job interface {
	// Run executes the task. A returned error is only logged: the outcome of a
	// task is always recorded on the job row itself.
	Run(ctx context.Context, task *AnalysisTask) error
}

// DiffFetcher retrieves a pull request's title and unified diff from the upstream host.
type DiffFetcher interface {
	FetchDiff(ctx context.Context, repoFullName string, prNumber int, credential string) (*PullRequestDiff, error)
}

// AnalysisProvider turns a diff into a findings report. Implementations must
// honour ctx cancellation and deadlines.
type AnalysisProvider interface {
	Analyze(ctx context.Context, diff, prTitle string) (*AnalysisReport, error)
	Name() string
}

// CredentialResolver returns a valid upstream access credential for a repository.
type CredentialResolver interface {
	Credential(ctx context.Context, repo *Repository) (string, error)
}

// CommentPublisher posts a markdown comment on a pull request and returns the
// comment's web URL.
type CommentPublisher interface {
	PublishComment(ctx context.Context, repoFullName string, prNumber int, credential, body string) (string, error)
}
