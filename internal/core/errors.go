package core

import "errors"

// Errors raised before a job exists are returned synchronously to the submitter.
var (
	ErrValidation          = errors.New("invalid review request")
	ErrRepositoryNotFound  = errors.New("repository not found")
	ErrPullRequestNotFound = errors.New("pull request not found")
	ErrUnauthorized        = errors.New("upstream credential rejected")
	ErrUpstreamUnavailable = errors.New("upstream unavailable")
)

// Errors raised by an analysis provider. They are only ever recorded on the job
// as a failed status, never returned to the submitter.
var (
	ErrProviderUnavailable = errors.New("analysis provider unavailable")
	ErrProviderTimeout     = errors.New("analysis provider timed out")
	ErrEmptyAnalysis       = errors.New("analysis provider returned no output")
)

var (
	// ErrNotFound is returned by read operations for absent or foreign jobs.
	ErrNotFound = errors.New("review not found")
	// ErrQueueFull is returned by a dispatcher that cannot accept more work.
	ErrQueueFull = errors.New("analysis queue is full")
)

// ErrJobTerminal is returned when an operation needs a pending job but the job
// already reached completed or failed.
var ErrJobTerminal = errors.New("review already finished")

// ErrNotCompleted is returned when an operation needs a completed analysis.
var ErrNotCompleted = errors.New("review has no completed analysis")
