package github

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/google/go-github/v73/github"

	"github.com/sevigo/pullpilot/internal/core"
)

// ClientFactory builds a Client bound to one access credential.
type ClientFactory func(ctx context.Context, credential string) (Client, error)

// Fetcher implements core.DiffFetcher on top of the GitHub pull request API.
type Fetcher struct {
	newClient ClientFactory
	logger    *slog.Logger
}

// NewFetcher creates a Fetcher that talks to apiURL (empty for api.github.com).
func NewFetcher(apiURL string, logger *slog.Logger) *Fetcher {
	return NewFetcherWithFactory(func(ctx context.Context, credential string) (Client, error) {
		return NewTokenClient(ctx, credential, apiURL, logger)
	}, logger)
}

// NewFetcherWithFactory creates a Fetcher with a custom client constructor.
func NewFetcherWithFactory(factory ClientFactory, logger *slog.Logger) *Fetcher {
	return &Fetcher{newClient: factory, logger: logger}
}

// FetchDiff returns the pull request's title, head SHA and unified diff. Upstream
// failures are mapped onto core.ErrPullRequestNotFound, core.ErrUnauthorized and
// core.ErrUpstreamUnavailable.
func (f *Fetcher) FetchDiff(ctx context.Context, repoFullName string, prNumber int, credential string) (*core.PullRequestDiff, error) {
	if prNumber <= 0 {
		return nil, fmt.Errorf("%w: pull request number must be positive, got %d", core.ErrValidation, prNumber)
	}
	if credential == "" {
		return nil, fmt.Errorf("%w: no access credential", core.ErrUnauthorized)
	}
	owner, name, err := core.SplitFullName(repoFullName)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", core.ErrValidation, err)
	}

	client, err := f.newClient(ctx, credential)
	if err != nil {
		return nil, fmt.Errorf("failed to create GitHub client: %w", err)
	}

	pr, err := client.GetPullRequest(ctx, owner, name, prNumber)
	if err != nil {
		return nil, mapGitHubError(err)
	}
	diff, err := client.GetPullRequestDiff(ctx, owner, name, prNumber)
	if err != nil {
		return nil, mapGitHubError(err)
	}

	stat := SummarizeDiff(diff)
	f.logger.Debug("fetched pull request diff",
		"repo", repoFullName, "pr", prNumber, "bytes", len(diff),
		"files", stat.Files, "additions", stat.Additions, "deletions", stat.Deletions)
	return &core.PullRequestDiff{
		Number:  prNumber,
		Title:   pr.GetTitle(),
		HeadSHA: pr.GetHead().GetSHA(),
		Diff:    diff,
	}, nil
}

// mapGitHubError translates go-github errors into the pipeline's sentinel errors.
func mapGitHubError(err error) error {
	var rateErr *github.RateLimitError
	if errors.As(err, &rateErr) {
		return fmt.Errorf("%w: rate limited until %s", core.ErrUpstreamUnavailable, rateErr.Rate.Reset.Time)
	}
	var abuseErr *github.AbuseRateLimitError
	if errors.As(err, &abuseErr) {
		return fmt.Errorf("%w: %w", core.ErrUpstreamUnavailable, err)
	}

	var respErr *github.ErrorResponse
	if errors.As(err, &respErr) && respErr.Response != nil {
		switch code := respErr.Response.StatusCode; {
		case code == http.StatusNotFound:
			return fmt.Errorf("%w: %w", core.ErrPullRequestNotFound, err)
		case code == http.StatusUnauthorized || code == http.StatusForbidden:
			return fmt.Errorf("%w: %w", core.ErrUnauthorized, err)
		default:
			return fmt.Errorf("%w: %w", core.ErrUpstreamUnavailable, err)
		}
	}
	return fmt.Errorf("%w: %w", core.ErrUpstreamUnavailable, err)
}
