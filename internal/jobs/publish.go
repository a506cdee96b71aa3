package jobs

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/sevigo/pullpilot/internal/core"
	"github.com/sevigo/pullpilot/internal/render"
)

// Publisher posts completed reviews back to their pull request.
type Publisher struct {
	service  *Service
	comments core.CommentPublisher
	logger   *slog.Logger
}

// NewPublisher creates a Publisher that reads jobs through service.
func NewPublisher(service *Service, comments core.CommentPublisher, logger *slog.Logger) *Publisher {
	return &Publisher{service: service, comments: comments, logger: logger}
}

// Publish renders a completed review owned by userID as markdown and posts it
// on the pull request. It returns the URL of the new comment.
func (p *Publisher) Publish(ctx context.Context, userID, jobID int64) (string, error) {
	job, err := p.service.Get(ctx, userID, jobID)
	if err != nil {
		return "", err
	}
	if job.Status != core.StatusCompleted {
		return "", fmt.Errorf("%w: review %d is %s", core.ErrNotCompleted, jobID, job.Status)
	}

	repo, err := p.service.repository(ctx, userID, job.RepositoryID)
	if err != nil {
		return "", err
	}
	credential, err := p.service.credentials.Credential(ctx, repo)
	if err != nil {
		return "", fmt.Errorf("failed to resolve credential for %s: %w", repo.FullName, err)
	}

	url, err := p.comments.PublishComment(ctx, repo.FullName, job.PRNumber, credential, render.Markdown(job))
	if err != nil {
		p.logger.Warn("failed to publish review", "job_id", jobID, "repo", repo.FullName, "error", err)
		return "", err
	}
	p.logger.Info("review published", "job_id", jobID, "url", url)
	return url, nil
}
