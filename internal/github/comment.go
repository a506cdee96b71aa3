package github

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/sevigo/pullpilot/internal/core"
)

// commentMarker tags comments posted by this service so they can be found later.
const commentMarker = "<!-- pullpilot:review -->"

// maxCommentLength stays under GitHub's 65536 character limit for comment bodies.
const maxCommentLength = 65000

// Commenter implements core.CommentPublisher with issue comments on the pull request.
type Commenter struct {
	newClient ClientFactory
	logger    *slog.Logger
}

// NewCommenter creates a Commenter that talks to apiURL (empty for api.github.com).
func NewCommenter(apiURL string, logger *slog.Logger) *Commenter {
	return NewCommenterWithFactory(func(ctx context.Context, credential string) (Client, error) {
		return NewTokenClient(ctx, credential, apiURL, logger)
	}, logger)
}

// NewCommenterWithFactory creates a Commenter with a custom client constructor.
func NewCommenterWithFactory(factory ClientFactory, logger *slog.Logger) *Commenter {
	return &Commenter{newClient: factory, logger: logger}
}

// PublishComment posts body on the pull request and returns the comment URL.
// Errors are mapped the same way as diff fetch errors.
func (c *Commenter) PublishComment(ctx context.Context, repoFullName string, prNumber int, credential, body string) (string, error) {
	if strings.TrimSpace(body) == "" {
		return "", fmt.Errorf("%w: empty comment body", core.ErrValidation)
	}
	if credential == "" {
		return "", fmt.Errorf("%w: no access credential", core.ErrUnauthorized)
	}
	owner, name, err := core.SplitFullName(repoFullName)
	if err != nil {
		return "", fmt.Errorf("%w: %w", core.ErrValidation, err)
	}

	client, err := c.newClient(ctx, credential)
	if err != nil {
		return "", fmt.Errorf("failed to create GitHub client: %w", err)
	}
	comment, err := client.CreateComment(ctx, owner, name, prNumber, formatComment(body))
	if err != nil {
		return "", mapGitHubError(err)
	}

	c.logger.Info("posted review comment", "repo", repoFullName, "pr", prNumber, "comment_id", comment.GetID())
	return comment.GetHTMLURL(), nil
}

func formatComment(body string) string {
	body = strings.TrimSpace(body)
	if len(body) > maxCommentLength {
		cut := strings.LastIndexByte(body[:maxCommentLength], '\n')
		if cut <= 0 {
			cut = maxCommentLength
		}
		body = body[:cut] + "\n\n_Review truncated to fit a GitHub comment._"
	}
	return commentMarker + "\n" + body + "\n"
}
