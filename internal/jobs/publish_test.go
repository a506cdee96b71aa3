package jobs

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/sevigo/pullpilot/internal/core"
	"github.com/sevigo/pullpilot/internal/logger"
	"github.com/sevigo/pullpilot/mocks"
)

func TestPublisher_PostsCompletedReview(t *testing.T) {
	h := newHarness(t, providerFunc(func(context.Context, string, string) (*core.AnalysisReport, error) {
		return &core.AnalysisReport{Security: []core.Finding{{Issue: "SQL injection", Description: "use placeholders"}}}, nil
	}), AnalysisConfig{Timeout: time.Second})
	h.expectDiff(42, "Add query", "+db.Query(input)\n")

	job, err := h.svc.Submit(context.Background(), h.userID, 7, 42)
	require.NoError(t, err)
	require.Equal(t, core.StatusCompleted, h.waitTerminal(t, job.ID).Status)

	comments := mocks.NewMockCommentPublisher(gomock.NewController(t))
	comments.EXPECT().
		PublishComment(gomock.Any(), "octo/r7", 42, "tok", gomock.Any()).
		DoAndReturn(func(_ context.Context, _ string, _ int, _, body string) (string, error) {
			assert.True(t, strings.Contains(body, "SQL injection"), body)
			return "https://github.com/octo/r7/pull/42#issuecomment-1", nil
		})

	url, err := NewPublisher(h.svc, comments, logger.Discard()).Publish(context.Background(), h.userID, job.ID)
	require.NoError(t, err)
	assert.Equal(t, "https://github.com/octo/r7/pull/42#issuecomment-1", url)
}

func TestPublisher_RejectsUnfinishedReviews(t *testing.T) {
	release := make(chan struct{})
	h := newHarness(t, providerFunc(func(ctx context.Context, _, _ string) (*core.AnalysisReport, error) {
		select {
		case <-release:
		case <-ctx.Done():
		}
		return nil, core.ErrProviderUnavailable
	}), AnalysisConfig{Timeout: time.Second})
	defer close(release)
	h.expectDiff(3, "WIP", "+x\n")

	job, err := h.svc.Submit(context.Background(), h.userID, 7, 3)
	require.NoError(t, err)

	// No expectations: the comment API must not be reached.
	comments := mocks.NewMockCommentPublisher(gomock.NewController(t))
	p := NewPublisher(h.svc, comments, logger.Discard())

	_, err = p.Publish(context.Background(), h.userID, job.ID)
	assert.ErrorIs(t, err, core.ErrNotCompleted)

	_, err = p.Publish(context.Background(), h.userID+1, job.ID)
	assert.ErrorIs(t, err, core.ErrNotFound)
}
