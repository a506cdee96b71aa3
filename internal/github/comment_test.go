package github

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/go-github/v73/github"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/sevigo/pullpilot/internal/core"
	"github.com/sevigo/pullpilot/internal/logger"
	"github.com/sevigo/pullpilot/mocks"
)

func newMockCommenter(t *testing.T) (*Commenter, *mocks.MockClient) {
	t.Helper()
	ctrl := gomock.NewController(t)
	client := mocks.NewMockClient(ctrl)
	c := NewCommenterWithFactory(func(_ context.Context, credential string) (Client, error) {
		assert.Equal(t, "tok", credential)
		return client, nil
	}, logger.Discard())
	return c, client
}

func TestCommenter_PublishComment(t *testing.T) {
	c, client := newMockCommenter(t)
	client.EXPECT().
		CreateComment(gomock.Any(), "octo", "widgets", 42, commentMarker+"\n# Review\n").
		Return(&github.IssueComment{
			ID:      github.Ptr(int64(9)),
			HTMLURL: github.Ptr("https://github.com/octo/widgets/pull/42#issuecomment-9"),
		}, nil)

	url, err := c.PublishComment(context.Background(), "octo/widgets", 42, "tok", "# Review\n\n")
	require.NoError(t, err)
	assert.Equal(t, "https://github.com/octo/widgets/pull/42#issuecomment-9", url)
}

func TestCommenter_PublishComment_MapsErrors(t *testing.T) {
	c, client := newMockCommenter(t)
	client.EXPECT().
		CreateComment(gomock.Any(), "octo", "widgets", 42, gomock.Any()).
		Return(nil, &github.ErrorResponse{Response: &http.Response{
			StatusCode: http.StatusForbidden,
			Request:    httptest.NewRequest(http.MethodPost, "/repos/octo/widgets/issues/42/comments", nil),
		}})

	_, err := c.PublishComment(context.Background(), "octo/widgets", 42, "tok", "body")
	assert.ErrorIs(t, err, core.ErrUnauthorized)
}

func TestCommenter_PublishComment_RejectsBadInput(t *testing.T) {
	c, _ := newMockCommenter(t)
	ctx := context.Background()

	_, err := c.PublishComment(ctx, "octo/widgets", 1, "tok", "  ")
	assert.ErrorIs(t, err, core.ErrValidation)

	_, err = c.PublishComment(ctx, "octo/widgets", 1, "", "body")
	assert.ErrorIs(t, err, core.ErrUnauthorized)

	_, err = c.PublishComment(ctx, "widgets", 1, "tok", "body")
	assert.ErrorIs(t, err, core.ErrValidation)
}

func TestCommenter_PublishComment_FactoryError(t *testing.T) {
	c := NewCommenterWithFactory(func(context.Context, string) (Client, error) {
		return nil, errors.New("bad url")
	}, logger.Discard())
	_, err := c.PublishComment(context.Background(), "octo/widgets", 1, "tok", "body")
	assert.ErrorContains(t, err, "bad url")
}

func TestFormatComment_Truncates(t *testing.T) {
	line := strings.Repeat("x", 99) + "\n"
	got := formatComment(strings.Repeat(line, 1000))

	assert.True(t, strings.HasPrefix(got, commentMarker+"\n"))
	assert.Contains(t, got, "_Review truncated to fit a GitHub comment._")
	assert.LessOrEqual(t, len(got), maxCommentLength+200)
}
