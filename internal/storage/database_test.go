package storage_test

import (
	"context"
	"fmt"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sevigo/pullpilot/internal/core"
	"github.com/sevigo/pullpilot/internal/db"
	"github.com/sevigo/pullpilot/internal/logger"
	"github.com/sevigo/pullpilot/internal/storage"
)

// newPostgresStore connects to TEST_DATABASE_DSN or skips the test.
func newPostgresStore(t *testing.T) storage.Store {
	t.Helper()
	dsn := os.Getenv("TEST_DATABASE_DSN")
	if dsn == "" {
		t.Skip("TEST_DATABASE_DSN not set, skipping postgres integration test")
	}
	conn, cleanup, err := db.Open(dsn, nil, logger.Discard())
	require.NoError(t, err)
	t.Cleanup(cleanup)
	return storage.NewStore(conn.DB)
}

func TestPostgresStore_Lifecycle(t *testing.T) {
	s := newPostgresStore(t)
	ctx := context.Background()

	login := fmt.Sprintf("it-%d", time.Now().UnixNano())
	user, err := s.UpsertUser(ctx, login, "token")
	require.NoError(t, err)
	repo, err := s.ConnectRepository(ctx, user.ID, login+"/repo")
	require.NoError(t, err)

	job := &core.ReviewJob{RepositoryID: repo.ID, PRNumber: 42, PRTitle: "Add feature"}
	require.NoError(t, s.CreateReview(ctx, job))
	assert.Equal(t, core.StatusPending, job.Status)

	report := &core.AnalysisReport{Quality: []core.Finding{{Issue: "x", Description: "y"}}}
	ok, err := s.CompleteReview(ctx, job.ID, report)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = s.FailReview(ctx, job.ID, "late")
	require.NoError(t, err)
	assert.False(t, ok)

	got, err := s.GetReviewForUser(ctx, user.ID, job.ID)
	require.NoError(t, err)
	assert.Equal(t, core.StatusCompleted, got.Status)
	require.NotNil(t, got.CompletedAt)
	assert.False(t, got.CompletedAt.Before(got.CreatedAt))
	assert.Equal(t, report.Quality, got.AnalysisResult.Quality)

	_, err = s.GetReviewForUser(ctx, user.ID+1000000, job.ID)
	assert.ErrorIs(t, err, storage.ErrNotFound)

	_, err = s.DisconnectRepository(ctx, user.ID+1000000, repo.ID)
	assert.ErrorIs(t, err, storage.ErrNotFound)
	off, err := s.DisconnectRepository(ctx, user.ID, repo.ID)
	require.NoError(t, err)
	assert.False(t, off.IsActive)
	on, err := s.ConnectRepository(ctx, user.ID, login+"/repo")
	require.NoError(t, err)
	assert.Equal(t, repo.ID, on.ID)
	assert.True(t, on.IsActive)
}

func TestPostgresStore_ConcurrentTerminalWrites(t *testing.T) {
	s := newPostgresStore(t)
	ctx := context.Background()

	login := fmt.Sprintf("race-%d", time.Now().UnixNano())
	user, err := s.UpsertUser(ctx, login, "")
	require.NoError(t, err)
	repo, err := s.ConnectRepository(ctx, user.ID, login+"/repo")
	require.NoError(t, err)

	job := &core.ReviewJob{RepositoryID: repo.ID, PRNumber: 1}
	require.NoError(t, s.CreateReview(ctx, job))

	var wg sync.WaitGroup
	results := make([]bool, 2)
	wg.Add(2)
	go func() {
		defer wg.Done()
		results[0], _ = s.CompleteReview(ctx, job.ID, &core.AnalysisReport{RawAnalysis: "ok"})
	}()
	go func() {
		defer wg.Done()
		results[1], _ = s.FailReview(ctx, job.ID, "boom")
	}()
	wg.Wait()

	assert.True(t, results[0] != results[1])
}
