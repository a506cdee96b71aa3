package storage

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sevigo/pullpilot/internal/core"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func seedRepository(t *testing.T, s Store, login, fullName string) *core.Repository {
	t.Helper()
	ctx := context.Background()
	user, err := s.UpsertUser(ctx, login, "token-"+login)
	require.NoError(t, err)
	repo, err := s.ConnectRepository(ctx, user.ID, fullName)
	require.NoError(t, err)
	return repo
}

func TestMemoryStore_CreateAndGet(t *testing.T) {
	clock := &fakeClock{now: time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)}
	s := NewMemoryStore(WithClock(clock.Now))
	repo := seedRepository(t, s, "octocat", "octocat/hello")
	ctx := context.Background()

	job := &core.ReviewJob{RepositoryID: repo.ID, PRNumber: 42, PRTitle: "Add feature"}
	require.NoError(t, s.CreateReview(ctx, job))

	assert.NotZero(t, job.ID)
	assert.Equal(t, core.StatusPending, job.Status)
	assert.Equal(t, clock.Now(), job.CreatedAt)
	assert.Nil(t, job.CompletedAt)
	assert.Nil(t, job.AnalysisResult)

	got, err := s.GetReview(ctx, job.ID)
	require.NoError(t, err)
	assert.Equal(t, job, got)

	_, err = s.GetReview(ctx, job.ID+100)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStore_CreateRejectsUnknownRepository(t *testing.T) {
	s := NewMemoryStore()
	err := s.CreateReview(context.Background(), &core.ReviewJob{RepositoryID: 99, PRNumber: 1})
	assert.Error(t, err)
}

func TestMemoryStore_GetReviewForUser(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	mine := seedRepository(t, s, "alice", "alice/app")
	seedRepository(t, s, "bob", "bob/app")

	job := &core.ReviewJob{RepositoryID: mine.ID, PRNumber: 1}
	require.NoError(t, s.CreateReview(ctx, job))

	got, err := s.GetReviewForUser(ctx, mine.UserID, job.ID)
	require.NoError(t, err)
	assert.Equal(t, job.ID, got.ID)

	bob, err := s.UpsertUser(ctx, "bob", "")
	require.NoError(t, err)
	_, err = s.GetReviewForUser(ctx, bob.ID, job.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStore_ResubmissionKeepsHistory(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	repo := seedRepository(t, s, "octocat", "octocat/hello")

	for range 3 {
		require.NoError(t, s.CreateReview(ctx, &core.ReviewJob{RepositoryID: repo.ID, PRNumber: 42}))
	}
	jobs, err := s.ListReviewsByRepository(ctx, repo.ID)
	require.NoError(t, err)
	assert.Len(t, jobs, 3)

	empty, err := s.ListReviewsByRepository(ctx, repo.ID+1)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestMemoryStore_ConcurrentTerminalWrites(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	repo := seedRepository(t, s, "octocat", "octocat/hello")

	for i := range 50 {
		job := &core.ReviewJob{RepositoryID: repo.ID, PRNumber: i + 1}
		require.NoError(t, s.CreateReview(ctx, job))

		report := &core.AnalysisReport{Quality: []core.Finding{{Issue: "x", Description: "y"}}}
		var wg sync.WaitGroup
		var completed, failed bool
		start := make(chan struct{})
		wg.Add(2)
		go func() {
			defer wg.Done()
			<-start
			ok, err := s.CompleteReview(ctx, job.ID, report)
			assert.NoError(t, err)
			completed = ok
		}()
		go func() {
			defer wg.Done()
			<-start
			ok, err := s.FailReview(ctx, job.ID, "boom")
			assert.NoError(t, err)
			failed = ok
		}()
		close(start)
		wg.Wait()

		require.True(t, completed != failed, "exactly one terminal write must win")
		got, err := s.GetReview(ctx, job.ID)
		require.NoError(t, err)
		require.NotNil(t, got.CompletedAt)
		if completed {
			assert.Equal(t, core.StatusCompleted, got.Status)
			assert.Equal(t, report, got.AnalysisResult)
		} else {
			assert.Equal(t, core.StatusFailed, got.Status)
			assert.Nil(t, got.AnalysisResult)
			assert.Equal(t, "boom", got.ErrorMessage)
		}
	}
}

func TestMemoryStore_TerminalStateIsImmutable(t *testing.T) {
	clock := &fakeClock{now: time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)}
	s := NewMemoryStore(WithClock(clock.Now))
	ctx := context.Background()
	repo := seedRepository(t, s, "octocat", "octocat/hello")

	job := &core.ReviewJob{RepositoryID: repo.ID, PRNumber: 7}
	require.NoError(t, s.CreateReview(ctx, job))

	clock.Advance(time.Second)
	report := &core.AnalysisReport{Security: []core.Finding{{Issue: "a", Description: "b"}}}
	ok, err := s.CompleteReview(ctx, job.ID, report)
	require.NoError(t, err)
	require.True(t, ok)

	before, err := s.GetReview(ctx, job.ID)
	require.NoError(t, err)

	clock.Advance(time.Minute)
	ok, err = s.FailReview(ctx, job.ID, "late failure")
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = s.CompleteReview(ctx, job.ID, &core.AnalysisReport{RawAnalysis: "other"})
	require.NoError(t, err)
	assert.False(t, ok)

	after, err := s.GetReview(ctx, job.ID)
	require.NoError(t, err)
	assert.Equal(t, before, after)
	assert.Equal(t, job.CreatedAt.Add(time.Second), *after.CompletedAt)
}

func TestMemoryStore_SnapshotsAreCopies(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	repo := seedRepository(t, s, "octocat", "octocat/hello")

	job := &core.ReviewJob{RepositoryID: repo.ID, PRNumber: 1}
	require.NoError(t, s.CreateReview(ctx, job))
	_, err := s.CompleteReview(ctx, job.ID, &core.AnalysisReport{Quality: []core.Finding{{Issue: "x"}}})
	require.NoError(t, err)

	got, err := s.GetReview(ctx, job.ID)
	require.NoError(t, err)
	got.Status = core.StatusPending
	got.AnalysisResult.Quality[0].Issue = "mutated"

	again, err := s.GetReview(ctx, job.ID)
	require.NoError(t, err)
	assert.Equal(t, core.StatusCompleted, again.Status)
	assert.Equal(t, "x", again.AnalysisResult.Quality[0].Issue)
}

func TestMemoryStore_CompletedAtNeverBeforeCreatedAt(t *testing.T) {
	clock := &fakeClock{now: time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)}
	s := NewMemoryStore(WithClock(clock.Now))
	ctx := context.Background()
	repo := seedRepository(t, s, "octocat", "octocat/hello")

	job := &core.ReviewJob{RepositoryID: repo.ID, PRNumber: 1}
	require.NoError(t, s.CreateReview(ctx, job))

	clock.Advance(-time.Hour)
	_, err := s.FailReview(ctx, job.ID, "clock skew")
	require.NoError(t, err)

	got, err := s.GetReview(ctx, job.ID)
	require.NoError(t, err)
	assert.False(t, got.CompletedAt.Before(got.CreatedAt))
}

func TestMemoryStore_FailStalePendingReviews(t *testing.T) {
	clock := &fakeClock{now: time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)}
	s := NewMemoryStore(WithClock(clock.Now))
	ctx := context.Background()
	repo := seedRepository(t, s, "octocat", "octocat/hello")

	stale := &core.ReviewJob{RepositoryID: repo.ID, PRNumber: 1}
	require.NoError(t, s.CreateReview(ctx, stale))
	done := &core.ReviewJob{RepositoryID: repo.ID, PRNumber: 2}
	require.NoError(t, s.CreateReview(ctx, done))
	_, err := s.CompleteReview(ctx, done.ID, &core.AnalysisReport{})
	require.NoError(t, err)

	clock.Advance(9 * time.Minute)
	fresh := &core.ReviewJob{RepositoryID: repo.ID, PRNumber: 3}
	require.NoError(t, s.CreateReview(ctx, fresh))

	clock.Advance(2 * time.Minute)
	n, err := s.FailStalePendingReviews(ctx, 10*time.Minute, "stale pending job")
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	got, err := s.GetReview(ctx, stale.ID)
	require.NoError(t, err)
	assert.Equal(t, core.StatusFailed, got.Status)
	assert.Equal(t, "stale pending job", got.ErrorMessage)

	got, err = s.GetReview(ctx, done.ID)
	require.NoError(t, err)
	assert.Equal(t, core.StatusCompleted, got.Status)

	got, err = s.GetReview(ctx, fresh.ID)
	require.NoError(t, err)
	assert.Equal(t, core.StatusPending, got.Status)
}

func TestMemoryStore_Repositories(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	user, err := s.UpsertUser(ctx, "octocat", "t1")
	require.NoError(t, err)
	again, err := s.UpsertUser(ctx, "octocat", "")
	require.NoError(t, err)
	assert.Equal(t, user.ID, again.ID)

	token, err := s.GetUserAccessToken(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "t1", token)

	first, err := s.ConnectRepository(ctx, user.ID, "octocat/a")
	require.NoError(t, err)
	second, err := s.ConnectRepository(ctx, user.ID, "octocat/b")
	require.NoError(t, err)
	dup, err := s.ConnectRepository(ctx, user.ID, "octocat/a")
	require.NoError(t, err)
	assert.Equal(t, first.ID, dup.ID)

	repos, err := s.ListRepositories(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, repos, 2)
	assert.Equal(t, second.ID, repos[0].ID)

	_, err = s.GetRepositoryForUser(ctx, user.ID+1, first.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStore_DisconnectRepository(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	repo := seedRepository(t, s, "octocat", "octocat/a")

	_, err := s.DisconnectRepository(ctx, repo.UserID+1, repo.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = s.DisconnectRepository(ctx, repo.UserID, repo.ID+100)
	assert.ErrorIs(t, err, ErrNotFound)

	job := &core.ReviewJob{RepositoryID: repo.ID, PRNumber: 1, PRTitle: "t"}
	require.NoError(t, s.CreateReview(ctx, job))

	got, err := s.DisconnectRepository(ctx, repo.UserID, repo.ID)
	require.NoError(t, err)
	assert.False(t, got.IsActive)

	stored, err := s.GetRepositoryForUser(ctx, repo.UserID, repo.ID)
	require.NoError(t, err)
	assert.False(t, stored.IsActive)

	// History survives a disconnect.
	jobs, err := s.ListReviewsByRepository(ctx, repo.ID)
	require.NoError(t, err)
	assert.Len(t, jobs, 1)

	again, err := s.ConnectRepository(ctx, repo.UserID, "octocat/a")
	require.NoError(t, err)
	assert.Equal(t, repo.ID, again.ID)
	assert.True(t, again.IsActive)
}
