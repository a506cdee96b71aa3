package storage

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/sevigo/pullpilot/internal/core"
)

// MemoryOption configures a memory store.
type MemoryOption func(*memoryStore)

// WithClock overrides the time source used for createdAt and completedAt.
func WithClock(now func() time.Time) MemoryOption {
	return func(s *memoryStore) {
		s.now = now
	}
}

type memoryUser struct {
	core.User
	accessToken string
}

// memoryStore keeps every table in process memory behind one mutex. Each
// method is a single critical section, which gives the same conditional
// update semantics as the Postgres row lock.
type memoryStore struct {
	mu  sync.Mutex
	now func() time.Time

	reviews      map[int64]*core.ReviewJob
	reviewOrder  []int64
	repositories map[int64]*core.Repository
	users        map[int64]*memoryUser

	nextReviewID int64
	nextRepoID   int64
	nextUserID   int64
}

// NewMemoryStore creates an in-memory Store for development and tests.
func NewMemoryStore(opts ...MemoryOption) Store {
	s := &memoryStore{
		now:          time.Now,
		reviews:      make(map[int64]*core.ReviewJob),
		repositories: make(map[int64]*core.Repository),
		users:        make(map[int64]*memoryUser),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *memoryStore) CreateReview(_ context.Context, job *core.ReviewJob) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.repositories[job.RepositoryID]; !ok {
		return fmt.Errorf("failed to create review: repository %d does not exist", job.RepositoryID)
	}
	if job.PRNumber <= 0 {
		return fmt.Errorf("failed to create review: invalid pr number %d", job.PRNumber)
	}

	s.nextReviewID++
	job.ID = s.nextReviewID
	job.Status = core.StatusPending
	job.CreatedAt = s.now()
	job.AnalysisResult = nil
	job.CompletedAt = nil
	job.ErrorMessage = ""

	s.reviews[job.ID] = job.Clone()
	s.reviewOrder = append(s.reviewOrder, job.ID)
	return nil
}

func (s *memoryStore) GetReview(_ context.Context, id int64) (*core.ReviewJob, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	job, ok := s.reviews[id]
	if !ok {
		return nil, ErrNotFound
	}
	return job.Clone(), nil
}

func (s *memoryStore) GetReviewForUser(_ context.Context, userID, id int64) (*core.ReviewJob, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	job, ok := s.reviews[id]
	if !ok {
		return nil, ErrNotFound
	}
	repo, ok := s.repositories[job.RepositoryID]
	if !ok || repo.UserID != userID {
		return nil, ErrNotFound
	}
	return job.Clone(), nil
}

func (s *memoryStore) ListReviewsByRepository(_ context.Context, repositoryID int64) ([]*core.ReviewJob, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	jobs := make([]*core.ReviewJob, 0)
	for _, id := range s.reviewOrder {
		if job := s.reviews[id]; job.RepositoryID == repositoryID {
			jobs = append(jobs, job.Clone())
		}
	}
	return jobs, nil
}

func (s *memoryStore) CompleteReview(_ context.Context, id int64, report *core.AnalysisReport) (bool, error) {
	if report == nil {
		return false, fmt.Errorf("complete review %d: report is required", id)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	job, ok := s.reviews[id]
	if !ok {
		return false, ErrNotFound
	}
	if job.Status != core.StatusPending {
		return false, nil
	}
	job.Status = core.StatusCompleted
	job.AnalysisResult = report.Clone()
	job.CompletedAt = s.completedAt(job)
	return true, nil
}

func (s *memoryStore) FailReview(_ context.Context, id int64, reason string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	job, ok := s.reviews[id]
	if !ok {
		return false, ErrNotFound
	}
	if job.Status != core.StatusPending {
		return false, nil
	}
	s.fail(job, reason)
	return true, nil
}

func (s *memoryStore) FailStalePendingReviews(_ context.Context, olderThan time.Duration, reason string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := s.now().Add(-olderThan)
	var n int64
	for _, id := range s.reviewOrder {
		job := s.reviews[id]
		if job.Status == core.StatusPending && job.CreatedAt.Before(cutoff) {
			s.fail(job, reason)
			n++
		}
	}
	return n, nil
}

// fail must be called with mu held.
func (s *memoryStore) fail(job *core.ReviewJob, reason string) {
	job.Status = core.StatusFailed
	job.AnalysisResult = nil
	job.ErrorMessage = reason
	job.CompletedAt = s.completedAt(job)
}

func (s *memoryStore) completedAt(job *core.ReviewJob) *time.Time {
	t := s.now()
	if t.Before(job.CreatedAt) {
		t = job.CreatedAt
	}
	return &t
}

func (s *memoryStore) UpsertUser(_ context.Context, login, accessToken string) (*core.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if u.GitHubLogin == login {
			if accessToken != "" {
				u.accessToken = accessToken
			}
			user := u.User
			return &user, nil
		}
	}
	s.nextUserID++
	u := &memoryUser{
		User:        core.User{ID: s.nextUserID, GitHubLogin: login, CreatedAt: s.now()},
		accessToken: accessToken,
	}
	s.users[u.ID] = u
	user := u.User
	return &user, nil
}

func (s *memoryStore) GetUserAccessToken(_ context.Context, userID int64) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[userID]
	if !ok || u.accessToken == "" {
		return "", ErrNotFound
	}
	return u.accessToken, nil
}

func (s *memoryStore) ConnectRepository(_ context.Context, userID int64, fullName string) (*core.Repository, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[userID]; !ok {
		return nil, fmt.Errorf("failed to connect repository %q: user %d does not exist", fullName, userID)
	}
	for _, r := range s.repositories {
		if r.UserID == userID && r.FullName == fullName {
			r.IsActive = true
			repo := *r
			return &repo, nil
		}
	}
	s.nextRepoID++
	r := &core.Repository{ID: s.nextRepoID, UserID: userID, FullName: fullName, IsActive: true, CreatedAt: s.now()}
	s.repositories[r.ID] = r
	repo := *r
	return &repo, nil
}

func (s *memoryStore) DisconnectRepository(_ context.Context, userID, id int64) (*core.Repository, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.repositories[id]
	if !ok || r.UserID != userID {
		return nil, ErrNotFound
	}
	r.IsActive = false
	repo := *r
	return &repo, nil
}

func (s *memoryStore) GetRepository(_ context.Context, id int64) (*core.Repository, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.repositories[id]
	if !ok {
		return nil, ErrNotFound
	}
	repo := *r
	return &repo, nil
}

func (s *memoryStore) GetRepositoryForUser(_ context.Context, userID, id int64) (*core.Repository, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.repositories[id]
	if !ok || r.UserID != userID {
		return nil, ErrNotFound
	}
	repo := *r
	return &repo, nil
}

func (s *memoryStore) ListRepositories(_ context.Context, userID int64) ([]*core.Repository, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	repos := make([]*core.Repository, 0)
	for id := s.nextRepoID; id > 0; id-- {
		if r, ok := s.repositories[id]; ok && r.UserID == userID {
			repo := *r
			repos = append(repos, &repo)
		}
	}
	return repos, nil
}
