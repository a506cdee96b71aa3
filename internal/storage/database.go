package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	// import db drivers
	_ "github.com/lib/pq"

	"github.com/sevigo/pullpilot/internal/core"
)

// ErrNotFound is returned when the requested row does not exist or is not
// visible to the requesting user.
var ErrNotFound = errors.New("record not found")

// Store defines the interface for all database operations.
//
// Terminal updates are conditional: CompleteReview and FailReview only take
// effect while the row is still pending and report whether they did.
type Store interface {
	CreateReview(ctx context.Context, job *core.ReviewJob) error
	GetReview(ctx context.Context, id int64) (*core.ReviewJob, error)
	GetReviewForUser(ctx context.Context, userID, id int64) (*core.ReviewJob, error)
	ListReviewsByRepository(ctx context.Context, repositoryID int64) ([]*core.ReviewJob, error)
	CompleteReview(ctx context.Context, id int64, report *core.AnalysisReport) (bool, error)
	FailReview(ctx context.Context, id int64, reason string) (bool, error)
	FailStalePendingReviews(ctx context.Context, olderThan time.Duration, reason string) (int64, error)

	UpsertUser(ctx context.Context, login, accessToken string) (*core.User, error)
	GetUserAccessToken(ctx context.Context, userID int64) (string, error)
	ConnectRepository(ctx context.Context, userID int64, fullName string) (*core.Repository, error)
	DisconnectRepository(ctx context.Context, userID, id int64) (*core.Repository, error)
	GetRepository(ctx context.Context, id int64) (*core.Repository, error)
	GetRepositoryForUser(ctx context.Context, userID, id int64) (*core.Repository, error)
	ListRepositories(ctx context.Context, userID int64) ([]*core.Repository, error)
}

type postgresStore struct {
	db *sqlx.DB
}

// NewStore creates a new Postgres-backed Store.
func NewStore(db *sqlx.DB) Store {
	return &postgresStore{db: db}
}

type reviewRow struct {
	ID             int64          `db:"id"`
	RepositoryID   int64          `db:"repository_id"`
	PRNumber       int            `db:"pr_number"`
	PRTitle        string         `db:"pr_title"`
	Status         string         `db:"status"`
	AnalysisResult []byte         `db:"analysis_result"`
	ErrorMessage   sql.NullString `db:"error_message"`
	CreatedAt      time.Time      `db:"created_at"`
	CompletedAt    sql.NullTime   `db:"completed_at"`
}

func (r *reviewRow) toJob() (*core.ReviewJob, error) {
	job := &core.ReviewJob{
		ID:           r.ID,
		RepositoryID: r.RepositoryID,
		PRNumber:     r.PRNumber,
		PRTitle:      r.PRTitle,
		Status:       core.ReviewStatus(r.Status),
		ErrorMessage: r.ErrorMessage.String,
		CreatedAt:    r.CreatedAt,
	}
	if r.CompletedAt.Valid {
		t := r.CompletedAt.Time
		job.CompletedAt = &t
	}
	if len(r.AnalysisResult) > 0 {
		var report core.AnalysisReport
		if err := json.Unmarshal(r.AnalysisResult, &report); err != nil {
			return nil, fmt.Errorf("failed to decode analysis result for review %d: %w", r.ID, err)
		}
		job.AnalysisResult = &report
	}
	return job, nil
}

const reviewColumns = `id, repository_id, pr_number, pr_title, status, analysis_result, error_message, created_at, completed_at`

// CreateReview inserts a new pending review and fills in its ID and CreatedAt.
func (s *postgresStore) CreateReview(ctx context.Context, job *core.ReviewJob) error {
	query := `
		INSERT INTO reviews (repository_id, pr_number, pr_title, status)
		VALUES ($1, $2, $3, 'pending')
		RETURNING id, created_at`
	if err := s.db.QueryRowxContext(ctx, query, job.RepositoryID, job.PRNumber, job.PRTitle).Scan(&job.ID, &job.CreatedAt); err != nil {
		return fmt.Errorf("failed to create review: %w", err)
	}
	job.Status = core.StatusPending
	job.AnalysisResult = nil
	job.CompletedAt = nil
	job.ErrorMessage = ""
	return nil
}

// GetReview retrieves a review by ID regardless of owner.
func (s *postgresStore) GetReview(ctx context.Context, id int64) (*core.ReviewJob, error) {
	var row reviewRow
	query := `SELECT ` + reviewColumns + ` FROM reviews WHERE id = $1`
	if err := s.db.GetContext(ctx, &row, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get review %d: %w", id, err)
	}
	return row.toJob()
}

// GetReviewForUser retrieves a review only if it belongs to one of the user's repositories.
func (s *postgresStore) GetReviewForUser(ctx context.Context, userID, id int64) (*core.ReviewJob, error) {
	var row reviewRow
	query := `
		SELECT r.id, r.repository_id, r.pr_number, r.pr_title, r.status, r.analysis_result,
		       r.error_message, r.created_at, r.completed_at
		FROM reviews r
		JOIN repositories repo ON repo.id = r.repository_id
		WHERE r.id = $1 AND repo.user_id = $2`
	if err := s.db.GetContext(ctx, &row, query, id, userID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get review %d: %w", id, err)
	}
	return row.toJob()
}

// ListReviewsByRepository returns the full, unreconciled history for a repository.
func (s *postgresStore) ListReviewsByRepository(ctx context.Context, repositoryID int64) ([]*core.ReviewJob, error) {
	var rows []reviewRow
	query := `SELECT ` + reviewColumns + ` FROM reviews WHERE repository_id = $1 ORDER BY created_at DESC, id DESC`
	if err := s.db.SelectContext(ctx, &rows, query, repositoryID); err != nil {
		return nil, fmt.Errorf("failed to list reviews for repository %d: %w", repositoryID, err)
	}
	jobs := make([]*core.ReviewJob, 0, len(rows))
	for i := range rows {
		job, err := rows[i].toJob()
		if err != nil {
			return nil, err
		}
		jobs = append(jobs, job)
	}
	return jobs, nil
}

// CompleteReview sets the terminal completed state if the review is still pending.
func (s *postgresStore) CompleteReview(ctx context.Context, id int64, report *core.AnalysisReport) (bool, error) {
	if report == nil {
		return false, fmt.Errorf("complete review %d: report is required", id)
	}
	payload, err := json.Marshal(report)
	if err != nil {
		return false, fmt.Errorf("failed to encode analysis result: %w", err)
	}
	query := `
		UPDATE reviews
		SET status = 'completed', analysis_result = $2, completed_at = GREATEST(NOW(), created_at)
		WHERE id = $1 AND status = 'pending'
		RETURNING id`
	return s.conditionalUpdate(ctx, query, id, string(payload))
}

// FailReview sets the terminal failed state if the review is still pending.
func (s *postgresStore) FailReview(ctx context.Context, id int64, reason string) (bool, error) {
	query := `
		UPDATE reviews
		SET status = 'failed', error_message = $2, completed_at = GREATEST(NOW(), created_at)
		WHERE id = $1 AND status = 'pending'
		RETURNING id`
	return s.conditionalUpdate(ctx, query, id, reason)
}

func (s *postgresStore) conditionalUpdate(ctx context.Context, query string, id int64, arg any) (bool, error) {
	var updated int64
	err := s.db.QueryRowxContext(ctx, query, id, arg).Scan(&updated)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, s.ensureReviewExists(ctx, id)
		}
		return false, fmt.Errorf("failed to update review %d: %w", id, err)
	}
	return true, nil
}

// ensureReviewExists tells an already-terminal review apart from a missing one.
func (s *postgresStore) ensureReviewExists(ctx context.Context, id int64) error {
	var exists bool
	if err := s.db.GetContext(ctx, &exists, `SELECT EXISTS (SELECT 1 FROM reviews WHERE id = $1)`, id); err != nil {
		return fmt.Errorf("failed to check review %d: %w", id, err)
	}
	if !exists {
		return ErrNotFound
	}
	return nil
}

// FailStalePendingReviews fails every review that has been pending longer than olderThan.
func (s *postgresStore) FailStalePendingReviews(ctx context.Context, olderThan time.Duration, reason string) (int64, error) {
	query := `
		UPDATE reviews
		SET status = 'failed', error_message = $2, completed_at = GREATEST(NOW(), created_at)
		WHERE status = 'pending' AND created_at < NOW() - make_interval(secs => $1)`
	res, err := s.db.ExecContext(ctx, query, olderThan.Seconds(), reason)
	if err != nil {
		return 0, fmt.Errorf("failed to fail stale reviews: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to count stale reviews: %w", err)
	}
	return n, nil
}
