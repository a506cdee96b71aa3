package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/sevigo/pullpilot/internal/core"
)

type userRow struct {
	ID          int64          `db:"id"`
	GitHubLogin string         `db:"github_login"`
	AccessToken sql.NullString `db:"access_token"`
	CreatedAt   sql.NullTime   `db:"created_at"`
}

type repositoryRow struct {
	ID        int64        `db:"id"`
	UserID    int64        `db:"user_id"`
	FullName  string       `db:"full_name"`
	IsActive  bool         `db:"is_active"`
	CreatedAt sql.NullTime `db:"created_at"`
}

func (r *repositoryRow) toRepository() *core.Repository {
	return &core.Repository{
		ID:        r.ID,
		UserID:    r.UserID,
		FullName:  r.FullName,
		IsActive:  r.IsActive,
		CreatedAt: r.CreatedAt.Time,
	}
}

// UpsertUser creates the user or refreshes its stored upstream access token.
func (s *postgresStore) UpsertUser(ctx context.Context, login, accessToken string) (*core.User, error) {
	query := `
		INSERT INTO users (github_login, access_token)
		VALUES ($1, NULLIF($2, ''))
		ON CONFLICT (github_login) DO UPDATE SET access_token = COALESCE(EXCLUDED.access_token, users.access_token)
		RETURNING id, github_login, access_token, created_at`
	var row userRow
	if err := s.db.GetContext(ctx, &row, query, login, accessToken); err != nil {
		return nil, fmt.Errorf("failed to upsert user %q: %w", login, err)
	}
	return &core.User{ID: row.ID, GitHubLogin: row.GitHubLogin, CreatedAt: row.CreatedAt.Time}, nil
}

// GetUserAccessToken returns the stored upstream token for a user.
func (s *postgresStore) GetUserAccessToken(ctx context.Context, userID int64) (string, error) {
	var token sql.NullString
	err := s.db.GetContext(ctx, &token, `SELECT access_token FROM users WHERE id = $1`, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("failed to get access token for user %d: %w", userID, err)
	}
	if !token.Valid || token.String == "" {
		return "", ErrNotFound
	}
	return token.String, nil
}

// ConnectRepository attaches a repository to a user, reactivating it if it was disconnected.
func (s *postgresStore) ConnectRepository(ctx context.Context, userID int64, fullName string) (*core.Repository, error) {
	query := `
		INSERT INTO repositories (user_id, full_name, is_active)
		VALUES ($1, $2, TRUE)
		ON CONFLICT (user_id, full_name) DO UPDATE SET is_active = TRUE
		RETURNING id, user_id, full_name, is_active, created_at`
	var row repositoryRow
	if err := s.db.GetContext(ctx, &row, query, userID, fullName); err != nil {
		return nil, fmt.Errorf("failed to connect repository %q: %w", fullName, err)
	}
	return row.toRepository(), nil
}

// DisconnectRepository marks a user's repository inactive. Its reviews are kept.
func (s *postgresStore) DisconnectRepository(ctx context.Context, userID, id int64) (*core.Repository, error) {
	query := `
		UPDATE repositories SET is_active = FALSE
		WHERE id = $1 AND user_id = $2
		RETURNING id, user_id, full_name, is_active, created_at`
	var row repositoryRow
	if err := s.db.GetContext(ctx, &row, query, id, userID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to disconnect repository %d: %w", id, err)
	}
	return row.toRepository(), nil
}

// GetRepository retrieves a repository by ID regardless of owner.
func (s *postgresStore) GetRepository(ctx context.Context, id int64) (*core.Repository, error) {
	var row repositoryRow
	query := `SELECT id, user_id, full_name, is_active, created_at FROM repositories WHERE id = $1`
	if err := s.db.GetContext(ctx, &row, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get repository %d: %w", id, err)
	}
	return row.toRepository(), nil
}

// GetRepositoryForUser retrieves a repository only if the user owns it.
func (s *postgresStore) GetRepositoryForUser(ctx context.Context, userID, id int64) (*core.Repository, error) {
	var row repositoryRow
	query := `SELECT id, user_id, full_name, is_active, created_at FROM repositories WHERE id = $1 AND user_id = $2`
	if err := s.db.GetContext(ctx, &row, query, id, userID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get repository %d: %w", id, err)
	}
	return row.toRepository(), nil
}

// ListRepositories returns the user's repositories, newest first.
func (s *postgresStore) ListRepositories(ctx context.Context, userID int64) ([]*core.Repository, error) {
	var rows []repositoryRow
	query := `SELECT id, user_id, full_name, is_active, created_at FROM repositories WHERE user_id = $1 ORDER BY created_at DESC, id DESC`
	if err := s.db.SelectContext(ctx, &rows, query, userID); err != nil {
		return nil, fmt.Errorf("failed to list repositories for user %d: %w", userID, err)
	}
	repos := make([]*core.Repository, 0, len(rows))
	for i := range rows {
		repos = append(repos, rows[i].toRepository())
	}
	return repos, nil
}
