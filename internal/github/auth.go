package github

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/bradleyfalzon/ghinstallation/v2"
	"github.com/google/go-github/v73/github"

	"github.com/sevigo/pullpilot/internal/config"
	"github.com/sevigo/pullpilot/internal/core"
	"github.com/sevigo/pullpilot/internal/storage"
)

// TokenStore looks up the upstream access token stored for a user.
type TokenStore interface {
	GetUserAccessToken(ctx context.Context, userID int64) (string, error)
}

// UserTokenCredentials resolves a repository to its owner's stored OAuth token.
type UserTokenCredentials struct {
	store TokenStore
}

// NewUserTokenCredentials creates a resolver backed by the user table.
func NewUserTokenCredentials(store TokenStore) *UserTokenCredentials {
	return &UserTokenCredentials{store: store}
}

// Credential returns the repository owner's token.
func (c *UserTokenCredentials) Credential(ctx context.Context, repo *core.Repository) (string, error) {
	token, err := c.store.GetUserAccessToken(ctx, repo.UserID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return "", fmt.Errorf("%w: no stored token for user %d", core.ErrUnauthorized, repo.UserID)
		}
		return "", fmt.Errorf("failed to load access token: %w", err)
	}
	return token, nil
}

// StaticCredentials returns the same token for every repository.
type StaticCredentials string

// Credential implements core.CredentialResolver.
func (c StaticCredentials) Credential(_ context.Context, _ *core.Repository) (string, error) {
	if c == "" {
		return "", fmt.Errorf("%w: no static token configured", core.ErrUnauthorized)
	}
	return string(c), nil
}

type cachedToken struct {
	token     string
	expiresAt time.Time
}

// AppCredentials mints GitHub App installation tokens for a repository.
// Tokens are cached per installation until shortly before they expire.
type AppCredentials struct {
	appClient *github.Client
	logger    *slog.Logger
	now       func() time.Time

	mu     sync.Mutex
	tokens map[int64]cachedToken
}

// NewAppCredentials loads the App private key and builds the JWT-authenticated client.
func NewAppCredentials(cfg config.GitHubConfig, logger *slog.Logger) (*AppCredentials, error) {
	privateKey, err := os.ReadFile(cfg.PrivateKeyPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read private key from %s: %w", cfg.PrivateKeyPath, err)
	}

	appTransport, err := ghinstallation.NewAppsTransport(http.DefaultTransport, cfg.AppID, privateKey)
	if err != nil {
		return nil, fmt.Errorf("failed to create GitHub App transport: %w", err)
	}
	client := github.NewClient(&http.Client{Transport: appTransport})
	if cfg.APIURL != "" {
		u, err := parseAPIURL(cfg.APIURL)
		if err != nil {
			return nil, err
		}
		client.BaseURL = u
		appTransport.BaseURL = u.String()
	}
	return newAppCredentials(client, logger), nil
}

func newAppCredentials(client *github.Client, logger *slog.Logger) *AppCredentials {
	return &AppCredentials{
		appClient: client,
		logger:    logger,
		now:       time.Now,
		tokens:    make(map[int64]cachedToken),
	}
}

// Credential finds the App installation for the repository and returns a valid installation token.
func (c *AppCredentials) Credential(ctx context.Context, repo *core.Repository) (string, error) {
	owner, name, err := core.SplitFullName(repo.FullName)
	if err != nil {
		return "", err
	}

	installation, _, err := c.appClient.Apps.FindRepositoryInstallation(ctx, owner, name)
	if err != nil {
		mapped := mapGitHubError(err)
		if errors.Is(mapped, core.ErrPullRequestNotFound) {
			return "", fmt.Errorf("%w: app is not installed on %s", core.ErrUnauthorized, repo.FullName)
		}
		return "", fmt.Errorf("failed to find installation for %s: %w", repo.FullName, mapped)
	}
	installationID := installation.GetID()

	c.mu.Lock()
	cached, ok := c.tokens[installationID]
	c.mu.Unlock()
	if ok && c.now().Add(time.Minute).Before(cached.expiresAt) {
		return cached.token, nil
	}

	token, _, err := c.appClient.Apps.CreateInstallationToken(ctx, installationID, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create installation token for installation ID %d: %w", installationID, mapGitHubError(err))
	}
	if token.GetToken() == "" {
		return "", fmt.Errorf("%w: received an empty installation token", core.ErrUnauthorized)
	}
	c.logger.Info("created installation token", "installation_id", installationID, "repo", repo.FullName, "expires_at", token.GetExpiresAt())

	c.mu.Lock()
	c.tokens[installationID] = cachedToken{token: token.GetToken(), expiresAt: token.GetExpiresAt().Time}
	c.mu.Unlock()
	return token.GetToken(), nil
}

// NewCredentialResolver selects the resolver for the configured auth mode.
func NewCredentialResolver(cfg config.GitHubConfig, store TokenStore, logger *slog.Logger) (core.CredentialResolver, error) {
	switch cfg.AuthMode {
	case config.AuthModeApp:
		return NewAppCredentials(cfg, logger)
	case config.AuthModeToken:
		return StaticCredentials(cfg.Token), nil
	case config.AuthModeUser, "":
		return NewUserTokenCredentials(store), nil
	default:
		return nil, fmt.Errorf("unsupported GitHub auth mode %q", cfg.AuthMode)
	}
}
