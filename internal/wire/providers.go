package wire

import (
	"context"
	"log/slog"

	"github.com/google/wire"

	"github.com/sevigo/pullpilot/internal/app"
	"github.com/sevigo/pullpilot/internal/auth"
	"github.com/sevigo/pullpilot/internal/config"
	"github.com/sevigo/pullpilot/internal/core"
	"github.com/sevigo/pullpilot/internal/db"
	"github.com/sevigo/pullpilot/internal/github"
	"github.com/sevigo/pullpilot/internal/jobs"
	"github.com/sevigo/pullpilot/internal/llm"
	"github.com/sevigo/pullpilot/internal/logger"
	"github.com/sevigo/pullpilot/internal/server"
	"github.com/sevigo/pullpilot/internal/server/handler"
	"github.com/sevigo/pullpilot/internal/storage"
)

var AppSet = wire.NewSet(
	app.NewApp,
	server.NewServer,
	jobs.NewService,
	jobs.NewInflight,
	jobs.NewPublisher,
	provideLoggerConfig,
	provideSlogLogger,
	provideDBConfig,
	provideStore,
	provideTokenStore,
	provideCredentialResolver,
	provideDiffFetcher,
	provideCommentPublisher,
	provideAnalysisProvider,
	provideAnalysisJob,
	provideDispatcher,
	provideReaper,
	provideTokenManager,
	provideReviewService,
)

func provideLoggerConfig(cfg *config.Config) logger.Config {
	return cfg.Logging
}

func provideSlogLogger(cfg logger.Config) *slog.Logger {
	return logger.NewLogger(cfg, nil)
}

func provideDBConfig(cfg *config.Config) *config.DBConfig {
	return cfg.Database
}

// provideStore opens the configured job store. The Postgres store is
// migrated on open; the memory store lives as long as the process.
func provideStore(cfg *config.DBConfig, logger *slog.Logger) (storage.Store, func(), error) {
	if cfg.Driver == "memory" {
		logger.Warn("using in-memory store, jobs are lost on restart")
		return storage.NewMemoryStore(), func() {}, nil
	}
	conn, cleanup, err := db.NewDatabase(cfg, logger)
	if err != nil {
		return nil, nil, err
	}
	return storage.NewStore(conn.DB), cleanup, nil
}

func provideTokenStore(store storage.Store) github.TokenStore {
	return store
}

func provideCredentialResolver(cfg *config.Config, store github.TokenStore, logger *slog.Logger) (core.CredentialResolver, error) {
	return github.NewCredentialResolver(cfg.GitHub, store, logger)
}

func provideDiffFetcher(cfg *config.Config, logger *slog.Logger) core.DiffFetcher {
	return github.NewFetcher(cfg.GitHub.APIURL, logger)
}

func provideCommentPublisher(cfg *config.Config, logger *slog.Logger) core.CommentPublisher {
	return github.NewCommenter(cfg.GitHub.APIURL, logger)
}

func provideAnalysisProvider(ctx context.Context, cfg *config.Config, logger *slog.Logger) (core.AnalysisProvider, error) {
	return llm.NewProvider(ctx, cfg.AI, logger)
}

func provideAnalysisJob(cfg *config.Config, store storage.Store, provider core.AnalysisProvider, inflight *jobs.Inflight, logger *slog.Logger) core.Job {
	return jobs.NewAnalysisJob(store, provider, inflight, jobs.AnalysisConfig{
		Timeout:      cfg.AI.AnalysisTimeout,
		MaxDiffLines: cfg.AI.MaxDiffLines,
	}, logger)
}

func provideDispatcher(ctx context.Context, cfg *config.Config, job core.Job, logger *slog.Logger) core.JobDispatcher {
	return jobs.NewDispatcher(ctx, job, jobs.DispatcherConfig{
		MaxWorkers: cfg.Jobs.MaxWorkers,
		QueueSize:  cfg.Jobs.QueueSize,
	}, logger)
}

func provideReaper(cfg *config.Config, store storage.Store, logger *slog.Logger) *jobs.Reaper {
	return jobs.NewReaper(store, cfg.Jobs.StaleAfter, cfg.Jobs.ReaperInterval, logger)
}

func provideTokenManager(cfg *config.Config) *auth.TokenManager {
	return auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
}

func provideReviewService(service *jobs.Service) handler.ReviewService {
	return service
}
