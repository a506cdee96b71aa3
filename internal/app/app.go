// Package app holds the assembled application: the review service, its worker
// pool, the stale job reaper and the HTTP server.
package app

import (
	"context"
	"log/slog"

	"github.com/sevigo/pullpilot/internal/auth"
	"github.com/sevigo/pullpilot/internal/config"
	"github.com/sevigo/pullpilot/internal/core"
	"github.com/sevigo/pullpilot/internal/jobs"
	"github.com/sevigo/pullpilot/internal/server"
	"github.com/sevigo/pullpilot/internal/storage"
)

// App holds the main application components. The exported fields are used by
// the command line tools, which drive the service without the HTTP server.
type App struct {
	Cfg       *config.Config
	Logger    *slog.Logger
	Store     storage.Store
	Service   *jobs.Service
	Publisher *jobs.Publisher
	Tokens    *auth.TokenManager

	dispatcher core.JobDispatcher
	reaper     *jobs.Reaper
	server     *server.Server
}

// NewApp assembles the application from its wired parts.
func NewApp(
	cfg *config.Config,
	logger *slog.Logger,
	store storage.Store,
	service *jobs.Service,
	publisher *jobs.Publisher,
	tokens *auth.TokenManager,
	dispatcher core.JobDispatcher,
	reaper *jobs.Reaper,
	srv *server.Server,
) *App {
	return &App{
		Cfg:        cfg,
		Logger:     logger,
		Store:      store,
		Service:    service,
		Publisher:  publisher,
		Tokens:     tokens,
		dispatcher: dispatcher,
		reaper:     reaper,
		server:     srv,
	}
}

// Start runs the HTTP server and blocks until it stops.
func (a *App) Start() error {
	a.Logger.Info("starting pullpilot",
		"server_port", a.Cfg.Server.Port,
		"store", a.Cfg.Database.Driver,
		"provider", a.Cfg.AI.Provider,
		"max_workers", a.Cfg.Jobs.MaxWorkers)

	if err := a.server.Start(); err != nil {
		a.Logger.Error("failed to start HTTP server", "error", err)
		return err
	}
	return nil
}

// RunReaper fails stale pending jobs until ctx is done.
func (a *App) RunReaper(ctx context.Context) error {
	return a.reaper.Run(ctx)
}

// Stop shuts the application down: the server first so no new jobs arrive,
// then the worker pool, which waits for running analyses to record a result.
func (a *App) Stop() error {
	a.Logger.Info("shutting down pullpilot")

	serverErr := a.server.Stop()
	if serverErr != nil {
		a.Logger.Error("error during HTTP server shutdown", "error", serverErr)
	}

	a.dispatcher.Stop()

	if serverErr != nil {
		return serverErr
	}
	a.Logger.Info("pullpilot stopped")
	return nil
}

// StopWorkers waits for queued analyses to finish. Command line tools call it
// instead of Stop because they never start the server.
func (a *App) StopWorkers() {
	a.dispatcher.Stop()
}
