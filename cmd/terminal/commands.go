package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/sevigo/pullpilot/internal/app"
	"github.com/sevigo/pullpilot/internal/config"
	"github.com/sevigo/pullpilot/internal/core"
	"github.com/sevigo/pullpilot/internal/history"
	"github.com/sevigo/pullpilot/internal/render"
	"github.com/sevigo/pullpilot/internal/wire"
)

const (
	pollInterval   = 2 * time.Second
	commandTimeout = 30 * time.Second
)

func initializeAppCmd(ctx context.Context, cfg *config.Config, login string) tea.Cmd {
	return func() tea.Msg {
		a, cleanup, err := wire.InitializeApp(ctx, cfg)
		if err != nil {
			return appInitializedMsg{err: err}
		}
		user, err := a.Store.UpsertUser(ctx, login, cfg.GitHub.Token)
		if err != nil {
			a.StopWorkers()
			cleanup()
			return appInitializedMsg{err: fmt.Errorf("failed to load user %q: %w", login, err)}
		}
		return appInitializedMsg{app: a, user: user, cleanup: cleanup}
	}
}

func loadReposCmd(a *app.App, userID int64) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
		defer cancel()
		repos, err := a.Store.ListRepositories(ctx, userID)
		return reposLoadedMsg{repos: repos, err: err}
	}
}

func connectRepoCmd(a *app.App, userID int64, fullName string) tea.Cmd {
	return func() tea.Msg {
		if _, _, err := core.SplitFullName(fullName); err != nil {
			return repoConnectedMsg{err: err}
		}
		ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
		defer cancel()
		repo, err := a.Store.ConnectRepository(ctx, userID, fullName)
		return repoConnectedMsg{repo: repo, err: err}
	}
}

func submitReviewCmd(a *app.App, userID, repoID int64, prNumber int) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
		defer cancel()
		job, err := a.Service.Submit(ctx, userID, repoID, prNumber)
		return reviewSubmittedMsg{job: job, err: err}
	}
}

func loadHistoryCmd(a *app.App, userID, repoID int64) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
		defer cancel()
		jobs, err := a.Service.ListByRepository(ctx, userID, repoID)
		if err != nil {
			return historyLoadedMsg{repoID: repoID, err: err}
		}
		return historyLoadedMsg{repoID: repoID, jobs: history.Reconcile(jobs)}
	}
}

func showReviewCmd(a *app.App, userID, jobID int64, width int) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
		defer cancel()
		job, err := a.Service.Get(ctx, userID, jobID)
		if err != nil {
			return reviewRenderedMsg{err: err}
		}
		return reviewRenderedMsg{content: render.Terminal(job, width)}
	}
}

func cancelReviewCmd(a *app.App, userID, jobID int64) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
		defer cancel()
		job, err := a.Service.Cancel(ctx, userID, jobID)
		if errors.Is(err, core.ErrJobTerminal) {
			return cancelledMsg{job: job, err: fmt.Errorf("review #%d already finished as %s", jobID, job.Status)}
		}
		return cancelledMsg{job: job, err: err}
	}
}

func publishReviewCmd(a *app.App, userID, jobID int64) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
		defer cancel()
		url, err := a.Publisher.Publish(ctx, userID, jobID)
		return publishedMsg{jobID: jobID, url: url, err: err}
	}
}

func pollCmd(repoID int64) tea.Cmd {
	return tea.Tick(pollInterval, func(time.Time) tea.Msg {
		return pollMsg{repoID: repoID}
	})
}
