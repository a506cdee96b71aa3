package main

import (
	"github.com/sevigo/pullpilot/internal/app"
	"github.com/sevigo/pullpilot/internal/core"
)

// Indicates that the application services have been initialized.
type appInitializedMsg struct {
	app     *app.App
	user    *core.User
	cleanup func()
	err     error
}

type reposLoadedMsg struct {
	repos []*core.Repository
	err   error
}

type repoConnectedMsg struct {
	repo *core.Repository
	err  error
}

type reviewSubmittedMsg struct {
	job *core.ReviewJob
	err error
}

// historyLoadedMsg carries the reconciled review list of a repository.
type historyLoadedMsg struct {
	repoID int64
	jobs   []*core.ReviewJob
	err    error
}

type reviewRenderedMsg struct {
	content string
	err     error
}

type cancelledMsg struct {
	job *core.ReviewJob
	err error
}

// pollMsg triggers a refresh of the selected repository's reviews.
type pollMsg struct{ repoID int64 }

type publishedMsg struct {
	jobID int64
	url   string
	err   error
}
