package main

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/sevigo/pullpilot/internal/core"
	"github.com/sevigo/pullpilot/internal/github"
	"github.com/sevigo/pullpilot/internal/render"
)

var (
	reviewYes  bool
	reviewJSON bool
)

var (
	titleColor   = color.New(color.FgCyan, color.Bold)
	successColor = color.New(color.FgGreen)
	warnColor    = color.New(color.FgYellow)
	errorColor   = color.New(color.FgRed)
	dimColor     = color.New(color.FgHiBlack)
)

const pollInterval = 500 * time.Millisecond

var reviewCmd = &cobra.Command{
	Use:   "review (<repository-id> <pr-number> | <pr-url>)",
	Short: "Submit a pull request for analysis and wait for the result",
	Long: `Submit a pull request for analysis and wait for the result.

The diff is fetched from GitHub, a pending review is recorded and the analysis
runs on this process's worker pool. Every submission creates a new review; when
the pull request was reviewed before you are asked to confirm.

A pull request URL is matched against your connected repositories by full name.

Examples:
  pullpilot review 7 42
  pullpilot review https://github.com/octo/widgets/pull/42
  pullpilot review --yes --json 7 42`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runReview,
}

func init() { //nolint:gochecknoinits // Cobra command registration
	reviewCmd.Flags().BoolVarP(&reviewYes, "yes", "y", false, "Do not ask before re-analyzing a reviewed pull request")
	reviewCmd.Flags().BoolVar(&reviewJSON, "json", false, "Print the finished review as JSON")
	rootCmd.AddCommand(reviewCmd)
}

func runReview(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	s, err := openSession(ctx)
	if err != nil {
		return err
	}
	defer s.Close()

	repoID, prNumber, err := resolveTarget(ctx, s, args)
	if err != nil {
		return err
	}

	prior, err := s.app.Service.LatestForPR(ctx, s.user.ID, repoID, prNumber)
	if err != nil {
		return err
	}
	if prior != nil && !reviewYes {
		warnColor.Printf("PR #%d already has review #%d (%s, submitted %s).\n",
			prNumber, prior.ID, prior.Status, prior.CreatedAt.Format(time.RFC822))
		if !confirm("Run a new analysis?") {
			dimColor.Println("Aborted.")
			return nil
		}
	}

	job, err := s.app.Service.Submit(ctx, s.user.ID, repoID, prNumber)
	if err != nil {
		return describeSubmitError(err)
	}
	if !reviewJSON {
		titleColor.Printf("Review #%d: PR #%d %s\n", job.ID, job.PRNumber, job.PRTitle)
	}

	timeout := s.app.Cfg.AI.AnalysisTimeout + 30*time.Second
	job, err = waitForReview(ctx, s, job, timeout)
	if err != nil {
		return err
	}

	if reviewJSON {
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		return encoder.Encode(job)
	}
	fmt.Print(render.Terminal(job, 100))
	if job.Status == core.StatusFailed {
		errorColor.Printf("Analysis failed: %s\n", job.ErrorMessage)
	}
	return nil
}

// resolveTarget reads either "<repository-id> <pr-number>" or a single pull
// request URL.
func resolveTarget(ctx context.Context, s *session, args []string) (int64, int, error) {
	if len(args) == 2 {
		repoID, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return 0, 0, fmt.Errorf("invalid repository id %q", args[0])
		}
		prNumber, err := strconv.Atoi(args[1])
		if err != nil {
			return 0, 0, fmt.Errorf("invalid pull request number %q", args[1])
		}
		return repoID, prNumber, nil
	}

	fullName, prNumber, err := github.ParsePullRequestURL(args[0])
	if err != nil {
		return 0, 0, err
	}
	repos, err := s.app.Store.ListRepositories(ctx, s.user.ID)
	if err != nil {
		return 0, 0, err
	}
	for _, repo := range repos {
		if repo.IsActive && strings.EqualFold(repo.FullName, fullName) {
			return repo.ID, prNumber, nil
		}
	}
	return 0, 0, fmt.Errorf("%w: %s is not connected\n\nTip: connect it with 'pullpilot repos connect %s'",
		core.ErrRepositoryNotFound, fullName, fullName)
}

// waitForReview polls until the job is terminal or timeout passes.
func waitForReview(ctx context.Context, s *session, job *core.ReviewJob, timeout time.Duration) (*core.ReviewJob, error) {
	deadline := time.After(timeout)
	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	for !job.Status.IsTerminal() {
		if !reviewJSON {
			dimColor.Print(".")
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-deadline:
			return nil, fmt.Errorf("review #%d still pending after %s", job.ID, timeout)
		case <-ticker.C:
		}
		current, err := s.app.Service.Get(ctx, s.user.ID, job.ID)
		if err != nil {
			return nil, err
		}
		job = current
	}
	if !reviewJSON {
		fmt.Println()
	}
	return job, nil
}

func describeSubmitError(err error) error {
	switch {
	case errors.Is(err, core.ErrRepositoryNotFound):
		return fmt.Errorf("%w\n\nTip: list your repositories with 'pullpilot repos'", err)
	case errors.Is(err, core.ErrUnauthorized):
		return fmt.Errorf("%w\n\nTip: pass a token with --github-token or set GITHUB_AUTH_MODE", err)
	case errors.Is(err, core.ErrPullRequestNotFound):
		return fmt.Errorf("%w\n\nTip: check the pull request number and that your token can see the repository", err)
	default:
		return err
	}
}

func confirm(question string) bool {
	fmt.Printf("%s [y/N] ", question)
	answer, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil {
		return false
	}
	answer = strings.ToLower(strings.TrimSpace(answer))
	return answer == "y" || answer == "yes"
}
