// Package history builds the display view of a repository's review jobs.
package history

import (
	"slices"

	"github.com/sevigo/pullpilot/internal/core"
)

// Reconcile collapses duplicate submissions so each pull request appears once,
// represented by its most recent job, and returns the result newest first.
//
// Jobs are grouped by PR number alone; titles can change between
// re-analyses. Within a group the job with the latest CreatedAt wins, and on
// equal CreatedAt the one that appears later in the input wins. Groups with
// equal CreatedAt keep the order in which their PR numbers first appeared.
// The input slice is not modified and the returned jobs are the input pointers.
func Reconcile(jobs []*core.ReviewJob) []*core.ReviewJob {
	latest := make(map[int]int, len(jobs))
	order := make([]int, 0, len(jobs))

	for i, job := range jobs {
		if job == nil {
			continue
		}
		cur, seen := latest[job.PRNumber]
		if !seen {
			order = append(order, job.PRNumber)
			latest[job.PRNumber] = i
			continue
		}
		if !job.CreatedAt.Before(jobs[cur].CreatedAt) {
			latest[job.PRNumber] = i
		}
	}

	out := make([]*core.ReviewJob, 0, len(order))
	for _, pr := range order {
		out = append(out, jobs[latest[pr]])
	}
	slices.SortStableFunc(out, func(a, b *core.ReviewJob) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})
	return out
}

// LatestForPR returns the most recent job for prNumber, or nil when there is none.
func LatestForPR(jobs []*core.ReviewJob, prNumber int) *core.ReviewJob {
	var latest *core.ReviewJob
	for _, job := range jobs {
		if job == nil || job.PRNumber != prNumber {
			continue
		}
		if latest == nil || !job.CreatedAt.Before(latest.CreatedAt) {
			latest = job
		}
	}
	return latest
}
