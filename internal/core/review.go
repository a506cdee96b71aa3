package core

import (
	"encoding/json"
	"time"
)

// ReviewStatus is the lifecycle state of a review job.
type ReviewStatus string

const (
	StatusPending   ReviewStatus = "pending"
	StatusCompleted ReviewStatus = "completed"
	StatusFailed    ReviewStatus = "failed"
)

// Valid reports whether s is one of the known statuses.
func (s ReviewStatus) Valid() bool {
	switch s {
	case StatusPending, StatusCompleted, StatusFailed:
		return true
	default:
		return false
	}
}

// IsTerminal reports whether no further transition can leave s.
func (s ReviewStatus) IsTerminal() bool {
	return s == StatusCompleted || s == StatusFailed
}

// ReviewJob is one request to analyze a pull request at a point in time.
// A repository may hold many jobs for the same PR number; every re-analysis
// creates a new row.
type ReviewJob struct {
	ID             int64           `json:"id"`
	RepositoryID   int64           `json:"repositoryId"`
	PRNumber       int             `json:"prNumber"`
	PRTitle        string          `json:"prTitle"`
	Status         ReviewStatus    `json:"status"`
	AnalysisResult *AnalysisReport `json:"analysisResult"`
	ErrorMessage   string          `json:"errorMessage,omitempty"`
	CreatedAt      time.Time       `json:"createdAt"`
	CompletedAt    *time.Time      `json:"completedAt"`
}

// Clone returns a deep copy so callers can hand out snapshots without sharing state.
func (j *ReviewJob) Clone() *ReviewJob {
	if j == nil {
		return nil
	}
	c := *j
	if j.CompletedAt != nil {
		t := *j.CompletedAt
		c.CompletedAt = &t
	}
	c.AnalysisResult = j.AnalysisResult.Clone()
	return &c
}

// Finding is a single {issue, description} entry of an analysis report.
type Finding struct {
	Issue       string `json:"issue" yaml:"issue"`
	Description string `json:"description" yaml:"description"`
}

// UnmarshalJSON accepts either the object form or a bare string, which some
// models emit instead of {issue, description}.
func (f *Finding) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*f = Finding{Issue: s}
		return nil
	}
	type plain Finding
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*f = Finding(p)
	return nil
}

// AnalysisReport is the findings payload of a completed review. When the
// provider output could not be structured, only RawAnalysis is set.
type AnalysisReport struct {
	Security      []Finding `json:"security" yaml:"security"`
	Quality       []Finding `json:"quality" yaml:"quality"`
	BestPractices []Finding `json:"bestPractices" yaml:"bestPractices"`
	Performance   []Finding `json:"performance" yaml:"performance"`
	Suggestions   []Finding `json:"suggestions" yaml:"suggestions"`
	RawAnalysis   string    `json:"rawAnalysis,omitempty" yaml:"rawAnalysis,omitempty"`
}

// IsRaw reports whether the report is the unstructured fallback form.
func (r *AnalysisReport) IsRaw() bool {
	return r != nil && r.RawAnalysis != ""
}

// FindingCount returns the number of structured findings across all categories.
func (r *AnalysisReport) FindingCount() int {
	if r == nil {
		return 0
	}
	return len(r.Security) + len(r.Quality) + len(r.BestPractices) + len(r.Performance) + len(r.Suggestions)
}

// Clone returns a deep copy of the report.
func (r *AnalysisReport) Clone() *AnalysisReport {
	if r == nil {
		return nil
	}
	return &AnalysisReport{
		Security:      cloneFindings(r.Security),
		Quality:       cloneFindings(r.Quality),
		BestPractices: cloneFindings(r.BestPractices),
		Performance:   cloneFindings(r.Performance),
		Suggestions:   cloneFindings(r.Suggestions),
		RawAnalysis:   r.RawAnalysis,
	}
}

// MarshalJSON emits {rawAnalysis} for the fallback form and otherwise all five
// categories, with empty categories as [] rather than null.
func (r AnalysisReport) MarshalJSON() ([]byte, error) {
	if r.RawAnalysis != "" {
		return json.Marshal(struct {
			RawAnalysis string `json:"rawAnalysis"`
		}{r.RawAnalysis})
	}
	type structured struct {
		Security      []Finding `json:"security"`
		Quality       []Finding `json:"quality"`
		BestPractices []Finding `json:"bestPractices"`
		Performance   []Finding `json:"performance"`
		Suggestions   []Finding `json:"suggestions"`
	}
	return json.Marshal(structured{
		Security:      nonNil(r.Security),
		Quality:       nonNil(r.Quality),
		BestPractices: nonNil(r.BestPractices),
		Performance:   nonNil(r.Performance),
		Suggestions:   nonNil(r.Suggestions),
	})
}

func cloneFindings(in []Finding) []Finding {
	if in == nil {
		return nil
	}
	out := make([]Finding, len(in))
	copy(out, in)
	return out
}

func nonNil(in []Finding) []Finding {
	if in == nil {
		return []Finding{}
	}
	return in
}

// PullRequestDiff is what the upstream returns for a pull request: its
// metadata snapshot and the unified diff text, which is never parsed.
type PullRequestDiff struct {
	Number  int
	Title   string
	HeadSHA string
	Diff    string
}
