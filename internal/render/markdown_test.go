package render

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/sevigo/pullpilot/internal/core"
)

func TestMarkdown(t *testing.T) {
	created := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	done := created.Add(90 * time.Second)

	tests := []struct {
		name     string
		job      *core.ReviewJob
		contains []string
		absent   []string
	}{
		{
			name:     "pending",
			job:      &core.ReviewJob{ID: 1, PRNumber: 42, PRTitle: "Add feature", Status: core.StatusPending, CreatedAt: created},
			contains: []string{"PR #42", "**Add feature**", "`pending`", "in progress"},
			absent:   []string{"Finished"},
		},
		{
			name:     "failed",
			job:      &core.ReviewJob{ID: 2, PRNumber: 42, Status: core.StatusFailed, ErrorMessage: "analysis provider timed out", CreatedAt: created, CompletedAt: &done},
			contains: []string{"Analysis failed: analysis provider timed out", "(1m30s)"},
		},
		{
			name: "structured",
			job: &core.ReviewJob{ID: 3, PRNumber: 7, Status: core.StatusCompleted, CreatedAt: created, CompletedAt: &done,
				AnalysisResult: &core.AnalysisReport{
					Security: []core.Finding{{Issue: "SQL injection", Description: "query built with Sprintf"}},
					Quality:  []core.Finding{{Issue: "Long function"}},
				}},
			contains: []string{"## Security (1)", "- **SQL injection**: query built with Sprintf", "## Quality (1)", "- **Long function**\n"},
			absent:   []string{"Performance", "No findings"},
		},
		{
			name: "empty report",
			job: &core.ReviewJob{ID: 4, PRNumber: 7, Status: core.StatusCompleted, CreatedAt: created, CompletedAt: &done,
				AnalysisResult: &core.AnalysisReport{}},
			contains: []string{"No findings."},
		},
		{
			name: "raw",
			job: &core.ReviewJob{ID: 5, PRNumber: 7, Status: core.StatusCompleted, CreatedAt: created, CompletedAt: &done,
				AnalysisResult: &core.AnalysisReport{RawAnalysis: "looks fine to me"}},
			contains: []string{"## Analysis", "looks fine to me"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			md := Markdown(tt.job)
			for _, s := range tt.contains {
				assert.Contains(t, md, s)
			}
			for _, s := range tt.absent {
				assert.NotContains(t, md, s)
			}
		})
	}
}

func TestTerminalFallsBackToText(t *testing.T) {
	job := &core.ReviewJob{ID: 1, PRNumber: 42, Status: core.StatusPending, CreatedAt: time.Now()}
	out := Terminal(job, 0)
	assert.Contains(t, out, "42")
}
