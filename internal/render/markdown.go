// Package render formats review jobs for terminals.
package render

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/glamour"

	"github.com/sevigo/pullpilot/internal/core"
)

type section struct {
	title    string
	findings []core.Finding
}

// Markdown renders a job and its analysis as a Markdown document.
func Markdown(job *core.ReviewJob) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Review #%d: PR #%d\n\n", job.ID, job.PRNumber)
	if job.PRTitle != "" {
		fmt.Fprintf(&b, "**%s**\n\n", job.PRTitle)
	}
	fmt.Fprintf(&b, "- Status: `%s`\n", job.Status)
	fmt.Fprintf(&b, "- Submitted: %s\n", job.CreatedAt.Format(time.RFC1123))
	if job.CompletedAt != nil {
		fmt.Fprintf(&b, "- Finished: %s (%s)\n", job.CompletedAt.Format(time.RFC1123),
			job.CompletedAt.Sub(job.CreatedAt).Round(time.Second))
	}
	b.WriteString("\n")

	switch {
	case job.Status == core.StatusPending:
		b.WriteString("_Analysis in progress._\n")
	case job.Status == core.StatusFailed:
		fmt.Fprintf(&b, "> Analysis failed: %s\n", job.ErrorMessage)
	case job.AnalysisResult == nil:
		b.WriteString("_No analysis recorded._\n")
	case job.AnalysisResult.IsRaw():
		b.WriteString("## Analysis\n\n")
		b.WriteString(job.AnalysisResult.RawAnalysis)
		b.WriteString("\n")
	default:
		writeSections(&b, job.AnalysisResult)
	}
	return b.String()
}

func writeSections(b *strings.Builder, r *core.AnalysisReport) {
	sections := []section{
		{"Security", r.Security},
		{"Quality", r.Quality},
		{"Best practices", r.BestPractices},
		{"Performance", r.Performance},
		{"Suggestions", r.Suggestions},
	}
	if r.FindingCount() == 0 {
		b.WriteString("No findings.\n")
		return
	}
	for _, s := range sections {
		if len(s.findings) == 0 {
			continue
		}
		fmt.Fprintf(b, "## %s (%d)\n\n", s.title, len(s.findings))
		for _, f := range s.findings {
			if f.Description == "" {
				fmt.Fprintf(b, "- **%s**\n", f.Issue)
				continue
			}
			fmt.Fprintf(b, "- **%s**: %s\n", f.Issue, f.Description)
		}
		b.WriteString("\n")
	}
}

// Terminal renders a job for an ANSI terminal of the given width. Plain
// Markdown is returned if styling fails.
func Terminal(job *core.ReviewJob, width int) string {
	md := Markdown(job)
	if width <= 0 {
		width = 100
	}
	r, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(width))
	if err != nil {
		return md
	}
	out, err := r.Render(md)
	if err != nil {
		return md
	}
	return out
}
