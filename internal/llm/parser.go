package llm

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/sevigo/pullpilot/internal/core"
)

var reportCategories = []string{"security", "quality", "bestPractices", "performance", "suggestions"}

// ParseReport turns provider output into an AnalysisReport. It handles the
// common model quirks:
// - the JSON object wrapped in ```json fences
// - prose before or after the object
// - findings written as plain strings instead of {issue, description}
//
// Output that still cannot be structured becomes a raw-text report. Only
// empty output is an error.
func ParseReport(output string) (*core.AnalysisReport, error) {
	text := strings.TrimSpace(output)
	if text == "" {
		return nil, core.ErrEmptyAnalysis
	}

	if report, ok := parseStructured(stripMarkdownFence(text)); ok {
		return report, nil
	}
	return &core.AnalysisReport{RawAnalysis: text}, nil
}

func parseStructured(text string) (*core.AnalysisReport, bool) {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start == -1 || end <= start {
		return nil, false
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal([]byte(text[start:end+1]), &fields); err != nil {
		return nil, false
	}

	report := &core.AnalysisReport{}
	targets := map[string]*[]core.Finding{
		"security":      &report.Security,
		"quality":       &report.Quality,
		"bestPractices": &report.BestPractices,
		"performance":   &report.Performance,
		"suggestions":   &report.Suggestions,
	}

	recognized := 0
	for _, key := range reportCategories {
		raw, ok := fields[key]
		if !ok || string(raw) == "null" {
			continue
		}
		var findings []core.Finding
		if err := json.Unmarshal(raw, &findings); err != nil {
			return nil, false
		}
		*targets[key] = findings
		recognized++
	}
	if recognized == 0 {
		// An object with a rawAnalysis key is a report that was already in fallback form.
		if raw, ok := fields["rawAnalysis"]; ok {
			var s string
			if err := json.Unmarshal(raw, &s); err == nil && s != "" {
				return &core.AnalysisReport{RawAnalysis: s}, true
			}
		}
		return nil, false
	}
	return report, true
}

// stripMarkdownFence removes a single wrapping ``` fence, with or without a
// language tag. The last closing fence wins so fenced code inside the report
// survives, and anything after it is dropped.
func stripMarkdownFence(text string) string {
	if !strings.HasPrefix(text, "```") {
		return text
	}
	nl := strings.IndexByte(text, '\n')
	if nl == -1 {
		return text
	}
	body := text[nl+1:]
	if end := strings.LastIndex(body, "\n```"); end != -1 {
		body = body[:end]
	} else {
		body = strings.TrimSuffix(strings.TrimSpace(body), "```")
	}
	return strings.TrimSpace(body)
}

// TruncateDiff keeps the first maxLines lines of diff. The cut is a pure
// prefix so the same diff always yields the same provider input.
func TruncateDiff(diff string, maxLines int) (string, bool) {
	if maxLines <= 0 {
		return diff, false
	}
	idx := 0
	for range maxLines {
		nl := strings.IndexByte(diff[idx:], '\n')
		if nl == -1 {
			return diff, false
		}
		idx += nl + 1
	}
	// idx is just past the maxLines-th newline; drop that separator like a split/join would.
	return diff[:idx-1], true
}

func describeFindings(r *core.AnalysisReport) string {
	if r.IsRaw() {
		return "raw"
	}
	return fmt.Sprintf("%d findings", r.FindingCount())
}
