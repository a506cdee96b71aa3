package llm

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/sevigo/pullpilot/internal/core"
)

// CannedProvider is a deterministic core.AnalysisProvider for demos and tests.
// It either replays a YAML fixture or derives findings from simple patterns in
// the added lines of the diff.
type CannedProvider struct {
	fixture *core.AnalysisReport
	delay   time.Duration
}

// NewCannedProvider creates a canned provider. A non-empty fixturePath is
// loaded as a YAML AnalysisReport and returned for every analysis.
func NewCannedProvider(fixturePath string, delay time.Duration) (*CannedProvider, error) {
	p := &CannedProvider{delay: delay}
	if fixturePath == "" {
		return p, nil
	}
	data, err := os.ReadFile(fixturePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read canned report %s: %w", fixturePath, err)
	}
	var report core.AnalysisReport
	if err := yaml.Unmarshal(data, &report); err != nil {
		return nil, fmt.Errorf("failed to parse canned report %s: %w", fixturePath, err)
	}
	p.fixture = &report
	return p, nil
}

func (p *CannedProvider) Name() string { return "canned" }

// Analyze waits for the configured delay, honouring ctx, then returns the report.
func (p *CannedProvider) Analyze(ctx context.Context, diff, prTitle string) (*core.AnalysisReport, error) {
	if p.delay > 0 {
		timer := time.NewTimer(p.delay)
		defer timer.Stop()
		select {
		case <-timer.C:
		case <-ctx.Done():
			if errors.Is(ctx.Err(), context.DeadlineExceeded) {
				return nil, fmt.Errorf("%w: %w", core.ErrProviderTimeout, ctx.Err())
			}
			return nil, fmt.Errorf("%w: %w", core.ErrProviderUnavailable, ctx.Err())
		}
	}
	if p.fixture != nil {
		return p.fixture.Clone(), nil
	}
	return heuristicReport(diff, prTitle), nil
}

type cannedRule struct {
	match       func(line string) bool
	category    string
	issue       string
	description string
}

func containsAny(subs ...string) func(string) bool {
	return func(line string) bool {
		lower := strings.ToLower(line)
		for _, s := range subs {
			if strings.Contains(lower, s) {
				return true
			}
		}
		return false
	}
}

var cannedRules = []cannedRule{
	{containsAny("password", "secret", "api_key", "apikey", "private_key"), "security",
		"Possible hard-coded credential", "An added line references a credential-like identifier. Load secrets from the environment or a secret manager."},
	{containsAny("eval(", "exec(", "innerhtml"), "security",
		"Dynamic code execution", "Executing dynamically built code or markup can lead to injection. Validate or avoid the dynamic input."},
	{containsAny("todo", "fixme", "xxx"), "quality",
		"Unresolved TODO", "The change introduces a TODO or FIXME marker. Track it in an issue or resolve it before merging."},
	{containsAny("console.log", "fmt.println", "print("), "bestPractices",
		"Debug output left in code", "Use the project's structured logger instead of printing directly."},
	{containsAny("select *"), "performance",
		"Unbounded column selection", "SELECT * fetches every column. Select only the columns the caller needs."},
	{containsAny("sleep("), "performance",
		"Blocking sleep", "A fixed sleep adds latency. Prefer an event, a timer tied to a context, or a retry with backoff."},
}

func heuristicReport(diff, prTitle string) *core.AnalysisReport {
	report := &core.AnalysisReport{
		Security:      []core.Finding{},
		Quality:       []core.Finding{},
		BestPractices: []core.Finding{},
		Performance:   []core.Finding{},
		Suggestions:   []core.Finding{},
	}
	categories := map[string]*[]core.Finding{
		"security":      &report.Security,
		"quality":       &report.Quality,
		"bestPractices": &report.BestPractices,
		"performance":   &report.Performance,
	}

	fired := make([]bool, len(cannedRules))
	added := 0
	for _, line := range strings.Split(diff, "\n") {
		if !strings.HasPrefix(line, "+") || strings.HasPrefix(line, "+++") {
			continue
		}
		added++
		for i, rule := range cannedRules {
			if !fired[i] && rule.match(line[1:]) {
				fired[i] = true
				*categories[rule.category] = append(*categories[rule.category], core.Finding{Issue: rule.issue, Description: rule.description})
			}
		}
	}

	if added > 400 {
		report.Suggestions = append(report.Suggestions, core.Finding{
			Issue:       "Large change set",
			Description: fmt.Sprintf("The pull request adds %d lines. Splitting it into smaller pull requests makes review easier.", added),
		})
	}
	if strings.TrimSpace(prTitle) == "" {
		report.Suggestions = append(report.Suggestions, core.Finding{
			Issue:       "Missing pull request title",
			Description: "A descriptive title helps reviewers understand the intent of the change.",
		})
	}
	return report
}
