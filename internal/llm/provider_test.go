package llm

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sevigo/pullpilot/internal/core"
	"github.com/sevigo/pullpilot/internal/logger"
)

func newTestProvider(t *testing.T, name string, gen GeneratorFunc, timeout time.Duration) *LLMProvider {
	t.Helper()
	pm, err := NewPromptManager()
	require.NoError(t, err)
	return NewLLMProvider(name, gen, pm, timeout, logger.Discard())
}

func TestPromptManager_Render(t *testing.T) {
	pm, err := NewPromptManager()
	require.NoError(t, err)

	out, err := pm.Render(CodeReviewPrompt, DefaultProvider, ReviewPromptData{Title: "Fix login", Diff: "+a"})
	require.NoError(t, err)
	assert.Contains(t, out, "PR Title: Fix login")
	assert.Contains(t, out, "bestPractices")
	assert.Contains(t, out, "+a")

	gemini, err := pm.Render(CodeReviewPrompt, "gemini", ReviewPromptData{Title: "t", Diff: "d"})
	require.NoError(t, err)
	assert.NotEqual(t, out, gemini)

	fallback, err := pm.Get(CodeReviewPrompt, "ollama")
	require.NoError(t, err)
	assert.Equal(t, "code_review_default", fallback.Name())

	_, err = pm.Get("unknown", DefaultProvider)
	assert.Error(t, err)
}

func TestParsePromptFileName(t *testing.T) {
	key, provider, err := parsePromptFileName("code_review_default.prompt")
	require.NoError(t, err)
	assert.Equal(t, CodeReviewPrompt, key)
	assert.Equal(t, DefaultProvider, provider)

	for _, bad := range []string{"review.prompt", "_default.prompt", "review_.prompt"} {
		_, _, err := parsePromptFileName(bad)
		assert.Error(t, err, bad)
	}
}

func TestLLMProvider_Analyze(t *testing.T) {
	var gotPrompt string
	p := newTestProvider(t, "ollama", func(_ context.Context, prompt string) (string, error) {
		gotPrompt = prompt
		return `{"security":[],"quality":[{"issue":"x","description":"y"}],"bestPractices":[],"performance":[],"suggestions":[]}`, nil
	}, time.Second)

	report, err := p.Analyze(context.Background(), "+code", "My PR")
	require.NoError(t, err)
	assert.Equal(t, []core.Finding{{Issue: "x", Description: "y"}}, report.Quality)
	assert.Contains(t, gotPrompt, "My PR")
	assert.Contains(t, gotPrompt, "+code")
	assert.Equal(t, "ollama", p.Name())
}

func TestLLMProvider_RawFallback(t *testing.T) {
	p := newTestProvider(t, "ollama", func(context.Context, string) (string, error) {
		return "Looks good to me.", nil
	}, time.Second)

	report, err := p.Analyze(context.Background(), "+code", "t")
	require.NoError(t, err)
	assert.Equal(t, "Looks good to me.", report.RawAnalysis)
}

func TestLLMProvider_Errors(t *testing.T) {
	t.Run("unavailable", func(t *testing.T) {
		p := newTestProvider(t, "gemini", func(context.Context, string) (string, error) {
			return "", errors.New("quota exceeded")
		}, time.Second)
		_, err := p.Analyze(context.Background(), "d", "t")
		assert.ErrorIs(t, err, core.ErrProviderUnavailable)
	})

	t.Run("timeout on a client that ignores ctx", func(t *testing.T) {
		release := make(chan struct{})
		defer close(release)
		p := newTestProvider(t, "ollama", func(context.Context, string) (string, error) {
			<-release
			return "{}", nil
		}, 20*time.Millisecond)

		start := time.Now()
		_, err := p.Analyze(context.Background(), "d", "t")
		assert.ErrorIs(t, err, core.ErrProviderTimeout)
		assert.Less(t, time.Since(start), time.Second)
	})

	t.Run("empty output", func(t *testing.T) {
		p := newTestProvider(t, "ollama", func(context.Context, string) (string, error) {
			return "  ", nil
		}, time.Second)
		_, err := p.Analyze(context.Background(), "d", "t")
		assert.ErrorIs(t, err, core.ErrEmptyAnalysis)
	})
}

func TestCannedProvider_Heuristics(t *testing.T) {
	p, err := NewCannedProvider("", 0)
	require.NoError(t, err)

	diff := "+++ b/config.go\n+const password = \"hunter2\"\n+// TODO: remove\n+fmt.Println(\"debug\")\n-old line\n+rows := db.Query(\"SELECT * FROM users\")\n"
	first, err := p.Analyze(context.Background(), diff, "Add config")
	require.NoError(t, err)
	second, err := p.Analyze(context.Background(), diff, "Add config")
	require.NoError(t, err)
	assert.Equal(t, first, second)

	assert.Len(t, first.Security, 1)
	assert.Len(t, first.Quality, 1)
	assert.Len(t, first.BestPractices, 1)
	assert.Len(t, first.Performance, 1)
	assert.Empty(t, first.Suggestions)
	assert.False(t, first.IsRaw())
}

func TestCannedProvider_CleanDiff(t *testing.T) {
	p, err := NewCannedProvider("", 0)
	require.NoError(t, err)

	report, err := p.Analyze(context.Background(), "+x := 1\n", "")
	require.NoError(t, err)
	assert.Zero(t, len(report.Security)+len(report.Quality)+len(report.BestPractices)+len(report.Performance))
	require.Len(t, report.Suggestions, 1)
	assert.Equal(t, "Missing pull request title", report.Suggestions[0].Issue)
}

func TestCannedProvider_Fixture(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.yaml")
	fixture := "quality:\n  - issue: x\n    description: y\nsuggestions:\n  - issue: add tests\n    description: cover the new branch\n"
	require.NoError(t, os.WriteFile(path, []byte(fixture), 0o600))

	p, err := NewCannedProvider(path, 0)
	require.NoError(t, err)

	report, err := p.Analyze(context.Background(), "anything", "t")
	require.NoError(t, err)
	assert.Equal(t, []core.Finding{{Issue: "x", Description: "y"}}, report.Quality)
	assert.Len(t, report.Suggestions, 1)

	report.Quality[0].Issue = "mutated"
	again, err := p.Analyze(context.Background(), "anything", "t")
	require.NoError(t, err)
	assert.Equal(t, "x", again.Quality[0].Issue)
}

func TestCannedProvider_DelayHonoursDeadline(t *testing.T) {
	p, err := NewCannedProvider("", time.Minute)
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err = p.Analyze(ctx, "+x", "t")
	assert.ErrorIs(t, err, core.ErrProviderTimeout)
}

func TestCannedProvider_MissingFixture(t *testing.T) {
	_, err := NewCannedProvider(filepath.Join(t.TempDir(), "nope.yaml"), 0)
	assert.Error(t, err)
}
