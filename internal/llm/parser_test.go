package llm

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sevigo/pullpilot/internal/core"
)

func TestParseReport(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		want   *core.AnalysisReport
		rawOut bool
	}{
		{
			name:  "plain JSON",
			input: `{"security":[],"quality":[{"issue":"x","description":"y"}],"bestPractices":[],"performance":[],"suggestions":[]}`,
			want: &core.AnalysisReport{
				Security:      []core.Finding{},
				Quality:       []core.Finding{{Issue: "x", Description: "y"}},
				BestPractices: []core.Finding{},
				Performance:   []core.Finding{},
				Suggestions:   []core.Finding{},
			},
		},
		{
			name:  "fenced JSON with language tag",
			input: "```json\n{\"security\":[{\"issue\":\"SQL injection\",\"description\":\"use params\"}]}\n```",
			want: &core.AnalysisReport{
				Security: []core.Finding{{Issue: "SQL injection", Description: "use params"}},
			},
		},
		{
			name:  "prose around the object",
			input: "Here is my review:\n{\"performance\":[{\"issue\":\"n+1\",\"description\":\"batch it\"}]}\nHope this helps!",
			want: &core.AnalysisReport{
				Performance: []core.Finding{{Issue: "n+1", Description: "batch it"}},
			},
		},
		{
			name:  "string findings",
			input: `{"suggestions":["add tests","rename foo"]}`,
			want: &core.AnalysisReport{
				Suggestions: []core.Finding{{Issue: "add tests"}, {Issue: "rename foo"}},
			},
		},
		{
			name:  "existing raw fallback object",
			input: `{"rawAnalysis":"looks fine"}`,
			want:  &core.AnalysisReport{RawAnalysis: "looks fine"},
		},
		{
			name:   "plain prose",
			input:  "The code looks good overall, but consider adding tests.",
			rawOut: true,
		},
		{
			name:   "truncated JSON",
			input:  `{"security":[{"issue":"x"`,
			rawOut: true,
		},
		{
			name:   "JSON without known keys",
			input:  `{"verdict":"approve"}`,
			rawOut: true,
		},
		{
			name:   "category with wrong shape",
			input:  `{"security":"none"}`,
			rawOut: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseReport(tt.input)
			require.NoError(t, err)
			if tt.rawOut {
				assert.True(t, got.IsRaw())
				assert.Equal(t, strings.TrimSpace(tt.input), got.RawAnalysis)
				return
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseReport_Empty(t *testing.T) {
	for _, in := range []string{"", "   \n\t"} {
		_, err := ParseReport(in)
		assert.ErrorIs(t, err, core.ErrEmptyAnalysis)
	}
}

func TestStripMarkdownFence(t *testing.T) {
	assert.Equal(t, `{"a":1}`, stripMarkdownFence("```json\n{\"a\":1}\n```"))
	assert.Equal(t, `{"a":1}`, stripMarkdownFence("```\n{\"a\":1}\n```"))
	assert.Equal(t, "no fence", stripMarkdownFence("no fence"))
	assert.Equal(t, "```", stripMarkdownFence("```"))
}

func numberedLines(n int) string {
	var b strings.Builder
	for i := range n {
		fmt.Fprintf(&b, "+line %d\n", i+1)
	}
	return b.String()
}

func TestTruncateDiff(t *testing.T) {
	diff := numberedLines(5000)

	first, truncated := TruncateDiff(diff, 3000)
	require.True(t, truncated)
	second, _ := TruncateDiff(diff, 3000)
	assert.Equal(t, first, second)

	lines := strings.Split(first, "\n")
	assert.Len(t, lines, 3000)
	assert.Equal(t, "+line 1", lines[0])
	assert.Equal(t, "+line 3000", lines[2999])
	assert.True(t, strings.HasPrefix(diff, first))
}

func TestTruncateDiff_MatchesSplitJoin(t *testing.T) {
	for _, diff := range []string{"", "a", "a\nb", "a\nb\n", "a\n\n\nb\nc", numberedLines(10)} {
		for _, max := range []int{1, 2, 3, 10, 20} {
			parts := strings.Split(diff, "\n")
			if len(parts) > max {
				parts = parts[:max]
			}
			want := strings.Join(parts, "\n")
			got, _ := TruncateDiff(diff, max)
			assert.Equal(t, want, got, "diff=%q max=%d", diff, max)
		}
	}
}

func TestTruncateDiff_ShortDiffUnchanged(t *testing.T) {
	diff := numberedLines(10)
	got, truncated := TruncateDiff(diff, 3000)
	assert.False(t, truncated)
	assert.Equal(t, diff, got)
}
