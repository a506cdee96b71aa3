package github

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePullRequestURL(t *testing.T) {
	tests := []struct {
		name     string
		url      string
		fullName string
		number   int
	}{
		{"plain", "https://github.com/octo/widgets/pull/42", "octo/widgets", 42},
		{"trailing slash", "https://github.com/octo/widgets/pull/42/", "octo/widgets", 42},
		{"files tab", "https://github.com/octo/widgets/pull/42/files", "octo/widgets", 42},
		{"query and fragment", "https://github.com/octo/widgets/pull/7?w=1#discussion_r1", "octo/widgets", 7},
		{"enterprise host", "https://git.example.com/team/api/pull/3", "team/api", 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fullName, number, err := ParsePullRequestURL(tt.url)
			require.NoError(t, err)
			assert.Equal(t, tt.fullName, fullName)
			assert.Equal(t, tt.number, number)
		})
	}
}

func TestParsePullRequestURL_Invalid(t *testing.T) {
	for _, raw := range []string{
		"",
		"42",
		"octo/widgets/pull/42",
		"https://github.com/octo/widgets",
		"https://github.com/octo/widgets/issues/42",
		"https://github.com/octo/widgets/pull/abc",
		"https://github.com/octo/widgets/pull/0",
	} {
		_, _, err := ParsePullRequestURL(raw)
		assert.Error(t, err, raw)
	}
}
