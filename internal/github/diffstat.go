package github

import (
	"regexp"
	"strings"
)

var hunkHeaderRegex = regexp.MustCompile(`^@@ -\d+(?:,\d+)? \+\d+(?:,\d+)? @@`)

// DiffStat summarizes a unified diff.
type DiffStat struct {
	Files     int
	Hunks     int
	Additions int
	Deletions int
}

// SummarizeDiff counts files, hunks and changed lines in a unified diff.
// Lines outside a hunk (file headers, index lines) are not counted as changes,
// and a malformed hunk header stops counting until the next valid one.
func SummarizeDiff(diff string) DiffStat {
	var stat DiffStat
	inHunk := false
	for line := range strings.SplitSeq(diff, "\n") {
		switch {
		case strings.HasPrefix(line, "diff --git "):
			stat.Files++
			inHunk = false
		case strings.HasPrefix(line, "@@"):
			inHunk = hunkHeaderRegex.MatchString(line)
			if inHunk {
				stat.Hunks++
			}
		case !inHunk:
		case strings.HasPrefix(line, "+"):
			stat.Additions++
		case strings.HasPrefix(line, "-"):
			stat.Deletions++
		}
	}
	return stat
}
