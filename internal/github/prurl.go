package github

import (
	"fmt"
	"net/url"
	"regexp"
	"strconv"
	"strings"
)

// Path of a pull request page, optionally followed by a tab such as /files.
var prPathRegex = regexp.MustCompile(`^/([^/]+)/([^/]+)/pull/(\d+)(?:/[a-z]+)?/?$`)

// ParsePullRequestURL extracts the repository full name and the pull request
// number from a pull request page URL. Enterprise hosts are accepted.
func ParsePullRequestURL(raw string) (string, int, error) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil || u.Host == "" {
		return "", 0, fmt.Errorf("invalid pull request URL %q", raw)
	}

	matches := prPathRegex.FindStringSubmatch(u.Path)
	if len(matches) != 4 {
		return "", 0, fmt.Errorf("invalid pull request URL %q: expected https://<host>/<owner>/<repo>/pull/<number>", raw)
	}

	number, err := strconv.Atoi(matches[3])
	if err != nil || number <= 0 {
		return "", 0, fmt.Errorf("invalid pull request number %q", matches[3])
	}
	return matches[1] + "/" + matches[2], number, nil
}
