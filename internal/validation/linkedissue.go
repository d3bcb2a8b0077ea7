package validation

import (
	"regexp"
	"strconv"
)

var (
	closingRefRe = regexp.MustCompile(`(?i)\b(?:close[sd]?|fix(?:e[sd])?|resolve[sd]?)\s*:?\s+#(\d+)`)
	issueRefRe   = regexp.MustCompile(`#(\d+)`)
)

// ExtractLinkedIssue finds the issue a PR claims to address. Closing
// keywords ("closes #7", "fixes #7") win over a bare "#7" reference.
func ExtractLinkedIssue(body string) (int, bool) {
	if m := closingRefRe.FindStringSubmatch(body); m != nil {
		n, err := strconv.Atoi(m[1])
		if err == nil && n > 0 {
			return n, true
		}
	}
	if m := issueRefRe.FindStringSubmatch(body); m != nil {
		n, err := strconv.Atoi(m[1])
		if err == nil && n > 0 {
			return n, true
		}
	}
	return 0, false
}
