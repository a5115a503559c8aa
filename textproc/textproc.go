package textproc

import (
	"regexp"
	"strings"
)

var (
	// blankRunPattern matches a newline followed by any whitespace run
	// ending in another newline, i.e. one or more blank lines.
	blankRunPattern = regexp.MustCompile(`\n\s*\n`)

	// spaceRunPattern matches runs of two or more spaces.
	spaceRunPattern = regexp.MustCompile(` +`)
)

// sectionKeywords are the phrases that identify a line as a likely
// section heading in insurance documentation. Matching is
// case-insensitive substring containment.
var sectionKeywords = []string{
	"policy summary", "coverage", "exclusions", "deductible",
	"limits", "conditions", "definitions", "schedule", "listed events",
}

// CollapseWhitespace reduces runs of blank lines to a single blank line
// and runs of interior spaces to one space.
func CollapseWhitespace(text string) string {
	text = blankRunPattern.ReplaceAllString(text, "\n\n")
	return spaceRunPattern.ReplaceAllString(text, " ")
}

// Structure collapses whitespace and rewrites lines that look like
// section headings as "=== <line> ===" preceded by a blank line. All
// other non-empty lines pass through trimmed; empty lines are dropped.
// The transformation is purely line-local.
func Structure(text string) string {
	text = CollapseWhitespace(text)

	lines := strings.Split(text, "\n")
	structured := make([]string, 0, len(lines))
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if isSectionHeading(line) {
			structured = append(structured, "\n=== "+line+" ===")
		} else {
			structured = append(structured, line)
		}
	}
	return strings.Join(structured, "\n")
}

// isSectionHeading reports whether a line contains any section keyword.
func isSectionHeading(line string) bool {
	lower := strings.ToLower(line)
	for _, kw := range sectionKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}
