package tutor

import (
	"regexp"
	"strings"
)

// Patterns that mark a chapter or section boundary at the start of a line.
// Checked in order; the first match on a page wins.
var headingPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?im)^(Chapter|CHAPTER)\b.*`),
	regexp.MustCompile(`(?im)^(Section|SECTION)\b.*`),
	regexp.MustCompile(`(?m)^\d+(?:\.\d+)*\s+\S.*`),
}

var numberedHeadingPattern = regexp.MustCompile(`^\d+(?:\.\d+)*\s+`)

// ExtractHeading returns the first chapter/section heading found in the
// page text, or an empty string when the page has none.
func ExtractHeading(text string) string {
	for _, pattern := range headingPatterns {
		if match := pattern.FindString(text); match != "" {
			return strings.TrimSpace(match)
		}
	}
	return ""
}

// classifyHeading splits a heading into its chapter and section role.
// A chapter heading replaces the running chapter; section and numbered
// headings only label the current page.
func classifyHeading(heading string) (chapter, section string) {
	if heading == "" {
		return "", ""
	}

	low := strings.ToLower(heading)
	switch {
	case strings.Contains(low, "chapter"):
		return heading, ""
	case strings.Contains(low, "section"):
		return "", heading
	case numberedHeadingPattern.MatchString(heading):
		return "", heading
	}

	return "", ""
}
