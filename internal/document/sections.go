package document

import (
	"regexp"
	"strings"
)

var headingPattern = regexp.MustCompile(`^(#{1,6})\s+(.+)$`)

// ExtractSections returns the ordered heading outline of a Markdown body.
//
// A heading is an ATX line (`#` repeated 1-6 times, a space, then text) that
// is not inside a fenced code block. Titles are trimmed.
func ExtractSections(content string) []Section {
	var sections []Section
	var tracker CodeBlockTracker

	for _, line := range strings.Split(content, "\n") {
		tracker.ProcessLine(line)
		if tracker.InCodeBlock() {
			continue
		}
		// A fence line itself is never a heading, but ProcessLine has already
		// flipped the state before this check, so the closing fence line is
		// handled correctly too.
		m := headingPattern.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		sections = append(sections, Section{
			Level: len(m[1]),
			Title: strings.TrimSpace(m[2]),
		})
	}
	return sections
}
