package pipeline

import (
	"regexp"
	"strings"
	"sync"

	"git.home.luguber.info/inful/mdcombine/internal/document"
	"git.home.luguber.info/inful/mdcombine/internal/markdown"
)

// transformLines runs fn over each line outside fenced code blocks. fn returns
// the replacement line and whether to keep the line at all.
func transformLines(content string, fn func(line string) (string, bool)) string {
	lines := strings.Split(content, "\n")
	out := make([]string, 0, len(lines))
	var tracker document.CodeBlockTracker

	for _, line := range lines {
		wasInBlock := tracker.InCodeBlock()
		tracker.ProcessLine(line)
		if wasInBlock || tracker.InCodeBlock() {
			out = append(out, line)
			continue
		}
		replaced, keep := fn(line)
		if keep {
			out = append(out, replaced)
		}
	}
	return strings.Join(out, "\n")
}

// stripHeadingNumbers removes numeric outline prefixes from heading titles
// ("## 2.1 Setup" -> "## Setup").
type stripHeadingNumbers struct {
	once sync.Once
	re   *regexp.Regexp
}

func (s *stripHeadingNumbers) Name() string { return StageStripHeadingNumbers }

func (s *stripHeadingNumbers) Transform(content string) string {
	s.once.Do(func() {
		s.re = regexp.MustCompile(`^(#{1,6}\s+)\d+(\.\d+)*\.?\s+(.*)$`)
	})
	return transformLines(content, func(line string) (string, bool) {
		return s.re.ReplaceAllString(line, "${1}${3}"), true
	})
}

// stripSectionMeta drops bold-field metadata lines ("**Status**: draft").
type stripSectionMeta struct {
	once sync.Once
	re   *regexp.Regexp
}

func (s *stripSectionMeta) Name() string { return StageStripSectionMeta }

func (s *stripSectionMeta) Transform(content string) string {
	s.once.Do(func() {
		s.re = regexp.MustCompile(`^\*\*[^*]+\*\*\s*:\s*.*$`)
	})
	return transformLines(content, func(line string) (string, bool) {
		if s.re.MatchString(strings.TrimSpace(line)) {
			return "", false
		}
		return line, true
	})
}

// normalizeHeadings flattens the heading hierarchy into breadcrumb titles:
// a level-3 heading "Usage" under "Lib" / "API" becomes "### Lib > API > Usage".
type normalizeHeadings struct {
	separator string
	once      sync.Once
	re        *regexp.Regexp
}

func (s *normalizeHeadings) Name() string { return StageNormalizeHeadings }

func (s *normalizeHeadings) Transform(content string) string {
	s.once.Do(func() {
		s.re = regexp.MustCompile(`^(#{1,6})\s+(.+)$`)
	})

	// stack[i] holds the most recent title seen at heading level i+1.
	var stack [6]string
	return transformLines(content, func(line string) (string, bool) {
		m := s.re.FindStringSubmatch(line)
		if m == nil {
			return line, true
		}
		level := len(m[1])
		title := strings.TrimSpace(m[2])
		stack[level-1] = title
		for i := level; i < len(stack); i++ {
			stack[i] = ""
		}
		if level == 1 {
			return line, true
		}
		crumbs := make([]string, 0, level)
		for i := 0; i < level; i++ {
			if stack[i] != "" {
				crumbs = append(crumbs, stack[i])
			}
		}
		return m[1] + " " + strings.Join(crumbs, s.separator), true
	})
}

// removeComments strips HTML comments, including multi-line blocks, outside
// fenced code.
type removeComments struct {
	once sync.Once
	re   *regexp.Regexp
}

func (s *removeComments) Name() string { return StageRemoveComments }

func (s *removeComments) Transform(content string) string {
	s.once.Do(func() {
		s.re = regexp.MustCompile(`<!--.*?-->`)
	})

	inComment := false
	return transformLines(content, func(line string) (string, bool) {
		if inComment {
			if idx := strings.Index(line, "-->"); idx >= 0 {
				inComment = false
				rest := strings.TrimSpace(line[idx+len("-->"):])
				if rest == "" {
					return "", false
				}
				return line[idx+len("-->"):], true
			}
			return "", false
		}

		cleaned := s.re.ReplaceAllString(line, "")
		if idx := strings.Index(cleaned, "<!--"); idx >= 0 {
			inComment = true
			cleaned = cleaned[:idx]
		}
		if cleaned != line && strings.TrimSpace(cleaned) == "" {
			return "", false
		}
		return cleaned, true
	})
}

// removeBadges strips badge images (shields and linked badge images).
type removeBadges struct {
	once    sync.Once
	linked  *regexp.Regexp
	inlined *regexp.Regexp
}

func (s *removeBadges) Name() string { return StageRemoveBadges }

func (s *removeBadges) Transform(content string) string {
	s.once.Do(func() {
		s.linked = regexp.MustCompile(`\[!\[[^\]]*\]\([^)]*\)\]\([^)]*\)`)
		s.inlined = regexp.MustCompile(`!\[[^\]]*\]\([^)]*(?:shields\.io|badge|badgen\.net)[^)]*\)`)
	})
	return transformLines(content, func(line string) (string, bool) {
		cleaned := s.linked.ReplaceAllString(line, "")
		cleaned = s.inlined.ReplaceAllString(cleaned, "")
		if cleaned != line && strings.TrimSpace(cleaned) == "" {
			return "", false
		}
		return cleaned, true
	})
}

// removeDuplicates drops exact duplicate paragraphs, keeping the first
// occurrence. Headings and fenced blocks are never deduplicated.
type removeDuplicates struct{}

func (s *removeDuplicates) Name() string { return StageRemoveDuplicates }

// Paragraphs shorter than this are too generic to deduplicate safely.
const minDuplicateBlockLen = 30

func (s *removeDuplicates) Transform(content string) string {
	blocks := splitBlocks(content)
	seen := make(map[string]bool)
	out := make([]string, 0, len(blocks))

	for _, b := range blocks {
		key := strings.TrimSpace(b)
		dedupable := key != "" &&
			len(key) >= minDuplicateBlockLen &&
			!strings.HasPrefix(key, "#") &&
			!strings.HasPrefix(key, "```")
		if dedupable && seen[key] {
			continue
		}
		if dedupable {
			seen[key] = true
		}
		out = append(out, b)
	}
	return strings.Join(out, "\n\n")
}

// splitBlocks splits content on blank lines, keeping fenced regions intact
// within one block.
func splitBlocks(content string) []string {
	lines := strings.Split(content, "\n")
	var tracker document.CodeBlockTracker
	var blocks []string
	var current []string

	flush := func() {
		if len(current) > 0 {
			blocks = append(blocks, strings.Join(current, "\n"))
			current = nil
		}
	}

	for _, line := range lines {
		tracker.ProcessLine(line)
		if strings.TrimSpace(line) == "" && !tracker.InCodeBlock() {
			flush()
			continue
		}
		current = append(current, line)
	}
	flush()
	return blocks
}

// removeInternalLinks unwraps links that point within the corpus, replacing
// [text](relative.md) with the bare text. Goldmark identifies the
// destinations; the rewrite itself is textual.
type removeInternalLinks struct {
	once sync.Once
	re   *regexp.Regexp
}

func (s *removeInternalLinks) Name() string { return StageRemoveInternalLinks }

func (s *removeInternalLinks) Transform(content string) string {
	internal := make(map[string]bool)
	for _, link := range markdown.ExtractLinks([]byte(content)) {
		if link.Kind == markdown.LinkKindInline && markdown.IsInternal(link.Destination) {
			internal[link.Destination] = true
		}
	}
	if len(internal) == 0 {
		return content
	}

	s.once.Do(func() {
		// The leading "!" capture keeps images intact even when the same
		// destination also appears as a plain link.
		s.re = regexp.MustCompile(`(!?)\[([^\]]*)\]\(([^)\s]+)\)`)
	})
	return transformLines(content, func(line string) (string, bool) {
		return s.re.ReplaceAllStringFunc(line, func(match string) string {
			m := s.re.FindStringSubmatch(match)
			if m == nil || m[1] == "!" || !internal[m[3]] {
				return match
			}
			return m[2]
		}), true
	})
}

// normalizeWhitespace trims trailing spaces, collapses runs of blank lines to
// at most two, and guarantees a single trailing newline. Fenced code is left
// untouched.
type normalizeWhitespace struct{}

func (s *normalizeWhitespace) Name() string { return StageNormalizeWhitespace }

func (s *normalizeWhitespace) Transform(content string) string {
	return NormalizeWhitespace(content)
}

// NormalizeWhitespace is exported so the combiner can run the same pass over
// the fully combined document.
func NormalizeWhitespace(content string) string {
	lines := strings.Split(content, "\n")
	out := make([]string, 0, len(lines))
	var tracker document.CodeBlockTracker
	blankRun := 0

	for _, line := range lines {
		wasInBlock := tracker.InCodeBlock()
		tracker.ProcessLine(line)
		if wasInBlock || tracker.InCodeBlock() {
			blankRun = 0
			out = append(out, line)
			continue
		}

		trimmed := strings.TrimRight(line, " \t")
		if trimmed == "" {
			blankRun++
			if blankRun > 2 {
				continue
			}
		} else {
			blankRun = 0
		}
		out = append(out, trimmed)
	}

	result := strings.Join(out, "\n")
	result = strings.TrimRight(result, "\n")
	if result == "" {
		return ""
	}
	return result + "\n"
}
