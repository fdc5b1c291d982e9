package lint

import (
	"path"
	"regexp"
	"strings"

	"git.home.luguber.info/inful/mdcombine/internal/config"
	"git.home.luguber.info/inful/mdcombine/internal/document"
)

var (
	setextUnderline = regexp.MustCompile(`^(={2,}|-{2,})$`)
	listMarker      = regexp.MustCompile(`^\s*[*+]\s+`)
	atxHeading      = regexp.MustCompile(`^#{1,6}\s+(.+?)\s*$`)
	numberedHeading = regexp.MustCompile(`^#{1,6}\s+\d+(\.\d+)*\.?\s+`)

	// Headings that exist to navigate the source tree carry no value in
	// combined output and should be removed from the documents themselves.
	navigationHeading = regexp.MustCompile(
		`(?i)^(navigation|breadcrumbs?|table of contents|toc|contents|quick links|related (pages|links|documents))$`)

	boldFieldItem   = regexp.MustCompile(`^\s*[-*+]\s+\*\*[^*]+\*\*\s*:`)
	consecutiveBold = regexp.MustCompile(`\*\*[^*]+\*\*\s*\*\*[^*]+\*\*`)
	boldPseudoHead  = regexp.MustCompile(`^\s*\*\*[^*]+\*\*:?\s*$`)
)

// mermaidStylePrefixes are diagram styling directives that belong in a theme,
// not in documentation sources.
var mermaidStylePrefixes = []string{"style ", "classDef ", "linkStyle "}

// ruleSet is the compiled, enablement-aware rule engine for one lint run.
type ruleSet struct {
	cfg        *config.LintConfig
	filenameRe *regexp.Regexp
}

func newRuleSet(cfg *config.LintConfig) (*ruleSet, error) {
	re, err := regexp.Compile(cfg.FilenamePattern)
	if err != nil {
		return nil, err
	}
	return &ruleSet{cfg: cfg, filenameRe: re}, nil
}

func (rs *ruleSet) enabled(rule string) bool {
	return rs.cfg.RuleEnabled(rule)
}

// scanFile applies every enabled per-line rule to one document. The scan
// carries three independent states: inside a fenced code block, inside the
// leading frontmatter block, and inside a ```mermaid fence. A stray `---`
// later in the file is never reinterpreted as a frontmatter delimiter, and
// an opening delimiter with no close is body text, not frontmatter.
func (rs *ruleSet) scanFile(relPath, content string) []Issue {
	var issues []Issue

	if rs.enabled(RuleFileNaming) && !rs.filenameRe.MatchString(path.Base(relPath)) {
		issues = append(issues, Issue{
			Severity: SeverityWarning,
			Message:  rs.cfg.FilenameMessage,
			FilePath: relPath,
			Rule:     RuleFileNaming,
		})
	}

	lines := strings.Split(content, "\n")

	// Frontmatter is resolved the way the parser and the fixer resolve it:
	// the block must start at byte zero and must be closed. An unclosed
	// opener is body text and gets scanned like any other line.
	fmLines := 0
	if head, _ := splitFrontmatterRaw(content); head != "" {
		fmLines = strings.Count(head, "\n")
		if !strings.HasSuffix(head, "\n") {
			fmLines++
		}
	}

	var code document.CodeBlockTracker
	var mermaid document.MermaidTracker
	blankRun := 0
	prevBlank := true
	prevWasFence := false

	for i, line := range lines {
		lineNo := i + 1
		trimmed := strings.TrimSpace(line)
		blank := trimmed == ""

		if i < fmLines {
			// The closing delimiter is not a setext-underline candidate base.
			prevBlank = true
			continue
		}

		code.ProcessLine(line)
		mermaid.ProcessLine(line)
		isFence := strings.HasPrefix(trimmed, "```")
		inCode := code.InCodeBlock()

		// Blank-run accounting runs everywhere; the rule fires only
		// outside fences, matching what the fixer is allowed to touch.
		if blank {
			blankRun++
		} else {
			blankRun = 0
		}
		if rs.enabled(RuleNoMultipleBlanks) && blank && blankRun >= 3 && !code.InCodeBlock() {
			issues = append(issues, Issue{
				Severity: SeverityWarning,
				Message:  "more than two consecutive blank lines",
				FilePath: relPath,
				Line:     lineNo,
				Rule:     RuleNoMultipleBlanks,
			})
		}

		if rs.enabled(RuleNoTrailingSpaces) && !blank && hasTrailingSpace(line) {
			issues = append(issues, Issue{
				Severity: SeverityWarning,
				Message:  "line has trailing whitespace",
				FilePath: relPath,
				Line:     lineNo,
				Rule:     RuleNoTrailingSpaces,
			})
		}

		if mermaid.InMermaidBlock() && !isFence && rs.enabled(RuleNoMermaidStyling) {
			for _, prefix := range mermaidStylePrefixes {
				if strings.HasPrefix(trimmed, prefix) {
					issues = append(issues, Issue{
						Severity: SeverityWarning,
						Message:  "mermaid styling directives belong in a shared theme, not in documents",
						FilePath: relPath,
						Line:     lineNo,
						Rule:     RuleNoMermaidStyling,
					})
					break
				}
			}
		}

		if inCode || isFence {
			prevBlank = blank
			prevWasFence = isFence
			continue
		}

		if rs.enabled(RuleHeadingStyle) && setextUnderline.MatchString(trimmed) && !prevBlank && !prevWasFence {
			issues = append(issues, Issue{
				Severity: SeverityInfo,
				Message:  "setext heading underline; use ATX '#' headings",
				FilePath: relPath,
				Line:     lineNo,
				Rule:     RuleHeadingStyle,
			})
		}

		if rs.enabled(RuleListMarkerStyle) && listMarker.MatchString(line) {
			issues = append(issues, Issue{
				Severity: SeverityInfo,
				Message:  "list marker should be '-'",
				FilePath: relPath,
				Line:     lineNo,
				Rule:     RuleListMarkerStyle,
			})
		}

		if m := atxHeading.FindStringSubmatch(trimmed); m != nil {
			if rs.enabled(RuleNoNavigationSections) && navigationHeading.MatchString(m[1]) {
				issues = append(issues, Issue{
					Severity: SeverityWarning,
					Message:  "navigation section heading; combined output carries its own TOC",
					FilePath: relPath,
					Line:     lineNo,
					Rule:     RuleNoNavigationSections,
				})
			}
			if rs.enabled(RuleNoNumberedHeadings) && numberedHeading.MatchString(trimmed) {
				issues = append(issues, Issue{
					Severity: SeverityWarning,
					Message:  "heading starts with a numeric outline prefix",
					FilePath: relPath,
					Line:     lineNo,
					Rule:     RuleNoNumberedHeadings,
				})
			}
		}

		if rs.enabled(RuleNoStructuralBold) && isStructuralBold(line) {
			issues = append(issues, Issue{
				Severity: SeverityInfo,
				Message:  "bold text used for structure; use headings or plain lists",
				FilePath: relPath,
				Line:     lineNo,
				Rule:     RuleNoStructuralBold,
			})
		}

		prevBlank = blank
		prevWasFence = isFence
	}

	return issues
}

func hasTrailingSpace(line string) bool {
	line = strings.TrimSuffix(line, "\r")
	return line != strings.TrimRight(line, " \t")
}

// isStructuralBold detects bold spans doing a heading's or field's job:
// a bold-field list item, two adjacent bold spans, or a line that is
// nothing but a bold span.
func isStructuralBold(line string) bool {
	return boldFieldItem.MatchString(line) ||
		consecutiveBold.MatchString(line) ||
		boldPseudoHead.MatchString(line)
}
