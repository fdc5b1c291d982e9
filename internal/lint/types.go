// Package lint checks a Markdown corpus against per-line style rules and
// corpus-level consistency rules, and provides a conservative auto-fixer.
package lint

// Severity indicates the importance level of a linting issue.
type Severity int

const (
	// SeverityInfo indicates stylistic suggestions that never block anything.
	SeverityInfo Severity = iota
	// SeverityWarning indicates issues that should be fixed.
	SeverityWarning
	// SeverityError indicates issues that callers may choose to fail on.
	SeverityError
)

// String returns the human-readable severity name.
func (s Severity) String() string {
	switch s {
	case SeverityInfo:
		return "INFO"
	case SeverityWarning:
		return "WARNING"
	case SeverityError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// Rule identifiers. Each per-line rule has a fixed severity; enablement is
// per-rule via configuration.
const (
	RuleFileNaming           = "file-naming"
	RuleNoTrailingSpaces     = "no-trailing-spaces"
	RuleNoMultipleBlanks     = "no-multiple-blanks"
	RuleHeadingStyle         = "heading-style"
	RuleListMarkerStyle      = "list-marker-style"
	RuleNoMermaidStyling     = "no-mermaid-styling"
	RuleNoNavigationSections = "no-navigation-sections"
	RuleNoStructuralBold     = "no-structural-bold"
	RuleNoNumberedHeadings   = "no-numbered-headings"

	// Corpus-level rules.
	RuleConsistentStructure = "consistent-structure-threshold"
	RuleOverviewNaming      = "overview-naming"
)

// Issue represents a single linting problem found in a file or directory.
type Issue struct {
	Severity Severity `json:"severity"`
	Message  string   `json:"message"`
	// FilePath is root-relative; for corpus-level issues it names a directory.
	FilePath string `json:"file"`
	// Line is 1-based; 0 means a file- or directory-level issue.
	Line int    `json:"line,omitempty"`
	Rule string `json:"rule"`
}

// Result contains all issues found during one lint run.
type Result struct {
	Issues     []Issue
	FilesTotal int
}

// HasErrors returns true if any error-level issues exist.
func (r *Result) HasErrors() bool {
	for _, issue := range r.Issues {
		if issue.Severity == SeverityError {
			return true
		}
	}
	return false
}

// HasWarnings returns true if any warning-level issues exist.
func (r *Result) HasWarnings() bool {
	for _, issue := range r.Issues {
		if issue.Severity == SeverityWarning {
			return true
		}
	}
	return false
}

// CountBySeverity returns the number of issues at the given severity.
func (r *Result) CountBySeverity(s Severity) int {
	count := 0
	for _, issue := range r.Issues {
		if issue.Severity == s {
			count++
		}
	}
	return count
}
