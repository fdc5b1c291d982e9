package lint

import (
	"fmt"
	"path"
	"sort"
	"strings"
)

// checkCorpus runs the directory-level consistency rules over the full sorted
// path snapshot. Paths are root-relative and slash-separated.
func (rs *ruleSet) checkCorpus(paths []string) []Issue {
	var issues []Issue

	if rs.enabled(RuleConsistentStructure) {
		issues = append(issues, rs.checkDirectorySizes(paths)...)
	}
	if rs.enabled(RuleOverviewNaming) {
		issues = append(issues, rs.checkOverviewNaming(paths)...)
	}
	return issues
}

// checkDirectorySizes warns once per directory whose Markdown-file count
// exceeds the configured threshold. The source root itself is exempt.
func (rs *ruleSet) checkDirectorySizes(paths []string) []Issue {
	counts := make(map[string]int)
	for _, p := range paths {
		dir := path.Dir(p)
		if dir == "." {
			continue
		}
		counts[dir]++
	}

	dirs := make([]string, 0, len(counts))
	for dir := range counts {
		dirs = append(dirs, dir)
	}
	sort.Strings(dirs)

	var issues []Issue
	for _, dir := range dirs {
		if counts[dir] <= rs.cfg.DirectoryThreshold {
			continue
		}
		issues = append(issues, Issue{
			Severity: SeverityWarning,
			Message: fmt.Sprintf("directory holds %d Markdown files (threshold %d); consider splitting it",
				counts[dir], rs.cfg.DirectoryThreshold),
			FilePath: dir,
			Rule:     RuleConsistentStructure,
		})
	}
	return issues
}

// checkOverviewNaming suggests renaming overview-style files whose basename
// differs from the configured canonical name.
func (rs *ruleSet) checkOverviewNaming(paths []string) []Issue {
	var issues []Issue
	for _, p := range paths {
		base := path.Base(p)
		if !isOverviewName(base) || base == rs.cfg.CanonicalOverview {
			continue
		}
		issues = append(issues, Issue{
			Severity: SeverityWarning,
			Message:  fmt.Sprintf("overview file should be named %s", rs.cfg.CanonicalOverview),
			FilePath: p,
			Rule:     RuleOverviewNaming,
		})
	}
	return issues
}

// isOverviewName matches overview.md, index.md and any *overview*.md
// (case-insensitive).
func isOverviewName(base string) bool {
	lower := strings.ToLower(base)
	if lower == "overview.md" || lower == "index.md" {
		return true
	}
	return strings.HasSuffix(lower, ".md") && strings.Contains(lower, "overview")
}
