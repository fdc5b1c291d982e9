package lint

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/mdcombine/internal/config"
)

func testRules(t *testing.T) *ruleSet {
	t.Helper()
	cfg := config.Default()
	rs, err := newRuleSet(&cfg.Lint)
	require.NoError(t, err)
	return rs
}

func issuesByRule(issues []Issue, rule string) []Issue {
	var out []Issue
	for _, i := range issues {
		if i.Rule == rule {
			out = append(out, i)
		}
	}
	return out
}

func TestScanFile_CleanFileHasNoIssues(t *testing.T) {
	rs := testRules(t)
	issues := rs.scanFile("guide.md", "# Guide\n\nSome text.\n\n- one\n- two\n")
	require.Empty(t, issues)
}

func TestScanFile_FileNaming(t *testing.T) {
	rs := testRules(t)

	issues := rs.scanFile("My File.md", "# ok\n")
	named := issuesByRule(issues, RuleFileNaming)
	require.Len(t, named, 1)
	require.Equal(t, SeverityWarning, named[0].Severity)
	require.Equal(t, 0, named[0].Line)

	require.Empty(t, issuesByRule(rs.scanFile("my-file.md", "# ok\n"), RuleFileNaming))
}

func TestScanFile_TrailingSpaces(t *testing.T) {
	rs := testRules(t)
	issues := rs.scanFile("a.md", "# ok\ntext with trailing  \nclean line\n")
	trailing := issuesByRule(issues, RuleNoTrailingSpaces)
	require.Len(t, trailing, 1)
	require.Equal(t, 2, trailing[0].Line)
}

func TestScanFile_MultipleBlanks(t *testing.T) {
	rs := testRules(t)

	// Two blanks are fine; the third and fourth are each flagged.
	issues := rs.scanFile("a.md", "a\n\n\nb\n")
	require.Empty(t, issuesByRule(issues, RuleNoMultipleBlanks))

	issues = rs.scanFile("a.md", "a\n\n\n\n\nb\n")
	blanks := issuesByRule(issues, RuleNoMultipleBlanks)
	require.Len(t, blanks, 2)
	require.Equal(t, 4, blanks[0].Line)
	require.Equal(t, 5, blanks[1].Line)
}

func TestScanFile_MultipleBlanksIgnoredInsideFence(t *testing.T) {
	rs := testRules(t)
	issues := rs.scanFile("a.md", "```\na\n\n\n\n\nb\n```\n")
	require.Empty(t, issuesByRule(issues, RuleNoMultipleBlanks))
}

func TestScanFile_SetextHeading(t *testing.T) {
	rs := testRules(t)

	issues := rs.scanFile("a.md", "Title\n=====\n\nSub\n-----\n")
	setext := issuesByRule(issues, RuleHeadingStyle)
	require.Len(t, setext, 2)
	require.Equal(t, SeverityInfo, setext[0].Severity)
	require.Equal(t, 2, setext[0].Line)
	require.Equal(t, 5, setext[1].Line)

	// A thematic break after a blank line is not a setext underline.
	require.Empty(t, issuesByRule(rs.scanFile("a.md", "text\n\n---\n"), RuleHeadingStyle))
}

func TestScanFile_ListMarkerStyle(t *testing.T) {
	rs := testRules(t)
	issues := rs.scanFile("a.md", "* star\n+ plus\n- dash\n")
	markers := issuesByRule(issues, RuleListMarkerStyle)
	require.Len(t, markers, 2)
	require.Equal(t, SeverityInfo, markers[0].Severity)
}

func TestScanFile_FenceSuppressesContentRules(t *testing.T) {
	rs := testRules(t)
	content := "```\n# 1. fake heading\n* star item\n**Bold:**\nTitle\n====\n```\n"
	issues := rs.scanFile("a.md", content)
	require.Empty(t, issuesByRule(issues, RuleHeadingStyle))
	require.Empty(t, issuesByRule(issues, RuleListMarkerStyle))
	require.Empty(t, issuesByRule(issues, RuleNoStructuralBold))
	require.Empty(t, issuesByRule(issues, RuleNoNumberedHeadings))
}

func TestScanFile_SameLinesOutsideFenceAreFlagged(t *testing.T) {
	rs := testRules(t)
	content := "# 1. real heading\n* star item\n**Bold:**\n"
	issues := rs.scanFile("a.md", content)
	require.Len(t, issuesByRule(issues, RuleNoNumberedHeadings), 1)
	require.Len(t, issuesByRule(issues, RuleListMarkerStyle), 1)
	require.Len(t, issuesByRule(issues, RuleNoStructuralBold), 1)
}

func TestScanFile_MermaidScoping(t *testing.T) {
	rs := testRules(t)

	// Outside any mermaid fence: zero issues.
	issues := rs.scanFile("a.md", "style X fill:#fff\n")
	require.Empty(t, issuesByRule(issues, RuleNoMermaidStyling))

	// Inside a plain code fence: still zero.
	issues = rs.scanFile("a.md", "```\nstyle X fill:#fff\n```\n")
	require.Empty(t, issuesByRule(issues, RuleNoMermaidStyling))

	// Inside a mermaid fence: exactly one.
	issues = rs.scanFile("a.md", "```mermaid\ngraph TD\nstyle X fill:#fff\n```\n")
	styling := issuesByRule(issues, RuleNoMermaidStyling)
	require.Len(t, styling, 1)
	require.Equal(t, SeverityWarning, styling[0].Severity)
	require.Equal(t, 3, styling[0].Line)
}

func TestScanFile_MermaidClassDefAndLinkStyle(t *testing.T) {
	rs := testRules(t)
	content := "```mermaid\nclassDef red fill:#f00\nlinkStyle 0 stroke:#0f0\n```\n"
	require.Len(t, issuesByRule(rs.scanFile("a.md", content), RuleNoMermaidStyling), 2)
}

func TestScanFile_NavigationSections(t *testing.T) {
	rs := testRules(t)
	content := "# Guide\n\n## Table of Contents\n\n## Navigation\n\n## Setup Notes\n"
	nav := issuesByRule(rs.scanFile("a.md", content), RuleNoNavigationSections)
	require.Len(t, nav, 2)
	require.Equal(t, 3, nav[0].Line)
	require.Equal(t, 5, nav[1].Line)
}

func TestScanFile_StructuralBoldTriggers(t *testing.T) {
	rs := testRules(t)

	cases := []string{
		"- **Status**: done\n",          // bold-field list item
		"**alpha** **beta** text\n",     // consecutive bold spans
		"**Pseudo Heading**\n",          // bold-as-pseudo-heading
	}
	for _, c := range cases {
		require.Len(t, issuesByRule(rs.scanFile("a.md", c), RuleNoStructuralBold), 1, "input %q", c)
	}

	// Ordinary emphasis inside a sentence is fine.
	require.Empty(t, issuesByRule(rs.scanFile("a.md", "this is **important** to know\n"), RuleNoStructuralBold))
}

func TestScanFile_NumberedHeadings(t *testing.T) {
	rs := testRules(t)
	content := "# 1. Intro\n## 2.3 Details\n## 10 Raw\n# Plain\n"
	numbered := issuesByRule(rs.scanFile("a.md", content), RuleNoNumberedHeadings)
	require.Len(t, numbered, 3)
	require.Equal(t, SeverityWarning, numbered[0].Severity)
}

func TestScanFile_FrontmatterIsNotScanned(t *testing.T) {
	rs := testRules(t)
	// Trailing spaces and a --- delimiter inside frontmatter produce nothing.
	content := "---\ntitle: X  \n---\n# ok\n"
	issues := rs.scanFile("a.md", content)
	require.Empty(t, issuesByRule(issues, RuleNoTrailingSpaces))
	require.Empty(t, issuesByRule(issues, RuleHeadingStyle))
}

func TestScanFile_StrayDelimiterIsNotFrontmatter(t *testing.T) {
	rs := testRules(t)
	// The later --- follows a non-blank line, so it is a setext underline,
	// not a second frontmatter block.
	content := "# ok\n\ntext  \nmore\n---\n"
	issues := rs.scanFile("a.md", content)
	require.Len(t, issuesByRule(issues, RuleNoTrailingSpaces), 1)
	require.Len(t, issuesByRule(issues, RuleHeadingStyle), 1)
}

func TestScanFile_UnclosedFrontmatterIsScannedAsBody(t *testing.T) {
	rs := testRules(t)
	// An opening --- with no closing delimiter is body text, exactly as
	// document.ParseFrontmatter and FixContent treat it. Every line after
	// it must still be checked.
	content := "---\ntrailing space \n# 1. Numbered\n"
	issues := rs.scanFile("a.md", content)

	trailing := issuesByRule(issues, RuleNoTrailingSpaces)
	require.Len(t, trailing, 1)
	require.Equal(t, 2, trailing[0].Line)

	numbered := issuesByRule(issues, RuleNoNumberedHeadings)
	require.Len(t, numbered, 1)
	require.Equal(t, 3, numbered[0].Line)
}

func TestScanFile_FrontmatterClosedAtEOFWithoutNewline(t *testing.T) {
	rs := testRules(t)
	// The closing delimiter may be the file's final bytes; the block is
	// still frontmatter and nothing is flagged.
	issues := rs.scanFile("a.md", "---\ntitle: X  \n---")
	require.Empty(t, issues)
}

func TestScanFile_DisabledRuleIsSkipped(t *testing.T) {
	cfg := config.Default()
	cfg.Lint.Rules = map[string]bool{RuleNoTrailingSpaces: false}
	rs, err := newRuleSet(&cfg.Lint)
	require.NoError(t, err)

	issues := rs.scanFile("a.md", "text with trailing \n")
	require.Empty(t, issuesByRule(issues, RuleNoTrailingSpaces))
}

func TestCheckCorpus_DirectoryThreshold(t *testing.T) {
	cfg := config.Default()
	cfg.Lint.DirectoryThreshold = 3
	rs, err := newRuleSet(&cfg.Lint)
	require.NoError(t, err)

	// Exactly at the threshold: no warning.
	var atLimit []string
	for i := 0; i < 3; i++ {
		atLimit = append(atLimit, fmt.Sprintf("guides/f%d.md", i))
	}
	require.Empty(t, issuesByRule(rs.checkCorpus(atLimit), RuleConsistentStructure))

	// One over: exactly one warning for that directory.
	over := append(atLimit, "guides/f3.md")
	issues := issuesByRule(rs.checkCorpus(over), RuleConsistentStructure)
	require.Len(t, issues, 1)
	require.Equal(t, "guides", issues[0].FilePath)
	require.Equal(t, SeverityWarning, issues[0].Severity)
}

func TestCheckCorpus_RootDirectoryIsExempt(t *testing.T) {
	cfg := config.Default()
	cfg.Lint.DirectoryThreshold = 2
	rs, err := newRuleSet(&cfg.Lint)
	require.NoError(t, err)

	paths := []string{"a.md", "b.md", "c.md", "d.md", "e.md"}
	require.Empty(t, issuesByRule(rs.checkCorpus(paths), RuleConsistentStructure))
}

func TestCheckCorpus_OverviewNaming(t *testing.T) {
	rs := testRules(t)

	paths := []string{
		"guides/overview.md",         // canonical, fine
		"setup/index.md",             // overview-style, wrong name
		"api/service-overview.md",    // overview-style, wrong name
		"api/reference.md",           // not overview-style
	}
	issues := issuesByRule(rs.checkCorpus(paths), RuleOverviewNaming)
	require.Len(t, issues, 2)
	require.Equal(t, "setup/index.md", issues[0].FilePath)
	require.Equal(t, "api/service-overview.md", issues[1].FilePath)
}
