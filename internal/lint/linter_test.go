package lint

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/mdcombine/internal/config"
	"git.home.luguber.info/inful/mdcombine/internal/metrics"
)

func lintCorpus(t *testing.T, files map[string]string, mutate func(*config.Config)) *Result {
	t.Helper()
	root := t.TempDir()
	for rel, content := range files {
		full := filepath.Join(root, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o755))
		require.NoError(t, os.WriteFile(full, []byte(content), 0o644))
	}

	cfg := config.Default()
	cfg.Sources.Root = root
	if mutate != nil {
		mutate(cfg)
	}

	l, err := New(cfg)
	require.NoError(t, err)
	result, err := l.Lint()
	require.NoError(t, err)
	return result
}

func TestLint_CollectsAcrossFiles(t *testing.T) {
	result := lintCorpus(t, map[string]string{
		"a.md": "# ok\ntrailing \n",
		"b.md": "* star\n",
	}, nil)

	require.Equal(t, 2, result.FilesTotal)
	require.Len(t, issuesByRule(result.Issues, RuleNoTrailingSpaces), 1)
	require.Len(t, issuesByRule(result.Issues, RuleListMarkerStyle), 1)
}

func TestLint_OneBadFileDoesNotHideOthers(t *testing.T) {
	// Malformed frontmatter in one file must not stop issues being reported
	// for the rest of the corpus.
	result := lintCorpus(t, map[string]string{
		"broken.md": "---\n: [unparseable\n---\n# ok\n",
		"other.md":  "text \n",
	}, nil)

	require.Equal(t, 2, result.FilesTotal)
	require.Len(t, issuesByRule(result.Issues, RuleNoTrailingSpaces), 1)
}

func TestLint_IssuesOrderedByFile(t *testing.T) {
	result := lintCorpus(t, map[string]string{
		"b.md": "x \n",
		"a.md": "y \n",
	}, nil)

	trailing := issuesByRule(result.Issues, RuleNoTrailingSpaces)
	require.Len(t, trailing, 2)
	require.Equal(t, "a.md", trailing[0].FilePath)
	require.Equal(t, "b.md", trailing[1].FilePath)
}

func TestLint_CorpusIssuesIncluded(t *testing.T) {
	result := lintCorpus(t, map[string]string{
		"guides/a.md": "# a\n",
		"guides/b.md": "# b\n",
		"guides/c.md": "# c\n",
	}, func(cfg *config.Config) {
		cfg.Lint.DirectoryThreshold = 2
	})

	structure := issuesByRule(result.Issues, RuleConsistentStructure)
	require.Len(t, structure, 1)
	require.Equal(t, "guides", structure[0].FilePath)
}

type ruleCountRecorder struct {
	counts map[string]int
}

func (r *ruleCountRecorder) ObserveBuildDuration(time.Duration)         {}
func (r *ruleCountRecorder) IncBuildOutcome(metrics.ResultLabel)        {}
func (r *ruleCountRecorder) ObserveStageDuration(string, time.Duration) {}
func (r *ruleCountRecorder) IncLintIssues(rule string, count int) {
	if r.counts == nil {
		r.counts = map[string]int{}
	}
	r.counts[rule] += count
}

func TestLint_RecordsPerRuleCounts(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "a.md"), []byte("x \ny \n* star\n"), 0o644))

	cfg := config.Default()
	cfg.Sources.Root = root

	rec := &ruleCountRecorder{}
	l, err := New(cfg, WithRecorder(rec))
	require.NoError(t, err)

	_, err = l.Lint()
	require.NoError(t, err)
	require.Equal(t, 2, rec.counts[RuleNoTrailingSpaces])
	require.Equal(t, 1, rec.counts[RuleListMarkerStyle])
}

func TestLint_InvalidFilenamePatternFailsConstruction(t *testing.T) {
	cfg := config.Default()
	cfg.Sources.Root = t.TempDir()
	cfg.Lint.FilenamePattern = "[unclosed"

	_, err := New(cfg)
	require.Error(t, err)
}

func TestTextFormatter(t *testing.T) {
	result := &Result{
		FilesTotal: 1,
		Issues: []Issue{
			{Severity: SeverityWarning, Message: "line has trailing whitespace", FilePath: "a.md", Line: 3, Rule: RuleNoTrailingSpaces},
			{Severity: SeverityInfo, Message: "list marker should be '-'", FilePath: "a.md", Line: 5, Rule: RuleListMarkerStyle},
		},
	}

	var buf bytes.Buffer
	require.NoError(t, NewFormatter("text").Format(&buf, result))
	out := buf.String()
	require.Contains(t, out, "a.md:3")
	require.Contains(t, out, "WARNING")
	require.Contains(t, out, "1 files scanned, 0 errors, 1 warnings, 1 info")
}

func TestJSONFormatter(t *testing.T) {
	result := &Result{
		FilesTotal: 2,
		Issues: []Issue{
			{Severity: SeverityWarning, Message: "m", FilePath: "a.md", Line: 1, Rule: RuleNoTrailingSpaces},
		},
	}

	var buf bytes.Buffer
	require.NoError(t, NewFormatter("json").Format(&buf, result))

	var out struct {
		FilesTotal   int `json:"files_total"`
		WarningCount int `json:"warning_count"`
		Issues       []struct {
			Severity string `json:"severity"`
			File     string `json:"file"`
			Line     int    `json:"line"`
		} `json:"issues"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &out))
	require.Equal(t, 2, out.FilesTotal)
	require.Equal(t, 1, out.WarningCount)
	require.Len(t, out.Issues, 1)
	require.Equal(t, "WARNING", out.Issues[0].Severity)
	require.Equal(t, "a.md", out.Issues[0].File)
	require.Equal(t, 1, out.Issues[0].Line)
}
