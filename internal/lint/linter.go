package lint

import (
	"log/slog"
	"os"
	"path/filepath"

	"git.home.luguber.info/inful/mdcombine/internal/config"
	"git.home.luguber.info/inful/mdcombine/internal/discovery"
	"git.home.luguber.info/inful/mdcombine/internal/logfields"
	"git.home.luguber.info/inful/mdcombine/internal/metrics"
)

// Linter runs all enabled rules over the corpus snapshot.
type Linter struct {
	cfg       *config.Config
	collector discovery.Collector
	rules     *ruleSet
	recorder  metrics.Recorder
}

// Option customizes a Linter.
type Option func(*Linter)

// WithCollector injects a custom source collector.
func WithCollector(c discovery.Collector) Option {
	return func(l *Linter) { l.collector = c }
}

// WithRecorder feeds per-rule issue counts into a metrics sink. Watch mode
// uses this to keep lint_issues_total current across rebuilds.
func WithRecorder(r metrics.Recorder) Option {
	return func(l *Linter) { l.recorder = r }
}

// New constructs a Linter. The filename pattern is compiled here so a bad
// regex fails before any file is read.
func New(cfg *config.Config, opts ...Option) (*Linter, error) {
	rules, err := newRuleSet(&cfg.Lint)
	if err != nil {
		return nil, err
	}
	l := &Linter{cfg: cfg, rules: rules}
	for _, opt := range opts {
		opt(l)
	}
	if l.collector == nil {
		c, err := discovery.NewGlobCollector(cfg.Sources.Root, cfg.Sources.Include, cfg.Sources.Exclude)
		if err != nil {
			return nil, err
		}
		l.collector = c
	}
	return l, nil
}

// Lint scans the whole corpus and returns every issue found. Individual file
// anomalies never abort the pass: unreadable files are logged and skipped,
// and the remaining files are still checked.
func (l *Linter) Lint() (*Result, error) {
	paths, err := l.collector.Collect()
	if err != nil {
		return nil, err
	}

	result := &Result{Issues: []Issue{}}
	for _, rel := range paths {
		full := filepath.Join(l.cfg.Sources.Root, filepath.FromSlash(rel))
		data, err := os.ReadFile(full)
		if err != nil {
			slog.Warn("Skipping unreadable file during lint",
				logfields.File(rel),
				logfields.Error(err))
			continue
		}
		result.FilesTotal++
		result.Issues = append(result.Issues, l.rules.scanFile(rel, string(data))...)
	}

	result.Issues = append(result.Issues, l.rules.checkCorpus(paths)...)

	if l.recorder != nil {
		byRule := make(map[string]int)
		for _, issue := range result.Issues {
			byRule[issue.Rule]++
		}
		for rule, count := range byRule {
			l.recorder.IncLintIssues(rule, count)
		}
	}
	return result, nil
}
