// Package config owns the YAML configuration consumed by the build, lint and
// watch surfaces: source discovery globs, sort mode, per-stage optimization
// toggles, TOC and output settings, lint rule flags and watch-mode options.
package config

// Config is the root configuration document.
type Config struct {
	Version  int            `yaml:"version,omitempty"`
	Sources  SourcesConfig  `yaml:"sources"`
	Output   OutputConfig   `yaml:"output"`
	Sort     SortConfig     `yaml:"sort"`
	Optimize OptimizeConfig `yaml:"optimize"`
	Toc      TocConfig      `yaml:"toc"`
	Lint     LintConfig     `yaml:"lint"`
	Watch    WatchConfig    `yaml:"watch"`
}

// SourcesConfig describes which files belong to the corpus.
type SourcesConfig struct {
	// Root is the directory all relative document paths resolve against.
	Root string `yaml:"root"`
	// Include/Exclude are glob patterns relative to Root. A file is part of
	// the corpus when it matches any include and no exclude.
	Include []string `yaml:"include"`
	Exclude []string `yaml:"exclude,omitempty"`
}

// OutputConfig describes the combined artifact.
type OutputConfig struct {
	Path string `yaml:"path"`
	// Separator joins document bodies (and the TOC) in the output.
	Separator string `yaml:"separator,omitempty"`
	// StripFrontmatter removes the YAML frontmatter block from combined
	// output. Defaults to true.
	StripFrontmatter *bool `yaml:"strip_frontmatter,omitempty"`
}

// SortMode selects the document ordering strategy.
type SortMode string

const (
	// SortModeLexicographic orders documents by path and bypasses dependency
	// logic entirely. This is the default.
	SortModeLexicographic SortMode = "lexicographic"
	// SortModeCustom partitions documents into pattern groups and runs a
	// dependency-aware topological sort within each group.
	SortModeCustom SortMode = "custom"
)

// SortConfig selects and parameterizes the sort mode.
type SortConfig struct {
	Mode SortMode `yaml:"mode,omitempty"`
	// Groups are substring patterns, in priority order, for custom mode.
	// Documents matching no pattern fall into a trailing catch-all group.
	Groups []string `yaml:"groups,omitempty"`
}

// OptimizeConfig toggles the content transform stages.
type OptimizeConfig struct {
	StripHeadingNumbers bool `yaml:"strip_heading_numbers"`
	StripSectionMeta    bool `yaml:"strip_section_meta"`
	NormalizeHeadings   bool `yaml:"normalize_headings"`
	// HeadingSeparator joins breadcrumb components in normalize-headings.
	HeadingSeparator    string `yaml:"heading_separator,omitempty"`
	RemoveComments      bool   `yaml:"remove_comments"`
	RemoveBadges        bool   `yaml:"remove_badges"`
	RemoveDuplicates    bool   `yaml:"remove_duplicates"`
	RemoveInternalLinks bool   `yaml:"remove_internal_links"`
	NormalizeWhitespace bool   `yaml:"normalize_whitespace"`
}

// TocConfig controls table-of-contents generation.
type TocConfig struct {
	Enabled  bool   `yaml:"enabled"`
	MaxDepth int    `yaml:"max_depth,omitempty"`
	Title    string `yaml:"title,omitempty"`
}

// LintConfig parameterizes the rule engine.
type LintConfig struct {
	// Rules maps rule name to enabled. Rules absent from the map are enabled.
	Rules map[string]bool `yaml:"rules,omitempty"`
	// FilenamePattern is the regex basenames must match for file-naming.
	FilenamePattern string `yaml:"filename_pattern,omitempty"`
	// FilenameMessage overrides the file-naming issue message.
	FilenameMessage string `yaml:"filename_message,omitempty"`
	// DirectoryThreshold is the Markdown-file count above which a directory
	// gets a consistent-structure-threshold warning.
	DirectoryThreshold int `yaml:"directory_threshold,omitempty"`
	// CanonicalOverview is the expected basename for overview documents.
	CanonicalOverview string `yaml:"canonical_overview,omitempty"`
}

// RuleEnabled reports whether a rule runs. Unknown/unlisted rules default on.
func (l *LintConfig) RuleEnabled(name string) bool {
	if l.Rules == nil {
		return true
	}
	enabled, ok := l.Rules[name]
	if !ok {
		return true
	}
	return enabled
}

// WatchConfig parameterizes watch mode. All observability integrations are
// opt-in: an empty value disables the integration.
type WatchConfig struct {
	// DebounceMS is the quiet window applied to filesystem events.
	DebounceMS int `yaml:"debounce_ms,omitempty"`
	// RebuildInterval optionally schedules periodic full rebuilds ("30m").
	RebuildInterval string `yaml:"rebuild_interval,omitempty"`
	// MetricsAddr optionally serves Prometheus metrics ("127.0.0.1:9921").
	MetricsAddr string `yaml:"metrics_addr,omitempty"`
	// HistoryDB optionally records build results in a SQLite database.
	HistoryDB string `yaml:"history_db,omitempty"`
	// Nats optionally publishes build events.
	Nats NatsConfig `yaml:"nats,omitempty"`
}

// NatsConfig configures the optional build-event publisher.
type NatsConfig struct {
	URL     string `yaml:"url,omitempty"`
	Subject string `yaml:"subject,omitempty"`
}

// StripFrontmatterEnabled resolves the tri-state flag (default true).
func (o *OutputConfig) StripFrontmatterEnabled() bool {
	if o.StripFrontmatter == nil {
		return true
	}
	return *o.StripFrontmatter
}
