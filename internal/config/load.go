package config

import (
	"fmt"
	"os"
	"regexp"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	cerrors "git.home.luguber.info/inful/mdcombine/internal/errors"
)

// Defaults applied by normalize.
const (
	DefaultDebounceMS         = 500
	DefaultDirectoryThreshold = 10
	DefaultCanonicalOverview  = "overview.md"
	DefaultFilenamePattern    = `^[a-z0-9][a-z0-9._-]*\.(md|markdown)$`
	DefaultFilenameMessage    = "filenames should be lowercase with hyphens"
	DefaultOutputPath         = "combined.md"
)

// Load reads, env-expands, parses, normalizes and validates a config file.
//
// .env / .env.local are loaded first (existing process env wins), then
// ${VAR} references inside the YAML are expanded.
func Load(path string) (*Config, error) {
	// Best effort: missing env files are not an error.
	_ = godotenv.Load(".env", ".env.local")

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, cerrors.Wrap(err, cerrors.CategoryConfig, cerrors.SeverityFatal,
			fmt.Sprintf("cannot read config file %s", path))
	}

	expanded := os.ExpandEnv(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, cerrors.Wrap(err, cerrors.CategoryConfig, cerrors.SeverityFatal,
			fmt.Sprintf("cannot parse config file %s", path))
	}

	cfg.normalize()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Default returns a ready-to-use configuration without reading any file.
func Default() *Config {
	cfg := &Config{}
	cfg.normalize()
	return cfg
}

func (c *Config) normalize() {
	if c.Sources.Root == "" {
		c.Sources.Root = "."
	}
	if len(c.Sources.Include) == 0 {
		c.Sources.Include = []string{"**/*.md"}
	}
	if c.Output.Path == "" {
		c.Output.Path = DefaultOutputPath
	}
	if c.Sort.Mode == "" {
		c.Sort.Mode = SortModeLexicographic
	}
	if c.Toc.Enabled && c.Toc.MaxDepth <= 0 {
		c.Toc.MaxDepth = 3
	}
	if c.Lint.FilenamePattern == "" {
		c.Lint.FilenamePattern = DefaultFilenamePattern
	}
	if c.Lint.FilenameMessage == "" {
		c.Lint.FilenameMessage = DefaultFilenameMessage
	}
	if c.Lint.DirectoryThreshold <= 0 {
		c.Lint.DirectoryThreshold = DefaultDirectoryThreshold
	}
	if c.Lint.CanonicalOverview == "" {
		c.Lint.CanonicalOverview = DefaultCanonicalOverview
	}
	if c.Watch.DebounceMS <= 0 {
		c.Watch.DebounceMS = DefaultDebounceMS
	}
	if c.Watch.Nats.URL != "" && c.Watch.Nats.Subject == "" {
		c.Watch.Nats.Subject = "mdcombine.builds"
	}
}

func (c *Config) validate() error {
	if c.Sort.Mode != SortModeLexicographic && c.Sort.Mode != SortModeCustom {
		return cerrors.ValidationError(fmt.Sprintf("unknown sort mode %q", c.Sort.Mode))
	}
	if _, err := regexp.Compile(c.Lint.FilenamePattern); err != nil {
		return cerrors.Wrap(err, cerrors.CategoryValidation, cerrors.SeverityFatal,
			"lint.filename_pattern is not a valid regex")
	}
	if info, err := os.Stat(c.Sources.Root); err == nil && !info.IsDir() {
		return cerrors.ValidationError(fmt.Sprintf("sources.root %q is not a directory", c.Sources.Root))
	}
	return nil
}
