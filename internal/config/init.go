package config

import (
	"fmt"
	"os"

	cerrors "git.home.luguber.info/inful/mdcombine/internal/errors"
)

const starterConfig = `# mdcombine configuration
version: 1

sources:
  root: docs
  include:
    - "**/*.md"
  exclude:
    - "node_modules/**"

output:
  path: build/combined.md
  separator: "\n\n---\n\n"
  strip_frontmatter: true

sort:
  # lexicographic orders by path; custom runs a dependency-aware sort
  # (frontmatter depends_on/layer/category/title) within pattern groups.
  mode: lexicographic
  # groups:
  #   - "architecture/"
  #   - "guides/"

optimize:
  strip_heading_numbers: false
  strip_section_meta: false
  normalize_headings: false
  # heading_separator: " > "
  remove_comments: true
  remove_badges: true
  remove_duplicates: false
  remove_internal_links: true
  normalize_whitespace: true

toc:
  enabled: true
  max_depth: 3
  title: Table of Contents

lint:
  # rules default to enabled; list a rule with false to disable it.
  # rules:
  #   heading-style: false
  directory_threshold: 10
  canonical_overview: overview.md

watch:
  debounce_ms: 500
  # rebuild_interval: 30m
  # metrics_addr: 127.0.0.1:9921
  # history_db: build/history.db
  # nats:
  #   url: nats://127.0.0.1:4222
  #   subject: mdcombine.builds
`

// Init writes a commented starter config. It refuses to overwrite an existing
// file unless force is set.
func Init(path string, force bool) error {
	if _, err := os.Stat(path); err == nil && !force {
		return cerrors.ValidationError(fmt.Sprintf("config file %s already exists (use --force to overwrite)", path))
	}
	if err := os.WriteFile(path, []byte(starterConfig), 0o644); err != nil {
		return cerrors.Wrap(err, cerrors.CategoryFileSystem, cerrors.SeverityFatal,
			fmt.Sprintf("cannot write config file %s", path))
	}
	return nil
}
