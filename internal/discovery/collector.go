// Package discovery resolves the corpus file set: a deterministic, sorted
// list of source paths matching the configured include-minus-exclude globs.
package discovery

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"

	"github.com/gobwas/glob"

	cerrors "git.home.luguber.info/inful/mdcombine/internal/errors"
)

// Collector yields the snapshot of source paths for one run. Paths are
// source-root relative, slash-separated and sorted.
type Collector interface {
	Collect() ([]string, error)
}

// GlobCollector walks the source root applying include/exclude glob patterns.
type GlobCollector struct {
	root     string
	includes []glob.Glob
	excludes []glob.Glob
}

// NewGlobCollector compiles the patterns eagerly so bad globs fail at
// construction, not mid-walk.
func NewGlobCollector(root string, include, exclude []string) (*GlobCollector, error) {
	compile := func(patterns []string) ([]glob.Glob, error) {
		var out []glob.Glob
		for _, p := range patterns {
			// "**/x" must also match "x" at the root itself.
			variants := []string{p}
			if rest, ok := strings.CutPrefix(p, "**/"); ok {
				variants = append(variants, rest)
			}
			for _, v := range variants {
				g, err := glob.Compile(v, '/')
				if err != nil {
					return nil, cerrors.Wrap(err, cerrors.CategoryConfig, cerrors.SeverityFatal,
						fmt.Sprintf("invalid glob pattern %q", p))
				}
				out = append(out, g)
			}
		}
		return out, nil
	}

	includes, err := compile(include)
	if err != nil {
		return nil, err
	}
	excludes, err := compile(exclude)
	if err != nil {
		return nil, err
	}
	return &GlobCollector{root: root, includes: includes, excludes: excludes}, nil
}

// Root returns the source root directory.
func (c *GlobCollector) Root() string { return c.root }

// Collect walks the root and returns matching files sorted by path, so the
// document snapshot is independent of filesystem iteration order.
func (c *GlobCollector) Collect() ([]string, error) {
	var paths []string
	err := filepath.WalkDir(c.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		// Hidden directories are never part of the corpus.
		if d.IsDir() {
			if d.Name() != "." && strings.HasPrefix(d.Name(), ".") && path != c.root {
				return fs.SkipDir
			}
			return nil
		}
		rel, err := filepath.Rel(c.root, path)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)
		if c.Matches(rel) {
			paths = append(paths, rel)
		}
		return nil
	})
	if err != nil {
		return nil, cerrors.Wrap(err, cerrors.CategoryFileSystem, cerrors.SeverityFatal,
			fmt.Sprintf("cannot walk source root %s", c.root))
	}
	sort.Strings(paths)
	return paths, nil
}

// Matches reports whether a root-relative path is part of the corpus.
// Used by watch mode to filter filesystem events with the same semantics.
func (c *GlobCollector) Matches(rel string) bool {
	included := false
	for _, g := range c.includes {
		if g.Match(rel) {
			included = true
			break
		}
	}
	if !included {
		return false
	}
	for _, g := range c.excludes {
		if g.Match(rel) {
			return false
		}
	}
	return true
}
