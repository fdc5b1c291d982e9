// Package graph orders documents for combining: dependency-aware topological
// sorting with deterministic tie-breaks and cycle tolerance, plus the simple
// lexicographic default ordering.
package graph

import (
	"path"
	"sort"
	"strings"

	"git.home.luguber.info/inful/mdcombine/internal/document"
)

// Edge is a directed dependency edge: From depends on To.
type Edge struct {
	From string
	To   string
}

// BuildEdges derives dependency edges from each document's depends_on list.
//
// Paths are source-root relative. Dangling references (targets not present in
// the document set) are dropped silently, never erroring.
func BuildEdges(docs []*document.Document) []Edge {
	present := make(map[string]struct{}, len(docs))
	for _, d := range docs {
		present[normalizePath(d.Path)] = struct{}{}
	}

	var edges []Edge
	for _, d := range docs {
		for _, dep := range d.DependsOn() {
			target := normalizePath(dep)
			if _, ok := present[target]; !ok {
				continue
			}
			if target == normalizePath(d.Path) {
				continue
			}
			edges = append(edges, Edge{From: normalizePath(d.Path), To: target})
		}
	}
	return edges
}

func normalizePath(p string) string {
	return path.Clean(strings.ReplaceAll(strings.TrimSpace(p), "\\", "/"))
}

// SortLexicographic orders documents by path. This is the default sort mode;
// it bypasses dependency logic entirely.
func SortLexicographic(docs []*document.Document) []*document.Document {
	out := make([]*document.Document, len(docs))
	copy(out, docs)
	sort.Slice(out, func(i, j int) bool { return out[i].Path < out[j].Path })
	return out
}
