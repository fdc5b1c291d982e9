// Package combine assembles the sorted, transformed documents into the final
// output: an optional table of contents followed by the concatenated bodies.
package combine

import (
	"strings"

	"git.home.luguber.info/inful/mdcombine/internal/document"
)

// DefaultSeparator joins document bodies when the config declares none.
const DefaultSeparator = "\n\n---\n\n"

// Combine joins each document's trimmed content with the separator,
// preserving sort order.
func Combine(sorted []*document.Document, separator string) string {
	if separator == "" {
		separator = DefaultSeparator
	}
	parts := make([]string, 0, len(sorted))
	for _, d := range sorted {
		parts = append(parts, strings.TrimSpace(d.Content))
	}
	return strings.Join(parts, separator)
}

// TocOptions controls table-of-contents generation.
type TocOptions struct {
	Enabled  bool
	MaxDepth int
	Title    string
}

// DefaultTocDepth is the deepest heading level included when unset.
const DefaultTocDepth = 3

// GenerateToc renders an indented Markdown list of links for every section at
// or above the configured max depth, across all documents in sort order.
func GenerateToc(sorted []*document.Document, opts TocOptions) string {
	depth := opts.MaxDepth
	if depth <= 0 {
		depth = DefaultTocDepth
	}

	var b strings.Builder
	if opts.Title != "" {
		b.WriteString("# " + opts.Title + "\n\n")
	}
	for _, d := range sorted {
		for _, s := range d.Sections {
			if s.Level > depth {
				continue
			}
			indent := strings.Repeat("  ", s.Level-1)
			b.WriteString(indent + "- [" + s.Title + "](#" + Slug(s.Title) + ")\n")
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

// Assemble prepends the TOC (when enabled) to the combined body, separated by
// the same file separator.
func Assemble(toc, body, separator string) string {
	if separator == "" {
		separator = DefaultSeparator
	}
	if toc == "" {
		return body
	}
	return toc + separator + body
}
