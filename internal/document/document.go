// Package document holds the in-memory model for one Markdown source file:
// frontmatter metadata, body content and the extracted heading outline.
//
// Documents are created from a fixed path snapshot when a build or lint run
// starts and are discarded when the run finishes. Pipeline transforms replace
// Content wholesale; nothing mutates a Document in place.
package document

import "strings"

// Document is one Markdown source file prepared for combining or linting.
type Document struct {
	// Path is the source-root-relative path, unique within one run.
	Path string
	// Frontmatter holds the parsed YAML metadata. Nil when the file has no
	// frontmatter or the YAML failed to parse.
	Frontmatter map[string]any
	// ParseError carries a frontmatter YAML parse failure. Non-fatal; the
	// body remains usable.
	ParseError error
	// Content is the Markdown body (frontmatter stripped).
	Content string
	// Raw is the original file content including any frontmatter block.
	Raw string
	// Sections is the ordered heading outline extracted from Content.
	Sections []Section
}

// Section is a single ATX heading in document order.
//
// Subsections is structurally present but is not populated by the extractor;
// TOC generation works off the flat, ordered list.
type Section struct {
	Level       int
	Title       string
	Content     string
	Subsections []Section
}

// Frontmatter keys consumed by the sorter. All other keys pass through
// opaquely.
const (
	KeyDependsOn = "depends_on"
	KeyLayer     = "layer"
	KeyCategory  = "category"
	KeyTitle     = "title"
)

// DefaultLayer is the sort layer used when a document declares none.
const DefaultLayer = 999

// DependsOn returns the declared dependency paths, or nil.
func (d *Document) DependsOn() []string {
	if d.Frontmatter == nil {
		return nil
	}
	raw, ok := d.Frontmatter[KeyDependsOn]
	if !ok {
		return nil
	}
	list, ok := raw.([]any)
	if !ok {
		return nil
	}
	deps := make([]string, 0, len(list))
	for _, item := range list {
		if s, ok := item.(string); ok && strings.TrimSpace(s) != "" {
			deps = append(deps, strings.TrimSpace(s))
		}
	}
	return deps
}

// Layer returns the numeric sort layer, defaulting to DefaultLayer.
func (d *Document) Layer() int {
	if d.Frontmatter == nil {
		return DefaultLayer
	}
	switch v := d.Frontmatter[KeyLayer].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	}
	return DefaultLayer
}

// Category returns the sort category string, defaulting to "".
func (d *Document) Category() string {
	if d.Frontmatter == nil {
		return ""
	}
	if s, ok := d.Frontmatter[KeyCategory].(string); ok {
		return s
	}
	return ""
}

// Title returns the declared title, defaulting to "".
func (d *Document) Title() string {
	if d.Frontmatter == nil {
		return ""
	}
	if s, ok := d.Frontmatter[KeyTitle].(string); ok {
		return s
	}
	return ""
}
