package document

import (
	"strings"

	"gopkg.in/yaml.v3"
)

// FrontmatterResult is the outcome of splitting a file into YAML metadata and
// Markdown body.
type FrontmatterResult struct {
	HasFrontmatter bool
	Data           map[string]any
	ParseError     error
	// Content is the body with the frontmatter block removed. When the file
	// has no frontmatter it is the full input.
	Content string
}

// ParseFrontmatter detects a leading `---` delimited YAML block and returns
// metadata plus body.
//
// The empty-block form (`---` immediately followed by `---`) is recognized.
// Malformed YAML is non-fatal: HasFrontmatter is true, ParseError is set,
// Data stays nil and the body remains usable. A document whose opening
// delimiter is never closed is treated as having no frontmatter at all.
func ParseFrontmatter(content string) FrontmatterResult {
	nl := "\n"
	if strings.Contains(content, "\r\n") {
		nl = "\r\n"
	}

	open := "---" + nl
	if !strings.HasPrefix(content, open) {
		return FrontmatterResult{Content: content}
	}

	rest := content[len(open):]

	// Empty block: ---\n---\n (or ---\n--- at EOF).
	if strings.HasPrefix(rest, "---"+nl) {
		return FrontmatterResult{
			HasFrontmatter: true,
			Data:           map[string]any{},
			Content:        rest[len("---"+nl):],
		}
	}
	if rest == "---" {
		return FrontmatterResult{HasFrontmatter: true, Data: map[string]any{}, Content: ""}
	}

	closeSeq := nl + "---" + nl
	idx := strings.Index(rest, closeSeq)
	var raw, body string
	switch {
	case idx >= 0:
		raw = rest[:idx+len(nl)]
		body = rest[idx+len(closeSeq):]
	case strings.HasSuffix(rest, nl+"---"):
		raw = rest[:len(rest)-len("---")]
		body = ""
	default:
		// No closing delimiter: not reinterpreted as frontmatter.
		return FrontmatterResult{Content: content}
	}

	var data map[string]any
	if err := yaml.Unmarshal([]byte(raw), &data); err != nil {
		return FrontmatterResult{
			HasFrontmatter: true,
			ParseError:     err,
			Content:        body,
		}
	}
	if data == nil {
		data = map[string]any{}
	}
	return FrontmatterResult{
		HasFrontmatter: true,
		Data:           data,
		Content:        body,
	}
}
