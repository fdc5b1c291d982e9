package document

import "strings"

// CodeBlockTracker is a single-line state machine that tracks whether the
// scanner is currently inside a fenced code block.
//
// A fence is a line whose trimmed content starts with three or more backticks.
// The opening fence may carry a language tag; the closing fence may not.
// Fences cannot nest in Markdown, so a single boolean is sufficient.
type CodeBlockTracker struct {
	inCodeBlock bool
}

// ProcessLine feeds one line to the tracker and updates its state.
func (t *CodeBlockTracker) ProcessLine(line string) {
	trimmed := strings.TrimSpace(line)
	if !strings.HasPrefix(trimmed, "```") {
		return
	}
	if t.inCodeBlock {
		// Closing fence: backticks only.
		if strings.Trim(trimmed, "`") == "" {
			t.inCodeBlock = false
		}
		return
	}
	t.inCodeBlock = true
}

// InCodeBlock reports whether the tracker is currently inside a fence.
func (t *CodeBlockTracker) InCodeBlock() bool {
	return t.inCodeBlock
}

// Reset returns the tracker to its initial state.
func (t *CodeBlockTracker) Reset() {
	t.inCodeBlock = false
}

// MermaidTracker tracks fenced regions opened specifically with ```mermaid.
//
// It is independent from CodeBlockTracker: entering a non-mermaid fence does
// not change its state. It is used to scope mermaid-specific lint checks.
type MermaidTracker struct {
	inMermaid bool
}

// ProcessLine feeds one line to the tracker and updates its state.
func (t *MermaidTracker) ProcessLine(line string) {
	trimmed := strings.TrimSpace(line)
	if t.inMermaid {
		if strings.HasPrefix(trimmed, "```") && strings.Trim(trimmed, "`") == "" {
			t.inMermaid = false
		}
		return
	}
	if strings.HasPrefix(trimmed, "```") && strings.TrimSpace(strings.TrimLeft(trimmed, "`")) == "mermaid" {
		t.inMermaid = true
	}
}

// InMermaidBlock reports whether the tracker is inside a ```mermaid fence.
func (t *MermaidTracker) InMermaidBlock() bool {
	return t.inMermaid
}
