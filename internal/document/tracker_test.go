package document

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCodeBlockTracker_TogglesOnFences(t *testing.T) {
	var tr CodeBlockTracker

	require.False(t, tr.InCodeBlock())

	tr.ProcessLine("```go")
	require.True(t, tr.InCodeBlock())

	tr.ProcessLine("# not a heading")
	require.True(t, tr.InCodeBlock())

	tr.ProcessLine("```")
	require.False(t, tr.InCodeBlock())
}

func TestCodeBlockTracker_LongerFenceAndIndentation(t *testing.T) {
	var tr CodeBlockTracker

	tr.ProcessLine("````markdown")
	require.True(t, tr.InCodeBlock())

	tr.ProcessLine("  ````")
	require.False(t, tr.InCodeBlock())
}

func TestCodeBlockTracker_LanguageTagOnlyOnOpeningFence(t *testing.T) {
	var tr CodeBlockTracker

	tr.ProcessLine("```mermaid")
	require.True(t, tr.InCodeBlock())

	// A tagged fence line inside a block does not close it.
	tr.ProcessLine("```go")
	require.True(t, tr.InCodeBlock())

	tr.ProcessLine("```")
	require.False(t, tr.InCodeBlock())
}

func TestCodeBlockTracker_IgnoresNonFenceLines(t *testing.T) {
	var tr CodeBlockTracker

	tr.ProcessLine("text with `` inline backticks ``")
	require.False(t, tr.InCodeBlock())

	tr.ProcessLine("``")
	require.False(t, tr.InCodeBlock())
}

func TestMermaidTracker_OnlyMermaidFencesCount(t *testing.T) {
	var tr MermaidTracker

	tr.ProcessLine("```go")
	require.False(t, tr.InMermaidBlock())
	tr.ProcessLine("```")
	require.False(t, tr.InMermaidBlock())

	tr.ProcessLine("```mermaid")
	require.True(t, tr.InMermaidBlock())
	tr.ProcessLine("style X fill:#fff")
	require.True(t, tr.InMermaidBlock())
	tr.ProcessLine("```")
	require.False(t, tr.InMermaidBlock())
}
