package combine

import (
	"testing"

	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/mdcombine/internal/document"
)

func TestSlug(t *testing.T) {
	cases := []struct {
		title string
		want  string
	}{
		{"Hello, World! 2.0", "hello-world-20"},
		{"Simple", "simple"},
		{"Already-Hyphenated_Title", "already-hyphenated_title"},
		{"  Padded   Spaces  ", "padded-spaces"},
		{"Ünïcode Héadings", "ünïcode-héadings"},
		{"100% Coverage", "100-coverage"},
		{"", ""},
	}
	for _, tc := range cases {
		require.Equal(t, tc.want, Slug(tc.title), "title=%q", tc.title)
	}
}

func TestCombine_JoinsTrimmedContentInOrder(t *testing.T) {
	docs := []*document.Document{
		{Path: "a.md", Content: "# A\n\n"},
		{Path: "b.md", Content: "\n# B\n"},
	}
	out := Combine(docs, "\n\n===\n\n")
	require.Equal(t, "# A\n\n===\n\n# B", out)
}

func TestCombine_DefaultSeparator(t *testing.T) {
	docs := []*document.Document{
		{Content: "one"},
		{Content: "two"},
	}
	require.Equal(t, "one\n\n---\n\ntwo", Combine(docs, ""))
}

func TestGenerateToc_IndentationAndDepth(t *testing.T) {
	docs := []*document.Document{
		{
			Path: "a.md",
			Sections: []document.Section{
				{Level: 1, Title: "Overview"},
				{Level: 2, Title: "Getting Started"},
				{Level: 3, Title: "Install"},
				{Level: 4, Title: "Too Deep"},
			},
		},
	}

	toc := GenerateToc(docs, TocOptions{Enabled: true, MaxDepth: 3, Title: "Contents"})
	require.Equal(t,
		"# Contents\n\n"+
			"- [Overview](#overview)\n"+
			"  - [Getting Started](#getting-started)\n"+
			"    - [Install](#install)",
		toc)
}

func TestGenerateToc_CrossesDocumentsInSortOrder(t *testing.T) {
	docs := []*document.Document{
		{Path: "b.md", Sections: []document.Section{{Level: 1, Title: "Beta"}}},
		{Path: "a.md", Sections: []document.Section{{Level: 1, Title: "Alpha"}}},
	}
	toc := GenerateToc(docs, TocOptions{MaxDepth: 2})
	require.Equal(t, "- [Beta](#beta)\n- [Alpha](#alpha)", toc)
}

func TestAssemble(t *testing.T) {
	require.Equal(t, "toc\n\n---\n\nbody", Assemble("toc", "body", ""))
	require.Equal(t, "body", Assemble("", "body", "\n\n"))
	require.Equal(t, "toc|body", Assemble("toc", "body", "|"))
}
