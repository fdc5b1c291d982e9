package document

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseFrontmatter_NoFrontmatter_ReturnsBodyOnly(t *testing.T) {
	input := "# Title\n\nHello\n"

	res := ParseFrontmatter(input)
	require.False(t, res.HasFrontmatter)
	require.Nil(t, res.Data)
	require.NoError(t, res.ParseError)
	require.Equal(t, input, res.Content)
}

func TestParseFrontmatter_ValidYAML_SplitsDataAndBody(t *testing.T) {
	input := "---\ntitle: Intro\nlayer: 2\ndepends_on:\n  - b.md\n---\n# Title\n"

	res := ParseFrontmatter(input)
	require.True(t, res.HasFrontmatter)
	require.NoError(t, res.ParseError)
	require.Equal(t, "Intro", res.Data["title"])
	require.Equal(t, 2, res.Data["layer"])
	require.Equal(t, "# Title\n", res.Content)
}

func TestParseFrontmatter_EmptyBlock(t *testing.T) {
	res := ParseFrontmatter("---\n---\n# Title\n")
	require.True(t, res.HasFrontmatter)
	require.Empty(t, res.Data)
	require.Equal(t, "# Title\n", res.Content)
}

func TestParseFrontmatter_MalformedYAML_NonFatal(t *testing.T) {
	input := "---\ntitle: [unclosed\n---\nbody text\n"

	res := ParseFrontmatter(input)
	require.True(t, res.HasFrontmatter)
	require.Error(t, res.ParseError)
	require.Nil(t, res.Data)
	require.Equal(t, "body text\n", res.Content)
}

func TestParseFrontmatter_MissingClosingDelimiter_TreatedAsBody(t *testing.T) {
	input := "---\ntitle: Intro\n# Title\n"

	res := ParseFrontmatter(input)
	require.False(t, res.HasFrontmatter)
	require.Equal(t, input, res.Content)
}

func TestParseFrontmatter_CRLF(t *testing.T) {
	input := "---\r\ntitle: Intro\r\n---\r\n# Title\r\n"

	res := ParseFrontmatter(input)
	require.True(t, res.HasFrontmatter)
	require.Equal(t, "Intro", res.Data["title"])
	require.Equal(t, "# Title\r\n", res.Content)
}

func TestDocument_FrontmatterAccessors(t *testing.T) {
	res := ParseFrontmatter("---\ntitle: API Guide\ncategory: guides\nlayer: 3\ndepends_on:\n  - core.md\n  - '  spaced.md  '\n---\nbody\n")
	require.True(t, res.HasFrontmatter)

	doc := &Document{Path: "a.md", Frontmatter: res.Data, Content: res.Content}
	require.Equal(t, "API Guide", doc.Title())
	require.Equal(t, "guides", doc.Category())
	require.Equal(t, 3, doc.Layer())
	require.Equal(t, []string{"core.md", "spaced.md"}, doc.DependsOn())
}

func TestDocument_AccessorDefaults(t *testing.T) {
	doc := &Document{Path: "c.md"}
	require.Equal(t, DefaultLayer, doc.Layer())
	require.Equal(t, "", doc.Category())
	require.Equal(t, "", doc.Title())
	require.Nil(t, doc.DependsOn())
}
