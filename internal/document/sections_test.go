package document

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestExtractSections_OrderedHeadings(t *testing.T) {
	content := "# One\n\ntext\n\n## Two\n\n### Three\n"

	sections := ExtractSections(content)
	require.Len(t, sections, 3)
	require.Equal(t, 1, sections[0].Level)
	require.Equal(t, "One", sections[0].Title)
	require.Equal(t, 2, sections[1].Level)
	require.Equal(t, "Two", sections[1].Title)
	require.Equal(t, 3, sections[2].Level)
	require.Equal(t, "Three", sections[2].Title)
}

func TestExtractSections_FenceSuppression(t *testing.T) {
	content := "# Real\n```\n# fake heading\n```\n## Also real\n"

	sections := ExtractSections(content)
	require.Len(t, sections, 2)
	require.Equal(t, "Real", sections[0].Title)
	require.Equal(t, "Also real", sections[1].Title)
}

func TestExtractSections_RequiresSpaceAfterHashes(t *testing.T) {
	sections := ExtractSections("#NoSpace\n####### seven hashes\n# Ok\n")
	require.Len(t, sections, 1)
	require.Equal(t, "Ok", sections[0].Title)
}

func TestExtractSections_TrimsTitles(t *testing.T) {
	sections := ExtractSections("##   Padded Title   \n")
	require.Len(t, sections, 1)
	require.Equal(t, "Padded Title", sections[0].Title)
}
