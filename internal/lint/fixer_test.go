package lint

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/mdcombine/internal/config"
)

func TestFixContent_TrimsTrailingWhitespace(t *testing.T) {
	in := "# Title  \n\ntext\t\nclean\n"
	require.Equal(t, "# Title\n\ntext\nclean\n", FixContent(in))
}

func TestFixContent_CollapsesBlankRuns(t *testing.T) {
	in := "a\n\n\n\n\nb\n"
	require.Equal(t, "a\n\n\nb\n", FixContent(in))
}

func TestFixContent_LeavesBlankRunsInsideFences(t *testing.T) {
	in := "```\na\n\n\n\n\nb\n```\n"
	require.Equal(t, in, FixContent(in))
}

func TestFixContent_FrontmatterPassesThroughByteIdentical(t *testing.T) {
	in := "---\ntitle: X   \nweird:    spacing\n---\nbody  \n"
	out := FixContent(in)
	require.Equal(t, "---\ntitle: X   \nweird:    spacing\n---\nbody\n", out)
}

func TestFixContent_Idempotent(t *testing.T) {
	inputs := []string{
		"# Title  \n\n\n\n\ntext \n",
		"---\na: b  \n---\n\n\n\n\nx  \n",
		"```\ncode  \n\n\n\n```\n",
		"",
		"no trailing newline",
	}
	for _, in := range inputs {
		once := FixContent(in)
		require.Equal(t, once, FixContent(once), "input %q", in)
	}
}

func TestFixContent_CRLF(t *testing.T) {
	in := "# Title  \r\ntext\r\n"
	require.Equal(t, "# Title\r\ntext\r\n", FixContent(in))
}

func TestFixer_WritesOnlyChangedFiles(t *testing.T) {
	root := t.TempDir()
	dirty := filepath.Join(root, "dirty.md")
	clean := filepath.Join(root, "clean.md")
	require.NoError(t, os.WriteFile(dirty, []byte("# Title  \n"), 0o644))
	require.NoError(t, os.WriteFile(clean, []byte("# Title\n"), 0o644))

	cfg := config.Default()
	cfg.Sources.Root = root

	f, err := NewFixer(cfg, false)
	require.NoError(t, err)

	result, err := f.Fix()
	require.NoError(t, err)
	require.Equal(t, 2, result.FilesScanned)
	require.Equal(t, []string{"dirty.md"}, result.FilesChanged)

	data, err := os.ReadFile(dirty)
	require.NoError(t, err)
	require.Equal(t, "# Title\n", string(data))
}

func TestFixer_DryRunLeavesFilesAlone(t *testing.T) {
	root := t.TempDir()
	dirty := filepath.Join(root, "dirty.md")
	require.NoError(t, os.WriteFile(dirty, []byte("# Title  \n"), 0o644))

	cfg := config.Default()
	cfg.Sources.Root = root

	f, err := NewFixer(cfg, true)
	require.NoError(t, err)

	result, err := f.Fix()
	require.NoError(t, err)
	require.Equal(t, []string{"dirty.md"}, result.FilesChanged)

	data, err := os.ReadFile(dirty)
	require.NoError(t, err)
	require.Equal(t, "# Title  \n", string(data))
}
