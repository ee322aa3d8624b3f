package loader

import (
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "doc.md")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestParagraphs(t *testing.T) {
	path := writeFile(t, `First paragraph.

Second paragraph
spans two lines.


Third, after extra blank lines.
`)

	paragraphs, err := Paragraphs(path)
	require.NoError(t, err)
	require.Equal(t, []string{
		"First paragraph.",
		"Second paragraph\nspans two lines.",
		"Third, after extra blank lines.",
	}, paragraphs)
}

func TestParagraphs_WindowsLineEndings(t *testing.T) {
	path := writeFile(t, "First.\r\n\r\nSecond.\r\n")

	paragraphs, err := Paragraphs(path)
	require.NoError(t, err)
	require.Equal(t, []string{"First.", "Second."}, paragraphs)
}

func TestParagraphs_EmptyFile(t *testing.T) {
	paragraphs, err := Paragraphs(writeFile(t, "  \n\n \n"))
	require.NoError(t, err)
	require.Empty(t, paragraphs)
}

func TestParagraphs_MissingFile(t *testing.T) {
	_, err := Paragraphs(filepath.Join(t.TempDir(), "missing.md"))
	require.ErrorIs(t, err, fs.ErrNotExist)
}
