package processor

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassify(t *testing.T) {
	tests := map[string]Category{
		"photo.JPG":     CategoryImage,
		"scan.tiff":     CategoryImage,
		"anim.webp":     CategoryImage,
		"main.cpp":      CategoryText,
		"README.md":     CategoryText,
		"header.H":      CategoryText,
		"deck.PPTX":     CategoryOffice,
		"legacy.xls":    CategoryOffice,
		"archive.zip":   CategoryUnsupported,
		"report.pdf":    CategoryUnsupported,
		"Makefile":      CategoryUnsupported,
		"notes.txt.bak": CategoryUnsupported,
	}

	for name, want := range tests {
		assert.Equal(t, want, Classify(name), name)
	}
}

func TestDiscoverSortsAndFilters(t *testing.T) {
	root := t.TempDir()
	touch(t, root, "b.txt")
	touch(t, root, "a.PNG")
	touch(t, root, "sub/z.docx")
	touch(t, root, "sub/a.md")
	touch(t, root, "c.zip")
	touch(t, root, "sub/deeper/readme")
	touch(t, root, "B.json")

	entries, err := Discover(root)
	require.NoError(t, err)

	var rel []string
	for _, e := range entries {
		rel = append(rel, e.RelPath)
		assert.True(t, filepath.IsAbs(e.Path))
		assert.NotEqual(t, CategoryUnsupported, e.Category)
	}
	assert.Equal(t, []string{"B.json", "a.PNG", "b.txt", "sub/a.md", "sub/z.docx"}, rel)

	assert.Equal(t, ".png", entries[1].Ext)
	assert.Equal(t, "z.docx", entries[4].Name)
	assert.Equal(t, CategoryOffice, entries[4].Category)
}

func TestDiscoverFollowsFileSymlinks(t *testing.T) {
	root := t.TempDir()
	target := writeFile(t, t.TempDir(), "real.txt", []byte("hello"))
	require.NoError(t, os.Symlink(target, filepath.Join(root, "link.txt")))
	require.NoError(t, os.Symlink(filepath.Join(root, "missing.txt"), filepath.Join(root, "dangling.txt")))
	require.NoError(t, os.Symlink(t.TempDir(), filepath.Join(root, "dir.md")))

	entries, err := Discover(root)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "link.txt", entries[0].RelPath)
	assert.Equal(t, CategoryText, entries[0].Category)
}

func TestDiscoverEmpty(t *testing.T) {
	root := t.TempDir()
	touch(t, root, "data.bin")

	entries, err := Discover(root)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestDiscoverRejectsFile(t *testing.T) {
	root := t.TempDir()
	touch(t, root, "a.txt")

	_, err := Discover(filepath.Join(root, "a.txt"))
	assert.Error(t, err)

	_, err = Discover(filepath.Join(root, "missing"))
	assert.Error(t, err)
}

func touch(t *testing.T, root, rel string) string {
	t.Helper()
	return writeFile(t, root, rel, []byte("x"))
}

func writeFile(t *testing.T, root, rel string, data []byte) string {
	t.Helper()
	path := filepath.Join(root, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}
