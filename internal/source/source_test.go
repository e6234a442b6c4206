package source

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte("%PDF-1.4"), 0644))
}

func TestFSSource_ListFiltersAndRecurses(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "depo_smith.pdf"))
	writeFile(t, filepath.Join(root, "vol2", "depo_smith_vol2.PDF"))
	writeFile(t, filepath.Join(root, "notes.txt"))
	writeFile(t, filepath.Join(root, ".hidden.pdf"))
	writeFile(t, filepath.Join(root, ".cache", "stale.pdf"))

	src := NewFSSource(root, nil)
	docs, err := src.List(context.Background())
	require.NoError(t, err)
	require.Len(t, docs, 2)

	names := []string{docs[0].Name, docs[1].Name}
	assert.Contains(t, names, "depo_smith.pdf")
	assert.Contains(t, names, "depo_smith_vol2.PDF")
	for _, d := range docs {
		assert.True(t, filepath.IsAbs(d.Path))
	}
}

func TestFSSource_ShareLink(t *testing.T) {
	src := NewFSSource("/corpus", nil)
	doc := Document{Name: "depo.pdf", Path: "/corpus/depo.pdf"}
	assert.Equal(t, "file:///corpus/depo.pdf", src.ShareLink(doc))
}

func TestFSSource_EmptyDir(t *testing.T) {
	src := NewFSSource(t.TempDir(), nil)
	docs, err := src.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, docs)
}
