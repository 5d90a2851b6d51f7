package scan

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoot(t *testing.T) {
	root := t.TempDir()
	write := func(rel string) {
		path := filepath.Join(root, rel)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte("{}\n"), 0o644))
	}

	write("export-2026-03.jsonl")
	write("nested/export-2026-02.jsonl")
	write("readme.txt")
	write(".trash/old-export.jsonl")

	files, err := Root(root)
	require.NoError(t, err)
	require.Len(t, files, 2)
	for _, f := range files {
		assert.Equal(t, ".jsonl", filepath.Ext(f.Path))
		assert.Positive(t, f.Size)
		assert.Positive(t, f.Mtime)
	}
}

func TestRootMissingDir(t *testing.T) {
	files, err := Root(filepath.Join(t.TempDir(), "does-not-exist"))
	require.NoError(t, err)
	assert.Empty(t, files)
}
