package pipeline

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func touch(t *testing.T, dir, rel string) {
	t.Helper()
	p := filepath.Join(dir, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
	require.NoError(t, os.WriteFile(p, []byte("{}"), 0o644))
}

func TestScanDocuments(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "a.json")
	touch(t, dir, "chats/b.JSON")
	touch(t, dir, ".cache/c.json")
	touch(t, dir, "out/mediagrid.manifest.json")
	touch(t, dir, "notes.txt")

	sources, err := ScanDocuments(dir)
	require.NoError(t, err)

	var keys, rels []string
	for _, s := range sources {
		keys = append(keys, s.Key)
		rels = append(rels, s.RelPath)
		assert.FileExists(t, s.AbsPath)
		assert.Equal(t, int64(2), s.Size)
	}
	assert.Equal(t, []string{"a", "chats/b"}, keys)
	assert.Equal(t, []string{"a.json", "chats/b.JSON"}, rels)
}

func TestScanDocuments_MissingDir(t *testing.T) {
	_, err := ScanDocuments(filepath.Join(t.TempDir(), "nope"))
	assert.Error(t, err)
}
