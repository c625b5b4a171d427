package gen

import (
	"archive/zip"
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteTree(t *testing.T) {
	dir := t.TempDir()
	files := FileMap{
		"README.md":             "readme",
		"src/main/Main.kt":      "main",
		"migrations/0002_a.sql": "create",
	}
	w := NewWriter(filepath.Join(dir, "out")).WithWorkers(2)
	require.NoError(t, w.WriteTree(context.Background(), files))

	for path, want := range files {
		data, err := os.ReadFile(filepath.Join(dir, "out", filepath.FromSlash(path)))
		require.NoError(t, err, path)
		assert.Equal(t, want, string(data))
	}
	m := w.Metrics()
	assert.Equal(t, 3, m.FilesWritten)
	assert.Equal(t, int64(len("readme")+len("main")+len("create")), m.TotalBytes)
}

func TestWriteTreeCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	w := NewWriter(t.TempDir())
	err := w.WriteTree(ctx, FileMap{"a.txt": "a", "b.txt": "b"})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestWriteZip(t *testing.T) {
	files := FileMap{
		"b/second.txt": "two",
		"a/first.txt":  "one",
	}
	var buf bytes.Buffer
	require.NoError(t, WriteZip(&buf, files))

	r, err := zip.NewReader(bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	require.NoError(t, err)
	require.Len(t, r.File, 2)
	// Entries come out in sorted path order, keeping archives byte-stable.
	assert.Equal(t, "a/first.txt", r.File[0].Name)
	assert.Equal(t, "b/second.txt", r.File[1].Name)

	rc, err := r.File[0].Open()
	require.NoError(t, err)
	defer rc.Close()
	content, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, "one", string(content))
}
