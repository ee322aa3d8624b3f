package docrag

import (
	"bytes"
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func cachePath(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "embeddings.idx")
}

func TestCache_RoundTrip(t *testing.T) {
	meta := Meta{DocHash: "abc123", Model: "text-embedding-3-large", Source: "doc.md"}
	ix, err := New(
		[]string{"first chunk", "second chunk with\nnewlines", "üçüncü"},
		[][]float32{{1, 0, 0.5}, {0, 1, -0.25}, {0.7, 0.7, 0.125}},
		meta,
	)
	require.NoError(t, err)

	path := cachePath(t)
	require.NoError(t, SaveCache(path, ix))

	loaded, err := LoadCache(path, "abc123", "text-embedding-3-large")
	require.NoError(t, err)
	require.NotNil(t, loaded)

	require.Equal(t, ix.Chunks(), loaded.Chunks())
	require.Equal(t, ix.embeddings, loaded.embeddings)
	require.Equal(t, meta, loaded.Meta())

	// Normalized rows are recomputed on load, not serialized.
	require.Equal(t, ix.normalized, loaded.normalized)
}

func TestCache_MissingFileIsAMiss(t *testing.T) {
	loaded, err := LoadCache(cachePath(t), "hash", "model")
	require.NoError(t, err)
	require.Nil(t, loaded)
}

func TestCache_KeyMismatchIsAMiss(t *testing.T) {
	ix, err := New([]string{"a"}, [][]float32{{1, 0}}, Meta{DocHash: "h1", Model: "m1"})
	require.NoError(t, err)

	path := cachePath(t)
	require.NoError(t, SaveCache(path, ix))

	loaded, err := LoadCache(path, "other-hash", "m1")
	require.NoError(t, err)
	require.Nil(t, loaded)

	loaded, err = LoadCache(path, "h1", "other-model")
	require.NoError(t, err)
	require.Nil(t, loaded)
}

func TestCache_GarbageIsCorrupt(t *testing.T) {
	path := cachePath(t)
	require.NoError(t, os.WriteFile(path, []byte("not a cache record at all"), 0o644))

	_, err := LoadCache(path, "hash", "model")
	require.ErrorIs(t, err, ErrCacheCorrupt)
}

func TestCache_UnsupportedVersionIsCorrupt(t *testing.T) {
	var buf bytes.Buffer
	buf.WriteString(cacheMagic)
	require.NoError(t, binary.Write(&buf, binary.LittleEndian, uint32(99)))

	path := cachePath(t)
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))

	_, err := LoadCache(path, "hash", "model")
	require.ErrorIs(t, err, ErrCacheCorrupt)
}

func TestCache_TruncatedRecordIsCorrupt(t *testing.T) {
	ix, err := New([]string{"a", "b"}, [][]float32{{1, 0}, {0, 1}}, Meta{DocHash: "h", Model: "m"})
	require.NoError(t, err)

	path := cachePath(t)
	require.NoError(t, SaveCache(path, ix))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, data[:len(data)/2], 0o644))

	_, err = LoadCache(path, "h", "m")
	require.ErrorIs(t, err, ErrCacheCorrupt)
}

func TestCache_NoTempFileLeftBehind(t *testing.T) {
	ix, err := New([]string{"a"}, [][]float32{{1, 0}}, Meta{DocHash: "h", Model: "m"})
	require.NoError(t, err)

	dir := t.TempDir()
	path := filepath.Join(dir, "embeddings.idx")
	require.NoError(t, SaveCache(path, ix))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.Equal(t, "embeddings.idx", entries[0].Name())
}
