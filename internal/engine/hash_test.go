package engine

import (
	"bytes"
	"encoding/hex"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zeebo/blake3"
)

func TestFileDigest(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "notes.txt")
	require.NoError(t, os.WriteFile(path, []byte("hello world"), 0644))

	h1, err := fileDigest(path)
	require.NoError(t, err)
	assert.NotEmpty(t, h1)

	// Same content should produce the same hash.
	path2 := filepath.Join(dir, "notes-copy.txt")
	require.NoError(t, os.WriteFile(path2, []byte("hello world"), 0644))
	h2, err := fileDigest(path2)
	require.NoError(t, err)
	assert.Equal(t, h1, h2)

	// Different content should produce a different hash.
	path3 := filepath.Join(dir, "other.txt")
	require.NoError(t, os.WriteFile(path3, []byte("different content"), 0644))
	h3, err := fileDigest(path3)
	require.NoError(t, err)
	assert.NotEqual(t, h1, h3)
}

func TestFileDigestEmpty(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "empty.txt")
	require.NoError(t, os.WriteFile(path, nil, 0644))

	h, err := fileDigest(path)
	require.NoError(t, err)
	assert.NotEmpty(t, h)
}

func TestFileDigestNotExist(t *testing.T) {
	_, err := fileDigest("/nonexistent/file")
	assert.Error(t, err)
}

func TestFileDigestLargerThanBuffer(t *testing.T) {
	data := bytes.Repeat([]byte("0123456789abcdef"), (3<<20)/16+7)
	path := filepath.Join(t.TempDir(), "scan.pdf")
	require.NoError(t, os.WriteFile(path, data, 0o644))

	want := blake3.Sum256(data)
	got, err := fileDigest(path)
	require.NoError(t, err)
	assert.Equal(t, hex.EncodeToString(want[:]), got)
}

func TestVerifyCopy(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src.pdf")
	same := filepath.Join(dir, "same.pdf")
	other := filepath.Join(dir, "other.pdf")
	require.NoError(t, os.WriteFile(src, []byte("chapter one"), 0o644))
	require.NoError(t, os.WriteFile(same, []byte("chapter one"), 0o644))
	require.NoError(t, os.WriteFile(other, []byte("chapter two"), 0o644))

	require.NoError(t, verifyCopy(src, same))
	require.ErrorIs(t, verifyCopy(src, other), ErrChecksumMismatch)
	require.Error(t, verifyCopy(src, filepath.Join(dir, "missing")))
}
