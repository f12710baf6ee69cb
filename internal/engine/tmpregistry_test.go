package engine

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTmpName(t *testing.T) {
	a := tmpName("/dst/math/calc.pdf")
	b := tmpName("/dst/math/calc.pdf")

	assert.NotEqual(t, a, b)
	assert.Equal(t, "/dst/math", filepath.Dir(a))
	assert.True(t, strings.HasPrefix(filepath.Base(a), ".calc.pdf."))
	assert.True(t, isTmpName(filepath.Base(a)))
	assert.False(t, isTmpName("calc.pdf"))
}

func TestTmpNameLongDestination(t *testing.T) {
	long := strings.Repeat("a", 240) + ".pdf"
	base := filepath.Base(tmpName(filepath.Join("/dst", long)))

	assert.LessOrEqual(t, len(base), 1+tmpBaseMax+1+8+len(tmpSuffix))
	assert.True(t, strings.HasPrefix(base, "."+strings.Repeat("a", tmpBaseMax)+"."))
	assert.True(t, isTmpName(base))
}

func TestTruncateNameKeepsRunes(t *testing.T) {
	assert.Equal(t, "abc", truncateName("abc", 10))
	assert.Equal(t, "ab", truncateName("abcdef", 2))
	// "é" is two bytes; cutting inside it drops the whole rune.
	assert.Equal(t, "a", truncateName("aé", 2))
	assert.Equal(t, "aé", truncateName("aéz", 3))
}

func TestTmpRegistry(t *testing.T) {
	dir := t.TempDir()
	keep := filepath.Join(dir, "keep")
	drop := filepath.Join(dir, "drop")
	require.NoError(t, os.WriteFile(keep, nil, 0o644))
	require.NoError(t, os.WriteFile(drop, nil, 0o644))

	var r tmpRegistry
	r.register(keep)
	r.register(drop)
	r.deregister(keep)
	assert.Equal(t, 1, r.len())

	r.cleanup()
	assert.FileExists(t, keep)
	assert.NoFileExists(t, drop)
	assert.Zero(t, r.len())
}

func TestStaleTemps(t *testing.T) {
	dir := t.TempDir()
	writeTree(t, dir, map[string]string{
		"math/calc.pdf":                     "x",
		"math/.calc.pdf.1234abcd.shelf-tmp": "partial",
	})

	stale, err := StaleTemps(dir)
	require.NoError(t, err)
	require.Len(t, stale, 1)
	assert.Equal(t, ".calc.pdf.1234abcd.shelf-tmp", filepath.Base(stale[0]))
}
