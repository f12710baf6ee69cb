package filter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPatternStar(t *testing.T) {
	p, err := compilePattern("*.bak.pdf")
	require.NoError(t, err)

	assert.True(t, p.match("thesis.bak.pdf", false))
	assert.True(t, p.match("papers/thesis.bak.pdf", false))
	assert.False(t, p.match("thesis.pdf", false))
	assert.False(t, p.match("thesis.bak.pdf.old", false))
}

func TestPatternIgnoresCase(t *testing.T) {
	p, err := compilePattern("drafts/")
	require.NoError(t, err)

	assert.True(t, p.match("Drafts", true))
	assert.True(t, p.match("books/DRAFTS", true))
}

func TestPatternDoubleStar(t *testing.T) {
	p, err := compilePattern("**/scans/*.pdf")
	require.NoError(t, err)

	assert.True(t, p.match("scans/a.pdf", false))
	assert.True(t, p.match("library/math/scans/a.pdf", false))
	assert.False(t, p.match("library/math/a.pdf", false))
}

func TestPatternAnchored(t *testing.T) {
	p, err := compilePattern("/notes.md")
	require.NoError(t, err)

	assert.True(t, p.match("notes.md", false))
	assert.False(t, p.match("math/notes.md", false))
}

func TestPatternDirOnly(t *testing.T) {
	p, err := compilePattern("archive/")
	require.NoError(t, err)

	assert.True(t, p.match("archive", true))
	assert.True(t, p.match("old/archive", true))
	assert.False(t, p.match("archive", false))
}

func TestPatternQuestionAndClass(t *testing.T) {
	p, err := compilePattern("vol?.epub")
	require.NoError(t, err)
	assert.True(t, p.match("vol1.epub", false))
	assert.False(t, p.match("vol12.epub", false))
	assert.False(t, p.match("vol/.epub", false))

	cls, err := compilePattern("ch[!0-9].txt")
	require.NoError(t, err)
	assert.True(t, cls.match("chA.txt", false))
	assert.False(t, cls.match("ch1.txt", false))
}

func TestPatternContainingSlashIsAnchored(t *testing.T) {
	p, err := compilePattern("math/old/*.pdf")
	require.NoError(t, err)

	assert.True(t, p.match("math/old/a.pdf", false))
	assert.False(t, p.match("x/math/old/a.pdf", false))
}

func TestPatternUnterminatedClassIsLiteral(t *testing.T) {
	p, err := compilePattern("a[b.txt")
	require.NoError(t, err)
	assert.True(t, p.match("a[b.txt", false))
}

func TestPatternEmpty(t *testing.T) {
	_, err := compilePattern("  ")
	assert.Error(t, err)
}
