package filter_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bamsammich/shelf/internal/filter"
)

func TestClassifyRules(t *testing.T) {
	c := filter.NewClassifier(filter.Config{})

	tests := []struct {
		rel  string
		size int64
		want filter.Reason
	}{
		{"math/a.pdf", 10, filter.Included},
		{"math/empty.pdf", 0, filter.ZeroByte},
		{".hidden/c.txt", 5, filter.Hidden},
		{"math/.notes.md", 5, filter.Hidden},
		{"a/.git/b/readme.md", 5, filter.Hidden},
		{"notes.txt~", 5, filter.Temporary},
		{"~$report.docx", 5, filter.Temporary},
		{"draft.TMP", 5, filter.Temporary},
		{"draft_part3.txt", 5, filter.Partial},
		{"dataset.PART1.pdf", 5, filter.Partial},
		{"history/lecture.mp4", 5, filter.Media},
		{"podcast.MP3", 5, filter.Media},
		{"art/diagram.png", 5, filter.NotTarget},
		{"noext", 5, filter.NotTarget},
	}
	for _, tt := range tests {
		t.Run(tt.rel, func(t *testing.T) {
			assert.Equal(t, tt.want, c.Classify(tt.rel, tt.size).Reason)
		})
	}
}

func TestClassifyOrderZeroByteFirst(t *testing.T) {
	c := filter.NewClassifier(filter.Config{})
	// Hidden, partial and zero-byte all apply; the first rule wins.
	assert.Equal(t, filter.ZeroByte, c.Classify(".x/part.pdf", 0).Reason)
	assert.Equal(t, filter.Hidden, c.Classify(".x/part.pdf", 1).Reason)
}

func TestClassifyCategoryByFolder(t *testing.T) {
	c := filter.NewClassifier(filter.Config{})

	v := c.Classify("library/Physics/quantum.epub", 3)
	require.True(t, v.Included())
	assert.Equal(t, "Physics", v.Category)
	assert.Equal(t, ".epub", v.Ext)

	v = c.Classify("top.PDF", 3)
	require.True(t, v.Included())
	assert.Equal(t, filter.Uncategorized, v.Category)
	assert.Equal(t, ".pdf", v.Ext)

	v = c.Classify("   /blank.pdf", 3)
	require.True(t, v.Included())
	assert.Equal(t, filter.Uncategorized, v.Category, "blank folder name")
}

func TestClassifyCategoryByKind(t *testing.T) {
	c := filter.NewClassifier(filter.Config{GroupBy: filter.GroupByKind})

	assert.Equal(t, "ebook", c.Classify("x/a.azw3", 1).Category)
	assert.Equal(t, "document", c.Classify("x/a.rtf", 1).Category)
	assert.Equal(t, "text", c.Classify("a.md", 1).Category)
	assert.Equal(t, "pdf", c.Classify("a.pdf", 1).Category)
}

func TestClassifyIncludeAndExcludeExtensions(t *testing.T) {
	c := filter.NewClassifier(filter.Config{
		IncludeExtensions: []string{"PDF", ".epub,txt"},
		ExcludeExtensions: []string{".TXT"},
	})

	assert.Equal(t, filter.Included, c.Classify("a.pdf", 1).Reason)
	assert.Equal(t, filter.Included, c.Classify("a.epub", 1).Reason)
	assert.Equal(t, filter.ExcludedByUser, c.Classify("a.txt", 1).Reason)
	assert.Equal(t, filter.NotTarget, c.Classify("a.docx", 1).Reason)
}

func TestClassifyAllowMedia(t *testing.T) {
	blocked := filter.NewClassifier(filter.Config{IncludeExtensions: []string{".mp3"}})
	assert.Equal(t, filter.Media, blocked.Classify("talk.mp3", 1).Reason)

	allowed := filter.NewClassifier(filter.Config{IncludeExtensions: []string{".mp3"}, AllowMedia: true})
	assert.Equal(t, filter.Included, allowed.Classify("talk.mp3", 1).Reason)

	// Allowing media does not make it a target by itself.
	defaults := filter.NewClassifier(filter.Config{AllowMedia: true})
	assert.Equal(t, filter.NotTarget, defaults.Classify("talk.mp3", 1).Reason)
}

func TestClassifyUserRules(t *testing.T) {
	rules := filter.NewChain()
	require.NoError(t, rules.AddExclude("archive/"))
	require.NoError(t, rules.AddExclude("*.draft.md"))
	rules.SetMaxSize(1000)

	c := filter.NewClassifier(filter.Config{Rules: rules})

	assert.Equal(t, filter.ExcludedByUser, c.Classify("notes/x.draft.md", 10).Reason)
	assert.Equal(t, filter.ExcludedByUser, c.Classify("big.pdf", 5000).Reason)
	assert.Equal(t, filter.Included, c.Classify("notes/x.md", 10).Reason)
	assert.True(t, c.SkipDir("old/archive"))
	assert.False(t, c.SkipDir("old/books"))
}

func TestSkipDirHidden(t *testing.T) {
	c := filter.NewClassifier(filter.Config{})
	assert.True(t, c.SkipDir(".cache"))
	assert.True(t, c.SkipDir("a/.trash/b"))
	assert.False(t, c.SkipDir("a/b"))
}

func TestReasonString(t *testing.T) {
	assert.Equal(t, "excluded-by-user", filter.ExcludedByUser.String())
	assert.Equal(t, "zero-byte", filter.ZeroByte.String())
	assert.Equal(t, "unknown", filter.Reason(99).String())
	assert.Len(t, filter.Reasons(), 8)
}

func TestParseGroupBy(t *testing.T) {
	g, err := filter.ParseGroupBy("KIND")
	require.NoError(t, err)
	assert.Equal(t, filter.GroupByKind, g)

	g, err = filter.ParseGroupBy("")
	require.NoError(t, err)
	assert.Equal(t, filter.GroupByFolder, g)

	_, err = filter.ParseGroupBy("color")
	assert.Error(t, err)
}

func TestNormalizeExt(t *testing.T) {
	assert.Equal(t, ".pdf", filter.NormalizeExt("PDF"))
	assert.Equal(t, ".azw3", filter.NormalizeExt(" .AZW3 "))
	assert.Equal(t, "", filter.NormalizeExt(""))
}
