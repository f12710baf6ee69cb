package ui_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bamsammich/shelf/internal/catalog"
	"github.com/bamsammich/shelf/internal/ui"
)

func sampleCatalog(t *testing.T, opts ...catalog.Option) *catalog.Catalog {
	t.Helper()
	c := catalog.New(opts...)
	for _, e := range []struct{ cat, name string }{
		{"notes", "draft_part3.txt"},
		{"notes", "final.txt"},
		{"notes", "Draft-old.txt"},
		{"pdf", "a.pdf"},
	} {
		_, err := c.Add(catalog.Entry{
			Path:     "/lib/" + e.cat + "/" + e.name,
			RelPath:  e.cat + "/" + e.name,
			Name:     e.name,
			Size:     int64(len(e.name)),
			Category: e.cat,
		})
		require.NoError(t, err)
	}
	return c
}

func organize(t *testing.T, c *catalog.Catalog, input string, assumeYes bool) (*catalog.Locked, string) {
	t.Helper()
	var out bytes.Buffer
	locked, err := ui.Organize(c, ui.OrganizeConfig{
		Prompter: ui.NewPrompter(strings.NewReader(input), &out, assumeYes),
		Writer:   &out,
	})
	require.NoError(t, err)
	require.NotNil(t, locked)
	assert.True(t, c.Locked())
	return locked, out.String()
}

func entryNames(t *testing.T, l *catalog.Locked, category string) []string {
	t.Helper()
	v, ok := l.Category(category)
	require.True(t, ok, "category %q", category)
	out := make([]string, len(v.Entries))
	for i, e := range v.Entries {
		out[i] = e.Name
	}
	return out
}

func TestOrganizeBulkMoveCreatesTarget(t *testing.T) {
	input := strings.Join([]string{
		"5", "notes", "*draft*", "n", "move", "drafts", "y", // bulk move, confirm
		"y",      // create missing category
		"6", "y", // finish
	}, "\n") + "\n"

	locked, out := organize(t, sampleCatalog(t), input, false)

	assert.ElementsMatch(t, []string{"draft_part3.txt", "Draft-old.txt"}, entryNames(t, locked, "drafts"))
	assert.Equal(t, []string{"final.txt"}, entryNames(t, locked, "notes"))
	assert.Contains(t, out, "Matched entries:")
	assert.Contains(t, out, "Moved 2 entries to 'drafts'.")
	assert.Equal(t, 4, locked.Len())
}

func TestOrganizeAssumeYesSkipsConfirmations(t *testing.T) {
	locked, out := organize(t, sampleCatalog(t), "1\nnotes\nwriting\n6\n", true)

	assert.Len(t, entryNames(t, locked, "writing"), 3)
	_, ok := locked.Category("notes")
	assert.False(t, ok)
	assert.Contains(t, out, "Renamed 'notes' to 'writing'.")
}

func TestOrganizeEndOfInputLocks(t *testing.T) {
	locked, out := organize(t, sampleCatalog(t), "", false)
	assert.Equal(t, 4, locked.Len())
	assert.Contains(t, out, "Input closed")
}

func TestOrganizeInvalidInput(t *testing.T) {
	input := "9\n3\nnosuch\n3\nnotes\n42\n4\nnotes\nabc\n"
	locked, out := organize(t, sampleCatalog(t), input, false)

	assert.Contains(t, out, "Invalid option. Please choose 1-6.")
	assert.Contains(t, out, "Category not found.")
	assert.Contains(t, out, "Entry number out of range.")
	assert.Contains(t, out, "Invalid number.")
	assert.Equal(t, 4, locked.Len())
}

func TestOrganizeDeclinedCreateLeavesEntry(t *testing.T) {
	input := "3\npdf\n1\nnewcat\ny\nn\n6\ny\n"
	locked, out := organize(t, sampleCatalog(t), input, false)

	assert.Equal(t, []string{"a.pdf"}, entryNames(t, locked, "pdf"))
	_, ok := locked.Category("newcat")
	assert.False(t, ok)
	assert.Contains(t, out, "Cancelled.")
}

func TestOrganizeAutoCreateMovesDirectly(t *testing.T) {
	c := sampleCatalog(t, catalog.WithAutoCreate(true))
	locked, out := organize(t, c, "3\npdf\n1\nbooks\ny\n6\ny\n", false)

	assert.Equal(t, []string{"a.pdf"}, entryNames(t, locked, "books"))
	assert.NotContains(t, out, "Create it?")
}

func TestOrganizeRemoveEntryAndCategory(t *testing.T) {
	input := "4\nnotes\n2\ny\n2\npdf\ny\n6\ny\n"
	locked, out := organize(t, sampleCatalog(t), input, false)

	assert.Equal(t, []string{"draft_part3.txt", "Draft-old.txt"}, entryNames(t, locked, "notes"))
	_, ok := locked.Category("pdf")
	assert.False(t, ok)
	assert.Contains(t, out, "Removed 'final.txt'.")
	assert.Contains(t, out, "Removed category 'pdf' (1 entry).")
}

func TestOrganizeRegexBulkRemove(t *testing.T) {
	input := "5\nnotes\ndraft_part\\d\ny\nremove\ny\n6\ny\n"
	locked, out := organize(t, sampleCatalog(t), input, false)

	assert.Equal(t, []string{"final.txt", "Draft-old.txt"}, entryNames(t, locked, "notes"))
	assert.Contains(t, out, "Removed 1 entry.")
}

func TestOrganizeBadRegexIsReported(t *testing.T) {
	_, out := organize(t, sampleCatalog(t), "5\nnotes\n([\ny\n6\ny\n", false)
	assert.Contains(t, out, "invalid pattern")
}

func TestOrganizeFinishDeclinedContinues(t *testing.T) {
	_, out := organize(t, sampleCatalog(t), "6\nn\n6\ny\n", false)
	assert.Contains(t, out, "Continuing review stage.")
	assert.Contains(t, out, "Organization complete: 4 entries locked in.")
}
