package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bamsammich/shelf/internal/copylog"
)

type cliResult struct {
	out    string
	errOut string
	code   int
}

func runCLI(t *testing.T, stdin string, args ...string) cliResult {
	t.Helper()
	var out, errOut bytes.Buffer
	cmd := newRootCmd(streams{in: strings.NewReader(stdin), out: &out, errOut: &errOut})
	cmd.SetArgs(args)
	code := exitCode(cmd.Execute(), &errOut)
	return cliResult{out: out.String(), errOut: errOut.String(), code: code}
}

// writeLibrary builds a small library and isolates the config directory.
func writeLibrary(t *testing.T) string {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	root := t.TempDir()
	files := map[string]string{
		"math/calc.pdf":      "calculus",
		"math/algebra.txt":   "groups and rings",
		"physics/waves.epub": "oscillation",
		"physics/calc.pdf":   "calculus", // same name and size as math/calc.pdf
		".hidden/secret.pdf": "hidden",
		"draft_part3.txt":    "draft", // partial download name
		"notes.txt":          "root notes",
		"music/song.mp3":     "la la",
	}
	for rel, content := range files {
		p := filepath.Join(root, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	}
	require.NoError(t, os.WriteFile(filepath.Join(root, "math", "empty.pdf"), nil, 0o644))
	return root
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

func TestVersion(t *testing.T) {
	res := runCLI(t, "", "--version")
	assert.Equal(t, 0, res.code)
	assert.Equal(t, "shelf dev\n", res.out)
}

func TestCopyWithYes(t *testing.T) {
	root := writeLibrary(t)
	dst := filepath.Join(t.TempDir(), "out")

	res := runCLI(t, "", root, "--copy-dest", dst, "--yes", "--verify")
	require.Equal(t, 0, res.code, res.errOut)

	assert.Contains(t, res.out, "Discovered 5 candidates; 4 after deduplication.")
	assert.Contains(t, res.out, "Skipping organization stage")
	assert.Equal(t, "calculus", readFile(t, filepath.Join(dst, "math", "calc.pdf")))
	assert.Equal(t, "groups and rings", readFile(t, filepath.Join(dst, "math", "algebra.txt")))
	assert.Equal(t, "oscillation", readFile(t, filepath.Join(dst, "physics", "waves.epub")))
	assert.Equal(t, "root notes", readFile(t, filepath.Join(dst, "Uncategorized", "notes.txt")))
	assert.NoFileExists(t, filepath.Join(dst, "Uncategorized", "draft_part3.txt"))
	assert.NoFileExists(t, filepath.Join(dst, "physics", "calc.pdf"))
	assert.NoDirExists(t, filepath.Join(dst, "music"))
	assert.NoDirExists(t, filepath.Join(dst, ".hidden"))
	assert.Contains(t, res.errOut, "copied 4")

	sessions, err := copylog.ReadFile(filepath.Join(dst, "copy_log.txt"))
	require.NoError(t, err)
	require.Len(t, sessions, 1)
	require.Len(t, sessions[0].Records, 4)
	for _, rec := range sessions[0].Records {
		assert.Equal(t, copylog.Copied, rec.Outcome)
	}

	// A second run copies nothing and appends a new session.
	res = runCLI(t, "", root, "--copy-dest", dst, "--yes")
	require.Equal(t, 0, res.code, res.errOut)
	sessions, err = copylog.ReadFile(filepath.Join(dst, "copy_log.txt"))
	require.NoError(t, err)
	require.Len(t, sessions, 2)
	for _, rec := range sessions[1].Records {
		assert.Equal(t, copylog.SkippedExists, rec.Outcome)
	}
}

func TestDryRunWritesNothing(t *testing.T) {
	root := writeLibrary(t)
	dst := filepath.Join(t.TempDir(), "out")

	res := runCLI(t, "", root, "--copy-dest", dst, "--dry-run", "--yes")
	require.Equal(t, 0, res.code, res.errOut)
	assert.Contains(t, res.out, "PLAN: copy ")
	assert.Contains(t, res.out, filepath.Join(dst, "math", "calc.pdf"))
	assert.NoDirExists(t, dst)
}

func TestNoCopyDestination(t *testing.T) {
	root := writeLibrary(t)
	res := runCLI(t, "", root, "--yes")
	require.Equal(t, 0, res.code, res.errOut)
	assert.Contains(t, res.out, "No copy destination provided. Skipping copy workflow.")
}

func TestExportPreviewOnly(t *testing.T) {
	root := writeLibrary(t)
	jsonPath := filepath.Join(t.TempDir(), "scan.json")

	res := runCLI(t, "", root, "--output-json", jsonPath, "--yes")
	require.Equal(t, 0, res.code, res.errOut)
	assert.Contains(t, res.out, "Total files: 4")
	assert.Contains(t, res.out, "Dry-run mode: no files were written.")
	assert.NoFileExists(t, jsonPath)
}

func TestExportApply(t *testing.T) {
	root := writeLibrary(t)
	dir := t.TempDir()
	jsonPath := filepath.Join(dir, "nested", "scan.json")
	textPath := filepath.Join(dir, "scan.txt")

	res := runCLI(t, "", root, "--output-json", jsonPath, "--output-text", textPath, "--apply", "--yes")
	require.Equal(t, 0, res.code, res.errOut)

	var doc struct {
		Summary map[string][]string `json:"summary"`
		Files   []map[string]any    `json:"files"`
	}
	require.NoError(t, json.Unmarshal([]byte(readFile(t, jsonPath)), &doc))
	assert.Equal(t, []string{"algebra.txt", "calc.pdf"}, doc.Summary["math"])
	assert.Len(t, doc.Files, 4)
	assert.True(t, strings.HasPrefix(readFile(t, textPath), "Total files: 4\n"))
}

func TestExportDeclined(t *testing.T) {
	root := writeLibrary(t)
	jsonPath := filepath.Join(t.TempDir(), "scan.json")

	// Decline the write, then decline organization.
	res := runCLI(t, "n\nn\n", root, "--output-json", jsonPath, "--apply")
	require.Equal(t, 0, res.code, res.errOut)
	assert.Contains(t, res.out, "Aborted. No files were written.")
	assert.NoFileExists(t, jsonPath)
}

func TestStagedCopyDeclines(t *testing.T) {
	root := writeLibrary(t)
	dst := filepath.Join(t.TempDir(), "out")

	input := strings.Join([]string{
		"n",      // organization stage
		"y",      // create destination
		"y",      // begin
		"y", "n", // math: dry run, then decline copy
		"n",      // physics: skip
		"y", "y", // Uncategorized: dry run, copy
	}, "\n") + "\n"
	res := runCLI(t, input, root, "--copy-dest", dst)
	require.Equal(t, 0, res.code, res.errOut)

	assert.Contains(t, res.out, "Copy skipped after dry run.")
	assert.Contains(t, res.out, "Skipped.")
	assert.NoDirExists(t, filepath.Join(dst, "math"))
	assert.NoDirExists(t, filepath.Join(dst, "physics"))
	assert.FileExists(t, filepath.Join(dst, "Uncategorized", "notes.txt"))
}

func TestDestinationCreationDeclined(t *testing.T) {
	root := writeLibrary(t)
	dst := filepath.Join(t.TempDir(), "out")

	res := runCLI(t, "n\nn\n", root, "--copy-dest", dst)
	require.Equal(t, 0, res.code, res.errOut)
	assert.Contains(t, res.out, "Copy destination not created")
	assert.NoDirExists(t, dst)
}

func TestOrganizeFlag(t *testing.T) {
	root := writeLibrary(t)
	dst := filepath.Join(t.TempDir(), "out")

	res := runCLI(t, "1\nmath\nmathematics\n6\n", root, "--organize", "--copy-dest", dst, "--yes")
	require.Equal(t, 0, res.code, res.errOut)
	assert.FileExists(t, filepath.Join(dst, "mathematics", "calc.pdf"))
	assert.NoDirExists(t, filepath.Join(dst, "math"))
}

func TestGroupByKindFromConfig(t *testing.T) {
	root := writeLibrary(t)
	dst := filepath.Join(t.TempDir(), "out")

	cfgDir := filepath.Join(os.Getenv("XDG_CONFIG_HOME"), "shelf")
	require.NoError(t, os.MkdirAll(cfgDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(cfgDir, "config.toml"), []byte(
		"[scan]\ngroup_by = \"kind\"\nexclude = [\"*.epub\"]\n\n[copy]\ndest = \""+filepath.ToSlash(dst)+"\"\n",
	), 0o644))

	res := runCLI(t, "", root, "--yes")
	require.Equal(t, 0, res.code, res.errOut)
	assert.FileExists(t, filepath.Join(dst, "pdf", "calc.pdf"))
	assert.FileExists(t, filepath.Join(dst, "text", "algebra.txt"))
	assert.NoDirExists(t, filepath.Join(dst, "ebook"))
}

func TestStructuredLog(t *testing.T) {
	root := writeLibrary(t)
	logPath := filepath.Join(t.TempDir(), "shelf.jsonl")

	res := runCLI(t, "", root, "--yes", "--log", logPath)
	require.Equal(t, 0, res.code, res.errOut)
	log := readFile(t, logPath)
	assert.Contains(t, log, `"msg":"shelf.event"`)
	assert.Contains(t, log, `"msg":"scan complete"`)
}

func TestFatalErrors(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	res := runCLI(t, "", filepath.Join(t.TempDir(), "missing"))
	assert.Equal(t, 2, res.code)
	assert.Contains(t, res.errOut, "root not found")

	root := writeLibrary(t)
	res = runCLI(t, "", root, "--group-by", "color")
	assert.Equal(t, 2, res.code)
	assert.Contains(t, res.errOut, "unknown grouping")

	res = runCLI(t, "", root, "--min-size", "lots")
	assert.Equal(t, 2, res.code)

	blocker := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o644))
	res = runCLI(t, "", root, "--yes", "--copy-dest", blocker)
	assert.Equal(t, 2, res.code)
	assert.Contains(t, res.errOut, "not a directory")
}

func TestNoRootOnEmptyInput(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	res := runCLI(t, "")
	assert.Equal(t, 2, res.code)
	assert.Contains(t, res.errOut, "no root directory selected")
}
