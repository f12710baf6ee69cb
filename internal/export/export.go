// Package export writes a catalog view to JSON or plain text.
package export

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/bamsammich/shelf/internal/catalog"
)

// Format selects an output encoding.
type Format int

const (
	FormatJSON Format = iota
	FormatText
)

func (f Format) String() string {
	if f == FormatText {
		return "text"
	}
	return "json"
}

// File is one exported entry.
type File struct {
	Path      string `json:"path"`
	Name      string `json:"name"`
	Size      int64  `json:"size"`
	Extension string `json:"extension"`
	Category  string `json:"category"`
}

// Group lists the names in one category, sorted.
type Group struct {
	Category string
	Names    []string
}

// Document is the exportable form of a catalog view.
type Document struct {
	Groups []Group
	Files  []File
}

// Build converts category views into a Document. Empty categories are
// left out.
func Build(views []catalog.CategoryView) Document {
	var doc Document
	for _, v := range views {
		if len(v.Entries) == 0 {
			continue
		}
		g := Group{Category: v.Name, Names: make([]string, 0, len(v.Entries))}
		for _, e := range v.Entries {
			g.Names = append(g.Names, e.Name)
			doc.Files = append(doc.Files, File{
				Path:      e.Path,
				Name:      e.Name,
				Size:      e.Size,
				Extension: e.Ext,
				Category:  v.Name,
			})
		}
		slices.Sort(g.Names)
		doc.Groups = append(doc.Groups, g)
	}
	return doc
}

// Total returns the number of exported files.
func (d Document) Total() int { return len(d.Files) }

type jsonDocument struct {
	Summary map[string][]string `json:"summary"`
	Files   []File              `json:"files"`
}

// WriteJSON encodes doc as {"summary": {category: names}, "files": [...]}.
func WriteJSON(w io.Writer, doc Document) error {
	out := jsonDocument{Summary: make(map[string][]string, len(doc.Groups)), Files: doc.Files}
	for _, g := range doc.Groups {
		out.Summary[g.Category] = g.Names
	}
	if out.Files == nil {
		out.Files = []File{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(out)
}

// WriteText writes the summary followed by one detailed line per file.
func WriteText(w io.Writer, doc Document) error {
	_, err := io.WriteString(w, Text(doc))
	return err
}

// Text renders doc the way WriteText does.
func Text(doc Document) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Total files: %d\n", doc.Total())
	b.WriteString("\nSummary by category:\n")
	for _, g := range doc.Groups {
		fmt.Fprintf(&b, "- %s (%d):\n", g.Category, len(g.Names))
		for _, name := range g.Names {
			fmt.Fprintf(&b, "  • %s\n", name)
		}
	}
	b.WriteString("\nDetailed files:\n")
	for _, f := range doc.Files {
		fmt.Fprintf(&b, "- %s: %s [%s] (%d bytes)\n  %s\n", f.Category, f.Name, f.Extension, f.Size, f.Path)
	}
	return b.String()
}

// WriteFile writes doc to path in the given format, creating parent
// directories. An existing file is replaced.
func WriteFile(path string, format Format, doc Document) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating directory for %s: %w", path, err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}

	bw := bufio.NewWriter(f)
	switch format {
	case FormatText:
		err = WriteText(bw, doc)
	default:
		err = WriteJSON(bw, doc)
	}
	if err == nil {
		err = bw.Flush()
	}
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return fmt.Errorf("writing %s %s: %w", format, path, err)
	}
	return nil
}
