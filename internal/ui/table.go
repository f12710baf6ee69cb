package ui

import (
	"fmt"
	"io"

	"github.com/bamsammich/shelf/internal/catalog"
	"github.com/bamsammich/shelf/internal/engine"
)

// RenderCategories prints every category with its 1-based entry indexes.
func RenderCategories(w io.Writer, cats []catalog.CategoryView, color bool) {
	p := painter(color)
	fmt.Fprintln(w, p.paint(styleHeader, "Current categories and entries:"))
	if len(cats) == 0 {
		fmt.Fprintln(w, p.paint(styleMuted, "  (no categories)"))
		return
	}
	for _, cat := range cats {
		fmt.Fprintf(w, "- %s %s\n",
			p.paint(styleCategory, cat.Name),
			p.paint(styleCount, "("+Plural(len(cat.Entries), "file")+")"))
		for i, e := range cat.Entries {
			fmt.Fprintf(w, "  %s %s\n", p.paint(styleIndex, fmt.Sprintf("[%d]", i+1)), p.paint(styleName, e.Name))
		}
	}
}

// RenderCounts prints one "- category: n" line per plan item.
func RenderCounts(w io.Writer, items []engine.PlanItem, color bool) {
	p := painter(color)
	for _, item := range items {
		fmt.Fprintf(w, "  - %s: %d %s\n",
			p.paint(styleCategory, item.Category), len(item.Pairs),
			p.paint(styleMuted, "("+FormatBytes(item.Size())+")"))
	}
}

// RenderPlan prints the dry run for one item. Pairs whose destination
// already exists are listed as skips.
func RenderPlan(w io.Writer, item engine.PlanItem, color bool) {
	p := painter(color)
	fmt.Fprintf(w, "Dry run for category %s -> %s\n", p.paint(styleCategory, "'"+item.Category+"'"), item.Dir)
	if len(item.Pairs) == 0 {
		fmt.Fprintln(w, "  No files to copy.")
		return
	}
	for _, pair := range item.Pairs {
		if pair.Exists {
			fmt.Fprintf(w, "  %s %s\n", p.paint(styleIconSkipped, "SKIP exists:"), pair.Dst)
			continue
		}
		fmt.Fprintf(w, "  PLAN: copy %s -> %s\n", pair.Src, pair.Dst)
	}
}
