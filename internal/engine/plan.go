package engine

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/bamsammich/shelf/internal/catalog"
)

// Pair is one planned source -> destination copy.
type Pair struct {
	Src     string
	Dst     string
	RelPath string // source path relative to the scan root, for display
	Size    int64
	Exists  bool // destination was present when the plan was built
}

// PlanItem is the copy work for one category.
type PlanItem struct {
	Category string
	Dir      string
	Pairs    []Pair
}

// Size returns the summed source size of the item.
func (p PlanItem) Size() int64 {
	var n int64
	for _, pair := range p.Pairs {
		n += pair.Size
	}
	return n
}

// Pending returns the number of pairs whose destination did not exist at
// planning time.
func (p PlanItem) Pending() int {
	n := 0
	for _, pair := range p.Pairs {
		if !pair.Exists {
			n++
		}
	}
	return n
}

// Plan maps a locked catalog onto dstRoot: one item per non-empty category,
// in category order. It only reads the filesystem. logPath is the copy log
// location ("" means DefaultLogName under dstRoot); when it sits directly
// in dstRoot no category directory may take its name.
func Plan(locked *catalog.Locked, dstRoot, logPath string) []PlanItem {
	var items []PlanItem
	usedDirs := make(map[string]struct{})
	if logPath == "" {
		logPath = filepath.Join(dstRoot, DefaultLogName)
	}
	if filepath.Clean(filepath.Dir(logPath)) == filepath.Clean(dstRoot) {
		usedDirs[strings.ToLower(filepath.Base(logPath))] = struct{}{}
	}

	for _, cat := range locked.Categories() {
		if len(cat.Entries) == 0 {
			continue
		}
		dirName := uniqueName(SanitizeName(cat.Name), usedDirs)
		item := PlanItem{
			Category: cat.Name,
			Dir:      filepath.Join(dstRoot, dirName),
			Pairs:    make([]Pair, 0, len(cat.Entries)),
		}

		usedNames := make(map[string]struct{}, len(cat.Entries))
		for _, e := range cat.Entries {
			name := uniqueName(SanitizeName(e.Name), usedNames)
			dst := filepath.Join(item.Dir, name)
			_, err := os.Lstat(dst)
			item.Pairs = append(item.Pairs, Pair{
				Src:     e.Path,
				Dst:     dst,
				RelPath: e.RelPath,
				Size:    e.Size,
				Exists:  err == nil,
			})
		}
		items = append(items, item)
	}
	return items
}

const unsafeChars = `<>:"/\|?*`

// SanitizeName makes a category or file name safe to use as a single path
// element. Separators, reserved punctuation and control characters become
// underscores; leading and trailing spaces and dots are trimmed.
func SanitizeName(name string) string {
	clean := strings.Map(func(r rune) rune {
		if r < 0x20 || r == 0x7f || strings.ContainsRune(unsafeChars, r) {
			return '_'
		}
		return r
	}, name)
	clean = strings.Trim(clean, " .")
	if clean == "" {
		return "_"
	}
	return clean
}

// uniqueName returns name, or name with a " (n)" suffix before the
// extension, such that it is not in used under case folding. The result
// is recorded in used.
func uniqueName(name string, used map[string]struct{}) string {
	candidate := name
	ext := filepath.Ext(name)
	stem := strings.TrimSuffix(name, ext)
	for i := 2; ; i++ {
		if _, taken := used[strings.ToLower(candidate)]; !taken {
			used[strings.ToLower(candidate)] = struct{}{}
			return candidate
		}
		candidate = fmt.Sprintf("%s (%d)%s", stem, i, ext)
	}
}
