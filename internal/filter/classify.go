package filter

import (
	"fmt"
	"path"
	"path/filepath"
	"strings"
)

// Reason explains a classification verdict.
type Reason int

const (
	Included Reason = iota
	ZeroByte
	Hidden
	Temporary
	Partial
	Media
	NotTarget
	ExcludedByUser
)

var reasonNames = [...]string{
	Included:       "included",
	ZeroByte:       "zero-byte",
	Hidden:         "hidden",
	Temporary:      "temporary",
	Partial:        "partial",
	Media:          "media",
	NotTarget:      "not-target",
	ExcludedByUser: "excluded-by-user",
}

func (r Reason) String() string {
	if r >= 0 && int(r) < len(reasonNames) {
		return reasonNames[r]
	}
	return "unknown"
}

// Reasons lists every reason in rule order, for stable report output.
func Reasons() []Reason {
	return []Reason{Included, ZeroByte, Hidden, Temporary, Partial, Media, NotTarget, ExcludedByUser}
}

// Uncategorized is the category of files that sit directly under the root.
const Uncategorized = "Uncategorized"

// DefaultIncludeExtensions are the document types collected when the caller
// does not supply its own list.
var DefaultIncludeExtensions = []string{
	".pdf", ".epub", ".docx", ".doc", ".txt", ".mobi", ".azw", ".azw3", ".rtf", ".md",
}

var mediaExtensions = map[string]struct{}{
	".mp4": {}, ".mkv": {}, ".avi": {}, ".mov": {}, ".wmv": {},
	".mp3": {}, ".flac": {}, ".aac": {}, ".ogg": {}, ".wav": {},
}

var tempSuffixes = []string{"~", ".tmp", ".temp", ".swp", ".crdownload"}

// GroupBy selects how included files are assigned to categories.
type GroupBy int

const (
	// GroupByFolder names the category after the file's parent directory.
	GroupByFolder GroupBy = iota
	// GroupByKind groups by document family (pdf, ebook, document, text).
	GroupByKind
)

func (g GroupBy) String() string {
	if g == GroupByKind {
		return "kind"
	}
	return "folder"
}

// ParseGroupBy parses "folder" or "kind".
func ParseGroupBy(s string) (GroupBy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "folder":
		return GroupByFolder, nil
	case "kind":
		return GroupByKind, nil
	default:
		return GroupByFolder, fmt.Errorf("unknown grouping %q (use folder or kind)", s)
	}
}

// Config holds classifier options.
type Config struct {
	IncludeExtensions []string // nil means DefaultIncludeExtensions
	ExcludeExtensions []string
	AllowMedia        bool
	GroupBy           GroupBy
	Rules             *Chain // optional user rules and size bounds
}

// Verdict is the outcome of classifying one file.
type Verdict struct {
	Reason   Reason
	Ext      string // lowercase, with leading dot
	Category string // filled for every verdict
}

// Included reports whether the file qualifies as a target document.
func (v Verdict) Included() bool { return v.Reason == Included }

// Classifier decides whether a file is a target document. It performs no I/O.
type Classifier struct {
	include    map[string]struct{}
	exclude    map[string]struct{}
	allowMedia bool
	groupBy    GroupBy
	rules      *Chain
}

// NewClassifier builds a Classifier from cfg.
func NewClassifier(cfg Config) *Classifier {
	include := cfg.IncludeExtensions
	if len(include) == 0 {
		include = DefaultIncludeExtensions
	}
	return &Classifier{
		include:    extSet(include),
		exclude:    extSet(cfg.ExcludeExtensions),
		allowMedia: cfg.AllowMedia,
		groupBy:    cfg.GroupBy,
		rules:      cfg.Rules,
	}
}

// Classify applies the rules in order; the first match wins. relPath is
// relative to the scan root in either slash or OS form.
//
//nolint:gocyclo // one branch per rule
func (c *Classifier) Classify(relPath string, size int64) Verdict {
	rel := filepath.ToSlash(relPath)
	name := path.Base(rel)
	lower := strings.ToLower(name)
	v := Verdict{Ext: NormalizeExt(path.Ext(name))}
	v.Category = c.category(rel, v.Ext)

	switch {
	case size == 0:
		v.Reason = ZeroByte
	case isHiddenPath(rel):
		v.Reason = Hidden
	case isTemporary(lower):
		v.Reason = Temporary
	case strings.Contains(lower, "part"):
		v.Reason = Partial
	case isMedia(v.Ext) && !c.allowMedia:
		v.Reason = Media
	case !c.IsTarget(v.Ext):
		v.Reason = NotTarget
	case c.isExcluded(v.Ext), !c.rules.Match(rel, false, size):
		v.Reason = ExcludedByUser
	default:
		v.Reason = Included
	}
	return v
}

// SkipDir reports whether the directory at relPath should not be descended
// into: it is hidden, or a user rule excludes it.
func (c *Classifier) SkipDir(relPath string) bool {
	rel := filepath.ToSlash(relPath)
	return isHiddenPath(rel) || !c.rules.Match(rel, true, 0)
}

// IsTarget reports whether ext is in the include set.
func (c *Classifier) IsTarget(ext string) bool {
	_, ok := c.include[NormalizeExt(ext)]
	return ok
}

func (c *Classifier) isExcluded(ext string) bool {
	_, ok := c.exclude[ext]
	return ok
}

func (c *Classifier) category(rel, ext string) string {
	if c.groupBy == GroupByKind {
		return KindOf(ext)
	}
	dir := path.Dir(rel)
	if dir == "." || dir == "/" || dir == "" {
		return Uncategorized
	}
	// A folder named only with spaces cannot name a category.
	name := path.Base(dir)
	if strings.TrimSpace(name) == "" {
		return Uncategorized
	}
	return name
}

// KindOf maps an extension to its document family.
func KindOf(ext string) string {
	switch NormalizeExt(ext) {
	case ".pdf":
		return "pdf"
	case ".epub", ".mobi", ".azw", ".azw3":
		return "ebook"
	case ".doc", ".docx", ".rtf":
		return "document"
	case ".txt", ".md":
		return "text"
	case "":
		return "other"
	default:
		return strings.TrimPrefix(NormalizeExt(ext), ".")
	}
}

// NormalizeExt lowercases ext and ensures a leading dot. Empty stays empty.
func NormalizeExt(ext string) string {
	ext = strings.ToLower(strings.TrimSpace(ext))
	if ext == "" || strings.HasPrefix(ext, ".") {
		return ext
	}
	return "." + ext
}

// IsHiddenName reports whether a single path component is hidden.
func IsHiddenName(name string) bool {
	return strings.HasPrefix(name, ".") && name != "." && name != ".."
}

func isHiddenPath(rel string) bool {
	for _, part := range strings.Split(rel, "/") {
		if IsHiddenName(part) {
			return true
		}
	}
	return false
}

func isTemporary(lowerName string) bool {
	if strings.HasPrefix(lowerName, "~$") {
		return true
	}
	for _, suffix := range tempSuffixes {
		if strings.HasSuffix(lowerName, suffix) {
			return true
		}
	}
	return false
}

func isMedia(ext string) bool {
	_, ok := mediaExtensions[ext]
	return ok
}

func extSet(exts []string) map[string]struct{} {
	set := make(map[string]struct{}, len(exts))
	for _, e := range exts {
		// Accept "pdf,epub" as well as repeated values.
		for _, part := range strings.Split(e, ",") {
			if n := NormalizeExt(part); n != "" {
				set[n] = struct{}{}
			}
		}
	}
	return set
}
