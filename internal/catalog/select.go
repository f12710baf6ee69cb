package catalog

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// PatternKind selects how BulkSelect interprets its pattern.
type PatternKind int

const (
	// PatternWildcard is a shell glob (*, ?, [...], {a,b}).
	PatternWildcard PatternKind = iota
	// PatternRegex is an RE2 regular expression, matched unanchored.
	PatternRegex
)

func (k PatternKind) String() string {
	if k == PatternRegex {
		return "regex"
	}
	return "wildcard"
}

// ParsePatternKind accepts "wildcard"/"glob" and "regex"/"re".
func ParsePatternKind(s string) (PatternKind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "wildcard", "glob", "w":
		return PatternWildcard, nil
	case "regex", "re", "r":
		return PatternRegex, nil
	}
	return 0, fmt.Errorf("%w: unknown pattern kind %q", ErrBadPattern, s)
}

type matcher func(name string) bool

func compileMatcher(pattern string, kind PatternKind) (matcher, error) {
	if pattern == "" {
		return nil, fmt.Errorf("%w: empty pattern", ErrBadPattern)
	}
	switch kind {
	case PatternRegex:
		re, err := regexp.Compile("(?i)" + pattern)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrBadPattern, err)
		}
		return re.MatchString, nil
	default:
		lower := strings.ToLower(pattern)
		if !doublestar.ValidatePattern(lower) {
			return nil, fmt.Errorf("%w: %q", ErrBadPattern, pattern)
		}
		return func(name string) bool {
			ok, _ := doublestar.Match(lower, strings.ToLower(name))
			return ok
		}, nil
	}
}

// BulkSelect returns the ids of every entry whose name matches pattern,
// case-insensitively. Results are ordered by category listing order, then
// entry order within the category.
func (c *Catalog) BulkSelect(pattern string, kind PatternKind) ([]EntryID, error) {
	return c.BulkSelectIn("", pattern, kind)
}

// BulkSelectIn is BulkSelect limited to one category. An empty category
// name selects across all categories.
func (c *Catalog) BulkSelectIn(categoryName, pattern string, kind PatternKind) ([]EntryID, error) {
	if c.locked {
		return nil, ErrAlreadyLocked
	}
	match, err := compileMatcher(pattern, kind)
	if err != nil {
		return nil, err
	}

	cats := c.sorted()
	if categoryName != "" {
		cat, ok := c.cats[fold(categoryName)]
		if !ok {
			return nil, fmt.Errorf("category %q: %w", categoryName, ErrNotFound)
		}
		cats = []*category{cat}
	}

	var ids []EntryID
	for _, cat := range cats {
		for _, e := range cat.entries {
			if match(e.Name) {
				ids = append(ids, e.ID)
			}
		}
	}
	return ids, nil
}
