package filter

import (
	"fmt"
	"regexp"
	"strings"
)

// compiledPattern is an rsync-style glob compiled to a case-insensitive
// regular expression. Document libraries routinely mix "Drafts" and "drafts",
// so rules never care about case.
type compiledPattern struct {
	re       *regexp.Regexp
	original string
	anchored bool // leading "/" or an inner "/": match from the scan root
	dirOnly  bool // trailing "/": directories only
}

func compilePattern(pattern string) (*compiledPattern, error) {
	if strings.TrimSpace(pattern) == "" {
		return nil, fmt.Errorf("empty filter pattern")
	}
	cp := &compiledPattern{original: pattern}

	if strings.HasSuffix(pattern, "/") {
		cp.dirOnly = true
		pattern = strings.TrimSuffix(pattern, "/")
	}

	switch {
	case strings.HasPrefix(pattern, "/"):
		cp.anchored = true
		pattern = strings.TrimPrefix(pattern, "/")
	case strings.Contains(pattern, "/"):
		cp.anchored = true
	}

	body := globToRegex(pattern)
	if cp.anchored {
		body = "^" + body + "$"
	} else {
		// Basename or any trailing path suffix.
		body = "(^|/)" + body + "$"
	}

	re, err := regexp.Compile("(?i)" + body)
	if err != nil {
		return nil, fmt.Errorf("compile pattern %q: %w", cp.original, err)
	}
	cp.re = re
	return cp, nil
}

func (cp *compiledPattern) match(relPath string, isDir bool) bool {
	if cp.dirOnly && !isDir {
		return false
	}
	return cp.re.MatchString(relPath)
}

func (cp *compiledPattern) String() string { return cp.original }

// globToRegex translates glob syntax: "*" stops at "/", "**" crosses it,
// "?" is one non-separator byte, and "[...]" / "[!...]" are classes.
//
//nolint:gocyclo,revive // cognitive-complexity: byte-at-a-time glob scanner
func globToRegex(pattern string) string {
	var b strings.Builder
	for i := 0; i < len(pattern); {
		c := pattern[i]
		switch {
		case c == '*' && strings.HasPrefix(pattern[i:], "**/"):
			b.WriteString("(.*/)?")
			i += 3
		case c == '*' && strings.HasPrefix(pattern[i:], "**"):
			b.WriteString(".*")
			i += 2
		case c == '*':
			b.WriteString("[^/]*")
			i++
		case c == '?':
			b.WriteString("[^/]")
			i++
		case c == '[':
			end := classEnd(pattern, i)
			if end < 0 {
				b.WriteString(`\[`)
				i++
				continue
			}
			class := pattern[i+1 : end]
			if strings.HasPrefix(class, "!") {
				class = "^" + class[1:]
			}
			b.WriteString("[" + strings.ReplaceAll(class, `\`, `\\`) + "]")
			i = end + 1
		default:
			b.WriteString(regexp.QuoteMeta(string(c)))
			i++
		}
	}
	return b.String()
}

// classEnd returns the index of the "]" closing the class opened at start,
// or -1 when the class is unterminated.
func classEnd(pattern string, start int) int {
	j := start + 1
	if j < len(pattern) && pattern[j] == '!' {
		j++
	}
	if j < len(pattern) && pattern[j] == ']' {
		j++
	}
	for j < len(pattern) && pattern[j] != ']' {
		j++
	}
	if j >= len(pattern) {
		return -1
	}
	return j
}
