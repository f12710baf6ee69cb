package catalog

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/cespare/xxhash/v2"
)

// EntryID identifies an entry. It is derived from the path fingerprint, so
// the same file gets the same id on every scan of an unchanged tree.
type EntryID string

// Entry is one catalogued document file.
type Entry struct {
	ID       EntryID
	Path     string // absolute, symlinks resolved
	RelPath  string // slash separated, relative to the scan root
	Name     string // base name, used for display and pattern matching
	Ext      string // lowercase with leading dot
	Category string
	Size     int64
}

// NameKey is the content-coincidence fingerprint: two files with the same
// case-folded name and the same size are treated as copies of one document.
type NameKey struct {
	Name string
	Size int64
}

// PathKey returns the path fingerprint of p.
func PathKey(p string) string {
	return strings.ToLower(filepath.Clean(p))
}

// NameKeyOf returns the name+size fingerprint.
func NameKeyOf(name string, size int64) NameKey {
	return NameKey{Name: strings.ToLower(name), Size: size}
}

// IDFor derives the entry id from a path key.
func IDFor(pathKey string) EntryID {
	return EntryID(fmt.Sprintf("%016x", xxhash.Sum64String(pathKey)))
}
