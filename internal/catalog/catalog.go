// Package catalog holds the in-memory category organization of scanned
// documents. A Catalog is mutated by a single owner until Lock, which
// returns an immutable snapshot for copy planning.
package catalog

import (
	"cmp"
	"fmt"
	"path/filepath"
	"slices"
	"strings"
)

// Policy decides what happens when a move targets a missing category.
type Policy int

const (
	// RequireExisting fails such moves with ErrTargetNotFound. The caller
	// may create the category (after asking the user) and retry.
	RequireExisting Policy = iota
	// AutoCreate creates the target category implicitly.
	AutoCreate
)

func (p Policy) String() string {
	if p == AutoCreate {
		return "auto-create"
	}
	return "require-existing"
}

// Option configures a Catalog.
type Option func(*Catalog)

// WithPolicy sets the target creation policy.
func WithPolicy(p Policy) Option {
	return func(c *Catalog) { c.policy = p }
}

// WithAutoCreate is shorthand for WithPolicy(AutoCreate) when on is true.
func WithAutoCreate(on bool) Option {
	if on {
		return WithPolicy(AutoCreate)
	}
	return WithPolicy(RequireExisting)
}

type category struct {
	name    string
	entries []*Entry
}

// Catalog is the mutable category -> entries mapping for one scan session.
// It is not safe for concurrent use.
type Catalog struct {
	cats     map[string]*category // keyed by folded name
	entries  map[EntryID]*Entry
	pathKeys map[string]EntryID
	nameKeys map[NameKey]EntryID
	policy   Policy
	locked   bool
}

// New returns an empty Catalog.
func New(opts ...Option) *Catalog {
	c := &Catalog{
		cats:     make(map[string]*category),
		entries:  make(map[EntryID]*Entry),
		pathKeys: make(map[string]EntryID),
		nameKeys: make(map[NameKey]EntryID),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Policy returns the target creation policy.
func (c *Catalog) Policy() Policy { return c.policy }

// Locked reports whether Lock has been called.
func (c *Catalog) Locked() bool { return c.locked }

// Len returns the number of entries.
func (c *Catalog) Len() int { return len(c.entries) }

// Add inserts a scanned entry, creating its category if needed. It fails
// with ErrDuplicate when either fingerprint is already present; the first
// occurrence wins.
func (c *Catalog) Add(e Entry) (Entry, error) {
	if c.locked {
		return Entry{}, ErrAlreadyLocked
	}
	if e.Path == "" || e.Size <= 0 {
		return Entry{}, fmt.Errorf("%w: %q size %d", ErrInvalidEntry, e.Path, e.Size)
	}
	if e.Name == "" {
		e.Name = filepath.Base(e.Path)
	}

	pk := PathKey(e.Path)
	if prev, ok := c.pathKeys[pk]; ok {
		return Entry{}, fmt.Errorf("%w: %s is already catalogued as %s", ErrDuplicate, e.Path, c.entries[prev].RelPath)
	}
	nk := NameKeyOf(e.Name, e.Size)
	if prev, ok := c.nameKeys[nk]; ok {
		return Entry{}, fmt.Errorf("%w: %s matches %s by name and size", ErrDuplicate, e.Path, c.entries[prev].RelPath)
	}

	cat, err := c.ensure(e.Category)
	if err != nil {
		return Entry{}, err
	}

	e.ID = IDFor(pk)
	e.Category = cat.name
	stored := &e
	cat.entries = append(cat.entries, stored)
	c.entries[e.ID] = stored
	c.pathKeys[pk] = e.ID
	c.nameKeys[nk] = e.ID
	return e, nil
}

// CreateCategory adds an empty category.
func (c *Catalog) CreateCategory(name string) error {
	if c.locked {
		return ErrAlreadyLocked
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrInvalidName
	}
	if existing, ok := c.cats[fold(name)]; ok {
		return fmt.Errorf("create %q: %w as %q", name, ErrNameConflict, existing.name)
	}
	c.cats[fold(name)] = &category{name: name}
	return nil
}

// EnsureCategory returns the canonical name of the category matching name
// case-insensitively, creating it when absent.
func (c *Catalog) EnsureCategory(name string) (string, error) {
	if c.locked {
		return "", ErrAlreadyLocked
	}
	cat, err := c.ensure(name)
	if err != nil {
		return "", err
	}
	return cat.name, nil
}

// HasCategory reports whether a category matches name case-insensitively.
func (c *Catalog) HasCategory(name string) bool {
	_, ok := c.cats[fold(name)]
	return ok
}

// RenameCategory renames old to newName. Changing only the case of a name
// is allowed.
func (c *Catalog) RenameCategory(old, newName string) error {
	if c.locked {
		return ErrAlreadyLocked
	}
	newName = strings.TrimSpace(newName)
	if newName == "" {
		return ErrInvalidName
	}
	cat, ok := c.cats[fold(old)]
	if !ok {
		return fmt.Errorf("category %q: %w", old, ErrNotFound)
	}
	if fold(newName) != fold(old) {
		if existing, taken := c.cats[fold(newName)]; taken {
			return fmt.Errorf("rename %q to %q: %w as %q", cat.name, newName, ErrNameConflict, existing.name)
		}
	}

	delete(c.cats, fold(old))
	cat.name = newName
	c.cats[fold(newName)] = cat
	for _, e := range cat.entries {
		e.Category = newName
	}
	return nil
}

// DeleteCategory removes a category and all of its entries.
func (c *Catalog) DeleteCategory(name string) error {
	if c.locked {
		return ErrAlreadyLocked
	}
	cat, ok := c.cats[fold(name)]
	if !ok {
		return fmt.Errorf("category %q: %w", name, ErrNotFound)
	}
	for _, e := range cat.entries {
		c.forget(e)
	}
	delete(c.cats, fold(name))
	return nil
}

// MoveEntry moves an entry to the end of the target category. Whether a
// missing target is created depends on the catalog Policy.
func (c *Catalog) MoveEntry(id EntryID, target string) error {
	if c.locked {
		return ErrAlreadyLocked
	}
	e, ok := c.entries[id]
	if !ok {
		return fmt.Errorf("entry %s: %w", id, ErrNotFound)
	}
	dst, err := c.target(target)
	if err != nil {
		return err
	}
	c.move(e, dst)
	return nil
}

// DeleteEntry removes a single entry.
func (c *Catalog) DeleteEntry(id EntryID) error {
	if c.locked {
		return ErrAlreadyLocked
	}
	e, ok := c.entries[id]
	if !ok {
		return fmt.Errorf("entry %s: %w", id, ErrNotFound)
	}
	cat := c.cats[fold(e.Category)]
	cat.entries = slices.DeleteFunc(cat.entries, func(x *Entry) bool { return x == e })
	c.forget(e)
	return nil
}

// BulkMove moves every listed entry to target and returns how many moved.
// Ids that are gone, or already in target, are skipped.
func (c *Catalog) BulkMove(ids []EntryID, target string) (int, error) {
	if c.locked {
		return 0, ErrAlreadyLocked
	}
	dst, err := c.target(target)
	if err != nil {
		return 0, err
	}
	moved := 0
	for _, id := range ids {
		e, ok := c.entries[id]
		if !ok || fold(e.Category) == fold(dst.name) {
			continue
		}
		c.move(e, dst)
		moved++
	}
	return moved, nil
}

// BulkDelete removes every listed entry and returns how many were removed.
// Ids that are gone are skipped.
func (c *Catalog) BulkDelete(ids []EntryID) (int, error) {
	if c.locked {
		return 0, ErrAlreadyLocked
	}
	removed := 0
	for _, id := range ids {
		if _, ok := c.entries[id]; !ok {
			continue
		}
		if err := c.DeleteEntry(id); err != nil {
			return removed, err
		}
		removed++
	}
	return removed, nil
}

// Lock freezes the catalog and returns its snapshot. Lock is one-shot; every
// later organization call, including a second Lock, fails with
// ErrAlreadyLocked.
func (c *Catalog) Lock() (*Locked, error) {
	if c.locked {
		return nil, ErrAlreadyLocked
	}
	snap := newLocked(c.Categories())
	c.locked = true
	return snap, nil
}

// Entry returns a copy of the entry with the given id.
func (c *Catalog) Entry(id EntryID) (Entry, bool) {
	e, ok := c.entries[id]
	if !ok {
		return Entry{}, false
	}
	return *e, true
}

// EntryAt returns the entry at a zero-based position within a category.
func (c *Catalog) EntryAt(categoryName string, index int) (Entry, error) {
	cat, ok := c.cats[fold(categoryName)]
	if !ok {
		return Entry{}, fmt.Errorf("category %q: %w", categoryName, ErrNotFound)
	}
	if index < 0 || index >= len(cat.entries) {
		return Entry{}, fmt.Errorf("entry %d in %q: %w", index+1, cat.name, ErrNotFound)
	}
	return *cat.entries[index], nil
}

// Categories returns a copy of every category, sorted case-insensitively by
// name, with entries in insertion order.
func (c *Catalog) Categories() []CategoryView {
	views := make([]CategoryView, 0, len(c.cats))
	for _, cat := range c.sorted() {
		v := CategoryView{Name: cat.name, Entries: make([]Entry, len(cat.entries))}
		for i, e := range cat.entries {
			v.Entries[i] = *e
		}
		views = append(views, v)
	}
	return views
}

func (c *Catalog) sorted() []*category {
	cats := make([]*category, 0, len(c.cats))
	for _, cat := range c.cats {
		cats = append(cats, cat)
	}
	slices.SortFunc(cats, func(a, b *category) int { return CompareNames(a.name, b.name) })
	return cats
}

func (c *Catalog) ensure(name string) (*category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrInvalidName
	}
	if cat, ok := c.cats[fold(name)]; ok {
		return cat, nil
	}
	cat := &category{name: name}
	c.cats[fold(name)] = cat
	return cat, nil
}

func (c *Catalog) target(name string) (*category, error) {
	if cat, ok := c.cats[fold(strings.TrimSpace(name))]; ok {
		return cat, nil
	}
	if c.policy != AutoCreate {
		return nil, fmt.Errorf("category %q: %w", name, ErrTargetNotFound)
	}
	return c.ensure(name)
}

func (c *Catalog) move(e *Entry, dst *category) {
	if fold(e.Category) == fold(dst.name) {
		return
	}
	src := c.cats[fold(e.Category)]
	src.entries = slices.DeleteFunc(src.entries, func(x *Entry) bool { return x == e })
	dst.entries = append(dst.entries, e)
	e.Category = dst.name
}

func (c *Catalog) forget(e *Entry) {
	delete(c.entries, e.ID)
	delete(c.pathKeys, PathKey(e.Path))
	delete(c.nameKeys, NameKeyOf(e.Name, e.Size))
}

func fold(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// CompareNames orders names case-insensitively. Names equal under case
// folding are ordered lowercase-first, so "a.pdf" sorts before "A.PDF".
func CompareNames(a, b string) int {
	if r := cmp.Compare(strings.ToLower(a), strings.ToLower(b)); r != 0 {
		return r
	}
	// Upper-case letters sort below lower-case in byte order; invert it.
	return strings.Compare(b, a)
}
