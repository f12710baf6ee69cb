package catalog

// CategoryView is a read-only copy of one category.
type CategoryView struct {
	Name    string
	Entries []Entry
}

// Size returns the summed size of the category's entries.
func (v CategoryView) Size() int64 {
	var n int64
	for _, e := range v.Entries {
		n += e.Size
	}
	return n
}

// Locked is the frozen result of organization. It never changes once built.
type Locked struct {
	cats  []CategoryView
	count int
	size  int64
}

func newLocked(cats []CategoryView) *Locked {
	l := &Locked{cats: cats}
	for _, c := range cats {
		l.count += len(c.Entries)
		l.size += c.Size()
	}
	return l
}

// Categories returns a copy of the snapshot's categories in listing order.
func (l *Locked) Categories() []CategoryView {
	out := make([]CategoryView, len(l.cats))
	for i, c := range l.cats {
		out[i] = CategoryView{Name: c.Name, Entries: append([]Entry(nil), c.Entries...)}
	}
	return out
}

// Category returns the named category, matched case-insensitively.
func (l *Locked) Category(name string) (CategoryView, bool) {
	for _, c := range l.cats {
		if fold(c.Name) == fold(name) {
			return CategoryView{Name: c.Name, Entries: append([]Entry(nil), c.Entries...)}, true
		}
	}
	return CategoryView{}, false
}

// Len returns the number of entries in the snapshot.
func (l *Locked) Len() int { return l.count }

// Size returns the total bytes in the snapshot.
func (l *Locked) Size() int64 { return l.size }
