package catalog

import "fmt"

// Command is one organization action. The concrete types below are the
// complete set; Apply dispatches on them.
type Command interface {
	command()
}

type (
	// Create adds an empty category.
	Create struct{ Name string }
	// Rename renames a category.
	Rename struct{ From, To string }
	// DeleteCategory removes a category with its entries.
	DeleteCategory struct{ Name string }
	// Move moves one entry.
	Move struct {
		ID     EntryID
		Target string
	}
	// DeleteEntry removes one entry.
	DeleteEntry struct{ ID EntryID }
	// BulkMove moves a selection.
	BulkMove struct {
		IDs    []EntryID
		Target string
	}
	// BulkDelete removes a selection.
	BulkDelete struct{ IDs []EntryID }
	// Done ends organization and locks the catalog.
	Done struct{}
)

func (Create) command()         {}
func (Rename) command()         {}
func (DeleteCategory) command() {}
func (Move) command()           {}
func (DeleteEntry) command()    {}
func (BulkMove) command()       {}
func (BulkDelete) command()     {}
func (Done) command()           {}

// Result reports what a command did. Locked is set only for Done.
type Result struct {
	Locked   *Locked
	Affected int
}

// Apply executes cmd against the catalog.
func (c *Catalog) Apply(cmd Command) (Result, error) {
	switch cmd := cmd.(type) {
	case Create:
		return affected(1, c.CreateCategory(cmd.Name))
	case Rename:
		return affected(1, c.RenameCategory(cmd.From, cmd.To))
	case DeleteCategory:
		n := 0
		if cat, ok := c.cats[fold(cmd.Name)]; ok {
			n = len(cat.entries)
		}
		return affected(n, c.DeleteCategory(cmd.Name))
	case Move:
		return affected(1, c.MoveEntry(cmd.ID, cmd.Target))
	case DeleteEntry:
		return affected(1, c.DeleteEntry(cmd.ID))
	case BulkMove:
		n, err := c.BulkMove(cmd.IDs, cmd.Target)
		return Result{Affected: n}, err
	case BulkDelete:
		n, err := c.BulkDelete(cmd.IDs)
		return Result{Affected: n}, err
	case Done:
		l, err := c.Lock()
		if err != nil {
			return Result{}, err
		}
		return Result{Locked: l, Affected: l.Len()}, nil
	case nil:
		return Result{}, fmt.Errorf("nil command")
	default:
		return Result{}, fmt.Errorf("unknown command %T", cmd)
	}
}

func affected(n int, err error) (Result, error) {
	if err != nil {
		return Result{}, err
	}
	return Result{Affected: n}, nil
}
