package ui

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/bamsammich/shelf/internal/catalog"
)

// OrganizeConfig configures an organization session.
type OrganizeConfig struct {
	Prompter *Prompter
	Writer   io.Writer
	Color    bool
}

const organizeMenu = `
Options:
  1) Rename a category
  2) Remove an entire category
  3) Move a single entry to another category
  4) Remove a single entry
  5) Bulk select by pattern (move/remove)
  6) Finish organization`

// Organize runs the interactive review over cat until the user finishes or
// input runs out, then locks the catalog and returns the snapshot. Every
// change goes through catalog.Apply.
func Organize(cat *catalog.Catalog, cfg OrganizeConfig) (*catalog.Locked, error) {
	o := &organizer{cat: cat, p: cfg.Prompter, w: cfg.Writer, color: cfg.Color}

	fmt.Fprintln(o.w, "\nReview stage: reorganize categories before any copying.")
	fmt.Fprintln(o.w, "Use option 5 for wildcard (e.g. *draft*) or regex (e.g. data_\\d+) bulk edits inside a category.")

	for {
		fmt.Fprintln(o.w)
		RenderCategories(o.w, cat.Categories(), o.color)
		fmt.Fprintln(o.w, organizeMenu)

		choice, err := o.p.Ask("Select an option [1-6]: ")
		if err != nil {
			return o.stop(err)
		}

		var (
			locked  *catalog.Locked
			stepErr error
		)
		switch choice {
		case "1":
			stepErr = o.rename()
		case "2":
			stepErr = o.removeCategory()
		case "3":
			stepErr = o.moveEntry()
		case "4":
			stepErr = o.removeEntry()
		case "5":
			stepErr = o.bulk()
		case "6":
			locked, stepErr = o.finish()
		default:
			o.p.Notice("Invalid option. Please choose 1-6.")
		}
		if stepErr != nil {
			return o.stop(stepErr)
		}
		if locked != nil {
			return locked, nil
		}
	}
}

type organizer struct {
	cat   *catalog.Catalog
	p     *Prompter
	w     io.Writer
	color bool
}

// stop ends the session. End of input locks the current state.
func (o *organizer) stop(err error) (*catalog.Locked, error) {
	if !errors.Is(err, io.EOF) {
		return nil, err
	}
	o.p.Notice("Input closed; finishing organization with the current list.")
	res, err := o.apply(catalog.Done{})
	if err != nil {
		return nil, err
	}
	return res.Locked, nil
}

func (o *organizer) apply(cmd catalog.Command) (catalog.Result, error) {
	res, err := o.cat.Apply(cmd)
	slog.Debug("organize", "command", fmt.Sprintf("%T", cmd), "affected", res.Affected, "error", err)
	return res, err
}

// applyToTarget applies cmd and, when its target category is missing,
// offers to create it and retries once.
func (o *organizer) applyToTarget(cmd catalog.Command, target string) (catalog.Result, bool, error) {
	res, err := o.apply(cmd)
	if !errors.Is(err, catalog.ErrTargetNotFound) {
		return res, err == nil, o.report(err)
	}
	ok, perr := o.p.Confirm(fmt.Sprintf("Category '%s' does not exist. Create it?", target))
	if perr != nil {
		return res, false, perr
	}
	if !ok {
		o.p.Notice("Cancelled.")
		return res, false, nil
	}
	if _, err := o.apply(catalog.Create{Name: target}); err != nil {
		return res, false, o.report(err)
	}
	res, err = o.apply(cmd)
	return res, err == nil, o.report(err)
}

// report prints a catalog error as a notice. Only prompt errors are
// returned to the caller.
func (o *organizer) report(err error) error {
	if err != nil {
		o.p.Notice("%v", err)
	}
	return nil
}

func (o *organizer) askCategory(msg string) (string, bool, error) {
	name, err := o.p.Ask(msg)
	if err != nil {
		return "", false, err
	}
	if !o.cat.HasCategory(name) {
		o.p.Notice("Category not found.")
		return "", false, nil
	}
	return name, true, nil
}

func (o *organizer) askEntry(category, msg string) (catalog.Entry, bool, error) {
	raw, err := o.p.Ask(msg)
	if err != nil {
		return catalog.Entry{}, false, err
	}
	idx, convErr := strconv.Atoi(raw)
	if convErr != nil {
		o.p.Notice("Invalid number.")
		return catalog.Entry{}, false, nil
	}
	e, err := o.cat.EntryAt(category, idx-1)
	if err != nil {
		o.p.Notice("Entry number out of range.")
		return catalog.Entry{}, false, nil
	}
	return e, true, nil
}

func (o *organizer) rename() error {
	current, ok, err := o.askCategory("Enter the category to rename: ")
	if err != nil || !ok {
		return err
	}
	newName, err := o.p.Ask("Enter the new category name: ")
	if err != nil {
		return err
	}
	if newName == "" {
		o.p.Notice("No name provided.")
		return nil
	}
	yes, err := o.p.Confirm(fmt.Sprintf("Rename category '%s' to '%s'?", current, newName))
	if err != nil {
		return err
	}
	if !yes {
		o.p.Notice("Rename cancelled.")
		return nil
	}
	if _, err := o.apply(catalog.Rename{From: current, To: newName}); err != nil {
		return o.report(err)
	}
	o.p.Notice("Renamed '%s' to '%s'.", current, newName)
	return nil
}

func (o *organizer) removeCategory() error {
	target, ok, err := o.askCategory("Enter the category to remove: ")
	if err != nil || !ok {
		return err
	}
	yes, err := o.p.Confirm(fmt.Sprintf("Remove category '%s' and all its entries?", target))
	if err != nil {
		return err
	}
	if !yes {
		o.p.Notice("Removal cancelled.")
		return nil
	}
	res, err := o.apply(catalog.DeleteCategory{Name: target})
	if err != nil {
		return o.report(err)
	}
	o.p.Notice("Removed category '%s' (%s).", target, Plural(res.Affected, "entry"))
	return nil
}

func (o *organizer) moveEntry() error {
	category, ok, err := o.askCategory("Enter the category of the entry to move: ")
	if err != nil || !ok {
		return err
	}
	e, ok, err := o.askEntry(category, "Enter the entry number to move (see table): ")
	if err != nil || !ok {
		return err
	}
	dest, err := o.p.Ask("Enter the destination category name: ")
	if err != nil {
		return err
	}
	if dest == "" {
		o.p.Notice("No destination provided.")
		return nil
	}
	yes, err := o.p.Confirm(fmt.Sprintf("Move '%s' from '%s' to '%s'?", e.Name, e.Category, dest))
	if err != nil {
		return err
	}
	if !yes {
		o.p.Notice("Move cancelled.")
		return nil
	}
	_, moved, err := o.applyToTarget(catalog.Move{ID: e.ID, Target: dest}, dest)
	if err != nil {
		return err
	}
	if moved {
		o.p.Notice("Moved '%s' to '%s'.", e.Name, dest)
	}
	return nil
}

func (o *organizer) removeEntry() error {
	category, ok, err := o.askCategory("Enter the category of the entry to remove: ")
	if err != nil || !ok {
		return err
	}
	e, ok, err := o.askEntry(category, "Enter the entry number to remove (see table): ")
	if err != nil || !ok {
		return err
	}
	yes, err := o.p.Confirm(fmt.Sprintf("Remove '%s' from the list?", e.Name))
	if err != nil {
		return err
	}
	if !yes {
		o.p.Notice("Removal cancelled.")
		return nil
	}
	if _, err := o.apply(catalog.DeleteEntry{ID: e.ID}); err != nil {
		return o.report(err)
	}
	o.p.Notice("Removed '%s'.", e.Name)
	return nil
}

func (o *organizer) bulk() error {
	category, ok, err := o.askCategory("Enter the category to search within: ")
	if err != nil || !ok {
		return err
	}
	pattern, err := o.p.Ask("Enter a pattern (wildcards like *draft* or regex such as data_\\d+): ")
	if err != nil {
		return err
	}
	if pattern == "" {
		o.p.Notice("No pattern provided.")
		return nil
	}
	regex, err := o.p.YesNo("Treat pattern as regex?", true)
	if err != nil {
		return err
	}
	kind := catalog.PatternWildcard
	if regex {
		kind = catalog.PatternRegex
	}

	ids, err := o.cat.BulkSelectIn(category, pattern, kind)
	if err != nil {
		return o.report(err)
	}
	if len(ids) == 0 {
		o.p.Notice("No entries matched that pattern.")
		return nil
	}
	fmt.Fprintln(o.w, "\nMatched entries:")
	for _, id := range ids {
		if e, ok := o.cat.Entry(id); ok {
			fmt.Fprintf(o.w, "  - %s\n", e.Name)
		}
	}

	action, err := o.p.Ask("Choose action for all matches [move/remove/cancel]: ")
	if err != nil {
		return err
	}
	switch strings.ToLower(action) {
	case "remove":
		yes, err := o.p.Confirm(fmt.Sprintf("Remove %s from '%s'?", Plural(len(ids), "entry"), category))
		if err != nil {
			return err
		}
		if !yes {
			o.p.Notice("Removal cancelled.")
			return nil
		}
		res, err := o.apply(catalog.BulkDelete{IDs: ids})
		if err != nil {
			return o.report(err)
		}
		o.p.Notice("Removed %s.", Plural(res.Affected, "entry"))
	case "move":
		dest, err := o.p.Ask("Enter the destination category: ")
		if err != nil {
			return err
		}
		if dest == "" {
			o.p.Notice("No destination provided.")
			return nil
		}
		yes, err := o.p.Confirm(fmt.Sprintf("Move %s to '%s'?", Plural(len(ids), "entry"), dest))
		if err != nil {
			return err
		}
		if !yes {
			o.p.Notice("Move cancelled.")
			return nil
		}
		res, moved, err := o.applyToTarget(catalog.BulkMove{IDs: ids, Target: dest}, dest)
		if err != nil {
			return err
		}
		if moved {
			o.p.Notice("Moved %s to '%s'.", Plural(res.Affected, "entry"), dest)
		}
	default:
		o.p.Notice("Bulk action cancelled.")
	}
	return nil
}

func (o *organizer) finish() (*catalog.Locked, error) {
	yes, err := o.p.Confirm("Finish organization and lock in the current list?")
	if err != nil {
		return nil, err
	}
	if !yes {
		o.p.Notice("Continuing review stage.")
		return nil, nil
	}
	res, err := o.apply(catalog.Done{})
	if err != nil {
		return nil, err
	}
	o.p.Notice("Organization complete: %s locked in.", Plural(res.Locked.Len(), "entry"))
	return res.Locked, nil
}
