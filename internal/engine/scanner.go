package engine

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"slices"

	"github.com/bamsammich/shelf/internal/catalog"
	"github.com/bamsammich/shelf/internal/event"
	"github.com/bamsammich/shelf/internal/filter"
	"github.com/bamsammich/shelf/internal/stats"
)

var (
	// ErrRootNotFound reports a scan root that does not exist.
	ErrRootNotFound = errors.New("root not found")
	// ErrRootNotDir reports a scan root that is not a directory.
	ErrRootNotDir = errors.New("root is not a directory")
)

// ScanError is returned when the scan cannot start.
type ScanError struct {
	Root string
	Err  error
}

func (e *ScanError) Error() string { return fmt.Sprintf("scan %s: %v", e.Root, e.Err) }
func (e *ScanError) Unwrap() error { return e.Err }

// ScanConfig controls a scan.
type ScanConfig struct {
	Root           string
	Classifier     *filter.Classifier
	CatalogOptions []catalog.Option
	Events         event.Sink
	Stats          *stats.Collector
}

// ScanReport counts what the scan saw.
type ScanReport struct {
	Excluded   map[filter.Reason]int
	Root       string // absolute, symlinks resolved
	Seen       int
	Included   int
	Duplicates int
	Unreadable int
	Bytes      int64
}

// ExcludedTotal sums the excluded counts over all reasons.
func (r ScanReport) ExcludedTotal() int {
	n := 0
	for _, c := range r.Excluded {
		n += c
	}
	return n
}

type scanner struct {
	cfg    ScanConfig
	cat    *catalog.Catalog
	report ScanReport
}

// Scan walks cfg.Root depth-first and returns a catalog of the documents
// found. Siblings are visited in case-insensitive name order so the result
// is reproducible. Hidden and rule-excluded directories are pruned, and
// directory symlinks are not followed. Unreadable entries are counted and
// skipped. A scan that finds nothing returns an empty catalog and nil.
func Scan(ctx context.Context, cfg ScanConfig) (*catalog.Catalog, ScanReport, error) {
	root, err := resolveRoot(cfg.Root)
	if err != nil {
		return nil, ScanReport{}, err
	}
	if cfg.Classifier == nil {
		cfg.Classifier = filter.NewClassifier(filter.Config{})
	}
	if cfg.Stats == nil {
		cfg.Stats = stats.NewCollector()
	}

	s := &scanner{
		cfg:    cfg,
		cat:    catalog.New(cfg.CatalogOptions...),
		report: ScanReport{Root: root, Excluded: make(map[filter.Reason]int)},
	}

	cfg.Events.Emit(event.Event{Type: event.ScanStarted, Path: root})
	slog.Debug("scan started", "root", root)

	if err := s.walk(ctx, root, ""); err != nil {
		return nil, s.report, err
	}

	cfg.Events.Emit(event.Event{
		Type:      event.ScanComplete,
		Path:      root,
		Total:     int64(s.report.Included),
		TotalSize: s.report.Bytes,
	})
	slog.Debug("scan complete",
		"root", root,
		"seen", s.report.Seen,
		"included", s.report.Included,
		"duplicates", s.report.Duplicates,
		"unreadable", s.report.Unreadable,
	)
	return s.cat, s.report, nil
}

func resolveRoot(root string) (string, error) {
	if root == "" {
		root = "."
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return "", &ScanError{Root: root, Err: err}
	}
	info, err := os.Stat(abs)
	if errors.Is(err, fs.ErrNotExist) {
		return "", &ScanError{Root: abs, Err: fmt.Errorf("%w: %w", ErrRootNotFound, err)}
	}
	if err != nil {
		return "", &ScanError{Root: abs, Err: err}
	}
	if !info.IsDir() {
		return "", &ScanError{Root: abs, Err: ErrRootNotDir}
	}
	if resolved, err := filepath.EvalSymlinks(abs); err == nil {
		abs = resolved
	}
	return abs, nil
}

func (s *scanner) walk(ctx context.Context, dir, rel string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		s.unreadable(rel, err)
		if len(entries) == 0 {
			return nil
		}
	}
	slices.SortFunc(entries, func(a, b fs.DirEntry) int {
		return catalog.CompareNames(a.Name(), b.Name())
	})

	for _, de := range entries {
		if err := ctx.Err(); err != nil {
			return err
		}
		full := filepath.Join(dir, de.Name())
		childRel := joinRel(rel, de.Name())

		switch {
		case de.IsDir():
			if s.cfg.Classifier.SkipDir(childRel) {
				slog.Debug("skip dir", "path", childRel)
				continue
			}
			if err := s.walk(ctx, full, childRel); err != nil {
				return err
			}
		case de.Type()&fs.ModeSymlink != 0:
			if err := s.symlink(full, childRel, de.Name()); err != nil {
				return err
			}
		case de.Type().IsRegular():
			info, err := de.Info()
			if err != nil {
				s.unreadable(childRel, err)
				continue
			}
			if err := s.file(full, childRel, de.Name(), info.Size()); err != nil {
				return err
			}
		}
	}
	return nil
}

// symlink resolves a link to a regular file and catalogues the target.
// Links to directories are not followed.
func (s *scanner) symlink(full, rel, name string) error {
	info, err := os.Stat(full)
	if err != nil {
		s.unreadable(rel, err)
		return nil
	}
	if !info.Mode().IsRegular() {
		return nil
	}
	target, err := filepath.EvalSymlinks(full)
	if err != nil {
		s.unreadable(rel, err)
		return nil
	}
	return s.file(target, rel, name, info.Size())
}

func (s *scanner) file(path, rel, name string, size int64) error {
	s.report.Seen++
	s.cfg.Stats.AddFilesSeen(1)

	v := s.cfg.Classifier.Classify(rel, size)
	if !v.Included() {
		s.report.Excluded[v.Reason]++
		s.cfg.Stats.AddFilesExcluded(1)
		s.cfg.Events.Emit(event.Event{Type: event.FileExcluded, Path: rel, Reason: v.Reason.String(), Size: size})
		// An empty document still makes its folder visible as a category.
		if v.Reason == filter.ZeroByte && s.cfg.Classifier.IsTarget(v.Ext) && !filter.IsHiddenName(name) {
			if _, err := s.cat.EnsureCategory(v.Category); err != nil {
				s.rejected(rel, err)
			}
		}
		return nil
	}

	e, err := s.cat.Add(catalog.Entry{
		Path:     path,
		RelPath:  rel,
		Name:     name,
		Ext:      v.Ext,
		Category: v.Category,
		Size:     size,
	})
	if errors.Is(err, catalog.ErrDuplicate) {
		s.report.Duplicates++
		s.cfg.Stats.AddDuplicates(1)
		s.cfg.Events.Emit(event.Event{Type: event.FileDuplicate, Path: rel, Size: size})
		slog.Debug("duplicate", "path", rel, "error", err)
		return nil
	}
	if errors.Is(err, catalog.ErrInvalidName) || errors.Is(err, catalog.ErrInvalidEntry) {
		s.rejected(rel, err)
		return nil
	}
	if err != nil {
		return fmt.Errorf("catalog %s: %w", rel, err)
	}

	s.report.Included++
	s.report.Bytes += size
	s.cfg.Stats.AddFilesIncluded(1)
	s.cfg.Stats.AddBytesIncluded(size)
	s.cfg.Events.Emit(event.Event{Type: event.FileIncluded, Path: rel, Category: e.Category, Size: size})
	return nil
}

// rejected counts a file the catalog refused as unreadable; one odd name
// never ends the scan.
func (s *scanner) rejected(rel string, err error) {
	s.unreadable(rel, fmt.Errorf("catalog: %w", err))
}

func (s *scanner) unreadable(rel string, err error) {
	s.report.Unreadable++
	s.cfg.Stats.AddUnreadable(1)
	s.cfg.Events.Emit(event.Event{Type: event.Unreadable, Path: rel, Error: err})
	slog.Debug("unreadable", "path", rel, "error", err)
}

func joinRel(rel, name string) string {
	if rel == "" {
		return name
	}
	return rel + "/" + name
}
