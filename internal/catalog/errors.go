package catalog

import "errors"

var (
	// ErrNotFound reports a missing category or entry.
	ErrNotFound = errors.New("not found")
	// ErrNameConflict reports a rename or create onto an existing category.
	ErrNameConflict = errors.New("category already exists")
	// ErrTargetNotFound reports a move into a missing category while the
	// catalog requires targets to exist.
	ErrTargetNotFound = errors.New("target category not found")
	// ErrAlreadyLocked reports an organization call after Lock.
	ErrAlreadyLocked = errors.New("catalog is locked")
	// ErrDuplicate reports an Add whose fingerprint is already present.
	ErrDuplicate = errors.New("duplicate entry")
	// ErrBadPattern reports an unparsable selection pattern.
	ErrBadPattern = errors.New("invalid pattern")
	// ErrInvalidName reports an empty category name.
	ErrInvalidName = errors.New("invalid category name")
	// ErrInvalidEntry reports an entry without a path or with size <= 0.
	ErrInvalidEntry = errors.New("invalid entry")
)
