package ui

import "github.com/bamsammich/shelf/internal/event"

// Event is re-exported for presenter code.
type Event = event.Event

// Re-export event types for convenience.
const (
	ScanStarted   = event.ScanStarted
	FileIncluded  = event.FileIncluded
	FileExcluded  = event.FileExcluded
	FileDuplicate = event.FileDuplicate
	Unreadable    = event.Unreadable
	ScanComplete  = event.ScanComplete
	ItemStarted   = event.ItemStarted
	DirCreated    = event.DirCreated
	FileCopied    = event.FileCopied
	FileSkipped   = event.FileSkipped
	FileFailed    = event.FileFailed
	VerifyOK      = event.VerifyOK
	VerifyFailed  = event.VerifyFailed
	ItemComplete  = event.ItemComplete
)
