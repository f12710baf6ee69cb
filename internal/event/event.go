package event

import "time"

// Type identifies the kind of event.
type Type int

const (
	ScanStarted Type = iota + 1
	FileIncluded
	FileExcluded
	FileDuplicate
	Unreadable
	ScanComplete
	ItemStarted
	DirCreated
	FileCopied
	FileSkipped
	FileFailed
	VerifyOK
	VerifyFailed
	ItemComplete
)

var typeNames = [...]string{
	ScanStarted:   "ScanStarted",
	FileIncluded:  "FileIncluded",
	FileExcluded:  "FileExcluded",
	FileDuplicate: "FileDuplicate",
	Unreadable:    "Unreadable",
	ScanComplete:  "ScanComplete",
	ItemStarted:   "ItemStarted",
	DirCreated:    "DirCreated",
	FileCopied:    "FileCopied",
	FileSkipped:   "FileSkipped",
	FileFailed:    "FileFailed",
	VerifyOK:      "VerifyOK",
	VerifyFailed:  "VerifyFailed",
	ItemComplete:  "ItemComplete",
}

func (t Type) String() string {
	if t > 0 && int(t) < len(typeNames) {
		return typeNames[t]
	}
	return "Unknown"
}

// Event represents a single progress event from the scanner or executor.
type Event struct {
	Type      Type
	Timestamp time.Time
	Path      string // source path, relative to the scan root while scanning
	Dest      string // destination path (copy events)
	Category  string
	Reason    string // exclusion reason or skip outcome
	Size      int64
	Total     int64 // entry count (ScanComplete, ItemStarted)
	TotalSize int64 // byte count (ScanComplete, ItemStarted)
	Error     error
}

// Sink receives events synchronously on the caller's goroutine.
type Sink func(Event)

// Emit delivers e to s, stamping the time if unset. A nil Sink drops events.
func (s Sink) Emit(e Event) {
	if s == nil {
		return
	}
	if e.Timestamp.IsZero() {
		e.Timestamp = time.Now()
	}
	s(e)
}

// Tee returns a Sink that delivers each event to every non-nil sink in order.
func Tee(sinks ...Sink) Sink {
	var live []Sink
	for _, s := range sinks {
		if s != nil {
			live = append(live, s)
		}
	}
	switch len(live) {
	case 0:
		return nil
	case 1:
		return live[0]
	}
	return func(e Event) {
		for _, s := range live {
			s(e)
		}
	}
}
