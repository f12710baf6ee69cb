// Package platform copies file contents using the cheapest mechanism the
// operating system offers, falling back to buffered positional I/O.
package platform

import "os"

// CopyMethod identifies which syscall/strategy was used for a copy.
type CopyMethod int

const (
	ReadWrite     CopyMethod = iota
	CopyFileRange            // Linux copy_file_range(2)
)

func (m CopyMethod) String() string {
	switch m {
	case ReadWrite:
		return "read_write"
	case CopyFileRange:
		return "copy_file_range"
	default:
		return "unknown"
	}
}

// CopyResult reports the outcome of a copy operation.
type CopyResult struct {
	BytesWritten int64
	Method       CopyMethod
}

// CopyParams describes a whole-file copy between two open files. Both
// files are positioned by offset, never by their current seek position.
type CopyParams struct {
	Src  *os.File
	Dst  *os.File
	Size int64
}
