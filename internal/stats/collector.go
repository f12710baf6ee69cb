package stats

import (
	"fmt"
	"sync/atomic"
	"time"
)

// Collector tracks scan and copy statistics using atomic counters.
type Collector struct {
	filesSeen         atomic.Int64
	filesIncluded     atomic.Int64
	filesExcluded     atomic.Int64
	duplicates        atomic.Int64
	unreadable        atomic.Int64
	bytesIncluded     atomic.Int64
	filesCopied       atomic.Int64
	filesSkipped      atomic.Int64
	filesFailed       atomic.Int64
	bytesCopied       atomic.Int64
	dirsCreated       atomic.Int64
	filesVerified     atomic.Int64
	filesVerifyFailed atomic.Int64
	startTime         time.Time
}

// NewCollector creates a Collector with startTime set to now.
func NewCollector() *Collector {
	return &Collector{startTime: time.Now()}
}

// Snapshot is a point-in-time read of all counters.
type Snapshot struct {
	FilesSeen         int64
	FilesIncluded     int64
	FilesExcluded     int64
	Duplicates        int64
	Unreadable        int64
	BytesIncluded     int64
	FilesCopied       int64
	FilesSkipped      int64
	FilesFailed       int64
	BytesCopied       int64
	DirsCreated       int64
	FilesVerified     int64
	FilesVerifyFailed int64
	Elapsed           time.Duration
}

func (c *Collector) AddFilesSeen(n int64)         { c.filesSeen.Add(n) }
func (c *Collector) AddFilesIncluded(n int64)     { c.filesIncluded.Add(n) }
func (c *Collector) AddFilesExcluded(n int64)     { c.filesExcluded.Add(n) }
func (c *Collector) AddDuplicates(n int64)        { c.duplicates.Add(n) }
func (c *Collector) AddUnreadable(n int64)        { c.unreadable.Add(n) }
func (c *Collector) AddBytesIncluded(n int64)     { c.bytesIncluded.Add(n) }
func (c *Collector) AddFilesCopied(n int64)       { c.filesCopied.Add(n) }
func (c *Collector) AddFilesSkipped(n int64)      { c.filesSkipped.Add(n) }
func (c *Collector) AddFilesFailed(n int64)       { c.filesFailed.Add(n) }
func (c *Collector) AddBytesCopied(n int64)       { c.bytesCopied.Add(n) }
func (c *Collector) AddDirsCreated(n int64)       { c.dirsCreated.Add(n) }
func (c *Collector) AddFilesVerified(n int64)     { c.filesVerified.Add(n) }
func (c *Collector) AddFilesVerifyFailed(n int64) { c.filesVerifyFailed.Add(n) }

// Snapshot returns a point-in-time read of all counters.
func (c *Collector) Snapshot() Snapshot {
	return Snapshot{
		FilesSeen:         c.filesSeen.Load(),
		FilesIncluded:     c.filesIncluded.Load(),
		FilesExcluded:     c.filesExcluded.Load(),
		Duplicates:        c.duplicates.Load(),
		Unreadable:        c.unreadable.Load(),
		BytesIncluded:     c.bytesIncluded.Load(),
		FilesCopied:       c.filesCopied.Load(),
		FilesSkipped:      c.filesSkipped.Load(),
		FilesFailed:       c.filesFailed.Load(),
		BytesCopied:       c.bytesCopied.Load(),
		DirsCreated:       c.dirsCreated.Load(),
		FilesVerified:     c.filesVerified.Load(),
		FilesVerifyFailed: c.filesVerifyFailed.Load(),
		Elapsed:           c.Elapsed(),
	}
}

// Elapsed returns time since collector creation.
func (c *Collector) Elapsed() time.Duration {
	return time.Since(c.startTime)
}

// Speed returns the average bytes/sec copied over the snapshot's elapsed
// time.
func (s Snapshot) Speed() float64 {
	secs := s.Elapsed.Seconds()
	if secs <= 0 {
		return 0
	}
	return float64(s.BytesCopied) / secs
}

func (s Snapshot) String() string {
	return fmt.Sprintf(
		"seen=%d included=%d excluded=%d duplicates=%d unreadable=%d copied=%d skipped=%d failed=%d bytes=%d",
		s.FilesSeen, s.FilesIncluded, s.FilesExcluded, s.Duplicates, s.Unreadable,
		s.FilesCopied, s.FilesSkipped, s.FilesFailed, s.BytesCopied,
	)
}

// FormatBytes returns a human-readable byte count.
func FormatBytes(b int64) string {
	const unit = 1024
	if b < unit {
		return fmt.Sprintf("%d B", b)
	}
	div, exp := int64(unit), 0
	for n := b / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(b)/float64(div), "KMGTPE"[exp])
}
