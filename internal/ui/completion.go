package ui

import (
	"fmt"

	"github.com/bamsammich/shelf/internal/stats"
)

// completionSummary builds the final copy summary line.
// Format: done ✓  copied 48  skipped 3  size 2.1 GiB  avg 641 MB/s  time 3m 17s  errors 0
func completionSummary(snap stats.Snapshot) string {
	icon := "✓"
	if snap.FilesFailed > 0 {
		icon = "✗"
	}

	base := fmt.Sprintf("done %s  copied %s  skipped %s  size %s  avg %s  time %s",
		icon,
		FormatCount(snap.FilesCopied),
		FormatCount(snap.FilesSkipped),
		FormatBytes(snap.BytesCopied),
		FormatRate(snap.Speed()),
		FormatDuration(snap.Elapsed),
	)

	if snap.FilesVerified > 0 || snap.FilesVerifyFailed > 0 {
		base += fmt.Sprintf("  verified %s", FormatCount(snap.FilesVerified))
	}

	return base + fmt.Sprintf("  errors %d", snap.FilesFailed)
}

// ScanSummary describes a finished scan in one line. Candidates are the
// documents that passed classification, before duplicates were dropped.
func ScanSummary(candidates, kept int) string {
	return fmt.Sprintf("Discovered %s; %d after deduplication.", Plural(candidates, "candidate"), kept)
}
