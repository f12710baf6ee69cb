package ui

import (
	"fmt"
	"io"

	"github.com/bamsammich/shelf/internal/stats"
)

// plainPresenter prints one line per copy action to w and warnings to errW.
// Scan detail (exclusions, duplicates) is only shown when verbose.
type plainPresenter struct {
	w       io.Writer
	errW    io.Writer
	stats   *stats.Collector
	dstRoot string
	verbose bool
	paint   painter
}

func (p *plainPresenter) Handle(ev Event) {
	switch ev.Type {
	case ScanStarted:
		if p.verbose {
			fmt.Fprintf(p.errW, "scanning %s\n", ev.Path)
		}
	case FileExcluded:
		if p.verbose {
			fmt.Fprintf(p.errW, "skip (%s) %s\n", ev.Reason, ev.Path)
		}
	case FileDuplicate:
		if p.verbose {
			fmt.Fprintf(p.errW, "duplicate %s\n", ev.Path)
		}
	case Unreadable:
		fmt.Fprintf(p.errW, "%s cannot read %s: %v\n", p.paint.paint(styleError, "warning:"), ev.Path, ev.Error)
	case FileCopied:
		fmt.Fprintf(p.w, "  %s %s -> %s  %s\n",
			p.paint.paint(styleIconDone, "✓"),
			ev.Path, p.dest(ev.Dest), p.paint.paint(styleMuted, FormatBytes(ev.Size)))
	case FileSkipped:
		fmt.Fprintf(p.w, "  %s %s  %s\n",
			p.paint.paint(styleIconSkipped, "-"),
			p.dest(ev.Dest), p.paint.paint(styleMuted, "skipped ("+ev.Reason+")"))
	case FileFailed:
		errMsg := "error"
		if ev.Error != nil {
			errMsg = ev.Error.Error()
		}
		fmt.Fprintf(p.w, "  %s %s -> %s  %s\n",
			p.paint.paint(styleIconFailed, "✗"),
			ev.Path, p.dest(ev.Dest), p.paint.paint(styleError, errMsg))
	case VerifyFailed:
		fmt.Fprintf(p.w, "  MISMATCH: %s\n", p.dest(ev.Dest))
	case ItemComplete:
		fmt.Fprintf(p.w, "  Completed %s (%s copied).\n",
			p.paint.paint(styleCategory, ev.Category), FormatBytes(ev.Size))
	}
}

func (p *plainPresenter) dest(path string) string {
	return StripRoot(p.dstRoot, path)
}

func (p *plainPresenter) Summary() string {
	if p.stats == nil {
		return ""
	}
	return completionSummary(p.stats.Snapshot())
}
