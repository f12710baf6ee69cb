package ui

import (
	"io"

	"github.com/bamsammich/shelf/internal/event"
	"github.com/bamsammich/shelf/internal/stats"
)

// Presenter receives scanner and executor events and displays progress.
type Presenter interface {
	// Handle is called synchronously for every event.
	Handle(ev Event)
	// Summary returns the final summary line.
	Summary() string
}

// Config configures a Presenter.
type Config struct {
	Writer    io.Writer
	ErrWriter io.Writer
	Stats     *stats.Collector
	DstRoot   string
	Color     bool
	Quiet     bool
	Verbose   bool
}

// NewPresenter creates the appropriate presenter based on configuration.
//
//nolint:ireturn // callers pick the presenter at runtime
func NewPresenter(cfg Config) Presenter {
	if cfg.Quiet {
		return &quietPresenter{stats: cfg.Stats}
	}
	return &plainPresenter{
		w:       cfg.Writer,
		errW:    cfg.ErrWriter,
		stats:   cfg.Stats,
		dstRoot: cfg.DstRoot,
		verbose: cfg.Verbose,
		paint:   painter(cfg.Color),
	}
}

// Sink adapts a Presenter to an event.Sink.
func Sink(p Presenter) event.Sink {
	return p.Handle
}
