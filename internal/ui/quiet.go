package ui

import "github.com/bamsammich/shelf/internal/stats"

// quietPresenter consumes events but produces no output.
type quietPresenter struct {
	stats *stats.Collector
}

func (p *quietPresenter) Handle(Event) {}

func (p *quietPresenter) Summary() string {
	return ""
}
