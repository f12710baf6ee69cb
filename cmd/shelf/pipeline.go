package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/bamsammich/shelf/internal/catalog"
	"github.com/bamsammich/shelf/internal/engine"
	"github.com/bamsammich/shelf/internal/event"
	"github.com/bamsammich/shelf/internal/export"
	"github.com/bamsammich/shelf/internal/filter"
	"github.com/bamsammich/shelf/internal/stats"
	"github.com/bamsammich/shelf/internal/ui"
)

// pipeline runs one scan → export → organize → copy session.
type pipeline struct {
	opts      *options
	st        streams
	prompt    *ui.Prompter
	stats     *stats.Collector
	presenter ui.Presenter
	events    event.Sink
}

func runPipeline(ctx context.Context, opts *options, st streams) error {
	p := &pipeline{
		opts:   opts,
		st:     st,
		prompt: ui.NewPrompter(st.in, st.out, opts.yes),
		stats:  stats.NewCollector(),
	}
	p.prompt.SetColor(st.color)

	dstRoot := opts.copyDest
	if abs, err := filepath.Abs(dstRoot); err == nil && dstRoot != "" {
		dstRoot = abs
	}
	p.presenter = ui.NewPresenter(ui.Config{
		Writer:    st.out,
		ErrWriter: st.errOut,
		Stats:     p.stats,
		DstRoot:   dstRoot,
		Color:     st.color,
		Quiet:     opts.quiet,
		Verbose:   opts.verbose,
	})
	p.events = ui.Sink(p.presenter)
	if opts.logFile != "" {
		p.events = event.Tee(p.events, logEvent)
	}

	cat, err := p.scan(ctx)
	if err != nil {
		return err
	}
	if err := p.export(cat); err != nil {
		return err
	}
	locked, err := p.organize(cat)
	if err != nil {
		return err
	}
	return p.copy(ctx, locked)
}

// logEvent writes each event to the structured log.
func logEvent(ev event.Event) {
	attrs := []slog.Attr{
		slog.String("type", ev.Type.String()),
		slog.String("path", ev.Path),
		slog.Int64("size", ev.Size),
	}
	if ev.Dest != "" {
		attrs = append(attrs, slog.String("dest", ev.Dest))
	}
	if ev.Category != "" {
		attrs = append(attrs, slog.String("category", ev.Category))
	}
	if ev.Reason != "" {
		attrs = append(attrs, slog.String("reason", ev.Reason))
	}
	if ev.Error != nil {
		attrs = append(attrs, slog.String("error", ev.Error.Error()))
	}
	slog.LogAttrs(context.Background(), slog.LevelDebug, "shelf.event", attrs...)
}

func (p *pipeline) say(format string, args ...any) {
	if p.opts.quiet {
		return
	}
	fmt.Fprintf(p.st.out, format+"\n", args...)
}

func (p *pipeline) scan(ctx context.Context) (*catalog.Catalog, error) {
	root := p.opts.root
	if root == "" {
		p.say("\nChoose the library folder to scan.")
		answer, err := p.prompt.Ask("Library folder: ")
		if err != nil && !errors.Is(err, io.EOF) {
			return nil, err
		}
		if answer == "" {
			return nil, errors.New("no root directory selected")
		}
		root = answer
	}

	groupBy, err := filter.ParseGroupBy(p.opts.groupBy)
	if err != nil {
		return nil, err
	}
	var rules *filter.Chain
	if !p.opts.chain.Empty() {
		rules = p.opts.chain
	}
	classifier := filter.NewClassifier(filter.Config{
		IncludeExtensions: p.opts.includeExt,
		ExcludeExtensions: p.opts.excludeExt,
		AllowMedia:        p.opts.allowMedia,
		GroupBy:           groupBy,
		Rules:             rules,
	})

	cat, report, err := engine.Scan(ctx, engine.ScanConfig{
		Root:           root,
		Classifier:     classifier,
		CatalogOptions: []catalog.Option{catalog.WithAutoCreate(p.opts.autoCreate)},
		Events:         p.events,
		Stats:          p.stats,
	})
	if err != nil {
		return nil, err
	}

	slog.Info("scan complete",
		"root", report.Root,
		"seen", report.Seen,
		"included", report.Included,
		"duplicates", report.Duplicates,
		"excluded", report.ExcludedTotal(),
		"unreadable", report.Unreadable,
	)
	p.say("%s", ui.ScanSummary(report.Included+report.Duplicates, report.Included))
	if cat.Len() == 0 {
		p.say("No matching files found.")
	}
	return cat, nil
}

func (p *pipeline) export(cat *catalog.Catalog) error {
	doc := export.Build(cat.Categories())
	wanted := p.opts.outputJSON != "" || p.opts.outputText != ""

	if !p.opts.quiet {
		fmt.Fprintln(p.st.out, "Planned outputs:")
		fmt.Fprintf(p.st.out, "- JSON: %s\n", orNone(p.opts.outputJSON))
		fmt.Fprintf(p.st.out, "- Text: %s\n", orNone(p.opts.outputText))
		fmt.Fprintf(p.st.out, "Total records: %d\n", doc.Total())
		if p.opts.verbose || wanted {
			fmt.Fprintln(p.st.out, "\nPreview:")
			fmt.Fprint(p.st.out, export.Text(doc))
		}
	}
	if !wanted {
		return nil
	}
	if !p.opts.apply {
		p.say("Dry-run mode: no files were written. Re-run with --apply to export.")
		return nil
	}
	ok, err := p.prompt.Confirm("Proceed with writing output files?")
	if err != nil {
		return err
	}
	if !ok {
		p.say("Aborted. No files were written.")
		return nil
	}

	if p.opts.outputJSON != "" {
		if err := export.WriteFile(p.opts.outputJSON, export.FormatJSON, doc); err != nil {
			return err
		}
		p.say("Wrote JSON results to %s", p.opts.outputJSON)
	}
	if p.opts.outputText != "" {
		if err := export.WriteFile(p.opts.outputText, export.FormatText, doc); err != nil {
			return err
		}
		p.say("Wrote text results to %s", p.opts.outputText)
	}
	return nil
}

func orNone(s string) string {
	if s == "" {
		return "none"
	}
	return s
}

// organize runs the review stage when asked for, and always ends with a
// locked snapshot.
func (p *pipeline) organize(cat *catalog.Catalog) (*catalog.Locked, error) {
	enter := p.opts.organize
	if !enter && cat.Len() > 0 && !p.opts.yes {
		var err error
		enter, err = p.prompt.YesNo("Enter category organization stage before copying?", true)
		if err != nil {
			return nil, err
		}
	}
	if enter && cat.Len() > 0 {
		return ui.Organize(cat, ui.OrganizeConfig{Prompter: p.prompt, Writer: p.st.out, Color: p.st.color})
	}
	if cat.Len() > 0 {
		p.say("Skipping organization stage; using current categories as-is.")
	}
	res, err := cat.Apply(catalog.Done{})
	if err != nil {
		return nil, err
	}
	return res.Locked, nil
}

//nolint:gocyclo,revive // staged copy is a linear sequence of confirmations
func (p *pipeline) copy(ctx context.Context, locked *catalog.Locked) error {
	if locked.Len() == 0 {
		return nil
	}
	dest := p.opts.copyDest
	if dest == "" {
		p.say("No copy destination provided. Skipping copy workflow.")
		return nil
	}
	dest, err := filepath.Abs(dest)
	if err != nil {
		return err
	}

	logPath := filepath.Join(dest, engine.DefaultLogName)
	if p.opts.copyLog != "" {
		if logPath, err = filepath.Abs(p.opts.copyLog); err != nil {
			return err
		}
	}
	items := engine.Plan(locked, dest, logPath)
	if p.opts.dryRun {
		for _, item := range items {
			fmt.Fprintln(p.st.out)
			ui.RenderPlan(p.st.out, item, p.st.color)
		}
		p.say("\nDry run: nothing was copied.")
		return nil
	}

	ready, err := p.ensureDest(dest)
	if err != nil || !ready {
		return err
	}
	if stale, err := engine.StaleTemps(dest); err == nil && len(stale) > 0 {
		slog.Warn("destination has leftover temp files from an interrupted copy", "count", len(stale), "first", stale[0])
	}

	p.say("\nStaged copy workflow ready.")
	p.say("Destination: %s", dest)
	p.say("Log file: %s", logPath)
	p.say("Categories to consider (counts):")
	if !p.opts.quiet {
		ui.RenderCounts(p.st.out, items, p.st.color)
	}

	ok, err := p.prompt.Confirm("Begin step-by-step copy of categories? This will always prompt before copying.")
	if err != nil {
		return err
	}
	if !ok {
		p.say("Copy workflow skipped by user.")
		return nil
	}

	bwLimit := int64(0)
	if p.opts.bwLimit != "" {
		bwLimit, err = filter.ParseSize(p.opts.bwLimit)
		if err != nil {
			return fmt.Errorf("invalid --bwlimit: %w", err)
		}
	}
	ex, err := engine.NewExecutor(engine.ExecutorConfig{
		DstRoot: dest,
		LogPath: logPath,
		Verify:  p.opts.verify,
		BWLimit: bwLimit,
		Events:  p.events,
		Stats:   p.stats,
	})
	if err != nil {
		return err
	}
	defer func() {
		if cerr := ex.Close(); cerr != nil {
			slog.Error("closing copy log", "path", logPath, "error", cerr)
		}
	}()

	failed := 0
	for _, item := range items {
		p.say("\nCategory: %s (%s)", item.Category, ui.Plural(len(item.Pairs), "file"))
		ok, err := p.prompt.Confirm(fmt.Sprintf("Handle category '%s' with a dry run?", item.Category))
		if err != nil {
			return err
		}
		if !ok {
			p.say("  Skipped.")
			continue
		}
		ui.RenderPlan(p.st.out, item, p.st.color)

		confirmed, err := p.prompt.Confirm(fmt.Sprintf("Proceed to copy category '%s' to %s?", item.Category, dest))
		if err != nil {
			return err
		}
		res, err := ex.Execute(ctx, item, confirmed)
		if err != nil {
			return fmt.Errorf("copy %s: %w", item.Category, err)
		}
		if !confirmed {
			p.say("  Copy skipped after dry run.")
			continue
		}
		failed += res.Failed()
	}

	if !p.opts.quiet {
		if summary := p.presenter.Summary(); summary != "" {
			fmt.Fprintln(p.st.errOut, summary)
		}
	}
	if failed > 0 {
		slog.Error("some files failed to copy", "failed", failed, "log", logPath)
		return &exitError{code: 1}
	}
	return nil
}

// ensureDest checks that dest is a directory, asking before creating it.
func (p *pipeline) ensureDest(dest string) (bool, error) {
	info, err := os.Stat(dest)
	switch {
	case err == nil && !info.IsDir():
		return false, fmt.Errorf("%w: %s exists but is not a directory", engine.ErrDestinationUnwritable, dest)
	case err == nil:
		return true, nil
	case !errors.Is(err, os.ErrNotExist):
		return false, fmt.Errorf("%w: %w", engine.ErrDestinationUnwritable, err)
	}

	ok, err := p.prompt.Confirm(fmt.Sprintf("Create copy destination directory? %s", dest))
	if err != nil {
		return false, err
	}
	if !ok {
		p.say("Copy destination not created; skipping copy workflow.")
		return false, nil
	}
	return true, nil
}
