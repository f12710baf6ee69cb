package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/bamsammich/shelf/internal/config"
	"github.com/bamsammich/shelf/internal/filter"
	"github.com/bamsammich/shelf/internal/ui"
)

var version = "dev"

func main() {
	os.Exit(run())
}

// streams are the terminal handles a command talks to.
type streams struct {
	in     io.Reader
	out    io.Writer
	errOut io.Writer
	color  bool
}

func stdStreams() streams {
	return streams{
		in:     os.Stdin,
		out:    os.Stdout,
		errOut: os.Stderr,
		color:  ui.IsTTY(os.Stdout.Fd()),
	}
}

func run() int {
	cmd := newRootCmd(stdStreams())
	return exitCode(cmd.Execute(), os.Stderr)
}

// exitCode maps a command error to a process exit code: 1 for partial copy
// failures, 2 for anything fatal.
func exitCode(err error, errOut io.Writer) int {
	if err == nil {
		return 0
	}
	var exitErr *exitError
	if errors.As(err, &exitErr) {
		return exitErr.code
	}
	fmt.Fprintf(errOut, "Error: %v\n", err)
	return 2
}

// filterFlag is a custom pflag.Value that preserves CLI ordering of
// --exclude and --include rules by appending to a shared filter.Chain.
type filterFlag struct {
	chain   *filter.Chain
	include bool
}

func (*filterFlag) String() string { return "" }
func (*filterFlag) Type() string   { return "pattern" }

func (f *filterFlag) Set(val string) error {
	if f.include {
		return f.chain.AddInclude(val)
	}
	return f.chain.AddExclude(val)
}

// options holds every root command flag after config defaults are merged.
type options struct {
	root        string
	includeExt  []string
	excludeExt  []string
	allowMedia  bool
	groupBy     string
	filterFile  string
	minSize     string
	maxSize     string
	outputJSON  string
	outputText  string
	apply       bool
	yes         bool
	copyDest    string
	copyLog     string
	organize    bool
	autoCreate  bool
	verify      bool
	dryRun      bool
	bwLimit     string
	verbose     bool
	quiet       bool
	logFile     string
	showVersion bool
	chain       *filter.Chain
}

//nolint:revive // cognitive-complexity: root command wires flags, config and logging
func newRootCmd(st streams) *cobra.Command {
	opts := &options{chain: filter.NewChain()}

	rootCmd := &cobra.Command{
		Use:   "shelf [flags] [root]",
		Short: "Find, deduplicate, organize and copy a document library",
		Long: `shelf scans a directory tree for documents, drops duplicates, lets you
reorganize the result into categories, and copies each category into a
destination folder after showing a dry run. Sources are never modified and
existing destination files are never overwritten.`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.showVersion {
				fmt.Fprintf(st.out, "shelf %s\n", version)
				return nil
			}
			if len(args) == 1 {
				opts.root = args[0]
			}

			cfg, err := config.Load()
			if err != nil {
				slog.Warn("failed to load config", "path", config.Path(), "error", err)
			}
			if err := applyConfigDefaults(cmd.Flags(), cfg, opts); err != nil {
				return err
			}
			ui.ApplyTheme(cfg.Theme)

			closeLog, err := setupLogging(st.errOut, opts)
			if err != nil {
				return err
			}
			defer closeLog()

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			return runPipeline(ctx, opts, st)
		},
	}
	rootCmd.SetIn(st.in)
	rootCmd.SetOut(st.out)
	rootCmd.SetErr(st.errOut)
	rootCmd.SetContext(context.Background())

	f := rootCmd.Flags()
	f.BoolVar(&opts.showVersion, "version", false, "print version and exit")

	// Discovery.
	f.StringSliceVar(&opts.includeExt, "include-ext", nil,
		"extensions to include, e.g. .pdf,.epub (replaces the default list)")
	f.StringSliceVar(&opts.excludeExt, "exclude-ext", nil, "extensions to exclude")
	f.BoolVar(&opts.allowMedia, "allow-media", false, "include audio/video files instead of skipping them")
	f.StringVar(&opts.groupBy, "group-by", "folder", "categorize by parent folder or by document kind (folder|kind)")
	f.Var(&filterFlag{chain: opts.chain}, "exclude", "exclude files matching PATTERN (repeatable)")
	f.Var(&filterFlag{chain: opts.chain, include: true}, "include", "include files matching PATTERN (repeatable)")
	f.StringVar(&opts.filterFile, "filter", "", "read filter rules from FILE")
	f.StringVar(&opts.minSize, "min-size", "", "skip files smaller than SIZE (e.g. 1M, 100K)")
	f.StringVar(&opts.maxSize, "max-size", "", "skip files larger than SIZE (e.g. 1G, 500M)")

	// Export.
	f.StringVar(&opts.outputJSON, "output-json", "", "write JSON results to FILE (requires --apply)")
	f.StringVar(&opts.outputText, "output-text", "", "write text results to FILE (requires --apply)")
	f.BoolVar(&opts.apply, "apply", false, "write export files instead of only previewing them")
	f.BoolVarP(&opts.yes, "yes", "y", false, "assume yes for every confirmation")

	// Organization and copy.
	f.BoolVar(&opts.organize, "organize", false, "enter the organization stage without asking")
	f.BoolVar(&opts.autoCreate, "auto-create", false, "create missing target categories on move instead of asking")
	f.StringVar(&opts.copyDest, "copy-dest", "", "destination folder for staged category copies")
	f.StringVar(&opts.copyLog, "copy-log", "", "copy log file (default: <copy-dest>/copy_log.txt)")
	f.BoolVar(&opts.verify, "verify", false, "verify checksums after copy (BLAKE3)")
	f.StringVar(&opts.bwLimit, "bwlimit", "", "bandwidth limit (e.g. 100M, 1G)")
	f.BoolVar(&opts.dryRun, "dry-run", false, "print the copy plan and exit without writing")

	// Output.
	f.BoolVarP(&opts.verbose, "verbose", "v", false, "verbose output")
	f.BoolVarP(&opts.quiet, "quiet", "q", false, "suppress progress output")
	f.StringVar(&opts.logFile, "log", "", "write structured JSON log to FILE")

	rootCmd.MarkFlagsMutuallyExclusive("verbose", "quiet")
	rootCmd.AddCommand(newDocsCmd())
	return rootCmd
}

// applyConfigDefaults fills options from the config file for flags not set
// on the command line, then resolves the filter chain. Config excludes are
// appended after CLI rules so the CLI wins.
//
//nolint:gocyclo // one branch per setting
func applyConfigDefaults(flags *pflag.FlagSet, cfg config.Config, o *options) error {
	setStr := func(name string, dst *string, v *string) {
		if !flags.Changed(name) && v != nil {
			*dst = *v
		}
	}
	setBool := func(name string, dst *bool, v *bool) {
		if !flags.Changed(name) && v != nil {
			*dst = *v
		}
	}

	if !flags.Changed("include-ext") && len(cfg.Scan.IncludeExt) > 0 {
		o.includeExt = cfg.Scan.IncludeExt
	}
	if !flags.Changed("exclude-ext") && len(cfg.Scan.ExcludeExt) > 0 {
		o.excludeExt = cfg.Scan.ExcludeExt
	}
	setBool("allow-media", &o.allowMedia, cfg.Scan.AllowMedia)
	setStr("group-by", &o.groupBy, cfg.Scan.GroupBy)
	setStr("min-size", &o.minSize, cfg.Scan.MinSize)
	setStr("max-size", &o.maxSize, cfg.Scan.MaxSize)
	setStr("copy-dest", &o.copyDest, cfg.Copy.Dest)
	setStr("copy-log", &o.copyLog, cfg.Copy.Log)
	setBool("verify", &o.verify, cfg.Copy.Verify)
	setStr("bwlimit", &o.bwLimit, cfg.Copy.BWLimit)
	setBool("auto-create", &o.autoCreate, cfg.Copy.AutoCreate)

	if o.filterFile != "" {
		if err := o.chain.LoadFile(o.filterFile); err != nil {
			return fmt.Errorf("load filter file: %w", err)
		}
	}
	for _, pattern := range cfg.Scan.Exclude {
		if err := o.chain.AddExclude(pattern); err != nil {
			return fmt.Errorf("config exclude %q: %w", pattern, err)
		}
	}
	if o.minSize != "" {
		n, err := filter.ParseSize(o.minSize)
		if err != nil {
			return fmt.Errorf("invalid --min-size: %w", err)
		}
		o.chain.SetMinSize(n)
	}
	if o.maxSize != "" {
		n, err := filter.ParseSize(o.maxSize)
		if err != nil {
			return fmt.Errorf("invalid --max-size: %w", err)
		}
		o.chain.SetMaxSize(n)
	}
	return nil
}

// setupLogging installs the default slog logger: text on errOut at a level
// chosen by -v/-q, plus a JSON handler at debug level when --log is set.
func setupLogging(errOut io.Writer, o *options) (func(), error) {
	logLevel := slog.LevelWarn
	if o.verbose {
		logLevel = slog.LevelDebug
	} else if !o.quiet {
		logLevel = slog.LevelInfo
	}
	textHandler := slog.NewTextHandler(errOut, &slog.HandlerOptions{Level: logLevel})

	var logHandler slog.Handler = textHandler
	closeFn := func() {}
	if o.logFile != "" {
		lf, err := os.Create(o.logFile)
		if err != nil {
			return nil, fmt.Errorf("open log file: %w", err)
		}
		closeFn = func() { _ = lf.Close() }
		jsonHandler := slog.NewJSONHandler(lf, &slog.HandlerOptions{Level: slog.LevelDebug})
		logHandler = ui.NewMultiHandler(textHandler, jsonHandler)
	}
	slog.SetDefault(slog.New(logHandler))
	return closeFn, nil
}

type exitError struct {
	code int
}

func (e *exitError) Error() string {
	return fmt.Sprintf("exit code %d", e.code)
}
