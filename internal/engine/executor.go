package engine

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"golang.org/x/time/rate"

	"github.com/bamsammich/shelf/internal/copylog"
	"github.com/bamsammich/shelf/internal/event"
	"github.com/bamsammich/shelf/internal/platform"
	"github.com/bamsammich/shelf/internal/stats"
)

// ErrDestinationUnwritable reports a destination root that cannot be
// created or is not a directory.
var ErrDestinationUnwritable = errors.New("destination not writable")

// DefaultLogName is the copy log file name used when no path is given.
const DefaultLogName = "copy_log.txt"

// ExecutorConfig controls copy execution.
type ExecutorConfig struct {
	DstRoot string
	LogPath string // defaults to DstRoot/copy_log.txt
	Verify  bool   // compare BLAKE3 of source and copy before publishing
	BWLimit int64  // bytes/sec; 0 is unlimited
	Events  event.Sink
	Stats   *stats.Collector
}

// ExecResult summarizes one executed plan item.
type ExecResult struct {
	Counts      map[copylog.Outcome]int
	Category    string
	Records     []copylog.Record
	BytesCopied int64
}

// Failed returns the number of failed pairs.
func (r ExecResult) Failed() int { return r.Counts[copylog.Failed] }

// Executor copies plan items into the destination tree. It never
// overwrites an existing destination file and never touches sources.
type Executor struct {
	cfg     ExecutorConfig
	log     *copylog.Log
	limiter *rate.Limiter
	tmp     tmpRegistry
}

// NewExecutor creates the destination root and opens the copy log.
// Callers must Close the executor.
func NewExecutor(cfg ExecutorConfig) (*Executor, error) {
	if cfg.DstRoot == "" {
		return nil, fmt.Errorf("%w: no destination given", ErrDestinationUnwritable)
	}
	root, err := filepath.Abs(cfg.DstRoot)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDestinationUnwritable, err)
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrDestinationUnwritable, root, err)
	}
	cfg.DstRoot = root

	if cfg.LogPath == "" {
		cfg.LogPath = filepath.Join(root, DefaultLogName)
	}
	log, err := copylog.Open(cfg.LogPath)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDestinationUnwritable, err)
	}
	if cfg.Stats == nil {
		cfg.Stats = stats.NewCollector()
	}

	e := &Executor{cfg: cfg, log: log}
	if cfg.BWLimit > 0 {
		e.limiter = NewBWLimiter(cfg.BWLimit)
	}
	return e, nil
}

// LogPath returns the copy log path.
func (e *Executor) LogPath() string { return e.cfg.LogPath }

// DstRoot returns the absolute destination root.
func (e *Executor) DstRoot() string { return e.cfg.DstRoot }

// Close removes leftover temp files and closes the log.
func (e *Executor) Close() error {
	e.tmp.cleanup()
	return e.log.Close()
}

// Execute copies every pair of item when confirmed is true; otherwise it
// does nothing. Per-file problems become failed records and the remaining
// pairs are still attempted. The returned error is reserved for context
// cancellation and copy log write failures.
func (e *Executor) Execute(ctx context.Context, item PlanItem, confirmed bool) (ExecResult, error) {
	res := ExecResult{Category: item.Category, Counts: make(map[copylog.Outcome]int)}
	if !confirmed {
		return res, nil
	}

	e.cfg.Events.Emit(event.Event{
		Type:      event.ItemStarted,
		Category:  item.Category,
		Dest:      item.Dir,
		Total:     int64(len(item.Pairs)),
		TotalSize: item.Size(),
	})

	dirReady := false
	for _, pair := range item.Pairs {
		if err := ctx.Err(); err != nil {
			return res, err
		}

		rec, n := e.copyPair(ctx, item, pair, &dirReady)
		if err := e.log.Append(rec); err != nil {
			return res, err
		}
		res.Records = append(res.Records, rec)
		res.Counts[rec.Outcome]++
		res.BytesCopied += n
		e.record(item, pair, rec, n)
	}

	e.cfg.Events.Emit(event.Event{
		Type:     event.ItemComplete,
		Category: item.Category,
		Dest:     item.Dir,
		Size:     res.BytesCopied,
	})
	return res, nil
}

func (e *Executor) record(item PlanItem, pair Pair, rec copylog.Record, n int64) {
	ev := event.Event{
		Path:     pair.RelPath,
		Dest:     pair.Dst,
		Category: item.Category,
		Reason:   string(rec.Outcome),
		Size:     pair.Size,
	}
	switch rec.Outcome {
	case copylog.Copied:
		e.cfg.Stats.AddFilesCopied(1)
		e.cfg.Stats.AddBytesCopied(n)
		ev.Type = event.FileCopied
		ev.Size = n
	case copylog.SkippedExists, copylog.SkippedEmpty:
		e.cfg.Stats.AddFilesSkipped(1)
		ev.Type = event.FileSkipped
	default:
		e.cfg.Stats.AddFilesFailed(1)
		ev.Type = event.FileFailed
		ev.Error = errors.New(rec.Message)
	}
	e.cfg.Events.Emit(ev)
	slog.Debug("copy", "outcome", rec.Outcome, "src", pair.Src, "dst", pair.Dst, "bytes", n)
}

func (e *Executor) copyPair(ctx context.Context, item PlanItem, pair Pair, dirReady *bool) (copylog.Record, int64) {
	rec := copylog.Record{Src: pair.Src, Dst: pair.Dst}
	fail := func(err error) (copylog.Record, int64) {
		rec.Outcome = copylog.Failed
		rec.Message = err.Error()
		return rec, 0
	}

	if exists(pair.Dst) {
		rec.Outcome = copylog.SkippedExists
		return rec, 0
	}

	src, err := os.Open(pair.Src)
	if err != nil {
		return fail(fmt.Errorf("open source: %w", err))
	}
	defer src.Close()

	info, err := src.Stat()
	if err != nil {
		return fail(fmt.Errorf("stat source: %w", err))
	}
	if !info.Mode().IsRegular() {
		return fail(errors.New("source is not a regular file"))
	}
	if info.Size() == 0 {
		rec.Outcome = copylog.SkippedEmpty
		return rec, 0
	}

	if !*dirReady {
		if err := os.MkdirAll(item.Dir, 0o755); err != nil {
			return fail(fmt.Errorf("create %s: %w", item.Dir, err))
		}
		*dirReady = true
		e.cfg.Stats.AddDirsCreated(1)
		e.cfg.Events.Emit(event.Event{Type: event.DirCreated, Category: item.Category, Dest: item.Dir})
	}

	n, err := e.publish(ctx, src, info, pair)
	switch {
	case errors.Is(err, fs.ErrExist):
		// Appeared while we were copying.
		rec.Outcome = copylog.SkippedExists
		return rec, 0
	case err != nil:
		return fail(err)
	}
	rec.Outcome = copylog.Copied
	return rec, n
}

// publish copies src into a temp file next to pair.Dst and moves it into
// place without replacing anything already there.
func (e *Executor) publish(ctx context.Context, src *os.File, info fs.FileInfo, pair Pair) (int64, error) {
	tmpPath := tmpName(pair.Dst)
	e.tmp.register(tmpPath)
	defer func() {
		e.tmp.deregister(tmpPath)
		_ = os.Remove(tmpPath) // no-op once published
	}()

	tmp, err := os.OpenFile(tmpPath, os.O_WRONLY|os.O_CREATE|os.O_EXCL, info.Mode().Perm()|0o200)
	if err != nil {
		return 0, fmt.Errorf("create temp: %w", err)
	}

	n, err := e.copyData(ctx, src, tmp, info.Size())
	if err == nil {
		err = tmp.Sync()
	}
	if closeErr := tmp.Close(); err == nil && closeErr != nil {
		err = closeErr
	}
	if err != nil {
		return 0, fmt.Errorf("copy data: %w", err)
	}

	// Keep the source modification time, as a document library expects.
	_ = os.Chtimes(tmpPath, info.ModTime(), info.ModTime())

	if e.cfg.Verify {
		if err := verifyCopy(pair.Src, tmpPath); err != nil {
			e.cfg.Stats.AddFilesVerifyFailed(1)
			e.cfg.Events.Emit(event.Event{Type: event.VerifyFailed, Path: pair.RelPath, Dest: pair.Dst, Error: err})
			return 0, err
		}
		e.cfg.Stats.AddFilesVerified(1)
		e.cfg.Events.Emit(event.Event{Type: event.VerifyOK, Path: pair.RelPath, Dest: pair.Dst})
	}

	if err := placeNoReplace(tmpPath, pair.Dst); err != nil {
		return 0, err
	}
	return n, nil
}

func (e *Executor) copyData(ctx context.Context, src, dst *os.File, size int64) (int64, error) {
	if e.limiter == nil {
		res, err := platform.CopyFile(platform.CopyParams{Src: src, Dst: dst, Size: size})
		return res.BytesWritten, err
	}
	buf := make([]byte, 32*1024)
	return io.CopyBuffer(writerOnly{dst}, newRateLimitedReader(ctx, src, e.limiter), buf)
}

// writerOnly hides ReadFrom so io.CopyBuffer goes through the limited reader.
type writerOnly struct{ io.Writer }

// placeNoReplace moves tmp to dst, failing with fs.ErrExist when dst is
// present. A hard link gives an atomic no-clobber publish; filesystems
// without links fall back to a checked rename.
func placeNoReplace(tmp, dst string) error {
	err := os.Link(tmp, dst)
	if err == nil {
		return nil
	}
	if errors.Is(err, fs.ErrExist) {
		return err
	}
	if exists(dst) {
		return fs.ErrExist
	}
	if err := os.Rename(tmp, dst); err != nil {
		return fmt.Errorf("rename into place: %w", err)
	}
	return nil
}

func exists(path string) bool {
	_, err := os.Lstat(path)
	return err == nil
}

// StaleTemps lists leftover temp files under dir from interrupted sessions.
func StaleTemps(dir string) ([]string, error) {
	var found []string
	err := filepath.WalkDir(dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if !d.IsDir() && isTmpName(d.Name()) {
			found = append(found, p)
		}
		return nil
	})
	return found, err
}
