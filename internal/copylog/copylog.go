// Package copylog writes the append-only record of copy actions. Each
// session starts with a header line; each action is one tab-separated line.
package copylog

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

// Outcome is the result of one copy action.
type Outcome string

const (
	Copied        Outcome = "copied"
	SkippedExists Outcome = "skipped-exists"
	SkippedEmpty  Outcome = "skipped-empty"
	Failed        Outcome = "failed"
)

// Outcomes lists every outcome in reporting order.
func Outcomes() []Outcome {
	return []Outcome{Copied, SkippedExists, SkippedEmpty, Failed}
}

const headerPrefix = "# Copy session "

// Record is one logged action.
type Record struct {
	Time    time.Time
	Outcome Outcome
	Src     string
	Dst     string
	Message string
}

func (r Record) String() string {
	line := strings.Join([]string{
		r.Time.UTC().Format(time.RFC3339),
		string(r.Outcome),
		clean(r.Src),
		clean(r.Dst),
	}, "\t")
	if r.Message != "" {
		line += "\t" + clean(r.Message)
	}
	return line
}

// Tabs and newlines would break the line format.
func clean(s string) string {
	return strings.NewReplacer("\t", " ", "\n", " ", "\r", " ").Replace(s)
}

// Log appends records to a file. The header is written lazily with the
// first record so a session that copies nothing leaves the file untouched.
type Log struct {
	mu      sync.Mutex
	f       *os.File
	w       *bufio.Writer
	path    string
	now     func() time.Time
	records []Record
	started bool
}

// Open opens path for appending, creating it and its parent directory if
// needed.
func Open(path string) (*Log, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create copy log dir: %w", err)
	}
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open copy log %s: %w", path, err)
	}
	return &Log{f: f, w: bufio.NewWriter(f), path: path, now: time.Now}, nil
}

// Path returns the log file path.
func (l *Log) Path() string { return l.path }

// Append writes r, stamping Time when it is zero. Each record is flushed
// immediately so the file is complete if the process dies mid-session.
func (l *Log) Append(r Record) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.f == nil {
		return os.ErrClosed
	}
	if r.Time.IsZero() {
		r.Time = l.now()
	}
	if !l.started {
		if _, err := fmt.Fprintf(l.w, "%s%s\n", headerPrefix, r.Time.UTC().Format(time.RFC3339)); err != nil {
			return fmt.Errorf("write copy log header: %w", err)
		}
		l.started = true
	}
	if _, err := l.w.WriteString(r.String() + "\n"); err != nil {
		return fmt.Errorf("write copy log: %w", err)
	}
	if err := l.w.Flush(); err != nil {
		return fmt.Errorf("flush copy log: %w", err)
	}
	l.records = append(l.records, r)
	return nil
}

// Records returns the records appended during this session.
func (l *Log) Records() []Record {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]Record(nil), l.records...)
}

// Close flushes and closes the file. It is safe to call more than once.
func (l *Log) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.f == nil {
		return nil
	}
	flushErr := l.w.Flush()
	closeErr := l.f.Close()
	l.f = nil
	return errors.Join(flushErr, closeErr)
}

// Session is one header plus the records that follow it.
type Session struct {
	Started time.Time
	Records []Record
}

// ReadFile parses a copy log.
func ReadFile(path string) ([]Session, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Parse(f)
}

// Parse reads sessions from r. Records before the first header are grouped
// into a session with a zero start time.
func Parse(r io.Reader) ([]Session, error) {
	var sessions []Session
	sc := bufio.NewScanner(r)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := sc.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}
		if ts, ok := strings.CutPrefix(line, headerPrefix); ok {
			started, err := time.Parse(time.RFC3339, strings.TrimSpace(ts))
			if err != nil {
				return sessions, fmt.Errorf("line %d: bad session header: %w", lineNo, err)
			}
			sessions = append(sessions, Session{Started: started})
			continue
		}
		rec, err := parseRecord(line)
		if err != nil {
			return sessions, fmt.Errorf("line %d: %w", lineNo, err)
		}
		if len(sessions) == 0 {
			sessions = append(sessions, Session{})
		}
		last := &sessions[len(sessions)-1]
		last.Records = append(last.Records, rec)
	}
	return sessions, sc.Err()
}

func parseRecord(line string) (Record, error) {
	fields := strings.SplitN(line, "\t", 5)
	if len(fields) < 4 {
		return Record{}, fmt.Errorf("expected at least 4 fields, got %d", len(fields))
	}
	t, err := time.Parse(time.RFC3339, fields[0])
	if err != nil {
		return Record{}, fmt.Errorf("bad time: %w", err)
	}
	rec := Record{Time: t, Outcome: Outcome(fields[1]), Src: fields[2], Dst: fields[3]}
	if len(fields) == 5 {
		rec.Message = fields[4]
	}
	return rec, nil
}
