package engine

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/google/uuid"
)

const tmpSuffix = ".shelf-tmp"

// tmpBaseMax bounds how much of the destination name goes into a temp
// name, so a destination near NAME_MAX still gets a valid temp file.
const tmpBaseMax = 64

// tmpName returns the hidden temp name used while copying to dst.
func tmpName(dst string) string {
	return filepath.Join(filepath.Dir(dst),
		fmt.Sprintf(".%s.%s%s", truncateName(filepath.Base(dst), tmpBaseMax), uuid.New().String()[:8], tmpSuffix))
}

// truncateName cuts name to at most n bytes without splitting a UTF-8
// sequence.
func truncateName(name string, n int) string {
	if len(name) <= n {
		return name
	}
	for n > 0 && !utf8.RuneStart(name[n]) {
		n--
	}
	return name[:n]
}

// isTmpName reports whether name looks like one of our temp files.
func isTmpName(name string) bool {
	return strings.HasPrefix(name, ".") && strings.HasSuffix(name, tmpSuffix)
}

// tmpRegistry tracks in-progress temporary files so an interrupted session
// can remove them on Close.
type tmpRegistry struct {
	mu    sync.Mutex
	paths map[string]struct{}
}

func (r *tmpRegistry) register(path string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.paths == nil {
		r.paths = make(map[string]struct{})
	}
	r.paths[path] = struct{}{}
}

func (r *tmpRegistry) deregister(path string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.paths, path)
}

func (r *tmpRegistry) len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.paths)
}

// cleanup removes every registered file.
func (r *tmpRegistry) cleanup() {
	r.mu.Lock()
	paths := make([]string, 0, len(r.paths))
	for p := range r.paths {
		paths = append(paths, p)
	}
	r.paths = nil
	r.mu.Unlock()

	for _, p := range paths {
		_ = os.Remove(p)
	}
}
