package engine

import (
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/zeebo/blake3"

	"github.com/bamsammich/shelf/internal/platform"
)

// ErrChecksumMismatch reports a copy whose content differs from its source.
var ErrChecksumMismatch = errors.New("checksum mismatch")

// fileDigest streams the file at path through BLAKE3 using the copy
// path's pooled buffer and returns the hex digest. Verification runs right
// after each copy, so both sides share the same scratch memory.
func fileDigest(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	bufp := platform.Buffer()
	defer platform.PutBuffer(bufp)

	h := blake3.New()
	if _, err := io.CopyBuffer(h, f, *bufp); err != nil {
		return "", fmt.Errorf("digest %s: %w", path, err)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// verifyCopy compares the BLAKE3 digests of src and dst.
func verifyCopy(src, dst string) error {
	srcHash, err := fileDigest(src)
	if err != nil {
		return err
	}
	dstHash, err := fileDigest(dst)
	if err != nil {
		return err
	}
	if srcHash != dstHash {
		return fmt.Errorf("%w: source %s, copy %s", ErrChecksumMismatch, srcHash[:16], dstHash[:16])
	}
	return nil
}
