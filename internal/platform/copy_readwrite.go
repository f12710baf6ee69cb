package platform

import (
	"errors"
	"io"
	"sync"
)

const bufferSize = 1 << 20 // 1 MiB

var bufPool = sync.Pool{
	New: func() any {
		b := make([]byte, bufferSize)
		return &b
	},
}

// Buffer borrows a bufferSize scratch buffer shared with the copy path.
// Return it with PutBuffer once done.
func Buffer() *[]byte { return bufPool.Get().(*[]byte) }

// PutBuffer returns a buffer obtained from Buffer.
func PutBuffer(b *[]byte) { bufPool.Put(b) }

// copyReadWrite copies data with ReadAt/WriteAt and a pooled buffer.
func copyReadWrite(params CopyParams) (CopyResult, error) {
	bufp := Buffer()
	defer PutBuffer(bufp)
	buf := *bufp

	var offset int64
	remaining := params.Size
	for remaining > 0 {
		toRead := min(remaining, int64(bufferSize))

		n, err := params.Src.ReadAt(buf[:toRead], offset)
		if n > 0 {
			if _, werr := params.Dst.WriteAt(buf[:n], offset); werr != nil {
				return CopyResult{BytesWritten: offset, Method: ReadWrite}, werr
			}
			offset += int64(n)
			remaining -= int64(n)
		}
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return CopyResult{BytesWritten: offset, Method: ReadWrite}, err
		}
	}
	return CopyResult{BytesWritten: offset, Method: ReadWrite}, nil
}

// CopyReadWrite forces the portable path; used by tests.
func CopyReadWrite(params CopyParams) (CopyResult, error) {
	return copyReadWrite(params)
}
