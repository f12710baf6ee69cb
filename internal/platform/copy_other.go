//go:build !linux

package platform

// CopyFile uses read/write on platforms without an in-kernel copy.
func CopyFile(params CopyParams) (CopyResult, error) {
	return copyReadWrite(params)
}
