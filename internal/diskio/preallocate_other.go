//go:build !linux

package diskio

import "os"

// preallocate falls back to a plain truncate on platforms without
// fallocate(2); the resulting file is sparse until written.
func preallocate(f *os.File, size int64) error {
	return f.Truncate(size)
}
