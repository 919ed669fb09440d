package diskio

import (
	"os"

	"golang.org/x/sys/unix"
)

// preallocate reserves size bytes for f using fallocate(2) so the image
// occupies real disk space up front rather than becoming a sparse file
// that could fail a later write with ENOSPC. Falls back to a plain
// truncate if fallocate fails for any reason (e.g. a filesystem that
// doesn't support it, such as tmpfs on older kernels or a network
// filesystem).
func preallocate(f *os.File, size int64) error {
	if err := unix.Fallocate(int(f.Fd()), 0, 0, size); err != nil {
		return f.Truncate(size)
	}
	return nil
}
