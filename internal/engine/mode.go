package engine

import "io/fs"

// modeFor builds the os.FileMode Getattr reports for a resolved entry.
// SFS has no notion of symlinks, devices, or per-file permission bits on
// disk (spec.md §9: permissions are synthesized, never persisted), so
// this only distinguishes directory from regular file — a trimmed form
// of the teacher library's UnixToMode/ModeToUnix pair, which maps the
// full S_IFMT family for squashfs's richer inode types.
func modeFor(isDir bool) fs.FileMode {
	if isDir {
		return fs.ModeDir | 0755
	}
	return 0644
}
