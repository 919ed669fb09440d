package engine

import (
	"os"
	"time"
)

// Stat is the attribute set Getattr returns: enough to fill a POSIX
// stat(2) structure at the callback binding layer, per spec.md §4.5's
// getattr contract. Ownership and timestamps are synthesized per call
// (spec.md §9: "accepted behavior" — nothing is persisted on disk for
// either).
type Stat struct {
	IsDir bool
	Mode  os.FileMode
	Nlink uint32
	Size  int64
	Uid   uint32
	Gid   uint32
	Atime time.Time
	Mtime time.Time
}

func synthesizedStat() (uid, gid uint32, now time.Time) {
	return uint32(os.Getuid()), uint32(os.Getgid()), time.Now()
}
