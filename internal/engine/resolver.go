package engine

import (
	"strings"

	"github.com/AlicjaStr/sfs/internal/layout"
)

// splitComponents splits an absolute slash-separated path into its
// components. "/" splits to an empty slice (the root itself); anything
// not starting with "/" is malformed.
func splitComponents(path string) ([]string, error) {
	if len(path) == 0 || path[0] != '/' {
		return nil, ErrInvalidArgument
	}
	trimmed := strings.Trim(path, "/")
	if trimmed == "" {
		return nil, nil
	}
	return strings.Split(trimmed, "/"), nil
}

// splitParent splits a path into its parent directory path and
// basename, the way the C original's sfs_mkdir/sfs_unlink/sfs_create do
// with strrchr on a mutable copy of the path — except this never
// mutates the caller's string (REDESIGN FLAG, spec.md §9: avoid
// in-place mutation of a raw owning string).
func splitParent(path string) (parent, base string, err error) {
	components, err := splitComponents(path)
	if err != nil {
		return "", "", err
	}
	if len(components) == 0 {
		// path was "/"; it has no parent.
		return "", "", ErrInvalidArgument
	}
	base = components[len(components)-1]
	if len(components) == 1 {
		return "/", base, nil
	}
	return "/" + strings.Join(components[:len(components)-1], "/"), base, nil
}

// location names one slot in some directory's entry array: the decoded
// entry plus the absolute byte offset of that slot in the image, so a
// caller can rewrite the slot in place (spec.md §4.2's resolver
// contract: "returns the matched entry and its byte offset").
type location struct {
	entry layout.Entry
	off   int64
}

// resolve walks path from the root, component by component, the way
// spec.md §4.2 specifies: linear search of the current directory's
// entry array, descending into the block a directory entry points to.
// Rewritten iteratively per the REDESIGN FLAG (spec.md §9) — the C
// original and the teacher's LookupRelativeInodePath both recurse one
// stack frame (and, in the C case, one full entry-array buffer) per
// path component; this loops instead, holding the current directory's
// array in one entries variable. Each descent reads into a newly
// allocated slice; the previous array's storage is not reused.
func (e *Engine) resolve(path string) (location, error) {
	components, err := splitComponents(path)
	if err != nil {
		return location{}, err
	}
	if len(components) == 0 {
		return location{}, ErrInvalidArgument // "/" has no entry of its own
	}

	entries, err := e.readRootEntries()
	if err != nil {
		return location{}, err
	}
	dirOff := e.geo.RootOff()

	for i, name := range components {
		idx := findSlot(entries, name)
		if idx < 0 {
			return location{}, ErrNotFound
		}
		slotOff := dirOff + int64(idx*e.geo.EntrySize())

		if i == len(components)-1 {
			return location{entry: entries[idx], off: slotOff}, nil
		}

		if !entries[idx].IsDir() {
			return location{}, ErrNotFound
		}

		next := entries[idx].FirstBlock
		entries, err = e.readDirBlock(next)
		if err != nil {
			return location{}, err
		}
		dirOff = e.geo.BlockOff(next)
	}

	// unreachable: the loop always returns on its last iteration.
	return location{}, ErrNotFound
}

// resolveDir resolves path to a directory's entry array and the
// absolute offset that array starts at, treating "/" as the root
// region rather than a regular entry.
func (e *Engine) resolveDir(path string) (entries []layout.Entry, off int64, err error) {
	if path == "/" {
		entries, err = e.readRootEntries()
		return entries, e.geo.RootOff(), err
	}

	loc, err := e.resolve(path)
	if err != nil {
		return nil, 0, err
	}
	if !loc.entry.IsDir() {
		return nil, 0, ErrDirectoryRequired
	}
	entries, err = e.readDirBlock(loc.entry.FirstBlock)
	return entries, e.geo.BlockOff(loc.entry.FirstBlock), err
}

// findSlot returns the index of the first non-empty slot named name, or
// -1. Invariants forbid duplicates, so first match is the only match.
func findSlot(entries []layout.Entry, name string) int {
	for i, ent := range entries {
		if ent.IsEmpty() {
			continue
		}
		if ent.Filename == name {
			return i
		}
	}
	return -1
}

// findFreeSlot returns the index of the first empty slot, or -1.
func findFreeSlot(entries []layout.Entry) int {
	for i, ent := range entries {
		if ent.IsEmpty() {
			return i
		}
	}
	return -1
}
