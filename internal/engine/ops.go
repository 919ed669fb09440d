package engine

import (
	"github.com/AlicjaStr/sfs/internal/layout"
)

// Getattr implements spec.md §4.5's getattr: "/" is always a directory
// with mode 0755 and nlink 2; anything else is resolved and its
// DIRECTORY flag decides directory vs. regular-file attributes.
// Ownership and timestamps are synthesized fresh on every call (spec.md
// §9).
func (e *Engine) Getattr(path string) (Stat, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.opts.logf("getattr %s\n", path)

	uid, gid, now := synthesizedStat()
	st := Stat{Uid: uid, Gid: gid, Atime: now, Mtime: now}

	if path == "/" {
		st.IsDir = true
		st.Mode = modeFor(true)
		st.Nlink = 2
		return st, nil
	}

	loc, err := e.resolve(path)
	if err != nil {
		return Stat{}, err
	}
	if loc.entry.IsDir() {
		st.IsDir = true
		st.Mode = modeFor(true)
		st.Nlink = 2
		return st, nil
	}
	st.Mode = modeFor(false)
	st.Nlink = 1
	st.Size = int64(loc.entry.FileSize())
	return st, nil
}

// Readdir implements spec.md §4.5's readdir: "." and ".." followed by
// every non-empty slot's filename, read from the root region for "/" or
// from the directory's data block otherwise.
func (e *Engine) Readdir(path string) ([]string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.opts.logf("readdir %s\n", path)

	entries, _, err := e.resolveDir(path)
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(entries)+2)
	names = append(names, ".", "..")
	for _, ent := range entries {
		if ent.IsEmpty() {
			continue
		}
		names = append(names, ent.Filename)
	}
	return names, nil
}

// Read implements spec.md §4.5's read: clamps size to the file's
// remaining bytes from offset, skips whole blocks via the chain walker,
// then copies block by block. A premature End mid-chain is treated as
// end-of-file, yielding whatever was copied so far — it should not
// normally happen given the allocation invariants, but the loop doesn't
// assume otherwise.
func (e *Engine) Read(path string, buf []byte, offset int64) (int, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.opts.logf("read %s size=%d offset=%d\n", path, len(buf), offset)

	if offset < 0 {
		return 0, ErrInvalidArgument
	}

	loc, err := e.resolve(path)
	if err != nil {
		return 0, err
	}
	if loc.entry.IsDir() {
		return 0, ErrIsDirectory
	}

	fileSize := int64(loc.entry.FileSize())
	if offset >= fileSize {
		return 0, nil
	}
	size := len(buf)
	if offset+int64(size) > fileSize {
		size = int(fileSize - offset)
	}

	table, err := e.readBlockTable()
	if err != nil {
		return 0, err
	}

	blockSize := int64(e.geo.BlockSize)
	block := chainSkip(table, loc.entry.FirstBlock, int(offset/blockSize))
	blockOffset := int(offset % blockSize)

	copied := 0
	for copied < size && block != layout.End {
		data, err := e.readDataBlock(block)
		if err != nil {
			return copied, err
		}
		n := copy(buf[copied:size], data[blockOffset:])
		copied += n
		blockOffset = 0
		block = table[block]
	}
	return copied, nil
}

// Create implements spec.md §4.5's create: validates the basename,
// rejects a name collision (Open Question resolved in SPEC_FULL.md
// §9), and claims the first empty slot with an empty, block-less file.
func (e *Engine) Create(path string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.opts.logf("create %s\n", path)

	parent, base, err := splitParent(path)
	if err != nil {
		return err
	}
	if len(base) >= e.geo.FilenameMax {
		return ErrNameTooLong
	}

	entries, off, err := e.resolveDir(parent)
	if err != nil {
		return err
	}
	if findSlot(entries, base) >= 0 {
		return ErrExists
	}
	idx := findFreeSlot(entries)
	if idx < 0 {
		return ErrNoSpace
	}

	entries[idx] = layout.Entry{Filename: base, Size: 0, FirstBlock: layout.End}
	return e.writeEntries(off, entries)
}

// Mkdir implements spec.md §4.5's mkdir: allocates the directory's
// blocks (one or two, per Options.DoubleAllocateDirs — see SPEC_FULL.md
// §4.5 and §9), links them in the block table, claims a parent slot,
// and initializes the new directory's entry array to all-empty.
func (e *Engine) Mkdir(path string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.opts.logf("mkdir %s\n", path)

	parent, base, err := splitParent(path)
	if err != nil {
		return err
	}
	if len(base) >= e.geo.FilenameMax {
		return ErrNameTooLong
	}

	entries, off, err := e.resolveDir(parent)
	if err != nil {
		return err
	}
	if findSlot(entries, base) >= 0 {
		return ErrExists
	}
	idx := findFreeSlot(entries)
	if idx < 0 {
		return ErrNoSpace
	}

	table, err := e.readBlockTable()
	if err != nil {
		return err
	}

	k := 1
	if e.opts.DoubleAllocateDirs {
		k = 2
	}
	first, err := findFree(table, k)
	if err != nil {
		return ErrNoSpace
	}
	indices := []layout.BlockIdx{first}
	if k == 2 {
		indices = append(indices, first+1)
	}
	linkChain(table, indices)

	entries[idx] = layout.Entry{Filename: base, Size: layout.Directory, FirstBlock: first}

	if err := e.writeBlockTable(table); err != nil {
		return err
	}
	if err := e.writeEntries(off, entries); err != nil {
		return err
	}
	return e.writeDirBlock(first, blankEntries(e.geo.DirEntries()))
}

// Rmdir implements spec.md §4.5's rmdir: rejects a non-empty target,
// otherwise clears the parent's slot and frees the directory's chain.
func (e *Engine) Rmdir(path string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.opts.logf("rmdir %s\n", path)

	loc, err := e.resolve(path)
	if err != nil {
		return err
	}
	if !loc.entry.IsDir() {
		return ErrDirectoryRequired
	}

	subEntries, err := e.readDirBlock(loc.entry.FirstBlock)
	if err != nil {
		return err
	}
	for _, se := range subEntries {
		if !se.IsEmpty() {
			return ErrNotEmpty
		}
	}

	parent, base, err := splitParent(path)
	if err != nil {
		return err
	}
	entries, off, err := e.resolveDir(parent)
	if err != nil {
		return err
	}
	idx := findSlot(entries, base)
	if idx < 0 {
		return ErrNotFound
	}
	entries[idx] = layout.Entry{FirstBlock: layout.Empty}
	if err := e.writeEntries(off, entries); err != nil {
		return err
	}

	table, err := e.readBlockTable()
	if err != nil {
		return err
	}
	chainFree(table, loc.entry.FirstBlock)
	return e.writeBlockTable(table)
}

// Unlink implements spec.md §4.5's unlink: clears the parent's slot and
// frees the file's block chain.
func (e *Engine) Unlink(path string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.opts.logf("unlink %s\n", path)

	loc, err := e.resolve(path)
	if err != nil {
		return err
	}
	if loc.entry.IsDir() {
		return ErrIsDirectory
	}

	parent, base, err := splitParent(path)
	if err != nil {
		return err
	}
	entries, off, err := e.resolveDir(parent)
	if err != nil {
		return err
	}
	idx := findSlot(entries, base)
	if idx < 0 {
		return ErrNotFound
	}
	entries[idx] = layout.Entry{FirstBlock: layout.Empty}
	if err := e.writeEntries(off, entries); err != nil {
		return err
	}

	table, err := e.readBlockTable()
	if err != nil {
		return err
	}
	chainFree(table, loc.entry.FirstBlock)
	return e.writeBlockTable(table)
}

// Truncate implements spec.md §4.5's truncate, left as -ENOSYS in the
// original C source and completed here per its documented algorithm:
// grow or shrink the chain, zero-fill any newly-logical bytes, and
// update the entry's size.
func (e *Engine) Truncate(path string, size int64) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.opts.logf("truncate %s size=%d\n", path, size)

	if size < 0 {
		return ErrInvalidArgument
	}
	if size > int64(layout.SizeMask) {
		return ErrNoSpace
	}

	parent, base, err := splitParent(path)
	if err != nil {
		return err
	}
	entries, off, err := e.resolveDir(parent)
	if err != nil {
		return err
	}
	idx := findSlot(entries, base)
	if idx < 0 {
		return ErrNotFound
	}
	ent := entries[idx]
	if ent.IsDir() {
		return ErrIsDirectory
	}

	table, err := e.readBlockTable()
	if err != nil {
		return err
	}

	oldSize := int64(ent.FileSize())
	newFirst, err := e.resizeChain(table, ent.FirstBlock, oldSize, size)
	if err != nil {
		return err
	}

	if size > oldSize {
		if err := e.writeSpan(table, newFirst, make([]byte, size-oldSize), oldSize); err != nil {
			return err
		}
	}

	ent.FirstBlock = newFirst
	ent.Size = uint16(size)
	entries[idx] = ent

	if err := e.writeBlockTable(table); err != nil {
		return err
	}
	return e.writeEntries(off, entries)
}

// Write implements spec.md §4.5's write, left as -ENOSYS in the
// original C source and completed here per its documented algorithm:
// grow the chain if the write extends past the current size, zero-fill
// any gap created by writing past the old end, then copy buf in,
// spanning block boundaries.
func (e *Engine) Write(path string, buf []byte, offset int64) (int, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.opts.logf("write %s size=%d offset=%d\n", path, len(buf), offset)

	if offset < 0 {
		return 0, ErrInvalidArgument
	}

	parent, base, err := splitParent(path)
	if err != nil {
		return 0, err
	}
	entries, off, err := e.resolveDir(parent)
	if err != nil {
		return 0, err
	}
	idx := findSlot(entries, base)
	if idx < 0 {
		return 0, ErrNotFound
	}
	ent := entries[idx]
	if ent.IsDir() {
		return 0, ErrIsDirectory
	}

	oldSize := int64(ent.FileSize())
	newSize := offset + int64(len(buf))
	if newSize < oldSize {
		newSize = oldSize
	}
	if newSize > int64(layout.SizeMask) {
		return 0, ErrNoSpace
	}

	table, err := e.readBlockTable()
	if err != nil {
		return 0, err
	}

	newFirst, err := e.resizeChain(table, ent.FirstBlock, oldSize, newSize)
	if err != nil {
		return 0, err
	}

	if offset > oldSize {
		if err := e.writeSpan(table, newFirst, make([]byte, offset-oldSize), oldSize); err != nil {
			return 0, err
		}
	}
	if len(buf) > 0 {
		if err := e.writeSpan(table, newFirst, buf, offset); err != nil {
			return 0, err
		}
	}

	ent.FirstBlock = newFirst
	ent.Size = uint16(newSize)
	entries[idx] = ent

	if err := e.writeBlockTable(table); err != nil {
		return 0, err
	}
	if err := e.writeEntries(off, entries); err != nil {
		return 0, err
	}
	return len(buf), nil
}

// Rename implements the callback spec.md §6.2 lists but the C original
// stubs (§4.5, SPEC_FULL.md §4.5 supplement): locate both parents,
// reject a destination collision, copy the entry into the destination's
// first empty slot, clear the source slot. No block data moves — the
// chain moves with the entry's FirstBlock field.
func (e *Engine) Rename(oldPath, newPath string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.opts.logf("rename %s %s\n", oldPath, newPath)

	oldParent, oldBase, err := splitParent(oldPath)
	if err != nil {
		return err
	}
	newParent, newBase, err := splitParent(newPath)
	if err != nil {
		return err
	}
	if len(newBase) >= e.geo.FilenameMax {
		return ErrNameTooLong
	}

	if oldParent == newParent {
		entries, off, err := e.resolveDir(oldParent)
		if err != nil {
			return err
		}
		srcIdx := findSlot(entries, oldBase)
		if srcIdx < 0 {
			return ErrNotFound
		}
		if newBase != oldBase && findSlot(entries, newBase) >= 0 {
			return ErrExists
		}
		dstIdx := srcIdx
		if newBase != oldBase {
			dstIdx = findFreeSlot(entries)
			if dstIdx < 0 {
				return ErrNoSpace
			}
		}
		moved := entries[srcIdx]
		moved.Filename = newBase
		entries[srcIdx] = layout.Entry{FirstBlock: layout.Empty}
		entries[dstIdx] = moved
		return e.writeEntries(off, entries)
	}

	oldEntries, oldOff, err := e.resolveDir(oldParent)
	if err != nil {
		return err
	}
	newEntries, newOff, err := e.resolveDir(newParent)
	if err != nil {
		return err
	}
	srcIdx := findSlot(oldEntries, oldBase)
	if srcIdx < 0 {
		return ErrNotFound
	}
	if findSlot(newEntries, newBase) >= 0 {
		return ErrExists
	}
	dstIdx := findFreeSlot(newEntries)
	if dstIdx < 0 {
		return ErrNoSpace
	}

	moved := oldEntries[srcIdx]
	moved.Filename = newBase
	newEntries[dstIdx] = moved
	oldEntries[srcIdx] = layout.Entry{FirstBlock: layout.Empty}

	if err := e.writeEntries(newOff, newEntries); err != nil {
		return err
	}
	return e.writeEntries(oldOff, oldEntries)
}
