package engine

import "github.com/AlicjaStr/sfs/internal/layout"

// resizeChain grows or shrinks the block chain starting at first so it
// has enough blocks to cover newSize bytes, given it currently covers
// oldSize bytes. It mutates table in place and returns the (possibly
// new) first block index; callers persist table and the owning entry
// themselves. Newly allocated blocks are left with whatever stale bytes
// the data region last held — callers are expected to zero-fill the
// logical range themselves via writeSpan, since that range may include
// bytes in a block that was not newly allocated (the previous last
// block, grown in place).
func (e *Engine) resizeChain(table []layout.BlockIdx, first layout.BlockIdx, oldSize, newSize int64) (layout.BlockIdx, error) {
	blockSize := int64(e.geo.BlockSize)
	oldBlocks := chainLength(table, first)
	neededBlocks := 0
	if newSize > 0 {
		neededBlocks = int((newSize + blockSize - 1) / blockSize)
	}

	switch {
	case neededBlocks > oldBlocks:
		toAdd := neededBlocks - oldBlocks
		added := make([]layout.BlockIdx, 0, toAdd)
		for i := 0; i < toAdd; i++ {
			idx, err := findFree(table, 1)
			if err != nil {
				// roll back the blocks we tentatively marked so a
				// failed grow doesn't leak table slots.
				for _, a := range added {
					table[a] = layout.Empty
				}
				return first, err
			}
			// mark non-empty so the next findFree call doesn't pick
			// the same slot; linkChain overwrites this below.
			table[idx] = layout.End
			added = append(added, idx)
		}
		if oldBlocks == 0 {
			linkChain(table, added)
			first = added[0]
		} else {
			last := chainSkip(table, first, oldBlocks-1)
			linkChain(table, added)
			table[last] = added[0]
		}

	case neededBlocks < oldBlocks:
		if neededBlocks == 0 {
			chainFree(table, first)
			first = layout.End
		} else {
			newLast := chainSkip(table, first, neededBlocks-1)
			chainFree(table, table[newLast])
			table[newLast] = layout.End
		}
	}

	return first, nil
}

// writeSpan writes data into the chain starting at first, beginning at
// logical byte offset start, splicing across block boundaries with a
// read-modify-write of each touched block (a write may only cover part
// of a block).
func (e *Engine) writeSpan(table []layout.BlockIdx, first layout.BlockIdx, data []byte, start int64) error {
	if len(data) == 0 {
		return nil
	}
	blockSize := int64(e.geo.BlockSize)
	block := chainSkip(table, first, int(start/blockSize))
	offset := int(start % blockSize)
	written := 0

	for written < len(data) {
		if block == layout.End {
			return ErrInvalidArgument
		}
		buf, err := e.readDataBlock(block)
		if err != nil {
			return err
		}
		n := copy(buf[offset:], data[written:])
		if err := e.writeDataBlock(block, buf); err != nil {
			return err
		}
		written += n
		offset = 0
		block = table[block]
	}
	return nil
}
