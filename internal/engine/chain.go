package engine

import "github.com/AlicjaStr/sfs/internal/layout"

// chainSkip follows n links from first through table, per spec.md
// §4.3's Skip(entry, n): returns the resulting block index, or End if
// the chain terminates before n hops.
func chainSkip(table []layout.BlockIdx, first layout.BlockIdx, n int) layout.BlockIdx {
	block := first
	for ; n > 0 && block != layout.End; n-- {
		block = table[block]
	}
	return block
}

// chainForeach walks the chain starting at first, calling fn with each
// block index until End, per spec.md §4.3's Foreach. It stops and
// returns fn's error if fn returns non-nil.
func chainForeach(table []layout.BlockIdx, first layout.BlockIdx, fn func(layout.BlockIdx) error) error {
	for block := first; block != layout.End; block = table[block] {
		if err := fn(block); err != nil {
			return err
		}
	}
	return nil
}

// chainFree walks the chain starting at first, marking every visited
// slot Empty, per spec.md §4.3's Free. It does not persist the table;
// callers write the table back once, after all of an operation's
// mutations are applied, per the whole-region-write convention (spec.md
// §4.5).
func chainFree(table []layout.BlockIdx, first layout.BlockIdx) {
	block := first
	for block != layout.End {
		next := table[block]
		table[block] = layout.Empty
		block = next
	}
}

// chainLength counts the blocks in the chain starting at first.
func chainLength(table []layout.BlockIdx, first layout.BlockIdx) int {
	n := 0
	chainForeach(table, first, func(layout.BlockIdx) error {
		n++
		return nil
	})
	return n
}

// findFree scans table for the lowest index i such that i..i+k-1 are
// all Empty, per spec.md §4.4's FindFree. Returns the starting index,
// or ErrNoSpace if no such run exists.
func findFree(table []layout.BlockIdx, k int) (layout.BlockIdx, error) {
	if k <= 0 {
		return 0, ErrInvalidArgument
	}
outer:
	for i := 0; i <= len(table)-k; i++ {
		for j := 0; j < k; j++ {
			if table[i+j] != layout.Empty {
				continue outer
			}
		}
		return layout.BlockIdx(i), nil
	}
	return 0, ErrNoSpace
}

// linkChain writes successor links between consecutive indices and End
// into the last, per spec.md §4.4's Link. It does not persist the
// table; see chainFree.
func linkChain(table []layout.BlockIdx, indices []layout.BlockIdx) {
	for i, idx := range indices {
		if i == len(indices)-1 {
			table[idx] = layout.End
		} else {
			table[idx] = indices[i+1]
		}
	}
}
