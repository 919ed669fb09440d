package engine

import (
	"github.com/AlicjaStr/sfs/internal/diskio"
	"github.com/AlicjaStr/sfs/internal/layout"
)

// magic is written to the header region so a formatted image is
// recognizable; the engine never interprets it beyond Format writing it
// and nothing reading it back, per spec.md §3.1 ("engine does not
// interpret beyond presence").
var magic = [4]byte{'S', 'F', 'S', '1'}

// Format writes a fresh header, an empty root directory, and an
// all-Empty block table to dev, sized according to geo. dev must
// already be geo.ImageSize() bytes long (diskio.Create does this).
// Format is not part of spec.md's minimal core — the core assumes a
// pre-formatted image — but every complete repository needs a way to
// produce one, and the `sfsfs format` subcommand is the natural home
// for it.
func Format(dev diskio.Device, geo layout.Geometry) error {
	header := make([]byte, layout.HeaderSize)
	copy(header, magic[:])
	if _, err := dev.WriteAt(header, geo.HeaderOff()); err != nil {
		return err
	}

	e := &Engine{dev: dev, geo: geo, opts: defaultOptions()}

	if err := e.writeRootEntries(blankEntries(geo.RootEntries)); err != nil {
		return err
	}

	table := make([]layout.BlockIdx, geo.BlockCount)
	for i := range table {
		table[i] = layout.Empty
	}
	return e.writeBlockTable(table)
}
