// Package layout defines the on-disk regions of an SFS image and the
// packed binary codec for directory entries and block-table cells.
//
// An SFS image is a fixed-size file laid out as four regions, in order:
// header, root directory, block table, data blocks. Everything in this
// package is pure encode/decode and arithmetic over those regions; it
// never performs I/O itself (see internal/diskio for that) and it never
// interprets the DIRECTORY flag or the chain sentinels beyond exposing
// them as named values — callers in internal/engine own that meaning.
package layout

import "encoding/binary"

// Geometry is the set of constants that describe one SFS image. The
// format is header-driven per the original specification: an
// implementation is free to choose these values as long as it reads
// them consistently for a given image, rather than hard-coding a single
// global layout. Format() in internal/engine builds a fresh image using
// a Geometry; callers of engine.New must supply the same Geometry the
// image was formatted with.
type Geometry struct {
	FilenameMax int // max filename bytes, NUL included
	RootEntries int // slots in the root directory
	BlockSize   int // bytes per data block
	BlockCount  int // number of data blocks
}

// Default is the geometry the `sfsfs format` and `sfsfs mount`
// subcommands use when no geometry flags are given.
var Default = Geometry{
	FilenameMax: 28,
	RootEntries: 32,
	BlockSize:   512,
	BlockCount:  1024,
}

// EntrySize is the on-disk size of one directory entry: filename bytes,
// then a little-endian uint16 size field, then a little-endian uint16
// first_block index. There is no padding beyond the packed fields.
func (g Geometry) EntrySize() int {
	return g.FilenameMax + 2 + 2
}

// DirEntries is the number of whole entries that fit in one data block
// when that block is used to hold a sub-directory's entry array. With
// Default, DirEntries*EntrySize() == BlockSize exactly; with other
// geometries any remainder at the end of the block is unused.
func (g Geometry) DirEntries() int {
	return g.BlockSize / g.EntrySize()
}

// Region offsets and sizes, computed from Geometry. The header is a
// fixed-size reserved area the engine does not interpret beyond its
// presence.
const HeaderSize = 16

func (g Geometry) HeaderOff() int64 { return 0 }

func (g Geometry) RootOff() int64 { return HeaderSize }
func (g Geometry) RootSize() int64 {
	return int64(g.RootEntries * g.EntrySize())
}

func (g Geometry) BlockTableOff() int64 {
	return g.RootOff() + g.RootSize()
}
func (g Geometry) BlockTableSize() int64 {
	return int64(g.BlockCount * 2) // one uint16 cell per block
}

func (g Geometry) DataOff() int64 {
	return g.BlockTableOff() + g.BlockTableSize()
}
func (g Geometry) DataSize() int64 {
	return int64(g.BlockCount * g.BlockSize)
}

// ImageSize is the total size a conforming image file must have.
func (g Geometry) ImageSize() int64 {
	return g.DataOff() + g.DataSize()
}

// BlockOff returns the absolute byte offset of data block idx.
func (g Geometry) BlockOff(idx BlockIdx) int64 {
	return g.DataOff() + int64(idx)*int64(g.BlockSize)
}

// BlockIdx indexes the block table. Two values are reserved as
// sentinels rather than real block indices: Empty marks a free block,
// End terminates a chain. Everything below Empty is a valid index or a
// successor link.
type BlockIdx uint16

const (
	// Empty marks a block-table slot that holds no live chain.
	Empty BlockIdx = 0xFFFE
	// End terminates a chain: the slot holding End is the last block
	// of some live chain (or, as entry.FirstBlock, an empty file).
	End BlockIdx = 0xFFFF
)

// IsSentinel reports whether b is Empty or End rather than a real link.
func (b BlockIdx) IsSentinel() bool {
	return b == Empty || b == End
}

// Size high bit and mask, per the data model: the DIRECTORY flag lives
// in the high bit of the entry's size field, and the low bits are the
// payload size for files (unused for directories).
const (
	Directory uint16 = 1 << 15
	SizeMask  uint16 = Directory - 1
)

// Entry is the in-memory form of one packed directory entry.
type Entry struct {
	Filename   string // decoded up to the first NUL
	Size       uint16 // high bit: DIRECTORY flag; low bits: SIZEMASK
	FirstBlock BlockIdx
}

// IsEmpty reports whether this slot holds no entry (first filename byte is NUL).
func (e Entry) IsEmpty() bool {
	return len(e.Filename) == 0
}

// IsDir reports whether the DIRECTORY flag is set.
func (e Entry) IsDir() bool {
	return e.Size&Directory != 0
}

// FileSize returns the payload size in bytes (meaningless for directories).
func (e Entry) FileSize() uint16 {
	return e.Size & SizeMask
}

// Marshal encodes e into a Geometry-sized buffer, NUL-padding the
// filename to FilenameMax bytes. It is an error for Filename to not fit
// in FilenameMax-1 bytes (room must remain for the NUL terminator);
// callers are expected to have already validated name length (spec's
// name-too-long check happens earlier, in the operation engine).
func (g Geometry) Marshal(e Entry, buf []byte) {
	if len(buf) < g.EntrySize() {
		panic("layout: buffer too small for entry")
	}
	for i := range buf[:g.FilenameMax] {
		buf[i] = 0
	}
	copy(buf[:g.FilenameMax], e.Filename)
	binary.LittleEndian.PutUint16(buf[g.FilenameMax:], e.Size)
	binary.LittleEndian.PutUint16(buf[g.FilenameMax+2:], uint16(e.FirstBlock))
}

// Unmarshal decodes one entry from a Geometry-sized buffer.
func (g Geometry) Unmarshal(buf []byte) Entry {
	nul := g.FilenameMax
	for i, b := range buf[:g.FilenameMax] {
		if b == 0 {
			nul = i
			break
		}
	}
	return Entry{
		Filename:   string(buf[:nul]),
		Size:       binary.LittleEndian.Uint16(buf[g.FilenameMax:]),
		FirstBlock: BlockIdx(binary.LittleEndian.Uint16(buf[g.FilenameMax+2:])),
	}
}

// MarshalCell encodes a block-table cell (a successor link or sentinel).
func MarshalCell(v BlockIdx, buf []byte) {
	binary.LittleEndian.PutUint16(buf, uint16(v))
}

// UnmarshalCell decodes a block-table cell.
func UnmarshalCell(buf []byte) BlockIdx {
	return BlockIdx(binary.LittleEndian.Uint16(buf))
}
