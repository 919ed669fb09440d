package main

import (
	"flag"
	"fmt"

	"github.com/AlicjaStr/sfs/internal/diskio"
	"github.com/AlicjaStr/sfs/internal/engine"
	"github.com/AlicjaStr/sfs/internal/layout"
)

func runFormat(args []string) error {
	fs := flag.NewFlagSet("format", flag.ExitOnError)
	img := fs.String("img", "test.img", "image file to create")
	blocks := fs.Int("blocks", layout.Default.BlockCount, "number of data blocks")
	blockSize := fs.Int("block-size", layout.Default.BlockSize, "bytes per data block")
	entries := fs.Int("root-entries", layout.Default.RootEntries, "root directory entry slots")
	nameMax := fs.Int("name-max", layout.Default.FilenameMax, "max filename length, NUL included")
	if err := fs.Parse(args); err != nil {
		return err
	}

	geo := layout.Geometry{
		FilenameMax: *nameMax,
		RootEntries: *entries,
		BlockSize:   *blockSize,
		BlockCount:  *blocks,
	}

	disk, err := diskio.Create(*img, geo.ImageSize())
	if err != nil {
		return fmt.Errorf("failed to create image: %w", err)
	}
	defer disk.Close()

	if err := engine.Format(disk, geo); err != nil {
		return fmt.Errorf("failed to format image: %w", err)
	}

	fmt.Printf("formatted %s: %d blocks x %d bytes, %d root entries, %d byte names\n",
		*img, geo.BlockCount, geo.BlockSize, geo.RootEntries, geo.FilenameMax)
	return nil
}
