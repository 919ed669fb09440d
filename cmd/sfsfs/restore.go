package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/AlicjaStr/sfs/internal/compress"
	"github.com/AlicjaStr/sfs/internal/diskio"
)

func runRestore(args []string) error {
	fs := flag.NewFlagSet("restore", flag.ExitOnError)
	img := fs.String("img", "test.img", "image file to overwrite")
	in := fs.String("in", "", "snapshot file to restore from")
	useXZ := fs.Bool("xz", false, "the snapshot was written with xz compression")
	useZstd := fs.Bool("zstd", false, "the snapshot was written with zstd compression")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *in == "" {
		return fmt.Errorf("missing -in")
	}

	codec, err := codecFromFlags(*useXZ, *useZstd)
	if err != nil {
		return err
	}
	handler, err := compress.Lookup(codec)
	if err != nil {
		return err
	}

	inFile, err := os.Open(*in)
	if err != nil {
		return fmt.Errorf("failed to open snapshot file: %w", err)
	}
	defer inFile.Close()

	r, err := handler.Decompress(inFile)
	if err != nil {
		return fmt.Errorf("failed to set up %s decompression: %w", codec, err)
	}
	defer r.Close()

	disk, err := diskio.Open(*img)
	if err != nil {
		return fmt.Errorf("failed to open image: %w", err)
	}
	defer disk.Close()

	if err := disk.Restore(r); err != nil {
		return fmt.Errorf("failed to restore image: %w", err)
	}

	fmt.Printf("restored %s (codec=%s) from %s\n", *img, codec, *in)
	return nil
}
