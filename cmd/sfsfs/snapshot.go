package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/AlicjaStr/sfs/internal/compress"
	"github.com/AlicjaStr/sfs/internal/diskio"
)

func runSnapshot(args []string) error {
	fs := flag.NewFlagSet("snapshot", flag.ExitOnError)
	img := fs.String("img", "test.img", "image file to back up")
	out := fs.String("out", "", "snapshot file to write")
	useXZ := fs.Bool("xz", false, "compress with xz")
	useZstd := fs.Bool("zstd", false, "compress with zstd")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *out == "" {
		return fmt.Errorf("missing -out")
	}

	codec, err := codecFromFlags(*useXZ, *useZstd)
	if err != nil {
		return err
	}
	handler, err := compress.Lookup(codec)
	if err != nil {
		return err
	}

	disk, err := diskio.Open(*img)
	if err != nil {
		return fmt.Errorf("failed to open image: %w", err)
	}
	defer disk.Close()

	outFile, err := os.OpenFile(*out, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		return fmt.Errorf("failed to create snapshot file: %w", err)
	}
	defer outFile.Close()

	w, err := handler.Compress(outFile)
	if err != nil {
		return fmt.Errorf("failed to set up %s compression: %w", codec, err)
	}

	if err := disk.Backup(w); err != nil {
		w.Close()
		return fmt.Errorf("failed to back up image: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("failed to finalize snapshot: %w", err)
	}

	fmt.Printf("wrote %s (codec=%s) from %s\n", *out, codec, *img)
	return nil
}

func codecFromFlags(useXZ, useZstd bool) (compress.Codec, error) {
	switch {
	case useXZ && useZstd:
		return "", fmt.Errorf("specify at most one of -xz, -zstd")
	case useXZ:
		return compress.XZ, nil
	case useZstd:
		return compress.ZSTD, nil
	default:
		return compress.None, nil
	}
}
