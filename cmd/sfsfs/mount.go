package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	gofuse "github.com/hanwen/go-fuse/v2/fs"
	"github.com/hanwen/go-fuse/v2/fuse"

	"github.com/AlicjaStr/sfs/internal/diskio"
	"github.com/AlicjaStr/sfs/internal/engine"
	"github.com/AlicjaStr/sfs/internal/layout"
	"github.com/AlicjaStr/sfs/sfsfuse"
)

func runMount(args []string) error {
	fs := flag.NewFlagSet("mount", flag.ExitOnError)
	img := fs.String("img", "test.img", "image file to mount")
	blocks := fs.Int("blocks", layout.Default.BlockCount, "number of data blocks (must match format)")
	blockSize := fs.Int("block-size", layout.Default.BlockSize, "bytes per data block (must match format)")
	entries := fs.Int("root-entries", layout.Default.RootEntries, "root directory entry slots (must match format)")
	nameMax := fs.Int("name-max", layout.Default.FilenameMax, "max filename length (must match format)")
	background := fs.Bool("background", false, "run detached once mounted")
	verbose := fs.Bool("verbose", false, "log every operation")
	singleBlockDirs := fs.Bool("single-block-dirs", false, "allocate one block per directory instead of two")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() < 1 {
		return fmt.Errorf("missing mount point")
	}
	mountpoint := fs.Arg(0)

	geo := layout.Geometry{
		FilenameMax: *nameMax,
		RootEntries: *entries,
		BlockSize:   *blockSize,
		BlockCount:  *blocks,
	}

	disk, err := diskio.Open(*img)
	if err != nil {
		return fmt.Errorf("failed to open image: %w", err)
	}
	defer disk.Close()

	var opts []engine.Option
	if *verbose {
		opts = append(opts, engine.WithVerbose(log.New(os.Stderr, "sfsfs: ", log.LstdFlags)))
	}
	if *singleBlockDirs {
		opts = append(opts, engine.WithSingleBlockDirs())
	}
	eng := engine.New(disk, geo, opts...)

	root := sfsfuse.NewRoot(eng)
	server, err := gofuse.Mount(mountpoint, root, &gofuse.Options{
		MountOptions: fuse.MountOptions{
			FsName: "sfs",
			Name:   "sfs",
		},
	})
	if err != nil {
		return fmt.Errorf("failed to mount: %w", err)
	}

	ready := make(chan struct{})
	if *background {
		go func() {
			close(ready)
			server.Wait()
		}()
		<-ready
		return nil
	}

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sig
		server.Unmount()
	}()

	server.Wait()
	return nil
}
