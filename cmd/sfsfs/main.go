package main

import (
	"fmt"
	"os"
)

const usage = `sfsfs - SFS filesystem CLI tool

Usage:
  sfsfs format --img=PATH [--block-size=N] [--blocks=N] [--root-entries=N] [--name-max=N]
                                             Create a new, empty SFS image
  sfsfs mount --img=PATH [--background] [--verbose] <mountpoint>
                                             Mount an SFS image over FUSE
  sfsfs snapshot --img=PATH --out=PATH [--xz|--zstd]
                                             Back up an image to a (optionally compressed) file
  sfsfs restore --img=PATH --in=PATH [--xz|--zstd]
                                             Restore an image from a snapshot
  sfsfs help                                 Show this help message

Examples:
  sfsfs format --img=disk.sfs               Create disk.sfs with the default geometry
  sfsfs mount --img=disk.sfs /mnt/sfs       Mount disk.sfs at /mnt/sfs until interrupted
  sfsfs snapshot --img=disk.sfs --out=disk.sfs.xz --xz
                                             Write a compressed backup of disk.sfs
  sfsfs restore --img=disk.sfs --in=disk.sfs.xz --xz
                                             Overwrite disk.sfs from a compressed backup
`

func main() {
	if len(os.Args) < 2 {
		fmt.Println(usage)
		os.Exit(1)
	}

	cmd := os.Args[1]
	var err error

	switch cmd {
	case "format":
		err = runFormat(os.Args[2:])
	case "mount":
		err = runMount(os.Args[2:])
	case "snapshot":
		err = runSnapshot(os.Args[2:])
	case "restore":
		err = runRestore(os.Args[2:])
	case "help", "--help":
		fmt.Println(usage)
		return
	default:
		fmt.Printf("Error: Unknown command '%s'\n", cmd)
		fmt.Println(usage)
		os.Exit(1)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}
