// Package diskio is the disk I/O shim: an offset-addressed byte
// reader/writer over a single SFS image file. It is deliberately thin —
// spec.md treats this layer as an external collaborator, specified only
// at its interface (read(buf, len, off), write(buf, len, off),
// open(path)) — so Image just adapts *os.File to the ReaderAt/WriterAt
// shape the rest of the module is built against, with no caching, no
// journaling, and no knowledge of SFS's own layout.
package diskio

import (
	"io"
	"os"
)

// Device is the minimal surface the engine needs from a backing store.
// *Image satisfies it; tests substitute an in-memory implementation
// to drive error paths without touching the filesystem (see
// internal/engine's use of a byte-slice-backed mock, grounded on the
// same technique the teacher library uses in mock_test.go).
type Device interface {
	io.ReaderAt
	io.WriterAt
	Truncate(size int64) error
	Size() (int64, error)
	Close() error
}

// Image opens an SFS image file for offset-addressed access.
type Image struct {
	f    *os.File
	path string
}

// Open opens path for read/write. It does not create the file; use
// Create for that (the `sfsfs format` subcommand does).
func Open(path string) (*Image, error) {
	f, err := os.OpenFile(path, os.O_RDWR, 0)
	if err != nil {
		return nil, err
	}
	return &Image{f: f, path: path}, nil
}

// Create creates a new image file at path, truncating any existing
// content, sized to size bytes of zeroes.
func Create(path string, size int64) (*Image, error) {
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		return nil, err
	}
	if err := preallocate(f, size); err != nil {
		f.Close()
		os.Remove(path)
		return nil, err
	}
	return &Image{f: f, path: path}, nil
}

func (img *Image) ReadAt(p []byte, off int64) (int, error) {
	return img.f.ReadAt(p, off)
}

func (img *Image) WriteAt(p []byte, off int64) (int, error) {
	return img.f.WriteAt(p, off)
}

func (img *Image) Truncate(size int64) error {
	return img.f.Truncate(size)
}

func (img *Image) Size() (int64, error) {
	st, err := img.f.Stat()
	if err != nil {
		return 0, err
	}
	return st.Size(), nil
}

func (img *Image) Close() error {
	return img.f.Close()
}

func (img *Image) Path() string {
	return img.path
}

// Backup streams the entire image to w, byte for byte. Used by the
// `sfsfs snapshot` subcommand, optionally through a compressing writer
// (see internal/compress).
func (img *Image) Backup(w io.Writer) error {
	_, err := io.Copy(w, io.NewSectionReader(img.f, 0, mustSize(img)))
	return err
}

// Restore overwrites the image's contents from r, which must yield
// exactly the image's current size in bytes.
func (img *Image) Restore(r io.Reader) error {
	size, err := img.Size()
	if err != nil {
		return err
	}
	if _, err := img.f.Seek(0, io.SeekStart); err != nil {
		return err
	}
	n, err := io.Copy(img.f, io.LimitReader(r, size))
	if err != nil {
		return err
	}
	if n != size {
		return io.ErrUnexpectedEOF
	}
	return nil
}

func mustSize(img *Image) int64 {
	n, err := img.Size()
	if err != nil {
		return 0
	}
	return n
}
