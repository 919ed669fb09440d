// Package compress is the codec registry backing the `sfsfs snapshot`
// and `sfsfs restore` subcommands. An SFS image itself is never
// compressed (spec.md's data model has no room for it) — this package
// only wraps the byte stream `sfsfs snapshot` writes to a backup file,
// grounded on the teacher library's own comp.go/comp_xz.go/comp_zstd.go
// dispatch: a small named-codec enum, a registry keyed on it, and
// build-tag-gated init() registration so a binary only links the codecs
// it was built with.
package compress

import (
	"fmt"
	"io"
)

// Codec names a compression format a snapshot can be written with.
type Codec string

const (
	None Codec = "none"
	XZ   Codec = "xz"
	ZSTD Codec = "zstd"
)

func (c Codec) String() string {
	if c == "" {
		return string(None)
	}
	return string(c)
}

// Handler wraps one codec's writer and reader constructors. Compress
// wraps w so writes to it are compressed; Decompress wraps r so reads
// from it are decompressed. Close on the returned writer finishes the
// compressed stream; neither Close closes the wrapped w or r.
type Handler struct {
	Compress   func(w io.Writer) (io.WriteCloser, error)
	Decompress func(r io.Reader) (io.ReadCloser, error)
}

var registry = map[Codec]*Handler{
	None: {
		Compress:   func(w io.Writer) (io.WriteCloser, error) { return nopWriteCloser{w}, nil },
		Decompress: func(r io.Reader) (io.ReadCloser, error) { return io.NopCloser(r), nil },
	},
}

// Register adds a codec to the registry. Called from the build-tag-gated
// init() functions in xz.go and zstd.go; a binary built without a given
// tag simply never registers that codec, and Lookup reports it unknown.
func Register(c Codec, h *Handler) {
	registry[c] = h
}

// Lookup returns the handler for c, or an error naming the codec if it
// was never registered (i.e. the binary wasn't built with its tag).
func Lookup(c Codec) (*Handler, error) {
	if c == "" {
		c = None
	}
	h, ok := registry[c]
	if !ok {
		return nil, fmt.Errorf("compress: codec %q not available in this build", c)
	}
	return h, nil
}

type nopWriteCloser struct{ io.Writer }

func (nopWriteCloser) Close() error { return nil }
