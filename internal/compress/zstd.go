//go:build zstd

package compress

import (
	"io"

	"github.com/klauspost/compress/zstd"
)

func init() {
	Register(ZSTD, &Handler{
		Compress: func(w io.Writer) (io.WriteCloser, error) {
			return zstd.NewWriter(w)
		},
		Decompress: func(r io.Reader) (io.ReadCloser, error) {
			dec, err := zstd.NewReader(r)
			if err != nil {
				return nil, err
			}
			return dec.IOReadCloser(), nil
		},
	})
}
