package engine

import (
	"io"
	"testing"

	"github.com/AlicjaStr/sfs/internal/layout"
)

// mockDevice implements diskio.Device over an in-memory byte slice and
// can be told to fail reads/writes past a given offset, the same
// technique the teacher library's mock_test.go uses to drive error
// paths without a real backing file.
type mockDevice struct {
	data   []byte
	errAt  int64
	errMsg error
}

func (m *mockDevice) ReadAt(p []byte, off int64) (int, error) {
	if m.errMsg != nil && off >= m.errAt {
		return 0, m.errMsg
	}
	n := copy(p, m.data[off:])
	return n, nil
}

func (m *mockDevice) WriteAt(p []byte, off int64) (int, error) {
	if m.errMsg != nil && off >= m.errAt {
		return 0, m.errMsg
	}
	n := copy(m.data[off:], p)
	return n, nil
}

func (m *mockDevice) Truncate(size int64) error { return nil }
func (m *mockDevice) Size() (int64, error)      { return int64(len(m.data)), nil }
func (m *mockDevice) Close() error              { return nil }

func TestEngineSurfacesDeviceErrors(t *testing.T) {
	geo := layout.Geometry{FilenameMax: 16, RootEntries: 8, BlockSize: 64, BlockCount: 32}
	dev := &mockDevice{data: make([]byte, geo.ImageSize())}
	if err := Format(dev, geo); err != nil {
		t.Fatalf("format: %v", err)
	}

	dev.errAt = 0
	dev.errMsg = io.ErrClosedPipe

	e := New(dev, geo)
	if err := e.Create("/x"); err != io.ErrClosedPipe {
		t.Fatalf("expected device error to surface, got %v", err)
	}
}
