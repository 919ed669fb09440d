package diskio_test

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/AlicjaStr/sfs/internal/diskio"
)

func TestCreateOpenRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.img")

	img, err := diskio.Create(path, 4096)
	if err != nil {
		t.Fatalf("create: %s", err)
	}

	want := []byte("hello, sfs")
	if _, err := img.WriteAt(want, 100); err != nil {
		t.Fatalf("write: %s", err)
	}
	if err := img.Close(); err != nil {
		t.Fatalf("close: %s", err)
	}

	img2, err := diskio.Open(path)
	if err != nil {
		t.Fatalf("open: %s", err)
	}
	defer img2.Close()

	got := make([]byte, len(want))
	if _, err := img2.ReadAt(got, 100); err != nil {
		t.Fatalf("read: %s", err)
	}
	if !bytes.Equal(got, want) {
		t.Errorf("got %q, want %q", got, want)
	}

	size, err := img2.Size()
	if err != nil {
		t.Fatalf("size: %s", err)
	}
	if size != 4096 {
		t.Errorf("size = %d, want 4096", size)
	}
}

func TestBackupRestore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.img")
	img, err := diskio.Create(path, 512)
	if err != nil {
		t.Fatalf("create: %s", err)
	}
	defer img.Close()

	payload := bytes.Repeat([]byte{0xAB}, 512)
	if _, err := img.WriteAt(payload, 0); err != nil {
		t.Fatalf("write: %s", err)
	}

	var buf bytes.Buffer
	if err := img.Backup(&buf); err != nil {
		t.Fatalf("backup: %s", err)
	}
	if !bytes.Equal(buf.Bytes(), payload) {
		t.Errorf("backup produced wrong bytes")
	}

	zero := make([]byte, 512)
	if _, err := img.WriteAt(zero, 0); err != nil {
		t.Fatalf("zero: %s", err)
	}

	if err := img.Restore(bytes.NewReader(payload)); err != nil {
		t.Fatalf("restore: %s", err)
	}
	got := make([]byte, 512)
	if _, err := img.ReadAt(got, 0); err != nil {
		t.Fatalf("read after restore: %s", err)
	}
	if !bytes.Equal(got, payload) {
		t.Errorf("restore did not roundtrip")
	}
}
