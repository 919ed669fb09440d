package engine

import (
	"bytes"
	"testing"

	"github.com/AlicjaStr/sfs/internal/diskio"
	"github.com/AlicjaStr/sfs/internal/layout"
)

func newTestEngine(t *testing.T, opts ...Option) (*Engine, func()) {
	t.Helper()
	geo := layout.Geometry{FilenameMax: 16, RootEntries: 8, BlockSize: 64, BlockCount: 32}
	path := t.TempDir() + "/image.sfs"
	img, err := diskio.Create(path, geo.ImageSize())
	if err != nil {
		t.Fatalf("create image: %v", err)
	}
	if err := Format(img, geo); err != nil {
		t.Fatalf("format: %v", err)
	}
	e := New(img, geo, opts...)
	return e, func() { img.Close() }
}

func TestCreateThenGetattr(t *testing.T) {
	e, cleanup := newTestEngine(t)
	defer cleanup()

	if err := e.Create("/hello.txt"); err != nil {
		t.Fatalf("create: %v", err)
	}
	st, err := e.Getattr("/hello.txt")
	if err != nil {
		t.Fatalf("getattr: %v", err)
	}
	if st.IsDir {
		t.Fatalf("expected regular file")
	}
	if st.Size != 0 {
		t.Fatalf("expected size 0, got %d", st.Size)
	}
}

func TestCreateDuplicateRejected(t *testing.T) {
	e, cleanup := newTestEngine(t)
	defer cleanup()

	if err := e.Create("/a.txt"); err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := e.Create("/a.txt"); err != ErrExists {
		t.Fatalf("expected ErrExists, got %v", err)
	}
}

func TestCreateNameTooLong(t *testing.T) {
	e, cleanup := newTestEngine(t)
	defer cleanup()

	long := bytes.Repeat([]byte("x"), 64)
	if err := e.Create("/" + string(long)); err != ErrNameTooLong {
		t.Fatalf("expected ErrNameTooLong, got %v", err)
	}
}

func TestWriteReadRoundTrip(t *testing.T) {
	e, cleanup := newTestEngine(t)
	defer cleanup()

	if err := e.Create("/data.bin"); err != nil {
		t.Fatalf("create: %v", err)
	}
	payload := bytes.Repeat([]byte("0123456789"), 20) // 200 bytes, spans several 64-byte blocks
	n, err := e.Write("/data.bin", payload, 0)
	if err != nil {
		t.Fatalf("write: %v", err)
	}
	if n != len(payload) {
		t.Fatalf("short write: %d != %d", n, len(payload))
	}

	buf := make([]byte, len(payload))
	n, err = e.Read("/data.bin", buf, 0)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if n != len(payload) || !bytes.Equal(buf, payload) {
		t.Fatalf("round trip mismatch")
	}

	st, err := e.Getattr("/data.bin")
	if err != nil {
		t.Fatalf("getattr: %v", err)
	}
	if st.Size != int64(len(payload)) {
		t.Fatalf("size mismatch: %d", st.Size)
	}
}

func TestWriteAtOffsetZeroFillsGap(t *testing.T) {
	e, cleanup := newTestEngine(t)
	defer cleanup()

	if err := e.Create("/gap.bin"); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := e.Write("/gap.bin", []byte("tail"), 100); err != nil {
		t.Fatalf("write: %v", err)
	}

	buf := make([]byte, 104)
	n, err := e.Read("/gap.bin", buf, 0)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if n != 104 {
		t.Fatalf("expected 104 bytes, got %d", n)
	}
	for i := 0; i < 100; i++ {
		if buf[i] != 0 {
			t.Fatalf("expected zero gap at %d, got %v", i, buf[i])
		}
	}
	if !bytes.Equal(buf[100:], []byte("tail")) {
		t.Fatalf("tail mismatch: %q", buf[100:])
	}
}

func TestTruncateGrowAndShrink(t *testing.T) {
	e, cleanup := newTestEngine(t)
	defer cleanup()

	if err := e.Create("/t.bin"); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := e.Write("/t.bin", []byte("hello world"), 0); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := e.Truncate("/t.bin", 200); err != nil {
		t.Fatalf("truncate grow: %v", err)
	}
	st, err := e.Getattr("/t.bin")
	if err != nil {
		t.Fatalf("getattr: %v", err)
	}
	if st.Size != 200 {
		t.Fatalf("expected size 200, got %d", st.Size)
	}

	if err := e.Truncate("/t.bin", 5); err != nil {
		t.Fatalf("truncate shrink: %v", err)
	}
	buf := make([]byte, 5)
	n, err := e.Read("/t.bin", buf, 0)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if n != 5 || string(buf) != "hello" {
		t.Fatalf("shrink mismatch: %q", buf[:n])
	}
}

func TestMkdirRmdirRoundTrip(t *testing.T) {
	e, cleanup := newTestEngine(t)
	defer cleanup()

	if err := e.Mkdir("/sub"); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	names, err := e.Readdir("/sub")
	if err != nil {
		t.Fatalf("readdir: %v", err)
	}
	if len(names) != 2 || names[0] != "." || names[1] != ".." {
		t.Fatalf("expected empty new dir, got %v", names)
	}

	if err := e.Create("/sub/file.txt"); err != nil {
		t.Fatalf("create nested: %v", err)
	}
	if err := e.Rmdir("/sub"); err != ErrNotEmpty {
		t.Fatalf("expected ErrNotEmpty, got %v", err)
	}

	if err := e.Unlink("/sub/file.txt"); err != nil {
		t.Fatalf("unlink nested: %v", err)
	}
	if err := e.Rmdir("/sub"); err != nil {
		t.Fatalf("rmdir: %v", err)
	}
	if _, err := e.Getattr("/sub"); err != ErrNotFound {
		t.Fatalf("expected removed dir to vanish, got %v", err)
	}
}

func TestUnlinkRejectsDirectory(t *testing.T) {
	e, cleanup := newTestEngine(t)
	defer cleanup()

	if err := e.Mkdir("/d"); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := e.Unlink("/d"); err != ErrIsDirectory {
		t.Fatalf("expected ErrIsDirectory, got %v", err)
	}
}

func TestRenameSameDirectory(t *testing.T) {
	e, cleanup := newTestEngine(t)
	defer cleanup()

	if err := e.Create("/old.txt"); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := e.Write("/old.txt", []byte("payload"), 0); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := e.Rename("/old.txt", "/new.txt"); err != nil {
		t.Fatalf("rename: %v", err)
	}
	if _, err := e.Getattr("/old.txt"); err != ErrNotFound {
		t.Fatalf("expected old name gone, got %v", err)
	}
	buf := make([]byte, 7)
	if _, err := e.Read("/new.txt", buf, 0); err != nil {
		t.Fatalf("read new: %v", err)
	}
	if string(buf) != "payload" {
		t.Fatalf("content lost across rename: %q", buf)
	}
}

func TestRenameAcrossDirectories(t *testing.T) {
	e, cleanup := newTestEngine(t)
	defer cleanup()

	if err := e.Mkdir("/a"); err != nil {
		t.Fatalf("mkdir a: %v", err)
	}
	if err := e.Mkdir("/b"); err != nil {
		t.Fatalf("mkdir b: %v", err)
	}
	if err := e.Create("/a/f.txt"); err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := e.Rename("/a/f.txt", "/b/f.txt"); err != nil {
		t.Fatalf("rename: %v", err)
	}
	if _, err := e.Getattr("/a/f.txt"); err != ErrNotFound {
		t.Fatalf("expected source gone, got %v", err)
	}
	if _, err := e.Getattr("/b/f.txt"); err != nil {
		t.Fatalf("expected destination present: %v", err)
	}
}

func TestRenameDestinationExists(t *testing.T) {
	e, cleanup := newTestEngine(t)
	defer cleanup()

	if err := e.Create("/x.txt"); err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := e.Create("/y.txt"); err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := e.Rename("/x.txt", "/y.txt"); err != ErrExists {
		t.Fatalf("expected ErrExists, got %v", err)
	}
}

func TestReaddirOnFileRejected(t *testing.T) {
	e, cleanup := newTestEngine(t)
	defer cleanup()

	if err := e.Create("/f.txt"); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := e.Readdir("/f.txt"); err != ErrDirectoryRequired {
		t.Fatalf("expected ErrDirectoryRequired, got %v", err)
	}
}

// TestNoSpaceWhenDirectoryFull exercises the root's fixed entry count
// running out, per spec.md §7's ENOSPC case.
func TestNoSpaceWhenDirectoryFull(t *testing.T) {
	e, cleanup := newTestEngine(t)
	defer cleanup()

	for i := 0; i < 8; i++ {
		name := "/" + string(rune('a'+i)) + ".txt"
		if err := e.Create(name); err != nil {
			t.Fatalf("create %s: %v", name, err)
		}
	}
	if err := e.Create("/overflow.txt"); err != ErrNoSpace {
		t.Fatalf("expected ErrNoSpace, got %v", err)
	}
}

// TestBlockAllocationPartition checks findFree/linkChain/chainFree never
// double-assign a block: allocate four two-block files with distinct
// content, unlink one of them, and confirm no remaining chain overlaps
// another's blocks by reading back each survivor's content.
func TestBlockAllocationPartition(t *testing.T) {
	e, cleanup := newTestEngine(t)
	defer cleanup()

	names := []string{"/1", "/2", "/3", "/4"}
	for i, name := range names {
		if err := e.Create(name); err != nil {
			t.Fatalf("create %s: %v", name, err)
		}
		payload := bytes.Repeat([]byte{byte('A' + i)}, 70)
		if _, err := e.Write(name, payload, 0); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
	if err := e.Unlink("/2"); err != nil {
		t.Fatalf("unlink: %v", err)
	}

	checks := map[string]byte{"/1": 'A', "/3": 'C', "/4": 'D'}
	for name, want := range checks {
		buf := make([]byte, 70)
		if _, err := e.Read(name, buf, 0); err != nil {
			t.Fatalf("read %s: %v", name, err)
		}
		for _, b := range buf {
			if b != want {
				t.Fatalf("%s corrupted, found %v want %v", name, b, want)
			}
		}
	}
}

func TestMkdirDuplicateRejected(t *testing.T) {
	e, cleanup := newTestEngine(t)
	defer cleanup()

	if err := e.Mkdir("/dup"); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := e.Mkdir("/dup"); err != ErrExists {
		t.Fatalf("expected ErrExists, got %v", err)
	}
}

func TestSingleBlockDirsOption(t *testing.T) {
	e, cleanup := newTestEngine(t, WithSingleBlockDirs())
	defer cleanup()

	if err := e.Mkdir("/one"); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	table, err := e.readBlockTable()
	if err != nil {
		t.Fatalf("read block table: %v", err)
	}
	loc, err := e.resolve("/one")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if n := chainLength(table, loc.entry.FirstBlock); n != 1 {
		t.Fatalf("expected single-block directory, got %d blocks", n)
	}
}
