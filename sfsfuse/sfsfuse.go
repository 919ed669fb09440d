// Package sfsfuse is the callback-binding layer: it maps go-fuse's
// high-level node API onto internal/engine's operation methods. An SFS
// image allows full read/write (unlike the teacher's read-only
// squashfs), so this binds against go-fuse/v2's fs package rather than
// the low-level fuse package the teacher's inode_fuse.go uses — the
// node-embedding style still follows the teacher's shape: one method
// per callback, a fillAttr-style helper, and an error translation at
// the boundary (Errno.Syscall()) instead of inside the engine.
package sfsfuse

import (
	"context"
	"syscall"

	"github.com/hanwen/go-fuse/v2/fs"
	"github.com/hanwen/go-fuse/v2/fuse"

	"github.com/AlicjaStr/sfs/internal/engine"
)

// Root is the filesystem's root inode. Every other node the kernel asks
// about is resolved fresh from the engine on each call — SFS has no
// inode cache of its own, matching the fixed-size on-disk entry arrays
// spec.md describes (no persistent inode numbers beyond path identity).
type Root struct {
	fs.Inode
	eng *engine.Engine
}

// NewRoot builds the root of a mounted tree backed by eng.
func NewRoot(eng *engine.Engine) *Root {
	return &Root{eng: eng}
}

var (
	_ fs.InodeEmbedder  = (*Root)(nil)
	_ fs.NodeGetattrer  = (*Root)(nil)
	_ fs.NodeLookuper   = (*Root)(nil)
	_ fs.NodeReaddirer  = (*Root)(nil)
	_ fs.NodeCreater    = (*Root)(nil)
	_ fs.NodeMkdirer    = (*Root)(nil)
	_ fs.NodeUnlinker   = (*Root)(nil)
	_ fs.NodeRmdirer    = (*Root)(nil)
	_ fs.NodeOpener     = (*Root)(nil)
	_ fs.NodeReader     = (*Root)(nil)
	_ fs.NodeWriter     = (*Root)(nil)
	_ fs.NodeSetattrer  = (*Root)(nil)
	_ fs.NodeRenamer    = (*Root)(nil)
)

// node is any inode other than the root: its path is computed on demand
// from fs.Inode.Path(), since the engine addresses everything by
// absolute path rather than a handle.
type node struct {
	fs.Inode
	eng *engine.Engine
}

func errnoOf(err error) syscall.Errno {
	if err == nil {
		return 0
	}
	if en, ok := err.(engine.Errno); ok {
		return en.Syscall()
	}
	return syscall.EIO
}

func fillAttr(out *fuse.Attr, st engine.Stat) {
	out.Mode = uint32(st.Mode)
	out.Nlink = st.Nlink
	out.Size = uint64(st.Size)
	out.Uid = st.Uid
	out.Gid = st.Gid
	out.SetTimes(&st.Atime, &st.Mtime, &st.Mtime)
}

func pathOf(n *fs.Inode) string {
	p := n.Path(nil)
	if p == "" {
		return "/"
	}
	return "/" + p
}

func (r *Root) Getattr(ctx context.Context, f fs.FileHandle, out *fuse.AttrOut) syscall.Errno {
	st, err := r.eng.Getattr(pathOf(&r.Inode))
	if err != nil {
		return errnoOf(err)
	}
	fillAttr(&out.Attr, st)
	return 0
}

func (r *Root) Lookup(ctx context.Context, name string, out *fuse.EntryOut) (*fs.Inode, syscall.Errno) {
	return lookup(ctx, &r.Inode, r.eng, name, out)
}

func (r *Root) Readdir(ctx context.Context) (fs.DirStream, syscall.Errno) {
	return readdir(&r.Inode, r.eng)
}

func (r *Root) Create(ctx context.Context, name string, flags uint32, mode uint32, out *fuse.EntryOut) (*fs.Inode, fs.FileHandle, uint32, syscall.Errno) {
	return create(ctx, &r.Inode, r.eng, name, out)
}

func (r *Root) Mkdir(ctx context.Context, name string, mode uint32, out *fuse.EntryOut) (*fs.Inode, syscall.Errno) {
	return mkdir(ctx, &r.Inode, r.eng, name, out)
}

func (r *Root) Unlink(ctx context.Context, name string) syscall.Errno {
	return unlink(&r.Inode, r.eng, name)
}

func (r *Root) Rmdir(ctx context.Context, name string) syscall.Errno {
	return rmdir(&r.Inode, r.eng, name)
}

func (r *Root) Open(ctx context.Context, flags uint32) (fs.FileHandle, uint32, syscall.Errno) {
	return nil, fuse.FOPEN_DIRECT_IO, 0
}

func (r *Root) Read(ctx context.Context, f fs.FileHandle, dest []byte, off int64) (fuse.ReadResult, syscall.Errno) {
	return read(&r.Inode, r.eng, dest, off)
}

func (r *Root) Write(ctx context.Context, f fs.FileHandle, data []byte, off int64) (uint32, syscall.Errno) {
	return write(&r.Inode, r.eng, data, off)
}

func (r *Root) Setattr(ctx context.Context, f fs.FileHandle, in *fuse.SetAttrIn, out *fuse.AttrOut) syscall.Errno {
	return setattr(&r.Inode, r.eng, in, out)
}

func (r *Root) Rename(ctx context.Context, name string, newParent fs.InodeEmbedder, newName string, flags uint32) syscall.Errno {
	return rename(&r.Inode, newParent.EmbeddedInode(), r.eng, name, newName)
}

var (
	_ fs.InodeEmbedder = (*node)(nil)
	_ fs.NodeGetattrer = (*node)(nil)
	_ fs.NodeLookuper  = (*node)(nil)
	_ fs.NodeReaddirer = (*node)(nil)
	_ fs.NodeCreater   = (*node)(nil)
	_ fs.NodeMkdirer   = (*node)(nil)
	_ fs.NodeUnlinker  = (*node)(nil)
	_ fs.NodeRmdirer   = (*node)(nil)
	_ fs.NodeOpener    = (*node)(nil)
	_ fs.NodeReader    = (*node)(nil)
	_ fs.NodeWriter    = (*node)(nil)
	_ fs.NodeSetattrer = (*node)(nil)
	_ fs.NodeRenamer   = (*node)(nil)
)

func (n *node) Getattr(ctx context.Context, f fs.FileHandle, out *fuse.AttrOut) syscall.Errno {
	st, err := n.eng.Getattr(pathOf(&n.Inode))
	if err != nil {
		return errnoOf(err)
	}
	fillAttr(&out.Attr, st)
	return 0
}

func (n *node) Lookup(ctx context.Context, name string, out *fuse.EntryOut) (*fs.Inode, syscall.Errno) {
	return lookup(ctx, &n.Inode, n.eng, name, out)
}

func (n *node) Readdir(ctx context.Context) (fs.DirStream, syscall.Errno) {
	return readdir(&n.Inode, n.eng)
}

func (n *node) Create(ctx context.Context, name string, flags uint32, mode uint32, out *fuse.EntryOut) (*fs.Inode, fs.FileHandle, uint32, syscall.Errno) {
	return create(ctx, &n.Inode, n.eng, name, out)
}

func (n *node) Mkdir(ctx context.Context, name string, mode uint32, out *fuse.EntryOut) (*fs.Inode, syscall.Errno) {
	return mkdir(ctx, &n.Inode, n.eng, name, out)
}

func (n *node) Unlink(ctx context.Context, name string) syscall.Errno {
	return unlink(&n.Inode, n.eng, name)
}

func (n *node) Rmdir(ctx context.Context, name string) syscall.Errno {
	return rmdir(&n.Inode, n.eng, name)
}

func (n *node) Open(ctx context.Context, flags uint32) (fs.FileHandle, uint32, syscall.Errno) {
	return nil, fuse.FOPEN_DIRECT_IO, 0
}

func (n *node) Read(ctx context.Context, f fs.FileHandle, dest []byte, off int64) (fuse.ReadResult, syscall.Errno) {
	return read(&n.Inode, n.eng, dest, off)
}

func (n *node) Write(ctx context.Context, f fs.FileHandle, data []byte, off int64) (uint32, syscall.Errno) {
	return write(&n.Inode, n.eng, data, off)
}

func (n *node) Setattr(ctx context.Context, f fs.FileHandle, in *fuse.SetAttrIn, out *fuse.AttrOut) syscall.Errno {
	return setattr(&n.Inode, n.eng, in, out)
}

func (n *node) Rename(ctx context.Context, name string, newParent fs.InodeEmbedder, newName string, flags uint32) syscall.Errno {
	return rename(&n.Inode, newParent.EmbeddedInode(), n.eng, name, newName)
}

// The functions below hold the actual callback logic shared by Root and
// node — both embed an fs.Inode and an *engine.Engine, but Go has no
// shared base class to hang methods from, so each wrapper above
// delegates here with its own &x.Inode.

func childPath(parent *fs.Inode, name string) string {
	base := pathOf(parent)
	if base == "/" {
		return "/" + name
	}
	return base + "/" + name
}

func lookup(ctx context.Context, parent *fs.Inode, eng *engine.Engine, name string, out *fuse.EntryOut) (*fs.Inode, syscall.Errno) {
	st, err := eng.Getattr(childPath(parent, name))
	if err != nil {
		return nil, errnoOf(err)
	}
	fillAttr(&out.Attr, st)
	mode := uint32(fuse.S_IFREG)
	if st.IsDir {
		mode = uint32(fuse.S_IFDIR)
	}
	child := &node{eng: eng}
	return parent.NewInode(ctx, child, fs.StableAttr{Mode: mode}), 0
}

type dirStream struct {
	names []string
	i     int
}

func (d *dirStream) HasNext() bool { return d.i < len(d.names) }
func (d *dirStream) Next() (fuse.DirEntry, syscall.Errno) {
	name := d.names[d.i]
	d.i++
	return fuse.DirEntry{Name: name, Mode: fuse.S_IFREG}, 0
}
func (d *dirStream) Close() {}

func readdir(n *fs.Inode, eng *engine.Engine) (fs.DirStream, syscall.Errno) {
	names, err := eng.Readdir(pathOf(n))
	if err != nil {
		return nil, errnoOf(err)
	}
	filtered := names[:0:0]
	for _, name := range names {
		if name == "." || name == ".." {
			continue
		}
		filtered = append(filtered, name)
	}
	return &dirStream{names: filtered}, 0
}

func create(ctx context.Context, parent *fs.Inode, eng *engine.Engine, name string, out *fuse.EntryOut) (*fs.Inode, fs.FileHandle, uint32, syscall.Errno) {
	path := childPath(parent, name)
	if err := eng.Create(path); err != nil {
		return nil, nil, 0, errnoOf(err)
	}
	st, err := eng.Getattr(path)
	if err != nil {
		return nil, nil, 0, errnoOf(err)
	}
	fillAttr(&out.Attr, st)
	child := &node{eng: eng}
	ino := parent.NewInode(ctx, child, fs.StableAttr{Mode: uint32(fuse.S_IFREG)})
	return ino, nil, fuse.FOPEN_DIRECT_IO, 0
}

func mkdir(ctx context.Context, parent *fs.Inode, eng *engine.Engine, name string, out *fuse.EntryOut) (*fs.Inode, syscall.Errno) {
	path := childPath(parent, name)
	if err := eng.Mkdir(path); err != nil {
		return nil, errnoOf(err)
	}
	st, err := eng.Getattr(path)
	if err != nil {
		return nil, errnoOf(err)
	}
	fillAttr(&out.Attr, st)
	child := &node{eng: eng}
	return parent.NewInode(ctx, child, fs.StableAttr{Mode: uint32(fuse.S_IFDIR)}), 0
}

func unlink(parent *fs.Inode, eng *engine.Engine, name string) syscall.Errno {
	return errnoOf(eng.Unlink(childPath(parent, name)))
}

func rmdir(parent *fs.Inode, eng *engine.Engine, name string) syscall.Errno {
	return errnoOf(eng.Rmdir(childPath(parent, name)))
}

func read(n *fs.Inode, eng *engine.Engine, dest []byte, off int64) (fuse.ReadResult, syscall.Errno) {
	nr, err := eng.Read(pathOf(n), dest, off)
	if err != nil {
		return nil, errnoOf(err)
	}
	return fuse.ReadResultData(dest[:nr]), 0
}

func write(n *fs.Inode, eng *engine.Engine, data []byte, off int64) (uint32, syscall.Errno) {
	nw, err := eng.Write(pathOf(n), data, off)
	if err != nil {
		return 0, errnoOf(err)
	}
	return uint32(nw), 0
}

func setattr(n *fs.Inode, eng *engine.Engine, in *fuse.SetAttrIn, out *fuse.AttrOut) syscall.Errno {
	if size, ok := in.GetSize(); ok {
		if err := eng.Truncate(pathOf(n), int64(size)); err != nil {
			return errnoOf(err)
		}
	}
	st, err := eng.Getattr(pathOf(n))
	if err != nil {
		return errnoOf(err)
	}
	fillAttr(&out.Attr, st)
	return 0
}

func rename(oldParent *fs.Inode, newParent *fs.Inode, eng *engine.Engine, name, newName string) syscall.Errno {
	oldPath := childPath(oldParent, name)
	newPath := childPath(newParent, newName)
	return errnoOf(eng.Rename(oldPath, newPath))
}
