// Package fusemount exports a VFS tree as a read-only FUSE filesystem so a
// saved snapshot can be browsed with ordinary tools.
package fusemount

import (
	"context"
	"fmt"
	"os"
	"syscall"
	"time"

	"github.com/hanwen/go-fuse/v2/fs"
	gofuse "github.com/hanwen/go-fuse/v2/fuse"
	"go.uber.org/zap"

	"github.com/skairipa/hannaterm/internal/logging"
	"github.com/skairipa/hannaterm/internal/vfs"
)

// FS is a frozen copy of a VFS tree. Later changes to the source tree are
// not reflected in the mount.
type FS struct {
	root  *vfs.Node
	mtime time.Time
	uid   uint32
	gid   uint32
}

// New copies the tree so the mount can be served without locking.
func New(tree *vfs.FS) *FS {
	return &FS{
		root:  tree.Root().Clone(),
		mtime: time.Now(),
		uid:   uint32(os.Getuid()),
		gid:   uint32(os.Getgid()),
	}
}

// Root returns the node for "/".
func (f *FS) Root() *Node {
	return &Node{fsys: f, entry: f.root}
}

// Mount serves the tree at mountPoint. The caller owns the returned server
// and must Unmount it.
func (f *FS) Mount(mountPoint string) (*gofuse.Server, error) {
	if err := os.MkdirAll(mountPoint, 0755); err != nil {
		return nil, fmt.Errorf("create mount point: %w", err)
	}

	opts := &fs.Options{
		MountOptions: gofuse.MountOptions{
			AllowOther: false,
			Debug:      false,
			FsName:     "hannaterm",
			Name:       "hannaterm",
			Options:    []string{"ro"},
		},
		UID: f.uid,
		GID: f.gid,
	}

	server, err := fs.Mount(mountPoint, f.Root(), opts)
	if err != nil {
		return nil, fmt.Errorf("mount: %w", err)
	}

	logging.Info("vfs mounted",
		zap.String("mount_point", mountPoint),
		zap.Int("nodes", vfs.CountNodes(f.root)),
	)
	return server, nil
}

// Node is one file or directory of the exported tree.
type Node struct {
	fs.Inode

	fsys  *FS
	entry *vfs.Node
}

var _ fs.InodeEmbedder = (*Node)(nil)
var _ fs.NodeGetattrer = (*Node)(nil)
var _ fs.NodeLookuper = (*Node)(nil)
var _ fs.NodeReaddirer = (*Node)(nil)
var _ fs.NodeOpener = (*Node)(nil)
var _ fs.NodeReader = (*Node)(nil)

func modeOf(entry *vfs.Node) uint32 {
	if entry.IsDir() {
		return 0555 | syscall.S_IFDIR
	}
	return 0444 | syscall.S_IFREG
}

func (n *Node) fillAttr(entry *vfs.Node, out *gofuse.Attr) {
	out.Mode = modeOf(entry)
	out.Size = uint64(entry.Size())
	out.Mtime = uint64(n.fsys.mtime.Unix())
	out.Atime = out.Mtime
	out.Ctime = out.Mtime
	out.Uid = n.fsys.uid
	out.Gid = n.fsys.gid
	if entry.IsDir() {
		out.Nlink = 2
	} else {
		out.Nlink = 1
	}
}

// Getattr reports mode and size. All timestamps are the mount time.
func (n *Node) Getattr(ctx context.Context, fh fs.FileHandle, out *gofuse.AttrOut) syscall.Errno {
	if n.entry == nil {
		return syscall.ENOENT
	}
	n.fillAttr(n.entry, &out.Attr)
	return 0
}

// Lookup finds a child by name.
func (n *Node) Lookup(ctx context.Context, name string, out *gofuse.EntryOut) (*fs.Inode, syscall.Errno) {
	if n.entry == nil || !n.entry.IsDir() {
		return nil, syscall.ENOTDIR
	}
	child, ok := n.entry.Child(name)
	if !ok {
		return nil, syscall.ENOENT
	}

	n.fillAttr(child, &out.Attr)
	node := &Node{fsys: n.fsys, entry: child}
	return n.NewInode(ctx, node, fs.StableAttr{Mode: out.Mode & syscall.S_IFMT}), 0
}

// Readdir lists children in name order.
func (n *Node) Readdir(ctx context.Context) (fs.DirStream, syscall.Errno) {
	if n.entry == nil || !n.entry.IsDir() {
		return nil, syscall.ENOTDIR
	}

	names := n.entry.Names()
	entries := make([]gofuse.DirEntry, 0, len(names))
	for _, name := range names {
		child := n.entry.Children[name]
		entries = append(entries, gofuse.DirEntry{
			Name: name,
			Mode: modeOf(child) & syscall.S_IFMT,
		})
	}
	return fs.NewListDirStream(entries), 0
}

// Open allows read-only access to files.
func (n *Node) Open(ctx context.Context, flags uint32) (fs.FileHandle, uint32, syscall.Errno) {
	if n.entry == nil {
		return nil, 0, syscall.ENOENT
	}
	if n.entry.IsDir() {
		return nil, 0, syscall.EISDIR
	}
	if flags&(syscall.O_WRONLY|syscall.O_RDWR|syscall.O_TRUNC|syscall.O_APPEND) != 0 {
		return nil, 0, syscall.EROFS
	}
	return nil, gofuse.FOPEN_KEEP_CACHE, 0
}

// Read copies file content at off into dest.
func (n *Node) Read(ctx context.Context, fh fs.FileHandle, dest []byte, off int64) (gofuse.ReadResult, syscall.Errno) {
	if n.entry == nil || n.entry.IsDir() {
		return nil, syscall.EISDIR
	}
	content := n.entry.Content
	if off < 0 {
		return nil, syscall.EINVAL
	}
	if off >= int64(len(content)) {
		return gofuse.ReadResultData(nil), 0
	}
	end := off + int64(len(dest))
	if end > int64(len(content)) {
		end = int64(len(content))
	}
	return gofuse.ReadResultData([]byte(content[off:end])), 0
}
