package fusemount

import (
	"context"
	"strings"
	"syscall"
	"testing"

	gofuse "github.com/hanwen/go-fuse/v2/fuse"

	"github.com/skairipa/hannaterm/internal/vfs"
)

func newTestFS(t *testing.T) *FS {
	t.Helper()
	tree := vfs.New()
	if err := tree.CreateDirectory("/docs"); err != nil {
		t.Fatal(err)
	}
	if err := tree.CreateFile("/docs/note.txt", "hello, mount"); err != nil {
		t.Fatal(err)
	}
	if err := tree.CreateFile("/empty", ""); err != nil {
		t.Fatal(err)
	}
	return New(tree)
}

func nodeAt(t *testing.T, f *FS, p string) *Node {
	t.Helper()
	entry := f.root
	for _, name := range strings.Split(strings.Trim(p, "/"), "/") {
		if name == "" {
			continue
		}
		child, ok := entry.Child(name)
		if !ok {
			t.Fatalf("%s not in tree", p)
		}
		entry = child
	}
	return &Node{fsys: f, entry: entry}
}

func TestGetattr(t *testing.T) {
	f := newTestFS(t)
	ctx := context.Background()

	var out gofuse.AttrOut
	if errno := nodeAt(t, f, "/").Getattr(ctx, nil, &out); errno != 0 {
		t.Fatalf("root getattr: %v", errno)
	}
	if out.Mode&syscall.S_IFMT != syscall.S_IFDIR {
		t.Errorf("root mode = %o, want directory", out.Mode)
	}

	out = gofuse.AttrOut{}
	if errno := nodeAt(t, f, "/docs/note.txt").Getattr(ctx, nil, &out); errno != 0 {
		t.Fatalf("file getattr: %v", errno)
	}
	if out.Mode != 0444|syscall.S_IFREG {
		t.Errorf("file mode = %o", out.Mode)
	}
	if out.Size != uint64(len("hello, mount")) {
		t.Errorf("file size = %d", out.Size)
	}
	if out.Mtime != uint64(f.mtime.Unix()) {
		t.Errorf("mtime = %d, want mount time", out.Mtime)
	}
}

func TestReaddir(t *testing.T) {
	f := newTestFS(t)
	ds, errno := nodeAt(t, f, "/").Readdir(context.Background())
	if errno != 0 {
		t.Fatalf("readdir: %v", errno)
	}
	defer ds.Close()

	var got []gofuse.DirEntry
	for ds.HasNext() {
		e, errno := ds.Next()
		if errno != 0 {
			t.Fatalf("next: %v", errno)
		}
		got = append(got, e)
	}
	if len(got) != 2 {
		t.Fatalf("entries = %d, want 2", len(got))
	}
	if got[0].Name != "docs" || got[0].Mode != syscall.S_IFDIR {
		t.Errorf("first entry = %+v", got[0])
	}
	if got[1].Name != "empty" || got[1].Mode != syscall.S_IFREG {
		t.Errorf("second entry = %+v", got[1])
	}

	if _, errno := nodeAt(t, f, "/empty").Readdir(context.Background()); errno != syscall.ENOTDIR {
		t.Errorf("readdir on file = %v, want ENOTDIR", errno)
	}
}

func TestOpen(t *testing.T) {
	f := newTestFS(t)
	ctx := context.Background()

	tests := []struct {
		name  string
		path  string
		flags uint32
		want  syscall.Errno
	}{
		{"read file", "/docs/note.txt", syscall.O_RDONLY, 0},
		{"write file", "/docs/note.txt", syscall.O_WRONLY, syscall.EROFS},
		{"read write", "/docs/note.txt", syscall.O_RDWR, syscall.EROFS},
		{"directory", "/docs", syscall.O_RDONLY, syscall.EISDIR},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, fuseFlags, errno := nodeAt(t, f, tt.path).Open(ctx, tt.flags)
			if errno != tt.want {
				t.Fatalf("errno = %v, want %v", errno, tt.want)
			}
			if errno == 0 && fuseFlags&gofuse.FOPEN_KEEP_CACHE == 0 {
				t.Error("expected FOPEN_KEEP_CACHE")
			}
		})
	}
}

func TestRead(t *testing.T) {
	f := newTestFS(t)
	n := nodeAt(t, f, "/docs/note.txt")
	ctx := context.Background()

	tests := []struct {
		name string
		size int
		off  int64
		want string
	}{
		{"whole file", 64, 0, "hello, mount"},
		{"prefix", 5, 0, "hello"},
		{"middle", 5, 7, "mount"},
		{"past end", 8, 100, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, errno := n.Read(ctx, nil, make([]byte, tt.size), tt.off)
			if errno != 0 {
				t.Fatalf("read: %v", errno)
			}
			b, status := res.Bytes(make([]byte, tt.size))
			if !status.Ok() {
				t.Fatalf("bytes status: %v", status)
			}
			if string(b) != tt.want {
				t.Errorf("read = %q, want %q", b, tt.want)
			}
		})
	}
}

func TestNewFreezesTree(t *testing.T) {
	tree := vfs.New()
	if err := tree.CreateFile("/a", "before"); err != nil {
		t.Fatal(err)
	}
	f := New(tree)
	if err := tree.CreateFile("/a", "after"); err != nil {
		t.Fatal(err)
	}
	if err := tree.CreateFile("/b", "new"); err != nil {
		t.Fatal(err)
	}

	if got := f.root.Children["a"].Content; got != "before" {
		t.Errorf("frozen content = %q, want before", got)
	}
	if _, ok := f.root.Children["b"]; ok {
		t.Error("file created after New should not appear in the mount")
	}
}
