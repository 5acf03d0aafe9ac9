// Package vfs implements the in-memory filesystem the shell operates on:
// path resolution, a rooted tree of files and directories, and the
// lookup, listing, read and create operations on it.
package vfs

const (
	opCreateFile      = "create_file"
	opCreateDirectory = "create_directory"
)

// FS is a single rooted tree. The root is always a directory and is never
// replaced, only mutated.
type FS struct {
	root   *Node
	strict bool
}

// Option configures an FS.
type Option func(*FS)

// WithStrictKinds rejects creating a file over a directory or a directory
// over a file. An existing directory is kept as is when re-created.
// Without it creation is a plain upsert that replaces whatever was there.
func WithStrictKinds() Option {
	return func(fs *FS) { fs.strict = true }
}

// New creates an FS holding only an empty root directory.
func New(opts ...Option) *FS {
	fs := &FS{root: NewDir("/")}
	for _, opt := range opts {
		opt(fs)
	}
	return fs
}

// Strict reports whether kind conflicts are rejected.
func (fs *FS) Strict() bool { return fs.strict }

// Root returns the root directory.
func (fs *FS) Root() *Node { return fs.root }

// Get walks the normalized path from the root. The returned node is live:
// callers holding it may mutate it in place.
func (fs *FS) Get(p string) (*Node, bool) {
	cur := fs.root
	for _, seg := range segments(p) {
		next, ok := cur.Child(seg)
		if !ok {
			return nil, false
		}
		cur = next
	}
	return cur, true
}

// List returns the sorted child names of a directory. It reports false
// for files and missing paths.
func (fs *FS) List(p string) ([]string, bool) {
	n, ok := fs.Get(p)
	if !ok || !n.IsDir() {
		return nil, false
	}
	return n.Names(), true
}

// Read returns file content. It reports false for directories and missing paths.
func (fs *FS) Read(p string) (string, bool) {
	n, ok := fs.Get(p)
	if !ok || n.IsDir() {
		return "", false
	}
	return n.Content, true
}

// CreateFile creates or overwrites a file.
func (fs *FS) CreateFile(p, content string) error {
	parent, name, err := fs.parentOf(opCreateFile, p)
	if err != nil {
		return err
	}
	if existing, ok := parent.Child(name); ok && existing.IsDir() && fs.strict {
		return &Error{Op: opCreateFile, Path: Normalize(p), Err: ErrKindConflict}
	}
	parent.put(NewFile(name, content))
	return nil
}

// CreateDirectory creates a directory, replacing any existing entry of the
// same name unless the FS is strict.
func (fs *FS) CreateDirectory(p string) error {
	parent, name, err := fs.parentOf(opCreateDirectory, p)
	if err != nil {
		return err
	}
	if existing, ok := parent.Child(name); ok && fs.strict {
		if existing.IsDir() {
			return nil
		}
		return &Error{Op: opCreateDirectory, Path: Normalize(p), Err: ErrKindConflict}
	}
	parent.put(NewDir(name))
	return nil
}

func (fs *FS) parentOf(op, p string) (*Node, string, error) {
	parentPath, name := Split(p)
	if name == "" {
		return nil, "", &Error{Op: op, Path: "/", Err: ErrRootTarget}
	}
	parent, ok := fs.Get(parentPath)
	if !ok || !parent.IsDir() {
		return nil, "", &Error{Op: op, Path: parentPath, Err: ErrParentNotFound}
	}
	return parent, name, nil
}

// Count returns the number of nodes in the tree, root included.
func (fs *FS) Count() int {
	return CountNodes(fs.root)
}

// Walk visits every node depth-first in sorted order, starting at the root.
func (fs *FS) Walk(fn func(path string, n *Node) error) error {
	return walk("/", fs.root, fn)
}

func walk(p string, n *Node, fn func(string, *Node) error) error {
	if err := fn(p, n); err != nil {
		return err
	}
	if !n.IsDir() {
		return nil
	}
	for _, name := range n.Names() {
		if err := walk(Join(p, name), n.Children[name], fn); err != nil {
			return err
		}
	}
	return nil
}

// ReplaceContents swaps the root's children for those of dir. The root node
// itself stays the same object.
func (fs *FS) ReplaceContents(dir *Node) error {
	if dir == nil || !dir.IsDir() {
		return &Error{Op: "replace", Path: "/", Err: ErrNotADirectory}
	}
	fs.root.Children = make(map[string]*Node, len(dir.Children))
	for _, child := range dir.Children {
		fs.root.put(child)
	}
	return nil
}
