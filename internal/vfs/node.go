package vfs

import "sort"

// Kind distinguishes files from directories.
type Kind int

const (
	KindFile Kind = iota
	KindDir
)

func (k Kind) String() string {
	if k == KindDir {
		return "directory"
	}
	return "file"
}

// Node is a file or a directory. A directory owns its children outright;
// there are no back pointers and no sharing between parents.
type Node struct {
	Name     string
	Kind     Kind
	Content  string
	Children map[string]*Node
}

// NewFile returns a file node. Empty content is a valid empty file.
func NewFile(name, content string) *Node {
	return &Node{Name: name, Kind: KindFile, Content: content}
}

// NewDir returns an empty directory node.
func NewDir(name string) *Node {
	return &Node{Name: name, Kind: KindDir, Children: make(map[string]*Node)}
}

func (n *Node) IsDir() bool { return n.Kind == KindDir }

// Size is the content length in bytes; directories report zero.
func (n *Node) Size() int64 {
	if n.IsDir() {
		return 0
	}
	return int64(len(n.Content))
}

// Child returns the named child of a directory.
func (n *Node) Child(name string) (*Node, bool) {
	if !n.IsDir() {
		return nil, false
	}
	c, ok := n.Children[name]
	return c, ok
}

// Names returns child names in ascending byte order.
func (n *Node) Names() []string {
	names := make([]string, 0, len(n.Children))
	for name := range n.Children {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (n *Node) put(child *Node) {
	if n.Children == nil {
		n.Children = make(map[string]*Node)
	}
	n.Children[child.Name] = child
}

// Clone deep-copies the subtree rooted at n.
func (n *Node) Clone() *Node {
	c := &Node{Name: n.Name, Kind: n.Kind, Content: n.Content}
	if n.IsDir() {
		c.Children = make(map[string]*Node, len(n.Children))
		for name, child := range n.Children {
			c.Children[name] = child.Clone()
		}
	}
	return c
}

// CountNodes counts all nodes in a subtree, including n itself.
func CountNodes(n *Node) int {
	if n == nil {
		return 0
	}
	count := 1
	for _, child := range n.Children {
		count += CountNodes(child)
	}
	return count
}
