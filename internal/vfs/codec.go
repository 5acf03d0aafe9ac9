package vfs

import (
	"encoding/json"
	"fmt"
)

// wireNode is the serialized form of a Node. Children are kept as a sorted
// slice so snapshots are stable byte for byte.
type wireNode struct {
	Name     string      `json:"name"`
	IsDir    bool        `json:"is_dir"`
	Content  *string     `json:"content,omitempty"`
	Children []*wireNode `json:"children,omitempty"`
}

func toWire(n *Node) *wireNode {
	w := &wireNode{Name: n.Name, IsDir: n.IsDir()}
	if !n.IsDir() {
		content := n.Content
		w.Content = &content
		return w
	}
	for _, name := range n.Names() {
		w.Children = append(w.Children, toWire(n.Children[name]))
	}
	return w
}

func fromWire(w *wireNode) (*Node, error) {
	if w.Name == "" {
		return nil, fmt.Errorf("node without a name")
	}
	if !w.IsDir {
		if len(w.Children) > 0 {
			return nil, fmt.Errorf("file %q has children", w.Name)
		}
		var content string
		if w.Content != nil {
			content = *w.Content
		}
		return NewFile(w.Name, content), nil
	}
	dir := NewDir(w.Name)
	for _, cw := range w.Children {
		child, err := fromWire(cw)
		if err != nil {
			return nil, err
		}
		if _, dup := dir.Children[child.Name]; dup {
			return nil, fmt.Errorf("duplicate entry %q in %q", child.Name, w.Name)
		}
		dir.put(child)
	}
	return dir, nil
}

// Export serializes the whole tree to JSON.
func (fs *FS) Export() ([]byte, error) {
	return json.Marshal(toWire(fs.root))
}

// Import replaces the tree's contents with a previously exported tree.
// On error the existing tree is left untouched.
func (fs *FS) Import(data []byte) error {
	var w wireNode
	if err := json.Unmarshal(data, &w); err != nil {
		return fmt.Errorf("decode tree: %w", err)
	}
	if !w.IsDir {
		return fmt.Errorf("decode tree: root is not a directory")
	}
	root, err := fromWire(&w)
	if err != nil {
		return fmt.Errorf("decode tree: %w", err)
	}
	return fs.ReplaceContents(root)
}
