package shell

import (
	"fmt"
	"strings"

	"github.com/skairipa/hannaterm/internal/vfs"
)

func cmdPwd(ctx *Context, _ []string) ([]string, error) {
	return []string{ctx.Cwd}, nil
}

func cmdCd(ctx *Context, args []string) ([]string, error) {
	target := "~"
	if len(args) > 0 {
		target = args[0]
	}

	p := vfs.Resolve(target, ctx.Cwd)
	n, ok := ctx.FS.Get(p)
	if !ok {
		return []string{fmt.Sprintf("cd: %s: No such file or directory", target)}, vfs.ErrPathNotFound
	}
	if !n.IsDir() {
		return []string{fmt.Sprintf("cd: %s: Not a directory", target)}, vfs.ErrNotADirectory
	}
	ctx.Cwd = p
	return nil, nil
}

func cmdLs(ctx *Context, args []string) ([]string, error) {
	p := ctx.Cwd
	if len(args) > 0 {
		p = vfs.Resolve(args[0], ctx.Cwd)
	}

	dir, ok := ctx.FS.Get(p)
	if !ok || !dir.IsDir() {
		return []string{fmt.Sprintf("ls: cannot access '%s': No such file or directory", p)}, vfs.ErrPathNotFound
	}

	names := dir.Names()
	if len(names) == 0 {
		return nil, nil
	}
	for i, name := range names {
		if dir.Children[name].IsDir() {
			names[i] = name + "/"
		}
	}
	return []string{strings.Join(names, "  ")}, nil
}

func cmdCat(ctx *Context, args []string) ([]string, error) {
	if len(args) == 0 {
		return []string{"cat: missing file operand"}, ErrMissingOperand
	}

	n, ok := ctx.FS.Get(vfs.Resolve(args[0], ctx.Cwd))
	if !ok {
		return []string{fmt.Sprintf("cat: %s: No such file or directory", args[0])}, vfs.ErrPathNotFound
	}
	if n.IsDir() {
		return []string{fmt.Sprintf("cat: %s: Is a directory", args[0])}, vfs.ErrNotAFile
	}
	return splitLines(n.Content), nil
}

// splitLines breaks content into lines. A single trailing newline does not
// start another line and a carriage return before a newline is dropped.
func splitLines(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(strings.TrimSuffix(s, "\n"), "\n")
	for i, p := range parts {
		parts[i] = strings.TrimSuffix(p, "\r")
	}
	return parts
}

func cmdMkdir(ctx *Context, args []string) ([]string, error) {
	if len(args) == 0 {
		return []string{"mkdir: missing operand"}, ErrMissingOperand
	}

	if err := ctx.FS.CreateDirectory(vfs.Resolve(args[0], ctx.Cwd)); err != nil {
		return []string{fmt.Sprintf("mkdir: cannot create directory '%s': %s", args[0], vfs.Reason(err))}, err
	}
	return nil, nil
}

// cmdTouch creates an empty file. An existing entry of either kind is left
// as it is.
func cmdTouch(ctx *Context, args []string) ([]string, error) {
	if len(args) == 0 {
		return []string{"touch: missing file operand"}, ErrMissingOperand
	}

	p := vfs.Resolve(args[0], ctx.Cwd)
	if _, exists := ctx.FS.Get(p); exists && p != "/" {
		return nil, nil
	}
	if err := ctx.FS.CreateFile(p, ""); err != nil {
		return []string{fmt.Sprintf("touch: cannot create file '%s': %s", args[0], vfs.Reason(err))}, err
	}
	return nil, nil
}

func cmdTree(ctx *Context, args []string) ([]string, error) {
	p := ctx.Cwd
	if len(args) > 0 {
		p = vfs.Resolve(args[0], ctx.Cwd)
	}

	n, ok := ctx.FS.Get(p)
	if !ok {
		return []string{fmt.Sprintf("tree: %s: No such file or directory", p)}, vfs.ErrPathNotFound
	}
	lines := []string{p}
	return renderTree(n, "", lines), nil
}

func renderTree(dir *vfs.Node, prefix string, lines []string) []string {
	if !dir.IsDir() {
		return lines
	}
	names := dir.Names()
	for i, name := range names {
		child := dir.Children[name]
		last := i == len(names)-1

		connector, continuation := "├── ", "│"
		if last {
			connector, continuation = "└── ", " "
		}

		display := name
		if child.IsDir() {
			display += "/"
		}
		lines = append(lines, prefix+connector+display)

		if child.IsDir() {
			lines = renderTree(child, prefix+continuation+"   ", lines)
		}
	}
	return lines
}
