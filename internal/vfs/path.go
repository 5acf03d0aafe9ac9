package vfs

import "strings"

// HomeDir is the home directory of the primary user. "~" always expands to it,
// regardless of who is logged in.
const HomeDir = "/home/skairipa"

// Resolve turns a user-supplied path into a normalized absolute path.
// Absolute paths are normalized as well, so ".." never survives into the
// current directory or the prompt.
func Resolve(p, cwd string) string {
	switch {
	case strings.HasPrefix(p, "/"):
		return Normalize(p)
	case p == "~":
		return HomeDir
	case strings.HasPrefix(p, "~/"):
		return Normalize(HomeDir + "/" + p[2:])
	default:
		base := cwd
		if !strings.HasSuffix(base, "/") {
			base += "/"
		}
		return Normalize(base + p)
	}
}

// Normalize drops empty and "." segments and applies ".." lexically.
// Popping past the root is a no-op.
func Normalize(p string) string {
	parts := make([]string, 0, strings.Count(p, "/")+1)
	for _, seg := range strings.Split(p, "/") {
		switch seg {
		case "", ".":
		case "..":
			if len(parts) > 0 {
				parts = parts[:len(parts)-1]
			}
		default:
			parts = append(parts, seg)
		}
	}
	if len(parts) == 0 {
		return "/"
	}
	return "/" + strings.Join(parts, "/")
}

// Join constructs a child path from parent + name.
func Join(parent, name string) string {
	if parent == "/" {
		return "/" + name
	}
	return parent + "/" + name
}

// Split returns the parent directory and leaf name of a path.
// The root has no leaf; Split("/") returns ("/", "").
func Split(p string) (parent, name string) {
	p = Normalize(p)
	if p == "/" {
		return "/", ""
	}
	i := strings.LastIndex(p, "/")
	if i == 0 {
		return "/", p[1:]
	}
	return p[:i], p[i+1:]
}

func segments(p string) []string {
	p = Normalize(p)
	if p == "/" {
		return nil
	}
	return strings.Split(p[1:], "/")
}
