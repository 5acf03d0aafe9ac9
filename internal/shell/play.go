package shell

import (
	"fmt"
	"strings"

	"github.com/skairipa/hannaterm/internal/vfs"
)

func cmdPlay(ctx *Context, args []string) ([]string, error) {
	if len(args) == 0 {
		return []string{
			"Usage: play <file>",
			"Plays an audio or video file.",
		}, ErrMissingOperand
	}

	p := vfs.Resolve(args[0], ctx.Cwd)
	n, ok := ctx.FS.Get(p)
	if !ok {
		return []string{fmt.Sprintf("play: %s: No such file or directory", args[0])}, vfs.ErrPathNotFound
	}
	if n.IsDir() {
		return []string{fmt.Sprintf("play: %s: Is a directory", args[0])}, vfs.ErrNotAFile
	}

	var err error
	if target, isURL := pointerURL(n.Content); isURL {
		err = ctx.Media.PlayURL(target, n.Name)
	} else {
		err = ctx.Media.PlayFile(p)
	}
	if err != nil {
		return []string{fmt.Sprintf("play: %s", err)}, err
	}
	return []string{fmt.Sprintf("Playing: %s", p)}, nil
}

// pointerURL reports whether file content is a link to external media:
// a URL with a scheme followed by "//", or a data: URL.
func pointerURL(content string) (string, bool) {
	s := strings.TrimSpace(content)
	if j := strings.IndexAny(s, "\r\n"); j >= 0 {
		s = s[:j]
	}
	i := strings.IndexByte(s, ':')
	if i < 2 || !validScheme(s[:i]) {
		return "", false
	}
	rest := s[i+1:]
	if strings.HasPrefix(rest, "//") || strings.EqualFold(s[:i], "data") {
		return s, true
	}
	return "", false
}

func validScheme(scheme string) bool {
	for i, r := range scheme {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		case i > 0 && (r >= '0' && r <= '9' || r == '+' || r == '-' || r == '.'):
		default:
			return false
		}
	}
	return true
}
