package session

import (
	"sort"
	"strings"
	"unicode"

	"github.com/skairipa/hannaterm/internal/shell"
	"github.com/skairipa/hannaterm/internal/vfs"
)

// Complete returns suggestions for the last word of line. The first word
// completes against command names; later words complete against the
// children of the directory named by the word so far. Suggestions replace
// the whole word and are escaped for the tokenizer.
func (c *Controller) Complete(line string) []string {
	if c.state != Active {
		return nil
	}

	tokens := shell.Tokenize(line)
	trailingSpace := line != "" && unicode.IsSpace(rune(line[len(line)-1])) && !strings.HasSuffix(line, `\ `)

	if len(tokens) == 0 || (len(tokens) == 1 && !trailingSpace) {
		prefix := ""
		if len(tokens) == 1 {
			prefix = tokens[0]
		}
		return c.completeCommand(prefix)
	}

	word := ""
	if !trailingSpace {
		word = tokens[len(tokens)-1]
	}
	return c.completePath(word)
}

func (c *Controller) completeCommand(prefix string) []string {
	var out []string
	for _, name := range append(c.dispatcher.Names(), "exit", "logout") {
		if strings.HasPrefix(name, prefix) {
			out = append(out, name)
		}
	}
	sort.Strings(out)
	return out
}

func (c *Controller) completePath(word string) []string {
	dirPart, prefix := "", word
	if i := strings.LastIndexByte(word, '/'); i >= 0 {
		dirPart, prefix = word[:i+1], word[i+1:]
	}

	base := c.shell.Cwd
	if dirPart != "" {
		base = vfs.Resolve(dirPart, c.shell.Cwd)
	}
	dir, ok := c.shell.FS.Get(base)
	if !ok || !dir.IsDir() {
		return nil
	}

	var out []string
	for _, name := range dir.Names() {
		if !strings.HasPrefix(name, prefix) {
			continue
		}
		if strings.HasPrefix(name, ".") && !strings.HasPrefix(prefix, ".") {
			continue
		}
		s := shell.Escape(dirPart) + shell.Escape(name)
		if child := dir.Children[name]; child.IsDir() {
			s += "/"
		}
		out = append(out, s)
	}
	return out
}
