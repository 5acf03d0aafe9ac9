package main

import (
	"fmt"
	"io"
	"strings"
	"unicode"

	"github.com/chzyer/readline"
	"github.com/fatih/color"

	"github.com/skairipa/hannaterm/internal/session"
)

const clearScreen = "\033[H\033[2J"

// console drives one controller from a local terminal.
type console struct {
	ctrl *session.Controller
	out  io.Writer

	okColor     *color.Color
	failColor   *color.Color
	promptColor *color.Color
	rootColor   *color.Color
}

func newConsole(ctrl *session.Controller, out io.Writer) *console {
	return &console{
		ctrl:        ctrl,
		out:         out,
		okColor:     color.New(color.FgGreen),
		failColor:   color.New(color.FgRed, color.Bold),
		promptColor: color.New(color.FgCyan, color.Bold),
		rootColor:   color.New(color.FgRed, color.Bold),
	}
}

func (c *console) prompt() string {
	p := c.ctrl.Prompt()
	if c.ctrl.State() != session.Active {
		return p
	}
	if c.ctrl.IsRoot() {
		return c.rootColor.Sprint(p)
	}
	return c.promptColor.Sprint(p)
}

// handle renders one controller result.
func (c *console) handle(result string) {
	switch {
	case result == "" || result == session.UsernameOK:
	case strings.HasPrefix(result, session.LoginSuccess):
		user := strings.TrimPrefix(result, session.LoginSuccess)
		if motd, err := c.ctrl.ReadFile("/etc/motd"); err == nil {
			fmt.Fprint(c.out, motd)
		}
		c.okColor.Fprintf(c.out, "Welcome, %s.\n", user)
	case strings.HasPrefix(result, session.LoginFailed):
		c.failColor.Fprintln(c.out, "Login failed: "+strings.TrimPrefix(result, session.LoginFailed))
	case result == session.Clear:
		fmt.Fprint(c.out, clearScreen)
	case result == session.Logout:
		fmt.Fprintln(c.out, "logout")
	default:
		fmt.Fprintln(c.out, result)
	}
}

// run reads lines until EOF.
func (c *console) run() error {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:                 c.prompt(),
		AutoComplete:           completer{ctrl: c.ctrl},
		InterruptPrompt:        "^C",
		EOFPrompt:              "",
		DisableAutoSaveHistory: true,
	})
	if err != nil {
		return fmt.Errorf("failed to create readline: %w", err)
	}
	defer rl.Close()

	for {
		var line string
		if c.ctrl.State() == session.AwaitingPassword {
			var pw []byte
			pw, err = rl.ReadPassword(session.PasswordPrompt)
			line = string(pw)
		} else {
			rl.SetPrompt(c.prompt())
			line, err = rl.Readline()
		}
		if err == readline.ErrInterrupt {
			continue
		}
		if err == io.EOF {
			fmt.Fprintln(c.out)
			return nil
		}
		if err != nil {
			return err
		}

		if c.ctrl.State() == session.Active && strings.TrimSpace(line) != "" {
			rl.SaveHistory(line)
		}
		c.handle(c.ctrl.Execute(line))
	}
}

// completer adapts Controller.Complete to readline, which expects the
// remainder of each candidate after the word under the cursor.
type completer struct {
	ctrl *session.Controller
}

func (cp completer) Do(line []rune, pos int) ([][]rune, int) {
	head := string(line[:pos])
	word := lastWord(head)

	var out [][]rune
	for _, s := range cp.ctrl.Complete(head) {
		if !strings.HasPrefix(s, word) {
			continue
		}
		rest := s[len(word):]
		if !strings.HasSuffix(s, "/") {
			rest += " "
		}
		out = append(out, []rune(rest))
	}
	return out, len([]rune(word))
}

// lastWord returns the raw text of the word ending at the end of s. A
// backslash-escaped space does not end a word.
func lastWord(s string) string {
	start := 0
	escaped := false
	for i, r := range s {
		switch {
		case escaped:
			escaped = false
		case r == '\\':
			escaped = true
		case unicode.IsSpace(r):
			start = i + len(string(r))
		}
	}
	return s[start:]
}
