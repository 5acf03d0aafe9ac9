// Package shell interprets tokenized input lines against a virtual
// filesystem and an environment map. Every builtin returns the lines it
// prints; errors never escape as faults.
package shell

import (
	"errors"
	"fmt"
	"sort"

	"go.uber.org/zap"

	"github.com/skairipa/hannaterm/internal/bridge"
	"github.com/skairipa/hannaterm/internal/logging"
	"github.com/skairipa/hannaterm/internal/metrics"
	"github.com/skairipa/hannaterm/internal/vfs"
)

// ShellName prefixes the "command not found" message.
const ShellName = "bash"

var (
	ErrMissingOperand = errors.New("missing operand")
	ErrUnknownCommand = errors.New("command not found")
)

// Context is the state a builtin may read and change.
type Context struct {
	FS    *vfs.FS
	Cwd   string
	Env   map[string]string
	Media bridge.Media
	Clock bridge.Clock
}

// HandlerFunc runs a builtin. The returned lines are printed whether or
// not err is set; err only classifies the outcome.
type HandlerFunc func(ctx *Context, args []string) ([]string, error)

// Command is one entry of the dispatch table.
type Command struct {
	Name    string
	Summary string
	Hidden  bool
	Run     HandlerFunc
}

// Dispatcher maps command names to builtins.
type Dispatcher struct {
	commands map[string]*Command
	order    []string
}

// NewDispatcher returns a dispatcher with every builtin registered.
func NewDispatcher() *Dispatcher {
	d := &Dispatcher{commands: make(map[string]*Command)}
	d.Register(Command{Name: "help", Summary: "Show this help message", Run: d.cmdHelp})
	d.Register(Command{Name: "echo", Summary: "Print text to terminal", Run: cmdEcho})
	d.Register(Command{Name: "clear", Summary: "Clear the terminal", Run: cmdClear})
	d.Register(Command{Name: "pwd", Summary: "Print working directory", Run: cmdPwd})
	d.Register(Command{Name: "cd", Summary: "Change directory", Run: cmdCd})
	d.Register(Command{Name: "ls", Summary: "List directory contents", Run: cmdLs})
	d.Register(Command{Name: "cat", Summary: "Display file contents", Run: cmdCat})
	d.Register(Command{Name: "mkdir", Summary: "Create a directory", Run: cmdMkdir})
	d.Register(Command{Name: "touch", Summary: "Create a file", Run: cmdTouch})
	d.Register(Command{Name: "whoami", Summary: "Print current user", Run: cmdWhoami})
	d.Register(Command{Name: "env", Summary: "Print environment variables", Run: cmdEnv})
	d.Register(Command{Name: "date", Summary: "Print current date and time", Run: cmdDate})
	d.Register(Command{Name: "info", Summary: "Display system information", Run: cmdInfo})
	d.Register(Command{Name: "neofetch", Summary: "Display system information", Hidden: true, Run: cmdInfo})
	d.Register(Command{Name: "tree", Summary: "Display directory tree", Run: cmdTree})
	d.Register(Command{Name: "play", Summary: "Play an audio or video file", Run: cmdPlay})
	return d
}

// Register adds or replaces a command.
func (d *Dispatcher) Register(cmd Command) {
	if _, exists := d.commands[cmd.Name]; !exists {
		d.order = append(d.order, cmd.Name)
	}
	c := cmd
	d.commands[cmd.Name] = &c
}

// Lookup returns the named command.
func (d *Dispatcher) Lookup(name string) (*Command, bool) {
	c, ok := d.commands[name]
	return c, ok
}

// Dispatch runs the named command. Unknown names produce the shell's
// "command not found" line and ErrUnknownCommand.
func (d *Dispatcher) Dispatch(ctx *Context, name string, args []string) ([]string, error) {
	cmd, ok := d.commands[name]
	if !ok {
		metrics.RecordCommand(name, "unknown")
		return []string{fmt.Sprintf("%s: %s: command not found", ShellName, name)}, ErrUnknownCommand
	}

	lines, err := cmd.Run(ctx, args)
	if err != nil {
		metrics.RecordCommand(name, "error")
		logging.Debug("command failed",
			zap.String("command", name),
			zap.Strings("args", args),
			zap.Error(err))
		return lines, err
	}
	metrics.RecordCommand(name, "ok")
	return lines, nil
}

// Names returns the visible command names in sorted order.
func (d *Dispatcher) Names() []string {
	names := make([]string, 0, len(d.commands))
	for name, c := range d.commands {
		if !c.Hidden {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

// HelpLines renders the command overview in registration order.
func (d *Dispatcher) HelpLines() []string {
	lines := []string{"Available commands:"}
	for _, name := range d.order {
		c := d.commands[name]
		if c.Hidden {
			continue
		}
		lines = append(lines, fmt.Sprintf("  %-14s%s", c.Name, c.Summary))
	}
	return lines
}

func (d *Dispatcher) cmdHelp(_ *Context, _ []string) ([]string, error) {
	return d.HelpLines(), nil
}
