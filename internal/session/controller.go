// Package session drives one terminal: it runs the login state machine in
// front of the shell and keeps the per-session state (working directory,
// environment, history) the shell operates on.
package session

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/skairipa/hannaterm/internal/auth"
	"github.com/skairipa/hannaterm/internal/bridge"
	"github.com/skairipa/hannaterm/internal/logging"
	"github.com/skairipa/hannaterm/internal/metrics"
	"github.com/skairipa/hannaterm/internal/shell"
	"github.com/skairipa/hannaterm/internal/vfs"
)

// DefaultHostname appears in the active prompt.
const DefaultHostname = "hanna-terminal"

// LoginPrompt and PasswordPrompt are shown while unauthenticated.
const (
	LoginPrompt    = "Terminal Emulator login: "
	PasswordPrompt = "Password: "
)

// DefaultPath is exported as PATH on login.
const DefaultPath = "/usr/bin:/bin"

// SignalFunc receives Clear and Logout when Execute emits them.
type SignalFunc func(signal string)

// Controller is not safe for concurrent use. Callers serialize access so
// that one input line is processed at a time.
type Controller struct {
	id         string
	dispatcher *shell.Dispatcher
	auth       *auth.Session
	shell      shell.Context
	history    []string
	state      State
	pending    string
	user       *auth.Identity
	hostname   string
	onSignal   SignalFunc
}

type options struct {
	media    bridge.Media
	clock    bridge.Clock
	hostname string
	fs       *vfs.FS
	fsOpts   []vfs.Option
	authOpts []auth.Option
	onSignal SignalFunc
	id       string
}

// Option configures a Controller.
type Option func(*options)

// WithMedia sets the playback collaborator used by "play".
func WithMedia(m bridge.Media) Option {
	return func(o *options) { o.media = m }
}

// WithClock sets the time source used by "date".
func WithClock(c bridge.Clock) Option {
	return func(o *options) { o.clock = c }
}

// WithHostname sets the host label of the active prompt.
func WithHostname(name string) Option {
	return func(o *options) {
		if name != "" {
			o.hostname = name
		}
	}
}

// WithFilesystem replaces the seeded filesystem.
func WithFilesystem(fs *vfs.FS) Option {
	return func(o *options) { o.fs = fs }
}

// WithFSOptions configures the seeded filesystem.
func WithFSOptions(opts ...vfs.Option) Option {
	return func(o *options) { o.fsOpts = append(o.fsOpts, opts...) }
}

// WithAuthOptions configures the identity registry.
func WithAuthOptions(opts ...auth.Option) Option {
	return func(o *options) { o.authOpts = append(o.authOpts, opts...) }
}

// WithSignalHook registers fn to be called on clear and logout.
func WithSignalHook(fn SignalFunc) Option {
	return func(o *options) { o.onSignal = fn }
}

// WithID labels the controller in log output.
func WithID(id string) Option {
	return func(o *options) { o.id = id }
}

// New creates a Controller waiting for a username.
func New(opts ...Option) *Controller {
	o := options{
		media:    bridge.Unavailable{},
		clock:    bridge.SystemClock{},
		hostname: DefaultHostname,
	}
	for _, opt := range opts {
		opt(&o)
	}
	fs := o.fs
	if fs == nil {
		fs = vfs.NewSeeded(o.fsOpts...)
	}

	c := &Controller{
		id:         o.id,
		dispatcher: shell.NewDispatcher(),
		auth:       auth.NewSession(o.authOpts...),
		shell: shell.Context{
			FS:    fs,
			Cwd:   "/",
			Env:   make(map[string]string),
			Media: o.media,
			Clock: o.clock,
		},
		state:    AwaitingUsername,
		hostname: o.hostname,
		onSignal: o.onSignal,
	}
	metrics.SetVFSTreeSize(fs.Count())
	return c
}

// Execute processes one input line and returns either a reserved token or
// the newline-joined command output.
func (c *Controller) Execute(input string) string {
	switch c.state {
	case AwaitingUsername:
		return c.handleUsername(input)
	case AwaitingPassword:
		return c.handlePassword(input)
	default:
		return c.handleCommand(input)
	}
}

func (c *Controller) handleUsername(input string) string {
	username := strings.TrimSpace(input)
	if !c.auth.UserExists(username) {
		return fmt.Sprintf("User '%s' does not exist", username)
	}
	c.pending = username
	c.state = AwaitingPassword
	return UsernameOK
}

func (c *Controller) handlePassword(input string) string {
	id, err := c.auth.Verify(c.pending, input)
	if err != nil {
		c.pending = ""
		c.state = AwaitingUsername
		return LoginFailed + auth.Message(err)
	}

	c.pending = ""
	c.user = &id
	c.shell.Cwd = id.Home
	if n, ok := c.shell.FS.Get(id.Home); !ok || !n.IsDir() {
		c.shell.Cwd = "/"
	}
	c.shell.Env["USER"] = id.Username
	c.shell.Env["HOME"] = id.Home
	c.shell.Env["SHELL"] = id.Shell
	c.shell.Env["PATH"] = DefaultPath
	c.state = Active
	c.logger().Info("user logged in", zap.String("username", id.Username))
	return LoginSuccess + id.Username
}

func (c *Controller) handleCommand(input string) string {
	if strings.TrimSpace(input) == "" {
		return ""
	}
	c.history = append(c.history, input)

	tokens := shell.Tokenize(input)
	if len(tokens) == 0 {
		return ""
	}
	name, args := tokens[0], tokens[1:]

	switch name {
	case "clear":
		c.signal(Clear)
		return Clear
	case "logout", "exit":
		c.logout()
		c.signal(Logout)
		return Logout
	}

	lines, _ := c.dispatcher.Dispatch(&c.shell, name, args)
	metrics.SetVFSTreeSize(c.shell.FS.Count())
	return strings.Join(lines, "\n")
}

func (c *Controller) logout() {
	if c.user != nil {
		c.logger().Info("user logged out", zap.String("username", c.user.Username))
	}
	c.user = nil
	c.pending = ""
	c.state = AwaitingUsername
	clear(c.shell.Env)
}

func (c *Controller) signal(s string) {
	if c.onSignal != nil {
		c.onSignal(s)
	}
}

func (c *Controller) logger() *zap.Logger {
	if c.id == "" {
		return logging.L()
	}
	return logging.L().With(zap.String("session_id", c.id))
}

// Prompt returns the prompt for the current state.
func (c *Controller) Prompt() string {
	switch c.state {
	case AwaitingUsername:
		return LoginPrompt
	case AwaitingPassword:
		return PasswordPrompt
	}
	symbol := "$"
	if c.user.IsRoot() {
		symbol = "#"
	}
	return fmt.Sprintf("%s@%s:%s %s ", c.user.Username, c.hostname, c.shell.Cwd, symbol)
}

// State returns the login state.
func (c *Controller) State() State { return c.state }

// CurrentDir returns the working directory.
func (c *Controller) CurrentDir() string { return c.shell.Cwd }

// History returns a copy of the recorded input lines.
func (c *Controller) History() []string {
	return append([]string(nil), c.history...)
}

// HistoryItem returns the line at index.
func (c *Controller) HistoryItem(index int) (string, bool) {
	if index < 0 || index >= len(c.history) {
		return "", false
	}
	return c.history[index], true
}

// HistoryLen returns the number of recorded lines.
func (c *Controller) HistoryLen() int { return len(c.history) }

// Username returns the logged in user, or "" when no one is.
func (c *Controller) Username() string {
	if c.user == nil {
		return ""
	}
	return c.user.Username
}

// IsRoot reports whether the logged in user has uid 0.
func (c *Controller) IsRoot() bool {
	return c.user != nil && c.user.IsRoot()
}

// Identity returns the logged in identity.
func (c *Controller) Identity() (auth.Identity, bool) {
	if c.user == nil {
		return auth.Identity{}, false
	}
	return *c.user, true
}

// Env returns a copy of the environment.
func (c *Controller) Env() map[string]string {
	env := make(map[string]string, len(c.shell.Env))
	for k, v := range c.shell.Env {
		env[k] = v
	}
	return env
}

// ListUsers returns the registered usernames in sorted order.
func (c *Controller) ListUsers() []string { return c.auth.ListUsers() }

// FS returns the session's filesystem.
func (c *Controller) FS() *vfs.FS { return c.shell.FS }
