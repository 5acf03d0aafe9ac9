package session

import (
	"errors"
	"os"
	"reflect"
	"strings"
	"testing"

	"github.com/skairipa/hannaterm/internal/auth"
	"github.com/skairipa/hannaterm/internal/bridge"
	"github.com/skairipa/hannaterm/internal/logging"
	"github.com/skairipa/hannaterm/internal/vfs"
)

func TestMain(m *testing.M) {
	logging.InitNop()
	os.Exit(m.Run())
}

func newTestController(opts ...Option) *Controller {
	ids := auth.DefaultIdentities()
	ids[0].PasswordHash = auth.SHA256Hex("hanna-pass")
	ids[1].PasswordHash = auth.SHA256Hex("root-pass")
	base := []Option{
		WithAuthOptions(auth.WithIdentities(ids...)),
		WithClock(bridge.ClockFunc(func() string { return "Tue Mar  5 14:30:00 UTC 2024" })),
	}
	return New(append(base, opts...)...)
}

func login(t *testing.T, c *Controller, user, password string) {
	t.Helper()
	if got := c.Execute(user); got != UsernameOK {
		t.Fatalf("Execute(%q) = %q, want %q", user, got, UsernameOK)
	}
	if got := c.Execute(password); got != LoginSuccess+user {
		t.Fatalf("password for %s = %q", user, got)
	}
}

func TestLoginFlow(t *testing.T) {
	c := newTestController()
	if c.State() != AwaitingUsername || c.Prompt() != LoginPrompt {
		t.Fatalf("initial state %v, prompt %q", c.State(), c.Prompt())
	}

	if got := c.Execute("mallory"); got != "User 'mallory' does not exist" {
		t.Errorf("unknown user = %q", got)
	}
	if c.State() != AwaitingUsername {
		t.Errorf("state after unknown user = %v", c.State())
	}
	if got := c.Execute(""); got != "User '' does not exist" {
		t.Errorf("empty username = %q", got)
	}

	if got := c.Execute("  skairipa \n"); got != UsernameOK {
		t.Fatalf("username = %q", got)
	}
	if c.State() != AwaitingPassword || c.Prompt() != PasswordPrompt {
		t.Errorf("state %v, prompt %q", c.State(), c.Prompt())
	}
	if got := c.Execute("hanna-pass"); got != "LOGIN_SUCCESS:skairipa" {
		t.Fatalf("password = %q", got)
	}

	if c.State() != Active || c.Username() != "skairipa" || c.IsRoot() {
		t.Errorf("state %v, user %q, root %v", c.State(), c.Username(), c.IsRoot())
	}
	if c.CurrentDir() != "/home/skairipa" {
		t.Errorf("cwd = %q", c.CurrentDir())
	}
	if got, want := c.Prompt(), "skairipa@hanna-terminal:/home/skairipa $ "; got != want {
		t.Errorf("prompt = %q, want %q", got, want)
	}
	want := map[string]string{
		"USER":  "skairipa",
		"HOME":  "/home/skairipa",
		"SHELL": "/bin/bash",
		"PATH":  "/usr/bin:/bin",
	}
	if !reflect.DeepEqual(c.Env(), want) {
		t.Errorf("env = %v", c.Env())
	}
	if c.HistoryLen() != 0 {
		t.Error("login input was recorded to history")
	}
}

func TestWrongPasswordReturnsToUsername(t *testing.T) {
	c := newTestController()
	c.Execute("skairipa")
	if got := c.Execute("nope"); got != "LOGIN_FAILED:Incorrect password" {
		t.Errorf("wrong password = %q", got)
	}
	if c.State() != AwaitingUsername || c.Username() != "" {
		t.Errorf("state %v, user %q", c.State(), c.Username())
	}
	// the buffered username is gone: this line is a username again
	if got := c.Execute("hanna-pass"); got != "User 'hanna-pass' does not exist" {
		t.Errorf("got %q", got)
	}
}

func TestLockout(t *testing.T) {
	c := newTestController()
	for i := 0; i < 3; i++ {
		c.Execute("skairipa")
		if got := c.Execute("wrong"); got != "LOGIN_FAILED:Incorrect password" {
			t.Fatalf("attempt %d = %q", i+1, got)
		}
	}
	c.Execute("skairipa")
	if got := c.Execute("hanna-pass"); got != "LOGIN_FAILED:Account locked. Too many failed attempts." {
		t.Errorf("correct password on locked account = %q", got)
	}

	// other accounts are unaffected
	login(t, c, "root", "root-pass")
	c.Execute("logout")

	if err := c.SetUserPassword("skairipa", auth.SHA256Hex("new-pass")); err != nil {
		t.Fatal(err)
	}
	if c.FailedAttempts("skairipa") != 0 {
		t.Error("reset did not clear the counter")
	}
	login(t, c, "skairipa", "new-pass")
}

func TestSetUserPasswordUnknownUser(t *testing.T) {
	c := newTestController()
	if err := c.SetUserPassword("ghost", "x"); !errors.Is(err, auth.ErrUserNotFound) {
		t.Errorf("err = %v", err)
	}
}

func TestRootPrompt(t *testing.T) {
	c := newTestController(WithHostname("box"))
	login(t, c, "root", "root-pass")
	if !c.IsRoot() {
		t.Error("root is not root")
	}
	if got := c.Prompt(); got != "root@box:/root # " {
		t.Errorf("prompt = %q", got)
	}
}

func TestCommandsAndHistory(t *testing.T) {
	c := newTestController()
	login(t, c, "skairipa", "hanna-pass")

	if got := c.Execute("   "); got != "" {
		t.Errorf("blank line = %q", got)
	}
	if got := c.Execute("pwd"); got != "/home/skairipa" {
		t.Errorf("pwd = %q", got)
	}
	c.Execute("cd Documents")
	if got := c.Execute("cat README.md"); !strings.HasPrefix(got, "# Hanna's Documents\n\nThis directory") {
		t.Errorf("cat = %q", got)
	}
	if got := c.Execute("whoami"); got != "skairipa" {
		t.Errorf("whoami = %q", got)
	}
	if got := c.Execute("date"); got != "Tue Mar  5 14:30:00 UTC 2024" {
		t.Errorf("date = %q", got)
	}
	if got := c.Execute("sudo rm -rf /"); got != "bash: sudo: command not found" {
		t.Errorf("unknown = %q", got)
	}
	if got := c.Execute(`mkdir "My Stuff"`); got != "" {
		t.Errorf("mkdir = %q", got)
	}
	if got := c.Execute("ls"); got != "My Stuff/  README.md" {
		t.Errorf("ls = %q", got)
	}

	want := []string{"pwd", "cd Documents", "cat README.md", "whoami", "date", "sudo rm -rf /", `mkdir "My Stuff"`, "ls"}
	if !reflect.DeepEqual(c.History(), want) {
		t.Errorf("history = %q", c.History())
	}
	if c.HistoryLen() != len(want) {
		t.Errorf("HistoryLen = %d", c.HistoryLen())
	}
	if item, ok := c.HistoryItem(1); !ok || item != "cd Documents" {
		t.Errorf("HistoryItem(1) = %q, %v", item, ok)
	}
	if _, ok := c.HistoryItem(len(want)); ok {
		t.Error("HistoryItem past the end succeeded")
	}
	if _, ok := c.HistoryItem(-1); ok {
		t.Error("HistoryItem(-1) succeeded")
	}
}

func TestClearAndLogoutSignals(t *testing.T) {
	var signals []string
	c := newTestController(WithSignalHook(func(s string) { signals = append(signals, s) }))
	login(t, c, "skairipa", "hanna-pass")

	if got := c.Execute("clear"); got != Clear {
		t.Errorf("clear = %q", got)
	}
	if got := c.Execute("exit"); got != Logout {
		t.Errorf("exit = %q", got)
	}
	if !reflect.DeepEqual(signals, []string{Clear, Logout}) {
		t.Errorf("signals = %q", signals)
	}
	if !reflect.DeepEqual(c.History(), []string{"clear", "exit"}) {
		t.Errorf("history = %q", c.History())
	}
}

func TestLogoutClearsEnvironmentAndRelogin(t *testing.T) {
	c := newTestController()
	login(t, c, "skairipa", "hanna-pass")
	c.Execute("cd /tmp")

	if got := c.Execute("logout"); got != Logout {
		t.Fatalf("logout = %q", got)
	}
	if c.State() != AwaitingUsername || c.Username() != "" || c.IsRoot() {
		t.Errorf("state %v, user %q", c.State(), c.Username())
	}
	if len(c.Env()) != 0 {
		t.Errorf("env after logout = %v", c.Env())
	}
	if c.Prompt() != LoginPrompt {
		t.Errorf("prompt = %q", c.Prompt())
	}
	// commands are not run while logged out
	if got := c.Execute("pwd"); got != "User 'pwd' does not exist" {
		t.Errorf("pwd while logged out = %q", got)
	}

	login(t, c, "root", "root-pass")
	want := map[string]string{
		"USER":  "root",
		"HOME":  "/root",
		"SHELL": "/bin/bash",
		"PATH":  "/usr/bin:/bin",
	}
	if !reflect.DeepEqual(c.Env(), want) {
		t.Errorf("env after relogin = %v", c.Env())
	}
	if c.CurrentDir() != "/root" {
		t.Errorf("cwd = %q", c.CurrentDir())
	}
	if got := c.Execute("whoami"); got != "root" {
		t.Errorf("whoami = %q", got)
	}
}

func TestHomeFallsBackToRoot(t *testing.T) {
	c := newTestController(WithFilesystem(vfs.New()))
	login(t, c, "skairipa", "hanna-pass")
	if c.CurrentDir() != "/" {
		t.Errorf("cwd = %q", c.CurrentDir())
	}
	if c.Env()["HOME"] != "/home/skairipa" {
		t.Errorf("HOME = %q", c.Env()["HOME"])
	}
}

func TestPlayUsesMedia(t *testing.T) {
	c := newTestController()
	login(t, c, "skairipa", "hanna-pass")
	got := c.Execute("play welcome.txt")
	if !strings.HasPrefix(got, "play: failed to play file: /home/skairipa/welcome.txt") {
		t.Errorf("play without player = %q", got)
	}
}

func TestStateString(t *testing.T) {
	tests := []struct {
		s    State
		want string
	}{
		{AwaitingUsername, "login_username"},
		{AwaitingPassword, "login_password"},
		{Active, "active"},
	}
	for _, tt := range tests {
		if got := tt.s.String(); got != tt.want {
			t.Errorf("State(%d).String() = %q, want %q", int(tt.s), got, tt.want)
		}
		text, _ := tt.s.MarshalText()
		if string(text) != tt.want {
			t.Errorf("MarshalText = %q", text)
		}
		var back State
		if err := back.UnmarshalText(text); err != nil || back != tt.s {
			t.Errorf("UnmarshalText(%q) = %v, %v", text, back, err)
		}
	}
}

func TestUnmarshalUnknownState(t *testing.T) {
	var s State
	if err := s.UnmarshalText([]byte("INVALID_STATE")); err == nil {
		t.Error("expected an error")
	}
}

func TestListUsers(t *testing.T) {
	c := newTestController()
	if got := c.ListUsers(); !reflect.DeepEqual(got, []string{"root", "skairipa"}) {
		t.Errorf("ListUsers = %q", got)
	}
}
