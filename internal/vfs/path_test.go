package vfs

import "testing"

func TestNormalize(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"/", "/"},
		{"", "/"},
		{"/a/b/../c", "/a/c"},
		{"/a/../../b", "/b"},
		{"/../..", "/"},
		{"//a///b/", "/a/b"},
		{"/a/./b/.", "/a/b"},
		{"a/b", "/a/b"},
	}
	for _, tt := range tests {
		if got := Normalize(tt.in); got != tt.want {
			t.Errorf("Normalize(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	for _, p := range []string{"/", "/a", "/a/b/c", "/home/skairipa/My Docs"} {
		if got := Normalize(Normalize(p)); got != Normalize(p) {
			t.Errorf("Normalize not idempotent for %q: %q", p, got)
		}
	}
}

func TestResolve(t *testing.T) {
	tests := []struct {
		path, cwd, want string
	}{
		{"/etc", "/home", "/etc"},
		{"/etc/../root", "/home", "/root"},
		{"~", "/etc", HomeDir},
		{"~/Documents", "/etc", HomeDir + "/Documents"},
		{"~/../..", "/etc", "/"},
		{"Documents", HomeDir, HomeDir + "/Documents"},
		{"..", HomeDir, "/home"},
		{"../../..", "/home", "/"},
		{".", "/", "/"},
		{"bin", "/", "/bin"},
		{"~other", "/tmp", "/tmp/~other"},
	}
	for _, tt := range tests {
		if got := Resolve(tt.path, tt.cwd); got != tt.want {
			t.Errorf("Resolve(%q, %q) = %q, want %q", tt.path, tt.cwd, got, tt.want)
		}
	}
}

func TestResolveThenNormalizeIsStable(t *testing.T) {
	for _, cwd := range []string{"/", "/home/skairipa", "/usr/bin"} {
		for _, p := range []string{"a", "../b", "./c/../d", "x/y/z/../../.."} {
			r := Resolve(p, cwd)
			if Normalize(r) != r {
				t.Errorf("Resolve(%q, %q) = %q is not normalized", p, cwd, r)
			}
		}
	}
}

func TestSplit(t *testing.T) {
	tests := []struct {
		in, parent, name string
	}{
		{"/", "/", ""},
		{"/a", "/", "a"},
		{"/a/b", "/a", "b"},
		{"/a/b/../c", "/a", "c"},
	}
	for _, tt := range tests {
		parent, name := Split(tt.in)
		if parent != tt.parent || name != tt.name {
			t.Errorf("Split(%q) = (%q, %q), want (%q, %q)", tt.in, parent, name, tt.parent, tt.name)
		}
	}
}

func TestJoin(t *testing.T) {
	if got := Join("/", "etc"); got != "/etc" {
		t.Errorf("Join(/, etc) = %q", got)
	}
	if got := Join("/etc", "motd"); got != "/etc/motd" {
		t.Errorf("Join(/etc, motd) = %q", got)
	}
}
