package session

import (
	"reflect"
	"testing"
)

func TestCompleteRequiresLogin(t *testing.T) {
	c := newTestController()
	if got := c.Complete("l"); got != nil {
		t.Errorf("Complete before login = %q", got)
	}
}

func TestComplete(t *testing.T) {
	c := newTestController()
	login(t, c, "skairipa", "hanna-pass")
	c.AddDirectory("/home/skairipa/Music (old)")

	tests := []struct {
		line string
		want []string
	}{
		{"c", []string{"cat", "cd", "clear"}},
		{"ex", []string{"exit"}},
		{"zzz", nil},
		{"cd D", []string{"Desktop/", "Documents/", "Downloads/"}},
		{"cat we", []string{"welcome.txt"}},
		{"cat .b", []string{".bashrc"}},
		{"cd M", []string{`Music\ \(old\)/`}},
		{"cat Documents/R", []string{"Documents/README.md"}},
		{"ls /e", []string{"/etc/"}},
		{"cat /etc/pa", []string{"/etc/passwd"}},
		{"play Projects/Au", []string{`Projects/Autumn\ Leaves\ in\ Tokyo.mp3`}},
		{"cat nowhere/x", nil},
	}
	for _, tt := range tests {
		if got := c.Complete(tt.line); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("Complete(%q) = %q, want %q", tt.line, got, tt.want)
		}
	}
}

func TestCompleteEmptyWordListsDirectory(t *testing.T) {
	c := newTestController()
	login(t, c, "skairipa", "hanna-pass")
	c.Execute("cd Projects")

	want := []string{`Autumn\ Leaves\ in\ Tokyo.mp3`, "shadow-assets.txt"}
	if got := c.Complete("cat "); !reflect.DeepEqual(got, want) {
		t.Errorf("Complete(\"cat \") = %q, want %q", got, want)
	}
}
