package vfs

import (
	"strings"
	"testing"
)

func TestExportImport(t *testing.T) {
	src := NewSeeded()
	src.CreateFile("/tmp/notes.txt", "line one\nline two")
	data, err := src.Export()
	if err != nil {
		t.Fatalf("Export: %v", err)
	}

	dst := New()
	root := dst.Root()
	if err := dst.Import(data); err != nil {
		t.Fatalf("Import: %v", err)
	}
	if dst.Root() != root {
		t.Error("Import replaced the root node")
	}
	if got, _ := dst.Read("/tmp/notes.txt"); got != "line one\nline two" {
		t.Errorf("Read after import = %q", got)
	}
	if dst.Count() != src.Count() {
		t.Errorf("Count = %d, want %d", dst.Count(), src.Count())
	}

	again, _ := dst.Export()
	if string(again) != string(data) {
		t.Error("export is not stable across a round trip")
	}
}

func TestImportRejectsBadTrees(t *testing.T) {
	tests := []struct {
		name, data, wantErr string
	}{
		{"garbage", `{`, "decode tree"},
		{"file root", `{"name":"/","is_dir":false}`, "root is not a directory"},
		{"file with children", `{"name":"/","is_dir":true,"children":[{"name":"f","is_dir":false,"children":[{"name":"x","is_dir":false}]}]}`, "has children"},
		{"duplicate", `{"name":"/","is_dir":true,"children":[{"name":"a","is_dir":false},{"name":"a","is_dir":true}]}`, "duplicate"},
		{"nameless", `{"name":"/","is_dir":true,"children":[{"name":"","is_dir":false}]}`, "without a name"},
	}
	for _, tt := range tests {
		fs := NewSeeded()
		before := fs.Count()
		err := fs.Import([]byte(tt.data))
		if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
			t.Errorf("%s: err = %v, want containing %q", tt.name, err, tt.wantErr)
		}
		if fs.Count() != before {
			t.Errorf("%s: failed import changed the tree", tt.name)
		}
	}
}
