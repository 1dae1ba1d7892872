package validation

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestPathValidatorClean(t *testing.T) {
	v := NewPathValidator()
	home, _ := os.UserHomeDir()

	got, err := v.Clean("~/.newshub/newshub.db")
	if err != nil {
		t.Fatalf("Clean() error = %v", err)
	}
	if got != filepath.Join(home, ".newshub", "newshub.db") {
		t.Errorf("Clean() = %s", got)
	}

	got, err = v.Clean("relative/../x.db")
	if err != nil {
		t.Fatalf("Clean() error = %v", err)
	}
	if !filepath.IsAbs(got) || strings.Contains(got, "..") {
		t.Errorf("Clean() = %s, want absolute cleaned path", got)
	}

	for _, bad := range []string{"", "a\x00b", "a\nb", "~other/x", strings.Repeat("a", 5000)} {
		if _, err := v.Clean(bad); err == nil {
			t.Errorf("Clean(%q) expected error", bad)
		}
	}
}

func TestPathValidatorFile(t *testing.T) {
	v := NewPathValidator()
	dir := t.TempDir()

	target := filepath.Join(dir, "nested", "deeper", "newshub.db")
	got, err := v.File(target)
	if err != nil {
		t.Fatalf("File() error = %v", err)
	}
	if got != target {
		t.Errorf("File() = %s, want %s", got, target)
	}
	if info, err := os.Stat(filepath.Dir(target)); err != nil || !info.IsDir() {
		t.Error("File() should create the parent directory")
	}

	if _, err := v.File(dir); err == nil {
		t.Error("File() on a directory should fail")
	}

	blocker := filepath.Join(dir, "blocker")
	if err := os.WriteFile(blocker, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := v.File(filepath.Join(blocker, "x.db")); err == nil {
		t.Error("File() under a regular file should fail")
	}
}

func TestPathValidatorDir(t *testing.T) {
	v := NewPathValidator()
	dir := t.TempDir()

	idx := filepath.Join(dir, "data", "bookmarks.bleve")
	got, err := v.Dir(idx)
	if err != nil {
		t.Fatalf("Dir() error = %v", err)
	}
	if got != idx {
		t.Errorf("Dir() = %s, want %s", got, idx)
	}
	if _, err := os.Stat(idx); !os.IsNotExist(err) {
		t.Error("Dir() should not create the leaf directory")
	}

	file := filepath.Join(dir, "plain")
	if err := os.WriteFile(file, nil, 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := v.Dir(file); err == nil {
		t.Error("Dir() on a regular file should fail")
	}
}
