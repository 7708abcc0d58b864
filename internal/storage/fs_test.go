package storage

import (
	"os"
	"path/filepath"
	"testing"
)

func tempVault(t *testing.T) *FS {
	t.Helper()
	dir := t.TempDir()
	fs, err := NewFS(dir)
	if err != nil {
		t.Fatalf("NewFS: %v", err)
	}
	return fs
}

func TestWriteAndRead(t *testing.T) {
	s := tempVault(t)
	content := []byte("\\lx kan\n\\ge water\n")
	if err := s.Write("lexicon.sfm", content); err != nil {
		t.Fatalf("Write: %v", err)
	}
	got, err := s.Read("lexicon.sfm")
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if string(got) != string(content) {
		t.Errorf("content mismatch: got %q", got)
	}
}

func TestWriteCreatesSubdirs(t *testing.T) {
	s := tempVault(t)
	if err := s.Write("a/b/c.sfm", []byte("deep")); err != nil {
		t.Fatalf("Write: %v", err)
	}
	got, err := s.Read("a/b/c.sfm")
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if string(got) != "deep" {
		t.Errorf("content = %q", got)
	}
}

func TestDelete(t *testing.T) {
	s := tempVault(t)
	_ = s.Write("del.sfm", []byte("bye"))
	if err := s.Delete("del.sfm"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := s.Read("del.sfm"); err == nil {
		t.Error("expected error reading deleted file")
	}
}

func TestMove(t *testing.T) {
	s := tempVault(t)
	_ = s.Write("old.sfm", []byte("data"))
	if err := s.Move("old.sfm", "sub/new.sfm"); err != nil {
		t.Fatalf("Move: %v", err)
	}
	got, err := s.Read("sub/new.sfm")
	if err != nil {
		t.Fatalf("Read after move: %v", err)
	}
	if string(got) != "data" {
		t.Errorf("content = %q", got)
	}
	if _, err := s.Read("old.sfm"); err == nil {
		t.Error("old path should not exist")
	}
}

func TestList_LexiconExtensionsOnly(t *testing.T) {
	s := tempVault(t)
	_ = s.Write("a.sfm", []byte("a"))
	_ = s.Write("sub/b.db", []byte("b"))
	_ = s.Write("c.txt", []byte("c"))
	_ = s.Write("readme.md", []byte("not sfm"))

	items, err := s.List("")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(items) != 3 {
		t.Errorf("len = %d, want 3", len(items))
	}
}

func TestIsLexiconFile(t *testing.T) {
	for _, name := range []string{"x.sfm", "x.SFM", "d/y.db", "z.txt"} {
		if !IsLexiconFile(name) {
			t.Errorf("IsLexiconFile(%q) = false", name)
		}
	}
	for _, name := range []string{"x.md", "x", "x.sfm.bak"} {
		if IsLexiconFile(name) {
			t.Errorf("IsLexiconFile(%q) = true", name)
		}
	}
}

func TestTraversalBlocked(t *testing.T) {
	s := tempVault(t)

	cases := []string{
		"../../etc/passwd",
		"../outside.sfm",
		"/etc/shadow",
	}
	for _, p := range cases {
		if _, err := s.Read(p); err == nil {
			t.Errorf("expected error for path %q", p)
		}
		if err := s.Write(p, []byte("x")); err == nil {
			t.Errorf("expected error for write to %q", p)
		}
	}
}

func TestAtomicWriteNoLeftoverTemp(t *testing.T) {
	s := tempVault(t)
	_ = s.Write("atomic.sfm", []byte("original content"))

	updated := []byte("updated content")
	if err := s.Write("atomic.sfm", updated); err != nil {
		t.Fatalf("Write: %v", err)
	}
	got, _ := s.Read("atomic.sfm")
	if string(got) != string(updated) {
		t.Errorf("expected updated content, got %q", got)
	}

	matches, _ := filepath.Glob(filepath.Join(s.root, ".laguz-tmp-*"))
	if len(matches) != 0 {
		t.Errorf("leftover temp files: %v", matches)
	}
}

func TestNewFS_NonExistentDir(t *testing.T) {
	_, err := NewFS("/tmp/laguz-does-not-exist-" + t.Name())
	if err == nil {
		t.Error("expected error for non-existent dir")
	}
}

func TestNewFS_FileNotDir(t *testing.T) {
	f, _ := os.CreateTemp("", "laguz-test-*")
	_ = f.Close()
	defer os.Remove(f.Name())
	_, err := NewFS(f.Name())
	if err == nil {
		t.Error("expected error when root is a file")
	}
}
