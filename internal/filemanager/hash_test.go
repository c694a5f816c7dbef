package filemanager

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestSummarize(t *testing.T) {
	dir := t.TempDir()
	os.WriteFile(filepath.Join(dir, "a.md"), []byte("file a"), 0644)
	os.MkdirAll(filepath.Join(dir, "nested"), 0755)
	os.WriteFile(filepath.Join(dir, "nested", "b.md"), []byte("file b"), 0644)

	s1, err := Summarize(dir)
	if err != nil {
		t.Fatalf("Summarize() error: %v", err)
	}
	if s1.Files != 2 {
		t.Errorf("Files = %d, want 2", s1.Files)
	}
	if !strings.HasPrefix(s1.Digest, "sha256:") {
		t.Errorf("digest should start with sha256: prefix, got %q", s1.Digest)
	}

	// Same content should produce same digest
	dir2 := t.TempDir()
	os.MkdirAll(filepath.Join(dir2, "nested"), 0755)
	os.WriteFile(filepath.Join(dir2, "nested", "b.md"), []byte("file b"), 0644)
	os.WriteFile(filepath.Join(dir2, "a.md"), []byte("file a"), 0644)

	s2, err := Summarize(dir2)
	if err != nil {
		t.Fatalf("Summarize() error: %v", err)
	}
	if s1.Digest != s2.Digest {
		t.Error("identical directories should produce same digest")
	}

	// Modified content should produce different digest
	os.WriteFile(filepath.Join(dir2, "a.md"), []byte("modified"), 0644)
	s3, err := Summarize(dir2)
	if err != nil {
		t.Fatalf("Summarize() error: %v", err)
	}
	if s1.Digest == s3.Digest {
		t.Error("modified directory should produce different digest")
	}
}

func TestSummarizeMissingDir(t *testing.T) {
	s, err := Summarize(filepath.Join(t.TempDir(), "missing"))
	if err != nil {
		t.Fatalf("Summarize() error: %v", err)
	}
	if s.Files != 0 || s.Digest != "" {
		t.Errorf("Summarize(missing) = %+v, want zero value", s)
	}
}

func TestCountFiles(t *testing.T) {
	dir := t.TempDir()
	os.WriteFile(filepath.Join(dir, "a.md"), []byte("a"), 0644)
	os.MkdirAll(filepath.Join(dir, "nested", ".git"), 0755)
	os.WriteFile(filepath.Join(dir, "nested", "b.md"), []byte("b"), 0644)
	os.WriteFile(filepath.Join(dir, "nested", ".git", "HEAD"), []byte("ref"), 0644)

	n, err := CountFiles(dir)
	if err != nil {
		t.Fatalf("CountFiles() error: %v", err)
	}
	if n != 2 {
		t.Errorf("CountFiles() = %d, want 2", n)
	}

	n, err = CountFiles(filepath.Join(dir, "missing"))
	if err != nil || n != 0 {
		t.Errorf("CountFiles(missing) = %d, %v, want 0, nil", n, err)
	}
}
