package fetch

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/faniaticos/vibe/internal/proc"
)

var (
	_ Counter = (*Git)(nil)
	_ Counter = (*Archive)(nil)
)

// fakeCloner simulates git clone by writing files into the target directory (last argument).
type fakeCloner struct {
	files    map[string]string
	err      error
	commands []proc.Command
}

func (f *fakeCloner) Run(ctx context.Context, cmd proc.Command) error {
	f.commands = append(f.commands, cmd)
	if f.err != nil {
		return f.err
	}
	target := cmd.Args[len(cmd.Args)-1]
	for name, content := range f.files {
		path := filepath.Join(target, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return err
		}
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			return err
		}
	}
	return nil
}

func TestGitFetch(t *testing.T) {
	runner := &fakeCloner{files: map[string]string{
		".git/HEAD":         "ref: refs/heads/main",
		"skills/a/SKILL.md": "a",
		"skills/b/SKILL.md": "b",
		"README.md":         "readme",
	}}
	g := NewGit(runner, "", nil)

	dest := filepath.Join(t.TempDir(), ".agent", "skills")
	n, err := g.FetchCount(context.Background(), "owner/repo/skills#v2", dest)
	if err != nil {
		t.Fatalf("FetchCount() error: %v", err)
	}
	if n != 2 {
		t.Errorf("FetchCount() = %d, want 2", n)
	}

	if _, err := os.Stat(filepath.Join(dest, "a", "SKILL.md")); err != nil {
		t.Error("a/SKILL.md should exist")
	}
	if _, err := os.Stat(filepath.Join(dest, "README.md")); !os.IsNotExist(err) {
		t.Error("files outside the sub-path should not be copied")
	}

	if len(runner.commands) != 1 {
		t.Fatalf("expected 1 command, got %d", len(runner.commands))
	}
	cmd := runner.commands[0]
	if cmd.Name != "git" {
		t.Errorf("binary = %q, want git", cmd.Name)
	}
	want := []string{"clone", "--depth", "1", "--quiet", "--branch", "v2", "https://github.com/owner/repo.git"}
	for i, arg := range want {
		if cmd.Args[i] != arg {
			t.Errorf("arg[%d] = %q, want %q", i, cmd.Args[i], arg)
		}
	}
}

func TestGitFetchWholeRepoSkipsHistory(t *testing.T) {
	runner := &fakeCloner{files: map[string]string{
		".git/HEAD": "ref",
		"a.md":      "a",
	}}
	dest := t.TempDir()
	if err := NewGit(runner, "git", nil).Fetch(context.Background(), "owner/repo", dest); err != nil {
		t.Fatalf("Fetch() error: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dest, ".git")); !os.IsNotExist(err) {
		t.Error(".git should not be copied")
	}
	if _, err := os.Stat(filepath.Join(dest, "a.md")); err != nil {
		t.Error("a.md should exist")
	}
}

func TestGitFetchCloneFailure(t *testing.T) {
	runner := &fakeCloner{err: errors.New("network unreachable")}
	err := NewGit(runner, "git", nil).Fetch(context.Background(), "owner/repo", t.TempDir())
	var fe *FetchError
	if !errors.As(err, &fe) {
		t.Fatalf("expected FetchError, got %v", err)
	}
	if fe.Source != "owner/repo" {
		t.Errorf("Source = %q", fe.Source)
	}
}

func TestGitFetchMissingSubdir(t *testing.T) {
	runner := &fakeCloner{files: map[string]string{"a.md": "a"}}
	err := NewGit(runner, "git", nil).Fetch(context.Background(), "owner/repo/skills", t.TempDir())
	if !errors.Is(err, ErrSubdirNotFound) {
		t.Errorf("expected ErrSubdirNotFound, got %v", err)
	}
}
