package proc

import (
	"context"
	"os/exec"
	"strings"
	"testing"
)

func TestCommandString(t *testing.T) {
	c := Command{Name: "git", Args: []string{"init"}}
	if c.String() != "git init" {
		t.Errorf("String() = %q, want %q", c.String(), "git init")
	}
}

func TestExecRunnerMissingBinary(t *testing.T) {
	r := NewExecRunner()
	err := r.Run(context.Background(), Command{Name: "vibe-definitely-not-installed"})
	if err == nil {
		t.Fatal("expected error for missing binary")
	}
	if !strings.Contains(err.Error(), "not installed") {
		t.Errorf("error = %q, want containing 'not installed'", err.Error())
	}
}

func TestExecRunnerCapturesOutputOnFailure(t *testing.T) {
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}
	r := NewExecRunner()
	err := r.Run(context.Background(), Command{Name: "sh", Args: []string{"-c", "echo boom >&2; exit 3"}})
	if err == nil {
		t.Fatal("expected error for nonzero exit")
	}
	if !strings.Contains(err.Error(), "boom") {
		t.Errorf("error = %q, want captured output", err.Error())
	}
}

func TestExecRunnerWorkingDir(t *testing.T) {
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}
	dir := t.TempDir()
	r := NewExecRunner()
	if err := r.Run(context.Background(), Command{Name: "sh", Args: []string{"-c", "touch marker"}, Dir: dir}); err != nil {
		t.Fatalf("Run() error: %v", err)
	}
	if err := r.Run(context.Background(), Command{Name: "sh", Args: []string{"-c", "test -f marker"}, Dir: dir}); err != nil {
		t.Errorf("marker should exist in working dir: %v", err)
	}
}
