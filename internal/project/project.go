// Package project prepares the directory a stack is scaffolded into.
package project

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/faniaticos/vibe/internal/filemanager"
	"github.com/faniaticos/vibe/internal/proc"
	"github.com/faniaticos/vibe/internal/registry"
)

const invalidNameChars = `<>:"/\|?*`

// Context is the project being scaffolded.
type Context struct {
	Root string // absolute
	Name string
}

// NewContext resolves root to an absolute path and names the project after its base directory.
func NewContext(root string) (Context, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return Context{}, fmt.Errorf("resolving project root: %w", err)
	}
	return Context{Root: abs, Name: filepath.Base(abs)}, nil
}

// Path joins a slash-separated project-relative path onto the root.
func (c Context) Path(rel string) string {
	return filepath.Join(c.Root, filepath.FromSlash(rel))
}

// ValidateName checks a folder name typed by the user.
func ValidateName(name string) error {
	if strings.TrimSpace(name) == "" {
		return errors.New("project name cannot be empty")
	}
	if strings.ContainsAny(name, invalidNameChars) {
		return fmt.Errorf("project name cannot contain any of %s", invalidNameChars)
	}
	return nil
}

// SanitizeName trims name, replaces whitespace runs with "-" and lower-cases it.
func SanitizeName(name string) string {
	return strings.ToLower(strings.Join(strings.Fields(name), "-"))
}

// EnsureDirs creates the destination directory of every download.
func EnsureDirs(root string, downloads []registry.Download) error {
	for _, d := range downloads {
		if err := filemanager.ValidateRelPath(d.Dest, "destination"); err != nil {
			return err
		}
		if err := os.MkdirAll(filepath.Join(root, filepath.FromSlash(d.Dest)), 0755); err != nil {
			return fmt.Errorf("creating %s: %w", d.Dest, err)
		}
	}
	return nil
}

// HasGit reports whether root already holds a git repository.
func HasGit(root string) bool {
	_, err := os.Stat(filepath.Join(root, ".git"))
	return err == nil
}

// InitGit runs "git init" in root with its output captured.
func InitGit(ctx context.Context, runner proc.Runner, gitBinary, root string) error {
	if gitBinary == "" {
		gitBinary = "git"
	}
	cmd := proc.Command{Name: gitBinary, Args: []string{"init", "--quiet"}, Dir: root}
	if err := runner.Run(ctx, cmd); err != nil {
		return fmt.Errorf("initializing git repository: %w", err)
	}
	return nil
}
