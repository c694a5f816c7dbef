package fetch

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/faniaticos/vibe/internal/filemanager"
	"github.com/faniaticos/vibe/internal/proc"
	"go.uber.org/zap"
)

// Git fetches sources with a shallow git clone, copying the tree without history.
type Git struct {
	runner proc.Runner
	binary string
	log    *zap.Logger
}

// NewGit creates a clone-based fetcher using the given git binary.
func NewGit(runner proc.Runner, binary string, log *zap.Logger) *Git {
	if binary == "" {
		binary = "git"
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Git{runner: runner, binary: binary, log: log}
}

// Fetch clones source into a temporary directory and copies its sub-path into dest.
func (g *Git) Fetch(ctx context.Context, source, dest string) error {
	_, err := g.FetchCount(ctx, source, dest)
	return err
}

// FetchCount is Fetch returning the number of files copied.
func (g *Git) FetchCount(ctx context.Context, source, dest string) (int, error) {
	src, err := ParseSource(source)
	if err != nil {
		return 0, &FetchError{Source: source, Dest: dest, Err: err}
	}

	n, err := g.fetch(ctx, src, dest)
	if err != nil {
		return 0, &FetchError{Source: source, Dest: dest, Err: err}
	}
	return n, nil
}

func (g *Git) fetch(ctx context.Context, src Source, dest string) (int, error) {
	if err := os.MkdirAll(dest, 0755); err != nil {
		return 0, fmt.Errorf("creating destination: %w", err)
	}

	tempDir, err := os.MkdirTemp("", "vibe-fetch-*")
	if err != nil {
		return 0, fmt.Errorf("creating temp directory: %w", err)
	}
	defer os.RemoveAll(tempDir)

	checkout := filepath.Join(tempDir, "repo")
	args := []string{"clone", "--depth", "1", "--quiet"}
	if src.Ref != "" && src.Ref != DefaultRef {
		args = append(args, "--branch", src.Ref)
	}
	args = append(args, src.CloneURL(), checkout)

	g.log.Debug("cloning", zap.String("source", src.String()), zap.String("url", src.CloneURL()))
	if err := g.runner.Run(ctx, proc.Command{Name: g.binary, Args: args}); err != nil {
		return 0, err
	}

	tree := checkout
	if src.Subdir != "" {
		tree = filepath.Join(checkout, filepath.FromSlash(src.Subdir))
		if info, err := os.Stat(tree); err != nil || !info.IsDir() {
			return 0, fmt.Errorf("%w: %s", ErrSubdirNotFound, src.Subdir)
		}
	}

	n, err := filemanager.CountFiles(tree)
	if err != nil {
		return 0, fmt.Errorf("reading snapshot: %w", err)
	}
	if err := filemanager.CopyDir(tree, dest); err != nil {
		return 0, fmt.Errorf("copying snapshot: %w", err)
	}
	return n, nil
}
