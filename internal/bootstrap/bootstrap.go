// Package bootstrap delegates the initial project layout to a stack's external generator.
package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/faniaticos/vibe/internal/proc"
	"github.com/faniaticos/vibe/internal/project"
	"github.com/faniaticos/vibe/internal/registry"
	"github.com/faniaticos/vibe/internal/ui"
	"github.com/mattn/go-shellwords"
	"go.uber.org/zap"
)

var (
	// ErrGeneratorFailed means the generator could not start or exited non-zero.
	ErrGeneratorFailed = errors.New("project generator failed")
	// ErrChdir means the process could not move into the generated project.
	ErrChdir = errors.New("cannot enter generated project")
)

// Placement values offered by the location prompt.
const (
	PlaceCurrent = "current"
	PlaceNew     = "new"
)

// Result describes where the project ended up.
type Result struct {
	Accepted bool
	Root     string // absolute
	Name     string
}

// Bootstrapper runs a stack's generator after asking the user where to put the project.
type Bootstrapper struct {
	Prompter ui.Prompter
	Runner   proc.Runner
	Log      *zap.Logger
	// Chdir changes the process working directory; os.Chdir when nil.
	Chdir func(dir string) error
}

// New creates a Bootstrapper.
func New(prompter ui.Prompter, runner proc.Runner, log *zap.Logger) *Bootstrapper {
	if log == nil {
		log = zap.NewNop()
	}
	return &Bootstrapper{Prompter: prompter, Runner: runner, Log: log, Chdir: os.Chdir}
}

// Run asks whether to run the generator and where, runs it attached to the terminal,
// and for a new folder moves the process into it. Declining leaves cwd as the root.
func (b *Bootstrapper) Run(ctx context.Context, spec registry.Bootstrap, cwd string) (Result, error) {
	abs, err := filepath.Abs(cwd)
	if err != nil {
		return Result{}, fmt.Errorf("resolving working directory: %w", err)
	}
	declined := Result{Root: abs, Name: filepath.Base(abs)}

	prompt := spec.Prompt
	if prompt == "" {
		prompt = fmt.Sprintf("Run '%s' to start the project?", spec.Command)
	}
	ok, err := b.Prompter.Confirm(prompt, true)
	if err != nil {
		return Result{}, err
	}
	if !ok {
		return declined, nil
	}

	place, err := b.Prompter.Select("Where should the project be created?", []ui.Choice{
		{Label: "In the current directory", Value: PlaceCurrent, Selected: true},
		{Label: "In a new folder", Value: PlaceNew},
	})
	if err != nil {
		return Result{}, err
	}

	target := "."
	name := filepath.Base(abs)
	if place == PlaceNew {
		def := spec.DefaultName
		if def == "" {
			def = "my-app"
		}
		raw, err := b.Prompter.Input("Project folder name", def, project.ValidateName)
		if err != nil {
			return Result{}, err
		}
		if err := project.ValidateName(raw); err != nil {
			return Result{}, err
		}
		name = project.SanitizeName(raw)
		target = name
	}

	cmd, err := Command(spec.Command, target, abs)
	if err != nil {
		return Result{}, err
	}
	b.Log.Debug("running generator", zap.String("command", cmd.String()), zap.String("dir", abs))
	if err := b.Runner.Run(ctx, cmd); err != nil {
		if ctx.Err() != nil {
			return Result{}, ctx.Err()
		}
		return Result{}, fmt.Errorf("%w: %v", ErrGeneratorFailed, err)
	}

	root := abs
	if place == PlaceNew {
		root = filepath.Join(abs, name)
		chdir := b.Chdir
		if chdir == nil {
			chdir = os.Chdir
		}
		if err := chdir(root); err != nil {
			return Result{}, fmt.Errorf("%w %s: %v", ErrChdir, root, err)
		}
	}
	return Result{Accepted: true, Root: root, Name: name}, nil
}

// Command splits a generator command line and appends the target folder.
func Command(line, target, dir string) (proc.Command, error) {
	args, err := shellwords.Parse(line)
	if err != nil {
		return proc.Command{}, fmt.Errorf("parsing generator command %q: %w", line, err)
	}
	if len(args) == 0 {
		return proc.Command{}, fmt.Errorf("empty generator command")
	}
	return proc.Command{
		Name:        args[0],
		Args:        append(args[1:], target),
		Dir:         dir,
		Interactive: true,
	}, nil
}
