// Package scaffold drives a scaffolding run from stack selection to the summary.
package scaffold

import (
	"context"
	"errors"
	"fmt"

	"github.com/faniaticos/vibe/internal/bootstrap"
	"github.com/faniaticos/vibe/internal/config"
	"github.com/faniaticos/vibe/internal/detect"
	"github.com/faniaticos/vibe/internal/fetch"
	"github.com/faniaticos/vibe/internal/filemanager"
	"github.com/faniaticos/vibe/internal/proc"
	"github.com/faniaticos/vibe/internal/project"
	"github.com/faniaticos/vibe/internal/registry"
	"github.com/faniaticos/vibe/internal/ui"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// ComingSoonLabel is the disabled entry shown below the selectable stacks.
const ComingSoonLabel = "More stacks coming soon"

// Bootstrapper runs a stack's external generator.
type Bootstrapper interface {
	Run(ctx context.Context, spec registry.Bootstrap, cwd string) (bootstrap.Result, error)
}

// Flow holds the collaborators of a run. Zero-valued optional fields get defaults.
type Flow struct {
	Registry     *registry.Registry
	Prompter     ui.Prompter
	Fetcher      fetch.Fetcher
	Bootstrapper Bootstrapper
	Runner       proc.Runner
	Output       *ui.Output
	Log          *zap.Logger
	Settings     config.Settings

	// WorkDir is where the project is created unless the generator picks a new folder.
	WorkDir string
	// StackID skips the stack prompt when set.
	StackID string
	// Detect suggests a stack to pre-select; detect.SuggestStack when nil.
	Detect func(dir string) (detect.Suggestion, bool)
	// Progress wraps each download; ui.WithSpinner when nil.
	Progress func(title string, fn func() error) error
}

type state int

const (
	stateSelectStack state = iota
	stateResolveOptionals
	stateBootstrap
	stateEnsureIgnore
	stateInitVCS
	stateDownloads
	stateSummary
	stateDone
)

func (s state) String() string {
	return [...]string{
		"selectStack", "resolveOptionals", "bootstrap", "ensureIgnore",
		"initVCS", "downloads", "summary", "done",
	}[s]
}

// run is the mutable state of one Flow.Run call.
type run struct {
	*Flow
	ctx    context.Context
	log    *zap.Logger
	result *Result
}

// Run walks the states in order until done. The registry is never mutated: the
// selected stack is a copy and optional downloads are appended to that copy only.
func (f *Flow) Run(ctx context.Context) (*Result, error) {
	if f.Registry == nil || f.Prompter == nil || f.Fetcher == nil {
		return nil, errors.New("scaffold: registry, prompter and fetcher are required")
	}

	id := uuid.NewString()
	log := f.Log
	if log == nil {
		log = zap.NewNop()
	}
	r := &run{
		Flow:   f,
		ctx:    ctx,
		log:    log.With(zap.String("run_id", id)),
		result: &Result{RunID: id},
	}

	steps := map[state]func() (state, error){
		stateSelectStack:      r.selectStack,
		stateResolveOptionals: r.resolveOptionals,
		stateBootstrap:        r.bootstrap,
		stateEnsureIgnore:     r.ensureIgnore,
		stateInitVCS:          r.initVCS,
		stateDownloads:        r.downloads,
		stateSummary:          r.summary,
	}

	for s := stateSelectStack; s != stateDone; {
		if err := ctx.Err(); err != nil {
			return r.result, err
		}
		r.log.Debug("entering state", zap.Stringer("state", s))
		next, err := steps[s]()
		if err != nil {
			return r.result, err
		}
		s = next
	}
	return r.result, nil
}

func (r *run) selectStack() (state, error) {
	id := r.StackID
	if id == "" {
		var err error
		id, err = r.Prompter.Select("Which stack are you building with?", r.stackChoices())
		if err != nil {
			return stateDone, err
		}
		if id == "" {
			return stateDone, nil
		}
	}

	stack, err := r.Registry.Lookup(id)
	if err != nil {
		return stateDone, err
	}
	r.result.Stack = stack
	r.log.Debug("stack selected", zap.String("stack", stack.ID))
	return stateResolveOptionals, nil
}

func (r *run) stackChoices() []ui.Choice {
	suggested := ""
	detectFn := r.Detect
	if detectFn == nil {
		detectFn = detect.SuggestStack
	}
	if s, ok := detectFn(r.WorkDir); ok {
		suggested = s.StackID
		r.log.Debug("stack suggested", zap.String("stack", s.StackID), zap.String("evidence", s.Evidence), zap.String("version", s.Version))
	}

	var choices []ui.Choice
	for _, s := range r.Registry.Stacks() {
		choices = append(choices, ui.Choice{Label: s.Label, Value: s.ID, Selected: s.ID == suggested})
	}
	return append(choices, ui.Choice{Label: ComingSoonLabel, Disabled: true})
}

func (r *run) resolveOptionals() (state, error) {
	stack := &r.result.Stack
	for _, opt := range stack.Optionals {
		prompt := opt.Prompt
		if prompt == "" {
			prompt = fmt.Sprintf("Add %s?", opt.ID)
		}
		ok, err := r.Prompter.Confirm(prompt, false)
		if err != nil {
			return stateDone, err
		}
		if !ok {
			continue
		}
		stack.Downloads = append(stack.Downloads, opt.Downloads...)
		r.result.Optionals = append(r.result.Optionals, opt.ID)
	}
	return stateBootstrap, nil
}

func (r *run) bootstrap() (state, error) {
	root := r.WorkDir
	if root == "" {
		root = "."
	}

	spec := r.result.Stack.Bootstrap
	if spec == nil || r.Bootstrapper == nil {
		pc, err := project.NewContext(root)
		if err != nil {
			return stateDone, err
		}
		r.result.Project = pc
		return stateEnsureIgnore, nil
	}

	res, err := r.Bootstrapper.Run(r.ctx, *spec, root)
	if err != nil {
		return stateDone, err
	}
	pc, err := project.NewContext(res.Root)
	if err != nil {
		return stateDone, err
	}
	if res.Name != "" {
		pc.Name = res.Name
	}
	r.result.Project = pc
	return stateEnsureIgnore, nil
}

func (r *run) ensureIgnore() (state, error) {
	ig := r.Settings.Ignore
	change, err := project.EnsureIgnoreRule(r.result.Project.Root, ig.File, ig.Rule, ig.Comment)
	if err != nil {
		return stateDone, err
	}
	r.result.Ignore = change

	switch change {
	case project.Created:
		r.out().Success("Created %s ignoring %s", ig.File, ig.Rule)
	case project.Appended:
		r.out().Success("Added %s to %s", ig.Rule, ig.File)
	default:
		r.out().Debug("%s already ignores %s", ig.File, ig.Rule)
	}
	return stateInitVCS, nil
}

func (r *run) initVCS() (state, error) {
	root := r.result.Project.Root
	if project.HasGit(root) {
		r.result.Git = GitExisting
		return stateDownloads, nil
	}

	ok, err := r.Prompter.Confirm("Initialize a git repository?", true)
	if err != nil {
		return stateDone, err
	}
	if !ok {
		r.result.Git = GitSkipped
		return stateDownloads, nil
	}
	if r.Runner == nil {
		r.result.Git = GitFailed
		r.result.GitErr = errors.New("no command runner configured")
		r.out().Warning("Could not initialize git: %v", r.result.GitErr)
		return stateDownloads, nil
	}

	if err := project.InitGit(r.ctx, r.Runner, r.Settings.Git.Binary, root); err != nil {
		if r.ctx.Err() != nil {
			return stateDone, r.ctx.Err()
		}
		r.result.Git = GitFailed
		r.result.GitErr = err
		r.log.Warn("git init failed", zap.Error(err))
		r.out().Warning("Could not initialize git: %v", err)
		return stateDownloads, nil
	}
	r.result.Git = GitInitialized
	r.out().Success("Initialized git repository")
	return stateDownloads, nil
}

func (r *run) downloads() (state, error) {
	pc := r.result.Project
	downloads := r.result.Stack.Downloads

	progress := r.Progress
	if progress == nil {
		progress = ui.WithSpinner
	}

	for i, d := range downloads {
		dest := pc.Path(d.Dest)
		title := fmt.Sprintf("[%d/%d] Fetching %s", i+1, len(downloads), d.Source)
		var files int
		err := progress(title, func() error {
			var err error
			files, err = r.fetch(d, dest)
			return err
		})
		if err != nil && r.ctx.Err() != nil {
			return stateDone, r.ctx.Err()
		}

		dr := DownloadResult{Download: d, Files: files, Err: err}
		if err != nil {
			r.log.Warn("download failed", zap.String("source", d.Source), zap.String("dest", d.Dest), zap.Error(err))
			r.out().Error("%s → %s: %v", d.Source, d.Dest, err)
		} else {
			if r.log.Core().Enabled(zapcore.DebugLevel) {
				sum, serr := filemanager.Summarize(dest)
				if serr != nil {
					r.log.Debug("summarizing destination", zap.String("dest", d.Dest), zap.Error(serr))
				}
				dr.Digest = sum.Digest
			}
			r.log.Debug("download complete", zap.String("source", d.Source), zap.Int("files", files), zap.String("digest", dr.Digest))
			r.out().Success("%s → %s", d.Source, d.Dest)
		}
		r.result.Downloads = append(r.result.Downloads, dr)
	}
	return stateSummary, nil
}

// fetch creates the destination and fetches one download. Every failure is
// returned as a *fetch.FetchError so the caller can move on to the next item.
func (r *run) fetch(d registry.Download, dest string) (int, error) {
	if err := project.EnsureDirs(r.result.Project.Root, []registry.Download{d}); err != nil {
		return 0, &fetch.FetchError{Source: d.Source, Dest: dest, Err: err}
	}
	if c, ok := r.Fetcher.(fetch.Counter); ok {
		return c.FetchCount(r.ctx, d.Source, dest)
	}
	if err := r.Fetcher.Fetch(r.ctx, d.Source, dest); err != nil {
		return 0, err
	}
	n, err := filemanager.CountFiles(dest)
	if err != nil {
		r.log.Debug("counting destination files", zap.String("dest", d.Dest), zap.Error(err))
	}
	return n, nil
}

func (r *run) summary() (state, error) {
	res := r.result
	out := r.out()

	out.Println("")
	out.Println("Project: %s (%s)", res.Project.Name, res.Project.Root)
	out.Println("Stack:   %s", res.Stack.Label)
	for _, d := range res.Downloads {
		if d.OK() {
			out.Println("  ok    %s (%d files)", d.Dest, d.Files)
		} else {
			out.Println("  fail  %s", d.Dest)
		}
	}
	if res.Git == GitFailed {
		out.Warning("git repository was not initialized")
	}

	if n := res.Failed(); n > 0 {
		out.Warning("%d of %d downloads failed", n, len(res.Downloads))
	} else {
		out.Success("Ready to vibe!")
	}
	return stateDone, nil
}

func (r *run) out() *ui.Output {
	if r.Output == nil {
		r.Output = ui.NewOutput()
	}
	return r.Output
}
