package cli

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/faniaticos/vibe/internal/bootstrap"
	"github.com/faniaticos/vibe/internal/config"
	"github.com/faniaticos/vibe/internal/exitcodes"
	"github.com/faniaticos/vibe/internal/fetch"
	"github.com/faniaticos/vibe/internal/logging"
	"github.com/faniaticos/vibe/internal/registry"
	"github.com/faniaticos/vibe/internal/scaffold"
	"github.com/faniaticos/vibe/internal/ui"
	"go.uber.org/zap"
)

func (a *App) runScaffold(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}

	settings, err := config.Load(a.configPath)
	if err != nil {
		return &ExitError{Code: exitcodes.Failure, Message: err.Error()}
	}
	if settings.NoColor {
		a.disableColor()
	}
	if settings.File != "" {
		a.debugf("using config %s", settings.File)
	}

	level := settings.Log.Level
	if a.debug {
		level = "debug"
	}
	log, err := logging.New(level)
	if err != nil {
		return &ExitError{Code: exitcodes.Failure, Message: err.Error()}
	}
	defer func() { _ = log.Sync() }()

	reg, err := registry.Builtin()
	if err != nil {
		return &ExitError{Code: exitcodes.Failure, Message: err.Error()}
	}

	workDir, err := filepath.Abs(a.workDir)
	if err != nil {
		return &ExitError{Code: exitcodes.Failure, Message: err.Error()}
	}

	flow := &scaffold.Flow{
		Registry:     reg,
		Prompter:     a.prompter,
		Fetcher:      a.newFetcher(settings, log),
		Bootstrapper: bootstrap.New(a.prompter, a.runner, log),
		Runner:       a.runner,
		Output:       a.output,
		Log:          log,
		Settings:     *settings,
		WorkDir:      workDir,
		StackID:      a.stackID,
	}

	res, err := flow.Run(ctx)
	if err != nil {
		return a.exitError(err, reg)
	}
	if !res.Selected() {
		a.output.Info("Nothing selected. Bye!")
		return nil
	}
	log.Debug("run finished", zap.String("run_id", res.RunID), zap.Int("failed", res.Failed()))

	if n := res.Failed(); n > 0 && a.strict {
		return &ExitError{
			Code:    exitcodes.PartialFailure,
			Message: fmt.Sprintf("%d of %d downloads failed", n, len(res.Downloads)),
		}
	}
	return nil
}

func (a *App) newFetcher(s *config.Settings, log *zap.Logger) fetch.Fetcher {
	if a.fetcher != nil {
		return a.fetcher
	}
	if s.Fetch.Mode == fetch.ModeGit {
		return fetch.NewGit(a.runner, s.Git.Binary, log)
	}

	opts := []fetch.Option{fetch.WithTimeout(s.Fetch.Timeout)}
	if s.Fetch.Token != "" {
		opts = append(opts, fetch.WithToken(s.Fetch.Token))
	}
	if s.Fetch.Cache {
		opts = append(opts, fetch.WithCache(s.Fetch.CacheTTL))
	}
	if a.fetchBaseURL != "" {
		opts = append(opts, fetch.WithBaseURL(a.fetchBaseURL))
	}
	return fetch.NewArchive(fetch.NewClient(opts...), log)
}

// exitError maps flow errors onto exit codes. Cancellation is a clean exit.
func (a *App) exitError(err error, reg *registry.Registry) error {
	switch {
	case errors.Is(err, ui.ErrCancelled), errors.Is(err, context.Canceled):
		a.output.Info("Bye!")
		return nil
	case errors.Is(err, registry.ErrStackNotFound):
		var nf *registry.NotFoundError
		id := ""
		if errors.As(err, &nf) {
			id = nf.ID
		}
		return &ExitError{
			Code:    exitcodes.Failure,
			Message: fmt.Sprintf("unknown stack %q (available: %s)", id, strings.Join(reg.IDs(), ", ")),
		}
	case errors.Is(err, ui.ErrUnsupportedTerminal):
		return &ExitError{Code: exitcodes.Failure, Message: "vibe needs an interactive terminal: " + err.Error()}
	default:
		return &ExitError{Code: exitcodes.Failure, Message: err.Error()}
	}
}
