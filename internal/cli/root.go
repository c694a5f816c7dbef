package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/faniaticos/vibe/internal/fetch"
	"github.com/faniaticos/vibe/internal/proc"
	"github.com/faniaticos/vibe/internal/ui"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

// App is the dependency container for all CLI commands.
type App struct {
	rootCmd *cobra.Command
	version string
	commit  string
	date    string
	output  *ui.Output

	prompter     ui.Prompter
	runner       proc.Runner
	fetcher      fetch.Fetcher
	fetchBaseURL string

	workDir    string
	stackID    string
	configPath string
	strict     bool
	debug      bool
	noColor    bool
}

// NewApp creates the root command and registers all subcommands.
func NewApp(version, commit, date string) *App {
	app := &App{
		version:  version,
		commit:   commit,
		date:     date,
		output:   ui.NewOutput(),
		prompter: ui.NewHuhPrompter(),
		runner:   proc.NewExecRunner(),
	}

	root := &cobra.Command{
		Use:     "vibe",
		Short:   "Scaffold a project with AI agent skills and rules",
		Long:    "Sets up a project for a stack: runs its generator, prepares .gitignore and git, and downloads the stack's agent skills and rules.",
		Version: version,
		Args:    cobra.NoArgs,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if os.Getenv("VIBE_DEBUG") != "" {
				app.debug = true
			}
			if app.noColor || os.Getenv("NO_COLOR") != "" {
				app.disableColor()
			}
			app.output.SetDebug(app.debug)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.runScaffold(cmd.Context())
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetVersionTemplate("vibe {{.Version}}\n")

	root.Flags().StringVar(&app.stackID, "stack", "", "stack to set up, skipping the selection prompt")
	root.Flags().BoolVar(&app.strict, "strict", false, "exit with code 2 when any download fails")
	root.PersistentFlags().StringVar(&app.workDir, "dir", ".", "working directory")
	root.PersistentFlags().StringVar(&app.configPath, "config", "", "config file (default ~/.config/vibe/config.yaml)")
	root.PersistentFlags().BoolVar(&app.debug, "debug", false, "enable debug logging")
	root.PersistentFlags().BoolVar(&app.noColor, "no-color", false, "disable colored output")

	root.AddCommand(
		app.newStacksCmd(),
		app.newVersionCmd(),
	)

	app.rootCmd = root
	return app
}

// Execute runs the root command. Interrupts cancel the running flow.
func (a *App) Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return a.rootCmd.ExecuteContext(ctx)
}

func (a *App) newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			a.output.Info("vibe %s (commit: %s, built: %s)", a.version, a.commit, a.date)
		},
	}
}

func (a *App) disableColor() {
	color.NoColor = true
	a.output.SetNoColor(true)
}

// ExitError represents an error with a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

func (e *ExitError) Error() string {
	return e.Message
}

// debugf prints a debug message if debug mode is enabled.
func (a *App) debugf(format string, args ...interface{}) {
	if a.debug {
		a.output.Debug(format, args...)
	}
}
