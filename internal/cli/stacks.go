package cli

import (
	"fmt"
	"strings"

	"github.com/faniaticos/vibe/internal/exitcodes"
	"github.com/faniaticos/vibe/internal/registry"
	"github.com/spf13/cobra"
)

func (a *App) newStacksCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stacks",
		Short: "List the stacks vibe can set up",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runStacks()
		},
	}
}

func (a *App) runStacks() error {
	reg, err := registry.Builtin()
	if err != nil {
		return &ExitError{Code: exitcodes.Failure, Message: err.Error()}
	}

	var rows [][]string
	for _, s := range reg.Stacks() {
		optionals := make([]string, 0, len(s.Optionals))
		for _, o := range s.Optionals {
			optionals = append(optionals, o.ID)
		}
		generator := "-"
		if s.Bootstrap != nil {
			generator = s.Bootstrap.Command
		}
		opt := "-"
		if len(optionals) > 0 {
			opt = strings.Join(optionals, ", ")
		}
		rows = append(rows, []string{s.ID, s.Label, fmt.Sprint(len(s.Downloads)), opt, generator})
	}

	a.output.Table([]string{"ID", "LABEL", "DOWNLOADS", "OPTIONALS", "GENERATOR"}, rows)
	a.output.Println("")
	a.output.Println("%d stacks available", len(rows))
	return nil
}
