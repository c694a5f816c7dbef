package ui

import (
	"errors"
	"os"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/mattn/go-isatty"
)

var (
	// ErrCancelled is returned when the user aborts a prompt.
	ErrCancelled = errors.New("cancelled by user")
	// ErrUnsupportedTerminal is returned when a prompt is needed but stdin is not a terminal.
	ErrUnsupportedTerminal = errors.New("interactive prompts need a terminal")
)

// IsCI returns true if running in a CI environment.
// gitlab-ci-local sets GITLAB_CI=false, which should not be treated as CI.
func IsCI() bool {
	return isTruthy(os.Getenv("CI")) ||
		isTruthy(os.Getenv("VIBE_CI")) ||
		isTruthy(os.Getenv("GITHUB_ACTIONS")) ||
		isTruthy(os.Getenv("GITLAB_CI"))
}

func isTruthy(v string) bool {
	return v != "" && v != "false" && v != "0"
}

// Interactive reports whether stdin is attached to a terminal.
func Interactive() bool {
	fd := os.Stdin.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// Choice is one entry of a selection prompt.
type Choice struct {
	Label    string
	Value    string
	Disabled bool
	Selected bool
}

// Prompter asks the user questions.
type Prompter interface {
	Select(title string, choices []Choice) (string, error)
	Confirm(title string, def bool) (bool, error)
	Input(title, def string, validate func(string) error) (string, error)
}

// HuhPrompter prompts on the terminal with huh.
type HuhPrompter struct {
	// Accessible switches huh to plain line-based prompts.
	Accessible bool
}

// NewHuhPrompter creates a terminal prompter.
func NewHuhPrompter() *HuhPrompter {
	return &HuhPrompter{}
}

// Select shows the enabled choices; disabled ones are listed as a note under the title.
func (p *HuhPrompter) Select(title string, choices []Choice) (string, error) {
	if err := p.check(); err != nil {
		return "", err
	}
	options, note := selectOptions(choices)
	if len(options) == 0 {
		return "", nil
	}

	var selected string
	field := huh.NewSelect[string]().
		Title(title).
		Options(options...).
		Value(&selected)
	if note != "" {
		field = field.Description(note)
	}
	err := huh.NewForm(huh.NewGroup(field)).WithAccessible(p.Accessible).Run()
	return selected, promptError(err)
}

// Confirm prompts the user for a yes/no confirmation.
func (p *HuhPrompter) Confirm(title string, def bool) (bool, error) {
	if err := p.check(); err != nil {
		return false, err
	}
	confirmed := def
	field := huh.NewConfirm().
		Title(title).
		Affirmative("Yes").
		Negative("No").
		Value(&confirmed)
	err := huh.NewForm(huh.NewGroup(field)).WithAccessible(p.Accessible).Run()
	return confirmed, promptError(err)
}

// Input asks for a line of text pre-filled with def.
func (p *HuhPrompter) Input(title, def string, validate func(string) error) (string, error) {
	if err := p.check(); err != nil {
		return "", err
	}
	value := def
	field := huh.NewInput().
		Title(title).
		Placeholder(def).
		Value(&value)
	if validate != nil {
		field = field.Validate(validate)
	}
	err := huh.NewForm(huh.NewGroup(field)).WithAccessible(p.Accessible).Run()
	return value, promptError(err)
}

func (p *HuhPrompter) check() error {
	if !Interactive() {
		return ErrUnsupportedTerminal
	}
	return nil
}

func selectOptions(choices []Choice) ([]huh.Option[string], string) {
	var options []huh.Option[string]
	var disabled []string
	for _, c := range choices {
		if c.Disabled {
			disabled = append(disabled, c.Label)
			continue
		}
		options = append(options, huh.NewOption(c.Label, c.Value).Selected(c.Selected))
	}
	return options, strings.Join(disabled, "\n")
}

func promptError(err error) error {
	if errors.Is(err, huh.ErrUserAborted) {
		return ErrCancelled
	}
	return err
}
