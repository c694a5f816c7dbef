// Package uitest provides a scripted ui.Prompter for tests.
package uitest

import (
	"fmt"
	"strings"
	"sync"

	"github.com/faniaticos/vibe/internal/ui"
)

// Answer is one scripted reply. Match is a substring of the expected prompt title.
type Answer struct {
	Match string
	Value any // string for Select and Input, bool for Confirm
	Err   error
}

// Prompter replays answers in order and records every prompt it was shown.
type Prompter struct {
	mu      sync.Mutex
	answers []Answer
	Asked   []string
	Choices map[string][]ui.Choice
}

var _ ui.Prompter = (*Prompter)(nil)

// New creates a Prompter that replays answers.
func New(answers ...Answer) *Prompter {
	return &Prompter{answers: answers, Choices: make(map[string][]ui.Choice)}
}

// Remaining reports how many answers were not consumed.
func (p *Prompter) Remaining() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.answers)
}

func (p *Prompter) next(title string) (Answer, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.Asked = append(p.Asked, title)
	if len(p.answers) == 0 {
		return Answer{}, fmt.Errorf("unexpected prompt %q", title)
	}
	a := p.answers[0]
	p.answers = p.answers[1:]
	if a.Match != "" && !strings.Contains(title, a.Match) {
		return Answer{}, fmt.Errorf("prompt %q does not match scripted %q", title, a.Match)
	}
	return a, nil
}

// Select records the choices and returns the next scripted string.
func (p *Prompter) Select(title string, choices []ui.Choice) (string, error) {
	p.mu.Lock()
	p.Choices[title] = choices
	p.mu.Unlock()
	a, err := p.next(title)
	if err != nil || a.Err != nil {
		return "", firstErr(err, a.Err)
	}
	v, _ := a.Value.(string)
	return v, nil
}

// Confirm returns the next scripted bool, or def when the answer carries none.
func (p *Prompter) Confirm(title string, def bool) (bool, error) {
	a, err := p.next(title)
	if err != nil || a.Err != nil {
		return false, firstErr(err, a.Err)
	}
	v, ok := a.Value.(bool)
	if !ok {
		return def, nil
	}
	return v, nil
}

// Input returns the next scripted string, or def, after running validate on it.
func (p *Prompter) Input(title, def string, validate func(string) error) (string, error) {
	a, err := p.next(title)
	if err != nil || a.Err != nil {
		return "", firstErr(err, a.Err)
	}
	v := def
	if s, ok := a.Value.(string); ok {
		v = s
	}
	if validate != nil {
		if err := validate(v); err != nil {
			return "", err
		}
	}
	return v, nil
}

func firstErr(errs ...error) error {
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}
