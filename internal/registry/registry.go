package registry

import (
	_ "embed"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed stacks.yaml
var builtinCatalog []byte

// ErrStackNotFound is matched by errors returned from Lookup for unknown ids.
var ErrStackNotFound = errors.New("stack not found")

// NotFoundError indicates a requested stack doesn't exist.
type NotFoundError struct {
	ID string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("stack not found: %s", e.ID)
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrStackNotFound
}

// catalog is the on-disk shape of stacks.yaml.
type catalog struct {
	Version int     `yaml:"version"`
	Stacks  []Stack `yaml:"stacks"`
}

// Registry is the read-only set of known stacks. Callers only ever receive copies.
type Registry struct {
	order  []string
	stacks map[string]Stack
}

// Builtin parses the catalog embedded in the binary.
func Builtin() (*Registry, error) {
	return Parse(builtinCatalog)
}

// Parse builds a Registry from a YAML catalog.
func Parse(data []byte) (*Registry, error) {
	var c catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parsing stack catalog: %w", err)
	}
	return New(c.Stacks...)
}

// New validates the given stacks and builds a Registry preserving their order.
func New(stacks ...Stack) (*Registry, error) {
	r := &Registry{stacks: make(map[string]Stack, len(stacks))}
	for _, s := range stacks {
		if err := validateStack(s); err != nil {
			return nil, err
		}
		if _, dup := r.stacks[s.ID]; dup {
			return nil, fmt.Errorf("duplicate stack id %q", s.ID)
		}
		r.order = append(r.order, s.ID)
		r.stacks[s.ID] = s.Clone()
	}
	return r, nil
}

// IDs returns the stack ids in catalog order.
func (r *Registry) IDs() []string {
	ids := make([]string, len(r.order))
	copy(ids, r.order)
	return ids
}

// Stacks returns copies of every stack in catalog order.
func (r *Registry) Stacks() []Stack {
	out := make([]Stack, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.stacks[id].Clone())
	}
	return out
}

// Lookup returns an independently owned copy of the stack with the given id.
func (r *Registry) Lookup(id string) (Stack, error) {
	s, ok := r.stacks[id]
	if !ok {
		return Stack{}, &NotFoundError{ID: id}
	}
	return s.Clone(), nil
}

func validateStack(s Stack) error {
	if strings.TrimSpace(s.ID) == "" {
		return fmt.Errorf("stack with empty id")
	}
	if strings.TrimSpace(s.Label) == "" {
		return fmt.Errorf("stack %q: empty label", s.ID)
	}
	if err := validateDownloads(s.ID, s.Downloads); err != nil {
		return err
	}
	seen := make(map[string]bool)
	for _, o := range s.Optionals {
		if o.ID == "" {
			return fmt.Errorf("stack %q: optional with empty id", s.ID)
		}
		if seen[o.ID] {
			return fmt.Errorf("stack %q: duplicate optional %q", s.ID, o.ID)
		}
		seen[o.ID] = true
		if err := validateDownloads(s.ID+"/"+o.ID, o.Downloads); err != nil {
			return err
		}
	}
	if s.Bootstrap != nil && strings.TrimSpace(s.Bootstrap.Command) == "" {
		return fmt.Errorf("stack %q: bootstrap without command", s.ID)
	}
	return nil
}

func validateDownloads(owner string, downloads []Download) error {
	for i, d := range downloads {
		if strings.TrimSpace(d.Source) == "" {
			return fmt.Errorf("stack %q: download %d has no source", owner, i)
		}
		if strings.TrimSpace(d.Dest) == "" {
			return fmt.Errorf("stack %q: download %d has no destination", owner, i)
		}
		if !filepath.IsLocal(filepath.FromSlash(d.Dest)) {
			return fmt.Errorf("stack %q: destination %q escapes the project root", owner, d.Dest)
		}
	}
	return nil
}
