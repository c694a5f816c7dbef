package registry

// Stack describes a project stack and the resource bundles installed for it.
type Stack struct {
	ID        string     `yaml:"id"`
	Label     string     `yaml:"label"`
	Downloads []Download `yaml:"downloads"`
	Optionals []Optional `yaml:"optionals,omitempty"`
	// Bootstrap is set for stacks whose project is created by an external generator.
	Bootstrap *Bootstrap `yaml:"bootstrap,omitempty"`
}

// Download maps a remote source to a destination relative to the project root.
type Download struct {
	Source string `yaml:"src"`
	Dest   string `yaml:"dest"`
}

// Optional is a user-toggleable set of extra downloads.
type Optional struct {
	ID        string     `yaml:"id"`
	Prompt    string     `yaml:"prompt"`
	Downloads []Download `yaml:"downloads"`
}

// Bootstrap describes the external project generator for a stack.
type Bootstrap struct {
	Prompt string `yaml:"prompt"`
	// Command is a shell-style command line; the target directory is appended to it.
	Command     string `yaml:"command"`
	DefaultName string `yaml:"default_name,omitempty"`
}

// Clone returns a deep copy of the stack.
func (s Stack) Clone() Stack {
	c := s
	c.Downloads = cloneDownloads(s.Downloads)
	if s.Optionals != nil {
		c.Optionals = make([]Optional, len(s.Optionals))
		for i, o := range s.Optionals {
			o.Downloads = cloneDownloads(o.Downloads)
			c.Optionals[i] = o
		}
	}
	if s.Bootstrap != nil {
		b := *s.Bootstrap
		c.Bootstrap = &b
	}
	return c
}

func cloneDownloads(d []Download) []Download {
	if d == nil {
		return nil
	}
	out := make([]Download, len(d))
	copy(out, d)
	return out
}
