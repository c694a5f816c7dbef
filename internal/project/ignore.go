package project

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/faniaticos/vibe/internal/filemanager"
)

// Change reports what EnsureIgnoreRule did to the ignore file.
type Change int

const (
	Unchanged Change = iota
	Created
	Appended
)

func (c Change) String() string {
	switch c {
	case Created:
		return "created"
	case Appended:
		return "appended"
	default:
		return "unchanged"
	}
}

// EnsureIgnoreRule makes sure the ignore file at root/file contains rule.
// A missing file is created with the comment and rule lines; a file already
// containing rule is left untouched; otherwise a blank line, the comment and
// the rule are appended.
func EnsureIgnoreRule(root, file, rule, comment string) (Change, error) {
	path := filepath.Join(root, file)

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return Unchanged, fmt.Errorf("reading %s: %w", file, err)
		}
		if err := filemanager.WriteFileAtomic(path, []byte(comment+"\n"+rule+"\n"), 0644); err != nil {
			return Unchanged, fmt.Errorf("writing %s: %w", file, err)
		}
		return Created, nil
	}

	content := string(data)
	if strings.Contains(content, rule) {
		return Unchanged, nil
	}

	if content != "" && !strings.HasSuffix(content, "\n") {
		content += "\n"
	}
	content += "\n" + comment + "\n" + rule + "\n"

	if err := filemanager.WriteFileAtomic(path, []byte(content), 0644); err != nil {
		return Unchanged, fmt.Errorf("writing %s: %w", file, err)
	}
	return Appended, nil
}
