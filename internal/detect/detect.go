package detect

import (
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

const maxDepth = 2

// Suggestion is the stack a project directory looks like.
type Suggestion struct {
	StackID  string
	Evidence string // project-relative path that triggered the match
	Version  string // major version of the framework, when known
}

var ignoredDirs = map[string]bool{
	"node_modules": true,
	"composer":     true,
	"vendor":       true,
}

// SuggestStack looks for WordPress or Next.js markers in root and a couple of levels below.
// Markers in root win over nested ones.
func SuggestStack(root string) (Suggestion, bool) {
	if s, ok := detectDir(root, root); ok {
		return s, true
	}

	var found Suggestion
	errFound := errors.New("found")
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			// if there's a random permission error somewhere, just skip it
			return nil
		}
		if path == root || !d.IsDir() {
			return nil
		}

		name := d.Name()
		if strings.HasPrefix(name, ".") || ignoredDirs[name] {
			return fs.SkipDir
		}
		rel, _ := filepath.Rel(root, path)
		if strings.Count(filepath.ToSlash(rel), "/")+1 > maxDepth {
			return fs.SkipDir
		}

		if s, ok := detectDir(root, path); ok {
			found = s
			return errFound
		}
		return nil
	})
	if errors.Is(err, errFound) {
		return found, true
	}
	return Suggestion{}, false
}

func detectDir(root, dir string) (Suggestion, bool) {
	if s, ok := detectWordPress(root, dir); ok {
		return s, true
	}
	return detectNext(root, dir)
}

func detectWordPress(root, dir string) (Suggestion, bool) {
	for _, marker := range []string{"wp-config.php", "wp-content"} {
		if _, err := os.Stat(filepath.Join(dir, marker)); err == nil {
			return Suggestion{StackID: "wordpress", Evidence: relTo(root, filepath.Join(dir, marker))}, true
		}
	}

	var composer struct {
		Require map[string]string `json:"require"`
	}
	path := filepath.Join(dir, "composer.json")
	if !readJSON(path, &composer) {
		return Suggestion{}, false
	}
	for pkg, version := range composer.Require {
		if pkg == "johnpbloch/wordpress" || pkg == "roots/wordpress" || strings.HasPrefix(pkg, "wpackagist-") {
			return Suggestion{StackID: "wordpress", Evidence: relTo(root, path), Version: extractMajorVersion(version)}, true
		}
	}
	return Suggestion{}, false
}

func detectNext(root, dir string) (Suggestion, bool) {
	var pkg struct {
		Dependencies    map[string]string `json:"dependencies"`
		DevDependencies map[string]string `json:"devDependencies"`
	}
	path := filepath.Join(dir, "package.json")
	if readJSON(path, &pkg) {
		if v, ok := pkg.Dependencies["next"]; ok {
			return Suggestion{StackID: "nextjs", Evidence: relTo(root, path), Version: extractMajorVersion(v)}, true
		}
		if v, ok := pkg.DevDependencies["next"]; ok {
			return Suggestion{StackID: "nextjs", Evidence: relTo(root, path), Version: extractMajorVersion(v)}, true
		}
	}

	for _, name := range []string{"next.config.js", "next.config.mjs", "next.config.ts"} {
		if _, err := os.Stat(filepath.Join(dir, name)); err == nil {
			return Suggestion{StackID: "nextjs", Evidence: relTo(root, filepath.Join(dir, name))}, true
		}
	}
	return Suggestion{}, false
}

func readJSON(path string, v any) bool {
	data, err := os.ReadFile(path)
	if err != nil {
		return false
	}
	return json.Unmarshal(data, v) == nil
}

func relTo(root, path string) string {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return path
	}
	return filepath.ToSlash(rel)
}

func extractMajorVersion(version string) string {
	if version == "" {
		return ""
	}

	// Remove common version prefixes and constraints
	version = strings.TrimSpace(version)
	version = strings.Split(version, "||")[0]
	version = strings.Split(version, " ")[0]
	version = strings.TrimLeft(version, "^~><>=v ")

	var major strings.Builder
	for _, r := range version {
		if r < '0' || r > '9' {
			break
		}
		major.WriteRune(r)
	}
	return major.String()
}
