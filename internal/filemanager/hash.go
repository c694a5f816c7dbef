package filemanager

import (
	"crypto/sha256"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
)

// Summary describes the regular files found under a directory.
type Summary struct {
	Files  int
	Digest string
}

// Summarize counts the files under dir and computes a deterministic SHA256 digest.
// Files are sorted by relative path and each file's path + content is hashed.
// A missing directory yields an empty summary.
func Summarize(dir string) (Summary, error) {
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		return Summary{}, nil
	}

	var files []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.Type().IsRegular() {
			rel, err := filepath.Rel(dir, path)
			if err != nil {
				return err
			}
			files = append(files, filepath.ToSlash(rel))
		}
		return nil
	})
	if err != nil {
		return Summary{}, err
	}

	sort.Strings(files)

	h := sha256.New()
	for _, f := range files {
		fmt.Fprintf(h, "file:%s\n", f)

		data, err := os.ReadFile(filepath.Join(dir, filepath.FromSlash(f)))
		if err != nil {
			return Summary{}, err
		}
		h.Write(data)
	}

	return Summary{Files: len(files), Digest: fmt.Sprintf("sha256:%x", h.Sum(nil))}, nil
}

// CountFiles counts the regular files under dir, skipping .git directories.
// A missing directory counts as zero.
func CountFiles(dir string) (int, error) {
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		return 0, nil
	}
	n := 0
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() && d.Name() == ".git" {
			return fs.SkipDir
		}
		if d.Type().IsRegular() {
			n++
		}
		return nil
	})
	return n, err
}
