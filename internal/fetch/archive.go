package fetch

import (
	"archive/tar"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/faniaticos/vibe/internal/filemanager"
	"github.com/klauspost/compress/gzip"
	"go.uber.org/zap"
)

// ErrSubdirNotFound is returned when a source's sub-path has no entries in the snapshot.
var ErrSubdirNotFound = errors.New("sub-path not found in repository")

// Archive fetches sources by downloading and unpacking the host's snapshot tarball.
type Archive struct {
	client *Client
	log    *zap.Logger
}

// NewArchive creates a tarball fetcher.
func NewArchive(client *Client, log *zap.Logger) *Archive {
	if log == nil {
		log = zap.NewNop()
	}
	return &Archive{client: client, log: log}
}

// Fetch writes the snapshot of source into dest, overwriting colliding files.
func (a *Archive) Fetch(ctx context.Context, source, dest string) error {
	_, err := a.FetchCount(ctx, source, dest)
	return err
}

// FetchCount is Fetch returning the number of files written.
func (a *Archive) FetchCount(ctx context.Context, source, dest string) (int, error) {
	src, err := ParseSource(source)
	if err != nil {
		return 0, &FetchError{Source: source, Dest: dest, Err: err}
	}

	if err := os.MkdirAll(dest, 0755); err != nil {
		return 0, &FetchError{Source: source, Dest: dest, Err: fmt.Errorf("creating destination: %w", err)}
	}

	a.log.Debug("downloading archive", zap.String("source", src.String()), zap.String("url", a.client.ArchiveURL(src)))
	data, err := a.client.Archive(ctx, src)
	if err != nil {
		return 0, &FetchError{Source: source, Dest: dest, Err: err}
	}

	n, err := extractTarball(bytes.NewReader(data), src.Subdir, dest)
	if err != nil {
		return n, &FetchError{Source: source, Dest: dest, Err: err}
	}
	a.log.Debug("archive extracted", zap.String("source", src.String()), zap.String("dest", dest), zap.Int("files", n))
	return n, nil
}

// extractTarball unpacks a gzipped repository tarball into dest. The archive's
// top-level directory is stripped and only entries below subdir are kept.
func extractTarball(r io.Reader, subdir, dest string) (int, error) {
	gz, err := gzip.NewReader(r)
	if err != nil {
		return 0, fmt.Errorf("opening archive: %w", err)
	}
	defer gz.Close()

	tr := tar.NewReader(gz)
	matched := false
	files := 0

	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return files, fmt.Errorf("reading archive: %w", err)
		}

		rel, ok := archiveRelPath(hdr.Name, subdir)
		if !ok {
			continue
		}
		matched = true
		if rel == "" || hasGitComponent(rel) {
			continue
		}

		if err := filemanager.ValidateRelPath(rel, "archive entry"); err != nil {
			return files, err
		}
		target := filepath.Join(dest, filepath.FromSlash(rel))
		if err := filemanager.ValidateInsideDir(dest, target); err != nil {
			return files, err
		}

		switch hdr.Typeflag {
		case tar.TypeDir:
			if err := os.MkdirAll(target, 0755); err != nil {
				return files, fmt.Errorf("creating %s: %w", rel, err)
			}
		case tar.TypeReg:
			data, err := io.ReadAll(tr)
			if err != nil {
				return files, fmt.Errorf("reading %s: %w", rel, err)
			}
			perm := hdr.FileInfo().Mode().Perm()
			if perm == 0 {
				perm = 0644
			}
			if err := filemanager.WriteFileAtomic(target, data, perm); err != nil {
				return files, fmt.Errorf("writing %s: %w", rel, err)
			}
			files++
		}
	}

	if subdir != "" && !matched {
		return 0, fmt.Errorf("%w: %s", ErrSubdirNotFound, subdir)
	}
	return files, nil
}

// archiveRelPath maps a tarball entry name to a path relative to subdir.
// ok is false for entries outside subdir; "" means subdir itself.
func archiveRelPath(name, subdir string) (string, bool) {
	_, rel, found := strings.Cut(strings.TrimPrefix(name, "./"), "/")
	rel = strings.TrimSuffix(rel, "/")
	if !found || rel == "" {
		// top-level directory or pax header
		return "", false
	}
	rel = path.Clean(rel)
	if subdir == "" {
		return rel, true
	}
	if rel == subdir {
		return "", true
	}
	if !strings.HasPrefix(rel, subdir+"/") {
		return "", false
	}
	return strings.TrimPrefix(rel, subdir+"/"), true
}

func hasGitComponent(rel string) bool {
	for _, part := range strings.Split(rel, "/") {
		if part == ".git" {
			return true
		}
	}
	return false
}
