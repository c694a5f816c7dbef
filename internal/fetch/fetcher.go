package fetch

import (
	"context"
	"fmt"
)

// Fetch modes.
const (
	ModeTarball = "tarball"
	ModeGit     = "git"
)

// Fetcher materializes a remote tree into a local directory.
type Fetcher interface {
	Fetch(ctx context.Context, source, dest string) error
}

// Counter is implemented by fetchers that can report how many files a fetch wrote.
type Counter interface {
	FetchCount(ctx context.Context, source, dest string) (int, error)
}

// FetchError reports a failed download together with its source and destination.
type FetchError struct {
	Source string
	Dest   string
	Err    error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetching %s into %s: %v", e.Source, e.Dest, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}
