package scaffold

import (
	"github.com/faniaticos/vibe/internal/project"
	"github.com/faniaticos/vibe/internal/registry"
)

// GitStatus records what happened to version control during a run.
type GitStatus int

const (
	GitSkipped GitStatus = iota
	GitExisting
	GitInitialized
	GitFailed
)

func (g GitStatus) String() string {
	switch g {
	case GitExisting:
		return "existing"
	case GitInitialized:
		return "initialized"
	case GitFailed:
		return "failed"
	default:
		return "skipped"
	}
}

// DownloadResult is the outcome of one download, in catalog order.
type DownloadResult struct {
	registry.Download
	// Files is the number of files the fetch wrote. Fetchers that cannot
	// report it fall back to the destination's file count.
	Files int
	// Digest of the destination tree, computed only with debug logging.
	Digest string
	Err    error
}

// OK reports whether the download succeeded.
func (d DownloadResult) OK() bool {
	return d.Err == nil
}

// Result is everything a run did.
type Result struct {
	RunID     string
	Project   project.Context
	Stack     registry.Stack
	Optionals []string
	Ignore    project.Change
	Git       GitStatus
	GitErr    error
	Downloads []DownloadResult
}

// Selected reports whether the user picked a stack.
func (r *Result) Selected() bool {
	return r.Stack.ID != ""
}

// Failed counts downloads that did not succeed.
func (r *Result) Failed() int {
	n := 0
	for _, d := range r.Downloads {
		if !d.OK() {
			n++
		}
	}
	return n
}
