package fetch

import (
	"fmt"
	"path"
	"strings"
)

// Supported hosts.
const (
	HostGitHub    = "github.com"
	HostGitLab    = "gitlab.com"
	HostBitbucket = "bitbucket.org"
)

// DefaultRef names the remote's default branch.
const DefaultRef = "HEAD"

var hostAliases = map[string]string{
	"github":    HostGitHub,
	"gitlab":    HostGitLab,
	"bitbucket": HostBitbucket,
}

// Source identifies a remote repository tree: a repository plus an optional sub-path and ref.
type Source struct {
	Host   string
	Owner  string
	Repo   string
	Subdir string
	Ref    string
}

// ParseSource parses identifiers such as "owner/repo", "owner/repo/sub/dir#ref",
// "gitlab:owner/repo" or "https://github.com/owner/repo".
func ParseSource(s string) (Source, error) {
	raw := strings.TrimSpace(s)
	if raw == "" {
		return Source{}, fmt.Errorf("empty source")
	}

	src := Source{Host: HostGitHub, Ref: DefaultRef}

	if i := strings.LastIndex(raw, "#"); i >= 0 {
		if ref := raw[i+1:]; ref != "" {
			src.Ref = ref
		}
		raw = raw[:i]
	}

	switch {
	case strings.HasPrefix(raw, "https://"), strings.HasPrefix(raw, "http://"):
		rest := raw[strings.Index(raw, "://")+3:]
		host, p, _ := strings.Cut(rest, "/")
		if !isKnownHost(host) {
			return Source{}, fmt.Errorf("unsupported host %q in source %q", host, s)
		}
		src.Host = host
		raw = p
	case strings.HasPrefix(raw, "git@"):
		host, p, ok := strings.Cut(strings.TrimPrefix(raw, "git@"), ":")
		if !ok || !isKnownHost(host) {
			return Source{}, fmt.Errorf("unsupported source %q", s)
		}
		src.Host = host
		raw = p
	default:
		if alias, p, ok := strings.Cut(raw, ":"); ok {
			host, known := hostAliases[alias]
			if !known {
				return Source{}, fmt.Errorf("unsupported host %q in source %q", alias, s)
			}
			src.Host = host
			raw = p
		}
	}

	parts := strings.Split(strings.Trim(raw, "/"), "/")
	if len(parts) < 2 || parts[0] == "" || parts[1] == "" {
		return Source{}, fmt.Errorf("invalid source %q: expected owner/repo[/path]", s)
	}
	src.Owner = parts[0]
	src.Repo = strings.TrimSuffix(parts[1], ".git")

	if len(parts) > 2 {
		sub := path.Clean(strings.Join(parts[2:], "/"))
		if sub == ".." || strings.HasPrefix(sub, "../") || path.IsAbs(sub) {
			return Source{}, fmt.Errorf("invalid sub-path in source %q", s)
		}
		if sub != "." {
			src.Subdir = sub
		}
	}

	return src, nil
}

func isKnownHost(host string) bool {
	return host == HostGitHub || host == HostGitLab || host == HostBitbucket
}

// String renders the source in its canonical short form.
func (s Source) String() string {
	var b strings.Builder
	if s.Host != HostGitHub {
		for alias, host := range hostAliases {
			if host == s.Host {
				b.WriteString(alias + ":")
			}
		}
	}
	b.WriteString(s.Owner + "/" + s.Repo)
	if s.Subdir != "" {
		b.WriteString("/" + s.Subdir)
	}
	if s.Ref != "" && s.Ref != DefaultRef {
		b.WriteString("#" + s.Ref)
	}
	return b.String()
}

// ArchivePath returns the host-relative path of the snapshot tarball.
func (s Source) ArchivePath() string {
	switch s.Host {
	case HostGitLab:
		return fmt.Sprintf("%s/%s/-/archive/%s/%s-%s.tar.gz", s.Owner, s.Repo, s.Ref, s.Repo, s.Ref)
	case HostBitbucket:
		return fmt.Sprintf("%s/%s/get/%s.tar.gz", s.Owner, s.Repo, s.Ref)
	default:
		return fmt.Sprintf("%s/%s/archive/%s.tar.gz", s.Owner, s.Repo, s.Ref)
	}
}

// CloneURL returns the HTTPS clone URL of the repository.
func (s Source) CloneURL() string {
	return fmt.Sprintf("https://%s/%s/%s.git", s.Host, s.Owner, s.Repo)
}
