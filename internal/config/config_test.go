package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"VIBE_FETCH_MODE", "VIBE_FETCH_CACHE", "VIBE_FETCH_CACHE_TTL", "VIBE_FETCH_TIMEOUT",
		"VIBE_FETCH_TOKEN", "GITHUB_TOKEN", "VIBE_GIT_BINARY", "VIBE_IGNORE_FILE",
		"VIBE_IGNORE_RULE", "VIBE_IGNORE_COMMENT", "VIBE_LOG_LEVEL", "VIBE_NO_COLOR",
	} {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	s, err := load("", []string{t.TempDir()})
	if err != nil {
		t.Fatalf("load() error: %v", err)
	}
	want := Defaults()
	if s.Fetch != want.Fetch || s.Git != want.Git || s.Ignore != want.Ignore || s.Log != want.Log {
		t.Errorf("settings = %+v, want %+v", *s, want)
	}
	if s.File != "" {
		t.Errorf("File = %q, want empty", s.File)
	}
}

func TestLoadFromSearchDir(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	content := "fetch:\n  mode: git\n  cache: true\n  cache_ttl: 1m\nignore:\n  rule: .agent/\n"
	os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(content), 0644)

	s, err := load("", []string{dir})
	if err != nil {
		t.Fatalf("load() error: %v", err)
	}
	if s.Fetch.Mode != "git" || !s.Fetch.Cache || s.Fetch.CacheTTL != time.Minute {
		t.Errorf("fetch = %+v", s.Fetch)
	}
	if s.Ignore.Rule != ".agent/" {
		t.Errorf("Ignore.Rule = %q", s.Ignore.Rule)
	}
	if s.Ignore.File != DefaultIgnoreFile {
		t.Errorf("Ignore.File = %q, want default", s.Ignore.File)
	}
	if s.File == "" {
		t.Error("File should name the config that was read")
	}
}

func TestLoadExplicitPathMissing(t *testing.T) {
	clearEnv(t)
	_, err := load(filepath.Join(t.TempDir(), "nope.yaml"), nil)
	if err == nil {
		t.Fatal("expected error for missing explicit config")
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	path := filepath.Join(dir, "vibe.yaml")
	os.WriteFile(path, []byte("fetch:\n  mode: git\n"), 0644)

	t.Setenv("VIBE_FETCH_MODE", "tarball")
	t.Setenv("VIBE_FETCH_TIMEOUT", "30s")
	t.Setenv("VIBE_LOG_LEVEL", "debug")

	s, err := load(path, nil)
	if err != nil {
		t.Fatalf("load() error: %v", err)
	}
	if s.Fetch.Mode != "tarball" {
		t.Errorf("Mode = %q, want env override tarball", s.Fetch.Mode)
	}
	if s.Fetch.Timeout != 30*time.Second {
		t.Errorf("Timeout = %v, want 30s", s.Fetch.Timeout)
	}
	if s.Log.Level != "debug" {
		t.Errorf("Log.Level = %q, want debug", s.Log.Level)
	}
}

func TestLoadTokenFallback(t *testing.T) {
	clearEnv(t)
	t.Setenv("GITHUB_TOKEN", "gh-token")

	s, err := load("", nil)
	if err != nil {
		t.Fatalf("load() error: %v", err)
	}
	if s.Fetch.Token != "gh-token" {
		t.Errorf("Token = %q, want GITHUB_TOKEN value", s.Fetch.Token)
	}

	t.Setenv("VIBE_FETCH_TOKEN", "vibe-token")
	s, err = load("", nil)
	if err != nil {
		t.Fatalf("load() error: %v", err)
	}
	if s.Fetch.Token != "vibe-token" {
		t.Errorf("Token = %q, want VIBE_FETCH_TOKEN value", s.Fetch.Token)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Settings)
		wantErr string
	}{
		{"unknown mode", func(s *Settings) { s.Fetch.Mode = "svn" }, "invalid fetch mode"},
		{"negative ttl", func(s *Settings) { s.Fetch.CacheTTL = -time.Second }, "cache_ttl"},
		{"negative timeout", func(s *Settings) { s.Fetch.Timeout = -time.Second }, "timeout"},
		{"empty git binary", func(s *Settings) { s.Git.Binary = " " }, "git.binary"},
		{"empty ignore file", func(s *Settings) { s.Ignore.File = "" }, "ignore.file is required"},
		{"escaping ignore file", func(s *Settings) { s.Ignore.File = "../.gitignore" }, "inside the project"},
		{"empty rule", func(s *Settings) { s.Ignore.Rule = "" }, "ignore.rule"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := Defaults()
			tt.mutate(&s)
			err := Validate(&s)
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() error = %v, want containing %q", err, tt.wantErr)
			}
		})
	}

	s := Defaults()
	if err := Validate(&s); err != nil {
		t.Errorf("defaults should validate: %v", err)
	}
}
