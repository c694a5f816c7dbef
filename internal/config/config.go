package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"
)

const (
	configName = "config"
	envPrefix  = "VIBE"
)

var fetchModes = map[string]bool{"tarball": true, "git": true}

// Defaults returns the settings used when nothing is configured.
func Defaults() Settings {
	return Settings{
		Fetch: FetchSettings{
			Mode:     DefaultFetchMode,
			CacheTTL: DefaultCacheTTL,
		},
		Git: GitSettings{Binary: DefaultGitBinary},
		Ignore: IgnoreSettings{
			File:    DefaultIgnoreFile,
			Rule:    DefaultIgnoreRule,
			Comment: DefaultIgnoreComment,
		},
		Log: LogSettings{Level: DefaultLogLevel},
	}
}

// Load reads settings from defaults, then the config file, then VIBE_* environment
// variables. An explicit path must exist; the default ~/.config/vibe/config.yaml is optional.
func Load(path string) (*Settings, error) {
	return load(path, searchDirs())
}

func load(path string, dirs []string) (*Settings, error) {
	v := newViper()

	if path != "" {
		expanded, err := homedir.Expand(path)
		if err != nil {
			return nil, fmt.Errorf("resolving config path: %w", err)
		}
		v.SetConfigFile(expanded)
	} else {
		v.SetConfigName(configName)
		v.SetConfigType("yaml")
		for _, dir := range dirs {
			v.AddConfigPath(dir)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	var s Settings
	if err := v.Unmarshal(&s); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	s.File = v.ConfigFileUsed()
	s.Fetch.Mode = strings.ToLower(strings.TrimSpace(s.Fetch.Mode))

	if err := Validate(&s); err != nil {
		return nil, err
	}
	return &s, nil
}

func newViper() *viper.Viper {
	v := viper.New()
	d := Defaults()
	v.SetDefault("fetch.mode", d.Fetch.Mode)
	v.SetDefault("fetch.cache", d.Fetch.Cache)
	v.SetDefault("fetch.cache_ttl", d.Fetch.CacheTTL)
	v.SetDefault("fetch.timeout", d.Fetch.Timeout)
	v.SetDefault("fetch.token", "")
	v.SetDefault("git.binary", d.Git.Binary)
	v.SetDefault("ignore.file", d.Ignore.File)
	v.SetDefault("ignore.rule", d.Ignore.Rule)
	v.SetDefault("ignore.comment", d.Ignore.Comment)
	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("no_color", false)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	_ = v.BindEnv("fetch.token", envPrefix+"_FETCH_TOKEN", "GITHUB_TOKEN")
	return v
}

// Validate checks that settings are usable.
func Validate(s *Settings) error {
	if !fetchModes[s.Fetch.Mode] {
		return fmt.Errorf("invalid fetch mode %q (expected tarball or git)", s.Fetch.Mode)
	}
	if s.Fetch.CacheTTL < 0 {
		return fmt.Errorf("fetch.cache_ttl cannot be negative")
	}
	if s.Fetch.Timeout < 0 {
		return fmt.Errorf("fetch.timeout cannot be negative")
	}
	if strings.TrimSpace(s.Git.Binary) == "" {
		return fmt.Errorf("git.binary is required")
	}
	if strings.TrimSpace(s.Ignore.File) == "" {
		return fmt.Errorf("ignore.file is required")
	}
	if !filepath.IsLocal(filepath.FromSlash(s.Ignore.File)) {
		return fmt.Errorf("ignore.file %q must stay inside the project", s.Ignore.File)
	}
	if strings.TrimSpace(s.Ignore.Rule) == "" {
		return fmt.Errorf("ignore.rule is required")
	}
	return nil
}

func searchDirs() []string {
	home, err := homedir.Dir()
	if err != nil {
		return nil
	}
	return []string{filepath.Join(home, ".config", "vibe")}
}
