package config

import "time"

const (
	DefaultFetchMode     = "tarball"
	DefaultCacheTTL      = 15 * time.Minute
	DefaultGitBinary     = "git"
	DefaultIgnoreFile    = ".gitignore"
	DefaultIgnoreRule    = ".agent/skills/"
	DefaultIgnoreComment = "# AI agent skills (managed by vibe)"
	DefaultLogLevel      = "warn"
)

// Settings holds the user-tunable behavior of vibe.
type Settings struct {
	Fetch   FetchSettings  `mapstructure:"fetch"`
	Git     GitSettings    `mapstructure:"git"`
	Ignore  IgnoreSettings `mapstructure:"ignore"`
	Log     LogSettings    `mapstructure:"log"`
	NoColor bool           `mapstructure:"no_color"`

	// File is the config file that was read, empty when none was found.
	File string `mapstructure:"-"`
}

// FetchSettings controls how remote bundles are downloaded.
type FetchSettings struct {
	Mode     string        `mapstructure:"mode"`
	Cache    bool          `mapstructure:"cache"`
	CacheTTL time.Duration `mapstructure:"cache_ttl"`
	Timeout  time.Duration `mapstructure:"timeout"`
	Token    string        `mapstructure:"token"`
}

// GitSettings selects the git executable.
type GitSettings struct {
	Binary string `mapstructure:"binary"`
}

// IgnoreSettings describes the rule kept in the project's ignore file.
type IgnoreSettings struct {
	File    string `mapstructure:"file"`
	Rule    string `mapstructure:"rule"`
	Comment string `mapstructure:"comment"`
}

// LogSettings configures diagnostic logging.
type LogSettings struct {
	Level string `mapstructure:"level"`
}
