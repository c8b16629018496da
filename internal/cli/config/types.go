// Package config provides configuration management for the layerlint CLI.
//
// It extends the shared project configuration from internal/config with
// CLI-only settings (output mode, verbosity) and resolves where the project
// lives on disk.
package config

import (
	sharedcfg "github.com/leapstack-labs/layerlint/internal/config"
)

// Config holds all CLI configuration options.
type Config struct {
	sharedcfg.ProjectConfig `koanf:",squash"`

	Verbose      bool   `koanf:"verbose"`
	OutputFormat string `koanf:"output"`

	// ProjectRoot is the directory paths are resolved against.
	ProjectRoot string `koanf:"-"`
	// ConfigFile is the config file that was loaded, if any.
	ConfigFile string `koanf:"-"`
}

// Default configuration values.
const (
	DefaultOutput = "auto" // Auto-detect: TTY=text, non-TTY=markdown
	EnvPrefix     = "LAYERLINT_"
)

// Default returns a configuration with every default applied, rooted at dir.
func Default(dir string) *Config {
	cfg := &Config{OutputFormat: DefaultOutput, ProjectRoot: dir}
	cfg.ApplyDefaults()
	cfg.History.Keep = sharedcfg.DefaultHistoryKeep
	cfg.History.Path = resolvePathRelativeTo(cfg.History.Path, dir)
	return cfg
}

// HistoryEnabled reports whether runs should be recorded.
func (c *Config) HistoryEnabled() bool {
	return c.History != nil && c.History.Enabled
}
