package config

import (
	"github.com/leapstack-labs/layerlint/internal/discover"
	"github.com/leapstack-labs/layerlint/pkg/core"
)

// Default configuration values.
const (
	DefaultHistoryPath = ".layerlint/history.db"
	DefaultHistoryKeep = 50
)

// DefaultThreshold is the lowest severity that fails a check by default.
var DefaultThreshold = core.SeverityError.String()

// Defaults returns the default configuration as a flat koanf map.
func Defaults() map[string]any {
	return map[string]any{
		"graph":                     "",
		"parallelism":               0,
		"discover.enabled":          true,
		"discover.include":          discover.DefaultInclude,
		"discover.ignore":           discover.DefaultIgnore,
		"lint.threshold":            DefaultThreshold,
		"history.enabled":           false,
		"history.path":              DefaultHistoryPath,
		"history.keep":              DefaultHistoryKeep,
		"boundaries.strict_catalog": false,
	}
}

// ApplyDefaults fills unset sections of a ProjectConfig.
func (c *ProjectConfig) ApplyDefaults() {
	if c.Discover == nil {
		c.Discover = &DiscoverConfig{Enabled: true}
	}
	if len(c.Discover.Include) == 0 {
		c.Discover.Include = discover.DefaultInclude
	}
	if c.Discover.Ignore == nil {
		c.Discover.Ignore = discover.DefaultIgnore
	}
	if c.Boundaries == nil {
		c.Boundaries = &BoundariesConfig{}
	}
	if c.Lint == nil {
		c.Lint = &LintConfig{}
	}
	if c.Lint.Threshold == "" {
		c.Lint.Threshold = DefaultThreshold
	}
	if c.History == nil {
		c.History = &HistoryConfig{}
	}
	if c.History.Path == "" {
		c.History.Path = DefaultHistoryPath
	}
}
