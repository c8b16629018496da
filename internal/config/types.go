// Package config provides shared configuration types for layerlint.
// This package is decoupled from CLI concerns: it describes the project
// file (layerlint.yaml) and converts it into the rule set and lint
// configuration the engine consumes.
package config

// ProjectConfig holds the project-level configuration.
type ProjectConfig struct {
	// Graph is the import graph manifest, relative to the project root.
	Graph string `koanf:"graph"`
	// Parallelism bounds classification and validation workers; 0 uses GOMAXPROCS.
	Parallelism int               `koanf:"parallelism"`
	Discover    *DiscoverConfig   `koanf:"discover"`
	Boundaries  *BoundariesConfig `koanf:"boundaries"`
	Lint        *LintConfig       `koanf:"lint"`
	History     *HistoryConfig    `koanf:"history"`
}

// DiscoverConfig controls the project file walk.
type DiscoverConfig struct {
	Enabled bool     `koanf:"enabled"`
	Include []string `koanf:"include"`
	Ignore  []string `koanf:"ignore"`
}

// BoundariesConfig declares element types, roles and allow rules.
type BoundariesConfig struct {
	// StrictCatalog turns shadowed element types into configuration errors.
	StrictCatalog bool            `koanf:"strict_catalog"`
	Elements      []ElementConfig `koanf:"elements"`
	Roles         []RoleConfig    `koanf:"roles"`
	Rules         []RuleConfig    `koanf:"rules"`
}

// ElementConfig declares one element type.
type ElementConfig struct {
	Type    string     `koanf:"type"`
	Pattern string     `koanf:"pattern"`
	Mode    string     `koanf:"mode"`
	Capture StringList `koanf:"capture"`
	Role    string     `koanf:"role"`
}

// RoleConfig assigns files matching Patterns to a named catalog.
type RoleConfig struct {
	Name     string     `koanf:"name"`
	Patterns StringList `koanf:"patterns"`
}

// RuleConfig lists what elements of the From types may import.
type RuleConfig struct {
	From              StringList   `koanf:"from"`
	Allow             []AllowEntry `koanf:"allow"`
	AllowUnclassified bool         `koanf:"allow_unclassified"`
}

// AllowEntry is one permitted target. It decodes from a bare type name,
// a [type, {capture: template}] pair, or a {type, captures} map.
type AllowEntry struct {
	Type     string            `koanf:"type"`
	Captures map[string]string `koanf:"captures"`
}

// StringList decodes from either a single string or a list of strings.
type StringList []string

// LintConfig holds lint rule configuration.
type LintConfig struct {
	// Disabled contains rule IDs to disable
	Disabled []string `koanf:"disabled"`

	// Severity maps rule ID to severity override (error, warning, info, hint)
	Severity map[string]string `koanf:"severity"`

	// Threshold is the lowest severity that fails a check
	Threshold string `koanf:"threshold"`

	// Options contains rule-specific options keyed by rule ID
	Options map[string]RuleOptions `koanf:"options"`
}

// RuleOptions holds rule-specific configuration options.
type RuleOptions map[string]any

// HistoryConfig controls the run history database.
type HistoryConfig struct {
	Enabled bool   `koanf:"enabled"`
	Path    string `koanf:"path"`
	// Keep is the number of runs retained; 0 keeps all.
	Keep int `koanf:"keep"`
}
