package lint

import "github.com/leapstack-labs/layerlint/pkg/core"

// RuleSettings is the per-rule part of a Config.
type RuleSettings struct {
	Disabled bool
	// Severity replaces the rule's default when non-nil.
	Severity *core.Severity
	Options  Options
}

// Config holds settings keyed by rule ID. A nil *Config leaves every rule
// enabled at its default severity.
type Config struct {
	rules map[string]*RuleSettings
}

// NewConfig returns an empty configuration.
func NewConfig() *Config {
	return &Config{rules: make(map[string]*RuleSettings)}
}

func (c *Config) settings(ruleID string) *RuleSettings {
	s, ok := c.rules[ruleID]
	if !ok {
		s = &RuleSettings{}
		c.rules[ruleID] = s
	}
	return s
}

// Rule returns the settings of ruleID, or the zero value.
func (c *Config) Rule(ruleID string) RuleSettings {
	if c == nil || c.rules[ruleID] == nil {
		return RuleSettings{}
	}
	return *c.rules[ruleID]
}

// IsDisabled reports whether the rule is skipped.
func (c *Config) IsDisabled(ruleID string) bool {
	return c.Rule(ruleID).Disabled
}

// GetSeverity returns the configured severity of a rule, or def.
func (c *Config) GetSeverity(ruleID string, def core.Severity) core.Severity {
	if sev := c.Rule(ruleID).Severity; sev != nil {
		return *sev
	}
	return def
}

// Options returns the options configured for a rule.
func (c *Config) Options(ruleID string) Options {
	return c.Rule(ruleID).Options
}

// Disable turns a rule off.
func (c *Config) Disable(ruleID string) *Config {
	c.settings(ruleID).Disabled = true
	return c
}

// SetSeverity overrides the severity of a rule.
func (c *Config) SetSeverity(ruleID string, severity core.Severity) *Config {
	c.settings(ruleID).Severity = &severity
	return c
}

// SetOption sets one option of a rule.
func (c *Config) SetOption(ruleID, key string, value any) *Config {
	s := c.settings(ruleID)
	if s.Options == nil {
		s.Options = make(Options)
	}
	s.Options[key] = value
	return c
}
