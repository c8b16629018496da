package config

import (
	"errors"
	"fmt"

	"github.com/leapstack-labs/layerlint/pkg/boundaries"
	"github.com/leapstack-labs/layerlint/pkg/core"
	"github.com/leapstack-labs/layerlint/pkg/lint"
)

// ErrInvalidSeverity is returned for an unknown severity name.
var ErrInvalidSeverity = errors.New("invalid severity")

// RuleSetSpec converts the boundaries section into a rule set spec.
func (c *BoundariesConfig) RuleSetSpec() boundaries.RuleSetSpec {
	var spec boundaries.RuleSetSpec
	if c == nil {
		return spec
	}
	spec.StrictCatalog = c.StrictCatalog

	for _, e := range c.Elements {
		spec.Elements = append(spec.Elements, core.ElementTypeDef{
			Name:     e.Type,
			Pattern:  e.Pattern,
			Mode:     core.MatchMode(e.Mode),
			Captures: e.Capture,
			Role:     e.Role,
		})
	}
	for _, r := range c.Roles {
		spec.Roles = append(spec.Roles, boundaries.RoleSpec{Name: r.Name, Patterns: r.Patterns})
	}
	for _, r := range c.Rules {
		rule := boundaries.RuleSpec{From: r.From, AllowUnclassified: r.AllowUnclassified}
		for _, a := range r.Allow {
			rule.Allow = append(rule.Allow, boundaries.AllowSpec{Type: a.Type, Captures: a.Captures})
		}
		spec.Rules = append(spec.Rules, rule)
	}
	return spec
}

// LintConfig converts the lint section into analyzer configuration.
func (c *LintConfig) LintConfig() (*lint.Config, error) {
	cfg := lint.NewConfig()
	if c == nil {
		return cfg, nil
	}

	for _, id := range c.Disabled {
		cfg.Disable(id)
	}
	for id, name := range c.Severity {
		sev, ok := core.ParseSeverity(name)
		if !ok {
			return nil, fmt.Errorf("lint.severity.%s: %w %q", id, ErrInvalidSeverity, name)
		}
		cfg.SetSeverity(id, sev)
	}
	for id, opts := range c.Options {
		for key, value := range opts {
			cfg.SetOption(id, key, value)
		}
	}
	return cfg, nil
}

// ThresholdSeverity parses the failure threshold.
func (c *LintConfig) ThresholdSeverity() (core.Severity, error) {
	name := DefaultThreshold
	if c != nil && c.Threshold != "" {
		name = c.Threshold
	}
	sev, ok := core.ParseSeverity(name)
	if !ok {
		return sev, fmt.Errorf("lint.threshold: %w %q", ErrInvalidSeverity, name)
	}
	return sev, nil
}
