package lint

import (
	"github.com/leapstack-labs/layerlint/pkg/core"
)

// RuleDef is a data-driven rule definition.
// Rules are stateless; all input comes from the Context.
type RuleDef struct {
	ID          string        // Unique identifier, e.g., "LB01"
	Name        string        // Human-readable name, e.g., "element-types/no-allow-entry"
	Group       string        // Category: "boundaries" or "structure"
	Description string        // Human-readable description
	Severity    core.Severity // Default severity
	Check       CheckFunc     // The check function
	ConfigKeys  []string      // Option keys this rule accepts
	Reason      core.Reason   // Violation reason reported, if any

	// Documentation fields
	Rationale   string
	BadExample  string
	GoodExample string
	Fix         string
}

// CheckFunc analyzes the context and returns diagnostics.
type CheckFunc func(ctx *Context) []Diagnostic

// Info returns the rule's metadata for documentation and tooling.
func (r RuleDef) Info() core.RuleInfo {
	return core.RuleInfo{
		ID:              r.ID,
		Name:            r.Name,
		Group:           r.Group,
		Description:     r.Description,
		DefaultSeverity: r.Severity,
		Reason:          r.Reason,
		ConfigKeys:      r.ConfigKeys,
		Rationale:       r.Rationale,
		BadExample:      r.BadExample,
		GoodExample:     r.GoodExample,
		Fix:             r.Fix,
	}
}

// Diagnostic represents a lint finding.
type Diagnostic struct {
	RuleID   string        `json:"rule_id"`
	RuleName string        `json:"rule_name"`
	Severity core.Severity `json:"severity"`
	Message  string        `json:"message"`
	// File is the file the finding is reported against.
	File string `json:"file,omitempty"`
	// Related lists other files involved, e.g. the import target or the
	// rest of a cycle.
	Related []string `json:"related,omitempty"`
	// Violation is set for findings derived from a denied edge.
	Violation *core.Violation `json:"violation,omitempty"`

	// Remediation metadata
	DocumentationURL string `json:"documentation_url,omitempty"`
	ImpactScore      int    `json:"impact_score,omitempty"`
}
