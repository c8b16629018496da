// Package core defines the shared language of the layerlint system.
//
// This package contains:
//   - Element catalog entities (ElementTypeDef, MatchMode, ElementInstance)
//   - Allow table entities (AllowRule, Template)
//   - Graph and finding entities (ImportEdge, Violation, Reason)
//   - Lint metadata DTOs (Severity, RuleInfo)
//
// The Golden Rule: pkg/core imports ONLY stdlib.
// All other packages depend on core, not the reverse.
package core
