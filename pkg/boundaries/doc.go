// Package boundaries classifies project files into architectural element
// types and validates the imports between them against an allow table.
//
// A RuleSet is built once from a RuleSetSpec. NewRuleSet compiles every
// element pattern and rejects inconsistent configuration (duplicate types,
// unknown rule references, constraints on undeclared captures) before any
// file is looked at.
//
//	rs, err := boundaries.NewRuleSet(spec)
//	if err != nil {
//		return err // *ConfigError values joined with errors.Join
//	}
//	report, err := boundaries.NewReporter(rs, boundaries.Options{}).Check(ctx, files, edges)
//
// Classification is first-match-wins in catalog order. Validation is
// default-deny: an edge is legal only when an allow rule of the source type
// names the target type (or "*") and all of the rule's capture constraints
// hold. Denied edges become core.Violation values; they are findings, not
// errors.
package boundaries
