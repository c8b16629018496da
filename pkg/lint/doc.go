// Package lint turns a boundaries report into diagnostics.
//
// Rules are plain data: a RuleDef carries metadata and a Check function
// that reads a Context. Rule packages register their definitions from
// init() functions; importing pkg/lint/rules wires every built-in rule.
//
// The Analyzer applies configuration (disabled rules, severity overrides,
// per-rule options) and returns diagnostics in a stable order.
package lint
