// Package rules provides access to all built-in lint rules.
// Import this package to register every rule with the lint registry.
package rules
