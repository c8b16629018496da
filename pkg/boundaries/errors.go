package boundaries

import (
	"errors"
	"fmt"
)

// Configuration errors. They are fatal and reported before any file is
// classified.
var (
	ErrDuplicateType        = errors.New("duplicate element type")
	ErrReservedType         = errors.New("reserved element type name")
	ErrUnknownType          = errors.New("unknown element type")
	ErrUndeclaredConstraint = errors.New("constraint on undeclared capture")
	ErrUndeclaredReference  = errors.New("template references undeclared source capture")
	ErrInvalidTemplate      = errors.New("invalid template")
	ErrInvalidRole          = errors.New("invalid role")
	ErrShadowedElement      = errors.New("element type shadowed by earlier definition")
)

// ErrUnresolvedCapture is returned by Resolve when the source instance has
// no value for a referenced capture. It is an engine failure, not a finding.
var ErrUnresolvedCapture = errors.New("unresolved source capture")

// ConfigError locates a configuration problem.
type ConfigError struct {
	// Type is the element type (or rule source) the problem belongs to.
	Type string
	// Field names the offending field, e.g. "pattern" or "allow[2].captures.modelName".
	Field string
	Err   error
}

func (e *ConfigError) Error() string {
	switch {
	case e.Type != "" && e.Field != "":
		return fmt.Sprintf("element type %q: %s: %v", e.Type, e.Field, e.Err)
	case e.Type != "":
		return fmt.Sprintf("element type %q: %v", e.Type, e.Err)
	case e.Field != "":
		return fmt.Sprintf("%s: %v", e.Field, e.Err)
	default:
		return e.Err.Error()
	}
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

func configErr(typeName, field string, err error) *ConfigError {
	return &ConfigError{Type: typeName, Field: field, Err: err}
}
