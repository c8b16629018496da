package core

import (
	"fmt"
	"strings"
)

// TemplateKind tags the variant held by a Template.
type TemplateKind int

// Template variants.
const (
	// TemplateLiteral is a fixed expected value.
	TemplateLiteral TemplateKind = iota
	// TemplateSourceCapture refers to a capture of the source instance.
	TemplateSourceCapture
)

// Template is a capture constraint expression: Literal(value) or
// SourceCapture(name). It is never interpolated as a string.
type Template struct {
	Kind  TemplateKind
	Value string
}

// Literal returns a literal template.
func Literal(value string) Template {
	return Template{Kind: TemplateLiteral, Value: value}
}

// SourceCapture returns a template referring to the source's capture name.
func SourceCapture(name string) Template {
	return Template{Kind: TemplateSourceCapture, Value: name}
}

const (
	templateOpen   = "${"
	templateSource = "from."
)

// ParseTemplate parses "${from.<name>}" into a source reference and any
// string without "${" into a literal. Anything else is an error.
func ParseTemplate(s string) (Template, error) {
	if !strings.Contains(s, templateOpen) {
		return Literal(s), nil
	}
	if !strings.HasPrefix(s, templateOpen) || !strings.HasSuffix(s, "}") {
		return Template{}, fmt.Errorf("template %q must be a literal or exactly ${from.<capture>}", s)
	}
	inner := s[len(templateOpen) : len(s)-1]
	name, ok := strings.CutPrefix(inner, templateSource)
	if !ok {
		return Template{}, fmt.Errorf("template %q may only reference captures of the source (from.)", s)
	}
	if name == "" || strings.ContainsAny(name, ".${} ") {
		return Template{}, fmt.Errorf("template %q has an invalid capture name", s)
	}
	return SourceCapture(name), nil
}

// String renders the template in its configuration syntax.
func (t Template) String() string {
	if t.Kind == TemplateSourceCapture {
		return templateOpen + templateSource + t.Value + "}"
	}
	return t.Value
}

// MarshalText encodes the template in its configuration syntax.
func (t Template) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// UnmarshalText parses the configuration syntax.
func (t *Template) UnmarshalText(data []byte) error {
	parsed, err := ParseTemplate(string(data))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// AllowRule states that From may import Target, optionally constrained by
// equality of captures.
type AllowRule struct {
	// From is the source element type (or Unclassified).
	From string `json:"from"`
	// Target is an element type name, AnyType, or Unclassified.
	Target string `json:"target"`
	// Constraints maps a target capture name to its expected value.
	Constraints map[string]Template `json:"constraints,omitempty"`
	// AllowUnclassified lets an AnyType target also cover unclassified files.
	AllowUnclassified bool `json:"allow_unclassified,omitempty"`
}

// MatchesTarget reports whether the rule names typeName as a permitted target.
func (r AllowRule) MatchesTarget(typeName string) bool {
	if typeName == Unclassified {
		return r.Target == Unclassified || (r.Target == AnyType && r.AllowUnclassified)
	}
	return r.Target == AnyType || r.Target == typeName
}

// String renders the rule for diagnostics.
func (r AllowRule) String() string {
	if len(r.Constraints) == 0 {
		return r.From + " -> " + r.Target
	}
	return fmt.Sprintf("%s -> %s%v", r.From, r.Target, r.Constraints)
}
