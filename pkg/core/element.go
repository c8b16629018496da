package core

import (
	"sort"
	"strings"
)

// Reserved element type names.
const (
	// Unclassified is the type of a file that matched no element pattern.
	Unclassified = "unclassified"
	// AnyType is the wildcard allow target.
	AnyType = "*"
	// DefaultRole is the role used for files no role pattern claims.
	DefaultRole = "main"
)

// MatchMode controls how an element pattern is applied to a path.
type MatchMode string

// Match modes.
const (
	// MatchFile matches file paths only; directories never match.
	MatchFile MatchMode = "file"
	// MatchFolder matches any path that lives under a matching directory.
	MatchFolder MatchMode = "folder"
	// MatchFull matches the complete relative path with no descent.
	MatchFull MatchMode = "full"
)

// ParseMatchMode converts a string to a MatchMode.
// An empty string yields MatchFolder, the default for element patterns.
func ParseMatchMode(s string) (MatchMode, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "":
		return MatchFolder, true
	case "file":
		return MatchFile, true
	case "folder":
		return MatchFolder, true
	case "full", "full-path":
		return MatchFull, true
	default:
		return MatchFolder, false
	}
}

// ElementTypeDef declares one architectural element type.
type ElementTypeDef struct {
	// Name is unique across every catalog of a rule set.
	Name string `json:"name" yaml:"type"`
	// Pattern is a glob with optional <name> capture segments.
	Pattern string `json:"pattern" yaml:"pattern"`
	// Mode selects file, folder or full-path matching.
	Mode MatchMode `json:"mode" yaml:"mode"`
	// Captures binds capture tokens of Pattern positionally.
	Captures []string `json:"captures,omitempty" yaml:"capture,omitempty"`
	// Role is the catalog this definition belongs to.
	Role string `json:"role,omitempty" yaml:"role,omitempty"`
}

// HasCapture reports whether the definition declares the named capture.
func (d ElementTypeDef) HasCapture(name string) bool {
	for _, c := range d.Captures {
		if c == name {
			return true
		}
	}
	return false
}

// ElementInstance is the classification of one file.
type ElementInstance struct {
	Type     string            `json:"type"`
	Captures map[string]string `json:"captures,omitempty"`
	Path     string            `json:"path"`
	Role     string            `json:"role,omitempty"`
}

// NewElementInstance builds an instance owning a private copy of captures.
func NewElementInstance(typeName, path, role string, captures map[string]string) ElementInstance {
	var owned map[string]string
	if len(captures) > 0 {
		owned = make(map[string]string, len(captures))
		for k, v := range captures {
			owned[k] = v
		}
	}
	return ElementInstance{Type: typeName, Captures: owned, Path: path, Role: role}
}

// UnclassifiedInstance returns the instance for a path no pattern matched.
func UnclassifiedInstance(path, role string) ElementInstance {
	return ElementInstance{Type: Unclassified, Path: path, Role: role}
}

// IsUnclassified reports whether no element type matched.
func (e ElementInstance) IsUnclassified() bool {
	return e.Type == Unclassified || e.Type == ""
}

// Capture returns the value bound to name.
func (e ElementInstance) Capture(name string) (string, bool) {
	v, ok := e.Captures[name]
	return v, ok
}

// CaptureNames returns the bound capture names in sorted order.
func (e ElementInstance) CaptureNames() []string {
	names := make([]string, 0, len(e.Captures))
	for k := range e.Captures {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// String renders the instance as type[name=value,...].
func (e ElementInstance) String() string {
	if len(e.Captures) == 0 {
		return e.Type
	}
	var b strings.Builder
	b.WriteString(e.Type)
	b.WriteByte('[')
	for i, name := range e.CaptureNames() {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(name)
		b.WriteByte('=')
		b.WriteString(e.Captures[name])
	}
	b.WriteByte(']')
	return b.String()
}
