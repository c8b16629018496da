package boundaries

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"slices"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/leapstack-labs/layerlint/pkg/core"
	"github.com/leapstack-labs/layerlint/pkg/pattern"
)

// RuleSetSpec is an unvalidated rule set as read from configuration.
type RuleSetSpec struct {
	// Elements is the ordered element catalog. A definition's Role selects
	// the catalog it belongs to; empty means core.DefaultRole.
	Elements []core.ElementTypeDef
	// Roles assign files to catalogs by path, first match wins.
	Roles []RoleSpec
	// Rules is the allow table in declared order.
	Rules []RuleSpec
	// StrictCatalog turns shadowed element definitions into errors.
	StrictCatalog bool
}

// RoleSpec declares a file role.
type RoleSpec struct {
	Name     string
	Patterns []string
}

// RuleSpec lists what one or more source types may import.
type RuleSpec struct {
	From  []string
	Allow []AllowSpec
	// AllowUnclassified lets a "*" target also cover unclassified files.
	AllowUnclassified bool
}

// AllowSpec is one permitted target, optionally constrained by captures.
// Capture values are template strings: a literal or "${from.<name>}".
type AllowSpec struct {
	Type     string
	Captures map[string]string
}

// Shadow reports an element definition that can never win for at least one
// path because an earlier definition of the same catalog matches it first.
type Shadow struct {
	Role       string `json:"role"`
	Type       string `json:"type"`
	ShadowedBy string `json:"shadowed_by"`
	Sample     string `json:"sample"`
}

type role struct {
	name     string
	patterns []string
}

// RuleSet is a validated, compiled rule set. It is immutable once built and
// safe to share across goroutines.
type RuleSet struct {
	defs     []core.ElementTypeDef
	types    map[string]core.ElementTypeDef
	catalogs map[string][]*pattern.Matcher
	roles    []role
	rules    []core.AllowRule
	allow    map[string][]core.AllowRule
	shadows  []Shadow
	hash     string
}

// NewRuleSet validates spec and compiles its catalogs. Every problem found is
// returned, joined, as *ConfigError values.
func NewRuleSet(spec RuleSetSpec) (*RuleSet, error) {
	rs := &RuleSet{
		types:    make(map[string]core.ElementTypeDef),
		catalogs: make(map[string][]*pattern.Matcher),
		allow:    make(map[string][]core.AllowRule),
	}

	var errs []error
	errs = append(errs, rs.addRoles(spec.Roles)...)
	errs = append(errs, rs.addElements(spec.Elements)...)
	errs = append(errs, rs.addRules(spec.Rules)...)

	rs.shadows = detectShadows(rs.catalogs)
	if spec.StrictCatalog {
		for _, s := range rs.shadows {
			errs = append(errs, configErr(s.Type, "pattern",
				fmt.Errorf("%w %q (e.g. %s)", ErrShadowedElement, s.ShadowedBy, s.Sample)))
		}
	}

	if err := errors.Join(errs...); err != nil {
		return nil, err
	}

	rs.hash = fingerprint(spec)
	return rs, nil
}

func (rs *RuleSet) addRoles(specs []RoleSpec) []error {
	var errs []error
	seen := make(map[string]bool)
	for i, r := range specs {
		field := fmt.Sprintf("roles[%d]", i)
		name := strings.TrimSpace(r.Name)
		switch {
		case name == "":
			errs = append(errs, configErr("", field+".name", fmt.Errorf("%w: empty name", ErrInvalidRole)))
			continue
		case name == core.DefaultRole:
			errs = append(errs, configErr("", field+".name", fmt.Errorf("%w: %q is implicit", ErrInvalidRole, name)))
			continue
		case seen[name]:
			errs = append(errs, configErr("", field+".name", fmt.Errorf("%w: duplicate role %q", ErrInvalidRole, name)))
			continue
		}
		seen[name] = true

		patterns := make([]string, 0, len(r.Patterns))
		for j, p := range r.Patterns {
			p = strings.TrimPrefix(strings.TrimSpace(p), "./")
			if p == "" || !doublestar.ValidatePattern(p) {
				errs = append(errs, configErr("", fmt.Sprintf("%s.patterns[%d]", field, j),
					fmt.Errorf("%w: bad glob %q", ErrInvalidRole, r.Patterns[j])))
				continue
			}
			patterns = append(patterns, p)
		}
		rs.roles = append(rs.roles, role{name: name, patterns: patterns})
	}
	return errs
}

func (rs *RuleSet) addElements(defs []core.ElementTypeDef) []error {
	var errs []error
	for i, def := range defs {
		def.Name = strings.TrimSpace(def.Name)
		if def.Role == "" {
			def.Role = core.DefaultRole
		}

		switch {
		case def.Name == "":
			errs = append(errs, configErr("", fmt.Sprintf("elements[%d].type", i), errors.New("missing type name")))
			continue
		case def.Name == core.Unclassified || def.Name == core.AnyType:
			errs = append(errs, configErr(def.Name, "type", ErrReservedType))
			continue
		case rs.hasType(def.Name):
			errs = append(errs, configErr(def.Name, "type", ErrDuplicateType))
			continue
		case !rs.hasRole(def.Role):
			errs = append(errs, configErr(def.Name, "role", fmt.Errorf("%w: %q is not declared", ErrInvalidRole, def.Role)))
		}

		m, err := pattern.Compile(def)
		if err != nil {
			errs = append(errs, configErr(def.Name, "pattern", err))
			// Register the name anyway so rules referencing it report their own problems only.
			rs.types[def.Name] = def
			continue
		}

		def = m.Def()
		rs.types[def.Name] = def
		rs.defs = append(rs.defs, def)
		rs.catalogs[def.Role] = append(rs.catalogs[def.Role], m)
	}
	return errs
}

func (rs *RuleSet) addRules(specs []RuleSpec) []error {
	var errs []error
	for i, spec := range specs {
		field := fmt.Sprintf("rules[%d]", i)
		if len(spec.From) == 0 {
			errs = append(errs, configErr("", field+".from", fmt.Errorf("%w: no source types", ErrUnknownType)))
			continue
		}

		for _, from := range spec.From {
			from = strings.TrimSpace(from)
			if from != core.Unclassified && !rs.hasType(from) {
				errs = append(errs, configErr(from, field+".from", ErrUnknownType))
				continue
			}

			for j, allow := range spec.Allow {
				rule, ruleErrs := rs.compileAllow(from, allow, fmt.Sprintf("%s.allow[%d]", field, j))
				if len(ruleErrs) > 0 {
					errs = append(errs, ruleErrs...)
					continue
				}
				rule.AllowUnclassified = spec.AllowUnclassified
				rs.rules = append(rs.rules, rule)
				rs.allow[from] = append(rs.allow[from], rule)
			}
		}
	}
	return errs
}

func (rs *RuleSet) compileAllow(from string, spec AllowSpec, field string) (core.AllowRule, []error) {
	target := strings.TrimSpace(spec.Type)
	rule := core.AllowRule{From: from, Target: target}

	isWild := target == core.AnyType || target == core.Unclassified
	if !isWild && !rs.hasType(target) {
		return rule, []error{configErr(from, field+".type", fmt.Errorf("%w: %q", ErrUnknownType, target))}
	}
	if len(spec.Captures) == 0 {
		return rule, nil
	}

	var errs []error
	targetDef := rs.types[target]
	sourceDef := rs.types[from]
	rule.Constraints = make(map[string]core.Template, len(spec.Captures))

	for _, name := range sortedKeys(spec.Captures) {
		cfield := field + ".captures." + name
		if isWild || !targetDef.HasCapture(name) {
			errs = append(errs, configErr(from, cfield, fmt.Errorf("%w: %q does not declare %q", ErrUndeclaredConstraint, target, name)))
			continue
		}

		tmpl, err := core.ParseTemplate(spec.Captures[name])
		if err != nil {
			errs = append(errs, configErr(from, cfield, fmt.Errorf("%w: %v", ErrInvalidTemplate, err)))
			continue
		}
		if tmpl.Kind == core.TemplateSourceCapture && !sourceDef.HasCapture(tmpl.Value) {
			errs = append(errs, configErr(from, cfield, fmt.Errorf("%w: %q", ErrUndeclaredReference, tmpl.Value)))
			continue
		}
		rule.Constraints[name] = tmpl
	}
	return rule, errs
}

func (rs *RuleSet) hasType(name string) bool {
	_, ok := rs.types[name]
	return ok
}

func (rs *RuleSet) hasRole(name string) bool {
	if name == core.DefaultRole {
		return true
	}
	for _, r := range rs.roles {
		if r.name == name {
			return true
		}
	}
	return false
}

// Types returns the element definitions in declared order.
func (rs *RuleSet) Types() []core.ElementTypeDef {
	return slices.Clone(rs.defs)
}

// Type returns the definition of name.
func (rs *RuleSet) Type(name string) (core.ElementTypeDef, bool) {
	def, ok := rs.types[name]
	return def, ok
}

// Rules returns every allow rule in declared order.
func (rs *RuleSet) Rules() []core.AllowRule {
	return slices.Clone(rs.rules)
}

// RulesFrom returns the allow rules of a source type in declared order.
func (rs *RuleSet) RulesFrom(typeName string) []core.AllowRule {
	return slices.Clone(rs.allow[typeName])
}

// Roles returns the declared role names, excluding the default role.
func (rs *RuleSet) Roles() []string {
	names := make([]string, len(rs.roles))
	for i, r := range rs.roles {
		names[i] = r.name
	}
	return names
}

// RoleOf returns the first role whose patterns match path, or core.DefaultRole.
func (rs *RuleSet) RoleOf(p string) string {
	p = pattern.NormalizePath(p)
	for _, r := range rs.roles {
		for _, glob := range r.patterns {
			if ok, _ := doublestar.Match(glob, p); ok {
				return r.name
			}
		}
	}
	return core.DefaultRole
}

// Shadows returns the shadowed element definitions found at load time.
func (rs *RuleSet) Shadows() []Shadow {
	return slices.Clone(rs.shadows)
}

// Hash fingerprints the rule set so recorded runs can tell configurations apart.
func (rs *RuleSet) Hash() string {
	return rs.hash
}

// catalog returns the matchers tried for a role: the role's own catalog
// followed by the default catalog.
func (rs *RuleSet) catalog(roleName string) [][]*pattern.Matcher {
	if roleName == "" || roleName == core.DefaultRole {
		return [][]*pattern.Matcher{rs.catalogs[core.DefaultRole]}
	}
	return [][]*pattern.Matcher{rs.catalogs[roleName], rs.catalogs[core.DefaultRole]}
}

// detectShadows tests each definition's sample path against every earlier
// definition of the same catalog.
func detectShadows(catalogs map[string][]*pattern.Matcher) []Shadow {
	var shadows []Shadow
	for _, roleName := range sortedKeys(catalogs) {
		matchers := catalogs[roleName]
		for j, later := range matchers {
			sample := later.Sample()
			for _, earlier := range matchers[:j] {
				if _, ok := earlier.Match(sample, false); ok {
					shadows = append(shadows, Shadow{
						Role:       roleName,
						Type:       later.Def().Name,
						ShadowedBy: earlier.Def().Name,
						Sample:     sample,
					})
					break
				}
			}
		}
	}
	return shadows
}

func fingerprint(spec RuleSetSpec) string {
	h := sha256.New()
	for _, def := range spec.Elements {
		fmt.Fprintf(h, "element %s|%s|%s|%s|%s\n", def.Name, def.Pattern, def.Mode, strings.Join(def.Captures, ","), def.Role)
	}
	for _, r := range spec.Roles {
		fmt.Fprintf(h, "role %s|%s\n", r.Name, strings.Join(r.Patterns, ","))
	}
	for _, r := range spec.Rules {
		fmt.Fprintf(h, "rule %s|%t\n", strings.Join(r.From, ","), r.AllowUnclassified)
		for _, a := range r.Allow {
			fmt.Fprintf(h, "  allow %s", a.Type)
			for _, k := range sortedKeys(a.Captures) {
				fmt.Fprintf(h, "|%s=%s", k, a.Captures[k])
			}
			fmt.Fprintln(h)
		}
	}
	fmt.Fprintf(h, "strict %t\n", spec.StrictCatalog)
	return hex.EncodeToString(h.Sum(nil))[:16]
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
