package boundaries

import (
	"sort"

	"github.com/leapstack-labs/layerlint/pkg/core"
)

// Decision is the outcome of validating one edge.
type Decision struct {
	Allowed bool
	// Violation is set when the edge is denied.
	Violation *core.Violation
	// Rule is the allow rule that admitted the edge.
	Rule *core.AllowRule
}

// Validator decides edge legality against a rule set. Anything not
// explicitly allowed is denied.
type Validator struct {
	rs *RuleSet
}

// NewValidator creates a validator.
func NewValidator(rs *RuleSet) *Validator {
	return &Validator{rs: rs}
}

// Validate checks one edge whose endpoints are already classified. It is a
// pure function of its inputs. The only error is ErrUnresolvedCapture, raised
// when a constraint references a capture the source instance does not carry.
func (v *Validator) Validate(edge core.ImportEdge, from, to core.ElementInstance) (Decision, error) {
	fromType, toType := typeName(from), typeName(to)
	deny := func(reason core.Reason, mismatches []core.CaptureMismatch) Decision {
		return Decision{Violation: &core.Violation{
			From:       edge.From,
			To:         edge.To,
			FromType:   fromType,
			ToType:     toType,
			Reason:     reason,
			Mismatches: mismatches,
		}}
	}

	rules := v.rs.allow[fromType]

	if fromType == core.Unclassified && len(rules) == 0 {
		return deny(core.ReasonUnclassifiedEndpoint, nil), nil
	}
	if toType == core.Unclassified && !anyMatchesTarget(rules, core.Unclassified) {
		return deny(core.ReasonUnclassifiedEndpoint, nil), nil
	}
	if len(rules) == 0 {
		return deny(core.ReasonNoAllowEntry, nil), nil
	}

	var first []core.CaptureMismatch
	candidates := 0
	for i := range rules {
		rule := &rules[i]
		if !rule.MatchesTarget(toType) {
			continue
		}
		mismatches, err := checkConstraints(rule, from, to)
		if err != nil {
			return Decision{}, err
		}
		if len(mismatches) == 0 {
			matched := *rule
			return Decision{Allowed: true, Rule: &matched}, nil
		}
		if candidates == 0 {
			first = mismatches
		}
		candidates++
	}

	if candidates == 0 {
		return deny(core.ReasonNoAllowEntry, nil), nil
	}
	return deny(core.ReasonCaptureMismatch, first), nil
}

// checkConstraints compares each constraint against the target's captures,
// in capture-name order.
func checkConstraints(rule *core.AllowRule, from, to core.ElementInstance) ([]core.CaptureMismatch, error) {
	if len(rule.Constraints) == 0 {
		return nil, nil
	}

	names := make([]string, 0, len(rule.Constraints))
	for name := range rule.Constraints {
		names = append(names, name)
	}
	sort.Strings(names)

	var mismatches []core.CaptureMismatch
	for _, name := range names {
		expected, err := Resolve(rule.Constraints[name], from)
		if err != nil {
			return nil, err
		}
		actual, ok := to.Capture(name)
		if !ok {
			mismatches = append(mismatches, core.CaptureMismatch{Capture: name, Expected: expected, Missing: true})
			continue
		}
		if actual != expected {
			mismatches = append(mismatches, core.CaptureMismatch{Capture: name, Expected: expected, Actual: actual})
		}
	}
	return mismatches, nil
}

func anyMatchesTarget(rules []core.AllowRule, target string) bool {
	for _, r := range rules {
		if r.MatchesTarget(target) {
			return true
		}
	}
	return false
}

func typeName(e core.ElementInstance) string {
	if e.IsUnclassified() {
		return core.Unclassified
	}
	return e.Type
}
