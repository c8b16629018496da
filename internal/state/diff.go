package state

import (
	"github.com/leapstack-labs/layerlint/pkg/core"
)

// violationKey identifies a violation across runs. EdgeIndex is left out
// because edge order changes between runs of the same project.
type violationKey struct {
	from, to         string
	fromType, toType string
	reason           core.Reason
}

func keyOf(v core.Violation) violationKey {
	return violationKey{from: v.From, to: v.To, fromType: v.FromType, toType: v.ToType, reason: v.Reason}
}

// DiffViolations reports the violations present only in after (New) and only
// in before (Resolved). Identical violations are counted, so a second copy of
// a known violation is New. Input order is preserved.
func DiffViolations(before, after []core.Violation) Diff {
	d := Diff{
		New:      unmatched(after, before),
		Resolved: unmatched(before, after),
	}
	return d
}

// unmatched returns the entries of vs left over once each entry of other has
// cancelled one equal entry of vs, earliest first.
func unmatched(vs, other []core.Violation) []core.Violation {
	counts := make(map[violationKey]int, len(other))
	for _, v := range other {
		counts[keyOf(v)]++
	}
	out := []core.Violation{}
	for _, v := range vs {
		k := keyOf(v)
		if counts[k] > 0 {
			counts[k]--
			continue
		}
		out = append(out, v)
	}
	return out
}
