package elements

import (
	"fmt"
	"strings"

	"github.com/leapstack-labs/layerlint/pkg/core"
	"github.com/leapstack-labs/layerlint/pkg/lint"
)

func init() {
	lint.Register(lint.RuleDef{
		ID:          "LB02",
		Name:        "element-types/capture-mismatch",
		Group:       "boundaries",
		Description: "Import allowed by type but with mismatched captures",
		Severity:    core.SeverityError,
		Check:       checkCaptureMismatch,
		Reason:      core.ReasonCaptureMismatch,
		Rationale: `Some rules constrain the target's captures, for example an action may
only import the types file of the same action. Crossing that line couples
siblings that are meant to evolve independently.`,
		BadExample: `# allow: [[actionsTypes, {actionName: "${from.actionName}"}]]
# src/actions/v1/createUser.ts imports src/actions/v1/deleteUser.types.ts`,
		GoodExample: `# src/actions/v1/createUser.ts imports src/actions/v1/createUser.types.ts`,
		Fix:         "Import the sibling that matches the source's captures, or move shared types to a layer both may use.",
	})
}

func checkCaptureMismatch(ctx *lint.Context) []lint.Diagnostic {
	return fromViolations(ctx, core.ReasonCaptureMismatch, core.SeverityError, lint.ImpactHigh, func(v core.Violation) string {
		parts := make([]string, 0, len(v.Mismatches))
		for _, m := range v.Mismatches {
			if m.Missing {
				parts = append(parts, fmt.Sprintf("%s: expected '%s', missing", m.Capture, m.Expected))
				continue
			}
			parts = append(parts, fmt.Sprintf("%s: expected '%s', got '%s'", m.Capture, m.Expected, m.Actual))
		}
		return fmt.Sprintf("Importing '%s' from '%s' is allowed only with matching captures (%s)",
			v.ToType, v.FromType, strings.Join(parts, "; "))
	})
}
