package structure

import (
	"fmt"
	"strings"

	"github.com/leapstack-labs/layerlint/pkg/core"
	"github.com/leapstack-labs/layerlint/pkg/lint"
)

func init() {
	lint.Register(lint.RuleDef{
		ID:          "LB05",
		Name:        "import-cycle",
		Group:       "structure",
		Description: "Files import each other in a cycle",
		Severity:    core.SeverityWarning,
		Check:       checkImportCycle,
		ConfigKeys:  []string{"max_length"},
		Rationale: `Cyclic imports defeat layering: every file in the cycle depends on every
other one, so none can change or be tested in isolation.`,
		Fix: "Move the shared code into a layer both files may import.",
	})
}

// checkImportCycle reports each strongly connected component once, against
// its first file. max_length > 0 skips cycles with more files than that.
func checkImportCycle(ctx *lint.Context) []lint.Diagnostic {
	maxLength := ctx.Options("LB05").Int("max_length", 0)

	var diags []lint.Diagnostic
	for _, cycle := range ctx.Graph().Cycles() {
		if maxLength > 0 && len(cycle) > maxLength {
			continue
		}
		msg := "File imports itself"
		if len(cycle) > 1 {
			msg = fmt.Sprintf("Import cycle between %d files: %s", len(cycle), strings.Join(cycle, ", "))
		}
		diags = append(diags, lint.Diagnostic{
			Severity:    core.SeverityWarning,
			Message:     msg,
			File:        cycle[0],
			Related:     cycle[1:],
			ImpactScore: lint.ImpactMedium.Score(),
		})
	}
	return diags
}
