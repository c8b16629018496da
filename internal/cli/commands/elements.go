package commands

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/layerlint/internal/cli/output"
	"github.com/leapstack-labs/layerlint/pkg/boundaries"
	"github.com/leapstack-labs/layerlint/pkg/core"
)

// NewElementsCommand creates the elements command.
func NewElementsCommand() *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "elements",
		Short: "Show the element catalog and allow rules",
		Long: `Validate layerlint.yaml and print its element types, in match order,
followed by the allow rules and any catalog entries that can never match
because an earlier entry matches first.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runElements(cmd, format)
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "", "Output format: text, markdown, json")

	return cmd
}

// ElementsJSONOutput is the JSON output structure for the elements command.
type ElementsJSONOutput struct {
	Elements []core.ElementTypeDef `json:"elements"`
	Rules    []core.AllowRule      `json:"rules"`
	Shadows  []boundaries.Shadow   `json:"shadows"`
	Roles    []string              `json:"roles"`
	Hash     string                `json:"ruleset_hash"`
}

func runElements(cmd *cobra.Command, format string) error {
	cmdCtx, cleanup, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	rs := cmdCtx.Engine.RuleSet()
	r := cmdCtx.WithFormat(cmd, format)

	if r.EffectiveMode() == output.ModeJSON {
		shadows := rs.Shadows()
		if shadows == nil {
			shadows = []boundaries.Shadow{}
		}
		return r.JSON(ElementsJSONOutput{
			Elements: rs.Types(),
			Rules:    rs.Rules(),
			Shadows:  shadows,
			Roles:    rs.Roles(),
			Hash:     rs.Hash(),
		})
	}

	if len(rs.Types()) == 0 {
		r.Warning("No element types declared in boundaries.elements")
		return nil
	}

	r.Header(1, "Element Types")
	rows := make([][]string, 0, len(rs.Types()))
	for i, def := range rs.Types() {
		role := def.Role
		if role == "" {
			role = core.DefaultRole
		}
		rows = append(rows, []string{
			fmt.Sprint(i + 1), def.Name, def.Pattern, string(def.Mode), strings.Join(def.Captures, ", "), role,
		})
	}
	r.Table([]string{"#", "Type", "Pattern", "Mode", "Captures", "Role"}, rows)
	r.Println("")

	r.Header(1, "Allow Rules")
	if rules := rs.Rules(); len(rules) > 0 {
		r.Table([]string{"From", "Allow"}, allowRows(rules))
	} else {
		r.Muted("No allow rules: every import between elements is denied")
	}
	r.Println("")

	for _, s := range rs.Shadows() {
		r.Warning(fmt.Sprintf("%s is shadowed by %s in role %s (e.g. %s)", s.Type, s.ShadowedBy, s.Role, s.Sample))
	}
	return nil
}

// allowRows renders one row per source type, targets in declared order.
func allowRows(rules []core.AllowRule) [][]string {
	var order []string
	targets := make(map[string][]string)
	for _, rule := range rules {
		if _, ok := targets[rule.From]; !ok {
			order = append(order, rule.From)
		}
		targets[rule.From] = append(targets[rule.From], describeTarget(rule))
	}

	rows := make([][]string, len(order))
	for i, from := range order {
		rows[i] = []string{from, strings.Join(targets[from], "; ")}
	}
	return rows
}

func describeTarget(rule core.AllowRule) string {
	s := rule.Target
	if rule.Target == core.AnyType && rule.AllowUnclassified {
		s += " (incl. unclassified)"
	}
	if len(rule.Constraints) == 0 {
		return s
	}

	names := make([]string, 0, len(rule.Constraints))
	for name := range rule.Constraints {
		names = append(names, name)
	}
	sort.Strings(names)
	parts := make([]string, len(names))
	for i, name := range names {
		parts[i] = name + "=" + rule.Constraints[name].String()
	}
	return s + " {" + strings.Join(parts, ", ") + "}"
}
