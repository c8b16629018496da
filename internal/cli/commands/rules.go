package commands

import (
	"fmt"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/layerlint/internal/cli/output"
	"github.com/leapstack-labs/layerlint/pkg/core"
	"github.com/leapstack-labs/layerlint/pkg/lint"
	_ "github.com/leapstack-labs/layerlint/pkg/lint/rules" // register built-in rules
)

// RulesOptions are the flags of the rules command.
type RulesOptions struct {
	Group   string
	Verbose bool
	Format  string
}

// NewRulesCommand creates the rules command.
func NewRulesCommand() *cobra.Command {
	opts := &RulesOptions{}
	cmd := &cobra.Command{
		Use:   "rules [rule-id]",
		Short: "Describe the built-in lint rules",
		Long: `Describe the lint rules that turn boundary violations and rule set
problems into diagnostics.

Without arguments every rule is listed, one table per group. Pass a rule
ID (case-insensitive) for its rationale, examples and options. Options
are set in layerlint.yaml under lint.options.<rule-id>.`,
		Example: `  layerlint rules
  layerlint rules lb04
  layerlint rules --group structure -V
  layerlint rules --format json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 {
				return showRule(cmd, args[0], opts)
			}
			return listRules(cmd, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Group, "group", "g", "", "Filter by group")
	cmd.Flags().BoolVarP(&opts.Verbose, "verbose", "V", false, "Show full documentation")
	cmd.Flags().StringVarP(&opts.Format, "format", "f", "", "Output format: text, json, markdown")

	return cmd
}

// rulesRenderer picks the renderer for rules output. Listing rules needs no
// project, so a missing or broken config falls back to defaults.
func rulesRenderer(cmd *cobra.Command, format string) *output.Renderer {
	if format != "" {
		return output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), output.Mode(format))
	}
	if r, ok := output.FromContext(cmd.Context()); ok {
		return r
	}
	return output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), output.ModeAuto)
}

func allRuleInfos() []core.RuleInfo {
	defs := lint.GetAll()
	infos := make([]core.RuleInfo, len(defs))
	for i, def := range defs {
		infos[i] = def.Info()
	}
	return infos
}

func listRules(cmd *cobra.Command, opts *RulesOptions) error {
	r := rulesRenderer(cmd, opts.Format)
	rules := filterRulesByOptions(allRuleInfos(), opts)

	if r.EffectiveMode() == output.ModeJSON {
		return listRulesJSON(r, rules)
	}
	listRulesTables(r, rules, opts.Verbose)
	return nil
}

func filterRulesByOptions(rules []core.RuleInfo, opts *RulesOptions) []core.RuleInfo {
	if opts.Group == "" {
		return rules
	}

	var filtered []core.RuleInfo
	for _, r := range rules {
		if strings.EqualFold(r.Group, opts.Group) {
			filtered = append(filtered, r)
		}
	}
	return filtered
}

func showRule(cmd *cobra.Command, ruleID string, opts *RulesOptions) error {
	r := rulesRenderer(cmd, opts.Format)

	def, ok := lint.GetByID(strings.ToUpper(ruleID))
	if !ok {
		return fmt.Errorf("rule %q not found", ruleID)
	}
	rule := def.Info()

	switch r.EffectiveMode() {
	case output.ModeJSON:
		return r.JSON(rule)
	case output.ModeMarkdown:
		return showRuleMarkdown(r, &rule)
	default:
		return showRuleText(r, &rule)
	}
}

// listRulesTables prints one table per group, groups in name order.
func listRulesTables(r *output.Renderer, rules []core.RuleInfo, verbose bool) {
	r.Header(1, fmt.Sprintf("Lint Rules (%d)", len(rules)))

	headers := []string{"ID", "Name", "Severity", "Reports"}
	if verbose {
		headers = append(headers, "Description")
	}

	for _, group := range lint.Groups() {
		var rows [][]string
		for _, rule := range rules {
			if rule.Group != group {
				continue
			}
			row := []string{rule.ID, rule.Name, rule.DefaultSeverity.String(), string(rule.Reason)}
			if verbose {
				row = append(row, truncateOneLine(rule.Description, 80))
			}
			rows = append(rows, row)
		}
		if len(rows) == 0 {
			continue
		}
		r.Header(2, capitalizeFirst(group))
		r.Table(headers, rows)
	}

	r.Muted("Use 'layerlint rules <rule-id>' for detailed documentation")
}

// RulesJSONOutput is the JSON output structure for rules listing.
type RulesJSONOutput struct {
	Rules   []core.RuleInfo `json:"rules"`
	Count   int             `json:"count"`
	ByGroup map[string]int  `json:"by_group"`
}

// listRulesJSON outputs rules in JSON format.
func listRulesJSON(r *output.Renderer, rules []core.RuleInfo) error {
	jsonOutput := RulesJSONOutput{
		Rules:   rules,
		Count:   len(rules),
		ByGroup: make(map[string]int),
	}
	if jsonOutput.Rules == nil {
		jsonOutput.Rules = []core.RuleInfo{}
	}
	for _, rule := range rules {
		jsonOutput.ByGroup[rule.Group]++
	}
	return r.JSON(jsonOutput)
}

// ruleSection is one titled block of a rule's documentation.
type ruleSection struct {
	title string
	body  string
	// code marks bodies that are configuration snippets.
	code bool
	// good selects the success style for code bodies in text mode.
	good bool
}

func ruleSections(rule *core.RuleInfo) []ruleSection {
	sections := []ruleSection{
		{title: "Why This Matters", body: rule.Rationale},
		{title: "Bad Example", body: rule.BadExample, code: true},
		{title: "Good Example", body: rule.GoodExample, code: true, good: true},
		{title: "How to Fix", body: rule.Fix},
	}
	if len(rule.ConfigKeys) > 0 {
		sections = append(sections, ruleSection{
			title: "Configuration",
			body:  fmt.Sprintf("Options under lint.options.%s: %s", rule.ID, strings.Join(rule.ConfigKeys, ", ")),
		})
	}
	return slices.DeleteFunc(sections, func(s ruleSection) bool { return s.body == "" })
}

func showRuleText(r *output.Renderer, rule *core.RuleInfo) error {
	styles := r.Styles()

	r.Println("")
	r.Println(styles.Header1.Render(rule.ID + " - " + rule.Name))
	r.Println("")
	fields := [][2]string{
		{"Group", rule.Group},
		{"Severity", rule.DefaultSeverity.String()},
		{"Reports", string(rule.Reason)},
		{"Docs", lint.BuildDocURL(rule.ID)},
	}
	for _, f := range fields {
		if f[1] != "" {
			r.Printf("  %s: %s\n", styles.Bold.Render(f[0]), f[1])
		}
	}
	r.Println("")

	sections := append([]ruleSection{{title: "Description", body: rule.Description}}, ruleSections(rule)...)
	for _, sec := range sections {
		r.Println(styles.Bold.Render(sec.title))
		render := func(s string) string { return s }
		switch {
		case sec.code && sec.good:
			render = func(s string) string { return styles.Success.Render(s) }
		case sec.code:
			render = func(s string) string { return styles.Muted.Render(s) }
		}
		for _, line := range strings.Split(sec.body, "\n") {
			r.Println(render("  " + line))
		}
		r.Println("")
	}
	return nil
}

func showRuleMarkdown(r *output.Renderer, rule *core.RuleInfo) error {
	r.Printf("# %s - %s\n\n", rule.ID, rule.Name)
	r.Printf("**Group:** %s | **Severity:** `%s`\n\n%s\n\n", rule.Group, rule.DefaultSeverity, rule.Description)

	for _, sec := range ruleSections(rule) {
		r.Printf("## %s\n\n", sec.title)
		if sec.code {
			r.Printf("```yaml\n%s\n```\n\n", strings.TrimRight(sec.body, "\n"))
			continue
		}
		r.Printf("%s\n\n", sec.body)
	}

	r.Printf("[Documentation](%s)\n", lint.BuildDocURL(rule.ID))
	return nil
}
