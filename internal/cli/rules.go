package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/sirkon/protoguard/internal/pgrules"
	"github.com/sirkon/protoguard/internal/rules"
)

type rulesOptions struct {
	format string
}

type ruleInfo struct {
	Code        string `json:"code"`
	Name        string `json:"name"`
	Set         string `json:"set"`
	Severity    string `json:"severity"`
	Description string `json:"description"`
}

func newRulesCommand(global *globalOptions) *cobra.Command {
	opts := &rulesOptions{}
	cmd := &cobra.Command{
		Use:   "rules [rule]",
		Short: "List rules",
		Long: `List every rule with its code, rule set, default severity and description.
A rule can be selected by its code or name.`,
		Example: `  # List all rules
  protoguard rules

  # Show a single rule
  protoguard rules PG152`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			infos := ruleInfos()
			if len(args) > 0 {
				var rule pgrules.Rule
				if err := rule.UnmarshalText([]byte(args[0])); err != nil {
					return err
				}
				infos = filterRule(infos, rule)
			}

			switch opts.format {
			case formatJSON:
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(infos)
			case formatTable, "":
				renderRules(cmd.OutOrStdout(), infos, global.noColor)
				return nil
			default:
				return fmt.Errorf("unknown output format %q", opts.format)
			}
		},
	}

	cmd.Flags().StringVarP(&opts.format, "format", "f", formatTable, "output format: table, json")

	return cmd
}

func ruleInfos() []ruleInfo {
	sets := map[pgrules.Rule]string{}
	for _, set := range rules.RuleSets() {
		for _, rc := range set.Checks {
			sets[rc.Rule] = set.Name
		}
	}

	var res []ruleInfo
	for _, r := range pgrules.All() {
		set, ok := sets[r]
		if !ok {
			// produced while extracting facts
			set = "extraction"
		}
		res = append(res, ruleInfo{
			Code:        r.Code(),
			Name:        r.Name(),
			Set:         set,
			Severity:    r.DefaultSeverity().String(),
			Description: r.Description(),
		})
	}

	return res
}

func filterRule(infos []ruleInfo, rule pgrules.Rule) []ruleInfo {
	for _, info := range infos {
		if strings.EqualFold(info.Code, rule.Code()) {
			return []ruleInfo{info}
		}
	}

	return nil
}

func renderRules(w io.Writer, infos []ruleInfo, noColor bool) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Code", "Name", "Set", "Severity", "Description"})
	for _, info := range infos {
		var sev pgrules.Severity
		_ = sev.UnmarshalText([]byte(info.Severity))
		t.AppendRow(table.Row{
			info.Code,
			info.Name,
			info.Set,
			severityColor(sev, noColor).Sprint(info.Severity),
			info.Description,
		})
	}
	t.Render()
}
