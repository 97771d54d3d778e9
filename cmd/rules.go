package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vanguardsec/vanguard-cli/internal/knowledge"
	"github.com/vanguardsec/vanguard-cli/internal/scanner"
)

var rulesCmd = &cobra.Command{
	Use:   "rules",
	Short: "Work with fingerprint rule files and the finding catalog",
}

var rulesLintCmd = &cobra.Command{
	Use:   "lint <file>",
	Short: "Validate a YAML fingerprint rules file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		rules, err := scanner.LoadRules(args[0])
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s %d rule(s) loaded from %s\n",
			colorSuccess("OK:"), len(rules), args[0])
		return nil
	},
}

var rulesCatalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "List every finding the scanner can report",
	Run: func(cmd *cobra.Command, args []string) {
		w := cmd.OutOrStdout()
		for _, code := range knowledge.Codes() {
			detail, _ := knowledge.Lookup(code)
			fmt.Fprintf(w, "%s %-24s %-10s %s\n",
				renderSeverity(detail.Severity), detail.Code, detail.Category, detail.Title)
		}
	},
}

func init() {
	rulesCmd.AddCommand(rulesLintCmd)
	rulesCmd.AddCommand(rulesCatalogCmd)
}
