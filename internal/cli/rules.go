package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/noah-isme/orderreport/internal/config"
	"github.com/noah-isme/orderreport/internal/pricing"
)

func newRulesCmd() *cobra.Command {
	var rulesFile string

	cmd := &cobra.Command{
		Use:   "rules",
		Short: "Print the effective pricing rules as YAML",
		Long:  "Validate the rules file, merge it over the built-in defaults and print the result. The output is itself a valid rules file.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			if rulesFile != "" {
				cfg.RulesFile = rulesFile
			}
			rules, err := pricing.LoadRules(cfg.RulesFile)
			if err != nil {
				return err
			}
			data, err := rules.YAML()
			if err != nil {
				return fmt.Errorf("render rules: %w", err)
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}
	cmd.Flags().StringVar(&rulesFile, "rules", "", "YAML pricing rules file (default $REPORT_RULES_FILE)")
	return cmd
}
