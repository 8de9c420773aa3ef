package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/noah-isme/orderreport/internal/config"
	"github.com/noah-isme/orderreport/internal/report"
)

func newRunCmd() *cobra.Command {
	var (
		src        sourceFlags
		outputJSON string
		outputText string
		noJSON     bool
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Price all orders and print the report",
		Long:  "Load the input tables, price every order, print the report to stdout and write the JSON export.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			src.apply(cfg)
			if outputJSON != "" {
				cfg.OutputJSON = outputJSON
			}
			if outputText != "" {
				cfg.OutputText = outputText
			}

			logger := newLogger(cmd, cfg)
			stopTracing := startTracing(cmd.Context(), cfg, logger)
			defer stopTracing()

			svc, err := newService(cfg, logger, nil)
			if err != nil {
				return err
			}
			rep, err := svc.Run(cmd.Context())
			if err != nil {
				return fmt.Errorf("report run: %w", err)
			}

			if !noJSON {
				if err := writeFile(cfg.JSONExportPath(), func(f *os.File) error {
					return report.WriteJSON(f, rep.Rows())
				}); err != nil {
					return err
				}
				logger.Debug().Str("path", cfg.JSONExportPath()).Msg("json export written")
			}
			if cfg.OutputText != "" {
				if err := writeFile(cfg.OutputText, func(f *os.File) error {
					return report.WriteText(f, rep)
				}); err != nil {
					return err
				}
			}
			return report.WriteText(cmd.OutOrStdout(), rep)
		},
	}

	src.bind(cmd)
	cmd.Flags().StringVarP(&outputJSON, "output", "o", "", "path of the JSON export (default output.json next to the data directory)")
	cmd.Flags().StringVar(&outputText, "text-output", "", "also write the report text to this file")
	cmd.Flags().BoolVar(&noJSON, "no-json", false, "skip writing the JSON export")
	return cmd
}

func writeFile(path string, write func(*os.File) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := write(f); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close %s: %w", path, err)
	}
	return nil
}
