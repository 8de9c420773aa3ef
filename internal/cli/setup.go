package cli

import (
	"context"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/noah-isme/orderreport/internal/config"
	"github.com/noah-isme/orderreport/internal/obs"
	"github.com/noah-isme/orderreport/internal/pricing"
	"github.com/noah-isme/orderreport/internal/report"
	"github.com/noah-isme/orderreport/internal/source"
)

// sourceFlags are the overrides shared by every command that reads the tables.
type sourceFlags struct {
	dataDir   string
	rulesFile string
	delimiter string
}

func (f *sourceFlags) bind(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.dataDir, "data-dir", "", "directory holding the input tables (default $REPORT_DATA_DIR)")
	cmd.Flags().StringVar(&f.rulesFile, "rules", "", "YAML pricing rules file (default $REPORT_RULES_FILE)")
	cmd.Flags().StringVar(&f.delimiter, "delimiter", "", "field delimiter of the input tables (default $REPORT_DELIMITER)")
}

func (f *sourceFlags) apply(cfg *config.Config) {
	if f.dataDir != "" {
		cfg.DataDir = f.dataDir
	}
	if f.rulesFile != "" {
		cfg.RulesFile = f.rulesFile
	}
	if f.delimiter != "" {
		cfg.Delimiter = f.delimiter
	}
}

func newLogger(cmd *cobra.Command, cfg *config.Config) zerolog.Logger {
	return obs.NewLogger(cfg.Obs.LogFormat, cfg.Obs.LogLevel, cmd.ErrOrStderr()).
		With().Str("env", cfg.AppEnv).Logger()
}

// startTracing installs the OTLP tracer provider when enabled. The returned
// function flushes it and is always safe to call.
func startTracing(ctx context.Context, cfg *config.Config, logger zerolog.Logger) func() {
	if !cfg.Obs.EnableTracing {
		return func() {}
	}
	shutdown, err := obs.InitTracer(ctx, obs.TracingConfig{
		ServiceName:   "orderreport",
		Endpoint:      cfg.Obs.OTLPEndpoint,
		Exporter:      cfg.Obs.TracingExporter,
		SamplingRatio: cfg.Obs.SamplingRatio,
		Environment:   cfg.AppEnv,
	})
	if err != nil {
		logger.Error().Err(err).Msg("initialise tracing")
		return func() {}
	}
	return func() {
		if err := shutdown(context.Background()); err != nil {
			logger.Error().Err(err).Msg("shutdown tracer")
		}
	}
}

func newService(cfg *config.Config, logger zerolog.Logger, metrics *obs.ReportMetrics) (*report.Service, error) {
	rules, err := pricing.LoadRules(cfg.RulesFile)
	if err != nil {
		return nil, err
	}
	loader := source.NewLoader(source.OSReader{Dir: cfg.DataDir})
	loader.Delimiter = cfg.Delimiter
	loader.Logger = logger

	svc := report.NewService(loader, rules)
	svc.Logger = logger
	svc.Metrics = metrics
	return svc, nil
}
