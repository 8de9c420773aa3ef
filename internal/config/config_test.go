package config_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/noah-isme/orderreport/internal/config"
)

var reportKeys = []string{
	"APP_ENV", "PORT", "CORS_ALLOWED_ORIGINS",
	"REPORT_DATA_DIR", "REPORT_OUTPUT_JSON", "REPORT_OUTPUT_TEXT", "REPORT_RULES_FILE", "REPORT_DELIMITER",
	"OBS_LOG_FORMAT", "OBS_LOG_LEVEL", "OBS_METRICS_NAMESPACE", "OBS_METRICS_BUCKETS_MS", "OBS_ENABLE_TRACING",
	"OBS_OTLP_ENDPOINT", "OBS_TRACING_SAMPLING_RATIO", "OBS_TRACING_EXPORTER",
	"SECURITY_HSTS", "SECURITY_HSTS_MAX_AGE",
}

func cleared(overrides map[string]string) map[string]string {
	env := make(map[string]string, len(reportKeys))
	for _, k := range reportKeys {
		env[k] = ""
	}
	for k, v := range overrides {
		env[k] = v
	}
	return env
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := config.LoadForTests(cleared(nil))
	require.NoError(t, err)

	require.Equal(t, "development", cfg.AppEnv)
	require.Equal(t, ":8080", cfg.HTTPAddr())
	require.Equal(t, "./data", cfg.DataDir)
	require.Empty(t, cfg.OutputJSON)
	require.Equal(t, "output.json", cfg.JSONExportPath())
	require.Empty(t, cfg.OutputText)
	require.Empty(t, cfg.RulesFile)
	require.Equal(t, ",", cfg.Delimiter)
	require.Equal(t, []string{"*"}, cfg.AllowedOrigins())
	require.Equal(t, config.Obs{
		LogFormat:        "json",
		LogLevel:         "info",
		MetricsNamespace: "orderreport",
		TracingExporter:  "otlp",
		SamplingRatio:    1.0,
	}, cfg.Obs)
}

func TestLoadOverrides(t *testing.T) {
	cfg, err := config.LoadForTests(cleared(map[string]string{
		"PORT":                       ":9090",
		"REPORT_DATA_DIR":            "/srv/report/data",
		"REPORT_OUTPUT_TEXT":         "/srv/report/report.txt",
		"REPORT_RULES_FILE":          "rules.yaml",
		"REPORT_DELIMITER":           ";",
		"CORS_ALLOWED_ORIGINS":       "https://a.example, ,https://b.example",
		"OBS_ENABLE_TRACING":         "yes",
		"OBS_TRACING_SAMPLING_RATIO": "0.25",
		"SECURITY_HSTS":              "true",
		"SECURITY_HSTS_MAX_AGE":      "600",
	}))
	require.NoError(t, err)

	require.Equal(t, ":9090", cfg.HTTPAddr())
	require.Equal(t, filepath.Join("/srv/report", "output.json"), cfg.JSONExportPath())

	cfg.OutputJSON = "/tmp/rows.json"
	require.Equal(t, "/tmp/rows.json", cfg.JSONExportPath())
	require.Equal(t, "/srv/report/report.txt", cfg.OutputText)
	require.Equal(t, "rules.yaml", cfg.RulesFile)
	require.Equal(t, ";", cfg.Delimiter)
	require.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.AllowedOrigins())
	require.True(t, cfg.Obs.EnableTracing)
	require.Equal(t, 0.25, cfg.Obs.SamplingRatio)
	require.Equal(t, config.Security{HSTS: true, HSTSMaxAge: 600}, cfg.Security)
}

func TestLoadRejectsSamplingRatio(t *testing.T) {
	_, err := config.LoadForTests(cleared(map[string]string{"OBS_TRACING_SAMPLING_RATIO": "1.5"}))
	require.Error(t, err)
}
