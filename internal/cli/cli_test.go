package cli_test

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/orderreport/internal/cli"
	"github.com/noah-isme/orderreport/internal/pricing"
	"github.com/noah-isme/orderreport/internal/source"
)

var fixtureDir = filepath.Join("..", "report", "testdata")

// isolate clears every variable the commands read so the host environment
// cannot leak into a run.
func isolate(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"APP_ENV", "REPORT_DATA_DIR", "REPORT_OUTPUT_JSON", "REPORT_OUTPUT_TEXT", "REPORT_RULES_FILE",
		"REPORT_DELIMITER", "OBS_LOG_FORMAT", "OBS_ENABLE_TRACING", "OBS_TRACING_SAMPLING_RATIO",
	} {
		t.Setenv(k, "")
	}
	t.Setenv("OBS_LOG_LEVEL", "info")
}

func golden(t *testing.T, name string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(fixtureDir, name))
	require.NoError(t, err)
	return string(data)
}

func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	cmd := cli.NewRootCmdForTest()
	stdout, stderr := new(bytes.Buffer), new(bytes.Buffer)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func TestRunCommand_Golden(t *testing.T) {
	isolate(t)
	out := filepath.Join(t.TempDir(), "rows.json")

	stdout, stderr, err := execute(t, "run", "--data-dir", filepath.Join(fixtureDir, "data"), "--output", out)
	require.NoError(t, err)

	assert.Equal(t, golden(t, "report.golden.txt")+"\n", stdout)
	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, golden(t, "rows.golden.json"), string(data))
	assert.Contains(t, stderr, "report run completed")
}

func TestRunCommand_DefaultExportPath(t *testing.T) {
	isolate(t)
	root := t.TempDir()
	dataDir := filepath.Join(root, "data")
	require.NoError(t, os.Mkdir(dataDir, 0o755))
	entries, err := os.ReadDir(filepath.Join(fixtureDir, "data"))
	require.NoError(t, err)
	for _, e := range entries {
		data, err := os.ReadFile(filepath.Join(fixtureDir, "data", e.Name()))
		require.NoError(t, err)
		require.NoError(t, os.WriteFile(filepath.Join(dataDir, e.Name()), data, 0o644))
	}
	textOut := filepath.Join(root, "report.txt")

	_, _, err = execute(t, "run", "--data-dir", dataDir, "--text-output", textOut)
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(root, "output.json"))
	require.NoError(t, err)
	assert.Equal(t, golden(t, "rows.golden.json"), string(data))
	text, err := os.ReadFile(textOut)
	require.NoError(t, err)
	assert.Equal(t, golden(t, "report.golden.txt")+"\n", string(text))
}

func TestRunCommand_NoJSON(t *testing.T) {
	isolate(t)
	out := filepath.Join(t.TempDir(), "rows.json")

	_, _, err := execute(t, "run", "--data-dir", filepath.Join(fixtureDir, "data"), "--output", out, "--no-json")
	require.NoError(t, err)
	_, err = os.Stat(out)
	assert.True(t, os.IsNotExist(err))
}

func TestRunCommand_MissingSource(t *testing.T) {
	isolate(t)
	dir := t.TempDir()

	stdout, _, err := execute(t, "run", "--data-dir", dir, "--no-json")
	require.Error(t, err)
	assert.ErrorIs(t, err, source.ErrRequiredSource)
	assert.Empty(t, stdout)
}

func TestRunCommand_RejectsArgs(t *testing.T) {
	isolate(t)
	_, _, err := execute(t, "run", "extra")
	require.Error(t, err)
}

func TestRulesCommand_Defaults(t *testing.T) {
	isolate(t)

	stdout, _, err := execute(t, "rules")
	require.NoError(t, err)

	rules, err := pricing.ParseRules([]byte(stdout))
	require.NoError(t, err, "rules output should be a valid rules file")
	assert.Equal(t, pricing.DefaultRules(), rules)
}

func TestRulesCommand_File(t *testing.T) {
	isolate(t)
	path := filepath.Join(t.TempDir(), "rules.yaml")
	require.NoError(t, os.WriteFile(path, []byte("tax_rate: 0.2\n"), 0o644))

	stdout, _, err := execute(t, "rules", "--rules", path)
	require.NoError(t, err)
	assert.Contains(t, stdout, "tax_rate: 0.2\n")
}

func TestRulesCommand_Invalid(t *testing.T) {
	isolate(t)
	path := filepath.Join(t.TempDir(), "rules.yaml")
	require.NoError(t, os.WriteFile(path, []byte("tax_rate: 2\n"), 0o644))
	t.Setenv("REPORT_RULES_FILE", path)

	_, _, err := execute(t, "rules")
	require.Error(t, err)
}

func TestVersionCommand(t *testing.T) {
	stdout, _, err := execute(t, "version")
	require.NoError(t, err)
	assert.Contains(t, stdout, "orderreport dev")
}
