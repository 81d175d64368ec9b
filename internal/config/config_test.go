// ABOUTME: Tests for configuration layering and validation.
// ABOUTME: Covers YAML files, .env loading, environment overrides, and bad input.

package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func isolate(t *testing.T) {
	t.Helper()
	orig := DotEnvFiles
	DotEnvFiles = nil
	t.Cleanup(func() { DotEnvFiles = orig })

	for _, key := range []string{
		"WENCHANG_REPORT_DIR", "WENCHANG_STATE_FILE", "WENCHANG_RUNLOG_DB",
		"WENCHANG_TARGET_POLICIES", "WENCHANG_TARGET_CASES", "WENCHANG_HOURLY_RATE", "WENCHANG_SEED",
	} {
		t.Setenv(key, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	isolate(t)

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, DefaultReportDir, cfg.ReportDir)
	assert.Equal(t, filepath.Join(DefaultReportDir, DefaultStateFile), cfg.StatePath())
	assert.Equal(t, 1000, cfg.Targets.Policies)
	assert.Equal(t, 1000, cfg.Targets.Cases)
	assert.Equal(t, Range{Min: 5, Max: 15}, cfg.PolicyBatch)
	assert.Equal(t, Range{Min: 3, Max: 10}, cfg.CaseBatch)
	assert.Equal(t, 20, cfg.HourlyRate)
	assert.Empty(t, cfg.RunLogDB)
	assert.Zero(t, cfg.Seed)
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	isolate(t)

	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_YAMLFile(t *testing.T) {
	isolate(t)

	path := filepath.Join(t.TempDir(), "wenchang.yaml")
	doc := `report_dir: /tmp/wenchang
targets:
  policies: 500
  cases: 200
case_batch:
  min: 1
  max: 4
seed: 99
`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/tmp/wenchang", cfg.ReportDir)
	assert.Equal(t, DefaultStateFile, cfg.StateFile)
	assert.Equal(t, 500, cfg.Targets.Policies)
	assert.Equal(t, 200, cfg.Targets.Cases)
	assert.Equal(t, Range{Min: 1, Max: 4}, cfg.CaseBatch)
	assert.Equal(t, Range{Min: 5, Max: 15}, cfg.PolicyBatch)
	assert.Equal(t, uint64(99), cfg.Seed)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	isolate(t)

	path := filepath.Join(t.TempDir(), "wenchang.yaml")
	require.NoError(t, os.WriteFile(path, []byte("targets:\n  policies: 500\n  cases: 500\n"), 0644))

	t.Setenv("WENCHANG_TARGET_POLICIES", "750")
	t.Setenv("WENCHANG_REPORT_DIR", "/srv/reports")
	t.Setenv("WENCHANG_RUNLOG_DB", "/srv/reports/runs.db")
	t.Setenv("WENCHANG_SEED", "12345")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 750, cfg.Targets.Policies)
	assert.Equal(t, 500, cfg.Targets.Cases)
	assert.Equal(t, "/srv/reports", cfg.ReportDir)
	assert.Equal(t, "/srv/reports/runs.db", cfg.RunLogDB)
	assert.Equal(t, uint64(12345), cfg.Seed)
}

func TestLoad_DotEnvFile(t *testing.T) {
	isolate(t)

	dir := t.TempDir()
	envPath := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(envPath, []byte("WENCHANG_TARGET_CASES=321\n"), 0644))
	DotEnvFiles = []string{envPath}

	// The process environment wins over .env; clear our blank placeholder first.
	require.NoError(t, os.Unsetenv("WENCHANG_TARGET_CASES"))
	t.Cleanup(func() { os.Unsetenv("WENCHANG_TARGET_CASES") })

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 321, cfg.Targets.Cases)
}

func TestLoad_InvalidEnv(t *testing.T) {
	isolate(t)
	t.Setenv("WENCHANG_TARGET_CASES", "lots")

	_, err := Load("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "WENCHANG_TARGET_CASES")
}

func TestLoad_MalformedYAML(t *testing.T) {
	isolate(t)

	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("targets: [unclosed"), 0644))

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse config")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		errMsg string
	}{
		{name: "zero policy target", mutate: func(c *Config) { c.Targets.Policies = 0 }, errMsg: "targets must be positive"},
		{name: "negative case target", mutate: func(c *Config) { c.Targets.Cases = -1 }, errMsg: "targets must be positive"},
		{name: "inverted policy batch", mutate: func(c *Config) { c.PolicyBatch = Range{Min: 9, Max: 2} }, errMsg: "policy_batch"},
		{name: "zero case batch", mutate: func(c *Config) { c.CaseBatch = Range{Min: 0, Max: 3} }, errMsg: "case_batch"},
		{name: "zero hourly rate", mutate: func(c *Config) { c.HourlyRate = 0 }, errMsg: "hourly_rate"},
		{name: "empty report dir", mutate: func(c *Config) { c.ReportDir = "" }, errMsg: "report_dir"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}

	assert.NoError(t, Default().Validate())
}

func TestStatePath_Absolute(t *testing.T) {
	cfg := Default()
	cfg.StateFile = "/var/lib/wenchang/progress.json"
	assert.Equal(t, "/var/lib/wenchang/progress.json", cfg.StatePath())
}

func TestCollectOptions(t *testing.T) {
	cfg := Default()
	cfg.Targets.Cases = 40

	opts := cfg.CollectOptions()
	assert.Equal(t, 1000, opts.TargetPolicies)
	assert.Equal(t, 40, opts.TargetCases)
	assert.Equal(t, 15, opts.PolicyBatch.Max)
	assert.Equal(t, 3, opts.AnalysisSamples)
}
