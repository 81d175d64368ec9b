// ABOUTME: Layered configuration for the collector: defaults, YAML, .env, environment.
// ABOUTME: Validates targets and batch ranges and resolves the progress file path.

// Package config resolves collector settings from built-in defaults, an
// optional YAML file, .env files and WENCHANG_* environment variables, in
// that order of precedence (later wins).
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/alandan97/wenchang-code/internal/collect"
)

// Built-in locations of the report directory and progress file.
const (
	DefaultReportDir = "/root/.openclaw/workspace/wenlu-app/reports"
	DefaultStateFile = "collection_progress.json"
)

// DotEnvFiles are loaded, when present, before environment overrides apply.
// Variables already set in the process environment are never replaced.
var DotEnvFiles = []string{".env"}

// Range is an inclusive batch size range.
type Range struct {
	Min int `yaml:"min"`
	Max int `yaml:"max"`
}

// Targets are the counts a collection run converges on.
type Targets struct {
	Policies int `yaml:"policies"`
	Cases    int `yaml:"cases"`
}

// Config holds every collector setting.
type Config struct {
	ReportDir       string  `yaml:"report_dir"`
	StateFile       string  `yaml:"state_file"`
	RunLogDB        string  `yaml:"runlog_db"`
	Targets         Targets `yaml:"targets"`
	PolicyBatch     Range   `yaml:"policy_batch"`
	CaseBatch       Range   `yaml:"case_batch"`
	HourlyRate      int     `yaml:"hourly_rate"`
	AnalysisSamples int     `yaml:"analysis_samples"`

	// Seed fixes the random source when non-zero.
	Seed uint64 `yaml:"seed"`
}

// Default returns the built-in configuration.
func Default() *Config {
	opts := collect.DefaultOptions()
	return &Config{
		ReportDir:       DefaultReportDir,
		StateFile:       DefaultStateFile,
		Targets:         Targets{Policies: opts.TargetPolicies, Cases: opts.TargetCases},
		PolicyBatch:     Range{Min: opts.PolicyBatch.Min, Max: opts.PolicyBatch.Max},
		CaseBatch:       Range{Min: opts.CaseBatch.Min, Max: opts.CaseBatch.Max},
		HourlyRate:      opts.HourlyRate,
		AnalysisSamples: opts.AnalysisSamples,
	}
}

// Load builds the configuration. An empty path skips the YAML layer; a
// path that does not exist is treated the same way.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case os.IsNotExist(err):
		case err != nil:
			return nil, fmt.Errorf("failed to read config: %w", err)
		default:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config: %w", err)
			}
		}
	}

	loadDotEnv()

	if err := cfg.applyEnvOverrides(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func loadDotEnv() {
	for _, p := range DotEnvFiles {
		// Missing files are expected.
		_ = godotenv.Load(p)
	}
}

func (c *Config) applyEnvOverrides() error {
	if v, ok := lookupEnv("WENCHANG_REPORT_DIR"); ok {
		c.ReportDir = v
	}
	if v, ok := lookupEnv("WENCHANG_STATE_FILE"); ok {
		c.StateFile = v
	}
	if v, ok := lookupEnv("WENCHANG_RUNLOG_DB"); ok {
		c.RunLogDB = v
	}

	ints := []struct {
		key string
		dst *int
	}{
		{"WENCHANG_TARGET_POLICIES", &c.Targets.Policies},
		{"WENCHANG_TARGET_CASES", &c.Targets.Cases},
		{"WENCHANG_HOURLY_RATE", &c.HourlyRate},
	}
	for _, e := range ints {
		v, ok := lookupEnv(e.key)
		if !ok {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s must be an integer: %w", e.key, err)
		}
		*e.dst = n
	}

	if v, ok := lookupEnv("WENCHANG_SEED"); ok {
		n, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return fmt.Errorf("WENCHANG_SEED must be an unsigned integer: %w", err)
		}
		c.Seed = n
	}
	return nil
}

// lookupEnv treats blank values as unset.
func lookupEnv(key string) (string, bool) {
	v, ok := os.LookupEnv(key)
	v = strings.TrimSpace(v)
	return v, ok && v != ""
}

// Validate checks targets, batch ranges and paths.
func (c *Config) Validate() error {
	if c.ReportDir == "" {
		return fmt.Errorf("report_dir cannot be empty")
	}
	if c.StateFile == "" {
		return fmt.Errorf("state_file cannot be empty")
	}
	if c.Targets.Policies <= 0 || c.Targets.Cases <= 0 {
		return fmt.Errorf("targets must be positive (policies=%d, cases=%d)", c.Targets.Policies, c.Targets.Cases)
	}
	for name, r := range map[string]Range{"policy_batch": c.PolicyBatch, "case_batch": c.CaseBatch} {
		if r.Min <= 0 || r.Max < r.Min {
			return fmt.Errorf("%s must satisfy 0 < min <= max (min=%d, max=%d)", name, r.Min, r.Max)
		}
	}
	if c.HourlyRate <= 0 {
		return fmt.Errorf("hourly_rate must be positive")
	}
	if c.AnalysisSamples < 0 {
		return fmt.Errorf("analysis_samples cannot be negative")
	}
	return nil
}

// StatePath returns the full path of the progress file.
func (c *Config) StatePath() string {
	if filepath.IsAbs(c.StateFile) {
		return c.StateFile
	}
	return filepath.Join(c.ReportDir, c.StateFile)
}

// CollectOptions converts the configuration into collector options.
func (c *Config) CollectOptions() collect.Options {
	return collect.Options{
		TargetPolicies:  c.Targets.Policies,
		TargetCases:     c.Targets.Cases,
		PolicyBatch:     collect.Batch{Min: c.PolicyBatch.Min, Max: c.PolicyBatch.Max},
		CaseBatch:       collect.Batch{Min: c.CaseBatch.Min, Max: c.CaseBatch.Max},
		HourlyRate:      c.HourlyRate,
		AnalysisSamples: c.AnalysisSamples,
	}
}
