// ABOUTME: Entry point for the wenchang collection seeder.
// ABOUTME: Wires config, progress store, run log, and collector into CLI commands.

package main

import (
	"encoding/json"
	"fmt"
	"math/rand/v2"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/alandan97/wenchang-code/internal/collect"
	"github.com/alandan97/wenchang-code/internal/config"
	"github.com/alandan97/wenchang-code/internal/logging"
	"github.com/alandan97/wenchang-code/internal/progress"
	"github.com/alandan97/wenchang-code/internal/seed"
	"github.com/alandan97/wenchang-code/internal/store"
)

var (
	configPath string
	runlogPath string
	verbose    bool
	logFormat  string

	logger     *zap.Logger
	cfg        *config.Config
	stateStore *progress.Store
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "wenchang",
		Short: "Wenchang - scheduled collection seeder for the cultural-industry guide",
		Long: `Wenchang advances the guide's policy and case collections toward their targets.

Each run adds a random batch of policies (5-15) and cases (3-10), never
exceeding the targets, records the run in the progress file, and prints a
report. Run it hourly from cron; once both targets are met further runs add
nothing.

Quick Start:
  wenchang              # Run one collection pass
  wenchang status       # Show progress without collecting
  wenchang history      # List recent runs
  wenchang sample case  # Preview a generated record

Environment Variables:
  WENCHANG_REPORT_DIR       Directory holding the progress file
  WENCHANG_STATE_FILE       Progress file name (default: collection_progress.json)
  WENCHANG_RUNLOG_DB        SQLite run log path (disabled when empty)
  WENCHANG_TARGET_POLICIES  Policy target (default: 1000)
  WENCHANG_TARGET_CASES     Case target (default: 1000)
  WENCHANG_SEED             Fixed random seed (default: random)`,
		Args:              cobra.NoArgs,
		SilenceUsage:      true,
		PersistentPreRunE: setup,
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if logger != nil {
				_ = logger.Sync()
			}
		},
		RunE: runCollect,
	}
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "YAML config file")
	rootCmd.PersistentFlags().StringVar(&runlogPath, "runlog", "", "SQLite run log path (overrides WENCHANG_RUNLOG_DB)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging on stderr")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "json", "Log encoding: json or console")

	statusCmd := &cobra.Command{
		Use:   "status",
		Short: "Show collection progress without changing it",
		Args:  cobra.NoArgs,
		RunE:  runStatus,
	}

	historyCmd := &cobra.Command{
		Use:   "history",
		Short: "List recent collection runs, newest first",
		Long: `List recent collection runs, newest first.

Runs are read from the progress file. When a run log is configured
(--runlog or WENCHANG_RUNLOG_DB) they are read from the run log instead.`,
		Args: cobra.NoArgs,
		RunE: runHistory,
	}
	historyCmd.Flags().IntP("limit", "n", 10, "Number of runs to show (0 for all)")

	sampleCmd := &cobra.Command{
		Use:       "sample {policy|case}",
		Short:     "Print generated records as JSON without saving anything",
		Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{"policy", "case"},
		RunE:      runSample,
	}
	sampleCmd.Flags().IntP("count", "n", 1, "Number of records to generate")

	resetCmd := &cobra.Command{
		Use:   "reset",
		Short: "Reset progress to the default state",
		Long: `Overwrite the progress file with the default state (100 policies, 100 cases,
no sessions).

Warning: This discards the recorded session history! The run log, if any, is
left untouched.`,
		Args: cobra.NoArgs,
		RunE: runReset,
	}

	rootCmd.AddCommand(statusCmd, historyCmd, sampleCmd, resetCmd)
	return rootCmd
}

// setup loads configuration and makes sure the report directory exists
// before any command runs.
func setup(cmd *cobra.Command, args []string) error {
	var err error
	logger, err = logging.New(logging.Options{Verbose: verbose, Format: logFormat})
	if err != nil {
		return err
	}

	cfg, err = config.Load(configPath)
	if err != nil {
		logger.Error("failed to load config", zap.Error(err))
		return err
	}
	if runlogPath != "" {
		cfg.RunLogDB = runlogPath
	}

	statePath, err := validateAndCleanPath(cfg.StatePath())
	if err != nil {
		return err
	}
	stateStore = progress.NewStore(statePath, logger)

	if err := stateStore.EnsureDir(); err != nil {
		logger.Error("failed to prepare report directory", zap.Error(err))
		return err
	}
	return nil
}

// validateAndCleanPath validates and cleans a state or run log path.
// Handles Unix/Linux, macOS, and Windows paths (including drive letters).
func validateAndCleanPath(path string) (string, error) {
	cleanPath := strings.TrimSpace(path)
	if cleanPath == "" {
		return "", fmt.Errorf("path cannot be empty, '.', or '/'")
	}

	// Check for path traversal before Clean folds it away
	parts := splitPath(cleanPath)
	for _, part := range parts {
		if part == ".." {
			return "", fmt.Errorf("path cannot contain '..'")
		}
	}

	cleanPath = filepath.Clean(cleanPath)
	if cleanPath == "." || cleanPath == "/" {
		return "", fmt.Errorf("path cannot be empty, '.', or '/'")
	}

	// Windows: reject bare drive letters (e.g., "C:", "D:")
	if runtime.GOOS == "windows" && len(cleanPath) == 2 && cleanPath[1] == ':' {
		return "", fmt.Errorf("path cannot be a bare drive letter")
	}

	badDirs := []string{".git", ".svn", "node_modules"}
	for _, part := range parts {
		for _, dir := range badDirs {
			if strings.EqualFold(part, dir) {
				return "", fmt.Errorf("path cannot contain '%s' directory", dir)
			}
		}
	}

	return cleanPath, nil
}

func splitPath(path string) []string {
	return strings.FieldsFunc(path, func(r rune) bool { return r == '/' || r == '\\' })
}

func newRand(seedValue uint64) *rand.Rand {
	if seedValue == 0 {
		return rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return rand.New(rand.NewPCG(seedValue, seedValue))
}

func openRunLog() (*store.Store, error) {
	path, err := validateAndCleanPath(cfg.RunLogDB)
	if err != nil {
		return nil, fmt.Errorf("invalid run log path: %w", err)
	}
	s, err := store.New(path, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to open run log: %w", err)
	}
	return s, nil
}

func runCollect(cmd *cobra.Command, args []string) error {
	c := collect.New(stateStore, newRand(cfg.Seed), cfg.CollectOptions()).WithLogger(logger)

	if cfg.RunLogDB != "" {
		rl, err := openRunLog()
		if err != nil {
			return err
		}
		defer rl.Close()
		c.WithRunLog(rl)
	}

	report, err := c.Run(cmd.Context())
	if err != nil {
		logger.Error("collection pass failed", zap.Error(err))
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), report)
	return nil
}

func runStatus(cmd *cobra.Command, args []string) error {
	state, err := stateStore.Load()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, collect.Summary(state, cfg.CollectOptions()))

	if cfg.RunLogDB == "" {
		return nil
	}
	rl, err := openRunLog()
	if err != nil {
		return err
	}
	defer rl.Close()

	stats, err := rl.Stats(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to read run log: %w", err)
	}
	fmt.Fprintf(out, "   运行日志: %d 次 (空转 %d 次, 新增政策 %d 条, 新增案例 %d 个)\n",
		stats.TotalRuns, stats.IdleRuns, stats.PoliciesAdded, stats.CasesAdded)
	if stats.TotalRuns > 0 {
		const layout = "2006-01-02 15:04:05"
		fmt.Fprintf(out, "   首次运行: %s\n   最近运行: %s\n",
			stats.FirstRun.Local().Format(layout), stats.LastRun.Local().Format(layout))
	}
	return nil
}

func runHistory(cmd *cobra.Command, args []string) error {
	limit, _ := cmd.Flags().GetInt("limit")

	var sessions []progress.Session
	if cfg.RunLogDB != "" {
		rl, err := openRunLog()
		if err != nil {
			return err
		}
		defer rl.Close()

		runs, err := rl.RecentRuns(cmd.Context(), limit)
		if err != nil {
			return fmt.Errorf("failed to read run log: %w", err)
		}
		for _, run := range runs {
			sessions = append(sessions, run.Session())
		}
	} else {
		state, err := stateStore.Load()
		if err != nil {
			return err
		}
		sessions = state.RecentSessions(limit)
	}

	out := cmd.OutOrStdout()
	if len(sessions) == 0 {
		fmt.Fprintln(out, "No collection runs recorded yet")
		return nil
	}
	for _, s := range sessions {
		fmt.Fprintf(out, "%s  政策 +%d (%d)  案例 +%d (%d)\n",
			s.Time.Format("2006-01-02 15:04:05"), s.PoliciesAdded, s.PoliciesTotal, s.CasesAdded, s.CasesTotal)
	}
	return nil
}

func runSample(cmd *cobra.Command, args []string) error {
	count, _ := cmd.Flags().GetInt("count")
	if count <= 0 {
		return fmt.Errorf("count must be positive")
	}

	gen := seed.NewGenerator(newRand(cfg.Seed), nil)
	var records any
	switch args[0] {
	case "policy":
		records = gen.Policies(count)
	case "case":
		records = gen.Cases(count)
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	return enc.Encode(records)
}

func runReset(cmd *cobra.Command, args []string) error {
	state, err := stateStore.Reset()
	if err != nil {
		return err
	}
	logger.Warn("progress reset", zap.String("path", stateStore.Path()))
	fmt.Fprintf(cmd.OutOrStdout(), "Progress reset to %d policies, %d cases: %s\n",
		state.PoliciesCount, state.CasesCount, stateStore.Path())
	return nil
}
