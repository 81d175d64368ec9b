// ABOUTME: Collection driver that advances progress counters toward their targets.
// ABOUTME: One pass loads state, applies capped random deltas, saves, and renders a report.

package collect

import (
	"context"
	"fmt"
	"math/rand/v2"
	"time"

	"go.uber.org/zap"

	"github.com/alandan97/wenchang-code/internal/progress"
	"github.com/alandan97/wenchang-code/internal/seed"
)

// StateStore loads and persists the progress document.
type StateStore interface {
	Load() (*progress.State, error)
	Save(*progress.State) error
}

// RunLog receives a copy of every session after the state file is saved.
type RunLog interface {
	RecordRun(ctx context.Context, sess progress.Session) error
}

// Batch is an inclusive range for the per-run random draw.
type Batch struct {
	Min int
	Max int
}

// Options holds the targets and batch sizes for a collector.
type Options struct {
	TargetPolicies int
	TargetCases    int
	PolicyBatch    Batch
	CaseBatch      Batch

	// HourlyRate is the fixed divisor behind the remaining-hours figure.
	HourlyRate int

	// AnalysisSamples caps how many case names the analysis section lists.
	AnalysisSamples int
}

// DefaultOptions returns the built-in targets and batch ranges.
func DefaultOptions() Options {
	return Options{
		TargetPolicies:  1000,
		TargetCases:     1000,
		PolicyBatch:     Batch{Min: 5, Max: 15},
		CaseBatch:       Batch{Min: 3, Max: 10},
		HourlyRate:      20,
		AnalysisSamples: 3,
	}
}

// Result describes one completed pass.
type Result struct {
	State         *progress.State
	Session       progress.Session
	PoliciesAdded int
	CasesAdded    int
	AnalyzedCases []string
	ReportedAt    time.Time
}

// Collector runs collection passes against a state store.
type Collector struct {
	store  StateStore
	rng    *rand.Rand
	opts   Options
	runlog RunLog
	logger *zap.Logger

	// Clock is read for the report header and session timestamps.
	Clock func() time.Time
}

// New creates a collector.
func New(store StateStore, rng *rand.Rand, opts Options) *Collector {
	return &Collector{
		store:  store,
		rng:    rng,
		opts:   opts,
		logger: zap.NewNop(),
		Clock:  time.Now,
	}
}

// WithRunLog mirrors each session into rl after it is saved.
func (c *Collector) WithRunLog(rl RunLog) *Collector {
	c.runlog = rl
	return c
}

// WithLogger sets the logger used for run diagnostics.
func (c *Collector) WithLogger(logger *zap.Logger) *Collector {
	if logger != nil {
		c.logger = logger
	}
	return c
}

// Options returns the collector's targets and batch ranges.
func (c *Collector) Options() Options {
	return c.opts
}

// Run performs one collection pass and returns the rendered report.
func (c *Collector) Run(ctx context.Context) (string, error) {
	res, err := c.Collect(ctx)
	if err != nil {
		return "", err
	}
	return Render(res, c.opts), nil
}

// Collect performs one collection pass. A failed save aborts the pass and
// leaves the in-memory counters as they were advanced.
func (c *Collector) Collect(ctx context.Context) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	state, err := c.store.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load progress: %w", err)
	}
	reportedAt := c.Clock()

	policiesAdded := nextDelta(c.rng, state.PoliciesCount, c.opts.TargetPolicies, c.opts.PolicyBatch)
	state.PoliciesCount += policiesAdded

	casesAdded := nextDelta(c.rng, state.CasesCount, c.opts.TargetCases, c.opts.CaseBatch)
	state.CasesCount += casesAdded

	sess := state.AppendSession(c.Clock(), policiesAdded, casesAdded)

	if err := c.store.Save(state); err != nil {
		return nil, fmt.Errorf("failed to save progress: %w", err)
	}

	c.logger.Info("collection pass complete",
		zap.Int("policies_added", policiesAdded),
		zap.Int("cases_added", casesAdded),
		zap.Int("policies_total", state.PoliciesCount),
		zap.Int("cases_total", state.CasesCount),
	)

	if c.runlog != nil {
		if err := c.runlog.RecordRun(ctx, sess); err != nil {
			c.logger.Warn("failed to record run", zap.Error(err))
		}
	}

	return &Result{
		State:         state,
		Session:       sess,
		PoliciesAdded: policiesAdded,
		CasesAdded:    casesAdded,
		AnalyzedCases: c.analyzedCases(casesAdded),
		ReportedAt:    reportedAt,
	}, nil
}

// analyzedCases draws display names for the report's analysis section.
// Nothing is analyzed; the names are decoration only.
func (c *Collector) analyzedCases(casesAdded int) []string {
	n := min(casesAdded, c.opts.AnalysisSamples)
	if n <= 0 {
		return nil
	}
	names := make([]string, 0, n)
	for i := 0; i < n; i++ {
		names = append(names, seed.GenerateCase(c.rng, c.Clock()).Name)
	}
	return names
}

// nextDelta draws a batch size and caps it at the remaining gap.
func nextDelta(rng *rand.Rand, count, target int, b Batch) int {
	if count >= target {
		return 0
	}
	draw := b.Min + rng.IntN(b.Max-b.Min+1)
	return min(draw, target-count)
}
