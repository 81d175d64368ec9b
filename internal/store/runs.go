// ABOUTME: Collection run storage operations.
// ABOUTME: Mirrors progress sessions into SQLite and answers history queries.

package store

import (
	"context"
	"fmt"
	"time"

	"github.com/alandan97/wenchang-code/internal/progress"
)

// runAtLayout is fixed-width UTC so lexical order matches time order.
const runAtLayout = "2006-01-02T15:04:05.000000Z"

// Run is one recorded collection pass.
type Run struct {
	ID            int64
	RunAt         time.Time
	PoliciesAdded int
	CasesAdded    int
	PoliciesTotal int
	CasesTotal    int
}

// Session converts the run back into a progress session.
func (r *Run) Session() progress.Session {
	return progress.Session{
		Time:          progress.Timestamp{Time: r.RunAt.Local()},
		PoliciesAdded: r.PoliciesAdded,
		CasesAdded:    r.CasesAdded,
		PoliciesTotal: r.PoliciesTotal,
		CasesTotal:    r.CasesTotal,
	}
}

// RunStats represents aggregate statistics across all recorded runs
type RunStats struct {
	TotalRuns     int
	IdleRuns      int
	PoliciesAdded int
	CasesAdded    int
	FirstRun      time.Time
	LastRun       time.Time
}

// RecordRun inserts a run for the given session
func (s *Store) RecordRun(ctx context.Context, sess progress.Session) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO collection_runs (run_at, policies_added, cases_added, policies_total, cases_total)
		VALUES (?, ?, ?, ?, ?)
	`, sess.Time.UTC().Format(runAtLayout), sess.PoliciesAdded, sess.CasesAdded, sess.PoliciesTotal, sess.CasesTotal)
	if err != nil {
		return fmt.Errorf("failed to record run: %w", err)
	}
	return nil
}

// RecentRuns returns up to limit runs, newest first
func (s *Store) RecentRuns(ctx context.Context, limit int) ([]*Run, error) {
	if limit <= 0 {
		limit = -1
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, run_at, policies_added, cases_added, policies_total, cases_total
		FROM collection_runs
		ORDER BY run_at DESC, id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []*Run
	for rows.Next() {
		run := &Run{}
		var runAt string
		if err := rows.Scan(&run.ID, &runAt, &run.PoliciesAdded, &run.CasesAdded, &run.PoliciesTotal, &run.CasesTotal); err != nil {
			return nil, err
		}
		run.RunAt, err = time.Parse(runAtLayout, runAt)
		if err != nil {
			return nil, fmt.Errorf("run %d has bad timestamp %q: %w", run.ID, runAt, err)
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// Stats returns aggregate statistics over every recorded run
func (s *Store) Stats(ctx context.Context) (*RunStats, error) {
	stats := &RunStats{}
	var first, last string

	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*),
		       COALESCE(SUM(policies_added), 0),
		       COALESCE(SUM(cases_added), 0),
		       COALESCE(MIN(run_at), ''),
		       COALESCE(MAX(run_at), '')
		FROM collection_runs
	`).Scan(&stats.TotalRuns, &stats.PoliciesAdded, &stats.CasesAdded, &first, &last)
	if err != nil {
		return nil, err
	}

	err = s.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM collection_runs WHERE policies_added = 0 AND cases_added = 0
	`).Scan(&stats.IdleRuns)
	if err != nil {
		return nil, err
	}

	if first == "" {
		return stats, nil
	}
	if stats.FirstRun, err = time.Parse(runAtLayout, first); err != nil {
		return nil, fmt.Errorf("first run has bad timestamp %q: %w", first, err)
	}
	if stats.LastRun, err = time.Parse(runAtLayout, last); err != nil {
		return nil, fmt.Errorf("last run has bad timestamp %q: %w", last, err)
	}
	return stats, nil
}
