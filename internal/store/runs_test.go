// ABOUTME: Tests for collection run storage operations.
// ABOUTME: Covers recording sessions, recent-run ordering, and aggregate stats.

package store

import (
	"context"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/alandan97/wenchang-code/internal/progress"
)

func session(at time.Time, pAdded, cAdded, pTotal, cTotal int) progress.Session {
	return progress.Session{
		Time:          progress.Timestamp{Time: at},
		PoliciesAdded: pAdded,
		CasesAdded:    cAdded,
		PoliciesTotal: pTotal,
		CasesTotal:    cTotal,
	}
}

func TestRecordRun_AndRecentRuns(t *testing.T) {
	s := setupTestDB(t)
	defer s.Close()
	ctx := context.Background()

	base := time.Date(2026, 10, 1, 9, 0, 0, 0, time.UTC)
	sessions := []progress.Session{
		session(base, 10, 5, 110, 105),
		session(base.Add(time.Hour), 7, 3, 117, 108),
		session(base.Add(2*time.Hour), 15, 10, 132, 118),
	}
	for _, sess := range sessions {
		if err := s.RecordRun(ctx, sess); err != nil {
			t.Fatalf("RecordRun() error = %v", err)
		}
	}

	runs, err := s.RecentRuns(ctx, 2)
	if err != nil {
		t.Fatalf("RecentRuns() error = %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("len(runs) = %d, want 2", len(runs))
	}
	var totals [][2]int
	for _, run := range runs {
		totals = append(totals, [2]int{run.PoliciesTotal, run.CasesTotal})
	}
	if diff := cmp.Diff([][2]int{{132, 118}, {117, 108}}, totals); diff != "" {
		t.Errorf("RecentRuns() totals mismatch (-want +got):\n%s", diff)
	}
	if !runs[0].RunAt.Equal(base.Add(2 * time.Hour)) {
		t.Errorf("run_at = %v, want %v", runs[0].RunAt, base.Add(2*time.Hour))
	}

	all, err := s.RecentRuns(ctx, 0)
	if err != nil {
		t.Fatalf("RecentRuns(0) error = %v", err)
	}
	if len(all) != 3 {
		t.Errorf("RecentRuns(0) returned %d runs, want 3", len(all))
	}
}

func TestRun_SessionRoundTrip(t *testing.T) {
	s := setupTestDB(t)
	defer s.Close()
	ctx := context.Background()

	at := time.Date(2026, 10, 17, 8, 30, 0, 250000000, time.Local)
	want := session(at, 9, 4, 509, 404)
	if err := s.RecordRun(ctx, want); err != nil {
		t.Fatalf("RecordRun() error = %v", err)
	}

	runs, err := s.RecentRuns(ctx, 1)
	if err != nil || len(runs) != 1 {
		t.Fatalf("RecentRuns() = %v, %v", runs, err)
	}

	got := runs[0].Session()
	if !got.Time.Equal(at) {
		t.Errorf("time = %v, want %v", got.Time, at)
	}
	if got.PoliciesAdded != 9 || got.CasesAdded != 4 || got.PoliciesTotal != 509 || got.CasesTotal != 404 {
		t.Errorf("session = %+v, want %+v", got, want)
	}
}

func TestStats(t *testing.T) {
	s := setupTestDB(t)
	defer s.Close()
	ctx := context.Background()

	empty, err := s.Stats(ctx)
	if err != nil {
		t.Fatalf("Stats() on empty db error = %v", err)
	}
	if empty.TotalRuns != 0 || !empty.FirstRun.IsZero() {
		t.Errorf("empty stats = %+v", empty)
	}

	base := time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)
	for i, sess := range []progress.Session{
		session(base, 12, 6, 995, 994),
		session(base.Add(time.Hour), 5, 6, 1000, 1000),
		session(base.Add(2*time.Hour), 0, 0, 1000, 1000),
		session(base.Add(3*time.Hour), 0, 0, 1000, 1000),
	} {
		if err := s.RecordRun(ctx, sess); err != nil {
			t.Fatalf("RecordRun(%d) error = %v", i, err)
		}
	}

	stats, err := s.Stats(ctx)
	if err != nil {
		t.Fatalf("Stats() error = %v", err)
	}
	if stats.TotalRuns != 4 {
		t.Errorf("TotalRuns = %d, want 4", stats.TotalRuns)
	}
	if stats.IdleRuns != 2 {
		t.Errorf("IdleRuns = %d, want 2", stats.IdleRuns)
	}
	if stats.PoliciesAdded != 17 || stats.CasesAdded != 12 {
		t.Errorf("added = %d/%d, want 17/12", stats.PoliciesAdded, stats.CasesAdded)
	}
	if !stats.FirstRun.Equal(base) || !stats.LastRun.Equal(base.Add(3*time.Hour)) {
		t.Errorf("range = %v..%v", stats.FirstRun, stats.LastRun)
	}
}

func TestStats_BadTimestamp(t *testing.T) {
	s := setupTestDB(t)
	defer s.Close()
	ctx := context.Background()

	_, err := s.db.Exec(`
		INSERT INTO collection_runs (run_at, policies_added, cases_added, policies_total, cases_total)
		VALUES ('yesterday', 5, 3, 105, 103)
	`)
	if err != nil {
		t.Fatalf("insert: %v", err)
	}

	if _, err := s.Stats(ctx); err == nil {
		t.Error("Stats() with unparsable run_at should fail")
	}
	if _, err := s.RecentRuns(ctx, 0); err == nil {
		t.Error("RecentRuns() with unparsable run_at should fail")
	}
}
