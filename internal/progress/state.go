// ABOUTME: Progress document persisted between collection runs.
// ABOUTME: Holds cumulative counters and the append-only session history.

package progress

import (
	"encoding/json"
	"fmt"
	"time"
)

// Counts a fresh state starts from when no progress file exists yet.
const (
	DefaultPoliciesCount = 100
	DefaultCasesCount    = 100
)

// State is the whole progress document.
type State struct {
	PoliciesCount int       `json:"policies_count"`
	CasesCount    int       `json:"cases_count"`
	LastUpdate    Timestamp `json:"last_update"`
	Sessions      []Session `json:"sessions"`
}

// Session is a snapshot of one collection run. Entries are never edited
// after they are appended.
type Session struct {
	Time          Timestamp `json:"time"`
	PoliciesAdded int       `json:"policies_added"`
	CasesAdded    int       `json:"cases_added"`
	PoliciesTotal int       `json:"policies_total"`
	CasesTotal    int       `json:"cases_total"`
}

// DefaultState returns the pre-seeded state used when the file is absent.
func DefaultState(now time.Time) *State {
	return &State{
		PoliciesCount: DefaultPoliciesCount,
		CasesCount:    DefaultCasesCount,
		LastUpdate:    Timestamp{now},
		Sessions:      []Session{},
	}
}

// AppendSession records a run's deltas together with the counters as they
// stand after the run.
func (s *State) AppendSession(at time.Time, policiesAdded, casesAdded int) Session {
	sess := Session{
		Time:          Timestamp{at},
		PoliciesAdded: policiesAdded,
		CasesAdded:    casesAdded,
		PoliciesTotal: s.PoliciesCount,
		CasesTotal:    s.CasesCount,
	}
	s.Sessions = append(s.Sessions, sess)
	return sess
}

// RecentSessions returns up to limit sessions, newest first.
// A non-positive limit returns the whole history.
func (s *State) RecentSessions(limit int) []Session {
	n := len(s.Sessions)
	if limit <= 0 || limit > n {
		limit = n
	}
	out := make([]Session, 0, limit)
	for i := n - 1; i >= n-limit; i-- {
		out = append(out, s.Sessions[i])
	}
	return out
}

// timestampLayout is the naive local ISO-8601 form with microseconds that
// existing progress files use.
const timestampLayout = "2006-01-02T15:04:05.000000"

var parseLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
}

// Timestamp is an ISO-8601 time as stored in the progress file.
type Timestamp struct {
	time.Time
}

func (t Timestamp) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.Format(timestampLayout))
}

func (t *Timestamp) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		return nil
	}
	var raw string
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	for _, layout := range parseLayouts {
		if parsed, err := time.ParseInLocation(layout, raw, time.Local); err == nil {
			t.Time = parsed
			return nil
		}
	}
	return fmt.Errorf("unrecognized timestamp %q", raw)
}
