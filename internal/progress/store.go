// ABOUTME: JSON file store for the collection progress document.
// ABOUTME: Loads a default state when the file is missing and overwrites it on save.

package progress

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"
)

// ErrMalformedState is returned when the progress file exists but cannot be
// decoded. The file is left untouched.
var ErrMalformedState = errors.New("malformed progress file")

// requiredKeys must be present and non-null in every progress file.
var requiredKeys = []string{"policies_count", "cases_count", "sessions"}

// Store reads and writes the progress file. Writes are plain overwrites;
// callers are expected to run one instance at a time.
type Store struct {
	path   string
	logger *zap.Logger

	// Clock stamps last_update on save and the default state on load.
	Clock func() time.Time
}

// NewStore creates a store for the progress file at path.
func NewStore(path string, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{
		path:   path,
		logger: logger,
		Clock:  time.Now,
	}
}

// Path returns the progress file location.
func (s *Store) Path() string {
	return s.path
}

// EnsureDir creates the directory holding the progress file if it is missing.
func (s *Store) EnsureDir() error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create report directory %s: %w", dir, err)
	}
	return nil
}

// Load reads the progress file, or returns the default state if it does not exist.
func (s *Store) Load() (*State, error) {
	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		s.logger.Debug("progress file not found, using default state", zap.String("path", s.path))
		return DefaultState(s.Clock()), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read progress file: %w", err)
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil, fmt.Errorf("%w %s: %w", ErrMalformedState, s.path, err)
	}
	for _, key := range requiredKeys {
		raw, ok := fields[key]
		if !ok || string(raw) == "null" {
			return nil, fmt.Errorf("%w %s: missing %q", ErrMalformedState, s.path, key)
		}
	}

	var state State
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, fmt.Errorf("%w %s: %w", ErrMalformedState, s.path, err)
	}

	s.logger.Debug("loaded progress",
		zap.String("path", s.path),
		zap.Int("policies", state.PoliciesCount),
		zap.Int("cases", state.CasesCount),
		zap.Int("sessions", len(state.Sessions)),
	)
	return &state, nil
}

// Save stamps last_update and overwrites the progress file with the full state.
func (s *Store) Save(state *State) error {
	state.LastUpdate = Timestamp{s.Clock()}
	if state.Sessions == nil {
		state.Sessions = []Session{}
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(state); err != nil {
		return fmt.Errorf("failed to encode progress: %w", err)
	}

	if err := os.WriteFile(s.path, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("failed to write progress file: %w", err)
	}

	s.logger.Debug("saved progress",
		zap.String("path", s.path),
		zap.Int("policies", state.PoliciesCount),
		zap.Int("cases", state.CasesCount),
	)
	return nil
}

// Reset overwrites the progress file with the default state.
func (s *Store) Reset() (*State, error) {
	state := DefaultState(s.Clock())
	if err := s.Save(state); err != nil {
		return nil, err
	}
	return state, nil
}
