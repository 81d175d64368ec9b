// ABOUTME: SQLite run log for collection passes.
// ABOUTME: Handles database initialization, migrations, and connection management.

package store

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"
)

// Migration version constants
const (
	MigrationV1 = 1 // Initial schema with collection_runs table
	MigrationV2 = 2 // Add index for idle-run and totals queries
)

// CurrentSchemaVersion is the target version for the database schema
const CurrentSchemaVersion = MigrationV2

type Store struct {
	db     *sql.DB
	logger *zap.Logger
}

func New(dbPath string, logger *zap.Logger) (*Store, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, err
	}

	// Verify connection works
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// One writer per process; the collector never runs concurrently.
	db.SetMaxOpenConns(1)
	db.SetConnMaxLifetime(0)

	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
	}

	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, err
		}
	}

	s := &Store{db: db, logger: logger}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, err
	}

	return s, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// migrate runs all pending migrations
func (s *Store) migrate() error {
	if err := s.createMigrationsTable(); err != nil {
		return fmt.Errorf("failed to create migrations table: %w", err)
	}

	currentVersion, err := s.getCurrentMigrationVersion()
	if err != nil {
		return fmt.Errorf("failed to get current migration version: %w", err)
	}

	s.logger.Debug("run log schema",
		zap.Int("version", currentVersion),
		zap.Int("target", CurrentSchemaVersion),
	)

	if currentVersion < MigrationV1 {
		if err := s.migrateV1(); err != nil {
			return fmt.Errorf("migration v1 failed: %w", err)
		}
	}

	if currentVersion < MigrationV2 {
		if err := s.migrateV2(); err != nil {
			return fmt.Errorf("migration v2 failed: %w", err)
		}
	}

	return nil
}

// createMigrationsTable creates the schema_migrations tracking table
func (s *Store) createMigrationsTable() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			description TEXT
		)
	`)
	return err
}

// getCurrentMigrationVersion retrieves the current schema version
func (s *Store) getCurrentMigrationVersion() (int, error) {
	var version int
	err := s.db.QueryRow(`
		SELECT COALESCE(MAX(version), 0) FROM schema_migrations
	`).Scan(&version)
	if err != nil {
		return 0, err
	}
	return version, nil
}

// recordMigration records a completed migration
func (s *Store) recordMigration(version int, description string) error {
	_, err := s.db.Exec(`
		INSERT INTO schema_migrations (version, description)
		VALUES (?, ?)
	`, version, description)
	return err
}

// migrateV1 creates the collection_runs table
func (s *Store) migrateV1() error {
	schema := `
	CREATE TABLE IF NOT EXISTS collection_runs (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		run_at TEXT NOT NULL,
		policies_added INTEGER NOT NULL DEFAULT 0,
		cases_added INTEGER NOT NULL DEFAULT 0,
		policies_total INTEGER NOT NULL,
		cases_total INTEGER NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_collection_runs_run_at ON collection_runs(run_at DESC);
	`
	if _, err := s.db.Exec(schema); err != nil {
		return err
	}

	if err := s.recordMigration(MigrationV1, "Create collection_runs table"); err != nil {
		return err
	}

	s.logger.Info("applied migration", zap.Int("version", MigrationV1))
	return nil
}

// migrateV2 indexes runs that added nothing, which is every run once targets are met
func (s *Store) migrateV2() error {
	indexSQL := "CREATE INDEX IF NOT EXISTS idx_collection_runs_idle ON collection_runs(run_at) WHERE policies_added = 0 AND cases_added = 0"
	if _, err := s.db.Exec(indexSQL); err != nil {
		return fmt.Errorf("failed to create index: %w", err)
	}

	if err := s.recordMigration(MigrationV2, "Add partial index for idle runs"); err != nil {
		return err
	}

	s.logger.Info("applied migration", zap.Int("version", MigrationV2))
	return nil
}
