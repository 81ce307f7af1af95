package database

import (
	"database/sql"
	"fmt"
	"log"
)

// Migration represents a database migration
type Migration struct {
	Version int
	Name    string
	SQL     string
}

// migrations holds the embedded schema history, applied in order
var migrations = []Migration{
	{
		Version: 1,
		Name:    "create_journeys",
		SQL: `
			CREATE TABLE IF NOT EXISTS journeys (
				id TEXT PRIMARY KEY,
				user_id TEXT NOT NULL,
				type TEXT NOT NULL,
				from_latitude REAL NOT NULL,
				from_longitude REAL NOT NULL,
				to_latitude REAL,
				to_longitude REAL,
				route_distance REAL,
				route_duration INTEGER,
				current_location_duration INTEGER NOT NULL DEFAULT 0,
				created_at INTEGER NOT NULL,
				update_at INTEGER NOT NULL
			);
			CREATE INDEX IF NOT EXISTS idx_journeys_user_created
				ON journeys(user_id, created_at DESC);
			CREATE INDEX IF NOT EXISTS idx_journeys_user_type_created
				ON journeys(user_id, type, created_at DESC);
		`,
	},
	{
		Version: 2,
		Name:    "create_recent_sample_windows",
		SQL: `
			CREATE TABLE IF NOT EXISTS recent_sample_windows (
				user_id TEXT PRIMARY KEY,
				samples_json TEXT NOT NULL,
				updated_at INTEGER NOT NULL
			);
		`,
	},
}

// initMigrationsTable creates the migrations tracking table
func initMigrationsTable(db *sql.DB) error {
	query := `
		CREATE TABLE IF NOT EXISTS migrations (
			version INTEGER PRIMARY KEY,
			name TEXT NOT NULL,
			applied_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)
	`
	if _, err := db.Exec(query); err != nil {
		return fmt.Errorf("failed to create migrations table: %w", err)
	}
	return nil
}

// appliedMigrations returns the set of applied migration versions
func appliedMigrations(db *sql.DB) (map[int]bool, error) {
	rows, err := db.Query("SELECT version FROM migrations ORDER BY version")
	if err != nil {
		return nil, fmt.Errorf("failed to query migrations: %w", err)
	}
	defer rows.Close()

	applied := make(map[int]bool)
	for rows.Next() {
		var version int
		if err := rows.Scan(&version); err != nil {
			return nil, fmt.Errorf("failed to scan migration version: %w", err)
		}
		applied[version] = true
	}

	return applied, rows.Err()
}

// applyMigration applies a single migration inside a transaction
func applyMigration(db *sql.DB, migration Migration) error {
	return Transaction(db, func(tx *sql.Tx) error {
		if _, err := tx.Exec(migration.SQL); err != nil {
			return fmt.Errorf("failed to execute migration %d: %w", migration.Version, err)
		}
		if _, err := tx.Exec("INSERT INTO migrations (version, name) VALUES (?, ?)", migration.Version, migration.Name); err != nil {
			return fmt.Errorf("failed to record migration %d: %w", migration.Version, err)
		}
		return nil
	})
}

// RunMigrations applies all pending migrations
func RunMigrations(db *sql.DB) error {
	if err := initMigrationsTable(db); err != nil {
		return err
	}

	applied, err := appliedMigrations(db)
	if err != nil {
		return err
	}

	for _, migration := range migrations {
		if applied[migration.Version] {
			continue
		}
		if err := applyMigration(db, migration); err != nil {
			return err
		}
		log.Printf("Applied migration %d: %s", migration.Version, migration.Name)
	}

	return nil
}
