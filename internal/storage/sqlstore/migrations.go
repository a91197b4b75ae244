package sqlstore

import (
	"database/sql"
	"fmt"
	"strings"
)

// migration mirrors the teacher's Migration struct in
// internal/storage/sqlite/migrations.go: a named, idempotent step run
// against *sql.DB, tracked by a monotonic version rather than a
// schema_migrations row per name (CLEO's migration list is short and
// versioned, not append-only over years like the teacher's).
type migration struct {
	version int
	name    string
	fn      func(*sql.DB) error
}

// migrationsList is the ordered set of migrations applied after the
// base schema. Each one must be safe to run against a database that
// already has it applied (IF NOT EXISTS / idempotent column adds),
// since schema_migrations bookkeeping is best-effort, not the sole
// guard.
var migrationsList = []migration{
	{1, "context_alerts_table", migrateContextAlertsTable},
	{2, "verification_rounds_column", migrateVerificationRoundsColumn},
}

func applyMigrations(db *sql.DB) error {
	applied := make(map[int]bool)
	rows, err := db.Query(`SELECT version FROM schema_migrations`)
	if err != nil {
		return fmt.Errorf("reading schema_migrations: %w", err)
	}
	for rows.Next() {
		var v int
		if err := rows.Scan(&v); err != nil {
			rows.Close()
			return err
		}
		applied[v] = true
	}
	rows.Close()

	for _, m := range migrationsList {
		if applied[m.version] {
			continue
		}
		if err := m.fn(db); err != nil {
			return fmt.Errorf("migration %d (%s): %w", m.version, m.name, err)
		}
		if _, err := db.Exec(`INSERT INTO schema_migrations(version) VALUES(?)`, m.version); err != nil {
			return fmt.Errorf("recording migration %d (%s): %w", m.version, m.name, err)
		}
	}
	return nil
}

// migrateContextAlertsTable adds a context_alerts table with one row
// per (category, thresholdLevel) pair last fired (spec.md §4.I). No
// code reads or writes it; internal/concurrency's alert deduper does
// not use it.
func migrateContextAlertsTable(db *sql.DB) error {
	_, err := db.Exec(`CREATE TABLE IF NOT EXISTS context_alerts (
		category TEXT NOT NULL,
		threshold_level TEXT NOT NULL,
		fired_at TEXT NOT NULL,
		PRIMARY KEY (category, threshold_level)
	)`)
	return err
}

// migrateVerificationRoundsColumn adds a verification_round column
// (default 0) to the tasks projection table. The projection does not
// write it, so every row keeps the default.
func migrateVerificationRoundsColumn(db *sql.DB) error {
	_, err := db.Exec(`ALTER TABLE tasks ADD COLUMN verification_round INTEGER DEFAULT 0`)
	if err != nil && isDuplicateColumnErr(err) {
		return nil
	}
	return err
}

func isDuplicateColumnErr(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "duplicate column") || strings.Contains(msg, "already exists")
}
