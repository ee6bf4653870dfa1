package migration

import (
	"database/sql"
	"fmt"
	"io/fs"
	"sort"
	"strings"
	"time"
)

// RunMigrations applies every embedded up-migration that has not been
// recorded in schema_migrations yet, in filename order.
func RunMigrations(db *sql.DB) error {
	if db == nil {
		return fmt.Errorf("migration: nil database")
	}

	if _, err := db.Exec(
		`CREATE TABLE IF NOT EXISTS schema_migrations (
			version TEXT PRIMARY KEY,
			applied_at TIMESTAMP NOT NULL
		)`,
	); err != nil {
		return fmt.Errorf("migration: create schema_migrations: %w", err)
	}

	entries, err := fs.ReadDir(migrationFiles, migrationsDir)
	if err != nil {
		return fmt.Errorf("migration: read embedded dir: %w", err)
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".up.sql") {
			continue
		}
		names = append(names, entry.Name())
	}
	sort.Strings(names)

	for _, name := range names {
		applied, err := isApplied(db, name)
		if err != nil {
			return err
		}
		if applied {
			continue
		}

		content, err := fs.ReadFile(migrationFiles, migrationsDir+"/"+name)
		if err != nil {
			return fmt.Errorf("migration: read %s: %w", name, err)
		}

		tx, err := db.Begin()
		if err != nil {
			return fmt.Errorf("migration: begin %s: %w", name, err)
		}
		if _, err := tx.Exec(string(content)); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("migration: apply %s: %w", name, err)
		}
		// Versions are embedded filenames; inlining keeps the statement
		// placeholder-free across sqlite and postgres.
		if _, err := tx.Exec(fmt.Sprintf(
			`INSERT INTO schema_migrations (version, applied_at) VALUES ('%s', '%s')`,
			name, time.Now().UTC().Format(time.RFC3339),
		)); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("migration: record %s: %w", name, err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("migration: commit %s: %w", name, err)
		}
	}
	return nil
}

func isApplied(db *sql.DB, version string) (bool, error) {
	var count int
	if err := db.QueryRow(fmt.Sprintf(
		`SELECT COUNT(1) FROM schema_migrations WHERE version = '%s'`,
		version,
	)).Scan(&count); err != nil {
		return false, fmt.Errorf("migration: check %s: %w", version, err)
	}
	return count > 0, nil
}
