package db

import (
	"database/sql"
	"fmt"
)

// All contains the ordered list of migrations to apply.
var All = []string{
	`CREATE TABLE features (
		id           INTEGER PRIMARY KEY,
		file_path    TEXT UNIQUE NOT NULL,
		title        TEXT NOT NULL,
		output_path  TEXT NOT NULL,
		created_at   DATETIME NOT NULL DEFAULT (datetime('now')),
		generated_at DATETIME NOT NULL DEFAULT (datetime('now'))
	)`,
	`CREATE TABLE cases (
		id         INTEGER PRIMARY KEY,
		feature_id INTEGER NOT NULL REFERENCES features(id) ON DELETE CASCADE,
		position   INTEGER NOT NULL,
		name       TEXT NOT NULL,
		method     TEXT NOT NULL,
		scenario   TEXT NOT NULL,
		block      TEXT NOT NULL DEFAULT '',
		row_index  INTEGER NOT NULL
	)`,
	`CREATE TABLE case_tags (
		case_id INTEGER NOT NULL REFERENCES cases(id) ON DELETE CASCADE,
		tag     TEXT NOT NULL
	)`,
	`CREATE INDEX case_tags_tag ON case_tags(tag)`,
}

// Migrate brings the schema to len(All), one transaction per migration.
func Migrate(db *sql.DB) error {
	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS schema_version (version INTEGER NOT NULL)`); err != nil {
		return fmt.Errorf("creating schema_version table: %w", err)
	}
	if _, err := db.Exec(`INSERT INTO schema_version (version) SELECT 0 WHERE NOT EXISTS (SELECT 1 FROM schema_version)`); err != nil {
		return fmt.Errorf("initializing schema version: %w", err)
	}

	var current int
	if err := db.QueryRow(`SELECT version FROM schema_version`).Scan(&current); err != nil {
		return fmt.Errorf("reading schema version: %w", err)
	}
	for i := current; i < len(All); i++ {
		if err := apply(db, i+1, All[i]); err != nil {
			return err
		}
	}
	return nil
}

func apply(db *sql.DB, version int, stmt string) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("beginning migration %d: %w", version, err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(stmt); err != nil {
		return fmt.Errorf("migration %d failed: %w", version, err)
	}
	if _, err := tx.Exec(`UPDATE schema_version SET version = ?`, version); err != nil {
		return fmt.Errorf("updating schema version to %d: %w", version, err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing migration %d: %w", version, err)
	}
	return nil
}
