package database

import (
	"database/sql"
	"fmt"
)

// Schema version for migrations
const currentSchemaVersion = 1

type migration struct {
	version int
	up      []string
}

var migrations = []migration{
	{
		version: 1,
		up: []string{
			`CREATE TABLE moves (
				id INTEGER PRIMARY KEY AUTOINCREMENT,

				-- Locations
				source TEXT NOT NULL,
				destination TEXT NOT NULL,

				-- Tag fields as organized
				name TEXT NOT NULL,
				artists TEXT NOT NULL,
				main_artist TEXT NOT NULL,
				year TEXT NOT NULL,
				album TEXT NOT NULL,

				moved_at DATETIME DEFAULT CURRENT_TIMESTAMP
			)`,

			`CREATE INDEX idx_moves_main_artist ON moves(main_artist)`,
			`CREATE INDEX idx_moves_moved_at ON moves(moved_at)`,
		},
	},
}

func applyMigrations(db *sql.DB) error {
	var version int
	if err := db.QueryRow(`PRAGMA user_version`).Scan(&version); err != nil {
		return fmt.Errorf("failed to read schema version: %w", err)
	}

	if version >= currentSchemaVersion {
		return nil
	}

	for _, m := range migrations {
		if m.version <= version {
			continue
		}

		tx, err := db.Begin()
		if err != nil {
			return fmt.Errorf("failed to begin migration %d: %w", m.version, err)
		}

		for _, stmt := range m.up {
			if _, err := tx.Exec(stmt); err != nil {
				tx.Rollback()
				return fmt.Errorf("migration %d failed: %w", m.version, err)
			}
		}

		// PRAGMA does not accept bind parameters
		if _, err := tx.Exec(fmt.Sprintf("PRAGMA user_version = %d", m.version)); err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to record schema version %d: %w", m.version, err)
		}

		if err := tx.Commit(); err != nil {
			return fmt.Errorf("failed to commit migration %d: %w", m.version, err)
		}
	}

	return nil
}
