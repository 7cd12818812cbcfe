package db

import (
	"fmt"

	"gorm.io/gorm"
)

var migrationStatements = []string{
	`CREATE TABLE IF NOT EXISTS bins (
		id TEXT PRIMARY KEY,
		type TEXT NOT NULL,
		lat DOUBLE PRECISION NOT NULL DEFAULT 0,
		lng DOUBLE PRECISION NOT NULL DEFAULT 0,
		address TEXT NOT NULL DEFAULT '',
		fill_level INT NOT NULL DEFAULT 0,
		last_collection TIMESTAMPTZ,
		status TEXT NOT NULL DEFAULT 'ok',
		battery_level DOUBLE PRECISION NOT NULL DEFAULT 0
	);`,
	`CREATE TABLE IF NOT EXISTS classifications (
		id TEXT PRIMARY KEY,
		category TEXT NOT NULL,
		confidence DOUBLE PRECISION NOT NULL,
		tips TEXT NOT NULL DEFAULT '',
		reasoning TEXT NOT NULL DEFAULT '',
		source TEXT NOT NULL DEFAULT '',
		recorded_at TIMESTAMPTZ NOT NULL,
		verified BOOLEAN NOT NULL DEFAULT FALSE
	);`,
	`CREATE TABLE IF NOT EXISTS complaints (
		id TEXT PRIMARY KEY,
		bin_id TEXT,
		category TEXT NOT NULL DEFAULT '',
		description TEXT NOT NULL DEFAULT '',
		status TEXT NOT NULL DEFAULT 'open',
		created_at TIMESTAMPTZ NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL
	);`,
	`CREATE INDEX IF NOT EXISTS idx_classifications_recorded_at ON classifications (recorded_at);`,
	`CREATE INDEX IF NOT EXISTS idx_complaints_status ON complaints (status);`,
}

func runMigrations(db *gorm.DB) error {
	for i, stmt := range migrationStatements {
		if err := db.Exec(stmt).Error; err != nil {
			return fmt.Errorf("migration %d failed: %w", i+1, err)
		}
	}
	return nil
}
