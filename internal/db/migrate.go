package db

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
)

// Migrate runs all schema migrations.
func Migrate(db *sql.DB) error {
	for i, stmt := range migrations {
		if _, err := db.Exec(stmt); err != nil {
			// Tolerate "duplicate column name" errors from ALTER TABLE
			// since the migration system re-runs all statements.
			if strings.Contains(err.Error(), "duplicate column name") {
				continue
			}
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	if err := migrateDeriveLevels(db); err != nil {
		return fmt.Errorf("deriving user levels: %w", err)
	}
	return nil
}

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id                   TEXT PRIMARY KEY,
		handle               TEXT NOT NULL,
		full_name            TEXT NOT NULL DEFAULT '',
		phone                TEXT NOT NULL DEFAULT '',
		date_of_birth        TEXT,
		village              TEXT NOT NULL DEFAULT '',
		district             TEXT NOT NULL DEFAULT '',
		state                TEXT NOT NULL DEFAULT '',
		farm_size            REAL NOT NULL DEFAULT 0,
		farm_size_unit       TEXT NOT NULL DEFAULT 'acres',
		primary_crops        TEXT NOT NULL DEFAULT '[]',
		preferred_language   TEXT NOT NULL DEFAULT '',
		onboarding_completed INTEGER NOT NULL DEFAULT 0,
		total_xp             INTEGER NOT NULL DEFAULT 0 CHECK(total_xp >= 0),
		current_level        INTEGER NOT NULL DEFAULT 1,
		sustainability_score INTEGER NOT NULL DEFAULT 0,
		current_streak       INTEGER NOT NULL DEFAULT 0,
		longest_streak       INTEGER NOT NULL DEFAULT 0,
		last_activity_date   TEXT,
		badges_earned        TEXT NOT NULL DEFAULT '[]',
		created_at           TEXT NOT NULL,
		updated_at           TEXT NOT NULL
	)`,

	`CREATE UNIQUE INDEX IF NOT EXISTS idx_users_handle ON users(handle)`,
	`CREATE INDEX IF NOT EXISTS idx_users_village ON users(village)`,
	`CREATE INDEX IF NOT EXISTS idx_users_district ON users(district)`,

	`CREATE TABLE IF NOT EXISTS missions (
		id                 TEXT PRIMARY KEY,
		title              TEXT NOT NULL,
		description        TEXT NOT NULL DEFAULT '',
		category           TEXT NOT NULL
		                   CHECK(category IN ('soil_health','water_management','pest_control','crop_rotation','organic_farming','post_harvest','marketing')),
		estimated_duration INTEGER NOT NULL DEFAULT 0,
		xp_reward          INTEGER NOT NULL DEFAULT 0 CHECK(xp_reward >= 0),
		target_crops       TEXT NOT NULL DEFAULT '[]',
		cards              TEXT NOT NULL DEFAULT '[]',
		is_active          INTEGER NOT NULL DEFAULT 1,
		created_at         TEXT NOT NULL,
		updated_at         TEXT NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_missions_category ON missions(category)`,

	`CREATE TABLE IF NOT EXISTS user_progress (
		id                 TEXT PRIMARY KEY,
		user_id            TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		mission_id         TEXT NOT NULL REFERENCES missions(id) ON DELETE CASCADE,
		status             TEXT NOT NULL DEFAULT 'in_progress'
		                   CHECK(status IN ('not_started','in_progress','completed')),
		current_card_index INTEGER NOT NULL DEFAULT 0 CHECK(current_card_index >= 0),
		quiz_answers       TEXT NOT NULL DEFAULT '{}',
		photo_proof_url    TEXT NOT NULL DEFAULT '',
		completed_at       TEXT,
		xp_earned          INTEGER,
		created_at         TEXT NOT NULL,
		updated_at         TEXT NOT NULL,
		UNIQUE(user_id, mission_id)
	)`,

	`CREATE INDEX IF NOT EXISTS idx_progress_user ON user_progress(user_id)`,
	`CREATE INDEX IF NOT EXISTS idx_progress_mission ON user_progress(mission_id)`,
	`CREATE INDEX IF NOT EXISTS idx_progress_status ON user_progress(status)`,
}

// migrateDeriveLevels recomputes current_level from total_xp for rows that
// drifted, e.g. after a manual edit of total_xp. Idempotent.
func migrateDeriveLevels(db *sql.DB) error {
	ctx := context.Background()
	if _, err := db.ExecContext(ctx,
		`UPDATE users SET current_level = total_xp / 100 + 1
		 WHERE current_level != total_xp / 100 + 1`); err != nil {
		return fmt.Errorf("updating current_level: %w", err)
	}
	return nil
}
