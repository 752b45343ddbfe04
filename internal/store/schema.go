package store

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// schemaStatements creates the tables. The DDL sticks to types both SQLite
// and PostgreSQL accept; timestamps are Unix milliseconds.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS concept_mastery (
		user_id TEXT NOT NULL,
		dimension TEXT NOT NULL,
		concept_key TEXT NOT NULL,
		mastery_level DOUBLE PRECISION NOT NULL,
		practice_count INTEGER NOT NULL DEFAULT 0,
		last_practiced_at BIGINT NOT NULL,
		PRIMARY KEY (user_id, dimension, concept_key)
	)`,
	`CREATE TABLE IF NOT EXISTS dimension_progress (
		user_id TEXT NOT NULL,
		dimension TEXT NOT NULL,
		current_level INTEGER NOT NULL DEFAULT 1,
		l1_completed INTEGER NOT NULL DEFAULT 0,
		l1_average DOUBLE PRECISION NOT NULL DEFAULT 0,
		l2_completed INTEGER NOT NULL DEFAULT 0,
		l2_average DOUBLE PRECISION NOT NULL DEFAULT 0,
		l3_completed INTEGER NOT NULL DEFAULT 0,
		l3_average DOUBLE PRECISION NOT NULL DEFAULT 0,
		l4_completed INTEGER NOT NULL DEFAULT 0,
		l4_average DOUBLE PRECISION NOT NULL DEFAULT 0,
		l5_completed INTEGER NOT NULL DEFAULT 0,
		l5_average DOUBLE PRECISION NOT NULL DEFAULT 0,
		progress_percentage INTEGER NOT NULL DEFAULT 0,
		updated_at BIGINT NOT NULL,
		PRIMARY KEY (user_id, dimension)
	)`,
	`CREATE TABLE IF NOT EXISTS practice_sessions (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		dimension TEXT NOT NULL,
		level INTEGER NOT NULL,
		score INTEGER NOT NULL,
		activity TEXT NOT NULL,
		duration_seconds INTEGER NOT NULL DEFAULT 0,
		concepts TEXT NOT NULL DEFAULT '',
		practiced_at BIGINT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_practice_user_dim_level ON practice_sessions (user_id, dimension, level)`,
	`CREATE INDEX IF NOT EXISTS idx_practice_user_time ON practice_sessions (user_id, practiced_at)`,
	`CREATE TABLE IF NOT EXISTS content_items (
		id TEXT PRIMARY KEY,
		concept_key TEXT NOT NULL,
		dimension TEXT NOT NULL,
		level INTEGER NOT NULL,
		difficulty INTEGER NOT NULL DEFAULT 1,
		title TEXT NOT NULL DEFAULT '',
		published BOOLEAN NOT NULL DEFAULT FALSE,
		view_count INTEGER NOT NULL DEFAULT 0,
		sort_order INTEGER NOT NULL DEFAULT 0
	)`,
	`CREATE INDEX IF NOT EXISTS idx_content_dim_level ON content_items (dimension, level)`,
	`CREATE TABLE IF NOT EXISTS daily_assignments (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		assigned_date TEXT NOT NULL,
		content_id TEXT NOT NULL,
		dimension TEXT NOT NULL,
		level INTEGER NOT NULL,
		completed BOOLEAN NOT NULL DEFAULT FALSE,
		completed_at BIGINT,
		created_at BIGINT NOT NULL,
		UNIQUE (user_id, assigned_date)
	)`,
	`CREATE TABLE IF NOT EXISTS content_completions (
		user_id TEXT NOT NULL,
		content_id TEXT NOT NULL,
		completed_at BIGINT NOT NULL,
		PRIMARY KEY (user_id, content_id)
	)`,
	`CREATE TABLE IF NOT EXISTS achievements (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		category TEXT NOT NULL,
		criteria TEXT NOT NULL,
		sort_order INTEGER NOT NULL DEFAULT 0
	)`,
	`CREATE TABLE IF NOT EXISTS achievement_grants (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		achievement_id TEXT NOT NULL,
		granted_at BIGINT NOT NULL,
		UNIQUE (user_id, achievement_id)
	)`,
}

func migrate(ctx context.Context, db *sqlx.DB) error {
	for _, stmt := range schemaStatements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("exec %.40q: %w", stmt, err)
		}
	}
	return nil
}
