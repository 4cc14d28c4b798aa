package db

import (
	"database/sql"
	"fmt"
)

// Migrate runs all schema migrations. Every statement is idempotent, so the
// full list is re-run on every open.
func Migrate(db *sql.DB) error {
	for i, stmt := range migrations {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	return nil
}

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS goals (
		id          TEXT PRIMARY KEY,
		statement   TEXT NOT NULL,
		domain_tag  TEXT NOT NULL DEFAULT '',
		archived_at TEXT,
		created_at  TEXT NOT NULL,
		updated_at  TEXT NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS discovery_sessions (
		id              TEXT PRIMARY KEY,
		goal_id         TEXT NOT NULL REFERENCES goals(id) ON DELETE CASCADE,
		depth_level     INTEGER NOT NULL DEFAULT 1
		                CHECK(depth_level BETWEEN 1 AND 5),
		status          TEXT NOT NULL DEFAULT 'in_progress'
		                CHECK(status IN ('in_progress','completed','abandoned')),
		root_motivation TEXT NOT NULL DEFAULT '',
		created_at      TEXT NOT NULL,
		updated_at      TEXT NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS discovery_turns (
		session_id    TEXT NOT NULL REFERENCES discovery_sessions(id) ON DELETE CASCADE,
		depth_level   INTEGER NOT NULL
		              CHECK(depth_level BETWEEN 1 AND 5),
		question      TEXT NOT NULL,
		reflection    TEXT NOT NULL DEFAULT '',
		user_response TEXT NOT NULL DEFAULT '',
		asked_at      TEXT NOT NULL,
		PRIMARY KEY (session_id, depth_level)
	)`,

	`CREATE TABLE IF NOT EXISTS roadmaps (
		id              TEXT PRIMARY KEY,
		goal_id         TEXT NOT NULL REFERENCES goals(id) ON DELETE CASCADE,
		title           TEXT NOT NULL,
		root_motivation TEXT NOT NULL DEFAULT '',
		status          TEXT NOT NULL DEFAULT 'active'
		                CHECK(status IN ('active','completed','archived')),
		created_at      TEXT NOT NULL,
		updated_at      TEXT NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS roadmap_nodes (
		id           TEXT PRIMARY KEY,
		roadmap_id   TEXT NOT NULL REFERENCES roadmaps(id) ON DELETE CASCADE,
		parent_id    TEXT REFERENCES roadmap_nodes(id) ON DELETE CASCADE,
		title        TEXT NOT NULL,
		description  TEXT NOT NULL DEFAULT '',
		rationale    TEXT NOT NULL DEFAULT '',
		tip          TEXT NOT NULL DEFAULT '',
		duration_min INTEGER NOT NULL DEFAULT 0,
		category     TEXT NOT NULL DEFAULT 'action'
		             CHECK(category IN ('research','planning','action','reflection','connection')),
		order_index  INTEGER NOT NULL DEFAULT 0,
		is_completed INTEGER NOT NULL DEFAULT 0,
		completed_at TEXT
	)`,

	`CREATE TABLE IF NOT EXISTS progress_counters (
		goal_id           TEXT PRIMARY KEY REFERENCES goals(id) ON DELETE CASCADE,
		total_actions     INTEGER NOT NULL DEFAULT 0,
		completed_actions INTEGER NOT NULL DEFAULT 0,
		current_streak    INTEGER NOT NULL DEFAULT 0,
		longest_streak    INTEGER NOT NULL DEFAULT 0,
		last_activity_at  TEXT,
		updated_at        TEXT NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_discovery_sessions_goal ON discovery_sessions(goal_id)`,
	`CREATE INDEX IF NOT EXISTS idx_discovery_turns_session ON discovery_turns(session_id)`,
	`CREATE INDEX IF NOT EXISTS idx_roadmaps_goal ON roadmaps(goal_id)`,
	`CREATE INDEX IF NOT EXISTS idx_roadmap_nodes_roadmap ON roadmap_nodes(roadmap_id)`,
	`CREATE INDEX IF NOT EXISTS idx_roadmap_nodes_parent ON roadmap_nodes(parent_id)`,
}
