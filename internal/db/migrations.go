package db

import "fmt"

// migrate runs database migrations.
func (s *SQLite) migrate() error {
	query := `
		CREATE TABLE IF NOT EXISTS items (
			id                  TEXT PRIMARY KEY,
			title               TEXT NOT NULL,
			category            TEXT NOT NULL CHECK(category IN ('non_negotiable', 'identity_habit', 'flexible_task', 'optional_goal')),
			start_time          TEXT NOT NULL,
			duration_minutes    INTEGER NOT NULL CHECK(duration_minutes > 0),
			min_duration        INTEGER NOT NULL DEFAULT 0,
			completed           INTEGER NOT NULL DEFAULT 0,
			scheduled_date      DATE NOT NULL,
			evening             INTEGER NOT NULL DEFAULT 0,
			gentle              INTEGER NOT NULL DEFAULT 0,
			recurring           INTEGER NOT NULL DEFAULT 0,
			frequency           TEXT NOT NULL DEFAULT '' CHECK(frequency IN ('', 'daily', 'weekly')),
			weekdays            TEXT NOT NULL DEFAULT '',
			recurrence_end      DATE,
			parent_id           TEXT,
			created_at          TEXT NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_items_scheduled ON items(scheduled_date);
		CREATE INDEX IF NOT EXISTS idx_items_parent ON items(parent_id);
	`

	if _, err := s.db.Exec(query); err != nil {
		return fmt.Errorf("creating items table: %w", err)
	}

	return nil
}
