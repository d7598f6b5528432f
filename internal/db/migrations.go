package db

import "fmt"

// migrate runs database migrations.
func (s *SQLite) migrate() error {
	query := `
		CREATE TABLE IF NOT EXISTS blocks (
			id          INTEGER PRIMARY KEY AUTOINCREMENT,
			description TEXT NOT NULL CHECK(length(trim(description)) > 0),
			started_at  TEXT NOT NULL,
			ended_at    TEXT NOT NULL,
			is_complete INTEGER NOT NULL DEFAULT 0,
			created_at  TEXT NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%SZ', 'now')),
			CHECK(started_at < ended_at)
		);

		CREATE INDEX IF NOT EXISTS idx_blocks_started_at ON blocks(started_at);
	`

	if _, err := s.db.Exec(query); err != nil {
		return fmt.Errorf("creating blocks table: %w", err)
	}

	return nil
}
