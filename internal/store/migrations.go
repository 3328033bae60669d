package store

import "fmt"

// migrations run in order; user_version tracks the last applied index.
// Append only, never edit an applied step.
var migrations = []string{
	`CREATE TABLE IF NOT EXISTS analysis_sessions (
		id         TEXT PRIMARY KEY,
		user_id    TEXT NOT NULL,
		user_email TEXT NOT NULL,
		status     TEXT NOT NULL DEFAULT 'ongoing',
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_sessions_email_status
		ON analysis_sessions (user_email, status);`,

	`CREATE TABLE IF NOT EXISTS user_responses (
		id              TEXT PRIMARY KEY,
		session_id      TEXT NOT NULL REFERENCES analysis_sessions(id) ON DELETE CASCADE,
		question_index  INTEGER NOT NULL,
		question_domain TEXT NOT NULL DEFAULT '',
		question_text   TEXT NOT NULL DEFAULT '',
		transcript_text TEXT NOT NULL DEFAULT '',
		audio_url       TEXT NOT NULL DEFAULT '',
		audio_duration  REAL NOT NULL DEFAULT 0,
		created_at      TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_responses_session
		ON user_responses (session_id, question_index);`,
}

func (s *Store) migrate() error {
	var version int
	if err := s.db.QueryRow("PRAGMA user_version").Scan(&version); err != nil {
		return fmt.Errorf("failed to read schema version: %w", err)
	}

	for i := version; i < len(migrations); i++ {
		if _, err := s.db.Exec(migrations[i]); err != nil {
			return fmt.Errorf("migration %d failed: %w", i+1, err)
		}
		if _, err := s.db.Exec(fmt.Sprintf("PRAGMA user_version = %d", i+1)); err != nil {
			return fmt.Errorf("failed to record schema version %d: %w", i+1, err)
		}
	}
	return nil
}
