package store

import (
	"fmt"
)

type migration struct {
	Version     int
	Description string
	SQL         string
}

var migrations = []migration{
	{
		Version:     1,
		Description: "activity_events: append-only activity ledger",
		SQL: `
CREATE TABLE activity_events (
    id            TEXT PRIMARY KEY,
    user_id       TEXT NOT NULL,
    activity_type TEXT NOT NULL CHECK (activity_type IN ('reflection', 'practice_completion', 'conversation_message')),
    category      TEXT CHECK (category IN ('breathing', 'grounding', 'movement', 'body_scan', 'silly')),
    practice_slug TEXT,
    occurred_at   INTEGER NOT NULL
);

CREATE INDEX idx_events_user_type ON activity_events(user_id, activity_type);
CREATE INDEX idx_events_occurred  ON activity_events(occurred_at DESC);
`,
	},
	{
		Version:     2,
		Description: "badges: one-time achievements, unique per (user, type)",
		SQL: `
CREATE TABLE badges (
    id         INTEGER PRIMARY KEY,
    user_id    TEXT NOT NULL,
    badge_type TEXT NOT NULL,
    earned_at  INTEGER NOT NULL,

    UNIQUE (user_id, badge_type)
);

CREATE INDEX idx_badges_user ON badges(user_id);
`,
	},
	{
		Version:     3,
		Description: "conversations + messages: check-in session history",
		SQL: `
CREATE TABLE conversations (
    id         TEXT PRIMARY KEY,
    user_id    TEXT NOT NULL,
    created_at INTEGER NOT NULL
);

CREATE INDEX idx_conversations_user ON conversations(user_id, created_at DESC);

CREATE TABLE messages (
    id              INTEGER PRIMARY KEY,
    conversation_id TEXT NOT NULL,
    role            TEXT NOT NULL CHECK (role IN ('user', 'assistant')),
    content         TEXT NOT NULL,
    created_at      INTEGER NOT NULL,

    FOREIGN KEY (conversation_id) REFERENCES conversations(id)
);

CREATE INDEX idx_messages_conversation ON messages(conversation_id, created_at);
`,
	},
	{
		Version:     4,
		Description: "practices: fixed somatic-practice catalog",
		SQL: `
CREATE TABLE practices (
    slug     TEXT PRIMARY KEY,
    title    TEXT NOT NULL,
    category TEXT NOT NULL CHECK (category IN ('breathing', 'grounding', 'movement', 'body_scan', 'silly'))
);
`,
	},
}

func (db *DB) migrate() error {
	// Create schema_versions table if it doesn't exist
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_versions (
			version     INTEGER PRIMARY KEY,
			description TEXT NOT NULL,
			applied_at  INTEGER NOT NULL DEFAULT (strftime('%s', 'now') * 1000)
		)
	`)
	if err != nil {
		return fmt.Errorf("create schema_versions: %w", err)
	}

	for _, m := range migrations {
		var count int
		err := db.QueryRow("SELECT COUNT(*) FROM schema_versions WHERE version = ?", m.Version).Scan(&count)
		if err != nil {
			return fmt.Errorf("check migration %d: %w", m.Version, err)
		}
		if count > 0 {
			continue
		}

		tx, err := db.Begin()
		if err != nil {
			return fmt.Errorf("begin migration %d: %w", m.Version, err)
		}

		if _, err := tx.Exec(m.SQL); err != nil {
			tx.Rollback()
			return fmt.Errorf("migration %d (%s): %w", m.Version, m.Description, err)
		}

		if _, err := tx.Exec(
			"INSERT INTO schema_versions (version, description) VALUES (?, ?)",
			m.Version, m.Description,
		); err != nil {
			tx.Rollback()
			return fmt.Errorf("record migration %d: %w", m.Version, err)
		}

		if err := tx.Commit(); err != nil {
			return fmt.Errorf("commit migration %d: %w", m.Version, err)
		}
	}

	return nil
}

// SchemaVersion returns the current schema version.
func (db *DB) SchemaVersion() (int, error) {
	var version int
	err := db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_versions").Scan(&version)
	return version, err
}
