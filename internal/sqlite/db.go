package sqlite

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

// DB wraps a SQLite database connection
type DB struct {
	*sql.DB
}

// New creates a new SQLite database connection
func New(dataSourceName string) (*DB, error) {
	db, err := sql.Open("sqlite", dataSourceName)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// A single connection keeps ":memory:" databases shared across queries.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to set busy timeout: %w", err)
	}

	return &DB{db}, nil
}

const schema = `
-- Activity log
CREATE TABLE IF NOT EXISTS activity_log (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    annotation_id TEXT,
    activity_type TEXT NOT NULL,
    summary TEXT NOT NULL,
    details TEXT,
    created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_annotation_activity ON activity_log(annotation_id);
CREATE INDEX IF NOT EXISTS idx_activity_type ON activity_log(activity_type);
CREATE INDEX IF NOT EXISTS idx_created_at ON activity_log(created_at);

-- Full-text search (SQLite FTS5)
CREATE VIRTUAL TABLE IF NOT EXISTS activity_fts USING fts5(
    summary,
    details,
    content='activity_log',
    content_rowid='id'
);

CREATE TRIGGER IF NOT EXISTS activity_ai AFTER INSERT ON activity_log BEGIN
    INSERT INTO activity_fts(rowid, summary, details)
    VALUES (new.id, new.summary, new.details);
END;

CREATE TRIGGER IF NOT EXISTS activity_ad AFTER DELETE ON activity_log BEGIN
    INSERT INTO activity_fts(activity_fts, rowid, summary, details)
    VALUES('delete', old.id, old.summary, old.details);
END;
`

// RunMigrations creates the schema if it does not exist yet.
func (db *DB) RunMigrations() error {
	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	return nil
}
