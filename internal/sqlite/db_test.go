package sqlite

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

// NewTestDB creates a new in-memory SQLite database for testing
func NewTestDB(t *testing.T) *DB {
	t.Helper()

	db, err := New(":memory:")
	require.NoError(t, err, "failed to create test database")

	err = db.RunMigrations()
	require.NoError(t, err, "failed to run migrations")

	t.Cleanup(func() {
		db.Close()
	})

	return db
}

// TestMigrations verifies that migrations run successfully
func TestMigrations(t *testing.T) {
	db := NewTestDB(t)

	for _, table := range []string{"activity_log", "activity_fts"} {
		var count int
		err := db.QueryRow("SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name=?", table).Scan(&count)
		require.NoError(t, err, "failed to query table %s", table)
		require.Equal(t, 1, count, "table %s not found", table)
	}
}

// TestMigrationsIdempotent verifies the schema can be applied to an existing database
func TestMigrationsIdempotent(t *testing.T) {
	db := NewTestDB(t)
	require.NoError(t, db.RunMigrations())
}

// TestFTSIndex verifies the full-text index follows inserts and deletes
func TestFTSIndex(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()

	_, err := db.ExecContext(ctx,
		`INSERT INTO activity_log (annotation_id, activity_type, summary, details) VALUES (?, ?, ?, ?)`,
		"a1", "annotation_created", "created High annotation \"Unique beam\"", "{}")
	require.NoError(t, err)

	var count int
	err = db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM activity_fts WHERE activity_fts MATCH ?`, "unique").Scan(&count)
	require.NoError(t, err)
	require.Equal(t, 1, count)

	_, err = db.ExecContext(ctx, `DELETE FROM activity_log WHERE annotation_id = ?`, "a1")
	require.NoError(t, err)

	err = db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM activity_fts WHERE activity_fts MATCH ?`, "unique").Scan(&count)
	require.NoError(t, err)
	require.Equal(t, 0, count)
}
