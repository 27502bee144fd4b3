package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/rpggio/bimtodo/internal/domain/activity"
	"github.com/rpggio/bimtodo/internal/repository"
)

const activityColumns = `
	a.id, a.annotation_id, a.activity_type, a.summary, a.details, a.created_at
`

// ActivityRepository implements repository.ActivityRepository for SQLite
type ActivityRepository struct {
	db *DB
}

// NewActivityRepository creates a new ActivityRepository
func NewActivityRepository(db *DB) *ActivityRepository {
	return &ActivityRepository{db: db}
}

// Log inserts a new activity entry
func (r *ActivityRepository) Log(ctx context.Context, entry *activity.ActivityEntry) error {
	if entry == nil {
		return repository.ErrInvalidInput
	}
	createdAt := entry.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}
	createdAt = createdAt.UTC()

	query := `
		INSERT INTO activity_log (
			annotation_id, activity_type, summary, details, created_at
		) VALUES (?, ?, ?, ?, ?)
	`

	result, err := r.db.ExecContext(ctx, query,
		entry.AnnotationID,
		entry.ActivityType,
		entry.Summary,
		entry.Details,
		createdAt,
	)
	if err != nil {
		return fmt.Errorf("failed to log activity: %w", err)
	}

	id, err := result.LastInsertId()
	if err == nil {
		entry.ID = id
	}
	entry.CreatedAt = createdAt

	return nil
}

// Get returns a single activity entry by ID
func (r *ActivityRepository) Get(ctx context.Context, id int64) (*activity.ActivityEntry, error) {
	row := r.db.QueryRowContext(ctx, "SELECT "+activityColumns+" FROM activity_log a WHERE a.id = ?", id)
	entry, err := scanActivity(row)
	if isNoRows(err) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get activity: %w", err)
	}
	return entry, nil
}

// List returns activity entries matching the given filters, newest first
func (r *ActivityRepository) List(ctx context.Context, opts activity.ListActivityOptions) ([]activity.ActivityEntry, error) {
	query := "SELECT " + activityColumns + " FROM activity_log a"
	conditions, args := activityConditions(opts)
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY a.created_at DESC, a.id DESC"
	query, args = paginate(query, args, opts)

	return r.query(ctx, query, args...)
}

// Search performs a full-text search over activity summaries and details
func (r *ActivityRepository) Search(ctx context.Context, text string, opts activity.ListActivityOptions) ([]activity.ActivityEntry, error) {
	query := `
		SELECT ` + activityColumns + `
		FROM activity_fts
		JOIN activity_log a ON a.id = activity_fts.rowid
		WHERE activity_fts MATCH ?
	`
	args := []interface{}{text}
	conditions, condArgs := activityConditions(opts)
	if len(conditions) > 0 {
		query += " AND " + strings.Join(conditions, " AND ")
		args = append(args, condArgs...)
	}
	query += " ORDER BY rank, a.id DESC"
	query, args = paginate(query, args, opts)

	entries, err := r.query(ctx, query, args...)
	if isFTSSyntaxError(err) {
		return nil, fmt.Errorf("%w: %v", repository.ErrInvalidInput, err)
	}
	return entries, err
}

func (r *ActivityRepository) query(ctx context.Context, query string, args ...interface{}) ([]activity.ActivityEntry, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list activity: %w", err)
	}
	defer rows.Close()

	var entries []activity.ActivityEntry
	for rows.Next() {
		entry, err := scanActivity(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan activity entry: %w", err)
		}
		entries = append(entries, *entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating activity rows: %w", err)
	}

	return entries, nil
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanActivity(s scanner) (*activity.ActivityEntry, error) {
	var entry activity.ActivityEntry
	var annotationID sql.NullString
	var details sql.NullString
	if err := s.Scan(
		&entry.ID,
		&annotationID,
		&entry.ActivityType,
		&entry.Summary,
		&details,
		&entry.CreatedAt,
	); err != nil {
		return nil, err
	}
	if annotationID.Valid {
		entry.AnnotationID = &annotationID.String
	}
	entry.Details = details.String
	return &entry, nil
}

func activityConditions(opts activity.ListActivityOptions) ([]string, []interface{}) {
	var conditions []string
	var args []interface{}
	if opts.AnnotationID != nil {
		conditions = append(conditions, "a.annotation_id = ?")
		args = append(args, *opts.AnnotationID)
	}
	if opts.ActivityType != nil {
		conditions = append(conditions, "a.activity_type = ?")
		args = append(args, *opts.ActivityType)
	}
	return conditions, args
}

func paginate(query string, args []interface{}, opts activity.ListActivityOptions) (string, []interface{}) {
	if opts.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, opts.Limit)
	} else if opts.Offset > 0 {
		query += " LIMIT -1"
	}
	if opts.Offset > 0 {
		query += " OFFSET ?"
		args = append(args, opts.Offset)
	}
	return query, args
}
