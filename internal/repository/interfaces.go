package repository

import (
	"context"

	"github.com/rpggio/bimtodo/internal/domain/activity"
)

// ActivityRepository manages activity log persistence
type ActivityRepository interface {
	Log(ctx context.Context, entry *activity.ActivityEntry) error
	Get(ctx context.Context, id int64) (*activity.ActivityEntry, error)
	List(ctx context.Context, opts activity.ListActivityOptions) ([]activity.ActivityEntry, error)
	Search(ctx context.Context, query string, opts activity.ListActivityOptions) ([]activity.ActivityEntry, error)
}
