package activity

import (
	"context"

	"github.com/rpggio/bimtodo/internal/domain/annotation"
)

// Repository provides persistence operations for activity entries.
type Repository interface {
	Log(ctx context.Context, entry *ActivityEntry) error
	List(ctx context.Context, opts ListActivityOptions) ([]ActivityEntry, error)
	Search(ctx context.Context, query string, opts ListActivityOptions) ([]ActivityEntry, error)
}

// AnnotationEvents is the subset of the annotation service the log listens to.
type AnnotationEvents interface {
	OnCreated(fn func(annotation.Annotation)) func()
	OnDeleted(fn func(annotation.Annotation)) func()
	OnActivated(fn func(annotation.Annotation)) func()
}
