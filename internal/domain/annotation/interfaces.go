package annotation

import (
	"context"

	"github.com/rpggio/bimtodo/internal/domain/highlight"
	"github.com/rpggio/bimtodo/internal/domain/viewpoint"
)

// Tools resolves the shared viewer tools an annotation needs.
type Tools interface {
	Camera(ctx context.Context) (viewpoint.Camera, error)
	Highlighter(ctx context.Context) (highlight.Highlighter, error)
}
