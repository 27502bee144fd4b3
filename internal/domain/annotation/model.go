package annotation

import (
	"time"

	"github.com/rpggio/bimtodo/internal/domain/highlight"
	"github.com/rpggio/bimtodo/internal/domain/viewpoint"
)

// Priority classifies an annotation and selects its highlight group.
type Priority string

const (
	PriorityLow    Priority = "Low"
	PriorityMedium Priority = "Medium"
	PriorityHigh   Priority = "High"
)

// Priorities lists every level in ascending order.
var Priorities = []Priority{PriorityLow, PriorityMedium, PriorityHigh}

// Valid reports whether p is one of the known levels.
func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

// Annotation is a to-do note anchored to a camera viewpoint and a set of scene objects.
type Annotation struct {
	ID          string                 `json:"id"`
	Description string                 `json:"description"`
	CreatedAt   time.Time              `json:"created_at"`
	References  highlight.SelectionMap `json:"references"`
	Viewpoint   viewpoint.Viewpoint    `json:"viewpoint"`
	Priority    Priority               `json:"priority"`
}

// HasReferences reports whether the annotation points at any scene object.
func (a Annotation) HasReferences() bool {
	return !a.References.Empty()
}
