package mcp

import (
	"time"

	"github.com/rpggio/bimtodo/internal/domain/activity"
	"github.com/rpggio/bimtodo/internal/domain/annotation"
	"github.com/rpggio/bimtodo/internal/domain/highlight"
	"github.com/rpggio/bimtodo/internal/domain/viewpoint"
	"github.com/rpggio/bimtodo/internal/geom"
	"github.com/rpggio/bimtodo/internal/scene"
)

type EmptyInput struct{}

type CreateAnnotationParams struct {
	Description string `json:"description" jsonschema:"free text shown on the card; may be empty"`
	Priority    string `json:"priority" jsonschema:"one of Low, Medium, High"`
}

type AnnotationIDParams struct {
	ID string `json:"id" jsonschema:"annotation identifier"`
}

type ListAnnotationsParams struct {
	Prefix string `json:"prefix,omitempty" jsonschema:"case-sensitive description prefix; empty lists all"`
}

type FilterAnnotationsParams struct {
	Query string `json:"query" jsonschema:"case-sensitive description prefix; empty shows every card"`
}

type SetCameraParams struct {
	Position geom.Vector3 `json:"position" jsonschema:"camera position"`
	Target   geom.Vector3 `json:"target" jsonschema:"look-at target"`
	Animate  bool         `json:"animate,omitempty" jsonschema:"animate the transition"`
}

type SetCameraModeParams struct {
	Mode string `json:"mode" jsonschema:"perspective, orthographic or fixed"`
}

type SelectObjectsParams struct {
	Selection highlight.SelectionMap `json:"selection" jsonschema:"object IDs keyed by model ID; empty clears the selection"`
}

type GetRecentActivityParams struct {
	AnnotationID string `json:"annotation_id,omitempty" jsonschema:"only entries for this annotation"`
	Type         string `json:"type,omitempty" jsonschema:"only entries of this activity type"`
	Limit        int    `json:"limit,omitempty" jsonschema:"maximum number of entries"`
	Offset       int    `json:"offset,omitempty" jsonschema:"offset for pagination"`
}

type SearchActivityParams struct {
	Query string `json:"query" jsonschema:"full-text query over activity summaries"`
	Limit int    `json:"limit,omitempty" jsonschema:"maximum number of entries"`
}

// AnnotationView is the wire form of an annotation.
type AnnotationView struct {
	ID          string                 `json:"id"`
	Description string                 `json:"description"`
	CreatedAt   string                 `json:"created_at" jsonschema:"RFC3339 creation timestamp"`
	Priority    string                 `json:"priority"`
	References  highlight.SelectionMap `json:"references"`
	Viewpoint   viewpoint.Viewpoint    `json:"viewpoint"`
}

type AnnotationResult struct {
	Annotation AnnotationView `json:"annotation"`
}

type DeleteAnnotationResult struct {
	Deleted bool `json:"deleted"`
	Count   int  `json:"count"`
}

type ListAnnotationsResult struct {
	Annotations []AnnotationView `json:"annotations"`
	Count       int              `json:"count"`
	Total       int              `json:"total"`
}

type FilterAnnotationsResult struct {
	Query       string           `json:"query"`
	Annotations []AnnotationView `json:"annotations"`
	Count       int              `json:"count"`
	Total       int              `json:"total"`
}

type CountResult struct {
	Count int `json:"count"`
}

type ActivateAnnotationResult struct {
	Annotation AnnotationView `json:"annotation"`
	Scene      SceneResult    `json:"scene"`
}

type ToggleHighlightResult struct {
	Active bool     `json:"active"`
	Groups []string `json:"groups"`
}

type SceneResult struct {
	Mode   string              `json:"mode"`
	Camera viewpoint.Viewpoint `json:"camera"`
	Groups []scene.GroupState  `json:"groups"`
}

type ActivityView struct {
	ID           int64  `json:"id"`
	AnnotationID string `json:"annotation_id,omitempty"`
	Type         string `json:"type"`
	Summary      string `json:"summary"`
	Details      string `json:"details,omitempty"`
	CreatedAt    string `json:"created_at"`
}

type ActivityResult struct {
	Entries []ActivityView `json:"entries"`
}

func toAnnotationView(a annotation.Annotation) AnnotationView {
	refs := a.References
	if refs == nil {
		refs = highlight.SelectionMap{}
	}
	return AnnotationView{
		ID:          a.ID,
		Description: a.Description,
		CreatedAt:   a.CreatedAt.UTC().Format(time.RFC3339Nano),
		Priority:    string(a.Priority),
		References:  refs,
		Viewpoint:   a.Viewpoint,
	}
}

func toSceneResult(s scene.State) SceneResult {
	return SceneResult{Mode: string(s.Mode), Camera: s.Camera, Groups: s.Groups}
}

func toActivityViews(entries []activity.ActivityEntry) []ActivityView {
	out := make([]ActivityView, 0, len(entries))
	for _, e := range entries {
		v := ActivityView{
			ID:        e.ID,
			Type:      string(e.ActivityType),
			Summary:   e.Summary,
			Details:   e.Details,
			CreatedAt: e.CreatedAt.UTC().Format(time.RFC3339Nano),
		}
		if e.AnnotationID != nil {
			v.AnnotationID = *e.AnnotationID
		}
		out = append(out, v)
	}
	return out
}
