package mcp

import (
	"context"
	"fmt"
	"log/slog"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rpggio/bimtodo/internal/domain/activity"
	"github.com/rpggio/bimtodo/internal/domain/annotation"
	"github.com/rpggio/bimtodo/internal/domain/viewpoint"
)

type tools struct {
	svc    Services
	logger *slog.Logger
}

func registerTools(server *sdkmcp.Server, svc Services, logger *slog.Logger) {
	t := &tools{svc: svc, logger: logger}

	// Annotations
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "create_annotation",
		Description: "Create a to-do anchored to the current camera viewpoint and selected objects",
	}, t.createAnnotation)
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "delete_annotation",
		Description: "Delete a to-do, as pressing its delete button does",
	}, t.deleteAnnotation)
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "list_annotations",
		Description: "List to-dos in creation order, optionally filtered by description prefix. Does not change the board filter",
	}, t.listAnnotations)
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "filter_annotations",
		Description: "Set the board's live filter query, as typing in the filter box does, and return the visible to-dos",
	}, t.filterAnnotations)
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "count_annotations",
		Description: "Count stored to-dos",
	}, t.countAnnotations)
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "activate_annotation",
		Description: "Restore a to-do's viewpoint and re-select its objects, as clicking its card does",
	}, t.activateAnnotation)
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "toggle_priority_highlight",
		Description: "Toggle coloring of every to-do's objects by priority",
	}, t.togglePriorityHighlight)

	// Scene
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "set_camera",
		Description: "Move the look-at camera to a position and target",
	}, t.setCamera)
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "set_camera_mode",
		Description: "Switch the active camera: perspective, orthographic or fixed (no look-at controls)",
	}, t.setCameraMode)
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "select_objects",
		Description: "Replace the current object selection",
	}, t.selectObjects)
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "get_scene_state",
		Description: "Get the camera mode, viewpoint and highlight groups",
	}, t.getSceneState)

	// Activity
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "get_recent_activity",
		Description: "List recent activity, newest first",
	}, t.getRecentActivity)
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "search_activity",
		Description: "Full-text search over the activity log",
	}, t.searchActivity)
}

func (t *tools) createAnnotation(ctx context.Context, _ *sdkmcp.CallToolRequest, in CreateAnnotationParams) (*sdkmcp.CallToolResult, AnnotationResult, error) {
	priority, err := annotation.ParsePriority(in.Priority)
	if err != nil {
		return nil, AnnotationResult{}, toolError(err)
	}
	a, err := t.svc.Annotations.Create(ctx, annotation.CreateRequest{
		Description: in.Description,
		Priority:    priority,
	})
	if err != nil {
		return nil, AnnotationResult{}, toolError(err)
	}
	return nil, AnnotationResult{Annotation: toAnnotationView(*a)}, nil
}

func (t *tools) deleteAnnotation(ctx context.Context, _ *sdkmcp.CallToolRequest, in AnnotationIDParams) (*sdkmcp.CallToolResult, DeleteAnnotationResult, error) {
	if err := t.svc.Board.Delete(ctx, in.ID); err != nil {
		return nil, DeleteAnnotationResult{}, toolError(err)
	}
	return nil, DeleteAnnotationResult{Deleted: true, Count: t.svc.Annotations.Count()}, nil
}

func (t *tools) listAnnotations(_ context.Context, _ *sdkmcp.CallToolRequest, in ListAnnotationsParams) (*sdkmcp.CallToolResult, ListAnnotationsResult, error) {
	all := t.svc.Annotations.List()
	matched := annotation.Filter(in.Prefix, all)

	out := ListAnnotationsResult{Annotations: make([]AnnotationView, 0, len(matched)), Total: len(all)}
	for _, a := range matched {
		out.Annotations = append(out.Annotations, toAnnotationView(a))
	}
	out.Count = len(out.Annotations)
	return nil, out, nil
}

func (t *tools) filterAnnotations(_ context.Context, _ *sdkmcp.CallToolRequest, in FilterAnnotationsParams) (*sdkmcp.CallToolResult, FilterAnnotationsResult, error) {
	all := t.svc.Annotations.List()
	byID := make(map[string]annotation.Annotation, len(all))
	for _, a := range all {
		byID[a.ID] = a
	}

	cards := t.svc.Board.Filter(in.Query)
	out := FilterAnnotationsResult{Query: in.Query, Annotations: make([]AnnotationView, 0, len(cards)), Total: len(all)}
	for _, card := range cards {
		a, ok := byID[card.AnnotationID()]
		if !ok {
			continue
		}
		out.Annotations = append(out.Annotations, toAnnotationView(a))
	}
	out.Count = len(out.Annotations)
	return nil, out, nil
}

func (t *tools) countAnnotations(_ context.Context, _ *sdkmcp.CallToolRequest, _ EmptyInput) (*sdkmcp.CallToolResult, CountResult, error) {
	return nil, CountResult{Count: t.svc.Annotations.Count()}, nil
}

func (t *tools) activateAnnotation(ctx context.Context, _ *sdkmcp.CallToolRequest, in AnnotationIDParams) (*sdkmcp.CallToolResult, ActivateAnnotationResult, error) {
	if err := t.svc.Board.Activate(ctx, in.ID); err != nil {
		return nil, ActivateAnnotationResult{}, toolError(err)
	}
	a, err := t.svc.Annotations.Get(in.ID)
	if err != nil {
		return nil, ActivateAnnotationResult{}, toolError(err)
	}
	return nil, ActivateAnnotationResult{
		Annotation: toAnnotationView(*a),
		Scene:      toSceneResult(t.svc.Scene.State()),
	}, nil
}

func (t *tools) togglePriorityHighlight(ctx context.Context, _ *sdkmcp.CallToolRequest, _ EmptyInput) (*sdkmcp.CallToolResult, ToggleHighlightResult, error) {
	active, err := t.svc.Highlights.ToggleAll(t.svc.Annotations.List())
	if err != nil && !active {
		return nil, ToggleHighlightResult{}, toolError(err)
	}
	if err != nil {
		t.warn("priority highlight partially applied", "error", err)
	}

	groups := make([]string, 0, len(annotation.Priorities))
	for _, p := range annotation.Priorities {
		groups = append(groups, t.svc.Highlights.GroupKey(p))
	}

	state := "off"
	if active {
		state = "on"
	}
	t.logActivity(ctx, activity.TypeHighlightToggled, "priority highlight "+state)
	return nil, ToggleHighlightResult{Active: active, Groups: groups}, nil
}

func (t *tools) setCamera(_ context.Context, _ *sdkmcp.CallToolRequest, in SetCameraParams) (*sdkmcp.CallToolResult, SceneResult, error) {
	if !in.Position.IsFinite() || !in.Target.IsFinite() {
		return nil, SceneResult{}, toolError(fmt.Errorf("%w: camera vectors must be finite", annotation.ErrInvalidInput))
	}
	t.svc.Scene.LookAt(viewpoint.Viewpoint{Position: in.Position, Target: in.Target}, in.Animate)
	return nil, toSceneResult(t.svc.Scene.State()), nil
}

func (t *tools) setCameraMode(ctx context.Context, _ *sdkmcp.CallToolRequest, in SetCameraModeParams) (*sdkmcp.CallToolResult, SceneResult, error) {
	mode := viewpoint.Projection(in.Mode)
	if err := t.svc.Scene.SetCameraMode(mode); err != nil {
		return nil, SceneResult{}, toolError(err)
	}
	t.logActivity(ctx, activity.TypeCameraModeChanged, "camera mode "+in.Mode)
	return nil, toSceneResult(t.svc.Scene.State()), nil
}

func (t *tools) selectObjects(_ context.Context, _ *sdkmcp.CallToolRequest, in SelectObjectsParams) (*sdkmcp.CallToolResult, SceneResult, error) {
	t.svc.Scene.Select(in.Selection)
	return nil, toSceneResult(t.svc.Scene.State()), nil
}

func (t *tools) getSceneState(_ context.Context, _ *sdkmcp.CallToolRequest, _ EmptyInput) (*sdkmcp.CallToolResult, SceneResult, error) {
	return nil, toSceneResult(t.svc.Scene.State()), nil
}

func (t *tools) getRecentActivity(ctx context.Context, _ *sdkmcp.CallToolRequest, in GetRecentActivityParams) (*sdkmcp.CallToolResult, ActivityResult, error) {
	if t.svc.Activity == nil {
		return nil, ActivityResult{Entries: []ActivityView{}}, nil
	}
	opts := activity.ListActivityOptions{Limit: in.Limit, Offset: in.Offset}
	if in.AnnotationID != "" {
		id := in.AnnotationID
		opts.AnnotationID = &id
	}
	if in.Type != "" {
		typ := activity.ActivityType(in.Type)
		opts.ActivityType = &typ
	}
	entries, err := t.svc.Activity.GetRecentActivity(ctx, opts)
	if err != nil {
		return nil, ActivityResult{}, toolError(err)
	}
	return nil, ActivityResult{Entries: toActivityViews(entries)}, nil
}

func (t *tools) searchActivity(ctx context.Context, _ *sdkmcp.CallToolRequest, in SearchActivityParams) (*sdkmcp.CallToolResult, ActivityResult, error) {
	if t.svc.Activity == nil {
		return nil, ActivityResult{Entries: []ActivityView{}}, nil
	}
	entries, err := t.svc.Activity.SearchActivity(ctx, in.Query, activity.ListActivityOptions{Limit: in.Limit})
	if err != nil {
		return nil, ActivityResult{}, toolError(err)
	}
	return nil, ActivityResult{Entries: toActivityViews(entries)}, nil
}

func (t *tools) logActivity(ctx context.Context, kind activity.ActivityType, summary string) {
	if t.svc.Activity == nil {
		return
	}
	if err := t.svc.Activity.LogActivity(ctx, &activity.ActivityEntry{ActivityType: kind, Summary: summary}); err != nil {
		t.warn("failed to record activity", "type", kind, "error", err)
	}
}

func (t *tools) warn(msg string, args ...any) {
	if t.logger != nil {
		t.logger.Warn(msg, args...)
	}
}
