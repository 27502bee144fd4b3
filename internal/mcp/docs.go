package mcp

import (
	"context"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

const serverInstructions = `bimtodo keeps to-do annotations anchored to places in a BIM scene.

Core concepts:
- Annotation: description + priority (Low, Medium, High) + the camera viewpoint and selected objects captured at creation.
- Viewpoint: camera position and look-at target. Only perspective and orthographic cameras can be captured or restored.
- Selection: object IDs keyed by model ID, held in the "select" highlight group.
- Priority highlight: a toggle that colors every annotation's objects by priority.

Typical workflow:
1) Frame the view: set_camera, select_objects (or let the user do it in the viewer).
2) create_annotation with a description and priority.
3) list_annotations (optional prefix filter) to browse; filter_annotations to narrow the board's cards; activate_annotation to go back to one.
4) toggle_priority_highlight for an overview; delete_annotation when done.
5) get_recent_activity / search_activity to review what happened.

Docs:
- bimtodo://docs/index
- bimtodo://docs/concepts
`

type docResource struct {
	URI         string
	Name        string
	Title       string
	Description string
	Content     string
}

var docResources = []docResource{
	{
		URI:         "bimtodo://docs/index",
		Name:        "docs_index",
		Title:       "bimtodo docs index",
		Description: "Entry point: tools, what they do, and known limitations.",
		Content: `# bimtodo: Agent Docs Index

## Tools

- ` + "`create_annotation`" + ` captures the current viewpoint and selection. Fails with UNSUPPORTED_CAMERA_MODE when the camera is fixed.
- ` + "`list_annotations`" + ` / ` + "`count_annotations`" + ` browse in creation order. ` + "`prefix`" + ` is case-sensitive.
- ` + "`filter_annotations`" + ` sets the board's live filter; ` + "`list_annotations`" + ` never changes it.
- ` + "`activate_annotation`" + ` does what clicking the card does: animates the camera back and re-selects the referenced objects.
- ` + "`delete_annotation`" + ` removes one annotation by ID.
- ` + "`toggle_priority_highlight`" + ` flips priority coloring; turning it off clears all three groups.
- ` + "`set_camera`" + `, ` + "`set_camera_mode`" + `, ` + "`select_objects`" + `, ` + "`get_scene_state`" + ` drive the viewer.
- ` + "`get_recent_activity`" + ` / ` + "`search_activity`" + ` read the activity log.

## Limitations

- Annotations live for the lifetime of the server process; nothing is exported or imported.
- Annotations cannot be edited. Delete and re-create instead.
- Priority coloring is a snapshot; toggle off and on to pick up new annotations.
`,
	},
	{
		URI:         "bimtodo://docs/concepts",
		Name:        "docs_concepts",
		Title:       "bimtodo concepts",
		Description: "Glossary and invariants.",
		Content: `# bimtodo concepts

- Annotations are ordered by creation; that order is the display order.
- IDs are generated at creation and never reused.
- References are copied at creation; later selection changes do not affect stored annotations.
- An annotation without references still restores its viewpoint but leaves the selection alone.
- Highlight groups are named ` + "`<prefix>-priority-<Low|Medium|High>`" + `.
- Activity entries are persisted in SQLite and survive restarts; annotations do not.
`,
	},
}

func registerDocResources(server *sdkmcp.Server) {
	for _, doc := range docResources {
		doc := doc

		server.AddResource(&sdkmcp.Resource{
			URI:         doc.URI,
			Name:        doc.Name,
			Title:       doc.Title,
			Description: doc.Description,
			MIMEType:    "text/markdown",
			Size:        int64(len(doc.Content)),
		}, func(_ context.Context, req *sdkmcp.ReadResourceRequest) (*sdkmcp.ReadResourceResult, error) {
			uri := doc.URI
			if req != nil && req.Params != nil && req.Params.URI != "" {
				uri = req.Params.URI
			}
			return &sdkmcp.ReadResourceResult{
				Contents: []*sdkmcp.ResourceContents{{
					URI:      uri,
					MIMEType: "text/markdown",
					Text:     doc.Content,
				}},
			}, nil
		})
	}
}
