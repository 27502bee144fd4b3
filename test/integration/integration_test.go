package integration_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rpggio/bimtodo/internal/domain/highlight"
	"github.com/rpggio/bimtodo/internal/feed"
	"github.com/rpggio/bimtodo/internal/geom"
	"github.com/rpggio/bimtodo/internal/testserver"
	"github.com/stretchr/testify/require"
)

func callTool(t *testing.T, session *sdkmcp.ClientSession, name string, args map[string]any, out any) {
	t.Helper()
	if args == nil {
		args = map[string]any{}
	}
	res, err := session.CallTool(context.Background(), &sdkmcp.CallToolParams{Name: name, Arguments: args})
	require.NoError(t, err)
	require.False(t, res.IsError, "%s returned error content: %+v", name, res.Content)
	if out == nil {
		return
	}
	data, err := json.Marshal(res.StructuredContent)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(data, out))
}

func TestIntegration_AnnotationLifecycle(t *testing.T) {
	ts := testserver.New(t, "secret")
	session := ts.Connect(t)

	conn, _, err := websocket.DefaultDialer.Dial(ts.EventsURL(), nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))

	var ev feed.Event
	require.NoError(t, conn.ReadJSON(&ev))
	require.Equal(t, feed.EventSnapshot, ev.Type)
	require.Empty(t, ev.Annotations)
	require.Eventually(t, func() bool { return ts.Hub.Clients() == 1 }, time.Second, 10*time.Millisecond)

	// The user frames a beam and selects it.
	callTool(t, session, "set_camera", map[string]any{
		"position": map[string]any{"x": 4, "y": 3, "z": 2},
		"target":   map[string]any{"x": 0, "y": 1, "z": 0},
	}, nil)
	callTool(t, session, "select_objects", map[string]any{"selection": map[string]any{"m1": []int{42}}}, nil)

	var created struct {
		Annotation struct {
			ID         string                 `json:"id"`
			References highlight.SelectionMap `json:"references"`
		} `json:"annotation"`
	}
	callTool(t, session, "create_annotation", map[string]any{"description": "Check beam A", "priority": "High"}, &created)
	require.Equal(t, highlight.SelectionMap{"m1": {42}}, created.Annotation.References)

	require.NoError(t, conn.ReadJSON(&ev))
	require.Equal(t, feed.EventCreated, ev.Type)
	require.Equal(t, created.Annotation.ID, ev.Annotation.ID)

	// Move away, then go back through the card.
	ts.Viewer.Controls().SetLookAt(geom.Vec3(-9, 9, -9), geom.Vec3(5, 5, 5), false)
	ts.Viewer.Select(highlight.SelectionMap{})

	card, ok := ts.Board.Card(created.Annotation.ID)
	require.True(t, ok)
	card.Click()

	require.True(t, ts.Viewer.Controls().Position().ApproxEqual(geom.Vec3(4, 3, 2), 1e-6))
	require.Equal(t, highlight.SelectionMap{"m1": {42}}, ts.Viewer.FragmentHighlighter().Selection(highlight.SelectGroup))

	var activity struct {
		Entries []struct {
			Type string `json:"type"`
		} `json:"entries"`
	}
	callTool(t, session, "get_recent_activity", nil, &activity)
	require.Len(t, activity.Entries, 2)
	require.Equal(t, "annotation_activated", activity.Entries[0].Type)

	callTool(t, session, "delete_annotation", map[string]any{"id": created.Annotation.ID}, nil)
	require.NoError(t, conn.ReadJSON(&ev))
	require.Equal(t, feed.EventDeleted, ev.Type)
	require.Zero(t, ts.Annotations.Count())
}

func TestIntegration_RejectsMissingToken(t *testing.T) {
	ts := testserver.New(t, "secret")

	client := sdkmcp.NewClient(&sdkmcp.Implementation{Name: "anon", Version: "1.0.0"}, nil)
	_, err := client.Connect(context.Background(), &sdkmcp.StreamableClientTransport{
		Endpoint: ts.Server.URL + "/mcp",
	}, nil)
	require.Error(t, err)
}
