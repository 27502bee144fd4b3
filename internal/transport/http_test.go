package transport

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rpggio/bimtodo/internal/domain/annotation"
	"github.com/rpggio/bimtodo/internal/domain/viewpoint"
	"github.com/rpggio/bimtodo/internal/feed"
	"github.com/rpggio/bimtodo/internal/geom"
	"github.com/rpggio/bimtodo/internal/scene"
	"github.com/stretchr/testify/require"
)

func TestHTTPServer_Health(t *testing.T) {
	server := httptest.NewServer(NewServer(Handlers{}, AuthMiddleware("token")))
	t.Cleanup(server.Close)

	resp, err := http.Get(server.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestHTTPServer_MCPRequiresAuth(t *testing.T) {
	mcpServer := sdkmcp.NewServer(&sdkmcp.Implementation{Name: "test", Version: "v0.0.1"}, nil)
	mcpHandler := sdkmcp.NewStreamableHTTPHandler(func(*http.Request) *sdkmcp.Server { return mcpServer }, nil)

	server := httptest.NewServer(NewServer(Handlers{MCP: mcpHandler}, AuthMiddleware("token")))
	t.Cleanup(server.Close)

	body := `{"jsonrpc":"2.0","id":1,"method":"initialize","params":{"protocolVersion":"2025-06-18","capabilities":{},"clientInfo":{"name":"c","version":"1"}}}`
	post := func(token string) *http.Response {
		req, err := http.NewRequest(http.MethodPost, server.URL+"/mcp", bytes.NewBufferString(body))
		require.NoError(t, err)
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Accept", "application/json, text/event-stream")
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
		resp, err := http.DefaultClient.Do(req)
		require.NoError(t, err)
		t.Cleanup(func() { resp.Body.Close() })
		return resp
	}

	require.Equal(t, http.StatusUnauthorized, post("").StatusCode)
	require.Equal(t, http.StatusOK, post("token").StatusCode)

	// The query token is only honored on websocket upgrades.
	req, err := http.NewRequest(http.MethodPost, server.URL+"/mcp?access_token=token", bytes.NewBufferString(body))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json, text/event-stream")
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestHTTPServer_EventsFeed(t *testing.T) {
	viewer := scene.NewViewer(viewpoint.Viewpoint{Position: geom.Vec3(1, 2, 3)})
	svc := annotation.NewService(viewer, nil)
	hub := feed.NewHub(svc, nil)
	t.Cleanup(hub.Close)

	server := httptest.NewServer(NewServer(Handlers{Events: hub}, AuthMiddleware("token")))
	t.Cleanup(server.Close)

	url := "ws" + strings.TrimPrefix(server.URL, "http") + "/events"
	_, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.Error(t, err)
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	conn, _, err := websocket.DefaultDialer.Dial(url+"?access_token=token", nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	var ev feed.Event
	require.NoError(t, conn.ReadJSON(&ev))
	require.Equal(t, feed.EventSnapshot, ev.Type)

	require.Eventually(t, func() bool { return hub.Clients() == 1 }, time.Second, 10*time.Millisecond)
	_, err = svc.Create(context.Background(), annotation.CreateRequest{Description: "x", Priority: annotation.PriorityLow})
	require.NoError(t, err)
	require.NoError(t, conn.ReadJSON(&ev))
	require.Equal(t, feed.EventCreated, ev.Type)
}
