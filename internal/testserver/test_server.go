package testserver

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rpggio/bimtodo/internal/domain/activity"
	"github.com/rpggio/bimtodo/internal/domain/annotation"
	"github.com/rpggio/bimtodo/internal/domain/viewpoint"
	"github.com/rpggio/bimtodo/internal/feed"
	"github.com/rpggio/bimtodo/internal/geom"
	"github.com/rpggio/bimtodo/internal/mcp"
	"github.com/rpggio/bimtodo/internal/scene"
	"github.com/rpggio/bimtodo/internal/sqlite"
	"github.com/rpggio/bimtodo/internal/transport"
	"github.com/rpggio/bimtodo/internal/view"
	"github.com/stretchr/testify/require"
)

// Home is the initial camera viewpoint of every test server.
var Home = viewpoint.Viewpoint{Position: geom.Vec3(12, 8, 12), Target: geom.Vec3(0, 0, 0)}

// TestServer runs the full HTTP stack against an in-memory database.
type TestServer struct {
	Server      *httptest.Server
	DB          *sqlite.DB
	Token       string
	Viewer      *scene.Viewer
	Annotations *annotation.Service
	Board       *view.Board
	Hub         *feed.Hub
}

// New starts a server that requires token on every route but /health.
func New(t *testing.T, token string) *TestServer {
	t.Helper()
	ctx := context.Background()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := sqlite.New(dsn)
	require.NoError(t, err)
	require.NoError(t, db.RunMigrations())

	viewer := scene.NewViewer(Home)
	annotationSvc := annotation.NewService(viewer, nil)
	policy := annotation.NewHighlightPolicy(viewer.FragmentHighlighter(), "", nil)
	require.NoError(t, policy.RegisterPriorityStyles(annotation.DefaultPriorityStyles()))

	activitySvc := activity.NewService(sqlite.NewActivityRepository(db), nil)
	stopTracking := activitySvc.Track(ctx, annotationSvc)
	board := view.NewBoard(ctx, annotationSvc, view.NewWindow("list"), view.NewWindow("filter"), nil)
	hub := feed.NewHub(annotationSvc, nil)

	mcpServer := mcp.NewServer(mcp.Config{
		Services: mcp.Services{
			Annotations: annotationSvc,
			Board:       board,
			Highlights:  policy,
			Scene:       viewer,
			Activity:    activitySvc,
		},
		AuthToken:     token,
		TransportMode: "http",
	})
	mcpHandler := sdkmcp.NewStreamableHTTPHandler(func(*http.Request) *sdkmcp.Server { return mcpServer }, nil)

	server := httptest.NewServer(transport.NewServer(
		transport.Handlers{MCP: mcpHandler, Events: hub},
		transport.AuthMiddleware(token),
	))

	ts := &TestServer{
		Server:      server,
		DB:          db,
		Token:       token,
		Viewer:      viewer,
		Annotations: annotationSvc,
		Board:       board,
		Hub:         hub,
	}

	t.Cleanup(func() {
		hub.Close()
		server.Close()
		stopTracking()
		board.Close()
		annotationSvc.Close()
		_ = db.Close()
	})

	return ts
}

// Connect opens an MCP client session over streamable HTTP with the server token.
func (ts *TestServer) Connect(t *testing.T) *sdkmcp.ClientSession {
	t.Helper()

	client := sdkmcp.NewClient(&sdkmcp.Implementation{Name: "test-client", Version: "1.0.0"}, nil)
	session, err := client.Connect(context.Background(), &sdkmcp.StreamableClientTransport{
		Endpoint:   ts.Server.URL + "/mcp",
		HTTPClient: &http.Client{Transport: &bearerTransport{token: ts.Token}},
	}, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = session.Close() })
	return session
}

// EventsURL returns the websocket feed URL including the access token.
func (ts *TestServer) EventsURL() string {
	return "ws" + strings.TrimPrefix(ts.Server.URL, "http") + "/events?access_token=" + ts.Token
}

type bearerTransport struct {
	token string
}

func (b *bearerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req = req.Clone(req.Context())
	req.Header.Set("Authorization", "Bearer "+b.token)
	return http.DefaultTransport.RoundTrip(req)
}
