package feed_test

import (
	"context"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rpggio/bimtodo/internal/domain/annotation"
	"github.com/rpggio/bimtodo/internal/domain/highlight"
	"github.com/rpggio/bimtodo/internal/domain/viewpoint"
	"github.com/rpggio/bimtodo/internal/feed"
	"github.com/rpggio/bimtodo/internal/geom"
	"github.com/rpggio/bimtodo/internal/scene"
	"github.com/stretchr/testify/require"
)

func setup(t *testing.T) (*annotation.Service, *feed.Hub, *httptest.Server) {
	t.Helper()
	viewer := scene.NewViewer(viewpoint.Viewpoint{Position: geom.Vec3(10, 10, 10)})
	viewer.FragmentHighlighter().Select(highlight.SelectionMap{"m1": {42}})
	svc := annotation.NewService(viewer, nil)
	hub := feed.NewHub(svc, nil)
	srv := httptest.NewServer(hub)
	t.Cleanup(func() {
		hub.Close()
		srv.Close()
	})
	return svc, hub, srv
}

func dial(t *testing.T, srv *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readEvent(t *testing.T, conn *websocket.Conn) feed.Event {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	var ev feed.Event
	require.NoError(t, conn.ReadJSON(&ev))
	return ev
}

func TestHub_SnapshotOnConnect(t *testing.T) {
	svc, hub, srv := setup(t)
	a, err := svc.Create(context.Background(), annotation.CreateRequest{Description: "Check beam A", Priority: annotation.PriorityHigh})
	require.NoError(t, err)

	conn := dial(t, srv)
	ev := readEvent(t, conn)
	require.Equal(t, feed.EventSnapshot, ev.Type)
	require.Len(t, ev.Annotations, 1)
	require.Equal(t, a.ID, ev.Annotations[0].ID)
	require.Eventually(t, func() bool { return hub.Clients() == 1 }, time.Second, 10*time.Millisecond)
}

func TestHub_BroadcastsCreatedAndDeleted(t *testing.T) {
	ctx := context.Background()
	svc, hub, srv := setup(t)

	conn := dial(t, srv)
	require.Equal(t, feed.EventSnapshot, readEvent(t, conn).Type)
	require.Eventually(t, func() bool { return hub.Clients() == 1 }, time.Second, 10*time.Millisecond)

	a, err := svc.Create(ctx, annotation.CreateRequest{Description: "Check beam A", Priority: annotation.PriorityHigh})
	require.NoError(t, err)

	ev := readEvent(t, conn)
	require.Equal(t, feed.EventCreated, ev.Type)
	require.NotNil(t, ev.Annotation)
	require.Equal(t, a.ID, ev.Annotation.ID)
	require.Equal(t, highlight.SelectionMap{"m1": {42}}, ev.Annotation.References)
	require.Equal(t, annotation.PriorityHigh, ev.Annotation.Priority)

	require.NoError(t, svc.Delete(ctx, a.ID))
	ev = readEvent(t, conn)
	require.Equal(t, feed.EventDeleted, ev.Type)
	require.Equal(t, a.ID, ev.Annotation.ID)
}

func TestHub_ClientDisconnect(t *testing.T) {
	_, hub, srv := setup(t)

	conn := dial(t, srv)
	readEvent(t, conn)
	require.Eventually(t, func() bool { return hub.Clients() == 1 }, time.Second, 10*time.Millisecond)

	conn.Close()
	require.Eventually(t, func() bool { return hub.Clients() == 0 }, time.Second, 10*time.Millisecond)
}

func TestHub_CloseStopsBroadcasting(t *testing.T) {
	svc, hub, srv := setup(t)
	conn := dial(t, srv)
	readEvent(t, conn)
	require.Eventually(t, func() bool { return hub.Clients() == 1 }, time.Second, 10*time.Millisecond)

	hub.Close()
	require.Zero(t, hub.Clients())

	_, err := svc.Create(context.Background(), annotation.CreateRequest{Priority: annotation.PriorityLow})
	require.NoError(t, err)

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(time.Second)))
	_, _, err = conn.ReadMessage()
	require.Error(t, err)
}

func TestHub_SlowClientDoesNotBlockCreate(t *testing.T) {
	ctx := context.Background()
	svc, hub, srv := setup(t)

	// Reads the snapshot and then never reads again.
	conn := dial(t, srv)
	readEvent(t, conn)
	require.Eventually(t, func() bool { return hub.Clients() == 1 }, time.Second, 10*time.Millisecond)

	description := strings.Repeat("x", 1<<20)
	var worst time.Duration
	for i := 0; i < 96; i++ {
		start := time.Now()
		_, err := svc.Create(ctx, annotation.CreateRequest{Description: description, Priority: annotation.PriorityLow})
		require.NoError(t, err)
		if d := time.Since(start); d > worst {
			worst = d
		}
	}

	require.Less(t, worst, 2*time.Second)
	require.Eventually(t, func() bool { return hub.Clients() == 0 }, 5*time.Second, 10*time.Millisecond)
}

func TestHub_SkipsCreatedAfterDelete(t *testing.T) {
	ctx := context.Background()
	viewer := scene.NewViewer(viewpoint.Viewpoint{Position: geom.Vec3(10, 10, 10)})
	svc := annotation.NewService(viewer, nil)

	// Registered ahead of the hub, so the hub sees deleted before created.
	svc.OnCreated(func(a annotation.Annotation) {
		if a.Description == "gone" {
			require.NoError(t, svc.Delete(ctx, a.ID))
		}
	})

	hub := feed.NewHub(svc, nil)
	srv := httptest.NewServer(hub)
	t.Cleanup(func() {
		hub.Close()
		srv.Close()
	})

	conn := dial(t, srv)
	readEvent(t, conn)
	require.Eventually(t, func() bool { return hub.Clients() == 1 }, time.Second, 10*time.Millisecond)

	gone, err := svc.Create(ctx, annotation.CreateRequest{Description: "gone", Priority: annotation.PriorityLow})
	require.NoError(t, err)
	kept, err := svc.Create(ctx, annotation.CreateRequest{Description: "kept", Priority: annotation.PriorityLow})
	require.NoError(t, err)

	ev := readEvent(t, conn)
	require.Equal(t, feed.EventDeleted, ev.Type)
	require.Equal(t, gone.ID, ev.Annotation.ID)

	ev = readEvent(t, conn)
	require.Equal(t, feed.EventCreated, ev.Type)
	require.Equal(t, kept.ID, ev.Annotation.ID)
}
