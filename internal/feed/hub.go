// Package feed broadcasts annotation events to websocket subscribers.
package feed

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rpggio/bimtodo/internal/domain/annotation"
)

const (
	writeWait = 10 * time.Second

	// sendBuffer is how many events may queue for one client before it is
	// dropped as too slow.
	sendBuffer = 32
)

// EventType names a broadcast event.
type EventType string

const (
	EventSnapshot EventType = "snapshot"
	EventCreated  EventType = "created"
	EventDeleted  EventType = "deleted"
)

// Event is the JSON message sent to subscribers. Snapshot events carry the
// full list in Annotations; the others carry a single Annotation.
type Event struct {
	Type        EventType               `json:"type"`
	Annotation  *annotation.Annotation  `json:"annotation,omitempty"`
	Annotations []annotation.Annotation `json:"annotations,omitempty"`
	At          time.Time               `json:"at"`
}

// Source is the annotation service the hub follows.
type Source interface {
	Get(id string) (*annotation.Annotation, error)
	List() []annotation.Annotation
	OnCreated(fn func(annotation.Annotation)) func()
	OnDeleted(fn func(annotation.Annotation)) func()
}

// Hub tracks websocket clients and fans events out to them. Each client
// has its own queue and writer goroutine, so a slow reader never blocks the
// annotation service or other clients.
type Hub struct {
	source   Source
	logger   *slog.Logger
	upgrader websocket.Upgrader

	mu      sync.Mutex
	clients map[*client]struct{}
	stops   []func()
	closed  bool
}

type client struct {
	conn *websocket.Conn
	send chan []byte
}

// NewHub creates a hub that broadcasts source's created and deleted events.
func NewHub(source Source, logger *slog.Logger) *Hub {
	h := &Hub{
		source:  source,
		logger:  logger,
		clients: make(map[*client]struct{}),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(*http.Request) bool { return true },
		},
	}
	h.stops = []func(){
		source.OnCreated(func(a annotation.Annotation) { h.publish(EventCreated, a) }),
		source.OnDeleted(func(a annotation.Annotation) { h.publish(EventDeleted, a) }),
	}
	return h
}

// ServeHTTP upgrades the request, queues a snapshot of the current
// annotations, and keeps the client registered until it disconnects.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.warn("websocket upgrade failed", "error", err)
		return
	}
	c := &client{conn: conn, send: make(chan []byte, sendBuffer)}

	// The snapshot is queued under the lock so no event published after it
	// can overtake it.
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		conn.Close()
		return
	}
	snapshot, err := json.Marshal(Event{
		Type:        EventSnapshot,
		Annotations: h.source.List(),
		At:          time.Now().UTC(),
	})
	if err != nil {
		h.mu.Unlock()
		h.warn("marshal snapshot failed", "error", err)
		conn.Close()
		return
	}
	c.send <- snapshot
	h.clients[c] = struct{}{}
	h.mu.Unlock()
	h.debug("feed client connected", "remote", r.RemoteAddr)

	go h.writePump(c)
	defer h.drop(c)

	// Reads only detect disconnects; client messages are ignored.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

// Clients returns the number of connected subscribers.
func (h *Hub) Clients() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// Close stops following the source and disconnects every client.
func (h *Hub) Close() {
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return
	}
	h.closed = true
	stops := h.stops
	h.stops = nil
	for c := range h.clients {
		close(c.send)
	}
	h.clients = make(map[*client]struct{})
	h.mu.Unlock()

	for _, stop := range stops {
		stop()
	}
}

func (h *Hub) publish(kind EventType, a annotation.Annotation) {
	data, err := json.Marshal(Event{Type: kind, Annotation: &a, At: time.Now().UTC()})
	if err != nil {
		h.warn("marshal feed event failed", "type", kind, "error", err)
		return
	}

	var slow []*client
	h.mu.Lock()
	// A created event that arrives after its annotation was deleted is
	// stale; the deleted event has already gone out.
	if kind == EventCreated {
		if _, err := h.source.Get(a.ID); err != nil {
			h.mu.Unlock()
			return
		}
	}
	for c := range h.clients {
		select {
		case c.send <- data:
		default:
			close(c.send)
			delete(h.clients, c)
			slow = append(slow, c)
		}
	}
	h.mu.Unlock()

	for _, c := range slow {
		h.warn("dropping slow feed client", "remote", c.conn.RemoteAddr().String())
		c.conn.Close()
	}
}

// writePump writes queued events until the queue is closed or a write fails.
func (h *Hub) writePump(c *client) {
	defer c.conn.Close()
	for data := range c.send {
		_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
			h.debug("websocket write failed", "error", err)
			return
		}
	}
	_ = c.conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseGoingAway, ""),
		time.Now().Add(writeWait))
}

func (h *Hub) drop(c *client) {
	h.mu.Lock()
	_, ok := h.clients[c]
	if ok {
		delete(h.clients, c)
		close(c.send)
	}
	h.mu.Unlock()
	c.conn.Close()
	if ok {
		h.debug("feed client disconnected")
	}
}

func (h *Hub) warn(msg string, args ...any) {
	if h.logger != nil {
		h.logger.Warn(msg, args...)
	}
}

func (h *Hub) debug(msg string, args ...any) {
	if h.logger != nil {
		h.logger.Debug(msg, args...)
	}
}
