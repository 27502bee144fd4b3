package transport

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Handlers are the endpoints mounted by NewServer. Nil handlers are skipped.
type Handlers struct {
	// MCP serves the streamable HTTP MCP transport.
	MCP http.Handler
	// Events serves the websocket annotation feed.
	Events http.Handler
}

// NewServer creates an HTTP server router with middleware. /health is
// always public; the other routes go through authMiddleware when set.
func NewServer(h Handlers, authMiddleware func(http.Handler) http.Handler) *chi.Mux {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get("/health", handleHealth)

	r.Group(func(r chi.Router) {
		if authMiddleware != nil {
			r.Use(authMiddleware)
		}
		if h.MCP != nil {
			r.Handle("/mcp", h.MCP)
		}
		if h.Events != nil {
			r.Get("/events", h.Events.ServeHTTP)
		}
	})

	return r
}

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}
