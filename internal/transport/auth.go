package transport

import (
	"errors"
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/rpggio/bimtodo/internal/auth"
)

// ErrUnauthorized indicates invalid or missing credentials.
var ErrUnauthorized = errors.New("unauthorized")

// AuthMiddleware enforces bearer token authentication against a static token.
// Websocket upgrades may pass ?access_token= instead, since browsers cannot
// set headers on them; every other request must use the Authorization header.
func AuthMiddleware(token string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			got := requestToken(r)
			if got == "" {
				http.Error(w, "missing bearer token", http.StatusUnauthorized)
				return
			}
			if !auth.Match(got, token) {
				http.Error(w, "invalid bearer token", http.StatusUnauthorized)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func requestToken(r *http.Request) string {
	if header := r.Header.Get("Authorization"); header != "" {
		return auth.BearerToken(header)
	}
	if websocket.IsWebSocketUpgrade(r) {
		return r.URL.Query().Get("access_token")
	}
	return ""
}
