// Package auth holds the static bearer token checks shared by the HTTP
// router and the MCP server.
package auth

import (
	"crypto/subtle"
	"strings"
)

// BearerToken extracts the token from an Authorization header value. The
// scheme is matched case-insensitively; anything else yields "".
func BearerToken(header string) string {
	const prefix = "Bearer "
	if len(header) < len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return ""
	}
	return strings.TrimSpace(header[len(prefix):])
}

// Match reports whether got equals want in constant time. An empty got
// never matches.
func Match(got, want string) bool {
	if got == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(got), []byte(want)) == 1
}
