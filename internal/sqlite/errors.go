package sqlite

import (
	"database/sql"
	"errors"
	"strings"
)

func isNoRows(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}

// isFTSSyntaxError reports a malformed MATCH expression.
func isFTSSyntaxError(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "fts5:") || strings.Contains(msg, "unterminated string")
}
