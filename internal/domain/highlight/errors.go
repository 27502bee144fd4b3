package highlight

import "errors"

var (
	// ErrUnknownGroup indicates a highlight group was never registered.
	ErrUnknownGroup = errors.New("unknown highlight group")
	// ErrGroupExists indicates a highlight group is already registered.
	ErrGroupExists = errors.New("highlight group already registered")
)
