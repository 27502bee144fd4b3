package highlight

// Highlighter renders selections in named groups.
type Highlighter interface {
	// AddGroup registers a group with its style.
	AddGroup(key string, style Style) error
	// HighlightByID replaces the content of a group with sel.
	HighlightByID(key string, sel SelectionMap) error
	// Clear empties a group.
	Clear(key string)
	// Selection returns the current content of a group.
	Selection(key string) SelectionMap
}
